package core

import (
	"time"

	"github.com/pkg/errors"
)

// Period is the reporting granularity. Every dataset is partitioned by it.
type Period string

const (
	Weekly Period = "weekly"
	Yearly Period = "yearly"
)

var (
	Periods = []Period{Weekly, Yearly}

	ErrInvalidPeriod = errors.New("invalid period")

	NowFunc = time.Now // mockable
)

func (p Period) IsValid() bool {
	return p == Weekly || p == Yearly
}

func (p Period) String() string { return string(p) }

// ParsePeriod is case-sensitive: only "weekly" and "yearly" are accepted.
func ParsePeriod(s string) (Period, error) {
	p := Period(s)
	if !p.IsValid() {
		return "", errors.Wrapf(ErrInvalidPeriod, "%q", s)
	}
	return p, nil
}

// Today returns the current UTC date as YYYY-MM-DD.
func Today() string {
	return NowFunc().UTC().Format(DateLayout)
}

const DateLayout = "2006-01-02"
