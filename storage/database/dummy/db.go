// Package dummydb holds in-memory repositories used by the tests and the DEV server without a database.
package dummydb

import (
	"strings"
	"sync"
	"time"

	"github.com/alramz/cxdash/core"
	"github.com/alramz/cxdash/core/analytics"
	"github.com/alramz/cxdash/core/complaint"
	"github.com/alramz/cxdash/core/kpi"
	"github.com/alramz/cxdash/core/reservation"
	"github.com/alramz/cxdash/core/satisfaction"
	"github.com/alramz/cxdash/core/user"
)

type (
	DB struct {
		user        *userTable
		metric      *metricTable
		survey      *surveyTable
		analytics   *analyticsTable
		complaint   *complaintTable
		reservation *reservationTable
	}

	userTable struct {
		sync.RWMutex
		table map[string]*user.User
	}

	// metricTable keeps insertion order: rows is the table, the slice index is the row position.
	metricTable struct {
		sync.RWMutex
		rows []kpi.Metric
	}

	surveyTable struct {
		sync.RWMutex
		rows []satisfaction.Survey
	}

	analyticsTable struct {
		sync.RWMutex
		rows []analytics.Record
	}

	complaintTable struct {
		sync.RWMutex
		table map[string]*complaint.Complaint
	}

	reservationTable struct {
		sync.RWMutex
		table map[string]*reservation.Reservation
	}
)

func Open() *DB {
	return &DB{
		user:        &userTable{table: make(map[string]*user.User)},
		metric:      &metricTable{},
		survey:      &surveyTable{},
		analytics:   &analyticsTable{},
		complaint:   &complaintTable{table: make(map[string]*complaint.Complaint)},
		reservation: &reservationTable{table: make(map[string]*reservation.Reservation)},
	}
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

func containsString(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}

// compareStrings returns -1, 0 or 1.
func compareStrings(a, b string) int {
	return strings.Compare(a, b)
}

// less applies the orderings in turn: the first one that tells a and b apart wins.
// cmp returns the comparison of a and b on field.
func less(ordering []core.DBOrdering, cmp func(field string) int) bool {
	for _, ord := range ordering {
		c := cmp(ord.Field)
		if c == 0 {
			continue
		}
		if ord.Ascending {
			return c < 0
		}
		return c > 0
	}
	return false
}

func compareTimes(a, b time.Time) int {
	switch {
	case a.Before(b):
		return -1
	case a.After(b):
		return 1
	}
	return 0
}
