// Package analytics stores the call counts and the satisfaction averages per period.
package analytics

import (
	"context"

	"github.com/pkg/errors"

	"github.com/alramz/cxdash/core"
	"github.com/alramz/cxdash/core/cache"
	"github.com/alramz/cxdash/core/satisfaction"
)

var (
	ErrNotFound = errors.New("analytics record not found")

	errCallsRequired = "calls category is required"
)

type (
	Repository interface {
		// GetLatestRecord returns the most recent record of period or ErrNotFound.
		GetLatestRecord(ctx context.Context, period core.Period, exec ...core.DBExecutor) (Record, error)
		CreateRecord(ctx context.Context, rec Record, exec ...core.DBExecutor) (Record, error)
		UpdateRecord(ctx context.Context, rec Record, exec ...core.DBExecutor) (Record, error)
	}

	ServiceInterface interface {
		satisfaction.AverageRecorder

		ServiceData(ctx context.Context, period core.Period) ([]ServiceCategory, cache.Source)
		SaveServiceData(ctx context.Context, userID string, period core.Period, categories []ServiceCategory) (bool, error)
		Latest(ctx context.Context, period core.Period) (Record, error)
	}

	Service struct {
		repo  Repository
		cache *cache.Cache
	}
)

var _ ServiceInterface = (*Service)(nil) // interface compliance check

func NewService(repo Repository, c *cache.Cache) *Service {
	return &Service{repo: repo, cache: c}
}

// ServiceData resolves the service categories of period: remote, then cache, then DefaultServiceData.
// Only the calls are stored remotely, the other categories come from the defaults.
func (svc *Service) ServiceData(ctx context.Context, period core.Period) ([]ServiceCategory, cache.Source) {
	fetch := func(ctx context.Context) ([]ServiceCategory, error) {
		rec, err := svc.repo.GetLatestRecord(ctx, period)
		if err != nil {
			if errors.Cause(err) == ErrNotFound {
				return nil, nil
			}
			return nil, err
		}
		return []ServiceCategory{
			rec.CallsCategory(),
			defaultCategory(period, CategoryInquiries),
			defaultCategory(period, CategoryMaintenance),
		}, nil
	}
	isEmpty := func(categories []ServiceCategory) bool { return len(categories) == 0 }
	return cache.Resolve(ctx, svc.cache, Dataset, period, fetch, isEmpty, DefaultServiceData)
}

// ValidateServiceData checks that the calls category is present.
func ValidateServiceData(categories []ServiceCategory) error {
	if _, ok := FindCategory(categories, CategoryCalls); !ok {
		return core.NewValidationError(nil, core.FieldError{Field: "categories", Error: errCallsRequired})
	}
	return nil
}

// SaveServiceData inserts a new record holding the call counts and mirrors categories into the cache.
// An empty userID means no session: only the cache is written.
func (svc *Service) SaveServiceData(ctx context.Context, userID string, period core.Period, categories []ServiceCategory) (bool, error) {
	if err := ValidateServiceData(categories); err != nil {
		return false, err
	}
	calls, _ := FindCategory(categories, CategoryCalls)

	var remote cache.WriteFunc
	if userID != "" {
		remote = func(ctx context.Context) error {
			rec := Record{
				Period:    period,
				Date:      core.Today(),
				CreatedBy: userID,
				CreatedAt: core.NowFunc().UTC(),
			}
			rec.setCalls(calls)
			_, err := svc.repo.CreateRecord(ctx, rec)
			return errors.Wrap(err, "creating analytics record")
		}
	}
	return svc.cache.WriteThrough(ctx, Dataset, period, categories, remote)
}

// RecordSatisfaction sets the averages on the latest record of period, or on a new zeroed record when there is none.
func (svc *Service) RecordSatisfaction(ctx context.Context, userID string, period core.Period, avgs satisfaction.Averages) error {
	rec, err := svc.repo.GetLatestRecord(ctx, period)
	if err != nil && errors.Cause(err) != ErrNotFound {
		return errors.Wrap(err, "getting latest analytics record")
	}

	rec.SatisfactionServiceQuality = avgs.ServiceQuality
	rec.SatisfactionClosingTime = avgs.ClosingTime
	rec.SatisfactionFirstTimeResolution = avgs.FirstTimeResolution

	if err == nil {
		_, err = svc.repo.UpdateRecord(ctx, rec)
		return errors.Wrap(err, "updating analytics record")
	}

	rec.Period = period
	rec.Date = core.Today()
	rec.CreatedBy = userID
	rec.CreatedAt = core.NowFunc().UTC()
	_, err = svc.repo.CreateRecord(ctx, rec)
	return errors.Wrap(err, "creating analytics record")
}

func (svc *Service) Latest(ctx context.Context, period core.Period) (Record, error) {
	return svc.repo.GetLatestRecord(ctx, period)
}
