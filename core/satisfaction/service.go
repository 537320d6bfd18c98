// Package satisfaction aggregates the customer satisfaction surveys.
package satisfaction

import (
	"context"
	"fmt"

	"github.com/pkg/errors"

	"github.com/alramz/cxdash/core"
	"github.com/alramz/cxdash/core/cache"
)

var ErrNotFound = errors.New("survey not found")

type (
	Repository interface {
		// GetLatestSurvey returns the most recent survey of period or ErrNotFound.
		GetLatestSurvey(ctx context.Context, period core.Period, exec ...core.DBExecutor) (Survey, error)
		// UpsertSurvey creates or replaces the survey of (survey.Period, survey.Date).
		UpsertSurvey(ctx context.Context, survey Survey, exec ...core.DBExecutor) (Survey, error)
	}

	// AverageRecorder stores the weighted averages along the analytics data.
	AverageRecorder interface {
		RecordSatisfaction(ctx context.Context, userID string, period core.Period, avgs Averages) error
	}

	ServiceInterface interface {
		Get(ctx context.Context, period core.Period) (Survey, cache.Source)
		Save(ctx context.Context, userID string, period core.Period, survey Survey) (Survey, bool, error)
	}

	Service struct {
		repo     Repository
		recorder AverageRecorder
		cache    *cache.Cache
		logger   core.Logger
	}
)

var _ ServiceInterface = (*Service)(nil) // interface compliance check

func NewService(repo Repository, recorder AverageRecorder, c *cache.Cache, logger core.Logger) *Service {
	return &Service{repo: repo, recorder: recorder, cache: c, logger: logger}
}

// Get resolves the latest survey of period: remote, then cache, then DefaultSurvey.
func (svc *Service) Get(ctx context.Context, period core.Period) (Survey, cache.Source) {
	fetch := func(ctx context.Context) (Survey, error) {
		s, err := svc.repo.GetLatestSurvey(ctx, period)
		if errors.Cause(err) == ErrNotFound {
			return Survey{}, nil
		}
		return s, err
	}
	isEmpty := func(s Survey) bool { return len(s.Categories) == 0 }
	return cache.Resolve(ctx, svc.cache, Dataset, period, fetch, isEmpty, DefaultSurvey)
}

// Save stores today's survey of period, records its averages and mirrors it into the cache.
// An empty userID means no session: only the cache is written.
func (svc *Service) Save(ctx context.Context, userID string, period core.Period, survey Survey) (Survey, bool, error) {
	survey.Period = period
	survey.Date = core.Today()
	survey.CreatedBy = userID
	survey.CreatedAt = core.NowFunc().UTC()
	survey.Normalize()

	var remote cache.WriteFunc
	if userID != "" {
		remote = func(ctx context.Context) error {
			saved, err := svc.repo.UpsertSurvey(ctx, survey)
			if err != nil {
				return errors.Wrap(err, "upserting survey")
			}
			survey.ID = saved.ID

			if err = svc.recorder.RecordSatisfaction(ctx, userID, period, survey.Averages()); err != nil {
				svc.logger.Error(fmt.Sprintf("recording satisfaction averages (%s): %v", period, err), err)
			}
			return nil
		}
	}
	persisted, err := svc.cache.WriteThrough(ctx, Dataset, period, &survey, remote)
	return survey, persisted, err
}
