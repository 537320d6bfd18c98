// Package kpi evaluates and stores the weekly and yearly performance metrics.
package kpi

import (
	"context"

	"github.com/alramz/cxdash/core"
	"github.com/alramz/cxdash/core/cache"
)

type (
	QueryFilter struct {
		Period   core.Period
		Category string
		Date     string
		Limit    int
	}

	Repository interface {
		// QueryMetrics returns the matching metrics, most recent date first.
		QueryMetrics(ctx context.Context, filter QueryFilter, exec ...core.DBExecutor) ([]Metric, error)
		// ReplaceMetrics deletes the metrics of (period, date, category) then inserts metrics, in one transaction.
		ReplaceMetrics(ctx context.Context, period core.Period, date, category string, metrics []Metric, exec ...core.DBExecutor) error
	}

	ServiceInterface interface {
		Query(ctx context.Context, period core.Period) ([]Metric, cache.Source)
		Evaluate(ctx context.Context, period core.Period) ([]MetricEvaluation, cache.Source)
		Save(ctx context.Context, userID string, period core.Period, data SaveMetrics) ([]Metric, bool, error)
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

// Query resolves the latest metrics of period: remote, then cache, then DefaultMetrics.
func (svc *Service) Query(ctx context.Context, period core.Period) ([]Metric, cache.Source) {
	fetch := func(ctx context.Context) ([]Metric, error) {
		return svc.repo.QueryMetrics(ctx, QueryFilter{Period: period, Category: CategoryPerformance, Limit: recentLimit})
	}
	isEmpty := func(metrics []Metric) bool { return len(metrics) == 0 }
	return cache.Resolve(ctx, svc.cache, Dataset, period, fetch, isEmpty, DefaultMetrics)
}

func (svc *Service) Evaluate(ctx context.Context, period core.Period) ([]MetricEvaluation, cache.Source) {
	metrics, src := svc.Query(ctx, period)
	evals := make([]MetricEvaluation, 0, len(metrics))
	for _, m := range metrics {
		evals = append(evals, MetricEvaluation{Metric: m, Evaluation: Evaluate(m.Value, m.Goal)})
	}
	return evals, src
}

// Save replaces the metrics of (period, date) and mirrors them into the cache.
// An empty userID means no session: only the cache is written.
// The returned error tells why the metrics were not persisted and is never fatal.
func (svc *Service) Save(ctx context.Context, userID string, period core.Period, data SaveMetrics) ([]Metric, bool, error) {
	if len(data.Metrics) == 0 {
		return nil, false, nil
	}
	date := data.Date
	if date == "" {
		date = core.Today()
	}

	now := core.NowFunc().UTC()
	metrics := make([]Metric, 0, len(data.Metrics))
	for _, nm := range data.Metrics {
		var value, goal float64
		if nm.Value != nil {
			value = *nm.Value
		}
		if nm.Goal != nil {
			goal = *nm.Goal
		}
		metrics = append(metrics, Metric{
			Name:      nm.Name,
			Period:    period,
			Date:      date,
			Category:  CategoryPerformance,
			Value:     value,
			Goal:      goal,
			Change:    nm.Change,
			Achieved:  Evaluate(value, goal).Achieved,
			CreatedBy: userID,
			CreatedAt: now,
		})
	}

	var remote cache.WriteFunc
	if userID != "" {
		remote = func(ctx context.Context) error {
			return svc.repo.ReplaceMetrics(ctx, period, date, CategoryPerformance, metrics)
		}
	}
	persisted, err := svc.cache.WriteThrough(ctx, Dataset, period, metrics, remote)
	return metrics, persisted, err
}
