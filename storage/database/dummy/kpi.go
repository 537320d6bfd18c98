package dummydb

import (
	"context"
	"sort"

	"github.com/alramz/cxdash/core"
	"github.com/alramz/cxdash/core/kpi"
)

type metricRepository struct {
	db *metricTable
}

var _ kpi.Repository = (*metricRepository)(nil) // interface compliance check

func NewMetricRepository(db *DB) kpi.Repository {
	return &metricRepository{db: db.metric}
}

// QueryMetrics returns the most recent date first; rows of the same date come newest insert first.
func (repo *metricRepository) QueryMetrics(_ context.Context, filter kpi.QueryFilter, _ ...core.DBExecutor) ([]kpi.Metric, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	metrics := make([]kpi.Metric, 0)
	for i := len(repo.db.rows) - 1; i >= 0; i-- {
		m := repo.db.rows[i]
		if (filter.Period != "" && m.Period != filter.Period) ||
			(filter.Category != "" && m.Category != filter.Category) ||
			(filter.Date != "" && m.Date != filter.Date) {
			continue
		}
		metrics = append(metrics, m)
	}
	sort.SliceStable(metrics, func(i, j int) bool { return metrics[i].Date > metrics[j].Date })

	if filter.Limit > 0 && len(metrics) > filter.Limit {
		metrics = metrics[:filter.Limit]
	}
	return metrics, nil
}

// ReplaceMetrics drops the rows of (period, date, category) then appends metrics, under a single lock.
func (repo *metricRepository) ReplaceMetrics(_ context.Context, period core.Period, date, category string, metrics []kpi.Metric, _ ...core.DBExecutor) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	kept := repo.db.rows[:0]
	for _, m := range repo.db.rows {
		if m.Period == period && m.Date == date && m.Category == category {
			continue
		}
		kept = append(kept, m)
	}
	for _, m := range metrics {
		m.ID = core.NewID()
		m.Period, m.Date, m.Category = period, date, category
		kept = append(kept, m)
	}
	repo.db.rows = kept
	return nil
}
