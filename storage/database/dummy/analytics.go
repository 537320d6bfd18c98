package dummydb

import (
	"context"

	"github.com/alramz/cxdash/core"
	"github.com/alramz/cxdash/core/analytics"
)

type analyticsRepository struct {
	db *analyticsTable
}

var _ analytics.Repository = (*analyticsRepository)(nil) // interface compliance check

func NewAnalyticsRepository(db *DB) analytics.Repository {
	return &analyticsRepository{db: db.analytics}
}

// GetLatestRecord picks the most recent date; the last inserted record wins a tie.
func (repo *analyticsRepository) GetLatestRecord(_ context.Context, period core.Period, _ ...core.DBExecutor) (analytics.Record, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	idx := -1
	for i, rec := range repo.db.rows {
		if rec.Period == period && (idx < 0 || rec.Date >= repo.db.rows[idx].Date) {
			idx = i
		}
	}
	if idx < 0 {
		return analytics.Record{}, analytics.ErrNotFound
	}
	return repo.db.rows[idx], nil
}

func (repo *analyticsRepository) CreateRecord(_ context.Context, rec analytics.Record, _ ...core.DBExecutor) (analytics.Record, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	rec.ID = core.NewID()
	repo.db.rows = append(repo.db.rows, rec)
	return rec, nil
}

func (repo *analyticsRepository) UpdateRecord(_ context.Context, rec analytics.Record, _ ...core.DBExecutor) (analytics.Record, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	for i := range repo.db.rows {
		if repo.db.rows[i].ID == rec.ID {
			repo.db.rows[i] = rec
			return rec, nil
		}
	}
	return analytics.Record{}, analytics.ErrNotFound
}
