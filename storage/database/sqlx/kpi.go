package sqlxrepos

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/alramz/cxdash/core"
	"github.com/alramz/cxdash/core/kpi"
)

const metricColumns = "id, name, period, date::text AS date, category, value, goal, change, achieved, created_by, created_at"

type metricRow struct {
	ID        string    `db:"id"`
	Name      string    `db:"name"`
	Period    string    `db:"period"`
	Date      string    `db:"date"`
	Category  string    `db:"category"`
	Value     float64   `db:"value"`
	Goal      float64   `db:"goal"`
	Change    float64   `db:"change"`
	Achieved  bool      `db:"achieved"`
	CreatedBy string    `db:"created_by"`
	CreatedAt time.Time `db:"created_at"`
}

func (row metricRow) metric() kpi.Metric {
	return kpi.Metric{
		ID:        row.ID,
		Name:      row.Name,
		Period:    core.Period(row.Period),
		Date:      row.Date,
		Category:  row.Category,
		Value:     row.Value,
		Goal:      row.Goal,
		Change:    row.Change,
		Achieved:  row.Achieved,
		CreatedBy: row.CreatedBy,
		CreatedAt: row.CreatedAt.UTC(),
	}
}

type metricRepository struct {
	base
}

var _ kpi.Repository = (*metricRepository)(nil) // interface compliance check

func NewMetricRepository(db *sqlx.DB) kpi.Repository {
	return &metricRepository{base{db: db}}
}

func (repo metricRepository) QueryMetrics(ctx context.Context, filter kpi.QueryFilter, exec ...core.DBExecutor) ([]kpi.Metric, error) {
	var cond conditions
	if filter.Period != "" {
		cond.add("period = ?", string(filter.Period))
	}
	if filter.Category != "" {
		cond.add("category = ?", filter.Category)
	}
	if filter.Date != "" {
		cond.add("date = ?", filter.Date)
	}

	q := "SELECT " + metricColumns + " FROM metrics" + cond.where() + " ORDER BY metrics.date DESC, created_at DESC"
	if filter.Limit > 0 {
		q += " LIMIT ?"
		cond.args = append(cond.args, filter.Limit)
	}

	var rows []metricRow
	if err := selectRows(ctx, repo.getExec(exec), &rows, q, cond.args...); err != nil {
		return nil, errors.Wrap(err, "querying metrics")
	}
	metrics := make([]kpi.Metric, 0, len(rows))
	for _, row := range rows {
		metrics = append(metrics, row.metric())
	}
	return metrics, nil
}

// ReplaceMetrics selects the ids of (period, date, category), deletes them, then inserts metrics.
// Concurrent writers are not coordinated: the last one to commit wins.
func (repo metricRepository) ReplaceMetrics(ctx context.Context, period core.Period, date, category string, metrics []kpi.Metric, exec ...core.DBExecutor) error {
	return repo.inTx(ctx, exec, func(tx core.DBExecutor) error {
		var ids []struct {
			ID string `db:"id"`
		}
		q := "SELECT id FROM metrics WHERE period = ? AND date = ? AND category = ?"
		if err := selectRows(ctx, tx, &ids, q, string(period), date, category); err != nil {
			return errors.Wrap(err, "selecting existing metrics")
		}

		if len(ids) > 0 {
			del := make([]string, 0, len(ids))
			for _, row := range ids {
				del = append(del, row.ID)
			}
			if _, err := execQuery(ctx, tx, "DELETE FROM metrics WHERE id IN (?)", del); err != nil {
				return errors.Wrap(err, "deleting metrics")
			}
		}

		ins := `INSERT INTO metrics (id, name, period, date, category, value, goal, change, achieved, created_by, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
		for _, m := range metrics {
			_, err := execQuery(ctx, tx, ins,
				core.NewID(), m.Name, string(period), date, category, m.Value, m.Goal, m.Change, m.Achieved, m.CreatedBy, m.CreatedAt.UTC())
			if err != nil {
				return errors.Wrap(err, "inserting metric")
			}
		}
		return nil
	})
}
