package kpi_test

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alramz/cxdash/core"
	"github.com/alramz/cxdash/core/cache"
	. "github.com/alramz/cxdash/core/kpi"
	"github.com/alramz/cxdash/storage/database/dummy"
	"github.com/alramz/cxdash/tests"
)

type failingRepo struct{}

func (failingRepo) QueryMetrics(context.Context, QueryFilter, ...core.DBExecutor) ([]Metric, error) {
	return nil, errors.New("connection refused")
}

func (failingRepo) ReplaceMetrics(context.Context, core.Period, string, string, []Metric, ...core.DBExecutor) error {
	return errors.New("connection refused")
}

func float(f float64) *float64 { return &f }

func setup(t *testing.T, repo ...Repository) (*Service, Repository) {
	t.Helper()
	now := time.Date(2024, 5, 6, 9, 30, 0, 0, time.UTC)
	core.NowFunc = func() time.Time { return now }
	t.Cleanup(func() { core.NowFunc = time.Now })

	r := Repository(dummydb.NewMetricRepository(dummydb.Open()))
	if len(repo) > 0 {
		r = repo[0]
	}
	return NewService(r, testutil.NewCache(new(testutil.Logger))), r
}

func names(metrics []Metric) []string {
	out := make([]string, 0, len(metrics))
	for _, m := range metrics {
		out = append(out, m.Name)
	}
	return out
}

func TestDefaultMetrics(t *testing.T) {
	for _, period := range core.Periods {
		metrics := DefaultMetrics(period)
		require.Len(t, metrics, len(Names))
		for i, m := range metrics {
			assert.Equal(t, Names[i], m.Name)
			assert.Equal(t, period, m.Period)
			assert.Equal(t, CategoryPerformance, m.Category)
			assert.Equal(t, m.Value >= m.Goal, m.Achieved, m.Name)
		}
	}
	assert.Empty(t, DefaultMetrics("monthly"))
}

func TestService_Query(t *testing.T) {
	ctx := context.Background()

	t.Run("defaults", func(t *testing.T) {
		svc, _ := setup(t)
		metrics, src := svc.Query(ctx, core.Weekly)
		assert.Equal(t, cache.SourceDefault, src)
		assert.Equal(t, DefaultMetrics(core.Weekly), metrics)
	})

	t.Run("remote down: defaults", func(t *testing.T) {
		svc, _ := setup(t, failingRepo{})
		metrics, src := svc.Query(ctx, core.Yearly)
		assert.Equal(t, cache.SourceDefault, src)
		assert.Len(t, metrics, len(Names))
	})

	t.Run("remote rows only of period and category", func(t *testing.T) {
		svc, repo := setup(t)
		require.NoError(t, repo.ReplaceMetrics(ctx, core.Weekly, "2024-05-01", CategoryPerformance, []Metric{{Name: CSAT, Value: 80, Goal: 70}}))
		require.NoError(t, repo.ReplaceMetrics(ctx, core.Weekly, "2024-05-01", "operations", []Metric{{Name: "other"}}))
		require.NoError(t, repo.ReplaceMetrics(ctx, core.Yearly, "2024-05-01", CategoryPerformance, []Metric{{Name: ResponseTime}}))

		metrics, src := svc.Query(ctx, core.Weekly)
		assert.Equal(t, cache.SourceRemote, src)
		assert.Equal(t, []string{CSAT}, names(metrics))
	})
}

func TestService_Save(t *testing.T) {
	ctx := context.Background()

	t.Run("nothing to save", func(t *testing.T) {
		svc, _ := setup(t)
		_, persisted, err := svc.Save(ctx, "user-1", core.Weekly, SaveMetrics{})
		assert.False(t, persisted)
		assert.NoError(t, err)
	})

	t.Run("no session: cache only", func(t *testing.T) {
		svc, repo := setup(t)
		saved, persisted, err := svc.Save(ctx, "", core.Weekly, SaveMetrics{
			Metrics: []NewMetric{{Name: CSAT, Value: float(60), Goal: float(70)}},
		})
		assert.False(t, persisted)
		assert.ErrorIs(t, err, core.ErrNoSession)
		require.Len(t, saved, 1)
		assert.Equal(t, "2024-05-06", saved[0].Date)
		assert.Equal(t, CategoryPerformance, saved[0].Category)
		assert.False(t, saved[0].Achieved)

		rows, err := repo.QueryMetrics(ctx, QueryFilter{})
		require.NoError(t, err)
		assert.Empty(t, rows)

		metrics, src := svc.Query(ctx, core.Weekly)
		assert.Equal(t, cache.SourceCache, src)
		require.Len(t, metrics, 1)
		assert.Equal(t, "2024-05-06", metrics[0].Date)
		assert.False(t, metrics[0].Achieved)
		assert.Empty(t, metrics[0].CreatedBy)
	})

	t.Run("remote failure: cache only", func(t *testing.T) {
		svc, _ := setup(t, failingRepo{})
		saved, persisted, err := svc.Save(ctx, "user-1", core.Yearly, SaveMetrics{
			Metrics: []NewMetric{{Name: CSAT, Value: float(80), Goal: float(70)}},
		})
		assert.False(t, persisted)
		assert.Error(t, err)
		require.Len(t, saved, 1)
		assert.True(t, saved[0].Achieved)

		metrics, src := svc.Query(ctx, core.Yearly)
		assert.Equal(t, cache.SourceCache, src)
		require.Len(t, metrics, 1)
		assert.True(t, metrics[0].Achieved)
	})

	t.Run("persisted replaces the date's metrics", func(t *testing.T) {
		svc, repo := setup(t)
		_, persisted, err := svc.Save(ctx, "user-1", core.Weekly, SaveMetrics{
			Date: "2024-05-01",
			Metrics: []NewMetric{
				{Name: CSAT, Value: float(80), Goal: float(70), Change: 2.5},
				{Name: ResponseTime, Value: float(3), Goal: float(3)},
			},
		})
		assert.True(t, persisted)
		assert.NoError(t, err)

		_, persisted, err = svc.Save(ctx, "user-2", core.Weekly, SaveMetrics{
			Date:    "2024-05-01",
			Metrics: []NewMetric{{Name: ConversionRate, Value: float(1), Goal: float(2)}},
		})
		assert.True(t, persisted)
		assert.NoError(t, err)

		rows, err := repo.QueryMetrics(ctx, QueryFilter{Period: core.Weekly, Date: "2024-05-01"})
		require.NoError(t, err)
		assert.Equal(t, []string{ConversionRate}, names(rows))

		metrics, src := svc.Query(ctx, core.Weekly)
		assert.Equal(t, cache.SourceRemote, src)
		require.Len(t, metrics, 1)
		assert.Equal(t, "user-2", metrics[0].CreatedBy)
		assert.False(t, metrics[0].Achieved)
		assert.NotEmpty(t, metrics[0].ID)
	})
}

func TestService_Evaluate(t *testing.T) {
	ctx := context.Background()
	svc, _ := setup(t)

	_, _, err := svc.Save(ctx, "user-1", core.Weekly, SaveMetrics{
		Metrics: []NewMetric{
			{Name: CSAT, Value: float(80), Goal: float(70)},
			{Name: CallResponseRate, Value: float(75), Goal: float(80)},
			{Name: DeliveryQuality, Value: float(50), Goal: float(100)},
		},
	})
	require.NoError(t, err)

	evals, src := svc.Evaluate(ctx, core.Weekly)
	assert.Equal(t, cache.SourceRemote, src)
	require.Len(t, evals, 3)

	byName := make(map[string]Evaluation)
	for _, ev := range evals {
		byName[ev.Metric.Name] = ev.Evaluation
	}
	assert.Equal(t, LabelGoalMet, byName[CSAT].StatusLabel)
	assert.Equal(t, LabelNearGoal, byName[CallResponseRate].StatusLabel)
	assert.Equal(t, LabelGoalMissed, byName[DeliveryQuality].StatusLabel)
}
