package satisfaction_test

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alramz/cxdash/core"
	"github.com/alramz/cxdash/core/cache"
	. "github.com/alramz/cxdash/core/satisfaction"
	"github.com/alramz/cxdash/storage/database/dummy"
	"github.com/alramz/cxdash/tests"
)

type recorded struct {
	userID string
	period core.Period
	avgs   Averages
}

type recorderStub struct {
	calls []recorded
	err   error
}

func (r *recorderStub) RecordSatisfaction(_ context.Context, userID string, period core.Period, avgs Averages) error {
	r.calls = append(r.calls, recorded{userID: userID, period: period, avgs: avgs})
	return r.err
}

type testEnv struct {
	svc      *Service
	repo     Repository
	recorder *recorderStub
	logger   *testutil.Logger
}

func setup(t *testing.T) testEnv {
	t.Helper()
	now := time.Date(2024, 5, 6, 9, 30, 0, 0, time.UTC)
	core.NowFunc = func() time.Time { return now }
	t.Cleanup(func() { core.NowFunc = time.Now })

	env := testEnv{
		repo:     dummydb.NewSurveyRepository(dummydb.Open()),
		recorder: new(recorderStub),
		logger:   new(testutil.Logger),
	}
	env.svc = NewService(env.repo, env.recorder, testutil.NewCache(env.logger), env.logger)
	return env
}

func TestService_Get(t *testing.T) {
	ctx := context.Background()
	env := setup(t)

	survey, src := env.svc.Get(ctx, core.Yearly)
	assert.Equal(t, cache.SourceDefault, src)
	assert.Equal(t, DefaultSurvey(core.Yearly), survey)
	assert.Equal(t, "2024-05-06", survey.Date)

	_, err := env.repo.UpsertSurvey(ctx, Survey{
		Period:     core.Yearly,
		Date:       "2024-01-01",
		Categories: []Category{{ID: CategoryClosingTime, Buckets: Buckets{Good: 2}}},
	})
	require.NoError(t, err)

	survey, src = env.svc.Get(ctx, core.Yearly)
	assert.Equal(t, cache.SourceRemote, src)
	assert.Equal(t, "2024-01-01", survey.Date)

	_, src = env.svc.Get(ctx, core.Weekly)
	assert.Equal(t, cache.SourceDefault, src)
}

func TestService_Save(t *testing.T) {
	ctx := context.Background()
	input := Survey{
		Categories: []Category{
			{ID: CategoryServiceQuality, Buckets: Buckets{VeryGood: 3, Good: 1}},
			{ID: CategoryFirstTimeResolution, Buckets: Buckets{VeryBad: 2}},
		},
		Comments: "late technicians",
	}

	t.Run("no session: cache only", func(t *testing.T) {
		env := setup(t)
		_, persisted, err := env.svc.Save(ctx, "", core.Weekly, input)
		assert.False(t, persisted)
		assert.ErrorIs(t, err, core.ErrNoSession)
		assert.Empty(t, env.recorder.calls)

		survey, src := env.svc.Get(ctx, core.Weekly)
		assert.Equal(t, cache.SourceCache, src)
		assert.Equal(t, "late technicians", survey.Comments)
		require.Len(t, survey.Categories, 3)
		assert.Empty(t, survey.ID)
	})

	t.Run("persisted and averages recorded", func(t *testing.T) {
		env := setup(t)
		saved, persisted, err := env.svc.Save(ctx, "user-1", core.Weekly, input)
		assert.True(t, persisted)
		assert.NoError(t, err)
		assert.NotEmpty(t, saved.ID)
		assert.Len(t, saved.Categories, len(CategoryIDs))

		survey, src := env.svc.Get(ctx, core.Weekly)
		assert.Equal(t, cache.SourceRemote, src)
		assert.NotEmpty(t, survey.ID)
		assert.Equal(t, "user-1", survey.CreatedBy)
		assert.Equal(t, "2024-05-06", survey.Date)

		ids := make([]string, 0, len(survey.Categories))
		for _, c := range survey.Categories {
			ids = append(ids, c.ID)
			assert.NotEmpty(t, c.Title)
		}
		assert.Equal(t, CategoryIDs, ids)
		assert.Equal(t, 0, survey.Category(CategoryClosingTime).Buckets.Total())

		require.Len(t, env.recorder.calls, 1)
		call := env.recorder.calls[0]
		assert.Equal(t, "user-1", call.userID)
		assert.Equal(t, core.Weekly, call.period)
		assert.InDelta(t, 20, call.avgs.FirstTimeResolution, 1e-9)
		assert.InDelta(t, 0, call.avgs.ClosingTime, 1e-9)
		assert.InDelta(t, 95, call.avgs.ServiceQuality, 1e-9)
	})

	t.Run("same day replaces", func(t *testing.T) {
		env := setup(t)
		_, _, err := env.svc.Save(ctx, "user-1", core.Weekly, input)
		require.NoError(t, err)
		first, _ := env.svc.Get(ctx, core.Weekly)

		_, _, err = env.svc.Save(ctx, "user-2", core.Weekly, Survey{Comments: "all good"})
		require.NoError(t, err)
		second, src := env.svc.Get(ctx, core.Weekly)
		assert.Equal(t, cache.SourceRemote, src)
		assert.Equal(t, first.ID, second.ID)
		assert.Equal(t, "all good", second.Comments)
		assert.Equal(t, "user-2", second.CreatedBy)
	})

	t.Run("recorder failure is logged only", func(t *testing.T) {
		env := setup(t)
		env.recorder.err = errors.New("analytics down")
		_, persisted, err := env.svc.Save(ctx, "user-1", core.Yearly, input)
		assert.True(t, persisted)
		assert.NoError(t, err)
		assert.Equal(t, 1, env.logger.Count("ERROR"))
	})
}

func TestScores(t *testing.T) {
	survey := Survey{Categories: []Category{
		{ID: CategoryServiceQuality, Title: "Service quality", Buckets: Buckets{VeryGood: 3, Good: 1, Bad: 1}},
		{ID: CategoryClosingTime, Title: "Closing time"},
	}}
	scores := Scores(survey)
	require.Len(t, scores, 2)

	assert.Equal(t, 5, scores[0].Responses)
	assert.InDelta(t, 80, scores[0].Positive, 1e-9)
	assert.Equal(t, "80.0%", scores[0].PositiveLabel)
	assert.InDelta(t, 84, scores[0].Weighted, 1e-9)

	assert.Equal(t, 0, scores[1].Responses)
	assert.Equal(t, "0%", scores[1].PositiveLabel)
}
