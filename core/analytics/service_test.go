package analytics_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alramz/cxdash/core"
	. "github.com/alramz/cxdash/core/analytics"
	"github.com/alramz/cxdash/core/cache"
	"github.com/alramz/cxdash/core/satisfaction"
	"github.com/alramz/cxdash/storage/database/dummy"
	"github.com/alramz/cxdash/tests"
)

func setup(t *testing.T) (*Service, Repository) {
	t.Helper()
	now := time.Date(2024, 5, 6, 9, 30, 0, 0, time.UTC)
	core.NowFunc = func() time.Time { return now }
	t.Cleanup(func() { core.NowFunc = time.Now })

	repo := dummydb.NewAnalyticsRepository(dummydb.Open())
	return NewService(repo, testutil.NewCache(new(testutil.Logger))), repo
}

func calls(values ...int) ServiceCategory {
	ids := []string{
		CallComplaints, CallContactRequests, CallMaintenanceRequests, CallInquiries,
		CallOfficeAppointments, CallProjectAppointments, CallInterestedClients,
	}
	c := ServiceCategory{ID: CategoryCalls}
	for i, v := range values {
		c.Metrics = append(c.Metrics, Item{ID: ids[i], Value: v})
	}
	return c
}

func TestDefaultServiceData(t *testing.T) {
	categories := DefaultServiceData(core.Weekly)
	require.Len(t, categories, 3)
	assert.Equal(t, CategoryCalls, categories[0].ID)
	assert.Equal(t, 307, categories[0].Total())
	assert.Equal(t, CategoryInquiries, categories[1].ID)
	assert.Equal(t, 58, categories[1].Total())
	assert.Equal(t, CategoryMaintenance, categories[2].ID)
	assert.Equal(t, 65, categories[2].Total())

	yearly, _ := FindCategory(DefaultServiceData(core.Yearly), CategoryMaintenance)
	assert.Equal(t, 550, yearly.Value("resolved"))
}

func TestService_ServiceData(t *testing.T) {
	ctx := context.Background()
	svc, repo := setup(t)

	categories, src := svc.ServiceData(ctx, core.Weekly)
	assert.Equal(t, cache.SourceDefault, src)
	assert.Equal(t, DefaultServiceData(core.Weekly), categories)

	_, err := repo.CreateRecord(ctx, Record{Period: core.Weekly, Date: "2024-05-01", CallComplaints: 4, CallGuestAppointments: 9})
	require.NoError(t, err)

	categories, src = svc.ServiceData(ctx, core.Weekly)
	assert.Equal(t, cache.SourceRemote, src)
	require.Len(t, categories, 3)
	assert.Equal(t, 4, categories[0].Value(CallComplaints))
	assert.Equal(t, 9, categories[0].Value(CallInterestedClients))
	assert.Equal(t, 13, categories[0].Total())
	assert.Equal(t, DefaultServiceData(core.Weekly)[1:], categories[1:])
}

func TestService_SaveServiceData(t *testing.T) {
	ctx := context.Background()

	t.Run("calls required", func(t *testing.T) {
		svc, _ := setup(t)
		persisted, err := svc.SaveServiceData(ctx, "user-1", core.Weekly, []ServiceCategory{{ID: CategoryInquiries}})
		assert.False(t, persisted)
		var verr *core.ValidationError
		require.ErrorAs(t, err, &verr)

		_, src := svc.ServiceData(ctx, core.Weekly)
		assert.Equal(t, cache.SourceDefault, src, "nothing is cached")
	})

	t.Run("no session: cache only", func(t *testing.T) {
		svc, repo := setup(t)
		input := []ServiceCategory{calls(1, 2, 3)}
		persisted, err := svc.SaveServiceData(ctx, "", core.Yearly, input)
		assert.False(t, persisted)
		assert.ErrorIs(t, err, core.ErrNoSession)

		_, err = repo.GetLatestRecord(ctx, core.Yearly)
		assert.ErrorIs(t, err, ErrNotFound)

		categories, src := svc.ServiceData(ctx, core.Yearly)
		assert.Equal(t, cache.SourceCache, src)
		assert.Equal(t, input, categories)
	})

	t.Run("persisted", func(t *testing.T) {
		svc, repo := setup(t)
		persisted, err := svc.SaveServiceData(ctx, "user-1", core.Weekly, []ServiceCategory{calls(5, 6, 7, 8, 9, 10, 11)})
		assert.True(t, persisted)
		assert.NoError(t, err)

		rec, err := repo.GetLatestRecord(ctx, core.Weekly)
		require.NoError(t, err)
		assert.Equal(t, "2024-05-06", rec.Date)
		assert.Equal(t, "user-1", rec.CreatedBy)
		assert.Equal(t, 5, rec.CallComplaints)
		assert.Equal(t, 11, rec.CallGuestAppointments)

		categories, src := svc.ServiceData(ctx, core.Weekly)
		assert.Equal(t, cache.SourceRemote, src)
		assert.Equal(t, 56, categories[0].Total())
	})
}

func TestService_RecordSatisfaction(t *testing.T) {
	ctx := context.Background()
	avgs := satisfaction.Averages{FirstTimeResolution: 70, ClosingTime: 65.5, ServiceQuality: 90}

	t.Run("creates a zeroed record", func(t *testing.T) {
		svc, _ := setup(t)
		require.NoError(t, svc.RecordSatisfaction(ctx, "user-1", core.Weekly, avgs))

		rec, err := svc.Latest(ctx, core.Weekly)
		require.NoError(t, err)
		assert.Equal(t, 0, rec.CallComplaints)
		assert.Equal(t, 65.5, rec.SatisfactionClosingTime)
		assert.Equal(t, "user-1", rec.CreatedBy)
	})

	t.Run("updates the latest record", func(t *testing.T) {
		svc, repo := setup(t)
		created, err := repo.CreateRecord(ctx, Record{Period: core.Weekly, Date: "2024-05-01", CallComplaints: 3, CreatedBy: "user-0"})
		require.NoError(t, err)

		require.NoError(t, svc.RecordSatisfaction(ctx, "user-1", core.Weekly, avgs))

		rec, err := svc.Latest(ctx, core.Weekly)
		require.NoError(t, err)
		assert.Equal(t, created.ID, rec.ID)
		assert.Equal(t, 3, rec.CallComplaints)
		assert.Equal(t, 90.0, rec.SatisfactionServiceQuality)
		assert.Equal(t, 70.0, rec.SatisfactionFirstTimeResolution)
		assert.Equal(t, "user-0", rec.CreatedBy)
	})
}
