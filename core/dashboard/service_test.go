package dashboard_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alramz/cxdash/core"
	"github.com/alramz/cxdash/core/analytics"
	"github.com/alramz/cxdash/core/cache"
	. "github.com/alramz/cxdash/core/dashboard"
	"github.com/alramz/cxdash/core/kpi"
	"github.com/alramz/cxdash/core/satisfaction"
	"github.com/alramz/cxdash/core/user"
	appfs "github.com/alramz/cxdash/fs"
	"github.com/alramz/cxdash/services/email"
	"github.com/alramz/cxdash/storage/database/dummy"
	"github.com/alramz/cxdash/tests"
)

type recipientsStub struct {
	users []user.User
	err   error
}

func (r recipientsStub) QueryReportRecipients(context.Context) ([]user.User, error) {
	return r.users, r.err
}

type testEnv struct {
	svc        *Service
	metricSvc  *kpi.Service
	recipients *recipientsStub
}

func setup(t *testing.T) testEnv {
	t.Helper()
	now := time.Date(2024, 5, 6, 9, 30, 0, 0, time.UTC)
	core.NowFunc = func() time.Time { return now }
	t.Cleanup(func() { core.NowFunc = time.Now })

	conf := core.NewTestConfig()
	logger := new(testutil.Logger)
	core.ParseEmailTemplates(conf, appfs.FS, appfs.EmailTemplatesDir, logger)
	emailsvc.ResetSentMessages()

	db := dummydb.Open()
	c := testutil.NewCache(logger)
	analyticsSvc := analytics.NewService(dummydb.NewAnalyticsRepository(db), c)

	env := testEnv{
		metricSvc:  kpi.NewService(dummydb.NewMetricRepository(db), c),
		recipients: new(recipientsStub),
	}
	env.svc = NewService(
		env.metricSvc,
		satisfaction.NewService(dummydb.NewSurveyRepository(db), analyticsSvc, c, logger),
		analyticsSvc,
		env.recipients,
		emailsvc.NewConsoleServiceMock(conf, logger),
	)
	return env
}

func TestService_Summary(t *testing.T) {
	ctx := context.Background()
	env := setup(t)

	sum := env.svc.Summary(ctx, core.Weekly)
	assert.Equal(t, core.Weekly, sum.Period)
	assert.Equal(t, "2024-05-06", sum.Date)
	assert.Equal(t, cache.SourceDefault, sum.MetricsSource)
	assert.Len(t, sum.Metrics, len(kpi.Names))
	assert.Equal(t, cache.SourceDefault, sum.SatisfactionSource)
	assert.Len(t, sum.Satisfaction, len(satisfaction.CategoryIDs))
	assert.Equal(t, cache.SourceDefault, sum.ServiceSource)
	assert.Equal(t, []ServiceTotal{
		{ID: analytics.CategoryCalls, Title: "Calls", Total: 307},
		{ID: analytics.CategoryInquiries, Title: "Inquiries", Total: 58},
		{ID: analytics.CategoryMaintenance, Title: "Maintenance requests", Total: 65},
	}, sum.Services)

	value, goal := 50.0, 70.0
	_, _, err := env.metricSvc.Save(ctx, "user-1", core.Weekly, kpi.SaveMetrics{
		Metrics: []kpi.NewMetric{{Name: kpi.CSAT, Value: &value, Goal: &goal}},
	})
	require.NoError(t, err)

	sum = env.svc.Summary(ctx, core.Weekly)
	assert.Equal(t, cache.SourceRemote, sum.MetricsSource)
	require.Len(t, sum.Metrics, 1)
	assert.Equal(t, kpi.LabelGoalMissed, sum.Metrics[0].Evaluation.StatusLabel)
}

func TestService_SendReport(t *testing.T) {
	ctx := context.Background()

	t.Run("no recipients", func(t *testing.T) {
		env := setup(t)
		n, err := env.svc.SendReport(ctx, core.Weekly)
		assert.Equal(t, 0, n)
		assert.ErrorIs(t, err, ErrNoRecipients)
		assert.Empty(t, emailsvc.GetSentMessages())
	})

	t.Run("recipients query fails", func(t *testing.T) {
		env := setup(t)
		env.recipients.err = errors.New("db down")
		_, err := env.svc.SendReport(ctx, core.Weekly)
		assert.Error(t, err)
		assert.NotErrorIs(t, err, ErrNoRecipients)
	})

	t.Run("sent", func(t *testing.T) {
		env := setup(t)
		env.recipients.users = []user.User{
			{Username: "boss", Email: "boss@test.com", Role: user.RoleManager},
			{Username: "admin", Email: "admin@test.com", Role: user.RoleAdmin},
		}

		n, err := env.svc.SendReport(ctx, core.Yearly)
		require.NoError(t, err)
		assert.Equal(t, 2, n)

		msgs := emailsvc.GetSentMessages()
		require.Len(t, msgs, 1)
		msg := msgs[0]
		assert.Equal(t, "KPI report (yearly) - 2024-05-06", msg.Subject)
		require.Len(t, msg.To, 2)
		assert.Equal(t, "boss@test.com", msg.To[0].Address)
		assert.Equal(t, "admin@test.com", msg.To[1].Address)
		assert.NotEmpty(t, msg.TextContent)
		assert.NotEmpty(t, msg.HTMLContent)
		require.Len(t, msg.Attachments, 1)
		assert.Equal(t, "kpi-yearly-2024-05-06.csv", msg.Attachments[0].Filename)
		assert.Equal(t, "text/csv", msg.Attachments[0].ContentType)
	})
}

func TestMetricsCSV(t *testing.T) {
	evals := []kpi.MetricEvaluation{
		{
			Metric:     kpi.Metric{Name: kpi.CSAT, Date: "2024-05-06", Value: 74, Goal: 70, Change: 1.5},
			Evaluation: kpi.Evaluate(74, 70),
		},
		{
			Metric:     kpi.Metric{Name: kpi.ResponseTime, Date: "2024-05-06", Value: 2.8, Goal: 3},
			Evaluation: kpi.Evaluate(2.8, 3),
		},
	}

	data, err := MetricsCSV(evals)
	require.NoError(t, err)
	want := strings.Join([]string{
		"name,date,value,goal,change,achieved,status",
		"csat,2024-05-06,74,70,1.5,true,goal met",
		"responseTime,2024-05-06,2.8,3,0,false,near goal",
		"",
	}, "\n")
	assert.Equal(t, want, string(data))

	data, err = MetricsCSV(nil)
	require.NoError(t, err)
	assert.Equal(t, "name,date,value,goal,change,achieved,status\n", string(data))
}
