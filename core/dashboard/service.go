// Package dashboard combines the per-period datasets into the dashboard summary and the KPI report.
package dashboard

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"net/mail"
	"strconv"

	"github.com/pkg/errors"

	"github.com/alramz/cxdash/core"
	"github.com/alramz/cxdash/core/analytics"
	"github.com/alramz/cxdash/core/cache"
	"github.com/alramz/cxdash/core/kpi"
	"github.com/alramz/cxdash/core/satisfaction"
	"github.com/alramz/cxdash/core/user"
)

// ErrNoRecipients is returned by SendReport when no active admin or manager has an email address.
var ErrNoRecipients = errors.New("no report recipients")

type (
	ServiceTotal struct {
		ID    string `json:"id"`
		Title string `json:"title"`
		Total int    `json:"total"`
	}

	// Summary always renders: every part comes through the cache fallback chain.
	Summary struct {
		Period             core.Period            `json:"period"`
		Date               string                 `json:"date"`
		Metrics            []kpi.MetricEvaluation `json:"metrics"`
		MetricsSource      cache.Source           `json:"metrics_source"`
		Satisfaction       []satisfaction.Score   `json:"satisfaction"`
		SatisfactionSource cache.Source           `json:"satisfaction_source"`
		Services           []ServiceTotal         `json:"services"`
		ServiceSource      cache.Source           `json:"service_source"`
	}

	ReportRecipientsQuerier interface {
		QueryReportRecipients(ctx context.Context) ([]user.User, error)
	}

	ServiceInterface interface {
		Summary(ctx context.Context, period core.Period) Summary
		SendReport(ctx context.Context, period core.Period) (int, error)
	}

	Service struct {
		metrics      kpi.ServiceInterface
		satisfaction satisfaction.ServiceInterface
		analytics    analytics.ServiceInterface
		users        ReportRecipientsQuerier
		mailSvc      core.EmailService
	}
)

var _ ServiceInterface = (*Service)(nil) // interface compliance check

func NewService(
	metrics kpi.ServiceInterface,
	satisfactionSvc satisfaction.ServiceInterface,
	analyticsSvc analytics.ServiceInterface,
	users ReportRecipientsQuerier,
	mailSvc core.EmailService,
) *Service {
	return &Service{
		metrics:      metrics,
		satisfaction: satisfactionSvc,
		analytics:    analyticsSvc,
		users:        users,
		mailSvc:      mailSvc,
	}
}

func (svc *Service) Summary(ctx context.Context, period core.Period) Summary {
	sum := Summary{Period: period, Date: core.Today()}

	sum.Metrics, sum.MetricsSource = svc.metrics.Evaluate(ctx, period)

	survey, src := svc.satisfaction.Get(ctx, period)
	sum.Satisfaction, sum.SatisfactionSource = satisfaction.Scores(survey), src

	categories, src := svc.analytics.ServiceData(ctx, period)
	sum.ServiceSource = src
	sum.Services = make([]ServiceTotal, 0, len(categories))
	for _, c := range categories {
		sum.Services = append(sum.Services, ServiceTotal{ID: c.ID, Title: c.Title, Total: c.Total()})
	}
	return sum
}

// SendReport e-mails the summary of period to the report recipients and returns how many there were.
func (svc *Service) SendReport(ctx context.Context, period core.Period) (int, error) {
	recipients, err := svc.users.QueryReportRecipients(ctx)
	if err != nil {
		return 0, errors.Wrap(err, "querying report recipients")
	}
	if len(recipients) == 0 {
		return 0, ErrNoRecipients
	}

	sum := svc.Summary(ctx, period)
	msg := &core.EmailMessage{
		Subject:      fmt.Sprintf("KPI report (%s) - %s", period, sum.Date),
		TemplateName: "kpi_report",
		TemplateData: sum,
	}
	for _, usr := range recipients {
		msg.To = append(msg.To, mail.Address{Name: usr.Username, Address: usr.Email})
	}

	data, err := MetricsCSV(sum.Metrics)
	if err != nil {
		return 0, errors.Wrap(err, "writing metrics csv")
	}
	filename := fmt.Sprintf("kpi-%s-%s.csv", period, sum.Date)
	if err = msg.Attach(bytes.NewReader(data), filename, "text/csv"); err != nil {
		return 0, errors.Wrap(err, "attaching metrics csv")
	}

	svc.mailSvc.SendMessages(msg)
	return len(recipients), nil
}

// MetricsCSV writes one row per metric: name, date, value, goal, change, achieved, status.
func MetricsCSV(evals []kpi.MetricEvaluation) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write([]string{"name", "date", "value", "goal", "change", "achieved", "status"}); err != nil {
		return nil, err
	}
	for _, e := range evals {
		row := []string{
			e.Metric.Name,
			e.Metric.Date,
			formatFloat(e.Metric.Value),
			formatFloat(e.Metric.Goal),
			formatFloat(e.Metric.Change),
			strconv.FormatBool(e.Evaluation.Achieved),
			e.Evaluation.StatusLabel,
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
