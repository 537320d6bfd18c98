package sqlxrepos

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/alramz/cxdash/core"
	"github.com/alramz/cxdash/core/analytics"
)

const analyticsColumns = `id, period, date::text AS date,
	call_complaints, call_contact_requests, call_maintenance_requests, call_inquiries,
	call_office_appointments, call_project_appointments, call_guest_appointments,
	customer_satisfaction_service_quality, customer_satisfaction_closing_time, customer_satisfaction_first_time_resolution,
	nps_new_clients, nps_after_year, nps_old_clients, created_by, created_at`

type analyticsRow struct {
	ID                              string    `db:"id"`
	Period                          string    `db:"period"`
	Date                            string    `db:"date"`
	CallComplaints                  int       `db:"call_complaints"`
	CallContactRequests             int       `db:"call_contact_requests"`
	CallMaintenanceRequests         int       `db:"call_maintenance_requests"`
	CallInquiries                   int       `db:"call_inquiries"`
	CallOfficeAppointments          int       `db:"call_office_appointments"`
	CallProjectAppointments         int       `db:"call_project_appointments"`
	CallGuestAppointments           int       `db:"call_guest_appointments"`
	SatisfactionServiceQuality      float64   `db:"customer_satisfaction_service_quality"`
	SatisfactionClosingTime         float64   `db:"customer_satisfaction_closing_time"`
	SatisfactionFirstTimeResolution float64   `db:"customer_satisfaction_first_time_resolution"`
	NPSNewClients                   float64   `db:"nps_new_clients"`
	NPSAfterYear                    float64   `db:"nps_after_year"`
	NPSOldClients                   float64   `db:"nps_old_clients"`
	CreatedBy                       string    `db:"created_by"`
	CreatedAt                       time.Time `db:"created_at"`
}

func (row analyticsRow) record() analytics.Record {
	return analytics.Record{
		ID:                              row.ID,
		Period:                          core.Period(row.Period),
		Date:                            row.Date,
		CallComplaints:                  row.CallComplaints,
		CallContactRequests:             row.CallContactRequests,
		CallMaintenanceRequests:         row.CallMaintenanceRequests,
		CallInquiries:                   row.CallInquiries,
		CallOfficeAppointments:          row.CallOfficeAppointments,
		CallProjectAppointments:         row.CallProjectAppointments,
		CallGuestAppointments:           row.CallGuestAppointments,
		SatisfactionServiceQuality:      row.SatisfactionServiceQuality,
		SatisfactionClosingTime:         row.SatisfactionClosingTime,
		SatisfactionFirstTimeResolution: row.SatisfactionFirstTimeResolution,
		NPSNewClients:                   row.NPSNewClients,
		NPSAfterYear:                    row.NPSAfterYear,
		NPSOldClients:                   row.NPSOldClients,
		CreatedBy:                       row.CreatedBy,
		CreatedAt:                       row.CreatedAt.UTC(),
	}
}

// recordValues lists the columns after id, period and date, in analyticsColumns order.
func recordValues(rec analytics.Record) []interface{} {
	return []interface{}{
		rec.CallComplaints, rec.CallContactRequests, rec.CallMaintenanceRequests, rec.CallInquiries,
		rec.CallOfficeAppointments, rec.CallProjectAppointments, rec.CallGuestAppointments,
		rec.SatisfactionServiceQuality, rec.SatisfactionClosingTime, rec.SatisfactionFirstTimeResolution,
		rec.NPSNewClients, rec.NPSAfterYear, rec.NPSOldClients, rec.CreatedBy, rec.CreatedAt.UTC(),
	}
}

type analyticsRepository struct {
	base
}

var _ analytics.Repository = (*analyticsRepository)(nil) // interface compliance check

func NewAnalyticsRepository(db *sqlx.DB) analytics.Repository {
	return &analyticsRepository{base{db: db}}
}

func (repo analyticsRepository) GetLatestRecord(ctx context.Context, period core.Period, exec ...core.DBExecutor) (analytics.Record, error) {
	var rows []analyticsRow
	q := "SELECT " + analyticsColumns + " FROM analytics_data WHERE period = ? ORDER BY analytics_data.date DESC, created_at DESC LIMIT 1"
	if err := selectRows(ctx, repo.getExec(exec), &rows, q, string(period)); err != nil {
		return analytics.Record{}, errors.Wrap(err, "getting latest analytics record")
	}
	if len(rows) == 0 {
		return analytics.Record{}, analytics.ErrNotFound
	}
	return rows[0].record(), nil
}

func (repo analyticsRepository) CreateRecord(ctx context.Context, rec analytics.Record, exec ...core.DBExecutor) (analytics.Record, error) {
	rec.ID = core.NewID()
	args := append([]interface{}{rec.ID, string(rec.Period), rec.Date}, recordValues(rec)...)
	q := `INSERT INTO analytics_data (id, period, date,
		call_complaints, call_contact_requests, call_maintenance_requests, call_inquiries,
		call_office_appointments, call_project_appointments, call_guest_appointments,
		customer_satisfaction_service_quality, customer_satisfaction_closing_time, customer_satisfaction_first_time_resolution,
		nps_new_clients, nps_after_year, nps_old_clients, created_by, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	if _, err := execQuery(ctx, repo.getExec(exec), q, args...); err != nil {
		return analytics.Record{}, errors.Wrap(err, "inserting analytics record")
	}
	return rec, nil
}

func (repo analyticsRepository) UpdateRecord(ctx context.Context, rec analytics.Record, exec ...core.DBExecutor) (analytics.Record, error) {
	args := append([]interface{}{string(rec.Period), rec.Date}, recordValues(rec)...)
	args = append(args, rec.ID)
	q := `UPDATE analytics_data SET period = ?, date = ?,
		call_complaints = ?, call_contact_requests = ?, call_maintenance_requests = ?, call_inquiries = ?,
		call_office_appointments = ?, call_project_appointments = ?, call_guest_appointments = ?,
		customer_satisfaction_service_quality = ?, customer_satisfaction_closing_time = ?,
		customer_satisfaction_first_time_resolution = ?,
		nps_new_clients = ?, nps_after_year = ?, nps_old_clients = ?, created_by = ?, created_at = ?
		WHERE id = ?`
	n, err := execQuery(ctx, repo.getExec(exec), q, args...)
	if err != nil {
		return analytics.Record{}, errors.Wrap(err, "updating analytics record")
	}
	if n == 0 {
		return analytics.Record{}, analytics.ErrNotFound
	}
	return rec, nil
}
