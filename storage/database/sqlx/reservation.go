package sqlxrepos

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/alramz/cxdash/core"
	"github.com/alramz/cxdash/core/reservation"
)

const reservationColumns = `id, reservation_number, client_name, project, unit, date::text AS date, status,
	payment_method, sale_type, unit_value, empty_date::text AS empty_date, sales_employee,
	construction_end_date::text AS construction_end_date, final_delivery_date::text AS final_delivery_date,
	electricity_meter_date::text AS electricity_meter_date, water_meter_date::text AS water_meter_date,
	client_delivery_date::text AS client_delivery_date,
	has_been_rated, rating, created_by, created_at, updated_at`

const reservationInsertColumns = `id, reservation_number, client_name, project, unit, date, status,
	payment_method, sale_type, unit_value, empty_date, sales_employee,
	construction_end_date, final_delivery_date, electricity_meter_date, water_meter_date, client_delivery_date,
	has_been_rated, rating, created_by, created_at, updated_at`

var reservationOrderingColumns = map[string]string{
	"date":               "reservations.date",
	"created_at":         "created_at",
	"reservation_number": "reservation_number",
	"client_name":        "client_name",
	"project":            "project",
	"status":             "status",
}

type reservationRow struct {
	ID                   string       `db:"id"`
	ReservationNumber    string       `db:"reservation_number"`
	ClientName           string       `db:"client_name"`
	Project              string       `db:"project"`
	Unit                 string       `db:"unit"`
	Date                 string       `db:"date"`
	Status               string       `db:"status"`
	PaymentMethod        null.String  `db:"payment_method"`
	SaleType             null.String  `db:"sale_type"`
	UnitValue            null.Float64 `db:"unit_value"`
	EmptyDate            null.String  `db:"empty_date"`
	SalesEmployee        null.String  `db:"sales_employee"`
	ConstructionEndDate  null.String  `db:"construction_end_date"`
	FinalDeliveryDate    null.String  `db:"final_delivery_date"`
	ElectricityMeterDate null.String  `db:"electricity_meter_date"`
	WaterMeterDate       null.String  `db:"water_meter_date"`
	ClientDeliveryDate   null.String  `db:"client_delivery_date"`
	HasBeenRated         null.Bool    `db:"has_been_rated"`
	Rating               null.Int     `db:"rating"`
	CreatedBy            string       `db:"created_by"`
	CreatedAt            time.Time    `db:"created_at"`
	UpdatedAt            time.Time    `db:"updated_at"`
}

func (row reservationRow) reservation() reservation.Reservation {
	return reservation.Reservation{
		ID:                row.ID,
		ReservationNumber: row.ReservationNumber,
		ClientName:        row.ClientName,
		Project:           row.Project,
		Unit:              row.Unit,
		Date:              row.Date,
		Status:            row.Status,
		SalesData: reservation.SalesData{
			PaymentMethod: row.PaymentMethod.String,
			SaleType:      row.SaleType.String,
			UnitValue:     row.UnitValue.Ptr(),
			EmptyDate:     row.EmptyDate.String,
			SalesEmployee: row.SalesEmployee.String,
		},
		ProjectData: reservation.ProjectData{
			ConstructionEndDate:  row.ConstructionEndDate.String,
			FinalDeliveryDate:    row.FinalDeliveryDate.String,
			ElectricityMeterDate: row.ElectricityMeterDate.String,
			WaterMeterDate:       row.WaterMeterDate.String,
			ClientDeliveryDate:   row.ClientDeliveryDate.String,
		},
		SatisfactionData: reservation.SatisfactionData{
			HasBeenRated: row.HasBeenRated.Bool,
			Rating:       row.Rating.Int,
		},
		CreatedBy: row.CreatedBy,
		CreatedAt: row.CreatedAt.UTC(),
		UpdatedAt: row.UpdatedAt.UTC(),
	}
}

func nullString(s string) null.String {
	return null.NewString(s, s != "")
}

// reservationValues lists the mutable columns, from reservation_number to rating.
func reservationValues(r reservation.Reservation) []interface{} {
	return []interface{}{
		r.ReservationNumber, r.ClientName, r.Project, r.Unit, r.Date, r.Status,
		nullString(r.SalesData.PaymentMethod), nullString(r.SalesData.SaleType),
		null.Float64FromPtr(r.SalesData.UnitValue), nullString(r.SalesData.EmptyDate), nullString(r.SalesData.SalesEmployee),
		nullString(r.ProjectData.ConstructionEndDate), nullString(r.ProjectData.FinalDeliveryDate),
		nullString(r.ProjectData.ElectricityMeterDate), nullString(r.ProjectData.WaterMeterDate),
		nullString(r.ProjectData.ClientDeliveryDate),
		r.SatisfactionData.HasBeenRated,
		null.NewInt(r.SatisfactionData.Rating, r.SatisfactionData.HasBeenRated),
	}
}

type reservationRepository struct {
	base
}

var _ reservation.Repository = (*reservationRepository)(nil) // interface compliance check

func NewReservationRepository(db *sqlx.DB) reservation.Repository {
	return &reservationRepository{base{db: db}}
}

func (repo reservationRepository) CreateReservation(ctx context.Context, r reservation.Reservation, exec ...core.DBExecutor) (reservation.Reservation, error) {
	r.ID = core.NewID()
	args := append([]interface{}{r.ID}, reservationValues(r)...)
	args = append(args, r.CreatedBy, r.CreatedAt.UTC(), r.UpdatedAt.UTC())
	q := `INSERT INTO reservations (` + reservationInsertColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	if _, err := execQuery(ctx, repo.getExec(exec), q, args...); err != nil {
		return reservation.Reservation{}, errors.Wrap(err, "inserting reservation")
	}
	return r, nil
}

func (repo reservationRepository) QueryReservations(ctx context.Context, filter *reservation.QueryFilter, ordering []core.DBOrdering, exec ...core.DBExecutor) ([]reservation.Reservation, error) {
	var cond conditions
	if filter != nil {
		if filter.Search != "" {
			val := "%" + filter.Search + "%"
			cond.add("reservation_number ILIKE ? OR client_name ILIKE ? OR project ILIKE ?", val, val, val)
		}
		if len(filter.Status) > 0 {
			cond.add("status IN (?)", filter.Status)
		}
		if filter.Project != "" {
			cond.add("project = ?", filter.Project)
		}
		if filter.Rated != nil {
			cond.add("COALESCE(has_been_rated, FALSE) = ?", *filter.Rated)
		}
	}

	var rows []reservationRow
	q := "SELECT " + reservationColumns + " FROM reservations" + cond.where() + orderBy(ordering, reservationOrderingColumns)
	if err := selectRows(ctx, repo.getExec(exec), &rows, q, cond.args...); err != nil {
		return nil, errors.Wrap(err, "querying reservations")
	}
	reservations := make([]reservation.Reservation, 0, len(rows))
	for _, row := range rows {
		reservations = append(reservations, row.reservation())
	}
	return reservations, nil
}

func (repo reservationRepository) GetReservation(ctx context.Context, id string, exec ...core.DBExecutor) (reservation.Reservation, error) {
	if !core.IsValidID(id) {
		return reservation.Reservation{}, reservation.ErrNotFound
	}
	var rows []reservationRow
	q := "SELECT " + reservationColumns + " FROM reservations WHERE id = ?"
	if err := selectRows(ctx, repo.getExec(exec), &rows, q, id); err != nil {
		return reservation.Reservation{}, errors.Wrap(err, "finding reservation")
	}
	if len(rows) == 0 {
		return reservation.Reservation{}, reservation.ErrNotFound
	}
	return rows[0].reservation(), nil
}

func (repo reservationRepository) UpdateReservation(ctx context.Context, r reservation.Reservation, exec ...core.DBExecutor) (reservation.Reservation, error) {
	args := append(reservationValues(r), r.UpdatedAt.UTC(), r.ID)
	q := `UPDATE reservations SET reservation_number = ?, client_name = ?, project = ?, unit = ?, date = ?, status = ?,
		payment_method = ?, sale_type = ?, unit_value = ?, empty_date = ?, sales_employee = ?,
		construction_end_date = ?, final_delivery_date = ?, electricity_meter_date = ?, water_meter_date = ?,
		client_delivery_date = ?, has_been_rated = ?, rating = ?, updated_at = ?
		WHERE id = ?`
	n, err := execQuery(ctx, repo.getExec(exec), q, args...)
	if err != nil {
		return reservation.Reservation{}, errors.Wrap(err, "updating reservation")
	}
	if n == 0 {
		return reservation.Reservation{}, reservation.ErrNotFound
	}
	return r, nil
}

func (repo reservationRepository) DeleteReservationsByID(ctx context.Context, ids []string, exec ...core.DBExecutor) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	n, err := execQuery(ctx, repo.getExec(exec), "DELETE FROM reservations WHERE id IN (?)", ids)
	if err != nil {
		return 0, errors.Wrap(err, "deleting reservations")
	}
	return n, nil
}
