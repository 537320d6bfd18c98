// Package reservation tracks unit reservations from sale to delivery.
package reservation

import (
	"context"

	"github.com/pkg/errors"

	"github.com/alramz/cxdash/core"
)

var ErrNotFound = errors.New("reservation not found")

type (
	Repository interface {
		CreateReservation(ctx context.Context, r Reservation, exec ...core.DBExecutor) (Reservation, error)
		// QueryReservations applies AND operation on available QueryFilter fields.
		// QueryFilter.Search does a case-insensitive match on the number, the client name or the project.
		QueryReservations(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering, exec ...core.DBExecutor) ([]Reservation, error)
		GetReservation(ctx context.Context, id string, exec ...core.DBExecutor) (Reservation, error)
		UpdateReservation(ctx context.Context, r Reservation, exec ...core.DBExecutor) (Reservation, error)
		DeleteReservationsByID(ctx context.Context, ids []string, exec ...core.DBExecutor) (int, error)
	}

	ServiceInterface interface {
		Create(ctx context.Context, userID string, nr NewReservation) (Reservation, error)
		Query(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering) ([]Reservation, error)
		Get(ctx context.Context, id string) (Reservation, error)
		Update(ctx context.Context, id string, ur UpdateReservation) (Reservation, error)
		Rate(ctx context.Context, id string, rating int) (Reservation, error)
		Delete(ctx context.Context, ids ...string) error
	}

	Service struct {
		repo Repository
	}
)

var _ ServiceInterface = (*Service)(nil) // interface compliance check

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) Create(ctx context.Context, userID string, nr NewReservation) (Reservation, error) {
	nr.Clean()
	now := core.NowFunc().UTC()
	r := Reservation{
		ReservationNumber: nr.ReservationNumber,
		ClientName:        nr.ClientName,
		Project:           nr.Project,
		Unit:              nr.Unit,
		Date:              nr.Date,
		Status:            nr.Status,
		SalesData:         nr.SalesData,
		ProjectData:       nr.ProjectData,
		CreatedBy:         userID,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	return svc.repo.CreateReservation(ctx, r)
}

func (svc *Service) Query(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering) ([]Reservation, error) {
	if len(ordering) == 0 {
		ordering = []core.DBOrdering{{Field: "date", Ascending: false}}
	}
	return svc.repo.QueryReservations(ctx, filter, ordering)
}

func (svc *Service) Get(ctx context.Context, id string) (Reservation, error) {
	return svc.repo.GetReservation(ctx, id)
}

func (svc *Service) Update(ctx context.Context, id string, ur UpdateReservation) (Reservation, error) {
	r, err := svc.repo.GetReservation(ctx, id)
	if err != nil {
		return Reservation{}, err
	}
	ur.apply(&r)
	r.UpdatedAt = core.NowFunc().UTC()
	return svc.repo.UpdateReservation(ctx, r)
}

// Rate records the client's 1 to 5 rating of the delivery.
func (svc *Service) Rate(ctx context.Context, id string, rating int) (Reservation, error) {
	if rating < 1 || rating > 5 {
		return Reservation{}, core.NewValidationError(nil, core.FieldError{Field: "rating", Error: "rating must be between 1 and 5"})
	}
	r, err := svc.repo.GetReservation(ctx, id)
	if err != nil {
		return Reservation{}, err
	}
	r.SatisfactionData = SatisfactionData{HasBeenRated: true, Rating: rating}
	r.UpdatedAt = core.NowFunc().UTC()
	return svc.repo.UpdateReservation(ctx, r)
}

func (svc *Service) Delete(ctx context.Context, ids ...string) error {
	_, err := svc.repo.DeleteReservationsByID(ctx, ids)
	return err
}
