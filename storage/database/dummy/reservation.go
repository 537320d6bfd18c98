package dummydb

import (
	"context"
	"sort"

	"github.com/alramz/cxdash/core"
	"github.com/alramz/cxdash/core/reservation"
)

type reservationRepository struct {
	db *reservationTable
}

var _ reservation.Repository = (*reservationRepository)(nil) // interface compliance check

func NewReservationRepository(db *DB) reservation.Repository {
	return &reservationRepository{db: db.reservation}
}

func (repo *reservationRepository) CreateReservation(_ context.Context, r reservation.Reservation, _ ...core.DBExecutor) (reservation.Reservation, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	r.ID = core.NewID()
	repo.db.table[r.ID] = &r
	return r, nil
}

func (repo *reservationRepository) QueryReservations(_ context.Context, filter *reservation.QueryFilter, ordering []core.DBOrdering, _ ...core.DBExecutor) ([]reservation.Reservation, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	reservations := make([]reservation.Reservation, 0, len(repo.db.table))
	for _, r := range repo.db.table {
		if filter != nil {
			if filter.Search != "" &&
				!containsFold(r.ReservationNumber, filter.Search) &&
				!containsFold(r.ClientName, filter.Search) &&
				!containsFold(r.Project, filter.Search) {
				continue
			}
			if len(filter.Status) > 0 && !containsString(filter.Status, r.Status) {
				continue
			}
			if filter.Project != "" && r.Project != filter.Project {
				continue
			}
			if filter.Rated != nil && r.SatisfactionData.HasBeenRated != *filter.Rated {
				continue
			}
		}
		reservations = append(reservations, *r)
	}

	sort.SliceStable(reservations, func(i, j int) bool {
		a, b := reservations[i], reservations[j]
		return less(ordering, func(field string) int {
			switch field {
			case "date":
				return compareStrings(a.Date, b.Date)
			case "created_at":
				return compareTimes(a.CreatedAt, b.CreatedAt)
			case "reservation_number":
				return compareStrings(a.ReservationNumber, b.ReservationNumber)
			case "client_name":
				return compareStrings(a.ClientName, b.ClientName)
			case "project":
				return compareStrings(a.Project, b.Project)
			case "status":
				return compareStrings(a.Status, b.Status)
			}
			return 0
		})
	})
	return reservations, nil
}

func (repo *reservationRepository) GetReservation(_ context.Context, id string, _ ...core.DBExecutor) (reservation.Reservation, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if r, ok := repo.db.table[id]; ok {
		return *r, nil
	}
	return reservation.Reservation{}, reservation.ErrNotFound
}

func (repo *reservationRepository) UpdateReservation(_ context.Context, r reservation.Reservation, _ ...core.DBExecutor) (reservation.Reservation, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[r.ID]; !ok {
		return reservation.Reservation{}, reservation.ErrNotFound
	}
	repo.db.table[r.ID] = &r
	return r, nil
}

func (repo *reservationRepository) DeleteReservationsByID(_ context.Context, ids []string, _ ...core.DBExecutor) (int, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	var n int
	for _, id := range ids {
		if _, ok := repo.db.table[id]; ok {
			delete(repo.db.table, id)
			n++
		}
	}
	return n, nil
}
