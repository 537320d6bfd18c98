package dummydb

import (
	"context"
	"sort"

	"github.com/alramz/cxdash/core"
	"github.com/alramz/cxdash/core/complaint"
)

type complaintRepository struct {
	db *complaintTable
}

var _ complaint.Repository = (*complaintRepository)(nil) // interface compliance check

func NewComplaintRepository(db *DB) complaint.Repository {
	return &complaintRepository{db: db.complaint}
}

func (repo *complaintRepository) CreateComplaint(_ context.Context, c complaint.Complaint, _ ...core.DBExecutor) (complaint.Complaint, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	c.ID = core.NewID()
	repo.db.table[c.ID] = &c
	return c, nil
}

func (repo *complaintRepository) QueryComplaints(_ context.Context, filter *complaint.QueryFilter, ordering []core.DBOrdering, _ ...core.DBExecutor) ([]complaint.Complaint, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	complaints := make([]complaint.Complaint, 0, len(repo.db.table))
	for _, c := range repo.db.table {
		if filter != nil {
			if filter.Search != "" &&
				!containsFold(c.ComplaintNumber, filter.Search) &&
				!containsFold(c.ClientName, filter.Search) &&
				!containsFold(c.Project, filter.Search) {
				continue
			}
			if len(filter.Status) > 0 && !containsString(filter.Status, c.Status) {
				continue
			}
			if filter.Project != "" && c.Project != filter.Project {
				continue
			}
		}
		complaints = append(complaints, *c)
	}

	sort.SliceStable(complaints, func(i, j int) bool {
		a, b := complaints[i], complaints[j]
		return less(ordering, func(field string) int {
			switch field {
			case "created_at":
				return compareTimes(a.CreatedAt, b.CreatedAt)
			case "updated_at":
				return compareTimes(a.UpdatedAt, b.UpdatedAt)
			case "complaint_number":
				return compareStrings(a.ComplaintNumber, b.ComplaintNumber)
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
	return complaints, nil
}

func (repo *complaintRepository) GetComplaint(_ context.Context, id string, _ ...core.DBExecutor) (complaint.Complaint, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if c, ok := repo.db.table[id]; ok {
		return *c, nil
	}
	return complaint.Complaint{}, complaint.ErrNotFound
}

func (repo *complaintRepository) UpdateComplaint(_ context.Context, c complaint.Complaint, _ ...core.DBExecutor) (complaint.Complaint, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[c.ID]; !ok {
		return complaint.Complaint{}, complaint.ErrNotFound
	}
	repo.db.table[c.ID] = &c
	return c, nil
}

func (repo *complaintRepository) DeleteComplaintsByID(_ context.Context, ids []string, _ ...core.DBExecutor) (int, error) {
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
