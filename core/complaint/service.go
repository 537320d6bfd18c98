// Package complaint is the complaints register.
package complaint

import (
	"context"

	"github.com/pkg/errors"

	"github.com/alramz/cxdash/core"
)

var ErrNotFound = errors.New("complaint not found")

type (
	Repository interface {
		CreateComplaint(ctx context.Context, c Complaint, exec ...core.DBExecutor) (Complaint, error)
		// QueryComplaints applies AND operation on available QueryFilter fields.
		// QueryFilter.Search does a case-insensitive match on the number, the client name or the project.
		QueryComplaints(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering, exec ...core.DBExecutor) ([]Complaint, error)
		GetComplaint(ctx context.Context, id string, exec ...core.DBExecutor) (Complaint, error)
		UpdateComplaint(ctx context.Context, c Complaint, exec ...core.DBExecutor) (Complaint, error)
		DeleteComplaintsByID(ctx context.Context, ids []string, exec ...core.DBExecutor) (int, error)
	}

	ServiceInterface interface {
		Create(ctx context.Context, userID string, nc NewComplaint) (Complaint, error)
		Query(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering) ([]Complaint, error)
		Get(ctx context.Context, id string) (Complaint, error)
		Update(ctx context.Context, userID, id string, uc UpdateComplaint) (Complaint, error)
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

func (svc *Service) Create(ctx context.Context, userID string, nc NewComplaint) (Complaint, error) {
	nc.Clean()
	now := core.NowFunc().UTC()
	c := Complaint{
		ComplaintNumber: nc.ComplaintNumber,
		ClientName:      nc.ClientName,
		Project:         nc.Project,
		Unit:            nc.Unit,
		Status:          nc.Status,
		Source:          nc.Source,
		Details:         nc.Details,
		Action:          nc.Action,
		CreatedBy:       userID,
		UpdatedBy:       userID,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	return svc.repo.CreateComplaint(ctx, c)
}

func (svc *Service) Query(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering) ([]Complaint, error) {
	if len(ordering) == 0 {
		ordering = []core.DBOrdering{{Field: "created_at", Ascending: false}}
	}
	return svc.repo.QueryComplaints(ctx, filter, ordering)
}

func (svc *Service) Get(ctx context.Context, id string) (Complaint, error) {
	return svc.repo.GetComplaint(ctx, id)
}

func (svc *Service) Update(ctx context.Context, userID, id string, uc UpdateComplaint) (Complaint, error) {
	c, err := svc.repo.GetComplaint(ctx, id)
	if err != nil {
		return Complaint{}, err
	}
	uc.apply(&c)
	c.UpdatedBy = userID
	c.UpdatedAt = core.NowFunc().UTC()
	return svc.repo.UpdateComplaint(ctx, c)
}

func (svc *Service) Delete(ctx context.Context, ids ...string) error {
	_, err := svc.repo.DeleteComplaintsByID(ctx, ids)
	return err
}
