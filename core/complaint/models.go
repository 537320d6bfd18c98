package complaint

import (
	"time"

	"github.com/alramz/cxdash/core"
)

// Statuses
const (
	StatusResolved   = "resolved"
	StatusInProgress = "in_progress"
	StatusCancelled  = "cancelled"
	StatusFollowUp   = "follow_up"
)

var (
	Statuses = []string{StatusResolved, StatusInProgress, StatusCancelled, StatusFollowUp}

	// OrderingFields are the fields a query may be sorted by.
	OrderingFields = []string{"created_at", "updated_at", "complaint_number", "client_name", "project", "status"}
)

type Complaint struct {
	ID              string    `json:"id"`
	ComplaintNumber string    `json:"complaint_number"`
	ClientName      string    `json:"client_name"`
	Project         string    `json:"project"`
	Unit            string    `json:"unit"`
	Status          string    `json:"status"`
	Source          string    `json:"source"`
	Details         string    `json:"details"`
	Action          string    `json:"action"`
	CreatedBy       string    `json:"created_by"`
	UpdatedBy       string    `json:"updated_by"`
	CreatedAt       time.Time `json:"created_at"` // UTC
	UpdatedAt       time.Time `json:"updated_at"` // UTC
}

// NewComplaint contains information needed to register a Complaint. Status defaults to in_progress.
type NewComplaint struct {
	ComplaintNumber string `json:"complaint_number" validate:"required,max=64"`
	ClientName      string `json:"client_name" validate:"required,max=255"`
	Project         string `json:"project" validate:"required,max=255"`
	Unit            string `json:"unit" validate:"max=64"`
	Status          string `json:"status" validate:"omitempty,oneof=resolved in_progress cancelled follow_up"`
	Source          string `json:"source" validate:"max=64"`
	Details         string `json:"details"`
	Action          string `json:"action"`
}

func (nc *NewComplaint) Clean() {
	nc.ComplaintNumber = core.CleanString(nc.ComplaintNumber)
	nc.ClientName = core.CleanString(nc.ClientName)
	nc.Project = core.CleanString(nc.Project)
	nc.Unit = core.CleanString(nc.Unit)
	nc.Source = core.CleanString(nc.Source)
	if nc.Status == "" {
		nc.Status = StatusInProgress
	}
}

// UpdateComplaint holds the fields to change. Nil fields are left untouched.
type UpdateComplaint struct {
	ComplaintNumber *string `json:"complaint_number" validate:"omitempty,min=1,max=64"`
	ClientName      *string `json:"client_name" validate:"omitempty,min=1,max=255"`
	Project         *string `json:"project" validate:"omitempty,min=1,max=255"`
	Unit            *string `json:"unit" validate:"omitempty,max=64"`
	Status          *string `json:"status" validate:"omitempty,oneof=resolved in_progress cancelled follow_up"`
	Source          *string `json:"source" validate:"omitempty,max=64"`
	Details         *string `json:"details"`
	Action          *string `json:"action"`
}

func (uc UpdateComplaint) apply(c *Complaint) {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = core.CleanString(*src)
		}
	}
	set(&c.ComplaintNumber, uc.ComplaintNumber)
	set(&c.ClientName, uc.ClientName)
	set(&c.Project, uc.Project)
	set(&c.Unit, uc.Unit)
	set(&c.Status, uc.Status)
	set(&c.Source, uc.Source)
	set(&c.Details, uc.Details)
	set(&c.Action, uc.Action)
}

type QueryFilter struct {
	Search  string   `query:"search"`
	Status  []string `query:"status"`
	Project string   `query:"project"`
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
	qf.Project = core.CleanString(qf.Project)
}
