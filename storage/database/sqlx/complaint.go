package sqlxrepos

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/alramz/cxdash/core"
	"github.com/alramz/cxdash/core/complaint"
)

const complaintColumns = `id, complaint_number, client_name, project, unit, status, source, details, action,
	created_by, updated_by, created_at, updated_at`

var complaintOrderingColumns = map[string]string{
	"created_at":       "created_at",
	"updated_at":       "updated_at",
	"complaint_number": "complaint_number",
	"client_name":      "client_name",
	"project":          "project",
	"status":           "status",
}

type complaintRow struct {
	ID              string      `db:"id"`
	ComplaintNumber string      `db:"complaint_number"`
	ClientName      string      `db:"client_name"`
	Project         string      `db:"project"`
	Unit            string      `db:"unit"`
	Status          string      `db:"status"`
	Source          string      `db:"source"`
	Details         null.String `db:"details"`
	Action          null.String `db:"action"`
	CreatedBy       string      `db:"created_by"`
	UpdatedBy       null.String `db:"updated_by"`
	CreatedAt       time.Time   `db:"created_at"`
	UpdatedAt       time.Time   `db:"updated_at"`
}

func (row complaintRow) complaint() complaint.Complaint {
	return complaint.Complaint{
		ID:              row.ID,
		ComplaintNumber: row.ComplaintNumber,
		ClientName:      row.ClientName,
		Project:         row.Project,
		Unit:            row.Unit,
		Status:          row.Status,
		Source:          row.Source,
		Details:         row.Details.String,
		Action:          row.Action.String,
		CreatedBy:       row.CreatedBy,
		UpdatedBy:       row.UpdatedBy.String,
		CreatedAt:       row.CreatedAt.UTC(),
		UpdatedAt:       row.UpdatedAt.UTC(),
	}
}

type complaintRepository struct {
	base
}

var _ complaint.Repository = (*complaintRepository)(nil) // interface compliance check

func NewComplaintRepository(db *sqlx.DB) complaint.Repository {
	return &complaintRepository{base{db: db}}
}

func (repo complaintRepository) CreateComplaint(ctx context.Context, c complaint.Complaint, exec ...core.DBExecutor) (complaint.Complaint, error) {
	c.ID = core.NewID()
	q := `INSERT INTO complaints (` + complaintColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := execQuery(ctx, repo.getExec(exec), q,
		c.ID, c.ComplaintNumber, c.ClientName, c.Project, c.Unit, c.Status, c.Source,
		null.NewString(c.Details, c.Details != ""), null.NewString(c.Action, c.Action != ""),
		c.CreatedBy, null.NewString(c.UpdatedBy, c.UpdatedBy != ""), c.CreatedAt.UTC(), c.UpdatedAt.UTC())
	if err != nil {
		return complaint.Complaint{}, errors.Wrap(err, "inserting complaint")
	}
	return c, nil
}

func (repo complaintRepository) QueryComplaints(ctx context.Context, filter *complaint.QueryFilter, ordering []core.DBOrdering, exec ...core.DBExecutor) ([]complaint.Complaint, error) {
	var cond conditions
	if filter != nil {
		if filter.Search != "" {
			val := "%" + filter.Search + "%"
			cond.add("complaint_number ILIKE ? OR client_name ILIKE ? OR project ILIKE ?", val, val, val)
		}
		if len(filter.Status) > 0 {
			cond.add("status IN (?)", filter.Status)
		}
		if filter.Project != "" {
			cond.add("project = ?", filter.Project)
		}
	}

	var rows []complaintRow
	q := "SELECT " + complaintColumns + " FROM complaints" + cond.where() + orderBy(ordering, complaintOrderingColumns)
	if err := selectRows(ctx, repo.getExec(exec), &rows, q, cond.args...); err != nil {
		return nil, errors.Wrap(err, "querying complaints")
	}
	complaints := make([]complaint.Complaint, 0, len(rows))
	for _, row := range rows {
		complaints = append(complaints, row.complaint())
	}
	return complaints, nil
}

func (repo complaintRepository) GetComplaint(ctx context.Context, id string, exec ...core.DBExecutor) (complaint.Complaint, error) {
	if !core.IsValidID(id) {
		return complaint.Complaint{}, complaint.ErrNotFound
	}
	var rows []complaintRow
	q := "SELECT " + complaintColumns + " FROM complaints WHERE id = ?"
	if err := selectRows(ctx, repo.getExec(exec), &rows, q, id); err != nil {
		return complaint.Complaint{}, errors.Wrap(err, "finding complaint")
	}
	if len(rows) == 0 {
		return complaint.Complaint{}, complaint.ErrNotFound
	}
	return rows[0].complaint(), nil
}

func (repo complaintRepository) UpdateComplaint(ctx context.Context, c complaint.Complaint, exec ...core.DBExecutor) (complaint.Complaint, error) {
	q := `UPDATE complaints SET complaint_number = ?, client_name = ?, project = ?, unit = ?, status = ?, source = ?,
		details = ?, action = ?, updated_by = ?, updated_at = ?
		WHERE id = ?`
	n, err := execQuery(ctx, repo.getExec(exec), q,
		c.ComplaintNumber, c.ClientName, c.Project, c.Unit, c.Status, c.Source,
		null.NewString(c.Details, c.Details != ""), null.NewString(c.Action, c.Action != ""),
		null.NewString(c.UpdatedBy, c.UpdatedBy != ""), c.UpdatedAt.UTC(), c.ID)
	if err != nil {
		return complaint.Complaint{}, errors.Wrap(err, "updating complaint")
	}
	if n == 0 {
		return complaint.Complaint{}, complaint.ErrNotFound
	}
	return c, nil
}

func (repo complaintRepository) DeleteComplaintsByID(ctx context.Context, ids []string, exec ...core.DBExecutor) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	n, err := execQuery(ctx, repo.getExec(exec), "DELETE FROM complaints WHERE id IN (?)", ids)
	if err != nil {
		return 0, errors.Wrap(err, "deleting complaints")
	}
	return n, nil
}
