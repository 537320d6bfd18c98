package reservation

import (
	"time"

	"github.com/alramz/cxdash/core"
)

const StatusNew = "new"

// OrderingFields are the fields a query may be sorted by.
var OrderingFields = []string{"date", "created_at", "reservation_number", "client_name", "project", "status"}

// SalesData is filled in by the sales team. Dates are YYYY-MM-DD.
type SalesData struct {
	PaymentMethod string   `json:"payment_method,omitempty" validate:"max=64"`
	SaleType      string   `json:"sale_type,omitempty" validate:"max=64"`
	UnitValue     *float64 `json:"unit_value,omitempty" validate:"omitempty,gte=0"`
	EmptyDate     string   `json:"empty_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	SalesEmployee string   `json:"sales_employee,omitempty" validate:"max=255"`
}

// ProjectData tracks the delivery milestones. Dates are YYYY-MM-DD.
type ProjectData struct {
	ConstructionEndDate  string `json:"construction_end_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	FinalDeliveryDate    string `json:"final_delivery_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	ElectricityMeterDate string `json:"electricity_meter_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	WaterMeterDate       string `json:"water_meter_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	ClientDeliveryDate   string `json:"client_delivery_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

type SatisfactionData struct {
	HasBeenRated bool `json:"has_been_rated"`
	Rating       int  `json:"rating"`
}

type Reservation struct {
	ID                string           `json:"id"`
	ReservationNumber string           `json:"reservation_number"`
	ClientName        string           `json:"client_name"`
	Project           string           `json:"project"`
	Unit              string           `json:"unit"`
	Date              string           `json:"date"` // YYYY-MM-DD
	Status            string           `json:"status"`
	SalesData         SalesData        `json:"sales_data"`
	ProjectData       ProjectData      `json:"project_data"`
	SatisfactionData  SatisfactionData `json:"satisfaction_data"`
	CreatedBy         string           `json:"created_by"`
	CreatedAt         time.Time        `json:"created_at"` // UTC
	UpdatedAt         time.Time        `json:"updated_at"` // UTC
}

// NewReservation contains information needed to register a Reservation.
// Date defaults to today and Status to "new".
type NewReservation struct {
	ReservationNumber string      `json:"reservation_number" validate:"required,max=64"`
	ClientName        string      `json:"client_name" validate:"required,max=255"`
	Project           string      `json:"project" validate:"required,max=255"`
	Unit              string      `json:"unit" validate:"max=64"`
	Date              string      `json:"date" validate:"omitempty,datetime=2006-01-02"`
	Status            string      `json:"status" validate:"max=32"`
	SalesData         SalesData   `json:"sales_data"`
	ProjectData       ProjectData `json:"project_data"`
}

func (nr *NewReservation) Clean() {
	nr.ReservationNumber = core.CleanString(nr.ReservationNumber)
	nr.ClientName = core.CleanString(nr.ClientName)
	nr.Project = core.CleanString(nr.Project)
	nr.Unit = core.CleanString(nr.Unit)
	nr.Status = core.CleanString(nr.Status)
	if nr.Status == "" {
		nr.Status = StatusNew
	}
	if nr.Date == "" {
		nr.Date = core.Today()
	}
}

// UpdateReservation holds the fields to change. Nil fields are left untouched.
type UpdateReservation struct {
	ReservationNumber *string      `json:"reservation_number" validate:"omitempty,min=1,max=64"`
	ClientName        *string      `json:"client_name" validate:"omitempty,min=1,max=255"`
	Project           *string      `json:"project" validate:"omitempty,min=1,max=255"`
	Unit              *string      `json:"unit" validate:"omitempty,max=64"`
	Date              *string      `json:"date" validate:"omitempty,datetime=2006-01-02"`
	Status            *string      `json:"status" validate:"omitempty,min=1,max=32"`
	SalesData         *SalesData   `json:"sales_data"`
	ProjectData       *ProjectData `json:"project_data"`
}

func (ur UpdateReservation) apply(r *Reservation) {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = core.CleanString(*src)
		}
	}
	set(&r.ReservationNumber, ur.ReservationNumber)
	set(&r.ClientName, ur.ClientName)
	set(&r.Project, ur.Project)
	set(&r.Unit, ur.Unit)
	set(&r.Date, ur.Date)
	set(&r.Status, ur.Status)
	if ur.SalesData != nil {
		r.SalesData = *ur.SalesData
	}
	if ur.ProjectData != nil {
		r.ProjectData = *ur.ProjectData
	}
}

type Rating struct {
	Rating int `json:"rating" validate:"required,min=1,max=5"`
}

type QueryFilter struct {
	Search  string   `query:"search"`
	Status  []string `query:"status"`
	Project string   `query:"project"`
	Rated   *bool    `query:"rated"`
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
	qf.Project = core.CleanString(qf.Project)
}
