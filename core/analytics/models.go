package analytics

import (
	"time"

	"github.com/alramz/cxdash/core"
)

// Dataset is the cache dataset of the service categories.
const Dataset = "serviceData"

// Service categories
const (
	CategoryCalls       = "calls"
	CategoryInquiries   = "inquiries"
	CategoryMaintenance = "maintenance"
)

// Calls items
const (
	CallComplaints          = "complaints"
	CallContactRequests     = "contactRequests"
	CallMaintenanceRequests = "maintenanceRequests"
	CallInquiries           = "inquiries"
	CallOfficeAppointments  = "officeAppointments"
	CallProjectAppointments = "projectAppointments"
	CallInterestedClients   = "interestedClients"
)

type Item struct {
	ID    string `json:"id" validate:"required"`
	Label string `json:"label"`
	Value int    `json:"value" validate:"gte=0"`
}

type ServiceCategory struct {
	ID      string `json:"id" validate:"required,oneof=calls inquiries maintenance"`
	Title   string `json:"title"`
	Metrics []Item `json:"metrics" validate:"dive"`
}

// Total is the sum of the category items. It is never stored.
func (c ServiceCategory) Total() int {
	var total int
	for _, m := range c.Metrics {
		total += m.Value
	}
	return total
}

func (c ServiceCategory) Value(itemID string) int {
	for _, m := range c.Metrics {
		if m.ID == itemID {
			return m.Value
		}
	}
	return 0
}

// FindCategory returns the category with id, if any.
func FindCategory(categories []ServiceCategory, id string) (ServiceCategory, bool) {
	for _, c := range categories {
		if c.ID == id {
			return c, true
		}
	}
	return ServiceCategory{}, false
}

// Record is one dated row of analytics data.
type Record struct {
	ID     string      `json:"id"`
	Period core.Period `json:"period"`
	Date   string      `json:"date"` // YYYY-MM-DD

	CallComplaints          int `json:"call_complaints"`
	CallContactRequests     int `json:"call_contact_requests"`
	CallMaintenanceRequests int `json:"call_maintenance_requests"`
	CallInquiries           int `json:"call_inquiries"`
	CallOfficeAppointments  int `json:"call_office_appointments"`
	CallProjectAppointments int `json:"call_project_appointments"`
	CallGuestAppointments   int `json:"call_guest_appointments"`

	SatisfactionServiceQuality      float64 `json:"customer_satisfaction_service_quality"`
	SatisfactionClosingTime         float64 `json:"customer_satisfaction_closing_time"`
	SatisfactionFirstTimeResolution float64 `json:"customer_satisfaction_first_time_resolution"`

	NPSNewClients float64 `json:"nps_new_clients"`
	NPSAfterYear  float64 `json:"nps_after_year"`
	NPSOldClients float64 `json:"nps_old_clients"`

	CreatedBy string    `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
}

// CallsCategory maps the call counts of r to the calls ServiceCategory.
func (r Record) CallsCategory() ServiceCategory {
	return ServiceCategory{
		ID:    CategoryCalls,
		Title: categoryTitles[CategoryCalls],
		Metrics: []Item{
			{ID: CallComplaints, Label: itemLabels[CallComplaints], Value: r.CallComplaints},
			{ID: CallContactRequests, Label: itemLabels[CallContactRequests], Value: r.CallContactRequests},
			{ID: CallMaintenanceRequests, Label: itemLabels[CallMaintenanceRequests], Value: r.CallMaintenanceRequests},
			{ID: CallInquiries, Label: itemLabels[CallInquiries], Value: r.CallInquiries},
			{ID: CallOfficeAppointments, Label: itemLabels[CallOfficeAppointments], Value: r.CallOfficeAppointments},
			{ID: CallProjectAppointments, Label: itemLabels[CallProjectAppointments], Value: r.CallProjectAppointments},
			{ID: CallInterestedClients, Label: itemLabels[CallInterestedClients], Value: r.CallGuestAppointments},
		},
	}
}

func (r *Record) setCalls(calls ServiceCategory) {
	r.CallComplaints = calls.Value(CallComplaints)
	r.CallContactRequests = calls.Value(CallContactRequests)
	r.CallMaintenanceRequests = calls.Value(CallMaintenanceRequests)
	r.CallInquiries = calls.Value(CallInquiries)
	r.CallOfficeAppointments = calls.Value(CallOfficeAppointments)
	r.CallProjectAppointments = calls.Value(CallProjectAppointments)
	r.CallGuestAppointments = calls.Value(CallInterestedClients)
}

var (
	categoryTitles = map[string]string{
		CategoryCalls:       "Calls",
		CategoryInquiries:   "Inquiries",
		CategoryMaintenance: "Maintenance requests",
	}

	itemLabels = map[string]string{
		CallComplaints:          "Complaints",
		CallContactRequests:     "Contact requests",
		CallMaintenanceRequests: "Maintenance requests",
		CallInquiries:           "Inquiries",
		CallOfficeAppointments:  "Office appointments",
		CallProjectAppointments: "Project appointments",
		CallInterestedClients:   "Interested clients",

		"generalInquiries":  "General inquiries",
		"documentRequests":  "Document requests",
		"suspectInquiries":  "Suspect inquiries",
		"apartmentRentals":  "Apartment rentals",
		"availableProjects": "Available projects",

		"cancelled":  "Cancelled",
		"resolved":   "Resolved",
		"inProgress": "In progress",
	}

	categoryItems = map[string][]string{
		CategoryCalls: {
			CallComplaints, CallContactRequests, CallMaintenanceRequests, CallInquiries,
			CallOfficeAppointments, CallProjectAppointments, CallInterestedClients,
		},
		CategoryInquiries:   {"generalInquiries", "documentRequests", "suspectInquiries", "apartmentRentals", "availableProjects"},
		CategoryMaintenance: {"cancelled", "resolved", "inProgress"},
	}

	categoryOrder = []string{CategoryCalls, CategoryInquiries, CategoryMaintenance}

	defaults = map[core.Period]map[string][]int{
		core.Weekly: {
			CategoryCalls:       {28, 42, 65, 58, 34, 38, 42},
			CategoryInquiries:   {20, 10, 8, 12, 8},
			CategoryMaintenance: {5, 45, 15},
		},
		core.Yearly: {
			CategoryCalls:       {350, 520, 780, 650, 420, 480, 520},
			CategoryInquiries:   {240, 120, 90, 150, 95},
			CategoryMaintenance: {60, 550, 170},
		},
	}
)

func defaultCategory(period core.Period, id string) ServiceCategory {
	values := defaults[period][id]
	c := ServiceCategory{ID: id, Title: categoryTitles[id]}
	for i, itemID := range categoryItems[id] {
		var v int
		if i < len(values) {
			v = values[i]
		}
		c.Metrics = append(c.Metrics, Item{ID: itemID, Label: itemLabels[itemID], Value: v})
	}
	return c
}

// DefaultServiceData returns the built-in service categories for period.
func DefaultServiceData(period core.Period) []ServiceCategory {
	categories := make([]ServiceCategory, 0, len(categoryOrder))
	for _, id := range categoryOrder {
		categories = append(categories, defaultCategory(period, id))
	}
	return categories
}
