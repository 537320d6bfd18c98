package kpi

import (
	"time"

	"github.com/alramz/cxdash/core"
)

const (
	CategoryPerformance = "performance"

	// Dataset is the cache dataset of the performance metrics.
	Dataset = "performanceMetrics"

	// recentLimit is the number of KPIs on the dashboard.
	recentLimit = 12
)

// KPI names
const (
	DeliveryQuality           = "deliveryQuality"
	OldClientReferral         = "oldClientReferral"
	AfterYearReferral         = "afterYearReferral"
	NewClientReferral         = "newClientReferral"
	MaintenanceQuality        = "maintenanceQuality"
	ResponseTime              = "responseTime"
	CSAT                      = "csat"
	CallResponseRate          = "callResponseRate"
	MaintenanceClosureSpeed   = "maintenanceClosureSpeed"
	ReopenRequests            = "reopenRequests"
	FacilityManagementQuality = "facilityManagementQuality"
	ConversionRate            = "conversionRate"
)

var Names = []string{
	DeliveryQuality, OldClientReferral, AfterYearReferral, NewClientReferral,
	MaintenanceQuality, ResponseTime, CSAT, CallResponseRate,
	MaintenanceClosureSpeed, ReopenRequests, FacilityManagementQuality, ConversionRate,
}

type Metric struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	Period    core.Period `json:"period"`
	Date      string      `json:"date"` // YYYY-MM-DD
	Category  string      `json:"category"`
	Value     float64     `json:"value"`
	Goal      float64     `json:"goal"`
	Change    float64     `json:"change"`
	Achieved  bool        `json:"achieved"`
	CreatedBy string      `json:"created_by,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
}

// NewMetric is a submitted KPI value. Achieved is never taken from input.
type NewMetric struct {
	Name   string   `json:"name" validate:"required,max=64"`
	Value  *float64 `json:"value" validate:"required"`
	Goal   *float64 `json:"goal" validate:"required"`
	Change float64  `json:"change"`
}

// SaveMetrics is the body of a metrics submission. Date defaults to today.
type SaveMetrics struct {
	Date    string      `json:"date" validate:"omitempty,datetime=2006-01-02"`
	Metrics []NewMetric `json:"metrics" validate:"required,min=1,dive"`
}

// MetricEvaluation pairs a Metric with its Evaluation.
type MetricEvaluation struct {
	Metric     Metric     `json:"metric"`
	Evaluation Evaluation `json:"evaluation"`
}

type goalValue struct {
	goal, value float64
}

var defaults = map[core.Period]map[string]goalValue{
	core.Weekly: {
		DeliveryQuality:           {100, 98},
		OldClientReferral:         {30, 30},
		AfterYearReferral:         {65, 67},
		NewClientReferral:         {65, 65},
		MaintenanceQuality:        {100, 96},
		ResponseTime:              {3, 2.8},
		CSAT:                      {70, 74},
		CallResponseRate:          {80, 18},
		MaintenanceClosureSpeed:   {3, 2.5},
		ReopenRequests:            {0, 0},
		FacilityManagementQuality: {80, 80},
		ConversionRate:            {2, 2},
	},
	core.Yearly: {
		DeliveryQuality:           {100, 95},
		OldClientReferral:         {35, 32},
		AfterYearReferral:         {70, 65},
		NewClientReferral:         {70, 68},
		MaintenanceQuality:        {100, 90},
		ResponseTime:              {3, 3},
		CSAT:                      {75, 76},
		CallResponseRate:          {85, 75},
		MaintenanceClosureSpeed:   {2.8, 2.5},
		ReopenRequests:            {0, 1},
		FacilityManagementQuality: {85, 83},
		ConversionRate:            {2.5, 2.3},
	},
}

// DefaultMetrics returns the built-in KPI set for period, dated today.
func DefaultMetrics(period core.Period) []Metric {
	table, ok := defaults[period]
	if !ok {
		return []Metric{}
	}
	today := core.Today()
	metrics := make([]Metric, 0, len(Names))
	for _, name := range Names {
		gv := table[name]
		metrics = append(metrics, Metric{
			Name:     name,
			Period:   period,
			Date:     today,
			Category: CategoryPerformance,
			Value:    gv.value,
			Goal:     gv.goal,
			Achieved: Evaluate(gv.value, gv.goal).Achieved,
		})
	}
	return metrics
}
