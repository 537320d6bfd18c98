package satisfaction

import (
	"time"

	"github.com/alramz/cxdash/core"
)

// Dataset is the cache dataset of the surveys.
const Dataset = "satisfactionData"

// Categories
const (
	CategoryFirstTimeResolution = "first_time_resolution"
	CategoryClosingTime         = "closing_time"
	CategoryServiceQuality      = "service_quality"
)

var (
	CategoryIDs = []string{CategoryFirstTimeResolution, CategoryClosingTime, CategoryServiceQuality}

	categoryTitles = map[string]string{
		CategoryFirstTimeResolution: "First-time resolution",
		CategoryClosingTime:         "Closing time",
		CategoryServiceQuality:      "Service quality",
	}
)

type Category struct {
	ID      string  `json:"id" validate:"required,oneof=first_time_resolution closing_time service_quality"`
	Title   string  `json:"title"`
	Buckets Buckets `json:"buckets"`
}

// Survey holds one dated set of responses for a period.
type Survey struct {
	ID         string      `json:"id,omitempty"`
	Period     core.Period `json:"period"`
	Date       string      `json:"date"` // YYYY-MM-DD
	Categories []Category  `json:"categories" validate:"required,dive"`
	Comments   string      `json:"comments" validate:"max=4000"`
	CreatedBy  string      `json:"created_by,omitempty"`
	CreatedAt  time.Time   `json:"created_at"`
}

func (s Survey) Category(id string) Category {
	for _, c := range s.Categories {
		if c.ID == id {
			return c
		}
	}
	return Category{ID: id, Title: categoryTitles[id]}
}

// Normalize keeps one entry per known category, in CategoryIDs order. Missing categories are zeroed.
func (s *Survey) Normalize() {
	categories := make([]Category, 0, len(CategoryIDs))
	for _, id := range CategoryIDs {
		c := s.Category(id)
		if c.Title == "" {
			c.Title = categoryTitles[id]
		}
		categories = append(categories, c)
	}
	s.Categories = categories
}

// Score is the aggregated view of a Category.
type Score struct {
	ID            string  `json:"id"`
	Title         string  `json:"title"`
	Responses     int     `json:"responses"`
	Weighted      float64 `json:"weighted"`
	Positive      float64 `json:"positive"`
	PositiveLabel string  `json:"positive_label"`
}

func Scores(s Survey) []Score {
	scores := make([]Score, 0, len(s.Categories))
	for _, c := range s.Categories {
		scores = append(scores, Score{
			ID:            c.ID,
			Title:         c.Title,
			Responses:     c.Buckets.Total(),
			Weighted:      WeightedPercentage(c.Buckets),
			Positive:      PositivePercentage(c.Buckets),
			PositiveLabel: FormatPositive(c.Buckets),
		})
	}
	return scores
}

// Averages are the weighted percentages recorded on the analytics data.
type Averages struct {
	FirstTimeResolution float64
	ClosingTime         float64
	ServiceQuality      float64
}

func (s Survey) Averages() Averages {
	return Averages{
		FirstTimeResolution: WeightedPercentage(s.Category(CategoryFirstTimeResolution).Buckets),
		ClosingTime:         WeightedPercentage(s.Category(CategoryClosingTime).Buckets),
		ServiceQuality:      WeightedPercentage(s.Category(CategoryServiceQuality).Buckets),
	}
}

var defaults = map[core.Period]map[string]Buckets{
	core.Weekly: {
		CategoryFirstTimeResolution: {VeryGood: 35, Good: 38, Neutral: 18, Bad: 6, VeryBad: 3},
		CategoryClosingTime:         {VeryGood: 25, Good: 45, Neutral: 20, Bad: 7, VeryBad: 3},
		CategoryServiceQuality:      {VeryGood: 30, Good: 40, Neutral: 20, Bad: 8, VeryBad: 2},
	},
	core.Yearly: {
		CategoryFirstTimeResolution: {VeryGood: 420, Good: 500, Neutral: 220, Bad: 80, VeryBad: 30},
		CategoryClosingTime:         {VeryGood: 320, Good: 550, Neutral: 240, Bad: 90, VeryBad: 40},
		CategoryServiceQuality:      {VeryGood: 380, Good: 520, Neutral: 250, Bad: 100, VeryBad: 35},
	},
}

// DefaultSurvey returns the built-in responses for period, dated today.
func DefaultSurvey(period core.Period) Survey {
	s := Survey{Period: period, Date: core.Today()}
	for _, id := range CategoryIDs {
		s.Categories = append(s.Categories, Category{ID: id, Title: categoryTitles[id], Buckets: defaults[period][id]})
	}
	return s
}
