package satisfaction

import "fmt"

// Buckets are the five ordinal survey response counts.
type Buckets struct {
	VeryGood int `json:"very_good" validate:"gte=0"`
	Good     int `json:"good" validate:"gte=0"`
	Neutral  int `json:"neutral" validate:"gte=0"`
	Bad      int `json:"bad" validate:"gte=0"`
	VeryBad  int `json:"very_bad" validate:"gte=0"`
}

func (b Buckets) Total() int {
	return b.VeryGood + b.Good + b.Neutral + b.Bad + b.VeryBad
}

// WeightedPercentage is the weighted mean of the responses on a 0-100 scale,
// with weights 5 (very good) down to 1 (very bad). 100 means every response is very good.
// It is 0 when there are no responses.
func WeightedPercentage(b Buckets) float64 {
	total := b.Total()
	if total == 0 {
		return 0
	}
	weighted := 5*b.VeryGood + 4*b.Good + 3*b.Neutral + 2*b.Bad + b.VeryBad
	return float64(weighted) / float64(total*5) * 100
}

// PositivePercentage is the share of very good and good responses, 0 when there are none.
func PositivePercentage(b Buckets) float64 {
	total := b.Total()
	if total == 0 {
		return 0
	}
	return float64(b.VeryGood+b.Good) / float64(total) * 100
}

// FormatPositive formats PositivePercentage for the dashboard badge: "73.0%", or "0%" without responses.
func FormatPositive(b Buckets) string {
	if b.Total() == 0 {
		return "0%"
	}
	return fmt.Sprintf("%.1f%%", PositivePercentage(b))
}
