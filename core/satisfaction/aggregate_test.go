package satisfaction

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWeightedPercentage(t *testing.T) {
	tests := []struct {
		name string
		b    Buckets
		want float64
	}{
		{name: "no responses", b: Buckets{}, want: 0},
		{name: "all very good", b: Buckets{VeryGood: 10}, want: 100},
		{name: "all good", b: Buckets{Good: 7}, want: 80},
		{name: "all neutral", b: Buckets{Neutral: 3}, want: 60},
		{name: "all bad", b: Buckets{Bad: 1}, want: 40},
		{name: "all very bad", b: Buckets{VeryBad: 10}, want: 20},
		{name: "weekly first time default", b: Buckets{VeryGood: 35, Good: 38, Neutral: 18, Bad: 6, VeryBad: 3}, want: 79.2},
		{name: "even spread", b: Buckets{VeryGood: 1, Good: 1, Neutral: 1, Bad: 1, VeryBad: 1}, want: 60},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, WeightedPercentage(tt.b), 1e-9)
		})
	}
}

func TestPositivePercentage(t *testing.T) {
	tests := []struct {
		name string
		b    Buckets
		want float64
	}{
		{name: "no responses", b: Buckets{}, want: 0},
		{name: "all very good", b: Buckets{VeryGood: 10}, want: 100},
		{name: "all good", b: Buckets{Good: 4}, want: 100},
		{name: "all very bad", b: Buckets{VeryBad: 10}, want: 0},
		{name: "neutral is not positive", b: Buckets{Good: 1, Neutral: 1}, want: 50},
		{name: "weekly first time default", b: Buckets{VeryGood: 35, Good: 38, Neutral: 18, Bad: 6, VeryBad: 3}, want: 73},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, PositivePercentage(tt.b), 1e-9)
		})
	}
}

func TestFormulasDiffer(t *testing.T) {
	b := Buckets{VeryBad: 10}
	assert.NotEqual(t, WeightedPercentage(b), PositivePercentage(b))
}

func TestFormatPositive(t *testing.T) {
	tests := []struct {
		b    Buckets
		want string
	}{
		{b: Buckets{}, want: "0%"},
		{b: Buckets{VeryGood: 1}, want: "100.0%"},
		{b: Buckets{VeryGood: 35, Good: 38, Neutral: 18, Bad: 6, VeryBad: 3}, want: "73.0%"},
		{b: Buckets{Good: 1, Neutral: 2}, want: "33.3%"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatPositive(tt.b))
		})
	}
}
