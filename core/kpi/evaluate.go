package kpi

// Proximity tells how far a missed goal is.
type Proximity string

const (
	ProximityClose Proximity = "close"
	ProximityFar   Proximity = "far"
)

// closeRatio is the value/goal percentage from which a missed goal is near.
const closeRatio = 90

const (
	LabelGoalMet    = "goal met"
	LabelNearGoal   = "near goal"
	LabelGoalMissed = "goal missed"

	ClassGreen = "green"
	ClassAmber = "amber"
	ClassRed   = "red"
)

// Evaluation is the outcome of comparing a measured value to its goal.
// Ratio is value/goal*100. It is kept out of JSON since a zero goal makes it Inf or NaN.
type Evaluation struct {
	Achieved    bool      `json:"achieved"`
	Ratio       float64   `json:"-"`
	Proximity   Proximity `json:"proximity,omitempty"`
	StatusLabel string    `json:"status_label"`
	StatusClass string    `json:"status_class"`
}

// Evaluate reports whether value meets goal.
// The comparison is always value >= goal, including for metrics where lower is better.
// A zero goal is not special-cased.
func Evaluate(value, goal float64) Evaluation {
	ev := Evaluation{
		Achieved: value >= goal,
		Ratio:    value / goal * 100,
	}

	switch {
	case ev.Achieved:
		ev.StatusLabel, ev.StatusClass = LabelGoalMet, ClassGreen
	case ev.Ratio >= closeRatio:
		ev.Proximity = ProximityClose
		ev.StatusLabel, ev.StatusClass = LabelNearGoal, ClassAmber
	default:
		ev.Proximity = ProximityFar
		ev.StatusLabel, ev.StatusClass = LabelGoalMissed, ClassRed
	}
	return ev
}
