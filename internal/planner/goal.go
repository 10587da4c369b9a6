package planner

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// DefaultGoal is the fallback target used when a submitted goal cannot be
// parsed.
const DefaultGoal = "burn 1000 calories per week"

// ErrUnrealisticGoal indicates the goal parsed cleanly but its target exceeds
// the realism limits.
var ErrUnrealisticGoal = errors.New("goal target is unrealistic")

// GoalMetric identifies what a goal measures.
type GoalMetric string

const (
	MetricCalories GoalMetric = "calories"
	MetricSteps    GoalMetric = "steps"
	MetricDistance GoalMetric = "distance"
)

// GoalPeriod is the time window a goal target applies to.
type GoalPeriod string

const (
	PeriodDay   GoalPeriod = "day"
	PeriodWeek  GoalPeriod = "week"
	PeriodMonth GoalPeriod = "month"
)

// Goal is a parsed fitness target.
type Goal struct {
	Raw    string
	Metric GoalMetric
	Amount float64
	Period GoalPeriod
}

// Description renders the goal back into the phrasing fed to the model.
func (g Goal) Description() string {
	unit := string(g.Metric)
	if g.Metric == MetricDistance {
		unit = "km"
	}
	return fmt.Sprintf("%s %s %s per %s", goalVerbs[g.Metric], strconv.FormatFloat(g.Amount, 'f', -1, 64), unit, g.Period)
}

var goalVerbs = map[GoalMetric]string{
	MetricCalories: "burn",
	MetricSteps:    "walk",
	MetricDistance: "run",
}

// Per-day realism ceilings. Week and month limits scale from these.
var dailyLimits = map[GoalMetric]float64{
	MetricCalories: 10000,
	MetricSteps:    100000,
	MetricDistance: 100,
}

var periodDays = map[GoalPeriod]float64{
	PeriodDay:   1,
	PeriodWeek:  7,
	PeriodMonth: 30,
}

var goalPattern = regexp.MustCompile(
	`(?i)\b(burn|walk|take|run|cover)\s+([0-9]+(?:\.[0-9]+)?)\s*(calories|cal|steps|km|kilometers|miles)\b(?:.*?\bper\s+(day|week|month)\b)?`)

// ParseGoal extracts a structured target from a free-text goal such as
// "burn 1000 calories per week". The period defaults to week when omitted.
// Returns ErrUnrealisticGoal when the target exceeds the realism limits and
// a plain error when no target can be recognized.
func ParseGoal(text string) (Goal, error) {
	m := goalPattern.FindStringSubmatch(strings.TrimSpace(text))
	if m == nil {
		return Goal{}, fmt.Errorf("unrecognized goal %q", text)
	}

	amount, err := strconv.ParseFloat(m[2], 64)
	if err != nil {
		return Goal{}, fmt.Errorf("parse goal amount %q: %w", m[2], err)
	}
	if amount <= 0 {
		return Goal{}, fmt.Errorf("goal amount must be positive, got %s", m[2])
	}

	var metric GoalMetric
	switch strings.ToLower(m[3]) {
	case "calories", "cal":
		metric = MetricCalories
	case "steps":
		metric = MetricSteps
	default:
		metric = MetricDistance
	}

	// Miles normalize to kilometers so the realism limit has one unit.
	if strings.EqualFold(m[3], "miles") {
		amount *= 1.609
	}

	period := PeriodWeek
	if m[4] != "" {
		period = GoalPeriod(strings.ToLower(m[4]))
	}

	goal := Goal{Raw: text, Metric: metric, Amount: amount, Period: period}
	if amount > dailyLimits[metric]*periodDays[period] {
		return Goal{}, fmt.Errorf("%w: %s", ErrUnrealisticGoal, goal.Description())
	}

	return goal, nil
}

// ParseGoalOrDefault parses the goal text, falling back to DefaultGoal when
// the text is empty or unrecognizable. Unrealistic goals are still rejected:
// silently substituting a different target would mislead the user.
func ParseGoalOrDefault(text string) (Goal, error) {
	if strings.TrimSpace(text) == "" {
		text = DefaultGoal
	}

	goal, err := ParseGoal(text)
	if err == nil {
		return goal, nil
	}
	if errors.Is(err, ErrUnrealisticGoal) {
		return Goal{}, err
	}

	return ParseGoal(DefaultGoal)
}
