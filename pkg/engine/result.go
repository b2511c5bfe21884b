package engine

import "fmt"

// Status is the verdict of evaluating a directive against an aircraft.
type Status string

const (
	// StatusAffected means the directive applies to the aircraft.
	StatusAffected Status = "yes"
	// StatusNotAffected means the directive is in scope for the aircraft, but
	// its modification state exempts it.
	StatusNotAffected Status = "no"
	// StatusNotApplicable means the directive does not cover the aircraft's
	// model or serial number.
	StatusNotApplicable Status = "not applicable"
)

// AllStatuses lists every [Status], in order of decreasing concern.
var AllStatuses = []Status{StatusAffected, StatusNotAffected, StatusNotApplicable}

// Affected reports whether s is [StatusAffected].
func (s Status) Affected() bool {
	return s == StatusAffected
}

func (s Status) String() string {
	return string(s)
}

// ReasonSeparator joins the per-stage sentences of a [Result] reason.
const ReasonSeparator = "; "

// Result is the outcome of evaluating one directive against one aircraft.
type Result struct {
	DirectiveID string `json:"ad_id"`
	Model       string `json:"aircraft_model"`
	Status      Status `json:"status"`
	Reason      string `json:"reason"`
	// Checks holds the sentence of every evaluated stage. Reason joins them
	// with [ReasonSeparator].
	Checks   []string `json:"-"`
	Serial   int      `json:"msn"`
	Affected bool     `json:"is_affected"`
}

func (r Result) String() string {
	return fmt.Sprintf("%s: %s-%d: %s", r.DirectiveID, r.Model, r.Serial, r.Status)
}
