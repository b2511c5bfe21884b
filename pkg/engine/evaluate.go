package engine

import (
	"fmt"
	"strings"

	"github.com/macropower/adcheck/pkg/aircraft"
	"github.com/macropower/adcheck/pkg/directive"
)

// check is one stage of the evaluation pipeline. It reports whether the
// aircraft passed, and a sentence explaining why.
type check func(ac aircraft.Configuration, rules *directive.ApplicabilityRules) (bool, string)

type stage struct {
	check  check
	label  string
	onFail Status
}

var pipeline = []stage{
	{label: "Model check", check: checkModel, onFail: StatusNotApplicable},
	{label: "MSN check", check: checkSerial, onFail: StatusNotApplicable},
	{label: "Excluded mods check", check: checkNotExcluded, onFail: StatusNotAffected},
	{label: "Required mods check", check: checkRequired, onFail: StatusNotAffected},
}

// EvaluateDirective evaluates a single directive against an aircraft. It is
// a pure function of its arguments.
func EvaluateDirective(ac aircraft.Configuration, d *directive.Directive) Result {
	rules := d.Rules()
	status := StatusAffected
	checks := make([]string, 0, len(pipeline))

	for _, s := range pipeline {
		ok, reason := s.check(ac, rules)
		checks = append(checks, s.label+": "+reason)

		if !ok {
			status = s.onFail
			break
		}
	}

	return Result{
		DirectiveID: d.ID(),
		Model:       ac.Model,
		Serial:      ac.Serial,
		Affected:    status.Affected(),
		Status:      status,
		Reason:      strings.Join(checks, ReasonSeparator),
		Checks:      checks,
	}
}

func checkModel(ac aircraft.Configuration, rules *directive.ApplicabilityRules) (bool, string) {
	if !rules.HasModel(ac.Model) {
		return false, fmt.Sprintf("Aircraft model '%s' is not in the affected models list", ac.Model)
	}

	return true, fmt.Sprintf("Aircraft model '%s' is in the affected models list", ac.Model)
}

func checkSerial(ac aircraft.Configuration, rules *directive.ApplicabilityRules) (bool, string) {
	serial, ok := rules.Serial()
	if !ok {
		return true, "No MSN constraints specified"
	}

	if !serial.Matches(ac.Serial) {
		return false, fmt.Sprintf("MSN %d does not meet the constraints", ac.Serial)
	}

	return true, fmt.Sprintf("MSN %d meets the constraints", ac.Serial)
}

// checkNotExcluded passes when no excluded modification is present. The
// first excluded constraint (in definition order) with any match is cited.
func checkNotExcluded(ac aircraft.Configuration, rules *directive.ApplicabilityRules) (bool, string) {
	excluded := rules.Excluded()

	for _, m := range excluded {
		if mod, ok := m.FirstMatch(ac.Modifications); ok {
			return false, fmt.Sprintf("Aircraft has excluded modification: %s (matched: %s)", m.ID(), mod)
		}
	}

	if len(excluded) > 0 {
		return true, "Aircraft does not have any excluded modifications"
	}

	return true, "No excluded modifications specified"
}

func checkRequired(ac aircraft.Configuration, rules *directive.ApplicabilityRules) (bool, string) {
	required := rules.Required()
	if len(required) == 0 {
		return true, "No required modifications specified"
	}

	for _, m := range required {
		if _, ok := m.FirstMatch(ac.Modifications); ok {
			return true, "Aircraft has required modification: " + m.ID()
		}
	}

	return false, "Aircraft does not have any of the required modifications"
}
