package report

import (
	"fmt"

	"github.com/macropower/adcheck/pkg/engine"
	"github.com/macropower/adcheck/pkg/expr"
)

// Filter selects fleet entries using a CEL expression that evaluates to a
// bool. Expressions have access to:
//   - `aircraft` (map): `aircraft_model`, `msn`, `modifications` and
//     `additional_info`.
//   - `results` (map): directive ID to `status`, `is_affected` and `reason`.
//
// For example:
//
//	results.anyStatus(status.AFFECTED) && aircraft.msn < 10000
type Filter struct {
	program *expr.Program
}

// NewFilter compiles a [Filter] expression.
func NewFilter(expression string) (*Filter, error) {
	env, err := expr.Default()
	if err != nil {
		return nil, err
	}

	program, err := env.Compile(expression)
	if err != nil {
		return nil, fmt.Errorf("filter %q: %w", expression, err)
	}

	return &Filter{program: program}, nil
}

func (f *Filter) String() string {
	return f.program.String()
}

// Match evaluates the expression against a single entry.
func (f *Filter) Match(e engine.FleetEntry) (bool, error) {
	match, err := f.program.Match(e)
	if err != nil {
		return false, fmt.Errorf("filter: %w", err)
	}

	return match, nil
}

// Apply returns a new fleet holding only the matching entries.
func (f *Filter) Apply(fleet *engine.Fleet) (*engine.Fleet, error) {
	return fleet.Filter(f.Match)
}
