package expr

import (
	"errors"
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/types"

	"github.com/macropower/adcheck/pkg/engine"
)

// Variables declared by every [Environment].
const (
	// VarAircraft is a map with the keys `aircraft_model`, `msn`,
	// `modifications` and `additional_info`.
	VarAircraft = "aircraft"
	// VarResults maps directive IDs to maps with the keys `status`,
	// `is_affected` and `reason`.
	VarResults = "results"
)

// ErrNotBool is returned when an expression does not evaluate to a bool.
var ErrNotBool = errors.New("expected bool")

var defaultEnv = sync.OnceValues(func() (*Environment, error) {
	return NewEnvironment()
})

// Environment compiles expressions over a single [engine.FleetEntry].
type Environment struct {
	env *cel.Env
}

// NewEnvironment creates a new [Environment] declaring [VarAircraft],
// [VarResults] and the `status.*` constants. Any opts are applied after them.
func NewEnvironment(opts ...cel.EnvOption) (*Environment, error) {
	declarations := []cel.EnvOption{
		cel.Variable(VarAircraft, cel.MapType(cel.StringType, cel.DynType)),
		cel.Variable(VarResults, cel.MapType(cel.StringType, cel.MapType(cel.StringType, cel.DynType))),

		cel.Constant("status.AFFECTED", types.StringType, types.String(engine.StatusAffected)),
		cel.Constant("status.NOT_AFFECTED", types.StringType, types.String(engine.StatusNotAffected)),
		cel.Constant("status.NOT_APPLICABLE", types.StringType, types.String(engine.StatusNotApplicable)),

		cel.Lib(lib{}),
	}

	env, err := cel.NewEnv(append(declarations, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("create CEL environment: %w", err)
	}

	return &Environment{env: env}, nil
}

// MustNewEnvironment creates a new [Environment] and panics on error.
func MustNewEnvironment(opts ...cel.EnvOption) *Environment {
	env, err := NewEnvironment(opts...)
	if err != nil {
		panic(err)
	}

	return env
}

// Default returns a shared [Environment] without extra options.
func Default() (*Environment, error) {
	return defaultEnv()
}

// Compile compiles a boolean expression into a [Program].
func (e *Environment) Compile(expression string) (*Program, error) {
	ast, issues := e.env.Compile(expression)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("compile expression: %w", issues.Err())
	}

	program, err := e.env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("create program: %w", err)
	}

	return &Program{program: program, expression: expression}, nil
}

// Program is a compiled expression. It is safe for concurrent use.
type Program struct {
	program    cel.Program
	expression string
}

func (p *Program) String() string {
	return p.expression
}

// Match evaluates the expression against a single entry.
func (p *Program) Match(e engine.FleetEntry) (bool, error) {
	out, _, err := p.program.Eval(Activation(e))
	if err != nil {
		return false, fmt.Errorf("evaluate %q for %s: %w", p.expression, e.Aircraft.Identity(), err)
	}

	match, ok := out.(types.Bool)
	if !ok {
		return false, fmt.Errorf("%q: %w, got %s", p.expression, ErrNotBool, out.Type().TypeName())
	}

	return bool(match), nil
}

// Activation returns the variable bindings for e.
func Activation(e engine.FleetEntry) map[string]any {
	mods := e.Aircraft.Modifications
	if mods == nil {
		mods = []string{}
	}

	results := make(map[string]map[string]any, len(e.Results))
	for _, r := range e.Results {
		results[r.DirectiveID] = map[string]any{
			"status":      string(r.Status),
			"is_affected": r.Affected,
			"reason":      r.Reason,
		}
	}

	return map[string]any{
		VarAircraft: map[string]any{
			"aircraft_model":  e.Aircraft.Model,
			"msn":             e.Aircraft.Serial,
			"modifications":   mods,
			"additional_info": ConvertToCELValue(e.Aircraft.Extra),
		},
		VarResults: results,
	}
}
