package engine

import (
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/macropower/adcheck/pkg/aircraft"
	"github.com/macropower/adcheck/pkg/directive"
)

// ErrNotFound is returned when no loaded directive has the requested ID.
var ErrNotFound = errors.New("directive not found")

// Source provides a directive collection, e.g. a [*directive.Loader] or a
// [directive.List].
type Source interface {
	Load() ([]*directive.Directive, error)
}

// collection is an immutable snapshot of the loaded directives.
type collection struct {
	byID       map[string]*directive.Directive
	directives []*directive.Directive
}

func newCollection(directives []*directive.Directive) (*collection, error) {
	c := &collection{
		byID:       make(map[string]*directive.Directive, len(directives)),
		directives: make([]*directive.Directive, 0, len(directives)),
	}

	for i, d := range directives {
		if d == nil {
			return nil, fmt.Errorf("directive %d is nil", i)
		}

		if _, ok := c.byID[d.ID()]; ok {
			return nil, fmt.Errorf("%w: %s", directive.ErrDuplicateID, d.ID())
		}

		c.byID[d.ID()] = d
		c.directives = append(c.directives, d)
	}

	return c, nil
}

// Engine evaluates aircraft against a collection of directives.
//
// Evaluation only reads an immutable snapshot of the collection, so an
// [Engine] is safe for concurrent use. [Engine.Load] swaps in a new snapshot;
// evaluations already in flight finish against the previous one.
type Engine struct {
	current atomic.Pointer[collection]
}

// New creates a new [Engine] evaluating the given directives, in order.
// Directive IDs must be unique.
func New(directives ...*directive.Directive) (*Engine, error) {
	c, err := newCollection(directives)
	if err != nil {
		return nil, fmt.Errorf("create engine: %w", err)
	}

	e := &Engine{}
	e.current.Store(c)

	return e, nil
}

// MustNew creates a new [Engine] and panics on error.
func MustNew(directives ...*directive.Directive) *Engine {
	e, err := New(directives...)
	if err != nil {
		panic(err)
	}

	return e
}

// Load replaces the directive collection with the one provided by src. On
// error, the previous collection is kept.
func (e *Engine) Load(src Source) error {
	directives, err := src.Load()
	if err != nil {
		return fmt.Errorf("load directives: %w", err)
	}

	c, err := newCollection(directives)
	if err != nil {
		return fmt.Errorf("load directives: %w", err)
	}

	e.current.Store(c)

	slog.Debug("loaded directives", slog.Int("count", len(c.directives)))

	return nil
}

// Directives returns the loaded directives, in load order.
func (e *Engine) Directives() []*directive.Directive {
	return append([]*directive.Directive(nil), e.current.Load().directives...)
}

// Directive returns the loaded directive with the given ID.
func (e *Engine) Directive(id string) (*directive.Directive, bool) {
	d, ok := e.current.Load().byID[id]

	return d, ok
}

// Evaluate evaluates the directive with the given ID against an aircraft.
func (e *Engine) Evaluate(ac aircraft.Configuration, id string) (Result, error) {
	d, ok := e.Directive(id)
	if !ok {
		return Result{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	return EvaluateDirective(ac, d), nil
}

// EvaluateAll evaluates every loaded directive against an aircraft. Results
// are in load order.
func (e *Engine) EvaluateAll(ac aircraft.Configuration) []Result {
	return evaluateAll(e.current.Load(), ac)
}

// EvaluateFleet evaluates every loaded directive against each aircraft.
func (e *Engine) EvaluateFleet(fleet []aircraft.Configuration) *Fleet {
	c := e.current.Load()

	ids := make([]string, 0, len(c.directives))
	for _, d := range c.directives {
		ids = append(ids, d.ID())
	}

	f := newFleet(ids, len(fleet))
	for _, ac := range fleet {
		f.put(ac, evaluateAll(c, ac))
	}

	slog.Debug("evaluated fleet",
		slog.Int("aircraft", f.Len()),
		slog.Int("directives", len(ids)),
	)

	return f
}

func evaluateAll(c *collection, ac aircraft.Configuration) []Result {
	results := make([]Result, 0, len(c.directives))
	for _, d := range c.directives {
		results = append(results, EvaluateDirective(ac, d))
	}

	return results
}
