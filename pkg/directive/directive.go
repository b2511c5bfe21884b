package directive

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/macropower/adcheck/pkg/constraint"
)

var (
	// ErrMissingField is returned when a required directive field is blank.
	ErrMissingField = errors.New("missing required field")

	// ErrNoModels is returned when applicability rules list no aircraft models.
	ErrNoModels = errors.New("at least one aircraft model is required")
)

// Directive is an Airworthiness Directive: a regulatory mandate identified by
// its ID, together with the rules that decide which aircraft it applies to.
type Directive struct {
	rules         *ApplicabilityRules
	id            string
	authority     string
	title         string
	effectiveDate string
	summary       string
}

// Opt configures optional [Directive] fields.
type Opt func(*Directive)

// WithTitle sets the directive title.
func WithTitle(title string) Opt {
	return func(d *Directive) {
		d.title = title
	}
}

// WithEffectiveDate sets the effective date, as written by the authority.
func WithEffectiveDate(date string) Opt {
	return func(d *Directive) {
		d.effectiveDate = date
	}
}

// WithSummary sets a brief summary of what the directive addresses.
func WithSummary(summary string) Opt {
	return func(d *Directive) {
		d.summary = summary
	}
}

// New creates a new [Directive]. The id and issuing authority are required.
func New(id, authority string, rules *ApplicabilityRules, opts ...Opt) (*Directive, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, fmt.Errorf("%w: ad_id", ErrMissingField)
	}

	authority = strings.TrimSpace(authority)
	if authority == "" {
		return nil, fmt.Errorf("%w: issuing_authority", ErrMissingField)
	}

	if rules == nil {
		return nil, fmt.Errorf("%w: applicability_rules", ErrMissingField)
	}

	d := &Directive{
		id:        id,
		authority: authority,
		rules:     rules,
	}
	for _, opt := range opts {
		opt(d)
	}

	return d, nil
}

// MustNew creates a new [Directive] and panics on error.
func MustNew(id, authority string, rules *ApplicabilityRules, opts ...Opt) *Directive {
	d, err := New(id, authority, rules, opts...)
	if err != nil {
		panic(err)
	}

	return d
}

func (d *Directive) ID() string            { return d.id }
func (d *Directive) Authority() string     { return d.authority }
func (d *Directive) Title() string         { return d.title }
func (d *Directive) EffectiveDate() string { return d.effectiveDate }
func (d *Directive) Summary() string       { return d.summary }

// Rules returns the applicability rules.
func (d *Directive) Rules() *ApplicabilityRules {
	return d.rules
}

func (d *Directive) String() string {
	if d.title == "" {
		return d.id
	}

	return fmt.Sprintf("%s: %s", d.id, d.title)
}

// Definition converts the directive back into its definition form.
func (d *Directive) Definition() Definition {
	return Definition{
		ID:            d.id,
		Authority:     d.authority,
		Title:         d.title,
		EffectiveDate: d.effectiveDate,
		Summary:       d.summary,
		Rules:         d.rules.Definition(),
	}
}

// ApplicabilityRules decide whether a [Directive] pertains to an aircraft.
type ApplicabilityRules struct {
	serial     constraint.Serial
	additional AdditionalConstraints
	models     []string
	excluded   []*constraint.Modification
	required   []*constraint.Modification
}

// RulesOpt configures optional [ApplicabilityRules] fields.
type RulesOpt func(*ApplicabilityRules)

// WithSerial restricts the rules to serial numbers matching s.
func WithSerial(s constraint.Serial) RulesOpt {
	return func(r *ApplicabilityRules) {
		r.serial = s
	}
}

// WithExcluded adds modifications whose presence exempts an aircraft.
func WithExcluded(mods ...*constraint.Modification) RulesOpt {
	return func(r *ApplicabilityRules) {
		r.excluded = append(r.excluded, mods...)
	}
}

// WithRequired adds modifications of which an aircraft must carry at least
// one for the directive to apply.
func WithRequired(mods ...*constraint.Modification) RulesOpt {
	return func(r *ApplicabilityRules) {
		r.required = append(r.required, mods...)
	}
}

// WithAdditional attaches informational [AdditionalConstraints].
func WithAdditional(a AdditionalConstraints) RulesOpt {
	return func(r *ApplicabilityRules) {
		r.additional = a
	}
}

// NewApplicabilityRules creates [ApplicabilityRules] covering the given
// aircraft models. Models are compared exactly, so they are stored as given.
func NewApplicabilityRules(models []string, opts ...RulesOpt) (*ApplicabilityRules, error) {
	if len(models) == 0 {
		return nil, ErrNoModels
	}

	for i, m := range models {
		if strings.TrimSpace(m) == "" {
			return nil, fmt.Errorf("%w: aircraft model %d is empty", ErrMissingField, i)
		}
	}

	r := &ApplicabilityRules{models: slices.Clone(models)}
	for _, opt := range opts {
		opt(r)
	}

	if slices.Contains(r.excluded, nil) || slices.Contains(r.required, nil) {
		return nil, fmt.Errorf("%w: nil modification", constraint.ErrInvalidModification)
	}

	return r, nil
}

// MustNewApplicabilityRules creates [ApplicabilityRules] and panics on error.
func MustNewApplicabilityRules(models []string, opts ...RulesOpt) *ApplicabilityRules {
	r, err := NewApplicabilityRules(models, opts...)
	if err != nil {
		panic(err)
	}

	return r
}

// Models returns a copy of the affected aircraft models.
func (r *ApplicabilityRules) Models() []string {
	return slices.Clone(r.models)
}

// HasModel reports whether model is exactly one of the affected models.
func (r *ApplicabilityRules) HasModel(model string) bool {
	return slices.Contains(r.models, model)
}

// Serial returns the serial number constraint, if any.
//
//nolint:ireturn // Returns one of the sealed variants.
func (r *ApplicabilityRules) Serial() (constraint.Serial, bool) {
	return r.serial, r.serial != nil
}

// Excluded returns the exempting modifications, in definition order.
func (r *ApplicabilityRules) Excluded() []*constraint.Modification {
	return slices.Clone(r.excluded)
}

// Required returns the required modifications, in definition order.
func (r *ApplicabilityRules) Required() []*constraint.Modification {
	return slices.Clone(r.required)
}

// Additional returns the informational constraints.
func (r *ApplicabilityRules) Additional() AdditionalConstraints {
	return r.additional
}

// Definition converts the rules back into their definition form.
func (r *ApplicabilityRules) Definition() RulesDefinition {
	s := RulesDefinition{
		Models:     r.Models(),
		Excluded:   modificationDefinitions(r.excluded),
		Required:   modificationDefinitions(r.required),
		Additional: r.additional,
	}
	if r.serial != nil {
		s.Serial = serialDefinition(r.serial)
	}

	return s
}

// AdditionalConstraints holds further applicability criteria published with
// a directive. They are carried for reporting only and are never evaluated.
type AdditionalConstraints struct {
	// ManufacturedBefore is a date (YYYY-MM-DD) before which affected
	// aircraft were manufactured.
	ManufacturedBefore string `json:"manufactured_before,omitempty" jsonschema:"title=Manufactured Before,format=date"`
	// Notes holds free-text remarks.
	Notes string `json:"notes,omitempty" jsonschema:"title=Notes"`
	// FlightHours is a flight hour threshold.
	FlightHours float64 `json:"flight_hours,omitempty" jsonschema:"title=Flight Hours,minimum=0"`
	// FlightCycles is a flight cycle threshold.
	FlightCycles int `json:"flight_cycles,omitempty" jsonschema:"title=Flight Cycles,minimum=0"`
}

// IsZero reports whether no additional constraint is set.
func (a AdditionalConstraints) IsZero() bool {
	return a == AdditionalConstraints{}
}
