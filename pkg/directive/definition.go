package directive

import (
	"fmt"

	"github.com/invopop/jsonschema"

	"github.com/macropower/adcheck/pkg/constraint"
)

// Definition is the serialized form of a [Directive], as found in directive
// definition sources.
type Definition struct {
	// ID is the unique AD identifier, e.g. "FAA-2025-23-53".
	ID string `json:"ad_id" jsonschema:"title=AD ID,minLength=1,pattern=\\S"`
	// Authority is the issuing authority, e.g. "FAA" or "EASA".
	Authority string `json:"issuing_authority" jsonschema:"title=Issuing Authority,minLength=1,pattern=\\S"`
	// Title is the directive title.
	Title string `json:"title,omitempty" jsonschema:"title=Title"`
	// EffectiveDate is the date the directive takes effect.
	EffectiveDate string `json:"effective_date,omitempty" jsonschema:"title=Effective Date"`
	// Summary briefly describes what the directive addresses.
	Summary string `json:"summary,omitempty" jsonschema:"title=Summary"`
	// Rules decide which aircraft the directive applies to.
	Rules RulesDefinition `json:"applicability_rules" jsonschema:"title=Applicability Rules"`
}

// Build validates the definition and converts it into a [Directive].
func (d Definition) Build() (*Directive, error) {
	rules, err := d.Rules.Build()
	if err != nil {
		return nil, fmt.Errorf("applicability_rules: %w", err)
	}

	return New(d.ID, d.Authority, rules,
		WithTitle(d.Title),
		WithEffectiveDate(d.EffectiveDate),
		WithSummary(d.Summary),
	)
}

// RulesDefinition is the serialized form of [ApplicabilityRules].
//
//nolint:recvcheck // Must satisfy the jsonschema interface.
type RulesDefinition struct {
	// Serial restricts the affected manufacturer serial numbers.
	Serial *SerialDefinition `json:"msn_constraints,omitempty" jsonschema:"title=MSN Constraints"`
	// Additional holds informational constraints that are not evaluated.
	Additional AdditionalConstraints `json:"additional_constraints,omitzero" jsonschema:"title=Additional Constraints"`
	// Models lists the affected aircraft models. Matching is exact.
	Models []string `json:"aircraft_models" jsonschema:"title=Aircraft Models,minItems=1,minLength=1"`
	// Excluded lists modifications that exempt an aircraft.
	Excluded []ModificationDefinition `json:"excluded_if_modifications,omitempty" jsonschema:"title=Excluded If Modifications"`
	// Required lists modifications of which an aircraft must carry at least one.
	Required []ModificationDefinition `json:"required_modifications,omitempty" jsonschema:"title=Required Modifications"`
}

// Build validates the definition and converts it into [ApplicabilityRules].
func (d RulesDefinition) Build() (*ApplicabilityRules, error) {
	opts := []RulesOpt{WithAdditional(d.Additional)}

	if d.Serial != nil {
		serial, err := d.Serial.Build()
		if err != nil {
			return nil, fmt.Errorf("msn_constraints: %w", err)
		}

		opts = append(opts, WithSerial(serial))
	}

	excluded, err := buildModifications(d.Excluded)
	if err != nil {
		return nil, fmt.Errorf("excluded_if_modifications: %w", err)
	}

	required, err := buildModifications(d.Required)
	if err != nil {
		return nil, fmt.Errorf("required_modifications: %w", err)
	}

	opts = append(opts, WithExcluded(excluded...), WithRequired(required...))

	return NewApplicabilityRules(d.Models, opts...)
}

func (RulesDefinition) JSONSchemaExtend(jss *jsonschema.Schema) {
	// Definitions written by hand often spell an absent constraint as null.
	serial, ok := jss.Properties.Get("msn_constraints")
	if !ok {
		panic("msn_constraints property not found in schema")
	}

	_, _ = jss.Properties.Set("msn_constraints", &jsonschema.Schema{
		Title: serial.Title,
		AnyOf: []*jsonschema.Schema{{Type: "null"}, serial},
	})
}

// SerialDefinition is the serialized form of a [constraint.Serial].
type SerialDefinition struct {
	// Min is the inclusive lower bound of a range constraint.
	Min *int `json:"min_msn,omitempty" jsonschema:"title=Minimum MSN,minimum=0"`
	// Max is the inclusive upper bound of a range constraint.
	Max *int `json:"max_msn,omitempty" jsonschema:"title=Maximum MSN,minimum=0"`
	// Type is one of "all", "range" or "list".
	Type string `json:"type" jsonschema:"title=Type,enum=all,enum=range,enum=list"`
	// List enumerates the serial numbers of a list constraint.
	List []int `json:"msn_list,omitempty" jsonschema:"title=MSN List"`
}

// Build converts the definition into a [constraint.Serial].
//
//nolint:ireturn // Returns one of the sealed variants.
func (d SerialDefinition) Build() (constraint.Serial, error) {
	s, err := constraint.NewSerial(d.Type, d.Min, d.Max, d.List)
	if err != nil {
		return nil, fmt.Errorf("build serial constraint: %w", err)
	}

	return s, nil
}

func serialDefinition(s constraint.Serial) *SerialDefinition {
	d := &SerialDefinition{Type: string(s.Kind())}

	switch v := s.(type) {
	case constraint.AllSerials:
	case constraint.SerialRange:
		if lo, ok := v.Min(); ok {
			d.Min = &lo
		}
		if hi, ok := v.Max(); ok {
			d.Max = &hi
		}
	case constraint.SerialList:
		d.List = v.Values()
	}

	return d
}

// ModificationDefinition is the serialized form of a
// [constraint.Modification].
type ModificationDefinition struct {
	// ID is the canonical modification or service bulletin identifier.
	ID string `json:"mod_id" jsonschema:"title=Modification ID,minLength=1,pattern=\\S"`
	// Description is informational and not used in matching.
	Description string `json:"description,omitempty" jsonschema:"title=Description"`
	// Aliases are alternate identifiers that also match.
	Aliases []string `json:"aliases,omitempty" jsonschema:"title=Aliases,minLength=1,pattern=\\S"`
}

func buildModifications(defs []ModificationDefinition) ([]*constraint.Modification, error) {
	mods := make([]*constraint.Modification, 0, len(defs))

	for i, def := range defs {
		m, err := constraint.NewModification(def.ID, def.Aliases, def.Description)
		if err != nil {
			return nil, fmt.Errorf("modification %d: %w", i, err)
		}

		mods = append(mods, m)
	}

	return mods, nil
}

func modificationDefinitions(mods []*constraint.Modification) []ModificationDefinition {
	if len(mods) == 0 {
		return nil
	}

	defs := make([]ModificationDefinition, 0, len(mods))
	for _, m := range mods {
		defs = append(defs, ModificationDefinition{
			ID:          m.ID(),
			Aliases:     m.Aliases(),
			Description: m.Description(),
		})
	}

	return defs
}
