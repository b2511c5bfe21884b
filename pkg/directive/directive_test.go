package directive_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macropower/adcheck/pkg/constraint"
	"github.com/macropower/adcheck/pkg/directive"
)

func TestNew(t *testing.T) {
	t.Parallel()

	rules := directive.MustNewApplicabilityRules([]string{"MD-11"})

	tcs := map[string]struct {
		rules     *directive.ApplicabilityRules
		id        string
		authority string
		wantErr   error
	}{
		"valid": {
			id:        "FAA-2025-23-53",
			authority: "FAA",
			rules:     rules,
		},
		"blank id": {
			id:        "  ",
			authority: "FAA",
			rules:     rules,
			wantErr:   directive.ErrMissingField,
		},
		"blank authority": {
			id:      "FAA-2025-23-53",
			rules:   rules,
			wantErr: directive.ErrMissingField,
		},
		"nil rules": {
			id:        "FAA-2025-23-53",
			authority: "FAA",
			wantErr:   directive.ErrMissingField,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			d, err := directive.New(tc.id, tc.authority, tc.rules, directive.WithTitle("Stabilizer inspection"))
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.id, d.ID())
			assert.Equal(t, tc.authority, d.Authority())
			assert.Equal(t, "FAA-2025-23-53: Stabilizer inspection", d.String())
		})
	}
}

func TestNewApplicabilityRules(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		wantErr error
		models  []string
		opts    []directive.RulesOpt
	}{
		"models only": {
			models: []string{"A320-214"},
		},
		"no models": {
			wantErr: directive.ErrNoModels,
		},
		"blank model": {
			models:  []string{"A320-214", " "},
			wantErr: directive.ErrMissingField,
		},
		"nil modification": {
			models:  []string{"A320-214"},
			opts:    []directive.RulesOpt{directive.WithRequired(nil)},
			wantErr: constraint.ErrInvalidModification,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			r, err := directive.NewApplicabilityRules(tc.models, tc.opts...)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.models, r.Models())
		})
	}
}

func TestApplicabilityRules_Immutable(t *testing.T) {
	t.Parallel()

	models := []string{"A320-214"}
	r := directive.MustNewApplicabilityRules(models,
		directive.WithRequired(constraint.MustNewModification("mod 24591")),
	)

	models[0] = "B737-800"
	assert.True(t, r.HasModel("A320-214"))
	assert.False(t, r.HasModel("B737-800"))

	got := r.Models()
	got[0] = "B737-800"
	assert.Equal(t, []string{"A320-214"}, r.Models())

	required := r.Required()
	required[0] = nil
	assert.NotNil(t, r.Required()[0])

	_, ok := r.Serial()
	assert.False(t, ok)
}

func TestDirective_Definition(t *testing.T) {
	t.Parallel()

	lo, hi := 100, 200
	def := directive.Definition{
		ID:            "EASA-2024-0100",
		Authority:     "EASA",
		Title:         "Landing gear",
		EffectiveDate: "2024-05-01",
		Summary:       "Inspect fittings.",
		Rules: directive.RulesDefinition{
			Models: []string{"A330-243"},
			Serial: &directive.SerialDefinition{Type: "range", Min: &lo, Max: &hi},
			Excluded: []directive.ModificationDefinition{
				{ID: "SB A330-32-3001", Aliases: []string{"SB 32-3001"}, Description: "Fitting replacement"},
			},
			Required: []directive.ModificationDefinition{
				{ID: "mod 12345"},
			},
			Additional: directive.AdditionalConstraints{FlightCycles: 20000},
		},
	}

	d, err := def.Build()
	require.NoError(t, err)

	serial, ok := d.Rules().Serial()
	require.True(t, ok)
	assert.Equal(t, constraint.SerialKindRange, serial.Kind())
	assert.True(t, serial.Matches(150))
	assert.False(t, serial.Matches(201))
	assert.Equal(t, 20000, d.Rules().Additional().FlightCycles)

	assert.Equal(t, def, d.Definition())
}

func TestRulesDefinition_Build(t *testing.T) {
	t.Parallel()

	lo, hi := 200, 100

	tcs := map[string]struct {
		wantErr error
		errMsg  string
		def     directive.RulesDefinition
	}{
		"list serial": {
			def: directive.RulesDefinition{
				Models: []string{"A330-243"},
				Serial: &directive.SerialDefinition{Type: "list", List: []int{5, 10}},
			},
		},
		"unknown serial kind": {
			def: directive.RulesDefinition{
				Models: []string{"A330-243"},
				Serial: &directive.SerialDefinition{Type: "odd"},
			},
			wantErr: constraint.ErrUnknownSerialKind,
		},
		"inverted range": {
			def: directive.RulesDefinition{
				Models: []string{"A330-243"},
				Serial: &directive.SerialDefinition{Type: "range", Min: &lo, Max: &hi},
			},
			errMsg: "min 200 is greater than max 100",
		},
		"empty alias": {
			def: directive.RulesDefinition{
				Models:   []string{"A330-243"},
				Excluded: []directive.ModificationDefinition{{ID: "SB 1", Aliases: []string{""}}},
			},
			wantErr: constraint.ErrInvalidModification,
		},
		"blank required id": {
			def: directive.RulesDefinition{
				Models:   []string{"A330-243"},
				Required: []directive.ModificationDefinition{{ID: " "}},
			},
			wantErr: constraint.ErrInvalidModification,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			_, err := tc.def.Build()

			switch {
			case tc.wantErr != nil:
				require.ErrorIs(t, err, tc.wantErr)
			case tc.errMsg != "":
				require.ErrorContains(t, err, tc.errMsg)
			default:
				require.NoError(t, err)
			}
		})
	}
}
