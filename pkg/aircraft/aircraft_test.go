package aircraft_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macropower/adcheck/pkg/aircraft"
)

func TestIdentity_String(t *testing.T) {
	t.Parallel()

	ac := aircraft.Configuration{Model: "A320-214", Serial: 5234}

	assert.Equal(t, "A320-214-5234", ac.Identity().String())
	assert.Equal(t, aircraft.Identity{Model: "A320-214", Serial: 5234}, ac.Identity())
}

func TestConfiguration_Validate(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		errMsg string
		ac     aircraft.Configuration
	}{
		"valid": {
			ac: aircraft.Configuration{Model: "MD-11", Serial: 48123},
		},
		"zero serial": {
			ac: aircraft.Configuration{Model: "MD-11"},
		},
		"blank model": {
			ac:     aircraft.Configuration{Model: "  ", Serial: 1},
			errMsg: "aircraft_model must not be blank",
		},
		"empty model": {
			ac:     aircraft.Configuration{Serial: 1},
			errMsg: "aircraft_model must not be blank",
		},
		"tab model": {
			ac:     aircraft.Configuration{Model: "\t", Serial: 1},
			errMsg: "aircraft_model must not be blank",
		},
		"negative serial": {
			ac:     aircraft.Configuration{Model: "MD-11", Serial: -1},
			errMsg: "msn must be at least 0",
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			err := tc.ac.Validate()
			if tc.errMsg == "" {
				require.NoError(t, err)
				return
			}

			require.ErrorIs(t, err, aircraft.ErrInvalidAircraft)
			assert.ErrorContains(t, err, tc.errMsg)
		})
	}
}

func TestParseFleet(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		input   string
		errMsg  string
		want    []aircraft.Configuration
		wantErr bool
	}{
		"yaml": {
			input: `
- aircraft_model: A320-232
  msn: 6789
  modifications:
    - mod 24591 (production)
- aircraft_model: MD-11
  msn: 48123
  additional_info:
    operator: Western Global
`,
			want: []aircraft.Configuration{
				{Model: "A320-232", Serial: 6789, Modifications: []string{"mod 24591 (production)"}},
				{Model: "MD-11", Serial: 48123, Extra: map[string]any{"operator": "Western Global"}},
			},
		},
		"json": {
			input: `[{"aircraft_model": "A319-100", "msn": 9234}]`,
			want: []aircraft.Configuration{
				{Model: "A319-100", Serial: 9234},
			},
		},
		"empty": {
			input: "",
		},
		"negative serial": {
			input: `
- aircraft_model: MD-11
  msn: 1
- aircraft_model: MD-11
  msn: -5
`,
			wantErr: true,
			errMsg:  "aircraft 1",
		},
		"missing model": {
			input:   `[{"msn": 1}]`,
			wantErr: true,
			errMsg:  "aircraft_model must not be blank",
		},
		"wrong type": {
			input:   `[{"aircraft_model": "MD-11", "msn": "forty"}]`,
			wantErr: true,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got, err := aircraft.ParseFleet([]byte(tc.input))
			if tc.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.errMsg)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}
