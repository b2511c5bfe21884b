package report_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macropower/adcheck/pkg/aircraft"
	"github.com/macropower/adcheck/pkg/constraint"
	"github.com/macropower/adcheck/pkg/directive"
	"github.com/macropower/adcheck/pkg/engine"
	"github.com/macropower/adcheck/pkg/report"
)

func testFleet(t *testing.T) *engine.Fleet {
	t.Helper()

	e, err := engine.New(
		directive.MustNew("FAA-2025-23-53", "FAA",
			directive.MustNewApplicabilityRules([]string{"MD-11", "MD-11F", "DC-10-30F"}),
		),
		directive.MustNew("EASA-2025-0254", "EASA",
			directive.MustNewApplicabilityRules([]string{"A320-214", "A320-232"},
				directive.WithExcluded(constraint.MustNewModification("SB A320-57-1089")),
				directive.WithRequired(constraint.MustNewModification("mod 24591")),
			),
		),
	)
	require.NoError(t, err)

	return e.EvaluateFleet([]aircraft.Configuration{
		{Model: "MD-11", Serial: 48123},
		{Model: "A320-232", Serial: 6789, Modifications: []string{"mod 24591 (production)"}},
		{
			Model:         "A320-214",
			Serial:        7456,
			Modifications: []string{"SB A320-57-1089 Rev 04"},
			Extra:         map[string]any{"flight_hours": uint64(41000)},
		},
		{Model: "A319-100", Serial: 9234},
	})
}

func TestParseFormat(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		input   string
		want    report.Format
		wantErr bool
	}{
		"table":    {input: "table", want: report.FormatTable},
		"md alias": {input: "md", want: report.FormatMarkdown},
		"upper":    {input: " JSON ", want: report.FormatJSON},
		"unknown":  {input: "xml", wantErr: true},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got, err := report.ParseFormat(tc.input)
			if tc.wantErr {
				require.ErrorIs(t, err, report.ErrUnknownFormat)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestSummarize(t *testing.T) {
	t.Parallel()

	got := report.Summarize(testFleet(t))

	assert.Equal(t, []report.Summary{
		{DirectiveID: "FAA-2025-23-53", Affected: 1, NotApplicable: 3, Total: 4},
		{DirectiveID: "EASA-2025-0254", Affected: 1, NotAffected: 1, NotApplicable: 2, Total: 4},
	}, got)
}

func TestSummary_Ratio(t *testing.T) {
	t.Parallel()

	s := report.Summary{Total: 2000}
	assert.Equal(t, "1,204/2,000 (60.2%)", s.Ratio(1204))
	assert.Equal(t, "0/2,000 (0%)", s.Ratio(0))
	assert.Equal(t, "0/0", report.Summary{}.Ratio(0))
}

func TestRenderer_Render(t *testing.T) {
	t.Parallel()

	fleet := testFleet(t)

	tcs := map[string]struct {
		opts     []report.RendererOpt
		contains []string
		excludes []string
	}{
		"table": {
			opts: []report.RendererOpt{report.WithSummary(true)},
			contains: []string{
				"Aircraft Model", "FAA-2025-23-53", "EASA-2025-0254",
				"MD-11", "48123", "None", "mod 24591 (production)",
				"not applicable", "yes",
				"Not Applicable", "1/4 (25%)", "3/4 (75%)",
			},
			excludes: []string{"Model check"},
		},
		"table with reasons": {
			opts: []report.RendererOpt{report.WithReasons(true)},
			contains: []string{
				"A320-214 | MSN 7456",
				"Modifications: SB A320-57-1089 Rev 04",
				"Excluded mods check: Aircraft has excluded modification: SB A320-57-1089 (matched: SB A320-57-1089 Rev 04)",
			},
			excludes: []string{"Not Applicable"},
		},
		"markdown": {
			opts: []report.RendererOpt{report.WithFormat(report.FormatMarkdown), report.WithSummary(true)},
			contains: []string{
				"| Aircraft Model | MSN | Modifications | FAA-2025-23-53 | EASA-2025-0254 |",
				"| A319-100 | 9234 | None | not applicable | not applicable |",
				"| Directive |",
			},
		},
		"csv": {
			opts: []report.RendererOpt{report.WithFormat(report.FormatCSV), report.WithSummary(true)},
			contains: []string{
				"Aircraft Model,MSN,Modifications,FAA-2025-23-53,EASA-2025-0254",
				"MD-11,48123,None,yes,not applicable",
				"A320-214,7456,SB A320-57-1089 Rev 04,not applicable,no",
			},
			excludes: []string{"Directive"},
		},
		"json": {
			opts: []report.RendererOpt{report.WithFormat(report.FormatJSON)},
			contains: []string{
				`"aircraft_model": "MD-11"`,
				`"ad_results": {`,
				`"is_affected": true`,
			},
		},
		"yaml": {
			opts: []report.RendererOpt{report.WithFormat(report.FormatYAML)},
			contains: []string{
				"aircraft_model: A320-232",
				"ad_results:",
				"FAA-2025-23-53:",
				"status: not applicable",
			},
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer

			err := report.NewRenderer(tc.opts...).Render(&buf, fleet)
			require.NoError(t, err)

			got := buf.String()
			for _, want := range tc.contains {
				assert.Contains(t, got, want)
			}

			for _, unwanted := range tc.excludes {
				assert.NotContains(t, got, unwanted)
			}

			assert.NotContains(t, got, "\x1b[", "no colors without a color profile")
		})
	}
}

func TestMarshalJSON(t *testing.T) {
	t.Parallel()

	fleet := testFleet(t)

	got, err := report.MarshalJSON(fleet)
	require.NoError(t, err)

	// Directive order is kept in ad_results.
	faa := strings.Index(string(got), `"FAA-2025-23-53": {`)
	easa := strings.Index(string(got), `"EASA-2025-0254": {`)
	require.Positive(t, faa)
	assert.Less(t, faa, easa)

	exported := report.Export(fleet)
	require.Len(t, exported, 4)
	assert.Equal(t, []string{}, exported[0].Modifications)

	res, ok := exported[2].Results.Get("EASA-2025-0254")
	require.True(t, ok)
	assert.Equal(t, engine.StatusNotAffected, res.Status)
	assert.False(t, res.Affected)

	assert.JSONEq(t, `{
		"aircraft_model": "MD-11",
		"msn": 48123,
		"modifications": [],
		"ad_results": {
			"FAA-2025-23-53": {
				"status": "yes",
				"is_affected": true,
				"reason": "Model check: Aircraft model 'MD-11' is in the affected models list; MSN check: No MSN constraints specified; Excluded mods check: No excluded modifications specified; Required mods check: No required modifications specified"
			},
			"EASA-2025-0254": {
				"status": "not applicable",
				"is_affected": false,
				"reason": "Model check: Aircraft model 'MD-11' is not in the affected models list"
			}
		}
	}`, firstElement(t, got))
}

// firstElement returns the first array element of an exported JSON document.
func firstElement(t *testing.T, doc []byte) string {
	t.Helper()

	var all []map[string]any
	require.NoError(t, json.Unmarshal(doc, &all))
	require.NotEmpty(t, all)

	b, err := json.Marshal(all[0])
	require.NoError(t, err)

	return string(b)
}

func TestWriteExport(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "out", "results.json")

	err := report.WriteExport(path, testFleet(t))
	require.NoError(t, err)

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(got), "[\n  {"))
}

func TestFilter(t *testing.T) {
	t.Parallel()

	fleet := testFleet(t)

	tcs := map[string]struct {
		expression string
		errMsg     string
		want       []string
	}{
		"any affected": {
			expression: `results.anyStatus(status.AFFECTED)`,
			want:       []string{"MD-11-48123", "A320-232-6789"},
		},
		"by directive": {
			expression: `results["EASA-2025-0254"].status != status.NOT_APPLICABLE`,
			want:       []string{"A320-232-6789", "A320-214-7456"},
		},
		"by modification": {
			expression: `aircraft.modifications.hasModification("sb a320-57-1089")`,
			want:       []string{"A320-214-7456"},
		},
		"by serial": {
			expression: `aircraft.msn > 9000`,
			want:       []string{"MD-11-48123", "A319-100-9234"},
		},
		"by additional info": {
			expression: `has(aircraft.additional_info.flight_hours) && aircraft.additional_info.flight_hours > 40000`,
			want:       []string{"A320-214-7456"},
		},
		"none": {
			expression: `false`,
			want:       []string{},
		},
		"not a bool": {
			expression: `aircraft.msn`,
			errMsg:     "expected bool",
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			f, err := report.NewFilter(tc.expression)
			require.NoError(t, err)

			got, err := f.Apply(fleet)
			if tc.errMsg != "" {
				require.ErrorContains(t, err, tc.errMsg)
				return
			}

			require.NoError(t, err)

			ids := []string{}
			for id := range got.All() {
				ids = append(ids, id.String())
			}

			assert.Equal(t, tc.want, ids)
			assert.Equal(t, fleet.DirectiveIDs(), got.DirectiveIDs())
		})
	}
}

func TestNewFilter_Invalid(t *testing.T) {
	t.Parallel()

	_, err := report.NewFilter(`results[`)
	require.Error(t, err)
}

func TestConfig(t *testing.T) {
	t.Parallel()

	c := report.NewConfig()
	assert.Equal(t, "table", c.Format)
	require.NotNil(t, c.Summary)
	assert.True(t, *c.Summary)
	require.NotNil(t, c.Reasons)
	assert.False(t, *c.Reasons)
	require.NoError(t, c.Validate())

	c.Filter = `results[`
	require.Error(t, c.Validate())

	c = report.NewConfig()
	c.Format = "xml"
	require.ErrorIs(t, c.Validate(), report.ErrUnknownFormat)

	r, err := report.NewRendererFromConfig(report.NewConfig())
	require.NoError(t, err)
	assert.NotNil(t, r)
}

func TestRenderer_Render_Colored(t *testing.T) {
	t.Parallel()

	fleet := testFleet(t)

	for _, format := range []report.Format{report.FormatTable, report.FormatJSON, report.FormatYAML} {
		t.Run(string(format), func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer

			r := report.NewRenderer(
				report.WithFormat(format),
				report.WithColorProfile(termenv.ANSI256),
			)

			require.NoError(t, r.Render(&buf, fleet))
			assert.Contains(t, buf.String(), "\x1b[")
		})
	}
}
