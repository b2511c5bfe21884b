package report

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/goccy/go-yaml"

	"github.com/macropower/adcheck/api"
	"github.com/macropower/adcheck/pkg/engine"
)

// AircraftResults is the exported form of a fleet entry.
type AircraftResults struct {
	Model         string           `json:"aircraft_model"`
	Modifications []string         `json:"modifications"`
	Results       DirectiveResults `json:"ad_results"`
	Serial        int              `json:"msn"`
}

// DirectiveResult is the exported form of an [engine.Result].
type DirectiveResult struct {
	Status   engine.Status `json:"status"`
	Reason   string        `json:"reason"`
	Affected bool          `json:"is_affected"`
}

// DirectiveResults maps directive IDs to results. Unlike a map, it keeps
// directive order when serialized.
type DirectiveResults []NamedResult

// NamedResult is a [DirectiveResult] with its directive ID.
type NamedResult struct {
	ID     string
	Result DirectiveResult
}

// Get returns the result for the directive with the given ID.
func (r DirectiveResults) Get(id string) (DirectiveResult, bool) {
	for _, nr := range r {
		if nr.ID == id {
			return nr.Result, true
		}
	}

	return DirectiveResult{}, false
}

// MarshalJSON encodes the results as a JSON object in directive order.
func (r DirectiveResults) MarshalJSON() ([]byte, error) {
	buf := &bytes.Buffer{}
	buf.WriteByte('{')

	for i, nr := range r {
		if i > 0 {
			buf.WriteByte(',')
		}

		key, err := json.Marshal(nr.ID)
		if err != nil {
			return nil, fmt.Errorf("marshal directive id: %w", err)
		}

		val, err := json.Marshal(nr.Result)
		if err != nil {
			return nil, fmt.Errorf("marshal result: %w", err)
		}

		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}

	buf.WriteByte('}')

	return buf.Bytes(), nil
}

// MarshalYAML encodes the results as a YAML mapping in directive order.
func (r DirectiveResults) MarshalYAML() (any, error) {
	ms := make(yaml.MapSlice, 0, len(r))
	for _, nr := range r {
		ms = append(ms, yaml.MapItem{Key: nr.ID, Value: nr.Result})
	}

	return ms, nil
}

// Export converts a fleet into its exported form, in evaluation order.
func Export(fleet *engine.Fleet) []AircraftResults {
	entries := fleet.Entries()
	out := make([]AircraftResults, 0, len(entries))

	for _, e := range entries {
		mods := e.Aircraft.Modifications
		if mods == nil {
			mods = []string{}
		}

		results := make(DirectiveResults, 0, len(e.Results))
		for _, r := range e.Results {
			results = append(results, NamedResult{
				ID: r.DirectiveID,
				Result: DirectiveResult{
					Status:   r.Status,
					Affected: r.Affected,
					Reason:   r.Reason,
				},
			})
		}

		out = append(out, AircraftResults{
			Model:         e.Aircraft.Model,
			Serial:        e.Aircraft.Serial,
			Modifications: mods,
			Results:       results,
		})
	}

	return out
}

// MarshalJSON returns the indented JSON export of a fleet.
func MarshalJSON(fleet *engine.Fleet) ([]byte, error) {
	b, err := json.MarshalIndent(Export(fleet), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal results: %w", err)
	}

	return append(b, '\n'), nil
}

// MarshalYAML returns the YAML export of a fleet.
func MarshalYAML(fleet *engine.Fleet) ([]byte, error) {
	b, err := api.MarshalYAML(Export(fleet))
	if err != nil {
		return nil, fmt.Errorf("marshal results: %w", err)
	}

	return b, nil
}

// WriteExport writes the JSON export of a fleet to path, replacing any
// existing file.
func WriteExport(path string, fleet *engine.Fleet) error {
	b, err := MarshalJSON(fleet)
	if err != nil {
		return err
	}

	err = api.WriteFile(path, b)
	if err != nil {
		return fmt.Errorf("write results: %w", err)
	}

	return nil
}
