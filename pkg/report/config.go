package report

import "fmt"

// Config configures report rendering.
type Config struct {
	// Reasons enables the detailed reasoning section.
	Reasons *bool `json:"reasons,omitempty" jsonschema:"title=Reasons"`
	// Summary enables the summary statistics section.
	Summary *bool `json:"summary,omitempty" jsonschema:"title=Summary"`
	// Format is the output format.
	Format string `json:"format,omitempty" jsonschema:"title=Format,enum=table,enum=markdown,enum=csv,enum=json,enum=yaml"`
	// Filter is a CEL expression selecting which aircraft to report.
	Filter string `json:"filter,omitempty" jsonschema:"title=Filter"`
	// Output is a path the JSON export is additionally written to.
	Output string `json:"output,omitempty" jsonschema:"title=Output"`
}

// NewConfig creates a new [Config] with default values.
func NewConfig() *Config {
	c := &Config{}
	c.EnsureDefaults()

	return c
}

// EnsureDefaults sets default values for unset fields.
func (c *Config) EnsureDefaults() {
	if c.Format == "" {
		c.Format = string(FormatTable)
	}

	if c.Reasons == nil {
		reasons := false
		c.Reasons = &reasons
	}

	if c.Summary == nil {
		summary := true
		c.Summary = &summary
	}
}

// Validate checks the format and compiles the filter expression.
func (c *Config) Validate() error {
	_, err := ParseFormat(c.Format)
	if err != nil {
		return err
	}

	if c.Filter != "" {
		_, err = NewFilter(c.Filter)
		if err != nil {
			return fmt.Errorf("filter: %w", err)
		}
	}

	return nil
}
