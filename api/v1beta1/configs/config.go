// Package configs provides the Configuration type for adcheck.
package configs

import (
	"fmt"

	"github.com/invopop/jsonschema"

	_ "embed"

	"github.com/macropower/adcheck/api"
	"github.com/macropower/adcheck/api/v1beta1"
	"github.com/macropower/adcheck/pkg/report"
	"github.com/macropower/adcheck/pkg/yaml"
)

//go:generate go run ../../../internal/schemagen/main.go -type configs -o configs.v1beta1.json

var (
	//go:embed config.yaml
	defaultConfigYAML []byte

	//go:embed configs.v1beta1.json
	schemaJSON []byte

	// ValidKinds contains the valid kind values for configurations.
	ValidKinds = []string{v1beta1.KindConfiguration}

	// DefaultValidator validates configuration against the JSON schema.
	DefaultValidator = yaml.MustNewValidator("/configs.v1beta1.json", schemaJSON)

	// Compile-time interface checks.
	_ v1beta1.Object = (*Config)(nil)
)

// Config represents the adcheck configuration.
//
//nolint:recvcheck // Must satisfy the jsonschema interface.
type Config struct {
	// Report configures how fleet results are rendered.
	Report *report.Config `json:"report,omitempty" jsonschema:"title=Report"`
	// Directives lists directive definition files loaded when no
	// --directives flag is given. Relative paths resolve against the
	// working directory.
	Directives       []string `json:"directives,omitempty" jsonschema:"title=Directives"`
	v1beta1.TypeMeta `json:",inline"`
}

// New creates a new [Config] with default values.
func New() *Config {
	c := &Config{
		TypeMeta: v1beta1.NewTypeMeta(v1beta1.KindConfiguration),
	}
	c.EnsureDefaults()

	return c
}

// EnsureDefaults initializes nil fields to their default values.
func (c *Config) EnsureDefaults() {
	if c.Report == nil {
		c.Report = report.NewConfig()
	} else {
		c.Report.EnsureDefaults()
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	err := v1beta1.CheckTypeMeta(c, v1beta1.KindConfiguration)
	if err != nil {
		return fmt.Errorf("validate config: %w", err)
	}

	if c.Report != nil {
		err = c.Report.Validate()
		if err != nil {
			return fmt.Errorf("validate report config: %w", err)
		}
	}

	return nil
}

func (c Config) JSONSchemaExtend(jss *jsonschema.Schema) {
	v1beta1.ExtendSchemaWithEnums(jss, v1beta1.ValidAPIVersions, ValidKinds)
}

// MarshalYAML serializes the config to YAML.
func (c Config) MarshalYAML() ([]byte, error) {
	type alias Config

	b, err := api.MarshalYAML(alias(c))
	if err != nil {
		return nil, fmt.Errorf("marshal config: %w", err)
	}

	return b, nil
}

// Write writes the config to the specified path, replacing any existing file.
func (c Config) Write(path string) error {
	b, err := c.MarshalYAML()
	if err != nil {
		return err
	}

	err = api.WriteFile(path, b)
	if err != nil {
		return fmt.Errorf("write config: %w", err)
	}

	return nil
}

// WriteDefault writes the embedded default config.yaml to the specified path.
func WriteDefault(path string, force bool) error {
	err := api.WriteDefaultFile(path, defaultConfigYAML, force, "configuration")
	if err != nil {
		return fmt.Errorf("write default config: %w", err)
	}

	return nil
}

// Schema returns the configuration JSON schema.
func Schema() []byte {
	return append([]byte(nil), schemaJSON...)
}

// GetPath returns the path to the configuration file.
func GetPath() string {
	return api.GetConfigPath("config.yaml")
}
