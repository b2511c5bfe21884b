package yaml

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
)

// SchemaGenerator generates JSON schemas from Go types using
// [github.com/invopop/jsonschema].
type SchemaGenerator struct {
	reflector *jsonschema.Reflector
	v         any
	comments  []goComments
}

type goComments struct {
	base string
	dir  string
}

// SchemaOpt configures a [SchemaGenerator].
type SchemaOpt func(*SchemaGenerator)

// WithGoComments reads doc comments from the Go package in dir, relative to
// the working directory, and uses them as schema descriptions. The base is the
// import path of the working directory.
func WithGoComments(base, dir string) SchemaOpt {
	return func(g *SchemaGenerator) {
		g.comments = append(g.comments, goComments{base: base, dir: dir})
	}
}

// NewSchemaGenerator creates a [SchemaGenerator] for the type of v.
func NewSchemaGenerator(v any, opts ...SchemaOpt) *SchemaGenerator {
	g := &SchemaGenerator{
		v: v,
		reflector: &jsonschema.Reflector{
			FieldNameTag:   "json",
			Anonymous:      true,
			DoNotReference: true,
		},
	}
	for _, opt := range opts {
		opt(g)
	}

	return g
}

// Generate returns the indented JSON schema.
func (g *SchemaGenerator) Generate() ([]byte, error) {
	for _, c := range g.comments {
		err := g.reflector.AddGoComments(c.base, c.dir)
		if err != nil {
			return nil, fmt.Errorf("add go comments from %s: %w", c.dir, err)
		}
	}

	s := g.reflector.Reflect(g.v)

	b, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}

	return append(b, '\n'), nil
}
