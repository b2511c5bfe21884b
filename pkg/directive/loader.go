package directive

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"

	_ "embed"

	"github.com/macropower/adcheck/api"
	"github.com/macropower/adcheck/pkg/yaml"
)

//go:generate go run ../../internal/schemagen/main.go -type directives -o directives.v1beta1.json

var (
	//go:embed directives.v1beta1.json
	schemaJSON []byte

	// DefaultValidator validates directive definition sources against the
	// JSON schema.
	DefaultValidator = yaml.MustNewValidator("/directives.v1beta1.json", schemaJSON)

	// ErrInvalidDirective is matched by every [*LoadError].
	ErrInvalidDirective = errors.New("invalid directive")

	// ErrDuplicateID is returned when two directives share an ID.
	ErrDuplicateID = errors.New("duplicate directive id")
)

// Schema returns the JSON schema for directive definition sources.
func Schema() []byte {
	return bytes.Clone(schemaJSON)
}

// LoadError describes why a directive definition source could not be loaded.
// Index and ID identify the offending entry when known; Index is -1 for
// errors that concern the whole source.
type LoadError struct {
	Err    error
	Source string
	ID     string
	Index  int
}

func (e *LoadError) Error() string {
	var sb strings.Builder

	sb.WriteString(ErrInvalidDirective.Error())

	if e.ID != "" {
		fmt.Fprintf(&sb, " %q", e.ID)
	}
	if e.Index >= 0 {
		fmt.Fprintf(&sb, " at index %d", e.Index)
	}
	if e.Source != "" {
		fmt.Fprintf(&sb, " in %s", e.Source)
	}

	fmt.Fprintf(&sb, ": %v", e.Err)

	return sb.String()
}

func (e *LoadError) Unwrap() []error {
	return []error{ErrInvalidDirective, e.Err}
}

// Validator validates decoded definition data.
type Validator interface {
	Validate(data any) error
}

// LoaderOpt configures a [Loader].
type LoaderOpt func(*Loader)

// WithValidator replaces the [DefaultValidator].
func WithValidator(v Validator) LoaderOpt {
	return func(l *Loader) {
		l.validator = v
	}
}

// WithColor enables ANSI colors in source annotations of errors.
func WithColor(colored bool) LoaderOpt {
	return func(l *Loader) {
		l.colored = colored
	}
}

type source struct {
	name string
	data []byte
}

// Loader loads directives from one or more JSON or YAML definition sources.
// Each source holds an array of directive definitions.
//
// Loading is all-or-nothing: the first invalid entry fails the load with a
// [*LoadError], and no directives are returned.
type Loader struct {
	validator Validator
	sources   []source
	colored   bool
}

// NewLoaderFromBytes creates a [Loader] for a single in-memory source. The
// name is used in error messages.
func NewLoaderFromBytes(name string, data []byte, opts ...LoaderOpt) *Loader {
	l := &Loader{validator: DefaultValidator}
	for _, opt := range opts {
		opt(l)
	}

	l.sources = append(l.sources, source{name: name, data: data})

	return l
}

// NewLoaderFromFiles creates a [Loader] reading every path. Directive IDs
// must be unique across all files.
func NewLoaderFromFiles(paths []string, opts ...LoaderOpt) (*Loader, error) {
	l := &Loader{validator: DefaultValidator}
	for _, opt := range opts {
		opt(l)
	}

	for _, path := range paths {
		data, err := api.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read directives: %w", err)
		}

		l.sources = append(l.sources, source{name: path, data: data})
	}

	return l, nil
}

// Load parses, validates and builds every directive, in source order.
func (l *Loader) Load() ([]*Directive, error) {
	var (
		directives []*Directive
		seen       = map[string]string{}
	)

	for _, src := range l.sources {
		defs, err := l.parse(src)
		if err != nil {
			return nil, err
		}

		wrapper := yaml.NewErrorWrapper(yaml.WithSource(src.data), yaml.WithColor(l.colored))

		for i, def := range defs {
			path := yaml.NewPathBuilder().Root().Index(uint(i)).Build()

			d, err := def.Build()
			if err != nil {
				return nil, &LoadError{
					Err:    wrapper.Wrap(yaml.NewError(err, yaml.WithPath(path))),
					Source: src.name,
					ID:     def.ID,
					Index:  i,
				}
			}

			if where, ok := seen[d.ID()]; ok {
				return nil, &LoadError{
					Err:    fmt.Errorf("%w: first defined %s", ErrDuplicateID, where),
					Source: src.name,
					ID:     d.ID(),
					Index:  i,
				}
			}

			seen[d.ID()] = fmt.Sprintf("at index %d in %s", i, src.name)
			directives = append(directives, d)
		}
	}

	return directives, nil
}

func (l *Loader) parse(src source) ([]Definition, error) {
	wrapper := yaml.NewErrorWrapper(yaml.WithSource(src.data), yaml.WithColor(l.colored))

	var raw any

	err := yaml.NewDecoder(bytes.NewReader(src.data)).Decode(&raw)
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, &LoadError{Err: wrapper.Wrap(err), Source: src.name, Index: -1}
	}

	if l.validator != nil {
		err = l.validator.Validate(raw)
		if err != nil {
			index := failingIndex(err)

			return nil, &LoadError{
				Err:    wrapper.Wrap(err),
				Source: src.name,
				ID:     idAt(raw, index),
				Index:  index,
			}
		}
	}

	var defs []Definition

	err = yaml.NewDecoder(bytes.NewReader(src.data)).Decode(&defs)
	if err != nil {
		return nil, &LoadError{Err: wrapper.Wrap(err), Source: src.name, Index: -1}
	}

	return defs, nil
}

// failingIndex returns the array index of the entry a schema validation error
// points into, or -1.
func failingIndex(err error) int {
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return -1
	}

	location := deepestLocation(ve)
	if len(location) == 0 {
		return -1
	}

	i, err := strconv.Atoi(location[0])
	if err != nil {
		return -1
	}

	return i
}

func deepestLocation(ve *jsonschema.ValidationError) []string {
	longest := ve.InstanceLocation

	for _, cause := range ve.Causes {
		if loc := deepestLocation(cause); len(loc) > len(longest) {
			longest = loc
		}
	}

	return longest
}

// idAt returns the ad_id of entry i of the raw document, if it has one.
func idAt(raw any, i int) string {
	entries, ok := raw.([]any)
	if !ok || i < 0 || i >= len(entries) {
		return ""
	}

	entry, ok := entries[i].(map[string]any)
	if !ok {
		return ""
	}

	id, _ := entry["ad_id"].(string) //nolint:revive // Zero value is fine.

	return id
}

// List is a fixed, in-memory collection of directives.
type List []*Directive

// Load returns the directives.
func (l List) Load() ([]*Directive, error) {
	return l, nil
}
