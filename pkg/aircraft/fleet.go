package aircraft

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/macropower/adcheck/pkg/yaml"
)

// ParseOpt configures [ParseFleet].
type ParseOpt func(*parseOptions)

type parseOptions struct {
	colored bool
}

// WithColor enables ANSI colors in source annotations of errors.
func WithColor(colored bool) ParseOpt {
	return func(o *parseOptions) {
		o.colored = colored
	}
}

// ParseFleet parses a JSON or YAML array of aircraft configurations and
// validates each of them. Errors are annotated with the offending source.
func ParseFleet(data []byte, opts ...ParseOpt) ([]Configuration, error) {
	options := &parseOptions{}
	for _, opt := range opts {
		opt(options)
	}

	wrapper := yaml.NewErrorWrapper(yaml.WithSource(data), yaml.WithColor(options.colored))

	var fleet []Configuration

	err := yaml.NewDecoder(bytes.NewReader(data)).Decode(&fleet)
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("parse fleet: %w", wrapper.Wrap(err))
	}

	for i, ac := range fleet {
		err := ac.Validate()
		if err == nil {
			continue
		}

		path := yaml.NewPathBuilder().Root().Index(uint(i))

		var fieldErr *FieldError
		if errors.As(err, &fieldErr) {
			path = path.Child(fieldErr.Field)
		}

		return nil, fmt.Errorf("aircraft %d: %w", i,
			wrapper.Wrap(yaml.NewError(err, yaml.WithPath(path.Build()))),
		)
	}

	return fleet, nil
}
