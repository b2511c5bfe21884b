// Command schemagen writes the JSON schemas embedded by adcheck packages.
//
// It is run through go:generate from the package that embeds the schema:
//
//	//go:generate go run ../../internal/schemagen/main.go -type directives -o directives.v1beta1.json
package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"slices"

	"github.com/macropower/adcheck/api/v1beta1/configs"
	"github.com/macropower/adcheck/pkg/directive"
	"github.com/macropower/adcheck/pkg/yaml"
)

const modulePath = "github.com/macropower/adcheck"

var (
	schemaType = flag.String("type", "directives", "Schema to generate, one of: directives, configs")
	outFile    = flag.String("o", "schema.json", "Output file for the generated schema")
)

type target struct {
	value any
	dirs  []string
}

var targets = map[string]target{
	"directives": {
		value: []directive.Definition{},
		dirs:  []string{"pkg/directive"},
	},
	"configs": {
		value: configs.New(),
		dirs:  []string{"api/v1beta1", "api/v1beta1/configs", "pkg/report"},
	},
}

func main() {
	flag.Parse()

	tgt, ok := targets[*schemaType]
	if !ok {
		names := make([]string, 0, len(targets))
		for name := range targets {
			names = append(names, name)
		}

		slices.Sort(names)
		log.Fatalf("unknown schema type %q, expected one of %v", *schemaType, names)
	}

	out, err := filepath.Abs(*outFile)
	if err != nil {
		log.Fatalf("resolve output path: %v", err)
	}

	root, err := findModuleRoot()
	if err != nil {
		log.Fatalf("find module root: %v", err)
	}

	// Comment extraction keys packages by their path relative to the
	// working directory.
	err = os.Chdir(root)
	if err != nil {
		log.Fatalf("change to module root: %v", err)
	}

	opts := make([]yaml.SchemaOpt, 0, len(tgt.dirs))
	for _, dir := range tgt.dirs {
		opts = append(opts, yaml.WithGoComments(modulePath, dir))
	}

	jsData, err := yaml.NewSchemaGenerator(tgt.value, opts...).Generate()
	if err != nil {
		log.Fatalf("generate JSON schema: %v", err)
	}

	err = os.WriteFile(out, jsData, 0o600)
	if err != nil {
		log.Fatalf("write schema file: %v", err)
	}
}

func findModuleRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("get working directory: %w", err)
	}

	for {
		_, err := os.Stat(filepath.Join(dir, "go.mod"))
		if err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.New("go.mod not found")
		}

		dir = parent
	}
}
