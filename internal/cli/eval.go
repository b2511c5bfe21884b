package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/macropower/adcheck/api"
	"github.com/macropower/adcheck/pkg/aircraft"
	"github.com/macropower/adcheck/pkg/engine"
	"github.com/macropower/adcheck/pkg/report"
)

const (
	evalExamples = `  # Evaluate one aircraft against every loaded directive:
  adcheck eval -d ad_rules.json --model A320-214 --msn 4500 --mod "mod 24591 (production)"

  # Evaluate a single directive and print JSON:
  adcheck eval -d ad_rules.json --model MD-11F --msn 48400 --directive FAA-2025-23-53 -o json`
)

const (
	evalFormatText = "text"
	evalFormatJSON = "json"
	evalFormatYAML = "yaml"
)

var evalFormats = []string{evalFormatText, evalFormatJSON, evalFormatYAML}

type EvalArgs struct {
	*RootArgs

	Model         string
	DirectiveID   string
	Format        string
	Modifications []string
	Directives    []string
	Serial        int
}

func NewEvalArgs(rootArgs *RootArgs) *EvalArgs {
	return &EvalArgs{
		RootArgs: rootArgs,
	}
}

func (ea *EvalArgs) AddFlags(cmd *cobra.Command) {
	addDirectivesFlag(cmd, &ea.Directives)

	cmd.Flags().StringVar(&ea.Model, "model", "", "Aircraft model designation")
	cmd.Flags().IntVar(&ea.Serial, "msn", 0, "Manufacturer serial number")
	cmd.Flags().StringArrayVar(&ea.Modifications, "mod", nil, "Applied modification or service bulletin (repeatable)")
	cmd.Flags().StringVar(&ea.DirectiveID, "directive", "", "Only evaluate the directive with this ID")
	cmd.Flags().StringVarP(&ea.Format, "format", "o", evalFormatText,
		fmt.Sprintf("Output format, one of: %s", evalFormats))

	must(cmd.MarkFlagRequired("model"))
	must(cmd.MarkFlagRequired("msn"))

	must(cmd.RegisterFlagCompletionFunc("format",
		cobra.FixedCompletions(evalFormats, cobra.ShellCompDirectiveNoFileComp),
	))
}

func NewEvalCmd(ea *EvalArgs) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "eval",
		Short:   "Evaluate a single aircraft given on the command line",
		Example: evalExamples,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runEval(cmd, ea)
		},
	}
	ea.AddFlags(cmd)

	return cmd
}

func (ea *EvalArgs) aircraft() aircraft.Configuration {
	return aircraft.Configuration{
		Model:         ea.Model,
		Serial:        ea.Serial,
		Modifications: ea.Modifications,
	}
}

func runEval(cmd *cobra.Command, ea *EvalArgs) error {
	if !slices.Contains(evalFormats, ea.Format) {
		return fmt.Errorf("%w: %q (expected one of %s)", report.ErrUnknownFormat, ea.Format, strings.Join(evalFormats, ", "))
	}

	ac := ea.aircraft()

	err := ac.Validate()
	if err != nil {
		return err //nolint:wrapcheck // Field errors are self-describing.
	}

	cfg, err := loadConfig(cmd, ea.RootArgs)
	if err != nil {
		return err
	}

	paths, err := directivePaths(ea.Directives, cfg)
	if err != nil {
		return err
	}

	ctx, span := tracer.Start(cmd.Context(), "eval", trace.WithAttributes(
		attribute.String("aircraft", ac.Identity().String()),
	))
	defer span.End()

	eng, err := loadEngine(ctx, paths, isTerminal(cmd.ErrOrStderr()))
	if err != nil {
		return err
	}

	var results []engine.Result

	if ea.DirectiveID != "" {
		result, err := eng.Evaluate(ac, ea.DirectiveID)
		if err != nil {
			return err //nolint:wrapcheck // Names the directive.
		}

		results = append(results, result)
	} else {
		results = eng.EvaluateAll(ac)
	}

	return writeResults(cmd.OutOrStdout(), ea.Format, results)
}

func writeResults(w io.Writer, format string, results []engine.Result) error {
	var (
		b   []byte
		err error
	)

	switch format {
	case evalFormatJSON:
		b, err = json.MarshalIndent(results, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal results: %w", err)
		}

		b = append(b, '\n')

	case evalFormatYAML:
		b, err = api.MarshalYAML(results)
		if err != nil {
			return fmt.Errorf("marshal results: %w", err)
		}

	default:
		var sb strings.Builder
		for _, r := range results {
			sb.WriteString(r.String())
			sb.WriteByte('\n')

			for _, check := range r.Checks {
				sb.WriteString("  ")
				sb.WriteString(check)
				sb.WriteByte('\n')
			}
		}

		b = []byte(sb.String())
	}

	_, err = w.Write(b)
	if err != nil {
		return fmt.Errorf("write results: %w", err)
	}

	return nil
}
