package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/macropower/adcheck/api"
	"github.com/macropower/adcheck/pkg/aircraft"
	"github.com/macropower/adcheck/pkg/engine"
	"github.com/macropower/adcheck/pkg/log"
	"github.com/macropower/adcheck/pkg/report"
	"github.com/macropower/adcheck/pkg/watch"
)

const (
	checkExamples = `  # Check a fleet against a set of directives:
  adcheck check fleet.yaml -d ad_rules.json

  # Show the reasoning for every aircraft:
  adcheck check fleet.yaml -d ad_rules.json --reasons

  # Only report aircraft affected by at least one directive:
  adcheck check fleet.yaml -d ad_rules.json --filter 'results.anyStatus(status.AFFECTED)'

  # Read the fleet from stdin and export JSON:
  cat fleet.json | adcheck check - -d ad_rules.json --output results.json

  # Re-run whenever the fleet or directive files change:
  adcheck check fleet.yaml -d ad_rules.json --watch`
)

var ErrWatchStdin = errors.New("cannot watch a fleet read from stdin")

type CheckArgs struct {
	*RootArgs

	FleetPath  string
	Format     string
	Filter     string
	Output     string
	Directives []string
	Reasons    bool
	Summary    bool
	Watch      bool
}

func NewCheckArgs(rootArgs *RootArgs) *CheckArgs {
	return &CheckArgs{
		RootArgs: rootArgs,
	}
}

func (ca *CheckArgs) AddFlags(cmd *cobra.Command) {
	addDirectivesFlag(cmd, &ca.Directives)

	cmd.Flags().StringVarP(&ca.Format, "format", "o", string(report.FormatTable),
		fmt.Sprintf("Output format, one of: %s", report.AllFormats))
	cmd.Flags().StringVar(&ca.Filter, "filter", "", "CEL expression selecting which aircraft to report")
	cmd.Flags().StringVar(&ca.Output, "output", "", "Also write the JSON export to this file")
	cmd.Flags().BoolVar(&ca.Reasons, "reasons", false, "Print the reasoning for every aircraft")
	cmd.Flags().BoolVar(&ca.Summary, "summary", true, "Print summary statistics per directive")
	cmd.Flags().BoolVarP(&ca.Watch, "watch", "w", false, "Watch the fleet and directive files and re-run on change")

	err := cmd.RegisterFlagCompletionFunc("format",
		cobra.FixedCompletions(report.AllFormats, cobra.ShellCompDirectiveNoFileComp),
	)
	if err != nil {
		panic(err)
	}
}

func NewCheckCmd(ca *CheckArgs) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "check <fleet-file|->",
		Short:   "Evaluate every aircraft in a fleet file against the loaded directives",
		Example: checkExamples,
		Args:    cobra.ExactArgs(1),
		ValidArgsFunction: func(_ *cobra.Command, args []string, _ string) ([]cobra.Completion, cobra.ShellCompDirective) {
			if len(args) == 0 {
				return []cobra.Completion{"yaml", "yml", "json"}, cobra.ShellCompDirectiveFilterFileExt
			}

			return nil, cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ca.FleetPath = args[0]

			return runCheck(cmd, ca)
		},
	}
	ca.AddFlags(cmd)

	return cmd
}

// reportConfig merges changed flags over the configured report settings.
func (ca *CheckArgs) reportConfig(cmd *cobra.Command, base *report.Config) *report.Config {
	rc := *base
	flags := cmd.Flags()

	if flags.Changed("format") {
		rc.Format = ca.Format
	}
	if flags.Changed("filter") {
		rc.Filter = ca.Filter
	}
	if flags.Changed("output") {
		rc.Output = ca.Output
	}
	if flags.Changed("reasons") {
		rc.Reasons = &ca.Reasons
	}
	if flags.Changed("summary") {
		rc.Summary = &ca.Summary
	}

	rc.EnsureDefaults()

	return &rc
}

func runCheck(cmd *cobra.Command, ca *CheckArgs) error {
	cfg, err := loadConfig(cmd, ca.RootArgs)
	if err != nil {
		return err
	}

	rc := ca.reportConfig(cmd, cfg.Report)

	err = rc.Validate()
	if err != nil {
		return fmt.Errorf("report config: %w", err)
	}

	paths, err := directivePaths(ca.Directives, cfg)
	if err != nil {
		return err
	}

	if ca.Watch && ca.FleetPath == api.StdinPath {
		return ErrWatchStdin
	}

	c := &checker{
		args:     ca,
		config:   rc,
		paths:    paths,
		stdin:    cmd.InOrStdin(),
		stdout:   cmd.OutOrStdout(),
		colorErr: isTerminal(cmd.ErrOrStderr()),
	}

	c.renderer, err = report.NewRendererFromConfig(rc, report.WithColorProfile(colorProfile(c.stdout)))
	if err != nil {
		return fmt.Errorf("create renderer: %w", err)
	}

	if rc.Filter != "" {
		c.filter, err = report.NewFilter(rc.Filter)
		if err != nil {
			return fmt.Errorf("create filter: %w", err)
		}
	}

	ctx := cmd.Context()

	c.engine, err = loadEngine(ctx, paths, c.colorErr)
	if err != nil {
		return err
	}

	err = c.run(ctx)
	if err != nil {
		return err
	}

	if !ca.Watch {
		return nil
	}

	w, err := watch.New(append([]string{ca.FleetPath}, paths...))
	if err != nil {
		return fmt.Errorf("watch files: %w", err)
	}

	log.WithContext(ctx).InfoContext(ctx, "watching for changes", slog.Any("files", w.Files()))

	return w.Run(ctx, c.reload) //nolint:wrapcheck // Run only returns nil.
}

type checker struct {
	args     *CheckArgs
	config   *report.Config
	engine   *engine.Engine
	renderer *report.Renderer
	filter   *report.Filter
	stdin    io.Reader
	stdout   io.Writer
	paths    []string
	colorErr bool
}

// run evaluates the fleet file and renders the report.
func (c *checker) run(ctx context.Context) error {
	ctx, span := tracer.Start(ctx, "check", trace.WithAttributes(
		attribute.String("fleet", c.args.FleetPath),
		attribute.StringSlice("directives", c.paths),
	))
	defer span.End()

	data, err := api.ReadSource(c.args.FleetPath, c.stdin)
	if err != nil {
		return fmt.Errorf("read fleet: %w", err)
	}

	configurations, err := aircraft.ParseFleet(data, aircraft.WithColor(c.colorErr))
	if err != nil {
		return fmt.Errorf("%s: %w", c.args.FleetPath, err)
	}

	fleet := c.engine.EvaluateFleet(configurations)

	span.SetAttributes(
		attribute.Int("aircraft", fleet.Len()),
		attribute.Int("directive_count", len(fleet.DirectiveIDs())),
	)

	log.WithContext(ctx).DebugContext(ctx, "evaluated fleet",
		slog.Int("aircraft", fleet.Len()),
		slog.Int("directives", len(fleet.DirectiveIDs())),
	)

	if c.config.Output != "" {
		err = report.WriteExport(c.config.Output, fleet)
		if err != nil {
			return err
		}

		log.WithContext(ctx).InfoContext(ctx, "wrote export", slog.String("path", c.config.Output))
	}

	if c.filter != nil {
		fleet, err = c.filter.Apply(fleet)
		if err != nil {
			return err
		}
	}

	return c.renderer.Render(c.stdout, fleet)
}

// reload reloads the directive files and re-runs the check.
func (c *checker) reload(ctx context.Context) error {
	err := reloadEngine(ctx, c.engine, c.paths, c.colorErr)
	if err != nil {
		return err
	}

	return c.run(ctx)
}
