package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"github.com/macropower/adcheck/api"
	"github.com/macropower/adcheck/pkg/constraint"
	"github.com/macropower/adcheck/pkg/directive"
	"github.com/macropower/adcheck/pkg/report"
)

var directivesFormats = []string{"table", "json", "yaml"}

type DirectivesArgs struct {
	*RootArgs

	Format     string
	Directives []string
}

func NewDirectivesArgs(rootArgs *RootArgs) *DirectivesArgs {
	return &DirectivesArgs{
		RootArgs: rootArgs,
	}
}

func (da *DirectivesArgs) AddFlags(cmd *cobra.Command) {
	addDirectivesFlag(cmd, &da.Directives)

	cmd.Flags().StringVarP(&da.Format, "format", "o", "table",
		fmt.Sprintf("Output format, one of: %s", directivesFormats))

	must(cmd.RegisterFlagCompletionFunc("format",
		cobra.FixedCompletions(directivesFormats, cobra.ShellCompDirectiveNoFileComp),
	))
}

func NewDirectivesCmd(da *DirectivesArgs) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "directives",
		Aliases: []string{"ads"},
		Short:   "List the loaded directives",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDirectives(cmd, da)
		},
	}
	da.AddFlags(cmd)

	return cmd
}

func runDirectives(cmd *cobra.Command, da *DirectivesArgs) error {
	cfg, err := loadConfig(cmd, da.RootArgs)
	if err != nil {
		return err
	}

	paths, err := directivePaths(da.Directives, cfg)
	if err != nil {
		return err
	}

	eng, err := loadEngine(cmd.Context(), paths, isTerminal(cmd.ErrOrStderr()))
	if err != nil {
		return err
	}

	return writeDirectives(cmd.OutOrStdout(), da.Format, eng.Directives())
}

func writeDirectives(w io.Writer, format string, directives []*directive.Directive) error {
	defs := make([]directive.Definition, 0, len(directives))
	for _, d := range directives {
		defs = append(defs, d.Definition())
	}

	var (
		b   []byte
		err error
	)

	switch format {
	case "json":
		b, err = json.MarshalIndent(defs, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal directives: %w", err)
		}

		b = append(b, '\n')

	case "yaml":
		b, err = api.MarshalYAML(defs)
		if err != nil {
			return fmt.Errorf("marshal directives: %w", err)
		}

	case "table":
		b = []byte(directivesTable(directives).Render() + "\n")

	default:
		return fmt.Errorf("%w: %q (expected one of %s)",
			report.ErrUnknownFormat, format, strings.Join(directivesFormats, ", "))
	}

	_, err = w.Write(b)
	if err != nil {
		return fmt.Errorf("write directives: %w", err)
	}

	return nil
}

func directivesTable(directives []*directive.Directive) table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.Style().Format.Header = text.FormatDefault
	t.AppendHeader(table.Row{"Directive", "Authority", "Effective", "Models", "MSN", "Excluded", "Required"})

	for _, d := range directives {
		rules := d.Rules()

		msn := "-"
		if s, ok := rules.Serial(); ok {
			msn = s.String()
		}

		t.AppendRow(table.Row{
			d.ID(),
			d.Authority(),
			orDash(d.EffectiveDate()),
			strings.Join(rules.Models(), ", "),
			msn,
			modificationIDs(rules.Excluded()),
			modificationIDs(rules.Required()),
		})
	}

	return t
}

func modificationIDs(mods []*constraint.Modification) string {
	if len(mods) == 0 {
		return "-"
	}

	ids := make([]string, 0, len(mods))
	for _, m := range mods {
		ids = append(ids, m.ID())
	}

	return strings.Join(ids, ", ")
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}

	return s
}
