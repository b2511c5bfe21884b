package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/macropower/adcheck/api"
	"github.com/macropower/adcheck/pkg/aircraft"
)

type ValidateArgs struct {
	*RootArgs

	Fleets []string
}

func NewValidateArgs(rootArgs *RootArgs) *ValidateArgs {
	return &ValidateArgs{
		RootArgs: rootArgs,
	}
}

func (va *ValidateArgs) AddFlags(cmd *cobra.Command) {
	cmd.Flags().StringSliceVar(&va.Fleets, "fleet", nil, "Fleet files to validate as well")

	must(cmd.MarkFlagFilename("fleet", "json", "yaml", "yml"))
}

func NewValidateCmd(va *ValidateArgs) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <directive-file>...",
		Short: "Validate directive definition files without evaluating anything",
		Example: `  # Validate directive files:
  adcheck validate ad_rules.json faa.yaml

  # Also validate a fleet file:
  adcheck validate ad_rules.json --fleet fleet.yaml`,
		Args: cobra.MinimumNArgs(1),
		ValidArgsFunction: func(_ *cobra.Command, _ []string, _ string) ([]cobra.Completion, cobra.ShellCompDirective) {
			return []cobra.Completion{"json", "yaml", "yml"}, cobra.ShellCompDirectiveFilterFileExt
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd, va, args)
		},
	}
	va.AddFlags(cmd)

	return cmd
}

func runValidate(cmd *cobra.Command, va *ValidateArgs, paths []string) error {
	colored := isTerminal(cmd.ErrOrStderr())

	l, err := newDirectiveLoader(paths, colored)
	if err != nil {
		return err
	}

	directives, err := l.Load()
	if err != nil {
		return err //nolint:wrapcheck // LoadError names the source and index.
	}

	out := cmd.OutOrStdout()

	mustN(fmt.Fprintf(out, "%d directives valid in %d files\n", len(directives), len(paths)))

	for _, path := range va.Fleets {
		data, err := api.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read fleet: %w", err)
		}

		fleet, err := aircraft.ParseFleet(data, aircraft.WithColor(colored))
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}

		mustN(fmt.Fprintf(out, "%d aircraft valid in %s\n", len(fleet), path))
	}

	return nil
}
