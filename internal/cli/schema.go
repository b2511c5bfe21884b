package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/macropower/adcheck/api/v1beta1/configs"
	"github.com/macropower/adcheck/pkg/directive"
)

var schemas = map[string]func() []byte{
	"directives": directive.Schema,
	"config":     configs.Schema,
}

func NewSchemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "schema [directives|config]",
		Short:     "Print a JSON schema",
		Long:      "Print the JSON schema of directive definition files (default) or of the configuration file.",
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []cobra.Completion{"directives", "config"},
		RunE: func(cmd *cobra.Command, args []string) error {
			name := "directives"
			if len(args) > 0 {
				name = args[0]
			}

			_, err := cmd.OutOrStdout().Write(schemas[name]())
			if err != nil {
				return fmt.Errorf("write schema: %w", err)
			}

			return nil
		},
	}
}
