package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Execute runs the routes2swagger CLI.
func Execute() error {
	return NewRootCmd().Execute()
}

// NewRootCmd constructs the root command so tests can exercise the CLI easily.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "routes2swagger",
		Short: "Generate Swagger 2.0 documents from an application's routes",
		Long: "routes2swagger walks the routes of a registered Go application, reads the documentation " +
			"blocks of their handlers and assembles a Swagger 2.0 document, optionally seeded by a template.",
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.PersistentFlags().StringP("config", "c", "", "Config file path (YAML or JSON)")
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging on stderr")

	for _, sub := range []*cobra.Command{cmd, newGenerateCmd(), newInitCmd(), newAppsCmd()} {
		// Convert Cobra flag errors (like unknown flags) into friendly usage
		// errors that also show the command's help text.
		sub.SetFlagErrorFunc(func(c *cobra.Command, err error) error {
			return newUsageError(fmt.Sprintf("%v\n\n%s", err, c.UsageString()))
		})
		if sub != cmd {
			cmd.AddCommand(sub)
		}
	}

	return cmd
}
