package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mark3labs/routes2swagger/swagger"
)

func newAppsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "apps",
		Short: "List the application locators linked into this binary",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, locator := range swagger.Apps() {
				if _, err := fmt.Fprintln(cmd.OutOrStdout(), locator); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
