package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version is the organza release version.
const Version = "0.1.0"

const modulePath = "github.com/viniciusgf/organza"

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the organza version",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "organza v%s\nmodule: %s\n", Version, modulePath)
			return nil
		},
	}
}
