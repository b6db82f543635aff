package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"panelfeat/internal/version"
)

// VersionCmd returns the command that prints build information.
func VersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(os.Stdout, version.String())
		},
	}
}
