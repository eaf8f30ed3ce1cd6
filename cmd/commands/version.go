package commands

import (
	"github.com/spf13/cobra"

	"github.com/tenantify/tcore/version"
)

// NewVersionCommand creates the version command
func NewVersionCommand() *cobra.Command {
	var asJSON bool

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		RunE: func(cmd *cobra.Command, args []string) error {
			info := version.GetVersionInfo()
			if asJSON {
				out, err := info.JSON()
				if err != nil {
					return err
				}
				cmd.Println(out)
				return nil
			}
			cmd.Println(info.String())
			return nil
		},
	}

	versionCmd.Flags().BoolVar(&asJSON, "json", false, "print as JSON")

	return versionCmd
}
