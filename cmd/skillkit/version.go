package main

import (
	"fmt"

	"github.com/jingkaihe/skillkit/pkg/version"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version information",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		asJSON, _ := cmd.Flags().GetBool("json")
		info := version.Get()

		if !asJSON {
			fmt.Fprintln(cmd.OutOrStdout(), info.String())
			return nil
		}

		out, err := info.JSON()
		if err != nil {
			return errors.Wrap(err, "failed to format version info")
		}
		fmt.Fprintln(cmd.OutOrStdout(), out)
		return nil
	},
}

func init() {
	versionCmd.Flags().Bool("json", false, "Print version information as JSON")
}
