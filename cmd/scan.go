package cmd

import (
	"github.com/spf13/cobra"
)

var scanCmd = &cobra.Command{
	Use:   "scan [path]",
	Short: "List matching artifact directories",
	Long:  "Find artifact directories under path and report their size and age without changing anything.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPurge(cmd, args, modeScanOnly)
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	addScanFlags(scanCmd.Flags())
}
