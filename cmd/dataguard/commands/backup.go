package commands

import "github.com/spf13/cobra"

func init() {
	rootCmd.AddCommand(backupCmd)
}

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Create, list, and delete snapshots",
	Long: `Manage local snapshots.

Each snapshot captures one record domain into a timestamped folder
under the snapshot root and mirrors the payload into the export
folder.`,
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}
