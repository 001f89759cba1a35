package commands

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
)

func init() {
	exportCmd.AddCommand(exportShowCmd)
	exportCmd.AddCommand(exportGrantCmd)
	exportCmd.AddCommand(exportResetCmd)
	rootCmd.AddCommand(exportCmd)
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Manage the export folder grant",
	Long: `Manage the folder snapshots are mirrored into.

The grant is requested on the first backup and remembered afterwards.
These commands inspect it, request it up front, or drop it so the next
backup prompts again.`,
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}

var exportShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the current export folder",
	RunE: func(cmd *cobra.Command, _ []string) error {
		a := newApp(cmd)
		root, ok := a.exp.Root(cmd.Context())
		if !ok {
			fmt.Println("No export folder granted")
			fmt.Println("Run 'dataguard export grant' or create a backup to set one up.")
			return nil
		}
		fmt.Printf("Export folder: %s\n", root.Path)
		return nil
	},
}

var exportGrantCmd = &cobra.Command{
	Use:   "grant",
	Short: "Request the export folder grant now",
	RunE: func(cmd *cobra.Command, _ []string) error {
		a := newApp(cmd)
		root, err := a.exp.EnsureRoot(cmd.Context())
		if err != nil {
			return errors.Wrap(err, "requesting export folder")
		}
		fmt.Printf("%s✓ Export folder ready at %s%s\n", colorGreen, root.Path, colorReset)
		return nil
	},
}

var exportResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Forget the export folder grant",
	RunE: func(cmd *cobra.Command, _ []string) error {
		a := newApp(cmd)
		if err := a.exp.Forget(); err != nil {
			return errors.Wrap(err, "forgetting export grant")
		}
		fmt.Println("Export folder grant cleared; the next backup will prompt again")
		return nil
	},
}
