package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
)

var backupDeleteForce bool

func init() {
	backupDeleteCmd.Flags().BoolVarP(&backupDeleteForce, "force", "f", false, "Delete without confirmation")
	backupCmd.AddCommand(backupDeleteCmd)
}

var backupDeleteCmd = &cobra.Command{
	Use:   "delete [snapshot-id]",
	Short: "Delete a snapshot",
	Long: `Delete a snapshot and its exported copies.

Without a snapshot ID, an interactive picker lists every snapshot,
latest first. The local snapshot folder is removed first. Exported
copies are cleaned up best effort; a missing or revoked export folder
does not block the delete.`,
	Example: `  # Delete a snapshot
  dataguard backup delete 2024-03-15_09-30-00

  # Skip the confirmation prompt
  dataguard backup delete 2024-03-15_09-30-00 --force

  See Also:
    dataguard backup list - List available snapshots`,
	Args: cobra.MaximumNArgs(1),
	RunE: runBackupDelete,
}

func runBackupDelete(cmd *cobra.Command, args []string) error {
	a := newApp(cmd)

	var id string
	if len(args) > 0 {
		id = args[0]
	} else {
		picked, err := pickSnapshot(a, "")
		if err != nil {
			return err
		}
		id = picked
	}

	if !backupDeleteForce && !confirm(fmt.Sprintf("Delete snapshot %s?", id)) {
		fmt.Println("Aborted")
		return nil
	}
	return runBackupDeleteWithWriter(cmd.Context(), a, id, os.Stdout)
}

func runBackupDeleteWithWriter(ctx context.Context, a *app, id string, w io.Writer) error {
	record, err := a.catalog.Get(id)
	if err != nil {
		return errors.Wrapf(err, "looking up snapshot %s", id)
	}

	if err := a.catalog.Delete(ctx, record.FolderName); err != nil {
		return errors.Wrapf(err, "deleting snapshot %s", id)
	}

	fmt.Fprintf(w, "%s✓ Deleted snapshot %s%s\n", colorGreen, id, colorReset)
	return nil
}
