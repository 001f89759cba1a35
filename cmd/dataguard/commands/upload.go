package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/AmanDhiman07/dataguard/internal/cloud"
	dgerrors "github.com/AmanDhiman07/dataguard/internal/errors"
	"github.com/AmanDhiman07/dataguard/internal/export"
	"github.com/AmanDhiman07/dataguard/internal/provider"
	"github.com/AmanDhiman07/dataguard/internal/snapshot"
	"github.com/AmanDhiman07/dataguard/internal/vcard"
)

func init() {
	rootCmd.AddCommand(uploadCmd)
}

var uploadCmd = &cobra.Command{
	Use:   "upload [snapshot-id]",
	Short: "Upload a snapshot's contacts to the cloud account",
	Long: `Upload the contact payload of a snapshot as a vCard file.

Without a snapshot ID the most recent snapshot containing contacts is
used. Requires a session from 'dataguard login'.`,
	Example: `  # Upload the latest contacts snapshot
  dataguard upload

  # Upload a specific snapshot
  dataguard upload 2024-03-15_09-30-00

  See Also: dataguard login, dataguard backup list`,
	Args: cobra.MaximumNArgs(1),
	RunE: runUpload,
}

func runUpload(cmd *cobra.Command, args []string) error {
	a := newApp(cmd)

	var id string
	if len(args) > 0 {
		id = args[0]
	} else {
		picked, err := pickSnapshot(a, snapshot.DomainContacts)
		if err != nil {
			return err
		}
		id = picked
	}

	return runUploadWithWriter(cmd.Context(), a, id, os.Stdout)
}

func runUploadWithWriter(ctx context.Context, a *app, id string, w io.Writer) error {
	session, err := cloud.LoadSession(a.sessionPath)
	if err != nil {
		return errors.Wrap(err, "loading session")
	}
	if session == nil {
		return dgerrors.NewUserError(errors.New("not signed in"), "Run 'dataguard login <mobile-number>' first")
	}

	record, err := a.catalog.Get(id)
	if err != nil {
		return errors.Wrapf(err, "looking up snapshot %s", id)
	}
	if !record.Has(snapshot.DomainContacts) {
		return errors.Wrapf(snapshot.ErrDomainMissing, "snapshot %s has no contacts", id)
	}

	path, err := prepareContactsVCF(a, record.FolderName)
	if err != nil {
		return err
	}
	defer os.Remove(path)

	if err := a.client.UploadVCF(ctx, session.Token, path); err != nil {
		return errors.Wrap(err, "uploading")
	}

	fmt.Fprintf(w, "%s✓ Uploaded contacts from %s%s\n", colorGreen, id, colorReset)
	return nil
}

// prepareContactsVCF re-encodes a snapshot's contact payload as a vCard
// file in the temp directory and returns its path.
func prepareContactsVCF(a *app, folderName string) (string, error) {
	payload, err := a.store.ReadPayload(folderName, snapshot.DomainContacts)
	if err != nil {
		return "", errors.Wrap(err, "reading contact payload")
	}

	var contacts []provider.Contact
	if err := json.Unmarshal(payload, &contacts); err != nil {
		return "", errors.Wrap(dgerrors.ErrInvalidSnapshotFormat, err.Error())
	}

	path := filepath.Join(os.TempDir(), export.FileName(snapshot.DomainContacts, folderName))
	if err := os.WriteFile(path, []byte(vcard.Encode(contacts)), 0o600); err != nil {
		return "", errors.Wrap(err, "writing vcf file")
	}
	return path, nil
}
