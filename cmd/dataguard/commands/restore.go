package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/ktr0731/go-fuzzyfinder"
	"github.com/spf13/cobra"

	dgerrors "github.com/AmanDhiman07/dataguard/internal/errors"
	"github.com/AmanDhiman07/dataguard/internal/logging"
	"github.com/AmanDhiman07/dataguard/internal/restore"
	"github.com/AmanDhiman07/dataguard/internal/role"
	"github.com/AmanDhiman07/dataguard/internal/snapshot"
)

var restoreKeepRole bool

func init() {
	restoreCmd.Flags().BoolVar(&restoreKeepRole, "keep-role", false,
		"keep an acquired role instead of handing it back afterwards")
	rootCmd.AddCommand(restoreCmd)
}

var restoreCmd = &cobra.Command{
	Use:   "restore <contacts|messages|calls> [snapshot-id]",
	Short: "Restore records from a snapshot",
	Long: `Restore one record domain from a snapshot.

Without a snapshot ID, an interactive picker lists snapshots that
contain the requested domain (latest first). Contacts already on the
device are skipped; restoring messages or call logs acquires the
default SMS or dialer role first and hands it back afterwards.`,
	Example: `  # Restore contacts, picking the snapshot interactively
  dataguard restore contacts

  # Restore messages from a specific snapshot
  dataguard restore messages 2024-03-15_09-30-00

  See Also:
    dataguard backup list - List available snapshots`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runRestore,
}

func runRestore(cmd *cobra.Command, args []string) error {
	a := newApp(cmd)

	domain, ok := parseDomain(args[0])
	if !ok {
		return errors.Newf("unknown domain %q (valid: contacts, messages, calls)", args[0])
	}

	var id string
	if len(args) > 1 {
		id = args[1]
	} else {
		picked, err := pickSnapshot(a, domain)
		if err != nil {
			return err
		}
		id = picked
	}

	return runRestoreWithWriter(cmd.Context(), a, domain, id, os.Stdout)
}

// pickSnapshot selects a snapshot containing domain, interactively when
// stdout is a terminal and by recency otherwise. An empty domain matches
// every snapshot.
func pickSnapshot(a *app, domain snapshot.Domain) (string, error) {
	records, err := a.catalog.List()
	if err != nil {
		return "", errors.Wrap(err, "listing snapshots")
	}

	var candidates []snapshot.Record
	for _, r := range records {
		if domain == "" || r.Has(domain) {
			candidates = append(candidates, r)
		}
	}
	if len(candidates) == 0 {
		if domain == "" {
			return "", errors.Wrap(dgerrors.ErrSnapshotNotFound, "no snapshots available")
		}
		return "", errors.Wrapf(dgerrors.ErrSnapshotNotFound, "no snapshot contains %s", domain)
	}

	if !logging.IsTTY(os.Stdout) {
		return candidates[0].FolderName, nil
	}

	idx, err := fuzzyfinder.Find(candidates, func(i int) string {
		r := candidates[i]
		return fmt.Sprintf("%s  %s", r.ID, domainSummary(&r.Manifest))
	}, fuzzyfinder.WithPreviewWindow(func(i, _, _ int) string {
		if i < 0 {
			return ""
		}
		r := candidates[i]
		return fmt.Sprintf("Snapshot %s\nCreated  %s\nContents %s\nSize     %s",
			r.ID,
			r.Date.Local().Format("2006-01-02 15:04:05"),
			domainSummary(&r.Manifest),
			formatSize(r.SizeBytes))
	}))
	if err != nil {
		if errors.Is(err, fuzzyfinder.ErrAbort) {
			return "", errors.New("no snapshot selected")
		}
		return "", errors.Wrap(err, "selecting snapshot")
	}
	return candidates[idx].FolderName, nil
}

func runRestoreWithWriter(ctx context.Context, a *app, domain snapshot.Domain, id string, w io.Writer) error {
	record, err := a.catalog.Get(id)
	if err != nil {
		return errors.Wrapf(err, "looking up snapshot %s", id)
	}

	var res *restore.Result
	switch domain {
	case snapshot.DomainContacts:
		res, err = a.engine.Contacts(ctx, record.FolderName)
	case snapshot.DomainMessages:
		res, err = restoreWithRole(ctx, a, role.SMS, w, func() (*restore.Result, error) {
			return a.engine.Messages(ctx, record.FolderName)
		})
	case snapshot.DomainCallLogs:
		res, err = restoreWithRole(ctx, a, role.Dialer, w, func() (*restore.Result, error) {
			return a.engine.CallLogs(ctx, record.FolderName)
		})
	}
	if err != nil {
		return errors.Wrapf(err, "restoring %s from %s", domain, id)
	}

	fmt.Fprintf(w, "%s✓ Restored %d of %d %s records%s\n",
		colorGreen, res.Restored, res.Total, domain, colorReset)
	if res.Skipped > 0 {
		fmt.Fprintf(w, "  %s%d skipped (already present or empty)%s\n", colorGray, res.Skipped, colorReset)
	}
	if res.Failed > 0 {
		fmt.Fprintf(w, "  %s%d failed%s\n", colorYellow, res.Failed, colorReset)
	}
	return nil
}

// restoreWithRole runs a role-gated restore, acquiring the role when
// missing and handing it back to the prior holder afterwards.
func restoreWithRole(ctx context.Context, a *app, r role.Role, w io.Writer, run func() (*restore.Result, error)) (*restore.Result, error) {
	res, err := run()
	if err == nil || !errors.Is(err, dgerrors.ErrRoleRequired) {
		return res, err
	}

	fmt.Fprintf(w, "Requesting the %s role...\n", r)
	ticket, err := a.roles.Acquire(ctx, r)
	if err != nil {
		return nil, err
	}
	if _, err := a.roles.Resolve(ctx, r, false); err != nil {
		return nil, err
	}
	granted, err := ticket.Wait(ctx)
	if err != nil {
		return nil, err
	}
	if !granted {
		return nil, errors.Wrapf(dgerrors.ErrRoleRequired, "%s role was not granted", r)
	}

	if !restoreKeepRole {
		defer func() {
			if err := a.roles.ReleaseToPrior(ctx, r); err != nil {
				a.log.Warn("could not hand role back", "role", r, "error", err)
			}
		}()
	}

	return run()
}
