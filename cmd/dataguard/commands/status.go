package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/AmanDhiman07/dataguard/internal/cloud"
	"github.com/AmanDhiman07/dataguard/internal/role"
	"github.com/AmanDhiman07/dataguard/internal/snapshot"
)

var statusJSON bool

func init() {
	statusCmd.Flags().BoolVar(&statusJSON, "json", false, "output as JSON")
	rootCmd.AddCommand(statusCmd)
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show backup overview",
	Long: `Show an overview of local snapshots and the surrounding state.

Displays snapshot counts per domain, total size on disk, the export
folder grant, held roles, and the cloud session.`,
	Example: `  # Show status
  dataguard status

  # JSON output for scripting
  dataguard status --json`,
	RunE: runStatus,
}

// statusOutput is the JSON shape of the status command.
type statusOutput struct {
	Snapshots  int             `json:"snapshots"`
	Latest     *time.Time      `json:"latest,omitempty"`
	Records    map[string]int  `json:"records"`
	Device     map[string]int  `json:"device"`
	SizeBytes  int64           `json:"size_bytes"`
	ExportRoot string          `json:"export_root,omitempty"`
	Roles      map[string]bool `json:"roles"`
	Account    string          `json:"account,omitempty"`
}

// deviceCounts reads live per-domain record counts. A denied permission
// or a missing capability counts as zero rather than an error.
func deviceCounts(ctx context.Context, a *app) map[string]int {
	counts := map[string]int{
		string(snapshot.DomainContacts): 0,
		string(snapshot.DomainMessages): 0,
		string(snapshot.DomainCallLogs): 0,
	}

	contacts := a.stack.Contacts()
	if ok, err := contacts.RequestPermission(ctx); err == nil && ok {
		if records, err := contacts.List(ctx); err == nil {
			counts[string(snapshot.DomainContacts)] = len(records)
		}
	}

	if messages, ok := a.stack.Messages(); ok {
		if granted, err := messages.RequestPermission(ctx); err == nil && granted {
			if records, err := messages.List(ctx, a.cfg.SMSListCap); err == nil {
				counts[string(snapshot.DomainMessages)] = len(records)
			}
		}
	}

	if calls, ok := a.stack.CallLogs(); ok {
		if granted, err := calls.RequestReadPermission(ctx); err == nil && granted {
			if records, err := calls.List(ctx); err == nil {
				counts[string(snapshot.DomainCallLogs)] = len(records)
			}
		}
	}

	return counts
}

func runStatus(cmd *cobra.Command, _ []string) error {
	return runStatusWithWriter(cmd.Context(), newApp(cmd), os.Stdout)
}

func runStatusWithWriter(ctx context.Context, a *app, w io.Writer) error {
	records, err := a.catalog.List()
	if err != nil {
		return errors.Wrap(err, "listing snapshots")
	}

	out := statusOutput{
		Snapshots: len(records),
		Records:   map[string]int{},
		Device:    deviceCounts(ctx, a),
		Roles:     map[string]bool{},
	}
	for _, r := range records {
		out.SizeBytes += r.SizeBytes
		for _, d := range r.Types {
			out.Records[string(d)] += r.Counts.For(d)
		}
	}
	if len(records) > 0 {
		latest := records[0].Date
		out.Latest = &latest
	}

	if root, ok := a.exp.Root(ctx); ok {
		out.ExportRoot = root.Path
	}

	for _, r := range []role.Role{role.SMS, role.Dialer} {
		held, err := a.roles.Held(ctx, r)
		if err != nil {
			a.log.Debug("role check failed", "role", r, "error", err)
			continue
		}
		out.Roles[string(r)] = held
	}

	if session, err := cloud.LoadSession(a.sessionPath); err == nil && session != nil {
		out.Account = session.User.MobileNumber
	}

	if statusJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	fmt.Fprintf(w, "%sSnapshots%s\n", colorCyan+colorBold, colorReset)
	if out.Snapshots == 0 {
		fmt.Fprintf(w, "  %s(none yet)%s\n", colorGray, colorReset)
	} else {
		fmt.Fprintf(w, "  %d snapshots, %s on disk\n", out.Snapshots, formatSize(out.SizeBytes))
		fmt.Fprintf(w, "  latest: %s\n", out.Latest.Local().Format("2006-01-02 15:04:05"))
		for _, d := range snapshot.Domains() {
			if n, ok := out.Records[string(d)]; ok {
				fmt.Fprintf(w, "  %s: %d records\n", d, n)
			}
		}
	}

	fmt.Fprintf(w, "\n%sOn device%s\n", colorCyan+colorBold, colorReset)
	for _, d := range snapshot.Domains() {
		fmt.Fprintf(w, "  %s: %d records\n", d, out.Device[string(d)])
	}

	fmt.Fprintf(w, "\n%sExport folder%s\n", colorCyan+colorBold, colorReset)
	if out.ExportRoot != "" {
		fmt.Fprintf(w, "  %s\n", out.ExportRoot)
	} else {
		fmt.Fprintf(w, "  %snot granted%s\n", colorYellow, colorReset)
	}

	fmt.Fprintf(w, "\n%sRoles%s\n", colorCyan+colorBold, colorReset)
	for _, r := range []role.Role{role.SMS, role.Dialer} {
		mark := colorGray + "not held" + colorReset
		if out.Roles[string(r)] {
			mark = colorGreen + "held" + colorReset
		}
		fmt.Fprintf(w, "  %s: %s\n", r, mark)
	}

	fmt.Fprintf(w, "\n%sCloud%s\n", colorCyan+colorBold, colorReset)
	if out.Account != "" {
		fmt.Fprintf(w, "  signed in as %s\n", out.Account)
	} else {
		fmt.Fprintf(w, "  %snot signed in%s\n", colorGray, colorReset)
	}

	return nil
}
