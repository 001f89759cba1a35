package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/AmanDhiman07/dataguard/internal/snapshot"
)

var backupListJSON bool

func init() {
	backupListCmd.Flags().BoolVar(&backupListJSON, "json", false, "Output in JSON format")
	backupCmd.AddCommand(backupListCmd)
}

var backupListCmd = &cobra.Command{
	Use:   "list",
	Short: "List available snapshots",
	Long: `List all snapshots under the snapshot root, most recent first.

Each line shows the snapshot ID, its creation time, what it contains,
and its size on disk.`,
	Example: `  # List all snapshots
  dataguard backup list

  # Output as JSON
  dataguard backup list --json

  See Also:
    dataguard restore       - Restore from a snapshot
    dataguard backup create - Create a new snapshot`,
	RunE: runBackupList,
}

// backupInfoOutput represents a single snapshot in JSON output.
type backupInfoOutput struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Types     []string  `json:"types"`
	Records   int       `json:"records"`
	SizeBytes int64     `json:"size_bytes"`
}

func runBackupList(cmd *cobra.Command, _ []string) error {
	return runBackupListWithWriter(newApp(cmd), os.Stdout)
}

func runBackupListWithWriter(a *app, w io.Writer) error {
	records, err := a.catalog.List()
	if err != nil {
		return errors.Wrap(err, "listing snapshots")
	}

	if backupListJSON {
		return outputBackupListJSON(w, records)
	}
	return outputBackupListTabular(w, records)
}

func outputBackupListJSON(w io.Writer, records []snapshot.Record) error {
	output := make([]backupInfoOutput, len(records))
	for i, r := range records {
		types := make([]string, len(r.Types))
		total := 0
		for j, d := range r.Types {
			types[j] = string(d)
			total += r.Counts.For(d)
		}
		output[i] = backupInfoOutput{
			ID:        r.ID,
			CreatedAt: r.Date,
			Types:     types,
			Records:   total,
			SizeBytes: r.SizeBytes,
		}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(output)
}

func outputBackupListTabular(w io.Writer, records []snapshot.Record) error {
	if len(records) == 0 {
		fmt.Fprintln(w, "No snapshots available")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Create one with: dataguard backup create contacts")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "%sID%s\t%sCREATED%s\t%sCONTENTS%s\t%sSIZE%s\n",
		colorBold, colorReset,
		colorBold, colorReset,
		colorBold, colorReset,
		colorBold, colorReset)

	for _, r := range records {
		fmt.Fprintf(tw, "%s%s%s\t%s\t%s\t%s\n",
			colorGreen, r.ID, colorReset,
			r.Date.Local().Format("2006-01-02 15:04:05"),
			domainSummary(&r.Manifest),
			formatSize(r.SizeBytes))
	}
	return tw.Flush()
}
