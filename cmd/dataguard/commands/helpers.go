package commands

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/AmanDhiman07/dataguard/internal/snapshot"
)

// ANSI color codes for terminal output.
const (
	colorReset  = "\033[0m"
	colorBold   = "\033[1m"
	colorCyan   = "\033[36m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorGray   = "\033[90m"
)

// formatSize renders a byte count for humans.
func formatSize(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGT"[exp])
}

// domainSummary renders a manifest's type list, e.g. "contacts (120)".
func domainSummary(m *snapshot.Manifest) string {
	parts := make([]string, 0, len(m.Types))
	for _, d := range m.Types {
		parts = append(parts, fmt.Sprintf("%s (%d)", d, m.Counts.For(d)))
	}
	return strings.Join(parts, ", ")
}

// parseDomain maps a CLI domain argument onto a snapshot domain.
func parseDomain(arg string) (snapshot.Domain, bool) {
	switch strings.ToLower(strings.TrimSpace(arg)) {
	case "contacts":
		return snapshot.DomainContacts, true
	case "messages", "sms":
		return snapshot.DomainMessages, true
	case "calls", "calllogs", "call-logs":
		return snapshot.DomainCallLogs, true
	default:
		return "", false
	}
}

// confirm asks a yes/no question on stdin.
func confirm(prompt string) bool {
	fmt.Printf("%s [y/N]: ", prompt)
	reader := bufio.NewReader(os.Stdin)
	response, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	response = strings.ToLower(strings.TrimSpace(response))
	return response == "y" || response == "yes"
}
