// sentry-analyze parses a saved wireless scan dump and prints the annotated
// networks, without touching the adapter or the database. Useful for triaging
// reports captured on another machine.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/avelasq/wifisentry/internal/core/domain"
	"github.com/avelasq/wifisentry/internal/core/services/monitor"
	"github.com/avelasq/wifisentry/internal/core/services/scan"
)

func main() {
	var (
		asJSON    = flag.Bool("json", false, "Emit JSON instead of a table")
		blacklist = flag.String("blacklist", "", "Comma separated BSSIDs to treat as blacklisted")
	)
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: sentry-analyze [-json] [-blacklist bssid,...] <scan-dump.txt>")
		os.Exit(2)
	}

	raw, err := os.ReadFile(flag.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to read dump: %v\n", err)
		os.Exit(1)
	}

	networks := scan.Parse(string(raw))
	scan.TagEvilTwins(networks)

	detector := monitor.NewDetector()
	state := domain.NewMonitoringState()
	threats := detector.Detect(networks, state, domain.BSSIDSet{}, parseBlacklist(*blacklist), time.Now())

	if *asJSON {
		out := map[string]interface{}{"networks": networks, "threats": threats}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(out); err != nil {
			fmt.Fprintf(os.Stderr, "failed to encode output: %v\n", err)
			os.Exit(1)
		}
		return
	}

	fmt.Printf("%-28s %-18s %-18s %-8s %-6s %s\n", "SSID", "BSSID", "AUTH", "SIGNAL", "RISK", "FLAGS")
	for _, n := range networks {
		ssid := n.SSID
		if ssid == "" {
			ssid = "<hidden>"
		}
		flags := ""
		if n.IsEvilTwin {
			flags = "evil-twin"
		}
		fmt.Printf("%-28s %-18s %-18s %-8s %-6s %s\n", ssid, n.BSSID, n.Authentication, n.Signal, n.Risk, flags)
	}

	if len(threats) > 0 {
		fmt.Printf("\n%d threat(s) detected:\n", len(threats))
		for _, t := range threats {
			fmt.Printf("  [%s] %s: %s\n", t.Severity, t.Type, t.Details)
		}
	}
}

func parseBlacklist(s string) domain.BSSIDSet {
	set := domain.BSSIDSet{}
	if s == "" {
		return set
	}
	for _, bssid := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(bssid); trimmed != "" {
			set.Add(trimmed)
		}
	}
	return set
}
