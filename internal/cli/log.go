package cli

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/brightloom/pathguard/internal/config"
	"github.com/brightloom/pathguard/internal/logger"
)

var (
	logFilterAllowed string
	logLast          int
	logSummary       bool
)

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "View and filter the decision audit log",
	Long: `View the pathguard decision audit log with filtering and summary options.

Examples:
  pathguardctl log                       # Show all entries
  pathguardctl log --last 20             # Show last 20 entries
  pathguardctl log --allowed=false       # Show only denied decisions
  pathguardctl log --summary             # Show session summary stats`,
	RunE: logCommand,
}

func init() {
	logCmd.Flags().StringVar(&logFilterAllowed, "allowed", "", "Filter by outcome: true or false")
	logCmd.Flags().IntVar(&logLast, "last", 0, "Show last N entries")
	logCmd.Flags().BoolVar(&logSummary, "summary", false, "Show summary statistics")
	rootCmd.AddCommand(logCmd)
}

func logCommand(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(policyPath, logPath, mode)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	events, err := readDecisionLog(cfg.LogPath)
	if err != nil {
		return fmt.Errorf("failed to read audit log: %w", err)
	}

	if len(events) == 0 {
		fmt.Println("No audit log entries found.")
		return nil
	}

	filtered := filterEvents(events)

	if logLast > 0 && logLast < len(filtered) {
		filtered = filtered[len(filtered)-logLast:]
	}

	if logSummary {
		printSummary(events)
		return nil
	}

	printEvents(filtered)
	return nil
}

func readDecisionLog(path string) ([]logger.DecisionEvent, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer file.Close()

	var events []logger.DecisionEvent
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		var event logger.DecisionEvent
		if err := json.Unmarshal([]byte(line), &event); err != nil {
			continue // skip malformed lines
		}
		events = append(events, event)
	}
	return events, scanner.Err()
}

func filterEvents(events []logger.DecisionEvent) []logger.DecisionEvent {
	if logFilterAllowed == "" {
		return events
	}

	want := strings.EqualFold(logFilterAllowed, "true")
	var filtered []logger.DecisionEvent
	for _, e := range events {
		if e.Allowed == want {
			filtered = append(filtered, e)
		}
	}
	return filtered
}

func printEvents(events []logger.DecisionEvent) {
	for _, e := range events {
		ts := formatTimestamp(e.Timestamp)
		icon := decisionIcon(e)

		fmt.Printf("%s %s %s %s\n", icon, ts, e.Capability, e.Path)
		if e.ExplicitDeny {
			fmt.Println("     explicit deny")
		}
		if e.MatchedRule != "" {
			fmt.Printf("     matched rule: %s (policy %s)\n", e.MatchedRule, e.MatchedPolicy)
		}
		fmt.Printf("     reason: %s\n", e.Reason)
		if e.Error != "" {
			fmt.Printf("     error: %s\n", e.Error)
		}
		fmt.Println()
	}
}

func printSummary(all []logger.DecisionEvent) {
	allowed := 0
	explicitDenies := 0
	errorCount := 0

	for _, e := range all {
		if e.Allowed {
			allowed++
		}
		if e.ExplicitDeny {
			explicitDenies++
		}
		if e.Error != "" {
			errorCount++
		}
	}

	fmt.Println("═══════════════════════════════════════════")
	fmt.Println("  pathguard Decision Summary")
	fmt.Println("═══════════════════════════════════════════")
	fmt.Printf("  Total events:     %d\n", len(all))
	fmt.Printf("  Allowed:          %d\n", allowed)
	fmt.Printf("  Denied:           %d\n", len(all)-allowed)
	fmt.Printf("  Explicit denies:  %d\n", explicitDenies)
	fmt.Printf("  Errors:           %d\n", errorCount)
	fmt.Println("═══════════════════════════════════════════")

	if len(all) > 0 {
		fmt.Printf("  First event:      %s\n", formatTimestamp(all[0].Timestamp))
		fmt.Printf("  Last event:       %s\n", formatTimestamp(all[len(all)-1].Timestamp))
	}
	fmt.Println()
}

func decisionIcon(e logger.DecisionEvent) string {
	if e.ExplicitDeny {
		return "\xf0\x9f\x9b\x91" // stop sign
	}
	if e.Allowed {
		return "\xe2\x9c\x85" // check mark
	}
	return "\xe2\x9d\x93" // question mark
}

func formatTimestamp(ts string) string {
	t, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		return ts
	}
	return t.Local().Format("2006-01-02 15:04:05")
}
