// Package cli implements pathguardctl's cobra command tree: loading a
// policy repository, evaluating access decisions, and inspecting the
// decision audit log.
package cli

import (
	"github.com/spf13/cobra"
)

var (
	policyPath string
	logPath    string
	mode       string
)

var rootCmd = &cobra.Command{
	Use:   "pathguardctl",
	Short: "pathguard - path-oriented access control policy evaluator",
	Long: `pathguardctl loads path-based access control policies and evaluates
access decisions against them: explicit deny beats the most specific
matching allow, every decision is logged, and nothing is ever executed
on the caller's behalf — this tool only answers allow/deny questions.`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&policyPath, "policy", "", "Path to a policy file or directory (default: ~/.pathguard/policies.yaml)")
	rootCmd.PersistentFlags().StringVar(&logPath, "log", "", "Path to the decision audit log (default: ~/.pathguard/audit.jsonl)")
	rootCmd.PersistentFlags().StringVar(&mode, "mode", "evaluate", "Execution mode (reserved for future use)")
}

func Execute() error {
	return rootCmd.Execute()
}
