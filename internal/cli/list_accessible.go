package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/brightloom/pathguard/internal/config"
	"github.com/brightloom/pathguard/internal/manager"
	"github.com/brightloom/pathguard/internal/policy"
)

var (
	listPolicies   []string
	listCapability string
)

var listAccessiblePathsCmd = &cobra.Command{
	Use:   "list-accessible-paths",
	Short: "Enumerate every path pattern granting a capability",
	Long: `list-accessible-paths loads one or more named policies and lists the
path pattern of every Allow rule granting the given capability, deduped
across policies. This enumeration intentionally ignores conditions and
capability implication — it reports what rules are declared to grant,
not what a specific request would resolve to.

Example:
  pathguardctl list-accessible-paths --policies default --capability read`,
	RunE: listAccessiblePathsCommand,
}

func init() {
	listAccessiblePathsCmd.Flags().StringSliceVar(&listPolicies, "policies", nil, "Comma-separated policy names")
	listAccessiblePathsCmd.Flags().StringVar(&listCapability, "capability", "", "Capability to enumerate")
	rootCmd.AddCommand(listAccessiblePathsCmd)
}

func listAccessiblePathsCommand(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(policyPath, logPath, mode)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	cap, err := policy.ParseCapability(listCapability)
	if err != nil {
		return err
	}

	repo, err := loadRepository(cfg)
	if err != nil {
		return err
	}

	mgr := manager.New(repo)
	paths, err := mgr.Query(context.Background()).
		WithPolicyNames(listPolicies...).
		WithCapability(cap).
		ListAccessiblePaths()
	if err != nil {
		return err
	}

	if len(paths) == 0 {
		fmt.Println("(no accessible paths)")
		return nil
	}
	for _, p := range paths {
		fmt.Println(p)
	}
	return nil
}
