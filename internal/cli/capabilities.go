package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/brightloom/pathguard/internal/config"
	"github.com/brightloom/pathguard/internal/manager"
)

var (
	capsPolicies []string
	capsPath     string
	capsContext  map[string]string
)

var capabilitiesAtCmd = &cobra.Command{
	Use:   "capabilities-at",
	Short: "List every capability granted at a path",
	Long: `capabilities-at loads one or more named policies and lists every
capability any matching, condition-satisfied Allow rule grants at the
given path. Deny rules and capability implication (Admin implying every
other capability) are not reflected in this listing.

Example:
  pathguardctl capabilities-at --policies default --path /api/users`,
	RunE: capabilitiesAtCommand,
}

func init() {
	capabilitiesAtCmd.Flags().StringSliceVar(&capsPolicies, "policies", nil, "Comma-separated policy names")
	capabilitiesAtCmd.Flags().StringVar(&capsPath, "path", "", "Path to inspect")
	capabilitiesAtCmd.Flags().StringToStringVar(&capsContext, "context", nil, "Context entries as key=value, repeatable")
	rootCmd.AddCommand(capabilitiesAtCmd)
}

func capabilitiesAtCommand(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(policyPath, logPath, mode)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	repo, err := loadRepository(cfg)
	if err != nil {
		return err
	}

	ctxMap := make(map[string]any, len(capsContext))
	for k, v := range capsContext {
		ctxMap[k] = v
	}

	mgr := manager.New(repo)
	caps, err := mgr.Query(context.Background()).
		WithPolicyNames(capsPolicies...).
		ForPath(capsPath).
		WithContext(ctxMap).
		CapabilitiesAt()
	if err != nil {
		return err
	}

	if len(caps) == 0 {
		fmt.Println("(no capabilities granted)")
		return nil
	}
	for _, c := range caps {
		fmt.Println(c)
	}
	return nil
}
