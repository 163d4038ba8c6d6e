package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/brightloom/pathguard/internal/config"
	"github.com/brightloom/pathguard/internal/logger"
	"github.com/brightloom/pathguard/internal/manager"
	"github.com/brightloom/pathguard/internal/policy"
)

var (
	evalPolicies   []string
	evalPath       string
	evalCapability string
	evalContext    map[string]string
)

var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Evaluate whether a capability is allowed at a path",
	Long: `evaluate loads one or more named policies and asks whether the given
capability is allowed at the given path under an optional context.

Examples:
  pathguardctl evaluate --policies default --path /api/users --capability read
  pathguardctl evaluate --policies default --path /customers/cust-1/data \
    --capability read --context customer_id=cust-1`,
	RunE: evaluateCommand,
}

func init() {
	evaluateCmd.Flags().StringSliceVar(&evalPolicies, "policies", nil, "Comma-separated policy names to evaluate against")
	evaluateCmd.Flags().StringVar(&evalPath, "path", "", "Path to evaluate")
	evaluateCmd.Flags().StringVar(&evalCapability, "capability", "", "Capability to check (read, list, create, update, delete, admin)")
	evaluateCmd.Flags().StringToStringVar(&evalContext, "context", nil, "Context entries as key=value, repeatable")
	rootCmd.AddCommand(evaluateCmd)
}

func evaluateCommand(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(policyPath, logPath, mode)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	cap, err := policy.ParseCapability(evalCapability)
	if err != nil {
		return err
	}

	repo, err := loadRepository(cfg)
	if err != nil {
		return err
	}

	ctxMap := make(map[string]any, len(evalContext))
	for k, v := range evalContext {
		ctxMap[k] = v
	}

	mgr := manager.New(repo)
	result, err := mgr.Query(context.Background()).
		WithPolicyNames(evalPolicies...).
		ForPath(evalPath).
		WithCapability(cap).
		WithContext(ctxMap).
		Can()
	if err != nil {
		return err
	}

	printEvaluationResult(evalPath, cap, result)

	if err := appendDecisionLog(cfg, evalPolicies, cap, evalPath, ctxMap, result); err != nil {
		fmt.Printf("warning: failed to write audit log: %v\n", err)
	}

	return nil
}

func printEvaluationResult(path string, cap policy.Capability, result policy.EvaluationResult) {
	status := "DENY"
	if result.Allowed {
		status = "ALLOW"
	}
	fmt.Printf("%s  %s %s\n", status, cap, path)
	fmt.Printf("  reason: %s\n", result.Reason)
	if result.ExplicitDeny {
		fmt.Println("  explicit deny: true")
	}
	if result.MatchedPolicy != nil {
		fmt.Printf("  matched policy: %s\n", result.MatchedPolicy.Name())
	}
	if result.MatchedRule != nil {
		fmt.Printf("  matched rule: %s\n", result.MatchedRule.Path())
	}
}

func appendDecisionLog(cfg *config.Config, policyNames []string, cap policy.Capability, path string, ctx map[string]any, result policy.EvaluationResult) error {
	lg, err := logger.New(cfg.LogPath)
	if err != nil {
		return err
	}
	defer lg.Close()

	event := logger.NewDecisionEvent(time.Now().UTC().Format(time.RFC3339), policyNames, cap, path, ctx, result)
	return lg.Log(event)
}
