// File: cmd/verify.go
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/xkilldash9x/agentlens/internal/config"
	"github.com/xkilldash9x/agentlens/internal/observability"
	"github.com/xkilldash9x/agentlens/internal/registry"
)

// newVerifyCmd creates and configures the `verify` command.
func newVerifyCmd() *cobra.Command {
	verifyCmd := &cobra.Command{
		Use:   "verify <id>",
		Short: "Probes the declared endpoints of one identity and reports its liveness",
		Args:  cobra.ExactArgs(1),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			// Bind flags so command-line values override config and env. The
			// timeout flag is only bound when set, so its zero default does
			// not shadow the configured value.
			if f := cmd.Flags().Lookup("timeout"); f.Changed {
				if err := viper.BindPFlag("probe.timeout", f); err != nil {
					return err
				}
			}
			return viper.BindPFlags(cmd.Flags())
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := observability.GetLogger()

			id, err := parseAgentID(args[0])
			if err != nil {
				return err
			}

			// Re-resolve the config now that command flags are bound, so
			// flag overrides land with the right precedence.
			cfg, err = config.NewConfigFromViper(viper.GetViper())
			if err != nil {
				return err
			}
			cfg.Scan.Input = viper.GetString("input")
			cfg.Scan.Output = viper.GetString("output")
			cfg.Scan.Format = viper.GetString("format")

			components, err := initializeEngineComponents(cfg, cfg.Scan.Input, logger)
			if err != nil {
				return err
			}

			rec, err := components.Registry.Resolve(ctx, registry.Ref{ID: id})
			if err != nil {
				return fmt.Errorf("failed to resolve identity %d: %w", id, err)
			}

			result := components.Prober.VerifyIdentity(ctx, rec)
			logger.Info("Verification finished",
				zap.Uint64("agent_id", id),
				zap.String("status", string(result.Status)),
			)

			reporter, err := newReporter(cfg)
			if err != nil {
				return err
			}
			defer reporter.Close()
			return reporter.Write(result)
		},
	}

	verifyCmd.Flags().StringP("input", "i", "", "Registry snapshot file to resolve identities from. (Required)")
	verifyCmd.Flags().StringP("output", "o", "", "Output file path. If unset, writes to stdout.")
	verifyCmd.Flags().StringP("format", "f", "text", "Output format ('text' or 'json').")
	verifyCmd.Flags().Duration("timeout", 0, "Per-endpoint probe timeout. (Overrides config/env)")
	_ = verifyCmd.MarkFlagRequired("input")

	return verifyCmd
}
