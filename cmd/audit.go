// File: cmd/audit.go
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/xkilldash9x/agentlens/internal/config"
	"github.com/xkilldash9x/agentlens/internal/observability"
	"github.com/xkilldash9x/agentlens/internal/registry"
)

// newAuditCmd creates and configures the `audit` command.
func newAuditCmd() *cobra.Command {
	auditCmd := &cobra.Command{
		Use:   "audit <id>",
		Short: "Runs the four-dimension security audit over one identity",
		Args:  cobra.ExactArgs(1),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return viper.BindPFlags(cmd.Flags())
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := observability.GetLogger()

			id, err := parseAgentID(args[0])
			if err != nil {
				return err
			}

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

			report := components.Auditor.Audit(rec)

			reporter, err := newReporter(cfg)
			if err != nil {
				return err
			}
			defer reporter.Close()
			return reporter.Write(report)
		},
	}

	auditCmd.Flags().StringP("input", "i", "", "Registry snapshot file to resolve identities from. (Required)")
	auditCmd.Flags().StringP("output", "o", "", "Output file path. If unset, writes to stdout.")
	auditCmd.Flags().StringP("format", "f", "text", "Output format ('text' or 'json').")
	_ = auditCmd.MarkFlagRequired("input")

	return auditCmd
}
