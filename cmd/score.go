// File: cmd/score.go
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

// newScoreCmd creates and configures the `score` command.
func newScoreCmd() *cobra.Command {
	scoreCmd := &cobra.Command{
		Use:   "score <id>",
		Short: "Computes the composite reputation score and tier of one identity",
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

			// A signal lookup failure scores as unknown rather than failing
			// the command.
			signals, err := components.Registry.Signals(ctx, rec)
			if err != nil {
				logger.Warn("Chain signals unavailable", zap.Uint64("agent_id", id), zap.Error(err))
			}

			report := components.Scorer.Score(ctx, rec, signals)

			reporter, err := newReporter(cfg)
			if err != nil {
				return err
			}
			defer reporter.Close()
			return reporter.Write(report)
		},
	}

	scoreCmd.Flags().StringP("input", "i", "", "Registry snapshot file to resolve identities from. (Required)")
	scoreCmd.Flags().StringP("output", "o", "", "Output file path. If unset, writes to stdout.")
	scoreCmd.Flags().StringP("format", "f", "text", "Output format ('text' or 'json').")
	_ = scoreCmd.MarkFlagRequired("input")

	return scoreCmd
}
