// File: cmd/scan.go
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

// newScanCmd creates and configures the `scan` command.
func newScanCmd() *cobra.Command {
	scanCmd := &cobra.Command{
		Use:   "scan [ids...]",
		Short: "Audits a batch of identities and ranks the results",
		Long: `Audits every identity in the registry snapshot, or only the listed ids,
and aggregates the outcomes into a ranked scan report. A single identity's
resolution failure is logged and skipped; it never aborts the batch.`,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			// Bind flags to their corresponding Viper keys so command-line
			// flags correctly override config file and environment values.
			// Zero-default override flags bind only when set.
			if f := cmd.Flags().Lookup("concurrency"); f.Changed {
				if err := viper.BindPFlag("scan.concurrency", f); err != nil {
					return err
				}
			}
			if f := cmd.Flags().Lookup("top"); f.Changed {
				if err := viper.BindPFlag("scan.top", f); err != nil {
					return err
				}
			}
			return viper.BindPFlags(cmd.Flags())
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			// Use the context passed from main (signal-aware).
			ctx := cmd.Context()
			logger := observability.GetLogger()

			var err error
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

			// With no arguments the whole snapshot is scanned, in file order.
			refs := components.Registry.Refs()
			if len(args) > 0 {
				refs = refs[:0]
				for _, arg := range args {
					id, err := parseAgentID(arg)
					if err != nil {
						return err
					}
					refs = append(refs, registry.Ref{ID: id})
				}
			}

			logger.Info("Starting batch scan",
				zap.Int("identities", len(refs)),
				zap.Int("concurrency", cfg.Scan.Concurrency),
			)

			report := components.Scanner.Scan(ctx, refs)

			reporter, err := newReporter(cfg)
			if err != nil {
				return err
			}
			defer reporter.Close()
			if err := reporter.Write(report); err != nil {
				return err
			}

			if skipped := len(refs) - report.Scanned; skipped > 0 {
				logger.Warn("Some identities could not be scanned", zap.Int("skipped", skipped))
			}
			fmt.Printf("\nScan complete. Scan ID: %s\n", report.ScanID)
			return nil
		},
	}

	scanCmd.Flags().StringP("input", "i", "", "Registry snapshot file to resolve identities from. (Required)")
	scanCmd.Flags().StringP("output", "o", "", "Output file path for the report. If unset, writes to stdout.")
	scanCmd.Flags().StringP("format", "f", "text", "Format for the output report ('text' or 'json').")
	scanCmd.Flags().IntP("concurrency", "j", 0, "Number of concurrent identity audits. (Overrides config/env)")
	scanCmd.Flags().Int("top", 0, "Size of the top-ranked listing in text output. (Overrides config/env)")
	_ = scanCmd.MarkFlagRequired("input")

	return scanCmd
}
