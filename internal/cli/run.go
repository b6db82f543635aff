// Package cli defines the featurize command tree.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"panelfeat/internal/app"
	"panelfeat/internal/config"
	"panelfeat/internal/infrastructure"
)

// RunCmd returns the command that executes the full featurization batch.
func RunCmd() *cobra.Command {
	var (
		configPath  string
		panelsDir   string
		registryDir string
		outputDir   string
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Featurize a panel collection",
		Long: `Run the full offline batch: load every panel CSV and the license
registry, derive the per-storefront features across the ordered panel
sequence, cluster storefronts into companies, and write the tagged panel and
company mapping files.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if panelsDir != "" {
				cfg.Paths.PanelsDir = panelsDir
			}
			if registryDir != "" {
				cfg.Paths.RegistryDir = registryDir
			}
			if outputDir != "" {
				cfg.Paths.OutputDir = outputDir
			}

			paths, err := config.NewPaths(cfg)
			if err != nil {
				return err
			}
			cfg.Logging.FilePath = paths.GetLogPath("featurize.log")

			logger, err := infrastructure.InitializeLogger(cfg.Logging)
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			defer infrastructure.CloseLogFile()

			ctx := context.Background()
			tracing, err := infrastructure.InitializeTracing(ctx, cfg.Tracing.Enabled, logger)
			if err != nil {
				return fmt.Errorf("failed to initialize tracing: %w", err)
			}
			defer tracing.Shutdown(ctx)

			logger.Info("Starting featurization run",
				slog.String("panels_dir", paths.PanelsDir),
				slog.String("registry_dir", paths.RegistryDir),
				slog.String("output_dir", paths.OutputDir))

			summary, err := app.New(cfg, paths, logger, tracing.Tracer).Run(ctx)
			if err != nil {
				return err
			}

			printSummary(summary)
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to YAML config file")
	cmd.Flags().StringVar(&panelsDir, "panels", "", "panel CSV directory (overrides config)")
	cmd.Flags().StringVar(&registryDir, "registry", "", "license registry directory (overrides config)")
	cmd.Flags().StringVar(&outputDir, "out", "", "output directory (overrides config)")
	return cmd
}

func printSummary(summary *app.Summary) {
	bold := color.New(color.Bold)
	green := color.New(color.FgGreen)

	bold.Fprintln(os.Stdout, "Featurization complete")
	fmt.Fprintf(os.Stdout, "  panels:       %d\n", summary.Panels)
	fmt.Fprintf(os.Stdout, "  feature rows: %d\n", summary.FeatureRows)
	fmt.Fprintf(os.Stdout, "  companies:    %d\n", summary.Companies)
	green.Fprintf(os.Stdout, "  wrote %d feature files and %d company files\n",
		len(summary.FeatureFiles), len(summary.CompanyFiles))
}
