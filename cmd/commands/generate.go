package commands

// Command to render the benchmark charts
// Validates every chart before the first file is written
// Prints the list of generated files on success

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bench-graphs/internal/charts"
	logging "bench-graphs/internal/infra/log"
	"bench-graphs/internal/report"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Render all five charts (default command)",
	Long:  `Render the thread scaling, efficiency, block size, file size and memory charts into the output directory, overwriting earlier runs.`,
	Args:  cobra.NoArgs,
	RunE:  runGenerate,
}

func runGenerate(cmd *cobra.Command, args []string) error {
	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	results, err := generateCharts(ctx)
	if err != nil {
		return err
	}
	return report.Print(cmd.OutOrStdout(), cfg.Output.Dir, results, report.Options{Verbose: verbose})
}

func generateCharts(ctx context.Context) ([]charts.Result, error) {
	start := time.Now()

	r, err := charts.NewRenderer(cfg.Output.Backend, charts.Options{DPI: float64(cfg.Output.DPI)})
	if err != nil {
		return nil, err
	}

	results, err := charts.NewGenerator(cfg.Output.Dir, r).Generate(ctx, charts.Catalog())
	if err != nil {
		if len(results) > 0 {
			logging.LogWarn("Some charts were written before the failure",
				zap.Int("written", len(results)))
		}
		return results, fmt.Errorf("failed to generate charts: %w", err)
	}

	logging.LogSuccess("Charts generated",
		zap.Int("count", len(results)),
		zap.String("dir", cfg.Output.Dir),
		zap.Int64("duration_ms", time.Since(start).Milliseconds()))
	return results, nil
}
