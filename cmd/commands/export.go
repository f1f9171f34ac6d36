package commands

// Command to export the benchmark data
// yaml: one document per dataset, to stdout or a file
// xlsx: one sheet per chart with a native Excel chart

import (
	"bytes"
	"fmt"
	"path/filepath"

	"bench-graphs/internal/bench"
	"bench-graphs/internal/charts"
	"bench-graphs/internal/export"
	"bench-graphs/internal/infra/fs"
	logging "bench-graphs/internal/infra/log"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	exportFormat string
	exportOut    string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the benchmark data as YAML or an Excel workbook",
	Long: `Export the measurements behind the charts.

  --format yaml   writes every dataset as a YAML document (stdout unless --out is set)
  --format xlsx   writes a workbook with one sheet and one native chart per dataset
                  (default <output-dir>/benchmarks.xlsx)`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "yaml", "Export format: yaml or xlsx")
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "Output file")
}

func runExport(cmd *cobra.Command, args []string) error {
	switch exportFormat {
	case "yaml", "yml":
		var buf bytes.Buffer
		if err := export.WriteYAML(&buf, bench.All()); err != nil {
			return fmt.Errorf("failed to export yaml: %w", err)
		}
		if exportOut == "" || exportOut == "-" {
			_, err := cmd.OutOrStdout().Write(buf.Bytes())
			return err
		}
		if err := fs.WriteAtomic(exportOut, buf.Bytes()); err != nil {
			return fmt.Errorf("failed to export yaml: %w", err)
		}
		logging.LogSuccess("Datasets exported", zap.String("path", exportOut), zap.String("format", "yaml"))
		return nil

	case "xlsx":
		path := exportOut
		if path == "" {
			path = filepath.Join(cfg.Output.Dir, "benchmarks.xlsx")
		}
		if err := export.WriteWorkbook(path, charts.Catalog()); err != nil {
			return fmt.Errorf("failed to export workbook: %w", err)
		}
		logging.LogSuccess("Workbook exported", zap.String("path", path), zap.String("format", "xlsx"))
		return nil

	default:
		return fmt.Errorf("unknown export format %q (want yaml or xlsx)", exportFormat)
	}
}
