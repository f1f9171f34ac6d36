package commands

// Root command for Cobra CLI
// Running the binary without a subcommand generates the charts
// Registers the generate, export and publish subcommands

import (
	"bench-graphs/internal/charts"
	"bench-graphs/internal/infra/config"
	logging "bench-graphs/internal/infra/log"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// cfg is loaded once per invocation, before any RunE.
var cfg *config.Config

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "bench-graphs",
	Short: "Render the parallel bzip2 benchmark charts",
	Long: `bench-graphs draws the thread scaling, efficiency, block size, file size and
memory charts of the parallel bzip2 benchmark as PNG images.

Run without arguments to write all five charts into graphs/.`,
	Version:           "1.0.0",
	Args:              cobra.NoArgs,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
	RunE:              runGenerate,
}

func Execute() error {
	defer logging.Sync()
	return rootCmd.Execute()
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("output-dir", charts.DefaultDir, "Directory the charts are written to (env: OUTPUT_DIR)")
	pf.Int("dpi", charts.DefaultDPI, "Output resolution in dots per inch")
	pf.String("backend", "gg", "Chart backend: gg or plot")
	pf.String("log-dir", "logs", "Directory for app.log")
	pf.BoolVarP(&verbose, "verbose", "v", false, "Show image and file sizes in the summary")

	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(publishCmd)
}

func setup(cmd *cobra.Command, args []string) error {
	loaded, err := config.LoadConfig(cmd.Flags())
	if err != nil {
		return err
	}
	cfg = loaded

	if err := logging.Init(cfg.Log.Dir); err != nil {
		return err
	}
	logging.LogDebug("Configuration loaded",
		zap.String("command", cmd.Name()),
		zap.String("outputDir", cfg.Output.Dir),
		zap.Int("dpi", cfg.Output.DPI),
		zap.String("backend", cfg.Output.Backend))
	return nil
}
