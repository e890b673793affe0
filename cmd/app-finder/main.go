package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ironsheep/app-finder-mcp/internal/config"
	"github.com/ironsheep/app-finder-mcp/internal/engine"
	"github.com/ironsheep/app-finder-mcp/internal/logger"
	"github.com/ironsheep/app-finder-mcp/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

var (
	configPath   string
	logLevel     string
	outputFormat string
	colorMode    string
)

// cfg is loaded once per invocation by the root pre-run hook.
var cfg config.Config

var rootCmd = &cobra.Command{
	Use:   "app-finder",
	Short: "Identify apps on phone home-screen screenshots",
	Long: `app-finder recognizes installed apps from OCR text and colors sampled
off a home-screen screenshot. Run "app-finder serve" to expose it as an MCP
server over stdio, or use the match and scan commands directly.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func main() {
	rootCmd.Version = Version
	server.Version = Version

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(serveHTTPCmd)
	rootCmd.AddCommand(matchTextCmd)
	rootCmd.AddCommand(matchColorsCmd)
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(catalogCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a TOML config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override log level (trace|debug|info|warn|error)")
	rootCmd.PersistentFlags().StringVar(&outputFormat, "format", "pretty", "output format (pretty|json)")
	rootCmd.PersistentFlags().StringVar(&colorMode, "color", "auto", "colorize output (auto|on|off)")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// setup loads configuration, initializes logging and applies the color mode.
func setup(cmd *cobra.Command, _ []string) error {
	var err error
	cfg, err = config.Load(configPath)
	if err != nil {
		return err
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	logger.Init(cfg.Log)

	switch strings.ToLower(colorMode) {
	case "on":
		color.NoColor = false
	case "off":
		color.NoColor = true
	case "auto":
	default:
		return fmt.Errorf("unsupported color mode %q (must be auto, on or off)", colorMode)
	}

	switch outputFormat {
	case "pretty", "json":
	default:
		return fmt.Errorf("unsupported format %q (must be pretty or json)", outputFormat)
	}
	return nil
}

// loadEngine builds the engine from the loaded config and reports catalog
// warnings at debug level.
func loadEngine() (*engine.Engine, error) {
	eng, err := engine.Load(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	for _, w := range eng.Catalog().Warnings() {
		logger.Debug().Str("warning", w).Msg("catalog")
	}
	return eng, nil
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if outputFormat == "json" {
			return writeJSON(cmd.OutOrStdout(), map[string]string{
				"tool":       "app-finder",
				"version":    Version,
				"build_time": BuildTime,
				"git_commit": GitCommit,
			})
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "app-finder %s\n", color.New(color.FgGreen, color.Bold).Sprint(Version))
		fmt.Fprintf(out, "  Build time: %s\n", BuildTime)
		fmt.Fprintf(out, "  Git commit: %s\n", GitCommit)
		return nil
	},
}
