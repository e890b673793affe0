package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ironsheep/app-finder-mcp/internal/engine"
	"github.com/ironsheep/app-finder-mcp/internal/httpapi"
	"github.com/ironsheep/app-finder-mcp/internal/logger"
	"github.com/ironsheep/app-finder-mcp/internal/ocr"
	"github.com/ironsheep/app-finder-mcp/internal/scan"
	"github.com/ironsheep/app-finder-mcp/internal/server"
)

var (
	serveNoOCR bool
	serveAddr  string
)

func init() {
	serveCmd.Flags().BoolVar(&serveNoOCR, "no-ocr", false, "scan images with color evidence only")
	serveHTTPCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config)")
}

// signalContext is canceled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// newScanner wires the OCR extractor from config unless disabled.
func newScanner(eng *engine.Engine, noOCR bool) *scan.Scanner {
	var text scan.TextExtractor
	if !noOCR {
		text = ocr.NewTesseract(ocr.Options{
			Language:   cfg.OCR.Language,
			Preprocess: cfg.OCR.Preprocess,
			Width:      cfg.OCR.Width,
		})
	}
	return scan.New(eng, nil, text, cfg.Scan)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the MCP server over stdio",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		eng, err := loadEngine()
		if err != nil {
			return err
		}
		scanner := newScanner(eng, serveNoOCR)

		ctx, stop := signalContext()
		defer stop()

		logger.Info().
			Str("version", Version).
			Int("apps", eng.Catalog().Len()).
			Bool("ocr", !serveNoOCR).
			Msg("MCP server starting")
		return server.New(eng, scanner).Run(ctx)
	},
}

var serveHTTPCmd = &cobra.Command{
	Use:   "serve-http",
	Short: "Run the REST API",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		eng, err := loadEngine()
		if err != nil {
			return err
		}
		httpCfg := cfg.HTTP
		if serveAddr != "" {
			httpCfg.Addr = serveAddr
		}

		ctx, stop := signalContext()
		defer stop()
		return httpapi.Serve(ctx, eng, httpCfg)
	},
}
