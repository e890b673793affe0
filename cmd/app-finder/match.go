package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ironsheep/app-finder-mcp/internal/engine"
	"github.com/ironsheep/app-finder-mcp/internal/scan"
)

var (
	matchCap           int
	matchMinConfidence int
	matchFuzzy         bool
	matchCalibrate     bool
	matchMethod        string
	matchOCRConfidence float64

	scanRegion      string
	scanPaletteSize int
	scanNoOCR       bool
)

func init() {
	for _, c := range []*cobra.Command{matchTextCmd, matchColorsCmd, scanCmd} {
		c.Flags().IntVar(&matchCap, "cap", 0, "maximum number of results (default from config)")
		c.Flags().IntVar(&matchMinConfidence, "min-confidence", 0, "fallback threshold (default from config)")
	}
	for _, c := range []*cobra.Command{matchTextCmd, scanCmd} {
		c.Flags().BoolVar(&matchFuzzy, "fuzzy", false, "also match near-miss spellings")
		c.Flags().BoolVar(&matchCalibrate, "calibrate", false, "scale text confidence by OCR method")
	}
	matchTextCmd.Flags().StringVar(&matchMethod, "method", "", "OCR method that produced the text (ocr_space|tesseract|simulation)")
	matchTextCmd.Flags().Float64Var(&matchOCRConfidence, "ocr-confidence", 0, "recognizer confidence 0-100")

	scanCmd.Flags().StringVar(&scanRegion, "region", "", "named region to scan (see image regions)")
	scanCmd.Flags().IntVar(&scanPaletteSize, "palette-size", 0, "number of palette colors to match")
	scanCmd.Flags().BoolVar(&scanNoOCR, "no-ocr", false, "match on colors only")
}

func matchOptions() engine.Options {
	return engine.Options{
		Cap:           matchCap,
		MinConfidence: matchMinConfidence,
		Fuzzy:         matchFuzzy,
		Calibrate:     matchCalibrate,
	}
}

// readText joins the arguments, or reads stdin when there are none or the
// only argument is "-".
func readText(in io.Reader, args []string) (string, error) {
	if len(args) > 0 && !(len(args) == 1 && args[0] == "-") {
		return strings.Join(args, " "), nil
	}
	b, err := io.ReadAll(in)
	if err != nil {
		return "", fmt.Errorf("failed to read text from stdin: %w", err)
	}
	return string(b), nil
}

// parseColorArg accepts "#RRGGBB", "#RGB" or "r,g,b".
func parseColorArg(arg string) (engine.ColorSample, error) {
	arg = strings.TrimSpace(arg)
	if strings.HasPrefix(arg, "#") {
		return engine.ColorSample{Hex: arg}, nil
	}
	parts := strings.Split(arg, ",")
	if len(parts) != 3 {
		return engine.ColorSample{}, fmt.Errorf("invalid color %q: want #RRGGBB or r,g,b", arg)
	}
	var ch [3]int
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return engine.ColorSample{}, fmt.Errorf("invalid color %q: %w", arg, err)
		}
		ch[i] = n
	}
	return engine.ColorSample{R: ch[0], G: ch[1], B: ch[2]}, nil
}

var matchTextCmd = &cobra.Command{
	Use:   "match-text [text...]",
	Short: "Identify apps from OCR text (reads stdin when no text is given)",
	RunE: func(cmd *cobra.Command, args []string) error {
		text, err := readText(cmd.InOrStdin(), args)
		if err != nil {
			return err
		}
		eng, err := loadEngine()
		if err != nil {
			return err
		}
		rep := eng.RecognizeText(engine.TextEvidence{
			Text:          text,
			OCRConfidence: matchOCRConfidence,
			Method:        matchMethod,
		}, matchOptions())
		return writeReport(cmd.OutOrStdout(), rep, nil)
	},
}

var matchColorsCmd = &cobra.Command{
	Use:   "match-colors color...",
	Short: "Identify apps from sampled colors (#RRGGBB or r,g,b)",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		samples := make([]engine.ColorSample, 0, len(args))
		for _, a := range args {
			s, err := parseColorArg(a)
			if err != nil {
				return err
			}
			samples = append(samples, s)
		}
		eng, err := loadEngine()
		if err != nil {
			return err
		}
		colors, warnings := engine.ParseSamples(samples)
		return writeReport(cmd.OutOrStdout(), eng.RecognizeColors(colors, matchOptions()), warnings)
	},
}

var scanCmd = &cobra.Command{
	Use:   "scan image",
	Short: "Run OCR and palette extraction on a screenshot and identify apps",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := loadEngine()
		if err != nil {
			return err
		}
		ctx, stop := signalContext()
		defer stop()

		res, err := newScanner(eng, scanNoOCR).Scan(ctx, args[0], scan.Options{
			Region:      scanRegion,
			PaletteSize: scanPaletteSize,
		}, matchOptions())
		if err != nil {
			return err
		}
		if outputFormat == "json" {
			return writeJSON(cmd.OutOrStdout(), res)
		}
		writeEvidence(cmd.OutOrStdout(), res.Evidence)
		return writeReport(cmd.OutOrStdout(), res.Report, nil)
	},
}

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "List the known apps",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		eng, err := loadEngine()
		if err != nil {
			return err
		}
		sums := eng.Catalog().Summaries()
		if outputFormat == "json" {
			return writeJSON(cmd.OutOrStdout(), sums)
		}
		writeCatalog(cmd.OutOrStdout(), sums)
		return nil
	},
}
