package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"github.com/ironsheep/app-finder-mcp/internal/catalog"
	"github.com/ironsheep/app-finder-mcp/internal/engine"
	"github.com/ironsheep/app-finder-mcp/internal/rank"
	"github.com/ironsheep/app-finder-mcp/internal/scan"
)

var (
	highColor     = color.New(color.FgGreen, color.Bold)
	mediumColor   = color.New(color.FgYellow)
	lowColor      = color.New(color.FgRed)
	fallbackColor = color.New(color.Faint)
	headerColor   = color.New(color.Bold)
	warnColor     = color.New(color.FgYellow)
)

const maxEvidenceWidth = 60

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// confidenceColor picks the color for a result's confidence.
func confidenceColor(r rank.Result) *color.Color {
	switch {
	case r.DetectionMethod == rank.MethodFallback:
		return fallbackColor
	case r.Confidence >= 80:
		return highColor
	case r.Confidence >= 60:
		return mediumColor
	default:
		return lowColor
	}
}

// pad fills s with spaces to width display columns. Cyrillic and CJK app
// names have display widths that differ from their byte and rune counts.
func pad(s string, width int) string {
	return runewidth.FillRight(s, width)
}

func truncate(s string, width int) string {
	if runewidth.StringWidth(s) <= width {
		return s
	}
	return runewidth.Truncate(s, width, "...")
}

// columnWidth is the widest display width of the values, at least floor.
func columnWidth(floor int, values ...string) int {
	w := floor
	for _, v := range values {
		w = max(w, runewidth.StringWidth(v))
	}
	return w
}

func writeReport(w io.Writer, rep engine.Report, warnings []string) error {
	if outputFormat == "json" {
		return writeJSON(w, struct {
			engine.Report
			Warnings []string `json:"warnings,omitempty"`
		}{rep, warnings})
	}

	for _, warn := range warnings {
		warnColor.Fprintf(w, "warning: %s\n", warn)
	}
	if rep.Fallback {
		fallbackColor.Fprintf(w, "No confident match (%s); showing popular apps.\n", rep.FallbackReason)
	}

	names := make([]string, len(rep.Results))
	for i, r := range rep.Results {
		names[i] = r.CanonicalName
	}
	nameW := columnWidth(len("APP"), names...)
	methodW := columnWidth(len("METHOD"), "full-text", "fallback")

	headerColor.Fprintf(w, "%-3s %s %5s  %s  %s\n", "#", pad("APP", nameW), "CONF", pad("METHOD", methodW), "EVIDENCE")
	for i, r := range rep.Results {
		conf := confidenceColor(r).Sprintf("%5s", strconv.Itoa(r.Confidence))
		fmt.Fprintf(w, "%-3d %s %s  %s  %s\n",
			i+1,
			pad(r.CanonicalName, nameW),
			conf,
			pad(r.DetectionMethod, methodW),
			truncate(r.EvidenceDescription, maxEvidenceWidth))
	}
	fmt.Fprintf(w, "request %s, evidence %s\n", rep.RequestID, rep.EvidenceKind)
	return nil
}

func writeEvidence(w io.Writer, ev scan.Evidence) {
	headerColor.Fprintf(w, "Image %dx%d %s", ev.Image.Width, ev.Image.Height, ev.Image.Format)
	if ev.Region != "" {
		headerColor.Fprintf(w, " region %s", ev.Region)
	}
	fmt.Fprintln(w)

	if ev.Text != nil {
		lines := strings.Split(ev.Text.Text, "\n")
		fmt.Fprintf(w, "OCR (%s, %.0f%%): %s\n", ev.Text.Method, ev.Text.OCRConfidence,
			truncate(strings.Join(lines, " | "), maxEvidenceWidth))
	}
	if ev.OCRError != "" {
		warnColor.Fprintf(w, "OCR failed: %s\n", ev.OCRError)
	}
	if len(ev.Palette) > 0 {
		parts := make([]string, len(ev.Palette))
		for i, c := range ev.Palette {
			parts[i] = fmt.Sprintf("%s %.0f%%", c.Hex, c.Percentage)
		}
		fmt.Fprintf(w, "Palette: %s\n", strings.Join(parts, ", "))
	}
	fmt.Fprintln(w)
}

func writeCatalog(w io.Writer, apps []catalog.Summary) {
	names := make([]string, len(apps))
	pkgs := make([]string, len(apps))
	for i, a := range apps {
		names[i] = a.Name
		pkgs[i] = a.PackageID
	}
	nameW := columnWidth(len("APP"), names...)
	pkgW := columnWidth(len("PACKAGE"), pkgs...)

	headerColor.Fprintf(w, "%s  %s  %4s  %s\n", pad("APP", nameW), pad("PACKAGE", pkgW), "POP", "ALIASES")
	for _, a := range apps {
		pop := "-"
		if a.Popularity > 0 {
			pop = strconv.Itoa(a.Popularity)
		}
		fmt.Fprintf(w, "%s  %s  %4s  %s\n",
			pad(a.Name, nameW),
			pad(a.PackageID, pkgW),
			pop,
			truncate(strings.Join(a.Aliases, ", "), maxEvidenceWidth))
	}
	fmt.Fprintf(w, "%d apps\n", len(apps))
}
