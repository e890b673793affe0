package engine

import (
	"fmt"

	"github.com/ironsheep/app-finder-mcp/internal/catalog"
	"github.com/ironsheep/app-finder-mcp/internal/logger"
)

// ColorSample is a color as it arrives over the wire: either a hex string or
// integer channels. Hex wins when both are set.
type ColorSample struct {
	Hex string `json:"hex,omitempty"`
	R   int    `json:"r"`
	G   int    `json:"g"`
	B   int    `json:"b"`
}

// ParseSamples converts wire samples to colors. Invalid samples are skipped
// and described in the returned warnings; they never fail the request.
func ParseSamples(samples []ColorSample) ([]catalog.RGB, []string) {
	var (
		out      []catalog.RGB
		warnings []string
	)
	for i, s := range samples {
		var (
			c   catalog.RGB
			err error
		)
		if s.Hex != "" {
			c, err = catalog.ParseHex(s.Hex)
		} else {
			c, err = catalog.FromInts(s.R, s.G, s.B)
		}
		if err != nil {
			w := fmt.Sprintf("color %d skipped: %v", i, err)
			logger.Warn().Int("sample", i).Err(err).Msg("skipping invalid color sample")
			warnings = append(warnings, w)
			continue
		}
		out = append(out, c)
	}
	return out, warnings
}
