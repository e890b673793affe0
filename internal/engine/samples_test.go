package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ironsheep/app-finder-mcp/internal/catalog"
)

func TestParseSamples(t *testing.T) {
	tests := []struct {
		name         string
		in           []ColorSample
		want         []catalog.RGB
		wantWarnings int
	}{
		{"ints", []ColorSample{{R: 37, G: 211, B: 102}}, []catalog.RGB{{R: 37, G: 211, B: 102}}, 0},
		{"hex", []ColorSample{{Hex: "#FF0000"}}, []catalog.RGB{{R: 255}}, 0},
		{"hex wins over ints", []ColorSample{{Hex: "#000000", R: 9, G: 9, B: 9}}, []catalog.RGB{{}}, 0},
		{"out of range skipped", []ColorSample{{R: 256}, {R: 1, G: 2, B: 3}}, []catalog.RGB{{R: 1, G: 2, B: 3}}, 1},
		{"negative skipped", []ColorSample{{R: 0, G: -1, B: 0}}, nil, 1},
		{"bad hex skipped", []ColorSample{{Hex: "green"}}, nil, 1},
		{"empty", nil, nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, warnings := ParseSamples(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Len(t, warnings, tt.wantWarnings)
		})
	}
}
