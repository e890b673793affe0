package server

import (
	"context"
	"encoding/json"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironsheep/app-finder-mcp/internal/catalog"
	"github.com/ironsheep/app-finder-mcp/internal/fallback"
	"github.com/ironsheep/app-finder-mcp/internal/rank"
)

// createTestImageFile creates a solid-color PNG and returns its path
func createTestImageFile(t *testing.T, width, height int, c color.Color) string {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)

	path := filepath.Join(t.TempDir(), "screen.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
	return path
}

// callTool sends a tools/call request through the full request router.
func callTool(t *testing.T, s *Server, name string, args interface{}) *MCPResponse {
	t.Helper()
	params, err := json.Marshal(map[string]interface{}{"name": name, "arguments": args})
	require.NoError(t, err)

	resp := s.handleRequest(context.Background(), &MCPRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "tools/call",
		Params:  params,
	})
	require.NotNil(t, resp)
	return resp
}

// decodeContent unmarshals the JSON text payload of a successful call.
func decodeContent(t *testing.T, resp *MCPResponse, v interface{}) {
	t.Helper()
	require.Nil(t, resp.Error, "unexpected error: %+v", resp.Error)
	result := resp.Result.(map[string]interface{})
	content := result["content"].([]map[string]interface{})
	require.Len(t, content, 1)
	assert.Equal(t, "text", content[0]["type"])
	require.NoError(t, json.Unmarshal([]byte(content[0]["text"].(string)), v))
}

type reportPayload struct {
	RequestID      string        `json:"request_id"`
	Results        []rank.Result `json:"results"`
	Fallback       bool          `json:"fallback"`
	FallbackReason string        `json:"fallback_reason"`
	EvidenceKind   string        `json:"evidence_kind"`
	Warnings       []string      `json:"warnings"`
}

func (p reportPayload) names() []string {
	var out []string
	for _, r := range p.Results {
		out = append(out, r.CanonicalName)
	}
	return out
}

var whatsappGreen = color.RGBA{0x25, 0xD3, 0x66, 0xFF}

func TestMatchText(t *testing.T) {
	s := newTestServer(t)

	var got reportPayload
	decodeContent(t, callTool(t, s, "apps_match_text", map[string]interface{}{
		"text":   "WhatsApp Telegram YouTube",
		"method": "tesseract",
	}), &got)

	assert.ElementsMatch(t, []string{"WhatsApp", "Telegram", "YouTube"}, got.names())
	assert.False(t, got.Fallback)
	assert.NotEmpty(t, got.RequestID)
	assert.Equal(t, "text", got.EvidenceKind)
	for _, r := range got.Results {
		assert.NotEmpty(t, r.EvidenceDescription)
		assert.NotEmpty(t, r.PackageID)
	}
}

func TestMatchText_EmptyTextFallsBack(t *testing.T) {
	s := newTestServer(t)

	var got reportPayload
	decodeContent(t, callTool(t, s, "apps_match_text", map[string]interface{}{"text": "", "cap": 3}), &got)

	assert.True(t, got.Fallback)
	assert.Equal(t, fallback.ReasonNoEvidence, got.FallbackReason)
	require.Len(t, got.Results, 3)
	for _, r := range got.Results {
		assert.Equal(t, rank.MethodFallback, r.DetectionMethod)
	}
}

func TestMatchText_MissingText(t *testing.T) {
	s := newTestServer(t)

	resp := callTool(t, s, "apps_match_text", map[string]interface{}{})

	require.NotNil(t, resp.Error)
	assert.Equal(t, -32602, resp.Error.Code)
}

func TestMatchText_WrongArgumentType(t *testing.T) {
	s := newTestServer(t)

	resp := callTool(t, s, "apps_match_text", map[string]interface{}{"text": 42})

	require.NotNil(t, resp.Error)
	assert.Equal(t, -32602, resp.Error.Code)
}

func TestMatchColors_SkipsOutOfRange(t *testing.T) {
	s := newTestServer(t)

	var got reportPayload
	decodeContent(t, callTool(t, s, "apps_match_colors", map[string]interface{}{
		"colors": []map[string]interface{}{
			{"r": 300, "g": 0, "b": 0},
			{"r": 37, "g": 211, "b": 102},
		},
	}), &got)

	require.NotEmpty(t, got.Results)
	assert.Equal(t, "WhatsApp", got.Results[0].CanonicalName)
	assert.Equal(t, 100, got.Results[0].Confidence)
	assert.Len(t, got.Warnings, 1)
	assert.Equal(t, "color", got.EvidenceKind)
}

func TestMatchColors_Hex(t *testing.T) {
	s := newTestServer(t)

	var got reportPayload
	decodeContent(t, callTool(t, s, "apps_match_colors", map[string]interface{}{
		"colors": []map[string]interface{}{{"hex": "#25D366"}},
	}), &got)

	require.NotEmpty(t, got.Results)
	assert.Equal(t, "WhatsApp", got.Results[0].CanonicalName)
}

func TestMatchColors_AllInvalidFallsBack(t *testing.T) {
	s := newTestServer(t)

	var got reportPayload
	decodeContent(t, callTool(t, s, "apps_match_colors", map[string]interface{}{
		"colors": []map[string]interface{}{{"r": -1, "g": 0, "b": 0}},
	}), &got)

	assert.True(t, got.Fallback)
	assert.NotEmpty(t, got.Results)
	assert.Len(t, got.Warnings, 1)
}

func TestScanImage_ColorOnly(t *testing.T) {
	s := newTestServer(t)
	path := createTestImageFile(t, 120, 240, whatsappGreen)

	var got struct {
		reportPayload
		Evidence struct {
			Image struct {
				Width  int    `json:"width"`
				Format string `json:"format"`
			} `json:"image"`
			Palette []struct {
				Hex string `json:"hex"`
			} `json:"palette"`
		} `json:"evidence"`
	}
	decodeContent(t, callTool(t, s, "apps_scan_image", map[string]interface{}{"path": path}), &got)

	require.NotEmpty(t, got.Results)
	assert.Equal(t, "WhatsApp", got.Results[0].CanonicalName)
	assert.Equal(t, 120, got.Evidence.Image.Width)
	assert.Equal(t, "png", got.Evidence.Image.Format)
	assert.NotEmpty(t, got.Evidence.Palette)
}

func TestScanImage_Errors(t *testing.T) {
	s := newTestServer(t)
	path := createTestImageFile(t, 40, 40, whatsappGreen)

	tests := []struct {
		name     string
		args     map[string]interface{}
		wantCode int
	}{
		{"missing path", map[string]interface{}{}, -32602},
		{"nonexistent file", map[string]interface{}{"path": "/nonexistent/image.png"}, -32000},
		{"unknown region", map[string]interface{}{"path": path, "region": "sidebar"}, -32000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := callTool(t, s, "apps_scan_image", tt.args)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.wantCode, resp.Error.Code)
		})
	}
}

func TestLookup(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		query string
		want  string
	}{
		{"WhatsApp", "WhatsApp"},
		{"telegram", "Telegram"},
		{"ватсап", "WhatsApp"},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			var got catalog.Summary
			decodeContent(t, callTool(t, s, "apps_lookup", map[string]interface{}{"name": tt.query}), &got)
			assert.Equal(t, tt.want, got.Name)
			assert.NotEmpty(t, got.PackageID)
		})
	}
}

func TestLookup_Errors(t *testing.T) {
	s := newTestServer(t)

	resp := callTool(t, s, "apps_lookup", map[string]interface{}{"name": "NoSuchApp"})
	require.NotNil(t, resp.Error)
	assert.Equal(t, -32000, resp.Error.Code)

	resp = callTool(t, s, "apps_lookup", map[string]interface{}{"name": "  "})
	require.NotNil(t, resp.Error)
	assert.Equal(t, -32602, resp.Error.Code)
}

func TestCatalog(t *testing.T) {
	s := newTestServer(t)

	var got catalogResult
	decodeContent(t, callTool(t, s, "apps_catalog", nil), &got)

	assert.Equal(t, s.eng.Catalog().Len(), got.Count)
	require.Len(t, got.Apps, got.Count)
	assert.Equal(t, s.eng.Catalog().At(0).Name, got.Apps[0].Name)
}

func TestImagePalette(t *testing.T) {
	s := newTestServer(t)
	green := createTestImageFile(t, 60, 60, whatsappGreen)
	white := createTestImageFile(t, 60, 60, color.White)

	var got paletteResult
	decodeContent(t, callTool(t, s, "image_palette", map[string]interface{}{"path": green}), &got)
	require.Len(t, got.Palette, 1)
	assert.InDelta(t, 100.0, got.Palette[0].Percentage, 0.001)
	assert.Less(t, got.Palette[0].RGB.Distance(catalog.RGB{R: 0x25, G: 0xD3, B: 0x66}), 10.0)
	assert.Equal(t, 60, got.Image.Width)

	got = paletteResult{}
	decodeContent(t, callTool(t, s, "image_palette", map[string]interface{}{"path": white}), &got)
	assert.Empty(t, got.Palette)

	got = paletteResult{}
	decodeContent(t, callTool(t, s, "image_palette", map[string]interface{}{"path": white, "keep_neutral": true}), &got)
	assert.Len(t, got.Palette, 1)
}

func TestImagePalette_Region(t *testing.T) {
	s := newTestServer(t)
	path := createTestImageFile(t, 100, 100, whatsappGreen)

	var got paletteResult
	decodeContent(t, callTool(t, s, "image_palette", map[string]interface{}{"path": path, "region": "dock", "count": 3}), &got)

	assert.Equal(t, "dock", got.Region)
	assert.Len(t, got.Palette, 1)
}

func TestToolsCall_UnknownTool(t *testing.T) {
	s := newTestServer(t)

	resp := callTool(t, s, "image_edge_detect", map[string]interface{}{})

	require.NotNil(t, resp.Error)
	assert.Equal(t, -32000, resp.Error.Code)
	assert.Contains(t, resp.Error.Data, "unknown tool")
}

func TestToolsCall_InvalidParams(t *testing.T) {
	s := newTestServer(t)

	resp := s.handleRequest(context.Background(), &MCPRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "tools/call",
		Params:  json.RawMessage(`"not an object"`),
	})

	require.NotNil(t, resp.Error)
	assert.Equal(t, -32602, resp.Error.Code)
}
