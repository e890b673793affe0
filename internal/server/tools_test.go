package server

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironsheep/app-finder-mcp/internal/imaging"
)

func toolMap() map[string]Tool {
	m := make(map[string]Tool)
	for _, tool := range GetToolDefinitions() {
		m[tool.Name] = tool
	}
	return m
}

func TestGetToolDefinitions(t *testing.T) {
	tools := toolMap()

	expected := []string{
		"apps_match_text",
		"apps_match_colors",
		"apps_scan_image",
		"apps_lookup",
		"apps_catalog",
		"image_palette",
	}
	assert.Len(t, tools, len(expected))
	for _, name := range expected {
		assert.Contains(t, tools, name)
	}
}

func TestToolDefinitions_Structure(t *testing.T) {
	for _, tool := range GetToolDefinitions() {
		t.Run(tool.Name, func(t *testing.T) {
			assert.NotEmpty(t, tool.Description)
			require.NotNil(t, tool.InputSchema)
			assert.Equal(t, "object", tool.InputSchema["type"])
			assert.NotNil(t, tool.InputSchema["properties"])

			// every schema must survive the wire
			_, err := json.Marshal(tool)
			assert.NoError(t, err)
		})
	}
}

func TestToolDefinitions_Required(t *testing.T) {
	tests := []struct {
		tool     string
		required []string
	}{
		{"apps_match_text", []string{"text"}},
		{"apps_match_colors", []string{"colors"}},
		{"apps_scan_image", []string{"path"}},
		{"apps_lookup", []string{"name"}},
		{"image_palette", []string{"path"}},
	}

	tools := toolMap()
	for _, tt := range tests {
		t.Run(tt.tool, func(t *testing.T) {
			assert.Equal(t, tt.required, tools[tt.tool].InputSchema["required"])
		})
	}
	assert.NotContains(t, tools["apps_catalog"].InputSchema, "required")
}

func TestToolDefinitions_MatchingKnobs(t *testing.T) {
	tools := toolMap()

	for _, name := range []string{"apps_match_text", "apps_match_colors", "apps_scan_image"} {
		props := tools[name].InputSchema["properties"].(map[string]interface{})
		assert.Contains(t, props, "cap", name)
		assert.Contains(t, props, "min_confidence", name)
	}
	for _, name := range []string{"apps_match_text", "apps_scan_image"} {
		props := tools[name].InputSchema["properties"].(map[string]interface{})
		assert.Contains(t, props, "fuzzy", name)
		assert.Contains(t, props, "calibrate", name)
	}
}

func TestToolDefinitions_RegionEnum(t *testing.T) {
	tools := toolMap()

	for _, name := range []string{"apps_scan_image", "image_palette"} {
		props := tools[name].InputSchema["properties"].(map[string]interface{})
		region := props["region"].(map[string]interface{})
		assert.Equal(t, imaging.RegionNames(), region["enum"], name)
	}
}

func TestHandleToolsList(t *testing.T) {
	s := newTestServer(t)

	resp := s.handleRequest(context.Background(), &MCPRequest{JSONRPC: "2.0", ID: 1, Method: "tools/list"})

	require.NotNil(t, resp)
	require.Nil(t, resp.Error)
	result := resp.Result.(map[string]interface{})
	assert.Len(t, result["tools"], len(GetToolDefinitions()))
}
