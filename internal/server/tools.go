package server

import (
	"github.com/ironsheep/app-finder-mcp/internal/imaging"
)

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// matchingProperties are the per-request knobs shared by the recognition
// tools.
func matchingProperties(props map[string]interface{}) map[string]interface{} {
	props["cap"] = map[string]interface{}{
		"type":        "integer",
		"description": "Maximum number of results (1-12). Default 6",
		"default":     6,
	}
	props["min_confidence"] = map[string]interface{}{
		"type":        "integer",
		"description": "Fallback triggers when no result reaches this confidence. Default 50",
		"default":     50,
	}
	return props
}

func textProperties(props map[string]interface{}) map[string]interface{} {
	props["fuzzy"] = map[string]interface{}{
		"type":        "boolean",
		"description": "Also match words within a small edit distance of an app name. Default false",
		"default":     false,
	}
	props["calibrate"] = map[string]interface{}{
		"type":        "boolean",
		"description": "Scale text confidence by OCR method and OCR confidence. Default false",
		"default":     false,
	}
	return props
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	colorItem := map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"hex": map[string]interface{}{"type": "string", "description": "#RRGGBB; takes precedence over r/g/b"},
			"r":   map[string]interface{}{"type": "integer", "minimum": 0, "maximum": 255},
			"g":   map[string]interface{}{"type": "integer", "minimum": 0, "maximum": 255},
			"b":   map[string]interface{}{"type": "integer", "minimum": 0, "maximum": 255},
		},
	}

	return []Tool{
		// Recognition
		{
			Name:        "apps_match_text",
			Description: "Identify apps from OCR text of a phone home screen. Returns ranked apps with confidence, detection method and evidence. Never returns an empty list: weak evidence yields popular apps marked as fallback.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": matchingProperties(textProperties(map[string]interface{}{
					"text": map[string]interface{}{
						"type":        "string",
						"description": "OCR text; keep line breaks between labels",
					},
					"ocr_confidence": map[string]interface{}{
						"type":        "number",
						"description": "Recognizer confidence 0-100, used by calibrate",
					},
					"method": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"ocr_space", "tesseract", "simulation"},
						"description": "OCR method that produced the text",
					},
				})),
				"required": []string{"text"},
			},
		},
		{
			Name:        "apps_match_colors",
			Description: "Identify apps from colors sampled off a home screen by comparing them with brand colors. Out-of-range samples are skipped with a warning.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": matchingProperties(map[string]interface{}{
					"colors": map[string]interface{}{
						"type":        "array",
						"items":       colorItem,
						"description": "Sampled colors",
					},
				}),
				"required": []string{"colors"},
			},
		},
		{
			Name:        "apps_scan_image",
			Description: "Run OCR and palette extraction on a screenshot and identify the apps on it. OCR failures degrade to color-only matching.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": matchingProperties(textProperties(map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file",
					},
					"region": map[string]interface{}{
						"type":        "string",
						"enum":        imaging.RegionNames(),
						"description": "Named region to scan. Default full",
					},
					"palette_size": map[string]interface{}{
						"type":        "integer",
						"description": "Number of palette colors to match. Default 8",
					},
					"skip_ocr": map[string]interface{}{
						"type":        "boolean",
						"description": "Match on colors only. Default false",
						"default":     false,
					},
				})),
				"required": []string{"path"},
			},
		},

		// Catalog
		{
			Name:        "apps_lookup",
			Description: "Look up one app by canonical name or alias.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"name": map[string]interface{}{
						"type":        "string",
						"description": "Canonical name or alias, case-insensitive",
					},
				},
				"required": []string{"name"},
			},
		},
		{
			Name:        "apps_catalog",
			Description: "List every app the recognizer knows, in catalog order.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{},
			},
		},

		// Image helpers
		{
			Name:        "image_palette",
			Description: "Extract the dominant non-neutral colors of an image or named region, as used for color matching.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file",
					},
					"region": map[string]interface{}{
						"type":        "string",
						"enum":        imaging.RegionNames(),
						"description": "Named region to sample. Default full",
					},
					"count": map[string]interface{}{
						"type":        "integer",
						"description": "Number of colors to return. Default 8",
						"default":     8,
					},
					"keep_neutral": map[string]interface{}{
						"type":        "boolean",
						"description": "Keep grays, near-black and near-white. Default false",
						"default":     false,
					},
				},
				"required": []string{"path"},
			},
		},
	}
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
