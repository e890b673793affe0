package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/ironsheep/app-finder-mcp/internal/catalog"
	"github.com/ironsheep/app-finder-mcp/internal/engine"
	"github.com/ironsheep/app-finder-mcp/internal/imaging"
	"github.com/ironsheep/app-finder-mcp/internal/scan"
)

// errInvalidArgs marks argument errors, reported as -32602 rather than as a
// tool failure.
var errInvalidArgs = errors.New("invalid arguments")

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "apps_match_text", "apps_scan_image").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Argument errors return code -32602; tool execution errors return -32000.
func (s *Server) handleToolsCall(ctx context.Context, req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(ctx, params.Name, params.Arguments)
	if errors.Is(err, errInvalidArgs) {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}
	if err != nil {
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
//
// Each tool handler:
//  1. Unmarshals arguments from JSON
//  2. Applies default values for optional parameters
//  3. Calls the engine, the scanner or the image helpers
//  4. Returns the result or error
func (s *Server) executeTool(ctx context.Context, name string, args json.RawMessage) (interface{}, error) {
	switch name {
	// Recognition
	case "apps_match_text":
		return s.handleMatchText(args)
	case "apps_match_colors":
		return s.handleMatchColors(args)
	case "apps_scan_image":
		return s.handleScanImage(ctx, args)

	// Catalog
	case "apps_lookup":
		return s.handleLookup(args)
	case "apps_catalog":
		return s.handleCatalog()

	// Image helpers
	case "image_palette":
		return s.handleImagePalette(args)

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// Panics are suppressed; on marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// decodeArgs unmarshals tool arguments, treating absent arguments as an
// empty object.
func decodeArgs(args json.RawMessage, v interface{}) error {
	if len(args) == 0 || string(args) == "null" {
		return nil
	}
	if err := json.Unmarshal(args, v); err != nil {
		return fmt.Errorf("%w: %v", errInvalidArgs, err)
	}
	return nil
}

// === Recognition Handlers ===

type matchingArgs struct {
	Cap           int  `json:"cap"`
	MinConfidence int  `json:"min_confidence"`
	Fuzzy         bool `json:"fuzzy"`
	Calibrate     bool `json:"calibrate"`
}

func (a matchingArgs) options() engine.Options {
	return engine.Options{
		Cap:           a.Cap,
		MinConfidence: a.MinConfidence,
		Fuzzy:         a.Fuzzy,
		Calibrate:     a.Calibrate,
	}
}

type matchTextArgs struct {
	matchingArgs
	Text          *string `json:"text"`
	OCRConfidence float64 `json:"ocr_confidence"`
	Method        string  `json:"method"`
}

func (s *Server) handleMatchText(args json.RawMessage) (interface{}, error) {
	var a matchTextArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Text == nil {
		return nil, fmt.Errorf("%w: text is required", errInvalidArgs)
	}
	return s.eng.RecognizeText(engine.TextEvidence{
		Text:          *a.Text,
		OCRConfidence: a.OCRConfidence,
		Method:        a.Method,
	}, a.options()), nil
}

type matchColorsArgs struct {
	matchingArgs
	Colors []engine.ColorSample `json:"colors"`
}

// colorReport carries the skipped-sample warnings alongside the report.
type colorReport struct {
	engine.Report
	Warnings []string `json:"warnings,omitempty"`
}

func (s *Server) handleMatchColors(args json.RawMessage) (interface{}, error) {
	var a matchColorsArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	colors, warnings := engine.ParseSamples(a.Colors)
	return colorReport{
		Report:   s.eng.RecognizeColors(colors, a.options()),
		Warnings: warnings,
	}, nil
}

type scanImageArgs struct {
	matchingArgs
	Path        string `json:"path"`
	Region      string `json:"region"`
	PaletteSize int    `json:"palette_size"`
	SkipOCR     bool   `json:"skip_ocr"`
}

func (s *Server) handleScanImage(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a scanImageArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Path == "" {
		return nil, fmt.Errorf("%w: path is required", errInvalidArgs)
	}
	return s.scanner.Scan(ctx, a.Path, scan.Options{
		Region:      a.Region,
		PaletteSize: a.PaletteSize,
		SkipOCR:     a.SkipOCR,
	}, a.options())
}

// === Catalog Handlers ===

type lookupArgs struct {
	Name string `json:"name"`
}

func (s *Server) handleLookup(args json.RawMessage) (interface{}, error) {
	var a lookupArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if strings.TrimSpace(a.Name) == "" {
		return nil, fmt.Errorf("%w: name is required", errInvalidArgs)
	}
	e, ok := s.eng.Lookup(a.Name)
	if !ok {
		return nil, fmt.Errorf("unknown app: %s", a.Name)
	}
	return e.Summary(), nil
}

type catalogResult struct {
	Count int               `json:"count"`
	Apps  []catalog.Summary `json:"apps"`
}

func (s *Server) handleCatalog() (interface{}, error) {
	cat := s.eng.Catalog()
	return catalogResult{Count: cat.Len(), Apps: cat.Summaries()}, nil
}

// === Image Helper Handlers ===

type imagePaletteArgs struct {
	Path        string `json:"path"`
	Region      string `json:"region"`
	Count       int    `json:"count"`
	KeepNeutral bool   `json:"keep_neutral"`
}

type paletteResult struct {
	Image   imaging.Info           `json:"image"`
	Region  string                 `json:"region,omitempty"`
	Palette []imaging.PaletteColor `json:"palette"`
}

func (s *Server) handleImagePalette(args json.RawMessage) (interface{}, error) {
	var a imagePaletteArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Path == "" {
		return nil, fmt.Errorf("%w: path is required", errInvalidArgs)
	}
	if a.Count == 0 {
		a.Count = 8
	}

	img, info, err := s.scanner.Cache().Load(a.Path)
	if err != nil {
		return nil, err
	}
	region, err := imaging.CropRegion(img, a.Region)
	if err != nil {
		return nil, err
	}
	palette := imaging.Palette(region, imaging.PaletteOptions{
		Size:           a.Count,
		ThumbnailWidth: s.scanner.ThumbnailWidth(),
		KeepNeutral:    a.KeepNeutral,
	})
	if palette == nil {
		palette = []imaging.PaletteColor{}
	}
	return paletteResult{Image: info, Region: a.Region, Palette: palette}, nil
}
