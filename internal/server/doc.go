// Package server implements the MCP (Model Context Protocol) server for app
// recognition.
//
// This package provides a JSON-RPC 2.0 server that exposes the recognition
// engine through the MCP protocol. An MCP client hands it OCR text, sampled
// colors or a screenshot path and gets back the apps visible on a phone home
// screen, each with a confidence score and a human-readable evidence line.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
// Recognition:
//   - apps_match_text: Match OCR text against the catalog
//   - apps_match_colors: Match sampled colors against brand colors
//   - apps_scan_image: OCR plus palette extraction on a screenshot, then match
//
// Catalog:
//   - apps_lookup: Find one app by name or alias
//   - apps_catalog: List every known app
//
// Image helpers:
//   - image_palette: Dominant colors of an image or named region
//
// The recognition tools never return an empty result list. When the evidence
// is missing or weak they return popular apps, marked with detection method
// "fallback" and a reason.
//
// # Image Caching
//
// Screenshots are decoded once and cached by absolute path for the lifetime
// of the server process, shared between apps_scan_image and image_palette.
//
// # Error Handling
//
// Errors are returned as JSON-RPC error responses with:
//   - code: -32602 for malformed or missing arguments, -32000 for tool
//     execution failure, -32601 for unknown methods
//   - message: Human-readable error description
//   - data: Additional error details (typically the Go error string)
//
// Invalid color samples are not errors; they are skipped and listed under
// "warnings" in the result.
//
// # Usage
//
// The server is typically started by an MCP client through the app-finder
// binary:
//
//	eng, _ := engine.Load(cfg)
//	srv := server.New(eng, scanner)
//	if err := srv.Run(ctx); err != nil {
//	    logger.Fatal().Err(err).Msg("server stopped")
//	}
package server
