package httpapi

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ironsheep/app-finder-mcp/internal/engine"
)

// Handler serves the recognition and catalog routes.
type Handler struct {
	eng *engine.Engine
}

// NewHandler creates a handler over eng.
func NewHandler(eng *engine.Engine) *Handler {
	return &Handler{eng: eng}
}

type matchingRequest struct {
	Cap           int  `json:"cap"`
	MinConfidence int  `json:"min_confidence"`
	Fuzzy         bool `json:"fuzzy"`
	Calibrate     bool `json:"calibrate"`
}

func (r matchingRequest) options(c *gin.Context) engine.Options {
	return engine.Options{
		Cap:           r.Cap,
		MinConfidence: r.MinConfidence,
		Fuzzy:         r.Fuzzy,
		Calibrate:     r.Calibrate,
		RequestID:     requestID(c),
	}
}

// TextRequest is the body of POST /api/v1/recognize/text.
type TextRequest struct {
	matchingRequest
	Text          *string `json:"text"`
	OCRConfidence float64 `json:"ocr_confidence"`
	Method        string  `json:"method"`
}

// ColorsRequest is the body of POST /api/v1/recognize/colors.
type ColorsRequest struct {
	matchingRequest
	Colors []engine.ColorSample `json:"colors"`
}

// bindJSON decodes the body. An empty body reports ErrNoEvidence so that
// both recognize routes answer it the same way.
func bindJSON(c *gin.Context, v interface{}) bool {
	err := c.ShouldBindJSON(v)
	if err == nil {
		return true
	}
	if errors.Is(err, io.EOF) {
		sendNoEvidence(c)
		return false
	}
	_ = c.Error(err)
	sendValidationError(c, "Invalid request body", err.Error())
	return false
}

func sendNoEvidence(c *gin.Context) {
	sendError(c, http.StatusBadRequest, ErrCodeNoEvidence, engine.ErrNoEvidence.Error(), "")
}

// RecognizeText matches OCR text.
func (h *Handler) RecognizeText(c *gin.Context) {
	var req TextRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.Text == nil {
		sendNoEvidence(c)
		return
	}

	rep := h.eng.RecognizeText(engine.TextEvidence{
		Text:          *req.Text,
		OCRConfidence: req.OCRConfidence,
		Method:        req.Method,
	}, req.options(c))
	sendSuccess(c, http.StatusOK, rep, &Meta{RequestID: rep.RequestID, Count: len(rep.Results)})
}

// RecognizeColors matches sampled colors. Invalid samples are skipped and
// reported in meta.warnings.
func (h *Handler) RecognizeColors(c *gin.Context) {
	var req ColorsRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.Colors == nil {
		sendNoEvidence(c)
		return
	}

	colors, warnings := engine.ParseSamples(req.Colors)
	rep := h.eng.RecognizeColors(colors, req.options(c))
	sendSuccess(c, http.StatusOK, rep, &Meta{
		RequestID: rep.RequestID,
		Count:     len(rep.Results),
		Warnings:  warnings,
	})
}

// ListApps returns the catalog in order.
func (h *Handler) ListApps(c *gin.Context) {
	cat := h.eng.Catalog()
	sendSuccess(c, http.StatusOK, cat.Summaries(), &Meta{RequestID: requestID(c), Count: cat.Len()})
}

// GetApp looks one app up by canonical name or alias.
func (h *Handler) GetApp(c *gin.Context) {
	e, ok := h.eng.Lookup(c.Param("name"))
	if !ok {
		sendNotFound(c, "app "+c.Param("name"))
		return
	}
	sendSuccess(c, http.StatusOK, e.Summary(), &Meta{RequestID: requestID(c)})
}

// Health reports liveness and the catalog size.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"apps":   h.eng.Catalog().Len(),
	})
}
