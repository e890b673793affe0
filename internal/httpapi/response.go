package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Response is the envelope of every API reply.
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *Error      `json:"error,omitempty"`
	Meta    *Meta       `json:"meta,omitempty"`
}

// Error describes a failed request.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// Meta carries request metadata.
type Meta struct {
	RequestID string   `json:"request_id,omitempty"`
	Count     int      `json:"count,omitempty"`
	Warnings  []string `json:"warnings,omitempty"`
}

// Error codes
const (
	ErrCodeValidation = "VALIDATION_ERROR"
	ErrCodeNoEvidence = "NO_EVIDENCE"
	ErrCodeNotFound   = "NOT_FOUND"
	ErrCodeInternal   = "INTERNAL_ERROR"
)

func sendSuccess(c *gin.Context, status int, data interface{}, meta *Meta) {
	c.JSON(status, Response{Success: true, Data: data, Meta: meta})
}

func sendError(c *gin.Context, status int, code, message, details string) {
	c.JSON(status, Response{
		Success: false,
		Error: &Error{
			Code:    code,
			Message: message,
			Details: details,
		},
	})
}

func sendValidationError(c *gin.Context, message, details string) {
	sendError(c, http.StatusBadRequest, ErrCodeValidation, message, details)
}

func sendNotFound(c *gin.Context, resource string) {
	sendError(c, http.StatusNotFound, ErrCodeNotFound, resource+" not found", "")
}
