package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"cvforge/internal/errcode"
)

// Error writes the {error, code} failure envelope.
func Error(c *gin.Context, status int, msg, code string) {
	c.JSON(status, gin.H{"error": msg, "code": code})
}

func BadRequest(c *gin.Context, msg string) {
	Error(c, http.StatusBadRequest, msg, errcode.ValidationError)
}

func NotFound(c *gin.Context, msg string) {
	Error(c, http.StatusNotFound, msg, errcode.NotFound)
}

func Conflict(c *gin.Context, msg string) {
	Error(c, http.StatusConflict, msg, errcode.Conflict)
}

// Internal surfaces the underlying store error message for diagnostics.
// This is deliberately unhardened; see the error handling notes in
// DESIGN.md.
func Internal(c *gin.Context, err error) {
	msg := "internal server error"
	if err != nil {
		msg += ": " + err.Error()
	}
	Error(c, http.StatusInternalServerError, msg, errcode.Internal)
}

func Upstream(c *gin.Context, msg string) {
	Error(c, http.StatusInternalServerError, msg, errcode.Upstream)
}
