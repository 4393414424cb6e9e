package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mkraev/filmoteka/pkg/errors"
	"github.com/mkraev/filmoteka/pkg/logger"
)

// abortWithError maps the domain error taxonomy to HTTP status classes:
// validation -> 400, not found -> 404, everything else -> 500.
func abortWithError(c *gin.Context, err error) {
	var status int
	switch {
	case errors.IsValidation(err):
		status = http.StatusBadRequest
	case errors.IsNotFound(err):
		status = http.StatusNotFound
	default:
		status = http.StatusInternalServerError
		logger.Error("Request failed", "path", c.FullPath(), "error", err)
	}

	var message string
	if appErr, ok := err.(*errors.AppError); ok {
		message = appErr.Message
	} else {
		message = "internal server error"
	}

	c.AbortWithStatusJSON(status, gin.H{
		"error":   errors.CodeOf(err),
		"message": message,
	})
}

func badRequest(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
		"error":   errors.ErrCodeValidation,
		"message": message,
	})
}

// pathID parses a numeric path parameter, rejecting garbage with 400.
func pathID(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		badRequest(c, "invalid "+name+": "+raw)
		return 0, false
	}
	return uint(id), true
}
