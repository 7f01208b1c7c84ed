package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/socially/socially/pkg/apperr"
)

// respondError maps an action error kind to an HTTP status with a uniform
// error body. Internal errors surface a generic message only.
func respondError(c *gin.Context, err error) {
	kind := apperr.KindOf(err)

	status := http.StatusInternalServerError
	switch kind {
	case apperr.KindUnauthenticated:
		status = http.StatusUnauthorized
	case apperr.KindNotFound:
		status = http.StatusNotFound
	case apperr.KindForbidden:
		status = http.StatusForbidden
	case apperr.KindInvalid, apperr.KindSelfReference:
		status = http.StatusBadRequest
	case apperr.KindConflict:
		status = http.StatusConflict
	}

	c.JSON(status, gin.H{"error": apperr.Message(err)})
}
