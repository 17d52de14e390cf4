package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/gastoncarriquiry/menu-maker/errors"
)

// ErrorResponse is the stable error body shape: a single human-readable
// message. No codes, stack traces, or internal details cross the boundary.
type ErrorResponse struct {
	Error string `json:"error"`
}

// RespondWithError inspects err: if it is an *apperrors.AppError the status
// and message are derived from it; anything else becomes a generic 500.
func RespondWithError(c *gin.Context, err error) {
	if appErr, ok := apperrors.AsAppError(err); ok {
		c.JSON(appErr.HTTPStatus, ErrorResponse{Error: appErr.Message})
		return
	}
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: apperrors.Internal(err).Message})
}

// AbortWithError is RespondWithError for middleware: it also stops the
// handler chain.
func AbortWithError(c *gin.Context, err error) {
	if appErr, ok := apperrors.AsAppError(err); ok {
		c.AbortWithStatusJSON(appErr.HTTPStatus, ErrorResponse{Error: appErr.Message})
		return
	}
	c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{Error: apperrors.Internal(err).Message})
}
