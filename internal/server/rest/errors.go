package rest

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/shopkeeper/internal/common"
	"github.com/gin-gonic/gin"
)

const msgInvalidBody = "Invalid request body"

func abort(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}

// statusFor maps an error kind to its HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, common.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, common.ErrUnauthorized),
		errors.Is(err, common.ErrInvalidToken),
		errors.Is(err, common.ErrTokenExpired):
		return http.StatusUnauthorized
	case errors.Is(err, common.ErrorNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// writeError renders err as {"error": msg}. Only *common.Error messages
// reach the client; anything else becomes a generic 500.
func writeError(c *gin.Context, err error) {
	var reason *common.Error
	if !errors.As(err, &reason) {
		reason = common.ErrServerFailure
	}
	abort(c, statusFor(reason), reason.Error())
}
