package rest

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/shopkeeper/internal/common"
	"github.com/dmitrijs2005/shopkeeper/internal/logging"
	"github.com/dmitrijs2005/shopkeeper/internal/server/auth"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	requestIDHeader = "X-Request-ID"

	userIDKey    = "userID"
	requestIDKey = "requestID"
)

// RequestLogger tags every request with an id (taken from X-Request-ID or
// generated) and logs one line per request once it completes.
func RequestLogger(logger logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(requestIDHeader, id)

		c.Next()

		logger.Info(c.Request.Context(), "request",
			"request_id", id,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency", time.Since(start),
		)
	}
}

// BearerAuth rejects requests without a valid access token and stores the
// token's user id under userIDKey.
func BearerAuth(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.GetHeader(common.AuthorizationHeaderName)
		if !strings.HasPrefix(h, common.BearerPrefix) {
			abort(c, http.StatusUnauthorized, "Missing bearer token")
			return
		}

		userID, err := auth.GetUserIDFromToken(strings.TrimPrefix(h, common.BearerPrefix), secret)
		if err != nil {
			if errors.Is(err, common.ErrTokenExpired) {
				abort(c, http.StatusUnauthorized, "Token has expired")
				return
			}
			abort(c, http.StatusUnauthorized, "Invalid token")
			return
		}

		c.Set(userIDKey, userID)
		c.Next()
	}
}
