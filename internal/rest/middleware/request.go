package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/talentflow/talentflow/internal/types"
)

// RequestIDMiddleware propagates X-Request-ID, generating one when absent
func RequestIDMiddleware(c *gin.Context) {
	requestID := strings.TrimSpace(c.GetHeader(types.HeaderRequestID))
	if requestID == "" {
		requestID = uuid.New().String()
	}

	ctx := types.SetRequestID(c.Request.Context(), requestID)
	c.Request = c.Request.WithContext(ctx)

	c.Header(types.HeaderRequestID, requestID)

	c.Next()
}

// UserMiddleware attributes the request to the caller named in X-User-ID.
// Requests without the header are attributed to the system user.
func UserMiddleware(c *gin.Context) {
	userID := strings.TrimSpace(c.GetHeader(types.HeaderUserID))
	if userID == "" {
		userID = types.DefaultUserID
	}

	ctx := types.SetUserID(c.Request.Context(), userID)
	c.Request = c.Request.WithContext(ctx)

	c.Next()
}
