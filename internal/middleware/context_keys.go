package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

// actorIDKey is the key used to store the acting user's ID in the context.
const actorIDKey = contextKey("actorID")

// ActorHeader names the request header carrying the acting user's ID. The
// upstream gateway authenticates the caller and forwards the identity here.
const ActorHeader = "X-Actor-ID"

// ActorIDMiddleware requires the actor header on every request and stores its
// value in the request context for audit trails.
func ActorIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		actorID := c.GetHeader(ActorHeader)
		if actorID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing " + ActorHeader + " header"})
			return
		}
		ctx := context.WithValue(c.Request.Context(), actorIDKey, actorID)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// GetActorIDFromContext retrieves the acting user ID from the Gin context.
// It returns the ID and a boolean indicating if it was found.
func GetActorIDFromContext(c *gin.Context) (string, bool) {
	actorID, ok := c.Request.Context().Value(actorIDKey).(string)
	if !ok || actorID == "" {
		return "", false
	}
	return actorID, true
}
