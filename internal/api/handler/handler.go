// Package handler is the view-collaborator boundary: gin handlers that
// consume the session container's operations and read model. Views hold no
// state of their own; everything they render comes from the container.
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"zenitsuos/backend/internal/middleware"
	"zenitsuos/backend/internal/models"
	"zenitsuos/backend/internal/realtime"
	"zenitsuos/backend/internal/session"
)

// Handler holds the container and its collaborators.
type Handler struct {
	Session *session.Container
	Hub     *realtime.Hub
	Secret  []byte
}

func NewHandler(container *session.Container, hub *realtime.Hub, secret []byte) *Handler {
	return &Handler{Session: container, Hub: hub, Secret: secret}
}

// RequireReady gates rendering until the session restore has completed, so
// no view ever observes a half-initialized state.
func (h *Handler) RequireReady() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !h.Session.Ready() {
			c.Header("Retry-After", "1")
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "session restoring"})
			return
		}
		c.Next()
	}
}

// currentUser returns the container's current user when it matches the
// identity the request declared. A token for a stale session renders as
// unauthenticated rather than leaking another user's state.
func (h *Handler) currentUser(c *gin.Context) (models.User, bool) {
	uidVal, _ := c.Get(middleware.ContextUserIDKey)
	uid, _ := uidVal.(string)
	user, ok := h.Session.CurrentUser()
	if !ok || uid == "" || user.ID != uid {
		return models.User{}, false
	}
	return user, true
}
