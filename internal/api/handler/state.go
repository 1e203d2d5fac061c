package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"zenitsuos/backend/internal/view"
)

// GetState returns the full render model for the declared identity: the
// resolved view variant, the role-scoped complaint list, the status counts
// and, for admins, their community with its members and pending invites.
func (h *Handler) GetState(c *gin.Context) {
	user, ok := h.currentUser(c)

	v := view.View{Kind: view.KindLogin}
	if ok {
		v = view.Resolve(&user)
	}

	scoped := view.Scoped(v, h.Session.Complaints())

	resp := gin.H{
		"view":       v.Kind,
		"complaints": scoped,
		"counts":     view.StatusCounts(scoped),
	}
	if ok {
		resp["user"] = user
	}
	if v.Kind == view.KindAdmin && user.CommunityID != "" {
		if community, found := h.Session.CommunityByID(user.CommunityID); found {
			resp["community"] = community
		}
	}

	c.JSON(http.StatusOK, resp)
}
