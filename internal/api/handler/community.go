package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"zenitsuos/backend/internal/models"
	"zenitsuos/backend/internal/session"
)

// CreateCommunity forms a community owned by the current admin and assigns
// the admin to it in the same state transition.
func (h *Handler) CreateCommunity(c *gin.Context) {
	var input struct {
		Name string `json:"name" binding:"required,max=64"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, ok := h.currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "no active session"})
		return
	}
	if user.Role != models.RoleAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "only admins can form communities"})
		return
	}

	community, err := h.Session.CreateCommunity(input.Name)
	if err != nil {
		if errors.Is(err, session.ErrNoUser) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "no active session"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, community)
}

// AddMember invites an email into the community. The member id recorded is
// synthetic: no User record is created or looked up, the invite keeps the
// email addressable for the admin view.
func (h *Handler) AddMember(c *gin.Context) {
	var input struct {
		Email string `json:"email" binding:"required,email"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, ok := h.currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "no active session"})
		return
	}

	communityID := c.Param("id")
	community, found := h.Session.CommunityByID(communityID)
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "community not found"})
		return
	}
	if community.AdminID != user.ID {
		c.JSON(http.StatusForbidden, gin.H{"error": "only the community admin can add members"})
		return
	}

	invite, ok := h.Session.AddMember(communityID, input.Email)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "community not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"invite": invite})
}

// CurrentCommunity returns the current user's community, or null when the
// user has none yet.
func (h *Handler) CurrentCommunity(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "no active session"})
		return
	}

	if user.CommunityID == "" {
		c.JSON(http.StatusOK, gin.H{"community": nil})
		return
	}

	community, found := h.Session.CommunityByID(user.CommunityID)
	if !found {
		c.JSON(http.StatusOK, gin.H{"community": nil})
		return
	}
	c.JSON(http.StatusOK, gin.H{"community": community})
}
