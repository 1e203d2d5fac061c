package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"zenitsuos/backend/internal/models"
	"zenitsuos/backend/internal/session"
	"zenitsuos/backend/internal/view"
)

type locationInput struct {
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
	Address string  `json:"address"`
}

// CreateComplaint files a complaint for the current member. Submission is
// gated on community membership; the image and location payloads are
// opaque outputs of the browser's capture collaborators.
func (h *Handler) CreateComplaint(c *gin.Context) {
	var input struct {
		Title       string         `json:"title" binding:"required,max=200"`
		Description string         `json:"description" binding:"required,max=1000"`
		Image       string         `json:"image"`
		Location    *locationInput `json:"location"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var location *models.Location
	if input.Location != nil {
		location = &models.Location{
			Lat:     input.Location.Lat,
			Lng:     input.Location.Lng,
			Address: input.Location.Address,
		}
		location.Address = location.DisplayAddress()
	}

	complaint, err := h.Session.SubmitComplaint(input.Title, input.Description, input.Image, location)
	switch {
	case errors.Is(err, session.ErrNoUser):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "no active session"})
		return
	case errors.Is(err, session.ErrNoCommunity):
		c.JSON(http.StatusForbidden, gin.H{"error": "You must be part of a community to raise complaints"})
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create complaint"})
		return
	}

	c.JSON(http.StatusCreated, complaint)
}

// ListComplaints returns the role-scoped complaint list, newest first.
func (h *Handler) ListComplaints(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "no active session"})
		return
	}

	v := view.Resolve(&user)
	c.JSON(http.StatusOK, gin.H{"complaints": view.Scoped(v, h.Session.Complaints())})
}

// UpdateComplaintStatus moves a complaint to the requested status. Admin
// only, and only within the admin's own community. An unknown complaint id
// is a silent no-op, not an error.
func (h *Handler) UpdateComplaintStatus(c *gin.Context) {
	var input struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	status := models.ComplaintStatus(input.Status)
	if !status.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
		return
	}

	user, ok := h.currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "no active session"})
		return
	}
	if user.Role != models.RoleAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "only admins can triage complaints"})
		return
	}

	id := c.Param("id")
	if complaint, found := h.Session.ComplaintByID(id); found && complaint.CommunityID != user.CommunityID {
		c.JSON(http.StatusForbidden, gin.H{"error": "complaint belongs to another community"})
		return
	}

	h.Session.UpdateComplaintStatus(id, status)
	c.JSON(http.StatusOK, gin.H{"id": id, "status": status})
}
