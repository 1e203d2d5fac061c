package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"zenitsuos/backend/internal/middleware"
	"zenitsuos/backend/internal/models"
)

// Login accepts the client-declared identity and makes it the current
// session. No credential is checked: role and identity are trusted
// verbatim, which is acceptable only because there is no real backend
// identity to protect.
func (h *Handler) Login(c *gin.Context) {
	var input struct {
		Name  string `json:"name" binding:"max=50"`
		Email string `json:"email" binding:"required,email"`
		Role  string `json:"role" binding:"required"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	role := models.Role(input.Role)
	if !role.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid role"})
		return
	}

	name := input.Name
	if name == "" {
		// Returning users log in with just an email; the display name
		// falls back to its local part.
		name = strings.SplitN(input.Email, "@", 2)[0]
	}

	user := models.User{
		ID:    models.NewUserID(),
		Name:  name,
		Email: input.Email,
		Role:  role,
	}
	h.Session.Login(user)

	token, err := middleware.GenerateToken(h.Secret, user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user, "token": token})
}

// Logout clears the current user. Complaints and communities survive for
// the next login.
func (h *Handler) Logout(c *gin.Context) {
	h.Session.Logout()
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

// Me returns the current user for the declared identity.
func (h *Handler) Me(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "no active session"})
		return
	}
	c.JSON(http.StatusOK, user)
}
