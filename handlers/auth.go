package handlers

import (
	"net/http"
	"time"

	"mentorline/middleware"
	"mentorline/services/agent"
	"mentorline/utils"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

const tokenLifetime = 24 * time.Hour

type callerLoginRequest struct {
	Phone string `json:"phone" binding:"required"`
	Name  string `json:"name"`
}

// CallerLogin identifies a caller by phone number and issues a caller token.
// Phone possession is the only credential, mirroring the voice channel.
func (h *HandlerBundle) CallerLogin(c *gin.Context) {
	var req callerLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request", err.Error())
		return
	}

	identity := agent.NormalizePhone(req.Phone, h.DefaultCountryCode)
	if identity == "" {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request", "Phone number contains no digits")
		return
	}

	caller, err := h.Callers.GetOrCreate(identity, req.Name)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Login failed", err.Error())
		return
	}
	if req.Name != "" && caller.Name != req.Name {
		caller.Name = req.Name
		if err := h.Callers.Update(caller); err != nil {
			utils.JSONError(c, http.StatusInternalServerError, "Login failed", err.Error())
			return
		}
	}

	token, err := utils.GenerateToken(identity, "caller", tokenLifetime)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Login failed", "Could not issue token")
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token, "caller": caller})
}

type passwordLoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// MentorLogin authenticates a mentor by email and password.
func (h *HandlerBundle) MentorLogin(c *gin.Context) {
	var req passwordLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request", err.Error())
		return
	}

	mentor, err := h.Mentors.GetByEmail(req.Email)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Login failed", err.Error())
		return
	}
	if mentor == nil || !mentor.Active ||
		bcrypt.CompareHashAndPassword([]byte(mentor.PasswordHash), []byte(req.Password)) != nil {
		utils.JSONError(c, http.StatusUnauthorized, "Unauthorized", "Invalid email or password")
		return
	}

	token, err := utils.GenerateToken(mentor.ID, "mentor", tokenLifetime)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Login failed", "Could not issue token")
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token, "mentor": mentor})
}

// AdminLogin authenticates an admin by email and password.
func (h *HandlerBundle) AdminLogin(c *gin.Context) {
	var req passwordLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request", err.Error())
		return
	}

	admin, err := h.Admins.GetByEmail(req.Email)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Login failed", err.Error())
		return
	}
	if admin == nil || !admin.Active ||
		bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(req.Password)) != nil {
		utils.JSONError(c, http.StatusUnauthorized, "Unauthorized", "Invalid email or password")
		return
	}

	if err := h.Admins.UpdateLastLogin(admin.ID); err != nil {
		utils.GetLogger().Warn("failed to stamp admin login")
	}
	token, err := utils.GenerateToken(admin.ID, "admin", tokenLifetime)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Login failed", "Could not issue token")
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token, "admin": admin})
}

// Me returns the authenticated principal's subject and role.
func (h *HandlerBundle) Me(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"subject": middleware.Subject(c),
		"role":    middleware.Role(c),
	})
}
