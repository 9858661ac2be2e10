package handlers

import (
	"net/http"
	"time"

	"mentorline/models"
	"mentorline/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// ListMentorProfiles returns the conversation-facing view of active mentors:
// names and specialties only, never internal IDs or contact details.
func (h *HandlerBundle) ListMentorProfiles(c *gin.Context) {
	mentors, err := h.Mentors.List(true)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Failed to list mentors", err.Error())
		return
	}
	profiles := make([]models.MentorProfile, 0, len(mentors))
	for _, m := range mentors {
		profiles = append(profiles, m.Profile())
	}
	c.JSON(http.StatusOK, gin.H{"mentors": profiles})
}

// ListMentors returns full mentor records for the admin surface.
func (h *HandlerBundle) ListMentors(c *gin.Context) {
	mentors, err := h.Mentors.List(c.Query("active") == "true")
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Failed to list mentors", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"mentors": mentors})
}

type createMentorRequest struct {
	Name      string `json:"name" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
	Specialty string `json:"specialty"`
	Bio       string `json:"bio"`
	Phone     string `json:"phone"`
}

// CreateMentor registers a new mentor account.
func (h *HandlerBundle) CreateMentor(c *gin.Context) {
	var req createMentorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request", err.Error())
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Failed to create mentor", "Could not hash password")
		return
	}

	now := time.Now()
	mentor := &models.Mentor{
		ID:           uuid.New().String(),
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(hash),
		Specialty:    req.Specialty,
		Bio:          req.Bio,
		Phone:        req.Phone,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := h.Mentors.Create(mentor); err != nil {
		utils.JSONError(c, http.StatusConflict, "Failed to create mentor", err.Error())
		return
	}
	c.JSON(http.StatusCreated, gin.H{"mentor": mentor})
}

type updateMentorRequest struct {
	Name      *string `json:"name"`
	Specialty *string `json:"specialty"`
	Bio       *string `json:"bio"`
	Phone     *string `json:"phone"`
	Active    *bool   `json:"active"`
}

// UpdateMentor applies a partial update to a mentor record.
func (h *HandlerBundle) UpdateMentor(c *gin.Context) {
	mentor, err := h.Mentors.GetByID(c.Param("id"))
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Failed to fetch mentor", err.Error())
		return
	}
	if mentor == nil {
		utils.JSONError(c, http.StatusNotFound, "Mentor not found", "")
		return
	}

	var req updateMentorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request", err.Error())
		return
	}
	if req.Name != nil {
		mentor.Name = *req.Name
	}
	if req.Specialty != nil {
		mentor.Specialty = *req.Specialty
	}
	if req.Bio != nil {
		mentor.Bio = *req.Bio
	}
	if req.Phone != nil {
		mentor.Phone = *req.Phone
	}
	if req.Active != nil {
		mentor.Active = *req.Active
	}
	mentor.UpdatedAt = time.Now()

	if err := h.Mentors.Update(mentor); err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Failed to update mentor", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"mentor": mentor})
}

// DeleteMentor removes a mentor record.
func (h *HandlerBundle) DeleteMentor(c *gin.Context) {
	removed, err := h.Mentors.Delete(c.Param("id"))
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Failed to delete mentor", err.Error())
		return
	}
	if !removed {
		utils.JSONError(c, http.StatusNotFound, "Mentor not found", "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}
