package handlers

import (
	"net/http"

	"mentorline/middleware"
	"mentorline/utils"

	"github.com/gin-gonic/gin"
)

type addWindowRequest struct {
	MentorID            string `json:"mentorId"`
	Date                string `json:"date" binding:"required"`
	StartTime           string `json:"startTime" binding:"required"`
	EndTime             string `json:"endTime" binding:"required"`
	SlotDurationMinutes int    `json:"slotDurationMinutes" binding:"required"`
}

// AddWindow opens a new availability window. Mentors may only open windows
// on their own calendar; admins may name any mentor.
func (h *HandlerBundle) AddWindow(c *gin.Context) {
	var req addWindowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request", err.Error())
		return
	}

	mentorID := req.MentorID
	if middleware.Role(c) == "mentor" {
		mentorID = middleware.Subject(c)
	}
	if mentorID == "" {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request", "mentorId is required")
		return
	}

	window, err := h.Availability.AddWindow(mentorID, req.Date, req.StartTime, req.EndTime, req.SlotDurationMinutes)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Failed to add window", err.Error())
		return
	}
	c.JSON(http.StatusCreated, gin.H{"window": window})
}

// RemoveWindow deletes an availability window by ID.
func (h *HandlerBundle) RemoveWindow(c *gin.Context) {
	removed, err := h.Availability.RemoveWindow(c.Param("id"))
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Failed to remove window", err.Error())
		return
	}
	if !removed {
		utils.JSONError(c, http.StatusNotFound, "Window not found", "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

// ListWindows returns a mentor's windows in an optional date range.
func (h *HandlerBundle) ListWindows(c *gin.Context) {
	mentorID := c.Param("id")
	if middleware.Role(c) == "mentor" {
		mentorID = middleware.Subject(c)
	}
	windows, err := h.Availability.WindowsFor(mentorID, c.Query("from"), c.Query("to"))
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Failed to list windows", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"windows": windows})
}

// GetSlots returns a mentor's slot candidates for one date.
func (h *HandlerBundle) GetSlots(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request", "date query parameter is required")
		return
	}
	slots, err := h.Slots.AvailableSlots(c.Param("id"), date)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Failed to resolve slots", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"date": date, "slots": slots})
}
