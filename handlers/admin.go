package handlers

import (
	"net/http"

	"mentorline/models"
	"mentorline/utils"

	"github.com/gin-gonic/gin"
)

// Stats assembles the admin dashboard aggregate.
func (h *HandlerBundle) Stats(c *gin.Context) {
	stats := models.AdminStats{}

	var err error
	if stats.TotalCallers, err = h.Callers.Count(); err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Failed to build stats", err.Error())
		return
	}
	if stats.TotalMentors, err = h.Mentors.CountActive(); err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Failed to build stats", err.Error())
		return
	}

	sessionCounts, err := h.Sessions.CountByStatus()
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Failed to build stats", err.Error())
		return
	}
	for status, n := range sessionCounts {
		stats.TotalSessions += n
		if status == models.SessionActive {
			stats.ActiveSessions = n
		}
	}

	apptCounts, err := h.Appointments.CountByStatus()
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Failed to build stats", err.Error())
		return
	}
	for status, n := range apptCounts {
		stats.TotalAppointments += n
		switch status {
		case models.AppointmentPending:
			stats.PendingAppointments = n
		case models.AppointmentBooked:
			stats.BookedAppointments = n
		case models.AppointmentCompleted:
			stats.CompletedAppointments = n
		}
	}

	if stats.TotalCost, err = h.Sessions.TotalCost(); err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Failed to build stats", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"stats": stats})
}
