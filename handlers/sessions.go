package handlers

import (
	"net/http"
	"strconv"

	"mentorline/models"
	"mentorline/utils"

	"github.com/gin-gonic/gin"
)

func intQuery(c *gin.Context, key string, fallback int) int {
	if v, err := strconv.Atoi(c.Query(key)); err == nil {
		return v
	}
	return fallback
}

// ListSessions returns conversation sessions for the admin surface,
// optionally filtered by status.
func (h *HandlerBundle) ListSessions(c *gin.Context) {
	sessions, err := h.Sessions.ListAll(
		models.SessionStatus(c.Query("status")),
		intQuery(c, "skip", 0),
		intQuery(c, "limit", 50),
	)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Failed to list sessions", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"sessions": sessions})
}

// GetSession returns one session including its action log and cost breakdown.
func (h *HandlerBundle) GetSession(c *gin.Context) {
	session, err := h.Sessions.Get(c.Param("id"))
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Failed to fetch session", err.Error())
		return
	}
	if session == nil {
		utils.JSONError(c, http.StatusNotFound, "Session not found", "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"session": session})
}
