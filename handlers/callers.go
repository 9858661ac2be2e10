package handlers

import (
	"net/http"

	"mentorline/utils"

	"github.com/gin-gonic/gin"
)

// ListCallers returns callers with pagination for the admin surface.
func (h *HandlerBundle) ListCallers(c *gin.Context) {
	callers, err := h.Callers.List(intQuery(c, "skip", 0), intQuery(c, "limit", 50))
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Failed to list callers", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"callers": callers})
}

// GetCallerContext returns the full context aggregate for one caller:
// profile, appointment groups and last-session pointer.
func (h *HandlerBundle) GetCallerContext(c *gin.Context) {
	cc, err := h.Context.Load(c.Param("identity"))
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Failed to load caller context", err.Error())
		return
	}
	if cc == nil {
		utils.JSONError(c, http.StatusNotFound, "Caller not found", "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"context": cc})
}

// DeleteCaller removes a caller record.
func (h *HandlerBundle) DeleteCaller(c *gin.Context) {
	identity := c.Param("identity")
	removed, err := h.Callers.Delete(identity)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Failed to delete caller", err.Error())
		return
	}
	if !removed {
		utils.JSONError(c, http.StatusNotFound, "Caller not found", "")
		return
	}
	h.Context.Invalidate(identity)
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}
