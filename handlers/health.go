package handlers

import (
	"net/http"

	"mentorline/utils"

	"github.com/gin-gonic/gin"
)

// Health reports liveness plus the latest dependency probe results.
func (h *HandlerBundle) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":       "ok",
		"dependencies": utils.GetHealthStatus(),
	})
}
