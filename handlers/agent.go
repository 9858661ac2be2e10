package handlers

import (
	"net/http"

	"mentorline/models"
	"mentorline/utils"

	"github.com/gin-gonic/gin"
)

// StartAgentSession opens a new conversation session and returns its ID.
func (h *HandlerBundle) StartAgentSession(c *gin.Context) {
	session, err := h.SessionSvc.Start()
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Failed to start session", err.Error())
		return
	}
	c.JSON(http.StatusCreated, gin.H{"session": session})
}

// ListTools exposes the tool catalogue consumed by external decision-makers.
func (h *HandlerBundle) ListTools(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"tools": h.Registry.List()})
}

type invokeToolRequest struct {
	Tool string         `json:"tool" binding:"required"`
	Args map[string]any `json:"args"`
}

// InvokeTool executes one tool call within a session and returns the
// natural-language result.
func (h *HandlerBundle) InvokeTool(c *gin.Context) {
	var req invokeToolRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request", err.Error())
		return
	}

	result, err := h.Dispatcher.Invoke(c.Request.Context(), c.Param("id"), req.Tool, req.Args)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Tool invocation failed", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"result": result})
}

// PushUsage accepts a usage increment from the speech/LLM pipeline and
// accumulates it into the session's cost meters.
func (h *HandlerBundle) PushUsage(c *gin.Context) {
	var delta models.UsageDelta
	if err := c.ShouldBindJSON(&delta); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request", err.Error())
		return
	}
	if err := h.SessionSvc.AddUsage(c.Param("id"), delta); err != nil {
		utils.JSONError(c, http.StatusNotFound, "Failed to record usage", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"recorded": true})
}

type converseRequest struct {
	Message string `json:"message" binding:"required"`
}

// Converse sends one caller turn through the Gemini decision-maker, which
// selects and executes tools before replying.
func (h *HandlerBundle) Converse(c *gin.Context) {
	if h.Gemini == nil {
		utils.JSONError(c, http.StatusServiceUnavailable, "Conversation unavailable", "No language model is configured")
		return
	}
	var req converseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request", err.Error())
		return
	}

	sessionID := c.Param("id")
	reply, err := h.Gemini.Converse(c.Request.Context(), sessionID, req.Message)
	if err != nil {
		utils.JSONError(c, http.StatusBadGateway, "Conversation failed", err.Error())
		return
	}

	// The model may have ended the conversation this turn; release its
	// chat history once the session is terminal.
	if session, err := h.Sessions.Get(sessionID); err == nil && session != nil && session.Status.IsTerminal() {
		h.Gemini.Forget(sessionID)
	}
	c.JSON(http.StatusOK, gin.H{"reply": reply})
}
