package routes

import (
	"time"

	"mentorline/handlers"
	"mentorline/middleware"
	"mentorline/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// SetupRouter builds the gin engine with every route group mounted.
func SetupRouter(h *handlers.HandlerBundle) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(utils.ErrorHandler())
	r.Use(middleware.RateLimiter())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", h.Health)

	auth := r.Group("/auth")
	{
		auth.POST("/caller/login", h.CallerLogin)
		auth.POST("/mentor/login", h.MentorLogin)
		auth.POST("/admin/login", h.AdminLogin)
		auth.GET("/me", middleware.RequireAuth(), h.Me)
	}

	// Public discovery surface: names and slots only.
	r.GET("/mentors", h.ListMentorProfiles)
	r.GET("/mentors/:id/slots", h.GetSlots)

	// Conversation surface, driven by the external decision-maker.
	agent := r.Group("/agent")
	{
		agent.GET("/tools", h.ListTools)
		agent.POST("/sessions", h.StartAgentSession)
		agent.POST("/sessions/:id/tools", h.InvokeTool)
		agent.POST("/sessions/:id/usage", h.PushUsage)
		agent.POST("/sessions/:id/converse", h.Converse)
	}

	caller := r.Group("/me", middleware.RequireAuth("caller"))
	{
		caller.GET("/appointments", h.MyAppointments)
		caller.POST("/appointments/:id/cancel", h.CancelAppointment)
	}

	mentor := r.Group("/mentor", middleware.RequireAuth("mentor"))
	{
		mentor.GET("/appointments", h.MentorAppointments)
		mentor.POST("/appointments/:id/notes", h.AddMentorNotes)
		mentor.POST("/appointments/:id/complete", h.CompleteAppointment)
		mentor.GET("/calendar", h.MentorCalendar)
		mentor.POST("/availability", h.AddWindow)
		mentor.GET("/availability", h.ListWindows)
		mentor.DELETE("/availability/:id", h.RemoveWindow)
	}

	admin := r.Group("/admin", middleware.RequireAuth("admin"))
	{
		admin.GET("/stats", h.Stats)
		admin.GET("/callers", h.ListCallers)
		admin.GET("/callers/:identity/context", h.GetCallerContext)
		admin.DELETE("/callers/:identity", h.DeleteCaller)
		admin.GET("/mentors", h.ListMentors)
		admin.POST("/mentors", h.CreateMentor)
		admin.PATCH("/mentors/:id", h.UpdateMentor)
		admin.DELETE("/mentors/:id", h.DeleteMentor)
		admin.GET("/mentors/:id/calendar", h.MentorCalendar)
		admin.POST("/mentors/:id/availability", h.AddWindow)
		admin.GET("/mentors/:id/availability", h.ListWindows)
		admin.DELETE("/availability/:id", h.RemoveWindow)
		admin.GET("/appointments", h.ListAppointments)
		admin.GET("/appointments/:id", h.GetAppointment)
		admin.POST("/appointments/:id/cancel", h.CancelAppointment)
		admin.POST("/appointments/:id/complete", h.CompleteAppointment)
		admin.GET("/sessions", h.ListSessions)
		admin.GET("/sessions/:id", h.GetSession)
	}

	return r
}
