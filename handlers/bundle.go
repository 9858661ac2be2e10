package handlers

import (
	adminRepo "mentorline/database/repository/admin"
	appointmentRepo "mentorline/database/repository/appointment"
	callerRepo "mentorline/database/repository/caller"
	mentorRepo "mentorline/database/repository/mentor"
	sessionRepo "mentorline/database/repository/session"
	"mentorline/services/agent"
	"mentorline/services/conversation"
	"mentorline/services/intelligence"
	"mentorline/services/scheduling"
)

// HandlerBundle aggregates every dependency the route handlers need.
type HandlerBundle struct {
	Callers      callerRepo.CallerRepository
	Mentors      mentorRepo.MentorRepository
	Admins       adminRepo.AdminRepository
	Sessions     sessionRepo.SessionRepository
	Appointments appointmentRepo.AppointmentRepository

	Availability scheduling.AvailabilityService
	Slots        scheduling.SlotService
	Ledger       scheduling.LedgerService

	SessionSvc conversation.SessionService
	Context    conversation.ContextService

	Registry   *agent.Registry
	Dispatcher *agent.Dispatcher

	// Gemini is nil when no API key is configured; the converse endpoint
	// then returns 503 and the raw tool endpoint still works.
	Gemini *intelligence.GeminiAgent

	DefaultCountryCode string
}
