package conversation

import (
	"fmt"
	"strings"
	"time"

	sessionRepo "mentorline/database/repository/session"
	"mentorline/models"
	"mentorline/services/scheduling"
	"mentorline/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SessionService drives the conversation-session state machine. Sessions are
// single-writer: tool calls within one session are strictly sequential, so
// read-modify-write on one session never races with itself. Only the action
// log and usage meters are touched by out-of-band writers (usage push,
// abandonment sweep) and those go through the repository's targeted updates.
type SessionService interface {
	// Start creates a new active session with no caller bound.
	Start() (*models.ConversationSession, error)
	// Get retrieves a session, or nil if absent.
	Get(sessionID string) (*models.ConversationSession, error)
	// BindCaller attaches a normalized caller identity to the session.
	BindCaller(sessionID, identity string) error
	// RecordAction appends a tool invocation to the session's action log.
	RecordAction(sessionID string, entry models.ActionEntry) error
	// AddUsage accumulates a usage delta into the session's cost meters.
	AddUsage(sessionID string, delta models.UsageDelta) error
	// End completes the session: builds the summary from the action log,
	// prices the meters and persists both. Ending an already-terminal session
	// returns it unchanged.
	End(sessionID string) (*models.ConversationSession, error)
	// ListForCaller returns a caller's sessions, most recent first.
	ListForCaller(identity string, limit int) ([]models.ConversationSession, error)
}

// DefaultSessionService is the standard implementation of SessionService.
type DefaultSessionService struct {
	Sessions sessionRepo.SessionRepository
	Pricing  PricingTable
}

// NewDefaultSessionService creates a SessionService over the given repository.
func NewDefaultSessionService(sessions sessionRepo.SessionRepository, pricing PricingTable) *DefaultSessionService {
	return &DefaultSessionService{Sessions: sessions, Pricing: pricing}
}

func (s *DefaultSessionService) Start() (*models.ConversationSession, error) {
	now := time.Now()
	session := &models.ConversationSession{
		ID:             uuid.New().String(),
		Status:         models.SessionActive,
		StartedAt:      now,
		LastActivityAt: now,
	}
	if err := s.Sessions.Create(session); err != nil {
		return nil, fmt.Errorf("failed to start session: %w", err)
	}
	utils.GetLogger().Info("session started", zap.String("sessionId", session.ID))
	return session, nil
}

func (s *DefaultSessionService) Get(sessionID string) (*models.ConversationSession, error) {
	return s.Sessions.Get(sessionID)
}

func (s *DefaultSessionService) BindCaller(sessionID, identity string) error {
	session, err := s.Sessions.Get(sessionID)
	if err != nil {
		return err
	}
	if session == nil || session.Status.IsTerminal() {
		return &scheduling.NotFoundError{Resource: "session", Key: sessionID}
	}
	if session.CallerIdentity == identity {
		return nil
	}
	session.CallerIdentity = identity
	session.LastActivityAt = time.Now()
	return s.Sessions.Update(session)
}

func (s *DefaultSessionService) RecordAction(sessionID string, entry models.ActionEntry) error {
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}
	return s.Sessions.AppendAction(sessionID, entry)
}

func (s *DefaultSessionService) AddUsage(sessionID string, delta models.UsageDelta) error {
	return s.Sessions.AddUsage(sessionID, delta)
}

func (s *DefaultSessionService) End(sessionID string) (*models.ConversationSession, error) {
	session, err := s.Sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, &scheduling.NotFoundError{Resource: "session", Key: sessionID}
	}
	if session.Status.IsTerminal() {
		return session, nil
	}

	now := time.Now()
	cost := s.Pricing.Price(session.Meters)
	session.Status = models.SessionCompleted
	session.EndedAt = &now
	session.DurationSeconds = int(now.Sub(session.StartedAt).Seconds())
	session.Summary = Summarize(session.ActionLog)
	session.Cost = &cost

	if err := s.Sessions.Update(session); err != nil {
		return nil, fmt.Errorf("failed to complete session: %w", err)
	}
	utils.GetLogger().Info("session completed",
		zap.String("sessionId", sessionID),
		zap.Int("durationSeconds", session.DurationSeconds),
		zap.Float64("cost", cost.Total))
	return session, nil
}

func (s *DefaultSessionService) ListForCaller(identity string, limit int) ([]models.ConversationSession, error) {
	return s.Sessions.ListForCaller(identity, limit)
}

// Effected reports whether a logged mutating tool call actually changed
// appointment data. The dispatcher marks this on the entry's arguments.
func Effected(entry models.ActionEntry) bool {
	v, ok := entry.Args["succeeded"].(bool)
	return ok && v
}

// Summarize turns an action log into the human-readable list of bookings,
// cancellations and reschedules the conversation effected. Cost figures are
// never part of the summary.
func Summarize(log []models.ActionEntry) string {
	var lines []string
	for _, entry := range log {
		if !Effected(entry) {
			continue
		}
		args := entry.Args
		switch entry.Tool {
		case "book_appointment":
			line := fmt.Sprintf("booked an appointment on %v at %v", args["date"], args["time"])
			if name, ok := args["mentorName"].(string); ok && name != "" {
				line = fmt.Sprintf("booked an appointment with %s on %v at %v", name, args["date"], args["time"])
			}
			lines = append(lines, line)
		case "cancel_appointment":
			lines = append(lines, fmt.Sprintf("cancelled the appointment on %v at %v", args["date"], args["time"]))
		case "modify_appointment":
			lines = append(lines, fmt.Sprintf("moved an appointment from %v at %v to %v at %v",
				args["oldDate"], args["oldTime"], args["newDate"], args["newTime"]))
		}
	}
	if len(lines) == 0 {
		return "No appointment changes were made during this conversation."
	}
	return "During this conversation you " + strings.Join(lines, "; ") + "."
}
