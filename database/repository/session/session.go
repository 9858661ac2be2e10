package sessionRepo

import (
	"time"

	"mentorline/models"
)

// SessionRepository defines conversation-session data access.
type SessionRepository interface {
	// Create inserts a new session record.
	Create(session *models.ConversationSession) error
	// Get retrieves a session by ID, or nil if absent.
	Get(id string) (*models.ConversationSession, error)
	// Update persists the full session record.
	Update(session *models.ConversationSession) error
	// AppendAction appends one entry to the session's action log and bumps
	// its last-activity timestamp.
	AppendAction(sessionID string, entry models.ActionEntry) error
	// AddUsage accumulates a usage delta into the session's cost meters.
	AddUsage(sessionID string, delta models.UsageDelta) error
	// ListForCaller returns a caller's sessions, most recent first.
	ListForCaller(identity string, limit int) ([]models.ConversationSession, error)
	// ListAll returns sessions, most recent first, optionally by status.
	ListAll(status models.SessionStatus, skip, limit int) ([]models.ConversationSession, error)
	// AbandonStale transitions active sessions whose last activity precedes
	// the cutoff to abandoned, returning how many were transitioned. Only
	// the active→abandoned edge is ever taken.
	AbandonStale(cutoff time.Time) (int, error)
	// CountByStatus returns session counts grouped by status.
	CountByStatus() (map[models.SessionStatus]int, error)
	// TotalCost sums the total of every priced session.
	TotalCost() (float64, error)
}
