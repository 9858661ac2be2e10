package sessionRepo

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"mentorline/models"
)

// MemorySessionRepo implements SessionRepository with an in-process map.
type MemorySessionRepo struct {
	mu       sync.RWMutex
	sessions map[string]models.ConversationSession
}

// NewMemorySessionRepo creates an empty in-memory session repository.
func NewMemorySessionRepo() *MemorySessionRepo {
	return &MemorySessionRepo{sessions: make(map[string]models.ConversationSession)}
}

func (r *MemorySessionRepo) Create(session *models.ConversationSession) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[session.ID] = *session
	return nil
}

func (r *MemorySessionRepo) Get(id string) (*models.ConversationSession, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if s, ok := r.sessions[id]; ok {
		return &s, nil
	}
	return nil, nil
}

func (r *MemorySessionRepo) Update(session *models.ConversationSession) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[session.ID]; !ok {
		return fmt.Errorf("session %s not found", session.ID)
	}
	r.sessions[session.ID] = *session
	return nil
}

func (r *MemorySessionRepo) AppendAction(sessionID string, entry models.ActionEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[sessionID]
	if !ok {
		return fmt.Errorf("session %s not found", sessionID)
	}
	s.ActionLog = append(s.ActionLog, entry)
	s.LastActivityAt = entry.Timestamp
	r.sessions[sessionID] = s
	return nil
}

func (r *MemorySessionRepo) AddUsage(sessionID string, delta models.UsageDelta) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[sessionID]
	if !ok {
		return fmt.Errorf("session %s not found", sessionID)
	}
	s.Meters.Add(delta)
	s.LastActivityAt = time.Now()
	r.sessions[sessionID] = s
	return nil
}

func (r *MemorySessionRepo) ListForCaller(identity string, limit int) ([]models.ConversationSession, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []models.ConversationSession
	for _, s := range r.sessions {
		if s.CallerIdentity == identity {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartedAt.After(out[j].StartedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *MemorySessionRepo) ListAll(status models.SessionStatus, skip, limit int) ([]models.ConversationSession, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []models.ConversationSession
	for _, s := range r.sessions {
		if status != "" && s.Status != status {
			continue
		}
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartedAt.After(out[j].StartedAt) })

	if skip >= len(out) {
		return nil, nil
	}
	end := skip + limit
	if limit <= 0 || end > len(out) {
		end = len(out)
	}
	return out[skip:end], nil
}

func (r *MemorySessionRepo) AbandonStale(cutoff time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	now := time.Now()
	for id, s := range r.sessions {
		if s.Status != models.SessionActive || !s.LastActivityAt.Before(cutoff) {
			continue
		}
		s.Status = models.SessionAbandoned
		ended := now
		s.EndedAt = &ended
		s.DurationSeconds = int(now.Sub(s.StartedAt).Seconds())
		r.sessions[id] = s
		n++
	}
	return n, nil
}

func (r *MemorySessionRepo) CountByStatus() (map[models.SessionStatus]int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	counts := make(map[models.SessionStatus]int)
	for _, s := range r.sessions {
		counts[s.Status]++
	}
	return counts, nil
}

func (r *MemorySessionRepo) TotalCost() (float64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	total := 0.0
	for _, s := range r.sessions {
		if s.Cost != nil {
			total += s.Cost.Total
		}
	}
	return total, nil
}
