package conversation

import (
	"time"

	"mentorline/config"
	sessionRepo "mentorline/database/repository/session"
	"mentorline/utils"

	"go.uber.org/zap"
)

// Reaper transitions sessions left active past the inactivity timeout to
// abandoned. It never touches appointment data, so it is safe to run
// alongside live bookings.
type Reaper struct {
	Sessions sessionRepo.SessionRepository
}

// NewReaper creates a Reaper over the given repository.
func NewReaper(sessions sessionRepo.SessionRepository) *Reaper {
	return &Reaper{Sessions: sessions}
}

// Sweep abandons every active session idle longer than the configured
// timeout and returns how many were transitioned.
func (r *Reaper) Sweep() (int, error) {
	minutes := config.AppConfig.SessionAbandonMinutes
	if minutes <= 0 {
		minutes = 30
	}
	cutoff := time.Now().Add(-time.Duration(minutes) * time.Minute)

	n, err := r.Sessions.AbandonStale(cutoff)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		utils.GetLogger().Info("abandoned stale sessions", zap.Int("count", n))
	}
	return n, nil
}
