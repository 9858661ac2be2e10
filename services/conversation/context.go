package conversation

import (
	"context"
	"encoding/json"
	"time"

	appointmentRepo "mentorline/database/repository/appointment"
	callerRepo "mentorline/database/repository/caller"
	sessionRepo "mentorline/database/repository/session"
	"mentorline/models"
	"mentorline/utils"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const contextCacheTTL = 10 * time.Minute

// ContextService builds the read aggregate consumed once per identify call:
// who the caller is, their appointments grouped by status and a pointer to
// their last session.
type ContextService interface {
	// Load assembles the caller context, serving from cache when fresh.
	Load(identity string) (*models.CallerContext, error)
	// Invalidate drops the cached context after a mutating tool call.
	Invalidate(identity string)
}

// DefaultContextService is the standard implementation of ContextService.
// The cache client may be nil, in which case every load hits the
// repositories directly.
type DefaultContextService struct {
	Callers      callerRepo.CallerRepository
	Appointments appointmentRepo.AppointmentRepository
	Sessions     sessionRepo.SessionRepository
	Cache        *redis.Client
}

// NewDefaultContextService creates a ContextService over the given repositories.
func NewDefaultContextService(callers callerRepo.CallerRepository, appts appointmentRepo.AppointmentRepository, sessions sessionRepo.SessionRepository, cache *redis.Client) *DefaultContextService {
	return &DefaultContextService{Callers: callers, Appointments: appts, Sessions: sessions, Cache: cache}
}

func contextCacheKey(identity string) string {
	return "callercontext:" + identity
}

func (s *DefaultContextService) Load(identity string) (*models.CallerContext, error) {
	if cached := s.fromCache(identity); cached != nil {
		return cached, nil
	}

	caller, err := s.Callers.GetByIdentity(identity)
	if err != nil {
		return nil, err
	}
	if caller == nil {
		return nil, nil
	}

	appts, err := s.Appointments.ListForCaller(identity, nil)
	if err != nil {
		return nil, err
	}
	grouped := models.CallerAppointments{}
	for _, a := range appts {
		switch a.Status {
		case models.AppointmentBooked:
			grouped.Booked = append(grouped.Booked, a)
		case models.AppointmentPending:
			grouped.Pending = append(grouped.Pending, a)
		case models.AppointmentCompleted:
			grouped.CompletedCount++
		case models.AppointmentCancelled:
			grouped.CancelledCount++
		}
	}

	sessions, err := s.Sessions.ListForCaller(identity, 0)
	if err != nil {
		return nil, err
	}
	last := models.LastSessionInfo{}
	for _, sess := range sessions {
		if sess.Status.IsTerminal() {
			ended := sess.StartedAt
			if sess.EndedAt != nil {
				ended = *sess.EndedAt
			}
			last = models.LastSessionInfo{Date: &ended, Summary: sess.Summary}
			break
		}
	}

	cc := &models.CallerContext{
		Caller:        *caller,
		IsReturning:   len(sessions) > 0,
		TotalSessions: len(sessions),
		Appointments:  grouped,
		LastSession:   last,
	}
	s.toCache(identity, cc)
	return cc, nil
}

func (s *DefaultContextService) Invalidate(identity string) {
	if s.Cache == nil || identity == "" {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := s.Cache.Del(ctx, contextCacheKey(identity)).Err(); err != nil {
		utils.GetLogger().Warn("failed to invalidate caller context", zap.String("identity", identity), zap.Error(err))
	}
}

func (s *DefaultContextService) fromCache(identity string) *models.CallerContext {
	if s.Cache == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	raw, err := s.Cache.Get(ctx, contextCacheKey(identity)).Result()
	if err != nil {
		if err != redis.Nil {
			utils.GetLogger().Warn("caller context cache read failed", zap.Error(err))
		}
		return nil
	}
	var cc models.CallerContext
	if err := json.Unmarshal([]byte(raw), &cc); err != nil {
		return nil
	}
	return &cc
}

func (s *DefaultContextService) toCache(identity string, cc *models.CallerContext) {
	if s.Cache == nil {
		return
	}
	data, err := json.Marshal(cc)
	if err != nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := s.Cache.Set(ctx, contextCacheKey(identity), data, contextCacheTTL).Err(); err != nil {
		utils.GetLogger().Warn("caller context cache write failed", zap.Error(err))
	}
}
