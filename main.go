package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mentorline/config"
	"mentorline/cron"
	"mentorline/database"
	adminRepo "mentorline/database/repository/admin"
	appointmentRepo "mentorline/database/repository/appointment"
	availabilityRepo "mentorline/database/repository/availability"
	callerRepo "mentorline/database/repository/caller"
	mentorRepo "mentorline/database/repository/mentor"
	sessionRepo "mentorline/database/repository/session"
	"mentorline/handlers"
	"mentorline/routes"
	"mentorline/services/agent"
	"mentorline/services/conversation"
	"mentorline/services/intelligence"
	"mentorline/services/scheduling"
	"mentorline/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

type repositories struct {
	callers      callerRepo.CallerRepository
	mentors      mentorRepo.MentorRepository
	admins       adminRepo.AdminRepository
	availability availabilityRepo.AvailabilityRepository
	appointments appointmentRepo.AppointmentRepository
	sessions     sessionRepo.SessionRepository
}

// buildRepositories selects the storage backend once. Everything downstream
// only sees the repository interfaces.
func buildRepositories() repositories {
	if config.AppConfig.StorageBackend == "mongo" {
		database.InitDB()
		return repositories{
			callers:      callerRepo.NewMongoCallerRepo(),
			mentors:      mentorRepo.NewMongoMentorRepo(),
			admins:       adminRepo.NewMongoAdminRepo(),
			availability: availabilityRepo.NewMongoAvailabilityRepo(),
			appointments: appointmentRepo.NewMongoAppointmentRepo(),
			sessions:     sessionRepo.NewMongoSessionRepo(),
		}
	}
	utils.GetLogger().Warn("running on the in-memory backend, data will not survive a restart")
	return repositories{
		callers:      callerRepo.NewMemoryCallerRepo(),
		mentors:      mentorRepo.NewMemoryMentorRepo(),
		admins:       adminRepo.NewMemoryAdminRepo(),
		availability: availabilityRepo.NewMemoryAvailabilityRepo(),
		appointments: appointmentRepo.NewMemoryAppointmentRepo(),
		sessions:     sessionRepo.NewMemorySessionRepo(),
	}
}

func main() {
	config.LoadConfig()
	utils.InitializeLogger()
	logger := utils.GetLogger()
	defer logger.Sync()

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	useMongo := config.AppConfig.StorageBackend == "mongo"
	repos := buildRepositories()
	database.SeedDemoData(repos.mentors, repos.admins, repos.availability)

	// Redis is only wired alongside the persistent backend; the in-memory
	// profile runs fully self-contained for local development and tests.
	var contextCache *redis.Client
	var redisClients []*redis.Client
	if useMongo {
		utils.InitCache()
		utils.InitContextCache()
		contextCache = utils.GetContextCacheClient()
		redisClients = []*redis.Client{utils.GetCacheClient(), contextCache}
	}
	utils.StartHealthMonitor(redisClients, database.MongoClient)

	availabilitySvc := scheduling.NewDefaultAvailabilityService(repos.availability, repos.mentors)
	slotSvc := scheduling.NewDefaultSlotService(repos.availability, repos.appointments)
	ledgerSvc := scheduling.NewDefaultLedgerService(repos.appointments, repos.availability)

	sessionSvc := conversation.NewDefaultSessionService(repos.sessions, conversation.PricingFromConfig())
	contextSvc := conversation.NewDefaultContextService(repos.callers, repos.appointments, repos.sessions, contextCache)
	reaper := conversation.NewReaper(repos.sessions)

	toolset := agent.NewToolset(ledgerSvc, slotSvc, repos.mentors, repos.callers, sessionSvc, contextSvc, config.AppConfig.DefaultCountryCode)
	registry := agent.NewRegistry()
	toolset.RegisterAll(registry)
	dispatcher := agent.NewDispatcher(registry, sessionSvc, agent.LogObserver{})

	var gemini *intelligence.GeminiAgent
	if config.AppConfig.GeminiAPIKey != "" {
		var err error
		gemini, err = intelligence.NewGeminiAgent(context.Background(), registry, dispatcher)
		if err != nil {
			logger.Error("failed to start Gemini agent, converse endpoint disabled", zap.Error(err))
		} else {
			defer gemini.Close()
		}
	}

	bundle := &handlers.HandlerBundle{
		Callers:            repos.callers,
		Mentors:            repos.mentors,
		Admins:             repos.admins,
		Sessions:           repos.sessions,
		Appointments:       repos.appointments,
		Availability:       availabilitySvc,
		Slots:              slotSvc,
		Ledger:             ledgerSvc,
		SessionSvc:         sessionSvc,
		Context:            contextSvc,
		Registry:           registry,
		Dispatcher:         dispatcher,
		Gemini:             gemini,
		DefaultCountryCode: config.AppConfig.DefaultCountryCode,
	}

	sweepCtx, stopSweep := context.WithCancel(context.Background())
	defer stopSweep()
	if useMongo {
		worker := cron.NewWorker(reaper)
		go func() {
			if err := worker.Run(); err != nil {
				logger.Error("cron worker stopped", zap.Error(err))
			}
		}()
		defer worker.Shutdown()
	} else {
		go cron.RunInlineSweeper(sweepCtx, reaper, 5*time.Minute)
	}

	router := routes.SetupRouter(bundle)
	srv := &http.Server{
		Addr:    ":" + config.AppConfig.AppPort,
		Handler: router,
	}

	go func() {
		logger.Info("server listening", zap.String("port", config.AppConfig.AppPort))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("forced shutdown", zap.Error(err))
	}
	logger.Info("server stopped")
}
