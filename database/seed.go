package database

import (
	"time"

	"mentorline/models"
	"mentorline/utils"

	"go.uber.org/zap"
)

// demoPasswordHash is the bcrypt hash of "password123", shared by the demo
// accounts so a fresh install is immediately usable.
const demoPasswordHash = "$2b$12$LQv3c1yqBWVHxkd0LHAkCOYz6TtxMQJqhN8/X4.qVYHJqI/4p4J1C"

// MentorSeeder persists demo mentors.
type MentorSeeder interface {
	GetByEmail(email string) (*models.Mentor, error)
	Create(mentor *models.Mentor) error
}

// AdminSeeder persists the bootstrap admin.
type AdminSeeder interface {
	GetByEmail(email string) (*models.Admin, error)
	Create(admin *models.Admin) error
}

// AvailabilitySeeder persists demo availability windows.
type AvailabilitySeeder interface {
	Add(window *models.AvailabilityWindow) error
}

func demoMentors() []models.Mentor {
	now := time.Now()
	return []models.Mentor{
		{
			ID:           "mentor-sarah-smith",
			Name:         "Dr. Sarah Smith",
			Email:        "sarah.smith@mentorline.dev",
			PasswordHash: demoPasswordHash,
			Specialty:    "General Consultation",
			Active:       true,
			CreatedAt:    now,
			UpdatedAt:    now,
		},
		{
			ID:           "mentor-john-doe",
			Name:         "Dr. John Doe",
			Email:        "john.doe@mentorline.dev",
			PasswordHash: demoPasswordHash,
			Specialty:    "Technical Review",
			Active:       true,
			CreatedAt:    now,
			UpdatedAt:    now,
		},
	}
}

// SeedDemoData inserts the demo mentors, their availability for the coming
// week, and the bootstrap admin. Existing records are left untouched, so the
// seeder is safe to run on every startup.
func SeedDemoData(mentors MentorSeeder, admins AdminSeeder, windows AvailabilitySeeder) {
	logger := utils.GetLogger().With(zap.String("component", "seed"))

	for _, m := range demoMentors() {
		existing, err := mentors.GetByEmail(m.Email)
		if err != nil {
			logger.Error("failed to check for existing mentor", zap.String("email", m.Email), zap.Error(err))
			continue
		}
		if existing != nil {
			continue
		}
		if err := mentors.Create(&m); err != nil {
			logger.Error("failed to seed mentor", zap.String("email", m.Email), zap.Error(err))
			continue
		}
		seedWindowsFor(m.ID, windows, logger)
		logger.Info("seeded demo mentor", zap.String("name", m.Name))
	}

	seedAdmin(admins, logger)
}

// seedWindowsFor opens 09:00 to 17:00, 30-minute slots, for the next 7 days.
func seedWindowsFor(mentorID string, windows AvailabilitySeeder, logger *zap.Logger) {
	now := time.Now()
	for day := 1; day <= 7; day++ {
		date := now.AddDate(0, 0, day)
		if wd := date.Weekday(); wd == time.Saturday || wd == time.Sunday {
			continue
		}
		w := models.AvailabilityWindow{
			ID:                  mentorID + "-" + date.Format("2006-01-02"),
			MentorID:            mentorID,
			Date:                date.Format("2006-01-02"),
			StartTime:           "09:00",
			EndTime:             "17:00",
			SlotDurationMinutes: 30,
			CreatedAt:           now,
		}
		if err := windows.Add(&w); err != nil {
			logger.Error("failed to seed availability window", zap.String("mentorId", mentorID), zap.Error(err))
		}
	}
}

func seedAdmin(admins AdminSeeder, logger *zap.Logger) {
	const email = "admin@mentorline.dev"
	existing, err := admins.GetByEmail(email)
	if err != nil {
		logger.Error("failed to check for existing admin", zap.Error(err))
		return
	}
	if existing != nil {
		return
	}
	admin := models.Admin{
		ID:           "admin-super",
		Name:         "Super Admin",
		Email:        email,
		PasswordHash: demoPasswordHash,
		Role:         "superadmin",
		Active:       true,
		CreatedAt:    time.Now(),
	}
	if err := admins.Create(&admin); err != nil {
		logger.Error("failed to seed admin", zap.Error(err))
		return
	}
	logger.Info("seeded bootstrap admin", zap.String("email", email))
}
