package models

import "time"

// Admin is an administrative account for the CRUD surface.
type Admin struct {
	ID           string     `bson:"id" json:"id"`
	Name         string     `bson:"name" json:"name"`
	Email        string     `bson:"email" json:"email"`
	PasswordHash string     `bson:"passwordHash" json:"-"`
	Role         string     `bson:"role" json:"role"`
	Active       bool       `bson:"active" json:"active"`
	LastLogin    *time.Time `bson:"lastLogin,omitempty" json:"lastLogin,omitempty"`
	CreatedAt    time.Time  `bson:"createdAt" json:"createdAt"`
}

// AdminStats is the dashboard aggregate.
type AdminStats struct {
	TotalCallers          int     `json:"totalCallers"`
	TotalMentors          int     `json:"totalMentors"`
	TotalSessions         int     `json:"totalSessions"`
	ActiveSessions        int     `json:"activeSessions"`
	TotalAppointments     int     `json:"totalAppointments"`
	PendingAppointments   int     `json:"pendingAppointments"`
	BookedAppointments    int     `json:"bookedAppointments"`
	CompletedAppointments int     `json:"completedAppointments"`
	TotalCost             float64 `json:"totalCost"`
}
