package models

import "time"

// Mentor is the professional being booked; owns availability windows.
type Mentor struct {
	ID           string    `bson:"id" json:"id"`
	Name         string    `bson:"name" json:"name"`
	Email        string    `bson:"email" json:"email"`
	PasswordHash string    `bson:"passwordHash" json:"-"`
	Specialty    string    `bson:"specialty,omitempty" json:"specialty,omitempty"`
	Bio          string    `bson:"bio,omitempty" json:"bio,omitempty"`
	Phone        string    `bson:"phone,omitempty" json:"phone,omitempty"`
	Active       bool      `bson:"active" json:"active"`
	CreatedAt    time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time `bson:"updatedAt" json:"updatedAt"`
}

// MentorProfile is the conversation-facing view of a mentor. The mentor ID is
// an internal join key and is never surfaced to the conversation.
type MentorProfile struct {
	Name      string `json:"name"`
	Specialty string `json:"specialty,omitempty"`
}

// Profile strips a mentor down to its conversation-facing fields.
func (m Mentor) Profile() MentorProfile {
	return MentorProfile{Name: m.Name, Specialty: m.Specialty}
}
