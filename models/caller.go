package models

import "time"

// Caller is an end user identified by a normalized contact handle
// (phone number in E.164-ish form). Created on first identification.
type Caller struct {
	Identity  string    `bson:"identity" json:"identity"`
	Name      string    `bson:"name" json:"name"`
	Email     string    `bson:"email,omitempty" json:"email,omitempty"`
	Active    bool      `bson:"active" json:"active"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}
