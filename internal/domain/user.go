package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is an account holder. Goals and workouts reference it by UserID.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Username     string             `bson:"username" json:"username"`
	Email        string             `bson:"email" json:"email"`    // Should be unique
	PasswordHash string             `bson:"passwordHash" json:"-"` // Never expose this via JSON
	FirstName    string             `bson:"firstName,omitempty" json:"firstName,omitempty"`
	LastName     string             `bson:"lastName,omitempty" json:"lastName,omitempty"`
	DateOfBirth  string             `bson:"dateOfBirth,omitempty" json:"dateOfBirth,omitempty"` // YYYY-MM-DD
	Gender       string             `bson:"gender,omitempty" json:"gender,omitempty"`
	Height       float64            `bson:"height,omitempty" json:"height,omitempty"` // cm
	Weight       float64            `bson:"weight,omitempty" json:"weight,omitempty"` // kg
	FitnessLevel string             `bson:"fitnessLevel,omitempty" json:"fitnessLevel,omitempty"`

	// Labels picked during registration, keyed by group ("strength", "cardio", "custom", ...).
	FitnessGoals map[string][]string `bson:"fitnessGoals,omitempty" json:"fitnessGoals,omitempty"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// DisplayName is used by the dashboard greeting.
func (u *User) DisplayName() string {
	if u.FirstName != "" {
		return u.FirstName
	}
	if u.Username != "" {
		return u.Username
	}
	return "User"
}
