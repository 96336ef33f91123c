// Package profiles handles user profile commands and queries. Persistence is
// delegated to a Service implemented by the database backends.
package profiles

import (
	"context"
	"errors"
	"time"
)

var (
	ErrInvalidCommand = errors.New("invalid command")
	ErrNotFound       = errors.New("user profile not found")
)

// UserProfile is the stored profile of an application user.
type UserProfile struct {
	ID                string     `json:"id"`
	ApplicationUserID string     `json:"applicationUserId"`
	FirstName         string     `json:"firstName"`
	LastName          string     `json:"lastName"`
	Email             string     `json:"email"`
	Gender            string     `json:"gender"`
	MaritalStatus     string     `json:"maritalStatus"`
	Occupation        string     `json:"occupation"`
	Address           string     `json:"address"`
	DateOfBirth       *time.Time `json:"dateOfBirth"`
	Nationality       string     `json:"nationality"`
	ProfilePicture    *string    `json:"profilePicture"`
	CreatedAt         time.Time  `json:"createdAt"`
	UpdatedAt         time.Time  `json:"updatedAt"`
}

// ProfileInput carries the client-supplied profile fields. DateOfBirth is
// either a calendar date (2006-01-02) or an RFC 3339 timestamp.
type ProfileInput struct {
	ApplicationUserID string  `json:"applicationUserId"`
	FirstName         string  `json:"firstName"`
	LastName          string  `json:"lastName"`
	Email             string  `json:"email"`
	Gender            string  `json:"gender"`
	MaritalStatus     string  `json:"maritalStatus"`
	Occupation        string  `json:"occupation"`
	Address           string  `json:"address"`
	DateOfBirth       string  `json:"dateOfBirth"`
	Nationality       string  `json:"nationality"`
	ProfilePicture    *string `json:"profilePicture"`
}

// CreateUserProfileCommand asks for a new profile owned by ApplicationUserID.
type CreateUserProfileCommand struct {
	ApplicationUserID string
	Profile           ProfileInput
}

// Service persists profiles.
type Service interface {
	CreateUserProfile(ctx context.Context, profile *UserProfile) (*UserProfile, error)
	GetUserProfile(ctx context.Context, id string) (*UserProfile, error)
}
