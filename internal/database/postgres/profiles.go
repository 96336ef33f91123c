package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/kozaktomas/face-orchestrator/internal/profiles"
)

// UserProfileRepository provides PostgreSQL-backed profile storage
type UserProfileRepository struct {
	pool *Pool
}

// NewUserProfileRepository creates a new PostgreSQL profile repository
func NewUserProfileRepository(pool *Pool) *UserProfileRepository {
	return &UserProfileRepository{pool: pool}
}

// CreateUserProfile inserts the profile and returns it as stored
func (r *UserProfileRepository) CreateUserProfile(ctx context.Context, p *profiles.UserProfile) (*profiles.UserProfile, error) {
	query := `
		INSERT INTO user_profiles (
			id, application_user_id, first_name, last_name, email, gender, marital_status,
			occupation, address, date_of_birth, nationality, profile_picture, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING created_at, updated_at
	`

	stored := *p
	err := r.pool.QueryRow(ctx, query,
		p.ID, p.ApplicationUserID, p.FirstName, p.LastName, p.Email, p.Gender, p.MaritalStatus,
		p.Occupation, p.Address, p.DateOfBirth, p.Nationality, p.ProfilePicture, p.CreatedAt, p.UpdatedAt,
	).Scan(&stored.CreatedAt, &stored.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert user profile: %w", err)
	}
	return &stored, nil
}

// GetUserProfile retrieves a profile by ID
func (r *UserProfileRepository) GetUserProfile(ctx context.Context, id string) (*profiles.UserProfile, error) {
	query := `
		SELECT id, application_user_id, first_name, last_name, email, gender, marital_status,
			occupation, address, date_of_birth, nationality, profile_picture, created_at, updated_at
		FROM user_profiles
		WHERE id = $1
	`

	var (
		p       profiles.UserProfile
		dob     sql.NullTime
		picture sql.NullString
	)
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&p.ID,
		&p.ApplicationUserID,
		&p.FirstName,
		&p.LastName,
		&p.Email,
		&p.Gender,
		&p.MaritalStatus,
		&p.Occupation,
		&p.Address,
		&dob,
		&p.Nationality,
		&picture,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, profiles.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user profile: %w", err)
	}

	if dob.Valid {
		p.DateOfBirth = &dob.Time
	}
	if picture.Valid {
		p.ProfilePicture = &picture.String
	}
	return &p, nil
}
