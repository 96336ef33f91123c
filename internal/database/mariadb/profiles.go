package mariadb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"
	"github.com/kozaktomas/face-orchestrator/internal/profiles"
)

// errDuplicateEntry is the MariaDB error number for a unique key violation.
const errDuplicateEntry = 1062

// UserProfileRepository provides MariaDB-backed profile storage
type UserProfileRepository struct {
	pool *Pool
}

func NewUserProfileRepository(pool *Pool) *UserProfileRepository {
	return &UserProfileRepository{pool: pool}
}

func (r *UserProfileRepository) CreateUserProfile(ctx context.Context, p *profiles.UserProfile) (*profiles.UserProfile, error) {
	query := `
		INSERT INTO user_profiles (
			id, application_user_id, first_name, last_name, email, gender, marital_status,
			occupation, address, date_of_birth, nationality, profile_picture, created_at, updated_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.pool.db.ExecContext(ctx, query,
		p.ID, p.ApplicationUserID, p.FirstName, p.LastName, p.Email, p.Gender, p.MaritalStatus,
		p.Occupation, p.Address, p.DateOfBirth, p.Nationality, p.ProfilePicture, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		var myErr *mysql.MySQLError
		if errors.As(err, &myErr) && myErr.Number == errDuplicateEntry {
			return nil, fmt.Errorf("user profile %s already exists: %w", p.ID, err)
		}
		return nil, fmt.Errorf("insert user profile: %w", err)
	}

	stored := *p
	return &stored, nil
}

func (r *UserProfileRepository) GetUserProfile(ctx context.Context, id string) (*profiles.UserProfile, error) {
	query := `
		SELECT id, application_user_id, first_name, last_name, email, gender, marital_status,
			occupation, address, date_of_birth, nationality, profile_picture, created_at, updated_at
		FROM user_profiles
		WHERE id = ?
	`

	var (
		p       profiles.UserProfile
		dob     sql.NullTime
		picture sql.NullString
	)
	err := r.pool.db.QueryRowContext(ctx, query, id).Scan(
		&p.ID, &p.ApplicationUserID, &p.FirstName, &p.LastName, &p.Email, &p.Gender, &p.MaritalStatus,
		&p.Occupation, &p.Address, &dob, &p.Nationality, &picture, &p.CreatedAt, &p.UpdatedAt,
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
