package profiles

import (
	"context"
	"fmt"
	"log"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
)

// CommandHandler turns commands into calls on the persistence Service.
type CommandHandler struct {
	service Service
	now     func() time.Time
	newID   func() string
}

func NewCommandHandler(service Service) *CommandHandler {
	return &CommandHandler{
		service: service,
		now:     time.Now,
		newID:   func() string { return uuid.New().String() },
	}
}

// Handle creates the profile. The owner comes from the command, falling back
// to the id in the profile payload. CreatedAt and UpdatedAt are both set to now.
func (h *CommandHandler) Handle(ctx context.Context, cmd CreateUserProfileCommand) (*UserProfile, error) {
	owner := strings.TrimSpace(cmd.ApplicationUserID)
	if owner == "" {
		owner = strings.TrimSpace(cmd.Profile.ApplicationUserID)
	}
	if owner == "" {
		return nil, fmt.Errorf("%w: application user id is required", ErrInvalidCommand)
	}

	in := cmd.Profile
	if in.Email != "" {
		if _, err := mail.ParseAddress(in.Email); err != nil {
			return nil, fmt.Errorf("%w: email %q is not valid", ErrInvalidCommand, in.Email)
		}
	}
	dob, err := parseDateOfBirth(in.DateOfBirth)
	if err != nil {
		return nil, err
	}

	now := h.now().UTC()
	profile := &UserProfile{
		ID:                h.newID(),
		ApplicationUserID: owner,
		FirstName:         in.FirstName,
		LastName:          in.LastName,
		Email:             in.Email,
		Gender:            in.Gender,
		MaritalStatus:     in.MaritalStatus,
		Occupation:        in.Occupation,
		Address:           in.Address,
		DateOfBirth:       dob,
		Nationality:       in.Nationality,
		ProfilePicture:    in.ProfilePicture,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	created, err := h.service.CreateUserProfile(ctx, profile)
	if err != nil {
		return nil, fmt.Errorf("creating user profile: %w", err)
	}
	log.Printf("[profiles] created profile %s for user %s", created.ID, owner)
	return created, nil
}

// Get loads a profile by id.
func (h *CommandHandler) Get(ctx context.Context, id string) (*UserProfile, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("%w: profile id %q is not a UUID", ErrInvalidCommand, id)
	}
	profile, err := h.service.GetUserProfile(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("loading user profile %s: %w", id, err)
	}
	return profile, nil
}

func parseDateOfBirth(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	for _, layout := range []string{time.DateOnly, time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
			return &d, nil
		}
	}
	return nil, fmt.Errorf("%w: dateOfBirth %q must be YYYY-MM-DD", ErrInvalidCommand, s)
}
