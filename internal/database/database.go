// Package database selects and opens the user profile store.
package database

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/kozaktomas/face-orchestrator/internal/config"
	"github.com/kozaktomas/face-orchestrator/internal/database/mariadb"
	"github.com/kozaktomas/face-orchestrator/internal/database/postgres"
	"github.com/kozaktomas/face-orchestrator/internal/profiles"
)

// Backend names a supported profile store.
type Backend string

const (
	BackendPostgres Backend = "postgres"
	BackendMariaDB  Backend = "mariadb"
)

// ErrNotConfigured is returned when DATABASE_URL is empty.
var ErrNotConfigured = errors.New("DATABASE_URL is not set")

// ProfileStore is a profiles.Service that owns a connection pool.
type ProfileStore interface {
	profiles.Service
	Close() error
}

// BackendFor picks the backend from the URL scheme.
func BackendFor(url string) (Backend, error) {
	scheme, _, ok := strings.Cut(url, "://")
	if !ok {
		return "", fmt.Errorf("database URL must start with a scheme (postgres://, mysql://)")
	}
	switch strings.ToLower(scheme) {
	case "postgres", "postgresql":
		return BackendPostgres, nil
	case "mysql", "mariadb":
		return BackendMariaDB, nil
	default:
		return "", fmt.Errorf("unsupported database scheme %q", scheme)
	}
}

type postgresStore struct {
	*postgres.UserProfileRepository
	pool *postgres.Pool
}

func (s *postgresStore) Close() error { return s.pool.Close() }

type mariadbStore struct {
	*mariadb.UserProfileRepository
	pool *mariadb.Pool
}

func (s *mariadbStore) Close() error { return s.pool.Close() }

// OpenProfileStore connects to the configured database and prepares its schema.
func OpenProfileStore(ctx context.Context, cfg *config.DatabaseConfig) (ProfileStore, error) {
	if cfg == nil || cfg.URL == "" {
		return nil, ErrNotConfigured
	}

	backend, err := BackendFor(cfg.URL)
	if err != nil {
		return nil, err
	}

	switch backend {
	case BackendMariaDB:
		pool, err := mariadb.Open(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return &mariadbStore{UserProfileRepository: mariadb.NewUserProfileRepository(pool), pool: pool}, nil
	default:
		pool, err := postgres.Open(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return &postgresStore{UserProfileRepository: postgres.NewUserProfileRepository(pool), pool: pool}, nil
	}
}
