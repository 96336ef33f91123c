package mariadb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/kozaktomas/face-orchestrator/internal/config"
)

// Pool manages a MariaDB connection pool.
type Pool struct {
	db *sql.DB
}

// DSN converts a mysql:// or mariadb:// URL into a driver DSN. Query
// parameters are passed through as driver parameters; parseTime is always on.
func DSN(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("invalid MariaDB URL: %w", err)
	}
	if u.Scheme != "mysql" && u.Scheme != "mariadb" {
		return "", fmt.Errorf("unsupported MariaDB URL scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return "", errors.New("MariaDB URL has no host")
	}

	cfg := mysql.NewConfig()
	cfg.Net = "tcp"
	cfg.Addr = u.Host
	if u.Port() == "" {
		cfg.Addr = u.Host + ":3306"
	}
	cfg.DBName = strings.TrimPrefix(u.Path, "/")
	if u.User != nil {
		cfg.User = u.User.Username()
		cfg.Passwd, _ = u.User.Password()
	}
	cfg.ParseTime = true
	cfg.Loc = time.UTC

	if q := u.Query(); len(q) > 0 {
		cfg.Params = make(map[string]string, len(q))
		for k := range q {
			cfg.Params[k] = q.Get(k)
		}
	}
	return cfg.FormatDSN(), nil
}

// NewPool creates a new MariaDB connection pool.
func NewPool(ctx context.Context, cfg *config.DatabaseConfig) (*Pool, error) {
	if cfg == nil || cfg.URL == "" {
		return nil, errors.New("MariaDB DSN is required")
	}

	dsn, err := DSN(cfg.URL)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open MariaDB: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(time.Hour)

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping MariaDB: %w", err)
	}

	return &Pool{db: db}, nil
}

// Migrate creates the profile table when missing.
func (p *Pool) Migrate(ctx context.Context) error {
	_, err := p.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS user_profiles (
			id                  CHAR(36) PRIMARY KEY,
			application_user_id VARCHAR(255) NOT NULL,
			first_name          VARCHAR(255) NOT NULL DEFAULT '',
			last_name           VARCHAR(255) NOT NULL DEFAULT '',
			email               VARCHAR(320) NOT NULL DEFAULT '',
			gender              VARCHAR(64)  NOT NULL DEFAULT '',
			marital_status      VARCHAR(64)  NOT NULL DEFAULT '',
			occupation          VARCHAR(255) NOT NULL DEFAULT '',
			address             TEXT         NOT NULL,
			date_of_birth       DATE NULL,
			nationality         VARCHAR(128) NOT NULL DEFAULT '',
			profile_picture     TEXT NULL,
			created_at          DATETIME(6)  NOT NULL,
			updated_at          DATETIME(6)  NOT NULL,
			INDEX idx_user_profiles_application_user_id (application_user_id)
		) DEFAULT CHARSET=utf8mb4
	`)
	if err != nil {
		return fmt.Errorf("create user_profiles table: %w", err)
	}
	return nil
}

// Open creates the pool and the schema.
func Open(ctx context.Context, cfg *config.DatabaseConfig) (*Pool, error) {
	pool, err := NewPool(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if err := pool.Migrate(ctx); err != nil {
		_ = pool.Close()
		return nil, err
	}
	return pool, nil
}

// Close closes the connection pool.
func (p *Pool) Close() error {
	if p.db != nil {
		if err := p.db.Close(); err != nil {
			return fmt.Errorf("closing database connection: %w", err)
		}
	}
	return nil
}
