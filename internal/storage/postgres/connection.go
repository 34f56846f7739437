package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/archsim/archsim-backend/config"
	_ "github.com/lib/pq"
)

// NewConnection opens the database/sql handle used by the evaluation
// history repository.
func NewConnection(ctx context.Context, cfg *config.DatabaseConfig) (*sql.DB, error) {
	db, err := sql.Open("postgres", DSN(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	maxOpen := cfg.MaxConns
	if maxOpen <= 0 {
		maxOpen = 25
	}
	db.SetMaxOpenConns(maxOpen)
	db.SetMaxIdleConns(max(1, cfg.MinConns))
	db.SetConnMaxIdleTime(5 * time.Minute)

	return db, nil
}
