package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Postgres stores fields in the objects table created by the migrations.
type Postgres struct {
	db *pgxpool.Pool
}

// NewPostgres wraps a connection pool.
func NewPostgres(db *pgxpool.Pool) *Postgres {
	return &Postgres{db: db}
}

func (p *Postgres) PutString(ctx context.Context, dir, key, value string) error {
	_, err := p.db.Exec(ctx, `
		INSERT INTO objects (dir, key, value)
		VALUES ($1, $2, $3)
		ON CONFLICT (dir, key) DO UPDATE
		SET value = $3, updated_at = NOW()
	`, Clean(dir), key, value)
	if err != nil {
		return fmt.Errorf("put %s/%s: %w", Clean(dir), key, err)
	}
	return nil
}

func (p *Postgres) GetString(ctx context.Context, dir, key string) (string, error) {
	var value string
	err := p.db.QueryRow(ctx,
		"SELECT value FROM objects WHERE dir = $1 AND key = $2",
		Clean(dir), key,
	).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", fmt.Errorf("%s/%s: %w", Clean(dir), key, ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("get %s/%s: %w", Clean(dir), key, err)
	}
	return value, nil
}
