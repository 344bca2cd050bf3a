package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const createTable = `CREATE TABLE IF NOT EXISTS clientbook_slots (
	name       TEXT PRIMARY KEY,
	payload    BYTEA NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// Slot persists the payload as one row of clientbook_slots.
type Slot struct {
	pool *pgxpool.Pool
	name string
}

// Open connects, pings and makes sure the slots table exists.
func Open(ctx context.Context, dsn, name string) (*Slot, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if _, err := pool.Exec(ctx, createTable); err != nil {
		pool.Close()
		return nil, fmt.Errorf("create slots table: %w", err)
	}
	return &Slot{pool: pool, name: name}, nil
}

func (s *Slot) Read(ctx context.Context) ([]byte, error) {
	var payload []byte
	err := s.pool.QueryRow(ctx, `SELECT payload FROM clientbook_slots WHERE name = $1`, s.name).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return payload, nil
}

func (s *Slot) Write(ctx context.Context, payload []byte) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO clientbook_slots (name, payload) VALUES ($1, $2)
		 ON CONFLICT (name) DO UPDATE SET payload = EXCLUDED.payload, updated_at = now()`,
		s.name, payload)
	return err
}

// Clear deletes the slot row. Used in tests only.
func (s *Slot) Clear(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM clientbook_slots WHERE name = $1`, s.name)
	return err
}

func (s *Slot) Close() error {
	s.pool.Close()
	return nil
}
