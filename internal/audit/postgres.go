package audit

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRecorder implements Recorder using PostgreSQL.
type PostgresRecorder struct {
	db *pgxpool.Pool
}

// NewPostgresRecorder builds a Postgres-backed audit recorder.
func NewPostgresRecorder(db *pgxpool.Pool) *PostgresRecorder {
	return &PostgresRecorder{db: db}
}

// Record inserts one authentication event.
func (r *PostgresRecorder) Record(ctx context.Context, event Event) error {
	id := event.ID
	if id == "" {
		id = uuid.NewString()
	}
	_, err := r.db.Exec(ctx, `INSERT INTO auth_events (id, user_id, email, kind, outcome, confidence, detail, occurred_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		id, nullable(event.UserID), event.Email, event.Kind, event.Outcome, event.Confidence, event.Detail, event.At.UTC())
	return err
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
