package idempotency

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Overland-East-Bay/wedding-rsvp-api/internal/ports/out/idempotency"
)

const selectRecord = `
SELECT status_code, content_type, body, created_at
FROM idempotency_keys
WHERE idempotency_key = @key AND subject = @subject AND method = @method
  AND route = @route AND body_hash = @body_hash`

const upsertRecord = `
INSERT INTO idempotency_keys
	(idempotency_key, subject, method, route, body_hash, status_code, content_type, body, created_at)
VALUES
	(@key, @subject, @method, @route, @body_hash, @status_code, @content_type, @body, @created_at)
ON CONFLICT (idempotency_key, subject, method, route, body_hash) DO UPDATE
SET status_code = EXCLUDED.status_code,
    content_type = EXCLUDED.content_type,
    body = EXCLUDED.body,
    created_at = EXCLUDED.created_at`

// Store keeps replayable group-creation responses in the idempotency_keys table.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

type recordRow struct {
	StatusCode  int       `db:"status_code"`
	ContentType string    `db:"content_type"`
	Body        []byte    `db:"body"`
	CreatedAt   time.Time `db:"created_at"`
}

func fingerprintArgs(fp idempotency.Fingerprint) pgx.NamedArgs {
	return pgx.NamedArgs{
		"key":       string(fp.Key),
		"subject":   string(fp.Subject),
		"method":    fp.Method,
		"route":     fp.Route,
		"body_hash": fp.BodyHash,
	}
}

func (s *Store) Get(ctx context.Context, fp idempotency.Fingerprint) (idempotency.Record, bool, error) {
	if s.pool == nil {
		return idempotency.Record{}, false, errors.New("nil postgres pool")
	}
	rows, err := s.pool.Query(ctx, selectRecord, fingerprintArgs(fp))
	if err != nil {
		return idempotency.Record{}, false, err
	}
	row, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[recordRow])
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return idempotency.Record{}, false, nil
	case err != nil:
		return idempotency.Record{}, false, err
	}
	return idempotency.Record{
		StatusCode:  row.StatusCode,
		ContentType: row.ContentType,
		Body:        row.Body,
		CreatedAt:   row.CreatedAt.UTC(),
	}, true, nil
}

func (s *Store) Put(ctx context.Context, fp idempotency.Fingerprint, rec idempotency.Record) error {
	if s.pool == nil {
		return errors.New("nil postgres pool")
	}
	args := fingerprintArgs(fp)
	args["status_code"] = rec.StatusCode
	args["content_type"] = rec.ContentType
	args["body"] = rec.Body
	if rec.Body == nil {
		args["body"] = []byte{}
	}
	args["created_at"] = rec.CreatedAt.UTC()
	if rec.CreatedAt.IsZero() {
		args["created_at"] = time.Now().UTC()
	}
	_, err := s.pool.Exec(ctx, upsertRecord, args)
	return err
}
