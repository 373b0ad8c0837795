package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/heartmarshall/studyhall-backend/internal/domain"
	"github.com/heartmarshall/studyhall-backend/internal/store"
)

const documentsTable = "user_documents"

// Store persists documents in the user_documents table, one jsonb row
// per (username, subsystem).
type Store struct {
	pool *pgxpool.Pool
	log  *slog.Logger
	sb   sq.StatementBuilderType
}

// New creates a document store backed by the given pool.
func New(pool *pgxpool.Pool, log *slog.Logger) *Store {
	return &Store{
		pool: pool,
		log:  log.With("adapter", "postgres"),
		sb:   sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// Load reads the document for (username, sub) into v. Missing rows yield
// domain.ErrNotFound; failed reads and undecodable payloads are logged and
// treated the same so callers fall back to defaults.
func (s *Store) Load(ctx context.Context, username string, sub store.Subsystem, v any) error {
	query, args, err := s.sb.
		Select("doc").
		From(documentsTable).
		Where(sq.Eq{"username": username, "subsystem": string(sub)}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build select: %w", err)
	}

	var raw []byte
	if err := s.pool.QueryRow(ctx, query, args...).Scan(&raw); err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			s.log.Warn("unreadable document, using defaults",
				"username", username, "subsystem", sub, "error", err)
		}
		return fmt.Errorf("%s/%s: %w", username, sub, domain.ErrNotFound)
	}

	if err := json.Unmarshal(raw, v); err != nil {
		s.log.Warn("corrupt document, using defaults",
			"username", username, "subsystem", sub, "error", err)
		return fmt.Errorf("%s/%s: %w", username, sub, domain.ErrNotFound)
	}
	return nil
}

// Save upserts the JSON encoding of v for (username, sub).
func (s *Store) Save(ctx context.Context, username string, sub store.Subsystem, v any) error {
	if username == "" {
		return fmt.Errorf("username is empty: %w", domain.ErrValidation)
	}

	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s/%s: %w", username, sub, err)
	}

	query, args, err := s.sb.
		Insert(documentsTable).
		Columns("username", "subsystem", "doc", "updated_at").
		Values(username, string(sub), data, sq.Expr("now()")).
		Suffix("ON CONFLICT (username, subsystem) DO UPDATE SET doc = EXCLUDED.doc, updated_at = now()").
		ToSql()
	if err != nil {
		return fmt.Errorf("build upsert: %w", err)
	}

	if _, err := s.pool.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("save %s/%s: %w", username, sub, err)
	}
	return nil
}

// Users lists every username that has a document for the subsystem.
func (s *Store) Users(ctx context.Context, sub store.Subsystem) ([]string, error) {
	query, args, err := s.sb.
		Select("username").
		From(documentsTable).
		Where(sq.Eq{"subsystem": string(sub)}).
		OrderBy("username").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list users for %s: %w", sub, err)
	}
	defer rows.Close()

	var users []string
	for rows.Next() {
		var u string
		if err := rows.Scan(&u); err != nil {
			return nil, fmt.Errorf("scan username: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}
	return users, nil
}
