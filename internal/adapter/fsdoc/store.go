// Package fsdoc implements the document store on the local filesystem,
// one JSON file per (username, subsystem) under a data directory.
package fsdoc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/heartmarshall/studyhall-backend/internal/domain"
	"github.com/heartmarshall/studyhall-backend/internal/store"
)

// Store persists documents as <root>/<username>/<subsystem>.json.
type Store struct {
	root string
	log  *slog.Logger
}

// New creates the store and ensures the root directory exists.
func New(root string, log *slog.Logger) (*Store, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &Store{root: root, log: log.With("adapter", "fsdoc")}, nil
}

func (s *Store) path(username string, sub store.Subsystem) (string, error) {
	if username == "" || strings.ContainsAny(username, "/\\") || username == "." || username == ".." {
		return "", fmt.Errorf("username %q: %w", username, domain.ErrValidation)
	}
	return filepath.Join(s.root, username, string(sub)+".json"), nil
}

// Load reads the document for (username, sub) into v.
// A missing or unreadable document yields domain.ErrNotFound; corrupt
// files are logged and treated the same so callers fall back to defaults.
func (s *Store) Load(ctx context.Context, username string, sub store.Subsystem, v any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	p, err := s.path(username, sub)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(p)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			s.log.Warn("unreadable document, using defaults",
				"username", username, "subsystem", sub, "error", err)
		}
		return fmt.Errorf("%s/%s: %w", username, sub, domain.ErrNotFound)
	}

	if err := json.Unmarshal(data, v); err != nil {
		s.log.Warn("corrupt document, using defaults",
			"username", username, "subsystem", sub, "error", err)
		return fmt.Errorf("%s/%s: %w", username, sub, domain.ErrNotFound)
	}
	return nil
}

// Save writes the JSON encoding of v atomically (temp file + rename).
func (s *Store) Save(ctx context.Context, username string, sub store.Subsystem, v any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	p, err := s.path(username, sub)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return fmt.Errorf("create user dir: %w", err)
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s/%s: %w", username, sub, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(p), "."+string(sub)+"-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close %s: %w", tmpName, err)
	}

	if err := os.Rename(tmpName, p); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("rename %s: %w", tmpName, err)
	}
	return nil
}

// Users lists every username that has a document for the subsystem.
func (s *Store) Users(ctx context.Context, sub store.Subsystem) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(s.root)
	if err != nil {
		return nil, fmt.Errorf("read data dir: %w", err)
	}

	var users []string
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if _, err := os.Stat(filepath.Join(s.root, e.Name(), string(sub)+".json")); err == nil {
			users = append(users, e.Name())
		}
	}
	sort.Strings(users)
	return users, nil
}
