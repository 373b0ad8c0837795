// Package store defines the per-user document persistence contract shared
// by the file and postgres adapters.
package store

import (
	"context"
	"sync"
)

// Subsystem names one persisted document kind. Each user has at most one
// document per subsystem.
type Subsystem string

const (
	SubsystemFlashcards   Subsystem = "flashcards"
	SubsystemPlanner      Subsystem = "planner"
	SubsystemAnalytics    Subsystem = "analytics"
	SubsystemGamification Subsystem = "gamification"
)

// DocStore loads and saves one JSON document per (username, subsystem).
//
// Load decodes the stored document into v and returns domain.ErrNotFound
// when no document exists. Save overwrites the stored document with the
// JSON encoding of v. Users lists every username that has a document for
// the subsystem.
type DocStore interface {
	Load(ctx context.Context, username string, sub Subsystem, v any) error
	Save(ctx context.Context, username string, sub Subsystem, v any) error
	Users(ctx context.Context, sub Subsystem) ([]string, error)
}

// KeyedMutex serializes read-modify-write cycles per (username, subsystem)
// so concurrent operations on the same document never interleave.
type KeyedMutex struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewKeyedMutex() *KeyedMutex {
	return &KeyedMutex{locks: map[string]*sync.Mutex{}}
}

// Lock acquires the mutex for the key and returns its unlock func.
func (k *KeyedMutex) Lock(username string, sub Subsystem) func() {
	key := username + "\x00" + string(sub)

	k.mu.Lock()
	m, ok := k.locks[key]
	if !ok {
		m = &sync.Mutex{}
		k.locks[key] = m
	}
	k.mu.Unlock()

	m.Lock()
	return m.Unlock
}
