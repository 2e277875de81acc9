// Copyright (c) 2026 Sentinelle. All rights reserved.
// Author: dev@sentinelle.app

package client

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// # Credential Persistence

// Snapshot is the single persisted representation of a session.
//
// Both the session store and the route guard read from this one record,
// so the two can never drift apart.
type Snapshot struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token,omitempty"`
	User         *User     `json:"user,omitempty"`
	SavedAt      time.Time `json:"saved_at"`
}

// CredentialStore persists a session [Snapshot] across process restarts.
type CredentialStore interface {
	// Save overwrites the stored snapshot.
	Save(snapshot Snapshot) error

	// Load returns the stored snapshot. The bool is false when nothing
	// has been saved yet.
	Load() (Snapshot, bool, error)

	// Clear removes the stored snapshot. Clearing an empty store is not
	// an error.
	Clear() error
}

// # In-Memory Store

// MemoryCredentialStore keeps the snapshot in process memory. Intended
// for tests and short-lived tools.
type MemoryCredentialStore struct {
	mu       sync.Mutex
	snapshot Snapshot
	hasValue bool
}

func NewMemoryCredentialStore() *MemoryCredentialStore {
	return &MemoryCredentialStore{}
}

func (store *MemoryCredentialStore) Save(snapshot Snapshot) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	store.snapshot = snapshot
	store.hasValue = true
	return nil
}

func (store *MemoryCredentialStore) Load() (Snapshot, bool, error) {
	store.mu.Lock()
	defer store.mu.Unlock()
	return store.snapshot, store.hasValue, nil
}

func (store *MemoryCredentialStore) Clear() error {
	store.mu.Lock()
	defer store.mu.Unlock()
	store.snapshot = Snapshot{}
	store.hasValue = false
	return nil
}

// # File-Backed Store

// FileCredentialStore persists the snapshot as a JSON file with owner-only
// permissions. This is the default for CLI and desktop consumers.
type FileCredentialStore struct {
	mu   sync.Mutex
	path string
}

func NewFileCredentialStore(path string) *FileCredentialStore {
	return &FileCredentialStore{path: path}
}

func (store *FileCredentialStore) Save(snapshot Snapshot) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	payload, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(store.path), 0o700); err != nil {
		return err
	}

	// Write-then-rename keeps a crash from leaving a truncated file
	temp := store.path + ".tmp"
	if err := os.WriteFile(temp, payload, 0o600); err != nil {
		return err
	}
	return os.Rename(temp, store.path)
}

func (store *FileCredentialStore) Load() (Snapshot, bool, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	payload, err := os.ReadFile(store.path)
	if errors.Is(err, fs.ErrNotExist) {
		return Snapshot{}, false, nil
	}
	if err != nil {
		return Snapshot{}, false, err
	}

	var snapshot Snapshot
	if err := json.Unmarshal(payload, &snapshot); err != nil {
		// A corrupt file is treated as absent rather than fatal
		return Snapshot{}, false, nil
	}
	return snapshot, snapshot.AccessToken != "", nil
}

func (store *FileCredentialStore) Clear() error {
	store.mu.Lock()
	defer store.mu.Unlock()

	err := os.Remove(store.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}
