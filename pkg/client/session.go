// Copyright (c) 2026 Sentinelle. All rights reserved.
// Author: dev@sentinelle.app

package client

import (
	"context"
	"net/http"
	"sync"
	"time"
)

// # Session State Machine

// SessionState is the authentication lifecycle state.
type SessionState string

const (
	// StateUnauthenticated is the initial state and the state after
	// logout or a terminal refresh failure.
	StateUnauthenticated SessionState = "unauthenticated"
	// StateRehydrating means Initialize is reading the persisted
	// snapshot; guards render a loading state meanwhile.
	StateRehydrating SessionState = "rehydrating"
	// StateAuthenticated means a token is held and the user is known.
	StateAuthenticated SessionState = "authenticated"
)

// SessionConfig carries the knobs for [NewSessionStore].
type SessionConfig struct {
	// RevalidateOnInit makes Initialize confirm the persisted token
	// against GET /auth/me before declaring the session authenticated.
	// Off by default: rehydration then trusts the snapshot and costs no
	// network call.
	RevalidateOnInit bool
}

// SessionStore is the single source of truth for authentication state.
//
// It is explicitly constructed, never a package-level singleton, so tests
// and multi-tenant tools can hold several isolated sessions. All methods
// are safe for concurrent use.
type SessionStore struct {
	client      *Client
	credentials CredentialStore
	revalidate  bool

	mu        sync.RWMutex
	state     SessionState
	user      *User
	lastError string
}

// NewSessionStore wires a session store over the transport and the
// persisted credential channel.
//
// The store registers itself as the transport's auth-lost handler: when a
// token refresh fails terminally the local state clears before any
// consumer-configured hook runs.
func NewSessionStore(apiClient *Client, credentials CredentialStore, cfg SessionConfig) *SessionStore {
	store := &SessionStore{
		client:      apiClient,
		credentials: credentials,
		revalidate:  cfg.RevalidateOnInit,
		state:       StateUnauthenticated,
	}

	consumerHook := apiClient.onAuthLost
	apiClient.onAuthLost = func() {
		store.clearLocal()
		if consumerHook != nil {
			consumerHook()
		}
	}

	return store
}

// # Read Access

// State returns the current lifecycle state.
func (store *SessionStore) State() SessionState {
	store.mu.RLock()
	defer store.mu.RUnlock()
	return store.state
}

// IsAuthenticated reports whether a usable session is held. It is true
// exactly when the state is authenticated and a token is present.
func (store *SessionStore) IsAuthenticated() bool {
	return store.State() == StateAuthenticated && store.client.AccessToken() != ""
}

// CurrentUser returns the cached user, nil when signed out.
func (store *SessionStore) CurrentUser() *User {
	store.mu.RLock()
	defer store.mu.RUnlock()
	return store.user
}

// LastError returns the human-readable message of the last failed login,
// "" after a success or clear.
func (store *SessionStore) LastError() string {
	store.mu.RLock()
	defer store.mu.RUnlock()
	return store.lastError
}

// # Lifecycle Operations

/*
Login authenticates with phone number and password.

Description: Validates required fields locally, delegates to the
transport, then stores the user and both tokens and persists the session
snapshot. On failure the state stays unauthenticated and the error
message is retained for display.

Parameters:
  - ctx: context.Context
  - phoneNumber: string
  - password: string

Returns:
  - *User: The authenticated identity
  - error: *APIError, KindValidation for missing fields
*/
func (store *SessionStore) Login(ctx context.Context, phoneNumber, password string) (*User, error) {
	if phoneNumber == "" || password == "" {
		err := &APIError{Kind: KindValidation, Message: "Phone number and password are required"}
		store.setError(err.Message)
		return nil, err
	}

	var envelope dataEnvelope[loginPayload]
	err := store.client.do(ctx, http.MethodPost, loginPath, nil, map[string]string{
		"phone_number": phoneNumber,
		"password":     password,
	}, &envelope)
	if err != nil {
		store.setError(messageOf(err))
		return nil, err
	}

	store.client.SetTokens(envelope.Data.AccessToken, envelope.Data.RefreshToken)

	store.mu.Lock()
	store.state = StateAuthenticated
	store.user = envelope.Data.User
	store.lastError = ""
	store.mu.Unlock()

	store.persist()
	return envelope.Data.User, nil
}

// Logout notifies the server best-effort, then unconditionally clears the
// local state and the persisted snapshot. The returned error reports the
// server call outcome only; the local session is gone either way.
func (store *SessionStore) Logout(ctx context.Context) error {
	var serverErr error
	if refreshToken := store.client.RefreshToken(); refreshToken != "" {
		serverErr = store.client.do(ctx, http.MethodPost, "/auth/logout", nil,
			map[string]string{"refresh_token": refreshToken}, nil)
	}

	store.clearLocal()
	return serverErr
}

/*
Initialize rehydrates the session from the persisted snapshot.

Description: Reads the one authoritative credential snapshot. With no
snapshot the state settles unauthenticated. With one, the tokens and user
are restored; when RevalidateOnInit is set the token is confirmed against
GET /auth/me first and a rejection clears everything.

Parameters:
  - ctx: context.Context

Returns:
  - error: storage read failures or, when revalidating, the rejection
*/
func (store *SessionStore) Initialize(ctx context.Context) error {
	store.mu.Lock()
	store.state = StateRehydrating
	store.mu.Unlock()

	snapshot, found, err := store.credentials.Load()
	if err != nil || !found || snapshot.AccessToken == "" {
		store.clearLocal()
		return err
	}

	store.client.SetTokens(snapshot.AccessToken, snapshot.RefreshToken)

	if store.revalidate {
		if _, err := store.CheckAuth(ctx); err != nil {
			return err
		}
		return nil
	}

	store.mu.Lock()
	store.state = StateAuthenticated
	store.user = snapshot.User
	store.lastError = ""
	store.mu.Unlock()
	return nil
}

// CheckAuth revalidates the session by fetching the current profile.
// Any failure clears the session.
func (store *SessionStore) CheckAuth(ctx context.Context) (*User, error) {
	var envelope dataEnvelope[User]
	if err := store.client.do(ctx, http.MethodGet, "/auth/me", nil, nil, &envelope); err != nil {
		store.clearLocal()
		return nil, err
	}

	store.mu.Lock()
	store.state = StateAuthenticated
	store.user = &envelope.Data
	store.lastError = ""
	store.mu.Unlock()

	store.persist()
	return &envelope.Data, nil
}

// RefreshAuth re-fetches the current profile, clearing the session on
// failure. Alias of [SessionStore.CheckAuth] kept for call-site clarity.
func (store *SessionStore) RefreshAuth(ctx context.Context) (*User, error) {
	return store.CheckAuth(ctx)
}

// # Internals

// persist writes the current tokens and user to the credential store.
// Failures are swallowed: a broken disk must not break a live session.
func (store *SessionStore) persist() {
	store.mu.RLock()
	user := store.user
	store.mu.RUnlock()

	_ = store.credentials.Save(Snapshot{
		AccessToken:  store.client.AccessToken(),
		RefreshToken: store.client.RefreshToken(),
		User:         user,
		SavedAt:      time.Now(),
	})
}

// clearLocal wipes tokens, state and the persisted snapshot.
func (store *SessionStore) clearLocal() {
	store.client.ClearTokens()
	_ = store.credentials.Clear()

	store.mu.Lock()
	store.state = StateUnauthenticated
	store.user = nil
	store.mu.Unlock()
}

func (store *SessionStore) setError(message string) {
	store.mu.Lock()
	store.lastError = message
	store.mu.Unlock()
}

// messageOf extracts the display message from an SDK error.
func messageOf(err error) string {
	if apiErr, ok := err.(*APIError); ok {
		return apiErr.Message
	}
	return err.Error()
}
