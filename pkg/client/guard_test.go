// Copyright (c) 2026 Sentinelle. All rights reserved.
// Author: dev@sentinelle.app

package client_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/othinieljo/sentinelle/pkg/client"
)

// authenticatedSession builds a session rehydrated from a snapshot with
// the given role. No server is involved.
func authenticatedSession(t *testing.T, role string) *client.SessionStore {
	t.Helper()

	creds := client.NewMemoryCredentialStore()
	require.NoError(t, creds.Save(client.Snapshot{
		AccessToken: "tok1",
		User:        &client.User{ID: "u1", Role: role},
	}))

	apiClient := client.New(client.Config{BaseURL: "http://127.0.0.1:0"})
	session := client.NewSessionStore(apiClient, creds, client.SessionConfig{})
	require.NoError(t, session.Initialize(context.Background()))
	return session
}

func anonymousSession(t *testing.T) *client.SessionStore {
	t.Helper()
	apiClient := client.New(client.Config{BaseURL: "http://127.0.0.1:0"})
	return client.NewSessionStore(apiClient, client.NewMemoryCredentialStore(), client.SessionConfig{})
}

func TestGuardDecisions(t *testing.T) {
	adminOnly := client.GuardPolicy{Roles: []string{client.RoleAdmin}}
	anyAuthenticated := client.GuardPolicy{RequireAuth: true}
	public := client.GuardPolicy{}

	t.Run("anonymous never granted protected content", func(t *testing.T) {
		session := anonymousSession(t)

		assert.Equal(t, client.DecisionRedirectLogin, client.Evaluate(session, anyAuthenticated))
		assert.Equal(t, client.DecisionRedirectLogin, client.Evaluate(session, adminOnly))
		assert.Equal(t, client.DecisionGranted, client.Evaluate(session, public))
	})

	t.Run("wrong role is denied not redirected", func(t *testing.T) {
		session := authenticatedSession(t, client.RoleMember)

		assert.Equal(t, client.DecisionDenied, client.Evaluate(session, adminOnly))
		assert.Equal(t, client.DecisionGranted, client.Evaluate(session, anyAuthenticated))
	})

	t.Run("matching role granted", func(t *testing.T) {
		session := authenticatedSession(t, client.RoleAdmin)

		assert.Equal(t, client.DecisionGranted, client.Evaluate(session, adminOnly))
	})

	t.Run("role list implies auth requirement", func(t *testing.T) {
		session := anonymousSession(t)
		policy := client.GuardPolicy{Roles: []string{client.RoleMember, client.RoleAdmin}}

		assert.Equal(t, client.DecisionRedirectLogin, client.Evaluate(session, policy))
	})
}

// blockingCredentialStore parks Load until released, freezing the session
// in the rehydrating state.
type blockingCredentialStore struct {
	client.CredentialStore
	release chan struct{}
}

func (store *blockingCredentialStore) Load() (client.Snapshot, bool, error) {
	<-store.release
	return client.Snapshot{}, false, nil
}

func TestGuardLoadingWhileRehydrating(t *testing.T) {
	creds := &blockingCredentialStore{
		CredentialStore: client.NewMemoryCredentialStore(),
		release:         make(chan struct{}),
	}

	apiClient := client.New(client.Config{BaseURL: "http://127.0.0.1:0"})
	session := client.NewSessionStore(apiClient, creds, client.SessionConfig{})

	done := make(chan struct{})
	go func() {
		_ = session.Initialize(context.Background())
		close(done)
	}()

	// Initialize is parked inside Load: the guard must hold rendering
	assert.Eventually(t, func() bool {
		return client.Evaluate(session, client.GuardPolicy{RequireAuth: true}) == client.DecisionLoading
	}, time.Second, 5*time.Millisecond)

	close(creds.release)
	<-done

	assert.Equal(t, client.DecisionRedirectLogin,
		client.Evaluate(session, client.GuardPolicy{RequireAuth: true}))
}

func TestGuardRestoredRoleAfterRehydration(t *testing.T) {
	// Persist, rehydrate, guard: the role must survive the round trip
	// without any network call.
	session := authenticatedSession(t, client.RoleAdmin)

	decision := client.Evaluate(session, client.GuardPolicy{Roles: []string{client.RoleAdmin}})

	assert.Equal(t, client.DecisionGranted, decision)
}
