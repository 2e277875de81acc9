// Copyright (c) 2026 Sentinelle. All rights reserved.
// Author: dev@sentinelle.app

package client_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/othinieljo/sentinelle/pkg/client"
)

func loginBackend(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()

	mux.HandleFunc("/auth/login", func(writer http.ResponseWriter, request *http.Request) {
		var body map[string]string
		assert.NoError(t, json.NewDecoder(request.Body).Decode(&body))

		if body["phone_number"] != "0712345678" || body["password"] != "secret123" {
			writeAPIError(writer, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid phone number or password")
			return
		}

		writeData(writer, map[string]any{
			"access_token":  "tok1",
			"refresh_token": "refresh-1",
			"token_type":    "Bearer",
			"user":          client.User{ID: "u1", PhoneNumber: "0712345678", Role: client.RoleMember},
		})
	})

	mux.HandleFunc("/auth/logout", func(writer http.ResponseWriter, request *http.Request) {
		writeAPIError(writer, http.StatusInternalServerError, "INTERNAL_ERROR", "logout blew up")
	})

	mux.HandleFunc("/auth/me", func(writer http.ResponseWriter, request *http.Request) {
		if request.Header.Get("Authorization") != "Bearer tok1" {
			writeAPIError(writer, http.StatusUnauthorized, "UNAUTHORIZED", "expired")
			return
		}
		writeData(writer, client.User{ID: "u1", Role: client.RoleMember})
	})

	return httptest.NewServer(mux)
}

func newSession(t *testing.T, baseURL string, creds client.CredentialStore, cfg client.SessionConfig) *client.SessionStore {
	t.Helper()
	apiClient := client.New(client.Config{BaseURL: baseURL})
	return client.NewSessionStore(apiClient, creds, cfg)
}

func TestLoginSuccess(t *testing.T) {
	server := loginBackend(t)
	defer server.Close()

	apiClient := client.New(client.Config{BaseURL: server.URL})
	creds := client.NewMemoryCredentialStore()
	session := client.NewSessionStore(apiClient, creds, client.SessionConfig{})

	user, err := session.Login(context.Background(), "0712345678", "secret123")

	require.NoError(t, err)
	assert.True(t, session.IsAuthenticated())
	assert.Equal(t, client.StateAuthenticated, session.State())
	assert.Equal(t, "tok1", apiClient.AccessToken())
	assert.Equal(t, client.RoleMember, user.Role)
	assert.Empty(t, session.LastError())

	// The snapshot is persisted for rehydration
	snapshot, found, err := creds.Load()
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "tok1", snapshot.AccessToken)
	assert.Equal(t, client.RoleMember, snapshot.User.Role)
}

func TestLoginFailureLeavesUnauthenticated(t *testing.T) {
	server := loginBackend(t)
	defer server.Close()

	session := newSession(t, server.URL, client.NewMemoryCredentialStore(), client.SessionConfig{})

	_, err := session.Login(context.Background(), "0712345678", "nope")

	require.Error(t, err)
	assert.False(t, session.IsAuthenticated())
	assert.NotEmpty(t, session.LastError())
}

func TestLoginRequiresFields(t *testing.T) {
	// No server: local validation must short-circuit before any request
	session := newSession(t, "http://127.0.0.1:0", client.NewMemoryCredentialStore(), client.SessionConfig{})

	_, err := session.Login(context.Background(), "", "secret123")

	require.Error(t, err)
	assert.Equal(t, client.KindValidation, client.KindOf(err))
	assert.False(t, session.IsAuthenticated())
}

func TestLogoutClearsEvenWhenServerFails(t *testing.T) {
	server := loginBackend(t)
	defer server.Close()

	creds := client.NewMemoryCredentialStore()
	session := newSession(t, server.URL, creds, client.SessionConfig{})

	_, err := session.Login(context.Background(), "0712345678", "secret123")
	require.NoError(t, err)

	// The backend's logout endpoint always fails with a 500
	logoutErr := session.Logout(context.Background())

	require.Error(t, logoutErr)
	assert.False(t, session.IsAuthenticated())
	assert.Equal(t, client.StateUnauthenticated, session.State())
	assert.Nil(t, session.CurrentUser())

	_, found, err := creds.Load()
	require.NoError(t, err)
	assert.False(t, found, "persisted snapshot must be gone after logout")
}

func TestInitializeRestoresSessionWithoutNetwork(t *testing.T) {
	creds := client.NewMemoryCredentialStore()
	require.NoError(t, creds.Save(client.Snapshot{
		AccessToken:  "tok1",
		RefreshToken: "refresh-1",
		User:         &client.User{ID: "u1", Role: client.RoleAdmin},
	}))

	// An unreachable base URL proves no network call happens
	apiClient := client.New(client.Config{BaseURL: "http://127.0.0.1:0"})
	session := client.NewSessionStore(apiClient, creds, client.SessionConfig{})

	require.NoError(t, session.Initialize(context.Background()))

	assert.True(t, session.IsAuthenticated())
	assert.Equal(t, client.RoleAdmin, session.CurrentUser().Role)
	assert.Equal(t, "tok1", apiClient.AccessToken())
}

func TestInitializeWithoutSnapshotStaysUnauthenticated(t *testing.T) {
	session := newSession(t, "http://127.0.0.1:0", client.NewMemoryCredentialStore(), client.SessionConfig{})

	require.NoError(t, session.Initialize(context.Background()))

	assert.False(t, session.IsAuthenticated())
	assert.Equal(t, client.StateUnauthenticated, session.State())
}

func TestInitializeRevalidates(t *testing.T) {
	server := loginBackend(t)
	defer server.Close()

	t.Run("valid token confirmed", func(t *testing.T) {
		creds := client.NewMemoryCredentialStore()
		require.NoError(t, creds.Save(client.Snapshot{AccessToken: "tok1"}))

		session := newSession(t, server.URL, creds, client.SessionConfig{RevalidateOnInit: true})

		require.NoError(t, session.Initialize(context.Background()))
		assert.True(t, session.IsAuthenticated())
		assert.Equal(t, "u1", session.CurrentUser().ID)
	})

	t.Run("stale token rejected and cleared", func(t *testing.T) {
		creds := client.NewMemoryCredentialStore()
		require.NoError(t, creds.Save(client.Snapshot{AccessToken: "stale"}))

		session := newSession(t, server.URL, creds, client.SessionConfig{RevalidateOnInit: true})

		err := session.Initialize(context.Background())

		require.Error(t, err)
		assert.False(t, session.IsAuthenticated())

		_, found, loadErr := creds.Load()
		require.NoError(t, loadErr)
		assert.False(t, found)
	})
}

func TestCheckAuthFailureClearsSession(t *testing.T) {
	server := loginBackend(t)
	defer server.Close()

	creds := client.NewMemoryCredentialStore()
	apiClient := client.New(client.Config{BaseURL: server.URL})
	session := client.NewSessionStore(apiClient, creds, client.SessionConfig{})

	apiClient.SetTokens("stale", "")
	require.NoError(t, creds.Save(client.Snapshot{AccessToken: "stale"}))

	_, err := session.CheckAuth(context.Background())

	require.Error(t, err)
	assert.False(t, session.IsAuthenticated())
	assert.Empty(t, apiClient.AccessToken())
}

func TestFileCredentialStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session.json")
	store := client.NewFileCredentialStore(path)

	_, found, err := store.Load()
	require.NoError(t, err)
	assert.False(t, found)

	saved := client.Snapshot{
		AccessToken:  "tok1",
		RefreshToken: "refresh-1",
		User:         &client.User{ID: "u1", Role: client.RoleMember},
	}
	require.NoError(t, store.Save(saved))

	loaded, found, err := store.Load()
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, saved.AccessToken, loaded.AccessToken)
	assert.Equal(t, saved.User.Role, loaded.User.Role)

	require.NoError(t, store.Clear())
	_, found, err = store.Load()
	require.NoError(t, err)
	assert.False(t, found)

	// Clearing twice stays silent
	require.NoError(t, store.Clear())
}
