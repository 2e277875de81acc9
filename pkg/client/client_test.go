// Copyright (c) 2026 Sentinelle. All rights reserved.
// Author: dev@sentinelle.app

package client_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/othinieljo/sentinelle/pkg/client"
)

func writeData(writer http.ResponseWriter, data any) {
	writer.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(writer).Encode(map[string]any{"data": data})
}

func writeAPIError(writer http.ResponseWriter, status int, code, message string) {
	writer.Header().Set("Content-Type", "application/json")
	writer.WriteHeader(status)
	_ = json.NewEncoder(writer).Encode(map[string]string{"code": code, "error": message})
}

// refreshingBackend serves a protected profile endpoint that accepts only
// the rotated token, and a refresh endpoint that counts its calls.
type refreshingBackend struct {
	refreshCalls atomic.Int64

	// refreshDelay keeps the refresh in flight long enough for
	// concurrent 401s to pile up behind it.
	refreshDelay time.Duration
}

func (backend *refreshingBackend) handler(t *testing.T) http.Handler {
	t.Helper()
	mux := http.NewServeMux()

	mux.HandleFunc("/auth/refresh", func(writer http.ResponseWriter, request *http.Request) {
		backend.refreshCalls.Add(1)
		time.Sleep(backend.refreshDelay)

		var body map[string]string
		assert.NoError(t, json.NewDecoder(request.Body).Decode(&body))
		assert.Equal(t, "refresh-1", body["refresh_token"])

		writeData(writer, map[string]any{
			"access_token":  "tok2",
			"refresh_token": "refresh-2",
			"token_type":    "Bearer",
		})
	})

	mux.HandleFunc("/users/profile", func(writer http.ResponseWriter, request *http.Request) {
		if request.Header.Get("Authorization") != "Bearer tok2" {
			writeAPIError(writer, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid or expired token")
			return
		}
		writeData(writer, client.User{ID: "u1", Role: client.RoleMember})
	})

	return mux
}

func TestConcurrent401sShareOneRefresh(t *testing.T) {
	backend := &refreshingBackend{refreshDelay: 50 * time.Millisecond}
	server := httptest.NewServer(backend.handler(t))
	defer server.Close()

	apiClient := client.New(client.Config{BaseURL: server.URL})
	apiClient.SetTokens("tok1", "refresh-1")

	const callers = 8
	var wg sync.WaitGroup
	errs := make([]error, callers)
	users := make([]*client.User, callers)

	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(slot int) {
			defer wg.Done()
			users[slot], errs[slot] = apiClient.Users().Profile(context.Background())
		}(i)
	}
	wg.Wait()

	assert.EqualValues(t, 1, backend.refreshCalls.Load(), "concurrent 401s must share one refresh call")
	for i := 0; i < callers; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, "u1", users[i].ID, "every retried call must succeed with the rotated token")
	}
	assert.Equal(t, "tok2", apiClient.AccessToken())
	assert.Equal(t, "refresh-2", apiClient.RefreshToken())
}

func TestRetryCarriesRotatedToken(t *testing.T) {
	var seenTokens []string
	var mu sync.Mutex

	mux := http.NewServeMux()
	mux.HandleFunc("/auth/refresh", func(writer http.ResponseWriter, request *http.Request) {
		writeData(writer, map[string]any{"access_token": "tok2", "refresh_token": "refresh-2"})
	})
	mux.HandleFunc("/users/profile", func(writer http.ResponseWriter, request *http.Request) {
		mu.Lock()
		seenTokens = append(seenTokens, request.Header.Get("Authorization"))
		mu.Unlock()

		if request.Header.Get("Authorization") != "Bearer tok2" {
			writeAPIError(writer, http.StatusUnauthorized, "UNAUTHORIZED", "expired")
			return
		}
		writeData(writer, client.User{ID: "u1"})
	})

	server := httptest.NewServer(mux)
	defer server.Close()

	apiClient := client.New(client.Config{BaseURL: server.URL})
	apiClient.SetTokens("tok1", "refresh-1")

	user, err := apiClient.Users().Profile(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "u1", user.ID)
	assert.Equal(t, []string{"Bearer tok1", "Bearer tok2"}, seenTokens)
}

func TestTerminalRefreshFailureClearsTokensAndFiresHook(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/refresh", func(writer http.ResponseWriter, request *http.Request) {
		writeAPIError(writer, http.StatusUnauthorized, "UNAUTHORIZED", "Refresh token revoked")
	})
	mux.HandleFunc("/users/profile", func(writer http.ResponseWriter, request *http.Request) {
		writeAPIError(writer, http.StatusUnauthorized, "UNAUTHORIZED", "expired")
	})

	server := httptest.NewServer(mux)
	defer server.Close()

	hookFired := false
	apiClient := client.New(client.Config{
		BaseURL:    server.URL,
		OnAuthLost: func() { hookFired = true },
	})
	apiClient.SetTokens("tok1", "refresh-1")

	_, err := apiClient.Users().Profile(context.Background())

	require.Error(t, err)
	assert.Equal(t, client.KindUnauthorized, client.KindOf(err))
	assert.True(t, hookFired)
	assert.Empty(t, apiClient.AccessToken())
	assert.Empty(t, apiClient.RefreshToken())
}

func TestLogin401DoesNotTriggerRefresh(t *testing.T) {
	var refreshCalls atomic.Int64

	mux := http.NewServeMux()
	mux.HandleFunc("/auth/refresh", func(writer http.ResponseWriter, request *http.Request) {
		refreshCalls.Add(1)
		writeData(writer, map[string]any{"access_token": "tok2"})
	})
	mux.HandleFunc("/auth/login", func(writer http.ResponseWriter, request *http.Request) {
		writeAPIError(writer, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid phone number or password")
	})

	server := httptest.NewServer(mux)
	defer server.Close()

	apiClient := client.New(client.Config{BaseURL: server.URL})
	session := client.NewSessionStore(apiClient, client.NewMemoryCredentialStore(), client.SessionConfig{})

	_, err := session.Login(context.Background(), "0712345678", "wrong")

	require.Error(t, err)
	assert.Equal(t, client.KindUnauthorized, client.KindOf(err))
	assert.EqualValues(t, 0, refreshCalls.Load(), "a failed login is not an expired session")
}

func TestErrorClassification(t *testing.T) {
	cases := []struct {
		name   string
		status int
		kind   client.ErrorKind
	}{
		{"forbidden", http.StatusForbidden, client.KindForbidden},
		{"validation", http.StatusUnprocessableEntity, client.KindValidation},
		{"bad request", http.StatusBadRequest, client.KindValidation},
		{"server", http.StatusInternalServerError, client.KindServer},
		{"conflict is unknown", http.StatusConflict, client.KindUnknown},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
				writeAPIError(writer, tc.status, "X", "boom")
			}))
			defer server.Close()

			apiClient := client.New(client.Config{BaseURL: server.URL})
			apiClient.SetTokens("tok1", "refresh-1")

			_, err := apiClient.Prizes().Get(context.Background(), "p1")

			require.Error(t, err)
			assert.Equal(t, tc.kind, client.KindOf(err))
		})
	}
}

func TestNetworkFailureClassifiedAsNetwork(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	server.Close() // connection refused from here on

	apiClient := client.New(client.Config{BaseURL: server.URL})

	_, err := apiClient.Campaigns().List(context.Background(), client.ListOptions{})

	require.Error(t, err)
	assert.Equal(t, client.KindNetwork, client.KindOf(err))
}

func TestListDecodesPaginationEnvelope(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "2", request.URL.Query().Get("page"))
		assert.Equal(t, "noel", request.URL.Query().Get("search"))

		writer.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(writer).Encode(map[string]any{
			"data": []client.Campaign{{ID: "c1", Name: "Tombola"}},
			"meta": client.Meta{Page: 2, Limit: 20, Total: 21, TotalPages: 2},
		})
	}))
	defer server.Close()

	apiClient := client.New(client.Config{BaseURL: server.URL})
	apiClient.SetTokens("tok1", "")

	page, err := apiClient.Campaigns().List(context.Background(), client.ListOptions{Page: 2, Search: "noel"})

	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "c1", page.Items[0].ID)
	assert.Equal(t, 21, page.Meta.Total)
}

func TestPerCallContextCancellation(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		<-release
	}))
	defer server.Close()
	defer close(release)

	apiClient := client.New(client.Config{BaseURL: server.URL})

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	_, err := apiClient.Spins().Balance(ctx)

	require.Error(t, err)
	assert.Equal(t, client.KindNetwork, client.KindOf(err))
}
