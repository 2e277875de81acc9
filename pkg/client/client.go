// Copyright (c) 2026 Sentinelle. All rights reserved.
// Author: dev@sentinelle.app

/*
Package client is the official Go SDK for the Sentinelle API.

# Overview

It provides a bearer-token HTTP transport with transparent token refresh,
a session store with a small explicit state machine, a route guard for
consumers that render protected screens, and typed services for every
resource collection.

# Session Handling

The transport attaches the current access token to every request. On a
401 it refreshes the session once (concurrent 401s share a single refresh
call) and retries the original request with the new token. When refresh
itself fails the session is cleared and the configured auth-lost hook
fires; no further automatic retry happens.

All blocking operations take a context.Context so callers can cancel
in-flight requests when the surrounding screen or job goes away.
*/
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// DefaultTimeout bounds every request when the caller supplies no
// [http.Client] of their own.
const DefaultTimeout = 15 * time.Second

const (
	loginPath   = "/auth/login"
	refreshPath = "/auth/refresh"
)

// exemptFromRetry reports whether a 401 on the path must pass through
// untouched. A failed login is a credentials problem, not an expired
// session, and the refresh endpoint must never refresh itself.
func exemptFromRetry(path string) bool {
	return path == loginPath || path == refreshPath
}

// # Client Construction

// Config carries the knobs for [New].
type Config struct {
	// BaseURL is the API root including the version prefix,
	// e.g. "https://api.sentinelle.app/api/v1".
	BaseURL string

	// HTTPClient overrides the default client. Optional.
	HTTPClient *http.Client

	// OnAuthLost fires after a terminal authentication failure has
	// cleared the tokens. Consumers typically redirect to their login
	// screen here. Optional. Never fired by Login itself.
	OnAuthLost func()
}

// Client is the HTTP transport underneath every SDK service.
//
// It is safe for concurrent use.
type Client struct {
	baseURL    string
	httpClient *http.Client
	onAuthLost func()

	mu           sync.RWMutex
	accessToken  string
	refreshToken string

	// refreshGroup collapses concurrent refresh attempts into one call.
	refreshGroup singleflight.Group
}

// New constructs a [Client] for the given API root.
func New(cfg Config) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultTimeout}
	}

	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: httpClient,
		onAuthLost: cfg.OnAuthLost,
	}
}

// # Token Accessors

// SetTokens replaces both tokens. The session store calls this after
// login and rehydration.
func (client *Client) SetTokens(accessToken, refreshToken string) {
	client.mu.Lock()
	defer client.mu.Unlock()
	client.accessToken = accessToken
	client.refreshToken = refreshToken
}

// AccessToken returns the current access token, "" when signed out.
func (client *Client) AccessToken() string {
	client.mu.RLock()
	defer client.mu.RUnlock()
	return client.accessToken
}

// RefreshToken returns the current refresh token, "" when signed out.
func (client *Client) RefreshToken() string {
	client.mu.RLock()
	defer client.mu.RUnlock()
	return client.refreshToken
}

// ClearTokens drops both tokens.
func (client *Client) ClearTokens() {
	client.SetTokens("", "")
}

// # Request Execution

/*
do executes one API call and decodes the response into out.

Description: Attaches the bearer token, classifies failures into the
closed [ErrorKind] set, and on a 401 (for any path except the login and
refresh endpoints) runs one shared refresh then retries the original request
exactly once. A second 401 is terminal: tokens are cleared and the
auth-lost hook fires.

Parameters:
  - ctx: context.Context
  - method: HTTP verb
  - path: API path relative to the base URL
  - query: url.Values (may be nil)
  - body: request payload to marshal (may be nil)
  - out: response target, decoded from the response body (may be nil)

Returns:
  - error: *APIError on any failure
*/
func (client *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	status, err := client.doOnce(ctx, method, path, query, body, out)
	if err == nil {
		return nil
	}

	if status != http.StatusUnauthorized || exemptFromRetry(path) {
		return err
	}

	// One shared refresh, then a single retry with the new token
	if refreshErr := client.refreshSession(ctx); refreshErr != nil {
		client.authLost()
		return err
	}

	_, retryErr := client.doOnce(ctx, method, path, query, body, out)
	if retryErr != nil && KindOf(retryErr) == KindUnauthorized {
		client.authLost()
	}
	return retryErr
}

// doOnce performs a single round trip with no retry logic.
func (client *Client) doOnce(ctx context.Context, method, path string, query url.Values, body, out any) (int, error) {
	endpoint := client.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return 0, &APIError{Kind: KindUnknown, Message: "failed to encode request: " + err.Error()}
		}
		reader = bytes.NewReader(payload)
	}

	request, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return 0, &APIError{Kind: KindUnknown, Message: err.Error()}
	}

	request.Header.Set("Accept", "application/json")
	if body != nil {
		request.Header.Set("Content-Type", "application/json")
	}
	if token := client.AccessToken(); token != "" {
		request.Header.Set("Authorization", "Bearer "+token)
	}

	response, err := client.httpClient.Do(request)
	if err != nil {
		return 0, newNetworkError(err)
	}
	defer response.Body.Close()

	if response.StatusCode >= 200 && response.StatusCode < 300 {
		if out == nil || response.StatusCode == http.StatusNoContent {
			return response.StatusCode, nil
		}
		if err := json.NewDecoder(response.Body).Decode(out); err != nil {
			return response.StatusCode, &APIError{
				Kind:       KindUnknown,
				StatusCode: response.StatusCode,
				Message:    "failed to decode response: " + err.Error(),
			}
		}
		return response.StatusCode, nil
	}

	// Error payloads are best-effort: a missing body still classifies
	var envelope errorEnvelope
	_ = json.NewDecoder(response.Body).Decode(&envelope)

	return response.StatusCode, newAPIError(response.StatusCode, envelope.Code, envelope.Error)
}

// # Token Refresh Coordination

// refreshSession exchanges the refresh token for a new token pair.
//
// Concurrent callers share one in-flight refresh: the first caller
// performs the network call, the rest wait on the same result.
func (client *Client) refreshSession(ctx context.Context) error {
	_, err, _ := client.refreshGroup.Do("refresh", func() (any, error) {
		refreshToken := client.RefreshToken()
		if refreshToken == "" {
			return nil, &APIError{
				Kind:       KindUnauthorized,
				StatusCode: http.StatusUnauthorized,
				Message:    defaultMessages[KindUnauthorized],
			}
		}

		var envelope dataEnvelope[loginPayload]
		_, err := client.doOnce(ctx, http.MethodPost, refreshPath, nil,
			map[string]string{"refresh_token": refreshToken}, &envelope)
		if err != nil {
			return nil, err
		}

		client.SetTokens(envelope.Data.AccessToken, envelope.Data.RefreshToken)
		return nil, nil
	})
	return err
}

// authLost clears the tokens and fires the configured hook.
func (client *Client) authLost() {
	client.ClearTokens()
	if client.onAuthLost != nil {
		client.onAuthLost()
	}
}
