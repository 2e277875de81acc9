// Copyright (c) 2026 Sentinelle. All rights reserved.
// Author: dev@sentinelle.app

package client

import (
	"errors"
	"fmt"
	"net/http"
)

// # Error Taxonomy

// ErrorKind is the closed set of failure classes surfaced by the SDK.
//
// Callers branch on the kind, never on message text. The kind is derived
// from the HTTP status (or the absence of a response), not from parsing
// server error strings.
type ErrorKind string

const (
	// KindNetwork means the server was unreachable or the request timed out.
	KindNetwork ErrorKind = "network"
	// KindUnauthorized means the session is missing, expired or revoked.
	KindUnauthorized ErrorKind = "unauthorized"
	// KindForbidden means the authenticated role lacks permission.
	KindForbidden ErrorKind = "forbidden"
	// KindValidation means the request payload was rejected.
	KindValidation ErrorKind = "validation"
	// KindServer means the backend failed (5xx).
	KindServer ErrorKind = "server"
	// KindUnknown covers every other response.
	KindUnknown ErrorKind = "unknown"
)

// APIError is the normalized error returned by every SDK call.
type APIError struct {
	// Kind classifies the failure for branching.
	Kind ErrorKind

	// StatusCode is the HTTP status, 0 when no response arrived.
	StatusCode int

	// Code is the machine-readable server error code, when present.
	Code string

	// Message is safe to show to the user.
	Message string
}

func (e *APIError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
	return fmt.Sprintf("%s (%d): %s", e.Kind, e.StatusCode, e.Message)
}

// KindOf extracts the [ErrorKind] from any error returned by the SDK.
// Non-SDK errors report [KindUnknown].
func KindOf(err error) ErrorKind {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return KindUnknown
}

// defaultMessages maps each kind to a short user-facing fallback, used
// when the server response carries no message of its own.
var defaultMessages = map[ErrorKind]string{
	KindNetwork:      "Unable to reach the server. Check your connection.",
	KindUnauthorized: "Your session has expired. Please sign in again.",
	KindForbidden:    "You do not have permission to do this.",
	KindValidation:   "Some fields are invalid. Please review and retry.",
	KindServer:       "Something went wrong on our side. Please try again.",
	KindUnknown:      "An unexpected error occurred.",
}

// classifyStatus maps an HTTP status to an [ErrorKind].
func classifyStatus(status int) ErrorKind {
	switch {
	case status == http.StatusUnauthorized:
		return KindUnauthorized
	case status == http.StatusForbidden:
		return KindForbidden
	case status == http.StatusUnprocessableEntity || status == http.StatusBadRequest:
		return KindValidation
	case status >= 500:
		return KindServer
	default:
		return KindUnknown
	}
}

// newAPIError builds an [APIError] for a status, preferring the server's
// message when one was decoded.
func newAPIError(status int, code, message string) *APIError {
	kind := classifyStatus(status)
	if message == "" {
		message = defaultMessages[kind]
	}
	return &APIError{Kind: kind, StatusCode: status, Code: code, Message: message}
}

// newNetworkError wraps a transport-level failure.
func newNetworkError(err error) *APIError {
	return &APIError{Kind: KindNetwork, Message: defaultMessages[KindNetwork] + " (" + err.Error() + ")"}
}
