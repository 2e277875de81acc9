// Copyright (c) 2026 Sentinelle. All rights reserved.
// Author: dev@sentinelle.app

package auth

import "time"

// # Token Lifetimes

const (
	// AccessTokenTTL is the lifetime of a short-lived JWT access token.
	AccessTokenTTL = 15 * time.Minute
	// RefreshTokenTTL is the lifetime of an opaque refresh token.
	RefreshTokenTTL = 30 * 24 * time.Hour
	// RefreshTokenByteLength is the entropy of a refresh token before hex encoding.
	RefreshTokenByteLength = 32
)

// # Validation Bounds

const (
	MinPasswordLength = 8
	MaxPasswordLength = 72 // bcrypt input limit
	MaxNameLength     = 100
)
