// Copyright (c) 2026 Sentinelle. All rights reserved.
// Author: dev@sentinelle.app

package auth

import "context"

// # Repository Contracts

// UserRepository defines persistence operations the auth service needs on users.
type UserRepository interface {
	// FindByPhone retrieves an active user by phone number.
	// Returns dberr.ErrNotFound when no such user exists.
	FindByPhone(ctx context.Context, phoneNumber string) (*User, error)

	// FindByID retrieves a user by primary key.
	FindByID(ctx context.Context, id string) (*User, error)

	// UpdateLastLogin stamps the user's last successful login time.
	UpdateLastLogin(ctx context.Context, id string) error
}

// SessionRepository defines persistence operations for refresh-token sessions.
type SessionRepository interface {
	// Create stores a new session. The token is stored hashed, never in clear.
	Create(ctx context.Context, session *Session) error

	// FindByTokenHash retrieves a non-revoked, non-expired session by token hash.
	// Returns dberr.ErrNotFound when the token is unknown, revoked or expired.
	FindByTokenHash(ctx context.Context, tokenHash string) (*Session, error)

	// Revoke marks the session identified by token hash as revoked.
	// Revoking an unknown token is not an error.
	Revoke(ctx context.Context, tokenHash string) error

	// RevokeAllForUser revokes every session belonging to a user.
	RevokeAllForUser(ctx context.Context, userID string) error

	// DeleteExpired removes sessions past their expiry. Returns rows removed.
	DeleteExpired(ctx context.Context) (int64, error)
}
