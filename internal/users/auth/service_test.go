// Copyright (c) 2026 Sentinelle. All rights reserved.
// Author: dev@sentinelle.app

package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/othinieljo/sentinelle/internal/platform/apperr"
	"github.com/othinieljo/sentinelle/internal/platform/sec"
	"github.com/othinieljo/sentinelle/internal/users/auth"
	"github.com/othinieljo/sentinelle/pkg/uuidv7"
)

// # Fakes

type fakeUserRepo struct {
	usersByPhone map[string]*auth.User
	usersByID    map[string]*auth.User
	lastLogins   map[string]int
}

func newFakeUserRepo(users ...*auth.User) *fakeUserRepo {
	repo := &fakeUserRepo{
		usersByPhone: map[string]*auth.User{},
		usersByID:    map[string]*auth.User{},
		lastLogins:   map[string]int{},
	}
	for _, u := range users {
		repo.usersByPhone[u.PhoneNumber] = u
		repo.usersByID[u.ID] = u
	}
	return repo
}

func (r *fakeUserRepo) FindByPhone(_ context.Context, phone string) (*auth.User, error) {
	user, ok := r.usersByPhone[phone]
	if !ok {
		return nil, apperr.NotFound("User not found with this phone number")
	}
	return user, nil
}

func (r *fakeUserRepo) FindByID(_ context.Context, id string) (*auth.User, error) {
	user, ok := r.usersByID[id]
	if !ok {
		return nil, apperr.NotFound("User not found")
	}
	return user, nil
}

func (r *fakeUserRepo) UpdateLastLogin(_ context.Context, id string) error {
	r.lastLogins[id]++
	return nil
}

type fakeSessionRepo struct {
	sessions map[string]*auth.Session // keyed by token hash
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: map[string]*auth.Session{}}
}

func (r *fakeSessionRepo) Create(_ context.Context, session *auth.Session) error {
	r.sessions[session.TokenHash] = session
	return nil
}

func (r *fakeSessionRepo) FindByTokenHash(_ context.Context, tokenHash string) (*auth.Session, error) {
	session, ok := r.sessions[tokenHash]
	if !ok || session.IsRevoked || session.ExpiresAt.Before(time.Now()) {
		return nil, apperr.NotFound("Session not found or expired")
	}
	return session, nil
}

func (r *fakeSessionRepo) Revoke(_ context.Context, tokenHash string) error {
	if session, ok := r.sessions[tokenHash]; ok {
		session.IsRevoked = true
	}
	return nil
}

func (r *fakeSessionRepo) RevokeAllForUser(_ context.Context, userID string) error {
	for _, session := range r.sessions {
		if session.UserID == userID {
			session.IsRevoked = true
		}
	}
	return nil
}

func (r *fakeSessionRepo) DeleteExpired(_ context.Context) (int64, error) {
	var removed int64
	for hash, session := range r.sessions {
		if session.ExpiresAt.Before(time.Now()) {
			delete(r.sessions, hash)
			removed++
		}
	}
	return removed, nil
}

type fakeTokenProvider struct {
	issued int
}

func (p *fakeTokenProvider) GenerateAccessToken(userID, _, _ string, _ time.Duration) (string, error) {
	p.issued++
	return "jwt-for-" + userID, nil
}

// # Helpers

func memberUser(password string) *auth.User {
	hash, _ := sec.HashPassword(password)
	return &auth.User{
		ID:           uuidv7.New(),
		PhoneNumber:  "0712345678",
		PasswordHash: hash,
		FirstName:    "Awa",
		LastName:     "Diop",
		Role:         sec.RoleMember,
		Balance:      3,
		IsActive:     true,
	}
}

// # Tests

/*
TestService_Login covers the credential verification and session issuance flow.
*/
func TestService_Login(t *testing.T) {
	user := memberUser("s3cret-pass")

	tests := []struct {
		name     string
		phone    string
		password string
		inactive bool
		wantCode string
	}{
		{"valid_credentials", "0712345678", "s3cret-pass", false, ""},
		{"wrong_password", "0712345678", "wrong", false, "UNAUTHORIZED"},
		{"unknown_phone", "0799999999", "s3cret-pass", false, "UNAUTHORIZED"},
		{"deactivated_account", "0712345678", "s3cret-pass", true, "FORBIDDEN"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user.IsActive = !tt.inactive
			userRepo := newFakeUserRepo(user)
			sessionRepo := newFakeSessionRepo()
			service := auth.NewService(userRepo, sessionRepo, &fakeTokenProvider{})

			session, err := service.Login(context.Background(), auth.LoginInput{
				PhoneNumber: tt.phone,
				Password:    tt.password,
			})

			if tt.wantCode != "" {
				require.Error(t, err)
				ae := apperr.As(err)
				require.NotNil(t, ae)
				assert.Equal(t, tt.wantCode, ae.Code)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, "jwt-for-"+user.ID, session.AccessToken)
			assert.NotEmpty(t, session.RefreshToken)
			assert.Equal(t, user.ID, session.User.ID)
			assert.Len(t, sessionRepo.sessions, 1)
			assert.Equal(t, 1, userRepo.lastLogins[user.ID])
		})
	}
}

/*
TestService_RefreshSession verifies refresh token rotation and replay protection.
*/
func TestService_RefreshSession(t *testing.T) {
	user := memberUser("s3cret-pass")
	userRepo := newFakeUserRepo(user)
	sessionRepo := newFakeSessionRepo()
	service := auth.NewService(userRepo, sessionRepo, &fakeTokenProvider{})

	login, err := service.Login(context.Background(), auth.LoginInput{
		PhoneNumber: user.PhoneNumber,
		Password:    "s3cret-pass",
	})
	require.NoError(t, err)

	rotated, err := service.RefreshSession(context.Background(), login.RefreshToken, "ua", "ip")
	require.NoError(t, err)
	assert.NotEqual(t, login.RefreshToken, rotated.RefreshToken)
	assert.Equal(t, user.ID, rotated.User.ID)

	// The consumed token must be dead: replaying it is rejected.
	_, err = service.RefreshSession(context.Background(), login.RefreshToken, "ua", "ip")
	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "UNAUTHORIZED", ae.Code)

	// The rotated token still works.
	_, err = service.RefreshSession(context.Background(), rotated.RefreshToken, "ua", "ip")
	require.NoError(t, err)
}

/*
TestService_RefreshSession_DeactivatedUser ensures rotation stops once an
account is turned off.
*/
func TestService_RefreshSession_DeactivatedUser(t *testing.T) {
	user := memberUser("s3cret-pass")
	userRepo := newFakeUserRepo(user)
	sessionRepo := newFakeSessionRepo()
	service := auth.NewService(userRepo, sessionRepo, &fakeTokenProvider{})

	login, err := service.Login(context.Background(), auth.LoginInput{
		PhoneNumber: user.PhoneNumber,
		Password:    "s3cret-pass",
	})
	require.NoError(t, err)

	user.IsActive = false

	_, err = service.RefreshSession(context.Background(), login.RefreshToken, "ua", "ip")
	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "FORBIDDEN", ae.Code)
}

/*
TestService_Logout verifies revocation and its idempotency.
*/
func TestService_Logout(t *testing.T) {
	user := memberUser("s3cret-pass")
	userRepo := newFakeUserRepo(user)
	sessionRepo := newFakeSessionRepo()
	service := auth.NewService(userRepo, sessionRepo, &fakeTokenProvider{})

	login, err := service.Login(context.Background(), auth.LoginInput{
		PhoneNumber: user.PhoneNumber,
		Password:    "s3cret-pass",
	})
	require.NoError(t, err)

	require.NoError(t, service.Logout(context.Background(), login.RefreshToken))

	// The session is gone: the token can no longer rotate.
	_, err = service.RefreshSession(context.Background(), login.RefreshToken, "ua", "ip")
	require.Error(t, err)

	// Logging out again, or with garbage, still succeeds.
	assert.NoError(t, service.Logout(context.Background(), login.RefreshToken))
	assert.NoError(t, service.Logout(context.Background(), "not-a-token"))
	assert.NoError(t, service.Logout(context.Background(), ""))
}
