// Copyright (c) 2026 Sentinelle. All rights reserved.
// Author: dev@sentinelle.app

package sec_test

import (
	"crypto/rand"
	"crypto/rsa"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/othinieljo/sentinelle/internal/platform/sec"
)

func newTokenService(t *testing.T) *sec.TokenService {
	t.Helper()
	privateKey, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	return sec.NewTokenServiceFromKeys(privateKey, "sentinelle.app")
}

/*
TestToken_RoundTrip verifies sign-then-verify carries the custom claims.
*/
func TestToken_RoundTrip(t *testing.T) {
	service := newTokenService(t)

	token, err := service.GenerateAccessToken("u1", "0712345678", "member", 15*time.Minute)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := service.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "0712345678", claims.PhoneNumber)
	assert.Equal(t, "member", claims.Role)
	assert.Equal(t, "sentinelle.app", claims.Issuer)
}

/*
TestToken_Expired verifies that verification rejects an expired token.
*/
func TestToken_Expired(t *testing.T) {
	service := newTokenService(t)

	token, err := service.GenerateAccessToken("u1", "0712345678", "member", -time.Minute)
	require.NoError(t, err)

	_, err = service.VerifyToken(token)
	assert.Error(t, err)
}

/*
TestToken_WrongKey verifies that a token signed by another key is rejected.
*/
func TestToken_WrongKey(t *testing.T) {
	signer := newTokenService(t)
	verifier := newTokenService(t)

	token, err := signer.GenerateAccessToken("u1", "0712345678", "admin", 15*time.Minute)
	require.NoError(t, err)

	_, err = verifier.VerifyToken(token)
	assert.Error(t, err)
}

/*
TestToken_Garbage verifies that malformed strings are rejected.
*/
func TestToken_Garbage(t *testing.T) {
	service := newTokenService(t)

	_, err := service.VerifyToken("not.a.jwt")
	assert.Error(t, err)
}

/*
TestUserRole_AtLeast verifies the role hierarchy used by RequireRole.
*/
func TestUserRole_AtLeast(t *testing.T) {
	assert.True(t, sec.RoleAdmin.AtLeast(sec.RoleMember))
	assert.True(t, sec.RoleAdmin.AtLeast(sec.RoleAdmin))
	assert.True(t, sec.RoleMember.AtLeast(sec.RoleMember))
	assert.False(t, sec.RoleMember.AtLeast(sec.RoleAdmin))
	assert.False(t, sec.UserRole("ghost").AtLeast(sec.RoleMember))
}

/*
TestUserRole_IsValid verifies the closed role set.
*/
func TestUserRole_IsValid(t *testing.T) {
	assert.True(t, sec.RoleAdmin.IsValid())
	assert.True(t, sec.RoleMember.IsValid())
	assert.False(t, sec.UserRole("superuser").IsValid())
	assert.False(t, sec.UserRole("").IsValid())
}
