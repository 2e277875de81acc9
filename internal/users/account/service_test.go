// Copyright (c) 2026 Sentinelle. All rights reserved.
// Author: dev@sentinelle.app

package account_test

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/othinieljo/sentinelle/internal/platform/apperr"
	"github.com/othinieljo/sentinelle/internal/platform/sec"
	"github.com/othinieljo/sentinelle/internal/users/account"
	"github.com/othinieljo/sentinelle/internal/users/auth"
	"github.com/othinieljo/sentinelle/pkg/pointer"
)

// # Fakes

type fakeRepo struct {
	users   map[string]*auth.User
	deleted map[string]bool
}

func newFakeRepo(users ...*auth.User) *fakeRepo {
	repo := &fakeRepo{users: map[string]*auth.User{}, deleted: map[string]bool{}}
	for _, u := range users {
		repo.users[u.ID] = u
	}
	return repo
}

func (r *fakeRepo) List(_ context.Context, filter account.Filter, limit, offset int) ([]*auth.User, int, error) {
	var matched []*auth.User
	for _, u := range r.users {
		if r.deleted[u.ID] {
			continue
		}
		if filter.Role != "" && string(u.Role) != filter.Role {
			continue
		}
		if filter.IsActive != nil && u.IsActive != *filter.IsActive {
			continue
		}
		matched = append(matched, u)
	}
	total := len(matched)
	if offset >= total {
		return nil, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return matched[offset:end], total, nil
}

func (r *fakeRepo) FindByID(_ context.Context, id string) (*auth.User, error) {
	user, ok := r.users[id]
	if !ok || r.deleted[id] {
		return nil, apperr.NotFound("User not found")
	}
	return user, nil
}

func (r *fakeRepo) Create(_ context.Context, user *auth.User) error {
	for _, existing := range r.users {
		if existing.PhoneNumber == user.PhoneNumber {
			return apperr.Conflict("This phone number is already registered")
		}
	}
	r.users[user.ID] = user
	return nil
}

func (r *fakeRepo) Update(_ context.Context, user *auth.User) error {
	r.users[user.ID] = user
	return nil
}

func (r *fakeRepo) UpdatePassword(_ context.Context, userID, newHash string) error {
	if user, ok := r.users[userID]; ok {
		user.PasswordHash = newHash
	}
	return nil
}

func (r *fakeRepo) SoftDelete(_ context.Context, id string) error {
	r.deleted[id] = true
	return nil
}

type fakeRevoker struct {
	revoked []string
}

func (r *fakeRevoker) RevokeAllForUser(_ context.Context, userID string) error {
	r.revoked = append(r.revoked, userID)
	return nil
}

func newService(repo *fakeRepo, revoker *fakeRevoker) *account.Service {
	return account.NewService(repo, revoker, slog.Default())
}

// # Tests

/*
TestService_Create verifies enrollment defaults and duplicate detection.
*/
func TestService_Create(t *testing.T) {
	repo := newFakeRepo()
	service := newService(repo, &fakeRevoker{})

	user, err := service.Create(context.Background(), account.CreateInput{
		PhoneNumber: "0712345678",
		Password:    "s3cret-pass",
		FirstName:   "Awa",
		LastName:    "Diop",
		Role:        sec.RoleMember,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.True(t, user.IsActive)
	assert.Zero(t, user.Balance)
	assert.NotEqual(t, "s3cret-pass", user.PasswordHash)
	assert.True(t, sec.CheckPasswordHash("s3cret-pass", user.PasswordHash))

	_, err = service.Create(context.Background(), account.CreateInput{
		PhoneNumber: "0712345678",
		Password:    "other-pass",
		FirstName:   "Moussa",
		LastName:    "Diop",
		Role:        sec.RoleMember,
	})
	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "CONFLICT", ae.Code)
}

/*
TestService_Update covers partial updates and the deactivation side effect.
*/
func TestService_Update(t *testing.T) {
	user := &auth.User{ID: "u1", PhoneNumber: "0712345678", FirstName: "Awa", LastName: "Diop", Role: sec.RoleMember, IsActive: true}
	repo := newFakeRepo(user)
	revoker := &fakeRevoker{}
	service := newService(repo, revoker)

	updated, err := service.Update(context.Background(), "u1", account.UpdateInput{
		FirstName: pointer.To("Aminata"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Aminata", updated.FirstName)
	assert.Equal(t, "Diop", updated.LastName)
	assert.Empty(t, revoker.revoked)

	// Deactivation kills every live session.
	updated, err = service.Update(context.Background(), "u1", account.UpdateInput{
		IsActive: pointer.To(false),
	})
	require.NoError(t, err)
	assert.False(t, updated.IsActive)
	assert.Equal(t, []string{"u1"}, revoker.revoked)

	// Reactivation does not.
	_, err = service.Update(context.Background(), "u1", account.UpdateInput{
		IsActive: pointer.To(true),
	})
	require.NoError(t, err)
	assert.Len(t, revoker.revoked, 1)

	// Unknown member surfaces a clean 404.
	_, err = service.Update(context.Background(), "ghost", account.UpdateInput{})
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)
}

/*
TestService_Delete verifies the soft delete plus session revocation pair.
*/
func TestService_Delete(t *testing.T) {
	user := &auth.User{ID: "u1", PhoneNumber: "0712345678", Role: sec.RoleMember, IsActive: true}
	repo := newFakeRepo(user)
	revoker := &fakeRevoker{}
	service := newService(repo, revoker)

	require.NoError(t, service.Delete(context.Background(), "u1"))
	assert.True(t, repo.deleted["u1"])
	assert.Equal(t, []string{"u1"}, revoker.revoked)

	// Deleting again is a 404, not a silent success.
	err := service.Delete(context.Background(), "u1")
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)
}

/*
TestService_List checks filter plumbing through to the repository.
*/
func TestService_List(t *testing.T) {
	repo := newFakeRepo(
		&auth.User{ID: "u1", Role: sec.RoleAdmin, IsActive: true},
		&auth.User{ID: "u2", Role: sec.RoleMember, IsActive: true},
		&auth.User{ID: "u3", Role: sec.RoleMember, IsActive: false},
	)
	service := newService(repo, &fakeRevoker{})

	users, total, err := service.List(context.Background(), account.Filter{Role: "member"}, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Len(t, users, 2)

	users, total, err = service.List(context.Background(), account.Filter{IsActive: pointer.To(false)}, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, users, 1)
	assert.Equal(t, "u3", users[0].ID)
}
