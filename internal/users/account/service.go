// Copyright (c) 2026 Sentinelle. All rights reserved.
// Author: dev@sentinelle.app

package account

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/othinieljo/sentinelle/internal/platform/apperr"
	"github.com/othinieljo/sentinelle/internal/platform/sec"
	"github.com/othinieljo/sentinelle/internal/users/auth"
	"github.com/othinieljo/sentinelle/pkg/uuidv7"
)

// # Service Layer

// SessionRevoker kills every active session of a user. Used when an account
// is deactivated or deleted so stale refresh tokens stop working immediately.
type SessionRevoker interface {
	RevokeAllForUser(ctx context.Context, userID string) error
}

// Service orchestrates business logic for the member directory.
type Service struct {
	accountRepository Repository
	sessionRevoker    SessionRevoker
	logger            *slog.Logger
}

// NewService constructs a new [Service] with its repository dependencies.
func NewService(accountRepo Repository, sessionRevoker SessionRevoker, logger *slog.Logger) *Service {
	return &Service{
		accountRepository: accountRepo,
		sessionRevoker:    sessionRevoker,
		logger:            logger,
	}
}

// # Directory Management

/*
List returns a page of the member directory.

Parameters:
  - context: context.Context
  - filter: Filter
  - limit: int
  - offset: int

Returns:
  - []*auth.User: Matching accounts
  - int: Total matching count
  - error: Retrieval failures
*/
func (service *Service) List(context context.Context, filter Filter, limit, offset int) ([]*auth.User, int, error) {
	users, total, err := service.accountRepository.List(context, filter, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("account_service_list_failed: %w", err)
	}
	return users, total, nil
}

// CreateInput holds the data an administrator provides to enroll a member.
type CreateInput struct {
	PhoneNumber string
	Password    string
	FirstName   string
	LastName    string
	Role        sec.UserRole
}

/*
Create enrolls a new member into the community.

Description: Hashes the initial password and persists the account. New
members start active with an empty spin balance.

Parameters:
  - context: context.Context
  - input: CreateInput

Returns:
  - *auth.User: Created account
  - error: Conflict (duplicate phone) or storage failures
*/
func (service *Service) Create(context context.Context, input CreateInput) (*auth.User, error) {

	// Prevent storing plain-text passwords. Default cost is used for balance
	// between security and CPU utilization during enrollment spikes.
	hashedPassword, err := sec.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("account_service_hash_failed: %w", err)
	}

	// Time-sortable ID to prevent PG index fragmentation.
	user := &auth.User{
		ID:           uuidv7.New(),
		PhoneNumber:  input.PhoneNumber,
		PasswordHash: hashedPassword,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Role:         input.Role,
		Balance:      0,
		IsActive:     true,
	}

	if err := service.accountRepository.Create(context, user); err != nil {
		return nil, err
	}

	service.logger.Info("member_enrolled",
		slog.String("user_id", user.ID),
		slog.String("role", string(user.Role)),
	)

	return user, nil
}

/*
GetProfile retrieves the full private identity of a user.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - *auth.User: The hydrated user profile
  - error: Not found or execution failures
*/
func (service *Service) GetProfile(context context.Context, userID string) (*auth.User, error) {
	user, err := service.accountRepository.FindByID(context, userID)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// UpdateInput defines the mutable subset of account fields.
type UpdateInput struct {
	FirstName *string
	LastName  *string
	Role      *sec.UserRole
	IsActive  *bool
	Password  *string
}

/*
Update applies a partial set of changes to a member's account.

Description: Fetches the existing state, overrides provided fields, and
synchronizes the change to persistent storage. Deactivating an account
revokes every active session as a security side effect.

Parameters:
  - context: context.Context
  - userID: string
  - input: UpdateInput

Returns:
  - *auth.User: The updated account
  - error: Update or storage failures
*/
func (service *Service) Update(context context.Context, userID string, input UpdateInput) (*auth.User, error) {

	user, err := service.accountRepository.FindByID(context, userID)
	if err != nil {
		return nil, err
	}

	deactivated := false

	// Apply delta updates
	if input.FirstName != nil {
		user.FirstName = *input.FirstName
	}

	// Apply delta updates
	if input.LastName != nil {
		user.LastName = *input.LastName
	}

	// Apply delta updates
	if input.Role != nil {
		if !input.Role.IsValid() {
			return nil, apperr.Unprocessable("Unknown role")
		}
		user.Role = *input.Role
	}

	// Apply delta updates
	if input.IsActive != nil {
		deactivated = user.IsActive && !*input.IsActive
		user.IsActive = *input.IsActive
	}

	// Persist changes
	if err := service.accountRepository.Update(context, user); err != nil {
		return nil, fmt.Errorf("account_service_update_failed: %w", err)
	}

	// Admin-driven password reset
	if input.Password != nil {
		hashedPassword, err := sec.HashPassword(*input.Password)
		if err != nil {
			return nil, fmt.Errorf("account_service_update_hash_failed: %w", err)
		}
		if err := service.accountRepository.UpdatePassword(context, userID, hashedPassword); err != nil {
			return nil, fmt.Errorf("account_service_update_password_failed: %w", err)
		}
	}

	// Security Side Effect: a deactivated member loses all live sessions
	if deactivated {
		_ = service.sessionRevoker.RevokeAllForUser(context, userID)
	}

	service.logger.Info("member_updated", slog.String("user_id", userID))

	return user, nil
}

/*
Delete soft-deletes a member account and revokes their sessions.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - error: Not found or storage failures
*/
func (service *Service) Delete(context context.Context, userID string) error {

	// Surface a clean 404 for unknown or already-deleted accounts
	if _, err := service.accountRepository.FindByID(context, userID); err != nil {
		return err
	}

	if err := service.accountRepository.SoftDelete(context, userID); err != nil {
		return fmt.Errorf("account_service_delete_failed: %w", err)
	}

	_ = service.sessionRevoker.RevokeAllForUser(context, userID)

	service.logger.Info("member_deleted", slog.String("user_id", userID))

	return nil
}
