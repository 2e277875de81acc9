// Copyright (c) 2026 Sentinelle. All rights reserved.
// Author: dev@sentinelle.app

/*
Package account implements administration and self-service of user accounts.

It builds on the identity entities defined in [auth] and adds the member
directory the back office works with: listing, enrollment, profile edits,
activation toggles and retention-friendly deletion.

# Architecture

  - Service: Orchestrates directory business rules.
  - Repository: Postgres-backed access to the users.account table.
  - Handler: REST delivery, admin-gated except for the profile endpoint.
*/
package account

import (
	"context"

	"github.com/othinieljo/sentinelle/internal/users/auth"
)

// # Directory Data Access

// Filter narrows the member directory listing.
type Filter struct {
	// Search matches against phone number, first name and last name.
	Search string
	// Role restricts to a single role when non-empty.
	Role string
	// IsActive restricts by activation state when non-nil.
	IsActive *bool
}

// Repository defines the data access contract for the account directory.
type Repository interface {

	/*
		List returns a filtered, paginated slice of users and the total count.

		Parameters:
		  - context: context.Context
		  - filter: Filter (Criteria for search, role, activation)
		  - limit: int
		  - offset: int

		Returns:
		  - []*auth.User: Slice of matching accounts
		  - int: Total count of records matching the filter
		  - error: Database retrieval failures
	*/
	List(context context.Context, filter Filter, limit, offset int) ([]*auth.User, int, error)

	/*
		FindByID returns the user with the given ID.

		Parameters:
		  - context: context.Context
		  - id: string (UUIDv7)

		Returns:
		  - *auth.User: The hydrated account
		  - error: apperr.NotFound if missing or soft-deleted
	*/
	FindByID(context context.Context, id string) (*auth.User, error)

	/*
		Create persists a new account.

		Parameters:
		  - context: context.Context
		  - user: *auth.User

		Returns:
		  - error: Conflict on duplicate phone number or storage failures
	*/
	Create(context context.Context, user *auth.User) error

	/*
		Update persists changes to an account's mutable fields
		(names, role, activation state).

		Parameters:
		  - context: context.Context
		  - user: *auth.User

		Returns:
		  - error: Storage failures
	*/
	Update(context context.Context, user *auth.User) error

	/*
		UpdatePassword replaces the stored password hash.

		Parameters:
		  - context: context.Context
		  - userID: string
		  - newHash: string

		Returns:
		  - error: Execution failures
	*/
	UpdatePassword(context context.Context, userID, newHash string) error

	/*
		SoftDelete marks an account as deleted without physical row removal.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - error: State update failures
	*/
	SoftDelete(context context.Context, id string) error
}

// # Field Identifiers

const (
	FieldSearch   = "search"
	FieldRole     = "role"
	FieldIsActive = "is_active"
	FieldBalance  = "balance"
)
