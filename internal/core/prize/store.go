// Copyright (c) 2026 Sentinelle. All rights reserved.
// Author: dev@sentinelle.app

package prize

import "context"

// Repository defines the data access contract for the prize catalog.
type Repository interface {
	// List returns a filtered, paginated slice of prizes and the total count.
	List(context context.Context, filter Filter, limit, offset int) ([]*Prize, int, error)

	// FindByID returns the prize with the given ID.
	FindByID(context context.Context, id string) (*Prize, error)

	// Create persists a new prize.
	Create(context context.Context, prize *Prize) error

	// Update persists changes to a prize's mutable fields.
	Update(context context.Context, prize *Prize) error

	// AdjustStock atomically adds delta to the stock, refusing to go negative.
	// Returns apperr.Conflict when the adjustment would empty an already
	// empty shelf.
	AdjustStock(context context.Context, id string, delta int) error

	// SoftDelete marks a prize as deleted without physical row removal.
	SoftDelete(context context.Context, id string) error
}
