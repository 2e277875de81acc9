// Copyright (c) 2026 Sentinelle. All rights reserved.
// Author: dev@sentinelle.app

package payment

import "context"

// Repository defines the data access contract for payments.
type Repository interface {
	// List returns a filtered, paginated slice of payments and the total count.
	List(context context.Context, filter Filter, limit, offset int) ([]*Payment, int, error)

	// FindByID returns the payment with the given ID.
	FindByID(context context.Context, id string) (*Payment, error)

	// Create persists a new pending payment.
	Create(context context.Context, payment *Payment) error

	/*
		Confirm flips a pending payment to confirmed and credits the
		member's spin balance, both inside one transaction.

		Parameters:
		  - context: context.Context
		  - id: string (Payment ID)
		  - spinsEarned: int (Credits computed by the service)

		Returns:
		  - error: apperr.Conflict when the payment is not pending,
		    storage failures otherwise
	*/
	Confirm(context context.Context, id string, spinsEarned int) error

	// Reject flips a pending payment to rejected. Returns apperr.Conflict
	// when the payment has already been reviewed.
	Reject(context context.Context, id string) error
}
