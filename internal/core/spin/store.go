// Copyright (c) 2026 Sentinelle. All rights reserved.
// Author: dev@sentinelle.app

package spin

import (
	"context"
	"time"

	"github.com/othinieljo/sentinelle/internal/platform/apperr"
)

// # Guard Failures

var (
	// ErrNoCredits is returned when a member spins with an empty balance.
	ErrNoCredits = apperr.Conflict("No spin credits remaining")

	// ErrStockGone is returned when the drawn prize ran out of stock
	// between the draw and the commit.
	ErrStockGone = apperr.Conflict("Prize stock exhausted")
)

// # Repository Contracts

// Repository defines the persistence contract for spins and won prizes.
type Repository interface {
	/*
		ExecuteSpin commits one wheel turn atomically: debits one credit
		from the member's balance, decrements the prize stock on a win,
		and records the spin plus the won prize.

		Parameters:
		  - context: context.Context
		  - spin: *Spin (Result record to persist)
		  - wonPrize: *WonPrize (nil on a loss)

		Returns:
		  - error: apperr.Conflict when the balance is empty or the prize
		    stock vanished mid-draw, transactional failures otherwise
	*/
	ExecuteSpin(context context.Context, spin *Spin, wonPrize *WonPrize) error

	// FindSpinByID returns a single spin record.
	FindSpinByID(context context.Context, id string) (*Spin, error)

	// History returns a filtered, paginated slice of spins and the total count.
	History(context context.Context, filter HistoryFilter, limit, offset int) ([]*Spin, int, error)

	// Balance returns the member's remaining spin credits.
	Balance(context context.Context, userID string) (int, error)

	// ListWonPrizes returns a member's won prizes with their hand-over state.
	ListWonPrizes(context context.Context, userID string, limit, offset int) ([]*WonPrize, int, error)

	// FindWonPrizeByID returns a single won prize record.
	FindWonPrizeByID(context context.Context, id string) (*WonPrize, error)

	// Claim flips a pending won prize to claimed. Returns apperr.Conflict
	// when the prize is past the pending state.
	Claim(context context.Context, id string) error

	// Deliver flips a claimed or pending won prize to delivered. Returns
	// apperr.Conflict when already delivered.
	Deliver(context context.Context, id string) error
}

// IdempotencyStore deduplicates spin requests by client key.
type IdempotencyStore interface {
	// Remember stores the spin ID produced for an idempotency key.
	Remember(ctx context.Context, userID, key, spinID string, ttl time.Duration) error

	// Recall returns the spin ID previously stored for the key, or ""
	// when the key is unknown.
	Recall(ctx context.Context, userID, key string) (string, error)

	// Lock takes a short exclusive lock on the member's wheel so two
	// parallel requests cannot race the same credit. Returns false when
	// the lock is already held.
	Lock(ctx context.Context, userID string, ttl time.Duration) (bool, error)

	// Unlock releases the member's wheel lock.
	Unlock(ctx context.Context, userID string) error
}
