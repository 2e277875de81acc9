// Copyright (c) 2026 Sentinelle. All rights reserved.
// Author: dev@sentinelle.app

package spin

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/othinieljo/sentinelle/internal/core/campaign"
	"github.com/othinieljo/sentinelle/internal/core/prize"
	"github.com/othinieljo/sentinelle/internal/platform/apperr"
	"github.com/othinieljo/sentinelle/pkg/uuidv7"
)

// # Contracts & Types

// PrizeCatalog supplies the drawable prize pool. Satisfied by the prize
// repository.
type PrizeCatalog interface {
	List(ctx context.Context, filter prize.Filter, limit, offset int) ([]*prize.Prize, int, error)
}

// CampaignDirectory resolves the campaign a spin belongs to.
type CampaignDirectory interface {
	FindByID(ctx context.Context, id string) (*campaign.Campaign, error)
}

const (
	// spinLockTTL bounds how long a crashed request can hold a member's wheel.
	spinLockTTL = 10 * time.Second

	// idempotencyTTL is how long a replayed key returns the original outcome.
	idempotencyTTL = 24 * time.Hour

	// catalogPageSize caps the drawable pool fetched per spin.
	catalogPageSize = 500

	// maxDrawAttempts bounds redraws when drawn prizes sell out mid-turn.
	maxDrawAttempts = 3
)

// Service orchestrates wheel turns and the won prize lifecycle.
type Service struct {
	repo        Repository
	idempotency IdempotencyStore
	prizes      PrizeCatalog
	campaigns   CampaignDirectory
	wheel       *Wheel
	logger      *slog.Logger
}

// NewService constructs a new [Service] with its dependencies.
func NewService(
	repo Repository,
	idempotency IdempotencyStore,
	prizes PrizeCatalog,
	campaigns CampaignDirectory,
	wheel *Wheel,
	logger *slog.Logger,
) *Service {
	return &Service{
		repo:        repo,
		idempotency: idempotency,
		prizes:      prizes,
		campaigns:   campaigns,
		wheel:       wheel,
		logger:      logger,
	}
}

// # Wheel Turn

// SpinInput identifies who spins on which campaign.
type SpinInput struct {
	UserID     string
	CampaignID string
	// IdempotencyKey deduplicates retried requests. Optional.
	IdempotencyKey string
}

// SpinResult is the outcome handed back to the client.
type SpinResult struct {
	Spin  *Spin        `json:"spin"`
	Prize *prize.Prize `json:"prize,omitempty"`
	// Replayed is true when an idempotency key matched a previous turn
	// and no credit was consumed.
	Replayed bool `json:"replayed"`
}

/*
SpinWheel executes one wheel turn for a member.

Description: Takes a short per-member lock, honors idempotency replays,
validates the campaign window, draws over the active in-stock catalog and
commits the result atomically. When a drawn prize sells out between draw
and commit the turn is redrawn without it.

Parameters:
  - context: context.Context
  - input: SpinInput

Returns:
  - *SpinResult: The turn outcome, replayed or fresh
  - error: Conflict (no credits, wheel busy), Unprocessable (dead campaign)
    or storage failures
*/
func (service *Service) SpinWheel(context context.Context, input SpinInput) (*SpinResult, error) {

	// Replay check before any locking, the common retry path
	if replay, err := service.recallReplay(context, input); replay != nil || err != nil {
		return replay, err
	}

	// One turn at a time per member
	acquired, err := service.idempotency.Lock(context, input.UserID, spinLockTTL)
	if err != nil {
		return nil, err
	}
	if !acquired {
		return nil, apperr.Conflict("A spin is already in progress")
	}
	defer func() { _ = service.idempotency.Unlock(context, input.UserID) }()

	// Second replay check now that the wheel is ours, closes the race
	// where the first attempt committed after our first check
	if replay, err := service.recallReplay(context, input); replay != nil || err != nil {
		return replay, err
	}

	targetCampaign, err := service.campaigns.FindByID(context, input.CampaignID)
	if err != nil {
		return nil, err
	}
	if !targetCampaign.IsRunning(time.Now()) {
		return nil, apperr.Unprocessable("Campaign is not running")
	}

	catalog, _, err := service.prizes.List(context, prize.Filter{InStock: true}, catalogPageSize, 0)
	if err != nil {
		return nil, err
	}

	result, err := service.commitDraw(context, input, catalog)
	if err != nil {
		return nil, err
	}

	if input.IdempotencyKey != "" {
		// Best-effort: losing the memo only risks a deliberate re-spin
		_ = service.idempotency.Remember(context, input.UserID, input.IdempotencyKey, result.Spin.ID, idempotencyTTL)
	}

	service.logger.Info("wheel_spun",
		slog.String("user_id", input.UserID),
		slog.String("spin_id", result.Spin.ID),
		slog.Bool("is_win", result.Spin.IsWin),
	)

	return result, nil
}

// recallReplay resolves an idempotency key into the original turn, if any.
func (service *Service) recallReplay(context context.Context, input SpinInput) (*SpinResult, error) {
	if input.IdempotencyKey == "" {
		return nil, nil
	}

	spinID, err := service.idempotency.Recall(context, input.UserID, input.IdempotencyKey)
	if err != nil || spinID == "" {
		return nil, err
	}

	original, err := service.repo.FindSpinByID(context, spinID)
	if err != nil {
		return nil, err
	}

	return &SpinResult{Spin: original, Replayed: true}, nil
}

// commitDraw draws and persists, redrawing when the prize sold out mid-turn.
func (service *Service) commitDraw(context context.Context, input SpinInput, catalog []*prize.Prize) (*SpinResult, error) {
	for attempt := 0; attempt < maxDrawAttempts; attempt++ {
		outcome := service.wheel.Draw(catalog)

		turn := &Spin{
			ID:         uuidv7.New(),
			UserID:     input.UserID,
			CampaignID: input.CampaignID,
			IsWin:      outcome.IsWin,
		}

		var wonPrize *WonPrize
		if outcome.IsWin {
			turn.PrizeID = &outcome.Prize.ID
			wonPrize = &WonPrize{
				ID:      uuidv7.New(),
				UserID:  input.UserID,
				PrizeID: outcome.Prize.ID,
				SpinID:  turn.ID,
				Status:  WonStatusPending,
			}
		}

		err := service.repo.ExecuteSpin(context, turn, wonPrize)
		if err == nil {
			return &SpinResult{Spin: turn, Prize: outcome.Prize}, nil
		}

		// The drawn prize vanished under us: drop it and redraw
		if errors.Is(err, ErrStockGone) && outcome.Prize != nil {
			catalog = withoutPrize(catalog, outcome.Prize.ID)
			continue
		}

		return nil, err
	}

	return nil, apperr.ServiceUnavailable("The wheel is overloaded, try again")
}

func withoutPrize(catalog []*prize.Prize, id string) []*prize.Prize {
	kept := make([]*prize.Prize, 0, len(catalog))
	for _, p := range catalog {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	return kept
}

// # Queries

func (service *Service) Balance(context context.Context, userID string) (int, error) {
	return service.repo.Balance(context, userID)
}

func (service *Service) History(context context.Context, filter HistoryFilter, limit, offset int) ([]*Spin, int, error) {
	return service.repo.History(context, filter, limit, offset)
}

func (service *Service) MyPrizes(context context.Context, userID string, limit, offset int) ([]*WonPrize, int, error) {
	return service.repo.ListWonPrizes(context, userID, limit, offset)
}

// # Hand-over Lifecycle

/*
Claim marks a won prize as claimed by its owner.

Parameters:
  - context: context.Context
  - wonPrizeID: string
  - requesterID: string (Must own the prize)

Returns:
  - *WonPrize: Updated record
  - error: NotFound (missing or foreign), Conflict (already claimed)
*/
func (service *Service) Claim(context context.Context, wonPrizeID, requesterID string) (*WonPrize, error) {
	won, err := service.repo.FindWonPrizeByID(context, wonPrizeID)
	if err != nil {
		return nil, err
	}

	// Foreign prizes look like they do not exist
	if won.UserID != requesterID {
		return nil, apperr.NotFound("Prize not found")
	}

	if err := service.repo.Claim(context, wonPrizeID); err != nil {
		return nil, err
	}

	now := time.Now()
	won.Status = WonStatusClaimed
	won.ClaimedAt = &now

	service.logger.Info("prize_claimed",
		slog.String("won_prize_id", wonPrizeID),
		slog.String("user_id", requesterID),
	)

	return won, nil
}

/*
Deliver marks a won prize as handed over. Administrators only.

Parameters:
  - context: context.Context
  - wonPrizeID: string

Returns:
  - *WonPrize: Updated record
  - error: NotFound or Conflict (already delivered)
*/
func (service *Service) Deliver(context context.Context, wonPrizeID string) (*WonPrize, error) {
	won, err := service.repo.FindWonPrizeByID(context, wonPrizeID)
	if err != nil {
		return nil, err
	}

	if err := service.repo.Deliver(context, wonPrizeID); err != nil {
		return nil, err
	}

	now := time.Now()
	won.Status = WonStatusDelivered
	won.DeliveredAt = &now

	service.logger.Info("prize_delivered", slog.String("won_prize_id", wonPrizeID))

	return won, nil
}
