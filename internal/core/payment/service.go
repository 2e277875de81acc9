// Copyright (c) 2026 Sentinelle. All rights reserved.
// Author: dev@sentinelle.app

package payment

import (
	"context"
	"log/slog"
	"time"

	"github.com/othinieljo/sentinelle/internal/core/campaign"
	"github.com/othinieljo/sentinelle/internal/platform/apperr"
	"github.com/othinieljo/sentinelle/pkg/uuidv7"
)

// # Contracts & Types

// CampaignDirectory resolves the campaign a payment contributes to.
type CampaignDirectory interface {
	FindByID(ctx context.Context, id string) (*campaign.Campaign, error)
}

// Service orchestrates the payment review pipeline.
type Service struct {
	repo      Repository
	campaigns CampaignDirectory
	logger    *slog.Logger
	now       func() time.Time
}

// NewService constructs a new [Service] with its dependencies.
func NewService(repo Repository, campaigns CampaignDirectory, logger *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		campaigns: campaigns,
		logger:    logger,
		now:       time.Now,
	}
}

// SpinsForAmount computes how many spins a contribution earns at the given
// campaign rate. Remainders are kept by the campaign, not carried over.
func SpinsForAmount(amount, amountPerSpin int64) int {
	if amountPerSpin <= 0 {
		return 0
	}
	return int(amount / amountPerSpin)
}

// # Declaration Flow

// DeclareInput holds the data required to record a contribution.
type DeclareInput struct {
	UserID     string
	CampaignID string
	Amount     int64
	Method     Method
}

/*
Declare records a new pending contribution.

Description: Validates that the target campaign is currently running and
that the amount can buy at least one spin, then persists the payment in the
pending state for administrator review.

Parameters:
  - context: context.Context
  - input: DeclareInput

Returns:
  - *Payment: The pending contribution
  - error: Unprocessable (dead campaign, amount too small) or storage failures
*/
func (service *Service) Declare(context context.Context, input DeclareInput) (*Payment, error) {
	targetCampaign, err := service.campaigns.FindByID(context, input.CampaignID)
	if err != nil {
		return nil, err
	}

	if !targetCampaign.IsRunning(service.now()) {
		return nil, apperr.Unprocessable("Campaign is not accepting payments")
	}

	if SpinsForAmount(input.Amount, targetCampaign.AmountPerSpin) < 1 {
		return nil, apperr.Unprocessable("Amount is below the price of one spin")
	}

	payment := &Payment{
		ID:         uuidv7.New(),
		UserID:     input.UserID,
		CampaignID: input.CampaignID,
		Amount:     input.Amount,
		Method:     input.Method,
		Status:     StatusPending,
	}

	if err := service.repo.Create(context, payment); err != nil {
		return nil, err
	}

	service.logger.Info("payment_declared",
		slog.String("payment_id", payment.ID),
		slog.String("user_id", payment.UserID),
		slog.Int64("amount", payment.Amount),
	)

	return payment, nil
}

// # Review Flow

/*
Confirm validates a pending payment and credits the earned spins.

Description: The spin count is computed against the campaign rate at
confirmation time, then the status flip and the balance credit are applied
atomically by the repository. Confirming an already-reviewed payment is a
conflict, never a double credit.

Parameters:
  - context: context.Context
  - id: string (Payment ID)

Returns:
  - *Payment: The confirmed contribution with its spin count
  - error: Conflict, not found or storage failures
*/
func (service *Service) Confirm(context context.Context, id string) (*Payment, error) {
	payment, err := service.repo.FindByID(context, id)
	if err != nil {
		return nil, err
	}

	if payment.Status != StatusPending {
		return nil, apperr.Conflict("Payment has already been reviewed")
	}

	targetCampaign, err := service.campaigns.FindByID(context, payment.CampaignID)
	if err != nil {
		return nil, err
	}

	spinsEarned := SpinsForAmount(payment.Amount, targetCampaign.AmountPerSpin)

	if err := service.repo.Confirm(context, id, spinsEarned); err != nil {
		return nil, err
	}

	payment.Status = StatusConfirmed
	payment.SpinsEarned = spinsEarned

	service.logger.Info("payment_confirmed",
		slog.String("payment_id", id),
		slog.String("user_id", payment.UserID),
		slog.Int("spins_earned", spinsEarned),
	)

	return payment, nil
}

/*
Reject refuses a pending payment. No spins are credited.

Parameters:
  - context: context.Context
  - id: string (Payment ID)

Returns:
  - *Payment: The rejected contribution
  - error: Conflict, not found or storage failures
*/
func (service *Service) Reject(context context.Context, id string) (*Payment, error) {
	payment, err := service.repo.FindByID(context, id)
	if err != nil {
		return nil, err
	}

	if err := service.repo.Reject(context, id); err != nil {
		return nil, err
	}

	payment.Status = StatusRejected

	service.logger.Info("payment_rejected",
		slog.String("payment_id", id),
		slog.String("user_id", payment.UserID),
	)

	return payment, nil
}

// # Queries

func (service *Service) List(context context.Context, filter Filter, limit, offset int) ([]*Payment, int, error) {
	return service.repo.List(context, filter, limit, offset)
}

/*
Get returns a single payment, enforcing ownership for non-admin callers.

Parameters:
  - context: context.Context
  - id: string (Payment ID)
  - requesterID: string (Authenticated caller)
  - isAdmin: bool

Returns:
  - *Payment: The contribution
  - error: NotFound when missing or owned by someone else
*/
func (service *Service) Get(context context.Context, id, requesterID string, isAdmin bool) (*Payment, error) {
	payment, err := service.repo.FindByID(context, id)
	if err != nil {
		return nil, err
	}

	// Members cannot see each other's contributions. NotFound, not
	// Forbidden, to avoid leaking payment IDs.
	if !isAdmin && payment.UserID != requesterID {
		return nil, apperr.NotFound("Payment not found")
	}

	return payment, nil
}
