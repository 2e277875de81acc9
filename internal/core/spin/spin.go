// Copyright (c) 2026 Sentinelle. All rights reserved.
// Author: dev@sentinelle.app

/*
Package spin implements the wheel of fortune.

A spin consumes exactly one credit from the member's balance and produces
either a win (a prize, with stock decremented) or a loss. The debit, the
stock decrement and the result records are committed in one transaction so
no credit can vanish without a recorded outcome.

# Idempotency

Clients may attach an idempotency key to a spin request. Replaying the same
key returns the original outcome instead of consuming another credit, which
protects members on flaky mobile connections.
*/
package spin

import "time"

// # Domain Entities

// Spin is the immutable record of one wheel turn.
type Spin struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	CampaignID string    `json:"campaign_id"`
	PrizeID    *string   `json:"prize_id,omitempty"`
	IsWin      bool      `json:"is_win"`
	CreatedAt  time.Time `json:"created_at"`
}

// WonPrizeStatus tracks a won prize from draw to hand-over.
type WonPrizeStatus string

const (
	// WonStatusPending means the member has not claimed the prize yet.
	WonStatusPending WonPrizeStatus = "pending"
	// WonStatusClaimed means the member asked for the prize.
	WonStatusClaimed WonPrizeStatus = "claimed"
	// WonStatusDelivered means an administrator handed the prize over.
	WonStatusDelivered WonPrizeStatus = "delivered"
)

// WonPrize links a winning spin to its physical hand-over lifecycle.
type WonPrize struct {
	ID          string         `json:"id"`
	UserID      string         `json:"user_id"`
	PrizeID     string         `json:"prize_id"`
	SpinID      string         `json:"spin_id"`
	Status      WonPrizeStatus `json:"status"`
	ClaimedAt   *time.Time     `json:"claimed_at,omitempty"`
	DeliveredAt *time.Time     `json:"delivered_at,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`

	// PrizeName is denormalized into listings so the client does not need
	// a second request per row.
	PrizeName string `json:"prize_name,omitempty"`
}

// HistoryFilter narrows spin history listings.
type HistoryFilter struct {
	UserID     string
	CampaignID string
	WinsOnly   bool
}

// # Field Identifiers

const (
	FieldIdempotencyKey = "idempotency_key"
	FieldCampaignID     = "campaign_id"
)
