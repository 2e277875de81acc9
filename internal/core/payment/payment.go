// Copyright (c) 2026 Sentinelle. All rights reserved.
// Author: dev@sentinelle.app

/*
Package payment manages member contributions to campaigns.

A payment starts pending when declared, then an administrator either
confirms or rejects it. Confirmation is the only path that credits spin
balance: floor(amount / amount_per_spin) spins, computed against the
campaign rate at confirmation time and applied atomically with the status
flip.
*/
package payment

import "time"

// # Status Lifecycle

// Status tracks a payment through the review pipeline.
type Status string

const (
	// StatusPending means the payment awaits administrator review.
	StatusPending Status = "pending"
	// StatusConfirmed means the payment was verified and spins credited.
	StatusConfirmed Status = "confirmed"
	// StatusRejected means the payment was refused. No spins are credited.
	StatusRejected Status = "rejected"
)

// IsValid reports whether the status is one of the known lifecycle states.
func (s Status) IsValid() bool {
	return s == StatusPending || s == StatusConfirmed || s == StatusRejected
}

// # Payment Methods

// Method identifies how the money changed hands.
type Method string

const (
	MethodCash         Method = "cash"
	MethodMobileMoney  Method = "mobile_money"
	MethodBankTransfer Method = "bank_transfer"
)

// IsValid reports whether the method is supported.
func (m Method) IsValid() bool {
	return m == MethodCash || m == MethodMobileMoney || m == MethodBankTransfer
}

// # Domain Entity

// Payment represents a member's contribution to a campaign.
//
// Amount is expressed in the community's minor currency unit. SpinsEarned
// stays zero until confirmation.
type Payment struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	CampaignID  string    `json:"campaign_id"`
	Amount      int64     `json:"amount"`
	Method      Method    `json:"method"`
	Status      Status    `json:"status"`
	SpinsEarned int       `json:"spins_earned"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Filter narrows payment listings.
type Filter struct {
	UserID     string
	CampaignID string
	Status     Status
}

// # Field Identifiers

const (
	FieldCampaignID = "campaign_id"
	FieldUserID     = "user_id"
	FieldAmount     = "amount"
	FieldMethod     = "method"
	FieldStatus     = "status"
)
