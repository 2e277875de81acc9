// Copyright (c) 2026 Sentinelle. All rights reserved.
// Author: dev@sentinelle.app

// Package campaign manages fundraising campaigns, the unit members pay into
// to earn wheel spins.
package campaign

import "time"

// Campaign represents a fundraising drive with a fixed price per spin.
//
// AmountPerSpin is expressed in the community's minor currency unit. A
// confirmed payment of amount A earns floor(A / AmountPerSpin) spins.
type Campaign struct {
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	Slug          string     `json:"slug"`
	Description   string     `json:"description"`
	StartsAt      time.Time  `json:"starts_at"`
	EndsAt        time.Time  `json:"ends_at"`
	AmountPerSpin int64      `json:"amount_per_spin"`
	IsActive      bool       `json:"is_active"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
	DeletedAt     *time.Time `json:"-"`
}

// IsRunning reports whether the campaign accepts payments at the given time.
func (c *Campaign) IsRunning(now time.Time) bool {
	return c.IsActive && !now.Before(c.StartsAt) && now.Before(c.EndsAt)
}

// Filter narrows campaign listings.
type Filter struct {
	Search   string
	IsActive *bool
	// RunningAt keeps only campaigns whose window contains the given instant.
	RunningAt *time.Time
}

// # Field Identifiers

const (
	FieldName          = "name"
	FieldDescription   = "description"
	FieldStartsAt      = "starts_at"
	FieldEndsAt        = "ends_at"
	FieldAmountPerSpin = "amount_per_spin"
)
