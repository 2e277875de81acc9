// Copyright (c) 2026 Sentinelle. All rights reserved.
// Author: dev@sentinelle.app

// Package prize manages the wheel's prize catalog.
package prize

import "time"

// Prize represents a physical reward stocked for the wheel.
//
// Weight drives the draw probability relative to the other active prizes
// and the configured loss weight. Stock is decremented atomically when a
// spin wins, so a prize with zero stock can never be drawn.
type Prize struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	ImageURL    string     `json:"image_url"`
	Weight      int        `json:"weight"`
	Stock       int        `json:"stock"`
	IsActive    bool       `json:"is_active"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	DeletedAt   *time.Time `json:"-"`
}

// IsDrawable reports whether the prize can appear on the wheel.
func (p *Prize) IsDrawable() bool {
	return p.IsActive && p.Stock > 0 && p.Weight > 0
}

// Filter narrows prize listings.
type Filter struct {
	Search   string
	IsActive *bool
	// InStock keeps only prizes with remaining stock when true.
	InStock bool
}

// # Field Identifiers

const (
	FieldName     = "name"
	FieldImageURL = "image_url"
	FieldWeight   = "weight"
	FieldStock    = "stock"
)
