// Copyright (c) 2026 Sentinelle. All rights reserved.
// Author: dev@sentinelle.app

package client

import "time"

// # Wire Types
//
// These mirror the server's JSON representations field for field. The SDK
// never invents fields the API does not return.

// Role values as the API reports them.
const (
	RoleAdmin  = "admin"
	RoleMember = "member"
)

// User is the member identity record.
type User struct {
	ID          string     `json:"id"`
	PhoneNumber string     `json:"phone_number"`
	FirstName   string     `json:"first_name"`
	LastName    string     `json:"last_name"`
	Role        string     `json:"role"`
	Balance     int        `json:"balance"`
	IsActive    bool       `json:"is_active"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Campaign is a fundraising window with its spin conversion rate.
type Campaign struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Slug          string    `json:"slug"`
	Description   string    `json:"description"`
	StartsAt      time.Time `json:"starts_at"`
	EndsAt        time.Time `json:"ends_at"`
	AmountPerSpin int64     `json:"amount_per_spin"`
	IsActive      bool      `json:"is_active"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Prize is a wheel reward with its draw weight and remaining stock.
type Prize struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	ImageURL    string    `json:"image_url"`
	Weight      int       `json:"weight"`
	Stock       int       `json:"stock"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Payment is a declared contribution and its review state.
type Payment struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	CampaignID  string    `json:"campaign_id"`
	Amount      int64     `json:"amount"`
	Method      string    `json:"method"`
	Status      string    `json:"status"`
	SpinsEarned int       `json:"spins_earned"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Spin is one recorded wheel turn.
type Spin struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	CampaignID string    `json:"campaign_id"`
	PrizeID    *string   `json:"prize_id,omitempty"`
	IsWin      bool      `json:"is_win"`
	CreatedAt  time.Time `json:"created_at"`
}

// WonPrize tracks a winning spin through claim and delivery.
type WonPrize struct {
	ID          string     `json:"id"`
	UserID      string     `json:"user_id"`
	PrizeID     string     `json:"prize_id"`
	SpinID      string     `json:"spin_id"`
	Status      string     `json:"status"`
	ClaimedAt   *time.Time `json:"claimed_at,omitempty"`
	DeliveredAt *time.Time `json:"delivered_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	PrizeName   string     `json:"prize_name,omitempty"`
}

// SpinResult is the outcome of POST /spins.
type SpinResult struct {
	Spin     *Spin  `json:"spin"`
	Prize    *Prize `json:"prize,omitempty"`
	Replayed bool   `json:"replayed"`
}

// # Response Envelopes

// Meta is the pagination metadata block of list responses.
type Meta struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// Page combines one page of results with its metadata.
type Page[T any] struct {
	Items []T
	Meta  Meta
}

type dataEnvelope[T any] struct {
	Data T `json:"data"`
}

type listEnvelope[T any] struct {
	Data []T  `json:"data"`
	Meta Meta `json:"meta"`
}

type errorEnvelope struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// loginPayload is the data block of POST /auth/login and /auth/refresh.
type loginPayload struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
	User         *User  `json:"user"`
}
