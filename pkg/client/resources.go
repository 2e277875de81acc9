// Copyright (c) 2026 Sentinelle. All rights reserved.
// Author: dev@sentinelle.app

package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// # Listing Options

// ListOptions carries the pagination and filter parameters shared by
// every collection endpoint.
type ListOptions struct {
	Page   int
	Limit  int
	Search string

	// Filters holds endpoint-specific query parameters, e.g.
	// {"status": {"pending"}} on payments.
	Filters url.Values
}

func (options ListOptions) query() url.Values {
	values := url.Values{}
	if options.Page > 0 {
		values.Set("page", strconv.Itoa(options.Page))
	}
	if options.Limit > 0 {
		values.Set("limit", strconv.Itoa(options.Limit))
	}
	if options.Search != "" {
		values.Set("search", options.Search)
	}
	for key, filterValues := range options.Filters {
		for _, value := range filterValues {
			values.Add(key, value)
		}
	}
	return values
}

// # Shared Call Helpers

func getOne[T any](ctx context.Context, client *Client, path string) (*T, error) {
	var envelope dataEnvelope[T]
	if err := client.do(ctx, http.MethodGet, path, nil, nil, &envelope); err != nil {
		return nil, err
	}
	return &envelope.Data, nil
}

func getList[T any](ctx context.Context, client *Client, path string, options ListOptions) (*Page[T], error) {
	var envelope listEnvelope[T]
	if err := client.do(ctx, http.MethodGet, path, options.query(), nil, &envelope); err != nil {
		return nil, err
	}
	return &Page[T]{Items: envelope.Data, Meta: envelope.Meta}, nil
}

func postOne[T any](ctx context.Context, client *Client, path string, body any) (*T, error) {
	var envelope dataEnvelope[T]
	if err := client.do(ctx, http.MethodPost, path, nil, body, &envelope); err != nil {
		return nil, err
	}
	return &envelope.Data, nil
}

func patchOne[T any](ctx context.Context, client *Client, path string, body any) (*T, error) {
	var envelope dataEnvelope[T]
	if err := client.do(ctx, http.MethodPatch, path, nil, body, &envelope); err != nil {
		return nil, err
	}
	return &envelope.Data, nil
}

// # Users

// UsersService manages member accounts. Listing and mutation require the
// admin role server-side.
type UsersService struct {
	client *Client
}

func (client *Client) Users() *UsersService {
	return &UsersService{client: client}
}

// CreateUserInput enrolls a new member.
type CreateUserInput struct {
	PhoneNumber string `json:"phone_number"`
	Password    string `json:"password"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Role        string `json:"role,omitempty"`
}

// UpdateUserInput carries a partial account update; nil fields are left
// untouched.
type UpdateUserInput struct {
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
	Role      *string `json:"role,omitempty"`
	IsActive  *bool   `json:"is_active,omitempty"`
	Password  *string `json:"password,omitempty"`
}

func (service *UsersService) List(ctx context.Context, options ListOptions) (*Page[User], error) {
	return getList[User](ctx, service.client, "/users", options)
}

func (service *UsersService) Get(ctx context.Context, id string) (*User, error) {
	return getOne[User](ctx, service.client, "/users/"+id)
}

// Profile returns the caller's own account.
func (service *UsersService) Profile(ctx context.Context) (*User, error) {
	return getOne[User](ctx, service.client, "/users/profile")
}

func (service *UsersService) Create(ctx context.Context, input CreateUserInput) (*User, error) {
	return postOne[User](ctx, service.client, "/users", input)
}

func (service *UsersService) Update(ctx context.Context, id string, input UpdateUserInput) (*User, error) {
	return patchOne[User](ctx, service.client, "/users/"+id, input)
}

func (service *UsersService) Delete(ctx context.Context, id string) error {
	return service.client.do(ctx, http.MethodDelete, "/users/"+id, nil, nil, nil)
}

// # Campaigns

// CampaignsService manages fundraising campaigns.
type CampaignsService struct {
	client *Client
}

func (client *Client) Campaigns() *CampaignsService {
	return &CampaignsService{client: client}
}

// CreateCampaignInput opens a new campaign.
type CreateCampaignInput struct {
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	StartsAt      time.Time `json:"starts_at"`
	EndsAt        time.Time `json:"ends_at"`
	AmountPerSpin int64     `json:"amount_per_spin"`
	IsActive      bool      `json:"is_active"`
}

// UpdateCampaignInput carries a partial campaign update; nil fields are
// left untouched.
type UpdateCampaignInput struct {
	Name          *string    `json:"name,omitempty"`
	Description   *string    `json:"description,omitempty"`
	StartsAt      *time.Time `json:"starts_at,omitempty"`
	EndsAt        *time.Time `json:"ends_at,omitempty"`
	AmountPerSpin *int64     `json:"amount_per_spin,omitempty"`
	IsActive      *bool      `json:"is_active,omitempty"`
}

func (service *CampaignsService) List(ctx context.Context, options ListOptions) (*Page[Campaign], error) {
	return getList[Campaign](ctx, service.client, "/campaigns", options)
}

// Running lists only campaigns currently accepting contributions.
func (service *CampaignsService) Running(ctx context.Context, options ListOptions) (*Page[Campaign], error) {
	if options.Filters == nil {
		options.Filters = url.Values{}
	}
	options.Filters.Set("running", "true")
	return service.List(ctx, options)
}

func (service *CampaignsService) Get(ctx context.Context, id string) (*Campaign, error) {
	return getOne[Campaign](ctx, service.client, "/campaigns/"+id)
}

func (service *CampaignsService) GetBySlug(ctx context.Context, slug string) (*Campaign, error) {
	return getOne[Campaign](ctx, service.client, "/campaigns/by-slug/"+slug)
}

func (service *CampaignsService) Create(ctx context.Context, input CreateCampaignInput) (*Campaign, error) {
	return postOne[Campaign](ctx, service.client, "/campaigns", input)
}

func (service *CampaignsService) Update(ctx context.Context, id string, input UpdateCampaignInput) (*Campaign, error) {
	return patchOne[Campaign](ctx, service.client, "/campaigns/"+id, input)
}

func (service *CampaignsService) Delete(ctx context.Context, id string) error {
	return service.client.do(ctx, http.MethodDelete, "/campaigns/"+id, nil, nil, nil)
}

// # Prizes

// PrizesService manages the wheel's prize catalog.
type PrizesService struct {
	client *Client
}

func (client *Client) Prizes() *PrizesService {
	return &PrizesService{client: client}
}

// CreatePrizeInput adds a catalog entry.
type CreatePrizeInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url"`
	Weight      int    `json:"weight"`
	Stock       int    `json:"stock"`
	IsActive    bool   `json:"is_active"`
}

// UpdatePrizeInput carries a partial prize update; nil fields are left
// untouched.
type UpdatePrizeInput struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	ImageURL    *string `json:"image_url,omitempty"`
	Weight      *int    `json:"weight,omitempty"`
	Stock       *int    `json:"stock,omitempty"`
	IsActive    *bool   `json:"is_active,omitempty"`
}

func (service *PrizesService) List(ctx context.Context, options ListOptions) (*Page[Prize], error) {
	return getList[Prize](ctx, service.client, "/prizes", options)
}

// InStock lists only prizes with remaining stock.
func (service *PrizesService) InStock(ctx context.Context, options ListOptions) (*Page[Prize], error) {
	if options.Filters == nil {
		options.Filters = url.Values{}
	}
	options.Filters.Set("in_stock", "true")
	return service.List(ctx, options)
}

func (service *PrizesService) Get(ctx context.Context, id string) (*Prize, error) {
	return getOne[Prize](ctx, service.client, "/prizes/"+id)
}

func (service *PrizesService) Create(ctx context.Context, input CreatePrizeInput) (*Prize, error) {
	return postOne[Prize](ctx, service.client, "/prizes", input)
}

func (service *PrizesService) Update(ctx context.Context, id string, input UpdatePrizeInput) (*Prize, error) {
	return patchOne[Prize](ctx, service.client, "/prizes/"+id, input)
}

func (service *PrizesService) Delete(ctx context.Context, id string) error {
	return service.client.do(ctx, http.MethodDelete, "/prizes/"+id, nil, nil, nil)
}

// # Payments

// PaymentsService declares and reviews contributions.
type PaymentsService struct {
	client *Client
}

func (client *Client) Payments() *PaymentsService {
	return &PaymentsService{client: client}
}

// DeclarePaymentInput records a contribution. UserID is honored only for
// admin callers declaring on behalf of a member.
type DeclarePaymentInput struct {
	CampaignID string `json:"campaign_id"`
	Amount     int64  `json:"amount"`
	Method     string `json:"method"`
	UserID     string `json:"user_id,omitempty"`
}

func (service *PaymentsService) List(ctx context.Context, options ListOptions) (*Page[Payment], error) {
	return getList[Payment](ctx, service.client, "/payments", options)
}

func (service *PaymentsService) Get(ctx context.Context, id string) (*Payment, error) {
	return getOne[Payment](ctx, service.client, "/payments/"+id)
}

func (service *PaymentsService) Declare(ctx context.Context, input DeclarePaymentInput) (*Payment, error) {
	return postOne[Payment](ctx, service.client, "/payments", input)
}

// Confirm approves a pending payment, crediting the earned spins. Admin only.
func (service *PaymentsService) Confirm(ctx context.Context, id string) (*Payment, error) {
	return postOne[Payment](ctx, service.client, "/payments/"+id+"/confirm", nil)
}

// Reject refuses a pending payment. Admin only.
func (service *PaymentsService) Reject(ctx context.Context, id string) (*Payment, error) {
	return postOne[Payment](ctx, service.client, "/payments/"+id+"/reject", nil)
}

// # Spins

// SpinsService turns the wheel and tracks winnings.
type SpinsService struct {
	client *Client
}

func (client *Client) Spins() *SpinsService {
	return &SpinsService{client: client}
}

// SpinRequest identifies the campaign to spin on. IdempotencyKey makes
// mobile retries safe: replaying the same key returns the original
// outcome without consuming another credit.
type SpinRequest struct {
	CampaignID     string `json:"campaign_id"`
	IdempotencyKey string `json:"idempotency_key,omitempty"`
}

func (service *SpinsService) Spin(ctx context.Context, request SpinRequest) (*SpinResult, error) {
	return postOne[SpinResult](ctx, service.client, "/spins/spin", request)
}

// Balance returns the caller's remaining spin credits.
func (service *SpinsService) Balance(ctx context.Context) (int, error) {
	payload, err := getOne[map[string]int](ctx, service.client, "/spins/balance")
	if err != nil {
		return 0, err
	}
	return (*payload)["balance"], nil
}

func (service *SpinsService) History(ctx context.Context, options ListOptions) (*Page[Spin], error) {
	return getList[Spin](ctx, service.client, "/spins/history", options)
}

// MyPrizes lists the caller's won prizes.
func (service *SpinsService) MyPrizes(ctx context.Context, options ListOptions) (*Page[WonPrize], error) {
	return getList[WonPrize](ctx, service.client, "/spins/prizes/my", options)
}

func (service *SpinsService) Claim(ctx context.Context, wonPrizeID string) (*WonPrize, error) {
	return postOne[WonPrize](ctx, service.client, "/spins/prizes/"+wonPrizeID+"/claim", nil)
}

// Deliver marks a won prize as handed over. Admin only.
func (service *SpinsService) Deliver(ctx context.Context, wonPrizeID string) (*WonPrize, error) {
	return postOne[WonPrize](ctx, service.client, "/spins/prizes/"+wonPrizeID+"/deliver", nil)
}
