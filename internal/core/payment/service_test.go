// Copyright (c) 2026 Sentinelle. All rights reserved.
// Author: dev@sentinelle.app

package payment_test

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/othinieljo/sentinelle/internal/core/campaign"
	"github.com/othinieljo/sentinelle/internal/core/payment"
	"github.com/othinieljo/sentinelle/internal/platform/apperr"
)

// # Fakes

type fakeRepo struct {
	payments map[string]*payment.Payment
	credited map[string]int // userID -> spins credited through Confirm
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{payments: map[string]*payment.Payment{}, credited: map[string]int{}}
}

func (r *fakeRepo) List(_ context.Context, filter payment.Filter, limit, offset int) ([]*payment.Payment, int, error) {
	var matched []*payment.Payment
	for _, p := range r.payments {
		if filter.UserID != "" && p.UserID != filter.UserID {
			continue
		}
		if filter.Status != "" && p.Status != filter.Status {
			continue
		}
		matched = append(matched, p)
	}
	return matched, len(matched), nil
}

func (r *fakeRepo) FindByID(_ context.Context, id string) (*payment.Payment, error) {
	p, ok := r.payments[id]
	if !ok {
		return nil, apperr.NotFound("Payment not found")
	}
	return p, nil
}

func (r *fakeRepo) Create(_ context.Context, p *payment.Payment) error {
	r.payments[p.ID] = p
	return nil
}

func (r *fakeRepo) Confirm(_ context.Context, id string, spinsEarned int) error {
	p, ok := r.payments[id]
	if !ok || p.Status != payment.StatusPending {
		return apperr.Conflict("Payment has already been reviewed")
	}
	p.Status = payment.StatusConfirmed
	p.SpinsEarned = spinsEarned
	r.credited[p.UserID] += spinsEarned
	return nil
}

func (r *fakeRepo) Reject(_ context.Context, id string) error {
	p, ok := r.payments[id]
	if !ok || p.Status != payment.StatusPending {
		return apperr.Conflict("Payment has already been reviewed")
	}
	p.Status = payment.StatusRejected
	return nil
}

type fakeCampaigns struct {
	campaigns map[string]*campaign.Campaign
}

func (f *fakeCampaigns) FindByID(_ context.Context, id string) (*campaign.Campaign, error) {
	c, ok := f.campaigns[id]
	if !ok {
		return nil, apperr.NotFound("Campaign not found")
	}
	return c, nil
}

func runningCampaign(id string, amountPerSpin int64) *campaign.Campaign {
	now := time.Now()
	return &campaign.Campaign{
		ID:            id,
		Name:          "Kermesse",
		AmountPerSpin: amountPerSpin,
		StartsAt:      now.Add(-time.Hour),
		EndsAt:        now.Add(time.Hour),
		IsActive:      true,
	}
}

func newService(repo *fakeRepo, campaigns ...*campaign.Campaign) *payment.Service {
	directory := &fakeCampaigns{campaigns: map[string]*campaign.Campaign{}}
	for _, c := range campaigns {
		directory.campaigns[c.ID] = c
	}
	return payment.NewService(repo, directory, slog.Default())
}

// # Tests

/*
TestSpinsForAmount checks the flooring rule for spin credit computation.
*/
func TestSpinsForAmount(t *testing.T) {
	tests := []struct {
		name          string
		amount        int64
		amountPerSpin int64
		want          int
	}{
		{"exact_multiple", 1500, 500, 3},
		{"remainder_dropped", 1499, 500, 2},
		{"below_one_spin", 499, 500, 0},
		{"exactly_one", 500, 500, 1},
		{"zero_rate_guard", 1000, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, payment.SpinsForAmount(tt.amount, tt.amountPerSpin))
		})
	}
}

/*
TestService_Declare covers campaign window and minimum amount rules.
*/
func TestService_Declare(t *testing.T) {
	running := runningCampaign("c1", 500)

	closed := runningCampaign("c2", 500)
	closed.IsActive = false

	repo := newFakeRepo()
	service := newService(repo, running, closed)

	declared, err := service.Declare(context.Background(), payment.DeclareInput{
		UserID: "u1", CampaignID: "c1", Amount: 1500, Method: payment.MethodMobileMoney,
	})
	require.NoError(t, err)
	assert.Equal(t, payment.StatusPending, declared.Status)
	assert.Zero(t, declared.SpinsEarned)

	_, err = service.Declare(context.Background(), payment.DeclareInput{
		UserID: "u1", CampaignID: "c2", Amount: 1500, Method: payment.MethodCash,
	})
	require.Error(t, err)
	assert.Equal(t, "UNPROCESSABLE", apperr.As(err).Code)

	_, err = service.Declare(context.Background(), payment.DeclareInput{
		UserID: "u1", CampaignID: "c1", Amount: 499, Method: payment.MethodCash,
	})
	require.Error(t, err)
	assert.Equal(t, "UNPROCESSABLE", apperr.As(err).Code)
}

/*
TestService_Confirm verifies spin crediting and double-review protection.
*/
func TestService_Confirm(t *testing.T) {
	repo := newFakeRepo()
	service := newService(repo, runningCampaign("c1", 500))

	declared, err := service.Declare(context.Background(), payment.DeclareInput{
		UserID: "u1", CampaignID: "c1", Amount: 1750, Method: payment.MethodCash,
	})
	require.NoError(t, err)

	confirmed, err := service.Confirm(context.Background(), declared.ID)
	require.NoError(t, err)
	assert.Equal(t, payment.StatusConfirmed, confirmed.Status)
	assert.Equal(t, 3, confirmed.SpinsEarned)
	assert.Equal(t, 3, repo.credited["u1"])

	// A second confirmation must not credit again.
	_, err = service.Confirm(context.Background(), declared.ID)
	require.Error(t, err)
	assert.Equal(t, "CONFLICT", apperr.As(err).Code)
	assert.Equal(t, 3, repo.credited["u1"])
}

/*
TestService_Reject verifies refusal and review finality.
*/
func TestService_Reject(t *testing.T) {
	repo := newFakeRepo()
	service := newService(repo, runningCampaign("c1", 500))

	declared, err := service.Declare(context.Background(), payment.DeclareInput{
		UserID: "u1", CampaignID: "c1", Amount: 1000, Method: payment.MethodCash,
	})
	require.NoError(t, err)

	rejected, err := service.Reject(context.Background(), declared.ID)
	require.NoError(t, err)
	assert.Equal(t, payment.StatusRejected, rejected.Status)
	assert.Zero(t, repo.credited["u1"])

	// A rejected payment cannot be confirmed afterwards.
	_, err = service.Confirm(context.Background(), declared.ID)
	require.Error(t, err)
	assert.Equal(t, "CONFLICT", apperr.As(err).Code)
}

/*
TestService_Get enforces ownership scoping for members.
*/
func TestService_Get(t *testing.T) {
	repo := newFakeRepo()
	service := newService(repo, runningCampaign("c1", 500))

	declared, err := service.Declare(context.Background(), payment.DeclareInput{
		UserID: "u1", CampaignID: "c1", Amount: 1000, Method: payment.MethodCash,
	})
	require.NoError(t, err)

	got, err := service.Get(context.Background(), declared.ID, "u1", false)
	require.NoError(t, err)
	assert.Equal(t, declared.ID, got.ID)

	// Another member sees a 404, not a 403.
	_, err = service.Get(context.Background(), declared.ID, "u2", false)
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)

	// Admins see everything.
	_, err = service.Get(context.Background(), declared.ID, "admin", true)
	require.NoError(t, err)
}
