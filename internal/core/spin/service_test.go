// Copyright (c) 2026 Sentinelle. All rights reserved.
// Author: dev@sentinelle.app

package spin_test

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/othinieljo/sentinelle/internal/core/campaign"
	"github.com/othinieljo/sentinelle/internal/core/prize"
	"github.com/othinieljo/sentinelle/internal/core/spin"
	"github.com/othinieljo/sentinelle/internal/platform/apperr"
)

// # Fakes

type fakeSpinRepo struct {
	spins     map[string]*spin.Spin
	wonPrizes map[string]*spin.WonPrize
	balances  map[string]int

	// stockGoneFor makes ExecuteSpin fail with ErrStockGone for the prize
	// ID, once per entry.
	stockGoneFor map[string]int
	executed     int
}

func newFakeSpinRepo() *fakeSpinRepo {
	return &fakeSpinRepo{
		spins:        map[string]*spin.Spin{},
		wonPrizes:    map[string]*spin.WonPrize{},
		balances:     map[string]int{},
		stockGoneFor: map[string]int{},
	}
}

func (r *fakeSpinRepo) ExecuteSpin(_ context.Context, turn *spin.Spin, wonPrize *spin.WonPrize) error {
	r.executed++

	if r.balances[turn.UserID] <= 0 {
		return spin.ErrNoCredits
	}

	if turn.PrizeID != nil && r.stockGoneFor[*turn.PrizeID] > 0 {
		r.stockGoneFor[*turn.PrizeID]--
		return spin.ErrStockGone
	}

	r.balances[turn.UserID]--
	turn.CreatedAt = time.Now()
	r.spins[turn.ID] = turn
	if wonPrize != nil {
		r.wonPrizes[wonPrize.ID] = wonPrize
	}
	return nil
}

func (r *fakeSpinRepo) FindSpinByID(_ context.Context, id string) (*spin.Spin, error) {
	turn, ok := r.spins[id]
	if !ok {
		return nil, apperr.NotFound("Spin not found")
	}
	return turn, nil
}

func (r *fakeSpinRepo) History(_ context.Context, filter spin.HistoryFilter, _, _ int) ([]*spin.Spin, int, error) {
	var matched []*spin.Spin
	for _, turn := range r.spins {
		if filter.UserID != "" && turn.UserID != filter.UserID {
			continue
		}
		if filter.WinsOnly && !turn.IsWin {
			continue
		}
		matched = append(matched, turn)
	}
	return matched, len(matched), nil
}

func (r *fakeSpinRepo) Balance(_ context.Context, userID string) (int, error) {
	return r.balances[userID], nil
}

func (r *fakeSpinRepo) ListWonPrizes(_ context.Context, userID string, _, _ int) ([]*spin.WonPrize, int, error) {
	var matched []*spin.WonPrize
	for _, won := range r.wonPrizes {
		if won.UserID == userID {
			matched = append(matched, won)
		}
	}
	return matched, len(matched), nil
}

func (r *fakeSpinRepo) FindWonPrizeByID(_ context.Context, id string) (*spin.WonPrize, error) {
	won, ok := r.wonPrizes[id]
	if !ok {
		return nil, apperr.NotFound("Prize not found")
	}
	return won, nil
}

func (r *fakeSpinRepo) Claim(_ context.Context, id string) error {
	won := r.wonPrizes[id]
	if won.Status != spin.WonStatusPending {
		return apperr.Conflict("Prize has already been claimed")
	}
	won.Status = spin.WonStatusClaimed
	return nil
}

func (r *fakeSpinRepo) Deliver(_ context.Context, id string) error {
	won := r.wonPrizes[id]
	if won.Status == spin.WonStatusDelivered {
		return apperr.Conflict("Prize has already been delivered")
	}
	won.Status = spin.WonStatusDelivered
	return nil
}

type fakeIdempotency struct {
	memos  map[string]string
	locked map[string]bool

	// lockDenied simulates a concurrent holder.
	lockDenied bool
}

func newFakeIdempotency() *fakeIdempotency {
	return &fakeIdempotency{memos: map[string]string{}, locked: map[string]bool{}}
}

func (s *fakeIdempotency) Remember(_ context.Context, userID, key, spinID string, _ time.Duration) error {
	s.memos[userID+":"+key] = spinID
	return nil
}

func (s *fakeIdempotency) Recall(_ context.Context, userID, key string) (string, error) {
	return s.memos[userID+":"+key], nil
}

func (s *fakeIdempotency) Lock(_ context.Context, userID string, _ time.Duration) (bool, error) {
	if s.lockDenied || s.locked[userID] {
		return false, nil
	}
	s.locked[userID] = true
	return true, nil
}

func (s *fakeIdempotency) Unlock(_ context.Context, userID string) error {
	delete(s.locked, userID)
	return nil
}

type fakePrizeCatalog struct {
	prizes []*prize.Prize
}

func (c *fakePrizeCatalog) List(_ context.Context, filter prize.Filter, _, _ int) ([]*prize.Prize, int, error) {
	var matched []*prize.Prize
	for _, p := range c.prizes {
		if filter.InStock && p.Stock <= 0 {
			continue
		}
		matched = append(matched, p)
	}
	return matched, len(matched), nil
}

type fakeCampaignDirectory struct {
	campaigns map[string]*campaign.Campaign
}

func (d *fakeCampaignDirectory) FindByID(_ context.Context, id string) (*campaign.Campaign, error) {
	c, ok := d.campaigns[id]
	if !ok {
		return nil, apperr.NotFound("Campaign not found")
	}
	return c, nil
}

// # Fixture

type spinFixture struct {
	service     *spin.Service
	repo        *fakeSpinRepo
	idempotency *fakeIdempotency
	catalog     *fakePrizeCatalog
}

const (
	memberID  = "user-1"
	runningID = "campaign-running"
	closedID  = "campaign-closed"
	winTicket = 0
	lossEvery = -1
)

func newSpinFixture(t *testing.T, ticket int) *spinFixture {
	t.Helper()

	now := time.Now()
	directory := &fakeCampaignDirectory{campaigns: map[string]*campaign.Campaign{
		runningID: {
			ID:       runningID,
			IsActive: true,
			StartsAt: now.Add(-time.Hour),
			EndsAt:   now.Add(time.Hour),
		},
		closedID: {
			ID:       closedID,
			IsActive: true,
			StartsAt: now.Add(-2 * time.Hour),
			EndsAt:   now.Add(-time.Hour),
		},
	}}

	repo := newFakeSpinRepo()
	repo.balances[memberID] = 3

	idempotency := newFakeIdempotency()

	catalog := &fakePrizeCatalog{prizes: []*prize.Prize{
		{ID: "prize-1", Name: "Basket", Weight: 10, Stock: 2, IsActive: true},
	}}

	var wheel *spin.Wheel
	if ticket == lossEvery {
		// A ticket past every prize slice always lands on loss
		wheel = spin.NewWheelWithSource(90, func(n int) int { return n - 1 })
	} else {
		wheel = spin.NewWheelWithSource(90, func(int) int { return ticket })
	}

	service := spin.NewService(repo, idempotency, catalog, directory, wheel, slog.Default())

	return &spinFixture{service: service, repo: repo, idempotency: idempotency, catalog: catalog}
}

// # Wheel Turn

func TestSpinWheelWin(t *testing.T) {
	fixture := newSpinFixture(t, winTicket)

	result, err := fixture.service.SpinWheel(context.Background(), spin.SpinInput{
		UserID:     memberID,
		CampaignID: runningID,
	})

	require.NoError(t, err)
	assert.True(t, result.Spin.IsWin)
	require.NotNil(t, result.Prize)
	assert.Equal(t, "prize-1", result.Prize.ID)
	assert.False(t, result.Replayed)
	assert.Equal(t, 2, fixture.repo.balances[memberID])
	assert.Len(t, fixture.repo.wonPrizes, 1)
	assert.False(t, fixture.idempotency.locked[memberID], "wheel lock must be released")
}

func TestSpinWheelLoss(t *testing.T) {
	fixture := newSpinFixture(t, lossEvery)

	result, err := fixture.service.SpinWheel(context.Background(), spin.SpinInput{
		UserID:     memberID,
		CampaignID: runningID,
	})

	require.NoError(t, err)
	assert.False(t, result.Spin.IsWin)
	assert.Nil(t, result.Prize)
	assert.Equal(t, 2, fixture.repo.balances[memberID], "a loss still consumes a credit")
	assert.Empty(t, fixture.repo.wonPrizes)
}

func TestSpinWheelNoCredits(t *testing.T) {
	fixture := newSpinFixture(t, winTicket)
	fixture.repo.balances[memberID] = 0

	_, err := fixture.service.SpinWheel(context.Background(), spin.SpinInput{
		UserID:     memberID,
		CampaignID: runningID,
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, spin.ErrNoCredits)
	assert.False(t, fixture.idempotency.locked[memberID])
}

func TestSpinWheelClosedCampaign(t *testing.T) {
	fixture := newSpinFixture(t, winTicket)

	_, err := fixture.service.SpinWheel(context.Background(), spin.SpinInput{
		UserID:     memberID,
		CampaignID: closedID,
	})

	require.Error(t, err)
	assert.Equal(t, 3, fixture.repo.balances[memberID], "no credit consumed on a dead campaign")
}

func TestSpinWheelLockContention(t *testing.T) {
	fixture := newSpinFixture(t, winTicket)
	fixture.idempotency.lockDenied = true

	_, err := fixture.service.SpinWheel(context.Background(), spin.SpinInput{
		UserID:     memberID,
		CampaignID: runningID,
	})

	require.Error(t, err)
	assert.Equal(t, 0, fixture.repo.executed, "no turn may commit while the wheel is held")
}

func TestSpinWheelIdempotentReplay(t *testing.T) {
	fixture := newSpinFixture(t, winTicket)
	input := spin.SpinInput{
		UserID:         memberID,
		CampaignID:     runningID,
		IdempotencyKey: "retry-abc",
	}

	first, err := fixture.service.SpinWheel(context.Background(), input)
	require.NoError(t, err)

	second, err := fixture.service.SpinWheel(context.Background(), input)
	require.NoError(t, err)

	assert.True(t, second.Replayed)
	assert.Equal(t, first.Spin.ID, second.Spin.ID)
	assert.Equal(t, 2, fixture.repo.balances[memberID], "replay must not consume a second credit")
	assert.Equal(t, 1, fixture.repo.executed)
}

func TestSpinWheelRedrawsWhenStockVanishes(t *testing.T) {
	fixture := newSpinFixture(t, winTicket)
	fixture.catalog.prizes = append(fixture.catalog.prizes,
		&prize.Prize{ID: "prize-2", Name: "Voucher", Weight: 10, Stock: 5, IsActive: true})

	// prize-1 sells out between the draw and the commit
	fixture.repo.stockGoneFor["prize-1"] = 1

	result, err := fixture.service.SpinWheel(context.Background(), spin.SpinInput{
		UserID:     memberID,
		CampaignID: runningID,
	})

	require.NoError(t, err)
	require.True(t, result.Spin.IsWin)
	assert.Equal(t, "prize-2", result.Prize.ID, "redraw must exclude the exhausted prize")
	assert.Equal(t, 2, fixture.repo.executed)
}

func TestSpinWheelGivesUpAfterRepeatedStockLoss(t *testing.T) {
	fixture := newSpinFixture(t, winTicket)
	fixture.repo.stockGoneFor["prize-1"] = 10

	_, err := fixture.service.SpinWheel(context.Background(), spin.SpinInput{
		UserID:     memberID,
		CampaignID: runningID,
	})

	require.Error(t, err)
	assert.Equal(t, 3, fixture.repo.balances[memberID])
}

// # Hand-over Lifecycle

func TestClaimOwnPrize(t *testing.T) {
	fixture := newSpinFixture(t, winTicket)
	fixture.repo.wonPrizes["won-1"] = &spin.WonPrize{
		ID:     "won-1",
		UserID: memberID,
		Status: spin.WonStatusPending,
	}

	won, err := fixture.service.Claim(context.Background(), "won-1", memberID)

	require.NoError(t, err)
	assert.Equal(t, spin.WonStatusClaimed, won.Status)
	require.NotNil(t, won.ClaimedAt)
}

func TestClaimForeignPrizeLooksMissing(t *testing.T) {
	fixture := newSpinFixture(t, winTicket)
	fixture.repo.wonPrizes["won-1"] = &spin.WonPrize{
		ID:     "won-1",
		UserID: "someone-else",
		Status: spin.WonStatusPending,
	}

	_, err := fixture.service.Claim(context.Background(), "won-1", memberID)

	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)
	assert.Equal(t, spin.WonStatusPending, fixture.repo.wonPrizes["won-1"].Status)
}

func TestClaimTwiceConflicts(t *testing.T) {
	fixture := newSpinFixture(t, winTicket)
	fixture.repo.wonPrizes["won-1"] = &spin.WonPrize{
		ID:     "won-1",
		UserID: memberID,
		Status: spin.WonStatusClaimed,
	}

	_, err := fixture.service.Claim(context.Background(), "won-1", memberID)

	require.Error(t, err)
	assert.Equal(t, "CONFLICT", apperr.As(err).Code)
}

func TestDeliverPrize(t *testing.T) {
	fixture := newSpinFixture(t, winTicket)
	fixture.repo.wonPrizes["won-1"] = &spin.WonPrize{
		ID:     "won-1",
		UserID: memberID,
		Status: spin.WonStatusClaimed,
	}

	won, err := fixture.service.Deliver(context.Background(), "won-1")

	require.NoError(t, err)
	assert.Equal(t, spin.WonStatusDelivered, won.Status)
	require.NotNil(t, won.DeliveredAt)

	_, err = fixture.service.Deliver(context.Background(), "won-1")
	require.Error(t, err)
	assert.Equal(t, "CONFLICT", apperr.As(err).Code)
}
