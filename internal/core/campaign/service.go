// Copyright (c) 2026 Sentinelle. All rights reserved.
// Author: dev@sentinelle.app

package campaign

import (
	"context"
	"log/slog"
	"time"

	"github.com/othinieljo/sentinelle/internal/platform/apperr"
	"github.com/othinieljo/sentinelle/pkg/slug"
	"github.com/othinieljo/sentinelle/pkg/uuidv7"
)

// Service orchestrates campaign lifecycle business rules.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

func (service *Service) List(context context.Context, filter Filter, limit, offset int) ([]*Campaign, int, error) {
	return service.repo.List(context, filter, limit, offset)
}

func (service *Service) Get(context context.Context, id string) (*Campaign, error) {
	return service.repo.FindByID(context, id)
}

func (service *Service) GetBySlug(context context.Context, campaignSlug string) (*Campaign, error) {
	return service.repo.FindBySlug(context, campaignSlug)
}

// CreateInput holds the data required to open a new campaign.
type CreateInput struct {
	Name          string
	Description   string
	StartsAt      time.Time
	EndsAt        time.Time
	AmountPerSpin int64
	IsActive      bool
}

// Create opens a new campaign. The slug is derived from the name and must
// not collide with a live campaign.
func (service *Service) Create(context context.Context, input CreateInput) (*Campaign, error) {
	if !input.EndsAt.After(input.StartsAt) {
		return nil, apperr.Unprocessable("Campaign must end after it starts")
	}

	campaignSlug := slug.From(input.Name)
	if _, err := service.repo.FindBySlug(context, campaignSlug); err == nil {
		return nil, apperr.Conflict("A campaign with this name already exists")
	}

	campaign := &Campaign{
		ID:            uuidv7.New(),
		Name:          input.Name,
		Slug:          campaignSlug,
		Description:   input.Description,
		StartsAt:      input.StartsAt,
		EndsAt:        input.EndsAt,
		AmountPerSpin: input.AmountPerSpin,
		IsActive:      input.IsActive,
	}

	if err := service.repo.Create(context, campaign); err != nil {
		return nil, err
	}

	service.logger.Info("campaign_created",
		slog.String("campaign_id", campaign.ID),
		slog.String("slug", campaign.Slug),
	)

	return campaign, nil
}

// UpdateInput defines the mutable subset of campaign fields.
type UpdateInput struct {
	Name          *string
	Description   *string
	StartsAt      *time.Time
	EndsAt        *time.Time
	AmountPerSpin *int64
	IsActive      *bool
}

// Update applies a partial set of changes to a campaign. The slug is frozen
// at creation so payment references stay stable.
func (service *Service) Update(context context.Context, id string, input UpdateInput) (*Campaign, error) {
	campaign, err := service.repo.FindByID(context, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		campaign.Name = *input.Name
	}
	if input.Description != nil {
		campaign.Description = *input.Description
	}
	if input.StartsAt != nil {
		campaign.StartsAt = *input.StartsAt
	}
	if input.EndsAt != nil {
		campaign.EndsAt = *input.EndsAt
	}
	if input.AmountPerSpin != nil {
		if *input.AmountPerSpin <= 0 {
			return nil, apperr.Unprocessable("Amount per spin must be positive")
		}
		campaign.AmountPerSpin = *input.AmountPerSpin
	}
	if input.IsActive != nil {
		campaign.IsActive = *input.IsActive
	}

	if !campaign.EndsAt.After(campaign.StartsAt) {
		return nil, apperr.Unprocessable("Campaign must end after it starts")
	}

	if err := service.repo.Update(context, campaign); err != nil {
		return nil, err
	}

	service.logger.Info("campaign_updated", slog.String("campaign_id", id))

	return campaign, nil
}

// Delete soft-deletes a campaign. Historical payments keep pointing at the
// archived row.
func (service *Service) Delete(context context.Context, id string) error {
	if _, err := service.repo.FindByID(context, id); err != nil {
		return err
	}

	if err := service.repo.SoftDelete(context, id); err != nil {
		return err
	}

	service.logger.Info("campaign_deleted", slog.String("campaign_id", id))
	return nil
}
