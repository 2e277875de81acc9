// Copyright (c) 2026 Sentinelle. All rights reserved.
// Author: dev@sentinelle.app

package prize

import (
	"context"
	"log/slog"

	"github.com/othinieljo/sentinelle/internal/platform/apperr"
	"github.com/othinieljo/sentinelle/pkg/uuidv7"
)

// Service orchestrates prize catalog business rules.
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

func (service *Service) List(context context.Context, filter Filter, limit, offset int) ([]*Prize, int, error) {
	return service.repo.List(context, filter, limit, offset)
}

func (service *Service) Get(context context.Context, id string) (*Prize, error) {
	return service.repo.FindByID(context, id)
}

// CreateInput holds the data required to stock a new prize.
type CreateInput struct {
	Name        string
	Description string
	ImageURL    string
	Weight      int
	Stock       int
	IsActive    bool
}

func (service *Service) Create(context context.Context, input CreateInput) (*Prize, error) {
	if input.Weight <= 0 {
		return nil, apperr.Unprocessable("Prize weight must be positive")
	}
	if input.Stock < 0 {
		return nil, apperr.Unprocessable("Prize stock cannot be negative")
	}

	prize := &Prize{
		ID:          uuidv7.New(),
		Name:        input.Name,
		Description: input.Description,
		ImageURL:    input.ImageURL,
		Weight:      input.Weight,
		Stock:       input.Stock,
		IsActive:    input.IsActive,
	}

	if err := service.repo.Create(context, prize); err != nil {
		return nil, err
	}

	service.logger.Info("prize_created",
		slog.String("prize_id", prize.ID),
		slog.Int("stock", prize.Stock),
	)

	return prize, nil
}

// UpdateInput defines the mutable subset of prize fields.
type UpdateInput struct {
	Name        *string
	Description *string
	ImageURL    *string
	Weight      *int
	Stock       *int
	IsActive    *bool
}

func (service *Service) Update(context context.Context, id string, input UpdateInput) (*Prize, error) {
	prize, err := service.repo.FindByID(context, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		prize.Name = *input.Name
	}
	if input.Description != nil {
		prize.Description = *input.Description
	}
	if input.ImageURL != nil {
		prize.ImageURL = *input.ImageURL
	}
	if input.Weight != nil {
		if *input.Weight <= 0 {
			return nil, apperr.Unprocessable("Prize weight must be positive")
		}
		prize.Weight = *input.Weight
	}
	if input.Stock != nil {
		if *input.Stock < 0 {
			return nil, apperr.Unprocessable("Prize stock cannot be negative")
		}
		prize.Stock = *input.Stock
	}
	if input.IsActive != nil {
		prize.IsActive = *input.IsActive
	}

	if err := service.repo.Update(context, prize); err != nil {
		return nil, err
	}

	service.logger.Info("prize_updated", slog.String("prize_id", id))

	return prize, nil
}

func (service *Service) Delete(context context.Context, id string) error {
	if _, err := service.repo.FindByID(context, id); err != nil {
		return err
	}

	if err := service.repo.SoftDelete(context, id); err != nil {
		return err
	}

	service.logger.Info("prize_deleted", slog.String("prize_id", id))
	return nil
}
