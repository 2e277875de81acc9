// Copyright (c) 2026 Sentinelle. All rights reserved.
// Author: dev@sentinelle.app

package campaign

import "context"

// Repository defines the data access contract for campaigns.
type Repository interface {
	// List returns a filtered, paginated slice of campaigns and the total count.
	List(context context.Context, filter Filter, limit, offset int) ([]*Campaign, int, error)

	// FindByID returns the campaign with the given ID.
	FindByID(context context.Context, id string) (*Campaign, error)

	// FindBySlug returns the campaign matching the unique slug.
	FindBySlug(context context.Context, slug string) (*Campaign, error)

	// Create persists a new campaign.
	Create(context context.Context, campaign *Campaign) error

	// Update persists changes to a campaign's mutable fields.
	Update(context context.Context, campaign *Campaign) error

	// SoftDelete marks a campaign as deleted without physical row removal.
	SoftDelete(context context.Context, id string) error
}
