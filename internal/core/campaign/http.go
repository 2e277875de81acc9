// Copyright (c) 2026 Sentinelle. All rights reserved.
// Author: dev@sentinelle.app

package campaign

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/othinieljo/sentinelle/internal/platform/middleware"
	requestutil "github.com/othinieljo/sentinelle/internal/platform/request"
	"github.com/othinieljo/sentinelle/internal/platform/respond"
	"github.com/othinieljo/sentinelle/internal/platform/sec"
	"github.com/othinieljo/sentinelle/internal/platform/validate"
	"github.com/othinieljo/sentinelle/pkg/pagination"
	"github.com/othinieljo/sentinelle/pkg/query"
)

// Handler implements campaign HTTP endpoints.
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns a [chi.Router] for campaign endpoints.
//
// Reads are open to any authenticated member so the wheel screen can show
// the running campaign. Writes are admin only.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.RequireAuth)

	router.Get("/", handler.list)
	router.Get("/{id}", handler.get)
	router.Get("/by-slug/{slug}", handler.getBySlug)

	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireRole(sec.RoleAdmin))
		r.Post("/", handler.create)
		r.Patch("/{id}", handler.update)
		r.Delete("/{id}", handler.delete)
	})

	return router
}

type createRequest struct {
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	StartsAt      time.Time `json:"starts_at"`
	EndsAt        time.Time `json:"ends_at"`
	AmountPerSpin int64     `json:"amount_per_spin"`
	IsActive      bool      `json:"is_active"`
}

type updateRequest struct {
	Name          *string    `json:"name"`
	Description   *string    `json:"description"`
	StartsAt      *time.Time `json:"starts_at"`
	EndsAt        *time.Time `json:"ends_at"`
	AmountPerSpin *int64     `json:"amount_per_spin"`
	IsActive      *bool      `json:"is_active"`
}

/*
List returns a paginated listing of campaigns.

GET /api/v1/campaigns?page=&limit=&search=&is_active=&running=true

Query:
  - search: Matches the campaign name.
  - is_active: true | false
  - running: true restricts to campaigns currently accepting payments.
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)

	filter := Filter{
		Search:   request.URL.Query().Get("search"),
		IsActive: query.Bool(request.URL.Query().Get("is_active")),
	}
	if running := query.Bool(request.URL.Query().Get("running")); running != nil && *running {
		now := time.Now()
		filter.RunningAt = &now
	}

	campaigns, total, err := handler.service.List(request.Context(), filter, params.Limit, params.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, campaigns, pagination.NewMeta(params.Page, params.Limit, total))
}

func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	campaign, err := handler.service.Get(request.Context(), requestutil.ID(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, campaign)
}

func (handler *Handler) getBySlug(writer http.ResponseWriter, request *http.Request) {
	campaign, err := handler.service.GetBySlug(request.Context(), chi.URLParam(request, "slug"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, campaign)
}

/*
Create opens a new campaign.

POST /api/v1/campaigns

Response:
  - 201: Campaign
  - 409: ErrConflict: Name collision
  - 422: ErrUnprocessable: Inverted time window
*/
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	var input createRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldName, input.Name).
		MaxLen(FieldName, input.Name, 200).
		Positive(FieldAmountPerSpin, input.AmountPerSpin).
		Custom(FieldStartsAt, input.StartsAt.IsZero(), "is required").
		Custom(FieldEndsAt, input.EndsAt.IsZero(), "is required")

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	campaign, err := handler.service.Create(request.Context(), CreateInput{
		Name:          input.Name,
		Description:   input.Description,
		StartsAt:      input.StartsAt,
		EndsAt:        input.EndsAt,
		AmountPerSpin: input.AmountPerSpin,
		IsActive:      input.IsActive,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, campaign)
}

func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	var input updateRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	campaign, err := handler.service.Update(request.Context(), requestutil.ID(request, "id"), UpdateInput(input))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, campaign)
}

func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	if err := handler.service.Delete(request.Context(), requestutil.ID(request, "id")); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}
