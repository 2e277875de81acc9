// Copyright (c) 2026 Sentinelle. All rights reserved.
// Author: dev@sentinelle.app

package prize

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/othinieljo/sentinelle/internal/platform/middleware"
	requestutil "github.com/othinieljo/sentinelle/internal/platform/request"
	"github.com/othinieljo/sentinelle/internal/platform/respond"
	"github.com/othinieljo/sentinelle/internal/platform/sec"
	"github.com/othinieljo/sentinelle/internal/platform/validate"
	"github.com/othinieljo/sentinelle/pkg/pagination"
	"github.com/othinieljo/sentinelle/pkg/query"
)

// Handler implements prize catalog HTTP endpoints.
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns a [chi.Router] for prize endpoints.
//
// Reads are open to any authenticated member so the wheel screen can render
// the catalog. Writes are admin only.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.RequireAuth)

	router.Get("/", handler.list)
	router.Get("/{id}", handler.get)

	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireRole(sec.RoleAdmin))
		r.Post("/", handler.create)
		r.Patch("/{id}", handler.update)
		r.Delete("/{id}", handler.delete)
	})

	return router
}

type createRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url"`
	Weight      int    `json:"weight"`
	Stock       int    `json:"stock"`
	IsActive    bool   `json:"is_active"`
}

type updateRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	ImageURL    *string `json:"image_url"`
	Weight      *int    `json:"weight"`
	Stock       *int    `json:"stock"`
	IsActive    *bool   `json:"is_active"`
}

/*
List returns a paginated listing of the prize catalog.

GET /api/v1/prizes?page=&limit=&search=&is_active=&in_stock=true
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)

	filter := Filter{
		Search:   request.URL.Query().Get("search"),
		IsActive: query.Bool(request.URL.Query().Get("is_active")),
	}
	if inStock := query.Bool(request.URL.Query().Get("in_stock")); inStock != nil {
		filter.InStock = *inStock
	}

	prizes, total, err := handler.service.List(request.Context(), filter, params.Limit, params.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, prizes, pagination.NewMeta(params.Page, params.Limit, total))
}

func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	prize, err := handler.service.Get(request.Context(), requestutil.ID(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, prize)
}

func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	var input createRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldName, input.Name).
		MaxLen(FieldName, input.Name, 200).
		Custom(FieldWeight, input.Weight <= 0, "must be positive").
		Custom(FieldStock, input.Stock < 0, "cannot be negative")

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	prize, err := handler.service.Create(request.Context(), CreateInput{
		Name:        input.Name,
		Description: input.Description,
		ImageURL:    input.ImageURL,
		Weight:      input.Weight,
		Stock:       input.Stock,
		IsActive:    input.IsActive,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, prize)
}

func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	var input updateRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	prize, err := handler.service.Update(request.Context(), requestutil.ID(request, "id"), UpdateInput(input))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, prize)
}

func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	if err := handler.service.Delete(request.Context(), requestutil.ID(request, "id")); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}
