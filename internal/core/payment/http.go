// Copyright (c) 2026 Sentinelle. All rights reserved.
// Author: dev@sentinelle.app

package payment

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/othinieljo/sentinelle/internal/platform/middleware"
	requestutil "github.com/othinieljo/sentinelle/internal/platform/request"
	"github.com/othinieljo/sentinelle/internal/platform/respond"
	"github.com/othinieljo/sentinelle/internal/platform/sec"
	"github.com/othinieljo/sentinelle/internal/platform/validate"
	"github.com/othinieljo/sentinelle/pkg/pagination"
)

// Handler implements payment HTTP endpoints.
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns a [chi.Router] for payment endpoints.
//
// # Endpoints
//   - GET  /              : Listing. Members see their own, admins see all.
//   - POST /              : Declare a contribution.
//   - GET  /{id}          : Single payment, ownership enforced.
//   - POST /{id}/confirm  : Review approval (admin).
//   - POST /{id}/reject   : Review refusal (admin).
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.RequireAuth)

	router.Get("/", handler.list)
	router.Post("/", handler.declare)
	router.Get("/{id}", handler.get)

	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireRole(sec.RoleAdmin))
		r.Post("/{id}/confirm", handler.confirm)
		r.Post("/{id}/reject", handler.reject)
	})

	return router
}

type declareRequest struct {
	CampaignID string `json:"campaign_id"`
	Amount     int64  `json:"amount"`
	Method     string `json:"method"`
	// UserID lets an administrator record a contribution on behalf of a
	// member. Ignored for non-admin callers.
	UserID string `json:"user_id"`
}

/*
List returns a paginated listing of payments.

GET /api/v1/payments?page=&limit=&status=&campaign_id=&user_id=

Description: Members are always scoped to their own contributions. Admins
see everything and may filter by user.
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	params := pagination.FromRequest(request)

	filter := Filter{
		CampaignID: request.URL.Query().Get(FieldCampaignID),
		Status:     Status(request.URL.Query().Get(FieldStatus)),
	}

	if filter.Status != "" && !filter.Status.IsValid() {
		respond.Error(writer, request, validate.RequiredError(FieldStatus, "must be pending, confirmed or rejected"))
		return
	}

	if requestutil.IsAdmin(request) {
		filter.UserID = request.URL.Query().Get(FieldUserID)
	} else {
		filter.UserID = claims.UserID
	}

	payments, total, err := handler.service.List(request.Context(), filter, params.Limit, params.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, payments, pagination.NewMeta(params.Page, params.Limit, total))
}

/*
Declare records a new pending contribution.

POST /api/v1/payments

Request:
  - Body: declareRequest (CampaignID, Amount, Method, UserID admin-only)

Response:
  - 201: Payment: Pending contribution
  - 422: ErrUnprocessable: Campaign closed or amount below one spin
*/
func (handler *Handler) declare(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input declareRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldCampaignID, input.CampaignID).
		UUID(FieldCampaignID, input.CampaignID).
		Positive(FieldAmount, input.Amount).
		Required(FieldMethod, input.Method).
		OneOf(FieldMethod, input.Method,
			string(MethodCash), string(MethodMobileMoney), string(MethodBankTransfer))

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	// Only admins may declare on behalf of another member
	userID := claims.UserID
	if input.UserID != "" && requestutil.IsAdmin(request) {
		userID = input.UserID
	}

	payment, err := handler.service.Declare(request.Context(), DeclareInput{
		UserID:     userID,
		CampaignID: input.CampaignID,
		Amount:     input.Amount,
		Method:     Method(input.Method),
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, payment)
}

func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	payment, err := handler.service.Get(
		request.Context(),
		requestutil.ID(request, "id"),
		claims.UserID,
		requestutil.IsAdmin(request),
	)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, payment)
}

/*
Confirm approves a pending payment and credits the earned spins.

POST /api/v1/payments/{id}/confirm

Response:
  - 200: Payment: Confirmed contribution with spins_earned
  - 409: ErrConflict: Already reviewed
*/
func (handler *Handler) confirm(writer http.ResponseWriter, request *http.Request) {
	payment, err := handler.service.Confirm(request.Context(), requestutil.ID(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, payment)
}

/*
Reject refuses a pending payment.

POST /api/v1/payments/{id}/reject

Response:
  - 200: Payment: Rejected contribution
  - 409: ErrConflict: Already reviewed
*/
func (handler *Handler) reject(writer http.ResponseWriter, request *http.Request) {
	payment, err := handler.service.Reject(request.Context(), requestutil.ID(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, payment)
}
