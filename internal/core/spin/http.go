// Copyright (c) 2026 Sentinelle. All rights reserved.
// Author: dev@sentinelle.app

package spin

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

// Handler implements spin HTTP endpoints.
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns a [chi.Router] for wheel endpoints.
//
// # Endpoints
//   - POST /spin                : Turn the wheel.
//   - GET  /balance             : Remaining spin credits.
//   - GET  /history             : Spin history. Members see their own.
//   - GET  /prizes/my           : Won prizes of the caller.
//   - POST /prizes/{id}/claim   : Claim a won prize.
//   - GET  /                    : All spins across members (admin).
//   - POST /prizes/{id}/deliver : Mark hand-over done (admin).
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.RequireAuth)

	router.Post("/spin", handler.spin)
	router.Get("/balance", handler.balance)
	router.Get("/history", handler.history)
	router.Get("/prizes/my", handler.myPrizes)
	router.Post("/prizes/{id}/claim", handler.claim)

	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireRole(sec.RoleAdmin))
		r.Get("/", handler.history)
		r.Post("/prizes/{id}/deliver", handler.deliver)
	})

	return router
}

type spinRequest struct {
	CampaignID     string `json:"campaign_id"`
	IdempotencyKey string `json:"idempotency_key"`
}

/*
Spin turns the wheel once for the authenticated member.

POST /api/v1/spins/spin

Request:
  - Body: spinRequest (CampaignID, IdempotencyKey optional)

Response:
  - 200: SpinResult: Outcome with the prize when won
  - 409: ErrConflict: No credits left or a spin already in progress
  - 422: ErrUnprocessable: Campaign not running
*/
func (handler *Handler) spin(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input spinRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldCampaignID, input.CampaignID).
		UUID(FieldCampaignID, input.CampaignID)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	result, err := handler.service.SpinWheel(request.Context(), SpinInput{
		UserID:         claims.UserID,
		CampaignID:     input.CampaignID,
		IdempotencyKey: input.IdempotencyKey,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, result)
}

// Balance returns the caller's remaining spin credits.
//
// GET /api/v1/spins/balance
func (handler *Handler) balance(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	balance, err := handler.service.Balance(request.Context(), claims.UserID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]int{"balance": balance})
}

/*
History returns a paginated spin history.

GET /api/v1/spins/history?page=&limit=&campaign_id=&wins_only=&user_id=

Description: Members are always scoped to their own spins. Admins see every
member's spins and may narrow to one member through the user_id filter.
*/
func (handler *Handler) history(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	params := pagination.FromRequest(request)

	filter := HistoryFilter{
		CampaignID: request.URL.Query().Get(FieldCampaignID),
		WinsOnly:   request.URL.Query().Get("wins_only") == "true",
	}

	if requestutil.IsAdmin(request) {
		filter.UserID = request.URL.Query().Get("user_id")
	} else {
		filter.UserID = claims.UserID
	}

	spins, total, err := handler.service.History(request.Context(), filter, params.Limit, params.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, spins, pagination.NewMeta(params.Page, params.Limit, total))
}

// MyPrizes lists the caller's won prizes with their hand-over status.
//
// GET /api/v1/spins/prizes/my?page=&limit=
func (handler *Handler) myPrizes(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	params := pagination.FromRequest(request)

	prizes, total, err := handler.service.MyPrizes(request.Context(), claims.UserID, params.Limit, params.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, prizes, pagination.NewMeta(params.Page, params.Limit, total))
}

/*
Claim marks a won prize as claimed by the caller.

POST /api/v1/spins/prizes/{id}/claim

Response:
  - 200: WonPrize: Claimed record
  - 404: ErrNotFound: Unknown or not owned by the caller
  - 409: ErrConflict: Already claimed
*/
func (handler *Handler) claim(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	won, err := handler.service.Claim(request.Context(), requestutil.ID(request, "id"), claims.UserID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, won)
}

/*
Deliver marks a won prize as handed over to the member.

POST /api/v1/spins/prizes/{id}/deliver

Response:
  - 200: WonPrize: Delivered record
  - 409: ErrConflict: Already delivered
*/
func (handler *Handler) deliver(writer http.ResponseWriter, request *http.Request) {
	won, err := handler.service.Deliver(request.Context(), requestutil.ID(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, won)
}
