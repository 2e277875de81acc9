// Copyright (c) 2026 Sentinelle. All rights reserved.
// Author: dev@sentinelle.app

package account

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/othinieljo/sentinelle/internal/platform/middleware"
	requestutil "github.com/othinieljo/sentinelle/internal/platform/request"
	"github.com/othinieljo/sentinelle/internal/platform/respond"
	"github.com/othinieljo/sentinelle/internal/platform/sec"
	"github.com/othinieljo/sentinelle/internal/platform/validate"
	"github.com/othinieljo/sentinelle/internal/users/auth"
	"github.com/othinieljo/sentinelle/pkg/pagination"
	"github.com/othinieljo/sentinelle/pkg/query"
)

// # Definitions & Constructors

// Handler implements member directory HTTP endpoints.
type Handler struct {
	accountService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{accountService: service}
}

// Routes returns a [chi.Router] configured with directory routes.
//
// # Endpoints
//   - GET    /profile : Authenticated caller's own profile.
//   - GET    /        : Directory listing (admin).
//   - POST   /        : Member enrollment (admin).
//   - GET    /{id}    : Single member (admin).
//   - PATCH  /{id}    : Partial member update (admin).
//   - DELETE /{id}    : Soft deletion (admin).
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.RequireAuth)

	// Self-service
	router.Get("/profile", handler.profile)

	// Back-office endpoints
	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireRole(sec.RoleAdmin))
		r.Get("/", handler.list)
		r.Post("/", handler.create)
		r.Get("/{id}", handler.get)
		r.Patch("/{id}", handler.update)
		r.Delete("/{id}", handler.delete)
	})

	return router
}

// # Request Payloads

type createRequest struct {
	PhoneNumber string `json:"phone_number"`
	Password    string `json:"password"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Role        string `json:"role"`
}

type updateRequest struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Role      *string `json:"role"`
	IsActive  *bool   `json:"is_active"`
	Password  *string `json:"password"`
}

/*
Profile returns the authenticated caller's own account.

GET /api/v1/users/profile

Response:
  - 200: User: Hydrated profile with current spin balance
  - 401: ErrUnauthorized: Authentication required
*/
func (handler *Handler) profile(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.accountService.GetProfile(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}

/*
List returns a paginated page of the member directory.

GET /api/v1/users?page=&limit=&search=&role=&is_active=

Query:
  - search: Matches phone number, first name and last name.
  - role: admin | member
  - is_active: true | false

Response:
  - 200: PaginatedEnvelope: {data, meta}
  - 403: ErrForbidden: Caller is not an administrator
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)

	filter := Filter{
		Search:   request.URL.Query().Get(FieldSearch),
		Role:     request.URL.Query().Get(FieldRole),
		IsActive: query.Bool(request.URL.Query().Get(FieldIsActive)),
	}

	if filter.Role != "" {
		validator := &validate.Validator{}
		validator.OneOf(FieldRole, filter.Role, string(sec.RoleAdmin), string(sec.RoleMember))
		if err := validator.Err(); err != nil {
			respond.Error(writer, request, err)
			return
		}
	}

	users, total, err := handler.accountService.List(request.Context(), filter, params.Limit, params.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if users == nil {
		users = []*auth.User{}
	}

	respond.Paginated(writer, users, pagination.NewMeta(params.Page, params.Limit, total))
}

/*
Create enrolls a new member.

POST /api/v1/users

Request:
  - Body: createRequest (PhoneNumber, Password, FirstName, LastName, Role)

Response:
  - 201: User: Created account
  - 400: ErrInvalidJSON: Bad input or validation failure
  - 409: ErrConflict: Phone number already registered
*/
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	var input createRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	if input.Role == "" {
		input.Role = string(sec.RoleMember)
	}

	validator := &validate.Validator{}
	validator.Required(auth.FieldPhoneNumber, input.PhoneNumber).
		Phone(auth.FieldPhoneNumber, input.PhoneNumber).
		Required(auth.FieldPassword, input.Password).
		MinLen(auth.FieldPassword, input.Password, auth.MinPasswordLength).
		MaxLen(auth.FieldPassword, input.Password, auth.MaxPasswordLength).
		Required(auth.FieldFirstName, input.FirstName).
		MaxLen(auth.FieldFirstName, input.FirstName, auth.MaxNameLength).
		Required(auth.FieldLastName, input.LastName).
		MaxLen(auth.FieldLastName, input.LastName, auth.MaxNameLength).
		OneOf(FieldRole, input.Role, string(sec.RoleAdmin), string(sec.RoleMember))

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.accountService.Create(request.Context(), CreateInput{
		PhoneNumber: input.PhoneNumber,
		Password:    input.Password,
		FirstName:   input.FirstName,
		LastName:    input.LastName,
		Role:        sec.UserRole(input.Role),
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, user)
}

/*
Get returns a single member account.

GET /api/v1/users/{id}

Response:
  - 200: User: Hydrated account
  - 404: ErrNotFound: Unknown or deleted member
*/
func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	id := requestutil.ID(request, "id")

	user, err := handler.accountService.GetProfile(request.Context(), id)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}

/*
Update applies a partial update to a member account.

PATCH /api/v1/users/{id}

Request:
  - Body: updateRequest (any subset of FirstName, LastName, Role, IsActive, Password)

Response:
  - 200: User: Updated account
  - 404: ErrNotFound: Unknown member
  - 422: ErrUnprocessable: Unknown role value
*/
func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	id := requestutil.ID(request, "id")

	var input updateRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	if input.Role != nil {
		validator.OneOf(FieldRole, *input.Role, string(sec.RoleAdmin), string(sec.RoleMember))
	}
	if input.Password != nil {
		validator.MinLen(auth.FieldPassword, *input.Password, auth.MinPasswordLength).
			MaxLen(auth.FieldPassword, *input.Password, auth.MaxPasswordLength)
	}
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	serviceInput := UpdateInput{
		FirstName: input.FirstName,
		LastName:  input.LastName,
		IsActive:  input.IsActive,
		Password:  input.Password,
	}
	if input.Role != nil {
		role := sec.UserRole(*input.Role)
		serviceInput.Role = &role
	}

	user, err := handler.accountService.Update(request.Context(), id, serviceInput)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}

/*
Delete soft-deletes a member account.

DELETE /api/v1/users/{id}

Response:
  - 204: No Content: Account deleted and sessions revoked
  - 404: ErrNotFound: Unknown member
*/
func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	id := requestutil.ID(request, "id")

	if err := handler.accountService.Delete(request.Context(), id); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
