// Copyright (c) 2026 Accesshub. All rights reserved.
// Author: dev@accesshub.io

package role

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/accesshub/accesshub/internal/platform/constants"
	"github.com/accesshub/accesshub/internal/platform/middleware"
	requestutil "github.com/accesshub/accesshub/internal/platform/request"
	"github.com/accesshub/accesshub/internal/platform/respond"
	"github.com/accesshub/accesshub/internal/rbac"
	"github.com/accesshub/accesshub/pkg/pagination"
)

// Handler implements the HTTP layer for role management.
type Handler struct {
	roleService *Service
	gate        *rbac.Gate
}

// NewHandler constructs a new role [Handler].
func NewHandler(service *Service, gate *rbac.Gate) *Handler {
	return &Handler{roleService: service, gate: gate}
}

// Routes returns a [chi.Router] configured with the role domain's endpoints.
//
// # Security
//
// Listing only requires authentication; every other endpoint is guarded by
// the matching role permission.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Get("/", handler.list)
	})

	router.With(middleware.RequirePermission(handler.gate, rbac.PermAddRole)).
		Post("/", handler.create)

	router.Route("/{roleId}", func(r chi.Router) {
		r.With(middleware.RequirePermission(handler.gate, rbac.PermViewRole)).
			Get("/", handler.getByID)
		r.With(middleware.RequirePermission(handler.gate, rbac.PermUpdateRole)).
			Put("/", handler.update)
		r.With(middleware.RequirePermission(handler.gate, rbac.PermDeleteRole)).
			Delete("/", handler.delete)
		r.With(middleware.RequirePermission(handler.gate, rbac.PermActivateRole)).
			Put("/activate", handler.activate)
		r.With(middleware.RequirePermission(handler.gate, rbac.PermDeactivateRole)).
			Put("/deactivate", handler.deactivate)
	})

	return router
}

// # Role Endpoints

/*
GET /api/v1/roles.

Description: Retrieves a paginated list of roles. The total row count is
exposed through the X-Total-Count header for table UIs.

Request:
  - sortBy: string (title | usercount | createdat, optional)
  - order: string (asc | desc, optional)
  - page, limit: int (optional)

Response:
  - 200: []Role: Page of roles
  - 401: ErrUnauthorized: Authentication required
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)
	query := request.URL.Query()

	roles, total, err := handler.roleService.List(request.Context(), ListOptions{
		SortBy: query.Get("sortBy"),
		Order:  query.Get("order"),
		Page:   params.Page,
		Limit:  params.Limit,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	writer.Header().Set(constants.HeaderTotalCount, strconv.Itoa(total))
	respond.Paginated(writer, roles, pagination.NewMeta(params.Page, params.Limit, total))
}

/*
GET /api/v1/roles/{roleId}.

Description: Retrieves a single role with its full permission set.

Response:
  - 200: Role: Hydrated role
  - 403: ErrForbidden: Missing view_role permission
  - 404: ErrNotFound: Role not found
*/
func (handler *Handler) getByID(writer http.ResponseWriter, request *http.Request) {
	entity, err := handler.roleService.GetByID(request.Context(), chi.URLParam(request, "roleId"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, entity)
}

/*
POST /api/v1/roles.

Description: Creates a new role from a title and permission set. New roles
start active with a user count of zero.

Request:
  - body: Input

Response:
  - 201: Role: The persisted role
  - 400: ErrInvalidJSON/Validation: Invalid input data
  - 409: ErrConflict: Duplicate title or permission set
*/
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	var input Input
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	entity, err := handler.roleService.Create(request.Context(), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, entity)
}

/*
PUT /api/v1/roles/{roleId}.

Description: Replaces the title and permission set of an existing role.

Request:
  - body: Input

Response:
  - 200: Role: The updated role
  - 400: ErrInvalidJSON/Validation: Invalid input data
  - 403: ErrForbiddenModification: Full-administrative permission change
  - 404: ErrNotFound: Role not found
  - 409: ErrConflict: Duplicate title or permission set
*/
func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	var input Input
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	entity, err := handler.roleService.Update(request.Context(), chi.URLParam(request, "roleId"), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, entity)
}

/*
DELETE /api/v1/roles/{roleId}.

Description: Deletes a role and unassigns it from every holder in one
transaction.

Response:
  - 204: No Content: Role deleted
  - 403: ErrForbiddenModification: Full-administrative role
  - 404: ErrNotFound: Role not found
*/
func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	if err := handler.roleService.Delete(request.Context(), chi.URLParam(request, "roleId")); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

/*
PUT /api/v1/roles/{roleId}/activate.

Response:
  - 200: Role: The activated role
  - 404: ErrNotFound: Role not found
  - 409: ErrConflict: Role is already active
*/
func (handler *Handler) activate(writer http.ResponseWriter, request *http.Request) {
	entity, err := handler.roleService.Activate(request.Context(), chi.URLParam(request, "roleId"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, entity)
}

/*
PUT /api/v1/roles/{roleId}/deactivate.

Response:
  - 200: Role: The deactivated role
  - 403: ErrForbiddenModification: Full-administrative role
  - 404: ErrNotFound: Role not found
  - 409: ErrConflict: Role is already inactive
*/
func (handler *Handler) deactivate(writer http.ResponseWriter, request *http.Request) {
	entity, err := handler.roleService.Deactivate(request.Context(), chi.URLParam(request, "roleId"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, entity)
}
