// Copyright (c) 2026 Accesshub. All rights reserved.
// Author: dev@accesshub.io

package user

import (
	"context"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/accesshub/accesshub/internal/platform/apperr"
	"github.com/accesshub/accesshub/internal/platform/constants"
	"github.com/accesshub/accesshub/internal/platform/middleware"
	requestutil "github.com/accesshub/accesshub/internal/platform/request"
	"github.com/accesshub/accesshub/internal/platform/respond"
	"github.com/accesshub/accesshub/internal/platform/validate"
	"github.com/accesshub/accesshub/internal/rbac"
	"github.com/accesshub/accesshub/pkg/pagination"
)

// Handler implements the HTTP layer for user profiles and administration.
type Handler struct {
	userService *Service
	gate        *rbac.Gate
}

// NewHandler constructs a new user [Handler].
func NewHandler(service *Service, gate *rbac.Gate) *Handler {
	return &Handler{userService: service, gate: gate}
}

// Routes returns a [chi.Router] configured with the user domain's endpoints.
//
// # Security
//
// Listing and the /self group only require authentication; administration of
// other users is guarded per operation.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)

		r.Get("/", handler.list)

		// Profile Management
		r.Route("/self", func(r chi.Router) {
			r.Get("/", handler.getProfile)
			r.Put("/", handler.updateProfile)
			r.Delete("/", handler.deleteAccount)
			r.Put("/avatar", handler.uploadAvatar)
			r.Delete("/avatar", handler.removeAvatar)
		})
	})

	// User Administration
	router.Route("/{userId}", func(r chi.Router) {
		r.With(middleware.RequirePermission(handler.gate, rbac.PermViewUser)).
			Get("/", handler.getByID)
		r.With(middleware.RequirePermission(handler.gate, rbac.PermActivateUser)).
			Put("/activate", handler.activate)
		r.With(middleware.RequirePermission(handler.gate, rbac.PermDeactivateUser)).
			Put("/deactivate", handler.deactivate)
		r.With(middleware.RequirePermission(handler.gate, rbac.PermArchiveUser)).
			Put("/archive", handler.archive)
		r.With(middleware.RequirePermission(handler.gate, rbac.PermRestoreUser)).
			Put("/restore", handler.restore)
		r.With(middleware.RequirePermission(handler.gate, rbac.PermDeleteUser)).
			Delete("/", handler.delete)
		r.With(middleware.RequirePermission(handler.gate, rbac.PermAssignRole)).
			Post("/role", handler.assignRole)
		r.With(middleware.RequirePermission(handler.gate, rbac.PermUnassignRole)).
			Delete("/role", handler.unassignRole)
	})

	return router
}

// # Profile Endpoints

/*
GET /api/v1/users/self.

Description: Retrieves the authenticated user's profile with role populated.

Response:
  - 200: User: Hydrated profile
  - 401: ErrUnauthorized: Authentication required
*/
func (handler *Handler) getProfile(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	entity, err := handler.userService.GetProfile(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, entity)
}

// updateProfileRequest defines the expected JSON payload for profile updates.
type updateProfileRequest struct {
	Firstname       string `json:"firstname"`
	Lastname        string `json:"lastname"`
	Phone           string `json:"phone"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

/*
PUT /api/v1/users/self.

Description: Updates name, phone and optionally the password. A password
change must be confirmed by repeating it.

Request:
  - body: updateProfileRequest

Response:
  - 200: User: The updated profile
  - 400: ErrInvalidJSON/Validation: Invalid input data
  - 409: ErrConflict: Phone number in use
*/
func (handler *Handler) updateProfile(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input updateProfileRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if input.Password != "" && input.Password != input.ConfirmPassword {
		respond.Error(writer, request,
			validate.RequiredError("confirmPassword", "Confirm password does not match with password"))
		return
	}

	entity, err := handler.userService.UpdateProfile(request.Context(), userID, UpdateProfileInput{
		Firstname: input.Firstname,
		Lastname:  input.Lastname,
		Phone:     input.Phone,
		Password:  input.Password,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, entity)
}

/*
DELETE /api/v1/users/self.

Description: Deletes the authenticated user's account and clears the session
cookie. The sole root user is protected from self-deletion.

Response:
  - 204: No Content: Account deleted
  - 403: ErrRootUserProtection: Sole root user
*/
func (handler *Handler) deleteAccount(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.userService.DeleteAccount(request.Context(), userID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	clearSessionCookie(writer)
	respond.NoContent(writer)
}

/*
PUT /api/v1/users/self/avatar.

Description: Uploads a new profile image as multipart form data under the
"avatar" field. Replaces and releases any previous image.

Response:
  - 200: User: Profile with the new avatar
  - 400: ErrValidation: Missing file or unsupported image type
  - 502: ErrDependencyFailure: Object store unavailable
*/
func (handler *Handler) uploadAvatar(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	request.Body = http.MaxBytesReader(writer, request.Body, constants.AvatarMaxBytes)
	if err := request.ParseMultipartForm(constants.AvatarMaxBytes); err != nil {
		respond.Error(writer, request,
			apperr.ValidationError("Avatar upload must be multipart form data of at most 5 MiB"))
		return
	}

	file, header, err := request.FormFile("avatar")
	if err != nil {
		respond.Error(writer, request, apperr.ValidationError("Avatar file is required"))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		respond.Error(writer, request, apperr.Internal(err))
		return
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}

	entity, err := handler.userService.UploadAvatar(request.Context(), userID, data, contentType)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, entity)
}

/*
DELETE /api/v1/users/self/avatar.

Response:
  - 200: User: Profile without an avatar
  - 409: ErrConflict: No avatar set
*/
func (handler *Handler) removeAvatar(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	entity, err := handler.userService.RemoveAvatar(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, entity)
}

// # Administration Endpoints

/*
GET /api/v1/users.

Description: Retrieves a paginated list of users with roles populated.
Archived accounts are excluded unless archived=yes is passed. The total row
count is exposed through the X-Total-Count header.

Request:
  - active: string (yes | no, optional)
  - archived: string (yes | 1 switches to archived accounts)
  - roles: string (role IDs separated by "&")
  - sortBy: string (name | created_at, optional)
  - order: string (asc | desc, optional)
  - page, limit: int (optional)

Response:
  - 200: []User: Page of users
  - 401: ErrUnauthorized: Authentication required
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)
	query := request.URL.Query()

	users, total, err := handler.userService.List(request.Context(), ListOptions{
		Active:   strings.ToLower(query.Get("active")),
		Archived: parseBoolFlag(query.Get("archived")),
		RoleIDs:  parseListValues(query.Get("roles")),
		SortBy:   strings.ToLower(query.Get("sortBy")),
		Order:    strings.ToLower(query.Get("order")),
		Page:     params.Page,
		Limit:    params.Limit,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	writer.Header().Set(constants.HeaderTotalCount, strconv.Itoa(total))
	respond.Paginated(writer, users, pagination.NewMeta(params.Page, params.Limit, total))
}

/*
GET /api/v1/users/{userId}.

Response:
  - 200: User: Hydrated user with role
  - 403: ErrForbidden: Missing view_user permission
  - 404: ErrNotFound: User not found
*/
func (handler *Handler) getByID(writer http.ResponseWriter, request *http.Request) {
	entity, err := handler.userService.GetByID(request.Context(), chi.URLParam(request, "userId"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, entity)
}

/*
PUT /api/v1/users/{userId}/activate.

Response:
  - 200: User: The activated user
  - 403: ErrSelfActionForbidden: Cannot activate yourself
  - 409: ErrConflict: User is already active
*/
func (handler *Handler) activate(writer http.ResponseWriter, request *http.Request) {
	handler.adminStatusChange(writer, request, handler.userService.Activate)
}

/*
PUT /api/v1/users/{userId}/deactivate.

Response:
  - 200: User: The deactivated user
  - 403: ErrSelfActionForbidden/ErrRootUserProtection
  - 409: ErrConflict: User is already inactive
*/
func (handler *Handler) deactivate(writer http.ResponseWriter, request *http.Request) {
	handler.adminStatusChange(writer, request, handler.userService.Deactivate)
}

/*
PUT /api/v1/users/{userId}/archive.

Response:
  - 200: User: The archived user
  - 403: ErrSelfActionForbidden/ErrRootUserProtection
  - 409: ErrConflict: User is already archived
*/
func (handler *Handler) archive(writer http.ResponseWriter, request *http.Request) {
	handler.adminStatusChange(writer, request, handler.userService.Archive)
}

/*
PUT /api/v1/users/{userId}/restore.

Response:
  - 200: User: The restored user
  - 403: ErrSelfActionForbidden: Cannot restore yourself
  - 409: ErrConflict: User is not archived
*/
func (handler *Handler) restore(writer http.ResponseWriter, request *http.Request) {
	handler.adminStatusChange(writer, request, handler.userService.Restore)
}

/*
DELETE /api/v1/users/{userId}.

Response:
  - 204: No Content: User deleted
  - 403: ErrSelfActionForbidden/ErrRootUserProtection
  - 404: ErrNotFound: User not found
*/
func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	actor, err := requestutil.RequiredActor(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.userService.Delete(request.Context(), actor.ID, chi.URLParam(request, "userId")); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

// assignRoleRequest defines the expected JSON payload for role assignment.
type assignRoleRequest struct {
	Role string `json:"role"`
}

/*
POST /api/v1/users/{userId}/role.

Description: Assigns a role to a user, moving it from any previously held
role. Both role user counts are adjusted in one transaction.

Request:
  - body: assignRoleRequest

Response:
  - 200: User: The user with the new role
  - 403: ErrSelfActionForbidden/ErrRootUserProtection
  - 404: ErrNotFound: User or role not found
  - 409: ErrConflict: Role already assigned
*/
func (handler *Handler) assignRole(writer http.ResponseWriter, request *http.Request) {
	actor, err := requestutil.RequiredActor(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input assignRoleRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldRole, input.Role).UUID(FieldRole, input.Role)
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	entity, err := handler.userService.AssignRole(
		request.Context(), actor.ID, chi.URLParam(request, "userId"), input.Role)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, entity)
}

/*
DELETE /api/v1/users/{userId}/role.

Response:
  - 200: User: The user without a role
  - 403: ErrSelfActionForbidden/ErrRootUserProtection
  - 409: ErrConflict: No role assigned
*/
func (handler *Handler) unassignRole(writer http.ResponseWriter, request *http.Request) {
	actor, err := requestutil.RequiredActor(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	entity, err := handler.userService.UnassignRole(
		request.Context(), actor.ID, chi.URLParam(request, "userId"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, entity)
}

// # Helpers

// adminStatusChange factors the shared shape of the four status endpoints.
func (handler *Handler) adminStatusChange(
	writer http.ResponseWriter,
	request *http.Request,
	operation func(ctx context.Context, actingID, targetID string) (*User, error),
) {
	actor, err := requestutil.RequiredActor(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	entity, err := operation(request.Context(), actor.ID, chi.URLParam(request, "userId"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, entity)
}

// parseBoolFlag interprets the archived query flag.
func parseBoolFlag(value string) bool {
	switch strings.ToLower(value) {
	case "yes", "1", "true":
		return true
	default:
		return false
	}
}

// parseListValues splits ampersand-separated query values, dropping empties.
func parseListValues(value string) []string {
	if value == "" {
		return nil
	}
	var values []string
	for _, part := range strings.Split(value, "&") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			values = append(values, trimmed)
		}
	}
	return values
}

// clearSessionCookie expires the access-token cookie.
func clearSessionCookie(writer http.ResponseWriter) {
	http.SetCookie(writer, &http.Cookie{
		Name:     constants.AccessTokenCookieName,
		Value:    "",
		Path:     constants.AccessTokenCookiePath,
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
