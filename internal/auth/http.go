// Copyright (c) 2026 Accesshub. All rights reserved.
// Author: dev@accesshub.io

package auth

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/accesshub/accesshub/internal/platform/constants"
	"github.com/accesshub/accesshub/internal/platform/ctxutil"
	"github.com/accesshub/accesshub/internal/platform/middleware"
	requestutil "github.com/accesshub/accesshub/internal/platform/request"
	"github.com/accesshub/accesshub/internal/platform/respond"
	"github.com/accesshub/accesshub/internal/platform/validate"
	"github.com/accesshub/accesshub/internal/user"
)

// Handler implements the HTTP layer for authentication.
type Handler struct {
	authService *Service
}

// NewHandler constructs a new auth [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{authService: service}
}

// Routes returns a [chi.Router] configured with the auth domain's endpoints.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Post("/signup", handler.signup)
	router.Post("/login", handler.login)
	router.With(middleware.RequireAuth).Post("/logout", handler.logout)

	// Credential Reset
	router.Post("/password/forgot", handler.forgotPassword)
	router.Put("/password/reset/{token}", handler.resetPassword)

	return router
}

// # Registration Endpoints

// signupRequest defines the expected JSON payload for account registration.
type signupRequest struct {
	Firstname string `json:"firstname"`
	Lastname  string `json:"lastname"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Password  string `json:"password"`
}

/*
POST /api/v1/auth/signup.

Description: Registers a new account. New accounts start active, without a
role, and are denied every guarded operation until one is assigned.

Request:
  - body: signupRequest

Response:
  - 201: User: The created account
  - 400: ErrInvalidJSON/Validation: Invalid input data
  - 409: ErrConflict: Email or phone already registered
*/
func (handler *Handler) signup(writer http.ResponseWriter, request *http.Request) {
	var input signupRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	entity, err := handler.authService.Signup(request.Context(), SignupInput{
		Firstname: input.Firstname,
		Lastname:  input.Lastname,
		Email:     input.Email,
		Phone:     input.Phone,
		Password:  input.Password,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, entity)
}

// # Session Endpoints

// loginRequest defines the expected JSON payload for login.
type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// loginResponse carries the issued token alongside the account. The token is
// also delivered as an HTTP-only cookie for browser clients.
type loginResponse struct {
	Token string     `json:"token"`
	User  *user.User `json:"user"`
}

/*
POST /api/v1/auth/login.

Description: Verifies the credential and issues a 24-hour session token,
delivered both in the response body and as the "token" cookie.

Request:
  - body: loginRequest

Response:
  - 200: loginResponse: Token and account
  - 400: ErrValidation: Unknown email or missing fields
  - 401: ErrUnauthorized: Incorrect password
*/
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	var input loginRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	entity, token, err := handler.authService.Login(request.Context(), input.Email, input.Password)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	setSessionCookie(writer, token)
	respond.OK(writer, loginResponse{Token: token, User: entity})
}

/*
POST /api/v1/auth/logout.

Description: Revokes the presented token for its remaining lifetime and
clears the session cookie.

Response:
  - 204: No Content: Session revoked
  - 401: ErrUnauthorized: Authentication required
*/
func (handler *Handler) logout(writer http.ResponseWriter, request *http.Request) {
	rawToken := ctxutil.GetToken(request.Context())

	if err := handler.authService.Logout(request.Context(), rawToken); err != nil {
		respond.Error(writer, request, err)
		return
	}

	clearSessionCookie(writer)
	respond.NoContent(writer)
}

// # Credential Reset Endpoints

// forgotPasswordRequest defines the expected JSON payload for reset requests.
type forgotPasswordRequest struct {
	Email string `json:"email"`
}

/*
POST /api/v1/auth/password/forgot.

Description: Emails a single-use reset link valid for 30 minutes.

Request:
  - body: forgotPasswordRequest

Response:
  - 204: No Content: Reset email sent
  - 404: ErrNotFound: No user registered with this email
  - 502: ErrDependencyFailure: Mail provider unavailable
*/
func (handler *Handler) forgotPassword(writer http.ResponseWriter, request *http.Request) {
	var input forgotPasswordRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.authService.ForgotPassword(request.Context(), input.Email); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

// resetPasswordRequest defines the expected JSON payload for reset redemption.
type resetPasswordRequest struct {
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

/*
PUT /api/v1/auth/password/reset/{token}.

Description: Redeems a reset token and stores the new password.

Request:
  - token: string (raw token from the emailed link)
  - body: resetPasswordRequest

Response:
  - 200: User: The account whose credential changed
  - 400: ErrValidation/ErrInvalidOrExpiredToken
*/
func (handler *Handler) resetPassword(writer http.ResponseWriter, request *http.Request) {
	var input resetPasswordRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if input.Password != input.ConfirmPassword {
		respond.Error(writer, request,
			validate.RequiredError("confirmPassword", "Confirm password does not match with password"))
		return
	}

	entity, err := handler.authService.ResetPassword(
		request.Context(), chi.URLParam(request, "token"), input.Password)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, entity)
}

// # Helpers

// setSessionCookie delivers the access token as an HTTP-only cookie.
func setSessionCookie(writer http.ResponseWriter, token string) {
	http.SetCookie(writer, &http.Cookie{
		Name:     constants.AccessTokenCookieName,
		Value:    token,
		Path:     constants.AccessTokenCookiePath,
		MaxAge:   int(constants.AccessTokenTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
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
