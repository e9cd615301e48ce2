// Copyright (c) 2026 Accesshub. All rights reserved.
// Author: dev@accesshub.io

/*
Package auth implements account registration, session lifecycle and
credential reset.

Sessions are stateless HS256 JWTs carrying only the user ID; authorization
state is resolved fresh on every request. Logout is implemented as a Redis
denylist of token digests so a revoked token dies before its natural expiry.

# Security

Raw credential-reset tokens are never stored: only their SHA-256 digest lives
on the user row, next to a 30-minute expiry that is evaluated lazily at
verification time.
*/
package auth

import (
	"context"
	"log/slog"
	"time"

	"github.com/accesshub/accesshub/internal/platform/apperr"
	"github.com/accesshub/accesshub/internal/platform/constants"
	"github.com/accesshub/accesshub/internal/platform/mail"
	"github.com/accesshub/accesshub/internal/platform/sec"
	"github.com/accesshub/accesshub/internal/platform/validate"
	"github.com/accesshub/accesshub/internal/user"
	"github.com/accesshub/accesshub/pkg/uuid"
)

// # Denial Messages

const (
	msgEmailExists = "User with this email already exists"

	msgPhoneLinked = "This phone number is linked to another user. Please provide a different phone number"

	msgNoUserForEmail = "No user registered with this email"

	msgIncorrectPassword = "Incorrect password"

	msgResetTokenInvalid = "Password reset token is invalid or expired"
)

// # Contracts & Types

// TokenProvider defines the contract for issuing and verifying session tokens.
type TokenProvider interface {
	// GenerateAccessToken creates a signed JWT for the given user.
	GenerateAccessToken(userID string, timeToLive time.Duration) (string, error)
	// VerifyToken validates signature and expiry, returning the claims.
	VerifyToken(tokenStr string) (*sec.AuthClaims, error)
}

// Denylist revokes presented tokens until their natural expiry.
type Denylist interface {
	Revoke(ctx context.Context, tokenDigest string, timeToLive time.Duration) error
	IsRevoked(ctx context.Context, tokenDigest string) (bool, error)
}

// Service implements authentication use cases.
//
// # Review Process
//
// This service is critical for security. Any changes to hashing, login, or
// reset logic must be reviewed by the security team.
type Service struct {
	users         user.Store
	tokenProvider TokenProvider
	denylist      Denylist
	mailer        mail.Sender
	resetBaseURL  string
	logger        *slog.Logger
}

// NewService constructs the auth [Service] with its dependencies.
func NewService(
	users user.Store,
	tokenProvider TokenProvider,
	denylist Denylist,
	mailer mail.Sender,
	resetBaseURL string,
	logger *slog.Logger,
) *Service {
	return &Service{
		users:         users,
		tokenProvider: tokenProvider,
		denylist:      denylist,
		mailer:        mailer,
		resetBaseURL:  resetBaseURL,
		logger:        logger,
	}
}

// # Registration Flow

// SignupInput holds the data required to register a new account.
type SignupInput struct {
	Firstname string
	Lastname  string
	Email     string
	Phone     string
	Password  string
}

/*
Signup validates, hashes and persists a brand-new account.

Description: Email and phone are probed for uniqueness before the bcrypt hash
is computed, so the expensive hashing step only runs for viable signups.
Hashing is an explicit step here; the storage layer never sees a raw
credential.

Parameters:
  - context: context.Context
  - input: SignupInput

Returns:
  - *user.User: The created account
  - error: Validation, conflict or storage failures
*/
func (service *Service) Signup(context context.Context, input SignupInput) (*user.User, error) {
	validator := &validate.Validator{}
	validator.
		Required(user.FieldFirstname, input.Firstname).
		Letters(user.FieldFirstname, input.Firstname).
		MaxLen(user.FieldFirstname, input.Firstname, 50).
		Required(user.FieldEmail, input.Email).
		Email(user.FieldEmail, input.Email).
		Required(user.FieldPhone, input.Phone).
		Phone(user.FieldPhone, input.Phone).
		Required(user.FieldPassword, input.Password).
		Password(user.FieldPassword, input.Password)
	if input.Lastname != "" {
		validator.Letters(user.FieldLastname, input.Lastname).MaxLen(user.FieldLastname, input.Lastname, 50)
	}
	if err := validator.Err(); err != nil {
		return nil, err
	}

	// ── 1. Email uniqueness ───────────────────────────────────────────────
	if existing, err := service.users.FindByEmail(context, input.Email); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, apperr.Conflict(msgEmailExists)
	}

	// ── 2. Phone uniqueness ───────────────────────────────────────────────
	if existing, err := service.users.FindByPhone(context, input.Phone, ""); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, apperr.Conflict(msgPhoneLinked)
	}

	// ── 3. Hash & persist ─────────────────────────────────────────────────
	hash, err := sec.HashPassword(input.Password)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	entity := &user.User{
		ID:           uuid.New(),
		Firstname:    input.Firstname,
		Lastname:     input.Lastname,
		Email:        input.Email,
		Phone:        input.Phone,
		PasswordHash: hash,
		IsActive:     true,
	}

	if err := service.users.Create(context, entity); err != nil {
		return nil, err
	}

	return entity, nil
}

// # Session Flow

/*
Login verifies a credential and issues a session token.

Description: The bcrypt comparison is constant-time. Inactive users can still
sign in; they are denied later by the authorization gate, so their denial
message can name the real reason.

Parameters:
  - context: context.Context
  - email: string
  - password: string

Returns:
  - *user.User: The authenticated account with role populated
  - string: Signed access token (24h expiry)
  - error: Validation, unknown-email or bad-credential failures
*/
func (service *Service) Login(context context.Context, email, password string) (*user.User, string, error) {
	validator := &validate.Validator{}
	validator.
		Required(user.FieldEmail, email).
		Required(user.FieldPassword, password)
	if err := validator.Err(); err != nil {
		return nil, "", err
	}

	entity, err := service.users.FindByEmail(context, email)
	if err != nil {
		return nil, "", err
	}
	if entity == nil {
		return nil, "", apperr.ValidationError(msgNoUserForEmail)
	}

	if !sec.CheckPasswordHash(password, entity.PasswordHash) {
		return nil, "", apperr.Unauthorized(msgIncorrectPassword)
	}

	token, err := service.tokenProvider.GenerateAccessToken(entity.ID, constants.AccessTokenTTL)
	if err != nil {
		return nil, "", apperr.Internal(err)
	}

	return entity, token, nil
}

/*
Logout revokes the presented token for its remaining lifetime.

Description: The denylist entry carries the token's own TTL, so Redis forgets
the digest the moment the token would have expired anyway. A token that fails
verification is already unusable and is not denylisted.

Parameters:
  - context: context.Context
  - rawToken: string (the token the request authenticated with)

Returns:
  - error: Denylist failures
*/
func (service *Service) Logout(context context.Context, rawToken string) error {
	claims, err := service.tokenProvider.VerifyToken(rawToken)
	if err != nil {
		return nil
	}

	remaining := time.Until(claims.ExpiresAt.Time)
	if remaining <= 0 {
		return nil
	}

	if err := service.denylist.Revoke(context, sec.HashToken(rawToken), remaining); err != nil {
		return apperr.Internal(err)
	}

	return nil
}

// # Credential Reset Flow

/*
ForgotPassword starts a credential reset for the given email.

Description: A 32-byte token is generated and only its SHA-256 digest is
stored, with a 30-minute expiry. The raw token travels exclusively inside the
reset link. If the mail provider fails, the pending reset is cleared before
the failure is surfaced, so no unusable reset state lingers.

Parameters:
  - context: context.Context
  - email: string

Returns:
  - error: NotFound, dependency or storage failures
*/
func (service *Service) ForgotPassword(context context.Context, email string) error {
	validator := &validate.Validator{}
	validator.Required(user.FieldEmail, email).Email(user.FieldEmail, email)
	if err := validator.Err(); err != nil {
		return err
	}

	entity, err := service.users.FindByEmail(context, email)
	if err != nil {
		return err
	}
	if entity == nil {
		return apperr.NotFoundMsg(msgNoUserForEmail)
	}

	rawToken, err := sec.GenerateSecureToken(constants.ResetTokenBytes)
	if err != nil {
		return apperr.Internal(err)
	}

	expiry := time.Now().Add(constants.ResetTokenTTL)
	if err := service.users.SetResetToken(context, entity.ID, sec.HashToken(rawToken), expiry); err != nil {
		return err
	}

	message := mail.Message{
		To:      entity.Email,
		Subject: mail.PasswordResetSubject,
		HTML:    mail.PasswordResetHTML(service.resetBaseURL + "/" + rawToken),
	}

	if err := service.mailer.Send(context, message); err != nil {
		// Compensate: a reset the user never received must not stay pending.
		if clearErr := service.users.ClearResetToken(context, entity.ID); clearErr != nil {
			service.logger.ErrorContext(context, "reset_token_cleanup_failed",
				slog.String("user_id", entity.ID),
				slog.String("error", clearErr.Error()),
			)
		}
		return apperr.DependencyFailure("Failed to send the password reset email. Please try again later", err)
	}

	return nil
}

/*
ResetPassword redeems a reset token and stores the new credential.

Description: Lookup is by digest with an unexpired expiry; a used, expired or
unknown token yields the same InvalidOrExpiredToken denial. The credential
update and the reset-field cleanup happen in one statement.

Parameters:
  - context: context.Context
  - rawToken: string
  - password: string

Returns:
  - *user.User: The account whose credential changed
  - error: Validation, token or storage failures
*/
func (service *Service) ResetPassword(context context.Context, rawToken, password string) (*user.User, error) {
	validator := &validate.Validator{}
	validator.
		Required(user.FieldPassword, password).
		Password(user.FieldPassword, password)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	entity, err := service.users.FindByResetTokenDigest(context, sec.HashToken(rawToken))
	if err != nil {
		return nil, err
	}
	if entity == nil {
		return nil, apperr.InvalidOrExpiredToken(msgResetTokenInvalid)
	}

	hash, err := sec.HashPassword(password)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	if err := service.users.ResetPassword(context, entity.ID, hash); err != nil {
		return nil, err
	}

	entity.PasswordHash = hash
	entity.ResetTokenHash = nil
	entity.ResetTokenExpiry = nil

	return entity, nil
}
