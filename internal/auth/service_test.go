// Copyright (c) 2026 Accesshub. All rights reserved.
// Author: dev@accesshub.io

package auth

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/accesshub/accesshub/internal/platform/apperr"
	"github.com/accesshub/accesshub/internal/platform/mail"
	"github.com/accesshub/accesshub/internal/platform/sec"
	"github.com/accesshub/accesshub/internal/user"
	"github.com/accesshub/accesshub/pkg/uuid"
)

// # Fakes

type fakeUserStore struct {
	users map[string]*user.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[string]*user.User)}
}

func (s *fakeUserStore) Create(_ context.Context, entity *user.User) error {
	clone := *entity
	s.users[entity.ID] = &clone
	return nil
}

func (s *fakeUserStore) FindByID(_ context.Context, id string) (*user.User, error) {
	entity, ok := s.users[id]
	if !ok {
		return nil, apperr.NotFound("User")
	}
	clone := *entity
	return &clone, nil
}

func (s *fakeUserStore) FindWithRole(ctx context.Context, id string) (*user.User, error) {
	return s.FindByID(ctx, id)
}

func (s *fakeUserStore) FindByEmail(_ context.Context, email string) (*user.User, error) {
	for _, entity := range s.users {
		if entity.Email == email {
			clone := *entity
			return &clone, nil
		}
	}
	return nil, nil
}

func (s *fakeUserStore) FindByPhone(_ context.Context, phone, excludeID string) (*user.User, error) {
	for _, entity := range s.users {
		if entity.Phone == phone && entity.ID != excludeID {
			clone := *entity
			return &clone, nil
		}
	}
	return nil, nil
}

func (s *fakeUserStore) List(_ context.Context, _ user.ListOptions) ([]user.User, int, error) {
	return nil, 0, nil
}

func (s *fakeUserStore) UpdateProfile(_ context.Context, entity *user.User) error {
	clone := *entity
	s.users[entity.ID] = &clone
	return nil
}

func (s *fakeUserStore) SetActive(_ context.Context, id string, active bool) error {
	s.users[id].IsActive = active
	return nil
}

func (s *fakeUserStore) SetArchived(_ context.Context, id string, archived bool) error {
	s.users[id].IsArchived = archived
	return nil
}

func (s *fakeUserStore) SetAvatar(_ context.Context, id string, avatar *user.Avatar) error {
	s.users[id].Avatar = avatar
	return nil
}

func (s *fakeUserStore) AssignRole(_ context.Context, userID, newRoleID string, _ *string) error {
	s.users[userID].RoleID = &newRoleID
	return nil
}

func (s *fakeUserStore) UnassignRole(_ context.Context, userID, _ string) error {
	s.users[userID].RoleID = nil
	return nil
}

func (s *fakeUserStore) Delete(_ context.Context, id string, _ *string) error {
	delete(s.users, id)
	return nil
}

func (s *fakeUserStore) SetResetToken(_ context.Context, userID, digest string, expiry time.Time) error {
	s.users[userID].ResetTokenHash = &digest
	s.users[userID].ResetTokenExpiry = &expiry
	return nil
}

func (s *fakeUserStore) ClearResetToken(_ context.Context, userID string) error {
	s.users[userID].ResetTokenHash = nil
	s.users[userID].ResetTokenExpiry = nil
	return nil
}

func (s *fakeUserStore) FindByResetTokenDigest(_ context.Context, digest string) (*user.User, error) {
	for _, entity := range s.users {
		if entity.ResetTokenHash != nil && *entity.ResetTokenHash == digest &&
			entity.ResetTokenExpiry != nil && entity.ResetTokenExpiry.After(time.Now()) {
			clone := *entity
			return &clone, nil
		}
	}
	return nil, nil
}

func (s *fakeUserStore) ResetPassword(_ context.Context, userID, passwordHash string) error {
	s.users[userID].PasswordHash = passwordHash
	s.users[userID].ResetTokenHash = nil
	s.users[userID].ResetTokenExpiry = nil
	return nil
}

type fakeDenylist struct {
	revoked map[string]time.Duration
}

func newFakeDenylist() *fakeDenylist {
	return &fakeDenylist{revoked: make(map[string]time.Duration)}
}

func (d *fakeDenylist) Revoke(_ context.Context, digest string, ttl time.Duration) error {
	d.revoked[digest] = ttl
	return nil
}

func (d *fakeDenylist) IsRevoked(_ context.Context, digest string) (bool, error) {
	_, ok := d.revoked[digest]
	return ok, nil
}

type fakeMailer struct {
	fail bool
	sent []mail.Message
}

func (m *fakeMailer) Send(_ context.Context, message mail.Message) error {
	if m.fail {
		return errors.New("mail provider unavailable")
	}
	m.sent = append(m.sent, message)
	return nil
}

// # Fixtures

const resetBaseURL = "https://app.accesshub.io/reset-password"

var resetLinkPattern = regexp.MustCompile(`reset-password/([0-9a-f]{64})`)

type serviceFixture struct {
	service  *Service
	users    *fakeUserStore
	denylist *fakeDenylist
	mailer   *fakeMailer
	tokens   *sec.TokenService
}

func newAuthService(t *testing.T) *serviceFixture {
	t.Helper()

	tokens, err := sec.NewTokenService("test-secret-test-secret-test-1234", "accesshub.io")
	require.NoError(t, err)

	users := newFakeUserStore()
	denylist := newFakeDenylist()
	mailer := &fakeMailer{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return &serviceFixture{
		service:  NewService(users, tokens, denylist, mailer, resetBaseURL, logger),
		users:    users,
		denylist: denylist,
		mailer:   mailer,
		tokens:   tokens,
	}
}

func (f *serviceFixture) seedAccount(t *testing.T, email, phone, password string) *user.User {
	t.Helper()

	hash, err := sec.HashPassword(password)
	require.NoError(t, err)

	entity := &user.User{
		ID:           uuid.New(),
		Firstname:    "Jane",
		Email:        email,
		Phone:        phone,
		PasswordHash: hash,
		IsActive:     true,
	}
	require.NoError(t, f.users.Create(context.Background(), entity))
	return entity
}

// # Tests

func TestServiceSignup(t *testing.T) {
	ctx := context.Background()

	t.Run("creates_an_active_account_with_hashed_credential", func(t *testing.T) {
		fixture := newAuthService(t)

		entity, err := fixture.service.Signup(ctx, SignupInput{
			Firstname: "Jane",
			Lastname:  "Doe",
			Email:     "jane@example.com",
			Phone:     "9876543210",
			Password:  "str0ng!pass",
		})
		require.NoError(t, err)

		assert.True(t, entity.IsActive)
		assert.Nil(t, entity.RoleID)
		assert.NotEqual(t, "str0ng!pass", entity.PasswordHash)
		assert.True(t, sec.CheckPasswordHash("str0ng!pass", entity.PasswordHash))
	})

	t.Run("rejects_duplicate_email", func(t *testing.T) {
		fixture := newAuthService(t)
		fixture.seedAccount(t, "jane@example.com", "9876543210", "str0ng!pass")

		_, err := fixture.service.Signup(ctx, SignupInput{
			Firstname: "Janet",
			Email:     "jane@example.com",
			Phone:     "9876543211",
			Password:  "str0ng!pass",
		})

		appError := apperr.As(err)
		require.NotNil(t, appError)
		assert.Equal(t, "CONFLICT", appError.Code)
		assert.Equal(t, "User with this email already exists", appError.Message)
	})

	t.Run("rejects_duplicate_phone", func(t *testing.T) {
		fixture := newAuthService(t)
		fixture.seedAccount(t, "jane@example.com", "9876543210", "str0ng!pass")

		_, err := fixture.service.Signup(ctx, SignupInput{
			Firstname: "Janet",
			Email:     "janet@example.com",
			Phone:     "9876543210",
			Password:  "str0ng!pass",
		})

		appError := apperr.As(err)
		require.NotNil(t, appError)
		assert.Equal(t, "This phone number is linked to another user. Please provide a different phone number", appError.Message)
	})

	t.Run("rejects_weak_password", func(t *testing.T) {
		fixture := newAuthService(t)

		_, err := fixture.service.Signup(ctx, SignupInput{
			Firstname: "Jane",
			Email:     "jane@example.com",
			Phone:     "9876543210",
			Password:  "weak",
		})

		appError := apperr.As(err)
		require.NotNil(t, appError)
		assert.Equal(t, "VALIDATION_ERROR", appError.Code)
	})
}

func TestServiceLogin(t *testing.T) {
	ctx := context.Background()

	t.Run("issues_a_verifiable_token", func(t *testing.T) {
		fixture := newAuthService(t)
		account := fixture.seedAccount(t, "jane@example.com", "9876543210", "str0ng!pass")

		entity, token, err := fixture.service.Login(ctx, "jane@example.com", "str0ng!pass")
		require.NoError(t, err)

		assert.Equal(t, account.ID, entity.ID)

		claims, err := fixture.tokens.VerifyToken(token)
		require.NoError(t, err)
		assert.Equal(t, account.ID, claims.UserID)
	})

	t.Run("unknown_email_is_rejected", func(t *testing.T) {
		fixture := newAuthService(t)

		_, _, err := fixture.service.Login(ctx, "ghost@example.com", "str0ng!pass")

		appError := apperr.As(err)
		require.NotNil(t, appError)
		assert.Equal(t, "No user registered with this email", appError.Message)
	})

	t.Run("wrong_password_is_rejected", func(t *testing.T) {
		fixture := newAuthService(t)
		fixture.seedAccount(t, "jane@example.com", "9876543210", "str0ng!pass")

		_, _, err := fixture.service.Login(ctx, "jane@example.com", "wr0ng!pass")

		appError := apperr.As(err)
		require.NotNil(t, appError)
		assert.Equal(t, "UNAUTHORIZED", appError.Code)
		assert.Equal(t, "Incorrect password", appError.Message)
	})
}

func TestServiceLogout(t *testing.T) {
	ctx := context.Background()

	t.Run("revokes_the_token_for_its_remaining_lifetime", func(t *testing.T) {
		fixture := newAuthService(t)
		account := fixture.seedAccount(t, "jane@example.com", "9876543210", "str0ng!pass")

		token, err := fixture.tokens.GenerateAccessToken(account.ID, time.Hour)
		require.NoError(t, err)

		require.NoError(t, fixture.service.Logout(ctx, token))

		revoked, err := fixture.denylist.IsRevoked(ctx, sec.HashToken(token))
		require.NoError(t, err)
		assert.True(t, revoked)

		ttl := fixture.denylist.revoked[sec.HashToken(token)]
		assert.Greater(t, ttl, 59*time.Minute)
		assert.LessOrEqual(t, ttl, time.Hour)
	})

	t.Run("garbage_token_is_a_no_op", func(t *testing.T) {
		fixture := newAuthService(t)

		require.NoError(t, fixture.service.Logout(ctx, "not-a-token"))
		assert.Empty(t, fixture.denylist.revoked)
	})
}

func TestServiceCredentialReset(t *testing.T) {
	ctx := context.Background()

	t.Run("forgot_stores_digest_and_mails_the_raw_token", func(t *testing.T) {
		fixture := newAuthService(t)
		account := fixture.seedAccount(t, "jane@example.com", "9876543210", "str0ng!pass")

		require.NoError(t, fixture.service.ForgotPassword(ctx, "jane@example.com"))

		require.Len(t, fixture.mailer.sent, 1)
		message := fixture.mailer.sent[0]
		assert.Equal(t, "jane@example.com", message.To)
		assert.Equal(t, mail.PasswordResetSubject, message.Subject)

		match := resetLinkPattern.FindStringSubmatch(message.HTML)
		require.Len(t, match, 2)
		rawToken := match[1]

		stored := fixture.users.users[account.ID]
		require.NotNil(t, stored.ResetTokenHash)
		assert.Equal(t, sec.HashToken(rawToken), *stored.ResetTokenHash)
		require.NotNil(t, stored.ResetTokenExpiry)
		assert.WithinDuration(t, time.Now().Add(30*time.Minute), *stored.ResetTokenExpiry, time.Minute)
	})

	t.Run("mail_failure_clears_the_pending_reset", func(t *testing.T) {
		fixture := newAuthService(t)
		fixture.mailer.fail = true
		account := fixture.seedAccount(t, "jane@example.com", "9876543210", "str0ng!pass")

		err := fixture.service.ForgotPassword(ctx, "jane@example.com")

		appError := apperr.As(err)
		require.NotNil(t, appError)
		assert.Equal(t, "DEPENDENCY_FAILURE", appError.Code)

		stored := fixture.users.users[account.ID]
		assert.Nil(t, stored.ResetTokenHash)
		assert.Nil(t, stored.ResetTokenExpiry)
	})

	t.Run("unknown_email_is_rejected", func(t *testing.T) {
		fixture := newAuthService(t)

		err := fixture.service.ForgotPassword(ctx, "ghost@example.com")

		appError := apperr.As(err)
		require.NotNil(t, appError)
		assert.Equal(t, "NOT_FOUND", appError.Code)
	})

	t.Run("reset_round_trip_and_single_use", func(t *testing.T) {
		fixture := newAuthService(t)
		account := fixture.seedAccount(t, "jane@example.com", "9876543210", "str0ng!pass")

		require.NoError(t, fixture.service.ForgotPassword(ctx, "jane@example.com"))
		rawToken := resetLinkPattern.FindStringSubmatch(fixture.mailer.sent[0].HTML)[1]

		entity, err := fixture.service.ResetPassword(ctx, rawToken, "n3w!secret")
		require.NoError(t, err)
		assert.Equal(t, account.ID, entity.ID)
		assert.True(t, sec.CheckPasswordHash("n3w!secret", fixture.users.users[account.ID].PasswordHash))

		// The digest was cleared with the credential update.
		_, err = fixture.service.ResetPassword(ctx, rawToken, "an0ther!one")
		appError := apperr.As(err)
		require.NotNil(t, appError)
		assert.Equal(t, "INVALID_OR_EXPIRED_TOKEN", appError.Code)
	})

	t.Run("expired_token_is_rejected", func(t *testing.T) {
		fixture := newAuthService(t)
		account := fixture.seedAccount(t, "jane@example.com", "9876543210", "str0ng!pass")

		digest := sec.HashToken("expired-token")
		past := time.Now().Add(-time.Minute)
		account.ResetTokenHash = &digest
		account.ResetTokenExpiry = &past
		fixture.users.users[account.ID] = account

		_, err := fixture.service.ResetPassword(ctx, "expired-token", "n3w!secret")

		appError := apperr.As(err)
		require.NotNil(t, appError)
		assert.Equal(t, "INVALID_OR_EXPIRED_TOKEN", appError.Code)
	})
}
