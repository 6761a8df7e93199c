// Package services contains server-side business logic: account signup and
// verification, sign-in and token refresh (AuthService), role-gated profile
// management (UserService) and the purge of stale unverified accounts
// (CleanupService). Every store access runs inside one unit of work.
package services

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrijs2005/gophaccounts/internal/common"
	"github.com/dmitrijs2005/gophaccounts/internal/logging"
	"github.com/dmitrijs2005/gophaccounts/internal/server/auth"
	"github.com/dmitrijs2005/gophaccounts/internal/server/config"
	"github.com/dmitrijs2005/gophaccounts/internal/server/models"
	"github.com/dmitrijs2005/gophaccounts/internal/server/repositories/repomanager"
)

// PasswordHasher hashes and checks passwords.
type PasswordHasher interface {
	Hash(ctx context.Context, password string) (string, error)
	Verify(ctx context.Context, password, encoded string) (bool, error)
}

// TokenCodec issues and decodes purpose-tagged tokens.
type TokenCodec interface {
	Issue(subject string, purpose auth.Purpose, ttl time.Duration) (string, error)
	Decode(token string, expected auth.Purpose) (*auth.Claims, bool)
}

// VerificationNotifier delivers the verification link to a new account.
// Implementations must not block the caller.
type VerificationNotifier interface {
	NotifyVerification(ctx context.Context, email, link string)
}

// AuthService drives the account lifecycle: signup, e-mail verification,
// sign-in and access token refresh.
type AuthService struct {
	uow        repomanager.UnitOfWork
	hasher     PasswordHasher
	tokens     TokenCodec
	notifier   VerificationNotifier
	logger     logging.Logger
	accessTTL  time.Duration
	refreshTTL time.Duration
	verifyTTL  time.Duration
	publicURL  string
}

// NewAuthService constructs an AuthService using the unit of work, codecs and server config.
// A nil notifier disables verification mail.
func NewAuthService(uow repomanager.UnitOfWork, hasher PasswordHasher, tokens TokenCodec, notifier VerificationNotifier,
	cfg *config.Config, logger logging.Logger) *AuthService {
	return &AuthService{
		uow:        uow,
		hasher:     hasher,
		tokens:     tokens,
		notifier:   notifier,
		logger:     logger.With("module", "auth"),
		accessTTL:  cfg.AccessTokenValidityDuration,
		refreshTTL: cfg.RefreshTokenValidityDuration,
		verifyTTL:  cfg.VerificationTokenValidityDuration,
		publicURL:  strings.TrimRight(cfg.PublicURL, "/"),
	}
}

// Signup registers a new unverified account with role user and, once the
// record is committed, asks the notifier to deliver a verification link.
// Any role in the input is ignored.
func (s *AuthService) Signup(ctx context.Context, in models.SignupInput) (*models.UserView, error) {
	in.Role = models.RoleUser
	user, err := s.create(ctx, in, false)
	if err != nil {
		return nil, err
	}

	s.sendVerification(ctx, user.Email)

	view := user.View()
	return &view, nil
}

// Provision creates an account on behalf of a trusted operator. The account
// may be an admin, starts verified and no mail is sent.
func (s *AuthService) Provision(ctx context.Context, in models.SignupInput) (*models.UserView, error) {
	if in.Role == "" {
		in.Role = models.RoleUser
	}
	user, err := s.create(ctx, in, true)
	if err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "account provisioned", "user_id", user.ID, "email", user.Email, "role", user.Role)

	view := user.View()
	return &view, nil
}

func (s *AuthService) create(ctx context.Context, in models.SignupInput, verified bool) (*models.User, error) {
	if err := validateSignup(in); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(ctx, in.Password)
	if err != nil {
		return nil, err
	}

	var created *models.User
	err = s.uow.Do(ctx, func(ctx context.Context, repos repomanager.Repositories) error {
		existing, err := repos.Users().GetByEmail(ctx, in.Email)
		if err != nil {
			return err
		}
		if existing != nil {
			return fmt.Errorf("email %q: %w", in.Email, common.ErrAlreadyExists)
		}

		created, err = repos.Users().Add(ctx, &models.User{
			Email:        in.Email,
			PasswordHash: hash,
			Verified:     verified,
			Role:         in.Role,
			Name:         in.Name,
			Surname:      in.Surname,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	return created, nil
}

func (s *AuthService) sendVerification(ctx context.Context, email string) {
	if s.notifier == nil {
		return
	}
	token, err := s.tokens.Issue(email, auth.PurposeVerify, s.verifyTTL)
	if err != nil {
		s.logger.Error(ctx, "verification token not issued", "email", email, "error", err)
		return
	}
	s.notifier.NotifyVerification(ctx, email, s.VerificationLink(token))
}

// VerificationLink is the URL mailed to new accounts.
func (s *AuthService) VerificationLink(token string) string {
	return s.publicURL + "/auth/verify?token=" + url.QueryEscape(token)
}

// Verify confirms the account named by a verification token. Verifying an
// account twice fails with ErrAlreadyVerified, also when two requests race.
func (s *AuthService) Verify(ctx context.Context, token string) error {
	claims, ok := s.tokens.Decode(token, auth.PurposeVerify)
	if !ok {
		return common.ErrInvalidToken
	}

	return s.uow.Do(ctx, func(ctx context.Context, repos repomanager.Repositories) error {
		user, err := repos.Users().GetByEmail(ctx, claims.Subject)
		if err != nil {
			return err
		}
		if user == nil {
			return common.ErrNotFound
		}
		if user.Verified {
			return common.ErrAlreadyVerified
		}

		changed, err := repos.Users().MarkVerified(ctx, user.ID)
		if err != nil {
			return err
		}
		if !changed {
			return common.ErrAlreadyVerified
		}

		s.logger.Info(ctx, "account verified", "user_id", user.ID, "email", user.Email)
		return nil
	})
}

// SignIn checks the credentials and returns a fresh access/refresh pair.
// The verification state is reported only after the password matched.
func (s *AuthService) SignIn(ctx context.Context, email, password string) (*models.TokenPair, error) {
	var user *models.User
	err := s.uow.Do(ctx, func(ctx context.Context, repos repomanager.Repositories) error {
		var err error
		user, err = repos.Users().GetByEmail(ctx, email)
		return err
	})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, common.ErrNotFound
	}

	ok, err := s.hasher.Verify(ctx, password, user.PasswordHash)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, common.ErrInvalidCredentials
	}
	if !user.Verified {
		return nil, common.ErrNotVerified
	}

	access, err := s.tokens.Issue(user.ID, auth.PurposeAccess, s.accessTTL)
	if err != nil {
		return nil, fmt.Errorf("%w: issue access token: %v", common.ErrInternal, err)
	}
	refresh, err := s.tokens.Issue(user.ID, auth.PurposeRefresh, s.refreshTTL)
	if err != nil {
		return nil, fmt.Errorf("%w: issue refresh token: %v", common.ErrInternal, err)
	}

	return &models.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// RefreshAccessToken mints a new access token for the account behind a
// valid refresh token. The refresh token itself is not rotated.
func (s *AuthService) RefreshAccessToken(ctx context.Context, refreshToken string) (string, error) {
	claims, ok := s.tokens.Decode(refreshToken, auth.PurposeRefresh)
	if !ok {
		return "", common.ErrInvalidToken
	}

	if _, err := s.userByID(ctx, claims.Subject); err != nil {
		return "", err
	}

	access, err := s.tokens.Issue(claims.Subject, auth.PurposeAccess, s.accessTTL)
	if err != nil {
		return "", fmt.Errorf("%w: issue access token: %v", common.ErrInternal, err)
	}
	return access, nil
}

// GetCurrentUser resolves an access token to the public view of its account.
func (s *AuthService) GetCurrentUser(ctx context.Context, accessToken string) (*models.UserView, error) {
	claims, ok := s.tokens.Decode(accessToken, auth.PurposeAccess)
	if !ok {
		return nil, common.ErrInvalidToken
	}

	user, err := s.userByID(ctx, claims.Subject)
	if err != nil {
		return nil, err
	}

	view := user.View()
	return &view, nil
}

func (s *AuthService) userByID(ctx context.Context, id string) (*models.User, error) {
	var user *models.User
	err := s.uow.Do(ctx, func(ctx context.Context, repos repomanager.Repositories) error {
		var err error
		user, err = repos.Users().GetByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, common.ErrNotFound
	}
	return user, nil
}

// AccessTTL and RefreshTTL expose the token lifetimes for cookie max-age.
func (s *AuthService) AccessTTL() time.Duration  { return s.accessTTL }
func (s *AuthService) RefreshTTL() time.Duration { return s.refreshTTL }
