// Package session implements registration, login and refresh-token rotation.
package session

import (
	"context"
	"crypto/subtle"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/kloda-app/kloda/backend/internal/domain"
	"github.com/kloda-app/kloda/backend/internal/logging"
	"github.com/kloda-app/kloda/backend/internal/metrics"
	"github.com/kloda-app/kloda/backend/internal/repository"
	"github.com/kloda-app/kloda/backend/pkg/auth"
)

// Signer issues and verifies access and refresh tokens.
type Signer interface {
	SignAccess(subject string) (string, error)
	SignRefresh(subject string) (string, time.Time, error)
	VerifyAccess(token string) (*auth.Claims, error)
	VerifyRefresh(token string) (*auth.Claims, error)
}

// AuthService handles authentication and refresh session logic
type AuthService struct {
	store  repository.AuthStore
	signer Signer
	now    func() time.Time
	// dummyHash keeps unknown-email logins as slow as wrong-password ones.
	dummyHash string
}

func NewAuthService(store repository.AuthStore, signer Signer) *AuthService {
	dummy, err := auth.HashPassword("kloda-dummy-password")
	if err != nil {
		logging.Error().Err(err).Msg("failed to prepare dummy password hash")
	}
	return &AuthService{
		store:     store,
		signer:    signer,
		now:       time.Now,
		dummyHash: dummy,
	}
}

// MsgPasswordTooLong is returned for passwords bcrypt cannot hash.
const MsgPasswordTooLong = "password must be at most 72 bytes"

type RegisterInput struct {
	Username string
	Email    string
	Password string
}

type LoginInput struct {
	Email    string
	Password string
}

// Register creates the user and its first refresh session in one transaction.
func (s *AuthService) Register(ctx context.Context, in RegisterInput, client domain.ClientInfo) (_ *domain.AuthResult, err error) {
	defer observe("register", &err)

	username := strings.TrimSpace(in.Username)
	email := strings.TrimSpace(in.Email)

	if len(in.Password) > auth.MaxPasswordBytes {
		return nil, domain.NewValidation(MsgPasswordTooLong)
	}

	if _, err := s.store.Users().GetByUsername(ctx, username); err == nil {
		return nil, domain.NewDuplicateUsername()
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, domain.NewInternal(err)
	}

	if _, err := s.store.Users().GetByEmail(ctx, email); err == nil {
		return nil, domain.NewDuplicateEmail()
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, domain.NewInternal(err)
	}

	hashed, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, domain.NewInternal(err)
	}

	user := &domain.User{Username: username, Email: email, HashedPassword: hashed}
	var refreshToken string

	err = s.store.WithAuthTx(ctx, func(ctx context.Context, tx repository.AuthTx) error {
		if _, err := tx.Users().Create(ctx, user); err != nil {
			return conflictError(err)
		}
		refreshToken, err = s.startSession(ctx, tx, user.ID, client)
		return err
	})
	if err != nil {
		return nil, domain.AsError(err)
	}

	accessToken, err := s.signer.SignAccess(userSubject(user.ID))
	if err != nil {
		return nil, domain.NewInternal(err)
	}

	logging.Info().Int64("user_id", user.ID).Str("ip", client.IP).Msg("user registered")
	return &domain.AuthResult{AccessToken: accessToken, UserID: user.ID, RefreshToken: refreshToken}, nil
}

// conflictError maps a unique violation that raced past the pre-checks.
func conflictError(err error) error {
	var conflict *repository.ConflictError
	if errors.As(err, &conflict) {
		switch conflict.Constraint {
		case repository.ConstraintUsername:
			return domain.NewDuplicateUsername()
		case repository.ConstraintEmail:
			return domain.NewDuplicateEmail()
		}
	}
	return domain.NewInternal(err)
}

// Login verifies credentials and opens a new refresh session. Unknown emails
// and wrong passwords produce the same error.
func (s *AuthService) Login(ctx context.Context, in LoginInput, client domain.ClientInfo) (_ *domain.AuthResult, err error) {
	defer observe("login", &err)

	user, err := s.store.Users().GetByEmail(ctx, strings.TrimSpace(in.Email))
	if errors.Is(err, repository.ErrNotFound) {
		s.spendPasswordCheck(in.Password)
		return nil, domain.NewInvalidCredentials()
	}
	if err != nil {
		return nil, domain.NewInternal(err)
	}

	if !auth.CheckPasswordHash(in.Password, user.HashedPassword) {
		return nil, domain.NewInvalidCredentials()
	}

	var refreshToken string
	err = s.store.WithAuthTx(ctx, func(ctx context.Context, tx repository.AuthTx) error {
		var err error
		if refreshToken, err = s.startSession(ctx, tx, user.ID, client); err != nil {
			return err
		}
		return tx.Users().TouchLastLogin(ctx, user.ID, s.now())
	})
	if err != nil {
		return nil, domain.NewInternal(err)
	}

	accessToken, err := s.signer.SignAccess(userSubject(user.ID))
	if err != nil {
		return nil, domain.NewInternal(err)
	}

	return &domain.AuthResult{AccessToken: accessToken, UserID: user.ID, RefreshToken: refreshToken}, nil
}

// spendPasswordCheck costs as much as a real password comparison.
func (s *AuthService) spendPasswordCheck(password string) {
	if s.dummyHash != "" {
		auth.CheckPasswordHash(password, s.dummyHash)
		return
	}
	_, _ = auth.HashPassword("kloda-dummy-password")
}

// Refresh rotates a refresh token: the presented session is consumed and a
// new one is issued. A token can be used at most once; concurrent attempts
// with the same token race on the conditional delete and all but one fail.
func (s *AuthService) Refresh(ctx context.Context, token string, client domain.ClientInfo) (_ *domain.RefreshResult, err error) {
	defer observe("refresh", &err)

	if token == "" {
		return nil, domain.NewUnauthorized(errors.New("missing refresh token"))
	}

	claims, err := s.signer.VerifyRefresh(token)
	if err != nil {
		return nil, domain.NewUnauthorized(err)
	}
	if claims.Subject == "" {
		return nil, domain.NewUnauthorized(errors.New("refresh token without subject"))
	}

	hashed := auth.HashToken(token)
	var (
		userID       int64
		refreshToken string
	)

	err = s.store.WithAuthTx(ctx, func(ctx context.Context, tx repository.AuthTx) error {
		session, err := tx.Sessions().Get(ctx, claims.Subject)
		if errors.Is(err, repository.ErrNotFound) {
			return domain.NewUnauthorized(errors.New("refresh session not found"))
		}
		if err != nil {
			return domain.NewInternal(err)
		}

		if subtle.ConstantTimeCompare([]byte(session.HashedToken), []byte(hashed)) != 1 {
			return domain.NewUnauthorized(errors.New("refresh token digest mismatch"))
		}

		if err := tx.Sessions().Consume(ctx, session.ID, hashed, s.now()); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return domain.NewUnauthorized(errors.New("refresh session already consumed or expired"))
			}
			return domain.NewInternal(err)
		}

		if _, err := tx.Users().GetByID(ctx, session.UserID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return domain.NewUnauthorized(errors.New("refresh session owner not found"))
			}
			return domain.NewInternal(err)
		}

		userID = session.UserID
		refreshToken, err = s.startSession(ctx, tx, userID, client)
		return err
	})
	if err != nil {
		return nil, domain.AsError(err)
	}

	accessToken, err := s.signer.SignAccess(userSubject(userID))
	if err != nil {
		return nil, domain.NewInternal(err)
	}
	return &domain.RefreshResult{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// Logout deletes every refresh session of the user.
func (s *AuthService) Logout(ctx context.Context, userID int64) (err error) {
	defer observe("logout", &err)

	err = s.store.WithAuthTx(ctx, func(ctx context.Context, tx repository.AuthTx) error {
		if _, err := tx.Sessions().DeleteAllForUser(ctx, userID); err != nil {
			return domain.NewInternal(err)
		}
		if err := tx.Users().TouchLastLogin(ctx, userID, s.now()); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return domain.NewUnauthorized(errors.New("logout of unknown user"))
			}
			return domain.NewInternal(err)
		}
		return nil
	})
	if err != nil {
		return domain.AsError(err)
	}
	return nil
}

// Me touches the user's last login time and returns the profile.
func (s *AuthService) Me(ctx context.Context, userID int64) (*domain.UserProfile, error) {
	if err := s.store.Users().TouchLastLogin(ctx, userID, s.now()); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.NewUnauthorized(err)
		}
		return nil, domain.NewInternal(err)
	}

	profile, err := s.store.Users().GetProfile(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, domain.NewUnauthorized(err)
	}
	if err != nil {
		return nil, domain.NewInternal(err)
	}
	return profile, nil
}

// Authorize resolves a bearer access token to an authenticated identity.
func (s *AuthService) Authorize(ctx context.Context, accessToken string) (domain.Identity, error) {
	if accessToken == "" {
		return domain.Anonymous(), domain.NewUnauthorized(errors.New("missing access token"))
	}

	claims, err := s.signer.VerifyAccess(accessToken)
	if err != nil {
		return domain.Anonymous(), domain.NewUnauthorized(err)
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || userID <= 0 {
		return domain.Anonymous(), domain.NewUnauthorized(errors.New("invalid access token subject"))
	}

	profile, err := s.store.Users().GetProfile(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return domain.Anonymous(), domain.NewUnauthorized(err)
	}
	if err != nil {
		return domain.Anonymous(), domain.NewInternal(err)
	}
	return domain.Authenticated(*profile), nil
}

// Authenticate is Authorize for optional identity: failures yield Anonymous.
func (s *AuthService) Authenticate(ctx context.Context, accessToken string) domain.Identity {
	if accessToken == "" {
		return domain.Anonymous()
	}
	identity, err := s.Authorize(ctx, accessToken)
	if err != nil {
		logging.Debug().Err(err).Msg("optional authentication failed")
		return domain.Anonymous()
	}
	return identity
}

// ListSessions returns the user's active refresh sessions.
func (s *AuthService) ListSessions(ctx context.Context, userID int64) ([]domain.RefreshSession, error) {
	sessions, err := s.store.Sessions().ListForUser(ctx, userID, s.now())
	if err != nil {
		return nil, domain.NewInternal(err)
	}
	return sessions, nil
}

// RevokeSession deletes one of the user's sessions.
func (s *AuthService) RevokeSession(ctx context.Context, userID int64, sessionID string) error {
	err := s.store.Sessions().DeleteForUser(ctx, userID, sessionID)
	if errors.Is(err, repository.ErrNotFound) {
		return domain.NewNotFound("Session not found")
	}
	if err != nil {
		return domain.NewInternal(err)
	}
	return nil
}

// CleanupExpired removes sessions past their expiry.
func (s *AuthService) CleanupExpired(ctx context.Context) (int64, error) {
	return s.store.Sessions().DeleteExpired(ctx, s.now())
}

// startSession signs a refresh token for a fresh session id and stores its digest.
func (s *AuthService) startSession(ctx context.Context, tx repository.AuthTx, userID int64, client domain.ClientInfo) (string, error) {
	sessionID := auth.NewSessionID()

	token, expiresAt, err := s.signer.SignRefresh(sessionID)
	if err != nil {
		return "", domain.NewInternal(err)
	}

	session := &domain.RefreshSession{
		ID:          sessionID,
		HashedToken: auth.HashToken(token),
		IP:          client.IP,
		UserAgent:   client.UserAgent,
		UserID:      userID,
		CreatedAt:   s.now(),
		ExpiresAt:   expiresAt,
	}
	if err := tx.Sessions().Create(ctx, session); err != nil {
		return "", domain.NewInternal(err)
	}
	return token, nil
}

func userSubject(id int64) string {
	return strconv.FormatInt(id, 10)
}

func observe(operation string, err *error) {
	result := "ok"
	if *err != nil {
		result = strings.ToLower(domain.KindOf(*err).String())
	}
	metrics.AuthOperations.WithLabelValues(operation, result).Inc()
}
