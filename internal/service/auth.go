package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/bruber/driverlog/internal/domain"
	"github.com/bruber/driverlog/internal/repo"
)

const (
	// sessionTTL is the fixed lifetime of a login session.
	sessionTTL = 24 * time.Hour

	// resetTokenTTL is the fixed lifetime of a password-reset token.
	resetTokenTTL = 30 * time.Minute
)

// ProtectedPaths lists the screen paths gated behind a valid session.
// Matching is by prefix; everything else is freely reachable.
//
// The guard is a UX gate, not a security boundary: sessions are plain
// client-visible records, and nothing here signs or verifies them.
var ProtectedPaths = []string{
	"/adicionar-corrida",
	"/relatorios",
	"/backup",
	"/configuracoes",
	"/perfil",
}

// AuthService implements registration, login, the session guard, and the
// password-reset flow.
type AuthService struct {
	users    repo.UserRepo
	sessions repo.SessionRepo
	tokens   repo.ResetTokenRepo
	now      func() time.Time
}

// NewAuthService constructs an AuthService. now may be nil, in which case
// time.Now is used; tests pass a fixed clock.
func NewAuthService(users repo.UserRepo, sessions repo.SessionRepo, tokens repo.ResetTokenRepo, now func() time.Time) *AuthService {
	if now == nil {
		now = time.Now
	}
	return &AuthService{users: users, sessions: sessions, tokens: tokens, now: now}
}

// Register creates a new account. The email must not already be registered
// (compared case-insensitively); the password is stored as a bcrypt hash.
func (s *AuthService) Register(ctx context.Context, name, email, phone, password string) (domain.UserAccount, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	if name == "" || email == "" || password == "" {
		return domain.UserAccount{}, fmt.Errorf("service.AuthService.Register: %w: name, email, and password are required", domain.ErrValidation)
	}

	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return domain.UserAccount{}, fmt.Errorf("service.AuthService.Register: %w", domain.ErrEmailTaken)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return domain.UserAccount{}, fmt.Errorf("service.AuthService.Register: hash password: %w", err)
	}

	user := domain.UserAccount{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		Phone:        phone,
		PasswordHash: string(hash),
		RegisteredAt: s.now(),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return domain.UserAccount{}, fmt.Errorf("service.AuthService.Register: %w", err)
	}
	return user, nil
}

// Login verifies the credentials and stores a fresh 24-hour session.
// Unknown email and wrong password both return ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (domain.Session, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return domain.Session{}, fmt.Errorf("service.AuthService.Login: %w", domain.ErrInvalidCredentials)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return domain.Session{}, fmt.Errorf("service.AuthService.Login: %w", domain.ErrInvalidCredentials)
	}

	session := domain.Session{
		UserID:    user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Phone:     user.Phone,
		ExpiresAt: s.now().Add(sessionTTL).UnixMilli(),
	}
	if err := s.sessions.Put(ctx, session); err != nil {
		return domain.Session{}, fmt.Errorf("service.AuthService.Login: %w", err)
	}
	return session, nil
}

// CheckSession reports whether a valid session exists. An expired session is
// actively cleared as a side effect of the check — expiry is lazy, there is
// no background sweep. Absent or unreadable sessions are simply "not logged
// in", never an error.
func (s *AuthService) CheckSession(ctx context.Context) (domain.Session, bool, error) {
	session, ok, err := s.sessions.Get(ctx)
	if err != nil {
		return domain.Session{}, false, fmt.Errorf("service.AuthService.CheckSession: %w", err)
	}
	if !ok {
		return domain.Session{}, false, nil
	}
	if session.Expired(s.now()) {
		if err := s.sessions.Clear(ctx); err != nil {
			slog.WarnContext(ctx, "failed to clear expired session", "error", err)
		}
		return domain.Session{}, false, nil
	}
	return session, true, nil
}

// Logout unconditionally clears the session.
func (s *AuthService) Logout(ctx context.Context) error {
	if err := s.sessions.Clear(ctx); err != nil {
		return fmt.Errorf("service.AuthService.Logout: %w", err)
	}
	return nil
}

// Guard reports whether path may be accessed right now. Paths outside
// ProtectedPaths always pass; protected paths require a valid session.
func (s *AuthService) Guard(ctx context.Context, path string) (bool, error) {
	protected := false
	for _, p := range ProtectedPaths {
		if strings.HasPrefix(path, p) {
			protected = true
			break
		}
	}
	if !protected {
		return true, nil
	}
	_, ok, err := s.CheckSession(ctx)
	if err != nil {
		return false, fmt.Errorf("service.AuthService.Guard: %w", err)
	}
	return ok, nil
}

// UpdateProfile changes the account's name and phone. Email is immutable.
// When the live session belongs to the same user, its copy of the name and
// phone is updated too, so the header shows fresh data without a re-login.
func (s *AuthService) UpdateProfile(ctx context.Context, id, name, phone string) (domain.UserAccount, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.UserAccount{}, fmt.Errorf("service.AuthService.UpdateProfile: %w: name is required", domain.ErrValidation)
	}

	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return domain.UserAccount{}, fmt.Errorf("service.AuthService.UpdateProfile: %w", err)
	}
	user.Name = name
	user.Phone = phone
	if err := s.users.Update(ctx, user); err != nil {
		return domain.UserAccount{}, fmt.Errorf("service.AuthService.UpdateProfile: %w", err)
	}

	if session, ok, err := s.CheckSession(ctx); err == nil && ok && session.UserID == id {
		session.Name = user.Name
		session.Phone = user.Phone
		if err := s.sessions.Put(ctx, session); err != nil {
			slog.WarnContext(ctx, "failed to refresh session after profile update", "error", err)
		}
	}
	return user, nil
}

// RequestPasswordReset issues a 30-minute reset token for the account
// registered under email. The token is returned to the caller, which is
// responsible for delivering it to the user.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) (string, error) {
	if _, err := s.users.FindByEmail(ctx, email); err != nil {
		return "", fmt.Errorf("service.AuthService.RequestPasswordReset: %w", err)
	}

	token := uuid.NewString()
	err := s.tokens.Put(ctx, email, domain.ResetToken{
		Token:     token,
		ExpiresAt: s.now().Add(resetTokenTTL).UnixMilli(),
	})
	if err != nil {
		return "", fmt.Errorf("service.AuthService.RequestPasswordReset: %w", err)
	}
	return token, nil
}

// ResetPassword sets a new password given a valid, unexpired token issued
// for the same email. The token is single-use: it is removed on success,
// and an expired token is removed on sight.
func (s *AuthService) ResetPassword(ctx context.Context, email, token, newPassword string) error {
	if newPassword == "" {
		return fmt.Errorf("service.AuthService.ResetPassword: %w: password is required", domain.ErrValidation)
	}

	stored, ok, err := s.tokens.Get(ctx, email)
	if err != nil {
		return fmt.Errorf("service.AuthService.ResetPassword: %w", err)
	}
	if !ok || stored.Token != token {
		return fmt.Errorf("service.AuthService.ResetPassword: %w", domain.ErrInvalidToken)
	}
	if stored.Expired(s.now()) {
		if err := s.tokens.Delete(ctx, email); err != nil {
			slog.WarnContext(ctx, "failed to remove expired reset token", "error", err)
		}
		return fmt.Errorf("service.AuthService.ResetPassword: %w", domain.ErrInvalidToken)
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("service.AuthService.ResetPassword: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("service.AuthService.ResetPassword: hash password: %w", err)
	}
	user.PasswordHash = string(hash)
	if err := s.users.Update(ctx, user); err != nil {
		return fmt.Errorf("service.AuthService.ResetPassword: %w", err)
	}

	if err := s.tokens.Delete(ctx, email); err != nil {
		return fmt.Errorf("service.AuthService.ResetPassword: %w", err)
	}
	return nil
}
