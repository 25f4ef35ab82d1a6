package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bruber/driverlog/internal/domain"
	"github.com/bruber/driverlog/internal/repo"
	"github.com/bruber/driverlog/internal/service"
	"github.com/bruber/driverlog/internal/storage"
)

// authFixture wires an AuthService over a fresh in-memory store with a
// movable clock, so tests can jump past session and token expiry.
type authFixture struct {
	svc   *service.AuthService
	users repo.UserRepo
	now   time.Time
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	store := storage.NewMemory()
	f := &authFixture{
		users: repo.NewUserRepo(store),
		now:   time.Date(2024, time.June, 15, 10, 0, 0, 0, time.UTC),
	}
	f.svc = service.NewAuthService(
		f.users,
		repo.NewSessionRepo(store),
		repo.NewResetTokenRepo(store),
		func() time.Time { return f.now },
	)
	return f
}

func (f *authFixture) register(t *testing.T) domain.UserAccount {
	t.Helper()
	u, err := f.svc.Register(context.Background(), "Ana", "ana@example.com", "11 99999-0000", "s3cret")
	require.NoError(t, err)
	return u
}

func TestAuthService_Register(t *testing.T) {
	f := newAuthFixture(t)

	u := f.register(t)

	assert.NotEmpty(t, u.ID)
	assert.Equal(t, "Ana", u.Name)
	assert.Equal(t, f.now, u.RegisteredAt)
	// The password must not be stored in any recoverable form.
	assert.NotContains(t, u.PasswordHash, "s3cret")
}

func TestAuthService_Register_duplicateEmailAnyCase(t *testing.T) {
	f := newAuthFixture(t)
	f.register(t)

	_, err := f.svc.Register(context.Background(), "Other", "ANA@example.com", "", "pw")
	require.ErrorIs(t, err, domain.ErrEmailTaken)
}

func TestAuthService_Register_requiredFields(t *testing.T) {
	f := newAuthFixture(t)

	_, err := f.svc.Register(context.Background(), "", "a@b.c", "", "pw")
	require.ErrorIs(t, err, domain.ErrValidation)
	_, err = f.svc.Register(context.Background(), "Ana", "a@b.c", "", "")
	require.ErrorIs(t, err, domain.ErrValidation)
}

func TestAuthService_LoginAndCheckSession(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture(t)
	u := f.register(t)

	session, err := f.svc.Login(ctx, "ana@example.com", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, u.ID, session.UserID)
	assert.Equal(t, f.now.Add(24*time.Hour).UnixMilli(), session.ExpiresAt)

	got, ok, err := f.svc.CheckSession(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, session, got)
}

func TestAuthService_Login_badCredentials(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture(t)
	f.register(t)

	_, err := f.svc.Login(ctx, "nobody@example.com", "s3cret")
	require.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, err = f.svc.Login(ctx, "ana@example.com", "wrong")
	require.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

// TestAuthService_CheckSession_lazyExpiry: once the clock passes the expiry
// instant the check reports logged-out and removes the stored session.
func TestAuthService_CheckSession_lazyExpiry(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture(t)
	f.register(t)

	_, err := f.svc.Login(ctx, "ana@example.com", "s3cret")
	require.NoError(t, err)

	// One millisecond short of expiry: still valid.
	f.now = f.now.Add(24*time.Hour - time.Millisecond)
	_, ok, err := f.svc.CheckSession(ctx)
	require.NoError(t, err)
	assert.True(t, ok)

	// At the expiry instant: invalid, and cleared as a side effect.
	f.now = f.now.Add(time.Millisecond)
	_, ok, err = f.svc.CheckSession(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	// Even if the clock rolled back, the session is gone.
	f.now = f.now.Add(-time.Hour)
	_, ok, err = f.svc.CheckSession(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestAuthService_Logout(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture(t)
	f.register(t)

	_, err := f.svc.Login(ctx, "ana@example.com", "s3cret")
	require.NoError(t, err)
	require.NoError(t, f.svc.Logout(ctx))

	_, ok, err := f.svc.CheckSession(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	// Logging out twice is fine.
	require.NoError(t, f.svc.Logout(ctx))
}

func TestAuthService_Guard(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture(t)
	f.register(t)

	// Logged out: public paths pass, protected paths don't.
	allowed, err := f.svc.Guard(ctx, "/login")
	require.NoError(t, err)
	assert.True(t, allowed)

	allowed, err = f.svc.Guard(ctx, "/relatorios")
	require.NoError(t, err)
	assert.False(t, allowed)

	// Prefix matching covers subpaths.
	allowed, err = f.svc.Guard(ctx, "/relatorios/mensal")
	require.NoError(t, err)
	assert.False(t, allowed)

	_, err = f.svc.Login(ctx, "ana@example.com", "s3cret")
	require.NoError(t, err)

	allowed, err = f.svc.Guard(ctx, "/relatorios")
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestAuthService_UpdateProfile_syncsSession(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture(t)
	u := f.register(t)

	_, err := f.svc.Login(ctx, "ana@example.com", "s3cret")
	require.NoError(t, err)

	updated, err := f.svc.UpdateProfile(ctx, u.ID, "Ana Maria", "11 88888-0000")
	require.NoError(t, err)
	assert.Equal(t, "Ana Maria", updated.Name)
	assert.Equal(t, u.Email, updated.Email) // email immutable

	session, ok, err := f.svc.CheckSession(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Ana Maria", session.Name)
	assert.Equal(t, "11 88888-0000", session.Phone)
}

func TestAuthService_PasswordReset_flow(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture(t)
	f.register(t)

	token, err := f.svc.RequestPasswordReset(ctx, "ana@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	require.NoError(t, f.svc.ResetPassword(ctx, "ana@example.com", token, "newpass"))

	// Old password no longer works, new one does.
	_, err = f.svc.Login(ctx, "ana@example.com", "s3cret")
	require.ErrorIs(t, err, domain.ErrInvalidCredentials)
	_, err = f.svc.Login(ctx, "ana@example.com", "newpass")
	require.NoError(t, err)

	// The token is single-use.
	err = f.svc.ResetPassword(ctx, "ana@example.com", token, "again")
	require.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestAuthService_PasswordReset_expiredToken(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture(t)
	f.register(t)

	token, err := f.svc.RequestPasswordReset(ctx, "ana@example.com")
	require.NoError(t, err)

	f.now = f.now.Add(31 * time.Minute)
	err = f.svc.ResetPassword(ctx, "ana@example.com", token, "newpass")
	require.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestAuthService_PasswordReset_unknownEmail(t *testing.T) {
	f := newAuthFixture(t)

	_, err := f.svc.RequestPasswordReset(context.Background(), "nobody@example.com")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAuthService_PasswordReset_wrongToken(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture(t)
	f.register(t)

	_, err := f.svc.RequestPasswordReset(ctx, "ana@example.com")
	require.NoError(t, err)

	err = f.svc.ResetPassword(ctx, "ana@example.com", "forged", "newpass")
	require.ErrorIs(t, err, domain.ErrInvalidToken)
}
