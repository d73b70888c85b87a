package sessionctx

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pmadmin/console/internal/access"
	"pmadmin/console/internal/auth"
	"pmadmin/console/internal/models"
)

type fakeAuth struct {
	stored    *auth.Session
	loginErr  error
	logoutErr error
}

func (f *fakeAuth) Login(_ context.Context, email, _ string) (auth.Session, error) {
	if f.loginErr != nil {
		return auth.Session{}, f.loginErr
	}
	sess := auth.Session{
		AccessToken: "a",
		User:        models.User{ID: "1", Email: email, Role: models.RolePM},
	}
	f.stored = &sess
	return sess, nil
}

func (f *fakeAuth) Logout(context.Context) error {
	f.stored = nil
	return f.logoutErr
}

func (f *fakeAuth) LogoutAll(context.Context, string) error {
	f.stored = nil
	return nil
}

func (f *fakeAuth) Restore(context.Context) (auth.Session, auth.State, error) {
	if f.stored == nil {
		return auth.Session{}, auth.Anonymous, nil
	}
	return *f.stored, auth.Authenticated, nil
}

func newProvider(a *fakeAuth) *Provider {
	return NewProvider(a, access.NewGate(access.DefaultRules), zerolog.Nop())
}

func TestInitRestoresStoredSession(t *testing.T) {
	a := &fakeAuth{stored: &auth.Session{User: models.User{ID: "5", Role: models.RoleAdmin}}}
	p := newProvider(a)

	require.NoError(t, p.Init(context.Background()))
	require.NotNil(t, p.Current())
	assert.Equal(t, models.RoleAdmin, p.Current().Role)
}

func TestInitAnonymous(t *testing.T) {
	p := newProvider(&fakeAuth{})
	require.NoError(t, p.Init(context.Background()))
	assert.Nil(t, p.Current())
	assert.Equal(t, access.RedirectLogin, p.Navigate("/projects").Outcome)
}

func TestLoginLogoutNotifiesListeners(t *testing.T) {
	p := newProvider(&fakeAuth{logoutErr: errors.New("offline")})
	ctx := context.Background()

	var seen []*models.User
	unsubscribe := p.Subscribe(func(u *models.User) { seen = append(seen, u) })

	user, err := p.Login(ctx, "pm@x.com", "admin123")
	require.NoError(t, err)
	assert.Equal(t, models.RolePM, user.Role)
	assert.True(t, p.Authenticated())
	assert.Equal(t, access.Allow, p.Navigate("/projects").Outcome)
	assert.Equal(t, access.RedirectHome, p.Navigate("/settings").Outcome)

	err = p.Logout(ctx)
	assert.Error(t, err)
	assert.Nil(t, p.Current(), "local state is cleared even when logout reports an error")

	require.Len(t, seen, 2)
	assert.Equal(t, "pm@x.com", seen[0].Email)
	assert.Nil(t, seen[1])

	unsubscribe()
	_, err = p.Login(ctx, "pm@x.com", "admin123")
	require.NoError(t, err)
	assert.Len(t, seen, 2)
}

func TestFailedLoginKeepsState(t *testing.T) {
	p := newProvider(&fakeAuth{loginErr: errors.New("bad credentials")})
	_, err := p.Login(context.Background(), "pm@x.com", "nope")
	require.Error(t, err)
	assert.Nil(t, p.Current())
}

func TestCurrentReturnsCopy(t *testing.T) {
	p := newProvider(&fakeAuth{})
	_, err := p.Login(context.Background(), "pm@x.com", "admin123")
	require.NoError(t, err)

	p.Current().Role = models.RoleAdmin
	assert.Equal(t, models.RolePM, p.Current().Role)
}
