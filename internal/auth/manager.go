package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"pmadmin/console/internal/apiclient"
	"pmadmin/console/internal/models"
	"pmadmin/console/internal/session"
)

const (
	EndpointLogin     = "/auth/login"
	EndpointRefresh   = "/auth/refresh"
	EndpointLogout    = "/auth/logout"
	EndpointLogoutAll = "/auth/logout-all"
)

var ErrNoRefreshToken = errors.New("no refresh token available")

// Requester is the slice of the API client the manager needs.
type Requester interface {
	Post(ctx context.Context, endpoint string, body any) (*apiclient.Envelope, error)
}

type State int

const (
	Anonymous State = iota
	Authenticated
)

func (s State) String() string {
	if s == Authenticated {
		return "authenticated"
	}
	return "anonymous"
}

// Session is the client-held identity: the token pair and the user profile.
type Session struct {
	AccessToken  string
	RefreshToken string
	User         models.User
}

type Manager struct {
	client Requester
	store  session.Store
	log    zerolog.Logger
}

func NewManager(client Requester, store session.Store, log zerolog.Logger) *Manager {
	return &Manager{
		client: client,
		store:  store,
		log:    log,
	}
}

func (m *Manager) Login(ctx context.Context, email, password string) (Session, error) {
	req := models.LoginRequest{Email: strings.TrimSpace(email), Password: password}
	if err := req.Validate(); err != nil {
		return Session{}, err
	}

	env, err := m.client.Post(ctx, EndpointLogin, req)
	if err != nil {
		return Session{}, err
	}

	resp, err := apiclient.Decode[models.LoginResponse](env)
	if err != nil {
		return Session{}, err
	}
	if err := resp.Validate(); err != nil {
		return Session{}, fmt.Errorf("login response: %w", err)
	}

	sess := Session{
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
		User: models.User{
			ID:       strconv.FormatInt(resp.EmployeeID, 10),
			Email:    resp.Email,
			FullName: resp.Name,
			Role:     models.MapBackendRole(resp.Role),
		},
	}

	userJSON, err := json.Marshal(sess.User)
	if err != nil {
		return Session{}, fmt.Errorf("encode user: %w", err)
	}

	if err := m.store.Set(ctx, map[string]string{
		session.KeyAccessToken:  sess.AccessToken,
		session.KeyRefreshToken: sess.RefreshToken,
		session.KeyUser:         string(userJSON),
	}); err != nil {
		return Session{}, fmt.Errorf("persist session: %w", err)
	}

	m.log.Info().
		Str("user_id", sess.User.ID).
		Str("role", string(sess.User.Role)).
		Msg("logged in")

	return sess, nil
}

// Logout tells the backend to drop the session, then clears the local
// mirror whatever the backend said. Only a local storage failure is
// returned.
func (m *Manager) Logout(ctx context.Context) error {
	if _, err := m.client.Post(ctx, EndpointLogout, nil); err != nil {
		m.log.Warn().Err(err).Msg("remote logout failed")
	}
	return m.clear(ctx)
}

// LogoutAll revokes every session of the given account. For the signed-in
// account it behaves like Logout: the local mirror is cleared whatever the
// backend said. For another account the local session is kept and the
// backend's answer is returned.
func (m *Manager) LogoutAll(ctx context.Context, email string) error {
	endpoint := EndpointLogoutAll + "?" + url.Values{"email": {email}}.Encode()
	_, remoteErr := m.client.Post(ctx, endpoint, nil)

	self, err := m.isStoredUser(ctx, email)
	if err != nil {
		return err
	}
	if !self {
		return remoteErr
	}
	if remoteErr != nil {
		m.log.Warn().Err(remoteErr).Msg("remote logout-all failed")
	}
	return m.clear(ctx)
}

// isStoredUser reports whether email belongs to the persisted user. With no
// readable user record the local session is treated as the target.
func (m *Manager) isStoredUser(ctx context.Context, email string) (bool, error) {
	userJSON, ok, err := m.store.Get(ctx, session.KeyUser)
	if err != nil {
		return false, fmt.Errorf("read user: %w", err)
	}
	var user models.User
	if !ok || json.Unmarshal([]byte(userJSON), &user) != nil || user.Email == "" {
		return true, nil
	}
	return strings.EqualFold(user.Email, email), nil
}

func (m *Manager) clear(ctx context.Context) error {
	if err := m.store.Delete(ctx, session.Keys...); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// Refresh exchanges the stored refresh token for a new pair. The stored user
// is left as is.
func (m *Manager) Refresh(ctx context.Context) (Session, error) {
	refreshToken, ok, err := m.store.Get(ctx, session.KeyRefreshToken)
	if err != nil {
		return Session{}, fmt.Errorf("read refresh token: %w", err)
	}
	if !ok || refreshToken == "" {
		return Session{}, ErrNoRefreshToken
	}

	env, err := m.client.Post(ctx, EndpointRefresh, models.RefreshTokenRequest{RefreshToken: refreshToken})
	if err != nil {
		return Session{}, err
	}

	resp, err := apiclient.Decode[models.LoginResponse](env)
	if err != nil {
		return Session{}, err
	}
	if err := resp.Validate(); err != nil {
		return Session{}, fmt.Errorf("refresh response: %w", err)
	}

	if err := m.store.Set(ctx, map[string]string{
		session.KeyAccessToken:  resp.AccessToken,
		session.KeyRefreshToken: resp.RefreshToken,
	}); err != nil {
		return Session{}, fmt.Errorf("persist tokens: %w", err)
	}

	sess := Session{AccessToken: resp.AccessToken, RefreshToken: resp.RefreshToken}
	if restored, state, err := m.Restore(ctx); err == nil && state == Authenticated {
		sess.User = restored.User
	}
	return sess, nil
}

// Restore rebuilds the session from the store. It is Authenticated only when
// both the user record and the access token are present and the user
// parses; partial data is ignored, not cleared.
func (m *Manager) Restore(ctx context.Context) (Session, State, error) {
	userJSON, hasUser, err := m.store.Get(ctx, session.KeyUser)
	if err != nil {
		return Session{}, Anonymous, fmt.Errorf("read user: %w", err)
	}
	accessToken, hasToken, err := m.store.Get(ctx, session.KeyAccessToken)
	if err != nil {
		return Session{}, Anonymous, fmt.Errorf("read access token: %w", err)
	}
	if !hasUser || !hasToken || accessToken == "" {
		return Session{}, Anonymous, nil
	}

	var user models.User
	if err := json.Unmarshal([]byte(userJSON), &user); err != nil || user.ID == "" {
		m.log.Debug().Err(err).Msg("stored user record unusable")
		return Session{}, Anonymous, nil
	}
	if !user.Role.Valid() {
		user.Role = models.RoleEmployee
	}

	refreshToken, _, err := m.store.Get(ctx, session.KeyRefreshToken)
	if err != nil {
		return Session{}, Anonymous, fmt.Errorf("read refresh token: %w", err)
	}

	return Session{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         user,
	}, Authenticated, nil
}
