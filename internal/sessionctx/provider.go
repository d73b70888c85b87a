package sessionctx

import (
	"context"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"pmadmin/console/internal/access"
	"pmadmin/console/internal/auth"
	"pmadmin/console/internal/models"
)

// Authenticator is the auth manager surface the provider drives.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (auth.Session, error)
	Logout(ctx context.Context) error
	LogoutAll(ctx context.Context, email string) error
	Restore(ctx context.Context) (auth.Session, auth.State, error)
}

// Listener is called after every change of the current user; user is nil
// once logged out.
type Listener func(user *models.User)

// Provider holds the current user for one process. Login and Logout are its
// only mutators.
type Provider struct {
	auth Authenticator
	gate *access.Gate
	log  zerolog.Logger

	mu        sync.RWMutex
	user      *models.User
	listeners []Listener
}

func NewProvider(authenticator Authenticator, gate *access.Gate, log zerolog.Logger) *Provider {
	return &Provider{
		auth: authenticator,
		gate: gate,
		log:  log,
	}
}

// Init restores the persisted session, if any.
func (p *Provider) Init(ctx context.Context) error {
	sess, state, err := p.auth.Restore(ctx)
	if err != nil {
		return err
	}
	if state != auth.Authenticated {
		p.set(nil)
		return nil
	}
	user := sess.User
	p.set(&user)
	return nil
}

// Current returns a copy of the logged-in user, or nil.
func (p *Provider) Current() *models.User {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.user == nil {
		return nil
	}
	user := *p.user
	return &user
}

func (p *Provider) Authenticated() bool {
	return p.Current() != nil
}

func (p *Provider) Login(ctx context.Context, email, password string) (models.User, error) {
	sess, err := p.auth.Login(ctx, email, password)
	if err != nil {
		return models.User{}, err
	}
	user := sess.User
	p.set(&user)
	return user, nil
}

func (p *Provider) Logout(ctx context.Context) error {
	err := p.auth.Logout(ctx)
	p.set(nil)
	return err
}

// LogoutAll revokes every session of email. The current user is signed out
// only when it is the target.
func (p *Provider) LogoutAll(ctx context.Context, email string) error {
	err := p.auth.LogoutAll(ctx, email)
	if current := p.Current(); current == nil || strings.EqualFold(current.Email, email) {
		p.set(nil)
	}
	return err
}

// Subscribe registers fn for user changes and returns a function that
// removes it.
func (p *Provider) Subscribe(fn Listener) func() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.listeners = append(p.listeners, fn)
	idx := len(p.listeners) - 1
	return func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		if idx < len(p.listeners) {
			p.listeners[idx] = nil
		}
	}
}

// Navigate applies the route gate to the current user.
func (p *Provider) Navigate(path string) access.Decision {
	return p.gate.Resolve(p.Current(), path)
}

func (p *Provider) set(user *models.User) {
	p.mu.Lock()
	p.user = user
	listeners := make([]Listener, 0, len(p.listeners))
	for _, fn := range p.listeners {
		if fn != nil {
			listeners = append(listeners, fn)
		}
	}
	p.mu.Unlock()

	p.log.Debug().Bool("authenticated", user != nil).Msg("session changed")

	for _, fn := range listeners {
		if user == nil {
			fn(nil)
			continue
		}
		copied := *user
		fn(&copied)
	}
}
