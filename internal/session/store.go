package session

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"pmadmin/console/internal/cache"
	"pmadmin/console/internal/config"
)

// Fixed key names of the persisted session.
const (
	KeyAccessToken  = "accessToken"
	KeyRefreshToken = "refreshToken"
	KeyUser         = "user"
)

// Keys lists every key written on login and removed on logout.
var Keys = []string{KeyAccessToken, KeyRefreshToken, KeyUser}

// Store is durable key/value storage for the session mirror. Set and Delete
// apply all given keys in one operation: readers never observe half of a
// write.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, values map[string]string) error
	Delete(ctx context.Context, keys ...string) error
}

// NewStore builds the store selected by cfg.Session.Driver.
func NewStore(ctx context.Context, cfg *config.AppConfig, log zerolog.Logger) (Store, error) {
	switch cfg.Session.Driver {
	case config.SessionDriverFile:
		return NewFileStore(cfg.Session.Path), nil
	case config.SessionDriverMemory:
		return NewMemoryStore(), nil
	case config.SessionDriverRedis:
		client, err := cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			return nil, err
		}
		log.Debug().Str("addr", cfg.Redis.Addr).Msg("using redis session store")
		return NewRedisStore(client, cfg.Session.Prefix), nil
	default:
		return nil, fmt.Errorf("unknown session driver %q", cfg.Session.Driver)
	}
}

// TokenSource reads the access token from a Store on every call, so a login
// or logout is visible to the next request without re-wiring the client.
type TokenSource struct {
	Store Store
}

func (t TokenSource) AccessToken(ctx context.Context) (string, error) {
	token, _, err := t.Store.Get(ctx, KeyAccessToken)
	return token, err
}
