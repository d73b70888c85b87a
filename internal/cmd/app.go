package cmd

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"pmadmin/console/internal/access"
	"pmadmin/console/internal/apiclient"
	"pmadmin/console/internal/auth"
	"pmadmin/console/internal/config"
	"pmadmin/console/internal/log"
	"pmadmin/console/internal/pmapi"
	"pmadmin/console/internal/server"
	"pmadmin/console/internal/session"
	"pmadmin/console/internal/sessionctx"
	"pmadmin/console/internal/view"
)

// stubBaseURL is the base URL requests carry when the stub backend is served
// in-process. It never reaches the network.
const stubBaseURL = "http://stub.local/api"

// App is everything a command needs, built once per invocation.
type App struct {
	Config *config.AppConfig
	Log    zerolog.Logger

	Store     session.Store
	Client    *apiclient.Client
	Auth      *auth.Manager
	Session   *sessionctx.Provider
	Employees *pmapi.EmployeeService
	Projects  *pmapi.ProjectService
	Dashboard *pmapi.DashboardService
	View      *view.Renderer
}

type globalOptions struct {
	configPath string
	output     string
	logLevel   string
	backend    string
	apiURL     string
}

func (o *globalOptions) loadConfig() (*config.AppConfig, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, err
	}
	if o.logLevel != "" {
		cfg.Logging.Level = o.logLevel
	}
	if o.backend != "" {
		cfg.Backend.Mode = o.backend
	}
	if o.apiURL != "" {
		cfg.API.BaseURL = o.apiURL
	}
	if cfg.Backend.Mode != config.BackendRemote && cfg.Backend.Mode != config.BackendStub {
		return nil, fmt.Errorf("backend must be %q or %q, got %q", config.BackendRemote, config.BackendStub, cfg.Backend.Mode)
	}
	return cfg, nil
}

func newApp(ctx context.Context, opts *globalOptions, stdout, stderr io.Writer) (*App, error) {
	format, err := view.ParseFormat(opts.output)
	if err != nil {
		return nil, err
	}

	cfg, err := opts.loadConfig()
	if err != nil {
		return nil, err
	}
	logger := log.New(cfg.Environment, cfg.Logging.Level, stderr)

	store, err := openStore(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	baseURL := cfg.API.BaseURL
	httpClient := &http.Client{}
	if cfg.Backend.Mode == config.BackendStub {
		stub, err := newInProcessStub(ctx, cfg, logger)
		if err != nil {
			return nil, err
		}
		baseURL = stubBaseURL
		httpClient.Transport = stub.Transport()
	}

	client := apiclient.New(baseURL,
		apiclient.WithHTTPClient(httpClient),
		apiclient.WithTimeout(cfg.API.Timeout),
		apiclient.WithTokenSource(session.TokenSource{Store: store}),
		apiclient.WithLogger(logger),
	)

	manager := auth.NewManager(client, store, logger)
	provider := sessionctx.NewProvider(manager, access.NewGate(access.DefaultRules), logger)
	if err := provider.Init(ctx); err != nil {
		return nil, fmt.Errorf("restore session: %w", err)
	}
	if cfg.Backend.Mode == config.BackendStub && cfg.Stub.AutoLogin != "" {
		if _, err := provider.Login(ctx, cfg.Stub.AutoLogin, cfg.Stub.SeedPassword); err != nil {
			return nil, fmt.Errorf("stub auto login: %w", err)
		}
	}

	logger.Debug().
		Str("backend", cfg.Backend.Mode).
		Str("base_url", baseURL).
		Msg("console ready")

	return &App{
		Config:    cfg,
		Log:       logger,
		Store:     store,
		Client:    client,
		Auth:      manager,
		Session:   provider,
		Employees: pmapi.NewEmployeeService(client),
		Projects:  pmapi.NewProjectService(client),
		Dashboard: pmapi.NewDashboardService(client, logger),
		View:      view.NewRenderer(stdout, format),
	}, nil
}

// openStore picks the session store. The in-process stub always gets a
// memory store so its tokens never replace a remote session on disk or in
// redis.
func openStore(ctx context.Context, cfg *config.AppConfig, logger zerolog.Logger) (session.Store, error) {
	if cfg.Backend.Mode == config.BackendStub {
		logger.Debug().Str("configured_driver", cfg.Session.Driver).Msg("stub backend uses a memory session store")
		return session.NewMemoryStore(), nil
	}
	store, err := session.NewStore(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("open session store: %w", err)
	}
	return store, nil
}

// newInProcessStub builds the stub backend the client talks to through its
// transport. Its request logs stay at warn unless debugging.
func newInProcessStub(ctx context.Context, cfg *config.AppConfig, logger zerolog.Logger) (*server.Stub, error) {
	gin.SetMode(gin.ReleaseMode)

	stubLog := logger.With().Str("component", "stub").Logger()
	if logger.GetLevel() > zerolog.DebugLevel {
		stubLog = stubLog.Level(zerolog.WarnLevel)
	}

	stub, err := server.NewStub(ctx, cfg, stubLog)
	if err != nil {
		return nil, fmt.Errorf("start stub backend: %w", err)
	}
	return stub, nil
}

// Close releases the session store when it holds a connection.
func (a *App) Close() error {
	if closer, ok := a.Store.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
