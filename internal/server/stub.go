package server

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"pmadmin/console/internal/config"
	"pmadmin/console/internal/handlers"
	"pmadmin/console/internal/repository"
	"pmadmin/console/internal/service"
)

// Stub is the in-memory backend: seeded repositories, the services over
// them and the engine serving the API.
type Stub struct {
	Engine *gin.Engine

	sessions *repository.SessionRepository
	log      zerolog.Logger
}

func NewStub(ctx context.Context, cfg *config.AppConfig, log zerolog.Logger) (*Stub, error) {
	employees := repository.NewEmployeeRepository()
	projects := repository.NewProjectRepository()
	sessions := repository.NewSessionRepository()
	activities := repository.NewActivityRepository(0)

	if err := service.Seed(ctx, employees, projects, cfg.Stub.SeedPassword); err != nil {
		return nil, fmt.Errorf("seed stub data: %w", err)
	}

	auth := service.NewAuthService(employees, sessions, activities, cfg.Stub.Security, log)
	portfolio := service.NewProjectService(projects, employees, activities, log)
	people := service.NewEmployeeService(employees, projects, sessions, activities, log)
	dashboard := service.NewDashboardService(portfolio, employees, sessions, activities)

	handlerSet := handlers.NewHandlerSet(log, cfg, auth, people, portfolio, dashboard)

	return &Stub{
		Engine:   NewEngine(cfg, log, handlerSet),
		sessions: sessions,
		log:      log,
	}, nil
}

// PurgeExpiredSessions drops sessions whose refresh window has passed.
func (s *Stub) PurgeExpiredSessions(ctx context.Context) {
	if n := s.sessions.DeleteExpired(ctx); n > 0 {
		s.log.Info().Int("count", n).Msg("expired sessions purged")
	}
}

// Transport serves requests straight from the stub engine, without a socket.
func (s *Stub) Transport() *Transport {
	return NewTransport(s.Engine)
}
