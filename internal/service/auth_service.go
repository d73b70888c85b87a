package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"pmadmin/console/internal/config"
	"pmadmin/console/internal/ids"
	"pmadmin/console/internal/models"
	"pmadmin/console/internal/repository"
	"pmadmin/console/internal/security"
)

// Principal is the authenticated caller of a request.
type Principal struct {
	Employee  models.Employee
	SessionID string
}

func (p Principal) Role() string {
	return p.Employee.Role.Name
}

func (p Principal) IsAdmin() bool {
	return p.Role() == models.BackendRoleAdmin
}

type AuthService struct {
	employees  *repository.EmployeeRepository
	sessions   *repository.SessionRepository
	activities *repository.ActivityRepository
	cfg        config.SecurityConfig
	log        zerolog.Logger
}

func NewAuthService(
	employees *repository.EmployeeRepository,
	sessions *repository.SessionRepository,
	activities *repository.ActivityRepository,
	cfg config.SecurityConfig,
	log zerolog.Logger,
) *AuthService {
	return &AuthService{
		employees:  employees,
		sessions:   sessions,
		activities: activities,
		cfg:        cfg,
		log:        log,
	}
}

type AuthResult struct {
	AccessToken  string
	RefreshToken string
	Employee     models.Employee
}

// Response is the login payload the API returns.
func (r AuthResult) Response() models.LoginResponse {
	return models.LoginResponse{
		AccessToken:  r.AccessToken,
		RefreshToken: r.RefreshToken,
		TokenType:    "Bearer",
		EmployeeID:   r.Employee.ID,
		Email:        r.Employee.Email,
		Name:         r.Employee.Name,
		Role:         r.Employee.Role.Name,
	}
}

func (s *AuthService) Login(ctx context.Context, email, password string) (AuthResult, error) {
	rec, err := s.employees.FindByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, repository.ErrEmployeeNotFound) {
			return AuthResult{}, ErrInvalidCredentials
		}
		return AuthResult{}, err
	}

	ok, err := security.VerifyPassword(password, rec.PasswordHash)
	if err != nil || !ok {
		return AuthResult{}, ErrInvalidCredentials
	}
	if err := checkActive(rec.Employee); err != nil {
		return AuthResult{}, err
	}

	result, err := s.createSession(ctx, rec.Employee)
	if err != nil {
		return AuthResult{}, err
	}

	s.activities.Append(ctx, models.Activity{
		Type:        models.ActivitySystem,
		Title:       "User Login",
		Description: fmt.Sprintf("%s signed in", rec.Name),
		User:        rec.Email,
	})
	return result, nil
}

func (s *AuthService) createSession(ctx context.Context, employee models.Employee) (AuthResult, error) {
	refreshToken, refreshHash, err := security.GenerateRefreshToken(0)
	if err != nil {
		return AuthResult{}, err
	}

	session := models.Session{
		ID:               ids.New(),
		EmployeeID:       employee.ID,
		RefreshTokenHash: refreshHash,
		ExpiresAt:        time.Now().Add(s.cfg.JWTRefreshTTL),
	}

	accessToken, err := security.GenerateAccessToken(
		s.cfg.JWTAccessSecret,
		employee.ID,
		session.ID,
		employee.Email,
		employee.Role.Name,
		s.cfg.JWTAccessTTL,
	)
	if err != nil {
		return AuthResult{}, err
	}

	if err := s.sessions.Create(ctx, session); err != nil {
		return AuthResult{}, err
	}

	if err := s.enforceSessionLimit(ctx, employee.ID); err != nil {
		s.log.Warn().Err(err).Int64("employee_id", employee.ID).Msg("enforce session limit failed")
	}

	return AuthResult{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		Employee:     employee,
	}, nil
}

func (s *AuthService) enforceSessionLimit(ctx context.Context, employeeID int64) error {
	if s.cfg.MaxSessions <= 0 {
		return nil
	}
	count, err := s.sessions.CountByEmployee(ctx, employeeID)
	if err != nil {
		return err
	}
	if count <= s.cfg.MaxSessions {
		return nil
	}
	return s.sessions.DeleteOldestSessions(ctx, employeeID, s.cfg.MaxSessions)
}

// Refresh rotates the refresh token of the session it belongs to and issues
// a new access token.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (AuthResult, error) {
	session, err := s.sessions.FindByRefreshHash(ctx, security.HashRefreshToken(refreshToken))
	if err != nil {
		return AuthResult{}, ErrInvalidRefreshToken
	}
	if session.ExpiresAt.Before(time.Now()) {
		_ = s.sessions.DeleteByID(ctx, session.ID)
		return AuthResult{}, ErrSessionExpired
	}

	rec, err := s.employees.GetByID(ctx, session.EmployeeID)
	if err != nil {
		return AuthResult{}, ErrInvalidRefreshToken
	}
	if err := checkActive(rec.Employee); err != nil {
		return AuthResult{}, err
	}

	newToken, newHash, err := security.GenerateRefreshToken(0)
	if err != nil {
		return AuthResult{}, err
	}
	session.RefreshTokenHash = newHash
	session.ExpiresAt = time.Now().Add(s.cfg.JWTRefreshTTL)
	if err := s.sessions.Create(ctx, session); err != nil {
		return AuthResult{}, err
	}

	accessToken, err := security.GenerateAccessToken(
		s.cfg.JWTAccessSecret,
		rec.ID,
		session.ID,
		rec.Email,
		rec.Role.Name,
		s.cfg.JWTAccessTTL,
	)
	if err != nil {
		return AuthResult{}, err
	}

	return AuthResult{
		AccessToken:  accessToken,
		RefreshToken: newToken,
		Employee:     rec.Employee,
	}, nil
}

func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	if err := s.sessions.DeleteByID(ctx, sessionID); err != nil && !errors.Is(err, repository.ErrSessionNotFound) {
		return err
	}
	return nil
}

// LogoutAll revokes every session of the account with the given email.
func (s *AuthService) LogoutAll(ctx context.Context, email string) (int, error) {
	rec, err := s.employees.FindByEmail(ctx, email)
	if err != nil {
		return 0, err
	}
	return s.sessions.DeleteByEmployee(ctx, rec.ID)
}

// Authenticate resolves a bearer token to its live session and employee.
func (s *AuthService) Authenticate(ctx context.Context, token string) (Principal, error) {
	claims, err := security.ParseAccessToken(token, s.cfg.JWTAccessSecret)
	if err != nil {
		return Principal{}, fmt.Errorf("invalid token: %w", err)
	}

	session, err := s.sessions.GetByID(ctx, claims.SessionID)
	if err != nil {
		return Principal{}, err
	}
	if session.EmployeeID != claims.EmployeeID {
		return Principal{}, fmt.Errorf("session mismatch")
	}

	rec, err := s.employees.GetByID(ctx, claims.EmployeeID)
	if err != nil {
		return Principal{}, err
	}
	if err := checkActive(rec.Employee); err != nil {
		return Principal{}, err
	}

	_ = s.sessions.Touch(ctx, session.ID)

	return Principal{Employee: rec.Employee, SessionID: session.ID}, nil
}

func checkActive(e models.Employee) error {
	if e.IsLocked {
		return ErrAccountLocked
	}
	if !e.IsEnabled {
		return ErrAccountDisabled
	}
	return nil
}
