package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/happynation/wellbeing-service/internal/auth"
	"github.com/happynation/wellbeing-service/internal/models"
	"github.com/happynation/wellbeing-service/internal/repositories"
	"github.com/happynation/wellbeing-service/internal/session"
	"github.com/happynation/wellbeing-service/internal/validator"
)

const (
	DefaultAdminEmail    = "hr@demo.com"
	DefaultAdminPassword = "pass123"
	DefaultAdminName     = "HR Manager"

	guestSubject = "guest"
)

// AuthService handles logins for both roles and the HR account itself
type AuthService interface {
	EmployeeLogin(ctx context.Context, req *LoginRequest) (*LoginResult, error)
	HRLogin(ctx context.Context, req *LoginRequest) (*LoginResult, error)
	// SSOLogin signs in HR staff with a token from the identity provider.
	SSOLogin(ctx context.Context, token string) (*LoginResult, error)
	// StartGuest opens a session for an anonymous survey taker.
	StartGuest(ctx context.Context) (*LoginResult, error)
	Logout(ctx context.Context, sessionID string) error

	// SeedAdmin creates the admin account unless it already exists.
	SeedAdmin(ctx context.Context, req *SeedAdminRequest) (bool, error)
	AdminProfile(ctx context.Context, email string) (*models.Admin, error)
	UpdateAdminProfile(ctx context.Context, email string, req *AdminProfileRequest) (*models.Admin, error)
	SetAdminImage(ctx context.Context, email, imageURL string) (*models.Admin, error)
}

type LoginRequest struct {
	Email    string `json:"id" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type SeedAdminRequest struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=6,max=72"`
	Name     string `validate:"required,max=100"`
}

type AdminProfileRequest struct {
	Name     *string `json:"name" validate:"omitempty,min=2,max=100"`
	Image    *string `json:"image" validate:"omitempty,url,max=500"`
	Password *string `json:"password" validate:"omitempty,min=6,max=72"`
}

type LoginResult struct {
	Token     string           `json:"token"`
	SessionID string           `json:"session_id"`
	Role      models.UserRole  `json:"role"`
	Employee  *models.Employee `json:"employee,omitempty"`
	Admin     *models.Admin    `json:"admin,omitempty"`
}

type authService struct {
	repo      repositories.Repository
	tokens    *auth.TokenManager
	sessions  SessionService
	sso       auth.SSOVerifier
	validator *validator.Validator
	logger    *slog.Logger
	ops       *ServiceLogger
}

// NewAuthService builds the service. sso may be nil when single sign-on is
// not configured.
func NewAuthService(
	repo repositories.Repository,
	tokens *auth.TokenManager,
	sessions SessionService,
	sso auth.SSOVerifier,
	validator *validator.Validator,
	logger *slog.Logger,
) AuthService {
	return &authService{
		repo:      repo,
		tokens:    tokens,
		sessions:  sessions,
		sso:       sso,
		validator: validator,
		logger:    logger,
		ops:       NewServiceLogger(logger, "auth"),
	}
}

func (s *authService) EmployeeLogin(ctx context.Context, req *LoginRequest) (result *LoginResult, err error) {
	email := normalizeEmail(req.Email)
	op := s.ops.WithOperation(ctx, "employee_login", email)
	defer func() { op.LogResult(email, err) }()

	if err := s.validator.ValidateStruct(req); err != nil {
		return nil, err
	}

	employee, err := s.repo.Employee().GetByEmail(ctx, email)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to load employee: %w", err)
	}
	if err := auth.CheckPassword(employee.PasswordHash, req.Password); err != nil {
		return nil, ErrInvalidCredentials
	}

	result, err = s.issue(ctx, employee.Email, &session.State{
		Profile: models.EmployeeProfile{Employee: employee},
		Role:    models.RoleEmployee,
	})
	if err != nil {
		return nil, err
	}
	result.Employee = employee
	op.LogAudit(AuditEventLogin, employee.Email, nil)
	return result, nil
}

func (s *authService) HRLogin(ctx context.Context, req *LoginRequest) (result *LoginResult, err error) {
	email := normalizeEmail(req.Email)
	op := s.ops.WithOperation(ctx, "hr_login", email)
	defer func() { op.LogResult(email, err) }()

	if err := s.validator.ValidateStruct(req); err != nil {
		return nil, err
	}

	admin, err := s.repo.Admin().GetByEmail(ctx, email)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to load admin: %w", err)
	}
	if err := auth.CheckPassword(admin.PasswordHash, req.Password); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.adminSession(ctx, admin)
}

func (s *authService) SSOLogin(ctx context.Context, token string) (*LoginResult, error) {
	if s.sso == nil {
		return nil, ErrSSODisabled
	}
	identity, err := s.sso.Verify(token)
	if err != nil {
		s.logger.WarnContext(ctx, "SSO token rejected", "error", err)
		return nil, ErrInvalidCredentials
	}

	email := normalizeEmail(identity.Email)
	if email == "" {
		return nil, ErrInvalidCredentials
	}

	admin, err := s.repo.Admin().GetByEmail(ctx, email)
	switch {
	case err == nil:
	case repositories.IsNotFoundError(err):
		if !identity.IsAdmin {
			return nil, ErrInvalidCredentials
		}
		admin = &models.Admin{Email: email, Name: identity.Name, Image: identity.Avatar}
		if admin.Name == "" {
			admin.Name = DefaultAdminName
		}
		if err := s.repo.Admin().Create(ctx, admin); err != nil {
			return nil, fmt.Errorf("failed to create admin: %w", err)
		}
		s.logger.InfoContext(ctx, "Provisioned admin from SSO", "email", email)
	default:
		return nil, fmt.Errorf("failed to load admin: %w", err)
	}

	return s.adminSession(ctx, admin)
}

func (s *authService) StartGuest(ctx context.Context) (*LoginResult, error) {
	return s.issue(ctx, guestSubject, &session.State{Role: models.RoleGuest})
}

func (s *authService) Logout(ctx context.Context, sessionID string) error {
	return s.sessions.End(ctx, sessionID)
}

func (s *authService) SeedAdmin(ctx context.Context, req *SeedAdminRequest) (bool, error) {
	req.Email = normalizeEmail(req.Email)
	if err := s.validator.ValidateStruct(req); err != nil {
		return false, err
	}

	exists, err := s.repo.Admin().ExistsByEmail(ctx, req.Email)
	if err != nil {
		return false, fmt.Errorf("failed to check admin: %w", err)
	}
	if exists {
		return false, nil
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return false, err
	}
	if err := s.repo.Admin().Create(ctx, &models.Admin{
		Email:        req.Email,
		Name:         req.Name,
		PasswordHash: hash,
	}); err != nil {
		if repositories.IsDuplicateKeyError(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to create admin: %w", err)
	}

	s.logger.InfoContext(ctx, "Seeded admin account", "email", req.Email)
	return true, nil
}

func (s *authService) AdminProfile(ctx context.Context, email string) (*models.Admin, error) {
	return s.getAdmin(ctx, email)
}

// UpdateAdminProfile merges the given fields into the stored profile.
func (s *authService) UpdateAdminProfile(ctx context.Context, email string, req *AdminProfileRequest) (*models.Admin, error) {
	if err := s.validator.ValidateStruct(req); err != nil {
		return nil, err
	}

	admin, err := s.getAdmin(ctx, email)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		admin.Name = strings.TrimSpace(*req.Name)
	}
	if req.Image != nil {
		admin.Image = *req.Image
	}
	if req.Password != nil && *req.Password != "" {
		hash, err := auth.HashPassword(*req.Password)
		if err != nil {
			return nil, err
		}
		admin.PasswordHash = hash
	}

	if err := s.repo.Admin().Update(ctx, admin); err != nil {
		return nil, fmt.Errorf("failed to update admin: %w", err)
	}
	return admin, nil
}

func (s *authService) SetAdminImage(ctx context.Context, email, imageURL string) (*models.Admin, error) {
	admin, err := s.getAdmin(ctx, email)
	if err != nil {
		return nil, err
	}
	admin.Image = imageURL
	if err := s.repo.Admin().Update(ctx, admin); err != nil {
		return nil, fmt.Errorf("failed to update admin: %w", err)
	}
	return admin, nil
}

// ===== HELPER METHODS =====

func (s *authService) adminSession(ctx context.Context, admin *models.Admin) (*LoginResult, error) {
	result, err := s.issue(ctx, admin.Email, &session.State{Role: models.RoleAdmin})
	if err != nil {
		return nil, err
	}
	result.Admin = admin
	return result, nil
}

// issue signs a token and stores the matching session state. A session that
// cannot be stored still yields a usable token; only preferences are lost.
func (s *authService) issue(ctx context.Context, subject string, state *session.State) (*LoginResult, error) {
	token, sessionID, err := s.tokens.Issue(subject, state.Role)
	if err != nil {
		return nil, err
	}
	// Tokens are only honoured while their session exists.
	if err := s.sessions.Start(ctx, sessionID, state); err != nil {
		return nil, err
	}
	return &LoginResult{Token: token, SessionID: sessionID, Role: state.Role}, nil
}

func (s *authService) getAdmin(ctx context.Context, email string) (*models.Admin, error) {
	admin, err := s.repo.Admin().GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrAdminNotFound
		}
		return nil, fmt.Errorf("failed to get admin: %w", err)
	}
	return admin, nil
}

// IsInvalidCredentials is true for failures that must surface as a plain 401.
func IsInvalidCredentials(err error) bool {
	return errors.Is(err, ErrInvalidCredentials)
}
