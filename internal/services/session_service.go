package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/happynation/wellbeing-service/internal/models"
	"github.com/happynation/wellbeing-service/internal/session"
	"github.com/happynation/wellbeing-service/internal/validator"
)

// SessionService owns the per-session application state: who the survey is
// for and display preferences.
type SessionService interface {
	Start(ctx context.Context, sessionID string, state *session.State) error
	Get(ctx context.Context, sessionID string) (*session.State, error)
	// SetAnonymousProfile records a walk-in profile. Sessions bound to an
	// employee keep their employee profile.
	SetAnonymousProfile(ctx context.Context, sessionID string, req *AnonymousProfileRequest) (*session.State, error)
	SetPreferences(ctx context.Context, sessionID string, req *PreferencesRequest) (*session.State, error)
	End(ctx context.Context, sessionID string) error
	// Active is false once a session has ended or expired.
	Active(ctx context.Context, sessionID string) (bool, error)
}

type AnonymousProfileRequest struct {
	Name  string `json:"name" validate:"required,min=1,max=100"`
	Role  string `json:"role" validate:"omitempty,max=100"`
	Age   int    `json:"age" validate:"omitempty,min=16,max=100"`
	Image string `json:"image" validate:"omitempty,url,max=500"`
}

func (r *AnonymousProfileRequest) Profile() models.AnonymousProfile {
	return models.AnonymousProfile{
		Name:  strings.TrimSpace(r.Name),
		Role:  strings.TrimSpace(r.Role),
		Age:   r.Age,
		Image: r.Image,
	}
}

type PreferencesRequest struct {
	DarkMode *bool `json:"dark_mode" validate:"required"`
}

// SessionView is the JSON form of session.State.
type SessionView struct {
	Kind     string          `json:"kind"`
	Profile  models.Profile  `json:"profile"`
	DarkMode bool            `json:"dark_mode"`
	Role     models.UserRole `json:"role"`
}

func NewSessionView(state *session.State) SessionView {
	view := SessionView{Profile: state.Profile, DarkMode: state.DarkMode, Role: state.Role, Kind: "none"}
	switch state.Profile.(type) {
	case models.AnonymousProfile:
		view.Kind = "anonymous"
	case models.EmployeeProfile:
		view.Kind = "employee"
	}
	return view
}

type sessionService struct {
	store     session.Store
	validator *validator.Validator
	logger    *slog.Logger
}

func NewSessionService(store session.Store, validator *validator.Validator, logger *slog.Logger) SessionService {
	return &sessionService{
		store:     store,
		validator: validator,
		logger:    logger,
	}
}

func (s *sessionService) Start(ctx context.Context, sessionID string, state *session.State) error {
	if err := s.store.Save(ctx, sessionID, state); err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}
	return nil
}

func (s *sessionService) Get(ctx context.Context, sessionID string) (*session.State, error) {
	if sessionID == "" {
		return nil, ErrSessionNotFound
	}
	state, err := s.store.Load(ctx, sessionID)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	return state, nil
}

func (s *sessionService) SetAnonymousProfile(ctx context.Context, sessionID string, req *AnonymousProfileRequest) (*session.State, error) {
	if err := s.validator.ValidateStruct(req); err != nil {
		return nil, err
	}

	state, err := s.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if _, ok := models.EmployeeOf(state.Profile); ok {
		return nil, NewBusinessRuleError("employee_session", "employee sessions use the stored employee profile", nil)
	}

	state.Profile = req.Profile()
	if err := s.store.Save(ctx, sessionID, state); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}
	return state, nil
}

func (s *sessionService) SetPreferences(ctx context.Context, sessionID string, req *PreferencesRequest) (*session.State, error) {
	if err := s.validator.ValidateStruct(req); err != nil {
		return nil, err
	}

	state, err := s.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	state.DarkMode = *req.DarkMode
	if err := s.store.Save(ctx, sessionID, state); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}
	return state, nil
}

func (s *sessionService) End(ctx context.Context, sessionID string) error {
	if err := s.store.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("failed to end session: %w", err)
	}
	return nil
}

func (s *sessionService) Active(ctx context.Context, sessionID string) (bool, error) {
	if sessionID == "" {
		return false, nil
	}
	ok, err := s.store.Exists(ctx, sessionID)
	if err != nil {
		return false, fmt.Errorf("failed to check session: %w", err)
	}
	return ok, nil
}
