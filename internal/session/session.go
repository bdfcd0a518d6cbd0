// Package session keeps per-login application state (who is taking the survey
// and display preferences) outside the process, keyed by session id.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/happynation/wellbeing-service/internal/models"
	"github.com/redis/go-redis/v9"
)

var ErrNotFound = errors.New("session not found")

const (
	kindAnonymous = "anonymous"
	kindEmployee  = "employee"
)

// State is the explicit application state for one session.
type State struct {
	Profile  models.Profile
	DarkMode bool
	Role     models.UserRole
}

// stored is the wire form of State; Profile is a tagged union.
type stored struct {
	Kind       string                   `json:"kind,omitempty"`
	Anonymous  *models.AnonymousProfile `json:"anonymous,omitempty"`
	EmployeeID string                   `json:"employee_id,omitempty"`
	DarkMode   bool                     `json:"dark_mode"`
	Role       models.UserRole          `json:"role,omitempty"`
}

func encode(s State) ([]byte, error) {
	out := stored{DarkMode: s.DarkMode, Role: s.Role}
	switch p := s.Profile.(type) {
	case nil:
	case models.AnonymousProfile:
		out.Kind = kindAnonymous
		out.Anonymous = &p
	case models.EmployeeProfile:
		out.Kind = kindEmployee
		out.EmployeeID = p.ID()
	default:
		return nil, fmt.Errorf("unsupported profile type %T", p)
	}
	return json.Marshal(out)
}

// EmployeeLoader resolves an employee id back to a record on load.
type EmployeeLoader func(ctx context.Context, email string) (*models.Employee, error)

func decode(ctx context.Context, data []byte, load EmployeeLoader) (*State, error) {
	var in stored
	if err := json.Unmarshal(data, &in); err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}

	state := &State{DarkMode: in.DarkMode, Role: in.Role}
	switch in.Kind {
	case kindAnonymous:
		if in.Anonymous != nil {
			state.Profile = *in.Anonymous
		}
	case kindEmployee:
		employee, err := load(ctx, in.EmployeeID)
		if err != nil {
			return nil, fmt.Errorf("failed to load session employee: %w", err)
		}
		state.Profile = models.EmployeeProfile{Employee: employee}
	}
	return state, nil
}

// Store loads and saves session state.
type Store interface {
	Load(ctx context.Context, id string) (*State, error)
	Save(ctx context.Context, id string, state *State) error
	Delete(ctx context.Context, id string) error
	// Exists reports whether the session is live without decoding it.
	Exists(ctx context.Context, id string) (bool, error)
}

type RedisStore struct {
	client redis.UniversalClient
	ttl    time.Duration
	load   EmployeeLoader
}

func NewRedisStore(client redis.UniversalClient, ttl time.Duration, load EmployeeLoader) *RedisStore {
	return &RedisStore{client: client, ttl: ttl, load: load}
}

func key(id string) string {
	return "session:" + id
}

func (s *RedisStore) Load(ctx context.Context, id string) (*State, error) {
	data, err := s.client.Get(ctx, key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read session: %w", err)
	}
	return decode(ctx, data, s.load)
}

// Save writes state and refreshes its expiry.
func (s *RedisStore) Save(ctx context.Context, id string, state *State) error {
	data, err := encode(*state)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, key(id), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write session: %w", err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	return s.client.Del(ctx, key(id)).Err()
}

func (s *RedisStore) Exists(ctx context.Context, id string) (bool, error) {
	n, err := s.client.Exists(ctx, key(id)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check session: %w", err)
	}
	return n > 0, nil
}
