package session

import (
	"context"
	"errors"
	"testing"

	"github.com/happynation/wellbeing-service/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loaderFor(employees ...*models.Employee) EmployeeLoader {
	return func(ctx context.Context, email string) (*models.Employee, error) {
		for _, e := range employees {
			if e.Email == email {
				return e, nil
			}
		}
		return nil, errors.New("not found")
	}
}

func TestMemoryStore_RoundTrip(t *testing.T) {
	ana := &models.Employee{Email: "ana@corp.io", Name: "Ana", Role: "Designer"}
	store := NewMemoryStore(loaderFor(ana))
	ctx := context.Background()

	tests := []struct {
		name  string
		state State
	}{
		{"anonymous", State{Profile: models.AnonymousProfile{Name: "Guest", Role: "Intern", Age: 22}, DarkMode: true}},
		{"employee", State{Profile: models.EmployeeProfile{Employee: ana}, Role: models.RoleEmployee}},
		{"no profile", State{DarkMode: true, Role: models.RoleAdmin}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NoError(t, store.Save(ctx, tt.name, &tt.state))
			got, err := store.Load(ctx, tt.name)
			require.NoError(t, err)
			assert.Equal(t, tt.state.DarkMode, got.DarkMode)
			assert.Equal(t, tt.state.Role, got.Role)
			assert.Equal(t, tt.state.Profile, got.Profile)
		})
	}
}

func TestMemoryStore_EmployeeProfileHasHistory(t *testing.T) {
	ana := &models.Employee{Email: "ana@corp.io", Name: "Ana"}
	store := NewMemoryStore(loaderFor(ana))
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "s1", &State{Profile: models.EmployeeProfile{Employee: ana}}))
	got, err := store.Load(ctx, "s1")
	require.NoError(t, err)

	emp, ok := models.EmployeeOf(got.Profile)
	assert.True(t, ok)
	assert.Equal(t, "ana@corp.io", emp.Email)

	_, ok = models.EmployeeOf(models.AnonymousProfile{Name: "x"})
	assert.False(t, ok)
}

func TestMemoryStore_MissingAndDeleted(t *testing.T) {
	store := NewMemoryStore(loaderFor())
	ctx := context.Background()

	_, err := store.Load(ctx, "nope")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.Save(ctx, "s", &State{}))
	exists, err := store.Exists(ctx, "s")
	require.NoError(t, err)
	assert.True(t, exists)

	require.NoError(t, store.Delete(ctx, "s"))
	_, err = store.Load(ctx, "s")
	assert.ErrorIs(t, err, ErrNotFound)
	exists, err = store.Exists(ctx, "s")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestMemoryStore_EmployeeGone(t *testing.T) {
	ana := &models.Employee{Email: "ana@corp.io"}
	saver := NewMemoryStore(loaderFor(ana))
	ctx := context.Background()
	require.NoError(t, saver.Save(ctx, "s", &State{Profile: models.EmployeeProfile{Employee: ana}}))

	saver.load = loaderFor()
	_, err := saver.Load(ctx, "s")
	assert.Error(t, err)
}
