package preference

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStores(t *testing.T) {
	tests := []struct {
		name  string
		store func(t *testing.T) Store
	}{
		{
			name: "memory",
			store: func(t *testing.T) Store {
				return NewMemory()
			},
		},
		{
			name: "sqlite",
			store: func(t *testing.T) Store {
				s, err := OpenSQLite(filepath.Join(t.TempDir(), "prefs.db"))
				require.NoError(t, err)
				t.Cleanup(func() { _ = s.Close() })
				return s
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			s := tt.store(t)

			_, found, err := s.Get(ctx, LanguageKey)
			require.NoError(t, err)
			assert.False(t, found)

			require.NoError(t, s.Set(ctx, LanguageKey, "or"))
			require.NoError(t, s.Set(ctx, LanguageKey, "en"))

			value, found, err := s.Get(ctx, LanguageKey)
			require.NoError(t, err)
			assert.True(t, found)
			assert.Equal(t, "en", value)
		})
	}
}

func TestSQLiteStore_SurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "prefs.db")

	s, err := OpenSQLite(path)
	require.NoError(t, err)
	require.NoError(t, s.Set(ctx, LanguageKey, "or"))
	require.NoError(t, s.Close())

	reopened, err := OpenSQLite(path)
	require.NoError(t, err)
	defer reopened.Close()

	value, found, err := reopened.Get(ctx, LanguageKey)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "or", value)
}

func TestSQLiteStore_ClosedIsUnavailable(t *testing.T) {
	ctx := context.Background()
	s, err := OpenSQLite(filepath.Join(t.TempDir(), "prefs.db"))
	require.NoError(t, err)
	require.NoError(t, s.Close())

	_, _, err = s.Get(ctx, LanguageKey)
	assert.ErrorIs(t, err, ErrStorageUnavailable)

	err = s.Set(ctx, LanguageKey, "en")
	assert.ErrorIs(t, err, ErrStorageUnavailable)
}

func TestOpenSQLite_RequiresPath(t *testing.T) {
	_, err := OpenSQLite("  ")
	assert.Error(t, err)
}

func TestMemory_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := NewMemory().Get(ctx, LanguageKey)
	assert.ErrorIs(t, err, ErrStorageUnavailable)
}
