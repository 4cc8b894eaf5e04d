package sqlite

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sesitech/agrichat/internal/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(filepath.Join(t.TempDir(), "agrichat.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSQLiteRoundTrip(t *testing.T) {
	store := newTestStore(t)

	sessions := []*domain.Session{
		{ID: "s1", Title: "Soil basics", TitleSource: domain.TitleDerived, View: domain.ViewChatting,
			Messages: []*domain.Message{{ID: "m1", Role: domain.RoleUser, Content: "hello"}}},
	}
	require.NoError(t, store.Save(sessions, "s1"))

	got, activeID, err := store.Load()
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, domain.SessionID("s1"), activeID)
	assert.Equal(t, "Soil basics", got[0].Title)
	require.Len(t, got[0].Messages, 1)
}

func TestSQLiteSaveOverwrites(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Save([]*domain.Session{{ID: "s1"}}, "s1"))
	require.NoError(t, store.Save([]*domain.Session{{ID: "s2"}}, "s2"))

	got, activeID, err := store.Load()
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, domain.SessionID("s2"), got[0].ID)
	assert.Equal(t, domain.SessionID("s2"), activeID)
}

func TestSQLiteEmptyListClearsState(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Save([]*domain.Session{{ID: "s1"}}, "s1"))
	require.NoError(t, store.Save(nil, ""))

	got, activeID, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Empty(t, activeID)
}
