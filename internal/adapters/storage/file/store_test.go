package file

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sesitech/agrichat/internal/domain"
)

func sampleSessions() []*domain.Session {
	now := time.Now().UTC().Truncate(time.Second)
	return []*domain.Session{
		{
			ID:          "s1",
			Title:       "report.pdf",
			TitleSource: domain.TitleFromFile,
			View:        domain.ViewChatting,
			Messages: []*domain.Message{
				{ID: "m1", Role: domain.RoleUser, Content: "What is the nitrogen level?", CreatedAt: now},
				{ID: "m2", Role: domain.RoleAssistant, Content: "12ppm, low", Source: "report.pdf, page 2", CreatedAt: now},
			},
			Document:  &domain.DocumentRef{Name: "report.pdf", DataURI: "data:application/pdf;base64,JVBERg=="},
			CreatedAt: now,
			UpdatedAt: now,
		},
		{
			ID:          "s2",
			Title:       domain.DefaultTitle,
			TitleSource: domain.TitleDefault,
			View:        domain.ViewUploading,
			CreatedAt:   now,
			UpdatedAt:   now,
		},
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	want := sampleSessions()
	require.NoError(t, store.Save(want, "s2"))

	got, activeID, err := store.Load()
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, domain.SessionID("s2"), activeID)
	assert.Equal(t, want[0].ID, got[0].ID)
	assert.Equal(t, want[0].Messages[1].Source, got[0].Messages[1].Source)
	require.NotNil(t, got[0].Document)
	assert.Equal(t, "report.pdf", got[0].Document.Name)
}

func TestLoadMissingFilesIsEmpty(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	sessions, activeID, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, sessions)
	assert.Empty(t, activeID)
}

func TestLoadCorruptFileFailsSoft(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, sessionsFile), []byte("{not json"), 0o644))

	sessions, activeID, err := store.Load()
	require.NoError(t, err, "a corrupt entry must not abort startup")
	assert.Empty(t, sessions)
	assert.Empty(t, activeID)
}

func TestEmptyListRemovesEntries(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir)
	require.NoError(t, err)

	require.NoError(t, store.Save(sampleSessions(), "s1"))
	require.FileExists(t, filepath.Join(dir, sessionsFile))
	require.FileExists(t, filepath.Join(dir, activeFile))

	require.NoError(t, store.Save(nil, ""))
	assert.NoFileExists(t, filepath.Join(dir, sessionsFile))
	assert.NoFileExists(t, filepath.Join(dir, activeFile))
}

func TestSaveLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir)
	require.NoError(t, err)

	require.NoError(t, store.Save(sampleSessions(), "s1"))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, e := range entries {
		assert.NotContains(t, e.Name(), ".tmp")
	}
}
