// ABOUTME: Tests for the YAML fixture loader and applier
// ABOUTME: Verifies nested inserts and that re-applying is a no-op

package seed

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/focuslearn/focuslearn/internal/auth"
	"github.com/focuslearn/focuslearn/internal/store"
)

const fixtureYAML = `
users:
  - username: demo
    email: demo@example.com
    password: demo1234
    journeys:
      - title: Go for beginners
        description: A gentle start
        is_public: true
        chapters:
          - title: Hello world
            video_link: https://example.com/v1
            chapter_no: 1
            notes:
              - remember go fmt
              - slices grow by append
          - title: Structs
            chapter_no: 2
`

func writeFixture(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadAndApply(t *testing.T) {
	engine, err := store.Open(filepath.Join(t.TempDir(), "seed.db"))
	require.NoError(t, err)
	defer engine.Close()

	fixture, err := Load(writeFixture(t, fixtureYAML))
	require.NoError(t, err)
	require.Len(t, fixture.Users, 1)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ctx := t.Context()
	require.NoError(t, Apply(ctx, engine, fixture, logger))

	users := store.NewUsers(engine)
	user, err := users.GetByEmail(ctx, "demo@example.com")
	require.NoError(t, err)
	assert.Equal(t, "demo", user.Username)
	assert.NoError(t, auth.CheckPassword(user.Password, "demo1234"), "stored password is a usable hash")

	journeys, err := store.NewJourneys(engine).ListByUser(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, journeys, 1)
	assert.True(t, journeys[0].IsPublic)

	chapters, err := store.NewChapters(engine).ListByJourney(ctx, journeys[0].ID)
	require.NoError(t, err)
	require.Len(t, chapters, 2)
	assert.Equal(t, "Hello world", chapters[0].Title)

	notes, err := store.NewNotes(engine).ListByChapter(ctx, chapters[0].ID)
	require.NoError(t, err)
	assert.Len(t, notes, 2)

	// A second apply skips the existing user entirely.
	require.NoError(t, Apply(ctx, engine, fixture, logger))
	all, err := users.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
	notes, err = store.NewNotes(engine).ListByJourney(ctx, journeys[0].ID)
	require.NoError(t, err)
	assert.Len(t, notes, 2)
}

func TestLoadRejectsBadFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = Load(writeFixture(t, "users: {not: a list}"))
	assert.Error(t, err)
}

func TestApplyRequiresIdentity(t *testing.T) {
	engine, err := store.Open(filepath.Join(t.TempDir(), "seed.db"))
	require.NoError(t, err)
	defer engine.Close()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	fixture := &Fixture{Users: []UserFixture{{Username: "noemail"}}}
	assert.Error(t, Apply(t.Context(), engine, fixture, logger))
}
