// ABOUTME: Tests for the note and chapter repositories
// ABOUTME: Listing order, timestamps, completion and deletion behavior

package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type noteFixture struct {
	engine    *Engine
	chapters  *Chapters
	notes     *Notes
	journeyID int64
	chapterID int64
}

func setupNoteFixture(t *testing.T) *noteFixture {
	t.Helper()
	engine := setupTestEngine(t)
	ctx := context.Background()

	users := NewUsers(engine)
	journeys := NewJourneys(engine)
	chapters := NewChapters(engine)

	userID, err := users.Create(ctx, &User{Username: "ada", Email: "ada@example.com", Password: "hash"})
	require.NoError(t, err)
	journeyID, err := journeys.Create(ctx, &Journey{Title: "Learn X", IsPublic: true, UserID: userID})
	require.NoError(t, err)
	chapterID, err := chapters.Create(ctx, &Chapter{Title: "Intro", VideoLink: "v", ChapterNo: 1, JourneyID: journeyID})
	require.NoError(t, err)

	return &noteFixture{
		engine:    engine,
		chapters:  chapters,
		notes:     NewNotes(engine),
		journeyID: journeyID,
		chapterID: chapterID,
	}
}

func TestNotes_CreateAndGet(t *testing.T) {
	f := setupNoteFixture(t)
	ctx := context.Background()

	id, err := f.notes.Create(ctx, &Note{Content: "remember this", ChapterID: f.chapterID, JourneyID: f.journeyID})
	require.NoError(t, err)

	got, err := f.notes.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "remember this", got.Content)
	assert.Equal(t, f.chapterID, got.ChapterID)
	assert.Equal(t, f.journeyID, got.JourneyID)
	assert.False(t, got.CreatedAt.IsZero(), "created_at should be assigned by the engine")
}

func TestNotes_UpdateContent(t *testing.T) {
	f := setupNoteFixture(t)
	ctx := context.Background()

	id, err := f.notes.Create(ctx, &Note{Content: "draft", ChapterID: f.chapterID, JourneyID: f.journeyID})
	require.NoError(t, err)

	require.NoError(t, f.notes.UpdateContent(ctx, id, "final"))

	got, err := f.notes.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "final", got.Content)

	assert.ErrorIs(t, f.notes.UpdateContent(ctx, 9999, "x"), ErrNotFound)
}

func TestNotes_ForeignKeyEnforced(t *testing.T) {
	f := setupNoteFixture(t)
	ctx := context.Background()

	_, err := f.notes.Create(ctx, &Note{Content: "dangling", ChapterID: 9999, JourneyID: f.journeyID})
	assert.ErrorIs(t, err, ErrConstraint)
}

func TestNotes_DeleteChapterCascades(t *testing.T) {
	f := setupNoteFixture(t)
	ctx := context.Background()

	_, err := f.notes.Create(ctx, &Note{Content: "n", ChapterID: f.chapterID, JourneyID: f.journeyID})
	require.NoError(t, err)

	require.NoError(t, f.chapters.Delete(ctx, f.chapterID))

	notes, err := f.notes.ListByJourney(ctx, f.journeyID)
	require.NoError(t, err)
	assert.Empty(t, notes)
}

func TestChapters_ListOrderedByChapterNo(t *testing.T) {
	f := setupNoteFixture(t)
	ctx := context.Background()

	// The fixture chapter is chapter_no 1; insert out of order.
	for _, no := range []int64{3, 2} {
		_, err := f.chapters.Create(ctx, &Chapter{Title: "Ch", VideoLink: "v", ChapterNo: no, JourneyID: f.journeyID})
		require.NoError(t, err)
	}

	chapters, err := f.chapters.ListByJourney(ctx, f.journeyID)
	require.NoError(t, err)
	require.Len(t, chapters, 3)
	assert.Equal(t, int64(1), chapters[0].ChapterNo)
	assert.Equal(t, int64(2), chapters[1].ChapterNo)
	assert.Equal(t, int64(3), chapters[2].ChapterNo)
}

func TestChapters_SetCompleted(t *testing.T) {
	f := setupNoteFixture(t)
	ctx := context.Background()

	require.NoError(t, f.chapters.SetCompleted(ctx, f.chapterID, true))

	got, err := f.chapters.GetByID(ctx, f.chapterID)
	require.NoError(t, err)
	assert.True(t, got.IsCompleted)

	assert.ErrorIs(t, f.chapters.SetCompleted(ctx, 9999, true), ErrNotFound)
}
