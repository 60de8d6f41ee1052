// ABOUTME: Tests for the journey fork engine
// ABOUTME: Covers ownership, visibility, chapter completeness and note filtering

package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type forkFixture struct {
	engine   *Engine
	users    *Users
	journeys *Journeys
	chapters *Chapters
	notes    *Notes
	forker   *Forker
}

func setupForkFixture(t *testing.T) *forkFixture {
	t.Helper()
	engine := setupTestEngine(t)

	f := &forkFixture{
		engine:   engine,
		users:    NewUsers(engine),
		journeys: NewJourneys(engine),
		chapters: NewChapters(engine),
		notes:    NewNotes(engine),
	}
	f.forker = NewForker(f.journeys, f.chapters, f.notes)

	ctx := context.Background()
	for _, u := range []*User{
		{Username: "owner", Email: "owner@example.com", Password: "hash"},
		{Username: "forker", Email: "forker@example.com", Password: "hash"},
	} {
		_, err := f.users.Create(ctx, u)
		require.NoError(t, err)
	}
	return f
}

func TestForker_MissingSourceCreatesNoRows(t *testing.T) {
	f := setupForkFixture(t)
	ctx := context.Background()

	_, err := f.forker.ForkJourney(ctx, 999, 2)
	assert.ErrorIs(t, err, ErrNotFound)

	res, err := f.engine.Execute(ctx, `SELECT * FROM journeys`)
	require.NoError(t, err)
	assert.Empty(t, res.Rows)
}

func TestForker_OwnershipAndVisibility(t *testing.T) {
	f := setupForkFixture(t)
	ctx := context.Background()

	srcID, err := f.journeys.Create(ctx, &Journey{Title: "Learn X", Description: "desc", IsPublic: true, UserID: 1})
	require.NoError(t, err)

	newID, err := f.forker.ForkJourney(ctx, srcID, 2)
	require.NoError(t, err)
	require.NotEqual(t, srcID, newID)

	copied, err := f.journeys.GetByID(ctx, newID)
	require.NoError(t, err)
	assert.Equal(t, "Fork of Learn X", copied.Title)
	assert.Equal(t, "desc", copied.Description)
	assert.Equal(t, int64(2), copied.UserID)
	assert.False(t, copied.IsPublic, "forks are always private")

	// The source journey is untouched.
	src, err := f.journeys.GetByID(ctx, srcID)
	require.NoError(t, err)
	assert.Equal(t, "Learn X", src.Title)
	assert.True(t, src.IsPublic)
	assert.Equal(t, int64(1), src.UserID)
}

func TestForker_PrivateSourceStaysPrivateCopy(t *testing.T) {
	f := setupForkFixture(t)
	ctx := context.Background()

	srcID, err := f.journeys.Create(ctx, &Journey{Title: "Secret", IsPublic: false, UserID: 1})
	require.NoError(t, err)

	newID, err := f.forker.ForkJourney(ctx, srcID, 2)
	require.NoError(t, err)

	copied, err := f.journeys.GetByID(ctx, newID)
	require.NoError(t, err)
	assert.False(t, copied.IsPublic)
}

func TestForker_ChapterCompleteness(t *testing.T) {
	f := setupForkFixture(t)
	ctx := context.Background()

	srcID, err := f.journeys.Create(ctx, &Journey{Title: "Learn X", IsPublic: true, UserID: 1})
	require.NoError(t, err)

	for i := int64(1); i <= 3; i++ {
		_, err := f.chapters.Create(ctx, &Chapter{
			Title:       "Chapter",
			Description: "d",
			VideoLink:   "https://youtube.com/watch?v=x",
			IsCompleted: true,
			ChapterNo:   i,
			JourneyID:   srcID,
		})
		require.NoError(t, err)
	}

	newID, err := f.forker.ForkJourney(ctx, srcID, 2)
	require.NoError(t, err)

	copies, err := f.chapters.ListByJourney(ctx, newID)
	require.NoError(t, err)
	require.Len(t, copies, 3)

	for i, chapter := range copies {
		assert.Equal(t, int64(i+1), chapter.ChapterNo)
		assert.Equal(t, "Chapter", chapter.Title)
		assert.Equal(t, "https://youtube.com/watch?v=x", chapter.VideoLink)
		assert.Equal(t, newID, chapter.JourneyID)
		assert.False(t, chapter.IsCompleted, "completion state is not carried into the copy")
	}
}

func TestForker_ChapterDefaults(t *testing.T) {
	f := setupForkFixture(t)
	ctx := context.Background()

	srcID, err := f.journeys.Create(ctx, &Journey{Title: "Learn X", IsPublic: true, UserID: 1})
	require.NoError(t, err)

	// chapter_no 0 never occurs through the API but a raw row can have
	// it; the copy defaults it to 1.
	_, err = f.engine.Execute(ctx,
		`INSERT INTO chapters (title, description, video_link, chapter_no, journey_id) VALUES (?, ?, ?, ?, ?)`,
		"T", "", "", 0, srcID)
	require.NoError(t, err)

	newID, err := f.forker.ForkJourney(ctx, srcID, 2)
	require.NoError(t, err)

	copies, err := f.chapters.ListByJourney(ctx, newID)
	require.NoError(t, err)
	require.Len(t, copies, 1)
	assert.Equal(t, int64(1), copies[0].ChapterNo)
}

func TestForker_UntitledSourceJourney(t *testing.T) {
	f := setupForkFixture(t)
	ctx := context.Background()

	// Bypass the repository default to create a journey with an empty
	// title, as legacy rows may have.
	ins, err := f.engine.Execute(ctx,
		`INSERT INTO journeys (title, description, is_public, user_id) VALUES (?, ?, ?, ?)`,
		"", "", true, 1)
	require.NoError(t, err)

	newID, err := f.forker.ForkJourney(ctx, ins.InsertID, 2)
	require.NoError(t, err)

	copied, err := f.journeys.GetByID(ctx, newID)
	require.NoError(t, err)
	assert.Equal(t, "Fork of Untitled", copied.Title)
}

func TestForker_NoteFiltering(t *testing.T) {
	f := setupForkFixture(t)
	ctx := context.Background()

	srcID, err := f.journeys.Create(ctx, &Journey{Title: "Learn X", IsPublic: true, UserID: 1})
	require.NoError(t, err)
	otherID, err := f.journeys.Create(ctx, &Journey{Title: "Other", IsPublic: true, UserID: 1})
	require.NoError(t, err)

	ch1, err := f.chapters.Create(ctx, &Chapter{Title: "One", VideoLink: "v1", ChapterNo: 1, JourneyID: srcID})
	require.NoError(t, err)
	ch2, err := f.chapters.Create(ctx, &Chapter{Title: "Two", VideoLink: "v2", ChapterNo: 2, JourneyID: srcID})
	require.NoError(t, err)
	// A chapter belonging to a different journey, referenced by a stale
	// denormalized note row under the source journey.
	stranger, err := f.chapters.Create(ctx, &Chapter{Title: "Elsewhere", VideoLink: "v3", ChapterNo: 1, JourneyID: otherID})
	require.NoError(t, err)

	for _, n := range []*Note{
		{Content: "on one", ChapterID: ch1, JourneyID: srcID},
		{Content: "on two", ChapterID: ch2, JourneyID: srcID},
		{Content: "stale", ChapterID: stranger, JourneyID: srcID},
	} {
		_, err := f.notes.Create(ctx, n)
		require.NoError(t, err)
	}

	newID, err := f.forker.ForkJourney(ctx, srcID, 2)
	require.NoError(t, err)

	copies, err := f.notes.ListByJourney(ctx, newID)
	require.NoError(t, err)
	require.Len(t, copies, 2, "the stale note is dropped, not an error")

	newChapters, err := f.chapters.ListByJourney(ctx, newID)
	require.NoError(t, err)
	require.Len(t, newChapters, 2)

	contents := map[int64]string{}
	for _, note := range copies {
		assert.Equal(t, newID, note.JourneyID)
		contents[note.ChapterID] = note.Content
	}
	assert.Equal(t, "on one", contents[newChapters[0].ID])
	assert.Equal(t, "on two", contents[newChapters[1].ID])
}

func TestForker_SnapshotFailureLeavesPartialState(t *testing.T) {
	f := setupForkFixture(t)
	ctx := context.Background()

	srcID, err := f.journeys.Create(ctx, &Journey{Title: "Learn X", IsPublic: true, UserID: 1})
	require.NoError(t, err)
	chID, err := f.chapters.Create(ctx, &Chapter{Title: "One", VideoLink: "v1", ChapterNo: 1, JourneyID: srcID})
	require.NoError(t, err)
	_, err = f.notes.Create(ctx, &Note{Content: "n1", ChapterID: chID, JourneyID: srcID})
	require.NoError(t, err)

	// Break persistence: snapshots now land in a directory that does not
	// exist, so the next write mutates memory and then fails to save.
	f.engine.path = filepath.Join(t.TempDir(), "gone", "snapshot.db")

	_, err = f.forker.ForkJourney(ctx, srcID, 2)
	require.Error(t, err)
	assert.ErrorContains(t, err, "persisting snapshot")

	// There is no rollback: the copied journey row stays in memory even
	// though the fork failed before any chapter was copied.
	res, err := f.engine.Execute(ctx, `SELECT * FROM journeys ORDER BY id`)
	require.NoError(t, err)
	require.Len(t, res.Rows, 2)

	orphan := res.Rows[1]
	assert.Equal(t, "Fork of Learn X", orphan.String("title"))
	assert.Equal(t, int64(2), orphan.Int64("user_id"))

	copies, err := f.chapters.ListByJourney(ctx, orphan.Int64("id"))
	require.NoError(t, err)
	assert.Empty(t, copies, "the failed write aborted the copy sequence")

	// The source journey and its contents are untouched.
	chapters, err := f.chapters.ListByJourney(ctx, srcID)
	require.NoError(t, err)
	assert.Len(t, chapters, 1)
}

func TestForker_ExampleScenario(t *testing.T) {
	f := setupForkFixture(t)
	ctx := context.Background()

	srcID, err := f.journeys.Create(ctx, &Journey{Title: "Learn X", IsPublic: true, UserID: 1})
	require.NoError(t, err)

	ch1, err := f.chapters.Create(ctx, &Chapter{Title: "A", VideoLink: "va", ChapterNo: 1, JourneyID: srcID})
	require.NoError(t, err)
	ch2, err := f.chapters.Create(ctx, &Chapter{Title: "B", VideoLink: "vb", ChapterNo: 2, JourneyID: srcID})
	require.NoError(t, err)

	parkingID, err := f.journeys.Create(ctx, &Journey{Title: "Parking", IsPublic: false, UserID: 1})
	require.NoError(t, err)
	foreign, err := f.chapters.Create(ctx, &Chapter{Title: "Foreign", VideoLink: "vf", ChapterNo: 1, JourneyID: parkingID})
	require.NoError(t, err)

	for _, n := range []*Note{
		{Content: "n1", ChapterID: ch1, JourneyID: srcID},
		{Content: "n2", ChapterID: ch2, JourneyID: srcID},
		{Content: "orphan", ChapterID: foreign, JourneyID: srcID},
	} {
		_, err := f.notes.Create(ctx, n)
		require.NoError(t, err)
	}

	newID, err := f.forker.ForkJourney(ctx, srcID, 2)
	require.NoError(t, err)

	journey, err := f.journeys.GetByID(ctx, newID)
	require.NoError(t, err)
	assert.Equal(t, "Fork of Learn X", journey.Title)
	assert.False(t, journey.IsPublic)
	assert.Equal(t, int64(2), journey.UserID)

	chapters, err := f.chapters.ListByJourney(ctx, newID)
	require.NoError(t, err)
	require.Len(t, chapters, 2)
	assert.Equal(t, int64(1), chapters[0].ChapterNo)
	assert.Equal(t, int64(2), chapters[1].ChapterNo)

	notes, err := f.notes.ListByJourney(ctx, newID)
	require.NoError(t, err)
	assert.Len(t, notes, 2)
}
