// ABOUTME: Journey fork engine duplicating a journey with its chapters and notes
// ABOUTME: Sequential copy with in-memory chapter id remapping; no rollback on failure

package store

import (
	"context"
	"fmt"
	"log/slog"
)

// Forker copies a journey and its dependent chapters and notes into a
// new private journey owned by another user.
//
// The copy is a sequence of individual writes, not a transaction. If a
// step fails partway, rows created by earlier steps stay persisted;
// callers see the error and the partially copied journey remains.
type Forker struct {
	journeys *Journeys
	chapters *Chapters
	notes    *Notes
	logger   *slog.Logger
}

// NewForker creates a fork engine over the given repositories.
func NewForker(journeys *Journeys, chapters *Chapters, notes *Notes) *Forker {
	return &Forker{
		journeys: journeys,
		chapters: chapters,
		notes:    notes,
		logger:   slog.Default().With("component", "fork"),
	}
}

// ForkJourney duplicates journeyID and everything under it for userID
// and returns the new journey's id. The copy is always private, no
// matter the source's visibility. The source is never mutated.
//
// Notes whose chapter is not part of the source journey's chapter set
// (stale denormalized rows, or a chapter deleted mid-fork) are skipped
// silently rather than failing the fork.
func (f *Forker) ForkJourney(ctx context.Context, journeyID, userID int64) (int64, error) {
	src, err := f.journeys.GetByID(ctx, journeyID)
	if err != nil {
		return 0, fmt.Errorf("loading source journey: %w", err)
	}

	title := src.Title
	if title == "" {
		title = "Untitled"
	}

	newJourneyID, err := f.journeys.Create(ctx, &Journey{
		Title:       "Fork of " + title,
		Description: src.Description,
		IsPublic:    false,
		UserID:      userID,
	})
	if err != nil {
		return 0, fmt.Errorf("creating journey copy: %w", err)
	}

	chapters, err := f.chapters.ListByJourney(ctx, journeyID)
	if err != nil {
		return 0, fmt.Errorf("loading source chapters: %w", err)
	}

	// Old chapter id -> new chapter id, scoped to this call.
	chapterIDMap := make(map[int64]int64, len(chapters))
	for _, chapter := range chapters {
		newChapterID, err := f.chapters.Duplicate(ctx, chapter, newJourneyID)
		if err != nil {
			return 0, fmt.Errorf("copying chapter %d: %w", chapter.ID, err)
		}
		chapterIDMap[chapter.ID] = newChapterID
	}

	notes, err := f.notes.ListByJourney(ctx, journeyID)
	if err != nil {
		return 0, fmt.Errorf("loading source notes: %w", err)
	}

	skipped := 0
	for _, note := range notes {
		newChapterID, ok := chapterIDMap[note.ChapterID]
		if !ok {
			skipped++
			continue
		}
		_, err := f.notes.Create(ctx, &Note{
			Content:   note.Content,
			ChapterID: newChapterID,
			JourneyID: newJourneyID,
		})
		if err != nil {
			return 0, fmt.Errorf("copying note %d: %w", note.ID, err)
		}
	}

	f.logger.Info("journey forked",
		"source", journeyID,
		"journey", newJourneyID,
		"user", userID,
		"chapters", len(chapters),
		"notes", len(notes)-skipped,
		"skipped_notes", skipped,
	)
	return newJourneyID, nil
}
