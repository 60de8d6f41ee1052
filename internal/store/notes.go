// ABOUTME: Note repository over the storage engine execute contract
// ABOUTME: Notes carry a chapter reference and a denormalized journey reference

package store

import (
	"context"
	"fmt"
)

// Notes is the repository for note rows.
type Notes struct {
	engine *Engine
}

// NewNotes creates a note repository backed by the given engine.
func NewNotes(e *Engine) *Notes {
	return &Notes{engine: e}
}

// Create inserts a note and returns the assigned id. Timestamps are
// assigned by the engine. The caller is responsible for keeping
// JourneyID consistent with the chapter's journey.
func (r *Notes) Create(ctx context.Context, n *Note) (int64, error) {
	res, err := r.engine.Execute(ctx,
		`INSERT INTO notes (content, chapter_id, journey_id) VALUES (?, ?, ?)`,
		n.Content, n.ChapterID, n.JourneyID)
	if err != nil {
		return 0, fmt.Errorf("inserting note: %w", err)
	}
	return res.InsertID, nil
}

// GetByID retrieves a note by id. Returns ErrNotFound if absent.
func (r *Notes) GetByID(ctx context.Context, id int64) (*Note, error) {
	res, err := r.engine.Execute(ctx, `SELECT * FROM notes WHERE id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("querying note: %w", err)
	}
	if len(res.Rows) == 0 {
		return nil, ErrNotFound
	}
	return noteFromRow(res.Rows[0]), nil
}

// ListByJourney returns all notes attached to a journey, including
// notes on every one of its chapters.
func (r *Notes) ListByJourney(ctx context.Context, journeyID int64) ([]*Note, error) {
	res, err := r.engine.Execute(ctx,
		`SELECT * FROM notes WHERE journey_id = ? ORDER BY id`, journeyID)
	if err != nil {
		return nil, fmt.Errorf("listing notes: %w", err)
	}
	return notesFromRows(res.Rows), nil
}

// ListByChapter returns all notes attached to a chapter.
func (r *Notes) ListByChapter(ctx context.Context, chapterID int64) ([]*Note, error) {
	res, err := r.engine.Execute(ctx,
		`SELECT * FROM notes WHERE chapter_id = ? ORDER BY id`, chapterID)
	if err != nil {
		return nil, fmt.Errorf("listing chapter notes: %w", err)
	}
	return notesFromRows(res.Rows), nil
}

// UpdateContent rewrites a note's content and bumps updated_at.
// Returns ErrNotFound if no row matched.
func (r *Notes) UpdateContent(ctx context.Context, id int64, content string) error {
	res, err := r.engine.Execute(ctx,
		`UPDATE notes SET content = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`, content, id)
	if err != nil {
		return fmt.Errorf("updating note: %w", err)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a note. Returns ErrNotFound if no row matched.
func (r *Notes) Delete(ctx context.Context, id int64) error {
	res, err := r.engine.Execute(ctx, `DELETE FROM notes WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting note: %w", err)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func notesFromRows(rows []Row) []*Note {
	notes := make([]*Note, 0, len(rows))
	for _, row := range rows {
		notes = append(notes, noteFromRow(row))
	}
	return notes
}

func noteFromRow(row Row) *Note {
	return &Note{
		ID:        row.Int64("id"),
		Content:   row.String("content"),
		ChapterID: row.Int64("chapter_id"),
		JourneyID: row.Int64("journey_id"),
		CreatedAt: row.Time("created_at"),
		UpdatedAt: row.Time("updated_at"),
	}
}
