// ABOUTME: Chapter repository over the storage engine execute contract
// ABOUTME: Ordered listing by chapter_no plus the fork duplication insert

package store

import (
	"context"
	"fmt"
)

// Chapters is the repository for chapter rows.
type Chapters struct {
	engine *Engine
}

// NewChapters creates a chapter repository backed by the given engine.
func NewChapters(e *Engine) *Chapters {
	return &Chapters{engine: e}
}

// Create inserts a chapter with all of its columns and returns the
// assigned id.
func (r *Chapters) Create(ctx context.Context, c *Chapter) (int64, error) {
	res, err := r.engine.Execute(ctx,
		`INSERT INTO chapters (title, description, video_link, external_link, is_completed, chapter_no, journey_id)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		c.Title, c.Description, c.VideoLink, nullString(c.ExternalLink), c.IsCompleted, c.ChapterNo, c.JourneyID)
	if err != nil {
		return 0, fmt.Errorf("inserting chapter: %w", err)
	}
	return res.InsertID, nil
}

// Duplicate copies a chapter under another journey, preserving title,
// description, video link and chapter number only. The external link
// and completion flag are not carried over; the copy starts fresh with
// the column defaults. Empty fields fall back to "Untitled Chapter",
// an empty link and chapter number 1.
func (r *Chapters) Duplicate(ctx context.Context, src *Chapter, journeyID int64) (int64, error) {
	title := src.Title
	if title == "" {
		title = "Untitled Chapter"
	}
	chapterNo := src.ChapterNo
	if chapterNo == 0 {
		chapterNo = 1
	}

	res, err := r.engine.Execute(ctx,
		`INSERT INTO chapters (title, description, video_link, chapter_no, journey_id) VALUES (?, ?, ?, ?, ?)`,
		title, src.Description, src.VideoLink, chapterNo, journeyID)
	if err != nil {
		return 0, fmt.Errorf("inserting chapter copy: %w", err)
	}
	return res.InsertID, nil
}

// GetByID retrieves a chapter by id. Returns ErrNotFound if absent.
func (r *Chapters) GetByID(ctx context.Context, id int64) (*Chapter, error) {
	res, err := r.engine.Execute(ctx, `SELECT * FROM chapters WHERE id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("querying chapter: %w", err)
	}
	if len(res.Rows) == 0 {
		return nil, ErrNotFound
	}
	return chapterFromRow(res.Rows[0]), nil
}

// ListByJourney returns a journey's chapters in stable order. The
// engine itself guarantees no ordering, so chapter_no (with id as
// tiebreak) is imposed here.
func (r *Chapters) ListByJourney(ctx context.Context, journeyID int64) ([]*Chapter, error) {
	res, err := r.engine.Execute(ctx,
		`SELECT * FROM chapters WHERE journey_id = ? ORDER BY chapter_no, id`, journeyID)
	if err != nil {
		return nil, fmt.Errorf("listing chapters: %w", err)
	}
	chapters := make([]*Chapter, 0, len(res.Rows))
	for _, row := range res.Rows {
		chapters = append(chapters, chapterFromRow(row))
	}
	return chapters, nil
}

// Update rewrites a chapter's editable fields. Returns ErrNotFound if
// no row matched.
func (r *Chapters) Update(ctx context.Context, id int64, c *Chapter) error {
	res, err := r.engine.Execute(ctx,
		`UPDATE chapters SET title = ?, description = ?, video_link = ?, external_link = ?, chapter_no = ? WHERE id = ?`,
		c.Title, c.Description, c.VideoLink, nullString(c.ExternalLink), c.ChapterNo, id)
	if err != nil {
		return fmt.Errorf("updating chapter: %w", err)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// SetCompleted flips the completion flag. Returns ErrNotFound if no
// row matched.
func (r *Chapters) SetCompleted(ctx context.Context, id int64, completed bool) error {
	res, err := r.engine.Execute(ctx,
		`UPDATE chapters SET is_completed = ? WHERE id = ?`, completed, id)
	if err != nil {
		return fmt.Errorf("updating chapter completion: %w", err)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a chapter. Its notes are removed by cascade. Returns
// ErrNotFound if no row matched.
func (r *Chapters) Delete(ctx context.Context, id int64) error {
	res, err := r.engine.Execute(ctx, `DELETE FROM chapters WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting chapter: %w", err)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// nullString returns nil for empty strings so optional columns store
// NULL instead of "".
func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func chapterFromRow(row Row) *Chapter {
	return &Chapter{
		ID:           row.Int64("id"),
		Title:        row.String("title"),
		Description:  row.String("description"),
		VideoLink:    row.String("video_link"),
		ExternalLink: row.String("external_link"),
		IsCompleted:  row.Bool("is_completed"),
		ChapterNo:    row.Int64("chapter_no"),
		JourneyID:    row.Int64("journey_id"),
	}
}
