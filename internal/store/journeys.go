// ABOUTME: Journey repository over the storage engine execute contract
// ABOUTME: Owner-scoped mutation, public listing with owner usernames

package store

import (
	"context"
	"fmt"
)

// Journeys is the repository for journey rows.
type Journeys struct {
	engine *Engine
}

// NewJourneys creates a journey repository backed by the given engine.
func NewJourneys(e *Engine) *Journeys {
	return &Journeys{engine: e}
}

// Create inserts a journey and returns the assigned id. An empty title
// defaults to "Untitled Journey".
func (r *Journeys) Create(ctx context.Context, j *Journey) (int64, error) {
	title := j.Title
	if title == "" {
		title = "Untitled Journey"
	}

	res, err := r.engine.Execute(ctx,
		`INSERT INTO journeys (title, description, is_public, user_id) VALUES (?, ?, ?, ?)`,
		title, j.Description, j.IsPublic, j.UserID)
	if err != nil {
		return 0, fmt.Errorf("inserting journey: %w", err)
	}
	return res.InsertID, nil
}

// GetByID retrieves a journey by id. Returns ErrNotFound if absent.
func (r *Journeys) GetByID(ctx context.Context, id int64) (*Journey, error) {
	res, err := r.engine.Execute(ctx, `SELECT * FROM journeys WHERE id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("querying journey: %w", err)
	}
	if len(res.Rows) == 0 {
		return nil, ErrNotFound
	}
	return journeyFromRow(res.Rows[0]), nil
}

// ListByUser returns all journeys owned by the given user.
func (r *Journeys) ListByUser(ctx context.Context, userID int64) ([]*Journey, error) {
	res, err := r.engine.Execute(ctx, `SELECT * FROM journeys WHERE user_id = ? ORDER BY id`, userID)
	if err != nil {
		return nil, fmt.Errorf("listing journeys: %w", err)
	}
	journeys := make([]*Journey, 0, len(res.Rows))
	for _, row := range res.Rows {
		journeys = append(journeys, journeyFromRow(row))
	}
	return journeys, nil
}

// ListPublic returns all public journeys joined with their owners'
// usernames.
func (r *Journeys) ListPublic(ctx context.Context) ([]*PublicJourney, error) {
	res, err := r.engine.Execute(ctx, `
		SELECT journeys.id, journeys.title, journeys.description, journeys.is_public, users.username
		FROM journeys
		JOIN users ON journeys.user_id = users.id
		WHERE journeys.is_public = 1
		ORDER BY journeys.id`)
	if err != nil {
		return nil, fmt.Errorf("listing public journeys: %w", err)
	}
	journeys := make([]*PublicJourney, 0, len(res.Rows))
	for _, row := range res.Rows {
		journeys = append(journeys, &PublicJourney{
			ID:          row.Int64("id"),
			Title:       row.String("title"),
			Description: row.String("description"),
			IsPublic:    row.Bool("is_public"),
			Username:    row.String("username"),
		})
	}
	return journeys, nil
}

// Update rewrites title, description and visibility of a journey owned
// by userID. Returns ErrNotFound if no matching row exists.
func (r *Journeys) Update(ctx context.Context, id, userID int64, j *Journey) error {
	res, err := r.engine.Execute(ctx,
		`UPDATE journeys SET title = ?, description = ?, is_public = ? WHERE id = ? AND user_id = ?`,
		j.Title, j.Description, j.IsPublic, id, userID)
	if err != nil {
		return fmt.Errorf("updating journey: %w", err)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a journey owned by userID. Chapters and notes under
// it are removed by cascade. Returns ErrNotFound if no row matched.
func (r *Journeys) Delete(ctx context.Context, id, userID int64) error {
	res, err := r.engine.Execute(ctx, `DELETE FROM journeys WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("deleting journey: %w", err)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func journeyFromRow(row Row) *Journey {
	return &Journey{
		ID:          row.Int64("id"),
		Title:       row.String("title"),
		Description: row.String("description"),
		IsPublic:    row.Bool("is_public"),
		UserID:      row.Int64("user_id"),
	}
}
