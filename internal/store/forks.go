// ABOUTME: ForkedJourney repository recording which journeys a user forked
// ABOUTME: Informational relationship rows; the fork algorithm does not depend on them

package store

import (
	"context"
	"fmt"
)

// ForkedJourneys is the repository for fork relationship rows.
type ForkedJourneys struct {
	engine *Engine
}

// NewForkedJourneys creates a fork-record repository backed by the
// given engine.
func NewForkedJourneys(e *Engine) *ForkedJourneys {
	return &ForkedJourneys{engine: e}
}

// Create records that userID forked originalJourneyID.
func (r *ForkedJourneys) Create(ctx context.Context, userID, originalJourneyID int64) (int64, error) {
	res, err := r.engine.Execute(ctx,
		`INSERT INTO forked_journeys (user_id, original_journey_id) VALUES (?, ?)`,
		userID, originalJourneyID)
	if err != nil {
		return 0, fmt.Errorf("inserting fork record: %w", err)
	}
	return res.InsertID, nil
}

// ListByUser returns the fork records for a user ordered by id.
func (r *ForkedJourneys) ListByUser(ctx context.Context, userID int64) ([]*ForkedJourney, error) {
	res, err := r.engine.Execute(ctx,
		`SELECT * FROM forked_journeys WHERE user_id = ? ORDER BY id`, userID)
	if err != nil {
		return nil, fmt.Errorf("listing fork records: %w", err)
	}
	records := make([]*ForkedJourney, 0, len(res.Rows))
	for _, row := range res.Rows {
		records = append(records, &ForkedJourney{
			ID:                row.Int64("id"),
			UserID:            row.Int64("user_id"),
			OriginalJourneyID: row.Int64("original_journey_id"),
		})
	}
	return records, nil
}
