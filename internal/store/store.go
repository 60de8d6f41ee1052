// ABOUTME: Entity types and sentinel errors for the focuslearn persistence layer
// ABOUTME: Defines User, Journey, Chapter, Note, ForkedJourney and shared error values

package store

import (
	"errors"
	"time"
)

// ErrNotFound is returned when a requested entity does not exist.
var ErrNotFound = errors.New("not found")

// ErrNotInitialized is returned when the engine is used before Open
// completed or after Close.
var ErrNotInitialized = errors.New("engine not initialized")

// ErrConstraint is returned when a write violates a uniqueness or
// foreign-key constraint.
var ErrConstraint = errors.New("constraint violation")

// User is an account that owns journeys. Password holds the bcrypt hash,
// never the plaintext.
type User struct {
	ID       int64
	Username string
	Email    string
	Password string
}

// Journey is a user-owned collection of ordered chapters.
type Journey struct {
	ID          int64
	Title       string
	Description string
	IsPublic    bool
	UserID      int64
}

// PublicJourney is a journey row joined with its owner's username, as
// returned by the public listing.
type PublicJourney struct {
	ID          int64
	Title       string
	Description string
	IsPublic    bool
	Username    string
}

// Chapter is one ordered unit of a journey carrying a video reference.
// ChapterNo is the ordinal position within the journey; uniqueness is
// intended but not enforced by the schema.
type Chapter struct {
	ID           int64
	Title        string
	Description  string
	VideoLink    string
	ExternalLink string
	IsCompleted  bool
	ChapterNo    int64
	JourneyID    int64
}

// Note is a free-text annotation on a chapter. JourneyID duplicates the
// chapter's journey reference; the denormalization is part of the schema
// and must be kept in sync by writers.
type Note struct {
	ID        int64
	Content   string
	ChapterID int64
	JourneyID int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ForkedJourney records that a user forked an original journey. It is
// informational; the fork algorithm does not depend on it.
type ForkedJourney struct {
	ID                int64
	UserID            int64
	OriginalJourneyID int64
}
