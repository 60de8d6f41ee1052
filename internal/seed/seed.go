// ABOUTME: Loads YAML fixture files and inserts them through the repositories
// ABOUTME: Used by the seed subcommand to populate demo or test databases

// Package seed populates a focuslearn database from a YAML fixture
// file describing users with nested journeys, chapters and notes.
package seed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/focuslearn/focuslearn/internal/auth"
	"github.com/focuslearn/focuslearn/internal/store"
)

// Fixture is the root of a seed file.
type Fixture struct {
	Users []UserFixture `yaml:"users"`
}

// UserFixture describes one user and everything they own.
type UserFixture struct {
	Username string           `yaml:"username"`
	Email    string           `yaml:"email"`
	Password string           `yaml:"password"`
	Journeys []JourneyFixture `yaml:"journeys"`
}

// JourneyFixture describes one journey with its chapters.
type JourneyFixture struct {
	Title       string           `yaml:"title"`
	Description string           `yaml:"description"`
	IsPublic    bool             `yaml:"is_public"`
	Chapters    []ChapterFixture `yaml:"chapters"`
}

// ChapterFixture describes one chapter with its notes.
type ChapterFixture struct {
	Title        string   `yaml:"title"`
	Description  string   `yaml:"description"`
	VideoLink    string   `yaml:"video_link"`
	ExternalLink string   `yaml:"external_link"`
	ChapterNo    int64    `yaml:"chapter_no"`
	Notes        []string `yaml:"notes"`
}

// Load reads and parses a fixture file.
func Load(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading fixture file: %w", err)
	}

	var fixture Fixture
	if err := yaml.Unmarshal(data, &fixture); err != nil {
		return nil, fmt.Errorf("parsing fixture file: %w", err)
	}
	return &fixture, nil
}

// Apply inserts the fixture into the database. Users whose email is
// already present are skipped along with everything nested under them,
// so running the same fixture twice does not duplicate data.
func Apply(ctx context.Context, engine *store.Engine, fixture *Fixture, logger *slog.Logger) error {
	logger = logger.With("component", "seed")

	users := store.NewUsers(engine)
	journeys := store.NewJourneys(engine)
	chapters := store.NewChapters(engine)
	notes := store.NewNotes(engine)

	for _, uf := range fixture.Users {
		if uf.Email == "" || uf.Username == "" {
			return fmt.Errorf("fixture user %q: username and email are required", uf.Username)
		}

		if _, err := users.GetByEmail(ctx, uf.Email); err == nil {
			logger.Info("user already present, skipping", "email", uf.Email)
			continue
		} else if !errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("checking for user %q: %w", uf.Email, err)
		}

		hash, err := auth.HashPassword(uf.Password)
		if err != nil {
			return fmt.Errorf("hashing password for %q: %w", uf.Email, err)
		}

		userID, err := users.Create(ctx, &store.User{
			Username: uf.Username,
			Email:    uf.Email,
			Password: hash,
		})
		if err != nil {
			return fmt.Errorf("creating user %q: %w", uf.Email, err)
		}

		for _, jf := range uf.Journeys {
			journeyID, err := journeys.Create(ctx, &store.Journey{
				Title:       jf.Title,
				Description: jf.Description,
				IsPublic:    jf.IsPublic,
				UserID:      userID,
			})
			if err != nil {
				return fmt.Errorf("creating journey %q: %w", jf.Title, err)
			}

			for _, cf := range jf.Chapters {
				chapterID, err := chapters.Create(ctx, &store.Chapter{
					Title:        cf.Title,
					Description:  cf.Description,
					VideoLink:    cf.VideoLink,
					ExternalLink: cf.ExternalLink,
					ChapterNo:    cf.ChapterNo,
					JourneyID:    journeyID,
				})
				if err != nil {
					return fmt.Errorf("creating chapter %q: %w", cf.Title, err)
				}

				for _, content := range cf.Notes {
					_, err := notes.Create(ctx, &store.Note{
						Content:   content,
						ChapterID: chapterID,
						JourneyID: journeyID,
					})
					if err != nil {
						return fmt.Errorf("creating note on %q: %w", cf.Title, err)
					}
				}
			}
		}

		logger.Info("seeded user", "email", uf.Email, "journeys", len(uf.Journeys))
	}

	return nil
}
