// ABOUTME: Schema manager for the five persisted entity tables
// ABOUTME: Idempotent CREATE TABLE IF NOT EXISTS, run once at engine startup

package store

// tableNames lists the persisted tables in dependency order: parents
// before children so snapshot restores satisfy foreign keys.
var tableNames = []string{"users", "journeys", "chapters", "forked_journeys", "notes"}

// createSchema creates the database tables if they don't exist.
// Re-running against an existing snapshot is a no-op.
func (e *Engine) createSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS users (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			username VARCHAR(100) NOT NULL,
			email VARCHAR(100) NOT NULL UNIQUE,
			password VARCHAR(255) NOT NULL
		);

		CREATE TABLE IF NOT EXISTS journeys (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			title VARCHAR(255) NOT NULL,
			description TEXT,
			is_public BOOLEAN NOT NULL DEFAULT TRUE,
			user_id INTEGER,
			FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
		);

		CREATE TABLE IF NOT EXISTS chapters (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			title VARCHAR(255) NOT NULL,
			description TEXT,
			video_link VARCHAR(255) NOT NULL,
			external_link VARCHAR(255),
			is_completed BOOLEAN NOT NULL DEFAULT FALSE,
			chapter_no INTEGER NOT NULL,
			journey_id INTEGER,
			FOREIGN KEY (journey_id) REFERENCES journeys(id) ON DELETE CASCADE
		);

		CREATE TABLE IF NOT EXISTS forked_journeys (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id INTEGER,
			original_journey_id INTEGER,
			FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE,
			FOREIGN KEY (original_journey_id) REFERENCES journeys(id) ON DELETE CASCADE
		);

		CREATE TABLE IF NOT EXISTS notes (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			content TEXT NOT NULL,
			chapter_id INTEGER NOT NULL,
			journey_id INTEGER NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (chapter_id) REFERENCES chapters(id) ON DELETE CASCADE,
			FOREIGN KEY (journey_id) REFERENCES journeys(id) ON DELETE CASCADE
		);
	`

	_, err := e.db.Exec(schema)
	return err
}
