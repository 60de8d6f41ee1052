// ABOUTME: User repository over the storage engine execute contract
// ABOUTME: Narrow CRUD surface for account rows

package store

import (
	"context"
	"fmt"
)

// Users is the repository for user rows.
type Users struct {
	engine *Engine
}

// NewUsers creates a user repository backed by the given engine.
func NewUsers(e *Engine) *Users {
	return &Users{engine: e}
}

// Create inserts a user and returns the assigned id. A duplicate email
// surfaces as ErrConstraint.
func (r *Users) Create(ctx context.Context, u *User) (int64, error) {
	res, err := r.engine.Execute(ctx,
		`INSERT INTO users (username, email, password) VALUES (?, ?, ?)`,
		u.Username, u.Email, u.Password)
	if err != nil {
		return 0, fmt.Errorf("inserting user: %w", err)
	}
	return res.InsertID, nil
}

// GetByID retrieves a user by id. Returns ErrNotFound if absent.
func (r *Users) GetByID(ctx context.Context, id int64) (*User, error) {
	res, err := r.engine.Execute(ctx, `SELECT * FROM users WHERE id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("querying user: %w", err)
	}
	if len(res.Rows) == 0 {
		return nil, ErrNotFound
	}
	return userFromRow(res.Rows[0]), nil
}

// GetByEmail retrieves a user by email. Returns ErrNotFound if absent.
func (r *Users) GetByEmail(ctx context.Context, email string) (*User, error) {
	res, err := r.engine.Execute(ctx, `SELECT * FROM users WHERE email = ?`, email)
	if err != nil {
		return nil, fmt.Errorf("querying user by email: %w", err)
	}
	if len(res.Rows) == 0 {
		return nil, ErrNotFound
	}
	return userFromRow(res.Rows[0]), nil
}

// List returns all users ordered by id.
func (r *Users) List(ctx context.Context) ([]*User, error) {
	res, err := r.engine.Execute(ctx, `SELECT * FROM users ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	users := make([]*User, 0, len(res.Rows))
	for _, row := range res.Rows {
		users = append(users, userFromRow(row))
	}
	return users, nil
}

// Delete removes a user. Journeys, chapters and notes owned by the
// user are removed by cascade. Returns ErrNotFound if no row matched.
func (r *Users) Delete(ctx context.Context, id int64) error {
	res, err := r.engine.Execute(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting user: %w", err)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func userFromRow(row Row) *User {
	return &User{
		ID:       row.Int64("id"),
		Username: row.String("username"),
		Email:    row.String("email"),
		Password: row.String("password"),
	}
}
