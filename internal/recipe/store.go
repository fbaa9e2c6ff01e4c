package recipe

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// ErrNotFound is returned when no recipe matches the requested id.
var ErrNotFound = errors.New("recipe not found")

// Store defines the interface for saved-recipe persistence.
type Store interface {
	Insert(ctx context.Context, r *Recipe) (int64, error)
	ListAll(ctx context.Context) ([]*Recipe, error)
	Get(ctx context.Context, id int64) (*Recipe, error)
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int64, error)
}

// PostgresStore implements Store on PostgreSQL.
type PostgresStore struct {
	db *sqlx.DB
}

// NewPostgresStore connects to the database and creates the saved_recipes
// table if it does not exist.
func NewPostgresStore(dataSourceName string) (*PostgresStore, error) {
	db, err := sqlx.Connect("postgres", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	schema := `
	CREATE TABLE IF NOT EXISTS saved_recipes (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		name_telugu TEXT NOT NULL DEFAULT '',
		region TEXT NOT NULL,
		ingredients TEXT NOT NULL,
		instructions TEXT NOT NULL,
		video_link TEXT,
		created_at TIMESTAMPTZ NOT NULL
	);
	`
	if _, err = db.Exec(schema); err != nil {
		return nil, fmt.Errorf("failed to create saved_recipes table: %w", err)
	}

	return &PostgresStore{db: db}, nil
}

// Insert appends a recipe row and returns the assigned id. CreatedAt is set
// here and written back to r along with the id.
func (s *PostgresStore) Insert(ctx context.Context, r *Recipe) (int64, error) {
	r.CreatedAt = time.Now().UTC()

	var id int64
	err := s.db.QueryRowContext(ctx,
		"INSERT INTO saved_recipes (name, name_telugu, region, ingredients, instructions, video_link, created_at) VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id",
		r.Name,
		r.NameTelugu,
		r.Region,
		r.Ingredients,
		r.Instructions,
		r.VideoLink,
		r.CreatedAt,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to insert recipe: %w", err)
	}

	r.ID = id
	return id, nil
}

// ListAll returns every saved recipe, newest first.
func (s *PostgresStore) ListAll(ctx context.Context) ([]*Recipe, error) {
	var recipes []*Recipe
	err := s.db.SelectContext(ctx, &recipes,
		"SELECT id, name, name_telugu, region, ingredients, instructions, video_link, created_at FROM saved_recipes ORDER BY created_at DESC")
	if err != nil {
		return nil, fmt.Errorf("failed to list recipes: %w", err)
	}
	return recipes, nil
}

// Get retrieves a recipe by id, returning ErrNotFound when no row matches.
func (s *PostgresStore) Get(ctx context.Context, id int64) (*Recipe, error) {
	var r Recipe
	err := s.db.GetContext(ctx, &r,
		"SELECT id, name, name_telugu, region, ingredients, instructions, video_link, created_at FROM saved_recipes WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get recipe %d: %w", id, err)
	}
	return &r, nil
}

// Delete removes a recipe by id. Deleting an id that does not exist is a
// no-op, not an error.
func (s *PostgresStore) Delete(ctx context.Context, id int64) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM saved_recipes WHERE id = $1", id); err != nil {
		return fmt.Errorf("failed to delete recipe %d: %w", id, err)
	}
	return nil
}

// Count returns the number of saved recipes.
func (s *PostgresStore) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM saved_recipes"); err != nil {
		return 0, fmt.Errorf("failed to count recipes: %w", err)
	}
	return count, nil
}
