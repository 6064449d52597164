package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/Artemis21/polybots/database"
	"github.com/Artemis21/polybots/models"
)

// ModifierRepository implements the ModifierRepository interface
type ModifierRepository struct {
	q queryable
}

// NewModifierRepository creates a new modifier repository
func NewModifierRepository(db *database.DB) *ModifierRepository {
	return &ModifierRepository{q: db.Pool}
}

// newModifierRepositoryWithTx creates a new modifier repository with a transaction
func newModifierRepositoryWithTx(tx queryable) *ModifierRepository {
	return &ModifierRepository{q: tx}
}

// Create inserts a new modifier
func (r *ModifierRepository) Create(ctx context.Context, modifier *models.Modifier) error {
	query := `
		INSERT INTO modifiers (name, description, turns)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`

	err := r.q.QueryRow(ctx, query, modifier.Name, modifier.Description, modifier.Turns).
		Scan(&modifier.ID, &modifier.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create modifier %q: %w", modifier.Name, err)
	}
	return nil
}

// GetByID retrieves a modifier, or nil if not found
func (r *ModifierRepository) GetByID(ctx context.Context, id int64) (*models.Modifier, error) {
	query := `SELECT id, name, description, turns, created_at FROM modifiers WHERE id = $1`

	var modifier models.Modifier
	err := r.q.QueryRow(ctx, query, id).Scan(
		&modifier.ID,
		&modifier.Name,
		&modifier.Description,
		&modifier.Turns,
		&modifier.CreatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get modifier %d: %w", id, err)
	}
	return &modifier, nil
}

// GetAll returns all modifiers ordered by ID
func (r *ModifierRepository) GetAll(ctx context.Context) ([]*models.Modifier, error) {
	query := `SELECT id, name, description, turns, created_at FROM modifiers ORDER BY id`

	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get modifiers: %w", err)
	}
	defer rows.Close()

	var modifiers []*models.Modifier
	for rows.Next() {
		var modifier models.Modifier
		err := rows.Scan(
			&modifier.ID,
			&modifier.Name,
			&modifier.Description,
			&modifier.Turns,
			&modifier.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan modifier: %w", err)
		}
		modifiers = append(modifiers, &modifier)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate modifiers: %w", err)
	}
	return modifiers, nil
}

// Update persists the modifier's fields
func (r *ModifierRepository) Update(ctx context.Context, modifier *models.Modifier) error {
	query := `UPDATE modifiers SET name = $2, description = $3, turns = $4 WHERE id = $1`

	tag, err := r.q.Exec(ctx, query, modifier.ID, modifier.Name, modifier.Description, modifier.Turns)
	if err != nil {
		return fmt.Errorf("failed to update modifier %d: %w", modifier.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("modifier %d not found", modifier.ID)
	}
	return nil
}

// Delete removes a modifier
func (r *ModifierRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM modifiers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete modifier %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("modifier %d not found", id)
	}
	return nil
}
