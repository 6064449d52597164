package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/Artemis21/polybots/database"
	"github.com/Artemis21/polybots/models"
)

// TagRepository implements the TagRepository interface
type TagRepository struct {
	q queryable
}

// NewTagRepository creates a new tag repository
func NewTagRepository(db *database.DB) *TagRepository {
	return &TagRepository{q: db.Pool}
}

// newTagRepositoryWithTx creates a new tag repository with a transaction
func newTagRepositoryWithTx(tx queryable) *TagRepository {
	return &TagRepository{q: tx}
}

// Create inserts a new tag
func (r *TagRepository) Create(ctx context.Context, tag *models.Tag) error {
	query := `
		INSERT INTO tags (names, content)
		VALUES ($1, $2)
		RETURNING id, uses, created_at
	`

	err := r.q.QueryRow(ctx, query, tag.Names, tag.Content).
		Scan(&tag.ID, &tag.Uses, &tag.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create tag %q: %w", tag.String(), err)
	}
	return nil
}

// GetByName retrieves the tag carrying name as one of its aliases,
// case-insensitively, or nil
func (r *TagRepository) GetByName(ctx context.Context, name string) (*models.Tag, error) {
	query := `
		SELECT id, names, content, uses, created_at
		FROM tags
		WHERE EXISTS (
			SELECT 1 FROM unnest(names) AS n WHERE LOWER(n) = LOWER($1)
		)
	`

	var tag models.Tag
	err := r.q.QueryRow(ctx, query, name).
		Scan(&tag.ID, &tag.Names, &tag.Content, &tag.Uses, &tag.CreatedAt)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get tag %q: %w", name, err)
	}
	return &tag, nil
}

// GetAll returns all tags ordered by canonical name
func (r *TagRepository) GetAll(ctx context.Context) ([]*models.Tag, error) {
	query := `SELECT id, names, content, uses, created_at FROM tags ORDER BY names[1]`

	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get tags: %w", err)
	}
	defer rows.Close()

	var tags []*models.Tag
	for rows.Next() {
		var tag models.Tag
		err := rows.Scan(&tag.ID, &tag.Names, &tag.Content, &tag.Uses, &tag.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan tag: %w", err)
		}
		tags = append(tags, &tag)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate tags: %w", err)
	}
	return tags, nil
}

// Update persists the tag's names and content
func (r *TagRepository) Update(ctx context.Context, tag *models.Tag) error {
	query := `UPDATE tags SET names = $2, content = $3 WHERE id = $1`

	cmdTag, err := r.q.Exec(ctx, query, tag.ID, tag.Names, tag.Content)
	if err != nil {
		return fmt.Errorf("failed to update tag %d: %w", tag.ID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("tag %d not found", tag.ID)
	}
	return nil
}

// Delete removes a tag
func (r *TagRepository) Delete(ctx context.Context, id int64) error {
	cmdTag, err := r.q.Exec(ctx, `DELETE FROM tags WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete tag %d: %w", id, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("tag %d not found", id)
	}
	return nil
}

// IncrementUses bumps the tag's usage counter
func (r *TagRepository) IncrementUses(ctx context.Context, id int64) error {
	_, err := r.q.Exec(ctx, `UPDATE tags SET uses = uses + 1 WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to increment uses for tag %d: %w", id, err)
	}
	return nil
}
