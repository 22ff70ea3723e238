package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"foodgram/models"
)

// TagRepository handles database operations for tags
type TagRepository struct {
	db *sql.DB
}

// NewTagRepository creates a new TagRepository
func NewTagRepository(db *sql.DB) *TagRepository {
	return &TagRepository{db: db}
}

var _ TagRepositoryInterface = (*TagRepository)(nil)

// List returns all tags ordered by id
func (r *TagRepository) List(ctx context.Context) ([]models.Tag, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, color, slug FROM tags ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query tags: %w", err)
	}
	defer rows.Close()

	tags := make([]models.Tag, 0)
	for rows.Next() {
		var tag models.Tag
		if err := rows.Scan(&tag.ID, &tag.Name, &tag.Color, &tag.Slug); err != nil {
			return nil, fmt.Errorf("failed to scan tag: %w", err)
		}
		tags = append(tags, tag)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate tags: %w", err)
	}
	return tags, nil
}

// Get returns a tag by id
func (r *TagRepository) Get(ctx context.Context, id int64) (*models.Tag, error) {
	var tag models.Tag
	err := r.db.QueryRowContext(ctx, `SELECT id, name, color, slug FROM tags WHERE id = $1`, id).
		Scan(&tag.ID, &tag.Name, &tag.Color, &tag.Slug)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get tag: %w", err)
	}
	return &tag, nil
}
