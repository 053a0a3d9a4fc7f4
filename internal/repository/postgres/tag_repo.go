package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"gamecatalog/internal/domain"

	"github.com/lib/pq"
)

type tagRepository struct {
	DB *sql.DB
}

// NewTagRepository returns a domain.TagRepository implemented with Postgres.
func NewTagRepository(db *sql.DB) domain.TagRepository {
	return &tagRepository{DB: db}
}

func (r *tagRepository) Create(ctx context.Context, t *domain.Tag) error {
	err := r.DB.QueryRowContext(ctx, `INSERT INTO tags (name) VALUES ($1) RETURNING id`, t.Name).Scan(&t.ID)
	if err != nil {
		if pgErrorCode(err) == pgUniqueViolation {
			return fmt.Errorf("%w: %s", domain.ErrDuplicateTag, t.Name)
		}
		return err
	}
	return nil
}

func (r *tagRepository) GetByID(ctx context.Context, id int64) (*domain.Tag, error) {
	var tag domain.Tag
	err := r.DB.QueryRowContext(ctx, `SELECT id, name FROM tags WHERE id = $1`, id).Scan(&tag.ID, &tag.Name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NewNotFound(domain.KindTag, id)
		}
		return nil, err
	}
	return &tag, nil
}

func (r *tagRepository) ListByIDs(ctx context.Context, ids []int64) ([]*domain.Tag, error) {
	if len(ids) == 0 {
		return []*domain.Tag{}, nil
	}
	return r.queryTags(ctx, `SELECT id, name FROM tags WHERE id = ANY($1) ORDER BY id`, pq.Array(ids))
}

func (r *tagRepository) List(ctx context.Context) ([]*domain.Tag, error) {
	return r.queryTags(ctx, `SELECT id, name FROM tags ORDER BY name, id`)
}

func (r *tagRepository) FindByPrefix(ctx context.Context, prefix string) ([]*domain.Tag, error) {
	return r.queryTags(ctx,
		`SELECT id, name FROM tags WHERE name ILIKE $1 ORDER BY name, id`,
		escapeLike(prefix)+"%")
}

func (r *tagRepository) Delete(ctx context.Context, id int64) error {
	// game_tags and user_favorite_tags rows go with it via ON DELETE CASCADE.
	result, err := r.DB.ExecContext(ctx, `DELETE FROM tags WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if rowsAffected(result) == 0 {
		return domain.NewNotFound(domain.KindTag, id)
	}
	return nil
}

func (r *tagRepository) queryTags(ctx context.Context, query string, args ...any) ([]*domain.Tag, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tags := make([]*domain.Tag, 0)
	for rows.Next() {
		var tag domain.Tag
		if err := rows.Scan(&tag.ID, &tag.Name); err != nil {
			return nil, err
		}
		tags = append(tags, &tag)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return tags, nil
}
