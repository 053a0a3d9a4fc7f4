package domain

import "context"

// Tag represents a named label attachable to many games.
// swagger:model Tag
type Tag struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// TagRepository defines storage for tags.
type TagRepository interface {
	// Create inserts the tag and sets t.ID. Returns ErrDuplicateTag if the name is taken (case-insensitive).
	Create(ctx context.Context, t *Tag) error
	GetByID(ctx context.Context, id int64) (*Tag, error)
	// ListByIDs returns the tags with the given ids; unknown ids are skipped.
	ListByIDs(ctx context.Context, ids []int64) ([]*Tag, error)
	List(ctx context.Context) ([]*Tag, error)
	// FindByPrefix returns tags whose name starts with prefix, ignoring case, ordered by name then id.
	FindByPrefix(ctx context.Context, prefix string) ([]*Tag, error)
	// Delete removes the tag together with its game links and favorite records.
	Delete(ctx context.Context, id int64) error
}

// TagService defines the business logic for tags, including prefix lookup.
type TagService interface {
	Create(ctx context.Context, name string) (*Tag, error)
	GetByID(ctx context.Context, id int64) (*Tag, error)
	List(ctx context.Context) ([]*Tag, error)
	FindByPrefix(ctx context.Context, prefix string) ([]*Tag, error)
	Delete(ctx context.Context, id int64) error
}
