package domain

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Game is a catalog entry with descriptive metadata and a set of tags.
// swagger:model Game
type Game struct {
	ID                  int64            `json:"id"`
	Title               string           `json:"title"`
	Description         string           `json:"description,omitempty"`
	Story               string           `json:"story,omitempty"`
	ReleaseDate         *time.Time       `json:"release_date,omitempty"`
	Price               *decimal.Decimal `json:"price,omitempty"`
	ImageURL            string           `json:"image_url,omitempty"`
	VideoURL            string           `json:"video_url,omitempty"`
	SteamLink           string           `json:"steam_link,omitempty"`
	AdditionalImageURLs []string         `json:"additional_image_urls"`
	AdditionalVideoURLs []string         `json:"additional_video_urls"`
	Tags                []*Tag           `json:"tags"`
	CreatedAt           time.Time        `json:"created_at"`
	UpdatedAt           time.Time        `json:"updated_at"`
}

// Validate checks the invariants every stored game must satisfy.
func (g *Game) Validate() error {
	if strings.TrimSpace(g.Title) == "" {
		return NewInvalidArgument("title", "is required")
	}
	if g.Price != nil && g.Price.IsNegative() {
		return NewInvalidArgument("price", "must be >= 0")
	}
	return nil
}

// TagIDs returns the ids of the game's tags in their current order.
func (g *Game) TagIDs() []int64 {
	ids := make([]int64, 0, len(g.Tags))
	for _, t := range g.Tags {
		ids = append(ids, t.ID)
	}
	return ids
}

// HasTag reports whether the game carries the tag.
func (g *Game) HasTag(tagID int64) bool {
	for _, t := range g.Tags {
		if t.ID == tagID {
			return true
		}
	}
	return false
}

// GameFilter holds the normalized predicates of a catalog search.
// An empty Title and a nil TagID mean "no constraint"; both set means both must match.
type GameFilter struct {
	Title string
	TagID *int64
}

// GameRepository defines storage for games, their media lists and their tag links.
// Every list method returns games ordered by ascending id.
type GameRepository interface {
	// Create inserts the game with its media and tag links and sets g.ID.
	Create(ctx context.Context, g *Game) error
	GetByID(ctx context.Context, id int64) (*Game, error)
	// Update replaces scalar fields, media lists and the tag set of an existing game.
	Update(ctx context.Context, g *Game) error
	Delete(ctx context.Context, id int64) error
	// Search returns the requested page of games matching filter and the total match count.
	Search(ctx context.Context, filter GameFilter, p PaginationParams) ([]*Game, int, error)
	// ListByTagIDs returns every game carrying at least one of the tags, each game once.
	ListByTagIDs(ctx context.Context, tagIDs []int64) ([]*Game, error)
	// ListByIDs returns the games with the given ids; unknown ids are skipped.
	ListByIDs(ctx context.Context, ids []int64) ([]*Game, error)
	// AddTag links the tag to the game; linking an already linked tag is a no-op.
	AddTag(ctx context.Context, gameID, tagID int64) error
	// RemoveTag unlinks the tag from the game; unlinking an absent tag is a no-op.
	RemoveTag(ctx context.Context, gameID, tagID int64) error
}

// GameService is the catalog query engine plus the admin mutation path.
type GameService interface {
	// Search applies the title/tag precedence and returns one page of matches.
	Search(ctx context.Context, title string, tagID *int64, p PaginationParams) (Page[*Game], error)
	List(ctx context.Context, p PaginationParams) (Page[*Game], error)
	GetByID(ctx context.Context, id int64) (*Game, error)
	// ListByTagIDs is the tag-set lookup used by recommendations.
	ListByTagIDs(ctx context.Context, tagIDs []int64) ([]*Game, error)
	Create(ctx context.Context, g *Game, tagIDs []int64) (*Game, error)
	Update(ctx context.Context, id int64, g *Game, tagIDs []int64) (*Game, error)
	Delete(ctx context.Context, id int64) error
	AddTag(ctx context.Context, gameID, tagID int64) (*Game, error)
	RemoveTag(ctx context.Context, gameID, tagID int64) (*Game, error)
}
