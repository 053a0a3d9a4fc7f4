package domain

import "context"

// FavoriteKind identifies which favorite relation a record belongs to.
type FavoriteKind string

const (
	FavoriteGameKind FavoriteKind = "game"
	FavoriteTagKind  FavoriteKind = "tag"
)

// FavoriteGame links a user to a favorited game. At most one record exists per (UserID, GameID).
type FavoriteGame struct {
	ID     int64 `json:"id"`
	UserID int64 `json:"user_id"`
	GameID int64 `json:"game_id"`
}

// FavoriteTag links a user to a favorited tag. At most one record exists per (UserID, TagID).
type FavoriteTag struct {
	ID     int64 `json:"id"`
	UserID int64 `json:"user_id"`
	TagID  int64 `json:"tag_id"`
}

// FavoriteRepository stores favorite relations.
// Toggle methods run the existence check and the insert or delete as one
// transaction serialized per (kind, user, target); they return the new membership
// state and ErrConflict when the store aborts the transaction.
type FavoriteRepository interface {
	Toggle(ctx context.Context, kind FavoriteKind, userID, targetID int64) (added bool, err error)
	// ListTargetIDs returns the favorited target ids of the user in ascending order.
	ListTargetIDs(ctx context.Context, kind FavoriteKind, userID int64) ([]int64, error)
}

// FavoriteService is the favorite ledger.
type FavoriteService interface {
	ToggleFavoriteGame(ctx context.Context, userID, gameID int64) (added bool, err error)
	ToggleFavoriteTag(ctx context.Context, userID, tagID int64) (added bool, err error)
	ListFavoriteGames(ctx context.Context, userID int64) ([]*Game, error)
	ListFavoriteTags(ctx context.Context, userID int64) ([]*Tag, error)
	ListFavoriteTagIDs(ctx context.Context, userID int64) ([]int64, error)
}

// RecommendationService derives game recommendations from a user's favorite tags.
type RecommendationService interface {
	Recommend(ctx context.Context, userID int64) ([]*Game, error)
}
