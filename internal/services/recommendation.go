package services

import (
	"context"
	"fmt"
	"sort"

	"gamecatalog/internal/domain"
	"gamecatalog/internal/metrics"
)

type recommendationService struct {
	favorites domain.FavoriteService
	games     domain.GameService
}

// NewRecommendationService creates a RecommendationService that reads favorite
// tags from the ledger and resolves them through the game service.
func NewRecommendationService(favorites domain.FavoriteService, games domain.GameService) domain.RecommendationService {
	return &recommendationService{favorites: favorites, games: games}
}

// Recommend returns every game carrying at least one of the user's favorite tags,
// each once, by ascending id. No favorite tags means no recommendations.
func (s *recommendationService) Recommend(ctx context.Context, userID int64) ([]*domain.Game, error) {
	tagIDs, err := s.favorites.ListFavoriteTagIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(tagIDs) == 0 {
		metrics.RecordRecommendation(0)
		return []*domain.Game{}, nil
	}

	games, err := s.games.ListByTagIDs(ctx, tagIDs)
	if err != nil {
		return nil, fmt.Errorf("recommend: %w", err)
	}

	seen := make(map[int64]struct{}, len(games))
	out := make([]*domain.Game, 0, len(games))
	for _, g := range games {
		if _, ok := seen[g.ID]; ok {
			continue
		}
		seen[g.ID] = struct{}{}
		out = append(out, g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	metrics.RecordRecommendation(len(out))
	return out, nil
}
