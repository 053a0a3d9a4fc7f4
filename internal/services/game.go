package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gamecatalog/internal/domain"
	"gamecatalog/internal/metrics"
)

// Search branches, reported to metrics.
const (
	branchTitleAndTag = "title_and_tag"
	branchTitle       = "title"
	branchTag         = "tag"
	branchAll         = "all"
)

type gameService struct {
	gameRepo domain.GameRepository
	tagRepo  domain.TagRepository
}

// NewGameService creates a GameService backed by the game and tag repositories.
func NewGameService(gameRepo domain.GameRepository, tagRepo domain.TagRepository) domain.GameService {
	return &gameService{gameRepo: gameRepo, tagRepo: tagRepo}
}

// Search resolves the filter by precedence: title and tag together, then title
// alone, then tag alone, then the unfiltered listing. A blank title counts as absent.
func (s *gameService) Search(ctx context.Context, title string, tagID *int64, p domain.PaginationParams) (domain.Page[*domain.Game], error) {
	if err := p.Validate(); err != nil {
		return domain.Page[*domain.Game]{}, err
	}

	filter := domain.GameFilter{Title: strings.TrimSpace(title), TagID: tagID}
	switch {
	case filter.Title != "" && filter.TagID != nil:
		metrics.RecordSearch(branchTitleAndTag)
	case filter.Title != "":
		metrics.RecordSearch(branchTitle)
	case filter.TagID != nil:
		metrics.RecordSearch(branchTag)
	default:
		metrics.RecordSearch(branchAll)
	}

	games, total, err := s.gameRepo.Search(ctx, filter, p)
	if err != nil {
		return domain.Page[*domain.Game]{}, fmt.Errorf("search games: %w", err)
	}
	return domain.NewPage(games, total, p), nil
}

func (s *gameService) List(ctx context.Context, p domain.PaginationParams) (domain.Page[*domain.Game], error) {
	return s.Search(ctx, "", nil, p)
}

func (s *gameService) GetByID(ctx context.Context, id int64) (*domain.Game, error) {
	return s.gameRepo.GetByID(ctx, id)
}

func (s *gameService) ListByTagIDs(ctx context.Context, tagIDs []int64) ([]*domain.Game, error) {
	games, err := s.gameRepo.ListByTagIDs(ctx, tagIDs)
	if err != nil {
		return nil, fmt.Errorf("list games by tags: %w", err)
	}
	return games, nil
}

func (s *gameService) Create(ctx context.Context, g *domain.Game, tagIDs []int64) (*domain.Game, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}
	tags, err := s.resolveTags(ctx, tagIDs)
	if err != nil {
		return nil, err
	}
	g.Title = strings.TrimSpace(g.Title)
	g.Tags = tags
	now := time.Now()
	g.CreatedAt = now
	g.UpdatedAt = now

	if err := s.gameRepo.Create(ctx, g); err != nil {
		return nil, fmt.Errorf("create game: %w", err)
	}
	return s.gameRepo.GetByID(ctx, g.ID)
}

func (s *gameService) Update(ctx context.Context, id int64, g *domain.Game, tagIDs []int64) (*domain.Game, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}
	existing, err := s.gameRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	tags, err := s.resolveTags(ctx, tagIDs)
	if err != nil {
		return nil, err
	}
	g.ID = id
	g.Title = strings.TrimSpace(g.Title)
	g.Tags = tags
	g.CreatedAt = existing.CreatedAt
	g.UpdatedAt = time.Now()

	if err := s.gameRepo.Update(ctx, g); err != nil {
		return nil, fmt.Errorf("update game: %w", err)
	}
	return s.gameRepo.GetByID(ctx, id)
}

func (s *gameService) Delete(ctx context.Context, id int64) error {
	return s.gameRepo.Delete(ctx, id)
}

func (s *gameService) AddTag(ctx context.Context, gameID, tagID int64) (*domain.Game, error) {
	g, err := s.gameRepo.GetByID(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if _, err := s.tagRepo.GetByID(ctx, tagID); err != nil {
		return nil, err
	}
	if g.HasTag(tagID) {
		return g, nil
	}
	if err := s.gameRepo.AddTag(ctx, gameID, tagID); err != nil {
		return nil, fmt.Errorf("add tag: %w", err)
	}
	return s.gameRepo.GetByID(ctx, gameID)
}

func (s *gameService) RemoveTag(ctx context.Context, gameID, tagID int64) (*domain.Game, error) {
	g, err := s.gameRepo.GetByID(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if _, err := s.tagRepo.GetByID(ctx, tagID); err != nil {
		return nil, err
	}
	if !g.HasTag(tagID) {
		return g, nil
	}
	if err := s.gameRepo.RemoveTag(ctx, gameID, tagID); err != nil {
		return nil, fmt.Errorf("remove tag: %w", err)
	}
	return s.gameRepo.GetByID(ctx, gameID)
}

// resolveTags loads the tags for ids, dropping duplicates; any unknown id is NotFound.
func (s *gameService) resolveTags(ctx context.Context, ids []int64) ([]*domain.Tag, error) {
	unique := dedupeIDs(ids)
	if len(unique) == 0 {
		return []*domain.Tag{}, nil
	}
	tags, err := s.tagRepo.ListByIDs(ctx, unique)
	if err != nil {
		return nil, fmt.Errorf("load tags: %w", err)
	}
	if len(tags) != len(unique) {
		found := make(map[int64]bool, len(tags))
		for _, t := range tags {
			found[t.ID] = true
		}
		for _, id := range unique {
			if !found[id] {
				return nil, domain.NewNotFound(domain.KindTag, id)
			}
		}
	}
	return tags, nil
}

func dedupeIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
