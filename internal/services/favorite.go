package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"gamecatalog/internal/domain"
	"gamecatalog/internal/metrics"
)

type favoriteService struct {
	favoriteRepo domain.FavoriteRepository
	userRepo     domain.UserRepository
	gameRepo     domain.GameRepository
	tagRepo      domain.TagRepository
	logger       *slog.Logger
}

// NewFavoriteService creates the favorite ledger.
func NewFavoriteService(
	favoriteRepo domain.FavoriteRepository,
	userRepo domain.UserRepository,
	gameRepo domain.GameRepository,
	tagRepo domain.TagRepository,
	logger *slog.Logger,
) domain.FavoriteService {
	return &favoriteService{
		favoriteRepo: favoriteRepo,
		userRepo:     userRepo,
		gameRepo:     gameRepo,
		tagRepo:      tagRepo,
		logger:       logger,
	}
}

func (s *favoriteService) ToggleFavoriteGame(ctx context.Context, userID, gameID int64) (bool, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return false, err
	}
	if _, err := s.gameRepo.GetByID(ctx, gameID); err != nil {
		return false, err
	}
	return s.toggle(ctx, domain.FavoriteGameKind, userID, gameID)
}

func (s *favoriteService) ToggleFavoriteTag(ctx context.Context, userID, tagID int64) (bool, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return false, err
	}
	if _, err := s.tagRepo.GetByID(ctx, tagID); err != nil {
		return false, err
	}
	return s.toggle(ctx, domain.FavoriteTagKind, userID, tagID)
}

// toggle runs the store toggle, retrying once when the store aborts it with ErrConflict.
func (s *favoriteService) toggle(ctx context.Context, kind domain.FavoriteKind, userID, targetID int64) (bool, error) {
	added, err := s.favoriteRepo.Toggle(ctx, kind, userID, targetID)
	if errors.Is(err, domain.ErrConflict) {
		metrics.RecordFavoriteConflict(string(kind))
		s.logger.WarnContext(ctx, "favorite toggle conflict, retrying",
			"kind", kind, "user_id", userID, "target_id", targetID, "err", err)
		added, err = s.favoriteRepo.Toggle(ctx, kind, userID, targetID)
		if errors.Is(err, domain.ErrConflict) {
			metrics.RecordFavoriteConflict(string(kind))
		}
	}
	if err != nil {
		return false, fmt.Errorf("toggle favorite %s: %w", kind, err)
	}
	metrics.RecordFavoriteToggle(string(kind), added)
	return added, nil
}

func (s *favoriteService) ListFavoriteGames(ctx context.Context, userID int64) ([]*domain.Game, error) {
	ids, err := s.listIDs(ctx, domain.FavoriteGameKind, userID)
	if err != nil {
		return nil, err
	}
	games, err := s.gameRepo.ListByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load favorite games: %w", err)
	}
	return games, nil
}

func (s *favoriteService) ListFavoriteTags(ctx context.Context, userID int64) ([]*domain.Tag, error) {
	ids, err := s.listIDs(ctx, domain.FavoriteTagKind, userID)
	if err != nil {
		return nil, err
	}
	tags, err := s.tagRepo.ListByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load favorite tags: %w", err)
	}
	return tags, nil
}

func (s *favoriteService) ListFavoriteTagIDs(ctx context.Context, userID int64) ([]int64, error) {
	return s.listIDs(ctx, domain.FavoriteTagKind, userID)
}

func (s *favoriteService) listIDs(ctx context.Context, kind domain.FavoriteKind, userID int64) ([]int64, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	ids, err := s.favoriteRepo.ListTargetIDs(ctx, kind, userID)
	if err != nil {
		return nil, fmt.Errorf("list favorite %s ids: %w", kind, err)
	}
	return ids, nil
}
