package services

import (
	"context"
	"fmt"
	"strings"

	"gamecatalog/internal/domain"
)

const maxTagNameLen = 100

type tagService struct {
	tagRepo domain.TagRepository
}

// NewTagService creates a TagService.
func NewTagService(tagRepo domain.TagRepository) domain.TagService {
	return &tagService{tagRepo: tagRepo}
}

func (s *tagService) Create(ctx context.Context, name string) (*domain.Tag, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.NewInvalidArgument("name", "is required")
	}
	if len(name) > maxTagNameLen {
		return nil, domain.NewInvalidArgument("name", fmt.Sprintf("must be at most %d characters", maxTagNameLen))
	}
	tag := &domain.Tag{Name: name}
	if err := s.tagRepo.Create(ctx, tag); err != nil {
		return nil, fmt.Errorf("create tag: %w", err)
	}
	return tag, nil
}

func (s *tagService) GetByID(ctx context.Context, id int64) (*domain.Tag, error) {
	return s.tagRepo.GetByID(ctx, id)
}

func (s *tagService) List(ctx context.Context) ([]*domain.Tag, error) {
	tags, err := s.tagRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	return tags, nil
}

// FindByPrefix matches tag names starting with prefix, ignoring case. A blank prefix returns every tag.
func (s *tagService) FindByPrefix(ctx context.Context, prefix string) ([]*domain.Tag, error) {
	tags, err := s.tagRepo.FindByPrefix(ctx, strings.TrimSpace(prefix))
	if err != nil {
		return nil, fmt.Errorf("find tags by prefix: %w", err)
	}
	return tags, nil
}

func (s *tagService) Delete(ctx context.Context, id int64) error {
	return s.tagRepo.Delete(ctx, id)
}
