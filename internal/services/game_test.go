package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gamecatalog/internal/domain"
)

func gameIDs(games []*domain.Game) []int64 {
	ids := make([]int64, 0, len(games))
	for _, g := range games {
		ids = append(ids, g.ID)
	}
	return ids
}

func int64Ptr(v int64) *int64 { return &v }

func TestGameService_Search(t *testing.T) {
	ctx := context.Background()
	tags, games := catalogFixture()
	games.seed(4, "Dark Souls II")
	svc := NewGameService(games, tags)
	page := domain.PaginationParams{Page: 0, PageSize: 10}

	tests := []struct {
		name      string
		title     string
		tagID     *int64
		page      domain.PaginationParams
		wantIDs   []int64
		wantTotal int
		errIs     error
	}{
		{name: "title and tag both apply", title: "souls", tagID: int64Ptr(1), page: page, wantIDs: []int64{1}, wantTotal: 1},
		{name: "title and tag with no overlap is empty", title: "stardew", tagID: int64Ptr(1), page: page, wantIDs: []int64{}, wantTotal: 0},
		{name: "title only is case-insensitive substring", title: "SOULS", page: page, wantIDs: []int64{1, 4}, wantTotal: 2},
		{name: "tag only", tagID: int64Ptr(2), page: page, wantIDs: []int64{2}, wantTotal: 1},
		{name: "blank title counts as absent", title: "   ", tagID: int64Ptr(1), page: page, wantIDs: []int64{1, 2}, wantTotal: 2},
		{name: "no filter lists everything", page: page, wantIDs: []int64{1, 2, 3, 4}, wantTotal: 4},
		{name: "page size one returns one of many", page: domain.PaginationParams{Page: 0, PageSize: 1}, wantIDs: []int64{1}, wantTotal: 4},
		{name: "page past the end is empty", page: domain.PaginationParams{Page: 5, PageSize: 10}, wantIDs: []int64{}, wantTotal: 4},
		{name: "negative page", page: domain.PaginationParams{Page: -1, PageSize: 10}, errIs: domain.ErrInvalidArgument},
		{name: "zero page size", page: domain.PaginationParams{Page: 0, PageSize: 0}, errIs: domain.ErrInvalidArgument},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.Search(ctx, tt.title, tt.tagID, tt.page)
			if tt.errIs != nil {
				require.ErrorIs(t, err, tt.errIs)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantIDs, gameIDs(got.Items))
			assert.Equal(t, tt.wantTotal, got.Total)
			assert.Equal(t, tt.page.Page, got.Page)
			assert.Equal(t, tt.page.PageSize, got.PageSize)
		})
	}
}

func TestGameService_Search_ThreeMatchesPagedByOne(t *testing.T) {
	tags, games := catalogFixture()
	svc := NewGameService(games, tags)

	got, err := svc.Search(context.Background(), "", nil, domain.PaginationParams{Page: 0, PageSize: 1})
	require.NoError(t, err)
	assert.Len(t, got.Items, 1)
	assert.Equal(t, 3, got.Total)
	assert.Equal(t, 3, got.TotalPages)
}

func TestGameService_Search_RepoError(t *testing.T) {
	tags, games := catalogFixture()
	games.err = errors.New("db down")
	svc := NewGameService(games, tags)

	_, err := svc.Search(context.Background(), "x", nil, domain.PaginationParams{PageSize: 10})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "search games")
}

func TestGameService_AddTag(t *testing.T) {
	ctx := context.Background()

	t.Run("adds and returns updated game", func(t *testing.T) {
		tags, games := catalogFixture()
		svc := NewGameService(games, tags)

		g, err := svc.AddTag(ctx, 3, 2)
		require.NoError(t, err)
		assert.True(t, g.HasTag(2))
	})

	t.Run("idempotent", func(t *testing.T) {
		tags, games := catalogFixture()
		svc := NewGameService(games, tags)

		g, err := svc.AddTag(ctx, 1, 1)
		require.NoError(t, err)
		assert.Equal(t, []int64{1}, g.TagIDs())
		assert.Equal(t, 0, games.addTagCalls)
	})

	t.Run("unknown game", func(t *testing.T) {
		tags, games := catalogFixture()
		_, err := NewGameService(games, tags).AddTag(ctx, 99, 1)
		var nf *domain.NotFoundError
		require.ErrorAs(t, err, &nf)
		assert.Equal(t, domain.KindGame, nf.Kind)
	})

	t.Run("unknown tag", func(t *testing.T) {
		tags, games := catalogFixture()
		_, err := NewGameService(games, tags).AddTag(ctx, 1, 99)
		var nf *domain.NotFoundError
		require.ErrorAs(t, err, &nf)
		assert.Equal(t, domain.KindTag, nf.Kind)
	})
}

func TestGameService_RemoveTag(t *testing.T) {
	ctx := context.Background()
	tags, games := catalogFixture()
	svc := NewGameService(games, tags)

	g, err := svc.RemoveTag(ctx, 2, 1)
	require.NoError(t, err)
	assert.Equal(t, []int64{2}, g.TagIDs())

	g, err = svc.RemoveTag(ctx, 2, 1)
	require.NoError(t, err)
	assert.Equal(t, []int64{2}, g.TagIDs())

	_, err = svc.RemoveTag(ctx, 2, 42)
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestGameService_Create(t *testing.T) {
	ctx := context.Background()
	price := decimal.RequireFromString("59.99")
	negative := decimal.RequireFromString("-1")

	tests := []struct {
		name    string
		game    *domain.Game
		tagIDs  []int64
		errIs   error
		wantTag []int64
	}{
		{name: "with tags", game: &domain.Game{Title: " Sekiro ", Price: &price}, tagIDs: []int64{2, 1, 2}, wantTag: []int64{1, 2}},
		{name: "without tags", game: &domain.Game{Title: "Tetris"}, wantTag: []int64{}},
		{name: "blank title", game: &domain.Game{Title: "  "}, errIs: domain.ErrInvalidArgument},
		{name: "negative price", game: &domain.Game{Title: "Cheap", Price: &negative}, errIs: domain.ErrInvalidArgument},
		{name: "unknown tag", game: &domain.Game{Title: "Lost"}, tagIDs: []int64{1, 77}, errIs: domain.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tags, games := catalogFixture()
			got, err := NewGameService(games, tags).Create(ctx, tt.game, tt.tagIDs)
			if tt.errIs != nil {
				require.ErrorIs(t, err, tt.errIs)
				assert.Len(t, games.byID, 3)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, int64(4), got.ID)
			assert.Equal(t, strings.TrimSpace(got.Title), got.Title)
			assert.Equal(t, tt.wantTag, got.TagIDs())
			assert.False(t, got.CreatedAt.IsZero())
		})
	}
}

func TestGameService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("replaces fields and tag set", func(t *testing.T) {
		tags, games := catalogFixture()
		svc := NewGameService(games, tags)

		got, err := svc.Update(ctx, 2, &domain.Game{Title: "Elden Ring: Nightreign"}, []int64{2})
		require.NoError(t, err)
		assert.Equal(t, int64(2), got.ID)
		assert.Equal(t, "Elden Ring: Nightreign", got.Title)
		assert.Equal(t, []int64{2}, got.TagIDs())
	})

	t.Run("unknown game", func(t *testing.T) {
		tags, games := catalogFixture()
		_, err := NewGameService(games, tags).Update(ctx, 99, &domain.Game{Title: "x"}, nil)
		require.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestGameService_Delete(t *testing.T) {
	tags, games := catalogFixture()
	svc := NewGameService(games, tags)

	require.NoError(t, svc.Delete(context.Background(), 1))
	_, err := svc.GetByID(context.Background(), 1)
	require.ErrorIs(t, err, domain.ErrNotFound)
}
