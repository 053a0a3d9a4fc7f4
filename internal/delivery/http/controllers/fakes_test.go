package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"gamecatalog/internal/delivery/http/helpers"
	"gamecatalog/internal/delivery/http/middleware"
	"gamecatalog/internal/domain"
)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))

// fakeGameService implements domain.GameService for handler tests.
type fakeGameService struct {
	page       domain.Page[*domain.Game]
	game       *domain.Game
	err        error
	lastTitle  string
	lastTagID  *int64
	lastPage   domain.PaginationParams
	lastTagIDs []int64
	lastGame   *domain.Game
}

func (f *fakeGameService) Search(ctx context.Context, title string, tagID *int64, p domain.PaginationParams) (domain.Page[*domain.Game], error) {
	f.lastTitle, f.lastTagID, f.lastPage = title, tagID, p
	if f.err != nil {
		return domain.Page[*domain.Game]{}, f.err
	}
	return f.page, nil
}

func (f *fakeGameService) List(ctx context.Context, p domain.PaginationParams) (domain.Page[*domain.Game], error) {
	return f.Search(ctx, "", nil, p)
}

func (f *fakeGameService) GetByID(ctx context.Context, id int64) (*domain.Game, error) {
	return f.game, f.err
}

func (f *fakeGameService) ListByTagIDs(ctx context.Context, tagIDs []int64) ([]*domain.Game, error) {
	return nil, f.err
}

func (f *fakeGameService) Create(ctx context.Context, g *domain.Game, tagIDs []int64) (*domain.Game, error) {
	f.lastGame, f.lastTagIDs = g, tagIDs
	if f.err != nil {
		return nil, f.err
	}
	g.ID = 7
	return g, nil
}

func (f *fakeGameService) Update(ctx context.Context, id int64, g *domain.Game, tagIDs []int64) (*domain.Game, error) {
	f.lastGame, f.lastTagIDs = g, tagIDs
	if f.err != nil {
		return nil, f.err
	}
	g.ID = id
	return g, nil
}

func (f *fakeGameService) Delete(ctx context.Context, id int64) error { return f.err }

func (f *fakeGameService) AddTag(ctx context.Context, gameID, tagID int64) (*domain.Game, error) {
	return f.game, f.err
}

func (f *fakeGameService) RemoveTag(ctx context.Context, gameID, tagID int64) (*domain.Game, error) {
	return f.game, f.err
}

// fakeTagService implements domain.TagService for handler tests.
type fakeTagService struct {
	tags       []*domain.Tag
	err        error
	lastPrefix string
}

func (f *fakeTagService) Create(ctx context.Context, name string) (*domain.Tag, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &domain.Tag{ID: 9, Name: name}, nil
}

func (f *fakeTagService) GetByID(ctx context.Context, id int64) (*domain.Tag, error) {
	return nil, f.err
}

func (f *fakeTagService) List(ctx context.Context) ([]*domain.Tag, error) { return f.tags, f.err }

func (f *fakeTagService) FindByPrefix(ctx context.Context, prefix string) ([]*domain.Tag, error) {
	f.lastPrefix = prefix
	return f.tags, f.err
}

func (f *fakeTagService) Delete(ctx context.Context, id int64) error { return f.err }

// fakeFavoriteService implements domain.FavoriteService for handler tests.
type fakeFavoriteService struct {
	added        bool
	err          error
	games        []*domain.Game
	tags         []*domain.Tag
	lastUserID   int64
	lastTargetID int64
}

func (f *fakeFavoriteService) ToggleFavoriteGame(ctx context.Context, userID, gameID int64) (bool, error) {
	f.lastUserID, f.lastTargetID = userID, gameID
	return f.added, f.err
}

func (f *fakeFavoriteService) ToggleFavoriteTag(ctx context.Context, userID, tagID int64) (bool, error) {
	f.lastUserID, f.lastTargetID = userID, tagID
	return f.added, f.err
}

func (f *fakeFavoriteService) ListFavoriteGames(ctx context.Context, userID int64) ([]*domain.Game, error) {
	return f.games, f.err
}

func (f *fakeFavoriteService) ListFavoriteTags(ctx context.Context, userID int64) ([]*domain.Tag, error) {
	return f.tags, f.err
}

func (f *fakeFavoriteService) ListFavoriteTagIDs(ctx context.Context, userID int64) ([]int64, error) {
	return nil, f.err
}

type fakeRecommendationService struct {
	games []*domain.Game
	err   error
}

func (f *fakeRecommendationService) Recommend(ctx context.Context, userID int64) ([]*domain.Game, error) {
	return f.games, f.err
}

// fakeAuthService implements domain.AuthService for handler tests.
type fakeAuthService struct {
	token string
	user  *domain.User
	err   error
}

func (f *fakeAuthService) Register(ctx context.Context, username, password string) (string, *domain.User, error) {
	return f.token, f.user, f.err
}

func (f *fakeAuthService) Login(ctx context.Context, username, password string) (string, *domain.User, error) {
	return f.token, f.user, f.err
}

func (f *fakeAuthService) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	return f.user, f.err
}

func (f *fakeAuthService) PromoteToAdmin(ctx context.Context, username string) (*domain.User, error) {
	return f.user, f.err
}

// serve routes a single request through a ServeMux so path values are populated.
func serve(t *testing.T, pattern string, handler http.HandlerFunc, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc(pattern, handler)
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)
	return rr
}

func jsonRequest(t *testing.T, method, target string, body any) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	if s, ok := body.(string); ok {
		buf.WriteString(s)
	} else {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func withUser(req *http.Request, userID int64) *http.Request {
	return req.WithContext(middleware.SetPrincipal(req.Context(), &domain.Principal{UserID: userID, Username: "alice", Role: domain.RoleUser}))
}

// decodeEnvelope decodes the response envelope, unmarshalling data into dest when non-nil.
func decodeEnvelope(t *testing.T, rr *httptest.ResponseRecorder, dest any) *helpers.APIError {
	t.Helper()
	var raw struct {
		Data  json.RawMessage   `json:"data"`
		Error *helpers.APIError `json:"error"`
	}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&raw))
	if dest != nil && raw.Error == nil {
		require.NoError(t, json.Unmarshal(raw.Data, dest))
	}
	return raw.Error
}
