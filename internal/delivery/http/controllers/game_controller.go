package controllers

import (
	"log/slog"
	"net/http"
	"strings"

	h "gamecatalog/internal/delivery/http/helpers"
	"gamecatalog/internal/domain"
)

// Default page sizes of the public listing endpoints.
const (
	defaultListPageSize   = 30
	defaultSearchPageSize = 10
)

// GamePageSuccessResponse is the success envelope for paged game listings.
type GamePageSuccessResponse struct {
	Data  domain.Page[*domain.Game] `json:"data"`
	Error *h.APIError               `json:"error"`
}

// GameSuccessResponse is the success envelope for endpoints returning one game.
type GameSuccessResponse struct {
	Data  *domain.Game `json:"data"`
	Error *h.APIError  `json:"error"`
}

// TagListSuccessResponse is the success envelope for endpoints returning tags.
type TagListSuccessResponse struct {
	Data  []*domain.Tag `json:"data"`
	Error *h.APIError   `json:"error"`
}

// GameController serves the public catalog: listing, search, tag lookup and the tag links of games.
type GameController struct {
	Logger *slog.Logger
	Games  domain.GameService
	Tags   domain.TagService
}

func NewGameController(logger *slog.Logger, games domain.GameService, tags domain.TagService) *GameController {
	return &GameController{
		Logger: logger,
		Games:  games,
		Tags:   tags,
	}
}

// List godoc
// @Summary List games
// @Description Unfiltered catalog listing ordered by id. Page is 0-based.
// @Tags games
// @Produce json
// @Param page query int false "Page (0-based)" default(0)
// @Param size query int false "Page size" default(30)
// @Success 200 {object} controllers.GamePageSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Router /api/games [get]
func (c *GameController) List(w http.ResponseWriter, r *http.Request) {
	p, err := h.ParsePagination(r, defaultListPageSize)
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	page, err := c.Games.List(r.Context(), p)
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, page)
}

// Search godoc
// @Summary Search games
// @Description Filters by case-insensitive title substring and/or tag id. Both filters together must both match.
// @Tags games
// @Produce json
// @Param title query string false "Title substring"
// @Param tagId query int false "Tag id"
// @Param page query int false "Page (0-based)" default(0)
// @Param size query int false "Page size" default(10)
// @Success 200 {object} controllers.GamePageSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Router /api/games/search [get]
func (c *GameController) Search(w http.ResponseWriter, r *http.Request) {
	p, err := h.ParsePagination(r, defaultSearchPageSize)
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	tagID, err := h.OptionalQueryID(r, "tagId")
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	page, err := c.Games.Search(r.Context(), r.URL.Query().Get("title"), tagID, p)
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, page)
}

// GetByID godoc
// @Summary Get a game
// @Tags games
// @Produce json
// @Param id path int true "Game id"
// @Success 200 {object} controllers.GameSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /api/games/{id} [get]
func (c *GameController) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := h.PathID(r, "id")
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	game, err := c.Games.GetByID(r.Context(), id)
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, game)
}

// ListTags godoc
// @Summary List all tags
// @Tags tags
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.TagListSuccessResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Router /api/games/tags [get]
func (c *GameController) ListTags(w http.ResponseWriter, r *http.Request) {
	tags, err := c.Tags.List(r.Context())
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, tags)
}

// SearchTags godoc
// @Summary Find tags by name prefix
// @Description Case-insensitive prefix match ordered by name. An empty prefix returns every tag.
// @Tags tags
// @Produce json
// @Param prefix query string false "Name prefix"
// @Success 200 {object} controllers.TagListSuccessResponse
// @Router /api/games/tags/search [get]
func (c *GameController) SearchTags(w http.ResponseWriter, r *http.Request) {
	tags, err := c.Tags.FindByPrefix(r.Context(), strings.TrimSpace(r.URL.Query().Get("prefix")))
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, tags)
}

// AddTag godoc
// @Summary Attach a tag to a game
// @Description Idempotent. Returns the updated game.
// @Tags games
// @Produce json
// @Security BearerAuth
// @Param gameId path int true "Game id"
// @Param tagId path int true "Tag id"
// @Success 200 {object} controllers.GameSuccessResponse
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /api/games/{gameId}/tags/{tagId} [post]
func (c *GameController) AddTag(w http.ResponseWriter, r *http.Request) {
	gameID, tagID, ok := c.gameTagIDs(w, r)
	if !ok {
		return
	}
	game, err := c.Games.AddTag(r.Context(), gameID, tagID)
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, game)
}

// RemoveTag godoc
// @Summary Detach a tag from a game
// @Description Idempotent. Returns the updated game.
// @Tags games
// @Produce json
// @Security BearerAuth
// @Param gameId path int true "Game id"
// @Param tagId path int true "Tag id"
// @Success 200 {object} controllers.GameSuccessResponse
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /api/games/{gameId}/tags/{tagId} [delete]
func (c *GameController) RemoveTag(w http.ResponseWriter, r *http.Request) {
	gameID, tagID, ok := c.gameTagIDs(w, r)
	if !ok {
		return
	}
	game, err := c.Games.RemoveTag(r.Context(), gameID, tagID)
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, game)
}

func (c *GameController) gameTagIDs(w http.ResponseWriter, r *http.Request) (int64, int64, bool) {
	gameID, err := h.PathID(r, "gameId")
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return 0, 0, false
	}
	tagID, err := h.PathID(r, "tagId")
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return 0, 0, false
	}
	return gameID, tagID, true
}
