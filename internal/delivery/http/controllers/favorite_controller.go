package controllers

import (
	"context"
	"log/slog"
	"net/http"

	h "gamecatalog/internal/delivery/http/helpers"
	"gamecatalog/internal/delivery/http/middleware"
	"gamecatalog/internal/domain"
)

// ToggleResponse reports the membership state after a favorite toggle.
type ToggleResponse struct {
	TargetID   int64 `json:"target_id"`
	IsFavorite bool  `json:"is_favorite"`
}

// ToggleSuccessResponse is the success envelope for favorite toggles.
type ToggleSuccessResponse struct {
	Data  ToggleResponse `json:"data"`
	Error *h.APIError    `json:"error"`
}

// GameListSuccessResponse is the success envelope for unpaged game lists.
type GameListSuccessResponse struct {
	Data  []*domain.Game `json:"data"`
	Error *h.APIError    `json:"error"`
}

// FavoriteController serves the signed-in user's favorites and recommendations.
type FavoriteController struct {
	Logger      *slog.Logger
	Favorites   domain.FavoriteService
	Recommender domain.RecommendationService
}

func NewFavoriteController(logger *slog.Logger, favorites domain.FavoriteService, recommendations domain.RecommendationService) *FavoriteController {
	return &FavoriteController{
		Logger:      logger,
		Favorites:   favorites,
		Recommender: recommendations,
	}
}

// ToggleGame godoc
// @Summary Toggle a favorite game
// @Description Adds the game to the user's favorites if absent, removes it if present.
// @Tags favorites
// @Produce json
// @Security BearerAuth
// @Param gameId path int true "Game id"
// @Success 200 {object} controllers.ToggleSuccessResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Router /api/user/favorites/game/{gameId} [post]
func (c *FavoriteController) ToggleGame(w http.ResponseWriter, r *http.Request) {
	c.toggle(w, r, "gameId", c.Favorites.ToggleFavoriteGame)
}

// ToggleTag godoc
// @Summary Toggle a favorite tag
// @Description Adds the tag to the user's favorites if absent, removes it if present.
// @Tags favorites
// @Produce json
// @Security BearerAuth
// @Param tagId path int true "Tag id"
// @Success 200 {object} controllers.ToggleSuccessResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Router /api/user/favorites/tag/{tagId} [post]
func (c *FavoriteController) ToggleTag(w http.ResponseWriter, r *http.Request) {
	c.toggle(w, r, "tagId", c.Favorites.ToggleFavoriteTag)
}

func (c *FavoriteController) toggle(w http.ResponseWriter, r *http.Request, param string,
	fn func(ctx context.Context, userID, targetID int64) (bool, error)) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
		return
	}
	targetID, err := h.PathID(r, param)
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	added, err := fn(r.Context(), userID, targetID)
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, ToggleResponse{TargetID: targetID, IsFavorite: added})
}

// ListGames godoc
// @Summary List favorite games
// @Tags favorites
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.GameListSuccessResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Router /api/user/favorites/games [get]
func (c *FavoriteController) ListGames(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
		return
	}
	games, err := c.Favorites.ListFavoriteGames(r.Context(), userID)
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, games)
}

// ListTags godoc
// @Summary List favorite tags
// @Tags favorites
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.TagListSuccessResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Router /api/user/favorites/tags [get]
func (c *FavoriteController) ListTags(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
		return
	}
	tags, err := c.Favorites.ListFavoriteTags(r.Context(), userID)
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, tags)
}

// Recommendations godoc
// @Summary Recommended games
// @Description Every game carrying at least one of the user's favorite tags, each once, ordered by id.
// @Tags favorites
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.GameListSuccessResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Router /api/user/favorites/recommendations [get]
func (c *FavoriteController) Recommendations(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
		return
	}
	games, err := c.Recommender.Recommend(r.Context(), userID)
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, games)
}
