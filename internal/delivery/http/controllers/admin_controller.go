package controllers

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	h "gamecatalog/internal/delivery/http/helpers"
	"gamecatalog/internal/domain"
)

const releaseDateLayout = "2006-01-02"

// GameRequest is the request body for creating or replacing a game.
type GameRequest struct {
	Title               string           `json:"title" validate:"required,max=255"`
	Description         string           `json:"description"`
	Story               string           `json:"story"`
	ReleaseDate         string           `json:"release_date" validate:"omitempty,datetime=2006-01-02"`
	Price               *decimal.Decimal `json:"price" swaggertype:"string" example:"59.99"`
	ImageURL            string           `json:"image_url" validate:"omitempty,url"`
	VideoURL            string           `json:"video_url" validate:"omitempty,url"`
	SteamLink           string           `json:"steam_link" validate:"omitempty,url"`
	AdditionalImageURLs []string         `json:"additional_image_urls" validate:"omitempty,dive,url"`
	AdditionalVideoURLs []string         `json:"additional_video_urls" validate:"omitempty,dive,url"`
	TagIDs              []int64          `json:"tag_ids" validate:"omitempty,dive,gt=0"`
}

// toDomain converts the request into a Game. ReleaseDate was checked by the validator.
func (req GameRequest) toDomain() *domain.Game {
	g := &domain.Game{
		Title:               strings.TrimSpace(req.Title),
		Description:         req.Description,
		Story:               req.Story,
		Price:               req.Price,
		ImageURL:            req.ImageURL,
		VideoURL:            req.VideoURL,
		SteamLink:           req.SteamLink,
		AdditionalImageURLs: req.AdditionalImageURLs,
		AdditionalVideoURLs: req.AdditionalVideoURLs,
	}
	if req.ReleaseDate != "" {
		if d, err := time.Parse(releaseDateLayout, req.ReleaseDate); err == nil {
			g.ReleaseDate = &d
		}
	}
	return g
}

// TagRequest is the request body for POST /api/admin/tags.
type TagRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}

// TagSuccessResponse is the success envelope for endpoints returning one tag.
type TagSuccessResponse struct {
	Data  *domain.Tag `json:"data"`
	Error *h.APIError `json:"error"`
}

// AdminController serves catalog and user administration.
type AdminController struct {
	Logger *slog.Logger
	Games  domain.GameService
	Tags   domain.TagService
	Auth   domain.AuthService
}

func NewAdminController(logger *slog.Logger, games domain.GameService, tags domain.TagService, auth domain.AuthService) *AdminController {
	return &AdminController{
		Logger: logger,
		Games:  games,
		Tags:   tags,
		Auth:   auth,
	}
}

// CreateGame godoc
// @Summary Create a game
// @Description Tags are referenced by id and must exist.
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body GameRequest true "Game"
// @Success 201 {object} controllers.GameSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /api/admin/games [post]
func (c *AdminController) CreateGame(w http.ResponseWriter, r *http.Request) {
	var req GameRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	game, err := c.Games.Create(r.Context(), req.toDomain(), req.TagIDs)
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusCreated, game)
}

// UpdateGame godoc
// @Summary Replace a game
// @Description Replaces scalar fields, media lists and the tag set.
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Game id"
// @Param body body GameRequest true "Game"
// @Success 200 {object} controllers.GameSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /api/admin/games/{id} [put]
func (c *AdminController) UpdateGame(w http.ResponseWriter, r *http.Request) {
	id, err := h.PathID(r, "id")
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	var req GameRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	game, err := c.Games.Update(r.Context(), id, req.toDomain(), req.TagIDs)
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, game)
}

// DeleteGame godoc
// @Summary Delete a game
// @Tags admin
// @Security BearerAuth
// @Param id path int true "Game id"
// @Success 204
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /api/admin/games/{id} [delete]
func (c *AdminController) DeleteGame(w http.ResponseWriter, r *http.Request) {
	id, err := h.PathID(r, "id")
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	if err := c.Games.Delete(r.Context(), id); err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteNoContent(w)
}

// CreateTag godoc
// @Summary Create a tag
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body TagRequest true "Tag"
// @Success 201 {object} controllers.TagSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Router /api/admin/tags [post]
func (c *AdminController) CreateTag(w http.ResponseWriter, r *http.Request) {
	var req TagRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	tag, err := c.Tags.Create(r.Context(), req.Name)
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusCreated, tag)
}

// ListTags godoc
// @Summary List tags
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.TagListSuccessResponse
// @Router /api/admin/tags [get]
func (c *AdminController) ListTags(w http.ResponseWriter, r *http.Request) {
	tags, err := c.Tags.List(r.Context())
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, tags)
}

// SearchTags godoc
// @Summary Find tags by name prefix
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param prefix query string false "Name prefix"
// @Success 200 {object} controllers.TagListSuccessResponse
// @Router /api/admin/tags/search [get]
func (c *AdminController) SearchTags(w http.ResponseWriter, r *http.Request) {
	tags, err := c.Tags.FindByPrefix(r.Context(), r.URL.Query().Get("prefix"))
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, tags)
}

// DeleteTag godoc
// @Summary Delete a tag
// @Description Also removes the tag from every game and from every user's favorites.
// @Tags admin
// @Security BearerAuth
// @Param id path int true "Tag id"
// @Success 204
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /api/admin/tags/{id} [delete]
func (c *AdminController) DeleteTag(w http.ResponseWriter, r *http.Request) {
	id, err := h.PathID(r, "id")
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	if err := c.Tags.Delete(r.Context(), id); err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteNoContent(w)
}

// PromoteUser godoc
// @Summary Grant the ADMIN role
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param username path string true "Username"
// @Success 200 {object} controllers.UserSuccessResponse
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /api/admin/users/{username}/role [put]
func (c *AdminController) PromoteUser(w http.ResponseWriter, r *http.Request) {
	user, err := c.Auth.PromoteToAdmin(r.Context(), r.PathValue("username"))
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, user)
}
