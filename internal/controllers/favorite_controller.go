package controllers

import (
	"net/http"

	"github.com/openlistings/backend/internal/dtos"
	"github.com/openlistings/backend/internal/services"
	"github.com/openlistings/backend/internal/utils"
)

type FavoriteController struct {
	favoriteService services.FavoriteService
}

func NewFavoriteController(favoriteService services.FavoriteService) *FavoriteController {
	return &FavoriteController{favoriteService: favoriteService}
}

// ----------------------------------------------------------------
// POST /api/v1/favorites/{id}
// ----------------------------------------------------------------
func (c *FavoriteController) AddHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := propertyIDFromPath(w, r)
	if !ok {
		return
	}

	if err := c.favoriteService.Add(r.Context(), actorFromRequest(r), id); err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.FavoriteResponse{PropertyID: id.String(), Favorited: true})
}

// ----------------------------------------------------------------
// DELETE /api/v1/favorites/{id}
// ----------------------------------------------------------------
func (c *FavoriteController) RemoveHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := propertyIDFromPath(w, r)
	if !ok {
		return
	}

	if err := c.favoriteService.Remove(r.Context(), actorFromRequest(r), id); err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.FavoriteResponse{PropertyID: id.String(), Favorited: false})
}

// ----------------------------------------------------------------
// GET /api/v1/favorites
// ----------------------------------------------------------------
func (c *FavoriteController) ListHandler(w http.ResponseWriter, r *http.Request) {
	items, err := c.favoriteService.List(r.Context(), actorFromRequest(r), r.URL.Query().Get("search"))
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, items)
}

// ----------------------------------------------------------------
// GET /api/v1/favorites/ids
// ----------------------------------------------------------------
func (c *FavoriteController) ListIDsHandler(w http.ResponseWriter, r *http.Request) {
	ids, err := c.favoriteService.IDs(r.Context(), actorFromRequest(r))
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, ids)
}
