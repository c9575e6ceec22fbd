package controllers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/openlistings/backend/internal/dtos"
	"github.com/openlistings/backend/internal/services"
	"github.com/openlistings/backend/internal/utils"
)

type PropertyController struct {
	propertyService services.PropertyService
	listingService  services.ListingService
}

func NewPropertyController(propertyService services.PropertyService, listingService services.ListingService) *PropertyController {
	return &PropertyController{
		propertyService: propertyService,
		listingService:  listingService,
	}
}

var propertyValidate = validator.New()

// ----------------------------------------------------------------
// GET /api/v1/properties
// ----------------------------------------------------------------
func (c *PropertyController) SearchHandler(w http.ResponseWriter, r *http.Request) {
	resp, err := c.listingService.Search(r.Context(), actorFromRequest(r), r.URL.Query())
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, resp)
}

// ----------------------------------------------------------------
// GET /api/v1/properties/featured
// ----------------------------------------------------------------
func (c *PropertyController) FeaturedHandler(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	resp, err := c.listingService.Featured(r.Context(), actorFromRequest(r), limit)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, resp)
}

// ----------------------------------------------------------------
// GET /api/v1/properties/{id}
// ----------------------------------------------------------------
func (c *PropertyController) GetHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := propertyIDFromPath(w, r)
	if !ok {
		return
	}

	p, err := c.propertyService.Get(r.Context(), actorFromRequest(r), id)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.NewPropertyResponse(p))
}

// ----------------------------------------------------------------
// POST /api/v1/properties
// ----------------------------------------------------------------
func (c *PropertyController) CreateHandler(w http.ResponseWriter, r *http.Request) {
	var req dtos.CreatePropertyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid payload", nil, err)
		return
	}
	if err := propertyValidate.Struct(req); err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeValidation, "Validation failed", err.Error(), err)
		return
	}

	p, err := c.propertyService.Create(r.Context(), actorFromRequest(r), req)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, dtos.NewPropertyResponse(p))
}

// ----------------------------------------------------------------
// PUT /api/v1/properties/{id}
// ----------------------------------------------------------------
func (c *PropertyController) UpdateHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := propertyIDFromPath(w, r)
	if !ok {
		return
	}

	var req dtos.UpdatePropertyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid payload", nil, err)
		return
	}
	if err := propertyValidate.Struct(req); err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeValidation, "Validation failed", err.Error(), err)
		return
	}

	p, err := c.propertyService.Update(r.Context(), actorFromRequest(r), id, req)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.NewPropertyResponse(p))
}

// ----------------------------------------------------------------
// DELETE /api/v1/properties/{id}
// ----------------------------------------------------------------
func (c *PropertyController) DeleteHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := propertyIDFromPath(w, r)
	if !ok {
		return
	}

	if err := c.propertyService.Delete(r.Context(), actorFromRequest(r), id); err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.MessageResponse{Message: "property deleted"})
}

// ----------------------------------------------------------------
// GET /api/v1/properties/my
// ----------------------------------------------------------------
func (c *PropertyController) ListMyHandler(w http.ResponseWriter, r *http.Request) {
	props, err := c.propertyService.ListOwn(r.Context(), actorFromRequest(r))
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.NewPropertyResponses(props))
}

func propertyIDFromPath(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid property id", nil, err)
		return uuid.Nil, false
	}
	return id, true
}
