package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/openlistings/backend/internal/dtos"
	"github.com/openlistings/backend/internal/services"
	"github.com/openlistings/backend/internal/utils"
)

type InquiryController struct {
	inquiryService services.InquiryService
}

func NewInquiryController(inquiryService services.InquiryService) *InquiryController {
	return &InquiryController{inquiryService: inquiryService}
}

var inquiryValidate = validator.New()

// ----------------------------------------------------------------
// POST /api/v1/inquiries
// ----------------------------------------------------------------
func (c *InquiryController) CreateHandler(w http.ResponseWriter, r *http.Request) {
	var req dtos.CreateInquiryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid payload", nil, err)
		return
	}
	if err := inquiryValidate.Struct(req); err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeValidation, "Validation failed", err.Error(), err)
		return
	}

	q, err := c.inquiryService.Create(r.Context(), actorFromRequest(r), req)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, dtos.NewInquiryResponse(q))
}

// ----------------------------------------------------------------
// GET /api/v1/inquiries/my
// ----------------------------------------------------------------
func (c *InquiryController) ListMyHandler(w http.ResponseWriter, r *http.Request) {
	items, err := c.inquiryService.ListOwn(r.Context(), actorFromRequest(r))
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.NewInquiryResponses(items))
}

// ----------------------------------------------------------------
// GET /api/v1/admin/inquiries
// ----------------------------------------------------------------
func (c *InquiryController) ListAllHandler(w http.ResponseWriter, r *http.Request) {
	items, err := c.inquiryService.ListAll(r.Context(), actorFromRequest(r), r.URL.Query().Get("status"))
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.NewInquiryResponses(items))
}

// ----------------------------------------------------------------
// PUT /api/v1/admin/inquiries/{id}/status
// ----------------------------------------------------------------
func (c *InquiryController) UpdateStatusHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := inquiryIDFromPath(w, r)
	if !ok {
		return
	}

	var req dtos.UpdateInquiryStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid payload", nil, err)
		return
	}
	if err := inquiryValidate.Struct(req); err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeValidation, "Validation failed", err.Error(), err)
		return
	}

	q, err := c.inquiryService.UpdateStatus(r.Context(), actorFromRequest(r), id, req.Status)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.NewInquiryResponse(q))
}

// ----------------------------------------------------------------
// DELETE /api/v1/inquiries/{id}
// ----------------------------------------------------------------
func (c *InquiryController) DeleteHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := inquiryIDFromPath(w, r)
	if !ok {
		return
	}

	if err := c.inquiryService.Delete(r.Context(), actorFromRequest(r), id); err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.MessageResponse{Message: "inquiry deleted"})
}

func inquiryIDFromPath(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid inquiry id", nil, err)
		return uuid.Nil, false
	}
	return id, true
}
