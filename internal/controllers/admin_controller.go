package controllers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"

	"github.com/openlistings/backend/internal/dtos"
	"github.com/openlistings/backend/internal/models"
	"github.com/openlistings/backend/internal/repositories"
	"github.com/openlistings/backend/internal/services"
	"github.com/openlistings/backend/internal/utils"
)

// AdminController serves the moderation surface: the review queue, the
// publication decisions, featuring, and the dashboard counters.
type AdminController struct {
	publicationService services.PublicationService
	propertyService    services.PropertyService
	dashboardService   services.DashboardService
}

func NewAdminController(
	publicationService services.PublicationService,
	propertyService services.PropertyService,
	dashboardService services.DashboardService,
) *AdminController {
	return &AdminController{
		publicationService: publicationService,
		propertyService:    propertyService,
		dashboardService:   dashboardService,
	}
}

var adminValidate = validator.New()

// ----------------------------------------------------------------
// POST /api/v1/admin/properties/{id}/approve
// ----------------------------------------------------------------
func (c *AdminController) ApproveHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := propertyIDFromPath(w, r)
	if !ok {
		return
	}

	p, err := c.publicationService.Approve(r.Context(), actorFromRequest(r), id)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.NewPropertyResponse(p))
}

// ----------------------------------------------------------------
// POST /api/v1/admin/properties/{id}/reject
// ----------------------------------------------------------------
func (c *AdminController) RejectHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := propertyIDFromPath(w, r)
	if !ok {
		return
	}

	var req dtos.RejectPropertyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid payload", nil, err)
		return
	}
	if err := adminValidate.Struct(req); err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeValidation, "A non-empty reason is required", err.Error(), err)
		return
	}

	p, err := c.publicationService.Reject(r.Context(), actorFromRequest(r), id, req.Reason)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.NewPropertyResponse(p))
}

// ----------------------------------------------------------------
// POST /api/v1/admin/properties/{id}/unpublish
// ----------------------------------------------------------------
func (c *AdminController) UnpublishHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := propertyIDFromPath(w, r)
	if !ok {
		return
	}

	p, err := c.publicationService.Unpublish(r.Context(), actorFromRequest(r), id)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.NewPropertyResponse(p))
}

// ----------------------------------------------------------------
// POST /api/v1/admin/properties/{id}/feature
// POST /api/v1/admin/properties/{id}/unfeature
// ----------------------------------------------------------------
func (c *AdminController) FeatureHandler(w http.ResponseWriter, r *http.Request) {
	c.setFeatured(w, r, true)
}

func (c *AdminController) UnfeatureHandler(w http.ResponseWriter, r *http.Request) {
	c.setFeatured(w, r, false)
}

func (c *AdminController) setFeatured(w http.ResponseWriter, r *http.Request, featured bool) {
	id, ok := propertyIDFromPath(w, r)
	if !ok {
		return
	}

	p, err := c.propertyService.SetFeatured(r.Context(), actorFromRequest(r), id, featured)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.NewPropertyResponse(p))
}

// ----------------------------------------------------------------
// GET /api/v1/admin/properties/pending
// ----------------------------------------------------------------
func (c *AdminController) ListPendingHandler(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	perPage, _ := strconv.Atoi(r.URL.Query().Get("per_page"))

	result, err := c.publicationService.ListPending(r.Context(), actorFromRequest(r), page, perPage)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.PropertyListResponse{
		Properties:  dtos.NewPropertyResponses(result.Items),
		Total:       result.Total,
		CurrentPage: result.CurrentPage,
		TotalPages:  result.TotalPages,
	})
}

// ----------------------------------------------------------------
// GET /api/v1/admin/properties
// ----------------------------------------------------------------
func (c *AdminController) ListAllHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	f := repositories.PropertyFilter{
		Type:   q.Get("type"),
		City:   q.Get("city"),
		Search: q.Get("search"),
	}
	if status := q.Get("publication"); status != "" {
		parsed, err := models.ParsePublicationStatus(status)
		if err != nil {
			utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, err.Error(), nil, err)
			return
		}
		f.Publication = parsed
	}
	if page, err := strconv.Atoi(q.Get("page")); err == nil {
		f.Page = page
	}
	if perPage, err := strconv.Atoi(q.Get("per_page")); err == nil {
		f.PerPage = perPage
	}

	result, err := c.publicationService.ListAll(r.Context(), actorFromRequest(r), f)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.PropertyListResponse{
		Properties:  dtos.NewPropertyResponses(result.Items),
		Total:       result.Total,
		CurrentPage: result.CurrentPage,
		TotalPages:  result.TotalPages,
	})
}

// ----------------------------------------------------------------
// GET /api/v1/admin/dashboard
// ----------------------------------------------------------------
func (c *AdminController) DashboardHandler(w http.ResponseWriter, r *http.Request) {
	stats, err := c.dashboardService.Stats(r.Context(), actorFromRequest(r))
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, stats)
}
