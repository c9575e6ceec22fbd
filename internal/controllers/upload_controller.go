package controllers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/openlistings/backend/internal/dtos"
	"github.com/openlistings/backend/internal/storage"
	"github.com/openlistings/backend/internal/utils"
)

const maxUploadMemory = 10 << 20

type UploadController struct {
	store storage.ImageStore
}

func NewUploadController(store storage.ImageStore) *UploadController {
	return &UploadController{store: store}
}

// ----------------------------------------------------------------
// POST /api/v1/uploads/images
// ----------------------------------------------------------------
func (c *UploadController) UploadImageHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Expected multipart form with an image field", nil, err)
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Missing image field", nil, err)
		return
	}
	defer file.Close()

	stored, err := c.store.Save(file, header)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, dtos.UploadImageResponse{
		URL:      stored.URL,
		PublicID: stored.PublicID,
	})
}

// ----------------------------------------------------------------
// DELETE /api/v1/uploads/images/{publicID}
// ----------------------------------------------------------------
func (c *UploadController) DeleteImageHandler(w http.ResponseWriter, r *http.Request) {
	publicID := mux.Vars(r)["publicID"]
	if err := c.store.Remove(publicID); err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.MessageResponse{Message: "image deleted"})
}
