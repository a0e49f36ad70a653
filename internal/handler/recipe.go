package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/recipebox/recipebox-api/internal/model"
	"github.com/recipebox/recipebox-api/internal/service"
	"github.com/recipebox/recipebox-api/internal/validation"
)

// multipartOverhead leaves room for boundaries and headers around the image part.
const multipartOverhead = 1 << 20

// RecipeHandler serves the caller's recipes and their images.
type RecipeHandler struct {
	service        *service.RecipeService
	uploadMaxBytes int64
}

// NewRecipeHandler creates a new RecipeHandler. uploadMaxBytes caps the
// size of an uploaded image.
func NewRecipeHandler(svc *service.RecipeService, uploadMaxBytes int64) *RecipeHandler {
	return &RecipeHandler{service: svc, uploadMaxBytes: uploadMaxBytes}
}

// HandleList handles GET /api/recipe/recipes requests.
func (h *RecipeHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	filter, err := service.ParseRecipeFilter(q.Get("tags"), q.Get("ingredients"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	recipes, err := h.service.List(r.Context(), userID, filter)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, model.NewRecipeResponses(recipes, h.service.ImageURL))
}

// HandleCreate handles POST /api/recipe/recipes requests.
func (h *RecipeHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	var req model.RecipeRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	detail, err := h.service.Create(r.Context(), userID, req)
	if err != nil {
		h.writeRecipeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, model.NewRecipeResponse(detail.Recipe, h.service.ImageURL))
}

// HandleGet handles GET /api/recipe/recipes/{id} requests.
func (h *RecipeHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	detail, err := h.service.Get(r.Context(), userID, id)
	if err != nil {
		h.writeRecipeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, model.NewRecipeDetailResponse(*detail, h.service.ImageURL))
}

// HandleUpdate handles PUT and PATCH /api/recipe/recipes/{id} requests.
func (h *RecipeHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req model.RecipeRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	detail, err := h.service.Update(r.Context(), userID, id, req, r.Method == http.MethodPatch)
	if err != nil {
		h.writeRecipeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, model.NewRecipeResponse(detail.Recipe, h.service.ImageURL))
}

// HandleDelete handles DELETE /api/recipe/recipes/{id} requests.
func (h *RecipeHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), userID, id); err != nil {
		h.writeRecipeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleUploadImage handles POST /api/recipe/recipes/{id}/upload-image requests.
// The image arrives as the "image" part of a multipart form.
func (h *RecipeHandler) HandleUploadImage(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.uploadMaxBytes+multipartOverhead)
	if err := r.ParseMultipartForm(h.uploadMaxBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse("request body too large"))
			return
		}
		writeError(w, r, validation.Field("image", "no file was submitted", nil))
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("image")
	if err != nil {
		writeError(w, r, validation.Field("image", "no file was submitted", nil))
		return
	}
	defer file.Close()

	if header.Size > h.uploadMaxBytes {
		writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse("image too large"))
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if len(data) == 0 {
		writeError(w, r, validation.Field("image", "the submitted file is empty", nil))
		return
	}

	rec, err := h.service.UploadImage(r.Context(), userID, id, header.Filename, data)
	if err != nil {
		h.writeRecipeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, model.RecipeImageResponse{
		ID:       rec.ID,
		ImageURL: h.service.ImageURL(rec.Image),
	})
}

func (h *RecipeHandler) writeRecipeError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, service.ErrRecipeNotFound) {
		writeJSON(w, http.StatusNotFound, errorResponse("not found"))
		return
	}
	writeError(w, r, err)
}
