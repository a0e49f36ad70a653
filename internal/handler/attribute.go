package handler

import (
	"net/http"

	"github.com/recipebox/recipebox-api/internal/model"
	"github.com/recipebox/recipebox-api/internal/service"
)

// AttributeHandler serves the tag and ingredient collections.
type AttributeHandler struct {
	service *service.AttributeService
}

// NewAttributeHandler creates a new AttributeHandler.
func NewAttributeHandler(svc *service.AttributeService) *AttributeHandler {
	return &AttributeHandler{service: svc}
}

// HandleList handles GET /api/recipe/{tags,ingredients} requests.
func (h *AttributeHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	assignedOnly, err := service.ParseAssignedOnly(r.URL.Query().Get("assigned_only"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	attrs, err := h.service.List(r.Context(), userID, assignedOnly)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, model.NewAttributeResponses(attrs))
}

// HandleCreate handles POST /api/recipe/{tags,ingredients} requests.
func (h *AttributeHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	var req model.CreateAttributeRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	attr, err := h.service.Create(r.Context(), userID, req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, model.AttributeResponse{ID: attr.ID, Name: attr.Name})
}
