package handler

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"flashdeck/internal/auth"
	"flashdeck/internal/flashcard"
	"flashdeck/internal/middleware"
)

// FlashcardsHandler serves the flashcard CRUD endpoints.
type FlashcardsHandler struct {
	svc *flashcard.Service
}

// NewFlashcardsHandler creates a new flashcards handler.
func NewFlashcardsHandler(svc *flashcard.Service) *FlashcardsHandler {
	return &FlashcardsHandler{svc: svc}
}

// maxPageLimit caps the page size a caller may request.
const maxPageLimit = 100

// listQuery holds the parsed and validated query parameters for List.
// Fields left at zero fall back to the service defaults.
type listQuery struct {
	Page  int
	Limit int
	Sort  string `validate:"omitempty,oneof=created_at front"`
	Order string `validate:"omitempty,oneof=asc desc"`
}

type createFlashcardRequest struct {
	Front  string  `json:"front" validate:"required,max=1000"`
	Back   string  `json:"back" validate:"required,max=1000"`
	Source *string `json:"source" validate:"omitempty,max=500"`
	Status string  `json:"status" validate:"omitempty,oneof=proposal approved"`
}

type updateFlashcardRequest struct {
	Front *string `json:"front" validate:"omitempty,min=1,max=1000"`
	Back  *string `json:"back" validate:"omitempty,min=1,max=1000"`
}

// parseListQuery parses pagination and sorting parameters from the URL.
func parseListQuery(r *http.Request) (listQuery, error) {
	q := r.URL.Query()
	var lq listQuery

	if raw := q.Get("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 1 {
			return lq, errors.New("page must be a positive integer")
		}
		lq.Page = page
	}
	if raw := q.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 || limit > maxPageLimit {
			return lq, fmt.Errorf("limit must be between 1 and %d", maxPageLimit)
		}
		lq.Limit = limit
	}
	lq.Sort = q.Get("sort")
	lq.Order = q.Get("order")

	if err := validate.Struct(lq); err != nil {
		return lq, err
	}
	return lq, nil
}

// List handles GET /api/v1/flashcards.
//
// Query parameters: page (>=1), limit (1-100), sort (created_at|front),
// order (asc|desc). All optional.
func (h *FlashcardsHandler) List(w http.ResponseWriter, r *http.Request) {
	externalID := middleware.ExternalUserID(r.Context())
	if externalID == "" {
		auth.WriteUnauthorized(w)
		return
	}

	lq, err := parseListQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid query parameters")
		return
	}

	page, err := h.svc.List(r.Context(), externalID, flashcard.ListParams{
		Page:  lq.Page,
		Limit: lq.Limit,
		Sort:  lq.Sort,
		Order: lq.Order,
	})
	if err != nil {
		log.Printf("failed to list flashcards: %v", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusOK, page)
}

// Get handles GET /api/v1/flashcards/{id}.
func (h *FlashcardsHandler) Get(w http.ResponseWriter, r *http.Request) {
	externalID := middleware.ExternalUserID(r.Context())
	if externalID == "" {
		auth.WriteUnauthorized(w)
		return
	}

	id, err := parseID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid flashcard id")
		return
	}

	card, err := h.svc.GetByID(r.Context(), externalID, id)
	if err != nil {
		if errors.Is(err, flashcard.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Flashcard not found")
			return
		}
		log.Printf("failed to get flashcard %d: %v", id, err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusOK, card)
}

// Create handles POST /api/v1/flashcards.
func (h *FlashcardsHandler) Create(w http.ResponseWriter, r *http.Request) {
	externalID := middleware.ExternalUserID(r.Context())
	if externalID == "" {
		auth.WriteUnauthorized(w)
		return
	}

	var req createFlashcardRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	id, err := h.svc.Create(r.Context(), externalID, flashcard.CreateParams{
		Front:  req.Front,
		Back:   req.Back,
		Source: req.Source,
		Status: req.Status,
	})
	if err != nil {
		log.Printf("failed to create flashcard: %v", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"flashcardId": id,
		"message":     "Flashcard created successfully",
	})
}

// Update handles PUT /api/v1/flashcards/{id}. At least one of front/back
// must be present.
func (h *FlashcardsHandler) Update(w http.ResponseWriter, r *http.Request) {
	externalID := middleware.ExternalUserID(r.Context())
	if externalID == "" {
		auth.WriteUnauthorized(w)
		return
	}

	id, err := parseID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid flashcard id")
		return
	}

	var req updateFlashcardRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Front == nil && req.Back == nil {
		writeError(w, http.StatusBadRequest, "At least one of front or back is required")
		return
	}

	err = h.svc.Update(r.Context(), externalID, id, flashcard.UpdateParams{
		Front: req.Front,
		Back:  req.Back,
	})
	if err != nil {
		if errors.Is(err, flashcard.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Flashcard not found")
			return
		}
		log.Printf("failed to update flashcard %d: %v", id, err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Flashcard updated successfully"})
}

// Approve handles POST /api/v1/flashcards/{id}/approve.
func (h *FlashcardsHandler) Approve(w http.ResponseWriter, r *http.Request) {
	externalID := middleware.ExternalUserID(r.Context())
	if externalID == "" {
		auth.WriteUnauthorized(w)
		return
	}

	id, err := parseID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid flashcard id")
		return
	}

	if err := h.svc.Approve(r.Context(), externalID, id); err != nil {
		if errors.Is(err, flashcard.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Flashcard not found")
			return
		}
		log.Printf("failed to approve flashcard %d: %v", id, err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Flashcard approved successfully"})
}

// Reject handles POST /api/v1/flashcards/{id}/reject. Rejecting deletes the
// card.
func (h *FlashcardsHandler) Reject(w http.ResponseWriter, r *http.Request) {
	externalID := middleware.ExternalUserID(r.Context())
	if externalID == "" {
		auth.WriteUnauthorized(w)
		return
	}

	id, err := parseID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid flashcard id")
		return
	}

	if err := h.svc.Reject(r.Context(), externalID, id); err != nil {
		if errors.Is(err, flashcard.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Flashcard not found")
			return
		}
		log.Printf("failed to reject flashcard %d: %v", id, err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Flashcard rejected and deleted"})
}

// Delete handles DELETE /api/v1/flashcards/{id}.
func (h *FlashcardsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	externalID := middleware.ExternalUserID(r.Context())
	if externalID == "" {
		auth.WriteUnauthorized(w)
		return
	}

	id, err := parseID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid flashcard id")
		return
	}

	if err := h.svc.Delete(r.Context(), externalID, id); err != nil {
		if errors.Is(err, flashcard.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Flashcard not found")
			return
		}
		log.Printf("failed to delete flashcard %d: %v", id, err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Flashcard deleted successfully"})
}
