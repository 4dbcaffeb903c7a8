package handler

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"

	"flashdeck/internal/auth"
	"flashdeck/internal/candidate"
	"flashdeck/internal/flashcard"
	"flashdeck/internal/generation"
	"flashdeck/internal/middleware"
)

// maxCandidateSourceLen caps the source annotation stored when a candidate
// is accepted. The full source text can be much longer than the column is
// meant to hold, so it is truncated here.
const maxCandidateSourceLen = 500

// IdentityResolver maps an external auth-provider identity to an internal
// user id.
type IdentityResolver interface {
	Resolve(ctx context.Context, externalID string) (int64, error)
}

// AIHandler serves the AI flashcard generation and candidate review
// endpoints.
type AIHandler struct {
	resolver   IdentityResolver
	generator  *generation.Generator
	candidates candidate.Store
	svc        *flashcard.Service
}

// NewAIHandler creates a new AI generation handler.
func NewAIHandler(resolver IdentityResolver, generator *generation.Generator, candidates candidate.Store, svc *flashcard.Service) *AIHandler {
	return &AIHandler{
		resolver:   resolver,
		generator:  generator,
		candidates: candidates,
		svc:        svc,
	}
}

type generateRequest struct {
	SourceText string `json:"source_text" validate:"required"`
}

// candidateResponse is returned by Generate for the user to review.
type candidateResponse struct {
	CandidateID string    `json:"candidate_id"`
	Front       string    `json:"front"`
	Back        string    `json:"back"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// Generate handles POST /api/v1/ai/generate. It produces one flashcard
// candidate from the submitted source text and stores it for review; the
// candidate becomes a flashcard only when accepted.
func (h *AIHandler) Generate(w http.ResponseWriter, r *http.Request) {
	externalID := middleware.ExternalUserID(r.Context())
	if externalID == "" {
		auth.WriteUnauthorized(w)
		return
	}

	var req generateRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	card, err := h.generator.GenerateCard(r.Context(), req.SourceText)
	if err != nil {
		switch {
		case errors.Is(err, generation.ErrSourceTooShort),
			errors.Is(err, generation.ErrSourceTooLong):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, generation.ErrInvalidReply),
			errors.Is(err, generation.ErrReplyTooLong),
			errors.Is(err, generation.ErrEmptyResponse),
			errors.Is(err, generation.ErrUpstream):
			log.Printf("flashcard generation failed: %v", err)
			writeError(w, http.StatusBadGateway, "AI service failed to generate a flashcard")
		default:
			log.Printf("flashcard generation failed: %v", err)
			writeError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	userID, err := h.resolver.Resolve(r.Context(), externalID)
	if err != nil {
		log.Printf("failed to resolve user: %v", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	c := candidate.Candidate{
		ID:         uuid.NewString(),
		UserID:     userID,
		Front:      card.Front,
		Back:       card.Back,
		SourceText: req.SourceText,
		ExpiresAt:  time.Now().Add(candidate.DefaultTTL),
	}
	if err := h.candidates.Put(r.Context(), c); err != nil {
		log.Printf("failed to store candidate: %v", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusOK, candidateResponse{
		CandidateID: c.ID,
		Front:       c.Front,
		Back:        c.Back,
		ExpiresAt:   c.ExpiresAt,
	})
}

// AcceptCandidate handles POST /api/v1/ai/candidates/{id}/accept. The
// candidate is consumed and persisted as a proposal flashcard annotated with
// its (truncated) source text.
func (h *AIHandler) AcceptCandidate(w http.ResponseWriter, r *http.Request) {
	externalID := middleware.ExternalUserID(r.Context())
	if externalID == "" {
		auth.WriteUnauthorized(w)
		return
	}

	candidateID := r.PathValue("id")
	if candidateID == "" {
		writeError(w, http.StatusBadRequest, "Invalid candidate id")
		return
	}

	userID, err := h.resolver.Resolve(r.Context(), externalID)
	if err != nil {
		log.Printf("failed to resolve user: %v", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	c, err := h.candidates.Consume(r.Context(), userID, candidateID)
	if err != nil {
		if errors.Is(err, candidate.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Candidate not found or expired")
			return
		}
		log.Printf("failed to consume candidate %s: %v", candidateID, err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	source := truncate(c.SourceText, maxCandidateSourceLen)
	id, err := h.svc.Create(r.Context(), externalID, flashcard.CreateParams{
		Front:  c.Front,
		Back:   c.Back,
		Source: &source,
		Status: flashcard.StatusProposal,
	})
	if err != nil {
		log.Printf("failed to save accepted candidate %s: %v", candidateID, err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"flashcardId": id,
		"message":     "Flashcard created successfully",
	})
}

// DiscardCandidate handles DELETE /api/v1/ai/candidates/{id}.
func (h *AIHandler) DiscardCandidate(w http.ResponseWriter, r *http.Request) {
	externalID := middleware.ExternalUserID(r.Context())
	if externalID == "" {
		auth.WriteUnauthorized(w)
		return
	}

	candidateID := r.PathValue("id")
	if candidateID == "" {
		writeError(w, http.StatusBadRequest, "Invalid candidate id")
		return
	}

	userID, err := h.resolver.Resolve(r.Context(), externalID)
	if err != nil {
		log.Printf("failed to resolve user: %v", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	if err := h.candidates.Discard(r.Context(), userID, candidateID); err != nil {
		if errors.Is(err, candidate.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Candidate not found or expired")
			return
		}
		log.Printf("failed to discard candidate %s: %v", candidateID, err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Candidate discarded"})
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
