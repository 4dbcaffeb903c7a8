// Package handler wires HTTP routes to the flashcard, generation, and
// candidate services.
package handler

import (
	"net/http"

	"flashdeck/internal/candidate"
	"flashdeck/internal/config"
	"flashdeck/internal/flashcard"
	"flashdeck/internal/generation"
	"flashdeck/internal/middleware"
)

// Deps holds everything the HTTP layer needs.
type Deps struct {
	Config     *config.Config
	DB         Pinger
	Flashcards *flashcard.Service
	Resolver   IdentityResolver
	Generator  *generation.Generator
	Candidates candidate.Store
	Verifier   middleware.TokenVerifier
}

// RegisterRoutes registers all HTTP routes with the provided mux.
// Everything under /api/v1 except /api/v1/status requires a valid bearer
// token.
func RegisterRoutes(mux *http.ServeMux, deps Deps) {
	// Health and status endpoints (no auth required)
	mux.HandleFunc("GET /health", HealthCheck(deps.DB))
	mux.HandleFunc("GET /api/v1/status", statusHandler(deps.Config))

	requireUser := middleware.RequireUser(deps.Verifier)
	protected := func(h http.HandlerFunc) http.Handler {
		return requireUser(h)
	}

	fc := NewFlashcardsHandler(deps.Flashcards)
	mux.Handle("GET /api/v1/flashcards", protected(fc.List))
	mux.Handle("POST /api/v1/flashcards", protected(fc.Create))
	mux.Handle("GET /api/v1/flashcards/{id}", protected(fc.Get))
	mux.Handle("PUT /api/v1/flashcards/{id}", protected(fc.Update))
	mux.Handle("DELETE /api/v1/flashcards/{id}", protected(fc.Delete))
	mux.Handle("POST /api/v1/flashcards/{id}/approve", protected(fc.Approve))
	mux.Handle("POST /api/v1/flashcards/{id}/reject", protected(fc.Reject))

	ai := NewAIHandler(deps.Resolver, deps.Generator, deps.Candidates, deps.Flashcards)
	mux.Handle("POST /api/v1/ai/generate", protected(ai.Generate))
	mux.Handle("POST /api/v1/ai/candidates/{id}/accept", protected(ai.AcceptCandidate))
	mux.Handle("DELETE /api/v1/ai/candidates/{id}", protected(ai.DiscardCandidate))
}
