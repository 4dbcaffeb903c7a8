// Package generation turns free-form source text into flashcard candidates
// using an external AI text-completion service.
package generation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Source text and output limits for AI-generated candidates. These are the
// candidate limits; manually created flashcards have their own, larger caps
// at the HTTP layer.
const (
	MinSourceLen = 10
	MaxSourceLen = 10000
	MaxFrontLen  = 200
	MaxBackLen   = 500
)

// Generation errors.
var (
	ErrSourceTooShort = fmt.Errorf("source text must be at least %d characters long", MinSourceLen)
	ErrSourceTooLong  = fmt.Errorf("source text must be less than %d characters", MaxSourceLen)
	ErrInvalidReply   = errors.New("model generated an invalid flashcard")
	ErrReplyTooLong   = errors.New("generated flashcard content exceeds size limits")
)

// CompletionClient sends a prompt to the AI service and returns the reply.
type CompletionClient interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Card is a generated front/back pair.
type Card struct {
	Front string `json:"front"`
	Back  string `json:"back"`
}

// Generator builds flashcards from source text via a completion client.
type Generator struct {
	client CompletionClient
}

// NewGenerator creates a new flashcard generator.
func NewGenerator(client CompletionClient) *Generator {
	return &Generator{client: client}
}

const promptTemplate = `Create a single educational flashcard from the following text. Return ONLY a JSON object with "front" and "back" fields. The front should be a clear question or prompt, and the back should be a comprehensive but concise answer.

Text to create flashcard from:
%s

Return format:
{
  "front": "Question or prompt here",
  "back": "Answer or explanation here"
}`

// GenerateCard produces one flashcard from the given source text.
// The source is trimmed and length-checked before any request is made.
func (g *Generator) GenerateCard(ctx context.Context, sourceText string) (*Card, error) {
	sourceText = strings.TrimSpace(sourceText)
	if len(sourceText) < MinSourceLen {
		return nil, ErrSourceTooShort
	}
	if len(sourceText) > MaxSourceLen {
		return nil, ErrSourceTooLong
	}

	reply, err := g.client.Complete(ctx, fmt.Sprintf(promptTemplate, sourceText))
	if err != nil {
		return nil, err
	}

	card, err := parseCard(reply)
	if err != nil {
		return nil, err
	}

	if len(card.Front) > MaxFrontLen || len(card.Back) > MaxBackLen {
		return nil, ErrReplyTooLong
	}

	return card, nil
}

// codeFencePattern matches markdown code fences some models wrap JSON in.
var codeFencePattern = regexp.MustCompile("```json\\s*|\\s*```")

// parseCard extracts the front/back pair from a model reply.
func parseCard(reply string) (*Card, error) {
	cleaned := strings.TrimSpace(codeFencePattern.ReplaceAllString(reply, ""))

	var card Card
	if err := json.Unmarshal([]byte(cleaned), &card); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidReply, err)
	}

	card.Front = strings.TrimSpace(card.Front)
	card.Back = strings.TrimSpace(card.Back)

	if card.Front == "" || card.Back == "" {
		return nil, ErrInvalidReply
	}

	return &card, nil
}
