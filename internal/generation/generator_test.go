package generation

import (
	"context"
	"errors"
	"strings"
	"testing"
)

// fakeClient returns a canned reply or error.
type fakeClient struct {
	reply string
	err   error

	gotPrompt string
}

func (f *fakeClient) Complete(ctx context.Context, prompt string) (string, error) {
	f.gotPrompt = prompt
	return f.reply, f.err
}

const validSource = "The mitochondria is the powerhouse of the cell."

func TestGenerator_GenerateCard(t *testing.T) {
	client := &fakeClient{reply: `{"front": "What is the mitochondria?", "back": "The powerhouse of the cell."}`}
	g := NewGenerator(client)

	card, err := g.GenerateCard(context.Background(), validSource)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if card.Front != "What is the mitochondria?" {
		t.Errorf("unexpected front: %q", card.Front)
	}
	if card.Back != "The powerhouse of the cell." {
		t.Errorf("unexpected back: %q", card.Back)
	}
	if !strings.Contains(client.gotPrompt, validSource) {
		t.Error("expected prompt to contain the source text")
	}
}

func TestGenerator_GenerateCard_StripsCodeFences(t *testing.T) {
	client := &fakeClient{reply: "```json\n{\"front\": \"Q\", \"back\": \"A\"}\n```"}
	g := NewGenerator(client)

	card, err := g.GenerateCard(context.Background(), validSource)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if card.Front != "Q" || card.Back != "A" {
		t.Errorf("unexpected card: %+v", card)
	}
}

func TestGenerator_GenerateCard_SourceTooShort(t *testing.T) {
	g := NewGenerator(&fakeClient{})

	_, err := g.GenerateCard(context.Background(), "   short   ")
	if !errors.Is(err, ErrSourceTooShort) {
		t.Errorf("expected ErrSourceTooShort, got %v", err)
	}
}

func TestGenerator_GenerateCard_SourceTooLong(t *testing.T) {
	g := NewGenerator(&fakeClient{})

	_, err := g.GenerateCard(context.Background(), strings.Repeat("a", MaxSourceLen+1))
	if !errors.Is(err, ErrSourceTooLong) {
		t.Errorf("expected ErrSourceTooLong, got %v", err)
	}
}

func TestGenerator_GenerateCard_InvalidJSON(t *testing.T) {
	g := NewGenerator(&fakeClient{reply: "here is your flashcard!"})

	_, err := g.GenerateCard(context.Background(), validSource)
	if !errors.Is(err, ErrInvalidReply) {
		t.Errorf("expected ErrInvalidReply, got %v", err)
	}
}

func TestGenerator_GenerateCard_MissingFields(t *testing.T) {
	g := NewGenerator(&fakeClient{reply: `{"front": "Q"}`})

	_, err := g.GenerateCard(context.Background(), validSource)
	if !errors.Is(err, ErrInvalidReply) {
		t.Errorf("expected ErrInvalidReply, got %v", err)
	}
}

func TestGenerator_GenerateCard_ReplyTooLong(t *testing.T) {
	long := strings.Repeat("x", MaxBackLen+1)
	g := NewGenerator(&fakeClient{reply: `{"front": "Q", "back": "` + long + `"}`})

	_, err := g.GenerateCard(context.Background(), validSource)
	if !errors.Is(err, ErrReplyTooLong) {
		t.Errorf("expected ErrReplyTooLong, got %v", err)
	}
}

func TestGenerator_GenerateCard_ClientErrorPropagates(t *testing.T) {
	upstreamErr := errors.New("upstream down")
	g := NewGenerator(&fakeClient{err: upstreamErr})

	_, err := g.GenerateCard(context.Background(), validSource)
	if !errors.Is(err, upstreamErr) {
		t.Errorf("expected client error to propagate, got %v", err)
	}
}
