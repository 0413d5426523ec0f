package chat

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/eleven-am/gallery-backend/internal/shared"
)

func TestRetrievalDecision_Yes(t *testing.T) {
	for _, reply := range []string{"yes", "Yes", "YES", "  yes\n"} {
		completer := &fakeCompleter{replies: []string{reply}}
		decision := NewRetrievalDecision(completer)

		got, err := decision.Decide(context.Background(), "Show me beach photos")
		if err != nil {
			t.Fatalf("Decide(%q) failed: %v", reply, err)
		}
		if !got {
			t.Errorf("expected true for reply %q", reply)
		}
	}
}

func TestRetrievalDecision_No(t *testing.T) {
	completer := &fakeCompleter{replies: []string{"no"}}
	decision := NewRetrievalDecision(completer)

	got, err := decision.Decide(context.Background(), "How many images are there?")
	if err != nil {
		t.Fatalf("Decide failed: %v", err)
	}
	if got {
		t.Error("expected false for 'no' verdict")
	}
}

func TestRetrievalDecision_UnexpectedVerdict(t *testing.T) {
	completer := &fakeCompleter{replies: []string{"maybe, depends"}}
	decision := NewRetrievalDecision(completer)

	_, err := decision.Decide(context.Background(), "Show me beach photos")
	if err == nil {
		t.Fatal("expected error for unparseable verdict")
	}
	if shared.KindOf(err) != shared.KindDecision {
		t.Errorf("expected decision error kind, got %q", shared.KindOf(err))
	}
}

func TestRetrievalDecision_CompleterFailure(t *testing.T) {
	completer := &fakeCompleter{err: errors.New("quota exceeded")}
	decision := NewRetrievalDecision(completer)

	_, err := decision.Decide(context.Background(), "Show me beach photos")
	if err == nil {
		t.Fatal("expected error on completer failure")
	}
	if shared.KindOf(err) != shared.KindDecision {
		t.Errorf("expected decision error kind, got %q", shared.KindOf(err))
	}
}

func TestRetrievalDecision_PromptContainsQuery(t *testing.T) {
	completer := &fakeCompleter{replies: []string{"yes"}}
	decision := NewRetrievalDecision(completer)

	if _, err := decision.Decide(context.Background(), "Find images of ancient Rome"); err != nil {
		t.Fatalf("Decide failed: %v", err)
	}

	if len(completer.prompts) != 1 {
		t.Fatalf("expected exactly one completer call, got %d", len(completer.prompts))
	}
	if !strings.Contains(completer.prompts[0], "Find images of ancient Rome") {
		t.Error("classification prompt should embed the query")
	}
	if !strings.Contains(completer.prompts[0], "'Show me beach images' -> yes") {
		t.Error("classification prompt should carry anchoring examples")
	}
}
