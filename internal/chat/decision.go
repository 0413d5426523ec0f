package chat

import (
	"context"
	"fmt"
	"strings"

	"github.com/eleven-am/gallery-backend/internal/shared"
)

// RetrievalDecision gates every text-bearing turn: retrieve images, or answer
// conversationally. A wrong no starves retrieval and a wrong yes wastes a
// similarity query, so an unparseable verdict fails the turn instead of
// defaulting either way.
type RetrievalDecision struct {
	completer Completer
}

func NewRetrievalDecision(completer Completer) *RetrievalDecision {
	return &RetrievalDecision{completer: completer}
}

func (d *RetrievalDecision) Decide(ctx context.Context, query string) (bool, error) {
	verdict, err := d.completer.Complete(ctx, decisionPrompt(query))
	if err != nil {
		return false, shared.DecisionError(err)
	}

	switch strings.ToLower(strings.TrimSpace(verdict)) {
	case "yes":
		return true, nil
	case "no":
		return false, nil
	}
	return false, shared.DecisionError(fmt.Errorf("unexpected verdict %q", verdict))
}
