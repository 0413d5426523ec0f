package chat

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/eleven-am/gallery-backend/internal/shared"
)

// SelectionResult is the outcome of ranking a candidate set: the response
// text for the user, the ordered selected records, and a compact summary the
// transcript keeps instead of the full image payload.
type SelectionResult struct {
	Response string
	Images   []ImageRecord
	Summary  string
}

// ImageSelector asks the model to pick which candidates to show. The model's
// reply is free text, so parsing is lenient: tokens that are not 1-based
// in-range integers are discarded, never escalated.
type ImageSelector struct {
	completer Completer
	logger    *slog.Logger
}

func NewImageSelector(completer Completer, logger *slog.Logger) *ImageSelector {
	if logger == nil {
		logger = slog.Default()
	}
	return &ImageSelector{
		completer: completer,
		logger:    logger.With("component", "image-selector"),
	}
}

// Select ranks candidates against the conversation and returns the subset to
// display. An empty candidate set short-circuits without a model call; a
// reply selecting nothing degrades to the none-relevant fallback.
func (s *ImageSelector) Select(ctx context.Context, transcript Transcript, query string, candidates []ImageRecord, multimodal bool) (*SelectionResult, error) {
	if len(candidates) == 0 {
		response := noResultsResponse(query)
		return &SelectionResult{
			Response: response,
			Images:   []ImageRecord{},
			Summary:  response,
		}, nil
	}

	prompt := s.buildPrompt(transcript, candidates, multimodal)
	reply, err := s.completer.Complete(ctx, prompt)
	if err != nil {
		return nil, shared.CompletionError(err)
	}

	indices, discarded := parseIndices(reply, len(candidates))
	if discarded > 0 {
		s.logger.Debug("discarded selection tokens",
			"discarded", discarded,
			"kept", len(indices),
			"reply", reply)
	}

	if len(indices) == 0 {
		response := noSelectionResponse(query)
		return &SelectionResult{
			Response: response,
			Images:   []ImageRecord{},
			Summary:  response,
		}, nil
	}

	selected := make([]ImageRecord, 0, len(indices))
	var b strings.Builder
	b.WriteString("Here are some relevant images:\n")
	for i, idx := range indices {
		record := candidates[idx-1]
		selected = append(selected, record)
		fmt.Fprintf(&b, "%d. %s\n", i+1, record.Description)
	}

	return &SelectionResult{
		Response: strings.TrimRight(b.String(), "\n"),
		Images:   selected,
		Summary:  "Here are some relevant images: [Images shown]",
	}, nil
}

func (s *ImageSelector) buildPrompt(transcript Transcript, candidates []ImageRecord, multimodal bool) string {
	var b strings.Builder
	b.WriteString(transcript.Render())
	b.WriteString(selectionIntro(multimodal))
	for i, c := range candidates {
		fmt.Fprintf(&b, "%d. Description: %s, Tags: %s\n", i+1, c.Description, c.Tags)
	}
	b.WriteString(selectionInstruction(multimodal))
	return b.String()
}

// parseIndices extracts the surviving 1-based indices from a comma-separated
// reply, preserving the order the model emitted them in. Non-numeric,
// out-of-range, and duplicate tokens are counted and dropped.
func parseIndices(reply string, candidateCount int) ([]int, int) {
	var indices []int
	seen := make(map[int]struct{})
	discarded := 0

	for _, token := range strings.Split(reply, ",") {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}
		idx, err := strconv.Atoi(token)
		if err != nil || idx < 1 || idx > candidateCount {
			discarded++
			continue
		}
		if _, ok := seen[idx]; ok {
			discarded++
			continue
		}
		seen[idx] = struct{}{}
		indices = append(indices, idx)
	}

	return indices, discarded
}
