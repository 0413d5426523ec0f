package chat

import (
	"context"

	"github.com/eleven-am/gallery-backend/internal/shared"
)

const defaultTopN = 5

// CandidateFuser issues one nearest-neighbor query per present modality and
// unions the results by id. Text-query hits are checked first, so when an
// image appears in both result sets the text result's metadata wins; that
// tie-break is arbitrary but fixed.
type CandidateFuser struct {
	embedder Embedder
	index    VectorIndex
	topN     int
}

func NewCandidateFuser(embedder Embedder, index VectorIndex, topN int) *CandidateFuser {
	if topN <= 0 {
		topN = defaultTopN
	}
	return &CandidateFuser{
		embedder: embedder,
		index:    index,
		topN:     topN,
	}
}

// Fetch retrieves up to topN candidates per present modality. Empty result
// sets are valid output, not an error.
func (f *CandidateFuser) Fetch(ctx context.Context, textQuery, imagePath string) ([]ImageRecord, error) {
	var textHits, imageHits []ImageRecord

	if textQuery != "" {
		embedding, err := f.embedder.EmbedText(ctx, textQuery)
		if err != nil {
			return nil, shared.RetrievalError(err)
		}
		textHits, err = f.index.Query(ctx, embedding, f.topN)
		if err != nil {
			return nil, shared.RetrievalError(err)
		}
	}

	if imagePath != "" {
		embedding, err := f.embedder.EmbedImage(ctx, imagePath)
		if err != nil {
			return nil, shared.RetrievalError(err)
		}
		imageHits, err = f.index.Query(ctx, embedding, f.topN)
		if err != nil {
			return nil, shared.RetrievalError(err)
		}
	}

	return fuse(textHits, imageHits), nil
}

func fuse(textHits, imageHits []ImageRecord) []ImageRecord {
	fused := make([]ImageRecord, 0, len(textHits)+len(imageHits))
	seen := make(map[string]struct{}, len(textHits)+len(imageHits))

	for _, hit := range textHits {
		if _, ok := seen[hit.ID]; ok {
			continue
		}
		seen[hit.ID] = struct{}{}
		fused = append(fused, hit)
	}
	for _, hit := range imageHits {
		if _, ok := seen[hit.ID]; ok {
			continue
		}
		seen[hit.ID] = struct{}{}
		fused = append(fused, hit)
	}

	return fused
}
