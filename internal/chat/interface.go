package chat

import "context"

// ImageRecord is one stored image as the retrieval path sees it: an opaque
// stable id plus the payload metadata needed for ranking. Tags stay in their
// comma-joined wire form.
type ImageRecord struct {
	ID          string
	Description string
	Tags        string
}

// Embedder maps text or images into the shared similarity space.
type Embedder interface {
	EmbedText(ctx context.Context, text string) ([]float32, error)
	EmbedImage(ctx context.Context, imagePath string) ([]float32, error)
}

// Completer is the external generative model.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
	CompleteWithImage(ctx context.Context, prompt, imagePath string) (string, error)
}

// Captioner turns an uploaded image into text. The prompt selects what kind
// of text: a free-form description or a templated extraction.
type Captioner interface {
	Describe(ctx context.Context, imagePath, prompt string) (string, error)
}

// History is the per-session transcript store. Appends must serialize;
// Snapshot returns a consistent view as of the call.
type History interface {
	Snapshot(ctx context.Context, sessionID string) (Transcript, error)
	Append(ctx context.Context, sessionID string, turns ...Turn) error
	Clear(ctx context.Context, sessionID string) error
}

// VectorIndex is a cosine-similarity ANN query over the stored embeddings.
// Results preserve the index's native ranking.
type VectorIndex interface {
	Query(ctx context.Context, embedding []float32, topN int) ([]ImageRecord, error)
}
