package upload

import (
	"context"
	"fmt"
	"log/slog"
	"mime/multipart"
	"strings"

	"github.com/eleven-am/gallery-backend/internal/gallery"
	"github.com/eleven-am/gallery-backend/internal/storage"
)

const (
	descriptionPrompt = "Provide a concise, detailed description of this image in 2-3 sentences, " +
		"focusing on key objects, actions, colors, and the overall scene. Highlight " +
		"any notable elements like people, animals, or landscapes that might " +
		"help identify or categorize the image for a photo gallery."

	tagsPrompt = "Generate a comma-separated list of relevant tags for this image, " +
		"focusing on activities, objects and scenes. Respond with the tags only."

	colorPrompt = "Identify the dominant color in this image and return only the color name " +
		"(e.g., 'red', 'blue') without additional text."

	objectsPrompt = "List the distinct physical objects visible in this image as a " +
		"comma-separated list of short labels (e.g., 'person, dog, bicycle'). Respond with the labels only."
)

// Describer turns an image into text; the prompt selects the extraction.
type Describer interface {
	Describe(ctx context.Context, imagePath, prompt string) (string, error)
}

// Embedder produces the image's vector for the similarity index.
type Embedder interface {
	EmbedImage(ctx context.Context, imagePath string) ([]float32, error)
}

// Processor runs the ingest pipeline for one image: persist the file,
// extract metadata and the embedding, then write the record and the index
// point.
type Processor struct {
	store     *gallery.Store
	files     *storage.FileManager
	describer Describer
	embedder  Embedder
	logger    *slog.Logger
}

func NewProcessor(store *gallery.Store, files *storage.FileManager, describer Describer, embedder Embedder, logger *slog.Logger) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{
		store:     store,
		files:     files,
		describer: describer,
		embedder:  embedder,
		logger:    logger.With("component", "upload-processor"),
	}
}

// Ingest saves and indexes one uploaded image. The saved file is removed
// again if any later step fails, so a failed upload leaves nothing behind.
func (p *Processor) Ingest(ctx context.Context, file *multipart.FileHeader) (*gallery.Photo, error) {
	saved, err := p.files.SaveUpload(file)
	if err != nil {
		return nil, fmt.Errorf("save upload: %w", err)
	}

	photo, err := p.process(ctx, saved)
	if err != nil {
		if removeErr := p.files.Remove(saved.Path); removeErr != nil {
			p.logger.Warn("failed to remove rejected upload", "path", saved.Path, "error", removeErr)
		}
		return nil, err
	}
	return photo, nil
}

// IngestFile indexes an image already on disk, copying it into the gallery
// directory first. Used by the bulk seeder.
func (p *Processor) IngestFile(ctx context.Context, srcPath string) (*gallery.Photo, error) {
	saved, err := p.files.SaveLocal(srcPath)
	if err != nil {
		return nil, fmt.Errorf("save local file: %w", err)
	}

	photo, err := p.process(ctx, saved)
	if err != nil {
		if removeErr := p.files.Remove(saved.Path); removeErr != nil {
			p.logger.Warn("failed to remove rejected upload", "path", saved.Path, "error", removeErr)
		}
		return nil, err
	}
	return photo, nil
}

func (p *Processor) process(ctx context.Context, saved *storage.SavedImage) (*gallery.Photo, error) {
	embedding, err := p.embedder.EmbedImage(ctx, saved.Path)
	if err != nil {
		return nil, fmt.Errorf("embed image: %w", err)
	}

	description, err := p.describer.Describe(ctx, saved.Path, descriptionPrompt)
	if err != nil {
		return nil, fmt.Errorf("describe image: %w", err)
	}

	tags, err := p.describeList(ctx, saved.Path, tagsPrompt)
	if err != nil {
		return nil, fmt.Errorf("generate tags: %w", err)
	}

	color, err := p.describer.Describe(ctx, saved.Path, colorPrompt)
	if err != nil {
		return nil, fmt.Errorf("detect dominant color: %w", err)
	}

	objects, err := p.describeList(ctx, saved.Path, objectsPrompt)
	if err != nil {
		return nil, fmt.Errorf("detect objects: %w", err)
	}

	photo := &gallery.Photo{
		ID:            saved.ID,
		FileName:      saved.FileName,
		Description:   description,
		Tags:          tags,
		Objects:       objects,
		DominantColor: strings.ToLower(strings.TrimSpace(color)),
		TakenAt:       captureDate(saved.Path),
	}

	if err := p.store.Create(ctx, photo); err != nil {
		return nil, fmt.Errorf("create record: %w", err)
	}

	if err := p.store.UpsertEmbedding(ctx, photo, embedding); err != nil {
		return nil, fmt.Errorf("index embedding: %w", err)
	}

	return photo, nil
}

func (p *Processor) describeList(ctx context.Context, imagePath, prompt string) ([]string, error) {
	reply, err := p.describer.Describe(ctx, imagePath, prompt)
	if err != nil {
		return nil, err
	}
	return splitList(reply), nil
}

func splitList(reply string) []string {
	parts := strings.Split(reply, ",")
	items := make([]string, 0, len(parts))
	for _, part := range parts {
		if item := strings.TrimSpace(part); item != "" {
			items = append(items, item)
		}
	}
	return items
}
