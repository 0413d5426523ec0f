package bootstrap

import (
	"context"
	"log/slog"
	"os"

	"github.com/eleven-am/gallery-backend/internal/chat"
	"github.com/eleven-am/gallery-backend/internal/embedding"
	"github.com/eleven-am/gallery-backend/internal/gallery"
	"github.com/eleven-am/gallery-backend/internal/health"
	"github.com/eleven-am/gallery-backend/internal/llm"
	"github.com/eleven-am/gallery-backend/internal/storage"
	"github.com/eleven-am/gallery-backend/internal/upload"
	"github.com/labstack/echo/v4"
	"github.com/qdrant/go-client/qdrant"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func ProvideLogger(cfg *Config) *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	}))
}

func ProvideLLMClient(cfg *Config) *llm.Client {
	return llm.NewClient(llm.Config{
		BaseURL:     cfg.LLMBaseURL,
		Model:       cfg.LLMModel,
		VisionModel: cfg.LLMVisionModel,
		Timeout:     cfg.CallTimeout,
	})
}

func ProvideEmbeddingClient(cfg *Config) *embedding.Client {
	return embedding.NewClient(embedding.Config{
		BaseURL: cfg.EmbedBaseURL,
		Model:   cfg.EmbedModel,
		Timeout: cfg.CallTimeout,
	})
}

// photoIndex adapts the gallery store's similarity search to the record type
// the chat retrieval path consumes.
type photoIndex struct {
	store *gallery.Store
}

func (p photoIndex) Query(ctx context.Context, embedding []float32, topN int) ([]chat.ImageRecord, error) {
	hits, err := p.store.SearchByEmbedding(ctx, embedding, topN)
	if err != nil {
		return nil, err
	}
	records := make([]chat.ImageRecord, 0, len(hits))
	for _, hit := range hits {
		records = append(records, chat.ImageRecord{
			ID:          hit.ID,
			Description: hit.Description,
			Tags:        hit.Tags,
		})
	}
	return records, nil
}

func ProvideVectorIndex(store *gallery.Store) chat.VectorIndex {
	return photoIndex{store: store}
}

func ProvideOrchestrator(
	historyStore *chat.HistoryStore,
	llmClient *llm.Client,
	embedClient *embedding.Client,
	index chat.VectorIndex,
	files *storage.FileManager,
	cfg *Config,
	logger *slog.Logger,
) *chat.Orchestrator {
	decision := chat.NewRetrievalDecision(llmClient)
	fuser := chat.NewCandidateFuser(embedClient, index, cfg.TopN)
	selector := chat.NewImageSelector(llmClient, logger)
	return chat.NewOrchestrator(historyStore, decision, fuser, selector, llmClient, llmClient, files, logger, cfg.CallTimeout)
}

func ProvideChatHandler(orchestrator *chat.Orchestrator, cfg *Config, logger *slog.Logger) *chat.Handler {
	return chat.NewHandler(orchestrator, logger.With("handler", "chat"), cfg.CookieSecure)
}

func ProvideGalleryHandler(store *gallery.Store, logger *slog.Logger) *gallery.Handler {
	return gallery.NewHandler(store, logger.With("handler", "gallery"))
}

func ProvideUploadProcessor(store *gallery.Store, files *storage.FileManager, llmClient *llm.Client, embedClient *embedding.Client, logger *slog.Logger) *upload.Processor {
	return upload.NewProcessor(store, files, llmClient, embedClient, logger)
}

func ProvideUploadHandler(processor *upload.Processor, logger *slog.Logger) *upload.Handler {
	return upload.NewHandler(processor, logger.With("handler", "upload"))
}

func ProvideHealthHandler(db *gorm.DB, redisClient *redis.Client, qdrantClient *qdrant.Client, cfg *Config) *health.Handler {
	return health.NewHandler(db, redisClient, qdrantClient, cfg.Version)
}

type HandlerParams struct {
	fx.In

	ChatHandler    *chat.Handler
	GalleryHandler *gallery.Handler
	UploadHandler  *upload.Handler
	HealthHandler  *health.Handler
	Files          *storage.FileManager
}

func RegisterRoutes(e *echo.Echo, params HandlerParams) {
	api := e.Group("/v1")

	params.ChatHandler.RegisterRoutes(api.Group("/chat"))
	params.GalleryHandler.RegisterRoutes(api.Group("/gallery"))
	params.UploadHandler.RegisterRoutes(api.Group("/upload"))
	params.HealthHandler.RegisterRoutes(e)

	e.Static("/images", params.Files.Dir())
}

var HandlersModule = fx.Options(
	fx.Provide(
		ProvideLogger,
		ProvideLLMClient,
		ProvideEmbeddingClient,
		ProvideVectorIndex,
		ProvideOrchestrator,
		ProvideChatHandler,
		ProvideGalleryHandler,
		ProvideUploadProcessor,
		ProvideUploadHandler,
		ProvideHealthHandler,
	),
	fx.Invoke(RegisterRoutes),
)
