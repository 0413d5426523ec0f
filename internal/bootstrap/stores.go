package bootstrap

import (
	"context"
	"log/slog"

	"github.com/eleven-am/gallery-backend/internal/chat"
	"github.com/eleven-am/gallery-backend/internal/gallery"
	"github.com/eleven-am/gallery-backend/internal/storage"
	"github.com/qdrant/go-client/qdrant"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

func ProvidePhotoStore(db *gorm.DB, qdrantClient *qdrant.Client, cfg *Config) *gallery.Store {
	return gallery.NewStore(db, qdrantClient, cfg.QdrantCollection)
}

func ProvideHistoryStore(redisClient *redis.Client, logger *slog.Logger) *chat.HistoryStore {
	return chat.NewHistoryStore(redisClient, logger)
}

func ProvideFileManager(cfg *Config) (*storage.FileManager, error) {
	return storage.NewFileManager(cfg.ImageDir)
}

func RunMigrations(photoStore *gallery.Store, cfg *Config) error {
	if err := photoStore.Migrate(); err != nil {
		return err
	}
	return photoStore.EnsureCollection(context.Background(), uint64(cfg.EmbedDimension))
}

var StoresModule = fx.Options(
	fx.Provide(
		ProvidePhotoStore,
		ProvideHistoryStore,
		ProvideFileManager,
	),
	fx.Invoke(RunMigrations),
)
