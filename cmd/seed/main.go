package main

import (
	"context"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/eleven-am/gallery-backend/internal/bootstrap"
	"github.com/eleven-am/gallery-backend/internal/upload"
)

var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

func main() {
	dir := flag.String("dir", "", "directory of images to index")
	flag.Parse()

	if *dir == "" {
		fmt.Fprintln(os.Stderr, "usage: seed -dir <image directory>")
		os.Exit(1)
	}

	cfg := bootstrap.LoadConfig()
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	db, err := bootstrap.ProvideDatabase(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to connect to database: %v\n", err)
		os.Exit(1)
	}

	qdrantClient, err := bootstrap.ProvideQdrantClient(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to connect to qdrant: %v\n", err)
		os.Exit(1)
	}

	store := bootstrap.ProvidePhotoStore(db, qdrantClient, cfg)
	if err := bootstrap.RunMigrations(store, cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to migrate: %v\n", err)
		os.Exit(1)
	}

	files, err := bootstrap.ProvideFileManager(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to prepare image dir: %v\n", err)
		os.Exit(1)
	}

	processor := upload.NewProcessor(store, files, bootstrap.ProvideLLMClient(cfg), bootstrap.ProvideEmbeddingClient(cfg), logger)

	ctx := context.Background()
	indexed, failed := 0, 0

	err = filepath.WalkDir(*dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !imageExtensions[strings.ToLower(filepath.Ext(path))] {
			return nil
		}

		photo, err := processor.IngestFile(ctx, path)
		if err != nil {
			logger.Error("failed to index image", "path", path, "error", err)
			failed++
			return nil
		}
		logger.Info("indexed image", "path", path, "photo_id", photo.ID)
		indexed++
		return nil
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to walk %s: %v\n", *dir, err)
		os.Exit(1)
	}

	fmt.Printf("Indexed %d images (%d failed)\n", indexed, failed)
}
