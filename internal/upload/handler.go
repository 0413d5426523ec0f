package upload

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/eleven-am/gallery-backend/internal/dto"
	"github.com/eleven-am/gallery-backend/internal/shared"
	"github.com/labstack/echo/v4"
)

type Handler struct {
	processor *Processor
	logger    *slog.Logger
}

func NewHandler(processor *Processor, logger *slog.Logger) *Handler {
	return &Handler{
		processor: processor,
		logger:    logger,
	}
}

func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.POST("", h.Upload)
}

// Upload ingests one or more images. Files are processed independently so
// one bad image does not block the rest; per-file failures are reported back
// alongside the successes.
func (h *Handler) Upload(c echo.Context) error {
	form, err := c.MultipartForm()
	if err != nil {
		return shared.BadRequest("invalid_request", "expected multipart form upload")
	}

	files := form.File["files"]
	if len(files) == 0 {
		return shared.BadRequest("no_files", "no image files provided")
	}

	ctx := c.Request().Context()
	uploaded := make([]string, 0, len(files))
	var failures []string

	for _, file := range files {
		photo, err := h.processor.Ingest(ctx, file)
		if err != nil {
			h.logger.Error("upload failed", "file", file.Filename, "error", err)
			failures = append(failures, fmt.Sprintf("failed to upload %s: %v", file.Filename, err))
			continue
		}
		uploaded = append(uploaded, photo.ID)
	}

	resp := dto.UploadResponse{Uploaded: uploaded, Errors: failures}
	switch {
	case len(uploaded) == 0:
		resp.Message = "no images uploaded"
		return c.JSON(http.StatusBadRequest, resp)
	case len(failures) > 0:
		resp.Message = "some images failed to upload"
	case len(uploaded) == 1:
		resp.Message = "image uploaded successfully"
	default:
		resp.Message = "images uploaded successfully"
	}

	return c.JSON(http.StatusOK, resp)
}
