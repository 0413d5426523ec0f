package gallery

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/eleven-am/gallery-backend/internal/dto"
	"github.com/eleven-am/gallery-backend/internal/shared"
	"github.com/labstack/echo/v4"
)

type Handler struct {
	store  *Store
	logger *slog.Logger
}

func NewHandler(store *Store, logger *slog.Logger) *Handler {
	return &Handler{
		store:  store,
		logger: logger,
	}
}

func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.GET("", h.List)
	g.GET("/:id", h.Get)
	g.PUT("/:id/tags", h.UpdateTags)
	g.DELETE("/:id", h.Delete)
}

func photoToResponse(p *Photo) dto.PhotoResponse {
	return dto.PhotoResponse{
		ID:            p.ID,
		URL:           p.URL(),
		Description:   p.Description,
		Tags:          p.AllTags(),
		TakenAt:       p.TakenAt,
		DominantColor: p.DominantColor,
		Objects:       p.Objects,
		CreatedAt:     p.CreatedAt.Format(time.RFC3339),
	}
}

func (h *Handler) List(c echo.Context) error {
	photos, err := h.store.List(c.Request().Context())
	if err != nil {
		h.logger.Error("failed to list photos", "error", err)
		return shared.InternalError("list_failed", "failed to retrieve gallery images")
	}

	images := make([]dto.GalleryImage, 0, len(photos))
	for _, p := range photos {
		images = append(images, dto.GalleryImage{ID: p.ID, URL: p.URL()})
	}

	return c.JSON(http.StatusOK, dto.GalleryResponse{Total: len(images), Images: images})
}

func (h *Handler) Get(c echo.Context) error {
	p, err := h.store.GetByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NotFound("photo_not_found", "image not found")
		}
		h.logger.Error("failed to get photo", "error", err, "photo_id", c.Param("id"))
		return shared.InternalError("get_failed", "failed to retrieve image details")
	}

	return c.JSON(http.StatusOK, photoToResponse(p))
}

func (h *Handler) UpdateTags(c echo.Context) error {
	var req dto.UpdateTagsRequest
	if err := c.Bind(&req); err != nil {
		return shared.BadRequest("invalid_request", "invalid request body")
	}

	err := h.store.UpdateUserTags(c.Request().Context(), c.Param("id"), req.Tags)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NotFound("photo_not_found", "image not found")
		}
		h.logger.Error("failed to update tags", "error", err, "photo_id", c.Param("id"))
		return shared.InternalError("update_failed", "failed to update tags")
	}

	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) Delete(c echo.Context) error {
	err := h.store.Delete(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NotFound("photo_not_found", "image not found")
		}
		h.logger.Error("failed to delete photo", "error", err, "photo_id", c.Param("id"))
		return shared.InternalError("delete_failed", "failed to delete image")
	}

	return c.NoContent(http.StatusNoContent)
}
