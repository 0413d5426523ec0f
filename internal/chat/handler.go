package chat

import (
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/eleven-am/gallery-backend/internal/shared"
	"github.com/labstack/echo/v4"
)

const sessionCookieName = "gallery_session"

type Handler struct {
	orchestrator *Orchestrator
	logger       *slog.Logger
	cookieSecure bool
}

func NewHandler(orchestrator *Orchestrator, logger *slog.Logger, cookieSecure bool) *Handler {
	return &Handler{
		orchestrator: orchestrator,
		logger:       logger,
		cookieSecure: cookieSecure,
	}
}

func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.POST("", h.Chat)
	g.DELETE("", h.Reset)
}

// Chat handles one conversational turn: optional text query, optional single
// image, at least one required.
func (h *Handler) Chat(c echo.Context) error {
	query := strings.TrimSpace(c.FormValue("query"))

	var image *multipart.FileHeader
	if file, err := c.FormFile("image"); err == nil {
		image = file
	}

	if query == "" && image == nil {
		return shared.BadRequest("empty_request", "please provide a text query and/or an image")
	}

	sessionID := h.sessionID(c)

	resp, err := h.orchestrator.HandleTurn(c.Request().Context(), sessionID, query, image)
	if err != nil {
		h.logger.Error("chat turn failed",
			"error", err,
			"kind", shared.KindOf(err),
			"session_id", sessionID)
		return shared.TurnErrorToHTTP(err)
	}

	return c.JSON(http.StatusOK, resp)
}

// Reset evicts the caller's transcript, starting the conversation over.
func (h *Handler) Reset(c echo.Context) error {
	cookie, err := c.Cookie(sessionCookieName)
	if err != nil || cookie.Value == "" {
		return c.NoContent(http.StatusNoContent)
	}

	if err := h.orchestrator.ResetSession(c.Request().Context(), cookie.Value); err != nil {
		h.logger.Error("failed to clear history", "error", err, "session_id", cookie.Value)
		return shared.InternalError("reset_failed", "failed to reset conversation")
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) sessionID(c echo.Context) string {
	if cookie, err := c.Cookie(sessionCookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	id := shared.NewID("sess_")
	c.SetCookie(&http.Cookie{
		Name:     sessionCookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}
