package chat

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
)

func newChatRequest(t *testing.T, query string, image []byte) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	if query != "" {
		if err := writer.WriteField("query", query); err != nil {
			t.Fatalf("write field: %v", err)
		}
	}
	if image != nil {
		part, err := writer.CreateFormFile("image", "upload.jpg")
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		if _, err := part.Write(image); err != nil {
			t.Fatalf("write image: %v", err)
		}
	}
	writer.Close()

	req := httptest.NewRequest(http.MethodPost, "/v1/chat", &buf)
	req.Header.Set(echo.HeaderContentType, writer.FormDataContentType())
	return req
}

func TestHandler_Chat_EmptyRequest(t *testing.T) {
	f := newFixture(t)
	h := NewHandler(f.orch, discardLogger(), false)

	req := newChatRequest(t, "   ", nil)
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(req, rec)

	err := h.Chat(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok {
		t.Fatalf("expected *echo.HTTPError, got %v", err)
	}
	if httpErr.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", httpErr.Code)
	}
}

func TestHandler_Chat_TextTurn(t *testing.T) {
	f := newFixture(t)
	f.decider.replies = []string{"no"}
	f.responder.replies = []string{"Hello! Ask me about the gallery."}
	h := NewHandler(f.orch, discardLogger(), false)

	req := newChatRequest(t, "hi", nil)
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(req, rec)

	if err := h.Chat(c); err != nil {
		t.Fatalf("Chat failed: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var body struct {
		Response string   `json:"response"`
		Images   []string `json:"images"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Response != "Hello! Ask me about the gallery." {
		t.Errorf("unexpected response %q", body.Response)
	}
	if body.Images != nil {
		t.Errorf("conversational turn should serialize images as null, got %v", body.Images)
	}

	// A fresh caller gets a session cookie.
	cookie := findCookie(rec.Result().Cookies(), sessionCookieName)
	if cookie == nil {
		t.Fatal("expected a session cookie on first contact")
	}
	if !strings.HasPrefix(cookie.Value, "sess_") {
		t.Errorf("unexpected session id %q", cookie.Value)
	}
	if !cookie.HttpOnly {
		t.Error("session cookie should be http-only")
	}
}

func TestHandler_Chat_ReusesSessionCookie(t *testing.T) {
	f := newFixture(t)
	f.decider.replies = []string{"no", "no"}
	f.responder.replies = []string{"first", "second"}
	h := NewHandler(f.orch, discardLogger(), false)

	for _, query := range []string{"one", "two"} {
		req := newChatRequest(t, query, nil)
		req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: "sess_known"})
		rec := httptest.NewRecorder()
		if err := h.Chat(echo.New().NewContext(req, rec)); err != nil {
			t.Fatalf("Chat failed: %v", err)
		}
		if findCookie(rec.Result().Cookies(), sessionCookieName) != nil {
			t.Error("handler should not reissue the cookie for a known session")
		}
	}

	// greeting + two user/assistant pairs, all under the cookie's session.
	if got := len(f.history.turns("sess_known")); got != 5 {
		t.Errorf("expected 5 turns under the existing session, got %d", got)
	}
}

func TestHandler_Reset(t *testing.T) {
	f := newFixture(t)
	f.decider.replies = []string{"no"}
	f.responder.replies = []string{"hello"}
	h := NewHandler(f.orch, discardLogger(), false)

	req := newChatRequest(t, "hi", nil)
	req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: "sess_reset"})
	if err := h.Chat(echo.New().NewContext(req, httptest.NewRecorder())); err != nil {
		t.Fatalf("Chat failed: %v", err)
	}
	if len(f.history.turns("sess_reset")) == 0 {
		t.Fatal("expected turns before reset")
	}

	resetReq := httptest.NewRequest(http.MethodDelete, "/v1/chat", nil)
	resetReq.AddCookie(&http.Cookie{Name: sessionCookieName, Value: "sess_reset"})
	rec := httptest.NewRecorder()
	if err := h.Reset(echo.New().NewContext(resetReq, rec)); err != nil {
		t.Fatalf("Reset failed: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Errorf("expected 204, got %d", rec.Code)
	}
	if len(f.history.turns("sess_reset")) != 0 {
		t.Error("expected history to be cleared")
	}
}

func TestHandler_Reset_NoCookie(t *testing.T) {
	f := newFixture(t)
	h := NewHandler(f.orch, discardLogger(), false)

	req := httptest.NewRequest(http.MethodDelete, "/v1/chat", nil)
	rec := httptest.NewRecorder()
	if err := h.Reset(echo.New().NewContext(req, rec)); err != nil {
		t.Fatalf("Reset failed: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Errorf("expected 204, got %d", rec.Code)
	}
}

func findCookie(cookies []*http.Cookie, name string) *http.Cookie {
	for _, c := range cookies {
		if c.Name == name {
			return c
		}
	}
	return nil
}
