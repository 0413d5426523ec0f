package chat

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"strings"
	"sync"
	"testing"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeCompleter replays canned replies in order and records every prompt.
type fakeCompleter struct {
	replies []string
	err     error
	prompts []string
	calls   int
}

func (f *fakeCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return "", f.err
	}
	if f.calls >= len(f.replies) {
		return "", errors.New("no more canned replies")
	}
	reply := f.replies[f.calls]
	f.calls++
	return reply, nil
}

func (f *fakeCompleter) CompleteWithImage(ctx context.Context, prompt, imagePath string) (string, error) {
	return f.Complete(ctx, prompt)
}

type fakeCaptioner struct {
	caption string
	err     error
}

func (f *fakeCaptioner) Describe(ctx context.Context, imagePath, prompt string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.caption, nil
}

type fakeEmbedder struct {
	textVec    []float32
	imageVec   []float32
	textErr    error
	imageErr   error
	textCalls  int
	imageCalls int
}

func (f *fakeEmbedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	f.textCalls++
	if f.textErr != nil {
		return nil, f.textErr
	}
	return f.textVec, nil
}

func (f *fakeEmbedder) EmbedImage(ctx context.Context, imagePath string) ([]float32, error) {
	f.imageCalls++
	if f.imageErr != nil {
		return nil, f.imageErr
	}
	return f.imageVec, nil
}

// fakeIndex returns result sets in call order: first query gets results[0],
// second gets results[1], and so on.
type fakeIndex struct {
	results [][]ImageRecord
	err     error
	calls   int
}

func (f *fakeIndex) Query(ctx context.Context, embedding []float32, topN int) ([]ImageRecord, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.calls >= len(f.results) {
		return nil, nil
	}
	result := f.results[f.calls]
	f.calls++
	if len(result) > topN {
		result = result[:topN]
	}
	return result, nil
}

// memoryHistory is an in-memory History for orchestrator tests.
type memoryHistory struct {
	mu       sync.Mutex
	sessions map[string]Transcript
	failNext bool
}

func newMemoryHistory() *memoryHistory {
	return &memoryHistory{sessions: make(map[string]Transcript)}
}

func (m *memoryHistory) Snapshot(ctx context.Context, sessionID string) (Transcript, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failNext {
		return nil, errors.New("history unavailable")
	}
	transcript, ok := m.sessions[sessionID]
	if !ok {
		greeting := AssistantTurn(Greeting)
		m.sessions[sessionID] = Transcript{greeting}
		return Transcript{greeting}, nil
	}
	snapshot := make(Transcript, len(transcript))
	copy(snapshot, transcript)
	return snapshot, nil
}

func (m *memoryHistory) Append(ctx context.Context, sessionID string, turns ...Turn) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failNext {
		return errors.New("history unavailable")
	}
	m.sessions[sessionID] = append(m.sessions[sessionID], turns...)
	return nil
}

func (m *memoryHistory) Clear(ctx context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, sessionID)
	return nil
}

func (m *memoryHistory) turns(sessionID string) Transcript {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sessions[sessionID]
}

// makeFileHeader builds a real multipart.FileHeader carrying content, the
// same shape echo hands the orchestrator.
func makeFileHeader(t *testing.T, fileName string, content []byte) *multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("image", fileName)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write(content); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	writer.Close()

	reader := multipart.NewReader(&buf, writer.Boundary())
	form, err := reader.ReadForm(1 << 20)
	if err != nil {
		t.Fatalf("read form: %v", err)
	}
	t.Cleanup(func() { form.RemoveAll() })

	files := form.File["image"]
	if len(files) != 1 {
		t.Fatalf("expected 1 file header, got %d", len(files))
	}
	return files[0]
}

func containsPrompt(prompts []string, fragment string) bool {
	for _, p := range prompts {
		if strings.Contains(p, fragment) {
			return true
		}
	}
	return false
}
