package chat

import (
	"context"
	"errors"
	"log/slog"
	"mime/multipart"
	"path"
	"time"

	"github.com/eleven-am/gallery-backend/internal/dto"
	"github.com/eleven-am/gallery-backend/internal/shared"
	"github.com/eleven-am/gallery-backend/internal/storage"
)

const defaultCallTimeout = 60 * time.Second

// ErrNoInput is returned when a turn carries neither query nor image. The
// HTTP handler rejects this case before the orchestrator runs.
var ErrNoInput = errors.New("query and image both absent")

// Orchestrator runs one chat turn end to end. Steps are strictly sequential:
// the decision gates retrieval, and in multimodal turns the caption enters
// the transcript before the decision so later steps see richer context.
//
// A failed step aborts the turn with a tagged error; turns already appended
// to the transcript stay there.
type Orchestrator struct {
	history   History
	decision  *RetrievalDecision
	fuser     *CandidateFuser
	selector  *ImageSelector
	completer Completer
	captioner Captioner
	files     *storage.FileManager
	logger    *slog.Logger
	timeout   time.Duration
}

func NewOrchestrator(
	history History,
	decision *RetrievalDecision,
	fuser *CandidateFuser,
	selector *ImageSelector,
	completer Completer,
	captioner Captioner,
	files *storage.FileManager,
	logger *slog.Logger,
	callTimeout time.Duration,
) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	if callTimeout == 0 {
		callTimeout = defaultCallTimeout
	}
	return &Orchestrator{
		history:   history,
		decision:  decision,
		fuser:     fuser,
		selector:  selector,
		completer: completer,
		captioner: captioner,
		files:     files,
		logger:    logger.With("component", "chat-orchestrator"),
		timeout:   callTimeout,
	}
}

// HandleTurn dispatches on which inputs are present. The caller validates
// that at least one of query and image is set.
func (o *Orchestrator) HandleTurn(ctx context.Context, sessionID, query string, image *multipart.FileHeader) (*dto.ChatResponse, error) {
	switch {
	case query != "" && image == nil:
		return o.handleText(ctx, sessionID, query)
	case query == "" && image != nil:
		return o.handleImage(ctx, sessionID, image)
	case query != "" && image != nil:
		return o.handleMultimodal(ctx, sessionID, query, image)
	}
	return nil, ErrNoInput
}

// ResetSession drops the session's transcript; the next turn starts over
// from the greeting.
func (o *Orchestrator) ResetSession(ctx context.Context, sessionID string) error {
	return o.history.Clear(ctx, sessionID)
}

func (o *Orchestrator) handleText(ctx context.Context, sessionID, query string) (*dto.ChatResponse, error) {
	snapshot, err := o.history.Snapshot(ctx, sessionID)
	if err != nil {
		return nil, shared.StorageError(err)
	}

	userTurn := UserTurn(query)
	if err := o.history.Append(ctx, sessionID, userTurn); err != nil {
		return nil, shared.StorageError(err)
	}
	snapshot = snapshot.With(userTurn)

	retrieve, err := o.decide(ctx, query)
	if err != nil {
		return nil, err
	}

	if !retrieve {
		return o.respondConversationally(ctx, sessionID, snapshot)
	}

	return o.retrieveAndSelect(ctx, sessionID, snapshot, query, "", false)
}

func (o *Orchestrator) handleImage(ctx context.Context, sessionID string, image *multipart.FileHeader) (*dto.ChatResponse, error) {
	// Snapshot seeds the greeting when this is the session's first turn;
	// appending without it would leave the transcript unseeded for good.
	if _, err := o.history.Snapshot(ctx, sessionID); err != nil {
		return nil, shared.StorageError(err)
	}

	tempPath, err := o.files.SaveTemp(image)
	if err != nil {
		return nil, shared.StorageError(err)
	}
	defer o.cleanupTemp(tempPath)

	caption, err := o.describe(ctx, tempPath)
	if err != nil {
		return nil, err
	}

	response := caption + askSimilarSuffix
	err = o.history.Append(ctx, sessionID,
		UserTurn("[Image uploaded: "+caption+"]"),
		AssistantTurn(response),
	)
	if err != nil {
		return nil, shared.StorageError(err)
	}

	return &dto.ChatResponse{Response: response}, nil
}

func (o *Orchestrator) handleMultimodal(ctx context.Context, sessionID, query string, image *multipart.FileHeader) (*dto.ChatResponse, error) {
	tempPath, err := o.files.SaveTemp(image)
	if err != nil {
		return nil, shared.StorageError(err)
	}
	defer o.cleanupTemp(tempPath)

	snapshot, err := o.history.Snapshot(ctx, sessionID)
	if err != nil {
		return nil, shared.StorageError(err)
	}

	// Caption first so the image content grounds the decision context and
	// selection, then one user turn per input.
	caption, err := o.describe(ctx, tempPath)
	if err != nil {
		return nil, err
	}

	queryTurn := UserTurn(query)
	captionTurn := UserTurn("[Image uploaded: " + caption + "]")
	if err := o.history.Append(ctx, sessionID, queryTurn, captionTurn); err != nil {
		return nil, shared.StorageError(err)
	}
	snapshot = snapshot.With(queryTurn, captionTurn)

	// The decision sees only the text query; the image influences selection
	// context but not the yes/no gate.
	retrieve, err := o.decide(ctx, query)
	if err != nil {
		return nil, err
	}

	if !retrieve {
		callCtx, cancel := o.callContext(ctx)
		defer cancel()

		reply, err := o.completer.CompleteWithImage(callCtx, snapshot.Render()+"Assistant: ", tempPath)
		if err != nil {
			return nil, shared.CompletionError(err)
		}
		if err := o.history.Append(ctx, sessionID, AssistantTurn(reply)); err != nil {
			return nil, shared.StorageError(err)
		}
		return &dto.ChatResponse{Response: reply}, nil
	}

	return o.retrieveAndSelect(ctx, sessionID, snapshot, query, tempPath, true)
}

func (o *Orchestrator) respondConversationally(ctx context.Context, sessionID string, snapshot Transcript) (*dto.ChatResponse, error) {
	callCtx, cancel := o.callContext(ctx)
	defer cancel()

	reply, err := o.completer.Complete(callCtx, snapshot.Render()+"Assistant: ")
	if err != nil {
		return nil, shared.CompletionError(err)
	}

	if err := o.history.Append(ctx, sessionID, AssistantTurn(reply)); err != nil {
		return nil, shared.StorageError(err)
	}

	return &dto.ChatResponse{Response: reply}, nil
}

func (o *Orchestrator) retrieveAndSelect(ctx context.Context, sessionID string, snapshot Transcript, query, imagePath string, multimodal bool) (*dto.ChatResponse, error) {
	callCtx, cancel := o.callContext(ctx)
	defer cancel()

	candidates, err := o.fuser.Fetch(callCtx, query, imagePath)
	if err != nil {
		return nil, err
	}

	selectCtx, cancelSelect := o.callContext(ctx)
	defer cancelSelect()

	result, err := o.selector.Select(selectCtx, snapshot, query, candidates, multimodal)
	if err != nil {
		return nil, err
	}

	if err := o.history.Append(ctx, sessionID, AssistantTurn(result.Summary)); err != nil {
		return nil, shared.StorageError(err)
	}

	urls := make([]string, 0, len(result.Images))
	for _, record := range result.Images {
		urls = append(urls, imageURL(record.ID))
	}

	return &dto.ChatResponse{Response: result.Response, Images: urls}, nil
}

func (o *Orchestrator) decide(ctx context.Context, query string) (bool, error) {
	callCtx, cancel := o.callContext(ctx)
	defer cancel()
	return o.decision.Decide(callCtx, query)
}

func (o *Orchestrator) describe(ctx context.Context, imagePath string) (string, error) {
	callCtx, cancel := o.callContext(ctx)
	defer cancel()

	caption, err := o.captioner.Describe(callCtx, imagePath, ImageDescriptionPrompt)
	if err != nil {
		return "", shared.CompletionError(err)
	}
	return caption, nil
}

func (o *Orchestrator) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, o.timeout)
}

func (o *Orchestrator) cleanupTemp(path string) {
	if err := o.files.Remove(path); err != nil {
		o.logger.Warn("failed to remove temp file", "path", path, "error", err)
	}
}

// imageURL derives the public URL from a stored record id; only the base
// filename of the id is exposed.
func imageURL(id string) string {
	return "/images/" + path.Base(id)
}
