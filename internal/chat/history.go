package chat

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const historyTTL = 24 * time.Hour

// HistoryStore keeps one transcript per session in a redis list. List pushes
// serialize concurrent appends against the same session; the TTL is the
// session's eviction lifecycle.
type HistoryStore struct {
	redis  *redis.Client
	logger *slog.Logger
}

func NewHistoryStore(redisClient *redis.Client, logger *slog.Logger) *HistoryStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &HistoryStore{
		redis:  redisClient,
		logger: logger.With("component", "history-store"),
	}
}

func historyKey(sessionID string) string {
	return "chat:" + sessionID + ":history"
}

// Snapshot returns the transcript as of now. A session seen for the first
// time is seeded with the greeting turn before the snapshot is returned.
func (s *HistoryStore) Snapshot(ctx context.Context, sessionID string) (Transcript, error) {
	key := historyKey(sessionID)

	entries, err := s.redis.LRange(ctx, key, 0, -1).Result()
	if err != nil {
		return nil, err
	}

	if len(entries) == 0 {
		greeting := AssistantTurn(Greeting)
		if err := s.Append(ctx, sessionID, greeting); err != nil {
			return nil, err
		}
		return Transcript{greeting}, nil
	}

	transcript := make(Transcript, 0, len(entries))
	for _, entry := range entries {
		var turn Turn
		if err := json.Unmarshal([]byte(entry), &turn); err != nil {
			s.logger.Warn("dropping corrupt transcript entry",
				"session_id", sessionID,
				"error", err)
			continue
		}
		transcript = append(transcript, turn)
	}
	return transcript, nil
}

// Append pushes turns onto the session's transcript in order and refreshes
// the session TTL.
func (s *HistoryStore) Append(ctx context.Context, sessionID string, turns ...Turn) error {
	if len(turns) == 0 {
		return nil
	}
	key := historyKey(sessionID)

	values := make([]any, 0, len(turns))
	for _, turn := range turns {
		data, err := json.Marshal(turn)
		if err != nil {
			return err
		}
		values = append(values, data)
	}

	pipe := s.redis.Pipeline()
	pipe.RPush(ctx, key, values...)
	pipe.Expire(ctx, key, historyTTL)
	_, err := pipe.Exec(ctx)
	return err
}

// Clear drops the session's transcript entirely.
func (s *HistoryStore) Clear(ctx context.Context, sessionID string) error {
	return s.redis.Del(ctx, historyKey(sessionID)).Err()
}
