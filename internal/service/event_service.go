package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stemsi/mockview-backend/internal/config"
	"github.com/stemsi/mockview-backend/internal/model"
)

// InterviewEventType names a state change pushed to subscribers.
type InterviewEventType string

const (
	EventStarted      InterviewEventType = "started"
	EventAnswerScored InterviewEventType = "answer_scored"
	EventAdvanced     InterviewEventType = "advanced"
	EventCompleted    InterviewEventType = "completed"
	EventReset        InterviewEventType = "reset"
)

// InterviewEvent is the payload published on the user's events channel.
type InterviewEvent struct {
	Type         InterviewEventType     `json:"type"`
	InterviewID  string                 `json:"interview_id,omitempty"`
	Status       model.InterviewStatus  `json:"status,omitempty"`
	CurrentIndex int                    `json:"current_index"`
	QuestionID   string                 `json:"question_id,omitempty"`
	Score        *int                   `json:"score,omitempty"`
	Source       model.EvaluationSource `json:"source,omitempty"`
	Timestamp    time.Time              `json:"timestamp"`
}

// EventPublisher fans interview events out to listeners. Publishing is best
// effort and never fails the transition that produced the event.
type EventPublisher interface {
	Publish(ctx context.Context, userID string, ev InterviewEvent)
}

// NopPublisher drops every event.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, string, InterviewEvent) {}

// RedisEventBus publishes and subscribes over Redis PubSub, one channel per user.
type RedisEventBus struct {
	rdb *redis.Client
	log zerolog.Logger
}

// NewRedisEventBus creates a new RedisEventBus.
func NewRedisEventBus(rdb *redis.Client, log zerolog.Logger) *RedisEventBus {
	return &RedisEventBus{rdb: rdb, log: log.With().Str("component", "event_bus").Logger()}
}

func (b *RedisEventBus) Publish(ctx context.Context, userID string, ev InterviewEvent) {
	payload, err := json.Marshal(ev)
	if err != nil {
		b.log.Error().Err(err).Msg("Failed to marshal interview event")
		return
	}
	if err := b.rdb.Publish(ctx, config.CacheKey.InterviewEventsChannel(userID), payload).Err(); err != nil {
		b.log.Warn().Err(err).Str("user_id", userID).Str("type", string(ev.Type)).Msg("Failed to publish interview event")
	}
}

// Subscribe opens a subscription to a user's events. The caller must close it.
func (b *RedisEventBus) Subscribe(ctx context.Context, userID string) *redis.PubSub {
	return b.rdb.Subscribe(ctx, config.CacheKey.InterviewEventsChannel(userID))
}
