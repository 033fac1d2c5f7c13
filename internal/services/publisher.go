package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"soultalk-backend/internal/models"
)

// EventPublisher fans out WebSocket events through Redis pub/sub so every
// backend instance can reach the user's open tabs.
type EventPublisher struct {
	redis *redis.Client
}

func NewEventPublisher(redisClient *redis.Client) *EventPublisher {
	return &EventPublisher{redis: redisClient}
}

func (p *EventPublisher) Publish(ctx context.Context, userID uuid.UUID, msg models.WSMessage) {
	if p == nil || p.redis == nil {
		return
	}
	data, _ := json.Marshal(msg)
	p.redis.Publish(ctx, fmt.Sprintf("user_updates:%s", userID.String()), string(data))
}
