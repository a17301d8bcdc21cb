package publisher

import (
	"context"
	"encoding/json"
	"time"

	"loan-ledger-service/internal/domain/event"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const publishTimeout = 2 * time.Second

// RedisPublisher fans domain events out on a Redis pub/sub channel.
type RedisPublisher struct {
	rdb     *redis.Client
	channel string
	log     *zap.Logger
}

func NewRedisPublisher(rdb *redis.Client, channel string, log *zap.Logger) *RedisPublisher {
	if log == nil {
		log = zap.NewNop()
	}
	return &RedisPublisher{rdb: rdb, channel: channel, log: log}
}

func (p *RedisPublisher) Publish(ctx context.Context, e event.Event) {
	if e.OccurredAt.IsZero() {
		e.OccurredAt = time.Now().UTC()
	}
	payload, err := json.Marshal(e)
	if err != nil {
		p.log.Warn("event encode failed", zap.String("type", string(e.Type)), zap.Error(err))
		return
	}
	// detached from the request: the caller may already be writing its response
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()
	if err := p.rdb.Publish(ctx, p.channel, payload).Err(); err != nil {
		p.log.Warn("event publish failed",
			zap.String("type", string(e.Type)),
			zap.String("loan_id", e.LoanID),
			zap.Error(err))
	}
}
