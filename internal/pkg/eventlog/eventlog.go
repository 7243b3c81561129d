// Package eventlog keeps a short per-user history of domain events in Redis.
package eventlog

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/aben/console/internal/pkg/events"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	keyEvent     = "auth:activity:event:"
	keyUserIndex = "auth:activity:user:" // sorted set: score=occurredAtMs, member=event id
)

// Log is an events.Sink that records events carrying a userId.
type Log struct {
	rdb        redis.Cmdable
	retention  time.Duration
	maxPerUser int
}

func New(rdb redis.Cmdable, retention time.Duration, maxPerUser int) *Log {
	if retention <= 0 {
		retention = 7 * 24 * time.Hour
	}
	if maxPerUser <= 0 {
		maxPerUser = 100
	}
	return &Log{rdb: rdb, retention: retention, maxPerUser: maxPerUser}
}

func (l *Log) Handle(ctx context.Context, e events.Event) error {
	userID := e.UserID()
	if userID == "" {
		return nil
	}
	data, err := json.Marshal(e)
	if err != nil {
		return err
	}

	id := uuid.New().String()
	index := keyUserIndex + userID
	pipe := l.rdb.TxPipeline()
	pipe.Set(ctx, keyEvent+id, data, l.retention)
	pipe.ZAdd(ctx, index, redis.Z{Score: float64(e.OccurredAtMs), Member: id})
	pipe.ZRemRangeByRank(ctx, index, 0, int64(-l.maxPerUser-1))
	pipe.Expire(ctx, index, l.retention)
	_, err = pipe.Exec(ctx)
	return err
}

// List returns up to limit events for userID, newest first.
func (l *Log) List(ctx context.Context, userID string, limit int) ([]events.Event, error) {
	if limit <= 0 || limit > l.maxPerUser {
		limit = l.maxPerUser
	}
	index := keyUserIndex + userID
	ids, err := l.rdb.ZRevRange(ctx, index, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []events.Event{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = keyEvent + id
	}
	values, err := l.rdb.MGet(ctx, keys...).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, err
	}

	out := make([]events.Event, 0, len(values))
	var stale []any
	for i, v := range values {
		s, ok := v.(string)
		if !ok {
			stale = append(stale, ids[i])
			continue
		}
		var e events.Event
		if err := json.Unmarshal([]byte(s), &e); err != nil {
			stale = append(stale, ids[i])
			continue
		}
		out = append(out, e)
	}
	if len(stale) > 0 {
		l.rdb.ZRem(ctx, index, stale...)
	}
	return out, nil
}
