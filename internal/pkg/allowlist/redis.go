package allowlist

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis stores the allowlist in Redis: global entries as strings, tenant
// entries as hashes, reverse indexes as sets.
type Redis struct {
	rdb redis.Cmdable
}

func NewRedis(rdb redis.Cmdable) *Redis {
	return &Redis{rdb: rdb}
}

func (s *Redis) PutGlobal(ctx context.Context, jti, userID string, ttl time.Duration) error {
	return s.rdb.Set(ctx, globalKey(jti), userID, ttl).Err()
}

func (s *Redis) GetGlobalUserID(ctx context.Context, jti string) (string, error) {
	val, err := s.rdb.Get(ctx, globalKey(jti)).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	return val, err
}

func (s *Redis) RevokeGlobal(ctx context.Context, jti string) error {
	return s.rdb.Del(ctx, globalKey(jti)).Err()
}

func (s *Redis) PutTenant(ctx context.Context, jti string, entry TenantEntry, ttl time.Duration) error {
	key := tenantKey(jti)
	pipe := s.rdb.TxPipeline()
	pipe.HSet(ctx, key,
		"userId", entry.UserID,
		"tenantId", entry.TenantID,
		"role", entry.Role,
		"status", entry.Status,
	)
	pipe.Expire(ctx, key, ttl)
	_, err := pipe.Exec(ctx)
	return err
}

func (s *Redis) GetTenant(ctx context.Context, jti string) (*TenantEntry, error) {
	fields, err := s.rdb.HGetAll(ctx, tenantKey(jti)).Result()
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, nil
	}
	entry := TenantEntry{
		UserID:   fields["userId"],
		TenantID: fields["tenantId"],
		Role:     fields["role"],
		Status:   fields["status"],
	}
	if err := entry.Validate(); err != nil {
		return nil, fmt.Errorf("jti %s: %w", jti, err)
	}
	return &entry, nil
}

func (s *Redis) RevokeTenant(ctx context.Context, jti string) error {
	return s.rdb.Del(ctx, tenantKey(jti)).Err()
}

func (s *Redis) TrackUserGlobalJTI(ctx context.Context, userID, jti string, ttl time.Duration) error {
	return s.track(ctx, userGlobalIndexKey(userID), jti, ttl)
}

func (s *Redis) TrackTenantUserJTI(ctx context.Context, tenantID, userID, jti string, ttl time.Duration) error {
	return s.track(ctx, tenantUserIndexKey(tenantID, userID), jti, ttl)
}

// track adds jti to the index and only ever extends the index TTL.
func (s *Redis) track(ctx context.Context, key, jti string, ttl time.Duration) error {
	current, err := s.rdb.TTL(ctx, key).Result()
	if err != nil {
		return err
	}
	if err := s.rdb.SAdd(ctx, key, jti).Err(); err != nil {
		return err
	}
	want := ttl + IndexGrace
	if current < want {
		return s.rdb.Expire(ctx, key, want).Err()
	}
	return nil
}

func (s *Redis) RevokeAllGlobalForUser(ctx context.Context, userID string) (int, error) {
	return s.revokeIndexed(ctx, userGlobalIndexKey(userID), globalKey)
}

func (s *Redis) RevokeAllTenantForUser(ctx context.Context, tenantID, userID string) (int, error) {
	return s.revokeIndexed(ctx, tenantUserIndexKey(tenantID, userID), tenantKey)
}

func (s *Redis) revokeIndexed(ctx context.Context, indexKey string, entryKey func(string) string) (int, error) {
	members, err := s.rdb.SMembers(ctx, indexKey).Result()
	if err != nil {
		return 0, err
	}
	if len(members) == 0 {
		if err := s.rdb.Del(ctx, indexKey).Err(); err != nil {
			return 0, err
		}
		return 0, nil
	}

	pipe := s.rdb.TxPipeline()
	cmds := make([]*redis.IntCmd, 0, len(members)+1)
	for _, jti := range members {
		cmds = append(cmds, pipe.Del(ctx, entryKey(jti)))
	}
	cmds = append(cmds, pipe.Del(ctx, indexKey))
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}

	removed := 0
	for _, cmd := range cmds {
		removed += int(cmd.Val())
	}
	return removed, nil
}
