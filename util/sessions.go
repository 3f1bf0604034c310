package util

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/isalesbook/system-logger/config"
	"github.com/redis/go-redis/v9"
)

// StoreSession writes a session:<token> -> userID mapping with the given TTL.
// A nil Redis client makes this a no-op so the service keeps working without Redis.
func StoreSession(token string, userID uint, ttl time.Duration) error {
	rdb := config.GetRedisClient()
	if rdb == nil {
		return nil
	}
	ctx := context.Background()
	key := fmt.Sprintf("session:%s", token)
	return rdb.Set(ctx, key, strconv.FormatUint(uint64(userID), 10), ttl).Err()
}

// GetSessionUserID resolves a session token to a user ID via Redis.
// Returns false when Redis is unavailable, the token is unknown, or the
// stored value is malformed.
func GetSessionUserID(token string) (uint, bool) {
	rdb := config.GetRedisClient()
	if rdb == nil || token == "" {
		return 0, false
	}
	ctx := context.Background()
	val, err := rdb.Get(ctx, fmt.Sprintf("session:%s", token)).Result()
	if err == redis.Nil {
		return 0, false
	}
	if err != nil {
		return 0, false
	}
	id, err := strconv.ParseUint(val, 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// DeleteSession removes a session token mapping. Best-effort.
func DeleteSession(token string) error {
	rdb := config.GetRedisClient()
	if rdb == nil {
		return nil
	}
	return rdb.Del(context.Background(), fmt.Sprintf("session:%s", token)).Err()
}
