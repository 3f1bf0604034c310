package config

import (
	"sync"

	"github.com/redis/go-redis/v9"
)

// SetRedisClientForTest swaps the singleton for a mock client. Test-only.
func SetRedisClientForTest(client *redis.Client) {
	redisClient = client
}

// ResetRedisClientForTest clears the singleton and re-arms ConnectRedis so a
// test can exercise the connection path again. Test-only.
func ResetRedisClientForTest() {
	redisClient = nil
	redisOnce = sync.Once{}
}
