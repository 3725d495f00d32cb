package redisClient

import "github.com/go-redis/redis"

// InitializeClient connects the Redis client backing the exclusion-set
// caches.
func InitializeClient(host, port string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr: host + ":" + port,
	})
	if err := client.Ping().Err(); err != nil {
		return nil, err
	}
	return client, nil
}
