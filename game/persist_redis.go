package game

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-redis/redis/v8"
)

// RedisHistoryStore keeps battle logs in redis so they survive the game
// object. Selected with PERSIST_METHOD=redis.
type RedisHistoryStore struct {
	rdclient *redis.Client
}

func NewRedisHistoryStore(redisURL string, redisPW string, redisDB int) *RedisHistoryStore {
	rdclient := redis.NewClient(&redis.Options{
		Addr:     redisURL,
		Password: redisPW,
		DB:       redisDB,
	})
	return &RedisHistoryStore{
		rdclient: rdclient,
	}
}

func historyKey(gameCode string) string {
	return fmt.Sprintf("battlelog:%s", gameCode)
}

func (r *RedisHistoryStore) Append(gameCode string, entry ActionLogEntry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	return r.rdclient.RPush(context.Background(), historyKey(gameCode), data).Err()
}

func (r *RedisHistoryStore) Load(gameCode string) ([]ActionLogEntry, error) {
	items, err := r.rdclient.LRange(context.Background(), historyKey(gameCode), 0, -1).Result()
	if err != nil {
		return nil, err
	}
	entries := make([]ActionLogEntry, 0, len(items))
	for _, item := range items {
		var entry ActionLogEntry
		if err := json.Unmarshal([]byte(item), &entry); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func (r *RedisHistoryStore) Remove(gameCode string) error {
	return r.rdclient.Del(context.Background(), historyKey(gameCode)).Err()
}
