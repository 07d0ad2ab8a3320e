package redis_repo

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// CommandRepo 記錄已處理過的命令 id
type CommandRepo struct {
	cache *redis.Client
	ttl   time.Duration
}

func NewCommandRepo(cache *redis.Client, ttl time.Duration) *CommandRepo {
	if cache == nil {
		panic("command repo requires redis client")
	}
	return &CommandRepo{cache: cache, ttl: ttl}
}

func generateCommandKey(cmdType, cmdID string) string {
	return fmt.Sprintf("command:%s:%s", cmdType, cmdID)
}

// MarkProcessed 第一次標記回傳 true, 重複的 id 回傳 false
func (r *CommandRepo) MarkProcessed(ctx context.Context, cmdType, cmdID string) (bool, error) {
	ok, err := r.cache.SetNX(ctx, generateCommandKey(cmdType, cmdID), time.Now().Unix(), r.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to mark command %s: %w", cmdID, err)
	}
	return ok, nil
}
