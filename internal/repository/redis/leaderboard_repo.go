package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	LeaderboardKey     = "reputation:leaderboard" // ZSET member=userID score=reputation
	LeaderboardTTL     = 10 * time.Minute
	LeaderboardLock    = "lock:reputation:leaderboard"
	LeaderboardLockTTL = 300 * time.Millisecond
)

// LeaderboardRepository 声望榜缓存。写路径在声望变更提交后调用 BumpScore；
// 读路径 miss 时由持锁的请求回源 MySQL 重建。
type LeaderboardRepository struct{}

type LeaderboardEntry struct {
	UserID     uint64
	Reputation int64
}

// BumpScore 增量更新榜单分数；榜单不存在时不创建，交给读侧重建
func (r *LeaderboardRepository) BumpScore(ctx context.Context, userID uint64, delta int64) error {
	exists, err := Client.Exists(ctx, LeaderboardKey).Result()
	if err != nil || exists == 0 {
		return err
	}
	if err := Client.ZIncrBy(ctx, LeaderboardKey, float64(delta), fmt.Sprintf("%d", userID)).Err(); err != nil {
		return err
	}
	return Client.Expire(ctx, LeaderboardKey, LeaderboardTTL).Err()
}

// TopCached 读缓存；ok=false 表示榜单不在（过期或从未建过）
func (r *LeaderboardRepository) TopCached(ctx context.Context, limit int) ([]LeaderboardEntry, bool, error) {
	exists, err := Client.Exists(ctx, LeaderboardKey).Result()
	if err != nil {
		return nil, false, err
	}
	if exists == 0 {
		return nil, false, nil
	}
	zs, err := Client.ZRevRangeWithScores(ctx, LeaderboardKey, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, false, err
	}
	out := make([]LeaderboardEntry, 0, len(zs))
	for _, z := range zs {
		var uid uint64
		if _, err := fmt.Sscanf(z.Member.(string), "%d", &uid); err != nil {
			continue
		}
		out = append(out, LeaderboardEntry{UserID: uid, Reputation: int64(z.Score)})
	}
	return out, true, nil
}

// Rebuild 整榜覆盖写，回源成功后调用
func (r *LeaderboardRepository) Rebuild(ctx context.Context, entries []LeaderboardEntry) error {
	members := make([]redis.Z, 0, len(entries))
	for _, e := range entries {
		members = append(members, redis.Z{Score: float64(e.Reputation), Member: fmt.Sprintf("%d", e.UserID)})
	}
	pipe := Client.TxPipeline()
	pipe.Del(ctx, LeaderboardKey)
	if len(members) > 0 {
		pipe.ZAdd(ctx, LeaderboardKey, members...)
	}
	pipe.Expire(ctx, LeaderboardKey, LeaderboardTTL)
	_, err := pipe.Exec(ctx)
	return err
}

// Delete 删掉榜单，交给读侧重建
func (r *LeaderboardRepository) Delete(ctx context.Context) error {
	if err := Client.Del(ctx, LeaderboardKey).Err(); err != nil && !errors.Is(err, redis.Nil) {
		return err
	}
	return nil
}

// DistLock 重建榜单时防缓存击穿的分布式锁
type DistLock struct{}

// Acquire 请求加分布式锁
func (l *DistLock) Acquire(ctx context.Context, token string) (bool, error) {
	return Client.SetNX(ctx, LeaderboardLock, token, LeaderboardLockTTL).Result()
}

// Release 用lua保证原子性
func (l *DistLock) Release(ctx context.Context, token string) error {
	_, err := redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
  return redis.call("del", KEYS[1])
else
  return 0
end`).Run(ctx, Client, []string{LeaderboardLock}, token).Result()
	return err
}
