package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
)

var (
	ErrLockNotAcquired = errors.New("ロックを取得できませんでした")
	ErrLockNotOwned    = errors.New("ロックの所有者ではありません")
)

var releaseScript = redis.NewScript(`
	if redis.call("GET", KEYS[1]) == ARGV[1] then
		return redis.call("DEL", KEYS[1])
	else
		return 0
	end
`)

var extendScript = redis.NewScript(`
	if redis.call("GET", KEYS[1]) == ARGV[1] then
		return redis.call("PEXPIRE", KEYS[1], ARGV[2])
	else
		return 0
	end
`)

// SeatLockKey はイベント・座席単位のロックキーを返す
func SeatLockKey(eventID, seatID int64) string {
	return fmt.Sprintf("booking:event:%d:seat:%d", eventID, seatID)
}

// DistributedLock は Redis を使用した分散ロック
type DistributedLock struct {
	client   *redis.Client
	key      string
	value    string
	ttl      time.Duration
	duration *prometheus.HistogramVec
}

// LockManager は分散ロックを管理する
type LockManager struct {
	client   *redis.Client
	duration *prometheus.HistogramVec
}

// NewLockManager は LockManager を作成する。duration は nil でもよい
func NewLockManager(client *redis.Client, duration *prometheus.HistogramVec) *LockManager {
	return &LockManager{client: client, duration: duration}
}

// AcquireLock はロックを取得する
func (m *LockManager) AcquireLock(ctx context.Context, key string, ttl time.Duration) (*DistributedLock, error) {
	start := time.Now()
	lockKey := fmt.Sprintf("lock:%s", key)
	lockValue := uuid.New().String()

	// SetNX を使用してロックを取得（キーが存在しない場合のみ設定）
	ok, err := m.client.SetNX(ctx, lockKey, lockValue, ttl).Result()
	if err != nil {
		observe(m.duration, "acquire", "failed", start)
		return nil, fmt.Errorf("ロック取得に失敗: %w", err)
	}
	if !ok {
		observe(m.duration, "acquire", "failed", start)
		return nil, ErrLockNotAcquired
	}
	observe(m.duration, "acquire", "success", start)

	return &DistributedLock{
		client:   m.client,
		key:      lockKey,
		value:    lockValue,
		ttl:      ttl,
		duration: m.duration,
	}, nil
}

// AcquireLockWithRetry はリトライ付きでロックを取得する
func (m *LockManager) AcquireLockWithRetry(ctx context.Context, key string, ttl time.Duration, maxRetries int, retryDelay time.Duration) (*DistributedLock, error) {
	var lastErr error
	for i := 0; i < maxRetries; i++ {
		lock, err := m.AcquireLock(ctx, key, ttl)
		if err == nil {
			return lock, nil
		}
		lastErr = err
		if !errors.Is(err, ErrLockNotAcquired) {
			return nil, err
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(retryDelay):
		}
	}
	return nil, lastErr
}

// Release はロックを解放する（Lua スクリプトで所有者確認と削除をアトミックに実行）
func (l *DistributedLock) Release(ctx context.Context) error {
	start := time.Now()
	result, err := releaseScript.Run(ctx, l.client, []string{l.key}, l.value).Int()
	if err != nil {
		observe(l.duration, "release", "failed", start)
		return fmt.Errorf("ロック解放に失敗: %w", err)
	}
	if result == 0 {
		observe(l.duration, "release", "failed", start)
		return ErrLockNotOwned
	}
	observe(l.duration, "release", "success", start)
	return nil
}

// Extend はロックの有効期限を延長する
func (l *DistributedLock) Extend(ctx context.Context, ttl time.Duration) error {
	result, err := extendScript.Run(ctx, l.client, []string{l.key}, l.value, ttl.Milliseconds()).Int()
	if err != nil {
		return fmt.Errorf("ロック延長に失敗: %w", err)
	}
	if result == 0 {
		return ErrLockNotOwned
	}
	l.ttl = ttl
	return nil
}

// Key はロックキーを返す
func (l *DistributedLock) Key() string {
	return l.key
}

func observe(h *prometheus.HistogramVec, operation, status string, start time.Time) {
	if h == nil {
		return
	}
	h.WithLabelValues(operation, status).Observe(time.Since(start).Seconds())
}

const (
	seatLockTTL        = 10 * time.Second
	seatLockRetries    = 3
	seatLockRetryDelay = 100 * time.Millisecond
)

// LockSeat はイベント・座席単位のロックを取得し、解放関数を返す
func (m *LockManager) LockSeat(ctx context.Context, eventID, seatID int64) (func(), error) {
	lock, err := m.AcquireLockWithRetry(ctx, SeatLockKey(eventID, seatID), seatLockTTL, seatLockRetries, seatLockRetryDelay)
	if err != nil {
		return nil, err
	}
	return func() {
		// リクエストがキャンセルされても解放は行う
		_ = lock.Release(context.WithoutCancel(ctx))
	}, nil
}
