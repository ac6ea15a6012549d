// Package progress 提供评估运行进度跟踪,内存为主,Redis 供多实例共享与页面轮询
package progress

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// 进度在 Redis 中的过期时间（24小时）
	runTTL = 24 * time.Hour
	// Redis key 前缀
	runKeyPrefix    = "varbench:run:"
	cancelKeyPrefix = "varbench:cancel:"
)

// Status 一次运行的实时进度
type Status struct {
	RunID     string    `json:"run_id"`
	Status    string    `json:"status"`
	Progress  int       `json:"progress"` // 0-100
	Completed int       `json:"completed"`
	Total     int       `json:"total"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Tracker 进度跟踪器
type Tracker struct {
	mu        sync.RWMutex
	memory    map[string]*Status
	cancelled map[string]bool
	redis     *redis.Client
}

// NewTracker 创建进度跟踪器,redisClient 可为 nil
func NewTracker(redisClient *redis.Client) *Tracker {
	return &Tracker{
		memory:    make(map[string]*Status),
		cancelled: make(map[string]bool),
		redis:     redisClient,
	}
}

// Update 更新运行进度
func (t *Tracker) Update(ctx context.Context, runID, status string, progress, completed, total int) {
	st := &Status{
		RunID:     runID,
		Status:    status,
		Progress:  progress,
		Completed: completed,
		Total:     total,
		UpdatedAt: time.Now(),
	}

	t.mu.Lock()
	t.memory[runID] = st
	t.mu.Unlock()

	if t.redis != nil {
		if data, err := json.Marshal(st); err == nil {
			t.redis.Set(ctx, runKeyPrefix+runID, data, runTTL)
		}
	}
}

// Get 查询运行进度
func (t *Tracker) Get(ctx context.Context, runID string) (*Status, bool) {
	t.mu.RLock()
	st, ok := t.memory[runID]
	t.mu.RUnlock()
	if ok {
		return st, true
	}

	if t.redis != nil {
		data, err := t.redis.Get(ctx, runKeyPrefix+runID).Bytes()
		if err == nil {
			var loaded Status
			if json.Unmarshal(data, &loaded) == nil {
				return &loaded, true
			}
		}
	}
	return nil, false
}

// Cancel 请求取消运行,执行循环在文献之间检查该标记
func (t *Tracker) Cancel(ctx context.Context, runID string) {
	t.mu.Lock()
	t.cancelled[runID] = true
	t.mu.Unlock()

	if t.redis != nil {
		t.redis.Set(ctx, cancelKeyPrefix+runID, "1", runTTL)
	}
}

// IsCancelled 检查运行是否被取消
func (t *Tracker) IsCancelled(ctx context.Context, runID string) bool {
	t.mu.RLock()
	cancelled := t.cancelled[runID]
	t.mu.RUnlock()
	if cancelled {
		return true
	}

	if t.redis != nil {
		if val, err := t.redis.Get(ctx, cancelKeyPrefix+runID).Result(); err == nil && val == "1" {
			return true
		}
	}
	return false
}

// Clear 运行结束后清理进度与取消标记
func (t *Tracker) Clear(ctx context.Context, runID string) {
	t.mu.Lock()
	delete(t.memory, runID)
	delete(t.cancelled, runID)
	t.mu.Unlock()

	if t.redis != nil {
		t.redis.Del(ctx, runKeyPrefix+runID, cancelKeyPrefix+runID)
	}
}
