// Package event 记录评估任务的生命周期事件
package event

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// EventType 事件类型
type EventType string

const (
	// EventStart 任务开始
	EventStart EventType = "start"
	// EventArticle 单篇文献完成
	EventArticle EventType = "article"
	// EventError 单篇文献失败
	EventError EventType = "error"
	// EventCancelled 任务被取消
	EventCancelled EventType = "cancelled"
	// EventEnd 任务结束
	EventEnd EventType = "end"
)

// Event 评估任务事件
type Event struct {
	ID        string                 `json:"id"`
	RunID     string                 `json:"run_id"`
	EventType EventType              `json:"event_type"`
	PMID      string                 `json:"pmid,omitempty"`
	Data      string                 `json:"data,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

// Store 事件存储接口
type Store interface {
	SaveEvent(ctx context.Context, evt *Event) error
	GetEvents(ctx context.Context, runID string) ([]*Event, error)
	GetEventsByType(ctx context.Context, runID string, eventType EventType) ([]*Event, error)
	ClearEvents(ctx context.Context, runID string) error
}

// Recorder 单个评估任务的事件记录器
type Recorder struct {
	runID string
	store Store
}

// NewRecorder 创建事件记录器
func NewRecorder(runID string, store Store) (*Recorder, error) {
	if runID == "" {
		return nil, fmt.Errorf("runID cannot be empty")
	}

	return &Recorder{
		runID: runID,
		store: store,
	}, nil
}

func (r *Recorder) save(ctx context.Context, evt *Event) error {
	if r.store != nil {
		return r.store.SaveEvent(ctx, evt)
	}
	return nil
}

// OnStart 任务开始时触发
func (r *Recorder) OnStart(ctx context.Context, total int) error {
	return r.save(ctx, &Event{
		ID:        generateEventID(),
		RunID:     r.runID,
		EventType: EventStart,
		Data:      fmt.Sprintf("run started, %d articles", total),
		Timestamp: time.Now(),
		Metadata:  map[string]interface{}{"total": total},
	})
}

// OnArticle 单篇文献完成时触发
func (r *Recorder) OnArticle(ctx context.Context, pmid string) error {
	return r.save(ctx, &Event{
		ID:        generateEventID(),
		RunID:     r.runID,
		EventType: EventArticle,
		PMID:      pmid,
		Data:      "article evaluated",
		Timestamp: time.Now(),
	})
}

// OnError 单篇文献失败时触发
func (r *Recorder) OnError(ctx context.Context, pmid string, err error) error {
	return r.save(ctx, &Event{
		ID:        generateEventID(),
		RunID:     r.runID,
		EventType: EventError,
		PMID:      pmid,
		Data:      fmt.Sprintf("error: %v", err),
		Timestamp: time.Now(),
	})
}

// OnCancelled 任务被取消时触发
func (r *Recorder) OnCancelled(ctx context.Context) error {
	return r.save(ctx, &Event{
		ID:        generateEventID(),
		RunID:     r.runID,
		EventType: EventCancelled,
		Data:      "run cancelled",
		Timestamp: time.Now(),
	})
}

// OnEnd 任务结束时触发
func (r *Recorder) OnEnd(ctx context.Context, status string) error {
	return r.save(ctx, &Event{
		ID:        generateEventID(),
		RunID:     r.runID,
		EventType: EventEnd,
		Data:      fmt.Sprintf("run finished: %s", status),
		Timestamp: time.Now(),
	})
}

// generateEventID 生成事件 ID
func generateEventID() string {
	return "evt_" + uuid.New().String()
}

// ========== MemoryStore ==========

// 每个任务最多保留的事件数,超出后丢弃最早的
const maxEventsPerRun = 1000

// MemoryStore 内存事件存储
type MemoryStore struct {
	mu     sync.RWMutex
	events map[string][]*Event
}

// NewMemoryStore 创建内存事件存储
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		events: make(map[string][]*Event),
	}
}

// SaveEvent 保存事件
func (s *MemoryStore) SaveEvent(ctx context.Context, evt *Event) error {
	if evt == nil || evt.RunID == "" {
		return fmt.Errorf("event must carry a run id")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	list := append(s.events[evt.RunID], evt)
	if len(list) > maxEventsPerRun {
		list = list[len(list)-maxEventsPerRun:]
	}
	s.events[evt.RunID] = list
	return nil
}

// GetEvents 获取任务的全部事件
func (s *MemoryStore) GetEvents(ctx context.Context, runID string) ([]*Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := s.events[runID]
	out := make([]*Event, len(list))
	copy(out, list)
	return out, nil
}

// GetEventsByType 获取任务的特定类型事件
func (s *MemoryStore) GetEventsByType(ctx context.Context, runID string, eventType EventType) ([]*Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*Event
	for _, evt := range s.events[runID] {
		if evt.EventType == eventType {
			out = append(out, evt)
		}
	}
	return out, nil
}

// ClearEvents 清空任务事件
func (s *MemoryStore) ClearEvents(ctx context.Context, runID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.events, runID)
	return nil
}
