// Package progress 提供进度跟踪器单元测试
package progress

import (
	"context"
	"testing"
)

// ========== Tracker 测试 ==========

func TestTracker_UpdateAndGet(t *testing.T) {
	tracker := NewTracker(nil)
	ctx := context.Background()

	tracker.Update(ctx, "run-1", "running", 40, 4, 10)

	st, ok := tracker.Get(ctx, "run-1")
	if !ok {
		t.Fatal("Get() returned not found after Update")
	}
	if st.Progress != 40 || st.Completed != 4 || st.Total != 10 {
		t.Errorf("Get() = %d/%d/%d, want 40/4/10", st.Progress, st.Completed, st.Total)
	}
	if st.Status != "running" {
		t.Errorf("Get() status = %s", st.Status)
	}
}

func TestTracker_GetMissing(t *testing.T) {
	tracker := NewTracker(nil)
	if _, ok := tracker.Get(context.Background(), "missing"); ok {
		t.Error("Get() found a run that was never tracked")
	}
}

func TestTracker_Cancel(t *testing.T) {
	tracker := NewTracker(nil)
	ctx := context.Background()

	if tracker.IsCancelled(ctx, "run-1") {
		t.Error("IsCancelled() true before Cancel")
	}

	tracker.Cancel(ctx, "run-1")
	if !tracker.IsCancelled(ctx, "run-1") {
		t.Error("IsCancelled() false after Cancel")
	}

	// 其他运行不受影响
	if tracker.IsCancelled(ctx, "run-2") {
		t.Error("IsCancelled() leaked to another run")
	}
}

func TestTracker_Clear(t *testing.T) {
	tracker := NewTracker(nil)
	ctx := context.Background()

	tracker.Update(ctx, "run-1", "running", 50, 5, 10)
	tracker.Cancel(ctx, "run-1")
	tracker.Clear(ctx, "run-1")

	if _, ok := tracker.Get(ctx, "run-1"); ok {
		t.Error("Get() found run after Clear")
	}
	if tracker.IsCancelled(ctx, "run-1") {
		t.Error("IsCancelled() true after Clear")
	}
}
