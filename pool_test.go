package cadence

import (
	"testing"
	"time"
)

func TestPoolAcquireAllocatesWhenEmpty(t *testing.T) {
	pool := NewPool[float64](2)
	anim := &constAnim{To: 1, Duration: time.Second}
	inst := pool.Acquire(anim)
	if inst == nil {
		t.Fatalf("Acquire() returned nil")
	}
	if pool.Len() != 0 {
		t.Fatalf("Len() = %d, want 0 (nothing released yet)", pool.Len())
	}
}

func TestPoolReusesReleasedSlotAndBumpsRunCount(t *testing.T) {
	pool := NewPool[float64](1)
	anim1 := &constAnim{To: 1, Duration: time.Second}
	inst1 := pool.Acquire(anim1).(*animInstance[float64])
	firstRun := inst1.RunCount()

	inst1.recycle(nil)
	if pool.Len() != 1 {
		t.Fatalf("Len() after recycle = %d, want 1", pool.Len())
	}

	anim2 := &constAnim{To: 5, Duration: 2 * time.Second}
	inst2 := pool.Acquire(anim2).(*animInstance[float64])

	if inst1 != inst2 {
		t.Fatalf("Acquire() did not reuse the released slot")
	}
	if inst2.RunCount() != firstRun+1 {
		t.Fatalf("RunCount() = %d, want %d", inst2.RunCount(), firstRun+1)
	}
	if inst2.weightSource != nil {
		t.Fatalf("reused instance carried over a stale weightSource")
	}
	if inst2.chainRef != nil || inst2.parent != nil {
		t.Fatalf("reused instance carried over stale chain/parent references")
	}
}

func TestPoolAcquireResetsPerPlaybackFields(t *testing.T) {
	pool := NewPool[float64](1)
	anim1 := &constAnim{To: 1, Duration: time.Second}
	inst1 := pool.Acquire(anim1).(*animInstance[float64])
	inst1.SetWeight(0.2)
	inst1.SetSpeed(2)
	inst1.SetPaused(true)
	inst1.SetAutoRecycle(false)
	inst1.weightSource = func() float32 { return 1 }
	inst1.recycle(nil)

	anim2 := &constAnim{To: 1, Duration: time.Second}
	inst2 := pool.Acquire(anim2).(*animInstance[float64])

	if inst2.Weight() != 1 || inst2.Speed() != 1 || inst2.IsPaused() || !inst2.AutoRecycle() {
		t.Fatalf("reused instance did not reset to default per-playback fields: weight=%v speed=%v paused=%v auto=%v",
			inst2.Weight(), inst2.Speed(), inst2.IsPaused(), inst2.AutoRecycle())
	}
}
