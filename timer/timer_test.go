package timer

import (
	"sync"
	"testing"
	"time"
)

// tickRecorder collects tick and expiry callbacks across goroutines.
type tickRecorder struct {
	mutex   sync.Mutex
	ticks   [][2]int
	expires int
}

func (r *tickRecorder) onTick(remaining, total int) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.ticks = append(r.ticks, [2]int{remaining, total})
}

func (r *tickRecorder) onExpire() {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.expires++
}

func (r *tickRecorder) snapshot() ([][2]int, int) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	return append([][2]int(nil), r.ticks...), r.expires
}

func TestManager_ImmediateTick(t *testing.T) {
	m := NewManager()
	rec := &tickRecorder{}

	m.Start("room1", 60, rec.onTick, rec.onExpire)
	defer m.Cancel("room1")

	ticks, _ := rec.snapshot()
	if len(ticks) != 1 {
		t.Fatalf("Expected exactly the immediate tick, got %d ticks", len(ticks))
	}
	if ticks[0] != [2]int{60, 60} {
		t.Errorf("Expected immediate tick (60, 60), got %v", ticks[0])
	}
	if !m.Active("room1") {
		t.Error("A started countdown should be active")
	}
}

func TestManager_CancelStopsTicks(t *testing.T) {
	m := NewManager()
	rec := &tickRecorder{}

	m.Start("room2", 60, rec.onTick, rec.onExpire)
	m.Cancel("room2")

	if m.Active("room2") {
		t.Fatal("A cancelled countdown should not be active")
	}

	time.Sleep(1200 * time.Millisecond)

	ticks, expires := rec.snapshot()
	if len(ticks) != 1 {
		t.Errorf("Expected no ticks after cancel, got %d extra", len(ticks)-1)
	}
	if expires != 0 {
		t.Error("A cancelled countdown must not expire")
	}

	// Cancel is idempotent.
	m.Cancel("room2")
}

func TestManager_ExpiryFiresOnce(t *testing.T) {
	m := NewManager()
	rec := &tickRecorder{}

	m.Start("room3", 1, rec.onTick, rec.onExpire)

	time.Sleep(1500 * time.Millisecond)

	ticks, expires := rec.snapshot()
	if expires != 1 {
		t.Fatalf("Expected exactly one expiry, got %d", expires)
	}
	if m.Active("room3") {
		t.Error("An expired countdown should remove itself")
	}

	last := ticks[len(ticks)-1]
	if last[0] != 0 {
		t.Errorf("Expected the final tick to report 0 remaining, got %d", last[0])
	}
	for i := 1; i < len(ticks); i++ {
		if ticks[i][0] >= ticks[i-1][0] {
			t.Errorf("Expected remaining to strictly decrease, got %v then %v", ticks[i-1], ticks[i])
		}
	}
}

func TestManager_StartSupersedesPrevious(t *testing.T) {
	m := NewManager()
	first := &tickRecorder{}
	second := &tickRecorder{}

	m.Start("room4", 60, first.onTick, first.onExpire)
	m.Start("room4", 1, second.onTick, second.onExpire)

	time.Sleep(1500 * time.Millisecond)

	_, firstExpires := first.snapshot()
	firstTicks, _ := first.snapshot()
	if len(firstTicks) != 1 || firstExpires != 0 {
		t.Error("A superseded countdown must emit no further ticks and never expire")
	}

	_, secondExpires := second.snapshot()
	if secondExpires != 1 {
		t.Errorf("Expected the superseding countdown to expire once, got %d", secondExpires)
	}
}

func TestManager_IndependentRooms(t *testing.T) {
	m := NewManager()
	rec := &tickRecorder{}

	m.Start("room5", 60, rec.onTick, rec.onExpire)
	m.Start("room6", 60, rec.onTick, rec.onExpire)
	m.Cancel("room5")

	if m.Active("room5") {
		t.Error("room5 should be cancelled")
	}
	if !m.Active("room6") {
		t.Error("room6 should be unaffected by cancelling room5")
	}
	m.Cancel("room6")
}

func TestRemainingSeconds(t *testing.T) {
	now := time.Now()

	if got := remainingSeconds(now.Add(2500*time.Millisecond), now); got != 3 {
		t.Errorf("Expected 2.5s to round up to 3, got %d", got)
	}
	if got := remainingSeconds(now.Add(-time.Second), now); got != 0 {
		t.Errorf("Expected elapsed expiry to clamp to 0, got %d", got)
	}
}
