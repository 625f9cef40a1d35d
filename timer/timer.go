// timer/timer.go
package timer

import (
	"math"
	"sync"
	"time"
)

// countdown is one room's running round timer.
type countdown struct {
	total     int
	expiresAt time.Time
	stop      chan struct{}
	stopOnce  sync.Once
}

func (c *countdown) cancel() {
	c.stopOnce.Do(func() { close(c.stop) })
}

// Manager owns at most one countdown per room, stored in an arena keyed by
// room ID so cancellation is O(1) and never relies on closures over room
// state. Starting a countdown for a room always supersedes the previous
// one; a superseded countdown emits no further ticks.
type Manager struct {
	mutex      sync.Mutex
	countdowns map[string]*countdown
}

func NewManager() *Manager {
	return &Manager{
		countdowns: make(map[string]*countdown),
	}
}

// Start begins a countdown of totalSeconds for the room, cancelling any
// countdown already running for it. onTick(remaining, total) fires
// immediately with (total, total) from the calling goroutine, then once per
// second from a background goroutine as remaining decreases. When remaining
// hits zero the countdown removes itself and fires onExpire exactly once.
func (m *Manager) Start(roomID string, totalSeconds int, onTick func(remaining, total int), onExpire func()) {
	if totalSeconds <= 0 {
		return
	}

	cd := &countdown{
		total:     totalSeconds,
		expiresAt: time.Now().Add(time.Duration(totalSeconds) * time.Second),
		stop:      make(chan struct{}),
	}

	m.mutex.Lock()
	if prev, exists := m.countdowns[roomID]; exists {
		prev.cancel()
	}
	m.countdowns[roomID] = cd
	m.mutex.Unlock()

	onTick(totalSeconds, totalSeconds)

	go m.run(roomID, cd, onTick, onExpire)
}

func (m *Manager) run(roomID string, cd *countdown, onTick func(remaining, total int), onExpire func()) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-cd.stop:
			return
		case now := <-ticker.C:
			// Re-check: a cancel may have raced the tick.
			select {
			case <-cd.stop:
				return
			default:
			}

			remaining := remainingSeconds(cd.expiresAt, now)
			onTick(remaining, cd.total)
			if remaining > 0 {
				continue
			}

			m.remove(roomID, cd)
			onExpire()
			return
		}
	}
}

// remainingSeconds computes the whole seconds left until expiry, rounded
// up, never negative.
func remainingSeconds(expiresAt, now time.Time) int {
	left := int(math.Ceil(expiresAt.Sub(now).Seconds()))
	if left < 0 {
		return 0
	}
	return left
}

// Cancel stops the room's countdown if one is running. Idempotent; called
// on supersession, before a new round and during room teardown.
func (m *Manager) Cancel(roomID string) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if cd, exists := m.countdowns[roomID]; exists {
		cd.cancel()
		delete(m.countdowns, roomID)
	}
}

// Active reports whether a countdown is currently running for the room.
func (m *Manager) Active(roomID string) bool {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	_, exists := m.countdowns[roomID]
	return exists
}

// remove drops the countdown from the arena only if it is still the
// current one for the room; a newer countdown must not be displaced by an
// expiring predecessor.
func (m *Manager) remove(roomID string, cd *countdown) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if current, exists := m.countdowns[roomID]; exists && current == cd {
		delete(m.countdowns, roomID)
	}
}
