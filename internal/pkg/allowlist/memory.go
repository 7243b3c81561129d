package allowlist

import (
	"context"
	"sync"
	"time"
)

// ManualClock is a clock that only moves when told to.
type ManualClock struct {
	mu  sync.Mutex
	now time.Time
}

func NewManualClock(start time.Time) *ManualClock {
	return &ManualClock{now: start}
}

func (c *ManualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *ManualClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

type memoryItem struct {
	value     string
	entry     *TenantEntry
	set       map[string]struct{}
	expiresAt time.Time
}

// Memory is an in-process Store whose expiry follows an injected clock.
type Memory struct {
	mu    sync.Mutex
	now   func() time.Time
	items map[string]*memoryItem
}

// NewMemory returns an empty store. A nil now uses time.Now.
func NewMemory(now func() time.Time) *Memory {
	if now == nil {
		now = time.Now
	}
	return &Memory{now: now, items: make(map[string]*memoryItem)}
}

// live returns the item at key, evicting it when expired. Caller holds mu.
func (m *Memory) live(key string) *memoryItem {
	item, ok := m.items[key]
	if !ok {
		return nil
	}
	if !item.expiresAt.IsZero() && !m.now().Before(item.expiresAt) {
		delete(m.items, key)
		return nil
	}
	return item
}

func (m *Memory) del(key string) int {
	if m.live(key) == nil {
		return 0
	}
	delete(m.items, key)
	return 1
}

func (m *Memory) PutGlobal(_ context.Context, jti, userID string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[globalKey(jti)] = &memoryItem{value: userID, expiresAt: m.now().Add(ttl)}
	return nil
}

func (m *Memory) GetGlobalUserID(_ context.Context, jti string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if item := m.live(globalKey(jti)); item != nil {
		return item.value, nil
	}
	return "", nil
}

func (m *Memory) RevokeGlobal(_ context.Context, jti string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.del(globalKey(jti))
	return nil
}

func (m *Memory) PutTenant(_ context.Context, jti string, entry TenantEntry, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := entry
	m.items[tenantKey(jti)] = &memoryItem{entry: &stored, expiresAt: m.now().Add(ttl)}
	return nil
}

func (m *Memory) GetTenant(_ context.Context, jti string) (*TenantEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	item := m.live(tenantKey(jti))
	if item == nil || item.entry == nil {
		return nil, nil
	}
	if err := item.entry.Validate(); err != nil {
		return nil, err
	}
	out := *item.entry
	return &out, nil
}

func (m *Memory) RevokeTenant(_ context.Context, jti string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.del(tenantKey(jti))
	return nil
}

func (m *Memory) TrackUserGlobalJTI(_ context.Context, userID, jti string, ttl time.Duration) error {
	m.track(userGlobalIndexKey(userID), jti, ttl)
	return nil
}

func (m *Memory) TrackTenantUserJTI(_ context.Context, tenantID, userID, jti string, ttl time.Duration) error {
	m.track(tenantUserIndexKey(tenantID, userID), jti, ttl)
	return nil
}

func (m *Memory) track(key, jti string, ttl time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	want := now.Add(ttl + IndexGrace)
	item := m.live(key)
	if item == nil {
		item = &memoryItem{set: make(map[string]struct{})}
		m.items[key] = item
	}
	item.set[jti] = struct{}{}
	if item.expiresAt.IsZero() || item.expiresAt.Before(want) {
		item.expiresAt = want
	}
}

func (m *Memory) RevokeAllGlobalForUser(_ context.Context, userID string) (int, error) {
	return m.revokeIndexed(userGlobalIndexKey(userID), globalKey), nil
}

func (m *Memory) RevokeAllTenantForUser(_ context.Context, tenantID, userID string) (int, error) {
	return m.revokeIndexed(tenantUserIndexKey(tenantID, userID), tenantKey), nil
}

func (m *Memory) revokeIndexed(indexKey string, entryKey func(string) string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	item := m.live(indexKey)
	if item == nil || len(item.set) == 0 {
		delete(m.items, indexKey)
		return 0
	}
	removed := 0
	for jti := range item.set {
		removed += m.del(entryKey(jti))
	}
	delete(m.items, indexKey)
	return removed + 1
}

// TTL reports the remaining lifetime of key: -2 when absent, -1 without expiry.
func (m *Memory) TTL(key string) time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	item := m.live(key)
	switch {
	case item == nil:
		return -2
	case item.expiresAt.IsZero():
		return -1
	}
	return item.expiresAt.Sub(m.now())
}
