package monitor

import (
	"sync"
	"time"

	"livebet/internal/models"
)

// cacheEntry - снимок матча с отметкой последнего обновления
type cacheEntry struct {
	snapshot models.MatchSnapshot
	seenAt   time.Time
}

// SnapshotCache - in-memory кэш последних известных состояний матчей.
//
// Кэш является единственным источником "предыдущего" состояния для
// детектора изменений. Завершённые матчи вытесняются сразу после
// обработки финального тика, а записи, не обновлявшиеся дольше TTL
// (матч выпал из live-выдачи провайдера), удаляются фоновой очисткой.
type SnapshotCache struct {
	mu      sync.RWMutex
	entries map[int]cacheEntry
	ttl     time.Duration

	// now подменяется в тестах
	now func() time.Time
}

// NewSnapshotCache создает кэш с заданным TTL записей
func NewSnapshotCache(ttl time.Duration) *SnapshotCache {
	return &SnapshotCache{
		entries: make(map[int]cacheEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Get возвращает предыдущий снимок матча
func (c *SnapshotCache) Get(fixtureID int) (models.MatchSnapshot, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[fixtureID]
	return entry.snapshot, ok
}

// Put безусловно заменяет снимок матча текущим.
// Замена происходит даже без изменения счёта: обновляются минута и статус.
func (c *SnapshotCache) Put(snapshot models.MatchSnapshot) {
	c.mu.Lock()
	c.entries[snapshot.FixtureID] = cacheEntry{
		snapshot: snapshot,
		seenAt:   c.now(),
	}
	c.mu.Unlock()
}

// Delete удаляет матч из кэша (вытеснение по финальному статусу)
func (c *SnapshotCache) Delete(fixtureID int) {
	c.mu.Lock()
	delete(c.entries, fixtureID)
	c.mu.Unlock()
}

// Len возвращает количество матчей в кэше
func (c *SnapshotCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Snapshots возвращает копию всех снимков (для полного обновления клиентов)
func (c *SnapshotCache) Snapshots() []models.MatchSnapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]models.MatchSnapshot, 0, len(c.entries))
	for _, entry := range c.entries {
		out = append(out, entry.snapshot)
	}
	return out
}

// Sweep удаляет записи, не обновлявшиеся дольше TTL.
// Возвращает количество вытесненных записей.
func (c *SnapshotCache) Sweep() int {
	deadline := c.now().Add(-c.ttl)

	c.mu.Lock()
	defer c.mu.Unlock()

	evicted := 0
	for id, entry := range c.entries {
		if entry.seenAt.Before(deadline) {
			delete(c.entries, id)
			evicted++
		}
	}
	return evicted
}
