// cache — процессный TTL-кэш выдачи провайдера.
//
// Семантика свежести отделена от удаления: Get отдаёт только свежие записи,
// но никогда не удаляет просроченные — они остаются доступны через GetStale
// для деградации при исчерпании квоты. Физически записи удаляет только
// периодический Sweep или явный Clear.
//
// Состояние живёт ровно столько, сколько процесс; долговечность и координация
// между инстансами сознательно не поддерживаются.
package cache

import (
	"sync"
	"time"
)

// entry — неизменяемая запись кэша; перезаписывается целиком, не мутируется.
type entry[V any] struct {
	value    V
	storedAt time.Time
}

// Cache — потокобезопасный TTL-кэш значений типа V.
type Cache[V any] struct {
	mu      sync.RWMutex
	entries map[string]entry[V]

	ttl time.Duration
	now func() time.Time

	sweepOnce sync.Once
	stop      chan struct{}
	done      chan struct{}
}

// Option настраивает кэш при создании.
type Option[V any] func(*Cache[V])

// WithClock подменяет источник времени (для тестов).
func WithClock[V any](now func() time.Time) Option[V] {
	return func(c *Cache[V]) { c.now = now }
}

// New создаёт кэш с заданным TTL свежести.
func New[V any](ttl time.Duration, opts ...Option[V]) *Cache[V] {
	c := &Cache[V]{
		entries: make(map[string]entry[V]),
		ttl:     ttl,
		now:     time.Now,
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Get возвращает значение, если запись есть и свежа (возраст < TTL).
// Просроченная запись считается промахом, но не удаляется.
func (c *Cache[V]) Get(key string) (V, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[key]
	if !ok || c.now().Sub(e.storedAt) >= c.ttl {
		var zero V
		return zero, false
	}

	return e.value, true
}

// GetStale возвращает значение независимо от свежести.
// Используется только путём деградации при отказе в резервировании квоты.
func (c *Cache[V]) GetStale(key string) (V, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[key]
	if !ok {
		var zero V
		return zero, false
	}

	return e.value, true
}

// Set сохраняет значение, перезаписывая прежнюю запись по ключу.
func (c *Cache[V]) Set(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = entry[V]{value: value, storedAt: c.now()}
}

// Clear безусловно удаляет все записи.
func (c *Cache[V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]entry[V])
}

// Len возвращает число записей (включая просроченные).
func (c *Cache[V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.entries)
}

// Sweep — один проход чистки: удаляет записи с возрастом >= TTL.
// Возвращает число удалённых.
func (c *Cache[V]) Sweep() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	removed := 0
	for key, e := range c.entries {
		if now.Sub(e.storedAt) >= c.ttl {
			delete(c.entries, key)
			removed++
		}
	}

	return removed
}

// StartSweep запускает фоновую чистку с заданным интервалом.
// Повторные вызовы игнорируются.
func (c *Cache[V]) StartSweep(interval time.Duration) {
	c.sweepOnce.Do(func() {
		go func() {
			defer close(c.done)

			ticker := time.NewTicker(interval)
			defer ticker.Stop()

			for {
				select {
				case <-c.stop:
					return
				case <-ticker.C:
					c.Sweep()
				}
			}
		}()
	})
}

// StopSweep останавливает фоновую чистку и дожидается выхода горутины.
// Безопасен и без предшествующего StartSweep.
func (c *Cache[V]) StopSweep() {
	select {
	case <-c.stop:
	default:
		close(c.stop)
	}

	c.sweepOnce.Do(func() { close(c.done) })
	<-c.done
}
