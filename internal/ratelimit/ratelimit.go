// ratelimit — учёт общей квоты запросов к контент-провайдеру.
//
// Алгоритм — журнал скользящего окна: храним метки времени выданных
// резервирований, на каждой проверке отсекаем хвост старше суток и считаем
// два среза одного журнала — за последние 24 часа и за последнюю секунду.
//
// Reserve обязан быть атомарным: проверка обоих потолков и добавление метки
// выполняются под одним мьютексом, иначе два параллельных запроса оба увидят
// «под потолком» и оба займут квоту.
package ratelimit

import (
	"sync"
	"time"
)

// Окна квоты провайдера.
const (
	dailyWindow  = 24 * time.Hour
	secondWindow = time.Second
)

// Config — потолки квоты.
type Config struct {
	// Daily — максимум резервирований в скользящем окне 24 часа.
	Daily int
	// PerSecond — максимум резервирований в скользящем окне 1 секунда.
	PerSecond int
	// Lenient поднимает оба потолка в LenientFactor раз, пока суточный
	// счётчик ниже LenientThreshold. Сам алгоритм не меняется.
	Lenient          bool
	LenientThreshold int
	LenientFactor    int
}

// Reservation — результат попытки занять единицу квоты.
type Reservation struct {
	// Granted — квота занята, можно выполнять запрос к провайдеру.
	// Занятая единица не возвращается, даже если запрос завершится ошибкой:
	// провайдер считает вызов независимо от исхода.
	Granted bool
	// DailyCount — суточный счётчик после попытки (включая её саму при Granted).
	DailyCount int
}

// Stats — снимок состояния квоты, только чтение.
type Stats struct {
	DailyCount     int `json:"daily_count"`
	DailyRemaining int `json:"daily_remaining"`
	DailyLimit     int `json:"daily_limit"`
	PerSecondLimit int `json:"per_second_limit"`
}

// Limiter — процессный учёт квоты; один экземпляр на все вызовы сервиса.
type Limiter struct {
	mu     sync.Mutex
	window []time.Time // отсортирован по возрастанию, обрезается лениво

	cfg Config
	now func() time.Time
}

// Option настраивает лимитер при создании.
type Option func(*Limiter)

// WithClock подменяет источник времени (для тестов).
func WithClock(now func() time.Time) Option {
	return func(l *Limiter) { l.now = now }
}

// New создаёт лимитер с заданными потолками.
func New(cfg Config, opts ...Option) *Limiter {
	l := &Limiter{
		cfg: cfg,
		now: time.Now,
	}

	for _, opt := range opts {
		opt(l)
	}

	return l
}

// Reserve атомарно проверяет оба потолка и, если оба не превышены,
// записывает текущий момент в журнал.
func (l *Limiter) Reserve() Reservation {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.prune(now)

	daily := len(l.window)
	perSecond := l.countSince(now.Add(-secondWindow))

	dailyCap, secondCap := l.effectiveCaps(daily)
	if daily >= dailyCap || perSecond >= secondCap {
		return Reservation{Granted: false, DailyCount: daily}
	}

	l.window = append(l.window, now)

	return Reservation{Granted: true, DailyCount: daily + 1}
}

// Stats возвращает снимок суточного счётчика без резервирования.
func (l *Limiter) Stats() Stats {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.prune(l.now())

	daily := len(l.window)
	remaining := l.cfg.Daily - daily
	if remaining < 0 {
		remaining = 0
	}

	return Stats{
		DailyCount:     daily,
		DailyRemaining: remaining,
		DailyLimit:     l.cfg.Daily,
		PerSecondLimit: l.cfg.PerSecond,
	}
}

// effectiveCaps возвращает действующие потолки с учётом lenient-режима.
func (l *Limiter) effectiveCaps(daily int) (int, int) {
	if l.cfg.Lenient && daily < l.cfg.LenientThreshold {
		return l.cfg.Daily * l.cfg.LenientFactor, l.cfg.PerSecond * l.cfg.LenientFactor
	}

	return l.cfg.Daily, l.cfg.PerSecond
}

// prune отсекает метки старше суточного окна. Вызывается под мьютексом.
func (l *Limiter) prune(now time.Time) {
	cutoff := now.Add(-dailyWindow)

	i := 0
	for i < len(l.window) && !l.window[i].After(cutoff) {
		i++
	}

	if i > 0 {
		l.window = append(l.window[:0:0], l.window[i:]...)
	}
}

// countSince считает метки строго после cutoff. Вызывается под мьютексом.
func (l *Limiter) countSince(cutoff time.Time) int {
	n := 0
	for i := len(l.window) - 1; i >= 0; i-- {
		if !l.window[i].After(cutoff) {
			break
		}
		n++
	}

	return n
}
