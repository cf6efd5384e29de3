package ratelimit

import (
	"context"
	"time"
)

// Pacer выдерживает фиксированную паузу между последовательными запросами
// к провайдеру. Используется агрегатором ленты: категории опрашиваются
// строго по очереди, и пауза чуть больше обратной величины секундного
// потолка гарантирует, что серия не упрётся в него.
type Pacer struct {
	interval time.Duration
	sleep    func(ctx context.Context, d time.Duration) error
}

// PacerOption настраивает Pacer при создании.
type PacerOption func(*Pacer)

// WithSleeper подменяет функцию ожидания (для тестов).
func WithSleeper(sleep func(ctx context.Context, d time.Duration) error) PacerOption {
	return func(p *Pacer) { p.sleep = sleep }
}

// NewPacer создаёт Pacer с заданным интервалом.
func NewPacer(interval time.Duration, opts ...PacerOption) *Pacer {
	p := &Pacer{
		interval: interval,
		sleep:    sleepCtx,
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Interval возвращает настроенную паузу.
func (p *Pacer) Interval() time.Duration {
	return p.interval
}

// Wait блокируется на интервал паузы либо до отмены контекста.
func (p *Pacer) Wait(ctx context.Context) error {
	return p.sleep(ctx, p.interval)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
