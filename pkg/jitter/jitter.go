// Package jitter считает паузы между повторными попытками с экспоненциальным ростом и случайной добавкой,
// чтобы переподключения нескольких экземпляров не совпадали по времени.
package jitter

import (
	"math/rand"
	"sync"
	"time"
)

// DefaultJitter — стандартный коэффициент джиттера (50%)
const DefaultJitter = 0.5

var (
	globalRand = rand.New(rand.NewSource(time.Now().UnixNano()))
	randMutex  sync.Mutex
)

// Duration возвращает d с добавкой в диапазоне [0, d*factor).
func Duration(d time.Duration, factor float64) time.Duration {
	randMutex.Lock()
	f := globalRand.Float64()
	randMutex.Unlock()
	return d + time.Duration(f*factor*float64(d))
}

// ExponentialBackoff возвращает паузу перед попыткой attempt (с нуля): base*2^attempt, не больше max, плюс джиттер.
func ExponentialBackoff(base, max time.Duration, attempt int, factor float64) time.Duration {
	backoff := base
	for i := 0; i < attempt && backoff < max; i++ {
		backoff *= 2
	}
	if backoff > max {
		backoff = max
	}
	return Duration(backoff, factor)
}

// Backoff запоминает номер попытки между вызовами. Не потокобезопасен.
type Backoff struct {
	Base    time.Duration
	Max     time.Duration
	Factor  float64
	attempt int
}

func NewBackoff(base, max time.Duration) *Backoff {
	return &Backoff{Base: base, Max: max, Factor: DefaultJitter}
}

// Next возвращает паузу для очередной попытки и увеличивает счётчик.
func (b *Backoff) Next() time.Duration {
	d := ExponentialBackoff(b.Base, b.Max, b.attempt, b.Factor)
	b.attempt++
	return d
}

// Reset сбрасывает счётчик после успешной попытки.
func (b *Backoff) Reset() {
	b.attempt = 0
}
