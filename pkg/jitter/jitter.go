// Package jitter считает паузы между повторными запросами к внешним сервисам,
// чтобы параллельные клиенты не били в upstream синхронно.
package jitter

import (
	"math/rand"
	"sync"
	"time"
)

// DefaultJitter — доля случайной добавки к паузе (50%).
const DefaultJitter = 0.5

var (
	globalRand = rand.New(rand.NewSource(time.Now().UnixNano()))
	randMutex  sync.Mutex
)

// Duration возвращает d с добавкой из диапазона [0, d*jitterFactor].
func Duration(d time.Duration, jitterFactor float64) time.Duration {
	randMutex.Lock()
	extra := globalRand.Float64() * jitterFactor * float64(d)
	randMutex.Unlock()

	return d + time.Duration(extra)
}

// ExponentialBackoff удваивает base на каждую попытку (attempt считается с нуля),
// ограничивает результат значением max и добавляет джиттер.
func ExponentialBackoff(base, max time.Duration, attempt int, jitterFactor float64) time.Duration {
	backoff := base
	for i := 0; i < attempt; i++ {
		backoff *= 2
		if backoff >= max {
			backoff = max
			break
		}
	}

	return Duration(backoff, jitterFactor)
}
