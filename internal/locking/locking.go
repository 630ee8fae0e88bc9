// Package locking serializes work on a single key, across processes when Redis is configured.
package locking

import (
	"context"
	"errors"
	"time"
)

// ErrLockTimeout is returned when a key stays held past the caller's wait budget.
var ErrLockTimeout = errors.New("timed out waiting for lock")

// UnlockFunc releases a held key.
type UnlockFunc func(ctx context.Context) error

// Locker grants exclusive access to a key.
type Locker interface {
	Lock(ctx context.Context, key string) (UnlockFunc, error)
}

// Default timings
const (
	DefaultTTL        = 30 * time.Second
	DefaultRetryDelay = 50 * time.Millisecond
)

// CandidateKey returns the lock key for a candidate record.
func CandidateKey(id string) string {
	return "lock:candidate:" + id
}
