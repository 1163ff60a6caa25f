package designgen

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"
)

// Ledger tracks generation attempts over a rolling window. Every attempt is
// counted against one or more subjects (a session, a client address).
// Reserve records the entry for all subjects and returns true only while each
// of them is under the limit. A rejected attempt must leave the ledger unchanged.
type Ledger interface {
	Reserve(ctx context.Context, subjects []string, entryID string, now time.Time) (bool, error)
}

type ledgerRecord struct {
	at      time.Time
	subject string
}

// MemoryLedger keeps records in process. Entries older than the window are
// pruned on every call.
type MemoryLedger struct {
	mu      sync.Mutex
	limit   int
	window  time.Duration
	records []ledgerRecord
}

func NewMemoryLedger(limit int, window time.Duration) *MemoryLedger {
	if limit <= 0 {
		limit = DefaultRateLimit
	}
	if window <= 0 {
		window = DefaultWindow
	}
	return &MemoryLedger{limit: limit, window: window}
}

func (l *MemoryLedger) Reserve(_ context.Context, subjects []string, _ string, now time.Time) (bool, error) {
	if len(subjects) == 0 {
		return false, errors.New("ledger subject required")
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	l.pruneLocked(now)
	for _, subject := range subjects {
		if l.countLocked(subject) >= l.limit {
			return false, nil
		}
	}
	for _, subject := range subjects {
		l.records = append(l.records, ledgerRecord{at: now, subject: subject})
	}
	return true, nil
}

// Count returns how many attempts subject has inside the window ending at now.
func (l *MemoryLedger) Count(subject string, now time.Time) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.pruneLocked(now)
	return l.countLocked(subject)
}

func (l *MemoryLedger) pruneLocked(now time.Time) {
	cutoff := now.Add(-l.window)
	kept := l.records[:0]
	for _, rec := range l.records {
		if rec.at.After(cutoff) {
			kept = append(kept, rec)
		}
	}
	l.records = kept
}

func (l *MemoryLedger) countLocked(subject string) int {
	count := 0
	for _, rec := range l.records {
		if rec.subject == subject {
			count++
		}
	}
	return count
}

type windowReserver interface {
	SlidingWindowReserve(ctx context.Context, scopes []string, member string, now time.Time, limit int64, window time.Duration) (bool, int64, error)
}

// RedisLedger shares the window across instances using one sorted set per subject.
type RedisLedger struct {
	client windowReserver
	limit  int
	window time.Duration
}

func NewRedisLedger(client windowReserver, limit int, window time.Duration) (*RedisLedger, error) {
	if client == nil {
		return nil, errors.New("redis client required")
	}
	if limit <= 0 || window <= 0 {
		return nil, fmt.Errorf("invalid ledger limit %d or window %s", limit, window)
	}
	return &RedisLedger{client: client, limit: limit, window: window}, nil
}

func (l *RedisLedger) Reserve(ctx context.Context, subjects []string, entryID string, now time.Time) (bool, error) {
	if len(subjects) == 0 {
		return false, errors.New("ledger subject required")
	}
	scopes := make([]string, 0, len(subjects))
	for _, subject := range subjects {
		scopes = append(scopes, "design:"+strings.TrimSpace(subject))
	}
	allowed, _, err := l.client.SlidingWindowReserve(ctx, scopes, entryID, now, int64(l.limit), l.window)
	if err != nil {
		return false, fmt.Errorf("reserve generation slot: %w", err)
	}
	return allowed, nil
}
