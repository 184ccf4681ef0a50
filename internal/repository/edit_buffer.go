package repository

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"smartplanning/backend/internal/model"
	"smartplanning/backend/pkg/redis"
)

// ErrNoEditSession is returned when no edit buffer exists for a
// schedule (never opened, cancelled, committed, or expired).
var ErrNoEditSession = errors.New("no open edit session for this schedule")

// EditBuffer is the working copy of one schedule's data while a
// reviewer edits it. The canonical row is untouched until commit.
// Buffers are independent per schedule id, so concurrent sessions on
// different schedules never interact.
type EditBuffer struct {
	ScheduleID string             `json:"schedule_id"`
	EditorID   string             `json:"editor_id"`
	Data       model.ScheduleData `json:"data"`
	StartedAt  time.Time          `json:"started_at"`
}

func (b *EditBuffer) clone() *EditBuffer {
	cp := *b
	cp.Data = b.Data.Clone()
	return &cp
}

// EditBufferStore persists edit buffers for the duration of a session.
// Both implementations hand out detached copies; callers only publish
// changes through Put, never by mutating a returned buffer.
type EditBufferStore interface {
	Put(ctx context.Context, buf *EditBuffer) error
	Get(ctx context.Context, scheduleID string) (*EditBuffer, error)
	Delete(ctx context.Context, scheduleID string) error
}

const editBufferPrefix = "edit:schedule:"

// ── Redis-backed store ──

type redisEditBufferStore struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisEditBufferStore keeps buffers in Redis so sessions survive
// server restarts and are visible across replicas.
func NewRedisEditBufferStore(rdb *redis.Client, ttl time.Duration) EditBufferStore {
	return &redisEditBufferStore{rdb: rdb, ttl: ttl}
}

func (s *redisEditBufferStore) Put(ctx context.Context, buf *EditBuffer) error {
	b, err := json.Marshal(buf)
	if err != nil {
		return err
	}
	return s.rdb.SetBytes(ctx, editBufferPrefix+buf.ScheduleID, b, s.ttl)
}

func (s *redisEditBufferStore) Get(ctx context.Context, scheduleID string) (*EditBuffer, error) {
	b, err := s.rdb.GetBytes(ctx, editBufferPrefix+scheduleID)
	if errors.Is(err, redis.ErrNotFound) {
		return nil, ErrNoEditSession
	}
	if err != nil {
		return nil, err
	}
	var buf EditBuffer
	if err := json.Unmarshal(b, &buf); err != nil {
		return nil, err
	}
	return &buf, nil
}

func (s *redisEditBufferStore) Delete(ctx context.Context, scheduleID string) error {
	return s.rdb.Delete(ctx, editBufferPrefix+scheduleID)
}

// ── in-memory store ──

type memoryEntry struct {
	buf       *EditBuffer
	expiresAt time.Time
}

type memoryEditBufferStore struct {
	mu  sync.Mutex
	ttl time.Duration
	m   map[string]memoryEntry
}

// NewMemoryEditBufferStore is the single-process fallback used when
// Redis is unavailable (same degradation policy as the token
// blacklist).
func NewMemoryEditBufferStore(ttl time.Duration) EditBufferStore {
	return &memoryEditBufferStore{ttl: ttl, m: make(map[string]memoryEntry)}
}

func (s *memoryEditBufferStore) Put(_ context.Context, buf *EditBuffer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[buf.ScheduleID] = memoryEntry{buf: buf.clone(), expiresAt: time.Now().Add(s.ttl)}
	return nil
}

func (s *memoryEditBufferStore) Get(_ context.Context, scheduleID string) (*EditBuffer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.m[scheduleID]
	if !ok || time.Now().After(entry.expiresAt) {
		delete(s.m, scheduleID)
		return nil, ErrNoEditSession
	}
	return entry.buf.clone(), nil
}

func (s *memoryEditBufferStore) Delete(_ context.Context, scheduleID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.m, scheduleID)
	return nil
}
