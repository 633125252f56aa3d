// Package store persists the ledger. Each committed operation writes only its
// change set; Load rebuilds the full state on start.
package store

import (
	"context"
	"sync"

	"ticketing-marketplace-backend/ledger"
)

const (
	DriverMemory = "memory"
	DriverMySQL  = "mysql"
	DriverRedis  = "redis"
)

type Store interface {
	Load(ctx context.Context) (*ledger.State, error)
	// Commit must persist c atomically: all of it or none of it.
	Commit(ctx context.Context, c ledger.Changes) error
	Close() error
}

// NewMemory returns a process-local store. State survives engine restarts
// within the same process only.
func NewMemory() *Memory {
	return &Memory{state: ledger.NewState()}
}

type Memory struct {
	mu    sync.Mutex
	state *ledger.State
}

func (m *Memory) Load(ctx context.Context) (*ledger.State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := ledger.NewState()
	s.Apply(m.state.Snapshot())
	return s, nil
}

func (m *Memory) Commit(ctx context.Context, c ledger.Changes) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.state.Apply(c)
	return nil
}

func (m *Memory) Close() error {
	return nil
}
