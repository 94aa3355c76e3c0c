package store

import (
	"context"
	"sync"

	"github.com/jmylchreest/pixelator/internal/colour"
)

// Memory is a Store that lives only as long as the process.
type Memory struct {
	mu   sync.RWMutex
	data *collection
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{data: newCollection()}
}

// List implements Store.
func (m *Memory) List(_ context.Context) ([]colour.Palette, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.data.list(), nil
}

// Get implements Store.
func (m *Memory) Get(_ context.Context, name string) (colour.Palette, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.data.get(name)
}

// Put implements Store.
func (m *Memory) Put(_ context.Context, p colour.Palette) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data.put(p)
}

// Delete implements Store.
func (m *Memory) Delete(_ context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data.remove(name)
}

// Close implements Store.
func (m *Memory) Close() error {
	return nil
}
