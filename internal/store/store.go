// Package store implements hierarchical string stores for persisted
// channels and samples.
package store

import (
	"context"
	"errors"
	"fmt"
	"path"
	"sort"
	"sync"
)

// ErrNotFound indicates a missing key.
var ErrNotFound = errors.New("not found")

// Clean normalizes a directory path.
func Clean(dir string) string {
	return path.Clean("/" + dir)
}

// Memory is an in-process store.
type Memory struct {
	mu   sync.RWMutex
	dirs map[string]map[string]string
}

// NewMemory creates an empty in-process store.
func NewMemory() *Memory {
	return &Memory{dirs: make(map[string]map[string]string)}
}

func (m *Memory) PutString(_ context.Context, dir, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	d := Clean(dir)
	if m.dirs[d] == nil {
		m.dirs[d] = make(map[string]string)
	}
	m.dirs[d][key] = value
	return nil
}

func (m *Memory) GetString(_ context.Context, dir, key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.dirs[Clean(dir)][key]
	if !ok {
		return "", fmt.Errorf("%s/%s: %w", Clean(dir), key, ErrNotFound)
	}
	return v, nil
}

// Dirs lists the stored directories in order.
func (m *Memory) Dirs() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, 0, len(m.dirs))
	for d := range m.dirs {
		out = append(out, d)
	}
	sort.Strings(out)
	return out
}
