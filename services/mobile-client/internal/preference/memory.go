package preference

import (
	"context"
	"strings"
	"sync"
)

// Memory is an in-process Store. Its contents do not survive a restart.
type Memory struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{values: make(map[string]string)}
}

func (m *Memory) Get(ctx context.Context, key string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, unavailable("get preference", err)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	value, ok := m.values[strings.TrimSpace(key)]
	return value, ok, nil
}

func (m *Memory) Set(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return unavailable("set preference", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.values[strings.TrimSpace(key)] = value
	return nil
}
