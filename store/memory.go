// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// MemoryRemote keeps documents in process. Used for tests and for running
// without a database.
type MemoryRemote struct {
	mu   sync.RWMutex
	docs map[string]Document
}

func NewMemoryRemote() *MemoryRemote {
	return &MemoryRemote{docs: make(map[string]Document)}
}

func (m *MemoryRemote) Get(ctx context.Context, key string) (Document, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	doc, ok := m.docs[key]
	if !ok {
		return nil, false, nil
	}
	out, err := ToDocument(doc)
	if err != nil {
		return nil, false, err
	}
	return out, true, nil
}

func (m *MemoryRemote) Set(ctx context.Context, key string, doc Document, merge bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	// copy so callers can keep mutating their value
	cp, err := ToDocument(doc)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if existing, ok := m.docs[key]; ok && merge {
		cp = merged(existing, cp)
	}
	m.docs[key] = cp
	return nil
}

func (m *MemoryRemote) List(ctx context.Context, prefix string) (map[string]Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make(map[string]Document)
	for k, doc := range m.docs {
		if !strings.HasPrefix(k, prefix) {
			continue
		}
		cp, err := ToDocument(doc)
		if err != nil {
			return nil, err
		}
		out[k] = cp
	}
	return out, nil
}

func (m *MemoryRemote) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.docs[key]; !ok {
		return ErrNotFound
	}
	delete(m.docs, key)
	return nil
}

// Keys returns the stored keys in order.
func (m *MemoryRemote) Keys() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	keys := make([]string, 0, len(m.docs))
	for k := range m.docs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// MemoryLocal is a LocalStore backed by a map.
type MemoryLocal struct {
	mu     sync.RWMutex
	values map[string][]byte
}

func NewMemoryLocal() *MemoryLocal {
	return &MemoryLocal{values: make(map[string][]byte)}
}

func (m *MemoryLocal) Save(namespace string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", namespace, err)
	}
	m.mu.Lock()
	m.values[namespace] = data
	m.mu.Unlock()
	return nil
}

func (m *MemoryLocal) Load(namespace string, into any) (bool, error) {
	m.mu.RLock()
	data, ok := m.values[namespace]
	m.mu.RUnlock()
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(data, into); err != nil {
		return false, fmt.Errorf("failed to decode %s: %w", namespace, err)
	}
	return true, nil
}

func (m *MemoryLocal) Clear(namespace string) error {
	m.mu.Lock()
	delete(m.values, namespace)
	m.mu.Unlock()
	return nil
}
