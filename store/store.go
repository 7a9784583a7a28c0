// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

var ErrNotFound = errors.New("document not found")

// Document is a JSON object as held by the remote store.
type Document map[string]any

// RemoteStore is the hosted document database.
type RemoteStore interface {
	// Get returns the document at key; ok is false when there is none.
	Get(ctx context.Context, key string) (doc Document, ok bool, err error)

	// Set writes doc at key. With merge, top level fields are merged into
	// any existing document; otherwise the document is replaced.
	Set(ctx context.Context, key string, doc Document, merge bool) error
}

// Lister is implemented by remote stores that can enumerate keys.
type Lister interface {
	List(ctx context.Context, prefix string) (map[string]Document, error)
}

// Deleter is implemented by remote stores that can remove documents.
type Deleter interface {
	Delete(ctx context.Context, key string) error
}

// LocalStore is the on-device fallback. It is synchronous and expected to
// be available whenever the remote store is not.
type LocalStore interface {
	Save(namespace string, value any) error
	Load(namespace string, into any) (bool, error)
	Clear(namespace string) error
}

// ToDocument converts any JSON-object-shaped value into a Document.
func ToDocument(v any) (Document, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode document: %w", err)
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("value is not a JSON object: %w", err)
	}
	return doc, nil
}

// Decode fills into from doc.
func (d Document) Decode(into any) error {
	data, err := json.Marshal(d)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, into)
}

// merged returns base with the top level fields of patch applied.
func merged(base, patch Document) Document {
	out := make(Document, len(base)+len(patch))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range patch {
		out[k] = v
	}
	return out
}
