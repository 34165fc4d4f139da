package database

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// MemoryStore is an in-process Store used by tests and local runs without Firestore.
type MemoryStore struct {
	mu          sync.RWMutex
	collections map[string]map[string]map[string]interface{}
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{collections: make(map[string]map[string]map[string]interface{})}
}

func (m *MemoryStore) Get(_ context.Context, collection, docID string) (*Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, ok := m.collections[collection][docID]
	if !ok {
		return nil, fmt.Errorf("%s/%s: %w", collection, docID, ErrNotFound)
	}
	return &Document{ID: docID, Path: collection + "/" + docID, Data: copyMap(data)}, nil
}

func (m *MemoryStore) Create(_ context.Context, collection, docID string, data map[string]interface{}) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if docID == "" {
		docID = uuid.NewString()
	}
	coll := m.collection(collection)
	if _, exists := coll[docID]; exists {
		return "", fmt.Errorf("%s/%s: %w", collection, docID, ErrAlreadyExists)
	}
	coll[docID] = mergeInto(map[string]interface{}{}, data)
	return docID, nil
}

func (m *MemoryStore) Set(_ context.Context, collection, docID string, data map[string]interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.collection(collection)[docID] = mergeInto(map[string]interface{}{}, data)
	return nil
}

func (m *MemoryStore) Merge(_ context.Context, collection, docID string, data map[string]interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	coll := m.collection(collection)
	existing, ok := coll[docID]
	if !ok {
		existing = map[string]interface{}{}
	}
	coll[docID] = mergeInto(existing, data)
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, collection, docID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.collections[collection], docID)
	return nil
}

func (m *MemoryStore) DeleteFieldIfEqual(_ context.Context, collection, docID, field string, expected interface{}) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	data, ok := m.collections[collection][docID]
	if !ok {
		return false, nil
	}
	current, ok := data[field]
	if !ok || !reflect.DeepEqual(current, expected) {
		return false, nil
	}
	delete(data, field)
	return true, nil
}

func (m *MemoryStore) QueryByField(_ context.Context, collection, field, op string, value interface{}) ([]*Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := make([]string, 0, len(m.collections[collection]))
	for id := range m.collections[collection] {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var docs []*Document
	for _, id := range ids {
		data := m.collections[collection][id]
		fieldValue, ok := data[field]
		if !ok {
			continue
		}
		var match bool
		switch op {
		case OpEqual:
			match = reflect.DeepEqual(fieldValue, value)
		case OpArrayContains:
			match = arrayContains(fieldValue, value)
		default:
			return nil, fmt.Errorf("database: unsupported query operator %q", op)
		}
		if match {
			docs = append(docs, &Document{ID: id, Path: collection + "/" + id, Data: copyMap(data)})
		}
	}
	return docs, nil
}

func (m *MemoryStore) collection(name string) map[string]map[string]interface{} {
	coll, ok := m.collections[name]
	if !ok {
		coll = make(map[string]map[string]interface{})
		m.collections[name] = coll
	}
	return coll
}

func arrayContains(array, value interface{}) bool {
	rv := reflect.ValueOf(array)
	if rv.Kind() != reflect.Slice {
		return false
	}
	for i := 0; i < rv.Len(); i++ {
		if reflect.DeepEqual(rv.Index(i).Interface(), value) {
			return true
		}
	}
	return false
}

// mergeInto applies src onto dst, merging nested maps and resolving Increment values.
func mergeInto(dst, src map[string]interface{}) map[string]interface{} {
	for k, v := range src {
		switch val := v.(type) {
		case Increment:
			dst[k] = toInt64(dst[k]) + int64(val)
		case map[string]interface{}:
			nested, ok := dst[k].(map[string]interface{})
			if !ok {
				nested = map[string]interface{}{}
			}
			dst[k] = mergeInto(nested, val)
		default:
			dst[k] = copyValue(v)
		}
	}
	return dst
}

func toInt64(v interface{}) int64 {
	switch n := v.(type) {
	case int:
		return int64(n)
	case int64:
		return n
	case float64:
		return int64(n)
	default:
		return 0
	}
}

func copyMap(src map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(src))
	for k, v := range src {
		out[k] = copyValue(v)
	}
	return out
}

func copyValue(v interface{}) interface{} {
	switch val := v.(type) {
	case map[string]interface{}:
		return copyMap(val)
	case []interface{}:
		out := make([]interface{}, len(val))
		for i := range val {
			out[i] = copyValue(val[i])
		}
		return out
	case []string:
		return append([]string(nil), val...)
	default:
		return v
	}
}
