package catalogindex

import (
	"context"
	"sync"

	"github.com/ams/backend/internal/domain/catalog"
	"github.com/ams/backend/internal/domain/shared"
	"github.com/google/uuid"
)

type memoryEntry struct {
	doc      *catalog.Document
	analyzed analyzed
}

// MemoryIndex keeps the catalog in process memory. It serves tests,
// development and the fallback when Redis is unavailable.
type MemoryIndex struct {
	mu   sync.RWMutex
	docs map[string]*memoryEntry
}

// NewMemoryIndex creates an empty index
func NewMemoryIndex() *MemoryIndex {
	return &MemoryIndex{docs: make(map[string]*memoryEntry)}
}

// Upsert stores a copy of the document
func (m *MemoryIndex) Upsert(_ context.Context, doc *catalog.Document) error {
	cp := *doc
	m.mu.Lock()
	defer m.mu.Unlock()
	m.docs[doc.Key()] = &memoryEntry{doc: &cp, analyzed: analyze(&cp)}
	return nil
}

// Remove deletes a document if present
func (m *MemoryIndex) Remove(_ context.Context, docType catalog.DocumentType, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.docs, catalog.DocumentKey(docType, id))
	return nil
}

// Get returns a copy of a document
func (m *MemoryIndex) Get(_ context.Context, docType catalog.DocumentType, id uuid.UUID) (*catalog.Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.docs[catalog.DocumentKey(docType, id)]
	if !ok {
		return nil, shared.ErrNotFound
	}
	cp := *e.doc
	return &cp, nil
}

// Search scans every document
func (m *MemoryIndex) Search(_ context.Context, q catalog.Query) (*catalog.Result, error) {
	q = q.Normalize()
	terms := UniqueTokens(q.Text)

	m.mu.RLock()
	hits := make([]catalog.Hit, 0)
	for _, e := range m.docs {
		if !matchesFilters(e.doc, q) {
			continue
		}
		score, ok := e.analyzed.score(terms)
		if !ok {
			continue
		}
		cp := *e.doc
		hits = append(hits, catalog.Hit{Document: &cp, Score: score})
	}
	m.mu.RUnlock()

	return rank(hits, q), nil
}

// Count returns the number of documents of a type
func (m *MemoryIndex) Count(_ context.Context, docType catalog.DocumentType) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var n int64
	for _, e := range m.docs {
		if e.doc.Type == docType {
			n++
		}
	}
	return n, nil
}

// IDs lists the ids of a type
func (m *MemoryIndex) IDs(_ context.Context, docType catalog.DocumentType) ([]uuid.UUID, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := make([]uuid.UUID, 0)
	for _, e := range m.docs {
		if e.doc.Type == docType {
			ids = append(ids, e.doc.ID)
		}
	}
	return ids, nil
}

// Clear removes every document of a type
func (m *MemoryIndex) Clear(_ context.Context, docType catalog.DocumentType) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for key, e := range m.docs {
		if e.doc.Type == docType {
			delete(m.docs, key)
		}
	}
	return nil
}

// Close is a no-op
func (m *MemoryIndex) Close() error { return nil }

var _ catalog.Index = (*MemoryIndex)(nil)
