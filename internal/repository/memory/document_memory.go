// Package memory provides the process-lifetime, in-memory document
// repository used by the mock/demo tier. State is initialized empty at
// process start and discarded on exit.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/rajpatel923/Study-Solution-sub001/internal/model"
	"github.com/rajpatel923/Study-Solution-sub001/internal/repository"
)

// DocumentMemory is a mutex-guarded in-memory implementation of
// repository.DocumentRepository. A single lock around the whole collection
// is sufficient: contention is low and every operation is short.
type DocumentMemory struct {
	mu     sync.Mutex
	docs   []model.Document
	lastID int64
}

// NewDocumentMemory creates an empty in-memory repository.
func NewDocumentMemory() *DocumentMemory {
	return &DocumentMemory{}
}

var _ repository.DocumentRepository = (*DocumentMemory)(nil)

// Create appends a record, assigning a time-derived monotonic ID.
func (r *DocumentMemory) Create(_ context.Context, doc *model.Document) (*model.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := time.Now().UnixMilli()
	if id <= r.lastID {
		id = r.lastID + 1
	}
	r.lastID = id

	stored := doc.Clone()
	stored.ID = id
	r.docs = append(r.docs, *stored)
	return stored.Clone(), nil
}

// ListByOwner returns the owner's documents in insertion order.
func (r *DocumentMemory) ListByOwner(_ context.Context, userID string) ([]model.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]model.Document, 0)
	for i := range r.docs {
		if r.docs[i].UserID == userID {
			out = append(out, *r.docs[i].Clone())
		}
	}
	return out, nil
}

func (r *DocumentMemory) FindByID(_ context.Context, id int64, userID string) (*model.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if i := r.index(id, userID); i >= 0 {
		return r.docs[i].Clone(), nil
	}
	return nil, repository.ErrNotFound
}

// Touch bumps LastAccessDateTime in place; it never moves backwards.
func (r *DocumentMemory) Touch(_ context.Context, id int64, userID string, at time.Time) (*model.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.index(id, userID)
	if i < 0 {
		return nil, repository.ErrNotFound
	}
	if prev := r.docs[i].LastAccessDateTime; prev == nil || at.After(*prev) {
		t := at
		r.docs[i].LastAccessDateTime = &t
	}
	return r.docs[i].Clone(), nil
}

// Update replaces only the mutable fields of the stored record.
func (r *DocumentMemory) Update(_ context.Context, doc *model.Document) (*model.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.index(doc.ID, doc.UserID)
	if i < 0 {
		return nil, repository.ErrNotFound
	}
	r.docs[i].OriginalFileName = doc.OriginalFileName
	if doc.Metadata != nil {
		m := *doc.Metadata
		r.docs[i].Metadata = &m
	} else {
		r.docs[i].Metadata = nil
	}
	return r.docs[i].Clone(), nil
}

func (r *DocumentMemory) Delete(_ context.Context, id int64, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.index(id, userID)
	if i < 0 {
		return repository.ErrNotFound
	}
	r.docs = append(r.docs[:i], r.docs[i+1:]...)
	return nil
}

// index must be called with the lock held.
func (r *DocumentMemory) index(id int64, userID string) int {
	for i := range r.docs {
		if r.docs[i].ID == id && r.docs[i].UserID == userID {
			return i
		}
	}
	return -1
}
