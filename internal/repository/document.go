// Package repository contains data access layer abstractions.
// Implementations live in subpackages (memory, postgres) inside this directory.
package repository

import (
	"context"
	"errors"
	"time"

	"github.com/rajpatel923/Study-Solution-sub001/internal/model"
)

// ErrNotFound is returned when no document matches the given id and owner.
// A wrong id and a document owned by someone else are deliberately
// indistinguishable at this level.
var ErrNotFound = errors.New("document not found")

// DocumentRepository defines data access for documents. Strictly persistence
// operations, every one of them scoped to an owner id.
type DocumentRepository interface {
	// Create inserts a new document record, assigns its unique ID and
	// returns the stored record.
	Create(ctx context.Context, doc *model.Document) (*model.Document, error)

	// ListByOwner returns all documents owned by userID in insertion order.
	ListByOwner(ctx context.Context, userID string) ([]model.Document, error)

	// FindByID returns the document matching both id and owner.
	FindByID(ctx context.Context, id int64, userID string) (*model.Document, error)

	// Touch advances LastAccessDateTime to at (never backwards) on the
	// document matching id and owner, returning the updated record.
	Touch(ctx context.Context, id int64, userID string, at time.Time) (*model.Document, error)

	// Update persists the mutable fields of doc (OriginalFileName, Metadata)
	// for the record matching doc.ID and doc.UserID, returning the stored
	// record. All other columns are left untouched.
	Update(ctx context.Context, doc *model.Document) (*model.Document, error)

	// Delete removes the document matching id and owner permanently.
	// Returns ErrNotFound if no such record exists.
	Delete(ctx context.Context, id int64, userID string) error
}
