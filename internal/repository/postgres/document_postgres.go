package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/rajpatel923/Study-Solution-sub001/internal/model"
	"github.com/rajpatel923/Study-Solution-sub001/internal/repository"
)

// DocumentPostgres is the production-tier implementation of
// repository.DocumentRepository. It uses database/sql with parameterized
// queries and contains no business logic. Owner scoping is enforced in SQL:
// every statement matches on both id and user_id.
type DocumentPostgres struct {
	db *sql.DB
}

// NewDocumentPostgres creates a new DocumentPostgres repository.
func NewDocumentPostgres(db *sql.DB) *DocumentPostgres {
	return &DocumentPostgres{db: db}
}

var _ repository.DocumentRepository = (*DocumentPostgres)(nil)

const documentColumns = `id, file_name, user_name, user_id, original_file_name, content_type,
		file_size, public_url, page_count, file_extension, metadata,
		upload_datetime, last_access_datetime`

// Create inserts a new document row; the ID comes from the identity column.
func (r *DocumentPostgres) Create(ctx context.Context, doc *model.Document) (*model.Document, error) {
	const q = `
		INSERT INTO documents (file_name, user_name, user_id, original_file_name, content_type,
			file_size, public_url, page_count, file_extension, metadata, upload_datetime)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING ` + documentColumns
	row := r.db.QueryRowContext(ctx, q,
		doc.FileName,
		doc.UserName,
		doc.UserID,
		doc.OriginalFileName,
		doc.ContentType,
		doc.FileSize,
		doc.PublicURL,
		doc.PageCount,
		doc.FileExtension,
		nullString(doc.Metadata),
		doc.UploadDateTime,
	)
	return scanDocument(row)
}

// ListByOwner returns the owner's documents in insertion order (ids are
// monotonic, so ordering by id preserves it).
func (r *DocumentPostgres) ListByOwner(ctx context.Context, userID string) ([]model.Document, error) {
	const q = `
		SELECT ` + documentColumns + `
		FROM documents
		WHERE user_id = $1
		ORDER BY id ASC
	`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Document, 0)
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *DocumentPostgres) FindByID(ctx context.Context, id int64, userID string) (*model.Document, error) {
	const q = `
		SELECT ` + documentColumns + `
		FROM documents
		WHERE id = $1 AND user_id = $2
	`
	return scanDocument(r.db.QueryRowContext(ctx, q, id, userID))
}

// Touch advances last_access_datetime in a single statement; GREATEST keeps
// it from ever moving backwards under concurrent gets.
func (r *DocumentPostgres) Touch(ctx context.Context, id int64, userID string, at time.Time) (*model.Document, error) {
	const q = `
		UPDATE documents
		SET last_access_datetime = GREATEST(COALESCE(last_access_datetime, $3), $3)
		WHERE id = $1 AND user_id = $2
		RETURNING ` + documentColumns
	return scanDocument(r.db.QueryRowContext(ctx, q, id, userID, at))
}

// Update persists only the mutable columns.
func (r *DocumentPostgres) Update(ctx context.Context, doc *model.Document) (*model.Document, error) {
	const q = `
		UPDATE documents
		SET original_file_name = $3, metadata = $4
		WHERE id = $1 AND user_id = $2
		RETURNING ` + documentColumns
	return scanDocument(r.db.QueryRowContext(ctx, q, doc.ID, doc.UserID, doc.OriginalFileName, nullString(doc.Metadata)))
}

// Delete removes the row matching id and owner.
func (r *DocumentPostgres) Delete(ctx context.Context, id int64, userID string) error {
	const q = `DELETE FROM documents WHERE id = $1 AND user_id = $2`
	res, err := r.db.ExecContext(ctx, q, id, userID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (*model.Document, error) {
	var (
		d          model.Document
		metadata   sql.NullString
		lastAccess sql.NullTime
	)
	err := row.Scan(
		&d.ID,
		&d.FileName,
		&d.UserName,
		&d.UserID,
		&d.OriginalFileName,
		&d.ContentType,
		&d.FileSize,
		&d.PublicURL,
		&d.PageCount,
		&d.FileExtension,
		&metadata,
		&d.UploadDateTime,
		&lastAccess,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	if metadata.Valid {
		d.Metadata = &metadata.String
	}
	if lastAccess.Valid {
		d.LastAccessDateTime = &lastAccess.Time
	}
	return &d, nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}
