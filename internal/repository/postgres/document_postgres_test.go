package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rajpatel923/Study-Solution-sub001/internal/model"
	"github.com/rajpatel923/Study-Solution-sub001/internal/repository"
)

var docColumns = []string{
	"id", "file_name", "user_name", "user_id", "original_file_name", "content_type",
	"file_size", "public_url", "page_count", "file_extension", "metadata",
	"upload_datetime", "last_access_datetime",
}

func docRow(id int64, owner string, uploaded time.Time) *sqlmock.Rows {
	return sqlmock.NewRows(docColumns).
		AddRow(id, "171000-abc.pdf", "Test User", owner, "notes.pdf", "application/pdf",
			500, "https://storage.example.com/documents/171000-abc.pdf", 1, "pdf", nil,
			uploaded, nil)
}

func TestDocumentPostgres_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewDocumentPostgres(db)
	ctx := context.Background()

	now := time.Now().UTC()
	doc := &model.Document{
		FileName:         "171000-abc.pdf",
		UserName:         "Test User",
		UserID:           "user-a",
		OriginalFileName: "notes.pdf",
		ContentType:      "application/pdf",
		FileSize:         500,
		PublicURL:        "https://storage.example.com/documents/171000-abc.pdf",
		PageCount:        1,
		FileExtension:    "pdf",
		UploadDateTime:   now,
	}

	mock.ExpectQuery("INSERT INTO documents").
		WithArgs(doc.FileName, doc.UserName, doc.UserID, doc.OriginalFileName, doc.ContentType,
			doc.FileSize, doc.PublicURL, doc.PageCount, doc.FileExtension, sql.NullString{}, doc.UploadDateTime).
		WillReturnRows(docRow(42, "user-a", now))

	stored, err := repo.Create(ctx, doc)

	assert.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, int64(42), stored.ID)
	assert.Nil(t, stored.Metadata)
	assert.Nil(t, stored.LastAccessDateTime)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentPostgres_FindByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewDocumentPostgres(db)
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM documents").
			WithArgs(int64(42), "user-a").
			WillReturnRows(docRow(42, "user-a", time.Now()))

		doc, err := repo.FindByID(ctx, 42, "user-a")

		assert.NoError(t, err)
		require.NotNil(t, doc)
		assert.Equal(t, int64(42), doc.ID)
		assert.Equal(t, "user-a", doc.UserID)
	})

	t.Run("not found maps to ErrNotFound", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM documents").
			WithArgs(int64(99), "user-a").
			WillReturnError(sql.ErrNoRows)

		doc, err := repo.FindByID(ctx, 99, "user-a")

		assert.ErrorIs(t, err, repository.ErrNotFound)
		assert.Nil(t, doc)
	})
}

func TestDocumentPostgres_ListByOwner(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewDocumentPostgres(db)
	ctx := context.Background()

	now := time.Now()
	rows := sqlmock.NewRows(docColumns).
		AddRow(1, "a.pdf", "Test User", "user-a", "a.pdf", "application/pdf",
			100, "https://storage.example.com/documents/a.pdf", 1, "pdf", nil, now, nil).
		AddRow(2, "b.pdf", "Test User", "user-a", "b.pdf", "application/pdf",
			200, "https://storage.example.com/documents/b.pdf", 1, "pdf", `{"a":1}`, now, now)

	mock.ExpectQuery("SELECT (.+) FROM documents WHERE user_id").
		WithArgs("user-a").
		WillReturnRows(rows)

	docs, err := repo.ListByOwner(ctx, "user-a")

	assert.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, int64(1), docs[0].ID)
	assert.Nil(t, docs[0].Metadata)
	require.NotNil(t, docs[1].Metadata)
	assert.Equal(t, `{"a":1}`, *docs[1].Metadata)
	assert.NotNil(t, docs[1].LastAccessDateTime)
}

func TestDocumentPostgres_Touch(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewDocumentPostgres(db)
	ctx := context.Background()

	now := time.Now().UTC()
	rows := sqlmock.NewRows(docColumns).
		AddRow(42, "a.pdf", "Test User", "user-a", "a.pdf", "application/pdf",
			100, "https://storage.example.com/documents/a.pdf", 1, "pdf", nil, now, now)

	mock.ExpectQuery("UPDATE documents SET last_access_datetime").
		WithArgs(int64(42), "user-a", now).
		WillReturnRows(rows)

	doc, err := repo.Touch(ctx, 42, "user-a", now)

	assert.NoError(t, err)
	require.NotNil(t, doc)
	require.NotNil(t, doc.LastAccessDateTime)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentPostgres_Update(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewDocumentPostgres(db)
	ctx := context.Background()

	meta := `{"tag":"x"}`
	doc := &model.Document{
		ID:               42,
		UserID:           "user-a",
		OriginalFileName: "renamed.pdf",
		Metadata:         &meta,
	}

	now := time.Now()
	rows := sqlmock.NewRows(docColumns).
		AddRow(42, "a.pdf", "Test User", "user-a", "renamed.pdf", "application/pdf",
			100, "https://storage.example.com/documents/a.pdf", 1, "pdf", meta, now, nil)

	mock.ExpectQuery("UPDATE documents SET original_file_name").
		WithArgs(int64(42), "user-a", "renamed.pdf", sql.NullString{String: meta, Valid: true}).
		WillReturnRows(rows)

	updated, err := repo.Update(ctx, doc)

	assert.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, "renamed.pdf", updated.OriginalFileName)
	require.NotNil(t, updated.Metadata)
	assert.Equal(t, meta, *updated.Metadata)
}

func TestDocumentPostgres_Delete(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewDocumentPostgres(db)
	ctx := context.Background()

	t.Run("deleted", func(t *testing.T) {
		mock.ExpectExec("DELETE FROM documents").
			WithArgs(int64(42), "user-a").
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.Delete(ctx, 42, "user-a"))
	})

	t.Run("missing row maps to ErrNotFound", func(t *testing.T) {
		mock.ExpectExec("DELETE FROM documents").
			WithArgs(int64(99), "user-a").
			WillReturnResult(sqlmock.NewResult(0, 0))

		assert.ErrorIs(t, repo.Delete(ctx, 99, "user-a"), repository.ErrNotFound)
	})
}
