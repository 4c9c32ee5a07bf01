package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/rajpatel923/Study-Solution-sub001/internal/model"
	"github.com/rajpatel923/Study-Solution-sub001/internal/repository"
	"github.com/rajpatel923/Study-Solution-sub001/internal/storage"
)

var (
	ErrNotFound  = errors.New("document not found")
	ErrReaderNil = errors.New("reader is nil")
)

// UploadInput carries everything the upload use case needs besides the owner.
type UploadInput struct {
	Reader           io.Reader
	OriginalFileName string
	ContentType      string
	Size             int64
	Metadata         model.Metadata
}

// UpdateInput holds the allow-listed mutable fields of a partial update.
// Nil OriginalFileName and absent Metadata mean "leave unchanged"; every
// other field a client may have sent never reaches this layer.
type UpdateInput struct {
	OriginalFileName *string
	Metadata         model.Metadata
}

// DocumentService defines the use cases for handling documents. Every
// operation takes the resolved caller identity explicitly and can neither
// observe nor mutate a record belonging to anyone else.
type DocumentService interface {
	// Upload stores the file bytes in object storage, saves the document
	// record, and rolls back the stored object if the record save fails.
	// The stored file name is synthesized from the upload time, a random
	// token and the original extension.
	Upload(ctx context.Context, owner model.Identity, in UploadInput) (*model.Document, error)

	// List returns the owner's documents in insertion order.
	List(ctx context.Context, owner model.Identity) ([]model.Document, error)

	// Get returns a single document and bumps its LastAccessDateTime.
	Get(ctx context.Context, owner model.Identity, id int64) (*model.Document, error)

	// Update applies an allow-listed partial update and returns the result.
	Update(ctx context.Context, owner model.Identity, id int64, in UpdateInput) (*model.Document, error)

	// Delete removes a document from both storage and the repository.
	Delete(ctx context.Context, owner model.Identity, id int64) error
}

// documentService is a concrete implementation of DocumentService.
type documentService struct {
	store         storage.Storage
	repo          repository.DocumentRepository
	publicBaseURL string
}

// NewDocumentService constructs a new DocumentService. publicBaseURL is the
// base under which stored objects are reachable; the document's publicUrl is
// synthesized from it.
func NewDocumentService(store storage.Storage, repo repository.DocumentRepository, publicBaseURL string) DocumentService {
	return &documentService{
		store:         store,
		repo:          repo,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
	}
}

func (s *documentService) Upload(ctx context.Context, owner model.Identity, in UploadInput) (*model.Document, error) {
	if in.Reader == nil {
		return nil, ErrReaderNil
	}

	now := time.Now().UTC()
	ext := filepath.Ext(in.OriginalFileName)
	genName := fmt.Sprintf("%d-%s%s", now.UnixMilli(), randomToken(), ext)
	key := objectKey(genName)

	contentType := in.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	objInfo, err := s.store.Put(ctx, key, in.Reader, storage.PutObjectOptions{
		Size:        in.Size,
		ContentType: contentType,
		Metadata: map[string]string{
			"original-filename": in.OriginalFileName,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("upload to storage: %w", err)
	}

	doc := &model.Document{
		FileName:         genName,
		UserName:         owner.UserName,
		UserID:           owner.UserID,
		OriginalFileName: in.OriginalFileName,
		ContentType:      contentType,
		FileSize:         objInfo.Size,
		PublicURL:        s.publicBaseURL + "/" + key,
		PageCount:        model.PlaceholderPageCount,
		FileExtension:    strings.TrimPrefix(ext, "."),
		Metadata:         in.Metadata.Ptr(),
		UploadDateTime:   now,
	}
	stored, err := s.repo.Create(ctx, doc)
	if err != nil {
		// Rollback: delete the object from storage
		if delErr := s.store.Delete(ctx, key); delErr != nil {
			return nil, fmt.Errorf("record save failed: %v; rollback delete failed: %v", err, delErr)
		}
		return nil, fmt.Errorf("record save failed: %w", err)
	}
	return stored, nil
}

func (s *documentService) List(ctx context.Context, owner model.Identity) ([]model.Document, error) {
	return s.repo.ListByOwner(ctx, owner.UserID)
}

// Get reads a document and advances its last access timestamp as a side
// effect; the bump and the read happen in one repository step.
func (s *documentService) Get(ctx context.Context, owner model.Identity, id int64) (*model.Document, error) {
	doc, err := s.repo.Touch(ctx, id, owner.UserID, time.Now().UTC())
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return doc, nil
}

// Update fetches the owner's record and applies only the allow-listed
// fields; whatever else a request body contained was discarded before this
// point, so identifiers and timestamps cannot change.
func (s *documentService) Update(ctx context.Context, owner model.Identity, id int64, in UpdateInput) (*model.Document, error) {
	doc, err := s.repo.FindByID(ctx, id, owner.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if in.OriginalFileName != nil {
		doc.OriginalFileName = *in.OriginalFileName
	}
	if in.Metadata.Present() {
		doc.Metadata = in.Metadata.Ptr()
	}

	updated, err := s.repo.Update(ctx, doc)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return updated, nil
}

// Delete removes the stored object first, then the record; a failed object
// delete keeps the record so the reference is not lost.
func (s *documentService) Delete(ctx context.Context, owner model.Identity, id int64) error {
	doc, err := s.repo.FindByID(ctx, id, owner.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	if err := s.store.Delete(ctx, objectKey(doc.FileName)); err != nil {
		return fmt.Errorf("delete storage: %w", err)
	}
	if err := s.repo.Delete(ctx, id, owner.UserID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

func objectKey(fileName string) string {
	return "documents/" + fileName
}

// randomToken returns the short random suffix used in generated file names.
func randomToken() string {
	return strings.SplitN(uuid.NewString(), "-", 2)[0]
}
