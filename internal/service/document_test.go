package service

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/rajpatel923/Study-Solution-sub001/internal/model"
	"github.com/rajpatel923/Study-Solution-sub001/internal/repository"
	repoMocks "github.com/rajpatel923/Study-Solution-sub001/internal/repository/mocks"
	"github.com/rajpatel923/Study-Solution-sub001/internal/storage"
	storeMocks "github.com/rajpatel923/Study-Solution-sub001/internal/storage/mocks"
)

const testBaseURL = "https://storage.example.com/studysolution-documents"

var owner = model.Identity{UserID: "user-a", UserName: "Test User"}

func TestDocumentService_Upload(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		in         UploadInput
		setupMocks func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockDocumentRepository) io.Reader
		wantErr    error
		wantErrMsg string
		checkDoc   func(t *testing.T, doc *model.Document)
	}{
		{
			name: "happy path",
			in: UploadInput{
				OriginalFileName: "notes.pdf",
				ContentType:      "application/pdf",
				Size:             500,
				Metadata:         model.ParseMetadataString(`{"a":1}`),
			},
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockDocumentRepository) io.Reader {
				r := strings.NewReader(strings.Repeat("x", 500))
				mStore.On("Put", ctx, mock.MatchedBy(func(key string) bool {
					return strings.HasPrefix(key, "documents/") && strings.HasSuffix(key, ".pdf")
				}), r, mock.MatchedBy(func(opt storage.PutObjectOptions) bool {
					return opt.Size == 500 && opt.ContentType == "application/pdf" &&
						opt.Metadata["original-filename"] == "notes.pdf"
				})).Return(func(ctx context.Context, key string, r io.Reader, opt storage.PutObjectOptions) storage.ObjectInfo {
					return storage.ObjectInfo{Key: key, Size: opt.Size, ContentType: opt.ContentType}
				}, nil)

				mRepo.On("Create", ctx, mock.MatchedBy(func(doc *model.Document) bool {
					return doc.UserID == "user-a" &&
						doc.OriginalFileName == "notes.pdf" &&
						doc.FileExtension == "pdf" &&
						doc.PageCount == 1 &&
						doc.LastAccessDateTime == nil &&
						doc.Metadata != nil && *doc.Metadata == `{"a":1}` &&
						strings.HasPrefix(doc.PublicURL, testBaseURL+"/documents/")
				})).Return(func(ctx context.Context, doc *model.Document) *model.Document {
					stored := doc.Clone()
					stored.ID = 42
					return stored
				}, nil)

				return r
			},
			checkDoc: func(t *testing.T, doc *model.Document) {
				assert.Equal(t, int64(42), doc.ID)
				assert.Equal(t, "pdf", doc.FileExtension)
				assert.Nil(t, doc.LastAccessDateTime)
				assert.WithinDuration(t, time.Now().UTC(), doc.UploadDateTime, 5*time.Second)
			},
		},
		{
			name: "validation error - nil reader",
			in:   UploadInput{OriginalFileName: "notes.pdf"},
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockDocumentRepository) io.Reader {
				return nil
			},
			wantErr: ErrReaderNil,
		},
		{
			name: "no extension and no content type fall back to defaults",
			in:   UploadInput{OriginalFileName: "README", Size: 5},
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockDocumentRepository) io.Reader {
				r := strings.NewReader("hello")
				mStore.On("Put", ctx, mock.Anything, r, mock.MatchedBy(func(opt storage.PutObjectOptions) bool {
					return opt.ContentType == "application/octet-stream"
				})).Return(storage.ObjectInfo{Key: "documents/x", Size: 5}, nil)
				mRepo.On("Create", ctx, mock.MatchedBy(func(doc *model.Document) bool {
					return doc.FileExtension == "" && doc.Metadata == nil
				})).Return(&model.Document{ID: 1}, nil)
				return r
			},
		},
		{
			name: "storage error",
			in:   UploadInput{OriginalFileName: "notes.pdf", Size: 5},
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockDocumentRepository) io.Reader {
				r := strings.NewReader("hello")
				mStore.On("Put", ctx, mock.Anything, r, mock.Anything).
					Return(storage.ObjectInfo{}, errors.New("storage fail"))
				return r
			},
			wantErrMsg: "upload to storage: storage fail",
		},
		{
			name: "repository error with successful rollback",
			in:   UploadInput{OriginalFileName: "notes.pdf", Size: 5},
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockDocumentRepository) io.Reader {
				r := strings.NewReader("hello")
				mStore.On("Put", ctx, mock.Anything, r, mock.Anything).
					Return(func(ctx context.Context, key string, r io.Reader, opt storage.PutObjectOptions) storage.ObjectInfo {
						return storage.ObjectInfo{Key: key}
					}, nil)
				mRepo.On("Create", ctx, mock.Anything).
					Return(nil, errors.New("db fail"))
				mStore.On("Delete", ctx, mock.Anything).Return(nil)
				return r
			},
			wantErrMsg: "record save failed: db fail",
		},
		{
			name: "repository error with failed rollback",
			in:   UploadInput{OriginalFileName: "notes.pdf", Size: 5},
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockDocumentRepository) io.Reader {
				r := strings.NewReader("hello")
				mStore.On("Put", ctx, mock.Anything, r, mock.Anything).
					Return(func(ctx context.Context, key string, r io.Reader, opt storage.PutObjectOptions) storage.ObjectInfo {
						return storage.ObjectInfo{Key: key}
					}, nil)
				mRepo.On("Create", ctx, mock.Anything).
					Return(nil, errors.New("db fail"))
				mStore.On("Delete", ctx, mock.Anything).Return(errors.New("delete fail"))
				return r
			},
			wantErrMsg: "rollback delete failed: delete fail",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mStore := new(storeMocks.MockStorage)
			mRepo := new(repoMocks.MockDocumentRepository)
			svc := NewDocumentService(mStore, mRepo, testBaseURL)

			tt.in.Reader = tt.setupMocks(mStore, mRepo)

			doc, err := svc.Upload(ctx, owner, tt.in)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else if tt.wantErrMsg != "" {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErrMsg)
			} else {
				assert.NoError(t, err)
				require.NotNil(t, doc)
				if tt.checkDoc != nil {
					tt.checkDoc(t, doc)
				}
			}

			mStore.AssertExpectations(t)
			mRepo.AssertExpectations(t)
		})
	}
}

func TestDocumentService_List(t *testing.T) {
	ctx := context.Background()

	t.Run("happy path", func(t *testing.T) {
		mRepo := new(repoMocks.MockDocumentRepository)
		svc := NewDocumentService(nil, mRepo, testBaseURL)

		mRepo.On("ListByOwner", ctx, "user-a").
			Return([]model.Document{{ID: 1, UserID: "user-a"}, {ID: 2, UserID: "user-a"}}, nil)

		docs, err := svc.List(ctx, owner)

		assert.NoError(t, err)
		assert.Len(t, docs, 2)
		mRepo.AssertExpectations(t)
	})

	t.Run("repository error", func(t *testing.T) {
		mRepo := new(repoMocks.MockDocumentRepository)
		svc := NewDocumentService(nil, mRepo, testBaseURL)

		mRepo.On("ListByOwner", ctx, "user-a").Return(nil, errors.New("db fail"))

		_, err := svc.List(ctx, owner)
		assert.Error(t, err)
	})
}

func TestDocumentService_Get(t *testing.T) {
	ctx := context.Background()

	t.Run("happy path bumps last access", func(t *testing.T) {
		mRepo := new(repoMocks.MockDocumentRepository)
		svc := NewDocumentService(nil, mRepo, testBaseURL)

		now := time.Now().UTC()
		mRepo.On("Touch", ctx, int64(42), "user-a", mock.MatchedBy(func(at time.Time) bool {
			return !at.Before(now.Add(-time.Second))
		})).Return(&model.Document{ID: 42, UserID: "user-a", LastAccessDateTime: &now}, nil)

		doc, err := svc.Get(ctx, owner, 42)

		assert.NoError(t, err)
		require.NotNil(t, doc)
		assert.NotNil(t, doc.LastAccessDateTime)
		mRepo.AssertExpectations(t)
	})

	t.Run("not found", func(t *testing.T) {
		mRepo := new(repoMocks.MockDocumentRepository)
		svc := NewDocumentService(nil, mRepo, testBaseURL)

		mRepo.On("Touch", ctx, int64(99), "user-a", mock.Anything).
			Return(nil, repository.ErrNotFound)

		doc, err := svc.Get(ctx, owner, 99)

		assert.ErrorIs(t, err, ErrNotFound)
		assert.Nil(t, doc)
	})

	t.Run("generic repository error", func(t *testing.T) {
		mRepo := new(repoMocks.MockDocumentRepository)
		svc := NewDocumentService(nil, mRepo, testBaseURL)

		mRepo.On("Touch", ctx, int64(42), "user-a", mock.Anything).
			Return(nil, errors.New("db fail"))

		_, err := svc.Get(ctx, owner, 42)
		assert.Error(t, err)
		assert.NotErrorIs(t, err, ErrNotFound)
	})
}

func TestDocumentService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("applies only allow-listed fields", func(t *testing.T) {
		mRepo := new(repoMocks.MockDocumentRepository)
		svc := NewDocumentService(nil, mRepo, testBaseURL)

		uploaded := time.Now().UTC().Add(-time.Hour)
		mRepo.On("FindByID", ctx, int64(42), "user-a").
			Return(&model.Document{
				ID:               42,
				UserID:           "user-a",
				UserName:         "Test User",
				OriginalFileName: "notes.pdf",
				UploadDateTime:   uploaded,
			}, nil)

		newName := "renamed.pdf"
		mRepo.On("Update", ctx, mock.MatchedBy(func(doc *model.Document) bool {
			return doc.ID == 42 &&
				doc.UserID == "user-a" &&
				doc.OriginalFileName == "renamed.pdf" &&
				doc.Metadata != nil && *doc.Metadata == `{"tag":"x"}` &&
				doc.UploadDateTime.Equal(uploaded)
		})).Return(func(ctx context.Context, doc *model.Document) *model.Document {
			return doc.Clone()
		}, nil)

		doc, err := svc.Update(ctx, owner, 42, UpdateInput{
			OriginalFileName: &newName,
			Metadata:         model.ParseMetadataString(`{"tag":"x"}`),
		})

		assert.NoError(t, err)
		require.NotNil(t, doc)
		assert.Equal(t, "renamed.pdf", doc.OriginalFileName)
		mRepo.AssertExpectations(t)
	})

	t.Run("absent fields leave the record unchanged", func(t *testing.T) {
		mRepo := new(repoMocks.MockDocumentRepository)
		svc := NewDocumentService(nil, mRepo, testBaseURL)

		meta := `{"a":1}`
		mRepo.On("FindByID", ctx, int64(42), "user-a").
			Return(&model.Document{ID: 42, UserID: "user-a", OriginalFileName: "notes.pdf", Metadata: &meta}, nil)

		mRepo.On("Update", ctx, mock.MatchedBy(func(doc *model.Document) bool {
			return doc.OriginalFileName == "notes.pdf" && doc.Metadata != nil && *doc.Metadata == meta
		})).Return(func(ctx context.Context, doc *model.Document) *model.Document {
			return doc.Clone()
		}, nil)

		_, err := svc.Update(ctx, owner, 42, UpdateInput{})
		assert.NoError(t, err)
		mRepo.AssertExpectations(t)
	})

	t.Run("not found", func(t *testing.T) {
		mRepo := new(repoMocks.MockDocumentRepository)
		svc := NewDocumentService(nil, mRepo, testBaseURL)

		mRepo.On("FindByID", ctx, int64(99), "user-a").Return(nil, repository.ErrNotFound)

		_, err := svc.Update(ctx, owner, 99, UpdateInput{})
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestDocumentService_Delete(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		id         int64
		setupMocks func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockDocumentRepository)
		wantErr    error
		wantErrMsg string
	}{
		{
			name: "happy path",
			id:   42,
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockDocumentRepository) {
				mRepo.On("FindByID", ctx, int64(42), "user-a").
					Return(&model.Document{ID: 42, UserID: "user-a", FileName: "171000-abc.pdf"}, nil)
				mStore.On("Delete", ctx, "documents/171000-abc.pdf").Return(nil)
				mRepo.On("Delete", ctx, int64(42), "user-a").Return(nil)
			},
		},
		{
			name: "not found",
			id:   99,
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockDocumentRepository) {
				mRepo.On("FindByID", ctx, int64(99), "user-a").Return(nil, repository.ErrNotFound)
			},
			wantErr: ErrNotFound,
		},
		{
			name: "storage delete error",
			id:   42,
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockDocumentRepository) {
				mRepo.On("FindByID", ctx, int64(42), "user-a").
					Return(&model.Document{ID: 42, UserID: "user-a", FileName: "a.pdf"}, nil)
				mStore.On("Delete", ctx, "documents/a.pdf").Return(errors.New("storage fail"))
			},
			wantErrMsg: "delete storage: storage fail",
		},
		{
			name: "repository delete error",
			id:   42,
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockDocumentRepository) {
				mRepo.On("FindByID", ctx, int64(42), "user-a").
					Return(&model.Document{ID: 42, UserID: "user-a", FileName: "a.pdf"}, nil)
				mStore.On("Delete", ctx, "documents/a.pdf").Return(nil)
				mRepo.On("Delete", ctx, int64(42), "user-a").Return(errors.New("db fail"))
			},
			wantErrMsg: "db fail",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mStore := new(storeMocks.MockStorage)
			mRepo := new(repoMocks.MockDocumentRepository)
			svc := NewDocumentService(mStore, mRepo, testBaseURL)

			tt.setupMocks(mStore, mRepo)

			err := svc.Delete(ctx, owner, tt.id)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else if tt.wantErrMsg != "" {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErrMsg)
			} else {
				assert.NoError(t, err)
			}
			mStore.AssertExpectations(t)
			mRepo.AssertExpectations(t)
		})
	}
}
