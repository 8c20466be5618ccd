package attachments

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

type attachmentService struct {
	repo  Repository
	store BlobStore
}

// NewAttachmentService creates a new attachment service
func NewAttachmentService(repo Repository, store BlobStore) Service {
	return &attachmentService{
		repo:  repo,
		store: store,
	}
}

// Upload stores the bytes under a random key and records the attachment.
// Flow:
// 1. Detect media type from the leading bytes (never trust client metadata)
// 2. Put bytes to the blob store
// 3. Insert the unlinked record
// The record is created last so a crash mid-upload leaves at worst loose
// bytes under a key no record points at, never a record without bytes.
func (s *attachmentService) Upload(ctx context.Context, data []byte) (*Attachment, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("attachment data cannot be empty")
	}

	attachment := &Attachment{
		StorageKey: randomKey(),
		MediaType:  http.DetectContentType(data),
		CreatedAt:  time.Now().UTC(),
	}

	if err := s.store.Put(ctx, attachment.StorageKey, attachment.MediaType, data); err != nil {
		return nil, fmt.Errorf("failed to store attachment bytes: %w", err)
	}

	if err := s.repo.Create(ctx, attachment); err != nil {
		return nil, fmt.Errorf("failed to create attachment record: %w", err)
	}

	return attachment, nil
}

// Get retrieves an attachment record by id
func (s *attachmentService) Get(ctx context.Context, id int64) (*Attachment, error) {
	return s.repo.GetByID(ctx, id)
}

// RemoveBytes deletes the backing bytes for a storage key
func (s *attachmentService) RemoveBytes(ctx context.Context, storageKey string) error {
	return s.store.Remove(ctx, storageKey)
}

// randomKey generates an opaque storage key
func randomKey() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}
