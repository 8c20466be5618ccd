package attachments

import (
	"context"
	"time"
)

// Service defines the business logic interface for attachments
type Service interface {
	// Upload stores the bytes, detects the media type, and creates an
	// unlinked attachment record
	Upload(ctx context.Context, data []byte) (*Attachment, error)

	// Get retrieves an attachment record by id
	Get(ctx context.Context, id int64) (*Attachment, error)

	// RemoveBytes deletes the backing bytes for a storage key.
	// Already-absent bytes are success, not failure.
	RemoveBytes(ctx context.Context, storageKey string) error
}

// Repository defines the data access interface for attachment records
type Repository interface {
	// Create inserts a new unlinked attachment record
	Create(ctx context.Context, attachment *Attachment) error

	// GetByID retrieves an attachment by id, ErrNotFound when absent
	GetByID(ctx context.Context, id int64) (*Attachment, error)

	// ListOrphanedBefore returns attachments created before the cutoff
	// that were never linked to a wave
	ListOrphanedBefore(ctx context.Context, cutoff time.Time) ([]*Attachment, error)

	// DeleteIfUnlinked deletes the record only if it is still unlinked,
	// re-checking the link at delete time. Returns whether a row was
	// deleted.
	DeleteIfUnlinked(ctx context.Context, id int64) (bool, error)
}

// BlobStore stores and removes attachment bytes. The backing store is an
// external collaborator: store bytes under an opaque key, remove by key.
type BlobStore interface {
	Put(ctx context.Context, key, mediaType string, data []byte) error

	// Remove deletes the bytes for key; removing a missing key is not an
	// error
	Remove(ctx context.Context, key string) error
}
