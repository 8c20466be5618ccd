package waves

import "context"

// Service defines the business logic interface for the feed
type Service interface {
	// Create creates a wave, atomically claiming the referenced
	// attachment when one is given
	Create(ctx context.Context, req CreateRequest) (*WaveView, error)

	// GetFeed returns a counted page ordered by recency, optionally
	// author-scoped
	GetFeed(ctx context.Context, req FeedRequest) (*Page, error)

	// GetOlder returns a counted page of waves with id < anchor
	GetOlder(ctx context.Context, req RelativeRequest) (*Page, error)

	// GetNewer returns a flat list of waves with id > anchor; callers
	// needing a count use CountNewer
	GetNewer(ctx context.Context, req RelativeRequest) ([]*WaveView, error)

	// CountNewer counts waves with id > anchor without materializing rows
	CountNewer(ctx context.Context, req RelativeRequest) (int64, error)

	// CanDelete reports whether the caller owns the wave. A missing wave
	// yields false, not an error.
	CanDelete(ctx context.Context, waveID, callerID int64) (bool, error)

	// Delete removes the wave and cascades to its linked attachment
	// (bytes and record); refusal leaves all state untouched
	Delete(ctx context.Context, waveID, callerID int64) error
}

// ListQuery is the filter set for counted page listings
type ListQuery struct {
	AuthorID *int64
	BeforeID *int64
	Sort     string
	Offset   int
	Limit    int
}

// Repository defines the data access interface for waves
type Repository interface {
	// Create inserts a wave and, when attachmentID is set, claims the
	// attachment in the same transaction. The claim is a compare-and-set
	// on the link column: exactly one of two racing creations wins.
	// Returns attachments.ErrNotFound or attachments.ErrAlreadyLinked
	// when the claim cannot be satisfied.
	Create(ctx context.Context, wave *Wave, attachmentID *int64) error

	// GetByID retrieves a wave, ErrNotFound when absent
	GetByID(ctx context.Context, id int64) (*Wave, error)

	// List returns a hydrated page plus the total count for the filters
	List(ctx context.Context, q ListQuery) ([]*WaveView, int64, error)

	// ListAfter returns hydrated waves with id > afterID, no count
	ListAfter(ctx context.Context, afterID int64, authorID *int64, limit int, sort string) ([]*WaveView, error)

	// CountAfter counts waves with id > afterID
	CountAfter(ctx context.Context, afterID int64, authorID *int64) (int64, error)

	// Delete removes the wave and its linked attachment record in one
	// transaction; ErrNotFound when the wave is absent
	Delete(ctx context.Context, id int64) error
}
