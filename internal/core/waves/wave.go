package waves

import "time"

// Wave represents a feed item as stored. The id is assigned by the store,
// strictly increasing and never reused; it is the sole ordering and cursor
// key. AttachmentID is set at most once, at creation time.
type Wave struct {
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
	Content      string    `json:"content" db:"content"`
	AttachmentID *int64    `json:"attachmentId,omitempty" db:"attachment_id"`
	ID           int64     `json:"id" db:"id"`
	AuthorID     int64     `json:"authorId" db:"author_id"`
}

// WaveView is the hydrated read model returned by feed queries
type WaveView struct {
	CreatedAt  time.Time       `json:"createdAt"`
	Content    string          `json:"content"`
	Author     *AuthorView     `json:"user"`
	Attachment *AttachmentView `json:"attachment,omitempty"`
	ID         int64           `json:"id"`
}

// AuthorView is the minimal author projection embedded in wave views
type AuthorView struct {
	Username    string `json:"username"`
	DisplayName string `json:"displayName"`
	ID          int64  `json:"id"`
}

// AttachmentView is the minimal attachment projection embedded in wave views
type AttachmentView struct {
	StorageKey string `json:"storageKey"`
	MediaType  string `json:"mediaType"`
	ID         int64  `json:"id"`
}

// CreateRequest represents input for creating a wave. AuthorID comes from
// the authenticated caller, never from the request body.
type CreateRequest struct {
	Content      string `json:"content"`
	AttachmentID *int64 `json:"-"`
	AuthorID     int64  `json:"-"`
}

// FeedRequest represents an anchorless feed query: a normal page ordered by
// recency, optionally scoped to one author (by username).
type FeedRequest struct {
	Author *string
	Sort   string
	Page   int
	Size   int
}

// RelativeRequest represents an id-anchored feed query. The anchor is a
// cursor: it need not reference an existing wave, since the wave it pointed
// at may have been deleted.
type RelativeRequest struct {
	Author   *string
	Sort     string
	AnchorID int64
	Page     int
	Size     int
}

// Page is a counted page of waves
type Page struct {
	Content    []*WaveView `json:"content"`
	TotalCount int64       `json:"totalElements"`
	Page       int         `json:"page"`
	Size       int         `json:"size"`
	TotalPages int         `json:"totalPages"`
}

// Sort orders accepted by feed queries; ordering is always by id
const (
	SortAscending  = "asc"
	SortDescending = "desc"
)
