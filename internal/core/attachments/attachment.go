package attachments

import "time"

// Attachment represents an uploaded binary blob. Records are created
// unlinked; the wave creation flow claims them exactly once. The media type
// is detected from the content bytes, never taken from client metadata.
type Attachment struct {
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
	StorageKey   string    `json:"storageKey" db:"storage_key"`
	MediaType    string    `json:"mediaType" db:"media_type"`
	LinkedWaveID *int64    `json:"linkedWaveId,omitempty" db:"linked_wave_id"`
	ID           int64     `json:"id" db:"id"`
}

// Linked reports whether the attachment has been claimed by a wave.
func (a *Attachment) Linked() bool {
	return a.LinkedWaveID != nil
}
