package attachments

import "errors"

var (
	// ErrNotFound is returned when the referenced attachment does not exist
	ErrNotFound = errors.New("attachment not found")

	// ErrAlreadyLinked is returned when a claim loses the race: the
	// attachment exists but is already bound to another wave
	ErrAlreadyLinked = errors.New("attachment already linked to a wave")
)
