package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"Waver/internal/core/attachments"
)

type postgresAttachmentRepo struct {
	db *sql.DB
}

// NewAttachmentRepository creates a new PostgreSQL attachment repository
func NewAttachmentRepository(db *sql.DB) attachments.Repository {
	return &postgresAttachmentRepo{db: db}
}

// Create inserts a new unlinked attachment record
func (r *postgresAttachmentRepo) Create(ctx context.Context, attachment *attachments.Attachment) error {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO attachments (storage_key, media_type, created_at)
		VALUES ($1, $2, $3)
		RETURNING id
	`, attachment.StorageKey, attachment.MediaType, attachment.CreatedAt).Scan(&attachment.ID)
	if err != nil {
		return fmt.Errorf("failed to insert attachment: %w", err)
	}
	return nil
}

// GetByID retrieves an attachment by id
func (r *postgresAttachmentRepo) GetByID(ctx context.Context, id int64) (*attachments.Attachment, error) {
	var attachment attachments.Attachment
	err := r.db.QueryRowContext(ctx, `
		SELECT id, storage_key, media_type, created_at, linked_wave_id
		FROM attachments
		WHERE id = $1
	`, id).Scan(
		&attachment.ID, &attachment.StorageKey, &attachment.MediaType,
		&attachment.CreatedAt, &attachment.LinkedWaveID,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, attachments.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get attachment: %w", err)
	}
	return &attachment, nil
}

// ListOrphanedBefore returns attachments created before the cutoff that
// were never linked to a wave
func (r *postgresAttachmentRepo) ListOrphanedBefore(ctx context.Context, cutoff time.Time) ([]*attachments.Attachment, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, storage_key, media_type, created_at, linked_wave_id
		FROM attachments
		WHERE created_at < $1 AND linked_wave_id IS NULL
		ORDER BY id
	`, cutoff)
	if err != nil {
		return nil, fmt.Errorf("failed to list orphaned attachments: %w", err)
	}
	defer rows.Close()

	var orphans []*attachments.Attachment
	for rows.Next() {
		var attachment attachments.Attachment
		if err := rows.Scan(
			&attachment.ID, &attachment.StorageKey, &attachment.MediaType,
			&attachment.CreatedAt, &attachment.LinkedWaveID,
		); err != nil {
			return nil, fmt.Errorf("failed to scan attachment: %w", err)
		}
		orphans = append(orphans, &attachment)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating attachments: %w", err)
	}
	return orphans, nil
}

// DeleteIfUnlinked deletes the record only while it is still unlinked.
// The filter is part of the DELETE itself, so a claim that raced the
// caller's selection keeps its row.
func (r *postgresAttachmentRepo) DeleteIfUnlinked(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM attachments WHERE id = $1 AND linked_wave_id IS NULL`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete attachment: %w", err)
	}
	deleted, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read delete result: %w", err)
	}
	return deleted > 0, nil
}
