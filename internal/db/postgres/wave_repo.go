package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"Waver/internal/core/attachments"
	"Waver/internal/core/waves"
)

type postgresWaveRepo struct {
	db *sql.DB
}

// NewWaveRepository creates a new PostgreSQL wave repository
func NewWaveRepository(db *sql.DB) waves.Repository {
	return &postgresWaveRepo{db: db}
}

// waveSortClauses maps sort parameters to safe SQL ORDER BY clauses.
// This whitelist prevents SQL injection via dynamic ORDER BY construction.
// Ordering is entirely by id, which is creation order.
var waveSortClauses = map[string]string{
	waves.SortAscending:  "w.id ASC",
	waves.SortDescending: "w.id DESC",
}

func orderClause(sort string) string {
	if clause, ok := waveSortClauses[sort]; ok {
		return clause
	}
	return waveSortClauses[waves.SortDescending]
}

const waveViewColumns = `
		w.id, w.content, w.created_at,
		u.id, u.username, u.display_name,
		a.id, a.storage_key, a.media_type`

// Create inserts a wave and claims the attachment in the same transaction.
// The claim is a compare-and-set on the link column: an UPDATE guarded by
// "linked_wave_id IS NULL" so exactly one of two racing creations wins.
func (r *postgresWaveRepo) Create(ctx context.Context, wave *waves.Wave, attachmentID *int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	err = tx.QueryRowContext(ctx, `
		INSERT INTO waves (author_id, content, created_at)
		VALUES ($1, $2, $3)
		RETURNING id
	`, wave.AuthorID, wave.Content, wave.CreatedAt).Scan(&wave.ID)
	if err != nil {
		if strings.Contains(err.Error(), "fk_wave_author") {
			return fmt.Errorf("author not found: %d", wave.AuthorID)
		}
		return fmt.Errorf("failed to insert wave: %w", err)
	}

	if attachmentID != nil {
		res, err := tx.ExecContext(ctx, `
			UPDATE attachments
			SET linked_wave_id = $1
			WHERE id = $2 AND linked_wave_id IS NULL
		`, wave.ID, *attachmentID)
		if err != nil {
			return fmt.Errorf("failed to claim attachment: %w", err)
		}

		claimed, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to read claim result: %w", err)
		}
		if claimed == 0 {
			// Distinguish a missing attachment from a lost race
			var exists bool
			if err := tx.QueryRowContext(ctx,
				`SELECT EXISTS (SELECT 1 FROM attachments WHERE id = $1)`,
				*attachmentID).Scan(&exists); err != nil {
				return fmt.Errorf("failed to check attachment existence: %w", err)
			}
			if !exists {
				return attachments.ErrNotFound
			}
			return attachments.ErrAlreadyLinked
		}

		if _, err := tx.ExecContext(ctx,
			`UPDATE waves SET attachment_id = $1 WHERE id = $2`,
			*attachmentID, wave.ID); err != nil {
			return fmt.Errorf("failed to set wave attachment reference: %w", err)
		}
		wave.AttachmentID = attachmentID
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit wave creation: %w", err)
	}
	return nil
}

// GetByID retrieves a wave by id
func (r *postgresWaveRepo) GetByID(ctx context.Context, id int64) (*waves.Wave, error) {
	var wave waves.Wave
	err := r.db.QueryRowContext(ctx, `
		SELECT id, author_id, content, created_at, attachment_id
		FROM waves
		WHERE id = $1
	`, id).Scan(&wave.ID, &wave.AuthorID, &wave.Content, &wave.CreatedAt, &wave.AttachmentID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, waves.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get wave: %w", err)
	}
	return &wave, nil
}

// buildListFilters translates a ListQuery into a WHERE fragment and its
// positional arguments
func buildListFilters(q waves.ListQuery) (string, []interface{}) {
	var conds []string
	var args []interface{}

	if q.AuthorID != nil {
		args = append(args, *q.AuthorID)
		conds = append(conds, fmt.Sprintf("w.author_id = $%d", len(args)))
	}
	if q.BeforeID != nil {
		args = append(args, *q.BeforeID)
		conds = append(conds, fmt.Sprintf("w.id < $%d", len(args)))
	}

	if len(conds) == 0 {
		return "", args
	}
	return "WHERE " + strings.Join(conds, " AND "), args
}

// List returns a hydrated page of waves plus the total count for the same
// filters. Count and page run as two reads; the feed tolerates concurrent
// writes between them.
func (r *postgresWaveRepo) List(ctx context.Context, q waves.ListQuery) ([]*waves.WaveView, int64, error) {
	where, args := buildListFilters(q)

	var total int64
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM waves w %s`, where)
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count waves: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM waves w
		JOIN users u ON w.author_id = u.id
		LEFT JOIN attachments a ON a.id = w.attachment_id
		%s
		ORDER BY %s
		LIMIT $%d OFFSET $%d
	`, waveViewColumns, where, orderClause(q.Sort), len(args)+1, len(args)+2)
	args = append(args, q.Limit, q.Offset)

	views, err := r.queryViews(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	return views, total, nil
}

// ListAfter returns hydrated waves with id > afterID, limited but never
// counted
func (r *postgresWaveRepo) ListAfter(ctx context.Context, afterID int64, authorID *int64, limit int, sort string) ([]*waves.WaveView, error) {
	args := []interface{}{afterID}
	where := "WHERE w.id > $1"
	if authorID != nil {
		args = append(args, *authorID)
		where += fmt.Sprintf(" AND w.author_id = $%d", len(args))
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM waves w
		JOIN users u ON w.author_id = u.id
		LEFT JOIN attachments a ON a.id = w.attachment_id
		%s
		ORDER BY %s
		LIMIT $%d
	`, waveViewColumns, where, orderClause(sort), len(args)+1)
	args = append(args, limit)

	return r.queryViews(ctx, query, args...)
}

// CountAfter counts waves with id > afterID
func (r *postgresWaveRepo) CountAfter(ctx context.Context, afterID int64, authorID *int64) (int64, error) {
	args := []interface{}{afterID}
	where := "WHERE w.id > $1"
	if authorID != nil {
		args = append(args, *authorID)
		where += fmt.Sprintf(" AND w.author_id = $%d", len(args))
	}

	var count int64
	query := fmt.Sprintf(`SELECT COUNT(*) FROM waves w %s`, where)
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count waves after %d: %w", afterID, err)
	}
	return count, nil
}

// Delete removes the wave and its linked attachment record in one
// transaction. The wave's reference is cleared first so the attachment row
// can go; backing bytes are the caller's concern and are removed before
// this is invoked.
func (r *postgresWaveRepo) Delete(ctx context.Context, id int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx,
		`UPDATE waves SET attachment_id = NULL WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to clear attachment reference: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM attachments WHERE linked_wave_id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete linked attachment: %w", err)
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM waves WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete wave: %w", err)
	}
	deleted, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read delete result: %w", err)
	}
	if deleted == 0 {
		return waves.ErrNotFound
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit wave deletion: %w", err)
	}
	return nil
}

// queryViews runs a hydrating select and scans the rows into wave views
func (r *postgresWaveRepo) queryViews(ctx context.Context, query string, args ...interface{}) ([]*waves.WaveView, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query waves: %w", err)
	}
	defer rows.Close()

	var views []*waves.WaveView
	for rows.Next() {
		view, err := scanWaveView(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan wave: %w", err)
		}
		views = append(views, view)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating waves: %w", err)
	}
	return views, nil
}

func scanWaveView(rows *sql.Rows) (*waves.WaveView, error) {
	var view waves.WaveView
	var author waves.AuthorView
	var attID sql.NullInt64
	var attKey, attType sql.NullString

	err := rows.Scan(
		&view.ID, &view.Content, &view.CreatedAt,
		&author.ID, &author.Username, &author.DisplayName,
		&attID, &attKey, &attType,
	)
	if err != nil {
		return nil, err
	}

	view.Author = &author
	if attID.Valid {
		view.Attachment = &waves.AttachmentView{
			ID:         attID.Int64,
			StorageKey: attKey.String,
			MediaType:  attType.String,
		}
	}
	return &view, nil
}
