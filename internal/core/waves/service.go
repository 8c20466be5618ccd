package waves

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"Waver/internal/core/attachments"
	"Waver/internal/core/users"
)

type waveService struct {
	repo        Repository
	directory   users.Directory
	attachments attachments.Service
}

// NewWaveService creates a new wave service
func NewWaveService(repo Repository, directory users.Directory, attachmentSvc attachments.Service) Service {
	return &waveService{
		repo:        repo,
		directory:   directory,
		attachments: attachmentSvc,
	}
}

// Create creates a wave for the authenticated author. When an attachment is
// referenced, insert and claim happen in one repository transaction: a wave
// is never visible with a dangling attachment reference, and an attachment
// never shows as linked to a wave that was not created.
func (s *waveService) Create(ctx context.Context, req CreateRequest) (*WaveView, error) {
	if req.AuthorID == 0 {
		return nil, NewValidationError("authorId", "author is required")
	}
	if req.Content == "" {
		return nil, NewValidationError("content", "content cannot be empty")
	}

	author, err := s.directory.GetByID(ctx, req.AuthorID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve author: %w", err)
	}

	wave := &Wave{
		AuthorID:  req.AuthorID,
		Content:   req.Content,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.repo.Create(ctx, wave, req.AttachmentID); err != nil {
		return nil, err
	}

	view := &WaveView{
		ID:        wave.ID,
		Content:   wave.Content,
		CreatedAt: wave.CreatedAt,
		Author: &AuthorView{
			ID:          author.ID,
			Username:    author.Username,
			DisplayName: author.DisplayName,
		},
	}

	if wave.AttachmentID != nil {
		att, err := s.attachments.Get(ctx, *wave.AttachmentID)
		if err != nil {
			return nil, fmt.Errorf("failed to load linked attachment: %w", err)
		}
		view.Attachment = &AttachmentView{
			ID:         att.ID,
			StorageKey: att.StorageKey,
			MediaType:  att.MediaType,
		}
	}

	return view, nil
}

// GetFeed returns a counted page ordered by recency
func (s *waveService) GetFeed(ctx context.Context, req FeedRequest) (*Page, error) {
	if err := validatePaging(&req.Page, &req.Size, &req.Sort); err != nil {
		return nil, err
	}

	authorID, err := s.resolveAuthor(ctx, req.Author)
	if err != nil {
		return nil, err
	}

	return s.listPage(ctx, ListQuery{
		AuthorID: authorID,
		Sort:     req.Sort,
		Offset:   req.Page * req.Size,
		Limit:    req.Size,
	}, req.Page, req.Size)
}

// GetOlder returns a counted page of waves with id < anchor. The anchor is
// never checked for existence: the inequality alone defines the result, so
// cursors stay usable after the anchor wave is deleted.
func (s *waveService) GetOlder(ctx context.Context, req RelativeRequest) (*Page, error) {
	if err := validatePaging(&req.Page, &req.Size, &req.Sort); err != nil {
		return nil, err
	}

	authorID, err := s.resolveAuthor(ctx, req.Author)
	if err != nil {
		return nil, err
	}

	anchor := req.AnchorID
	return s.listPage(ctx, ListQuery{
		AuthorID: authorID,
		BeforeID: &anchor,
		Sort:     req.Sort,
		Offset:   req.Page * req.Size,
		Limit:    req.Size,
	}, req.Page, req.Size)
}

// GetNewer returns a flat list of waves newer than the anchor. No count
// metadata is attached; callers wanting a count use CountNewer.
func (s *waveService) GetNewer(ctx context.Context, req RelativeRequest) ([]*WaveView, error) {
	if err := validatePaging(&req.Page, &req.Size, &req.Sort); err != nil {
		return nil, err
	}

	authorID, err := s.resolveAuthor(ctx, req.Author)
	if err != nil {
		return nil, err
	}

	views, err := s.repo.ListAfter(ctx, req.AnchorID, authorID, req.Size, req.Sort)
	if err != nil {
		return nil, fmt.Errorf("failed to list new waves: %w", err)
	}
	if views == nil {
		views = []*WaveView{}
	}
	return views, nil
}

// CountNewer counts waves newer than the anchor without materializing rows
func (s *waveService) CountNewer(ctx context.Context, req RelativeRequest) (int64, error) {
	authorID, err := s.resolveAuthor(ctx, req.Author)
	if err != nil {
		return 0, err
	}

	count, err := s.repo.CountAfter(ctx, req.AnchorID, authorID)
	if err != nil {
		return 0, fmt.Errorf("failed to count new waves: %w", err)
	}
	return count, nil
}

// CanDelete reports whether the caller owns the wave. Absence is reported
// as false, indistinguishable from non-ownership.
func (s *waveService) CanDelete(ctx context.Context, waveID, callerID int64) (bool, error) {
	wave, err := s.repo.GetByID(ctx, waveID)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to load wave: %w", err)
	}
	return wave.AuthorID == callerID, nil
}

// Delete removes a wave after the ownership check. Cascade order: backing
// bytes first (best-effort, logged), then attachment record and wave record
// in one transaction. Only the wave's own attachment is ever touched.
func (s *waveService) Delete(ctx context.Context, waveID, callerID int64) error {
	wave, err := s.repo.GetByID(ctx, waveID)
	if errors.Is(err, ErrNotFound) {
		return ErrNotAllowed
	}
	if err != nil {
		return fmt.Errorf("failed to load wave: %w", err)
	}
	if wave.AuthorID != callerID {
		return ErrNotAllowed
	}

	if wave.AttachmentID != nil {
		att, err := s.attachments.Get(ctx, *wave.AttachmentID)
		switch {
		case errors.Is(err, attachments.ErrNotFound):
			// record already gone; nothing to clean up
		case err != nil:
			return fmt.Errorf("failed to load linked attachment: %w", err)
		default:
			if err := s.attachments.RemoveBytes(ctx, att.StorageKey); err != nil {
				// storage cleanup is best-effort; the record
				// mutation proceeds regardless
				log.Printf("Failed to remove bytes for attachment %d (key %s): %v",
					att.ID, att.StorageKey, err)
			}
		}
	}

	return s.repo.Delete(ctx, waveID)
}

// listPage runs a counted listing and wraps it in a page envelope
func (s *waveService) listPage(ctx context.Context, q ListQuery, page, size int) (*Page, error) {
	views, total, err := s.repo.List(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("failed to list waves: %w", err)
	}
	if views == nil {
		views = []*WaveView{}
	}

	totalPages := 0
	if size > 0 {
		totalPages = int((total + int64(size) - 1) / int64(size))
	}

	return &Page{
		Content:    views,
		TotalCount: total,
		Page:       page,
		Size:       size,
		TotalPages: totalPages,
	}, nil
}

// resolveAuthor maps an optional username filter to a user id. An unknown
// author fails with users.ErrUserNotFound before any range query runs.
func (s *waveService) resolveAuthor(ctx context.Context, author *string) (*int64, error) {
	if author == nil || *author == "" {
		return nil, nil
	}
	user, err := s.directory.GetByUsername(ctx, *author)
	if err != nil {
		return nil, err
	}
	id := user.ID
	return &id, nil
}

// validatePaging applies defaults and bounds shared by the feed queries
func validatePaging(page, size *int, sort *string) error {
	if *page < 0 {
		*page = 0
	}
	if *size <= 0 {
		*size = 10
	}
	if *size > 100 {
		return NewValidationError("size", "size must not exceed 100")
	}
	if *sort == "" {
		*sort = SortDescending
	}
	if *sort != SortAscending && *sort != SortDescending {
		return NewValidationError("sort", "sort must be one of: asc, desc")
	}
	return nil
}
