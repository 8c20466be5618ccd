package attachments

import (
	"context"
	"errors"
	"testing"
	"time"
)

// fakeRepo is an in-memory attachment record store
type fakeRepo struct {
	records map[int64]*Attachment
	nextID  int64
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{records: make(map[int64]*Attachment)}
}

func (f *fakeRepo) Create(ctx context.Context, attachment *Attachment) error {
	f.nextID++
	attachment.ID = f.nextID
	stored := *attachment
	f.records[attachment.ID] = &stored
	return nil
}

func (f *fakeRepo) GetByID(ctx context.Context, id int64) (*Attachment, error) {
	if a, ok := f.records[id]; ok {
		copied := *a
		return &copied, nil
	}
	return nil, ErrNotFound
}

func (f *fakeRepo) ListOrphanedBefore(ctx context.Context, cutoff time.Time) ([]*Attachment, error) {
	var orphans []*Attachment
	for _, a := range f.records {
		if a.LinkedWaveID == nil && a.CreatedAt.Before(cutoff) {
			copied := *a
			orphans = append(orphans, &copied)
		}
	}
	return orphans, nil
}

func (f *fakeRepo) DeleteIfUnlinked(ctx context.Context, id int64) (bool, error) {
	a, ok := f.records[id]
	if !ok || a.LinkedWaveID != nil {
		return false, nil
	}
	delete(f.records, id)
	return true, nil
}

// fakeStore is an in-memory blob store with controllable failures
type fakeStore struct {
	blobs    map[string][]byte
	removed  []string
	failKeys map[string]error
	onRemove func(key string)
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		blobs:    make(map[string][]byte),
		failKeys: make(map[string]error),
	}
}

func (f *fakeStore) Put(ctx context.Context, key, mediaType string, data []byte) error {
	f.blobs[key] = data
	return nil
}

func (f *fakeStore) Remove(ctx context.Context, key string) error {
	if f.onRemove != nil {
		f.onRemove(key)
	}
	if err, ok := f.failKeys[key]; ok {
		return err
	}
	// removing a missing key is success
	delete(f.blobs, key)
	f.removed = append(f.removed, key)
	return nil
}

// pngHeader is the 8-byte PNG signature padded past the sniff threshold
func pngHeader() []byte {
	data := []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}
	return append(data, make([]byte, 32)...)
}

func TestUpload_DetectsMediaTypeAndStoresBytes(t *testing.T) {
	repo := newFakeRepo()
	store := newFakeStore()
	svc := NewAttachmentService(repo, store)

	att, err := svc.Upload(context.Background(), pngHeader())
	if err != nil {
		t.Fatalf("Upload failed: %v", err)
	}

	if att.MediaType != "image/png" {
		t.Errorf("expected detected type image/png, got %s", att.MediaType)
	}
	if att.StorageKey == "" || len(att.StorageKey) != 32 {
		t.Errorf("expected 32-char opaque storage key, got %q", att.StorageKey)
	}
	if _, ok := store.blobs[att.StorageKey]; !ok {
		t.Errorf("bytes not stored under %s", att.StorageKey)
	}

	stored, err := repo.GetByID(context.Background(), att.ID)
	if err != nil {
		t.Fatalf("record not created: %v", err)
	}
	if stored.Linked() {
		t.Errorf("fresh upload must be unlinked")
	}
	if stored.CreatedAt.IsZero() {
		t.Errorf("upload must stamp createdAt")
	}
}

func TestUpload_RejectsEmptyData(t *testing.T) {
	svc := NewAttachmentService(newFakeRepo(), newFakeStore())

	if _, err := svc.Upload(context.Background(), nil); err == nil {
		t.Fatal("expected error for empty upload")
	}
}

func TestUpload_KeysAreUnique(t *testing.T) {
	repo := newFakeRepo()
	store := newFakeStore()
	svc := NewAttachmentService(repo, store)

	seen := make(map[string]bool)
	for i := 0; i < 20; i++ {
		att, err := svc.Upload(context.Background(), pngHeader())
		if err != nil {
			t.Fatalf("Upload failed: %v", err)
		}
		if seen[att.StorageKey] {
			t.Fatalf("duplicate storage key %s", att.StorageKey)
		}
		seen[att.StorageKey] = true
	}
}

func TestRemoveBytes_ToleratesAbsent(t *testing.T) {
	store := newFakeStore()
	svc := NewAttachmentService(newFakeRepo(), store)

	if err := svc.RemoveBytes(context.Background(), "never-stored"); err != nil {
		t.Fatalf("removing absent bytes must succeed, got %v", err)
	}
}

func TestRemoveBytes_PropagatesStorageErrors(t *testing.T) {
	store := newFakeStore()
	store.failKeys["bad"] = errors.New("storage unavailable")
	svc := NewAttachmentService(newFakeRepo(), store)

	if err := svc.RemoveBytes(context.Background(), "bad"); err == nil {
		t.Fatal("expected storage error to surface to the caller")
	}
}
