package wave

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"Waver/internal/api/middleware"
	"Waver/internal/core/attachments"
	"Waver/internal/core/waves"
)

func postWave(t *testing.T, svc waves.Service, body string, callerID int64) *httptest.ResponseRecorder {
	t.Helper()

	handler := NewCreateHandler(svc)
	req := httptest.NewRequest(http.MethodPost, "/waves", strings.NewReader(body))
	if callerID != 0 {
		req = req.WithContext(middleware.SetTestUserID(req.Context(), callerID))
	}

	rec := httptest.NewRecorder()
	handler.HandleCreate(rec, req)
	return rec
}

func TestHandleCreate_Success(t *testing.T) {
	svc := &mockWaveService{created: &waves.WaveView{ID: 1, Content: "hello feed world"}}

	rec := postWave(t, svc, `{"content":"hello feed world"}`, 7)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if svc.lastCreate.AuthorID != 7 {
		t.Errorf("expected author from context, got %d", svc.lastCreate.AuthorID)
	}
	if svc.lastCreate.AttachmentID != nil {
		t.Error("no attachment was sent")
	}
}

func TestHandleCreate_ForwardsAttachmentID(t *testing.T) {
	svc := &mockWaveService{created: &waves.WaveView{ID: 1}}

	rec := postWave(t, svc, `{"content":"hello feed world","attachment":{"id":9}}`, 7)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if svc.lastCreate.AttachmentID == nil || *svc.lastCreate.AttachmentID != 9 {
		t.Errorf("expected attachment id 9, got %v", svc.lastCreate.AttachmentID)
	}
}

func TestHandleCreate_ContentBounds(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		wantCode int
	}{
		{"too short", "short", http.StatusBadRequest},
		{"minimum length", strings.Repeat("a", 10), http.StatusOK},
		{"maximum length", strings.Repeat("a", 5000), http.StatusOK},
		{"too long", strings.Repeat("a", 5001), http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockWaveService{created: &waves.WaveView{ID: 1}}
			rec := postWave(t, svc, `{"content":"`+tt.content+`"}`, 7)
			if rec.Code != tt.wantCode {
				t.Errorf("expected %d, got %d", tt.wantCode, rec.Code)
			}
		})
	}
}

func TestHandleCreate_Unauthenticated(t *testing.T) {
	svc := &mockWaveService{}

	rec := postWave(t, svc, `{"content":"hello feed world"}`, 0)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if svc.lastCall == "Create" {
		t.Error("service should not be reached without a caller id")
	}
}

func TestHandleCreate_ClaimConflictIsConflict(t *testing.T) {
	svc := &mockWaveService{err: attachments.ErrAlreadyLinked}

	rec := postWave(t, svc, `{"content":"hello feed world","attachment":{"id":9}}`, 7)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
}

func TestHandleCreate_MalformedBody(t *testing.T) {
	rec := postWave(t, &mockWaveService{}, `{"content":`, 7)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}
