package wave

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"Waver/internal/api/middleware"
	"Waver/internal/core/waves"
)

func newDeleteRouter(svc waves.Service) chi.Router {
	r := chi.NewRouter()
	handler := NewDeleteHandler(svc)
	r.Delete("/waves/{id:[0-9]+}", handler.HandleDelete)
	return r
}

func deleteRequest(waveID string, callerID int64) *http.Request {
	req := httptest.NewRequest(http.MethodDelete, "/waves/"+waveID, nil)
	if callerID != 0 {
		req = req.WithContext(middleware.SetTestUserID(req.Context(), callerID))
	}
	return req
}

func TestHandleDelete_Success(t *testing.T) {
	svc := &mockWaveService{}
	router := newDeleteRouter(svc)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, deleteRequest("42", 7))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if svc.deletedWave != 42 || svc.deleteCaller != 7 {
		t.Errorf("expected delete of wave 42 by user 7, got wave %d user %d",
			svc.deletedWave, svc.deleteCaller)
	}

	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if body["message"] != "Wave is removed" {
		t.Errorf("unexpected message %q", body["message"])
	}
}

func TestHandleDelete_Unauthenticated(t *testing.T) {
	svc := &mockWaveService{}
	router := newDeleteRouter(svc)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, deleteRequest("42", 0))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if svc.lastCall == "Delete" {
		t.Error("service should not be reached without a caller id")
	}
}

func TestHandleDelete_RefusalIsForbidden(t *testing.T) {
	svc := &mockWaveService{err: waves.ErrNotAllowed}
	router := newDeleteRouter(svc)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, deleteRequest("42", 7))

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if body["error"] != "NotAllowed" {
		t.Errorf("unexpected error code %q", body["error"])
	}
}

func TestHandleDelete_MissingWaveIsForbiddenToo(t *testing.T) {
	// The service folds a missing wave into the same refusal, so the
	// handler cannot leak existence through a 404.
	svc := &mockWaveService{err: waves.ErrNotAllowed}
	router := newDeleteRouter(svc)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, deleteRequest("9999", 7))

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}
