package health

import (
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

func TestHealthz(t *testing.T) {
	rr := httptest.NewRecorder()
	Healthz(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rr.Code != http.StatusOK || rr.Body.String() != "ok\n" {
		t.Errorf("got %d %q", rr.Code, rr.Body.String())
	}
}

func TestReadyz(t *testing.T) {
	var ready atomic.Bool
	handler := Readyz(&ready)

	rr := httptest.NewRecorder()
	handler(rr, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	if rr.Code != http.StatusServiceUnavailable {
		t.Errorf("before ready: status = %d, want 503", rr.Code)
	}

	ready.Store(true)
	rr = httptest.NewRecorder()
	handler(rr, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	if rr.Code != http.StatusOK || rr.Body.String() != "ready\n" {
		t.Errorf("after ready: got %d %q", rr.Code, rr.Body.String())
	}
}
