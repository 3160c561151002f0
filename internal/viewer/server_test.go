package viewer

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/star/issview/internal/render"
	"github.com/star/issview/internal/transform"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelWarn}))
}

var testAssets = fstest.MapFS{
	"index.html": {Data: []byte("<html>globe</html>")},
	"app.js":     {Data: []byte("// app")},
	"styles.css": {Data: []byte("body {}")},
}

func newTestServer(cfg Config) *Server {
	iss := orb.Point{-152.6450, 21.9032}
	ref := orb.Point{-77.9885, 0}
	scene := render.NewScene(
		transform.SphereMesh(transform.EarthRadius),
		transform.GeodeticToCartesian(iss),
		transform.GeodeticToCartesian(ref),
	)
	return NewServer(cfg, testLogger(), scene, Places(iss, ref), testAssets)
}

func TestRoutes(t *testing.T) {
	handler := newTestServer(Config{}).Handler()

	tests := []struct {
		method     string
		path       string
		wantStatus int
		wantType   string
		wantBody   string
	}{
		{http.MethodGet, "/healthz", http.StatusOK, "text/plain", "ok"},
		{http.MethodGet, "/readyz", http.StatusServiceUnavailable, "text/plain", "starting"},
		{http.MethodGet, "/", http.StatusOK, "text/html", "globe"},
		{http.MethodGet, "/app.js", http.StatusOK, "javascript", "// app"},
		{http.MethodGet, "/api/v1/scene", http.StatusOK, "application/json", `"axis_labels":["X","Y","Z"]`},
		{http.MethodGet, "/api/v1/iss.geojson", http.StatusOK, "application/geo+json", `"FeatureCollection"`},
		{http.MethodGet, "/scene.svg", http.StatusOK, "image/svg+xml", "<svg"},
		{http.MethodGet, "/scene.svg?elev=10&azim=45", http.StatusOK, "image/svg+xml", "<polyline"},
		{http.MethodGet, "/scene.svg?elev=high", http.StatusBadRequest, "application/json", "invalid elev"},
		{http.MethodGet, "/scene.svg?elev=NaN", http.StatusBadRequest, "application/json", "invalid elev"},
		{http.MethodGet, "/scene.svg?azim=-Inf", http.StatusBadRequest, "application/json", "invalid azim"},
		{http.MethodGet, "/scene.svg?azim=%2BInf", http.StatusBadRequest, "application/json", "invalid azim"},
		{http.MethodGet, "/metrics", http.StatusOK, "text/plain", "issview_http_requests_total"},
		{http.MethodGet, "/api/v1/viewer/close", http.StatusNotFound, "", ""},
		{http.MethodGet, "/missing", http.StatusNotFound, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, httptest.NewRequest(tt.method, tt.path, nil))

			if rr.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rr.Code, tt.wantStatus)
			}
			if tt.wantType != "" && !strings.Contains(rr.Header().Get("Content-Type"), tt.wantType) {
				t.Errorf("Content-Type = %q, want %q", rr.Header().Get("Content-Type"), tt.wantType)
			}
			if !strings.Contains(rr.Body.String(), tt.wantBody) {
				t.Errorf("body missing %q", tt.wantBody)
			}
		})
	}
}

func TestSceneJSON(t *testing.T) {
	rr := httptest.NewRecorder()
	newTestServer(Config{}).Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/scene", nil))

	var scene render.Scene
	if err := json.NewDecoder(rr.Body).Decode(&scene); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if scene.Mesh.Rows() != transform.MeshSamples || scene.Mesh.Cols() != transform.MeshSamples {
		t.Errorf("mesh is %dx%d", scene.Mesh.Rows(), scene.Mesh.Cols())
	}
	if len(scene.Markers) != 2 || scene.Markers[0].Color != "red" || scene.Markers[1].Color != "green" {
		t.Errorf("markers = %+v", scene.Markers)
	}
}

func TestPlacesGeoJSON(t *testing.T) {
	rr := httptest.NewRecorder()
	newTestServer(Config{}).Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/iss.geojson", nil))

	fc, err := geojson.UnmarshalFeatureCollection(rr.Body.Bytes())
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(fc.Features) != 2 {
		t.Fatalf("got %d features, want 2", len(fc.Features))
	}
	if got := fc.Features[0].Point(); got != (orb.Point{-152.6450, 21.9032}) {
		t.Errorf("ISS feature at %v", got)
	}
	if fc.Features[1].Properties.MustString("name") != "Reference" {
		t.Errorf("second feature = %v", fc.Features[1].Properties)
	}
}

// TestShowBlocksUntilClosed verifies that Show serves the page, opens the
// browser once, and returns only after the page reports it was closed.
func TestShowBlocksUntilClosed(t *testing.T) {
	srv := newTestServer(Config{Addr: "127.0.0.1:0", OpenBrowser: true})
	opened := make(chan string, 1)
	srv.open = func(url string) error {
		opened <- url
		return nil
	}

	done := make(chan error, 1)
	go func() { done <- srv.Show(context.Background()) }()

	select {
	case <-srv.started():
	case <-time.After(5 * time.Second):
		t.Fatal("viewer never became ready")
	}

	if url := <-opened; url != srv.address() {
		t.Errorf("opened %q, want %q", url, srv.address())
	}

	resp, err := http.Get(srv.address() + "readyz")
	if err != nil {
		t.Fatalf("GET /readyz: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("/readyz = %d, want 200", resp.StatusCode)
	}

	select {
	case err := <-done:
		t.Fatalf("Show returned before close: %v", err)
	case <-time.After(50 * time.Millisecond):
	}

	resp, err = http.Post(srv.address()+"api/v1/viewer/close", "text/plain", nil)
	if err != nil {
		t.Fatalf("POST close: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("close status = %d, want 204", resp.StatusCode)
	}

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Show returned error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Show did not return after close")
	}
}

func TestShowReturnsOnCancel(t *testing.T) {
	srv := newTestServer(Config{Addr: "127.0.0.1:0"})
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- srv.Show(ctx) }()
	<-srv.started()
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Show returned error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Show did not return after cancel")
	}
}

func TestShowListenError(t *testing.T) {
	if err := newTestServer(Config{Addr: "256.0.0.1:bad"}).Show(context.Background()); err == nil {
		t.Error("expected listen error")
	}
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name       string
		trustProxy bool
		xff        string
		xri        string
		remoteAddr string
		want       string
	}{
		{"remote addr", false, "", "", "192.168.1.1:12345", "192.168.1.1"},
		{"ipv6", false, "", "", "[::1]:12345", "::1"},
		{"no port", false, "", "", "192.168.1.1", "192.168.1.1"},
		{"untrusted xff ignored", false, "1.2.3.4", "", "10.0.0.1:1234", "10.0.0.1"},
		{"xff first entry", true, "1.2.3.4, 10.0.0.1", "", "10.0.0.3:1234", "1.2.3.4"},
		{"x-real-ip", true, "", "5.6.7.8", "10.0.0.1:1234", "5.6.7.8"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &http.Request{RemoteAddr: tt.remoteAddr, Header: http.Header{}}
			if tt.xff != "" {
				r.Header.Set("X-Forwarded-For", tt.xff)
			}
			if tt.xri != "" {
				r.Header.Set("X-Real-IP", tt.xri)
			}
			if got := clientIP(r, tt.trustProxy); got != tt.want {
				t.Errorf("clientIP = %q, want %q", got, tt.want)
			}
		})
	}
}
