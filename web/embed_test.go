package web

import (
	"io/fs"
	"strings"
	"testing"
)

func TestContentFiles(t *testing.T) {
	for _, name := range []string{"index.html", "app.js", "styles.css"} {
		if _, err := fs.Stat(Content, name); err != nil {
			t.Errorf("%s not embedded: %v", name, err)
		}
	}
}

// TestCloseBeaconSkipsCachedPages checks that the viewer only reports a
// close when the page is really unloaded, not when it enters the
// back/forward cache.
func TestCloseBeaconSkipsCachedPages(t *testing.T) {
	data, err := fs.ReadFile(Content, "app.js")
	if err != nil {
		t.Fatalf("read app.js: %v", err)
	}
	js := string(data)

	handler := strings.Index(js, `addEventListener("pagehide"`)
	if handler < 0 {
		t.Fatal("no pagehide handler")
	}
	guard := strings.Index(js[handler:], "!e.persisted")
	beacon := strings.Index(js[handler:], `sendBeacon("api/v1/viewer/close")`)
	if guard < 0 || beacon < 0 || guard > beacon {
		t.Error("close beacon is not guarded by event.persisted")
	}

	page, err := fs.ReadFile(Content, "index.html")
	if err != nil {
		t.Fatalf("read index.html: %v", err)
	}
	if !strings.Contains(string(page), "reloading this tab exits") {
		t.Error("page hint does not mention that reloading exits")
	}
}
