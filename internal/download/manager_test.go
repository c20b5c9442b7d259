package download

import (
	"context"
	"fmt"
	nethttp "net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/subdl/subreddit-dl/internal/config"
	"github.com/subdl/subreddit-dl/internal/model"
)

func TestManager_DestName(t *testing.T) {
	m := NewManager(config.DefaultSettings(), nil)

	tests := []struct {
		id, url  string
		wantName string
		wantOK   bool
	}{
		{"a1", "https://i.redd.it/pic.jpg", "a1.jpg", true},
		{"a2", "https://i.redd.it/pic.jpeg?width=640", "a2.jpeg", true},
		{"a3", "https://i.imgur.com/anim.gif", "a3.gif", true},
		{"a4", "https://i.imgur.com/anim.gifv", "a4.gifv", true},
		{"a5", "https://i.redd.it/pic.png", "a5.png", true},
		{"a6", "https://v.redd.it/abc/DASH_720.mp4?source=fallback", "a6.mp4", true},
		{"a7", "https://v.redd.it/gyh95hiqc0b11/DASH_9_6_M?source=fallback", "a7.mp4", true},
		{"a8", "https://example.com/page", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			name, ok := m.destName(tt.id, tt.url)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if name != tt.wantName {
				t.Errorf("name = %q, want %q", name, tt.wantName)
			}
		})
	}
}

// TestManager_EndToEnd drives a full run against a local server: one direct
// png post, one gifv post whose page embeds an mp4, and one gallery post
// with two completed images. Four files must land in the right subfolders
// with no errors reported.
func TestManager_EndToEnd(t *testing.T) {
	var server *httptest.Server
	server = httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		switch r.URL.Path {
		case "/search":
			if r.URL.Query().Get("metadata") == "true" {
				fmt.Fprint(w, `{"data":[],"metadata":{"es":{"hits":{"total":{"value":3}}}}}`)
				return
			}
			fmt.Fprintf(w, `{"data":[
				{"id":"p1","url":"%[1]s/pic.png","created_utc":300},
				{"id":"p2","url":"%[1]s/anim.gifv","created_utc":200},
				{"id":"p3","url":"https://www.reddit.com/gallery/p3","created_utc":100,
				 "media_metadata":{
					"m1":{"status":"completed","s":{"u":"%[1]s/g1.jpg"}},
					"m2":{"status":"completed","s":{"u":"%[1]s/g2.jpg"}}
				 }}
			]}`, server.URL)
		case "/pic.png":
			w.Write([]byte("png-bytes"))
		case "/anim.gifv":
			fmt.Fprintf(w, `<html><head><meta property="og:video" content="%s/real.mp4"/></head></html>`, server.URL)
		case "/real.mp4":
			w.Write([]byte("mp4-bytes"))
		case "/g1.jpg", "/g2.jpg":
			w.Write([]byte("jpg-bytes"))
		default:
			w.WriteHeader(nethttp.StatusNotFound)
		}
	}))
	defer server.Close()

	root := t.TempDir()
	settings := config.DefaultSettings()
	settings.Subreddit = "testsub"
	settings.DownloadRoot = root
	settings.SearchAPIURL = server.URL + "/search"
	settings.DownloadRetryDelay = 0.001

	var errorEvents []string
	manager := NewManager(settings, func(event ProgressEvent) {
		if event.Level == LevelError {
			errorEvents = append(errorEvents, event.Message)
		}
	})
	defer manager.Close()

	if err := manager.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	if manager.ItemCount() != 4 {
		t.Fatalf("resolved %d items, want 4", manager.ItemCount())
	}

	results := manager.StartDownloads(context.Background())
	if len(results) != 4 {
		t.Fatalf("got %d results, want 4", len(results))
	}
	for _, res := range results {
		if res.Outcome != model.OutcomeSuccess {
			t.Errorf("item %s: outcome %v (%v), want success", res.ID, res.Outcome, res.Err)
		}
	}
	if len(errorEvents) != 0 {
		t.Errorf("unexpected error events: %v", errorEvents)
	}

	for _, path := range []string{
		filepath.Join(root, "testsub", "images", "p1.png"),
		filepath.Join(root, "testsub", "videos", "p2.mp4"),
		filepath.Join(root, "testsub", "images", "p3_1.jpg"),
		filepath.Join(root, "testsub", "images", "p3_2.jpg"),
	} {
		if _, err := os.Stat(path); err != nil {
			t.Errorf("expected file missing: %s", path)
		}
	}
}

func TestManager_InitializeRejectsBadDates(t *testing.T) {
	settings := config.DefaultSettings()
	settings.Subreddit = "testsub"
	settings.DownloadRoot = t.TempDir()
	settings.Before = "not-a-date"

	manager := NewManager(settings, nil)
	defer manager.Close()

	if err := manager.Initialize(context.Background()); err == nil {
		t.Error("expected fatal error for malformed date")
	}
}

func TestManager_RunIsolatesFailures(t *testing.T) {
	server := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		if r.URL.Path == "/gone.png" {
			w.WriteHeader(nethttp.StatusNotFound)
			return
		}
		w.Write([]byte("bytes"))
	}))
	defer server.Close()

	settings := config.DefaultSettings()
	settings.Subreddit = "testsub"
	settings.DownloadRoot = t.TempDir()
	settings.DownloadRetryDelay = 0.001

	manager := NewManager(settings, nil)
	defer manager.Close()

	results := manager.Run(context.Background(), map[string]string{
		"ok1":  server.URL + "/fine.png",
		"del1": server.URL + "/gone.png",
		"ext1": server.URL + "/page",
	})

	if len(results) != 3 {
		t.Fatalf("got %d results, want 3", len(results))
	}

	byID := make(map[string]model.Outcome)
	for _, res := range results {
		byID[res.ID] = res.Outcome
	}
	if byID["ok1"] != model.OutcomeSuccess {
		t.Errorf("ok1 outcome = %v, want success", byID["ok1"])
	}
	if byID["del1"] != model.OutcomeSkippedGone {
		t.Errorf("del1 outcome = %v, want skipped-gone", byID["del1"])
	}
	if byID["ext1"] != model.OutcomeUnrecognized {
		t.Errorf("ext1 outcome = %v, want unrecognized", byID["ext1"])
	}
}
