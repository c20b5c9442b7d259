package resolve

import (
	"context"
	"fmt"
	nethttp "net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/subdl/subreddit-dl/internal/http"
	"github.com/subdl/subreddit-dl/internal/model"
	"github.com/subdl/subreddit-dl/internal/retry"
)

func newTestResolver(opts ...Option) *Resolver {
	client := http.NewClient(http.ClientConfig{UserAgent: "test"})
	policy := retry.NewPolicy(5, time.Millisecond)
	return New(client, policy, NopReporter{}, opts...)
}

func TestResolver_DirectFiles(t *testing.T) {
	tests := []struct {
		url  string
		kind model.MediaKind
	}{
		{"https://i.redd.it/pic.jpg", model.KindImage},
		{"https://i.redd.it/pic.png", model.KindImage},
		{"https://i.imgur.com/anim.gif", model.KindGIF},
	}

	r := newTestResolver()
	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			items := r.Resolve(context.Background(), model.Post{ID: "abc123", URL: tt.url})
			if len(items) != 1 {
				t.Fatalf("got %d items, want 1", len(items))
			}
			if items[0].ID != "abc123" {
				t.Errorf("ID = %q, want post ID", items[0].ID)
			}
			if items[0].URL != tt.url {
				t.Errorf("URL = %q, want declared URL", items[0].URL)
			}
			if items[0].Kind != tt.kind {
				t.Errorf("Kind = %v, want %v", items[0].Kind, tt.kind)
			}
		})
	}
}

func TestResolver_ExternalLinkSkipped(t *testing.T) {
	r := newTestResolver()
	items := r.Resolve(context.Background(), model.Post{ID: "abc123", URL: "https://example.com/article"})
	if items != nil {
		t.Errorf("external link yielded %d items, want none", len(items))
	}
}

func TestResolver_Gallery(t *testing.T) {
	post := model.Post{
		ID:  "gal001",
		URL: "https://www.reddit.com/gallery/gal001",
		MediaMetadata: map[string]model.GalleryImage{
			"aaa": {Status: "completed", Source: model.GallerySource{URL: "https://preview.redd.it/aaa.jpg?width=640&amp;format=pjpg"}},
			"bbb": {Status: "failed"},
			"ccc": {Status: "completed", Source: model.GallerySource{URL: "https://preview.redd.it/ccc.jpg"}},
		},
	}

	r := newTestResolver()
	items := r.Resolve(context.Background(), post)

	if len(items) != 2 {
		t.Fatalf("got %d items, want 2 (only completed entries)", len(items))
	}
	if items[0].ID != "gal001_1" || items[1].ID != "gal001_2" {
		t.Errorf("IDs = %q, %q, want sequential _1, _2 suffixes", items[0].ID, items[1].ID)
	}
	if items[0].URL != "https://preview.redd.it/aaa.jpg?width=640&format=pjpg" {
		t.Errorf("URL = %q, want amp; artifacts stripped", items[0].URL)
	}
	for _, item := range items {
		if item.Kind != model.KindImage {
			t.Errorf("Kind = %v, want image", item.Kind)
		}
	}
}

func TestResolver_GalleryRemovedPost(t *testing.T) {
	r := newTestResolver()
	items := r.Resolve(context.Background(), model.Post{
		ID:  "gal002",
		URL: "https://www.reddit.com/gallery/gal002",
	})
	if items != nil {
		t.Errorf("removed gallery yielded %d items, want none", len(items))
	}
}

func TestResolver_Gifv(t *testing.T) {
	server := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		fmt.Fprint(w, `<html><head>
			<meta property="og:url" content="https://imgur.com/abc"/>
			<meta property="og:video" content="https://i.imgur.com/abc.mp4"/>
		</head></html>`)
	}))
	defer server.Close()

	r := newTestResolver()
	items := r.Resolve(context.Background(), model.Post{ID: "gif001", URL: server.URL + "/abc.gifv"})

	if len(items) != 1 {
		t.Fatalf("got %d items, want 1", len(items))
	}
	if items[0].URL != "https://i.imgur.com/abc.mp4" {
		t.Errorf("URL = %q, want embedded mp4", items[0].URL)
	}
	if items[0].Kind != model.KindVideo {
		t.Errorf("Kind = %v, want video", items[0].Kind)
	}
}

func TestResolver_GifvWithoutMarker(t *testing.T) {
	server := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		fmt.Fprint(w, `<html><head><meta property="og:title" content="gone"/></head></html>`)
	}))
	defer server.Close()

	r := newTestResolver()
	items := r.Resolve(context.Background(), model.Post{ID: "gif002", URL: server.URL + "/gone.gifv"})
	if items != nil {
		t.Errorf("markerless page yielded %d items, want none", len(items))
	}
}

func TestResolver_GifvBadEncoding(t *testing.T) {
	server := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		w.Write([]byte{0xff, 0xfe, 0x00, 0x80, 0xc3})
	}))
	defer server.Close()

	r := newTestResolver()
	items := r.Resolve(context.Background(), model.Post{ID: "gif003", URL: server.URL + "/bad.gifv"})
	if items != nil {
		t.Errorf("undecodable page yielded %d items, want none", len(items))
	}
}
