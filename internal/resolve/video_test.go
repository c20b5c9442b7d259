package resolve

import (
	"context"
	"fmt"
	nethttp "net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/subdl/subreddit-dl/internal/model"
)

func crosspostPost(status string) model.Post {
	return model.Post{
		ID:  "vid001",
		URL: "https://v.redd.it/vid001",
		CrosspostParents: []model.CrosspostParent{{
			Media: &model.Media{RedditVideo: &model.RedditVideo{
				TranscodingStatus: status,
				FallbackURL:       "https://v.redd.it/vid001/DASH_720.mp4?source=fallback",
			}},
		}},
	}
}

func TestResolver_CrosspostVideo(t *testing.T) {
	r := newTestResolver()
	items := r.Resolve(context.Background(), crosspostPost("completed"))

	if len(items) != 1 {
		t.Fatalf("got %d items, want 1", len(items))
	}
	if items[0].Kind != model.KindVideo {
		t.Errorf("Kind = %v, want video", items[0].Kind)
	}
	if items[0].URL != "https://v.redd.it/vid001/DASH_720.mp4?source=fallback" {
		t.Errorf("URL = %q, want fallback URL", items[0].URL)
	}
}

func TestResolver_CrosspostVideoNotTranscoded(t *testing.T) {
	r := newTestResolver()
	if items := r.Resolve(context.Background(), crosspostPost("in_progress")); items != nil {
		t.Errorf("unfinished transcode yielded %d items, want none", len(items))
	}
}

func TestResolver_CrosspostVideoDeleted(t *testing.T) {
	post := model.Post{
		ID:               "vid002",
		URL:              "https://v.redd.it/vid002",
		CrosspostParents: []model.CrosspostParent{{Media: nil}},
	}

	r := newTestResolver()
	if items := r.Resolve(context.Background(), post); items != nil {
		t.Errorf("deleted crosspost yielded %d items, want none", len(items))
	}
}

const listingJSON = `[{"data":{"children":[{"data":{"secure_media":{"reddit_video":{"transcoding_status":"completed","fallback_url":"https://v.redd.it/vid003/DASH_1080.mp4?source=fallback"}}}}]}}]`

func TestResolver_PermalinkVideo(t *testing.T) {
	var sawJSONSuffix atomic.Bool
	server := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		if r.URL.Path == "/r/videos/comments/vid003/title/.json" {
			sawJSONSuffix.Store(true)
		}
		if r.Header.Get("sec-fetch-mode") == "" {
			t.Error("fallback request missing browser header set")
		}
		fmt.Fprint(w, listingJSON)
	}))
	defer server.Close()

	r := newTestResolver(WithSiteBase(server.URL))
	items := r.Resolve(context.Background(), model.Post{
		ID:        "vid003",
		URL:       "https://v.redd.it/vid003",
		Permalink: "/r/videos/comments/vid003/title/",
	})

	if !sawJSONSuffix.Load() {
		t.Error("permalink was not fetched with a .json suffix")
	}
	if len(items) != 1 {
		t.Fatalf("got %d items, want 1", len(items))
	}
	if items[0].URL != "https://v.redd.it/vid003/DASH_1080.mp4?source=fallback" {
		t.Errorf("URL = %q, want fallback URL", items[0].URL)
	}
}

func TestResolver_PermalinkRateLimited(t *testing.T) {
	var requests atomic.Int32
	server := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		if requests.Add(1) == 1 {
			w.WriteHeader(nethttp.StatusTooManyRequests)
			return
		}
		fmt.Fprint(w, listingJSON)
	}))
	defer server.Close()

	r := newTestResolver(WithSiteBase(server.URL), WithCooldown(50*time.Millisecond))

	start := time.Now()
	items := r.Resolve(context.Background(), model.Post{
		ID:        "vid004",
		URL:       "https://v.redd.it/vid004",
		Permalink: "/r/videos/comments/vid004/title/",
	})

	if got := requests.Load(); got != 2 {
		t.Errorf("server saw %d requests, want 2 (one retry after cooldown)", got)
	}
	if elapsed := time.Since(start); elapsed < 50*time.Millisecond {
		t.Errorf("retried after %s, want at least the cooldown", elapsed)
	}
	if len(items) != 1 {
		t.Fatalf("got %d items after rate limit, want 1", len(items))
	}
}

func TestResolver_PermalinkMalformedBody(t *testing.T) {
	server := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		fmt.Fprint(w, `<html>not json</html>`)
	}))
	defer server.Close()

	r := newTestResolver(WithSiteBase(server.URL))
	items := r.Resolve(context.Background(), model.Post{
		ID:        "vid005",
		URL:       "https://v.redd.it/vid005",
		Permalink: "/r/videos/comments/vid005/title/",
	})
	if items != nil {
		t.Errorf("malformed body yielded %d items, want none", len(items))
	}
}

func TestResolver_PermalinkMediaStripped(t *testing.T) {
	server := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		fmt.Fprint(w, `[{"data":{"children":[{"data":{"secure_media":null}}]}}]`)
	}))
	defer server.Close()

	r := newTestResolver(WithSiteBase(server.URL))
	items := r.Resolve(context.Background(), model.Post{
		ID:        "vid006",
		URL:       "https://v.redd.it/vid006",
		Permalink: "/r/videos/comments/vid006/title/",
	})
	if items != nil {
		t.Errorf("stripped media yielded %d items, want none", len(items))
	}
}
