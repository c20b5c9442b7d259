package reddit

import (
	"context"
	"fmt"
	nethttp "net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/subdl/subreddit-dl/internal/http"
)

func TestClient_Count(t *testing.T) {
	server := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		if r.URL.Query().Get("metadata") != "true" {
			t.Errorf("count request missing metadata param")
		}
		fmt.Fprint(w, `{"data":[],"metadata":{"es":{"hits":{"total":{"value":42}}}}}`)
	}))
	defer server.Close()

	client := NewClient(http.NewClient(http.ClientConfig{UserAgent: "test"}), server.URL)
	total, err := client.Count(context.Background(), Query{Subreddit: "pics"})
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if total != 42 {
		t.Errorf("total = %d, want 42", total)
	}
}

func TestClient_SearchPaginates(t *testing.T) {
	// Two full pages then a short one; the cursor must move backwards.
	var lastBefore int64
	server := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		before, _ := strconv.ParseInt(r.URL.Query().Get("before"), 10, 64)
		if before != 0 && lastBefore != 0 && before >= lastBefore {
			t.Errorf("cursor did not move backwards: %d then %d", lastBefore, before)
		}
		lastBefore = before

		start := int64(1000)
		if before != 0 {
			start = before - 1
		}

		count := 100
		if start < 900 {
			count = 3
		}

		fmt.Fprint(w, `{"data":[`)
		for i := 0; i < count; i++ {
			if i > 0 {
				fmt.Fprint(w, ",")
			}
			fmt.Fprintf(w, `{"id":"p%d","url":"https://i.redd.it/%d.jpg","created_utc":%d}`, start-int64(i), i, start-int64(i))
		}
		fmt.Fprint(w, `]}`)
	}))
	defer server.Close()

	client := NewClient(http.NewClient(http.ClientConfig{UserAgent: "test"}), server.URL)

	var pages int
	posts, err := client.Search(context.Background(), Query{Subreddit: "pics"}, func(fetched int) { pages++ })
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}

	if len(posts) != 203 {
		t.Errorf("got %d posts, want 203", len(posts))
	}
	if pages != 3 {
		t.Errorf("onPage called %d times, want 3", pages)
	}
	if posts[0].ID == "" || posts[0].CreatedUTC == 0 {
		t.Errorf("post fields not decoded: %+v", posts[0])
	}
}

func TestClient_SearchEmpty(t *testing.T) {
	server := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		fmt.Fprint(w, `{"data":[]}`)
	}))
	defer server.Close()

	client := NewClient(http.NewClient(http.ClientConfig{UserAgent: "test"}), server.URL)
	posts, err := client.Search(context.Background(), Query{Subreddit: "empty"}, nil)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(posts) != 0 {
		t.Errorf("got %d posts, want 0", len(posts))
	}
}
