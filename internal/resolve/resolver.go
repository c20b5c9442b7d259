package resolve

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"

	"github.com/subdl/subreddit-dl/internal/http"
	"github.com/subdl/subreddit-dl/internal/model"
	"github.com/subdl/subreddit-dl/internal/retry"
)

// URL shapes the resolver recognizes.
var (
	directFileRe = regexp.MustCompile(`\.(jpg|gif|png)$`)
	gifvRe       = regexp.MustCompile(`\.gifv$`)
)

const (
	galleryPrefix = "https://www.reddit.com/gallery/"
	videoPrefix   = "https://v.redd.it/"
)

// Reporter receives resolution diagnostics keyed by post.
//
// Warnf is for skipped-but-expected conditions (undecodable page, rate
// limit cooldowns); Errorf is for abandoned posts.
type Reporter interface {
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

// NopReporter discards all diagnostics.
type NopReporter struct{}

func (NopReporter) Warnf(string, ...any)  {}
func (NopReporter) Errorf(string, ...any) {}

// Resolver classifies posts into fetchable media items.
type Resolver struct {
	client   *http.Client
	policy   *retry.Policy
	reporter Reporter

	// siteBase is the host prefix for permalink JSON lookups.
	siteBase string

	// cooldown is the wait after an explicit rate-limit response.
	cooldown time.Duration
}

// Option customizes a Resolver.
type Option func(*Resolver)

// WithSiteBase overrides the permalink host. Tests point it at a local
// server.
func WithSiteBase(base string) Option {
	return func(r *Resolver) { r.siteBase = strings.TrimSuffix(base, "/") }
}

// WithCooldown overrides the rate-limit cooldown.
func WithCooldown(d time.Duration) Option {
	return func(r *Resolver) { r.cooldown = d }
}

// New creates a Resolver.
//
// The policy governs the network lookups of the gifv and video paths; the
// reporter receives diagnostics for every skipped or abandoned post.
func New(client *http.Client, policy *retry.Policy, reporter Reporter, opts ...Option) *Resolver {
	r := &Resolver{
		client:   client,
		policy:   policy,
		reporter: reporter,
		siteBase: "https://www.reddit.com",
		cooldown: 5 * time.Minute,
	}
	if r.reporter == nil {
		r.reporter = NopReporter{}
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve classifies one post and returns its fetchable items.
//
// Resolve never fails: unresolvable and unsupported posts simply yield no
// items, with diagnostics going to the Reporter. External links are
// intentionally skipped without any report.
func (r *Resolver) Resolve(ctx context.Context, post model.Post) []model.ResolvedItem {
	switch {
	case directFileRe.MatchString(post.URL):
		return []model.ResolvedItem{{
			ID:   post.ID,
			URL:  post.URL,
			Kind: kindForURL(post.URL),
		}}

	case gifvRe.MatchString(post.URL):
		return r.resolveGifv(ctx, post)

	case strings.HasPrefix(post.URL, galleryPrefix):
		return r.resolveGallery(post)

	case strings.HasPrefix(post.URL, videoPrefix):
		return r.resolveVideo(ctx, post)

	default:
		// External link. Ignore it.
		return nil
	}
}

// resolveGifv follows a .gifv page to the real mp4 behind it.
//
// Hosts serve .gifv as an HTML page embedding the actual video; the mp4
// URL sits in a meta tag content attribute.
func (r *Resolver) resolveGifv(ctx context.Context, post model.Post) []model.ResolvedItem {
	var body []byte
	outcome, err := r.policy.Do(ctx, post.ID, func(ctx context.Context) error {
		var ferr error
		body, ferr = r.client.Get(ctx, post.URL)
		return ferr
	})
	if outcome != retry.OutcomeSuccess {
		r.reporter.Errorf("post skipped: %s: %v", post.ID, err)
		return nil
	}

	if !utf8.Valid(body) {
		r.reporter.Warnf("wrong encoding format for %s, skipped", post.URL)
		return nil
	}

	mp4 := extractEmbeddedMP4(body)
	if mp4 == "" {
		return nil
	}

	return []model.ResolvedItem{{ID: post.ID, URL: mp4, Kind: model.KindVideo}}
}

// extractEmbeddedMP4 returns the first meta content attribute ending in
// ".mp4", or "" when the page embeds none.
func extractEmbeddedMP4(page []byte) string {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page))
	if err != nil {
		return ""
	}

	var mp4 string
	doc.Find("meta").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if content, ok := s.Attr("content"); ok && strings.HasSuffix(content, ".mp4") {
			mp4 = content
			return false
		}
		return true
	})
	return mp4
}

// resolveGallery yields one image item per completed gallery entry.
//
// Entries still processing are silently dropped; a post with no metadata
// at all was removed and yields nothing. Completed entries are numbered
// sequentially from 1 in stable (sorted media ID) order, and the literal
// "amp;" artifacts of HTML entity escaping are stripped from served URLs.
func (r *Resolver) resolveGallery(post model.Post) []model.ResolvedItem {
	if post.MediaMetadata == nil {
		// Removed post.
		return nil
	}

	mediaIDs := make([]string, 0, len(post.MediaMetadata))
	for id := range post.MediaMetadata {
		mediaIDs = append(mediaIDs, id)
	}
	sort.Strings(mediaIDs)

	var items []model.ResolvedItem
	for _, mediaID := range mediaIDs {
		img := post.MediaMetadata[mediaID]
		if img.Status != model.TranscodingCompleted {
			// Not processed yet, carries no usable URL.
			continue
		}

		url := strings.ReplaceAll(img.Source.URL, "amp;", "")
		if url == "" {
			continue
		}

		items = append(items, model.ResolvedItem{
			ID:   fmt.Sprintf("%s_%d", post.ID, len(items)+1),
			URL:  url,
			Kind: kindForURL(url),
		})
	}
	return items
}

func kindForURL(url string) model.MediaKind {
	switch {
	case strings.Contains(url, ".gif"):
		return model.KindGIF
	default:
		return model.KindImage
	}
}
