package resolve

import (
	"context"
	"encoding/json"
	"fmt"
	nethttp "net/http"
	"time"

	"github.com/subdl/subreddit-dl/internal/model"
	"github.com/subdl/subreddit-dl/internal/reddit/dto"
	"github.com/subdl/subreddit-dl/internal/retry"
)

// browserHeaders is the header set of a desktop browser. The comment-page
// JSON endpoint serves a different (unusable) response to unadorned
// clients, so the fallback request masquerades as one.
var browserHeaders = map[string]string{
	"authority":                 "www.reddit.com",
	"sec-ch-ua":                 `"Chromium";v="94", "Google Chrome";v="94", ";Not A Brand";v="99"`,
	"sec-ch-ua-mobile":          "?0",
	"sec-ch-ua-platform":        `"Windows"`,
	"dnt":                       "1",
	"upgrade-insecure-requests": "1",
	"user-agent":                "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/94.0.4606.71 Safari/537.36",
	"accept":                    "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,image/apng,*/*;q=0.8,application/signed-exchange;v=b3;q=0.9",
	"sec-fetch-site":            "none",
	"sec-fetch-mode":            "navigate",
	"sec-fetch-user":            "?1",
	"sec-fetch-dest":            "document",
	"accept-language":           "en,es-ES;q=0.9,es;q=0.8",
}

// resolveVideo resolves a platform-hosted video post to its fallback
// playback URL.
//
// Crossposted submissions carry the original post's video descriptor, so
// no extra request is needed; everything else goes through the permalink
// JSON lookup. Either way, a video whose transcoding status is not
// "completed" yields nothing.
func (r *Resolver) resolveVideo(ctx context.Context, post model.Post) []model.ResolvedItem {
	if len(post.CrosspostParents) > 0 {
		return r.resolveCrosspostVideo(post)
	}

	var url string
	outcome, err := r.policy.Do(ctx, post.ID, func(ctx context.Context) error {
		var rerr error
		url, rerr = r.videoFromPermalink(ctx, post)
		return rerr
	})
	if outcome != retry.OutcomeSuccess {
		r.reporter.Errorf("post skipped: %s: %v", post.ID, err)
		return nil
	}
	if url == "" {
		return nil
	}

	return []model.ResolvedItem{{ID: post.ID, URL: url, Kind: model.KindVideo}}
}

// resolveCrosspostVideo reads the first crosspost parent's descriptor.
func (r *Resolver) resolveCrosspostVideo(post model.Post) []model.ResolvedItem {
	parent := post.CrosspostParents[0]
	if parent.Media == nil || !parent.Media.RedditVideo.Playable() {
		// Deleted, or the transcode never finished.
		return nil
	}

	return []model.ResolvedItem{{
		ID:   post.ID,
		URL:  parent.Media.RedditVideo.FallbackURL,
		Kind: model.KindVideo,
	}}
}

// videoFromPermalink fetches <permalink>.json and digs out the secure-media
// fallback URL.
//
// An explicit 429 is waited out for the full cooldown and the identical
// request is retried; repeated 429s repeat the pattern without bound, per
// the server's own request for a longer pause. An empty return with nil
// error means the video is unavailable (media stripped, or transcode not
// completed). A malformed body is an error; the caller abandons the post.
func (r *Resolver) videoFromPermalink(ctx context.Context, post model.Post) (string, error) {
	url := r.siteBase + post.Permalink + ".json"

	for {
		status, body, err := r.client.FetchWith(ctx, url, browserHeaders)
		if err != nil {
			return "", err
		}

		if status == nethttp.StatusTooManyRequests {
			r.reporter.Warnf("rate limited fetching %s, cooling down %s", post.ID, r.cooldown)
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(r.cooldown):
			}
			continue
		}

		var listings []dto.Listing
		if err := json.Unmarshal(body, &listings); err != nil {
			return "", fmt.Errorf("malformed comment page for %s: %w", post.ID, err)
		}

		media := dto.SubmissionMedia(listings)
		if media == nil {
			// Media stripped before the video was transcoded.
			return "", nil
		}
		if !media.RedditVideo.Playable() {
			return "", nil
		}
		return media.RedditVideo.FallbackURL, nil
	}
}
