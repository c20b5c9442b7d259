package download

import (
	"context"
	nethttp "net/http"
	"regexp"
	"strings"

	"github.com/subdl/subreddit-dl/internal/http"
	ioutils "github.com/subdl/subreddit-dl/internal/io"
	"github.com/subdl/subreddit-dl/internal/media"
	"github.com/subdl/subreddit-dl/internal/model"
	"github.com/subdl/subreddit-dl/internal/retry"
)

// dashResolutionRe matches the resolution marker of a platform video URL.
// Substituting it with DASH_audio yields the companion audio stream URL.
var dashResolutionRe = regexp.MustCompile(`DASH_(\d{3,4})`)

// ImageOptions controls optional post-processing of downloaded images.
type ImageOptions struct {
	Resize       bool
	MaxSize      int
	ConvertToJPG bool
	Service      *ioutils.ImageService
}

// DefaultVideoHost is the platform video host whose items need a
// companion-audio merge.
const DefaultVideoHost = "https://v.redd.it"

// DownloaderConfig wires a Downloader's collaborators.
type DownloaderConfig struct {
	Client *http.Client
	Policy *retry.Policy
	Router *media.Router
	Merger *media.Merger
	Images ImageOptions

	// VideoHost overrides DefaultVideoHost; tests point it at a local
	// server.
	VideoHost string
}

// Downloader fetches the raw bytes for one item and stores them.
//
// Platform videos get their companion audio stream fetched too, with both
// buffers handed to the Merger; everything else is written directly through
// the Router. The whole fetch-and-store of one item runs under the retry
// policy, so transient network failures repeat the operation and anything
// else abandons just this item.
type Downloader struct {
	client    *http.Client
	policy    *retry.Policy
	router    *media.Router
	merger    *media.Merger
	images    ImageOptions
	videoHost string
}

// NewDownloader creates a Downloader.
func NewDownloader(cfg DownloaderConfig) *Downloader {
	videoHost := cfg.VideoHost
	if videoHost == "" {
		videoHost = DefaultVideoHost
	}
	return &Downloader{
		client:    cfg.Client,
		policy:    cfg.Policy,
		router:    cfg.Router,
		merger:    cfg.Merger,
		images:    cfg.Images,
		videoHost: videoHost,
	}
}

// Download fetches one item and stores it under its destination name.
//
// A 404 or 403 means the resource was deleted and is not an error: some
// hosts answer 403 for their removed platform videos. The returned result
// is terminal; Download never panics and never returns an error to the
// scheduler.
func (d *Downloader) Download(ctx context.Context, name, url string) model.DownloadResult {
	id := idForName(name)

	var outcome model.Outcome
	retryOutcome, err := d.policy.Do(ctx, id, func(ctx context.Context) error {
		var derr error
		outcome, derr = d.fetchAndStore(ctx, name, url)
		return derr
	})

	switch retryOutcome {
	case retry.OutcomeSuccess:
		return model.DownloadResult{ID: id, Outcome: outcome}
	case retry.OutcomeAbandonedTransient:
		return model.DownloadResult{ID: id, Outcome: model.OutcomeFailedRetries, Err: err}
	default:
		return model.DownloadResult{ID: id, Outcome: model.OutcomeFailedFatal, Err: err}
	}
}

// fetchAndStore performs a single attempt for one item.
func (d *Downloader) fetchAndStore(ctx context.Context, name, url string) (model.Outcome, error) {
	status, body, err := d.client.Fetch(ctx, url)
	if err != nil {
		return 0, err
	}

	if status == nethttp.StatusNotFound || status == nethttp.StatusForbidden {
		// Deleted media, not a mistake.
		return model.OutcomeSkippedGone, nil
	}

	if strings.HasPrefix(url, d.videoHost) {
		if err := d.storeVideo(ctx, name, url, body); err != nil {
			return 0, err
		}
		return model.OutcomeSuccess, nil
	}

	if err := d.store(ctx, name, body); err != nil {
		return 0, err
	}
	return model.OutcomeSuccess, nil
}

// storeVideo fetches the companion audio stream and merges both.
//
// The audio response is handed over regardless of its status: a clip with
// no audio track answers with an error page, which makes the merge fail
// and triggers the raw-video fallback inside the Merger.
func (d *Downloader) storeVideo(ctx context.Context, name, url string, video []byte) error {
	audioURL := dashResolutionRe.ReplaceAllString(url, "DASH_audio")

	_, audio, err := d.client.Fetch(ctx, audioURL)
	if err != nil {
		return err
	}

	return d.merger.Merge(ctx, name, video, audio)
}

// store writes bytes through the Router, post-processing images first when
// configured.
func (d *Downloader) store(ctx context.Context, name string, body []byte) error {
	if model.KindForName(name) == model.KindImage && d.images.Service != nil {
		if d.images.Resize && d.images.MaxSize > 0 {
			if processed, err := d.images.Service.ResizeImage(ctx, body, d.images.MaxSize, d.images.MaxSize); err == nil {
				body = processed
			}
		} else if d.images.ConvertToJPG {
			if processed, err := d.images.Service.ConvertToJPEG(ctx, body); err == nil {
				body = processed
			}
		}
	}

	dest, err := d.router.Dest(name)
	if err != nil {
		return err
	}
	return ioutils.WriteFile(ctx, dest, body)
}
