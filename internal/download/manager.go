package download

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/subdl/subreddit-dl/internal/config"
	"github.com/subdl/subreddit-dl/internal/http"
	ioutils "github.com/subdl/subreddit-dl/internal/io"
	"github.com/subdl/subreddit-dl/internal/media"
	"github.com/subdl/subreddit-dl/internal/model"
	"github.com/subdl/subreddit-dl/internal/reddit"
	"github.com/subdl/subreddit-dl/internal/resolve"
	"github.com/subdl/subreddit-dl/internal/retry"
)

// ProgressLevel indicates the severity/type of a progress message.
type ProgressLevel int

const (
	LevelInfo ProgressLevel = iota
	LevelVerbose
	LevelWarning
	LevelError
	LevelSuccess
)

// ProgressEvent represents a progress update.
type ProgressEvent struct {
	Message string
	Level   ProgressLevel
}

// extensionRe matches the known media file suffixes anywhere in a URL.
// Some hosts append query parameters after the extension, so the match is
// not anchored to the end.
var extensionRe = regexp.MustCompile(`\.(jpe?g|gifv?|png|mp4)`)

// Manager coordinates enumeration, resolution, and the download batch.
type Manager struct {
	settings   *config.Settings
	httpClient *http.Client
	search     *reddit.Client
	resolver   *resolve.Resolver
	downloader *Downloader

	// runID tags every run's progress output so interleaved logs from
	// repeated runs stay tellable apart.
	runID string

	items      map[string]string
	totalItems int32
	doneItems  int32

	onProgress func(ProgressEvent)
}

// NewManager creates a new Manager from settings.
func NewManager(settings *config.Settings, onProgress func(ProgressEvent)) *Manager {
	httpClient := http.NewClient(http.ClientConfig{
		UserAgent: settings.UserAgent,
		MaxConns:  settings.MaxConcurrentDownloads,
	})

	policy := retry.NewPolicy(settings.DownloadMaxRetries, settings.RetryDelay())
	router := media.NewRouter(settings.DownloadRoot, settings.Subreddit)

	m := &Manager{
		settings:   settings,
		httpClient: httpClient,
		search:     reddit.NewClient(httpClient, settings.SearchAPIURL),
		runID:      uuid.NewString()[:8],
		onProgress: onProgress,
	}

	m.resolver = resolve.New(httpClient, policy, managerReporter{m},
		resolve.WithCooldown(settings.Cooldown()))

	m.downloader = NewDownloader(DownloaderConfig{
		Client: httpClient,
		Policy: policy,
		Router: router,
		Merger: media.NewMerger(router),
		Images: imageOptions(settings),
	})

	return m
}

// imageOptions maps the settings to the downloader's image post-processing.
func imageOptions(settings *config.Settings) ImageOptions {
	return ImageOptions{
		Resize:       settings.ResizeImages,
		MaxSize:      settings.ImageMaxSize,
		ConvertToJPG: settings.ConvertImagesToJPG,
		Service:      ioutils.NewImageService(),
	}
}

// Initialize validates configuration, enumerates the feed, and resolves
// every submission into fetchable items.
//
// Errors returned here are fatal: a malformed date window or an unusable
// download root aborts the run before anything is scheduled.
func (m *Manager) Initialize(ctx context.Context) error {
	before, after, err := m.settings.Window()
	if err != nil {
		return err
	}

	if err := m.downloader.router.Validate(); err != nil {
		return fmt.Errorf("is your download folder written correctly? %w", err)
	}

	m.progress(ProgressEvent{
		Message: fmt.Sprintf("Run %s: r/%s", m.runID, m.settings.Subreddit),
		Level:   LevelVerbose,
	})

	query := reddit.Query{Subreddit: m.settings.Subreddit, Before: before, After: after}

	total, err := m.search.Count(ctx, query)
	if err != nil {
		m.progress(ProgressEvent{Message: fmt.Sprintf("Could not size the search: %v", err), Level: LevelWarning})
	} else {
		m.progress(ProgressEvent{Message: m.scanBanner(total), Level: LevelInfo})
	}

	posts, err := m.search.Search(ctx, query, func(fetched int) {
		m.progress(ProgressEvent{Message: fmt.Sprintf("Fetched %d/%d submissions", fetched, total), Level: LevelVerbose})
	})
	if err != nil {
		return fmt.Errorf("enumerating r/%s: %w", m.settings.Subreddit, err)
	}

	m.items = make(map[string]string)
	for _, post := range posts {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		for _, item := range m.resolver.Resolve(ctx, post) {
			m.items[item.ID] = item.URL
		}
	}

	m.progress(ProgressEvent{
		Message: fmt.Sprintf("Resolved %d media items from %d submissions", len(m.items), len(posts)),
		Level:   LevelInfo,
	})

	return nil
}

// ItemCount returns how many items Initialize resolved.
func (m *Manager) ItemCount() int {
	return len(m.items)
}

// StartDownloads runs the batch for the items Initialize resolved.
func (m *Manager) StartDownloads(ctx context.Context) []model.DownloadResult {
	return m.Run(ctx, m.items)
}

// Run schedules one download task per item and awaits the whole batch.
//
// The identifier→URL mapping is the resolver's output. Each item gets its
// destination name by extension inference; items whose URL matches no known
// media shape are reported and skipped. Tasks run concurrently under the
// configured cap, and a failure in one task never cancels the others:
// exactly one DownloadResult comes back per item.
func (m *Manager) Run(ctx context.Context, items map[string]string) []model.DownloadResult {
	var (
		mu      sync.Mutex
		results []model.DownloadResult
	)
	collect := func(res model.DownloadResult) {
		mu.Lock()
		results = append(results, res)
		mu.Unlock()
		atomic.AddInt32(&m.doneItems, 1)
	}

	atomic.StoreInt32(&m.totalItems, int32(len(items)))

	named := make(map[string]string, len(items))
	for id, url := range items {
		name, ok := m.destName(id, url)
		if !ok {
			m.progress(ProgressEvent{Message: fmt.Sprintf("Unrecognized link skipped: %s", url), Level: LevelWarning})
			collect(model.DownloadResult{ID: id, Outcome: model.OutcomeUnrecognized})
			continue
		}
		named[name] = url
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(m.settings.MaxConcurrentDownloads)

	for name, url := range named {
		name, url := name, url
		g.Go(func() error {
			// An interrupt stops scheduling, but an item that already
			// started is left to finish so no partial file is dropped
			// mid-write.
			if ctx.Err() != nil {
				collect(model.DownloadResult{ID: idForName(name), Outcome: model.OutcomeFailedFatal, Err: ctx.Err()})
				return nil
			}

			res := m.downloader.Download(gctx, name, url)
			m.report(res)
			collect(res)
			return nil
		})
	}

	g.Wait()
	return results
}

// GetProgress returns the batch counters for progress display.
func (m *Manager) GetProgress() (done, total int32) {
	return atomic.LoadInt32(&m.doneItems), atomic.LoadInt32(&m.totalItems)
}

// Close releases the shared HTTP client's idle connections.
func (m *Manager) Close() {
	m.httpClient.Close()
}

// destName derives the destination file name for an item.
//
// The extension comes from the URL's matched suffix; platform video URLs
// without one default to mp4 (their DASH paths carry no extension at all).
func (m *Manager) destName(id, url string) (string, bool) {
	if match := extensionRe.FindStringSubmatch(url); match != nil {
		return id + "." + match[1], true
	}
	if strings.Contains(url, "v.redd.it") {
		return id + ".mp4", true
	}
	return "", false
}

// idForName strips the inferred extension back off a destination name.
func idForName(name string) string {
	if i := strings.LastIndexByte(name, '.'); i > 0 {
		return name[:i]
	}
	return name
}

func (m *Manager) report(res model.DownloadResult) {
	switch res.Outcome {
	case model.OutcomeSuccess:
		m.progress(ProgressEvent{Message: fmt.Sprintf("Downloaded %s", res.ID), Level: LevelVerbose})
	case model.OutcomeSkippedGone:
		m.progress(ProgressEvent{Message: fmt.Sprintf("Skipped deleted media: %s", res.ID), Level: LevelVerbose})
	case model.OutcomeFailedRetries:
		m.progress(ProgressEvent{Message: fmt.Sprintf("Too many retries, post skipped: %s: %v", res.ID, res.Err), Level: LevelError})
	case model.OutcomeFailedFatal:
		m.progress(ProgressEvent{Message: fmt.Sprintf("Error downloading post %s: %v", res.ID, res.Err), Level: LevelError})
	}
}

func (m *Manager) scanBanner(total int) string {
	sub := m.settings.Subreddit
	switch {
	case m.settings.After != "" && m.settings.Before != "":
		return fmt.Sprintf("Scraping %d posts from r/%s before %s and after %s", total, sub, m.settings.Before, m.settings.After)
	case m.settings.Before != "":
		return fmt.Sprintf("Scraping %d posts from r/%s before %s", total, sub, m.settings.Before)
	case m.settings.After != "":
		return fmt.Sprintf("Scraping %d posts from r/%s after %s", total, sub, m.settings.After)
	default:
		return fmt.Sprintf("Scraping all %d posts from r/%s", total, sub)
	}
}

func (m *Manager) progress(event ProgressEvent) {
	if m.onProgress != nil {
		m.onProgress(event)
	}
}

// managerReporter adapts the Manager's progress callback to the resolver's
// Reporter interface.
type managerReporter struct{ m *Manager }

func (r managerReporter) Warnf(format string, args ...any) {
	r.m.progress(ProgressEvent{Message: fmt.Sprintf(format, args...), Level: LevelWarning})
}

func (r managerReporter) Errorf(format string, args ...any) {
	r.m.progress(ProgressEvent{Message: fmt.Sprintf(format, args...), Level: LevelError})
}
