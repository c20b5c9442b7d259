// Package download provides the orchestration logic for enumerating,
// resolving, and fetching subreddit media.
//
// # Manager
//
// The Manager coordinates the entire run:
//
//  1. Validate configuration (date window, destination folders)
//  2. Enumerate submissions from the search index
//  3. Resolve each submission into fetchable items
//  4. Download all items concurrently
//  5. Merge companion audio into platform videos
//
// # Basic Usage
//
//	manager := download.NewManager(settings, func(event download.ProgressEvent) {
//	    fmt.Println(event.Message)
//	})
//	defer manager.Close()
//
//	if err := manager.Initialize(ctx); err != nil {
//	    log.Fatal(err) // fatal configuration error
//	}
//
//	results := manager.StartDownloads(ctx)
//
// # Concurrency
//
// One task is launched per resolved item; the batch is capped by
// MaxConcurrentDownloads, which matches the shared HTTP client's
// connection-pool limit. A failure in one task never cancels another:
// every item ends in exactly one DownloadResult.
//
// # Progress Tracking
//
// Progress is reported via a callback that receives ProgressEvent values
// with Info/Verbose/Warning/Error/Success levels; abandoned items are
// always reported with their identifier and underlying error.
package download
