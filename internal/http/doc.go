// Package http provides the shared HTTP client used by every download and
// resolution task.
//
// The Client in this package handles:
//   - A shared connection pool that doubles as the concurrency ceiling
//   - Disabled certificate verification (some media hosts present broken
//     or self-signed certificates)
//   - Configured User-Agent header
//   - Status-aware fetches so callers can branch on 404/403/429
//
// # Basic Usage
//
//	client := http.NewClient(http.ClientConfig{UserAgent: "subreddit-dl"})
//	defer client.Close()
//
//	// Fetch a page, treating any non-200 status as an error
//	body, err := client.Get(ctx, "https://i.imgur.com/abc.gifv")
//
//	// Fetch where the caller handles the status itself
//	status, body, err := client.Fetch(ctx, mediaURL)
//	if status == 404 || status == 403 {
//	    // resource gone
//	}
package http
