// Package reddit enumerates submissions from the search index.
//
// The Client pages through a Pushshift-style submission search endpoint,
// bounded by an optional before/after time window, and can report the total
// match count for progress sizing:
//
//	client := reddit.NewClient(httpClient, settings.SearchAPIURL)
//
//	total, err := client.Count(ctx, reddit.Query{Subreddit: "pics"})
//
//	posts, err := client.Search(ctx, reddit.Query{
//	    Subreddit: "pics",
//	    Before:    beforeUnix,
//	    After:     afterUnix,
//	}, func(fetched int) { /* progress */ })
//
// Enumeration is deliberately thin: it produces model.Post values and knows
// nothing about media resolution or downloading.
package reddit
