// Package model defines the core data structures used throughout
// the subreddit-dl application.
//
// # Post
//
// Post represents one enumerated submission from the feed, as returned by
// the search API. Posts are immutable once fetched:
//
//	post := model.Post{ID: "abc123", URL: "https://i.redd.it/pic.jpg"}
//
// # ResolvedItem
//
// ResolvedItem is one concrete, fetchable media resource derived from a
// Post. A single Post may yield zero, one, or many ResolvedItems (gallery
// posts yield one item per completed image, suffixed _1, _2, ...):
//
//	item := model.ResolvedItem{ID: "abc123_1", URL: imgURL, Kind: model.KindImage}
//
// # MediaKind
//
// MediaKind is the media category (image, gif, video). It determines the
// destination subfolder and whether an audio merge is attempted:
//
//	kind := model.KindForName("clip.mp4") // model.KindVideo
//
// # DownloadResult
//
// DownloadResult records the outcome of one scheduled download. Every item
// scheduled by the pipeline resolves to exactly one DownloadResult; per-item
// failures never escape the pipeline as errors.
package model
