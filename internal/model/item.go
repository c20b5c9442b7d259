package model

import "strings"

// MediaKind is the category of a resolved media resource.
//
// The kind decides the destination subfolder (videos, gifs, images) and
// whether the downloader attempts a companion-audio merge (videos only).
type MediaKind int

const (
	KindImage MediaKind = iota
	KindGIF
	KindVideo
)

// String returns the lowercase kind name.
func (k MediaKind) String() string {
	switch k {
	case KindGIF:
		return "gif"
	case KindVideo:
		return "video"
	default:
		return "image"
	}
}

// KindForName infers the media kind from a file name by extension.
//
// Names ending in "mp4" are videos, "gif"/"gifv" are gifs, everything
// else is an image. This mirrors the storage layout under the download
// root.
func KindForName(name string) MediaKind {
	switch {
	case strings.HasSuffix(name, "mp4"):
		return KindVideo
	case strings.HasSuffix(name, "gif"), strings.HasSuffix(name, "gifv"):
		return KindGIF
	default:
		return KindImage
	}
}

// ResolvedItem is one concrete, fetchable media resource derived from a
// Post.
//
// The ID is the post ID, suffixed "_<n>" (1-indexed) for gallery entries so
// that item IDs stay unique within a run. The URL is final: fetching it
// requires no further indirection.
type ResolvedItem struct {
	ID   string
	URL  string
	Kind MediaKind
}

// Outcome classifies how a scheduled download ended.
type Outcome int

const (
	// OutcomeSuccess means the file was written to its destination.
	OutcomeSuccess Outcome = iota

	// OutcomeSkippedGone means the host reported the resource deleted
	// (404, or 403 for removed platform videos). Not an error.
	OutcomeSkippedGone

	// OutcomeFailedRetries means every retry attempt hit a transient
	// network error and the item was abandoned.
	OutcomeFailedRetries

	// OutcomeFailedFatal means a non-retryable error abandoned the item
	// on the first attempt.
	OutcomeFailedFatal

	// OutcomeUnrecognized means the URL matched no known media shape and
	// the item was skipped before download.
	OutcomeUnrecognized
)

// String returns a short label for the outcome, used in progress messages.
func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeSkippedGone:
		return "gone"
	case OutcomeFailedRetries:
		return "failed-after-retries"
	case OutcomeFailedFatal:
		return "failed"
	case OutcomeUnrecognized:
		return "unrecognized"
	default:
		return "unknown"
	}
}

// DownloadResult records the terminal state of one scheduled item.
//
// Every item handed to the pipeline produces exactly one DownloadResult;
// errors are folded into the result rather than propagated, so one item's
// failure can never abort its siblings.
type DownloadResult struct {
	ID      string
	Outcome Outcome

	// Err carries the underlying error description for abandoned items.
	// Nil for success, gone, and unrecognized outcomes.
	Err error
}
