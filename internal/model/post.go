package model

// Post represents one enumerated submission from the feed.
//
// Only the fields the resolver needs are carried: the declared URL, the
// permalink (used by the JSON video fallback), gallery metadata for gallery
// posts, and crosspost lineage for reposted videos. Optional nested
// structures are pointers and maps so that "field absent" is an explicit
// nil check rather than a decoding error.
//
// Posts are immutable once fetched; the resolver never mutates them.
type Post struct {
	// ID is the feed-unique submission identifier, e.g. "q1567e".
	ID string `json:"id"`

	// URL is the declared link of the submission. For media posts this is
	// the media host URL; for self/external posts it is an arbitrary link.
	URL string `json:"url"`

	// Permalink is the site-relative comment page path, e.g.
	// "/r/pics/comments/q1567e/title/". Used for the JSON video fallback.
	Permalink string `json:"permalink"`

	// CreatedUTC is the submission time as a unix timestamp. The search
	// client paginates on it.
	CreatedUTC int64 `json:"created_utc"`

	// MediaMetadata describes the images of a gallery post, keyed by media
	// ID. Nil for non-gallery posts and for removed gallery posts.
	MediaMetadata map[string]GalleryImage `json:"media_metadata"`

	// CrosspostParents carries the lineage of a crossposted submission.
	// The first parent sometimes has richer video metadata than the post
	// itself. Empty for original posts.
	CrosspostParents []CrosspostParent `json:"crosspost_parent_list"`
}

// GalleryImage is one media entry of a gallery post.
type GalleryImage struct {
	// Status is the platform-side processing state. Only "completed"
	// entries carry a usable source URL.
	Status string `json:"status"`

	// Source holds the served variant of the image.
	Source GallerySource `json:"s"`
}

// GallerySource is the served URL of a gallery image.
type GallerySource struct {
	URL string `json:"u"`
}

// CrosspostParent is one entry of a post's crosspost lineage.
type CrosspostParent struct {
	Media *Media `json:"media"`
}

// Media is the nested media descriptor of a post or crosspost parent.
type Media struct {
	RedditVideo *RedditVideo `json:"reddit_video"`
}

// RedditVideo describes a platform-hosted video.
//
// The fallback URL is only playable once the transcoding status reaches
// "completed"; anything else means the video is still processing, failed to
// transcode, or was deleted.
type RedditVideo struct {
	TranscodingStatus string `json:"transcoding_status"`
	FallbackURL       string `json:"fallback_url"`
}

// TranscodingCompleted is the only RedditVideo status whose fallback URL
// is playable.
const TranscodingCompleted = "completed"

// Playable reports whether the video finished transcoding and has a
// fallback URL to download.
func (v *RedditVideo) Playable() bool {
	return v != nil && v.TranscodingStatus == TranscodingCompleted && v.FallbackURL != ""
}
