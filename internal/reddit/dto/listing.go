package dto

import "github.com/subdl/subreddit-dl/internal/model"

// Listing is one element of the comment-page JSON array served at
// <permalink>.json. The page is an array of listings; the first one wraps
// the submission itself.
type Listing struct {
	Data ListingData `json:"data"`
}

// ListingData holds the children of a listing.
type ListingData struct {
	Children []ListingChild `json:"children"`
}

// ListingChild wraps one submission of a listing.
type ListingChild struct {
	Data ListingChildData `json:"data"`
}

// ListingChildData carries the only field the video fallback needs: the
// secure-media descriptor. A nil SecureMedia means the media was stripped
// before the video finished transcoding.
type ListingChildData struct {
	SecureMedia *model.Media `json:"secure_media"`
}

// SubmissionMedia digs the secure-media descriptor of the submission out
// of a decoded listing page. Returns nil when the page carries none.
func SubmissionMedia(listings []Listing) *model.Media {
	if len(listings) == 0 || len(listings[0].Data.Children) == 0 {
		return nil
	}
	return listings[0].Data.Children[0].Data.SecureMedia
}
