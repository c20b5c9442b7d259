// Package dto contains the wire shapes of the two JSON APIs the
// application consumes: the submission search index and the comment-page
// listing used by the video fallback.
package dto

import "github.com/subdl/subreddit-dl/internal/model"

// SearchResponse is one page of the submission search API.
type SearchResponse struct {
	Data     []model.Post    `json:"data"`
	Metadata *SearchMetadata `json:"metadata"`
}

// SearchMetadata carries the total match count of a search, used for
// progress sizing. It is only present when the request asks for metadata.
type SearchMetadata struct {
	ES struct {
		Hits struct {
			Total struct {
				Value int `json:"value"`
			} `json:"total"`
		} `json:"hits"`
	} `json:"es"`
}

// Total returns the total match count, or zero when metadata is absent.
func (m *SearchMetadata) Total() int {
	if m == nil {
		return 0
	}
	return m.ES.Hits.Total.Value
}
