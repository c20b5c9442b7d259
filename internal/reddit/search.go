package reddit

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/subdl/subreddit-dl/internal/http"
	"github.com/subdl/subreddit-dl/internal/model"
	"github.com/subdl/subreddit-dl/internal/reddit/dto"
)

// pageSize is how many submissions one search request asks for.
const pageSize = 100

// searchFields are the submission fields the resolver needs; requesting
// only these keeps the search index responses small.
var searchFields = "id,url,permalink,media_metadata,crosspost_parent_list,created_utc"

// Query bounds one enumeration run.
type Query struct {
	// Subreddit is the feed name, without the "r/" prefix.
	Subreddit string

	// Before and After are unix-timestamp bounds on submission time.
	// Zero means unbounded.
	Before int64
	After  int64
}

// Client enumerates submissions from the search index.
type Client struct {
	http    *http.Client
	baseURL string
}

// NewClient creates a search Client against the given endpoint, e.g.
// "https://api.pushshift.io/reddit/search/submission".
func NewClient(httpClient *http.Client, baseURL string) *Client {
	return &Client{http: httpClient, baseURL: baseURL}
}

// Count returns the total number of submissions matching the query.
//
// It issues a single metadata-only request (one result) so repeated
// progress sizing stays cheap for the index.
func (c *Client) Count(ctx context.Context, q Query) (int, error) {
	var resp dto.SearchResponse
	if err := c.http.GetJSON(ctx, c.searchURL(q, 1, 0, true), &resp); err != nil {
		return 0, fmt.Errorf("search metadata: %w", err)
	}

	return resp.Metadata.Total(), nil
}

// Search returns every submission matching the query, newest first.
//
// Pages are fetched by walking the created_utc cursor backwards until a
// page comes back empty. onPage, if non-nil, is called after each page with
// the running total of fetched submissions.
func (c *Client) Search(ctx context.Context, q Query, onPage func(fetched int)) ([]model.Post, error) {
	var posts []model.Post
	cursor := q.Before

	for {
		if err := ctx.Err(); err != nil {
			return posts, err
		}

		var resp dto.SearchResponse
		if err := c.http.GetJSON(ctx, c.searchURL(q, pageSize, cursor, false), &resp); err != nil {
			return posts, fmt.Errorf("search page: %w", err)
		}

		if len(resp.Data) == 0 {
			return posts, nil
		}

		posts = append(posts, resp.Data...)
		cursor = resp.Data[len(resp.Data)-1].CreatedUTC
		if onPage != nil {
			onPage(len(posts))
		}

		if len(resp.Data) < pageSize {
			return posts, nil
		}
	}
}

func (c *Client) searchURL(q Query, size int, before int64, metadata bool) string {
	params := url.Values{}
	params.Set("subreddit", q.Subreddit)
	params.Set("size", strconv.Itoa(size))
	params.Set("sort", "desc")
	params.Set("sort_type", "created_utc")
	params.Set("fields", searchFields)
	if before == 0 {
		before = q.Before
	}
	if before > 0 {
		params.Set("before", strconv.FormatInt(before, 10))
	}
	if q.After > 0 {
		params.Set("after", strconv.FormatInt(q.After, 10))
	}
	if metadata {
		params.Set("metadata", "true")
	}
	return c.baseURL + "?" + params.Encode()
}
