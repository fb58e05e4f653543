// Implements the search endpoint.

package notion

import (
	"context"
	"encoding/json"
	"net/http"
)

// SearchFilter defines filters for the search endpoint.
type SearchFilter struct {
	Value    string `json:"value"`    // "page" or "database"
	Property string `json:"property"` // "object"
}

// SearchSort defines the sort order of search results.
type SearchSort struct {
	Direction string `json:"direction"` // "ascending" or "descending"
	Timestamp string `json:"timestamp"` // "last_edited_time"
}

// SearchRequest is the request body for the search endpoint.
type SearchRequest struct {
	Query       string        `json:"query"`
	Filter      *SearchFilter `json:"filter,omitempty"`
	Sort        *SearchSort   `json:"sort,omitempty"`
	StartCursor string        `json:"start_cursor,omitempty"`
	PageSize    int           `json:"page_size,omitempty"`
}

// NewSearchRequest returns a request for pages matching query, oldest edit
// first.
func NewSearchRequest(query string) *SearchRequest {
	return &SearchRequest{
		Query:  query,
		Filter: &SearchFilter{Value: "page", Property: "object"},
		Sort:   &SearchSort{Direction: "ascending", Timestamp: "last_edited_time"},
	}
}

// SearchRaw searches pages and databases and returns the response body as
// sent by the API.
func (c *Client) SearchRaw(ctx context.Context, req *SearchRequest) (json.RawMessage, error) {
	if req == nil {
		req = NewSearchRequest("")
	}
	data, err := c.do(ctx, http.MethodPost, "/search", req)
	if err != nil {
		return nil, err
	}
	return json.RawMessage(data), nil
}

// Search searches pages and databases.
func (c *Client) Search(ctx context.Context, req *SearchRequest) (*SearchResponse, error) {
	data, err := c.SearchRaw(ctx, req)
	if err != nil {
		return nil, err
	}

	var resp SearchResponse
	if err := decode(data, &resp, "search"); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SearchAll returns every result for req, handling pagination. req is not
// modified.
func (c *Client) SearchAll(ctx context.Context, req *SearchRequest) ([]SearchResult, error) {
	r := NewSearchRequest("")
	if req != nil {
		cp := *req
		r = &cp
	}
	r.StartCursor = ""
	r.PageSize = 100

	var results []SearchResult
	for {
		resp, err := c.Search(ctx, r)
		if err != nil {
			return nil, err
		}

		results = append(results, resp.Results...)

		if !resp.HasMore || resp.NextCursor == nil {
			break
		}
		r.StartCursor = *resp.NextCursor
	}

	return results, nil
}

// Title returns the plain text title of a search result. Pages store it in
// their title property, databases in Title.
func (r *SearchResult) Title() string {
	if len(r.DatabaseTitle) > 0 {
		return richTextToPlain(r.DatabaseTitle)
	}
	var props map[string]struct {
		Type  string     `json:"type"`
		Title []RichText `json:"title"`
	}
	if err := json.Unmarshal(r.PropertiesRaw, &props); err != nil {
		return ""
	}
	for _, p := range props {
		if p.Type == "title" {
			return richTextToPlain(p.Title)
		}
	}
	return ""
}
