package main

import (
	"github.com/maruel/notion/internal/notion"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type (
	// PageInput identifies a page.
	PageInput struct {
		PageID string `json:"page_id" jsonschema:"Notion page ID"`
	}

	// PageContentOutput contains the plain text of a page.
	PageContentOutput struct {
		Found    bool   `json:"found"`
		Text     string `json:"text"`
		Degraded bool   `json:"degraded,omitempty"`
		Error    string `json:"error,omitempty"`
		Raw      string `json:"raw,omitempty"`
	}

	// ChildPagesOutput lists the child pages of a page.
	ChildPagesOutput struct {
		Pages []notion.PageSummary `json:"pages"`
	}

	// SetPageContentInput contains the heading and paragraph to append.
	SetPageContentInput struct {
		PageID string `json:"page_id" jsonschema:"Notion page ID"`
		Title  string `json:"title" jsonschema:"Text of the heading_3 block"`
		Text   string `json:"text" jsonschema:"Text of the paragraph block"`
	}

	// SetPageContentOutput lists the IDs of the created blocks.
	SetPageContentOutput struct {
		Success  bool     `json:"success"`
		BlockIDs []string `json:"block_ids"`
	}

	// SearchInput contains search parameters.
	SearchInput struct {
		Query     string `json:"query,omitempty" jsonschema:"Text to search for in titles (default: everything)"`
		Filter    string `json:"filter,omitempty" jsonschema:"Object type to return: page or database (default: page)"`
		Direction string `json:"direction,omitempty" jsonschema:"Sort by last edit time: ascending or descending (default: ascending)"`
		Cursor    string `json:"cursor,omitempty" jsonschema:"Cursor from a previous response's next_cursor"`
	}

	// SearchItem is one search hit.
	SearchItem struct {
		Object         string `json:"object"`
		ID             string `json:"id"`
		Title          string `json:"title"`
		URL            string `json:"url,omitempty"`
		LastEditedTime string `json:"last_edited_time,omitempty"`
	}

	// SearchOutput contains one page of search results.
	SearchOutput struct {
		Results    []SearchItem `json:"results"`
		HasMore    bool         `json:"has_more,omitempty"`
		NextCursor string       `json:"next_cursor,omitempty"`
	}
)

func registerTools(server *mcp.Server, t *tools) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_page_content",
		Description: "Return the plain text of a Notion page's top-level blocks, one line per block. If a block carries no text the result is degraded and includes the raw API response.",
	}, t.handleGetPageContent)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_child_pages",
		Description: "List the direct child pages of a Notion page with their titles and IDs.",
	}, t.handleGetChildPages)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "set_page_content",
		Description: "Append a heading_3 block with the title followed by a paragraph with the text to a Notion page.",
	}, t.handleSetPageContent)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "search",
		Description: "Search Notion pages or databases shared with the integration by title. Use the returned next_cursor to fetch more.",
	}, t.handleSearch)
}

func newServer(client *notion.Client) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{Name: "notion-mcp", Version: version}, nil)
	registerTools(server, &tools{client: client})
	return server
}
