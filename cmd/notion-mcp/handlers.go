package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/maruel/notion/internal/notion"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type tools struct {
	client *notion.Client
}

func pageID(in string) (string, error) {
	id := strings.TrimSpace(in)
	if id == "" {
		return "", errors.New("page_id is required")
	}
	return id, nil
}

func (t *tools) handleGetPageContent(ctx context.Context, req *mcp.CallToolRequest, input PageInput) (*mcp.CallToolResult, PageContentOutput, error) {
	id, err := pageID(input.PageID)
	if err != nil {
		return &mcp.CallToolResult{IsError: true}, PageContentOutput{}, err
	}
	pc, err := t.client.GetPageContent(ctx, id)
	if err != nil {
		return &mcp.CallToolResult{IsError: true}, PageContentOutput{}, err
	}
	if pc == nil {
		return nil, PageContentOutput{}, nil
	}
	out := PageContentOutput{Found: true, Text: pc.Text, Degraded: pc.Degraded, Raw: string(pc.Raw)}
	if pc.ExtractErr != nil {
		out.Error = pc.ExtractErr.Error()
	}
	return nil, out, nil
}

func (t *tools) handleGetChildPages(ctx context.Context, req *mcp.CallToolRequest, input PageInput) (*mcp.CallToolResult, ChildPagesOutput, error) {
	id, err := pageID(input.PageID)
	if err != nil {
		return &mcp.CallToolResult{IsError: true}, ChildPagesOutput{}, err
	}
	pages, err := t.client.GetChildPages(ctx, id)
	if err != nil {
		return &mcp.CallToolResult{IsError: true}, ChildPagesOutput{}, err
	}
	return nil, ChildPagesOutput{Pages: pages}, nil
}

func (t *tools) handleSetPageContent(ctx context.Context, req *mcp.CallToolRequest, input SetPageContentInput) (*mcp.CallToolResult, SetPageContentOutput, error) {
	id, err := pageID(input.PageID)
	if err != nil {
		return &mcp.CallToolResult{IsError: true}, SetPageContentOutput{}, err
	}
	resp, err := t.client.SetPageContent(ctx, id, input.Title, input.Text)
	if err != nil {
		return &mcp.CallToolResult{IsError: true}, SetPageContentOutput{}, err
	}
	ids := make([]string, 0, len(resp.Results))
	for i := range resp.Results {
		ids = append(ids, resp.Results[i].ID)
	}
	return nil, SetPageContentOutput{Success: true, BlockIDs: ids}, nil
}

func (t *tools) handleSearch(ctx context.Context, req *mcp.CallToolRequest, input SearchInput) (*mcp.CallToolResult, SearchOutput, error) {
	sr := notion.NewSearchRequest(input.Query)
	switch input.Filter {
	case "", "page", "database":
		if input.Filter != "" {
			sr.Filter.Value = input.Filter
		}
	default:
		return &mcp.CallToolResult{IsError: true}, SearchOutput{}, fmt.Errorf("invalid filter %q: must be page or database", input.Filter)
	}
	switch input.Direction {
	case "", "ascending", "descending":
		if input.Direction != "" {
			sr.Sort.Direction = input.Direction
		}
	default:
		return &mcp.CallToolResult{IsError: true}, SearchOutput{}, fmt.Errorf("invalid direction %q: must be ascending or descending", input.Direction)
	}
	sr.StartCursor = input.Cursor

	resp, err := t.client.Search(ctx, sr)
	if err != nil {
		return &mcp.CallToolResult{IsError: true}, SearchOutput{}, err
	}
	out := SearchOutput{Results: make([]SearchItem, 0, len(resp.Results)), HasMore: resp.HasMore}
	if resp.NextCursor != nil {
		out.NextCursor = *resp.NextCursor
	}
	for i := range resp.Results {
		r := &resp.Results[i]
		item := SearchItem{Object: r.Object, ID: r.ID, Title: r.Title(), URL: r.URL}
		if !r.LastEditedTime.IsZero() {
			item.LastEditedTime = r.LastEditedTime.Format(time.RFC3339)
		}
		out.Results = append(out.Results, item)
	}
	return nil, out, nil
}
