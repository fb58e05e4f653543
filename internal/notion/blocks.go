// Lists block children with pagination.

package notion

import (
	"context"
	"net/http"
	"net/url"
)

// GetBlockChildren retrieves one page of children of a block. cursor is empty
// for the first page.
func (c *Client) GetBlockChildren(ctx context.Context, blockID, cursor string) (*BlocksResponse, error) {
	q := url.Values{"page_size": {"100"}}
	if cursor != "" {
		q.Set("start_cursor", cursor)
	}

	data, err := c.do(ctx, http.MethodGet, "/blocks/"+url.PathEscape(blockID)+"/children?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}

	var resp BlocksResponse
	if err := decode(data, &resp, "blocks"); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetBlockChildrenAll retrieves all children of a block, handling pagination.
func (c *Client) GetBlockChildrenAll(ctx context.Context, blockID string) ([]Block, error) {
	var blocks []Block
	var cursor string

	for {
		resp, err := c.GetBlockChildren(ctx, blockID, cursor)
		if err != nil {
			return nil, err
		}

		blocks = append(blocks, resp.Results...)

		if !resp.HasMore || resp.NextCursor == nil {
			break
		}
		cursor = *resp.NextCursor
	}

	return blocks, nil
}

// GetBlockChildrenRecursive retrieves all children of a block recursively.
// Children are stored in each block's Children field, not flattened. Child
// pages are not descended into. maxDepth <= 0 means unlimited.
func (c *Client) GetBlockChildrenRecursive(ctx context.Context, blockID string, maxDepth int) ([]Block, error) {
	return c.getBlockChildrenRecursive(ctx, blockID, maxDepth, 0)
}

func (c *Client) getBlockChildrenRecursive(ctx context.Context, blockID string, maxDepth, depth int) ([]Block, error) {
	if maxDepth > 0 && depth >= maxDepth {
		return nil, nil
	}

	blocks, err := c.GetBlockChildrenAll(ctx, blockID)
	if err != nil {
		return nil, err
	}

	for i := range blocks {
		if !blocks[i].HasChildren || blocks[i].Type == "child_page" || blocks[i].Type == "child_database" {
			continue
		}
		children, err := c.getBlockChildrenRecursive(ctx, blocks[i].ID, maxDepth, depth+1)
		if err != nil {
			return nil, err
		}
		blocks[i].Children = children
	}

	return blocks, nil
}
