// Appends blocks to pages.

package notion

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
)

// NewBlock is a text block to append. It encodes as
// {"object":"block","type":T,T:{"rich_text":[...]}}.
type NewBlock struct {
	Type     string
	RichText []RichTextInput
}

// RichTextInput is a rich text span sent to the API.
type RichTextInput struct {
	Type string      `json:"type"`
	Text TextContent `json:"text"`
}

// MarshalJSON implements json.Marshaler.
func (b NewBlock) MarshalJSON() ([]byte, error) {
	rt := b.RichText
	if rt == nil {
		rt = []RichTextInput{}
	}
	return json.Marshal(map[string]any{
		"object": "block",
		"type":   b.Type,
		b.Type:   map[string]any{"rich_text": rt},
	})
}

// TextBlock returns a block of the given type holding content as a single
// span.
func TextBlock(blockType, content string) NewBlock {
	return NewBlock{
		Type:     blockType,
		RichText: []RichTextInput{{Type: "text", Text: TextContent{Content: content}}},
	}
}

type appendRequest struct {
	Children []NewBlock `json:"children"`
}

// AppendBlockChildren appends children to a block or page.
func (c *Client) AppendBlockChildren(ctx context.Context, blockID string, children []NewBlock) (*BlocksResponse, error) {
	if children == nil {
		children = []NewBlock{}
	}
	data, err := c.do(ctx, http.MethodPatch, "/blocks/"+url.PathEscape(blockID)+"/children", &appendRequest{Children: children})
	if err != nil {
		return nil, err
	}

	var resp BlocksResponse
	if err := decode(data, &resp, "append blocks"); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SetPageContent appends a heading_3 holding title followed by a paragraph
// holding text to a page. Existing content is kept.
func (c *Client) SetPageContent(ctx context.Context, pageID, title, text string) (*BlocksResponse, error) {
	resp, err := c.AppendBlockChildren(ctx, pageID, []NewBlock{
		TextBlock("heading_3", title),
		TextBlock("paragraph", text),
	})
	if err != nil {
		return nil, err
	}
	c.log.InfoContext(ctx, "Appended page content", "page", pageID, "blocks", len(resp.Results))
	return resp, nil
}
