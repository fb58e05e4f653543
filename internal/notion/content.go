// Reads page content and child pages.

package notion

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// PageContent is the result of GetPageContent.
//
// When Degraded is false, Text holds the flattened content. When Degraded is
// true, at least one block could not be flattened: Text is empty, ExtractErr
// says why and Raw holds the undecoded response for the caller to inspect.
type PageContent struct {
	Text       string
	Blocks     []Block
	Degraded   bool
	ExtractErr error
	Raw        json.RawMessage
}

// PageSummary identifies a child page.
type PageSummary struct {
	Title string `json:"title"`
	ID    string `json:"id"`
}

// ExtractError describes a block whose rich text could not be read.
type ExtractError struct {
	Index   int
	BlockID string
	Type    string
	Reason  string
}

func (e *ExtractError) Error() string {
	if e.Type == "" {
		return fmt.Sprintf("block %d (%s): %s", e.Index, e.BlockID, e.Reason)
	}
	return fmt.Sprintf("block %d (%s, %s): %s", e.Index, e.BlockID, e.Type, e.Reason)
}

// GetPageContent retrieves the first 100 children of a page and flattens their
// rich text into newline separated plain text.
//
// It returns (nil, nil) when the response has no results field.
func (c *Client) GetPageContent(ctx context.Context, pageID string) (*PageContent, error) {
	data, err := c.do(ctx, http.MethodGet, "/blocks/"+url.PathEscape(pageID)+"/children?page_size=100", nil)
	if err != nil {
		return nil, err
	}

	var resp BlocksResponse
	if err := decode(data, &resp, "blocks"); err != nil {
		return nil, err
	}
	if resp.Results == nil {
		return nil, nil
	}

	pc := &PageContent{Blocks: resp.Results}
	text, err := ExtractPlainText(resp.Results)
	if err != nil {
		c.log.WarnContext(ctx, "Could not extract page content", "page", pageID, "err", err)
		pc.Degraded = true
		pc.ExtractErr = err
		pc.Raw = json.RawMessage(data)
		return pc, nil
	}
	pc.Text = text
	return pc, nil
}

// GetChildPages returns the child_page blocks among a page's children, in
// order.
func (c *Client) GetChildPages(ctx context.Context, pageID string) ([]PageSummary, error) {
	pc, err := c.GetPageContent(ctx, pageID)
	if err != nil {
		return nil, err
	}
	if pc == nil {
		return []PageSummary{}, nil
	}
	return ChildPages(pc.Blocks), nil
}

// ChildPages filters blocks down to child pages.
func ChildPages(blocks []Block) []PageSummary {
	pages := []PageSummary{}
	for i := range blocks {
		if blocks[i].Type == "child_page" && blocks[i].ChildPage != nil {
			pages = append(pages, PageSummary{Title: blocks[i].ChildPage.Title, ID: blocks[i].ID})
		}
	}
	return pages
}

// ExtractPlainText joins the plain text of every rich text span of blocks with
// newlines, in block order then span order.
//
// Every block must carry a rich_text list under its own type and every span a
// plain_text. Blocks with an empty list contribute nothing.
func ExtractPlainText(blocks []Block) (string, error) {
	var parts []string
	for i := range blocks {
		rt, err := blocks[i].richText()
		if err != nil {
			return "", &ExtractError{Index: i, BlockID: blocks[i].ID, Type: blocks[i].Type, Reason: err.Error()}
		}
		for j := range rt {
			parts = append(parts, rt[j].PlainText)
		}
	}
	return strings.Join(parts, "\n"), nil
}

// RichText returns the rich text of the payload selected by b.Type, or nil if
// the block has none.
func (b *Block) RichText() []RichText {
	rt, _ := b.richText()
	return rt
}

func (b *Block) richText() ([]RichText, error) {
	if b.Type == "" {
		return nil, errMissingType
	}
	if b.decoded {
		return payloadRichText(b.payload)
	}
	var rt []RichText
	present := false
	switch b.Type {
	case "paragraph":
		if present = b.Paragraph != nil; present {
			rt = b.Paragraph.RichText
		}
	case "heading_1":
		if present = b.Heading1 != nil; present {
			rt = b.Heading1.RichText
		}
	case "heading_2":
		if present = b.Heading2 != nil; present {
			rt = b.Heading2.RichText
		}
	case "heading_3":
		if present = b.Heading3 != nil; present {
			rt = b.Heading3.RichText
		}
	case "bulleted_list_item":
		if present = b.BulletedListItem != nil; present {
			rt = b.BulletedListItem.RichText
		}
	case "numbered_list_item":
		if present = b.NumberedListItem != nil; present {
			rt = b.NumberedListItem.RichText
		}
	case "to_do":
		if present = b.ToDo != nil; present {
			rt = b.ToDo.RichText
		}
	case "toggle":
		if present = b.Toggle != nil; present {
			rt = b.Toggle.RichText
		}
	case "code":
		if present = b.Code != nil; present {
			rt = b.Code.RichText
		}
	case "quote":
		if present = b.Quote != nil; present {
			rt = b.Quote.RichText
		}
	case "callout":
		if present = b.Callout != nil; present {
			rt = b.Callout.RichText
		}
	default:
		return nil, errNoRichText
	}
	if !present {
		return nil, errMissingPayload
	}
	// A missing rich_text key decodes to nil, an empty list to a non-nil slice.
	if rt == nil {
		return nil, errNoRichText
	}
	return rt, nil
}

// payloadRichText reads the rich_text list of a block's type-keyed object as
// received from the API. Every span must carry plain_text.
func payloadRichText(payload json.RawMessage) ([]RichText, error) {
	if len(payload) == 0 {
		return nil, errMissingPayload
	}
	var p struct {
		RichText *[]json.RawMessage `json:"rich_text"`
	}
	if err := json.Unmarshal(payload, &p); err != nil || p.RichText == nil {
		return nil, errNoRichText
	}
	rt := make([]RichText, 0, len(*p.RichText))
	for _, raw := range *p.RichText {
		var span struct {
			PlainText *string `json:"plain_text"`
		}
		if err := json.Unmarshal(raw, &span); err != nil || span.PlainText == nil {
			return nil, errMissingPlainText
		}
		var r RichText
		if err := json.Unmarshal(raw, &r); err != nil {
			return nil, errMissingPlainText
		}
		rt = append(rt, r)
	}
	return rt, nil
}

type extractReason string

func (r extractReason) Error() string { return string(r) }

const (
	errMissingType      extractReason = "missing type"
	errMissingPayload   extractReason = "missing payload for type"
	errNoRichText       extractReason = "payload has no rich_text"
	errMissingPlainText extractReason = "rich_text span has no plain_text"
)
