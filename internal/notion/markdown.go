// Renders Notion blocks as Markdown.

package notion

import (
	"context"
	"fmt"
	"strings"
)

// GetPageMarkdown retrieves a page's blocks up to maxDepth levels deep and
// renders them as Markdown.
func (c *Client) GetPageMarkdown(ctx context.Context, pageID string, maxDepth int) (string, error) {
	blocks, err := c.GetBlockChildrenRecursive(ctx, pageID, maxDepth)
	if err != nil {
		return "", err
	}
	return BlocksToMarkdown(blocks), nil
}

// BlocksToMarkdown converts a slice of Notion blocks to Markdown. Nested
// children are indented under their parent.
func BlocksToMarkdown(blocks []Block) string {
	var sb strings.Builder
	writeBlocks(&sb, blocks, 0)
	return sb.String()
}

// listState tracks whether the previous sibling was a list item.
type listState struct {
	numbered   int
	inBulleted bool
	inNumbered bool
}

func writeBlocks(sb *strings.Builder, blocks []Block, depth int) {
	ls := &listState{}
	for i := range blocks {
		b := &blocks[i]
		sb.WriteString(blockToMarkdown(b, ls, depth))
		if len(b.Children) == 0 {
			continue
		}
		switch b.Type {
		case "toggle":
			writeBlocks(sb, b.Children, depth)
			sb.WriteString(strings.Repeat("  ", depth) + "</details>\n\n")
		case "column_list", "column", "synced_block", "table":
			writeBlocks(sb, b.Children, depth)
		default:
			writeBlocks(sb, b.Children, depth+1)
		}
	}
}

func blockToMarkdown(block *Block, ls *listState, depth int) string {
	indent := strings.Repeat("  ", depth)

	if block.Type != "bulleted_list_item" {
		ls.inBulleted = false
	}
	if block.Type != "numbered_list_item" {
		ls.inNumbered = false
		ls.numbered = 0
	}

	switch block.Type {
	case "paragraph":
		if block.Paragraph != nil {
			text := richTextToMarkdown(block.Paragraph.RichText)
			if text == "" {
				return "\n"
			}
			return indent + text + "\n\n"
		}
	case "heading_1", "heading_2", "heading_3":
		level := int(block.Type[len(block.Type)-1] - '0')
		if rt := block.RichText(); rt != nil {
			return strings.Repeat("#", level) + " " + richTextToMarkdown(rt) + "\n\n"
		}
	case "bulleted_list_item":
		if block.BulletedListItem != nil {
			prefix := ""
			if !ls.inBulleted && depth == 0 {
				prefix = "\n"
			}
			ls.inBulleted = true
			return prefix + indent + "- " + richTextToMarkdown(block.BulletedListItem.RichText) + "\n"
		}
	case "numbered_list_item":
		if block.NumberedListItem != nil {
			prefix := ""
			if !ls.inNumbered && depth == 0 {
				prefix = "\n"
			}
			ls.inNumbered = true
			ls.numbered++
			return fmt.Sprintf("%s%s%d. %s\n", prefix, indent, ls.numbered, richTextToMarkdown(block.NumberedListItem.RichText))
		}
	case "to_do":
		if block.ToDo != nil {
			checkbox := "[ ]"
			if block.ToDo.Checked {
				checkbox = "[x]"
			}
			return indent + "- " + checkbox + " " + richTextToMarkdown(block.ToDo.RichText) + "\n"
		}
	case "toggle":
		if block.Toggle != nil {
			out := indent + "<details>\n" + indent + "<summary>" + richTextToMarkdown(block.Toggle.RichText) + "</summary>\n\n"
			if len(block.Children) == 0 {
				out += indent + "</details>\n\n"
			}
			return out
		}
	case "code":
		if block.Code != nil {
			lang := block.Code.Language
			if lang == "plain text" {
				lang = ""
			}
			return "```" + lang + "\n" + richTextToPlain(block.Code.RichText) + "\n```\n\n"
		}
	case "quote":
		if block.Quote != nil {
			lines := strings.Split(richTextToMarkdown(block.Quote.RichText), "\n")
			for i := range lines {
				lines[i] = "> " + lines[i]
			}
			return strings.Join(lines, "\n") + "\n\n"
		}
	case "callout":
		if block.Callout != nil {
			emoji := ""
			if block.Callout.Icon != nil && block.Callout.Icon.Emoji != "" {
				emoji = block.Callout.Icon.Emoji + " "
			}
			return "> " + emoji + richTextToMarkdown(block.Callout.RichText) + "\n\n"
		}
	case "divider":
		return "---\n\n"
	case "image":
		if block.Image != nil {
			caption := richTextToPlain(block.Image.Caption)
			if caption == "" {
				caption = "image"
			}
			return fmt.Sprintf("![%s](%s)\n\n", caption, block.Image.url())
		}
	case "video":
		if block.Video != nil {
			return fmt.Sprintf("[Video](%s)\n\n", block.Video.url())
		}
	case "file":
		if block.File != nil {
			return fmt.Sprintf("[File](%s)\n\n", block.File.url())
		}
	case "pdf":
		if block.PDF != nil {
			return fmt.Sprintf("[PDF](%s)\n\n", block.PDF.url())
		}
	case "bookmark":
		if block.Bookmark != nil {
			caption := richTextToPlain(block.Bookmark.Caption)
			if caption == "" {
				caption = block.Bookmark.URL
			}
			return fmt.Sprintf("[%s](%s)\n\n", caption, block.Bookmark.URL)
		}
	case "embed":
		if block.Embed != nil {
			return fmt.Sprintf("[Embed](%s)\n\n", block.Embed.URL)
		}
	case "link_preview":
		if block.LinkPreview != nil {
			return fmt.Sprintf("[Link](%s)\n\n", block.LinkPreview.URL)
		}
	case "equation":
		if block.Equation != nil {
			return "$$\n" + block.Equation.Expression + "\n$$\n\n"
		}
	case "table_row":
		if block.TableRow != nil {
			cells := make([]string, 0, len(block.TableRow.Cells))
			for _, cell := range block.TableRow.Cells {
				cells = append(cells, richTextToMarkdown(cell))
			}
			return "| " + strings.Join(cells, " | ") + " |\n"
		}
	case "child_page":
		if block.ChildPage != nil {
			return fmt.Sprintf("[%s](%s)\n\n", block.ChildPage.Title, block.ID)
		}
	case "child_database":
		if block.ChildDatabase != nil {
			return fmt.Sprintf("[%s](%s)\n\n", block.ChildDatabase.Title, block.ID)
		}
	}
	// Structural or unsupported blocks render nothing themselves.
	return ""
}

func (m *MediaBlock) url() string {
	if m.File != nil {
		return m.File.URL
	}
	if m.External != nil {
		return m.External.URL
	}
	return ""
}

// richTextToMarkdown converts rich text to Markdown with formatting.
func richTextToMarkdown(rt []RichText) string {
	var sb strings.Builder
	for _, t := range rt {
		text := t.PlainText
		if a := t.Annotations; a != nil {
			if a.Code {
				text = "`" + text + "`"
			}
			if a.Bold {
				text = "**" + text + "**"
			}
			if a.Italic {
				text = "_" + text + "_"
			}
			if a.Strikethrough {
				text = "~~" + text + "~~"
			}
			if a.Underline {
				text = "<u>" + text + "</u>"
			}
		}
		if t.Href != nil && *t.Href != "" {
			text = "[" + text + "](" + *t.Href + ")"
		}
		sb.WriteString(text)
	}
	return sb.String()
}

// richTextToPlain concatenates the plain text of spans.
func richTextToPlain(rt []RichText) string {
	var sb strings.Builder
	for i := range rt {
		sb.WriteString(rt[i].PlainText)
	}
	return sb.String()
}
