// Defines Notion API request and response types.

package notion

import (
	"encoding/json"
	"time"
)

// API response wrapper types.

// PaginatedResponse is the common structure for paginated API responses.
type PaginatedResponse[T any] struct {
	Object     string  `json:"object"`
	Results    []T     `json:"results"`
	NextCursor *string `json:"next_cursor"`
	HasMore    bool    `json:"has_more"`
}

// SearchResponse is the response from the search endpoint.
type SearchResponse = PaginatedResponse[SearchResult]

// BlocksResponse is the response from block children endpoint.
type BlocksResponse = PaginatedResponse[Block]

// SearchResult represents an item in search results.
// Note: Notion API returns different structures for pages vs databases.
// Use the Object field to determine which fields are populated.
type SearchResult struct {
	Object         string    `json:"object"` // "page" or "database"
	ID             string    `json:"id"`
	CreatedTime    time.Time `json:"created_time"`
	LastEditedTime time.Time `json:"last_edited_time"`
	Parent         Parent    `json:"parent"`

	URL      string `json:"url,omitempty"`
	Archived bool   `json:"archived,omitempty"`

	// Page properties and database schemas differ in shape; they are kept
	// undecoded. Use Object to tell them apart.
	PropertiesRaw json.RawMessage `json:"properties,omitempty"`

	// For databases only
	DatabaseTitle []RichText `json:"title,omitempty"`
	Description   []RichText `json:"description,omitempty"`
}

// Parent represents the parent of a page or database.
type Parent struct {
	Type       string `json:"type"` // "database_id", "page_id", "workspace", "block_id"
	DatabaseID string `json:"database_id,omitempty"`
	PageID     string `json:"page_id,omitempty"`
	BlockID    string `json:"block_id,omitempty"`
	Workspace  bool   `json:"workspace,omitempty"`
}

// Icon represents a page or database icon.
type Icon struct {
	Type     string `json:"type"` // "emoji", "external", "file"
	Emoji    string `json:"emoji,omitempty"`
	External *File  `json:"external,omitempty"`
	File     *File  `json:"file,omitempty"`
}

// RichText represents formatted text content.
type RichText struct {
	Type        string       `json:"type"` // "text", "mention", "equation"
	Text        *TextContent `json:"text,omitempty"`
	Mention     *Mention     `json:"mention,omitempty"`
	Equation    *Equation    `json:"equation,omitempty"`
	Annotations *Annotations `json:"annotations,omitempty"`
	PlainText   string       `json:"plain_text"`
	Href        *string      `json:"href,omitempty"`
}

// TextContent represents plain text content.
type TextContent struct {
	Content string `json:"content"`
	Link    *Link  `json:"link,omitempty"`
}

// Link represents a hyperlink.
type Link struct {
	URL string `json:"url"`
}

// Mention represents a mention in rich text.
type Mention struct {
	Type        string       `json:"type"` // "user", "page", "database", "date", "link_preview"
	User        *Person      `json:"user,omitempty"`
	Page        *PageRef     `json:"page,omitempty"`
	Database    *DatabaseRef `json:"database,omitempty"`
	Date        *DateMention `json:"date,omitempty"`
	LinkPreview *LinkPreview `json:"link_preview,omitempty"`
}

// PageRef is a reference to a page.
type PageRef struct {
	ID string `json:"id"`
}

// DatabaseRef is a reference to a database.
type DatabaseRef struct {
	ID string `json:"id"`
}

// LinkPreview represents a link preview mention.
type LinkPreview struct {
	URL string `json:"url"`
}

// DateMention represents a date mention.
type DateMention struct {
	Start string  `json:"start"`
	End   *string `json:"end,omitempty"`
}

// Equation represents a LaTeX equation.
type Equation struct {
	Expression string `json:"expression"`
}

// Annotations represents text formatting.
type Annotations struct {
	Bold          bool   `json:"bold"`
	Italic        bool   `json:"italic"`
	Strikethrough bool   `json:"strikethrough"`
	Underline     bool   `json:"underline"`
	Code          bool   `json:"code"`
	Color         string `json:"color"`
}

// Person represents a Notion user.
type Person struct {
	Object    string         `json:"object"`
	ID        string         `json:"id"`
	Name      string         `json:"name,omitempty"`
	AvatarURL *string        `json:"avatar_url,omitempty"`
	Type      string         `json:"type,omitempty"` // "person" or "bot"
	Person    *PersonDetails `json:"person,omitempty"`
}

// PersonDetails contains person-specific details.
type PersonDetails struct {
	Email string `json:"email"`
}

// File represents a file reference.
type File struct {
	URL        string     `json:"url"`
	ExpiryTime *time.Time `json:"expiry_time,omitempty"`
}

// Block represents a Notion block.
type Block struct {
	Object         string    `json:"object"`
	ID             string    `json:"id"`
	Parent         Parent    `json:"parent"`
	Type           string    `json:"type"`
	CreatedTime    time.Time `json:"created_time"`
	LastEditedTime time.Time `json:"last_edited_time"`
	Archived       bool      `json:"archived"`
	HasChildren    bool      `json:"has_children"`

	// Block type content - only the matching type field will be populated
	Paragraph        *ParagraphBlock     `json:"paragraph,omitempty"`
	Heading1         *HeadingBlock       `json:"heading_1,omitempty"`
	Heading2         *HeadingBlock       `json:"heading_2,omitempty"`
	Heading3         *HeadingBlock       `json:"heading_3,omitempty"`
	BulletedListItem *ListItemBlock      `json:"bulleted_list_item,omitempty"`
	NumberedListItem *ListItemBlock      `json:"numbered_list_item,omitempty"`
	ToDo             *ToDoBlock          `json:"to_do,omitempty"`
	Toggle           *ToggleBlock        `json:"toggle,omitempty"`
	Code             *CodeBlock          `json:"code,omitempty"`
	Quote            *QuoteBlock         `json:"quote,omitempty"`
	Callout          *CalloutBlock       `json:"callout,omitempty"`
	Divider          *struct{}           `json:"divider,omitempty"`
	TableOfContents  *struct{}           `json:"table_of_contents,omitempty"`
	Breadcrumb       *struct{}           `json:"breadcrumb,omitempty"`
	ColumnList       *struct{}           `json:"column_list,omitempty"`
	Column           *struct{}           `json:"column,omitempty"`
	Image            *MediaBlock         `json:"image,omitempty"`
	Video            *MediaBlock         `json:"video,omitempty"`
	File             *MediaBlock         `json:"file,omitempty"`
	PDF              *MediaBlock         `json:"pdf,omitempty"`
	Bookmark         *BookmarkBlock      `json:"bookmark,omitempty"`
	Embed            *EmbedBlock         `json:"embed,omitempty"`
	LinkPreview      *LinkPreviewBlock   `json:"link_preview,omitempty"`
	Equation         *EquationBlock      `json:"equation,omitempty"`
	SyncedBlock      *SyncedBlockContent `json:"synced_block,omitempty"`
	Table            *TableBlock         `json:"table,omitempty"`
	TableRow         *TableRowBlock      `json:"table_row,omitempty"`
	ChildPage        *ChildPageBlock     `json:"child_page,omitempty"`
	ChildDatabase    *ChildDatabaseBlock `json:"child_database,omitempty"`

	// Children is filled by GetBlockChildrenRecursive; never sent by the API.
	Children []Block `json:"children,omitempty"`

	// payload is the object keyed by Type as received, kept undecoded.
	payload json.RawMessage
	decoded bool
}

// UnmarshalJSON implements json.Unmarshaler. Besides the typed fields it keeps
// the object keyed by Type, so text can be read from block types that have no
// typed payload.
func (b *Block) UnmarshalJSON(data []byte) error {
	type block Block
	var v block
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	*b = Block(v)
	b.decoded = true
	if b.Type != "" {
		b.payload = fields[b.Type]
	}
	return nil
}

// ParagraphBlock represents a paragraph block.
type ParagraphBlock struct {
	RichText []RichText `json:"rich_text"`
	Color    string     `json:"color"`
}

// HeadingBlock represents a heading block.
type HeadingBlock struct {
	RichText     []RichText `json:"rich_text"`
	Color        string     `json:"color"`
	IsToggleable bool       `json:"is_toggleable"`
}

// ListItemBlock represents a list item block.
type ListItemBlock struct {
	RichText []RichText `json:"rich_text"`
	Color    string     `json:"color"`
}

// ToDoBlock represents a to-do block.
type ToDoBlock struct {
	RichText []RichText `json:"rich_text"`
	Checked  bool       `json:"checked"`
	Color    string     `json:"color"`
}

// ToggleBlock represents a toggle block.
type ToggleBlock struct {
	RichText []RichText `json:"rich_text"`
	Color    string     `json:"color"`
}

// CodeBlock represents a code block.
type CodeBlock struct {
	RichText []RichText `json:"rich_text"`
	Caption  []RichText `json:"caption"`
	Language string     `json:"language"`
}

// QuoteBlock represents a quote block.
type QuoteBlock struct {
	RichText []RichText `json:"rich_text"`
	Color    string     `json:"color"`
}

// CalloutBlock represents a callout block.
type CalloutBlock struct {
	RichText []RichText `json:"rich_text"`
	Icon     *Icon      `json:"icon,omitempty"`
	Color    string     `json:"color"`
}

// MediaBlock represents an image, video, file, or PDF block.
type MediaBlock struct {
	Type     string     `json:"type"` // "file" or "external"
	File     *File      `json:"file,omitempty"`
	External *File      `json:"external,omitempty"`
	Caption  []RichText `json:"caption,omitempty"`
}

// BookmarkBlock represents a bookmark block.
type BookmarkBlock struct {
	URL     string     `json:"url"`
	Caption []RichText `json:"caption"`
}

// EmbedBlock represents an embed block.
type EmbedBlock struct {
	URL string `json:"url"`
}

// LinkPreviewBlock represents a link preview block.
type LinkPreviewBlock struct {
	URL string `json:"url"`
}

// EquationBlock represents an equation block.
type EquationBlock struct {
	Expression string `json:"expression"`
}

// SyncedBlockContent represents synced block content.
type SyncedBlockContent struct {
	SyncedFrom *SyncedFrom `json:"synced_from,omitempty"`
}

// SyncedFrom indicates where a synced block is synced from.
type SyncedFrom struct {
	BlockID string `json:"block_id"`
}

// TableBlock represents a table block.
type TableBlock struct {
	TableWidth      int  `json:"table_width"`
	HasColumnHeader bool `json:"has_column_header"`
	HasRowHeader    bool `json:"has_row_header"`
}

// TableRowBlock represents a table row block.
type TableRowBlock struct {
	Cells [][]RichText `json:"cells"`
}

// ChildPageBlock represents a child page block.
type ChildPageBlock struct {
	Title string `json:"title"`
}

// ChildDatabaseBlock represents a child database block.
type ChildDatabaseBlock struct {
	Title string `json:"title"`
}
