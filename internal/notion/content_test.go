// Tests for page content extraction and child page listing.

package notion

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"testing"
)

func TestExtractPlainText(t *testing.T) {
	para := func(spans ...string) Block {
		rt := []RichText{}
		for _, s := range spans {
			rt = append(rt, RichText{PlainText: s})
		}
		return Block{Type: "paragraph", Paragraph: &ParagraphBlock{RichText: rt}}
	}
	tests := []struct {
		name   string
		blocks []Block
		want   string
	}{
		{"empty", nil, ""},
		{"two paragraphs", []Block{para("A"), para("B")}, "A\nB"},
		{"spans in order", []Block{para("a", "b"), para("c")}, "a\nb\nc"},
		{"empty rich text", []Block{para(), para()}, ""},
		{"skips empty", []Block{para("x"), para(), para("y")}, "x\ny"},
		{
			"mixed text blocks",
			[]Block{
				{Type: "heading_3", Heading3: &HeadingBlock{RichText: []RichText{{PlainText: "T"}}}},
				{Type: "to_do", ToDo: &ToDoBlock{RichText: []RichText{{PlainText: "do"}}}},
				{Type: "code", Code: &CodeBlock{RichText: []RichText{{PlainText: "x := 1"}}}},
			},
			"T\ndo\nx := 1",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractPlainText(tt.blocks)
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("ExtractPlainText() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExtractPlainTextFailure(t *testing.T) {
	tests := []struct {
		name   string
		blocks []Block
		reason error
	}{
		{"missing type", []Block{{ID: "b1"}}, errMissingType},
		{"missing payload", []Block{{ID: "b1", Type: "paragraph"}}, errMissingPayload},
		{"nil rich text", []Block{{ID: "b1", Type: "quote", Quote: &QuoteBlock{}}}, errNoRichText},
		{"no rich text type", []Block{{ID: "b1", Type: "divider", Divider: &struct{}{}}}, errNoRichText},
		{"child page", []Block{{ID: "b1", Type: "child_page", ChildPage: &ChildPageBlock{Title: "T"}}}, errNoRichText},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ExtractPlainText(tt.blocks)
			var exErr *ExtractError
			if !errors.As(err, &exErr) {
				t.Fatalf("expected *ExtractError, got %v", err)
			}
			if exErr.BlockID != "b1" || exErr.Reason != tt.reason.Error() {
				t.Errorf("unexpected error: %+v", exErr)
			}
		})
	}
}

func TestExtractPlainTextDecoded(t *testing.T) {
	decode := func(t *testing.T, data string) []Block {
		t.Helper()
		var blocks []Block
		if err := json.Unmarshal([]byte(data), &blocks); err != nil {
			t.Fatal(err)
		}
		return blocks
	}
	t.Run("UntypedBlockType", func(t *testing.T) {
		blocks := decode(t, `[
			{"id":"b1","type":"template","template":{"rich_text":[{"plain_text":"T"}]}},
			{"id":"b2","type":"paragraph","paragraph":{"rich_text":[{"plain_text":"P"}]}}
		]`)
		got, err := ExtractPlainText(blocks)
		if err != nil {
			t.Fatal(err)
		}
		if got != "T\nP" {
			t.Errorf("ExtractPlainText() = %q", got)
		}
	})
	tests := []struct {
		name   string
		data   string
		reason error
	}{
		{"missing plain_text", `[{"id":"b1","type":"paragraph","paragraph":{"rich_text":[{"type":"text"}]}}]`, errMissingPlainText},
		{"missing payload", `[{"id":"b1","type":"paragraph"}]`, errMissingPayload},
		{"untyped without rich_text", `[{"id":"b1","type":"template","template":{}}]`, errNoRichText},
		{"null payload", `[{"id":"b1","type":"quote","quote":null}]`, errNoRichText},
		{"span not an object", `[{"id":"b1","type":"callout","callout":{"rich_text":["x"]}}]`, errMissingPlainText},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ExtractPlainText(decode(t, tt.data))
			var exErr *ExtractError
			if !errors.As(err, &exErr) {
				t.Fatalf("expected *ExtractError, got %v", err)
			}
			if exErr.BlockID != "b1" || exErr.Reason != tt.reason.Error() {
				t.Errorf("unexpected error: %+v", exErr)
			}
		})
	}
}

func TestGetPageContent(t *testing.T) {
	t.Run("Text", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				t.Errorf("method = %s", r.Method)
			}
			if r.URL.Path != "/blocks/page-1/children" || r.URL.RawQuery != "page_size=100" {
				t.Errorf("unexpected URL %s", r.URL)
			}
			_, _ = io.WriteString(w, `{"object":"list","results":[
				{"object":"block","id":"b1","type":"paragraph","paragraph":{"rich_text":[{"type":"text","plain_text":"A"}]}},
				{"object":"block","id":"b2","type":"paragraph","paragraph":{"rich_text":[{"type":"text","plain_text":"B"}]}}
			],"has_more":false}`)
		})
		pc, err := c.GetPageContent(t.Context(), "page-1")
		if err != nil {
			t.Fatal(err)
		}
		if pc.Degraded {
			t.Fatalf("unexpected degraded result: %v", pc.ExtractErr)
		}
		if pc.Text != "A\nB" {
			t.Errorf("Text = %q", pc.Text)
		}
		if len(pc.Blocks) != 2 || pc.Raw != nil {
			t.Errorf("unexpected result %+v", pc)
		}
	})
	t.Run("Empty", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, `{"object":"list","results":[]}`)
		})
		pc, err := c.GetPageContent(t.Context(), "p")
		if err != nil {
			t.Fatal(err)
		}
		if pc == nil || pc.Degraded || pc.Text != "" {
			t.Errorf("unexpected result %+v", pc)
		}
	})
	t.Run("NoResults", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, `{"object":"list"}`)
		})
		pc, err := c.GetPageContent(t.Context(), "p")
		if err != nil {
			t.Fatal(err)
		}
		if pc != nil {
			t.Errorf("expected nil, got %+v", pc)
		}
	})
	t.Run("Degraded", func(t *testing.T) {
		body := `{"object":"list","results":[
			{"object":"block","id":"b1","type":"paragraph","paragraph":{"rich_text":[{"plain_text":"A"}]}},
			{"object":"block","id":"b2","type":"divider","divider":{}}
		]}`
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, body)
		})
		pc, err := c.GetPageContent(t.Context(), "p")
		if err != nil {
			t.Fatal(err)
		}
		if !pc.Degraded || pc.Text != "" || pc.ExtractErr == nil {
			t.Fatalf("expected degraded result, got %+v", pc)
		}
		var raw map[string]any
		if err := json.Unmarshal(pc.Raw, &raw); err != nil {
			t.Fatalf("Raw is not JSON: %v", err)
		}
		if len(pc.Blocks) != 2 {
			t.Errorf("Blocks = %d, want 2", len(pc.Blocks))
		}
	})
	t.Run("SpanWithoutPlainText", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, `{"object":"list","results":[{"id":"b1","type":"paragraph","paragraph":{"rich_text":[{"type":"text"}]}}]}`)
		})
		pc, err := c.GetPageContent(t.Context(), "p")
		if err != nil {
			t.Fatal(err)
		}
		if !pc.Degraded || pc.Text != "" {
			t.Errorf("expected degraded result, got %+v", pc)
		}
	})
	t.Run("TemplateBlock", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, `{"object":"list","results":[{"id":"b1","type":"template","template":{"rich_text":[{"plain_text":"T"}]}}]}`)
		})
		pc, err := c.GetPageContent(t.Context(), "p")
		if err != nil {
			t.Fatal(err)
		}
		if pc.Degraded || pc.Text != "T" {
			t.Errorf("unexpected result %+v", pc)
		}
	})
	t.Run("HTTPError", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = io.WriteString(w, `{"object":"error","status":401,"code":"unauthorized","message":"API token is invalid."}`)
		})
		if _, err := c.GetPageContent(t.Context(), "p"); StatusCode(err) != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %v", err)
		}
	})
	t.Run("BadJSON", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, `not json`)
		})
		if _, err := c.GetPageContent(t.Context(), "p"); err == nil {
			t.Fatal("expected error")
		}
	})
}

func TestGetChildPages(t *testing.T) {
	t.Run("Filters", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, `{"object":"list","results":[
				{"object":"block","id":"x1","type":"child_page","child_page":{"title":"T1"}},
				{"object":"block","id":"p1","type":"paragraph","paragraph":{"rich_text":[{"plain_text":"text"}]}},
				{"object":"block","id":"x2","type":"child_page","child_page":{"title":"T2"}},
				{"object":"block","id":"x3","type":"child_page"}
			]}`)
		})
		pages, err := c.GetChildPages(t.Context(), "root")
		if err != nil {
			t.Fatal(err)
		}
		want := []PageSummary{{Title: "T1", ID: "x1"}, {Title: "T2", ID: "x2"}}
		if len(pages) != len(want) {
			t.Fatalf("got %d pages, want %d: %+v", len(pages), len(want), pages)
		}
		for i := range want {
			if pages[i] != want[i] {
				t.Errorf("pages[%d] = %+v, want %+v", i, pages[i], want[i])
			}
		}
	})
	t.Run("NoResults", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, `{}`)
		})
		pages, err := c.GetChildPages(t.Context(), "root")
		if err != nil {
			t.Fatal(err)
		}
		if pages == nil || len(pages) != 0 {
			t.Errorf("expected empty non-nil slice, got %#v", pages)
		}
	})
	t.Run("Error", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
		})
		if _, err := c.GetChildPages(t.Context(), "root"); err == nil {
			t.Fatal("expected error")
		}
	})
}
