package main

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/maruel/notion/internal/notion"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func newTools(t *testing.T, h http.HandlerFunc) *tools {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return &tools{client: notion.NewClient("tok", &notion.ClientOptions{
		BaseURL:           srv.URL,
		HTTPClient:        srv.Client(),
		Logger:            slog.New(slog.NewTextHandler(io.Discard, nil)),
		RequestsPerSecond: 1000,
		MaxRetries:        -1,
	})}
}

func TestHandleGetPageContent(t *testing.T) {
	t.Run("Text", func(t *testing.T) {
		tl := newTools(t, func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/blocks/p1/children" {
				t.Errorf("path = %s", r.URL.Path)
			}
			_, _ = io.WriteString(w, `{"object":"list","results":[{"type":"paragraph","paragraph":{"rich_text":[{"plain_text":"hello"}]}}]}`)
		})
		res, out, err := tl.handleGetPageContent(t.Context(), nil, PageInput{PageID: " p1 "})
		if err != nil || res != nil {
			t.Fatalf("unexpected error %v %+v", err, res)
		}
		if !out.Found || out.Text != "hello" || out.Degraded {
			t.Errorf("unexpected output %+v", out)
		}
	})
	t.Run("Degraded", func(t *testing.T) {
		tl := newTools(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, `{"object":"list","results":[{"id":"d","type":"divider","divider":{}}]}`)
		})
		_, out, err := tl.handleGetPageContent(t.Context(), nil, PageInput{PageID: "p1"})
		if err != nil {
			t.Fatal(err)
		}
		if !out.Degraded || out.Error == "" || !json.Valid([]byte(out.Raw)) {
			t.Errorf("unexpected output %+v", out)
		}
	})
	t.Run("NotFound", func(t *testing.T) {
		tl := newTools(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			_, _ = io.WriteString(w, `{"object":"error","status":404,"code":"object_not_found","message":"missing"}`)
		})
		res, _, err := tl.handleGetPageContent(t.Context(), nil, PageInput{PageID: "p1"})
		if err == nil || res == nil || !res.IsError {
			t.Fatalf("expected tool error, got %v %+v", err, res)
		}
		if notion.StatusCode(err) != http.StatusNotFound {
			t.Errorf("status = %d", notion.StatusCode(err))
		}
	})
	t.Run("MissingID", func(t *testing.T) {
		tl := newTools(t, func(w http.ResponseWriter, r *http.Request) {
			t.Error("no request expected")
		})
		res, _, err := tl.handleGetPageContent(t.Context(), nil, PageInput{PageID: "  "})
		if err == nil || !res.IsError {
			t.Fatal("expected error")
		}
	})
}

func TestHandleGetChildPages(t *testing.T) {
	tl := newTools(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"object":"list","results":[
			{"id":"c1","type":"child_page","child_page":{"title":"One"}},
			{"id":"b1","type":"paragraph","paragraph":{"rich_text":[]}},
			{"id":"c2","type":"child_page","child_page":{"title":"Two"}}
		]}`)
	})
	_, out, err := tl.handleGetChildPages(t.Context(), nil, PageInput{PageID: "p1"})
	if err != nil {
		t.Fatal(err)
	}
	want := []notion.PageSummary{{Title: "One", ID: "c1"}, {Title: "Two", ID: "c2"}}
	if len(out.Pages) != len(want) {
		t.Fatalf("got %+v", out.Pages)
	}
	for i := range want {
		if out.Pages[i] != want[i] {
			t.Errorf("page %d = %+v, want %+v", i, out.Pages[i], want[i])
		}
	}
}

func TestHandleSetPageContent(t *testing.T) {
	t.Run("OK", func(t *testing.T) {
		var body struct {
			Children []map[string]any `json:"children"`
		}
		tl := newTools(t, func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPatch || r.URL.Path != "/blocks/p1/children" {
				t.Errorf("%s %s", r.Method, r.URL.Path)
			}
			_ = json.NewDecoder(r.Body).Decode(&body)
			_, _ = io.WriteString(w, `{"object":"list","results":[{"id":"h"},{"id":"t"}]}`)
		})
		_, out, err := tl.handleSetPageContent(t.Context(), nil, SetPageContentInput{PageID: "p1", Title: "T", Text: "X"})
		if err != nil {
			t.Fatal(err)
		}
		if !out.Success || len(out.BlockIDs) != 2 || out.BlockIDs[0] != "h" {
			t.Errorf("unexpected output %+v", out)
		}
		if len(body.Children) != 2 || body.Children[0]["type"] != "heading_3" || body.Children[1]["type"] != "paragraph" {
			t.Errorf("unexpected body %+v", body)
		}
	})
	t.Run("Rejected", func(t *testing.T) {
		tl := newTools(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = io.WriteString(w, `{"object":"error","status":400,"code":"validation_error","message":"bad"}`)
		})
		res, _, err := tl.handleSetPageContent(t.Context(), nil, SetPageContentInput{PageID: "p1"})
		if err == nil || !res.IsError {
			t.Fatal("expected error")
		}
	})
}

func TestHandleSearch(t *testing.T) {
	t.Run("OK", func(t *testing.T) {
		var body map[string]any
		tl := newTools(t, func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewDecoder(r.Body).Decode(&body)
			_, _ = io.WriteString(w, `{"object":"list","has_more":true,"next_cursor":"n2","results":[
				{"object":"page","id":"p1","url":"https://notion.so/p1","last_edited_time":"2024-01-02T03:04:05Z",
				 "properties":{"Name":{"type":"title","title":[{"plain_text":"Hello"}]}}}
			]}`)
		})
		_, out, err := tl.handleSearch(t.Context(), nil, SearchInput{Query: "he", Direction: "descending", Cursor: "c1"})
		if err != nil {
			t.Fatal(err)
		}
		if body["query"] != "he" || body["start_cursor"] != "c1" {
			t.Errorf("unexpected body %v", body)
		}
		if s, _ := body["sort"].(map[string]any); s["direction"] != "descending" {
			t.Errorf("sort = %v", body["sort"])
		}
		if f, _ := body["filter"].(map[string]any); f["value"] != "page" {
			t.Errorf("filter = %v", body["filter"])
		}
		if !out.HasMore || out.NextCursor != "n2" || len(out.Results) != 1 {
			t.Fatalf("unexpected output %+v", out)
		}
		want := SearchItem{Object: "page", ID: "p1", Title: "Hello", URL: "https://notion.so/p1", LastEditedTime: "2024-01-02T03:04:05Z"}
		if out.Results[0] != want {
			t.Errorf("result = %+v, want %+v", out.Results[0], want)
		}
	})
	t.Run("InvalidInput", func(t *testing.T) {
		tl := newTools(t, func(w http.ResponseWriter, r *http.Request) {
			t.Error("no request expected")
		})
		for _, in := range []SearchInput{{Filter: "block"}, {Direction: "sideways"}} {
			res, _, err := tl.handleSearch(t.Context(), nil, in)
			if err == nil || !res.IsError {
				t.Errorf("%+v: expected error", in)
			}
		}
	})
}

func TestServerTools(t *testing.T) {
	tl := newTools(t, func(w http.ResponseWriter, r *http.Request) {})
	server := newServer(tl.client)
	ct, st := mcp.NewInMemoryTransports()
	ss, err := server.Connect(t.Context(), st, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = ss.Close() }()
	client := mcp.NewClient(&mcp.Implementation{Name: "test", Version: "v0"}, nil)
	cs, err := client.Connect(t.Context(), ct, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = cs.Close() }()

	res, err := cs.ListTools(t.Context(), nil)
	if err != nil {
		t.Fatal(err)
	}
	var names []string
	for _, tool := range res.Tools {
		names = append(names, tool.Name)
	}
	sort.Strings(names)
	want := []string{"get_child_pages", "get_page_content", "search", "set_page_content"}
	if len(names) != len(want) {
		t.Fatalf("tools = %v", names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("tools = %v, want %v", names, want)
		}
	}
}

func TestWatchFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "exe")
	if err := os.WriteFile(path, []byte("v1"), 0o700); err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(t.Context())
	defer cancel()
	if err := watchFile(ctx, path, cancel); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("v2"), 0o700); err != nil {
		t.Fatal(err)
	}
	select {
	case <-ctx.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop")
	}
}
