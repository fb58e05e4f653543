// Package main is the entry point for the notion CLI tool.
//
// notion reads, appends to and searches Notion pages from the command line.
// Results are printed as JSON on stdout; logs go to stderr. The token is read
// from --token, NOTION_TOKEN, a .env file or the YAML config file.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"runtime/debug"
	"syscall"

	"github.com/maruel/notion/internal/config"
	"github.com/maruel/notion/internal/logging"
	"github.com/maruel/notion/internal/notion"
)

const usage = `usage: notion [flags] <command> [args]

commands:
  content <page-id>                 print the plain text of a page
  children <page-id>                list the child pages of a page
  append <page-id> <title> <text>   append a heading and a paragraph
  search [-filter page|database] [-direction ascending|descending] [-all] [query]
  markdown [-depth N] <page-id>     render a page as Markdown
  config-schema                     print the config file JSON Schema

flags:
`

func main() {
	if err := mainImpl(); err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintf(os.Stderr, "notion: %v\n", err)
		os.Exit(1)
	}
}

func mainImpl() error {
	version := flag.Bool("version", false, "Print version and exit")
	configPath := flag.String("config", defaultConfigPath(), "YAML config file")
	envDir := flag.String("env-dir", ".", "Directory holding an optional .env file")
	token := flag.String("token", "", "Notion integration token")
	baseURL := flag.String("base-url", "", "Notion API base URL")
	logLevel := flag.String("log-level", "", "Log level (debug, info, warn, error)")
	flag.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), usage)
		flag.PrintDefaults()
	}
	flag.Parse()

	if *version {
		printVersion()
		return nil
	}
	args := flag.Args()
	if len(args) == 0 {
		flag.Usage()
		return errors.New("missing command")
	}
	if args[0] == "config-schema" {
		return printSchema(os.Stdout)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	defer stop()

	cfg, err := config.Load(*configPath, *envDir)
	if err != nil {
		return err
	}
	if *token != "" {
		cfg.Token = *token
	}
	if *baseURL != "" {
		cfg.BaseURL = *baseURL
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	level, _ := config.ParseLevel(cfg.LogLevel)
	ll := &slog.LevelVar{}
	ll.Set(level)
	logger := logging.New(os.Stderr, ll)
	slog.SetDefault(logger)

	client, err := cfg.NewClient(logger)
	if err != nil {
		return err
	}
	return run(ctx, client, args, os.Stdout)
}

// run executes one command against client and writes its result to w.
func run(ctx context.Context, client *notion.Client, args []string, w io.Writer) error {
	cmd, args := args[0], args[1:]
	switch cmd {
	case "content":
		if len(args) != 1 {
			return errors.New("usage: content <page-id>")
		}
		pc, err := client.GetPageContent(ctx, args[0])
		if err != nil {
			return err
		}
		return writeJSON(w, contentOutput(pc))

	case "children":
		if len(args) != 1 {
			return errors.New("usage: children <page-id>")
		}
		pages, err := client.GetChildPages(ctx, args[0])
		if err != nil {
			return err
		}
		return writeJSON(w, pages)

	case "append":
		if len(args) != 3 {
			return errors.New("usage: append <page-id> <title> <text>")
		}
		resp, err := client.SetPageContent(ctx, args[0], args[1], args[2])
		if err != nil {
			return err
		}
		return writeJSON(w, resp)

	case "search":
		fs := flag.NewFlagSet("search", flag.ContinueOnError)
		fs.SetOutput(io.Discard)
		filter := fs.String("filter", "page", "Object type to search for (page, database)")
		direction := fs.String("direction", "ascending", "Sort by last edit time (ascending, descending)")
		all := fs.Bool("all", false, "Follow pagination and return every result")
		if err := fs.Parse(args); err != nil {
			return fmt.Errorf("search: %w", err)
		}
		if fs.NArg() > 1 {
			return errors.New("usage: search [flags] [query]")
		}
		req := notion.NewSearchRequest(fs.Arg(0))
		req.Filter.Value = *filter
		req.Sort.Direction = *direction
		if *all {
			results, err := client.SearchAll(ctx, req)
			if err != nil {
				return err
			}
			return writeJSON(w, results)
		}
		raw, err := client.SearchRaw(ctx, req)
		if err != nil {
			return err
		}
		return writeJSON(w, raw)

	case "markdown":
		fs := flag.NewFlagSet("markdown", flag.ContinueOnError)
		fs.SetOutput(io.Discard)
		depth := fs.Int("depth", 0, "Max nesting depth (0=unlimited)")
		if err := fs.Parse(args); err != nil {
			return fmt.Errorf("markdown: %w", err)
		}
		if fs.NArg() != 1 {
			return errors.New("usage: markdown [-depth N] <page-id>")
		}
		md, err := client.GetPageMarkdown(ctx, fs.Arg(0), *depth)
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, md)
		return err

	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
}

// pageContentJSON is the printed form of notion.PageContent.
type pageContentJSON struct {
	Found    bool            `json:"found"`
	Text     string          `json:"text"`
	Degraded bool            `json:"degraded,omitempty"`
	Error    string          `json:"error,omitempty"`
	Raw      json.RawMessage `json:"raw,omitempty"`
}

func contentOutput(pc *notion.PageContent) *pageContentJSON {
	if pc == nil {
		return &pageContentJSON{}
	}
	out := &pageContentJSON{Found: true, Text: pc.Text, Degraded: pc.Degraded, Raw: pc.Raw}
	if pc.ExtractErr != nil {
		out.Error = pc.ExtractErr.Error()
	}
	return out
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printSchema(w io.Writer) error {
	data, err := config.Schema()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "%s\n", data)
	return err
}

func defaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "notion", "config.yaml")
}

func printVersion() {
	version, goVersion, revision := "dev", "unknown", "unknown"
	if info, ok := debug.ReadBuildInfo(); ok {
		if v := info.Main.Version; v != "" && v != "(devel)" {
			version = v
		}
		goVersion = info.GoVersion
		for _, s := range info.Settings {
			if s.Key == "vcs.revision" {
				revision = s.Value
			}
		}
	}
	fmt.Printf("notion %s\n", version)
	fmt.Printf("  Go version: %s\n", goVersion)
	fmt.Printf("  Revision:   %s\n", revision)
}
