// Package main implements an MCP server exposing Notion pages.
//
// notion-mcp serves the Model Context Protocol over stdio so MCP-compatible
// assistants can read, append to and search Notion pages. Logs go to stderr
// since stdout carries the protocol.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/fang"
	"github.com/maruel/notion/internal/config"
	"github.com/maruel/notion/internal/logging"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"
)

type flags struct {
	config   string
	envDir   string
	token    string
	logLevel string
	watch    bool
}

func main() {
	f := &flags{}
	cmd := &cobra.Command{
		Use:   "notion-mcp",
		Short: "MCP server for Notion pages",
		Long: `notion-mcp is a Model Context Protocol (MCP) server over stdio that
exposes Notion page content, child pages, appends and search as tools.

The integration token is read from --token, NOTION_TOKEN, a .env file
or the YAML config file.`,
		Example: `NOTION_TOKEN=secret_xxx notion-mcp`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServer(cmd.Context(), f)
		},
	}
	cmd.Flags().StringVar(&f.config, "config", "", "YAML config file")
	cmd.Flags().StringVar(&f.envDir, "env-dir", ".", "Directory holding an optional .env file")
	cmd.Flags().StringVar(&f.token, "token", "", "Notion integration token")
	cmd.Flags().StringVar(&f.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	cmd.Flags().BoolVar(&f.watch, "watch", false, "Exit when the executable is replaced")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	defer stop()
	if err := fang.Execute(
		ctx,
		cmd,
		fang.WithVersion(version),
		fang.WithoutCompletions(),
		fang.WithoutManpage(),
	); err != nil {
		stop()
		os.Exit(1)
	}
}

func runServer(ctx context.Context, f *flags) error {
	cfg, err := config.Load(f.config, f.envDir)
	if err != nil {
		return err
	}
	if f.token != "" {
		cfg.Token = f.token
	}
	if f.logLevel != "" {
		cfg.LogLevel = f.logLevel
	}
	level, err := config.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	ll := &slog.LevelVar{}
	ll.Set(level)
	logger := logging.New(os.Stderr, ll)
	slog.SetDefault(logger)

	client, err := cfg.NewClient(logger)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	if f.watch {
		if err := watchExecutable(ctx, cancel); err != nil {
			return fmt.Errorf("failed to watch executable: %w", err)
		}
	}

	server := newServer(client)
	slog.InfoContext(ctx, "Starting MCP server", "version", version)
	if err := server.Run(ctx, &mcp.StdioTransport{}); err != nil && ctx.Err() == nil {
		return fmt.Errorf("error running server: %w", err)
	}
	return nil
}
