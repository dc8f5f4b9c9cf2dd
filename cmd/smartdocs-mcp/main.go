// Command smartdocs-mcp is an MCP (Model Context Protocol) server that exposes
// SmartDocsHub document generation, conversion tools and catalogs to AI
// assistants.
//
// # Installation
//
//	go install github.com/Nikhilpandey8/smartdocshub/cmd/smartdocs-mcp@latest
//
// # Configuration for Claude Desktop
//
// Add to ~/.config/claude/claude_desktop_config.json:
//
//	{
//	  "mcpServers": {
//	    "smartdocs": {
//	      "command": "smartdocs-mcp",
//	      "args": ["-config", "/path/to/smartdocs.yaml"]
//	    }
//	  }
//	}
//
// # Available Tools
//
//   - list_templates, get_template: Browse document templates
//   - open_session, set_field, get_form, close_session: Edit a template form
//   - generate_document: Render a session as pdf, docx or txt
//   - generate_assignment: Export a catalog assignment or free text
//   - search_assignments, search_blogs: Search the catalogs and user content
//   - publish_blog, read_blog, delete_blog: Write and read user blog posts
//   - upload_assignment: Share an assignment for a course and semester
//   - preview_markup: Render markup to HTML with reading time
//   - generate_code: QR codes and barcodes as PNG or PDF
//   - convert_file, list_tools: Run conversion tools
//
// # Available Resources
//
//   - catalog://templates
//   - catalog://tools
//   - catalog://assignments
//   - catalog://blogs
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	smartdocs "github.com/Nikhilpandey8/smartdocshub"
	"github.com/Nikhilpandey8/smartdocshub/catalog"
	"github.com/Nikhilpandey8/smartdocshub/codegen"
	"github.com/Nikhilpandey8/smartdocshub/config"
	"github.com/Nikhilpandey8/smartdocshub/convert"
	"github.com/Nikhilpandey8/smartdocshub/doctpl"
	"github.com/Nikhilpandey8/smartdocshub/logger"
	"github.com/Nikhilpandey8/smartdocshub/mcp"
	"github.com/Nikhilpandey8/smartdocshub/session"
)

func main() {
	configPath := flag.String("config", config.DefaultPath, "path to the YAML configuration file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "smartdocs-mcp: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	log, closeLog, err := logger.New(cfg.Logging)
	if err != nil {
		return err
	}
	defer closeLog()
	defer log.Sync() //nolint:errcheck

	lib, err := catalog.Embedded()
	if err != nil {
		return err
	}

	opts := append(cfg.DocumentOptions(), smartdocs.WithLogger(log))
	sessions := session.NewManager(doctpl.New(opts...),
		session.WithLogger(log),
		session.WithTimeout(cfg.Generation.Timeout),
		session.WithIdleTimeout(cfg.Session.IdleTimeout),
		session.WithMaxSessions(cfg.Session.MaxSessions))
	defer sessions.CloseAll()

	if cfg.Output.Dir != "" {
		if err := os.MkdirAll(cfg.Output.Dir, 0o755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
	}

	server := mcp.NewServer(mcp.WithLogger(log))
	mcp.RegisterDefaultTools(server, &mcp.Backend{
		Catalog:   lib,
		Board:     catalog.NewBoard(nil),
		Sessions:  sessions,
		Converter: convert.New(opts...),
		Codes:     codegen.New(opts...),
		OutputDir: cfg.Output.Dir,
	})
	mcp.RegisterDefaultResources(server, lib)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("server started",
		zap.String("config", configPath),
		zap.Int("templates", len(lib.Templates())),
		zap.Int("tools", len(lib.Tools())))
	if err := server.Run(ctx); err != nil && ctx.Err() == nil {
		return err
	}
	log.Info("server stopped")
	return nil
}
