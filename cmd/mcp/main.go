// Command mcp serves the legal query router as an MCP tool over stdio.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/MdDhaanish/AI-Based-Indian-Legal-Assistant/internal/app"
	"github.com/MdDhaanish/AI-Based-Indian-Legal-Assistant/internal/config"
	"github.com/MdDhaanish/AI-Based-Indian-Legal-Assistant/internal/logging"
	"github.com/MdDhaanish/AI-Based-Indian-Legal-Assistant/internal/mcptool"
)

const (
	version    = "0.1.0"
	serverName = "indian-legal-assistant"
)

func main() {
	if len(os.Args) > 1 && os.Args[1] == "--version" {
		fmt.Printf("%s version %s\n", serverName, version)
		os.Exit(0)
	}

	if err := config.LoadDotEnv(".env"); err != nil {
		fmt.Fprintln(os.Stderr, err)
	}
	env := config.FromEnv()
	// stdout carries the protocol.
	logging.Init(env.LogLevel, os.Stderr)

	if err := run(env); err != nil {
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run(env config.Env) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, env)
	if err != nil {
		return err
	}

	server := mcp.NewServer(&mcp.Implementation{Name: serverName, Version: version}, nil)
	mcptool.Register(server, a.Router)

	slog.Info("mcp server ready", "tool", mcptool.ToolName)
	if err := server.Run(ctx, &mcp.StdioTransport{}); err != nil && ctx.Err() == nil {
		return fmt.Errorf("mcp server: %w", err)
	}
	return nil
}
