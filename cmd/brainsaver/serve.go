package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/projectbrainsaver/brainsaver/internal/api"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the local HTTP API and MCP server (foreground)",
	Long: `Run the local HTTP API and MCP server in the foreground.

The HTTP API listens on 127.0.0.1 only. The MCP server speaks the stdio
transport, so an MCP client can launch this command directly.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		mcpOnly, _ := cmd.Flags().GetBool("mcp-only")
		return runServe(mcpOnly)
	},
}

func init() {
	serveCmd.Flags().Bool("mcp-only", false, "serve only the MCP stdio transport")
}

func runServe(mcpOnly bool) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	mcpSrv := api.NewMCPServer(api.MCPDeps{
		Store:     a.store,
		Assistant: a.orch,
		Recaller:  a.retriever,
	})
	stdioSrv := server.NewStdioServer(mcpSrv)
	go func() {
		if err := stdioSrv.Listen(ctx, os.Stdin, os.Stdout); err != nil && !errors.Is(err, context.Canceled) {
			slog.Error("MCP stdio server error", "error", err)
		}
	}()
	slog.Info("MCP server started (stdio transport)")

	if mcpOnly {
		<-ctx.Done()
		return nil
	}

	handler := api.NewAppHandler(api.AppDeps{
		Store:     a.store,
		Assistant: a.orch,
	})

	addr := fmt.Sprintf("127.0.0.1:%d", a.cfg.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: handler,
	}

	errCh := make(chan error, 1)
	go func() {
		fmt.Fprintf(os.Stderr, "brainsaver listening on %s\n", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		fmt.Fprintln(os.Stderr, "shutting down...")
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
