package cli

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	"github.com/quillon/mdgate/internal/mcp"
)

func newMCPCmd() *cobra.Command {
	var httpAddr string
	var instructions bool

	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Start the MCP server (stdio by default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if instructions {
				fmt.Print(mcp.Instructions)
				return nil
			}

			a, err := newApp()
			if err != nil {
				return err
			}
			server := mcp.NewServer(a.client)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			if httpAddr != "" {
				return serveHTTP(ctx, a, server, httpAddr)
			}
			a.log.Info().Msg("serving MCP on stdio")
			return server.Run(ctx, &mcpsdk.StdioTransport{})
		},
	}

	cmd.Flags().StringVar(&httpAddr, "http", "", "serve over HTTP on address (e.g. :9090) instead of stdio")
	cmd.Flags().BoolVar(&instructions, "instructions", false, "print model instructions and exit")
	return cmd
}

func serveHTTP(ctx context.Context, a *app, server *mcpsdk.Server, addr string) error {
	handler := mcpsdk.NewStreamableHTTPHandler(
		func(_ *http.Request) *mcpsdk.Server { return server },
		nil,
	)

	httpServer := &http.Server{
		Addr:    addr,
		Handler: handler,
	}

	go func() {
		<-ctx.Done()
		_ = httpServer.Close()
	}()

	a.log.Info().Str("addr", addr).Msg("serving MCP over HTTP")
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}
