// Command oassync parses, queries, diffs and generates code from OpenAPI
// documents, and serves the same operations to agents over MCP.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/erraggy/oassync/cmd/oassync/commands"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := commands.Execute(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
