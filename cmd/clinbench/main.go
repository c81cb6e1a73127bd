// Package main provides the clinbench CLI, a toolkit for maintaining
// clinical SQL benchmark corpora.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/clinbench-io/clinbench/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cli.Execute(ctx); err != nil {
		os.Exit(1)
	}
}
