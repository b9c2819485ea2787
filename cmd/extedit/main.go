// Command extedit opens files in external programs using
// command templates with ${...} placeholders.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"

	"github.com/byte4ever/extedit/cli"
)

func main() {
	if err := run(); err != nil {
		slog.Error(err.Error())
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(
		context.Background(), os.Interrupt,
	)
	defer stop()

	return cli.Execute(ctx, os.Args[1:])
}
