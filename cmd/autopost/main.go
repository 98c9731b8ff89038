// Command autopost drafts, reviews and publishes book posts to bot channels.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/MaxSetka1/max-autopost-bot/internal/adapters/driving/cli"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := wire(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "autopost: %v\n", err)
		os.Exit(1)
	}
	defer app.Close()

	cli.SetVersion(version)
	cli.SetServices(app.services)

	if err := cli.Execute(ctx); err != nil {
		app.Close()
		os.Exit(1)
	}
}
