package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/dpshade/pocket-styler/internal/cli"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := cli.Main(ctx)
	cancel()
	os.Exit(code)
}
