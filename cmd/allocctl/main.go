package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"delivery-allocation/internal/app"
	"delivery-allocation/internal/cli"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	open := func(ctx context.Context) (cli.Backend, error) {
		return app.OpenCLIBackend(ctx)
	}
	if err := cli.BuildCLI(open, os.Stdout).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
