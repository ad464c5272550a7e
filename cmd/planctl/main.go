package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"hiroonarita/practice-planner/internal/cli"
)

// Set with -ldflags "-X main.version=..."
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rootCmd := cli.NewRootCmd()
	rootCmd.Version = version

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
