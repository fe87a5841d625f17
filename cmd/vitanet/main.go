// Package main is the entry point for the vitanet CLI.
package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/vitanet/vitanet/cmd/vitanet/commands"
	"github.com/vitanet/vitanet/internal/errors"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := commands.Execute(ctx)
	stop()
	os.Exit(errors.ExitCode(err))
}
