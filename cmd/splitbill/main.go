package main

import (
	"context"
	"os"

	"splitbill/cmd/splitbill/commands"
	"splitbill/internal/cli"
)

func main() {
	ctx, stop := cli.SignalContext(context.Background())
	defer stop()

	if err := commands.Execute(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
