package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/custodia-labs/spotidump/internal/adapters/driving/cli"
	"github.com/custodia-labs/spotidump/internal/app"
)

var Version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cli.SetVersion(Version)
	cli.SetRuntimeLoader(func(opts cli.GlobalOptions) (cli.Runtime, error) {
		a, err := app.New(app.Options{
			ConfigPath: opts.ConfigPath,
			DumpDir:    opts.DumpDir,
		})
		if err != nil {
			return nil, err
		}
		return a, nil
	})

	return cli.Execute(ctx)
}
