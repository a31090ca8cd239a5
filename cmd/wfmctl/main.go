package main

import (
	"context"
	"flag"
	"os"

	"github.com/google/subcommands"

	"github.com/shiftline-hq/shiftline-client/internal/cli"
)

func main() {
	cli.Register(subcommands.DefaultCommander, cli.Open)

	flag.Parse()
	ctx := context.Background()
	os.Exit(int(subcommands.Execute(ctx)))
}
