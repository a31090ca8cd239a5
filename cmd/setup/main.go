package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/shiftline-hq/shiftline-client/internal/setup"
)

func main() {
	envFile := flag.String("env-file", setup.DefaultEnvFile, "environment file to create when missing")
	flag.Parse()

	if err := setup.Run(setup.Options{EnvFile: *envFile}, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "setup failed: %v\n", err)
		os.Exit(1)
	}
}
