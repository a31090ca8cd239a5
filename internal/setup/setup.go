package setup

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/shiftline-hq/shiftline-client/pkg/api"
)

const (
	// DefaultEnvFile is the environment file read by config.Load.
	DefaultEnvFile = ".env"
	// DefaultAPIURL is written to a fresh environment file.
	DefaultAPIURL = api.DefaultBaseURL
)

// DefaultEnvContent is the exact content of a freshly written environment file.
const DefaultEnvContent = "VITE_API_URL=" + DefaultAPIURL + "\n"

// writeEnv writes the file body; replaced in tests.
var writeEnv = io.WriteString

// Options control a setup run.
type Options struct {
	EnvFile string
}

// EnsureEnvFile writes the default environment file at path unless a file is
// already there. It reports whether a file was created; an existing file is
// never modified.
func EnsureEnvFile(path string) (bool, error) {
	if path == "" {
		path = DefaultEnvFile
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return false, fmt.Errorf("create env dir: %w", err)
		}
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return false, nil
		}
		return false, fmt.Errorf("create env file: %w", err)
	}

	// A partial file would be kept by every later run, so it is removed.
	if _, err := writeEnv(f, DefaultEnvContent); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return false, fmt.Errorf("write env file: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return false, fmt.Errorf("close env file: %w", err)
	}
	return true, nil
}

// Run bootstraps the environment file and prints the next steps to out.
func Run(opts Options, out io.Writer) error {
	path := opts.EnvFile
	if path == "" {
		path = DefaultEnvFile
	}

	created, err := EnsureEnvFile(path)
	if err != nil {
		return err
	}
	if created {
		fmt.Fprintf(out, "Created %s with VITE_API_URL=%s\n", path, DefaultAPIURL)
	} else {
		fmt.Fprintf(out, "%s already exists, leaving it unchanged\n", path)
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, "Setup complete. Next steps:")
	fmt.Fprintf(out, "  1. Point VITE_API_URL in %s at your API server\n", path)
	fmt.Fprintln(out, "  2. Sign in:            go run ./cmd/wfmctl login -email you@example.com")
	fmt.Fprintln(out, "  3. Check your inbox:   go run ./cmd/wfmctl notifications")
	fmt.Fprintln(out, "  4. Relay notifications: go run ./cmd/relay")
	return nil
}
