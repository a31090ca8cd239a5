package cli

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap/zapcore"
	"golang.org/x/term"

	"github.com/shiftline-hq/shiftline-client/internal/app"
	"github.com/shiftline-hq/shiftline-client/internal/config"
	"github.com/shiftline-hq/shiftline-client/internal/logger"
	"github.com/shiftline-hq/shiftline-client/internal/storage"
	"github.com/shiftline-hq/shiftline-client/pkg/client"
)

// Env is what a command needs to talk to the API.
type Env struct {
	Client *client.Client
	In     io.Reader
	Out    io.Writer
	Err    io.Writer

	// ReadPassword overrides how secrets are read. When nil, a terminal In
	// is read without echo and anything else line by line.
	ReadPassword func() (string, error)

	lines   *bufio.Reader
	closers []io.Closer
}

// Opener builds the Env for one command run.
type Opener func() (*Env, error)

// Open loads configuration and builds a client whose session is persisted
// in bbolt at the configured session path.
func Open() (*Env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	apiCfg, err := app.APIConfig(cfg)
	if err != nil {
		return nil, err
	}

	store, err := storage.NewStore("bbolt", cfg.SessionPath, storage.Options{})
	if err != nil {
		return nil, fmt.Errorf("open session store: %w", err)
	}

	log := logger.New(cfg.LogLevel, zapcore.Lock(os.Stderr))
	c, err := client.New(apiCfg,
		client.WithTimeout(cfg.RequestTimeout),
		client.WithSessionStore(store),
		client.WithLogger(log),
	)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	return &Env{
		Client:  c,
		In:      os.Stdin,
		Out:     os.Stdout,
		Err:     os.Stderr,
		closers: []io.Closer{store},
	}, nil
}

// Close releases the session store.
func (e *Env) Close() error {
	var firstErr error
	for _, c := range e.closers {
		if err := c.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (e *Env) readLine(prompt string) (string, error) {
	if prompt != "" {
		fmt.Fprint(e.Err, prompt)
	}
	if e.lines == nil {
		e.lines = bufio.NewReader(e.In)
	}
	line, err := e.lines.ReadString('\n')
	if err != nil && err != io.EOF {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func (e *Env) readPassword(prompt string) (string, error) {
	if e.ReadPassword != nil {
		fmt.Fprint(e.Err, prompt)
		return e.ReadPassword()
	}
	if f, ok := e.In.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprint(e.Err, prompt)
		password, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(e.Err)
		if err != nil {
			return "", err
		}
		return string(password), nil
	}
	return e.readLine(prompt)
}

func (e *Env) printJSON(v any) error {
	enc := json.NewEncoder(e.Out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
