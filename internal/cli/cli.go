package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/shiftline-hq/shiftline-client/pkg/api"
	"github.com/shiftline-hq/shiftline-client/pkg/client"
)

// Register adds every wfmctl command to cmdr, building environments with open.
func Register(cmdr *subcommands.Commander, open Opener) {
	cmdr.Register(cmdr.HelpCommand(), "help")
	cmdr.Register(cmdr.FlagsCommand(), "help")
	cmdr.Register(cmdr.CommandsCommand(), "help")

	cmdr.Register(&LoginCmd{Open: open}, "auth")
	cmdr.Register(&RegisterCmd{Open: open}, "auth")
	cmdr.Register(&LogoutCmd{Open: open}, "auth")
	cmdr.Register(&MeCmd{Open: open}, "auth")

	cmdr.Register(&NotificationsCmd{Open: open}, "workforce")
	cmdr.Register(&SchedulesCmd{Open: open}, "workforce")
}

func open(fn Opener) (*Env, subcommands.ExitStatus) {
	if fn == nil {
		fn = Open
	}
	env, err := fn()
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		return nil, subcommands.ExitFailure
	}
	return env, subcommands.ExitSuccess
}

func fail(env *Env, msg string, err error) subcommands.ExitStatus {
	switch {
	case errors.Is(err, client.ErrNoSession):
		fmt.Fprintf(env.Err, "error: %s: not logged in (run `wfmctl login`)\n", msg)
	case errors.Is(err, api.ErrInvalidArgument):
		fmt.Fprintf(env.Err, "error: %s: %v\n", msg, err)
		return subcommands.ExitUsageError
	default:
		fmt.Fprintf(env.Err, "error: %s: %v\n", msg, err)
	}
	return subcommands.ExitFailure
}
