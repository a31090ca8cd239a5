package cli

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"github.com/google/subcommands"

	"github.com/shiftline-hq/shiftline-client/internal/domain"
)

type LoginCmd struct {
	Open  Opener
	email string
}

func (*LoginCmd) Name() string     { return "login" }
func (*LoginCmd) Synopsis() string { return "sign in and store the session" }
func (*LoginCmd) Usage() string {
	return `login [-email <address>]:
  Sign in. The password is prompted for and never taken from flags.
`
}

func (p *LoginCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.email, "email", "", "account email")
}

func (p *LoginCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	env, status := open(p.Open)
	if env == nil {
		return status
	}
	defer env.Close()

	email := strings.TrimSpace(p.email)
	if email == "" {
		var err error
		if email, err = env.readLine("email: "); err != nil {
			return fail(env, "failed to read email", err)
		}
	}
	password, err := env.readPassword(fmt.Sprintf("password for %s: ", email))
	if err != nil {
		return fail(env, "failed to read password", err)
	}

	session, err := env.Client.Login(ctx, domain.Credentials{Email: email, Password: password})
	if err != nil {
		return fail(env, "login failed", err)
	}
	fmt.Fprintln(env.Out, "logged in as", displayName(session.User, email))
	return subcommands.ExitSuccess
}

type RegisterCmd struct {
	Open      Opener
	email     string
	firstName string
	lastName  string
}

func (*RegisterCmd) Name() string     { return "register" }
func (*RegisterCmd) Synopsis() string { return "create an account and store the session" }
func (*RegisterCmd) Usage() string {
	return `register -email <address> -first <name> -last <name>:
  Create an account. The password is prompted for.
`
}

func (p *RegisterCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.email, "email", "", "account email")
	f.StringVar(&p.firstName, "first", "", "first name")
	f.StringVar(&p.lastName, "last", "", "last name")
}

func (p *RegisterCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	env, status := open(p.Open)
	if env == nil {
		return status
	}
	defer env.Close()

	password, err := env.readPassword("choose a password: ")
	if err != nil {
		return fail(env, "failed to read password", err)
	}

	session, err := env.Client.Register(ctx, domain.Registration{
		Email:     strings.TrimSpace(p.email),
		Password:  password,
		FirstName: strings.TrimSpace(p.firstName),
		LastName:  strings.TrimSpace(p.lastName),
	})
	if err != nil {
		return fail(env, "registration failed", err)
	}
	fmt.Fprintln(env.Out, "registered and logged in as", displayName(session.User, p.email))
	return subcommands.ExitSuccess
}

type LogoutCmd struct {
	Open Opener
}

func (*LogoutCmd) Name() string           { return "logout" }
func (*LogoutCmd) Synopsis() string       { return "end the session" }
func (*LogoutCmd) Usage() string          { return "logout:\n  End the session and forget the stored tokens.\n" }
func (*LogoutCmd) SetFlags(*flag.FlagSet) {}

func (p *LogoutCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	env, status := open(p.Open)
	if env == nil {
		return status
	}
	defer env.Close()

	if err := env.Client.Logout(ctx); err != nil {
		// The local session is gone either way.
		fmt.Fprintln(env.Err, "warning: server logout failed:", err)
	}
	fmt.Fprintln(env.Out, "logged out")
	return subcommands.ExitSuccess
}

type MeCmd struct {
	Open Opener
	json bool
}

func (*MeCmd) Name() string     { return "me" }
func (*MeCmd) Synopsis() string { return "show the signed-in user" }
func (*MeCmd) Usage() string    { return "me [-json]:\n  Show the signed-in user.\n" }

func (p *MeCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&p.json, "json", false, "print JSON")
}

func (p *MeCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	env, status := open(p.Open)
	if env == nil {
		return status
	}
	defer env.Close()

	user, err := env.Client.Me(ctx)
	if err != nil {
		return fail(env, "failed to load user", err)
	}
	if p.json {
		if err := env.printJSON(user); err != nil {
			return fail(env, "failed to encode user", err)
		}
		return subcommands.ExitSuccess
	}
	fmt.Fprintf(env.Out, "%s <%s> (%s)\n", displayName(&user, user.ID), user.Email, user.Role)
	return subcommands.ExitSuccess
}

func displayName(u *domain.User, fallback string) string {
	if u == nil {
		return fallback
	}
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		if u.Email != "" {
			return u.Email
		}
		return fallback
	}
	return name
}
