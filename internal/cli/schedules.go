package cli

import (
	"context"
	"flag"
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/google/subcommands"

	"github.com/shiftline-hq/shiftline-client/internal/domain"
	"github.com/shiftline-hq/shiftline-client/pkg/client"
)

type SchedulesCmd struct {
	Open Opener

	create bool
	update string
	remove string

	from     string
	to       string
	employee string
	title    string
	start    string
	end      string
	location string
	notes    string
	json     bool
}

func (*SchedulesCmd) Name() string     { return "schedules" }
func (*SchedulesCmd) Synopsis() string { return "list, create, update or delete schedule entries" }
func (*SchedulesCmd) Usage() string {
	return `schedules [-from t] [-to t] [-employee id] [-json]
schedules -create -employee id -title s -start t -end t [-location s] [-notes s]
schedules -update <id> -employee id -title s -start t -end t [-location s] [-notes s]
schedules -delete <id>:
  Manage schedule entries. Times are RFC 3339 (2026-05-01T09:00:00Z).
`
}

func (p *SchedulesCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&p.create, "create", false, "create a schedule entry")
	f.StringVar(&p.update, "update", "", "update the schedule entry with this id")
	f.StringVar(&p.remove, "delete", "", "delete the schedule entry with this id")
	f.StringVar(&p.from, "from", "", "list entries starting at or after this time")
	f.StringVar(&p.to, "to", "", "list entries starting before this time")
	f.StringVar(&p.employee, "employee", "", "employee id")
	f.StringVar(&p.title, "title", "", "entry title")
	f.StringVar(&p.start, "start", "", "entry start time")
	f.StringVar(&p.end, "end", "", "entry end time")
	f.StringVar(&p.location, "location", "", "entry location")
	f.StringVar(&p.notes, "notes", "", "entry notes")
	f.BoolVar(&p.json, "json", false, "print JSON")
}

func (p *SchedulesCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	modes := 0
	for _, set := range []bool{p.create, p.update != "", p.remove != ""} {
		if set {
			modes++
		}
	}
	if modes > 1 {
		fmt.Fprintln(f.Output(), "error: -create, -update and -delete are mutually exclusive")
		return subcommands.ExitUsageError
	}

	env, status := open(p.Open)
	if env == nil {
		return status
	}
	defer env.Close()

	switch {
	case p.remove != "":
		if err := env.Client.DeleteSchedule(ctx, p.remove); err != nil {
			return fail(env, "failed to delete schedule", err)
		}
		fmt.Fprintln(env.Out, p.remove)
		return subcommands.ExitSuccess
	case p.create || p.update != "":
		in, err := p.input()
		if err != nil {
			fmt.Fprintln(env.Err, "error:", err)
			return subcommands.ExitUsageError
		}
		var entry domain.Schedule
		if p.create {
			entry, err = env.Client.CreateSchedule(ctx, in)
		} else {
			entry, err = env.Client.UpdateSchedule(ctx, p.update, in)
		}
		if err != nil {
			return fail(env, "failed to save schedule", err)
		}
		return p.print(env, []domain.Schedule{entry})
	}

	q, err := p.query()
	if err != nil {
		fmt.Fprintln(env.Err, "error:", err)
		return subcommands.ExitUsageError
	}
	entries, err := env.Client.ListSchedules(ctx, q)
	if err != nil {
		return fail(env, "failed to list schedules", err)
	}
	return p.print(env, entries)
}

func (p *SchedulesCmd) query() (client.ScheduleQuery, error) {
	from, err := parseTime("from", p.from)
	if err != nil {
		return client.ScheduleQuery{}, err
	}
	to, err := parseTime("to", p.to)
	if err != nil {
		return client.ScheduleQuery{}, err
	}
	return client.ScheduleQuery{From: from, To: to, EmployeeID: strings.TrimSpace(p.employee)}, nil
}

func (p *SchedulesCmd) input() (domain.ScheduleInput, error) {
	start, err := parseTime("start", p.start)
	if err != nil {
		return domain.ScheduleInput{}, err
	}
	end, err := parseTime("end", p.end)
	if err != nil {
		return domain.ScheduleInput{}, err
	}
	return domain.ScheduleInput{
		EmployeeID: strings.TrimSpace(p.employee),
		Title:      strings.TrimSpace(p.title),
		StartsAt:   start,
		EndsAt:     end,
		Location:   strings.TrimSpace(p.location),
		Notes:      strings.TrimSpace(p.notes),
	}, nil
}

func (p *SchedulesCmd) print(env *Env, entries []domain.Schedule) subcommands.ExitStatus {
	if p.json {
		if err := env.printJSON(entries); err != nil {
			return fail(env, "failed to encode schedules", err)
		}
		return subcommands.ExitSuccess
	}

	tw := tabwriter.NewWriter(env.Out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tEMPLOYEE\tTITLE\tSTART\tEND\tLOCATION")
	for _, s := range entries {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n", s.ID, s.EmployeeID, s.Title, formatTime(s.StartsAt), formatTime(s.EndsAt), s.Location)
	}
	if err := tw.Flush(); err != nil {
		return fail(env, "failed to print schedules", err)
	}
	return subcommands.ExitSuccess
}

func parseTime(name, value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid -%s %q: expected RFC 3339", name, value)
	}
	return t, nil
}
