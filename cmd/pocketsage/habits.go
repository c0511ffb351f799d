package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"connectrpc.com/connect"
	"github.com/google/subcommands"

	"github.com/mmynk/pocketsage/internal/date"
	"github.com/mmynk/pocketsage/internal/renderer"
	"github.com/mmynk/pocketsage/internal/rpc"
)

type addHabitCmd struct {
	name        string
	description string
}

func (*addHabitCmd) Name() string     { return "add-habit" }
func (*addHabitCmd) Synopsis() string { return "start tracking a daily habit" }
func (*addHabitCmd) Usage() string {
	return `pocketsage add-habit -name <name> [-desc <text>]
`
}

func (c *addHabitCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.name, "name", "", "habit name")
	f.StringVar(&c.description, "desc", "", "optional description")
}

func (c *addHabitCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.name == "" {
		fmt.Fprintln(os.Stderr, "add-habit requires -name")
		return subcommands.ExitUsageError
	}
	resp, err := habitClient().CreateHabit(ctx, connect.NewRequest(&rpc.CreateHabitRequest{
		Name:        c.name,
		Description: c.description,
	}))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error adding habit: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.HabitsMarkdown([]rpc.Habit{resp.Msg.Habit}))
	return subcommands.ExitSuccess
}

type habitsCmd struct{}

func (*habitsCmd) Name() string     { return "habits" }
func (*habitsCmd) Synopsis() string { return "list tracked habits" }
func (*habitsCmd) Usage() string {
	return `pocketsage habits
`
}

func (*habitsCmd) SetFlags(*flag.FlagSet) {}

func (*habitsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	resp, err := habitClient().ListHabits(ctx, connect.NewRequest(&rpc.ListHabitsRequest{}))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error listing habits: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.HabitsMarkdown(resp.Msg.Habits))
	return subcommands.ExitSuccess
}

type logHabitCmd struct {
	date  string
	value int
}

func (*logHabitCmd) Name() string     { return "log-habit" }
func (*logHabitCmd) Synopsis() string { return "record a habit for a day" }
func (*logHabitCmd) Usage() string {
	return `pocketsage log-habit [-d <date>] [-v <value>] <habit>

  Records the habit (by name or ID) for a day. Logging a day again replaces its
  value; -v 0 marks the day as not done.
`
}

func (c *logHabitCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", "", "day to record, YYYY-MM-DD (default: today)")
	f.IntVar(&c.value, "v", 1, "value for the day; any value above 0 counts as done")
}

func (c *logHabitCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "log-habit requires exactly one habit")
		return subcommands.ExitUsageError
	}
	var on date.Date
	if c.date != "" {
		var err error
		if on, err = date.Parse(c.date); err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
			return subcommands.ExitUsageError
		}
	}

	client := habitClient()
	habit, err := findHabit(ctx, client, f.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	resp, err := client.LogHabitEntry(ctx, connect.NewRequest(&rpc.LogHabitEntryRequest{
		HabitID: habit.ID,
		Date:    on,
		Value:   c.value,
	}))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error logging habit: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("%s: %d on %s\n", habit.Name, resp.Msg.Entry.Value, resp.Msg.Entry.Date)
	return subcommands.ExitSuccess
}

type streaksCmd struct {
	today string
}

func (*streaksCmd) Name() string     { return "streaks" }
func (*streaksCmd) Synopsis() string { return "show current and longest streaks of a habit" }
func (*streaksCmd) Usage() string {
	return `pocketsage streaks [-today <date>] <habit>

  Shows the current streak (which requires today to be logged), the longest
  streak and the completion rate of the last 30 days.
`
}

func (c *streaksCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.today, "today", "", "reference day, YYYY-MM-DD (default: today)")
}

func (c *streaksCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "streaks requires exactly one habit")
		return subcommands.ExitUsageError
	}
	var today date.Date
	if c.today != "" {
		var err error
		if today, err = date.Parse(c.today); err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
			return subcommands.ExitUsageError
		}
	}

	client := habitClient()
	habit, err := findHabit(ctx, client, f.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	resp, err := client.GetHabitStreaks(ctx, connect.NewRequest(&rpc.GetHabitStreaksRequest{
		HabitID: habit.ID,
		Today:   today,
	}))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error computing streaks: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.StreaksMarkdown(habit.Name, resp.Msg))
	return subcommands.ExitSuccess
}

// findHabit resolves a habit by ID or, failing that, by exact name.
func findHabit(ctx context.Context, client *rpc.HabitServiceClient, ref string) (rpc.Habit, error) {
	resp, err := client.ListHabits(ctx, connect.NewRequest(&rpc.ListHabitsRequest{}))
	if err != nil {
		return rpc.Habit{}, fmt.Errorf("error listing habits: %w", err)
	}
	var byName []rpc.Habit
	for _, h := range resp.Msg.Habits {
		if h.ID == ref {
			return h, nil
		}
		if h.Name == ref {
			byName = append(byName, h)
		}
	}
	switch len(byName) {
	case 0:
		return rpc.Habit{}, fmt.Errorf("no habit named %q", ref)
	case 1:
		return byName[0], nil
	default:
		return rpc.Habit{}, fmt.Errorf("%d habits are named %q, use the ID", len(byName), ref)
	}
}
