package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"connectrpc.com/connect"
	"github.com/google/subcommands"
	"github.com/shopspring/decimal"

	"github.com/mmynk/pocketsage/internal/date"
	"github.com/mmynk/pocketsage/internal/renderer"
	"github.com/mmynk/pocketsage/internal/rpc"
)

type addLiabilityCmd struct {
	name    string
	balance string
	apr     string
	minimum string
	dueDay  int
}

func (*addLiabilityCmd) Name() string     { return "add-liability" }
func (*addLiabilityCmd) Synopsis() string { return "record a debt account" }
func (*addLiabilityCmd) Usage() string {
	return `pocketsage add-liability -name <name> -balance <amount> -apr <percent> -min <amount> [-due <day>]

  Records a liability. The due day is clamped to 1..28.
`
}

func (c *addLiabilityCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.name, "name", "", "display name")
	f.StringVar(&c.balance, "balance", "", "amount currently owed")
	f.StringVar(&c.apr, "apr", "0", "annual percentage rate, 18 for 18%")
	f.StringVar(&c.minimum, "min", "0", "minimum monthly payment")
	f.IntVar(&c.dueDay, "due", 1, "statement due day of the month")
}

func (c *addLiabilityCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.name == "" || c.balance == "" {
		fmt.Fprintln(os.Stderr, "add-liability requires -name and -balance")
		return subcommands.ExitUsageError
	}
	balance, err := requiredAmount("balance", c.balance)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}
	apr, err := requiredAmount("apr", c.apr)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}
	minimum, err := requiredAmount("min", c.minimum)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}

	resp, err := debtClient().CreateLiability(ctx, connect.NewRequest(&rpc.CreateLiabilityRequest{
		Name:           c.name,
		Balance:        balance,
		APR:            apr,
		MinimumPayment: minimum,
		DueDay:         c.dueDay,
	}))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error adding liability: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.LiabilitiesMarkdown([]rpc.Liability{resp.Msg.Liability}, formatter()))
	return subcommands.ExitSuccess
}

type liabilitiesCmd struct{}

func (*liabilitiesCmd) Name() string     { return "liabilities" }
func (*liabilitiesCmd) Synopsis() string { return "list recorded debt accounts" }
func (*liabilitiesCmd) Usage() string {
	return `pocketsage liabilities

  Lists every recorded liability with its balance, rate and due day.
`
}

func (*liabilitiesCmd) SetFlags(*flag.FlagSet) {}

func (*liabilitiesCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	resp, err := debtClient().ListLiabilities(ctx, connect.NewRequest(&rpc.ListLiabilitiesRequest{}))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error listing liabilities: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.LiabilitiesMarkdown(resp.Msg.Liabilities, formatter()))
	return subcommands.ExitSuccess
}

type removeLiabilityCmd struct{}

func (*removeLiabilityCmd) Name() string     { return "rm-liability" }
func (*removeLiabilityCmd) Synopsis() string { return "delete a debt account" }
func (*removeLiabilityCmd) Usage() string {
	return `pocketsage rm-liability <id>...

  Deletes the liabilities with the given IDs.
`
}

func (*removeLiabilityCmd) SetFlags(*flag.FlagSet) {}

func (*removeLiabilityCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "rm-liability requires at least one ID")
		return subcommands.ExitUsageError
	}
	client := debtClient()
	for _, id := range f.Args() {
		if _, err := client.DeleteLiability(ctx, connect.NewRequest(&rpc.DeleteLiabilityRequest{ID: id})); err != nil {
			fmt.Fprintf(os.Stderr, "Error deleting liability %s: %v\n", id, err)
			return subcommands.ExitFailure
		}
	}
	return subcommands.ExitSuccess
}

// projectionFlags are shared by payoff and compare.
type projectionFlags struct {
	surplus string
	mode    string
	today   string
}

func (p *projectionFlags) set(f *flag.FlagSet) {
	f.StringVar(&p.surplus, "surplus", "", "extra amount paid every month on top of the minimums")
	f.StringVar(&p.mode, "mode", "", "payment mode preset: aggressive, balanced or lazy (ignored with -surplus)")
	f.StringVar(&p.today, "today", "", "projection start date, YYYY-MM-DD (default: today)")
}

func (p *projectionFlags) parse() (surplus *decimal.Decimal, today date.Date, err error) {
	surplus, err = parseAmount("surplus", p.surplus)
	if err != nil {
		return nil, date.Date{}, err
	}
	if surplus == nil && p.mode == "" {
		return nil, date.Date{}, fmt.Errorf("either -surplus or -mode is required")
	}
	if p.today != "" {
		today, err = date.Parse(p.today)
		if err != nil {
			return nil, date.Date{}, fmt.Errorf("invalid -today: %w", err)
		}
	}
	return surplus, today, nil
}

type payoffCmd struct {
	projectionFlags
	strategy string
}

func (*payoffCmd) Name() string     { return "payoff" }
func (*payoffCmd) Synopsis() string { return "project a month-by-month payoff plan" }
func (*payoffCmd) Usage() string {
	return `pocketsage payoff [-strategy snowball|avalanche] (-surplus <amount> | -mode <mode>) [-today <date>]

  Projects the payoff of every recorded liability. Snowball pays the smallest
  balance first, avalanche the highest rate first.
`
}

func (c *payoffCmd) SetFlags(f *flag.FlagSet) {
	c.projectionFlags.set(f)
	f.StringVar(&c.strategy, "strategy", "snowball", "snowball or avalanche")
}

func (c *payoffCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	surplus, today, err := c.parse()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}

	resp, err := debtClient().ProjectPayoff(ctx, connect.NewRequest(&rpc.ProjectPayoffRequest{
		Surplus:     surplus,
		PaymentMode: c.mode,
		Strategy:    c.strategy,
		Today:       today,
	}))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error projecting payoff: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.PayoffMarkdown(resp.Msg, formatter()))
	return subcommands.ExitSuccess
}

type compareCmd struct {
	projectionFlags
}

func (*compareCmd) Name() string     { return "compare" }
func (*compareCmd) Synopsis() string { return "compare snowball and avalanche" }
func (*compareCmd) Usage() string {
	return `pocketsage compare (-surplus <amount> | -mode <mode>) [-today <date>]

  Projects both strategies and reports the interest and months avalanche saves.
`
}

func (c *compareCmd) SetFlags(f *flag.FlagSet) {
	c.projectionFlags.set(f)
}

func (c *compareCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	surplus, today, err := c.parse()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}

	resp, err := debtClient().CompareStrategies(ctx, connect.NewRequest(&rpc.CompareStrategiesRequest{
		Surplus:     surplus,
		PaymentMode: c.mode,
		Today:       today,
	}))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error comparing strategies: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.ComparisonMarkdown(resp.Msg, formatter()))
	return subcommands.ExitSuccess
}
