// Command pocketsage is the command line client of the PocketSage server.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"path"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/google/subcommands"
	"github.com/shopspring/decimal"

	"github.com/mmynk/pocketsage/internal/renderer"
	"github.com/mmynk/pocketsage/internal/rpc"
	"github.com/mmynk/pocketsage/pkg/logging"
)

var (
	serverURL = flag.String("server", envOr("POCKETSAGE_SERVER", "http://localhost:8080"), "Base URL of the PocketSage server")
	plain     = flag.Bool("plain", false, "print raw Markdown instead of rendering it for the terminal")
	currency  = flag.String("currency", envOr("POCKETSAGE_CURRENCY", renderer.DefaultCurrency), "ISO 4217 code used to format amounts")
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")

	commander.Register(&addLiabilityCmd{}, "debts")
	commander.Register(&liabilitiesCmd{}, "debts")
	commander.Register(&removeLiabilityCmd{}, "debts")
	commander.Register(&payoffCmd{}, "debts")
	commander.Register(&compareCmd{}, "debts")

	commander.Register(&addHabitCmd{}, "habits")
	commander.Register(&habitsCmd{}, "habits")
	commander.Register(&logHabitCmd{}, "habits")
	commander.Register(&streaksCmd{}, "habits")

	flag.Parse()
	logging.Setup()
	os.Exit(int(commander.Execute(context.Background())))
}

func httpClient() *http.Client {
	return &http.Client{Timeout: 30 * time.Second}
}

func debtClient() *rpc.DebtServiceClient {
	return rpc.NewDebtServiceClient(httpClient(), strings.TrimRight(*serverURL, "/"))
}

func habitClient() *rpc.HabitServiceClient {
	return rpc.NewHabitServiceClient(httpClient(), strings.TrimRight(*serverURL, "/"))
}

func formatter() renderer.Currency {
	return renderer.NewCurrency(*currency)
}

// printMarkdown renders md for the terminal, or prints it as is with -plain.
func printMarkdown(md string) {
	if *plain {
		fmt.Print(md)
		return
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(120),
	)
	if err != nil {
		fmt.Print(md)
		return
	}
	out, err := r.Render(md)
	if err != nil {
		fmt.Print(md)
		return
	}
	fmt.Print(out)
}

// requiredAmount reads a decimal flag value that must be present.
func requiredAmount(name, s string) (decimal.Decimal, error) {
	d, err := parseAmount(name, s)
	if err != nil {
		return decimal.Zero, err
	}
	if d == nil {
		return decimal.Zero, fmt.Errorf("-%s must not be empty", name)
	}
	return *d, nil
}

// parseAmount reads a decimal flag value. An empty string yields nil.
func parseAmount(name, s string) (*decimal.Decimal, error) {
	if s == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, fmt.Errorf("invalid -%s %q: %w", name, s, err)
	}
	return &d, nil
}
