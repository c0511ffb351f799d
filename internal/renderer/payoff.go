package renderer

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/dustin/go-humanize"
	md "github.com/nao1215/markdown"
	"github.com/shopspring/decimal"

	"github.com/mmynk/pocketsage/internal/rpc"
)

// LiabilitiesMarkdown lists stored liabilities.
func LiabilitiesMarkdown(liabilities []rpc.Liability, cur Currency) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1("Liabilities")
	if len(liabilities) == 0 {
		doc.PlainText("No liabilities recorded.")
		return doc.String()
	}

	rows := make([][]string, 0, len(liabilities)+1)
	total := decimal.Zero
	for _, l := range liabilities {
		total = total.Add(l.Balance)
		rows = append(rows, []string{
			l.Name,
			cur.Format(l.Balance),
			l.APR.String() + "%",
			cur.Format(l.MinimumPayment),
			humanize.Ordinal(l.DueDay),
			l.ID,
		})
	}
	rows = append(rows, []string{md.Bold("Total"), md.Bold(cur.Format(total)), "", "", "", ""})

	doc.Table(md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight, md.AlignRight, md.AlignRight, md.AlignRight, md.AlignLeft},
		Header:    []string{"Name", "Balance", "APR", "Minimum", "Due", "ID"},
		Rows:      rows,
	})
	return doc.String()
}

// PayoffMarkdown renders a payoff projection: summary, per-debt payoff dates and the
// month-by-month schedule.
func PayoffMarkdown(p *rpc.ProjectPayoffResponse, cur Currency) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1(fmt.Sprintf("Payoff Plan (%s)", p.Strategy))
	doc.PlainText(fmt.Sprintf("Monthly surplus of %s, starting %s.", cur.Format(p.Surplus), p.Today))

	if len(p.Schedule) == 0 {
		doc.PlainText("Nothing to pay off.")
		return doc.String()
	}

	s := p.Summary
	doc.H2("Summary")
	doc.Table(md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight},
		Header:    []string{"", "Value"},
		Rows: [][]string{
			{"Months", humanize.Comma(int64(s.Months))},
			{"Debt-free on", s.DebtFreeDate.String()},
			{"Total paid", cur.Format(s.TotalPaid)},
			{"Total interest", cur.Format(s.TotalInterest)},
		},
	})

	ids := debtIDs(p)
	doc.H2("Payoff Dates")
	dateRows := make([][]string, 0, len(ids))
	for _, id := range ids {
		dateRows = append(dateRows, []string{displayName(p.Names, id), s.PayoffDates[id].String()})
	}
	doc.Table(md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight},
		Header:    []string{"Debt", "Paid off on"},
		Rows:      dateRows,
	})

	doc.H2("Schedule")
	var rows [][]string
	for _, row := range p.Schedule {
		for _, id := range ids {
			pay, ok := row.Payments[id]
			// Paid-off debts stay in every row with zero amounts; skip them after payoff.
			if !ok || (pay.PaymentAmount.IsZero() && pay.RemainingBalance.IsZero()) {
				continue
			}
			rows = append(rows, []string{
				fmt.Sprint(row.Month),
				pay.DueDate.String(),
				displayName(p.Names, id),
				cur.Format(pay.PaymentAmount),
				cur.Format(pay.InterestPaid),
				cur.Format(pay.RemainingBalance),
			})
		}
	}
	doc.Table(md.TableSet{
		Alignment: []md.TableAlignment{md.AlignRight, md.AlignLeft, md.AlignLeft, md.AlignRight, md.AlignRight, md.AlignRight},
		Header:    []string{"Month", "Due", "Debt", "Payment", "Interest", "Remaining"},
		Rows:      rows,
	})

	return doc.String()
}

// ComparisonMarkdown puts snowball and avalanche side by side.
func ComparisonMarkdown(c *rpc.CompareStrategiesResponse, cur Currency) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1("Snowball vs Avalanche")
	row := func(name string, s rpc.PayoffSummary) []string {
		return []string{name, humanize.Comma(int64(s.Months)), cur.Format(s.TotalInterest), s.DebtFreeDate.String()}
	}
	doc.Table(md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight, md.AlignRight, md.AlignRight},
		Header:    []string{"Strategy", "Months", "Interest", "Debt-free on"},
		Rows: [][]string{
			row("snowball", c.Snowball),
			row("avalanche", c.Avalanche),
		},
	})

	switch {
	case c.InterestSaved.IsPositive():
		doc.PlainText(fmt.Sprintf("Avalanche saves %s in interest and %s.",
			cur.Format(c.InterestSaved), months(c.MonthsSaved)))
	case c.InterestSaved.IsNegative():
		doc.PlainText(fmt.Sprintf("Snowball saves %s in interest.", cur.Format(c.InterestSaved.Neg())))
	default:
		doc.PlainText("Both strategies cost the same interest.")
	}
	doc.PlainText(md.Bold("Recommended: " + c.Recommended))

	return doc.String()
}

func months(n int) string {
	switch {
	case n == 1:
		return "1 month"
	case n < 0:
		return fmt.Sprintf("%d months more", -n)
	default:
		return fmt.Sprintf("%d months", n)
	}
}

// debtIDs returns the debts of a schedule ordered by display name, then ID.
func debtIDs(p *rpc.ProjectPayoffResponse) []string {
	ids := make([]string, 0, len(p.Schedule[0].Payments))
	for id := range p.Schedule[0].Payments {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		a, b := displayName(p.Names, ids[i]), displayName(p.Names, ids[j])
		if a != b {
			return a < b
		}
		return ids[i] < ids[j]
	})
	return ids
}

func displayName(names map[string]string, id string) string {
	if n, ok := names[id]; ok && n != "" {
		return n
	}
	return id
}
