package renderer

import (
	"bytes"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	md "github.com/nao1215/markdown"

	"github.com/mmynk/pocketsage/internal/rpc"
)

func HabitsMarkdown(habits []rpc.Habit) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1("Habits")
	if len(habits) == 0 {
		doc.PlainText("No habits yet.")
		return doc.String()
	}

	rows := make([][]string, len(habits))
	for i, h := range habits {
		rows[i] = []string{h.Name, h.Description, humanize.Time(time.Unix(h.CreatedAt, 0)), h.ID}
	}
	doc.Table(md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignLeft, md.AlignLeft, md.AlignLeft},
		Header:    []string{"Name", "Description", "Created", "ID"},
		Rows:      rows,
	})
	return doc.String()
}

func StreaksMarkdown(name string, s *rpc.GetHabitStreaksResponse) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1(fmt.Sprintf("%s streaks as of %s", name, s.Today))
	doc.Table(md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight},
		Header:    []string{"", "Value"},
		Rows: [][]string{
			{"Current streak", days(s.CurrentStreak)},
			{"Longest streak", days(s.LongestStreak)},
			{"Last 30 days", fmt.Sprintf("%.0f%%", s.CompletionRate*100)},
		},
	})
	if s.CurrentStreak == 0 && s.LongestStreak > 0 {
		doc.PlainText("Log today to start a new streak.")
	}
	return doc.String()
}

func days(n int) string {
	if n == 1 {
		return "1 day"
	}
	return fmt.Sprintf("%s days", humanize.Comma(int64(n)))
}
