package date

import (
	"encoding/json"
	"testing"
)

// TestTime asserts that time() is canonical and gives comparable times.
func TestTime(t *testing.T) {
	d1 := New(2025, 7, 31)
	d2 := New(2025, 7, 31)

	if d1.time() != d2.time() {
		t.Errorf("same day gives two different times")
	}
	if d1 != d2 {
		t.Errorf("same day gives two different dates")
	}
}

func TestNewNormalizes(t *testing.T) {
	if got, want := New(2025, 2, 30), New(2025, 3, 2); got != want {
		t.Errorf("New(2025, 2, 30) = %v, want %v", got, want)
	}
	if got, want := New(2024, 12, 31).Add(1), New(2025, 1, 1); got != want {
		t.Errorf("Add(1) = %v, want %v", got, want)
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		in      string
		want    Date
		wantErr bool
	}{
		{in: "2025-07-01", want: New(2025, 7, 1)},
		{in: "2025-7-1", want: New(2025, 7, 1)},
		{in: "07/01/2025", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tt := range tests {
		got, err := Parse(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("Parse(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("Parse(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNextDueDate(t *testing.T) {
	tests := []struct {
		name   string
		from   Date
		dueDay int
		want   Date
	}{
		{"due later this month", New(2025, 3, 10), 15, New(2025, 3, 15)},
		{"due today", New(2025, 3, 15), 15, New(2025, 3, 15)},
		{"due passed rolls to next month", New(2025, 3, 16), 15, New(2025, 4, 15)},
		{"december wraps the year", New(2025, 12, 20), 1, New(2026, 1, 1)},
		{"day above 28 is clamped", New(2025, 1, 5), 31, New(2025, 1, 28)},
		{"day below 1 is clamped", New(2025, 1, 5), 0, New(2025, 2, 1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NextDueDate(tt.from, tt.dueDay); got != tt.want {
				t.Errorf("NextDueDate(%v, %d) = %v, want %v", tt.from, tt.dueDay, got, tt.want)
			}
		})
	}
}

func TestAdvanceDueDate(t *testing.T) {
	d := New(2025, 11, 28)
	want := []Date{New(2025, 12, 28), New(2026, 1, 28), New(2026, 2, 28), New(2026, 3, 28)}
	for i, w := range want {
		d = AdvanceDueDate(d, 28)
		if d != w {
			t.Fatalf("step %d: got %v, want %v", i+1, d, w)
		}
	}
}

func TestDaysUntil(t *testing.T) {
	if got := New(2025, 1, 1).DaysUntil(New(2025, 3, 1)); got != 59 {
		t.Errorf("DaysUntil = %d, want 59", got)
	}
	if got := New(2025, 3, 1).DaysUntil(New(2025, 1, 1)); got != -59 {
		t.Errorf("DaysUntil = %d, want -59", got)
	}
}

func TestJSON(t *testing.T) {
	type wrapper struct {
		On Date `json:"on"`
	}
	b, err := json.Marshal(wrapper{On: New(2025, 7, 4)})
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if string(b) != `{"on":"2025-07-04"}` {
		t.Errorf("Marshal = %s", b)
	}

	var w wrapper
	if err := json.Unmarshal([]byte(`{"on":"2025-7-4"}`), &w); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if w.On != New(2025, 7, 4) {
		t.Errorf("Unmarshal = %v", w.On)
	}

	if err := json.Unmarshal([]byte(`{"on":""}`), &w); err != nil {
		t.Fatalf("Unmarshal empty failed: %v", err)
	}
	if !w.On.IsZero() {
		t.Errorf("empty string should decode to zero date, got %v", w.On)
	}
}

func TestScan(t *testing.T) {
	var d Date
	if err := d.Scan("2024-02-29"); err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	if d != New(2024, 2, 29) {
		t.Errorf("Scan = %v", d)
	}
	if err := d.Scan(42); err == nil {
		t.Error("expected error scanning an int")
	}
}
