package schedule

import (
	"testing"
	"time"
)

func TestCronToHumanDaily(t *testing.T) {
	tests := []struct {
		expr string
		want string
	}{
		{"0 10 * * *", "Daily at 10:00 AM"},
		{"30 14 * * *", "Daily at 2:30 PM"},
		{"7 9 * * *", "Daily at 9:07 AM"},
		{"5 0 * * *", "Daily at 12:05 AM"},
		{"0 12 * * *", "Daily at 12:00 PM"},
		{"59 23 * * *", "Daily at 11:59 PM"},
	}
	for _, tt := range tests {
		if got := CronToHuman(tt.expr); got != tt.want {
			t.Errorf("CronToHuman(%q) = %q, want %q", tt.expr, got, tt.want)
		}
	}
}

func TestCronToHumanWeekdayAndMonthly(t *testing.T) {
	tests := []struct {
		expr string
		want string
	}{
		{"0 10 * * 1", "Every Monday at 10:00 AM"},
		{"0 10 * * MON", "Every Monday at 10:00 AM"},
		{"0 10 * * fri", "Every Friday at 10:00 AM"},
		{"0 10 * * 0", "Every Sunday at 10:00 AM"},
		{"0 10 * * 7", "Every Sunday at 10:00 AM"},
		{"30 9 15 * *", "Monthly on day 15 at 9:30 AM"},
		{"0 8 1 * *", "Monthly on day 1 at 8:00 AM"},
	}
	for _, tt := range tests {
		if got := CronToHuman(tt.expr); got != tt.want {
			t.Errorf("CronToHuman(%q) = %q, want %q", tt.expr, got, tt.want)
		}
	}
}

// Anything the humanizer cannot read comes back unchanged, never as a
// panic or an error.
func TestCronToHumanUnparseable(t *testing.T) {
	exprs := []string{
		"",
		"not a cron",
		"0 10 * *",
		"0 10 * * * *",
		"60 10 * * *",
		"0 24 * * *",
		"-5 10 * * *",
		"+5 10 * * *",
		"*/5 * * * *",
		"0 10 * * 1-5",
		"0 10 1,15 * *",
		"a b * * *",
		"0 10 32 * *",
		"0 10 * 3 *",
		"0 10 * * 8",
		"* * * * *",
	}
	for _, expr := range exprs {
		if got := CronToHuman(expr); got != expr {
			t.Errorf("CronToHuman(%q) = %q, want input unchanged", expr, got)
		}
	}
}

func TestCronForDailyTimeRoundTrip(t *testing.T) {
	expr, err := CronForDailyTime("10:00")
	if err != nil {
		t.Fatalf("CronForDailyTime: %v", err)
	}
	if expr != "0 10 * * *" {
		t.Errorf("expr = %q", expr)
	}
	if got := CronToHuman(expr); got != "Daily at 10:00 AM" {
		t.Errorf("CronToHuman(%q) = %q", expr, got)
	}

	if expr, _ := CronForDailyTime("09:05"); expr != "5 9 * * *" {
		t.Errorf("expr = %q", expr)
	}
	if _, err := CronForDailyTime("25:00"); err == nil {
		t.Error("expected error for 25:00")
	}
	if _, err := CronForDailyTime("breakfast"); err == nil {
		t.Error("expected error for non-time input")
	}
}

func TestFormatNextRunSentinels(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	if got := FormatNextRun("", now); got != "Not scheduled" {
		t.Errorf("empty input = %q", got)
	}
	if got := FormatNextRun("not-a-date", now); got != "Invalid date" {
		t.Errorf("garbage input = %q", got)
	}
	past := now.Add(-time.Second).Format(time.RFC3339)
	if got := FormatNextRun(past, now); got != "Past due" {
		t.Errorf("past instant = %q", got)
	}
}

func TestFormatNextRunRelative(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		offset time.Duration
		want   string
	}{
		{0, "In 0 minutes"},
		{30 * time.Second, "In 0 minutes"},
		{1 * time.Minute, "In 1 minute"},
		{30 * time.Minute, "In 30 minutes"},
		{59*time.Minute + 59*time.Second, "In 59 minutes"},
		{1 * time.Hour, "In 1 hour"},
		{90 * time.Minute, "In 1 hour"},
		{5 * time.Hour, "In 5 hours"},
		{23*time.Hour + 59*time.Minute, "In 23 hours"},
	}
	for _, tt := range tests {
		iso := now.Add(tt.offset).Format(time.RFC3339)
		if got := FormatNextRun(iso, now); got != tt.want {
			t.Errorf("FormatNextRun(now+%v) = %q, want %q", tt.offset, got, tt.want)
		}
	}
}

func TestFormatNextRunAbsolute(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		iso  string
		want string
	}{
		{"2024-03-05T14:30:00Z", "Mar 5, 2:30 PM"},
		{"2024-03-02T12:00:00Z", "Mar 2, 12:00 PM"},
		{"2024-03-09T09:05:00Z", "Mar 9, 9:05 AM"},
		{"2024-12-25T00:30:00Z", "Dec 25, 12:30 AM"},
	}
	for _, tt := range tests {
		if got := FormatNextRun(tt.iso, now); got != tt.want {
			t.Errorf("FormatNextRun(%q) = %q, want %q", tt.iso, got, tt.want)
		}
	}
}

func TestParseISO(t *testing.T) {
	tests := []struct {
		in      string
		wantErr bool
	}{
		{"2024-03-01T12:00:00Z", false},
		{"2024-03-01T12:00:00+05:30", false},
		{"2024-03-01T12:00:00.500Z", false},
		{"2024-03-01T12:00:00", false},
		{"2024-03-01 12:00:00", false},
		{"2024-03-01", false},
		{" 2024-03-01T12:00:00Z ", false},
		{"yesterday", true},
		{"", true},
	}
	for _, tt := range tests {
		_, err := ParseISO(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseISO(%q) err = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
	}
}

func TestNext(t *testing.T) {
	after := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	got, err := Next("0 10 * * *", after)
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	want := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("Next = %v, want %v", got, want)
	}

	got, err = Next("0 10 * * *", time.Date(2024, 3, 1, 11, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	want = time.Date(2024, 3, 2, 10, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("Next past today's run = %v, want %v", got, want)
	}

	if _, err := Next("nonsense", after); err == nil {
		t.Error("expected error for invalid expression")
	}
}
