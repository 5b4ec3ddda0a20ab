package database

import "testing"

func TestTodayFormat(t *testing.T) {
	today := Today()
	if len(today) != 10 || today[4] != '-' || today[7] != '-' {
		t.Errorf("expected YYYY-MM-DD, got %q", today)
	}
}

func TestMonthKey(t *testing.T) {
	if got := MonthKey("2024-06-15"); got != "2024-06" {
		t.Errorf("expected 2024-06, got %q", got)
	}
	if got := MonthKey("bad"); got != "bad" {
		t.Errorf("expected short input unchanged, got %q", got)
	}
}

func TestFormatMonthDisplay(t *testing.T) {
	if got := FormatMonthDisplay("2024-06"); got != "2024 June" {
		t.Errorf("expected '2024 June', got %q", got)
	}
	if got := FormatMonthDisplay("garbage"); got != "garbage" {
		t.Errorf("expected invalid key unchanged, got %q", got)
	}
}
