package calendar

import (
	"testing"
	"time"
)

func TestWeekStart(t *testing.T) {
	tests := []struct {
		day  string
		want string
	}{
		{"2026-10-12", "2026-10-12"}, // Monday
		{"2026-10-16", "2026-10-12"}, // Friday
		{"2026-10-18", "2026-10-12"}, // Sunday
		{"2026-10-19", "2026-10-19"},
		{"2027-01-01", "2026-12-28"}, // crosses year
	}
	for _, tt := range tests {
		d, err := ParseDate(tt.day)
		if err != nil {
			t.Fatalf("parse %s: %v", tt.day, err)
		}
		if got := d.WeekStart().String(); got != tt.want {
			t.Errorf("WeekStart(%s) = %s, want %s", tt.day, got, tt.want)
		}
	}
}

func TestDaysSinceAcrossDST(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	// DST ends 2026-11-01 in New York; the day is 25 hours long.
	before := DateOf(time.Date(2026, 10, 31, 23, 30, 0, 0, loc), loc)
	after := DateOf(time.Date(2026, 11, 2, 0, 30, 0, 0, loc), loc)
	if got := after.DaysSince(before); got != 2 {
		t.Errorf("DaysSince = %d, want 2", got)
	}
}

func TestDateOfUsesLocation(t *testing.T) {
	loc := time.FixedZone("UTC+10", 10*3600)
	instant := time.Date(2026, 10, 15, 20, 0, 0, 0, time.UTC)
	if got := DateOf(instant, loc).String(); got != "2026-10-16" {
		t.Errorf("DateOf = %s, want 2026-10-16", got)
	}
	if got := DateOf(instant, nil).String(); got != "2026-10-15" {
		t.Errorf("DateOf(nil loc) = %s, want 2026-10-15", got)
	}
}

func TestMonthKeyAndAddDays(t *testing.T) {
	d := Date{Year: 2026, Month: time.February, Day: 28}
	if got := d.AddDays(1).String(); got != "2026-03-01" {
		t.Errorf("AddDays = %s", got)
	}
	if got := d.MonthKey(); got != "2026-02" {
		t.Errorf("MonthKey = %s", got)
	}
	if !d.Before(d.AddDays(1)) {
		t.Error("expected Before to hold")
	}
}
