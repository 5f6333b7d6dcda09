package attendance

import (
	"strings"
	"testing"
	"time"
)

func TestFormatNotes(t *testing.T) {
	cases := []struct {
		attendanceType string
		notes          string
		want           string
	}{
		{"Work From Office", "on site all day", "(Work From Office) on site all day"},
		{"Work From Home", "", "(Work From Home)"},
		{"", "forgot to pick a type", "forgot to pick a type"},
		{"", "", ""},
		{"  Client Visit  ", "  Midrand  ", "(Client Visit) Midrand"},
	}

	for _, tc := range cases {
		if got := FormatNotes(tc.attendanceType, tc.notes); got != tc.want {
			t.Errorf("FormatNotes(%q, %q) = %q, want %q", tc.attendanceType, tc.notes, got, tc.want)
		}
	}
}

func TestMonthWindow(t *testing.T) {
	johannesburg, err := time.LoadLocation("Africa/Johannesburg")
	if err != nil {
		t.Fatalf("loading zone: %v", err)
	}

	cases := []struct {
		name string
		at   time.Time
		loc  *time.Location
		want string
	}{
		{"mid month", time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC), time.UTC, "2025-03"},
		// 23:30 UTC on the 31st is already the next month in SAST
		{"month boundary", time.Date(2025, time.January, 31, 23, 30, 0, 0, time.UTC), johannesburg, "2025-02"},
		{"year boundary", time.Date(2025, time.December, 31, 23, 0, 0, 0, time.UTC), johannesburg, "2026-01"},
		{"same instant in utc", time.Date(2025, time.January, 31, 23, 30, 0, 0, time.UTC), time.UTC, "2025-01"},
	}

	for _, tc := range cases {
		if got := monthWindow(tc.at, tc.loc); got != tc.want {
			t.Errorf("%s: monthWindow = %q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestMonthQuery(t *testing.T) {
	query := monthQuery(7, time.UTC, "2025-02")

	if !strings.Contains(query, "employee_id = 7") {
		t.Errorf("query = %q, want it scoped to the employee", query)
	}
	if !strings.Contains(query, "= '2025-02'") {
		t.Errorf("query = %q, want it limited to the month window", query)
	}
	if !strings.Contains(query, "AT TIME ZONE 'UTC'") {
		t.Errorf("query = %q, want the zone applied before the month match", query)
	}
	if !strings.HasSuffix(strings.TrimSpace(query), "ORDER BY clock_in DESC") {
		t.Errorf("query = %q, want most recent sessions first", query)
	}
}

func TestTotalHours(t *testing.T) {
	base := time.Date(2025, time.March, 10, 8, 30, 0, 0, time.UTC)

	cases := []struct {
		name     string
		clockIn  time.Time
		clockOut time.Time
		want     string
	}{
		{"full day", base, base.Add(8*time.Hour + 45*time.Minute), "08:45"},
		{"short session", base, base.Add(25 * time.Minute), "00:25"},
		{"zero", base, base, "00:00"},
		// clocks can disagree; negative spans never render as such
		{"clock skew", base, base.Add(-10 * time.Minute), "00:00"},
		{"long shift", base, base.Add(12 * time.Hour), "12:00"},
	}

	for _, tc := range cases {
		if got := totalHours(tc.clockIn, tc.clockOut); got != tc.want {
			t.Errorf("%s: totalHours = %q, want %q", tc.name, got, tc.want)
		}
	}
}
