package dateutil

import (
	"errors"
	"testing"
	"time"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

func TestParseDate(t *testing.T) {
	t.Run("valid date", func(t *testing.T) {
		got, err := ParseDate("2025-01-15")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if want := day(2025, 1, 15); !got.Equal(want) {
			t.Errorf("got %v, want %v", got, want)
		}
	})

	t.Run("empty defaults to today", func(t *testing.T) {
		got, err := ParseDate("")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if today := TruncateToDay(time.Now()); !got.Equal(today) {
			t.Errorf("got %v, want %v", got, today)
		}
	})

	t.Run("invalid format", func(t *testing.T) {
		_, err := ParseDate("01-15-2025")
		if !errors.Is(err, ErrInvalidDateFormat) {
			t.Errorf("got error %v, want %v", err, ErrInvalidDateFormat)
		}
	})
}

func TestKey(t *testing.T) {
	got, err := ParseKey("2025-03-09")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if Key(got) != "2025-03-09" {
		t.Errorf("Key() = %q", Key(got))
	}
	if Key(got.Add(12*time.Hour)) != "2025-03-09" {
		t.Error("Key should ignore the time of day")
	}
}

func TestNewDateRange(t *testing.T) {
	t.Run("valid date range", func(t *testing.T) {
		dr, err := NewDateRange("2025-01-15", "2025-01-20")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !dr.Start.Equal(day(2025, 1, 15)) || !dr.End.Equal(day(2025, 1, 20)) {
			t.Errorf("got %v - %v", dr.Start, dr.End)
		}
		if n := len(dr.Days()); n != 6 {
			t.Errorf("Days() returned %d dates, want 6", n)
		}
		if !dr.Contains(day(2025, 1, 20).Add(20*time.Hour)) {
			t.Error("range should include its last date")
		}
		if dr.Contains(day(2025, 1, 21)) || dr.Contains(day(2025, 1, 14)) {
			t.Error("range should exclude dates outside it")
		}
	})

	t.Run("empty end defaults to start", func(t *testing.T) {
		dr, err := NewDateRange("2025-01-15", "")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !dr.Start.Equal(dr.End) {
			t.Errorf("expected start and end to be equal, got %v and %v", dr.Start, dr.End)
		}
	})

	t.Run("empty start defaults to today", func(t *testing.T) {
		dr, err := NewDateRange("", "")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if today := TruncateToDay(time.Now()); !dr.Start.Equal(today) {
			t.Errorf("got start %v, want %v", dr.Start, today)
		}
	})
}

func TestNewDateRange_Errors(t *testing.T) {
	tests := []struct {
		name      string
		startDate string
		endDate   string
		wantErr   error
	}{
		{"invalid start date format", "01-15-2025", "", ErrInvalidDateFormat},
		{"invalid end date format", "2025-01-15", "01-20-2025", ErrInvalidDateFormat},
		{"end date before start date", "2025-01-20", "2025-01-15", ErrEndDateBeforeStart},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewDateRange(tt.startDate, tt.endDate)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("got error %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestParseWeekday(t *testing.T) {
	tests := []struct {
		input   string
		want    time.Weekday
		wantErr bool
	}{
		{input: "monday", want: time.Monday},
		{input: "Sat", want: time.Saturday},
		{input: " sunday ", want: time.Sunday},
		{input: "0", want: time.Sunday},
		{input: "6", want: time.Saturday},
		{input: "7", wantErr: true},
		{input: "-1", wantErr: true},
		{input: "funday", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseWeekday(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidWeekday) {
					t.Errorf("got error %v, want %v", err, ErrInvalidWeekday)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestWeekRange(t *testing.T) {
	wantMonday, wantSunday := day(2025, 1, 6), day(2025, 1, 12)

	tests := []struct {
		name  string
		input time.Time
	}{
		{"monday", time.Date(2025, 1, 6, 10, 30, 0, 0, time.Local)},
		{"wednesday", time.Date(2025, 1, 8, 14, 0, 0, 0, time.Local)},
		{"saturday", time.Date(2025, 1, 11, 12, 0, 0, 0, time.Local)},
		{"sunday", time.Date(2025, 1, 12, 23, 59, 0, 0, time.Local)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotMonday, gotSunday := WeekRange(tt.input)
			if !gotMonday.Equal(wantMonday) {
				t.Errorf("monday: got %v, want %v", gotMonday, wantMonday)
			}
			if !gotSunday.Equal(wantSunday) {
				t.Errorf("sunday: got %v, want %v", gotSunday, wantSunday)
			}
		})
	}
}

func TestTruncateAndAt(t *testing.T) {
	input := time.Date(2025, 1, 15, 14, 30, 45, 123456789, time.UTC)
	if got, want := TruncateToDay(input), time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC); !got.Equal(want) {
		t.Errorf("TruncateToDay: got %v, want %v", got, want)
	}
	if got, want := At(input, 570), time.Date(2025, 1, 15, 9, 30, 0, 0, time.UTC); !got.Equal(want) {
		t.Errorf("At: got %v, want %v", got, want)
	}
	if got, want := At(input, 1440), time.Date(2025, 1, 16, 0, 0, 0, 0, time.UTC); !got.Equal(want) {
		t.Errorf("At end of day: got %v, want %v", got, want)
	}
}

func TestSameDay(t *testing.T) {
	a := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)
	if !SameDay(a, a.Add(23*time.Hour+59*time.Minute)) {
		t.Error("expected same day")
	}
	if SameDay(a, a.Add(24*time.Hour)) {
		t.Error("expected different days")
	}
}

func TestParseRelativeDate(t *testing.T) {
	friday := time.Date(2025, 1, 10, 14, 30, 0, 0, time.UTC)
	monday := time.Date(2025, 1, 13, 10, 0, 0, 0, time.UTC)
	utc := func(d int) time.Time { return time.Date(2025, 1, d, 0, 0, 0, 0, time.UTC) }

	tests := []struct {
		name       string
		input      string
		relativeTo time.Time
		want       time.Time
	}{
		{"empty returns today", "", friday, utc(10)},
		{"today keyword", "TODAY", friday, utc(10)},
		{"tomorrow", "tomorrow", friday, utc(11)},
		{"weekday later this week", "saturday", friday, utc(11)},
		{"weekday next week", "monday", friday, utc(13)},
		{"short weekday", "tue", friday, utc(14)},
		{"same weekday jumps a week", "friday", friday, utc(17)},
		{"same weekday from monday", "monday", monday, utc(20)},
		{"next-prefixed weekday", "NEXT-MONDAY", friday, utc(13)},
		{"next-week", "next-week", friday, utc(17)},
		{"absolute today", "2025-01-10", friday, utc(10)},
		{"absolute future", "2025-01-15", friday, utc(15)},
		{"whitespace", "  monday  ", friday, utc(13)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseRelativeDate(tt.input, tt.relativeTo)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseRelativeDate_Errors(t *testing.T) {
	friday := time.Date(2025, 1, 10, 14, 30, 0, 0, time.UTC)

	tests := []struct {
		input   string
		wantErr error
	}{
		{"2025-01-09", ErrDateInPast},
		{"2020-01-01", ErrDateInPast},
		{"01-10-2025", ErrInvalidDateFormat},
		{"10/01/2025", ErrInvalidDateFormat},
		{"mondya", ErrInvalidDateFormat},
		{"next-mondya", ErrInvalidDateFormat},
		{"yesterday", ErrInvalidDateFormat},
		{"next-", ErrInvalidDateFormat},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, err := ParseRelativeDate(tt.input, friday)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("got error %v, want %v", err, tt.wantErr)
			}
		})
	}
}
