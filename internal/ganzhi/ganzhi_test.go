package ganzhi

import (
	"errors"
	"testing"
	"time"

	"github.com/kingrea/liuyao/internal/hexagram"
)

func TestPillarIndexRoundTrip(t *testing.T) {
	for i := 0; i < 60; i++ {
		if got := PillarAt(i).Index(); got != i {
			t.Fatalf("expected index %d, got %d", i, got)
		}
	}
	if PillarAt(10).String() != "甲戌" {
		t.Fatalf("expected 甲戌 at 10, got %s", PillarAt(10))
	}
}

func TestDayPillarReferenceDates(t *testing.T) {
	cases := []struct {
		date time.Time
		want string
	}{
		{time.Date(1970, 1, 1, 12, 0, 0, 0, time.UTC), "辛巳"},
		{time.Date(2000, 1, 1, 12, 0, 0, 0, time.UTC), "戊午"},
		{time.Date(1901, 1, 1, 12, 0, 0, 0, time.UTC), PillarAt(10 + 365).String()},
		{time.Date(2024, 2, 10, 9, 30, 0, 0, time.UTC), "甲辰"},
	}
	for _, tc := range cases {
		p, err := Calendar{}.Pillars(tc.date)
		if err != nil {
			t.Fatalf("pillars for %s: %v", tc.date, err)
		}
		if p.Day.String() != tc.want {
			t.Fatalf("day pillar for %s: expected %s, got %s", tc.date.Format("2006-01-02"), tc.want, p.Day)
		}
	}
}

func TestYearAndMonthFollowSolarTerms(t *testing.T) {
	cases := []struct {
		date        time.Time
		year, month string
	}{
		{time.Date(2024, 2, 10, 9, 0, 0, 0, time.UTC), "甲辰", "丙寅"},
		{time.Date(2024, 2, 3, 9, 0, 0, 0, time.UTC), "癸卯", "乙丑"},
		{time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC), "癸卯", "乙丑"},
		{time.Date(2024, 1, 2, 9, 0, 0, 0, time.UTC), "癸卯", "甲子"},
		{time.Date(2024, 3, 5, 9, 0, 0, 0, time.UTC), "甲辰", "丁卯"},
		{time.Date(1984, 6, 1, 9, 0, 0, 0, time.UTC), "甲子", "己巳"},
	}
	for _, tc := range cases {
		p, err := Calendar{}.Pillars(tc.date)
		if err != nil {
			t.Fatalf("pillars: %v", err)
		}
		if p.Year.String() != tc.year || p.Month.String() != tc.month {
			t.Fatalf("%s: expected %s/%s, got %s/%s", tc.date.Format("2006-01-02"), tc.year, tc.month, p.Year, p.Month)
		}
	}
}

func TestHourPillar(t *testing.T) {
	// 2024-02-10 is a 甲 day, so 子 hour is 甲子 and 午 hour is 庚午.
	base := time.Date(2024, 2, 10, 0, 30, 0, 0, time.UTC)
	p, err := Calendar{}.Pillars(base)
	if err != nil {
		t.Fatalf("pillars: %v", err)
	}
	if p.Hour.String() != "甲子" {
		t.Fatalf("expected 甲子 hour, got %s", p.Hour)
	}
	p, err = Calendar{}.Pillars(base.Add(12 * time.Hour))
	if err != nil {
		t.Fatalf("pillars: %v", err)
	}
	if p.Hour.String() != "庚午" {
		t.Fatalf("expected 庚午 hour, got %s", p.Hour)
	}
}

func TestLateZiHour(t *testing.T) {
	late := time.Date(2024, 2, 10, 23, 15, 0, 0, time.UTC)
	stay, err := Calendar{}.Pillars(late)
	if err != nil {
		t.Fatalf("pillars: %v", err)
	}
	roll, err := Calendar{LateZiNextDay: true}.Pillars(late)
	if err != nil {
		t.Fatalf("pillars: %v", err)
	}
	if stay.Day.String() != "甲辰" {
		t.Fatalf("expected day to stay 甲辰, got %s", stay.Day)
	}
	if roll.Day.String() != "乙巳" {
		t.Fatalf("expected day to roll to 乙巳, got %s", roll.Day)
	}
	if stay.Hour != roll.Hour || stay.Hour.String() != "丙子" {
		t.Fatalf("expected 丙子 hour either way, got %s / %s", stay.Hour, roll.Hour)
	}
}

func TestVoidBranches(t *testing.T) {
	got := VoidBranches(PillarAt(0))
	if got != [2]hexagram.Branch{10, 11} {
		t.Fatalf("甲子 decade should void 戌亥, got %s%s", got[0], got[1])
	}
	got = VoidBranches(Pillar{Stem: 0, Branch: 4})
	if got[0].String() != "寅" || got[1].String() != "卯" {
		t.Fatalf("甲辰 decade should void 寅卯, got %s%s", got[0], got[1])
	}
}

func TestOutOfRange(t *testing.T) {
	_, err := Calendar{}.Pillars(time.Date(1850, 1, 1, 0, 0, 0, 0, time.UTC))
	if !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("expected ErrOutOfRange, got %v", err)
	}
}

func TestTermDayKnownValues(t *testing.T) {
	cases := []struct {
		year  int
		month time.Month
		want  int
	}{
		{2024, time.February, 4},
		{2024, time.March, 5},
		{2024, time.January, 6},
		{2019, time.January, 5},
		{2000, time.February, 4},
		{1990, time.February, 4},
	}
	for _, tc := range cases {
		if got := termDay(tc.year, tc.month); got != tc.want {
			t.Fatalf("term day %d-%02d: expected %d, got %d", tc.year, tc.month, tc.want, got)
		}
	}
}

func TestParseTime(t *testing.T) {
	shanghai := time.FixedZone("CST", 8*3600)
	cases := []struct {
		raw  string
		want time.Time
	}{
		{"2024-02-10T09:30:00Z", time.Date(2024, 2, 10, 9, 30, 0, 0, time.UTC)},
		{"2024-02-10T09:30", time.Date(2024, 2, 10, 9, 30, 0, 0, shanghai)},
		{" 2024-02-10 23:15 ", time.Date(2024, 2, 10, 23, 15, 0, 0, shanghai)},
		{"2024-02-10", time.Date(2024, 2, 10, 0, 0, 0, 0, shanghai)},
	}
	for _, tc := range cases {
		got, err := ParseTime(tc.raw, shanghai)
		if err != nil {
			t.Fatalf("ParseTime(%q): %v", tc.raw, err)
		}
		if !got.Equal(tc.want) {
			t.Fatalf("ParseTime(%q) = %s, want %s", tc.raw, got, tc.want)
		}
	}
	if _, err := ParseTime("yesterday", shanghai); !errors.Is(err, ErrBadTime) {
		t.Fatalf("expected ErrBadTime, got %v", err)
	}
}
