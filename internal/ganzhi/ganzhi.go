// Package ganzhi derives the four Stem-Branch pillars for a moment in time.
//
// Month boundaries follow the twelve 節 solar terms, computed with the
// century-constant approximation and a short table of known corrections.
// The term is taken to begin at local midnight of its day, so readings within
// a few hours of a boundary may differ from an ephemeris-based almanac.
package ganzhi

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/kingrea/liuyao/internal/hexagram"
)

const (
	// MinYear and MaxYear bound the supported solar-term constants.
	MinYear = 1901
	MaxYear = 2099
)

// ErrOutOfRange is returned for dates outside MinYear..MaxYear.
var ErrOutOfRange = errors.New("ganzhi: year out of supported range")

// Pillar is one stem-branch pair.
type Pillar struct {
	Stem   hexagram.Stem   `json:"stem"`
	Branch hexagram.Branch `json:"branch"`
}

// PillarAt returns the pillar at position i of the sixty-pair cycle (甲子 = 0).
func PillarAt(i int) Pillar {
	return Pillar{Stem: hexagram.StemAt(i), Branch: hexagram.BranchAt(i)}
}

// Index returns the position of the pillar in the sixty-pair cycle.
func (p Pillar) Index() int {
	i := (6*int(p.Stem) - 5*int(p.Branch)) % 60
	if i < 0 {
		i += 60
	}
	return i
}

func (p Pillar) String() string { return p.Stem.String() + p.Branch.String() }

// MarshalText encodes the pillar as two characters, e.g. 甲子.
func (p Pillar) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

// Pillars is the full set for one moment plus the day's void branches (旬空).
type Pillars struct {
	Year  Pillar             `json:"year"`
	Month Pillar             `json:"month"`
	Day   Pillar             `json:"day"`
	Hour  Pillar             `json:"hour"`
	Void  [2]hexagram.Branch `json:"void"`
}

func (p Pillars) String() string {
	return fmt.Sprintf("%s年 %s月 %s日 %s時 (空 %s%s)", p.Year, p.Month, p.Day, p.Hour, p.Void[0], p.Void[1])
}

// Calendar computes pillars. The zero value keeps 23:00-23:59 on the current
// civil day; set LateZiNextDay to start the day pillar at the 子 hour.
type Calendar struct {
	LateZiNextDay bool
}

// Pillars computes the four pillars from t's wall clock in its own location.
func (c Calendar) Pillars(t time.Time) (Pillars, error) {
	year, month, day := t.Date()
	if year < MinYear || year > MaxYear {
		return Pillars{}, fmt.Errorf("%w: %d", ErrOutOfRange, year)
	}
	hour := t.Hour()

	solarYear := year
	if month < time.February || (month == time.February && day < termDay(year, time.February)) {
		solarYear--
	}
	yearPillar := PillarAt(solarYear - 4)

	monthBranch := int(month) % 12
	if day < termDay(year, month) {
		monthBranch = (int(month) - 1) % 12
	}
	firstMonthStem := (int(yearPillar.Stem)%5)*2 + 2
	monthPillar := Pillar{
		Stem:   hexagram.StemAt(firstMonthStem + (monthBranch-2+12)%12),
		Branch: hexagram.Branch(monthBranch),
	}

	days := civilDays(year, month, day)
	dayIndex := days + 17 // 1970-01-01 was 辛巳
	if c.LateZiNextDay && hour == 23 {
		dayIndex++
	}
	dayPillar := PillarAt(dayIndex)

	hourBranch := ((hour + 1) / 2) % 12
	hourDay := PillarAt(days + 17)
	if hour == 23 {
		hourDay = PillarAt(days + 18)
	}
	hourPillar := Pillar{
		Stem:   hexagram.StemAt((int(hourDay.Stem)%5)*2 + hourBranch),
		Branch: hexagram.Branch(hourBranch),
	}

	return Pillars{
		Year:  yearPillar,
		Month: monthPillar,
		Day:   dayPillar,
		Hour:  hourPillar,
		Void:  VoidBranches(dayPillar),
	}, nil
}

// ErrBadTime is returned by ParseTime for text matching none of TimeLayouts.
var ErrBadTime = errors.New("ganzhi: unrecognised time")

// TimeLayouts are tried in order by ParseTime. Layouts without a zone are read
// in the caller's location.
var TimeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseTime reads raw with the first matching layout in TimeLayouts.
func ParseTime(raw string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	raw = strings.TrimSpace(raw)
	for _, layout := range TimeLayouts {
		if t, err := time.ParseInLocation(layout, raw, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w %q", ErrBadTime, raw)
}

// VoidBranches returns the two branches left over in the pillar's decade.
func VoidBranches(p Pillar) [2]hexagram.Branch {
	start := int(p.Branch) - int(p.Stem)
	return [2]hexagram.Branch{hexagram.BranchAt(start + 10), hexagram.BranchAt(start + 11)}
}

func civilDays(year int, month time.Month, day int) int {
	return int(time.Date(year, month, day, 0, 0, 0, 0, time.UTC).Unix() / 86400)
}

// termConstants holds C for the 節 of each month, Jan..Dec.
var termConstants = map[int][12]float64{
	20: {6.11, 4.6295, 6.3826, 5.59, 6.318, 6.5, 7.928, 8.35, 8.44, 9.098, 8.218, 7.9},
	21: {5.4055, 3.87, 5.63, 4.81, 5.52, 5.678, 7.108, 7.5, 7.646, 8.318, 7.438, 7.18},
}

// termCorrections lists years where the approximation is a day off.
var termCorrections = map[int]map[time.Month]int{
	1902: {time.June: 1},
	1911: {time.May: 1},
	1925: {time.July: 1},
	1927: {time.September: 1},
	1954: {time.December: 1},
	1982: {time.January: 1},
	2002: {time.August: 1},
	2016: {time.July: 1},
	2019: {time.January: -1},
	2089: {time.November: 1},
}

// termDay returns the day of month on which the month's 節 falls.
func termDay(year int, month time.Month) int {
	century, y := 21, year-2000
	if year <= 2000 {
		century, y = 20, year-1900
	}
	c := termConstants[century][month-1]
	leap := y / 4
	if month <= time.February {
		leap = (y - 1) / 4
	}
	day := int(math.Floor(float64(y)*0.2422+c)) - leap
	if adj, ok := termCorrections[year][month]; ok {
		day += adj
	}
	return day
}
