package court

import (
	"strconv"
	"strings"
	"time"
)

// DayKind is the eligibility class of one numbered day in a calendar window.
type DayKind int

const (
	// DayOrdinary days admit nothing and are skipped entirely.
	DayOrdinary DayKind = iota
	// DayWeekend and DayHoliday days admit every listed time entry.
	DayWeekend
	DayHoliday
	// DaySpecialWeekday days admit only night-time entries.
	DaySpecialWeekday
)

// NightRule decides which time entries are admitted on a special weekday.
// When Times is non-empty it acts as an explicit whitelist of accepted start
// times; otherwise any entry starting at or after StartHour is admitted.
type NightRule struct {
	StartHour int
	Times     []string
}

// Admits reports whether a time entry such as "20:00~21:00" passes the rule.
func (r NightRule) Admits(timeRange string) bool {
	start := startToken(timeRange)

	if len(r.Times) > 0 {
		for _, t := range r.Times {
			if t == start {
				return true
			}
		}
		return false
	}

	hour, ok := startHour(start)
	if !ok {
		return false
	}
	return hour >= r.StartHour
}

// startToken returns the start time of a "HH:MM~HH:MM" range.
func startToken(timeRange string) string {
	if i := strings.Index(timeRange, "~"); i >= 0 {
		return strings.TrimSpace(timeRange[:i])
	}
	return strings.TrimSpace(timeRange)
}

func startHour(start string) (int, bool) {
	h, _, found := strings.Cut(start, ":")
	if !found {
		return 0, false
	}
	hour, err := strconv.Atoi(h)
	if err != nil {
		return 0, false
	}
	return hour, true
}

// Classifier assigns a DayKind to each numbered day of a window.
// SpecialWeekday below zero disables the special-weekday rule.
type Classifier struct {
	SpecialWeekday int
	Night          NightRule
}

// Classify derives the eligibility class of one day from its weekday and
// holiday-set membership. A fresh date value is constructed per call; the
// result depends only on the arguments.
func (c Classifier) Classify(w Window, day int, holidays map[int]bool) DayKind {
	weekday := time.Date(w.Year, time.Month(w.Month), day, 0, 0, 0, 0, time.Local).Weekday()

	if weekday == time.Saturday || weekday == time.Sunday {
		return DayWeekend
	}
	if holidays[day] {
		return DayHoliday
	}
	if c.SpecialWeekday >= 0 && weekday == time.Weekday(c.SpecialWeekday) {
		return DaySpecialWeekday
	}
	return DayOrdinary
}
