package notifier

import (
	"fmt"
	"strings"

	"github.com/jhyun-dev/court-watcher/internal/court"
)

// Digest is the presentation form of one batch of newly-available slots:
// grouped by court, each group carrying its distinct dates and, per date,
// the distinct time strings.
type Digest struct {
	Title  string
	Groups []CourtGroup
}

// CourtGroup is the availability of one court within a digest.
type CourtGroup struct {
	CourtName string
	URL       string
	Dates     []DateGroup
}

// DateGroup is the distinct times of one date within a court group.
type DateGroup struct {
	Month int
	Date  int
	Times []string
}

// BuildDigest groups a flat slot sequence by court name, preserving first-seen
// order of courts, dates and times.
func BuildDigest(title string, slots []court.Slot) *Digest {
	d := &Digest{Title: title}

	groupIdx := make(map[string]int)
	for _, s := range slots {
		gi, ok := groupIdx[s.CourtName]
		if !ok {
			gi = len(d.Groups)
			groupIdx[s.CourtName] = gi
			d.Groups = append(d.Groups, CourtGroup{CourtName: s.CourtName, URL: s.URL})
		}
		g := &d.Groups[gi]

		di := -1
		for i, dg := range g.Dates {
			if dg.Month == s.Month && dg.Date == s.Date {
				di = i
				break
			}
		}
		if di < 0 {
			di = len(g.Dates)
			g.Dates = append(g.Dates, DateGroup{Month: s.Month, Date: s.Date})
		}
		dg := &g.Dates[di]

		duplicate := false
		for _, t := range dg.Times {
			if t == s.Time {
				duplicate = true
				break
			}
		}
		if !duplicate {
			dg.Times = append(dg.Times, s.Time)
		}
	}

	return d
}

// Empty reports whether the digest carries no availability.
func (d *Digest) Empty() bool {
	return len(d.Groups) == 0
}

// Text renders the digest as the plain-text message body shared by the
// messenger and talk channels.
func (d *Digest) Text() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s (%d곳)\n\n", d.Title, len(d.Groups))

	for _, g := range d.Groups {
		b.WriteString(g.CourtName)
		b.WriteString("\n")
		for _, dg := range g.Dates {
			fmt.Fprintf(&b, "%d월 %d일\n", dg.Month, dg.Date)
			for _, t := range dg.Times {
				b.WriteString(t)
				b.WriteString("\n")
			}
			b.WriteString("\n")
		}
	}

	return strings.TrimSpace(b.String())
}
