// Package court implements the availability scan pipeline: calendar window
// planning, day classification, calendar-page parsing, concurrent fetching
// with per-pair failure isolation, cross-cycle deduplication, and the
// last-fetch snapshot.
package court

import (
	"fmt"
	"net/url"
	"strconv"
)

// Fixed routing parameters carried by every reservation-site URL.
const (
	menuLevel = "2"
	menuNo    = "351"
)

// Slot represents one bookable time entry for one court on one specific date.
type Slot struct {
	ID          string `json:"id"`
	CourtName   string `json:"courtName"`
	CourtType   string `json:"courtType"`
	CourtNumber string `json:"courtNumber"`
	Year        int    `json:"year"`
	Month       int    `json:"month"`
	Date        int    `json:"date"`
	Time        string `json:"time"`
	URL         string `json:"url"`
}

// SlotID builds the deterministic deduplication key for a slot.
// It is derived from the court's query flag rather than its scraped display
// name, so an upstream rename cannot produce a second identity for the same
// physical slot.
func SlotID(courtNumber string, year, month, date int, timeRange string) string {
	return fmt.Sprintf("%s-%d-%d-%d-%s", courtNumber, year, month, date, timeRange)
}

// NewSlot creates a Slot with its ID and reservation link populated.
func NewSlot(courtName, courtType, courtNumber string, w Window, date int, timeRange, reservationBaseURL string) Slot {
	return Slot{
		ID:          SlotID(courtNumber, w.Year, w.Month, date, timeRange),
		CourtName:   courtName,
		CourtType:   courtType,
		CourtNumber: courtNumber,
		Year:        w.Year,
		Month:       w.Month,
		Date:        date,
		Time:        timeRange,
		URL:         ReservationURL(reservationBaseURL, courtType, courtNumber, w),
	}
}

// ReservationURL reconstructs the deep link into the booking page for one
// court and calendar window. The link is built from configuration, not
// scraped from the page.
func ReservationURL(baseURL, courtType, courtNumber string, w Window) string {
	u, err := url.Parse(baseURL)
	if err != nil {
		return baseURL
	}
	q := u.Query()
	q.Set("flag", courtNumber)
	q.Set("month", strconv.Itoa(w.Month))
	q.Set("year", strconv.Itoa(w.Year))
	q.Set("types", courtType)
	q.Set("menuLevel", menuLevel)
	q.Set("menuNo", menuNo)
	u.RawQuery = q.Encode()
	return u.String()
}

// Target is one watched facility: a court-category code plus the court
// flags to scan under it. Name is the human-facing facility name used in
// notification digests.
type Target struct {
	Name         string
	CourtType    string
	CourtNumbers []string
}
