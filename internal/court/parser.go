package court

import (
	"context"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// applyMarker is the trailing "apply" label the site appends to each
// bookable time entry.
const applyMarker = " [신청]"

var controlChars = regexp.MustCompile(`[\n\t\r]`)

// HolidaySource yields the holiday day numbers for one calendar window.
// Implementations never fail: an unavailable upstream degrades to an empty
// set.
type HolidaySource interface {
	Holidays(ctx context.Context, w Window) map[int]bool
}

// Parser extracts bookable slots from one court's calendar page.
type Parser struct {
	holidays           HolidaySource
	classifier         Classifier
	reservationBaseURL string
}

// NewParser creates a Parser that classifies days with the given classifier
// and resolves holidays through src.
func NewParser(src HolidaySource, classifier Classifier, reservationBaseURL string) *Parser {
	return &Parser{
		holidays:           src,
		classifier:         classifier,
		reservationBaseURL: reservationBaseURL,
	}
}

// Parse turns the raw calendar markup for one (court, window) pair into slot
// records. Days classified as ordinary never reach extraction; special
// weekdays only contribute entries admitted by the night rule.
//
// A document that cannot be parsed yields an error; one court/month failure
// must not abort the batch, so callers log and move on.
func (p *Parser) Parse(ctx context.Context, r io.Reader, w Window, courtType, courtNumber string) ([]Slot, error) {
	holidays := p.holidays.Holidays(ctx, w)

	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parsing calendar page: %w", err)
	}

	courtName := strings.TrimSpace(doc.Find("select#flag option[selected]").First().Text())

	slots := make([]Slot, 0)

	doc.Find(".calendar td").Each(func(i int, cell *goquery.Selection) {
		day, err := strconv.Atoi(strings.TrimSpace(cell.Find("span.day").Text()))
		if err != nil || day < 1 {
			return
		}

		kind := p.classifier.Classify(w, day, holidays)
		if kind == DayOrdinary {
			return
		}

		cell.Find("ul li.blu").Each(func(j int, entry *goquery.Selection) {
			timeRange := cleanTime(entry.Text())
			if timeRange == "" {
				return
			}
			if kind == DaySpecialWeekday && !p.classifier.Night.Admits(timeRange) {
				return
			}
			slots = append(slots, NewSlot(courtName, courtType, courtNumber, w, day, timeRange, p.reservationBaseURL))
		})
	})

	return slots, nil
}

// cleanTime strips embedded control characters and the trailing apply marker
// from a raw time entry.
func cleanTime(raw string) string {
	cleaned := controlChars.ReplaceAllString(strings.TrimSpace(raw), "")
	return strings.TrimSuffix(cleaned, applyMarker)
}
