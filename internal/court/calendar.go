package court

import "time"

// Window identifies one page of the remote reservation calendar.
type Window struct {
	Month int `json:"month"`
	Year  int `json:"year"`
}

// Plan returns the calendar windows to scan for the given local time: the
// current month and the next one, rolling the year over at December.
func Plan(now time.Time) []Window {
	month := int(now.Month())
	year := now.Year()

	next := Window{Month: month + 1, Year: year}
	if month == 12 {
		next = Window{Month: 1, Year: year + 1}
	}

	return []Window{{Month: month, Year: year}, next}
}
