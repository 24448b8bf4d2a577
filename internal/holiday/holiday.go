// Package holiday resolves public holidays for a calendar window through the
// government holiday-data API.
package holiday

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/jhyun-dev/court-watcher/internal/court"
)

const (
	requestTimeout = 10 * time.Second

	// maxCachedWindows bounds the per-window cache. At most two windows are
	// active per scan cycle, so a full clear is an acceptable eviction.
	maxCachedWindows = 12
)

// Holiday is one public holiday inside a calendar window.
type Holiday struct {
	Month int
	Day   int
}

// restDeInfoResponse is the nested envelope returned by /getRestDeInfo.
// items.item is absent for months without holidays, a single object for one,
// and a list otherwise.
type restDeInfoResponse struct {
	Response struct {
		Body struct {
			Items struct {
				Item itemList `json:"item"`
			} `json:"items"`
		} `json:"body"`
	} `json:"response"`
}

type holidayItem struct {
	DateKind string `json:"dateKind"`
	DateName string `json:"dateName"`
	Locdate  int    `json:"locdate"`
}

// itemList normalizes the one-or-many item shape to a list.
type itemList []holidayItem

func (l *itemList) UnmarshalJSON(data []byte) error {
	var many []holidayItem
	if err := json.Unmarshal(data, &many); err == nil {
		*l = many
		return nil
	}
	var one holidayItem
	if err := json.Unmarshal(data, &one); err != nil {
		return err
	}
	*l = itemList{one}
	return nil
}

// Lookup is a caching client for the holiday-data API. A failed or malformed
// upstream response degrades to an empty holiday set; the affected days are
// then classified as ordinary for that cycle.
type Lookup struct {
	client     *http.Client
	baseURL    string
	serviceKey string
	log        logrus.FieldLogger

	mu    sync.Mutex
	cache map[string][]Holiday
}

// NewLookup creates a Lookup against the given API base URL.
func NewLookup(baseURL, serviceKey string, log logrus.FieldLogger) *Lookup {
	return &Lookup{
		client:     &http.Client{Timeout: requestTimeout},
		baseURL:    baseURL,
		serviceKey: serviceKey,
		log:        log,
		cache:      make(map[string][]Holiday),
	}
}

// Fetch returns the holidays of the given window, consulting the per-window
// cache first. It never fails: any request or parse error is logged and an
// empty set returned.
func (l *Lookup) Fetch(ctx context.Context, w court.Window) []Holiday {
	key := fmt.Sprintf("%d-%d", w.Year, w.Month)

	l.mu.Lock()
	if cached, ok := l.cache[key]; ok {
		l.mu.Unlock()
		return cached
	}
	l.mu.Unlock()

	holidays, err := l.request(ctx, w)
	if err != nil {
		l.log.WithFields(logrus.Fields{
			"year":  w.Year,
			"month": w.Month,
		}).WithError(err).Warn("holiday lookup failed, treating window as holiday-free")
		return nil
	}

	l.mu.Lock()
	if len(l.cache) > maxCachedWindows {
		l.cache = make(map[string][]Holiday)
	}
	l.cache[key] = holidays
	l.mu.Unlock()

	return holidays
}

// Holidays returns the window's holiday day numbers as a set, satisfying
// court.HolidaySource.
func (l *Lookup) Holidays(ctx context.Context, w court.Window) map[int]bool {
	days := make(map[int]bool)
	for _, h := range l.Fetch(ctx, w) {
		if h.Month == w.Month {
			days[h.Day] = true
		}
	}
	return days
}

func (l *Lookup) request(ctx context.Context, w court.Window) ([]Holiday, error) {
	u, err := url.Parse(l.baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing base URL: %w", err)
	}
	u.Path, err = url.JoinPath(u.Path, "getRestDeInfo")
	if err != nil {
		return nil, fmt.Errorf("building path: %w", err)
	}

	q := u.Query()
	q.Set("solYear", strconv.Itoa(w.Year))
	q.Set("solMonth", fmt.Sprintf("%02d", w.Month))
	q.Set("_type", "json")
	q.Set("ServiceKey", l.serviceKey)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching holidays: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var envelope restDeInfoResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("parsing response: %w", err)
	}

	items := envelope.Response.Body.Items.Item
	holidays := make([]Holiday, 0, len(items))
	for _, item := range items {
		month, day, err := splitLocdate(item.Locdate)
		if err != nil {
			return nil, err
		}
		holidays = append(holidays, Holiday{Month: month, Day: day})
	}
	return holidays, nil
}

// splitLocdate extracts month and day from a compact YYYYMMDD date integer.
func splitLocdate(locdate int) (month, day int, err error) {
	s := strconv.Itoa(locdate)
	if len(s) != 8 {
		return 0, 0, fmt.Errorf("malformed locdate: %d", locdate)
	}
	month, err = strconv.Atoi(s[4:6])
	if err != nil {
		return 0, 0, fmt.Errorf("malformed locdate: %d", locdate)
	}
	day, err = strconv.Atoi(s[6:8])
	if err != nil {
		return 0, 0, fmt.Errorf("malformed locdate: %d", locdate)
	}
	return month, day, nil
}
