package court

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	userAgent    = "court-watcher/1.0 (github.com/jhyun-dev/court-watcher)"
	fetchTimeout = 15 * time.Second
)

// Fetcher runs the availability scan across targets, courts and calendar
// windows and keeps the snapshot store current.
type Fetcher struct {
	client      *http.Client
	viewBaseURL string
	parser      *Parser
	snapshot    *SnapshotStore
	log         logrus.FieldLogger
}

// NewFetcher creates a Fetcher that requests calendar pages from viewBaseURL.
func NewFetcher(viewBaseURL string, parser *Parser, snapshot *SnapshotStore, log logrus.FieldLogger) *Fetcher {
	return &Fetcher{
		client:      &http.Client{Timeout: fetchTimeout},
		viewBaseURL: viewBaseURL,
		parser:      parser,
		snapshot:    snapshot,
		log:         log,
	}
}

// pair is one (target, window, court) fetch unit.
type pair struct {
	target Target
	window Window
	court  string
}

// FetchAll fetches every (court, window) page of every target concurrently,
// parses each response, and flattens the results in declaration order:
// targets outer, windows next, court numbers inner. The un-deduplicated
// sequence is stored as the latest snapshot before being returned.
//
// A failed fetch or parse for one pair is logged and dropped; the remaining
// pairs still contribute their slots.
func (f *Fetcher) FetchAll(ctx context.Context, targets []Target, windows []Window) []Slot {
	pairs := make([]pair, 0, len(targets)*len(windows))
	for _, t := range targets {
		for _, w := range windows {
			for _, c := range t.CourtNumbers {
				pairs = append(pairs, pair{target: t, window: w, court: c})
			}
		}
	}

	// Completion order must not leak into the output: results are collected
	// into the slot reserved for each pair's declaration index.
	results := make([][]Slot, len(pairs))

	var wg sync.WaitGroup
	for i, p := range pairs {
		wg.Add(1)
		go func(i int, p pair) {
			defer wg.Done()
			slots, err := f.fetchPair(ctx, p)
			if err != nil {
				f.log.WithFields(logrus.Fields{
					"court": p.court,
					"year":  p.window.Year,
					"month": p.window.Month,
					"types": p.target.CourtType,
				}).WithError(err).Warn("court page fetch failed")
				return
			}
			results[i] = slots
		}(i, p)
	}
	wg.Wait()

	flat := make([]Slot, 0)
	for _, slots := range results {
		flat = append(flat, slots...)
	}

	f.snapshot.Update(flat, time.Now())
	return flat
}

// FetchAvailable scans one court category across the given court numbers and
// windows.
func (f *Fetcher) FetchAvailable(ctx context.Context, name, courtType string, courtNumbers []string, windows []Window) []Slot {
	target := Target{Name: name, CourtType: courtType, CourtNumbers: courtNumbers}
	return f.FetchAll(ctx, []Target{target}, windows)
}

func (f *Fetcher) fetchPair(ctx context.Context, p pair) ([]Slot, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.pageURL(p), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	return f.parser.Parse(ctx, resp.Body, p.window, p.target.CourtType, p.court)
}

func (f *Fetcher) pageURL(p pair) string {
	u, err := url.Parse(f.viewBaseURL)
	if err != nil {
		return f.viewBaseURL
	}
	q := u.Query()
	q.Set("types", p.target.CourtType)
	q.Set("flag", p.court)
	q.Set("menuLevel", menuLevel)
	q.Set("menuNo", menuNo)
	q.Set("year", strconv.Itoa(p.window.Year))
	q.Set("month", strconv.Itoa(p.window.Month))
	u.RawQuery = q.Encode()
	return u.String()
}
