package holiday

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/jhyun-dev/court-watcher/internal/court"
)

func testLogger() logrus.FieldLogger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

const envelopeList = `{"response":{"header":{"resultCode":"00"},"body":{"items":{"item":[
{"dateKind":"01","dateName":"현충일","locdate":20250606},
{"dateKind":"01","dateName":"임시공휴일","locdate":20250603}
]},"numOfRows":10,"pageNo":1,"totalCount":2}}}`

const envelopeSingle = `{"response":{"header":{"resultCode":"00"},"body":{"items":{"item":
{"dateKind":"01","dateName":"현충일","locdate":20250606}
},"numOfRows":10,"pageNo":1,"totalCount":1}}}`

const envelopeEmpty = `{"response":{"header":{"resultCode":"00"},"body":{"items":{},"numOfRows":10,"pageNo":1,"totalCount":0}}}`

func TestFetchNormalizesItemShapes(t *testing.T) {
	tests := []struct {
		name string
		body string
		want int
	}{
		{"list of items", envelopeList, 2},
		{"single item", envelopeSingle, 1},
		{"absent items", envelopeEmpty, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/getRestDeInfo" {
					t.Errorf("unexpected path %q", r.URL.Path)
				}
				q := r.URL.Query()
				if q.Get("solYear") != "2025" || q.Get("solMonth") != "06" {
					t.Errorf("unexpected query %q", r.URL.RawQuery)
				}
				if q.Get("ServiceKey") != "test-key" || q.Get("_type") != "json" {
					t.Errorf("missing service parameters in %q", r.URL.RawQuery)
				}
				fmt.Fprint(w, tt.body)
			}))
			defer server.Close()

			l := NewLookup(server.URL, "test-key", testLogger())
			holidays := l.Fetch(context.Background(), court.Window{Month: 6, Year: 2025})

			if len(holidays) != tt.want {
				t.Fatalf("expected %d holidays, got %d", tt.want, len(holidays))
			}
			if tt.want > 0 && (holidays[0].Month != 6 || holidays[0].Day != 6) {
				t.Errorf("expected first holiday 6/6, got %d/%d", holidays[0].Month, holidays[0].Day)
			}
		})
	}
}

func TestFetchFailsOpen(t *testing.T) {
	t.Run("upstream error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "unavailable", http.StatusServiceUnavailable)
		}))
		defer server.Close()

		l := NewLookup(server.URL, "test-key", testLogger())
		if got := l.Fetch(context.Background(), court.Window{Month: 6, Year: 2025}); len(got) != 0 {
			t.Errorf("expected empty set on upstream error, got %v", got)
		}
	})

	t.Run("malformed response", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, "<html>not json</html>")
		}))
		defer server.Close()

		l := NewLookup(server.URL, "test-key", testLogger())
		if got := l.Fetch(context.Background(), court.Window{Month: 6, Year: 2025}); len(got) != 0 {
			t.Errorf("expected empty set on malformed response, got %v", got)
		}
	})

	t.Run("unreachable upstream", func(t *testing.T) {
		l := NewLookup("http://127.0.0.1:1", "test-key", testLogger())
		if got := l.Fetch(context.Background(), court.Window{Month: 6, Year: 2025}); len(got) != 0 {
			t.Errorf("expected empty set for unreachable upstream, got %v", got)
		}
	})
}

func TestFetchCachesPerWindow(t *testing.T) {
	var requests atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		fmt.Fprint(w, envelopeSingle)
	}))
	defer server.Close()

	l := NewLookup(server.URL, "test-key", testLogger())
	w := court.Window{Month: 6, Year: 2025}

	l.Fetch(context.Background(), w)
	l.Fetch(context.Background(), w)
	l.Fetch(context.Background(), w)

	if got := requests.Load(); got != 1 {
		t.Errorf("expected 1 upstream request, got %d", got)
	}
}

func TestFetchFailureIsNotCached(t *testing.T) {
	var requests atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if requests.Add(1) == 1 {
			http.Error(w, "unavailable", http.StatusServiceUnavailable)
			return
		}
		fmt.Fprint(w, envelopeSingle)
	}))
	defer server.Close()

	l := NewLookup(server.URL, "test-key", testLogger())
	w := court.Window{Month: 6, Year: 2025}

	if got := l.Fetch(context.Background(), w); len(got) != 0 {
		t.Fatalf("expected empty set on first failing call, got %v", got)
	}
	if got := l.Fetch(context.Background(), w); len(got) != 1 {
		t.Errorf("expected retry to succeed, got %v", got)
	}
}

func TestCacheEviction(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, envelopeEmpty)
	}))
	defer server.Close()

	l := NewLookup(server.URL, "test-key", testLogger())

	// The cache is cleared wholesale once it holds more than 12 windows.
	for month := 1; month <= 12; month++ {
		l.Fetch(context.Background(), court.Window{Month: month, Year: 2025})
	}
	l.Fetch(context.Background(), court.Window{Month: 1, Year: 2026})
	if len(l.cache) != 13 {
		t.Fatalf("expected 13 cached windows before eviction, got %d", len(l.cache))
	}

	l.Fetch(context.Background(), court.Window{Month: 2, Year: 2026})
	if len(l.cache) != 1 {
		t.Errorf("expected cache cleared down to 1 entry, got %d", len(l.cache))
	}
}

func TestHolidaysFiltersWindowMonth(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, envelopeList)
	}))
	defer server.Close()

	l := NewLookup(server.URL, "test-key", testLogger())
	days := l.Holidays(context.Background(), court.Window{Month: 6, Year: 2025})

	if !days[6] || !days[3] {
		t.Errorf("expected days 3 and 6 present, got %v", days)
	}
	if len(days) != 2 {
		t.Errorf("expected 2 holiday days, got %d", len(days))
	}
}

func TestSplitLocdate(t *testing.T) {
	month, day, err := splitLocdate(20250606)
	if err != nil {
		t.Fatalf("splitLocdate failed: %v", err)
	}
	if month != 6 || day != 6 {
		t.Errorf("expected 6/6, got %d/%d", month, day)
	}

	if _, _, err := splitLocdate(123); err == nil {
		t.Error("expected error for short locdate")
	}
}
