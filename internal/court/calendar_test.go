package court

import (
	"testing"
	"time"
)

func TestPlan(t *testing.T) {
	tests := []struct {
		name string
		now  time.Time
		want []Window
	}{
		{
			name: "mid-year",
			now:  time.Date(2025, time.June, 15, 10, 0, 0, 0, time.Local),
			want: []Window{{Month: 6, Year: 2025}, {Month: 7, Year: 2025}},
		},
		{
			name: "november",
			now:  time.Date(2025, time.November, 1, 0, 0, 0, 0, time.Local),
			want: []Window{{Month: 11, Year: 2025}, {Month: 12, Year: 2025}},
		},
		{
			name: "december rolls the year over",
			now:  time.Date(2025, time.December, 31, 23, 59, 0, 0, time.Local),
			want: []Window{{Month: 12, Year: 2025}, {Month: 1, Year: 2026}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Plan(tt.now)
			if len(got) != 2 {
				t.Fatalf("expected 2 windows, got %d", len(got))
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("window %d: expected %+v, got %+v", i, tt.want[i], got[i])
				}
			}
		})
	}
}
