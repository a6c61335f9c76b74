package scraper

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSplitFragments(t *testing.T) {
	markers := []string{"Booking Open", "Sold Out", "Coming Soon"}

	tests := []struct {
		name       string
		text       string
		delimiters []string
		want       []string
	}{
		{
			name:       "single listing",
			text:       "Sunday 14 April Mumbai Indians vs Chennai Super Kings 7:30 PM onwards Booking Open",
			delimiters: markers,
			want:       []string{"Sunday 14 April Mumbai Indians vs Chennai Super Kings 7:30 PM onwards Booking Open"},
		},
		{
			name:       "two listings same vocabulary",
			text:       "Sunday 14 April A vs B 7:30 PM onwards Booking Open Saturday 20 April C vs D 3:30 PM onwards Booking Open",
			delimiters: markers,
			want: []string{
				"Sunday 14 April A vs B 7:30 PM onwards Booking Open",
				" Saturday 20 April C vs D 3:30 PM onwards Booking Open",
			},
		},
		{
			name:       "no delimiter returns text unchanged",
			text:       "Nothing listed yet",
			delimiters: markers,
			want:       []string{"Nothing listed yet"},
		},
		{
			name:       "empty text",
			text:       "",
			delimiters: markers,
			want:       nil,
		},
		{
			name:       "no delimiters configured",
			text:       "A vs B Booking Open",
			delimiters: nil,
			want:       []string{"A vs B Booking Open"},
		},
		{
			name:       "case-insensitive and re-terminated as configured",
			text:       "A vs B 7:30 PM onwards BOOKING OPEN C vs D 3:30 PM onwards booking open",
			delimiters: markers,
			want: []string{
				"A vs B 7:30 PM onwards Booking Open",
				" C vs D 3:30 PM onwards Booking Open",
			},
		},
		{
			name:       "delimiter order beats position in text",
			text:       "A vs B Sold Out C vs D Booking Open",
			delimiters: markers,
			want:       []string{"A vs B Sold Out C vs D Booking Open"},
		},
		{
			name:       "leading delimiter leaves no empty fragment",
			text:       "Sold Out A vs B Sold Out",
			delimiters: markers,
			want:       []string{" A vs B Sold Out"},
		},
		{
			name:       "blank delimiters are ignored",
			text:       "A vs B Sold Out",
			delimiters: []string{"", "  ", "Sold Out"},
			want:       []string{"A vs B Sold Out"},
		},
		{
			name:       "regex metacharacters are literal",
			text:       "A vs B (Sold Out) C vs D (Sold Out)",
			delimiters: []string{"(Sold Out)"},
			want:       []string{"A vs B (Sold Out)", " C vs D (Sold Out)"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitFragments(tt.text, tt.delimiters)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("SplitFragments() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
