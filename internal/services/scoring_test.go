package services

import (
	"strings"
	"testing"

	"github.com/Dheolarh/SkoolMeBackend/internal/types"
)

func TestExtractionScore_ScalesWithLength(t *testing.T) {
	cases := []struct {
		name    string
		content string
		want    float64
	}{
		{"empty", "", 0},
		{"whitespace only", "   \n\t  ", 0},
		{"half quota", strings.Repeat("a", 500), 50},
		{"exactly quota", strings.Repeat("a", 1000), 100},
		{"over quota caps", strings.Repeat("a", 5000), 100},
		{"trims before counting", "  " + strings.Repeat("a", 100) + "  ", 10},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ExtractionScore(tc.content); got != tc.want {
				t.Fatalf("ExtractionScore(%q-like) = %v, want %v", tc.name, got, tc.want)
			}
		})
	}
}

func TestExtractionScore_CountsRunesNotBytes(t *testing.T) {
	// 500 multibyte runes should score the same as 500 ASCII ones.
	if got := ExtractionScore(strings.Repeat("é", 500)); got != 50 {
		t.Fatalf("expected 50 for 500 runes, got %v", got)
	}
}

func TestScoreStatus_Bands(t *testing.T) {
	cases := []struct {
		score float64
		want  types.ScoreStatus
	}{
		{100, types.ScoreStatusGreen},
		{80, types.ScoreStatusGreen},
		{79.9, types.ScoreStatusYellow},
		{30, types.ScoreStatusYellow},
		{29.9, types.ScoreStatusRed},
		{0, types.ScoreStatusRed},
	}
	for _, tc := range cases {
		if got := ScoreStatus(tc.score); got != tc.want {
			t.Fatalf("ScoreStatus(%v) = %q, want %q", tc.score, got, tc.want)
		}
	}
}
