package services

import (
	"strings"
	"unicode/utf8"

	"github.com/Dheolarh/SkoolMeBackend/internal/types"
)

// ExtractionScore rates extracted text on a 0-100 scale: 100 points per 1000
// characters of trimmed content, capped at 100. Blank text scores 0.
func ExtractionScore(content string) float64 {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return 0
	}
	score := float64(utf8.RuneCountInString(trimmed)) / 1000 * 100
	if score > 100 {
		return 100
	}
	return score
}

// ScoreStatus buckets a score into the three quality bands.
func ScoreStatus(score float64) types.ScoreStatus {
	switch {
	case score >= 80:
		return types.ScoreStatusGreen
	case score >= 30:
		return types.ScoreStatusYellow
	default:
		return types.ScoreStatusRed
	}
}
