package client

import (
	"sort"
	"strconv"
	"strings"

	"github.com/ressKim-io/EvoGuard/sentiment-service/internal/domain/entity"
)

// Normalize converts a decoded inference response into labels sorted by
// descending score. A batch-wrapped response ([[...]]) is unwrapped one level.
// Items that are not label objects are skipped; a missing label becomes "" and
// a missing score becomes 0. Equal scores keep their original order.
func Normalize(items []any) entity.SentimentResult {
	if len(items) == 0 {
		return entity.SentimentResult{}
	}

	if nested, ok := items[0].([]any); ok {
		items = nested
	}

	labels := make(entity.SentimentResult, 0, len(items))
	for _, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			continue
		}

		label, ok := parseLabel(obj["label"])
		if !ok {
			continue
		}
		score, ok := parseScore(obj["score"])
		if !ok {
			continue
		}

		labels = append(labels, entity.SentimentLabel{Label: label, Score: score})
	}

	sort.SliceStable(labels, func(i, j int) bool {
		return labels[i].Score > labels[j].Score
	})

	return labels
}

func parseLabel(v any) (string, bool) {
	switch label := v.(type) {
	case nil:
		return "", true
	case string:
		return label, true
	default:
		return "", false
	}
}

func parseScore(v any) (float64, bool) {
	switch score := v.(type) {
	case nil:
		return 0, true
	case float64:
		return score, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(score), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}
