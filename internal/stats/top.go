package stats

import (
	"sort"

	"github.com/verte-zerg/idiomquiz/internal/model"
)

// TopMistakes returns up to n mistakes ordered by miss count. n <= 0 returns all.
func TopMistakes(mistakes []model.Mistake, n int) []model.Mistake {
	if len(mistakes) == 0 {
		return nil
	}
	out := append([]model.Mistake(nil), mistakes...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Count == out[j].Count {
			return out[i].Phrase < out[j].Phrase
		}
		return out[i].Count > out[j].Count
	})
	if n > 0 && n < len(out) {
		out = out[:n]
	}
	return out
}
