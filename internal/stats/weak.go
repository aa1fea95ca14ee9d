package stats

import (
	"sort"

	"github.com/samber/lo"

	"github.com/verte-zerg/idiomquiz/internal/model"
)

// WeakTopics returns up to top answered topics with the lowest accuracy.
func WeakTopics(topics map[string]*model.TopicProgress, top int) []string {
	candidates := lo.Filter(lo.Keys(topics), func(name string, _ int) bool {
		tp := topics[name]
		return tp != nil && tp.Answered > 0 && tp.Correct < tp.Answered
	})
	sort.Slice(candidates, func(i, j int) bool {
		ai := topics[candidates[i]].Accuracy()
		aj := topics[candidates[j]].Accuracy()
		if ai == aj {
			return candidates[i] < candidates[j]
		}
		return ai < aj
	})
	if top > 0 && top < len(candidates) {
		candidates = candidates[:top]
	}
	return candidates
}
