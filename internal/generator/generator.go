// Package generator builds quiz questions from the idiom pool.
package generator

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/verte-zerg/idiomquiz/internal/model"
)

// ErrEmptyPool is returned when there is nothing to ask.
var ErrEmptyPool = errors.New("question pool is empty")

const (
	maxAttempts   = 32
	choiceCount   = 4
	maskableRunes = 4
	blank         = "______"
	maskRune      = '？'
)

// Generator produces randomized questions.
type Generator struct {
	rnd *rand.Rand
}

// New returns a Generator seeded with the current time.
func New() *Generator {
	return NewWithSeed(time.Now().UnixNano())
}

// NewWithSeed returns a deterministic Generator.
func NewWithSeed(seed int64) *Generator {
	return &Generator{rnd: rand.New(rand.NewSource(seed))}
}

// KindForTier maps a tier to its question kind. Out-of-range tiers clamp.
func KindForTier(tier int) model.QuestionKind {
	switch {
	case tier <= 1:
		return model.KindDefinition
	case tier == 2:
		return model.KindSentenceBlank
	case tier == 3:
		return model.KindCharacterBlank
	default:
		return model.KindFreeRecall
	}
}

// Generate draws one question for the topic at the given tier. An unknown or
// empty topic falls back to the whole pool. Draws that cannot satisfy the
// tier's structural needs degrade to an easier-to-build kind instead of failing.
func (g *Generator) Generate(entries []model.Entry, topic string, tier int) (*model.Question, error) {
	if len(entries) == 0 {
		return nil, ErrEmptyPool
	}
	filtered := lo.Filter(entries, func(e model.Entry, _ int) bool { return e.Topic == topic })
	if len(filtered) == 0 {
		filtered = entries
	}

	switch kind := KindForTier(tier); kind {
	case model.KindDefinition:
		return g.multipleChoice(entries, g.pick(filtered), kind), nil
	case model.KindSentenceBlank:
		withExample := lo.Filter(filtered, hasExample)
		if len(withExample) == 0 {
			withExample = lo.Filter(entries, hasExample)
		}
		if len(withExample) == 0 {
			return g.multipleChoice(entries, g.pick(filtered), model.KindDefinition), nil
		}
		return g.multipleChoice(entries, g.pick(withExample), kind), nil
	case model.KindCharacterBlank:
		return g.characterBlank(entries, filtered), nil
	default:
		return freeRecall(g.pick(filtered)), nil
	}
}

func (g *Generator) pick(entries []model.Entry) model.Entry {
	return entries[g.rnd.Intn(len(entries))]
}

func (g *Generator) multipleChoice(all []model.Entry, target model.Entry, kind model.QuestionKind) *model.Question {
	others := lo.Without(lo.Uniq(lo.Map(all, func(e model.Entry, _ int) string { return e.Phrase })), target.Phrase)
	if len(others) < choiceCount-1 {
		return freeRecall(target)
	}
	choices := append(g.sample(others, choiceCount-1), target.Phrase)
	g.rnd.Shuffle(len(choices), func(i, j int) { choices[i], choices[j] = choices[j], choices[i] })

	q := &model.Question{Entry: target, Kind: kind, Choices: choices, Answer: target.Phrase}
	if kind == model.KindSentenceBlank {
		q.Prompt = strings.ReplaceAll(target.Example, target.Phrase, blank)
	} else {
		q.Prompt = target.Definition
	}
	return q
}

// sample draws n distinct items with a partial Fisher-Yates over a copy.
func (g *Generator) sample(items []string, n int) []string {
	pool := append([]string(nil), items...)
	for i := 0; i < n; i++ {
		j := i + g.rnd.Intn(len(pool)-i)
		pool[i], pool[j] = pool[j], pool[i]
	}
	return pool[:n]
}

func (g *Generator) characterBlank(all, filtered []model.Entry) *model.Question {
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if entry := g.pick(filtered); maskable(entry) {
			return g.mask(entry)
		}
	}
	if eligible := lo.Filter(filtered, func(e model.Entry, _ int) bool { return maskable(e) }); len(eligible) > 0 {
		return g.mask(g.pick(eligible))
	}
	if eligible := lo.Filter(all, func(e model.Entry, _ int) bool { return maskable(e) }); len(eligible) > 0 {
		return g.mask(g.pick(eligible))
	}
	return freeRecall(g.pick(filtered))
}

func (g *Generator) mask(entry model.Entry) *model.Question {
	runes := []rune(entry.Phrase)
	idx := g.rnd.Intn(maskableRunes)
	answer := string(runes[idx])
	runes[idx] = maskRune
	return &model.Question{
		Entry:  entry,
		Kind:   model.KindCharacterBlank,
		Prompt: fmt.Sprintf("%s\n(%s)", string(runes), entry.Definition),
		Answer: answer,
	}
}

func freeRecall(entry model.Entry) *model.Question {
	return &model.Question{
		Entry:  entry,
		Kind:   model.KindFreeRecall,
		Prompt: entry.Definition,
		Answer: entry.Phrase,
	}
}

func hasExample(e model.Entry, _ int) bool {
	return e.Example != ""
}

func maskable(e model.Entry) bool {
	return len([]rune(e.Phrase)) >= maskableRunes
}
