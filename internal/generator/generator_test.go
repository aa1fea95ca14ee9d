package generator

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/idiomquiz/internal/model"
)

func samplePool() []model.Entry {
	return []model.Entry{
		{Phrase: "畫蛇添足", Definition: "多此一舉", Example: "這樣做是畫蛇添足。", Topic: "animals"},
		{Phrase: "守株待兔", Definition: "死守經驗", Topic: "animals"},
		{Phrase: "一石二鳥", Definition: "一舉兩得", Topic: "numbers"},
		{Phrase: "三心二意", Definition: "意志不堅定", Example: "做事不能三心二意。", Topic: "numbers"},
		{Phrase: "刻舟求劍", Definition: "拘泥不知變通", Topic: "general"},
		{Phrase: "杞人憂天", Definition: "不必要的憂慮", Topic: "emotion"},
	}
}

func TestKindForTier(t *testing.T) {
	cases := map[int]model.QuestionKind{
		0: model.KindDefinition,
		1: model.KindDefinition,
		2: model.KindSentenceBlank,
		3: model.KindCharacterBlank,
		4: model.KindFreeRecall,
		9: model.KindFreeRecall,
	}
	for tier, want := range cases {
		assert.Equal(t, want, KindForTier(tier), "tier %d", tier)
	}
}

func TestGenerateEmptyPool(t *testing.T) {
	q, err := NewWithSeed(1).Generate(nil, "animals", 1)
	assert.Nil(t, q)
	assert.True(t, errors.Is(err, ErrEmptyPool))
}

func TestGenerateDefinitionChoices(t *testing.T) {
	g := NewWithSeed(7)
	pool := samplePool()
	for i := 0; i < 50; i++ {
		q, err := g.Generate(pool, "animals", 1)
		require.NoError(t, err)
		assert.Equal(t, model.KindDefinition, q.Kind)
		assert.Equal(t, "animals", q.Entry.Topic)
		assert.Equal(t, q.Entry.Definition, q.Prompt)
		require.Len(t, q.Choices, 4)

		seen := map[string]int{}
		for _, c := range q.Choices {
			seen[c]++
		}
		assert.Len(t, seen, 4, "choices must be distinct: %v", q.Choices)
		assert.Equal(t, 1, seen[q.Answer], "answer must appear exactly once")
	}
}

func TestGenerateUnknownTopicFallsBack(t *testing.T) {
	q, err := NewWithSeed(3).Generate(samplePool(), "no-such-topic", 4)
	require.NoError(t, err)
	assert.Equal(t, model.KindFreeRecall, q.Kind)
	assert.Empty(t, q.Choices)
	assert.Equal(t, q.Entry.Phrase, q.Answer)
	assert.Equal(t, q.Entry.Definition, q.Prompt)
}

func TestGenerateSentenceBlank(t *testing.T) {
	g := NewWithSeed(11)
	for i := 0; i < 30; i++ {
		// general has no examples, so draws fall back to the whole pool.
		q, err := g.Generate(samplePool(), "general", 2)
		require.NoError(t, err)
		assert.Equal(t, model.KindSentenceBlank, q.Kind)
		assert.NotEmpty(t, q.Entry.Example)
		assert.Contains(t, q.Prompt, blank)
		assert.NotContains(t, q.Prompt, q.Entry.Phrase)
		assert.Contains(t, q.Choices, q.Answer)
	}
}

func TestGenerateSentenceBlankWithoutExamplesDegrades(t *testing.T) {
	pool := samplePool()
	for i := range pool {
		pool[i].Example = ""
	}
	q, err := NewWithSeed(5).Generate(pool, "animals", 2)
	require.NoError(t, err)
	assert.Equal(t, model.KindDefinition, q.Kind)
}

func TestGenerateCharacterBlank(t *testing.T) {
	g := NewWithSeed(13)
	for i := 0; i < 50; i++ {
		q, err := g.Generate(samplePool(), "numbers", 3)
		require.NoError(t, err)
		assert.Equal(t, model.KindCharacterBlank, q.Kind)
		runes := []rune(q.Entry.Phrase)
		masked := []rune(strings.SplitN(q.Prompt, "\n", 2)[0])
		require.Len(t, masked, len(runes))

		idx := -1
		for j := range runes {
			if masked[j] != runes[j] {
				idx = j
			}
		}
		require.GreaterOrEqual(t, idx, 0)
		assert.Less(t, idx, 4)
		assert.Equal(t, maskRune, masked[idx])
		assert.Equal(t, string(runes[idx]), q.Answer)
	}
}

func TestGenerateCharacterBlankShortPhrasesTerminates(t *testing.T) {
	pool := []model.Entry{
		{Phrase: "莫須有", Definition: "憑空捏造"},
		{Phrase: "破天荒", Definition: "第一次出現"},
		{Phrase: "門外漢", Definition: "外行人"},
	}
	q, err := NewWithSeed(17).Generate(pool, "", 3)
	require.NoError(t, err)
	assert.Equal(t, model.KindFreeRecall, q.Kind)
}

func TestGenerateCharacterBlankUsesOtherTopicWhenStarved(t *testing.T) {
	pool := []model.Entry{
		{Phrase: "莫須有", Definition: "憑空捏造", Topic: "short"},
		{Phrase: "畫蛇添足", Definition: "多此一舉", Topic: "animals"},
	}
	q, err := NewWithSeed(19).Generate(pool, "short", 3)
	require.NoError(t, err)
	assert.Equal(t, model.KindCharacterBlank, q.Kind)
	assert.Equal(t, "畫蛇添足", q.Entry.Phrase)
}

func TestGenerateSmallPoolDegradesToRecall(t *testing.T) {
	pool := samplePool()[:3]
	q, err := NewWithSeed(23).Generate(pool, "", 1)
	require.NoError(t, err)
	assert.Equal(t, model.KindFreeRecall, q.Kind)
}

func TestGenerateDistractorsIgnoreDuplicatePhrases(t *testing.T) {
	pool := []model.Entry{
		{Phrase: "a", Definition: "1"},
		{Phrase: "b", Definition: "2"},
		{Phrase: "b", Definition: "2"},
		{Phrase: "c", Definition: "3"},
	}
	q, err := NewWithSeed(29).Generate(pool, "", 1)
	require.NoError(t, err)
	assert.Equal(t, model.KindFreeRecall, q.Kind, "only 3 distinct phrases exist")
}
