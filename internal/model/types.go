// Package model defines shared data structures.
package model

import "time"

// Entry is one idiom loaded from the dataset.
type Entry struct {
	Phrase     string
	Definition string
	Example    string
	Synonyms   []string
	Antonyms   []string
	Phonetic   string
	Topic      string
}

// QuestionKind selects how an entry is asked.
type QuestionKind int

// Question kinds, one per tier.
const (
	KindDefinition QuestionKind = iota + 1
	KindSentenceBlank
	KindCharacterBlank
	KindFreeRecall
)

func (k QuestionKind) String() string {
	switch k {
	case KindDefinition:
		return "definition"
	case KindSentenceBlank:
		return "sentence"
	case KindCharacterBlank:
		return "character"
	case KindFreeRecall:
		return "recall"
	default:
		return "unknown"
	}
}

// HasChoices reports whether the kind is multiple choice.
func (k QuestionKind) HasChoices() bool {
	return k == KindDefinition || k == KindSentenceBlank
}

// Question is a single quiz item. Choices is set only for multiple-choice kinds.
type Question struct {
	Entry   Entry
	Kind    QuestionKind
	Prompt  string
	Choices []string
	Answer  string
}

// TopicProgress tracks one user's tier state within a topic.
type TopicProgress struct {
	Tier          int `json:"tier"`
	CorrectInTier int `json:"correct_in_tier"`
	Streak        int `json:"streak"`
	BestStreak    int `json:"best_streak"`
	Answered      int `json:"answered"`
	Correct       int `json:"correct"`
}

// Accuracy returns the lifetime ratio of correct answers in the topic.
func (tp TopicProgress) Accuracy() float64 {
	if tp.Answered == 0 {
		return 0
	}
	return float64(tp.Correct) / float64(tp.Answered)
}

// Mistake records a missed phrase; repeated misses bump Count.
type Mistake struct {
	Phrase      string `json:"phrase"`
	WrongAnswer string `json:"wrong_answer"`
	Count       int    `json:"count"`
}

// Profile is the per-user aggregate persisted as one store record.
type Profile struct {
	Name          string
	Credential    string
	XP            int
	Stamina       int
	StaminaAnchor time.Time
	Badges        []string
	Mistakes      []Mistake
	Topics        map[string]*TopicProgress
	// History holds the most recent answers, oldest first, true when correct.
	History []bool
}

// MaxHistory bounds Profile.History.
const MaxHistory = 200

// NewProfile returns a profile with full stamina anchored at now.
func NewProfile(name, credential string, stamina int, now time.Time) Profile {
	return Profile{
		Name:          name,
		Credential:    credential,
		Stamina:       stamina,
		StaminaAnchor: now,
		Topics:        map[string]*TopicProgress{},
	}
}

// Topic returns the progress for a topic, creating it at tier 1 on first access.
func (p *Profile) Topic(name string) *TopicProgress {
	if p.Topics == nil {
		p.Topics = map[string]*TopicProgress{}
	}
	tp, ok := p.Topics[name]
	if !ok {
		tp = &TopicProgress{Tier: 1}
		p.Topics[name] = tp
	}
	return tp
}

// HasBadge reports whether the badge is already held.
func (p *Profile) HasBadge(name string) bool {
	for _, b := range p.Badges {
		if b == name {
			return true
		}
	}
	return false
}

// RecordHistory appends one answer result, dropping the oldest beyond MaxHistory.
func (p *Profile) RecordHistory(correct bool) {
	p.History = append(p.History, correct)
	if over := len(p.History) - MaxHistory; over > 0 {
		p.History = append([]bool(nil), p.History[over:]...)
	}
}

// Clone returns a deep copy so callers can hand out snapshots safely.
func (p Profile) Clone() Profile {
	out := p
	out.Badges = append([]string(nil), p.Badges...)
	out.Mistakes = append([]Mistake(nil), p.Mistakes...)
	out.History = append([]bool(nil), p.History...)
	out.Topics = make(map[string]*TopicProgress, len(p.Topics))
	for k, v := range p.Topics {
		tp := *v
		out.Topics[k] = &tp
	}
	return out
}

// UnlockKind classifies reward events.
type UnlockKind int

// Unlock kinds.
const (
	UnlockTierAdvance UnlockKind = iota + 1
	UnlockMastery
	UnlockBadge
)

// Unlock is emitted when a tier advances, a terminal tier is re-mastered or a badge is earned.
type Unlock struct {
	Kind     UnlockKind
	Topic    string
	FromTier int
	ToTier   int
	Badge    string
}

// Standing is one leaderboard row.
type Standing struct {
	Name    string
	XP      int
	Badges  int
	TopTier int
}
