// Package progress applies scored answers to a user profile: tier advancement,
// streaks, experience, badges, the mistake log and stamina.
package progress

import (
	"fmt"
	"time"

	"github.com/verte-zerg/idiomquiz/internal/model"
)

// TierRule gates advancement out of a tier: both Target correct answers in the
// tier and a current streak of at least Streak are needed at the same time.
type TierRule struct {
	Target int
	Streak int
}

// XPBadge is granted once total experience reaches XP.
type XPBadge struct {
	XP   int
	Name string
}

// Rules holds every tunable of the progression model.
type Rules struct {
	Tiers            []TierRule
	XPPerCorrect     int
	XPTierMultiplier bool
	MaxStamina       int
	RegenInterval    time.Duration
	XPBadges         []XPBadge
}

// DefaultRules returns the stock thresholds.
func DefaultRules() Rules {
	return Rules{
		Tiers: []TierRule{
			{Target: 90, Streak: 20},
			{Target: 70, Streak: 15},
			{Target: 50, Streak: 10},
			{Target: 50, Streak: 0},
		},
		XPPerCorrect:  10,
		MaxStamina:    10,
		RegenInterval: 30 * time.Minute,
		XPBadges:      []XPBadge{{XP: 100, Name: "Apprentice"}},
	}
}

// MaxTier is the terminal tier.
func (r Rules) MaxTier() int {
	return len(r.Tiers)
}

// Rule returns the rule for a tier, clamping out-of-range tiers.
func (r Rules) Rule(tier int) TierRule {
	if tier < 1 {
		tier = 1
	}
	if tier > len(r.Tiers) {
		tier = len(r.Tiers)
	}
	return r.Tiers[tier-1]
}

// Award returns the experience for one correct answer at the given tier.
func (r Rules) Award(tier int) int {
	if r.XPTierMultiplier {
		return r.XPPerCorrect * tier
	}
	return r.XPPerCorrect
}

// Engine mutates profiles according to Rules.
type Engine struct {
	rules Rules
}

// New returns an Engine. Rules without tiers fall back to DefaultRules tiers.
func New(rules Rules) *Engine {
	if len(rules.Tiers) == 0 {
		rules.Tiers = DefaultRules().Tiers
	}
	if rules.MaxStamina <= 0 {
		rules.MaxStamina = DefaultRules().MaxStamina
	}
	if rules.RegenInterval <= 0 {
		rules.RegenInterval = DefaultRules().RegenInterval
	}
	return &Engine{rules: rules}
}

// Rules returns the engine's effective rules.
func (e *Engine) Rules() Rules {
	return e.rules
}

// Record applies one scored answer for phrase in topic and returns the
// unlocks it triggered, tier events first.
func (e *Engine) Record(p *model.Profile, topic, phrase, given string, correct bool) []model.Unlock {
	tp := p.Topic(topic)
	tp.Answered++
	p.RecordHistory(correct)
	if correct {
		tp.Correct++
		tp.CorrectInTier++
		tp.Streak++
		if tp.Streak > tp.BestStreak {
			tp.BestStreak = tp.Streak
		}
		p.XP += e.rules.Award(tp.Tier)
	} else {
		tp.Streak = 0
		recordMistake(p, phrase, given)
	}

	var unlocks []model.Unlock
	if u := e.CheckUnlock(p, topic); u != nil {
		unlocks = append(unlocks, *u)
	}
	return append(unlocks, e.checkXPBadges(p)...)
}

// CheckUnlock advances the topic when both thresholds hold. At the terminal
// tier the counters reset and a repeatable mastery unlock fires instead.
func (e *Engine) CheckUnlock(p *model.Profile, topic string) *model.Unlock {
	tp := p.Topic(topic)
	rule := e.rules.Rule(tp.Tier)
	if tp.CorrectInTier < rule.Target || tp.Streak < rule.Streak {
		return nil
	}
	from := tp.Tier
	tp.CorrectInTier = 0
	tp.Streak = 0
	if tp.Tier >= e.rules.MaxTier() {
		badge := fmt.Sprintf("%s mastery", topic)
		e.GrantBadge(p, badge)
		return &model.Unlock{Kind: model.UnlockMastery, Topic: topic, FromTier: from, ToTier: from, Badge: badge}
	}
	tp.Tier++
	badge := fmt.Sprintf("%s tier %d", topic, tp.Tier)
	e.GrantBadge(p, badge)
	return &model.Unlock{Kind: model.UnlockTierAdvance, Topic: topic, FromTier: from, ToTier: tp.Tier, Badge: badge}
}

// GrantBadge adds a badge once. It reports whether the badge was new.
func (e *Engine) GrantBadge(p *model.Profile, name string) bool {
	if name == "" || p.HasBadge(name) {
		return false
	}
	p.Badges = append(p.Badges, name)
	return true
}

func (e *Engine) checkXPBadges(p *model.Profile) []model.Unlock {
	var out []model.Unlock
	for _, b := range e.rules.XPBadges {
		if p.XP < b.XP {
			continue
		}
		if e.GrantBadge(p, b.Name) {
			out = append(out, model.Unlock{Kind: model.UnlockBadge, Badge: b.Name})
		}
	}
	return out
}

func recordMistake(p *model.Profile, phrase, given string) {
	for i := range p.Mistakes {
		if p.Mistakes[i].Phrase == phrase {
			p.Mistakes[i].Count++
			p.Mistakes[i].WrongAnswer = given
			return
		}
	}
	p.Mistakes = append(p.Mistakes, model.Mistake{Phrase: phrase, WrongAnswer: given, Count: 1})
}
