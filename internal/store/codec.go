package store

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/verte-zerg/idiomquiz/internal/model"
)

// Sheet columns.
const (
	ColName         = "Name"
	ColPassword     = "Password"
	ColXP           = "XP"
	ColHP           = "HP"
	ColLastHPTime   = "Last_HP_Time"
	ColBadges       = "Badges"
	ColWrongList    = "Wrong_List"
	ColSubjectStats = "Subject_Stats"
	ColHistory      = "History"

	// Flat per-user columns written by older sheets; read only.
	ColLegacyLevel  = "Level"
	ColLegacyStreak = "Streak"
)

// LegacyTopic receives flat Level/Streak columns when Subject_Stats is absent.
const LegacyTopic = "general"

// EncodeProfile flattens a profile into sheet cells.
func EncodeProfile(p model.Profile) Record {
	mistakes := p.Mistakes
	if mistakes == nil {
		mistakes = []model.Mistake{}
	}
	wrong, _ := json.Marshal(mistakes)

	topics := make(map[string]model.TopicProgress, len(p.Topics))
	for name, tp := range p.Topics {
		if tp != nil {
			topics[name] = *tp
		}
	}
	stats, _ := json.Marshal(topics)

	return Record{
		ColName:         p.Name,
		ColPassword:     p.Credential,
		ColXP:           strconv.Itoa(p.XP),
		ColHP:           strconv.Itoa(p.Stamina),
		ColLastHPTime:   strconv.FormatInt(p.StaminaAnchor.Unix(), 10),
		ColBadges:       strings.Join(sanitizeBadges(p.Badges), ","),
		ColWrongList:    string(wrong),
		ColSubjectStats: string(stats),
		ColHistory:      encodeHistory(p.History),
	}
}

// DecodeProfile rebuilds a profile from sheet cells. Missing or malformed
// cells fall back to defaults; only a missing name rejects the record.
func DecodeProfile(rec Record, now time.Time, maxStamina int) (model.Profile, bool) {
	name := strings.TrimSpace(rec[ColName])
	if name == "" {
		return model.Profile{}, false
	}
	p := model.Profile{
		Name:          name,
		Credential:    rec[ColPassword],
		XP:            nonNegative(parseInt(rec[ColXP])),
		Stamina:       clampInt(parseInt(rec[ColHP]), 0, maxStamina),
		StaminaAnchor: parseEpoch(rec[ColLastHPTime], now),
		Badges:        parseBadges(rec[ColBadges]),
		Mistakes:      parseMistakes(rec[ColWrongList]),
		Topics:        parseTopics(rec[ColSubjectStats]),
		History:       parseHistory(rec[ColHistory]),
	}
	if _, ok := rec[ColSubjectStats]; !ok {
		if level := parseInt(rec[ColLegacyLevel]); level > 0 {
			p.Topics[LegacyTopic] = &model.TopicProgress{
				Tier:   level,
				Streak: nonNegative(parseInt(rec[ColLegacyStreak])),
			}
		}
	}
	return p, true
}

func parseInt(s string) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	// Spreadsheets often hand back "12.0".
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return int(f)
	}
	return 0
}

func parseEpoch(s string, now time.Time) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return now
	}
	if v, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Unix(v, 0)
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return time.Unix(int64(f), 0)
	}
	return now
}

func parseBadges(s string) []string {
	var out []string
	seen := map[string]struct{}{}
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if _, dup := seen[part]; dup {
			continue
		}
		seen[part] = struct{}{}
		out = append(out, part)
	}
	return out
}

func sanitizeBadges(badges []string) []string {
	out := make([]string, 0, len(badges))
	for _, b := range badges {
		b = strings.TrimSpace(strings.ReplaceAll(b, ",", " "))
		if b != "" {
			out = append(out, b)
		}
	}
	return out
}

func parseMistakes(s string) []model.Mistake {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	var raw []model.Mistake
	if err := json.Unmarshal([]byte(s), &raw); err != nil {
		return nil
	}
	var out []model.Mistake
	index := map[string]int{}
	for _, m := range raw {
		if m.Phrase == "" {
			continue
		}
		if m.Count < 1 {
			m.Count = 1
		}
		if i, ok := index[m.Phrase]; ok {
			out[i].Count += m.Count
			out[i].WrongAnswer = m.WrongAnswer
			continue
		}
		index[m.Phrase] = len(out)
		out = append(out, m)
	}
	return out
}

func parseTopics(s string) map[string]*model.TopicProgress {
	topics := map[string]*model.TopicProgress{}
	if strings.TrimSpace(s) == "" {
		return topics
	}
	var raw map[string]model.TopicProgress
	if err := json.Unmarshal([]byte(s), &raw); err != nil {
		return topics
	}
	for name, tp := range raw {
		if name == "" {
			continue
		}
		if tp.Tier < 1 {
			tp.Tier = 1
		}
		tp.CorrectInTier = nonNegative(tp.CorrectInTier)
		tp.Streak = nonNegative(tp.Streak)
		tp.BestStreak = nonNegative(tp.BestStreak)
		if tp.BestStreak < tp.Streak {
			tp.BestStreak = tp.Streak
		}
		tp.Answered = nonNegative(tp.Answered)
		tp.Correct = clampInt(tp.Correct, 0, tp.Answered)
		topics[name] = &tp
	}
	return topics
}

// encodeHistory writes one '1' or '0' per answer, oldest first.
func encodeHistory(history []bool) string {
	var b strings.Builder
	b.Grow(len(history))
	for _, ok := range history {
		if ok {
			b.WriteByte('1')
		} else {
			b.WriteByte('0')
		}
	}
	return b.String()
}

// parseHistory ignores anything but '0' and '1' and keeps the newest
// model.MaxHistory answers.
func parseHistory(s string) []bool {
	var out []bool
	for _, r := range s {
		switch r {
		case '1':
			out = append(out, true)
		case '0':
			out = append(out, false)
		}
	}
	if over := len(out) - model.MaxHistory; over > 0 {
		out = out[over:]
	}
	return out
}

func nonNegative(v int) int {
	if v < 0 {
		return 0
	}
	return v
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
