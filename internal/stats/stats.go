package stats

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/samber/lo"

	"github.com/verte-zerg/idiomquiz/internal/model"
	"github.com/verte-zerg/idiomquiz/internal/progress"
)

const (
	barFilled = '#'
	barEmpty  = '.'
	barWidth  = 20
)

// ProgressBar renders value out of target as a fixed-width ASCII bar.
func ProgressBar(value, target, width int) string {
	if width <= 0 {
		return ""
	}
	if target <= 0 {
		return strings.Repeat(string(barFilled), width)
	}
	filled := value * width / target
	if filled < 0 {
		filled = 0
	}
	if filled > width {
		filled = width
	}
	return strings.Repeat(string(barFilled), filled) + strings.Repeat(string(barEmpty), width-filled)
}

// RenderSummary prints the headline numbers for a profile.
func RenderSummary(w io.Writer, p model.Profile, rules progress.Rules) error {
	answered := lo.SumBy(lo.Values(p.Topics), func(tp *model.TopicProgress) int { return tp.Answered })
	correct := lo.SumBy(lo.Values(p.Topics), func(tp *model.TopicProgress) int { return tp.Correct })
	acc := 0.0
	if answered > 0 {
		acc = float64(correct) / float64(answered)
	}
	lines := []string{
		heading(w, p.Name),
		fmt.Sprintf("XP: %d", p.XP),
		fmt.Sprintf("Stamina: %d/%d", p.Stamina, rules.MaxStamina),
		fmt.Sprintf("Answered: %d", answered),
		fmt.Sprintf("Accuracy: %.2f%%", acc*100),
		fmt.Sprintf("Badges: %s", badgeList(p.Badges)),
		"",
	}
	return writeLines(w, lines)
}

// RenderTopics prints per-topic tier progress, most advanced first.
func RenderTopics(w io.Writer, p model.Profile, rules progress.Rules) error {
	if len(p.Topics) == 0 {
		_, err := fmt.Fprintln(w, "No topics practiced yet.")
		return err
	}
	names := lo.Keys(p.Topics)
	sort.Slice(names, func(i, j int) bool {
		a, b := p.Topics[names[i]], p.Topics[names[j]]
		if a.Tier != b.Tier {
			return a.Tier > b.Tier
		}
		if a.CorrectInTier != b.CorrectInTier {
			return a.CorrectInTier > b.CorrectInTier
		}
		return names[i] < names[j]
	})

	if _, err := fmt.Fprintln(w, heading(w, "Topics")); err != nil {
		return err
	}
	headers := []string{"Topic", "Tier", "Progress", "", "Streak", "Best", "Accuracy"}
	rows := make([][]string, 0, len(names))
	for _, name := range names {
		tp := p.Topics[name]
		rule := rules.Rule(tp.Tier)
		rows = append(rows, []string{
			name,
			fmt.Sprintf("%d/%d", tp.Tier, rules.MaxTier()),
			ProgressBar(tp.CorrectInTier, rule.Target, barWidth),
			fmt.Sprintf("%d/%d", tp.CorrectInTier, rule.Target),
			strconv.Itoa(tp.Streak),
			strconv.Itoa(tp.BestStreak),
			fmt.Sprintf("%.2f%%", tp.Accuracy()*100),
		})
	}
	rightAlign := map[int]bool{1: true, 3: true, 4: true, 5: true, 6: true}
	if err := writeLines(w, formatTable(headers, rows, rightAlign)); err != nil {
		return err
	}
	if weak := WeakTopics(p.Topics, 3); len(weak) > 0 {
		if _, err := fmt.Fprintf(w, "Needs work: %s\n", strings.Join(weak, ", ")); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// RenderMistakes prints the most repeated misses.
func RenderMistakes(w io.Writer, p model.Profile, top int) error {
	mistakes := TopMistakes(p.Mistakes, top)
	if len(mistakes) == 0 {
		_, err := fmt.Fprintln(w, "No mistakes recorded.")
		return err
	}
	if _, err := fmt.Fprintln(w, heading(w, "Mistakes")); err != nil {
		return err
	}
	rows := lo.Map(mistakes, func(m model.Mistake, _ int) []string {
		return []string{m.Phrase, m.WrongAnswer, strconv.Itoa(m.Count)}
	})
	if err := writeLines(w, formatTable([]string{"Phrase", "Last answer", "Misses"}, rows, map[int]bool{2: true})); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// RenderLeaderboard prints ranked standings. top <= 0 prints everyone.
func RenderLeaderboard(w io.Writer, standings []model.Standing, top int) error {
	if len(standings) == 0 {
		_, err := fmt.Fprintln(w, "No players found.")
		return err
	}
	if top > 0 && len(standings) > top {
		standings = standings[:top]
	}
	if _, err := fmt.Fprintln(w, heading(w, "Leaderboard")); err != nil {
		return err
	}
	rows := lo.Map(standings, func(s model.Standing, i int) []string {
		return []string{
			strconv.Itoa(i + 1),
			s.Name,
			strconv.Itoa(s.XP),
			strconv.Itoa(s.TopTier),
			strconv.Itoa(s.Badges),
		}
	})
	headers := []string{"#", "Name", "XP", "Top tier", "Badges"}
	rightAlign := map[int]bool{0: true, 2: true, 3: true, 4: true}
	return writeLines(w, formatTable(headers, rows, rightAlign))
}

func badgeList(badges []string) string {
	if len(badges) == 0 {
		return "none"
	}
	return strings.Join(badges, ", ")
}
