package stats

import (
	"context"
	"fmt"
	"io"

	"github.com/verte-zerg/idiomquiz/internal/model"
	"github.com/verte-zerg/idiomquiz/internal/progress"
)

// Source provides the data a report is built from.
type Source interface {
	Lookup(ctx context.Context, name string) (model.Profile, error)
	Leaderboard(ctx context.Context) ([]model.Standing, error)
}

// Report contains precomputed data for a player report.
type Report struct {
	Profile   model.Profile
	Rank      int
	Players   int
	Standings []model.Standing
}

// BuildReport loads one player and their place on the leaderboard. Rank is
// zero when the leaderboard could not be read.
func BuildReport(ctx context.Context, src Source, name string) (Report, error) {
	p, err := src.Lookup(ctx, name)
	if err != nil {
		return Report{}, fmt.Errorf("failed to load player %q: %w", name, err)
	}
	report := Report{Profile: p}
	standings, err := src.Leaderboard(ctx)
	if err != nil {
		return report, nil
	}
	report.Standings = standings
	report.Players = len(standings)
	for i, s := range standings {
		if s.Name == p.Name {
			report.Rank = i + 1
			break
		}
	}
	return report, nil
}

// RenderReport prints summary, topic and mistake sections for a report.
func RenderReport(w io.Writer, r Report, rules progress.Rules, mistakes int) error {
	if err := RenderSummary(w, r.Profile, rules); err != nil {
		return err
	}
	if r.Rank > 0 {
		if _, err := fmt.Fprintf(w, "Rank: %d of %d\n\n", r.Rank, r.Players); err != nil {
			return err
		}
	}
	if err := RenderTopics(w, r.Profile, rules); err != nil {
		return err
	}
	return RenderMistakes(w, r.Profile, mistakes)
}
