package store

import (
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/verte-zerg/idiomquiz/internal/model"
)

func TestProfileRoundTrip(t *testing.T) {
	anchor := time.Unix(1_700_000_000, 987_654_321)
	p := model.Profile{
		Name:          "Harry",
		Credential:    "1234",
		XP:            340,
		Stamina:       7,
		StaminaAnchor: anchor,
		Badges:        []string{"Apprentice", "animals tier 2"},
		Mistakes: []model.Mistake{
			{Phrase: "畫蛇添足", WrongAnswer: "守株待兔", Count: 2},
			{Phrase: "一石二鳥", WrongAnswer: "一", Count: 1},
		},
		Topics: map[string]*model.TopicProgress{
			"animals": {Tier: 2, CorrectInTier: 5, Streak: 3, BestStreak: 21, Answered: 120, Correct: 100},
			"numbers": {Tier: 1},
		},
		History: []bool{true, true, false, true},
	}

	got, ok := DecodeProfile(EncodeProfile(p), time.Now(), 10)
	if !ok {
		t.Fatalf("decode rejected record")
	}
	if !got.StaminaAnchor.Equal(anchor.Truncate(time.Second)) {
		t.Fatalf("anchor: expected %v, got %v", anchor.Truncate(time.Second), got.StaminaAnchor)
	}
	got.StaminaAnchor = p.StaminaAnchor
	if !reflect.DeepEqual(got, p) {
		t.Fatalf("round trip mismatch:\nwant %#v\ngot  %#v", p, got)
	}
}

func TestDecodeDefaultsMissingAndMalformed(t *testing.T) {
	now := time.Unix(1_800_000_000, 0)
	rec := Record{
		ColName:         " Ron ",
		ColXP:           "lots",
		ColHP:           "42",
		ColBadges:       "a,,b, a ",
		ColWrongList:    "[{'phrase': 'x'}]",
		ColSubjectStats: "{broken",
	}
	p, ok := DecodeProfile(rec, now, 10)
	if !ok {
		t.Fatalf("decode rejected record")
	}
	if p.Name != "Ron" || p.Credential != "" || p.XP != 0 {
		t.Fatalf("unexpected scalars: %+v", p)
	}
	if p.Stamina != 10 {
		t.Fatalf("expected HP clamped to 10, got %d", p.Stamina)
	}
	if !p.StaminaAnchor.Equal(now) {
		t.Fatalf("expected anchor default now, got %v", p.StaminaAnchor)
	}
	if !reflect.DeepEqual(p.Badges, []string{"a", "b"}) {
		t.Fatalf("unexpected badges: %v", p.Badges)
	}
	if len(p.Mistakes) != 0 || p.Topics == nil || len(p.Topics) != 0 {
		t.Fatalf("expected empty nested structures, got %+v %+v", p.Mistakes, p.Topics)
	}
}

func TestDecodeRequiresName(t *testing.T) {
	if _, ok := DecodeProfile(Record{ColXP: "10"}, time.Now(), 10); ok {
		t.Fatalf("expected record without name to be rejected")
	}
}

func TestDecodeLegacyFlatColumns(t *testing.T) {
	p, ok := DecodeProfile(Record{ColName: "Ginny", ColLegacyLevel: "3", ColLegacyStreak: "4"}, time.Now(), 10)
	if !ok {
		t.Fatalf("decode rejected record")
	}
	tp := p.Topics[LegacyTopic]
	if tp == nil || tp.Tier != 3 || tp.Streak != 4 {
		t.Fatalf("unexpected legacy topic: %+v", tp)
	}
}

func TestDecodeMergesDuplicateMistakes(t *testing.T) {
	rec := Record{
		ColName:      "Fred",
		ColWrongList: `[{"phrase":"x","wrong_answer":"a","count":1},{"phrase":"x","wrong_answer":"b","count":2},{"phrase":"","count":5}]`,
	}
	p, _ := DecodeProfile(rec, time.Now(), 10)
	if len(p.Mistakes) != 1 || p.Mistakes[0].Count != 3 || p.Mistakes[0].WrongAnswer != "b" {
		t.Fatalf("unexpected mistakes: %+v", p.Mistakes)
	}
}

func TestEncodeBadgesStripCommas(t *testing.T) {
	rec := EncodeProfile(model.Profile{Name: "x", Badges: []string{"a,b", "c"}})
	if rec[ColBadges] != "a b,c" {
		t.Fatalf("unexpected badge cell: %q", rec[ColBadges])
	}
}

func TestDecodeHistory(t *testing.T) {
	now := time.Unix(1_800_000_000, 0)
	p, ok := DecodeProfile(Record{ColName: "Ron", ColHistory: "1x0 1"}, now, 10)
	if !ok {
		t.Fatalf("decode rejected record")
	}
	if !reflect.DeepEqual(p.History, []bool{true, false, true}) {
		t.Fatalf("unexpected history: %v", p.History)
	}

	long := strings.Repeat("0", model.MaxHistory) + "1"
	p, _ = DecodeProfile(Record{ColName: "Ron", ColHistory: long}, now, 10)
	if len(p.History) != model.MaxHistory || !p.History[len(p.History)-1] {
		t.Fatalf("expected newest %d answers kept, got %d", model.MaxHistory, len(p.History))
	}

	p, _ = DecodeProfile(Record{ColName: "Ron"}, now, 10)
	if p.History != nil {
		t.Fatalf("expected no history for a missing column, got %v", p.History)
	}
}
