package pool

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/verte-zerg/idiomquiz/internal/model"
)

type fixedClassifier string

func (f fixedClassifier) Classify(model.Entry) string { return string(f) }

func TestParseChineseHeadersAndDropsInvalid(t *testing.T) {
	data := "成語,解釋,例句,近義詞\n" +
		"畫蛇添足,多此一舉,他這樣做簡直是畫蛇添足。,\"多此一舉、弄巧成拙\"\n" +
		",沒有成語,,\n" +
		"守株待兔,,,\n" +
		"對牛彈琴,比喻說話不看對象,nan,\n" +
		"畫蛇添足,重複,,\n"
	entries, err := Parse(strings.NewReader(data), fixedClassifier("t"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d: %+v", len(entries), entries)
	}
	first := entries[0]
	if first.Phrase != "畫蛇添足" || first.Definition != "多此一舉" || first.Topic != "t" {
		t.Fatalf("unexpected first entry: %+v", first)
	}
	if len(first.Synonyms) != 2 || first.Synonyms[1] != "弄巧成拙" {
		t.Fatalf("unexpected synonyms: %v", first.Synonyms)
	}
	if entries[1].Example != "" {
		t.Fatalf("expected nan example to be blank, got %q", entries[1].Example)
	}
}

func TestParseEnglishHeaders(t *testing.T) {
	data := "phrase,definition,example_sentence,phonetic_transcription\nabc,def,ghi,jkl\n"
	entries, err := Parse(strings.NewReader(data), nil)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(entries) != 1 || entries[0].Example != "ghi" || entries[0].Phonetic != "jkl" {
		t.Fatalf("unexpected entries: %+v", entries)
	}
}

func TestParseRequiresColumns(t *testing.T) {
	if _, err := Parse(strings.NewReader("phrase,other\na,b\n"), nil); err == nil {
		t.Fatalf("expected missing definition column error")
	}
	if _, err := Parse(strings.NewReader(""), nil); err == nil {
		t.Fatalf("expected empty dataset error")
	}
}

func TestLoadUsesFirstExistingCandidate(t *testing.T) {
	dir := t.TempDir()
	second := filepath.Join(dir, "second.csv")
	third := filepath.Join(dir, "third.csv")
	if err := os.WriteFile(second, []byte("phrase,definition\nfrom-second,d\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := os.WriteFile(third, []byte("phrase,definition\nfrom-third,d\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	entries, used, err := Load([]string{filepath.Join(dir, "missing.csv"), second, third}, nil)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if used != second || len(entries) != 1 || entries[0].Phrase != "from-second" {
		t.Fatalf("expected second file to be used, got %s %+v", used, entries)
	}
}

func TestLoadNoDataset(t *testing.T) {
	_, _, err := Load([]string{filepath.Join(t.TempDir(), "missing.csv")}, nil)
	if !errors.Is(err, ErrNoDataset) {
		t.Fatalf("expected ErrNoDataset, got %v", err)
	}
}

func TestCountByTopic(t *testing.T) {
	counts := CountByTopic([]model.Entry{{Topic: "a"}, {Topic: "b"}, {Topic: "a"}})
	if counts["a"] != 2 || counts["b"] != 1 {
		t.Fatalf("unexpected counts: %v", counts)
	}
}
