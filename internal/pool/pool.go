// Package pool loads the idiom dataset from CSV files.
package pool

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/samber/lo"

	"github.com/verte-zerg/idiomquiz/internal/model"
)

// ErrNoDataset is returned when none of the candidate files exists.
var ErrNoDataset = errors.New("no dataset file found")

// DefaultFiles are tried in order when no dataset is configured.
var DefaultFiles = []string{"idioms.csv", "成語資料庫.xlsx - 工作表1 (2).csv", "成語資料庫.csv"}

var columnAliases = map[string][]string{
	"phrase":     {"phrase", "成語", "idiom"},
	"definition": {"definition", "解釋", "meaning"},
	"example":    {"example_sentence", "例句", "example"},
	"synonyms":   {"synonyms", "近義詞"},
	"antonyms":   {"antonyms", "反義詞"},
	"phonetic":   {"phonetic_transcription", "注音"},
}

// Classifier assigns a topic to an entry.
type Classifier interface {
	Classify(model.Entry) string
}

// Load opens the first existing candidate and parses it. It returns the path used.
func Load(candidates []string, classifier Classifier) ([]model.Entry, string, error) {
	for _, path := range candidates {
		file, err := os.Open(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, path, fmt.Errorf("failed to open dataset: %w", err)
		}
		entries, err := Parse(file, classifier)
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only dataset.
			_ = cerr
		}
		if err != nil {
			return nil, path, fmt.Errorf("failed to parse %s: %w", path, err)
		}
		return entries, path, nil
	}
	return nil, "", fmt.Errorf("%w (tried: %s)", ErrNoDataset, strings.Join(candidates, ", "))
}

// Parse reads a CSV with a header row. Rows without phrase or definition are
// dropped, and only the first row of a duplicated phrase is kept.
func Parse(r io.Reader, classifier Classifier) ([]model.Entry, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("dataset is empty")
		}
		return nil, err
	}
	cols := resolveColumns(header)
	if _, ok := cols["phrase"]; !ok {
		return nil, fmt.Errorf("dataset has no phrase column")
	}
	if _, ok := cols["definition"]; !ok {
		return nil, fmt.Errorf("dataset has no definition column")
	}

	var entries []model.Entry
	seen := map[string]struct{}{}
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		entry := model.Entry{
			Phrase:     cell(row, cols, "phrase"),
			Definition: cell(row, cols, "definition"),
			Example:    cell(row, cols, "example"),
			Synonyms:   splitList(cell(row, cols, "synonyms")),
			Antonyms:   splitList(cell(row, cols, "antonyms")),
			Phonetic:   cell(row, cols, "phonetic"),
		}
		if !Valid(entry) {
			continue
		}
		if _, dup := seen[entry.Phrase]; dup {
			continue
		}
		seen[entry.Phrase] = struct{}{}
		if classifier != nil {
			entry.Topic = classifier.Classify(entry)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// Valid reports whether an entry has the required fields.
func Valid(entry model.Entry) bool {
	return entry.Phrase != "" && entry.Definition != ""
}

func resolveColumns(header []string) map[string]int {
	index := map[string]int{}
	for i, name := range header {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		index[strings.ToLower(name)] = i
	}
	cols := map[string]int{}
	for field, aliases := range columnAliases {
		for _, alias := range aliases {
			if i, ok := index[strings.ToLower(alias)]; ok {
				cols[field] = i
				break
			}
		}
	}
	return cols
}

func cell(row []string, cols map[string]int, field string) string {
	i, ok := cols[field]
	if !ok || i >= len(row) {
		return ""
	}
	value := strings.TrimSpace(row[i])
	if strings.EqualFold(value, "nan") {
		return ""
	}
	return value
}

func splitList(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.FieldsFunc(value, func(r rune) bool {
		switch r {
		case ',', '，', '、', ';', '；':
			return true
		}
		return false
	})
	parts = lo.Map(parts, func(p string, _ int) string { return strings.TrimSpace(p) })
	parts = lo.Compact(parts)
	return lo.Uniq(parts)
}

// CountByTopic returns entry counts per topic.
func CountByTopic(entries []model.Entry) map[string]int {
	return lo.CountValuesBy(entries, func(e model.Entry) string { return e.Topic })
}
