// Package dictionary builds Word Forge word lists from raw dictionary
// dumps. It normalizes case, drops words the honeycomb cannot spell,
// filters entries unsuited for a young audience, and attaches
// placeholder clues for later editing.
package dictionary

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/cases"

	apperrors "github.com/puzzlebox-games/puzzlebox/internal/platform/errors"
)

// Config bounds which words survive filtering.
type Config struct {
	// MinLength is the shortest playable word.
	MinLength int
	// MaxDistinctLetters matches the honeycomb size: a word needing
	// more distinct letters than the board holds can never be spelled.
	MaxDistinctLetters int
}

// DefaultConfig returns the standard Word Forge bounds: four-letter
// minimum against a seven-letter honeycomb.
func DefaultConfig() Config {
	return Config{MinLength: 4, MaxDistinctLetters: 7}
}

// Entry is one playable word with its clue.
type Entry struct {
	Word            string `json:"word"`
	Clue            string `json:"clue"`
	Length          int    `json:"length"`
	DistinctLetters int    `json:"distinctLetters"`
}

// FilterStats counts the fate of every input word.
type FilterStats struct {
	TotalInput      int `json:"total_input"`
	RemovedShort    int `json:"removed_short"`
	RemovedDistinct int `json:"removed_distinct"`
	RemovedRejected int `json:"removed_rejected"`
	RemovedNonAlpha int `json:"removed_non_alpha"`
	TotalOutput     int `json:"total_output"`
}

// FilterRules records the bounds a document was built under.
type FilterRules struct {
	MinLength          int `json:"minLength"`
	MaxDistinctLetters int `json:"maxDistinctLetters"`
}

// Metadata describes how a document was produced.
type Metadata struct {
	TotalWords                 int         `json:"totalWords"`
	GeneratedAt                time.Time   `json:"generatedAt"`
	Source                     string      `json:"source,omitempty"`
	Filters                    FilterRules `json:"filters"`
	FilterStats                FilterStats `json:"filterStats"`
	LengthDistribution         map[int]int `json:"lengthDistribution"`
	DistinctLetterDistribution map[int]int `json:"distinctLetterDistribution"`
}

// Document is the processed word list ready for seeding.
type Document struct {
	Metadata Metadata `json:"metadata"`
	Words    []Entry  `json:"words"`
}

// rejectedWords are excluded outright. The audience skews young, so
// the list leans strict.
var rejectedWords = map[string]struct{}{
	"FUCK": {}, "SHIT": {}, "DAMN": {}, "HELL": {}, "ASS": {},
	"BITCH": {}, "BASTARD": {}, "CRAP": {}, "PISS": {}, "DICK": {},
	"COCK": {}, "PUSSY": {}, "CUNT": {}, "WHORE": {}, "SLUT": {},
	"FAG": {}, "METH": {}, "HEROIN": {}, "COCAINE": {}, "CRACK": {},
	"MURDER": {}, "RAPE": {}, "KILL": {}, "KILLING": {},
}

// rejectedPrefixes catch derived forms the exact list misses.
var rejectedPrefixes = []string{
	"FUCK", "SHIT", "DICK", "COCK", "CUNT", "PUSSY", "WHORE", "SLUT",
}

// Normalize folds case differences away and renders the canonical
// uppercase form words are stored under.
func Normalize(word string) string {
	fold := cases.Fold()
	return strings.ToUpper(fold.String(strings.TrimSpace(word)))
}

// CheckWord reports why a normalized word is unplayable, or nil when
// it passes every rule.
func CheckWord(word string, cfg Config) error {
	runes := []rune(word)
	for _, r := range runes {
		if !unicode.IsLetter(r) {
			return apperrors.New(apperrors.CodeDictionaryWordRejected,
				fmt.Sprintf("%q contains non-letter %q", word, r))
		}
	}
	if len(runes) < cfg.MinLength {
		return apperrors.New(apperrors.CodeDictionaryWordTooShort,
			fmt.Sprintf("%q has %d letters, need %d", word, len(runes), cfg.MinLength))
	}
	if n := distinctLetters(word); n > cfg.MaxDistinctLetters {
		return apperrors.New(apperrors.CodeDictionaryTooManyLetters,
			fmt.Sprintf("%q uses %d distinct letters, max %d", word, n, cfg.MaxDistinctLetters))
	}
	if isRejected(word) {
		return apperrors.New(apperrors.CodeDictionaryWordRejected,
			fmt.Sprintf("%q is on the rejection list", word))
	}
	return nil
}

// Filter normalizes and screens raw words, counting each removal.
func Filter(words []string, cfg Config) ([]string, FilterStats) {
	stats := FilterStats{TotalInput: len(words)}
	kept := make([]string, 0, len(words))
	for _, raw := range words {
		word := Normalize(raw)
		if word == "" {
			stats.RemovedNonAlpha++
			continue
		}
		err := CheckWord(word, cfg)
		switch {
		case err == nil:
			kept = append(kept, word)
		case errors.Is(err, apperrors.New(apperrors.CodeDictionaryWordTooShort, "")):
			stats.RemovedShort++
		case errors.Is(err, apperrors.New(apperrors.CodeDictionaryTooManyLetters, "")):
			stats.RemovedDistinct++
		case isRejected(word):
			stats.RemovedRejected++
		default:
			stats.RemovedNonAlpha++
		}
	}
	stats.TotalOutput = len(kept)
	return kept, stats
}

// Process reads newline-separated words and assembles the seeding
// document. Clues map normalized words to replacement clues; words
// without one get a placeholder.
func Process(r io.Reader, clues map[string]string, cfg Config, now time.Time) (Document, error) {
	if cfg.MinLength <= 0 || cfg.MaxDistinctLetters <= 0 {
		return Document{}, fmt.Errorf("filter bounds must be positive, got min length %d and max distinct %d",
			cfg.MinLength, cfg.MaxDistinctLetters)
	}
	var words []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		words = append(words, line)
	}
	if err := scanner.Err(); err != nil {
		return Document{}, fmt.Errorf("read words: %w", err)
	}

	kept, stats := Filter(words, cfg)
	sort.Strings(kept)

	doc := Document{
		Metadata: Metadata{
			TotalWords:  len(kept),
			GeneratedAt: now.UTC(),
			Filters: FilterRules{
				MinLength:          cfg.MinLength,
				MaxDistinctLetters: cfg.MaxDistinctLetters,
			},
			FilterStats:                stats,
			LengthDistribution:         make(map[int]int),
			DistinctLetterDistribution: make(map[int]int),
		},
		Words: make([]Entry, 0, len(kept)),
	}
	for _, word := range kept {
		distinct := distinctLetters(word)
		doc.Metadata.LengthDistribution[len([]rune(word))]++
		doc.Metadata.DistinctLetterDistribution[distinct]++
		clue := clues[word]
		if clue == "" {
			clue = PlaceholderClue(word)
		}
		doc.Words = append(doc.Words, Entry{
			Word:            word,
			Clue:            clue,
			Length:          len([]rune(word)),
			DistinctLetters: distinct,
		})
	}
	return doc, nil
}

// PlaceholderClue renders the stand-in clue used until an editor
// writes a real one.
func PlaceholderClue(word string) string {
	return "Define: " + word
}

// LoadClues decodes a word-to-clue JSON object, normalizing the keys.
func LoadClues(r io.Reader) (map[string]string, error) {
	var raw map[string]string
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode clues: %w", err)
	}
	clues := make(map[string]string, len(raw))
	for word, clue := range raw {
		clue = strings.TrimSpace(clue)
		if clue == "" {
			continue
		}
		clues[Normalize(word)] = clue
	}
	return clues, nil
}

// WriteJSON renders the document for seeding.
func WriteJSON(w io.Writer, doc Document) error {
	encoded, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}
	if _, err := w.Write(append(encoded, '\n')); err != nil {
		return fmt.Errorf("write document: %w", err)
	}
	return nil
}

// Summarize prints the human-readable processing report.
func Summarize(w io.Writer, doc Document) {
	stats := doc.Metadata.FilterStats
	fmt.Fprintf(w, "Input words:  %d\n", stats.TotalInput)
	fmt.Fprintf(w, "Output words: %d\n", stats.TotalOutput)
	fmt.Fprintf(w, "Filtered out:\n")
	fmt.Fprintf(w, "  short (<%d):        %d\n", doc.Metadata.Filters.MinLength, stats.RemovedShort)
	fmt.Fprintf(w, "  too many distinct: %d\n", stats.RemovedDistinct)
	fmt.Fprintf(w, "  rejected:          %d\n", stats.RemovedRejected)
	fmt.Fprintf(w, "  non-alphabetic:    %d\n", stats.RemovedNonAlpha)
	fmt.Fprintf(w, "Length distribution:\n")
	for _, length := range sortedKeys(doc.Metadata.LengthDistribution) {
		fmt.Fprintf(w, "  %d letters: %d\n", length, doc.Metadata.LengthDistribution[length])
	}
	fmt.Fprintf(w, "Distinct letter distribution:\n")
	for _, distinct := range sortedKeys(doc.Metadata.DistinctLetterDistribution) {
		fmt.Fprintf(w, "  %d distinct: %d\n", distinct, doc.Metadata.DistinctLetterDistribution[distinct])
	}
}

func distinctLetters(word string) int {
	seen := make(map[rune]struct{}, len(word))
	for _, r := range word {
		seen[r] = struct{}{}
	}
	return len(seen)
}

func isRejected(word string) bool {
	if _, ok := rejectedWords[word]; ok {
		return true
	}
	for _, prefix := range rejectedPrefixes {
		if strings.HasPrefix(word, prefix) {
			return true
		}
	}
	return false
}

func sortedKeys(m map[int]int) []int {
	keys := make([]int, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Ints(keys)
	return keys
}
