package bank

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/rivo/uniseg"

	"github.com/baaaaaaaka/xword-builder/internal/puzzle"
)

// Question is one record of the question-bank feed.
type Question struct {
	Length     int    `json:"length"`
	Genre      string `json:"genre"`
	Difficulty string `json:"difficulty"`
	Word       string `json:"word"`
	Clue       string `json:"clue"`
}

// Parse reads length,genre,difficulty,word,clue records. The first record is
// a header. Records with too few fields or a non-numeric length are skipped.
func Parse(r io.Reader) ([]Question, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true

	var out []Question
	header := true
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				continue
			}
			return out, fmt.Errorf("read question bank: %w", err)
		}
		if header {
			header = false
			continue
		}
		if len(rec) < 5 {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(rec[0]))
		if err != nil || n <= 0 {
			continue
		}
		out = append(out, Question{
			Length:     n,
			Genre:      strings.TrimSpace(rec[1]),
			Difficulty: strings.TrimSpace(rec[2]),
			Word:       strings.TrimSpace(rec[3]),
			Clue:       strings.TrimSpace(rec[4]),
		})
	}
	return out, nil
}

func Load(path string) ([]Question, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open question bank: %w", err)
	}
	defer func() { _ = f.Close() }()
	return Parse(f)
}

// PatternFromWord turns a slot word into a search pattern; placeholders
// become wildcards.
func PatternFromWord(word string) []string {
	var out []string
	g := uniseg.NewGraphemes(word)
	for g.Next() {
		ch := g.Str()
		if ch == puzzle.Placeholder {
			ch = ""
		}
		out = append(out, ch)
	}
	return out
}

// ParsePattern reads a compact pattern such as "C?T"; '?', '_', '.' and '□'
// are wildcards.
func ParsePattern(s string) []string {
	var out []string
	g := uniseg.NewGraphemes(s)
	for g.Next() {
		ch := g.Str()
		switch ch {
		case "?", "_", ".", puzzle.Placeholder:
			ch = ""
		}
		out = append(out, ch)
	}
	return out
}

// Filter returns the questions of the given length whose word matches pattern
// position by position. Empty pattern entries match anything.
func Filter(qs []Question, length int, pattern []string) []Question {
	out := []Question{}
	for _, q := range qs {
		if q.Length != length {
			continue
		}
		if matches(q.Word, pattern) {
			out = append(out, q)
		}
	}
	return out
}

func matches(word string, pattern []string) bool {
	letters := graphemes(word)
	for i, want := range pattern {
		if want == "" {
			continue
		}
		if i >= len(letters) || letters[i] != want {
			return false
		}
	}
	return true
}

func graphemes(s string) []string {
	var out []string
	g := uniseg.NewGraphemes(s)
	for g.Next() {
		out = append(out, g.Str())
	}
	return out
}

type LengthCount struct {
	Length int `json:"length"`
	Count  int `json:"count"`
}

// CountByLength reports how many questions exist per word length, shortest
// first.
func CountByLength(qs []Question) []LengthCount {
	counts := map[int]int{}
	for _, q := range qs {
		counts[q.Length]++
	}
	out := make([]LengthCount, 0, len(counts))
	for n, c := range counts {
		out = append(out, LengthCount{Length: n, Count: c})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Length < out[j].Length })
	return out
}
