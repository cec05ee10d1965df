// Package cluecsv reads and writes clue hint files of the form
//
//	Type,Number,Clue
//	Across,1,"clue text"
//
// Import is tolerant: rows it cannot understand are skipped and counted.
package cluecsv

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/baaaaaaaka/xword-builder/internal/puzzle"
)

const Header = "Type,Number,Clue"

var ErrDecode = errors.New("clue file is not readable text")

// Result summarises an import.
type Result struct {
	Across  int
	Down    int
	Skipped int
}

// Encode writes every clue in c, Across rows first. The slot lists are
// accepted for numbering context only; the clue maps are the data source.
func Encode(w io.Writer, across, down []puzzle.Slot, c puzzle.Clues) error {
	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString(Header + "\n"); err != nil {
		return err
	}
	for _, part := range []struct {
		dir puzzle.Direction
		m   puzzle.ClueMap
	}{
		{puzzle.Across, c.Across},
		{puzzle.Down, c.Down},
	} {
		for _, key := range sortedKeys(part.m) {
			line := fmt.Sprintf("%s,%s,%s\n", part.dir, key, quote(part.m[key]))
			if _, err := bw.WriteString(line); err != nil {
				return err
			}
		}
	}
	return bw.Flush()
}

// quote flattens line breaks, since Decode reads one row per line.
func quote(s string) string {
	return `"` + strings.ReplaceAll(puzzle.NormalizeClue(s), `"`, `""`) + `"`
}

// sortedKeys orders numeric keys numerically ahead of any other keys.
func sortedKeys(m puzzle.ClueMap) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, aErr := strconv.Atoi(keys[i])
		b, bErr := strconv.Atoi(keys[j])
		switch {
		case aErr == nil && bErr == nil:
			if a != b {
				return a < b
			}
			return keys[i] < keys[j]
		case aErr == nil:
			return true
		case bErr == nil:
			return false
		}
		return keys[i] < keys[j]
	})
	return keys
}

// Decode merges the clues found in r into dst. Nothing is merged when r
// cannot be decoded as text.
func Decode(r io.Reader, dst *puzzle.Clues) (Result, error) {
	text, err := readText(r)
	if err != nil {
		return Result{}, err
	}

	parsed := puzzle.NewClues()
	var res Result
	lines := strings.Split(strings.TrimSpace(text), "\n")
	for i, line := range lines {
		if i == 0 {
			continue
		}
		line = strings.TrimSuffix(line, "\r")
		fields := splitLine(line)
		if len(fields) < 3 {
			res.Skipped++
			continue
		}
		key, clue := fields[1], unquote(fields[2])
		switch fields[0] {
		case "Across":
			parsed.Across[key] = clue
		case "Down":
			parsed.Down[key] = clue
		default:
			res.Skipped++
		}
	}

	if dst.Across == nil {
		dst.Across = puzzle.ClueMap{}
	}
	if dst.Down == nil {
		dst.Down = puzzle.ClueMap{}
	}
	for k, v := range parsed.Across {
		dst.Across[k] = v
	}
	for k, v := range parsed.Down {
		dst.Down[k] = v
	}
	res.Across = len(parsed.Across)
	res.Down = len(parsed.Down)
	return res, nil
}

// readText decodes UTF-8, with or without a BOM, and BOM-marked UTF-16.
// Binary input is rejected rather than replaced.
func readText(r io.Reader) (string, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDecode, err)
	}
	utf16 := bytes.HasPrefix(raw, []byte{0xFE, 0xFF}) || bytes.HasPrefix(raw, []byte{0xFF, 0xFE})
	if !utf16 && !utf8.Valid(raw) {
		return "", ErrDecode
	}
	b, _, err := transform.Bytes(unicode.BOMOverride(unicode.UTF8.NewDecoder()), raw)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if bytes.IndexByte(b, 0) >= 0 {
		return "", ErrDecode
	}
	return string(b), nil
}

// splitLine returns the fields of one row. A field is either a double-quoted
// run, where "" stands for a quote, or a bare token up to the next comma.
// Quoted fields are returned with their quotes.
func splitLine(line string) []string {
	var fields []string
	i := 0
	for i < len(line) {
		start := i
		if line[i] == '"' {
			i++
			for i < len(line) {
				if line[i] == '"' {
					if i+1 < len(line) && line[i+1] == '"' {
						i += 2
						continue
					}
					i++
					break
				}
				i++
			}
		} else {
			for i < len(line) && line[i] != ',' {
				i++
			}
		}
		if i > start {
			fields = append(fields, line[start:i])
		}
		// Skip anything after a closing quote up to the separator.
		for i < len(line) && line[i] != ',' {
			i++
		}
		i++
	}
	return fields
}

func unquote(field string) string {
	if len(field) >= 2 && strings.HasPrefix(field, `"`) && strings.HasSuffix(field, `"`) {
		field = field[1 : len(field)-1]
	}
	return strings.ReplaceAll(field, `""`, `"`)
}
