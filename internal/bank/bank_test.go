package bank

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

const sampleFeed = `length,genre,difficulty,word,clue
3,animal,easy,CAT,Says meow
3,animal,easy,COW,Says moo
4,food,hard,TOFU,Bean curd
x,bad,row,NOPE,Skipped
3,short
2,kana,easy,ねこ,Cat in Japanese
`

func TestParseSkipsMalformed(t *testing.T) {
	qs, err := Parse(strings.NewReader(sampleFeed))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(qs) != 4 {
		t.Fatalf("got %d questions: %#v", len(qs), qs)
	}
	want := Question{Length: 4, Genre: "food", Difficulty: "hard", Word: "TOFU", Clue: "Bean curd"}
	if qs[2] != want {
		t.Fatalf("qs[2]=%#v want %#v", qs[2], want)
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "questions.csv")
	if err := os.WriteFile(path, []byte(sampleFeed), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	qs, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(qs) != 4 {
		t.Fatalf("got %d questions", len(qs))
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.csv")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestFilterByLengthAndPattern(t *testing.T) {
	qs, _ := Parse(strings.NewReader(sampleFeed))

	if got := Filter(qs, 3, nil); len(got) != 2 {
		t.Fatalf("length 3: %#v", got)
	}
	got := Filter(qs, 3, ParsePattern("?O?"))
	if len(got) != 1 || got[0].Word != "COW" {
		t.Fatalf("pattern ?O?: %#v", got)
	}
	if got := Filter(qs, 3, ParsePattern("D??")); len(got) != 0 {
		t.Fatalf("pattern D??: %#v", got)
	}
	if got := Filter(qs, 2, PatternFromWord("□こ")); len(got) != 1 || got[0].Word != "ねこ" {
		t.Fatalf("kana pattern: %#v", got)
	}
	if got := Filter(nil, 3, nil); got == nil || len(got) != 0 {
		t.Fatalf("empty filter=%#v", got)
	}
}

func TestPatternFromWord(t *testing.T) {
	if got, want := PatternFromWord("C□T"), []string{"C", "", "T"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("got %#v want %#v", got, want)
	}
}

func TestCountByLength(t *testing.T) {
	qs, _ := Parse(strings.NewReader(sampleFeed))
	want := []LengthCount{{Length: 2, Count: 1}, {Length: 3, Count: 2}, {Length: 4, Count: 1}}
	if got := CountByLength(qs); !reflect.DeepEqual(got, want) {
		t.Fatalf("got %#v want %#v", got, want)
	}
}
