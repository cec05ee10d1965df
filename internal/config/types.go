package config

import (
	"time"

	"github.com/baaaaaaaka/xword-builder/internal/puzzle"
)

const CurrentVersion = 1

type Config struct {
	Version   int        `json:"version"`
	MaxSize   int        `json:"maxSize,omitempty"`
	BankPath  string     `json:"bankPath,omitempty"`
	Active    string     `json:"active,omitempty"`
	Documents []Document `json:"documents"`
}

// Document is one saved puzzle.
type Document struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Puzzle    puzzle.Snapshot `json:"puzzle"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}
