package config

import (
	"strings"

	"github.com/baaaaaaaka/xword-builder/internal/puzzle"
)

// Bounds returns the grid size limits configured for this workspace.
func (c Config) Bounds() puzzle.Bounds {
	if c.MaxSize == 0 {
		return puzzle.DefaultBounds
	}
	return puzzle.BoundsWithMax(c.MaxSize)
}

func (c Config) FindDocument(ref string) (Document, bool) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return Document{}, false
	}
	for _, d := range c.Documents {
		if d.ID == ref || strings.EqualFold(d.Name, ref) {
			return d, true
		}
	}
	return Document{}, false
}

// ResolveDocument looks up ref, or the active document when ref is empty.
func (c Config) ResolveDocument(ref string) (Document, bool) {
	if strings.TrimSpace(ref) == "" {
		ref = c.Active
	}
	return c.FindDocument(ref)
}

func (c *Config) UpsertDocument(d Document) {
	for i := range c.Documents {
		if c.Documents[i].ID == d.ID {
			c.Documents[i] = d
			return
		}
	}
	c.Documents = append(c.Documents, d)
}

func (c *Config) RemoveDocument(id string) bool {
	for i := range c.Documents {
		if c.Documents[i].ID != id {
			continue
		}
		c.Documents = append(c.Documents[:i], c.Documents[i+1:]...)
		if c.Active == id {
			c.Active = ""
		}
		return true
	}
	return false
}
