package ids

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// Len is the length of a document id. Ids are short enough to type on the
// command line.
const Len = 12

func New() (string, error) {
	var b [Len / 2]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "", fmt.Errorf("rand: %w", err)
	}
	return hex.EncodeToString(b[:]), nil
}
