package repair

import (
	"fmt"

	"github.com/kaptinlin/jsonrepair"
)

// LibraryRepair rewrites the whole document with the jsonrepair library. It
// guesses far more aggressively than the ordered chain, so callers opt in
// explicitly and only reach for it after the chain exhausts.
func LibraryRepair(content string) (string, error) {
	fixed, err := jsonrepair.JSONRepair(content)
	if err != nil {
		return "", fmt.Errorf("repair: jsonrepair fallback failed: %w", err)
	}
	return fixed, nil
}
