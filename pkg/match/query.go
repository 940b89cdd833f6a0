// Package match holds the search query and the per-format match locations
// shared by every annotator.
package match

import (
	"errors"
	"strings"

	"golang.org/x/text/cases"
)

// ErrEmptyQuery is returned for an empty or whitespace-only search string.
var ErrEmptyQuery = errors.New("search text must not be empty")

// Query is an immutable literal search string. All comparisons are
// case-insensitive through Unicode case folding.
type Query struct {
	text   string
	folded string
}

// NewQuery builds a query from raw user input. The text is kept as given;
// only emptiness is checked.
func NewQuery(text string) (Query, error) {
	if strings.TrimSpace(text) == "" {
		return Query{}, ErrEmptyQuery
	}
	return Query{text: text, folded: Fold(text)}, nil
}

// Fold returns the case-folded form used for every comparison.
func Fold(s string) string {
	return cases.Fold().String(s)
}

// Text returns the query as the user typed it.
func (q Query) Text() string { return q.text }

// Folded returns the case-folded query.
func (q Query) Folded() string { return q.folded }

// Within reports whether the query occurs in s.
func (q Query) Within(s string) bool {
	if q.folded == "" {
		return false
	}
	return strings.Contains(Fold(s), q.folded)
}

// Bidirectional is the OCR word policy: after trimming, a non-empty word
// matches when the query contains the word or the word contains the query.
func (q Query) Bidirectional(word string) bool {
	w := Fold(strings.TrimSpace(word))
	if w == "" || q.folded == "" {
		return false
	}
	return strings.Contains(w, q.folded) || strings.Contains(q.folded, w)
}
