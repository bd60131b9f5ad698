package report

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// Segment is one piece of a description: literal text or a user reference.
type Segment struct {
	Text   string // verbatim source, including the quotes for user references
	UserID int64
	IsUser bool
}

// Description is an event description split into text and user
// references. A user reference is a quoted run of digits, e.g. '123'.
type Description struct {
	Segments []Segment
}

// parseUserToken validates the inside of a quoted token.
func parseUserToken(inner string) (int64, error) {
	if inner == "" {
		return 0, ErrMalformedToken
	}
	for _, r := range inner {
		if r < '0' || r > '9' {
			return 0, ErrMalformedToken
		}
	}
	id, err := strconv.ParseInt(inner, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}
	return id, nil
}

// ParseDescription splits text into segments. Quoted text that is not a
// run of digits stays literal; its closing quote may open the next token.
func ParseDescription(text string) Description {
	var (
		segs []Segment
		lit  strings.Builder
	)
	flush := func() {
		if lit.Len() > 0 {
			segs = append(segs, Segment{Text: lit.String()})
			lit.Reset()
		}
	}

	i := 0
	for i < len(text) {
		open := strings.IndexByte(text[i:], '\'')
		if open < 0 {
			lit.WriteString(text[i:])
			break
		}
		open += i
		lit.WriteString(text[i:open])

		closing := strings.IndexByte(text[open+1:], '\'')
		if closing < 0 {
			lit.WriteString(text[open:])
			break
		}
		closing += open + 1

		id, err := parseUserToken(text[open+1 : closing])
		if err != nil {
			// keep the opening quote and retry from the closing one
			lit.WriteString(text[open:closing])
			i = closing
			continue
		}
		flush()
		segs = append(segs, Segment{Text: text[open : closing+1], UserID: id, IsUser: true})
		i = closing + 1
	}
	flush()
	return Description{Segments: segs}
}

// UserIDs returns the distinct referenced ids in order of first appearance.
func (d Description) UserIDs() []int64 {
	var ids []int64
	for _, s := range d.Segments {
		if s.IsUser && !slices.Contains(ids, s.UserID) {
			ids = append(ids, s.UserID)
		}
	}
	return ids
}

// Render writes each resolved reference as 'First Last'. References
// missing from names are left as they were.
func (d Description) Render(names map[int64]string) string {
	var b strings.Builder
	for _, s := range d.Segments {
		if name, ok := names[s.UserID]; s.IsUser && ok {
			b.WriteByte('\'')
			b.WriteString(name)
			b.WriteByte('\'')
			continue
		}
		b.WriteString(s.Text)
	}
	return b.String()
}

// String returns the original text.
func (d Description) String() string {
	var b strings.Builder
	for _, s := range d.Segments {
		b.WriteString(s.Text)
	}
	return b.String()
}

// SubstituteUserIDs parses text and renders it with names.
func SubstituteUserIDs(text string, names map[int64]string) string {
	return ParseDescription(text).Render(names)
}
