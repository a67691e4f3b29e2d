package confstore

import "strings"

type lineKind int

const (
	lineOther lineKind = iota
	lineAssignment
	lineHeader
)

// line is one classified line of a config file. Everything after the first
// '#' is a comment; the rest is trimmed before classification.
type line struct {
	kind    lineKind
	key     string
	value   string
	section string
	comment string
}

func classify(raw string) line {
	text := raw
	var l line
	if i := strings.IndexByte(raw, '#'); i >= 0 {
		text = raw[:i]
		l.comment = strings.TrimSpace(raw[i:])
	}
	text = strings.TrimSpace(text)

	if i := strings.IndexByte(text, '='); i >= 0 {
		l.kind = lineAssignment
		l.key = strings.TrimSpace(text[:i])
		l.value = strings.TrimSpace(text[i+1:])
		return l
	}
	if len(text) >= 2 && text[0] == '[' && text[len(text)-1] == ']' {
		l.kind = lineHeader
		l.section = strings.TrimSpace(text[1 : len(text)-1])
	}
	return l
}
