package confstore

import (
	"strings"

	"github.com/samber/oops"
)

// Value is the type-erased view of an Entry. Sections, the loader and the
// rewriter work on Values; consumers normally hold the typed *Entry[T].
type Value interface {
	Name() string
	Description() string
	Section() *Section
	IsDefault() bool
	MatchesDefault() bool
	SetDefault() bool
	Parse(text string) error
	Format() string
	FormatDefault() string
	ShortLine() string
	FullBlock() string
	// Interface returns the current value as an untyped Go value.
	Interface() any

	// matchesText reports whether text, as found in a file, denotes the
	// current value.
	matchesText(text string) bool
}

// Entry is a single named, typed value with a default.
type Entry[T any] struct {
	name        string
	description string
	def         T
	current     T
	isDefault   bool
	codec       Codec[T]
	section     *Section
}

func (e *Entry[T]) Name() string        { return e.name }
func (e *Entry[T]) Description() string { return e.description }
func (e *Entry[T]) Section() *Section   { return e.section }
func (e *Entry[T]) Default() T          { return e.def }
func (e *Entry[T]) Get() T              { return e.current }
func (e *Entry[T]) Interface() any      { return e.current }

// Set changes the in-memory value. Nothing is written until the store is saved.
func (e *Entry[T]) Set(v T) {
	e.current = v
	e.isDefault = false
}

// IsDefault reports whether the entry has never been assigned, either by Set
// or by a loaded file, since construction or the last SetDefault.
func (e *Entry[T]) IsDefault() bool { return e.isDefault }

// MatchesDefault compares values only; it ignores how the value got there.
func (e *Entry[T]) MatchesDefault() bool { return e.codec.Equal(e.current, e.def) }

// SetDefault resets the entry and reports whether the value changed.
func (e *Entry[T]) SetDefault() bool {
	e.isDefault = true
	if e.codec.Equal(e.current, e.def) {
		return false
	}
	e.current = e.def
	return true
}

// Parse assigns the value denoted by text. The entry stops being a default
// even when parsing fails; on failure the previous value is kept.
func (e *Entry[T]) Parse(text string) error {
	e.isDefault = false
	v, err := e.codec.Parse(text)
	if err != nil {
		return oops.Wrapf(err, "entry %s", e.name)
	}
	e.current = v
	return nil
}

func (e *Entry[T]) Format() string        { return e.codec.Format(e.current) }
func (e *Entry[T]) FormatDefault() string { return e.codec.Format(e.def) }

// ShortLine renders "name=value".
func (e *Entry[T]) ShortLine() string {
	return e.name + "=" + e.Format()
}

// FullBlock renders the description as comment lines, the assignment and a
// blank separator line.
func (e *Entry[T]) FullBlock() string {
	var b strings.Builder
	if e.description != "" {
		for _, line := range strings.Split(e.description, "\n") {
			b.WriteString("# ")
			b.WriteString(line)
			b.WriteByte('\n')
		}
	}
	b.WriteString(e.ShortLine())
	b.WriteString("\n\n")
	return b.String()
}

func (e *Entry[T]) matchesText(text string) bool {
	text = strings.TrimSpace(text)
	if text == e.Format() {
		return true
	}
	v, err := e.codec.Parse(text)
	if err != nil {
		return false
	}
	return e.codec.Equal(v, e.current)
}
