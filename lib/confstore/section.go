package confstore

import (
	"slices"
	"strings"
)

// Section groups entries under a [name] header.
type Section struct {
	name    string
	store   *Store
	entries map[string]Value
}

func (s *Section) Name() string  { return s.name }
func (s *Section) Store() *Store { return s.store }

// IsImplicit reports whether this is the section that receives keys
// appearing before any header.
func (s *Section) IsImplicit() bool { return s.store.implicit == s }

// Entry returns the named entry, or nil.
func (s *Section) Entry(name string) Value {
	return s.entries[name]
}

// Entries returns the section's entries ordered by name.
func (s *Section) Entries() []Value {
	out := make([]Value, 0, len(s.entries))
	for _, e := range s.entries {
		out = append(out, e)
	}
	slices.SortFunc(out, func(a, b Value) int { return strings.Compare(a.Name(), b.Name()) })
	return out
}

// Clear resets every entry to its default.
func (s *Section) Clear() {
	for _, e := range s.entries {
		e.SetDefault()
	}
}

func (s *Section) ShortHeader() string {
	return "[" + s.name + "]"
}

func (s *Section) FullBlock() string {
	var b strings.Builder
	b.WriteString(s.ShortHeader())
	b.WriteByte('\n')
	for _, e := range s.Entries() {
		b.WriteString(e.FullBlock())
	}
	return b.String()
}
