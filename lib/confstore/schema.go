package confstore

import (
	"strings"

	"github.com/sddm/sddm-sub001/lib/util"
)

// AddSection registers a new section. Registering the same name twice, or a
// name that could not round-trip through a [header] line, panics.
func (s *Store) AddSection(name string) *Section {
	if !validName(name) {
		util.Panicf("confstore: invalid section name %q", name)
	}
	if _, exists := s.sections[name]; exists {
		util.Panicf("confstore: section %q registered twice", name)
	}
	sec := &Section{
		name:    name,
		store:   s,
		entries: make(map[string]Value),
	}
	s.sections[name] = sec
	return sec
}

// Add registers a typed entry in sec. The entry starts at its default.
func Add[T any](sec *Section, name string, def T, description string, codec Codec[T]) *Entry[T] {
	if !validName(name) || strings.ContainsRune(name, '=') {
		util.Panicf("confstore: invalid entry name %q in section %s", name, sec.name)
	}
	if _, exists := sec.entries[name]; exists {
		util.Panicf("confstore: entry %s.%s registered twice", sec.name, name)
	}
	e := &Entry[T]{
		name:        name,
		description: description,
		def:         def,
		current:     def,
		isDefault:   true,
		codec:       codec,
		section:     sec,
	}
	sec.entries[name] = e
	return e
}

// Enum registers an entry whose values are drawn from names.
func Enum[T comparable](sec *Section, name string, def T, description string, names map[T]string) *Entry[T] {
	return Add(sec, name, def, description, EnumCodec(names))
}

func (s *Section) AddString(name, def, description string) *Entry[string] {
	return Add(s, name, def, description, StringCodec())
}

func (s *Section) AddBool(name string, def bool, description string) *Entry[bool] {
	return Add(s, name, def, description, BoolCodec())
}

func (s *Section) AddInt(name string, def int, description string) *Entry[int] {
	return Add(s, name, def, description, IntCodec[int]())
}

func (s *Section) AddUint(name string, def uint, description string) *Entry[uint] {
	return Add(s, name, def, description, UintCodec[uint]())
}

func (s *Section) AddFloat(name string, def float64, description string) *Entry[float64] {
	return Add(s, name, def, description, FloatCodec[float64]())
}

func (s *Section) AddStringList(name string, def []string, description string) *Entry[[]string] {
	return Add(s, name, def, description, StringListCodec())
}

func validName(name string) bool {
	return name != "" &&
		name == strings.TrimSpace(name) &&
		!strings.ContainsAny(name, "#[]\n")
}
