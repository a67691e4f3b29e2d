package confstore

import (
	"reflect"
	"slices"
	"strconv"
	"strings"

	"github.com/samber/oops"
)

// Codec converts between the textual form found in a config file and a typed value.
type Codec[T any] interface {
	// Parse converts the trimmed right-hand side of an assignment into a value.
	Parse(text string) (T, error)
	// Format renders a value the way it is written back to disk.
	Format(v T) string
	// Equal reports whether two values are semantically the same.
	Equal(a, b T) bool
}

// Integer is the set of signed integer types supported by IntCodec.
type Integer interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64
}

// Unsigned is the set of unsigned integer types supported by UintCodec.
type Unsigned interface {
	~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64
}

// Float is the set of floating point types supported by FloatCodec.
type Float interface {
	~float32 | ~float64
}

type stringCodec struct{}

// StringCodec keeps the raw text, trimmed. No escaping is applied.
func StringCodec() Codec[string] { return stringCodec{} }

func (stringCodec) Parse(text string) (string, error) { return strings.TrimSpace(text), nil }
func (stringCodec) Format(v string) string            { return v }
func (stringCodec) Equal(a, b string) bool            { return a == b }

type boolCodec struct{}

// BoolCodec treats a case-insensitive "true" as true and anything else as false.
func BoolCodec() Codec[bool] { return boolCodec{} }

func (boolCodec) Parse(text string) (bool, error) {
	return strings.EqualFold(strings.TrimSpace(text), "true"), nil
}

func (boolCodec) Format(v bool) string { return strconv.FormatBool(v) }
func (boolCodec) Equal(a, b bool) bool { return a == b }

type stringListCodec struct{}

// StringListCodec splits on commas, trims each token and drops empty ones.
func StringListCodec() Codec[[]string] { return stringListCodec{} }

func (stringListCodec) Parse(text string) ([]string, error) {
	var out []string
	for _, token := range strings.Split(text, ",") {
		if token = strings.TrimSpace(token); token != "" {
			out = append(out, token)
		}
	}
	return out, nil
}

func (stringListCodec) Format(v []string) string { return strings.Join(v, ",") }
func (stringListCodec) Equal(a, b []string) bool { return slices.Equal(a, b) }

type intCodec[T Integer] struct{ bits int }

// IntCodec parses base-10 signed integers sized to T.
func IntCodec[T Integer]() Codec[T] {
	return intCodec[T]{bits: reflect.TypeOf((*T)(nil)).Elem().Bits()}
}

func (c intCodec[T]) Parse(text string) (T, error) {
	v, err := strconv.ParseInt(strings.TrimSpace(text), 10, c.bits)
	if err != nil {
		return 0, oops.Wrapf(ErrInvalidValue, "%q is not an integer", text)
	}
	return T(v), nil
}

func (intCodec[T]) Format(v T) string { return strconv.FormatInt(int64(v), 10) }
func (intCodec[T]) Equal(a, b T) bool { return a == b }

type uintCodec[T Unsigned] struct{ bits int }

// UintCodec parses base-10 unsigned integers sized to T.
func UintCodec[T Unsigned]() Codec[T] {
	return uintCodec[T]{bits: reflect.TypeOf((*T)(nil)).Elem().Bits()}
}

func (c uintCodec[T]) Parse(text string) (T, error) {
	v, err := strconv.ParseUint(strings.TrimSpace(text), 10, c.bits)
	if err != nil {
		return 0, oops.Wrapf(ErrInvalidValue, "%q is not an unsigned integer", text)
	}
	return T(v), nil
}

func (uintCodec[T]) Format(v T) string { return strconv.FormatUint(uint64(v), 10) }
func (uintCodec[T]) Equal(a, b T) bool { return a == b }

type floatCodec[T Float] struct{ bits int }

// FloatCodec parses decimal or exponent notation floating point numbers.
func FloatCodec[T Float]() Codec[T] {
	return floatCodec[T]{bits: reflect.TypeOf((*T)(nil)).Elem().Bits()}
}

func (c floatCodec[T]) Parse(text string) (T, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(text), c.bits)
	if err != nil {
		return 0, oops.Wrapf(ErrInvalidValue, "%q is not a number", text)
	}
	return T(v), nil
}

func (c floatCodec[T]) Format(v T) string { return strconv.FormatFloat(float64(v), 'g', -1, c.bits) }
func (floatCodec[T]) Equal(a, b T) bool   { return a == b }

type enumCodec[T comparable] struct {
	names  map[T]string
	values map[string]T
}

// EnumCodec maps a fixed set of values to their textual names. Parsing is
// case-insensitive; formatting always yields the registered name.
func EnumCodec[T comparable](names map[T]string) Codec[T] {
	c := enumCodec[T]{
		names:  make(map[T]string, len(names)),
		values: make(map[string]T, len(names)),
	}
	for v, name := range names {
		c.names[v] = name
		c.values[strings.ToLower(name)] = v
	}
	return c
}

func (c enumCodec[T]) Parse(text string) (T, error) {
	v, ok := c.values[strings.ToLower(strings.TrimSpace(text))]
	if !ok {
		var zero T
		return zero, oops.Wrapf(ErrInvalidValue, "%q is not one of %s", text, strings.Join(c.sortedNames(), ", "))
	}
	return v, nil
}

func (c enumCodec[T]) Format(v T) string {
	if name, ok := c.names[v]; ok {
		return name
	}
	return ""
}

func (enumCodec[T]) Equal(a, b T) bool { return a == b }

func (c enumCodec[T]) sortedNames() []string {
	out := make([]string, 0, len(c.names))
	for _, name := range c.names {
		out = append(out, name)
	}
	slices.Sort(out)
	return out
}
