package util

import "fmt"

// Panicf panics with the formatted message as a string value.
func Panicf(format string, args ...any) {
	panic(fmt.Sprintf(format, args...))
}
