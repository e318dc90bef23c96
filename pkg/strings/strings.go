// Package strings provides pooled, low-allocation string building utilities
// used for benchmark identifier generation and diagnostic formatting.
package strings

import (
	"fmt"
	"sync"
	"unsafe"
)

// BytesToString converts byte slice to string without allocation.
// WARNING: The returned string shares memory with the byte slice.
// Do not modify the byte slice after calling this function.
func BytesToString(b []byte) string {
	if len(b) == 0 {
		return ""
	}
	return *(*string)(unsafe.Pointer(&b))
}

// Builder provides efficient string building backed by a reusable buffer.
type Builder struct {
	buf []byte
}

// NewBuilder creates a new string builder with the given initial capacity.
func NewBuilder(capacity int) *Builder {
	return &Builder{
		buf: make([]byte, 0, capacity),
	}
}

// WriteString appends a string to the builder.
func (b *Builder) WriteString(s string) {
	b.buf = append(b.buf, s...)
}

// WriteByte appends a single byte.
func (b *Builder) WriteByte(c byte) {
	b.buf = append(b.buf, c)
}

// Write implements the io.Writer interface.
func (b *Builder) Write(p []byte) (n int, err error) {
	b.buf = append(b.buf, p...)
	return len(p), nil
}

// String returns the built string using zero-copy conversion.
func (b *Builder) String() string {
	return BytesToString(b.buf)
}

// Len returns the length of the built string.
func (b *Builder) Len() int {
	return len(b.buf)
}

// Cap returns the capacity of the underlying buffer.
func (b *Builder) Cap() int {
	return cap(b.buf)
}

// Reset resets the builder for reuse.
func (b *Builder) Reset() {
	b.buf = b.buf[:0]
}

// Clone creates a copy of a string (useful when you need to own the memory).
func Clone(s string) string {
	if len(s) == 0 {
		return ""
	}
	b := make([]byte, len(s))
	copy(b, s)
	return BytesToString(b)
}

// builderPool holds builders sized for identifier suffixes and log lines,
// which are short in practice.
var builderPool = &sync.Pool{
	New: func() interface{} {
		return NewBuilder(256)
	},
}

// GetBuilder retrieves a pooled builder.
func GetBuilder() *Builder {
	return builderPool.Get().(*Builder)
}

// PutBuilder returns a builder to the pool after resetting it.
func PutBuilder(b *Builder) {
	b.Reset()
	builderPool.Put(b)
}

// Sprintf provides a pooled alternative to fmt.Sprintf.
func Sprintf(format string, args ...interface{}) string {
	if len(args) == 0 {
		return format
	}

	builder := GetBuilder()
	defer PutBuilder(builder)

	fmt.Fprintf(builder, format, args...)

	return Clone(builder.String())
}

// Join joins parts with a delimiter using a pooled builder.
func Join(parts []string, delimiter string) string {
	if len(parts) == 0 {
		return ""
	}
	if len(parts) == 1 {
		return parts[0]
	}

	builder := GetBuilder()
	defer PutBuilder(builder)

	builder.WriteString(parts[0])
	for i := 1; i < len(parts); i++ {
		builder.WriteString(delimiter)
		builder.WriteString(parts[i])
	}

	return Clone(builder.String())
}
