package matrix

import (
	"strconv"
	"unicode"

	stringpool "github.com/benchmatrix/benchmatrix/pkg/strings"
)

// Kind identifies the variant held by a CellValue.
type Kind uint8

const (
	// KindInvalid is the zero Kind; a zero CellValue holds no payload.
	KindInvalid Kind = iota
	// KindTag is a semantic tag or identifier, often used for named parameters.
	KindTag
	// KindString is a general-purpose string value.
	KindString
	// KindInt is a signed 64-bit integer value.
	KindInt
	// KindUint is an unsigned 64-bit integer value.
	KindUint
	// KindBool is a boolean value.
	KindBool
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindTag:
		return "Tag"
	case KindString:
		return "String"
	case KindInt:
		return "Int"
	case KindUint:
		return "Uint"
	case KindBool:
		return "Bool"
	default:
		return "Invalid"
	}
}

// CellValue is one typed scalar usable inside a parameter axis. It is a
// closed sum over tag, string, signed integer, unsigned integer, and boolean
// payloads. Values are immutable and comparable; two values are equal when
// both kind and payload match, so CellValue works as a map key.
type CellValue struct {
	kind Kind
	text string
	i64  int64
	u64  uint64
	b    bool
}

// Tag creates a tag cell. Tags carry identifier text rendered verbatim in
// benchmark identifiers.
func Tag(s string) CellValue {
	return CellValue{kind: KindTag, text: s}
}

// String creates a string cell.
func String(s string) CellValue {
	return CellValue{kind: KindString, text: s}
}

// Int creates a signed integer cell.
func Int(i int64) CellValue {
	return CellValue{kind: KindInt, i64: i}
}

// Uint creates an unsigned integer cell.
func Uint(u uint64) CellValue {
	return CellValue{kind: KindUint, u64: u}
}

// Bool creates a boolean cell.
func Bool(b bool) CellValue {
	return CellValue{kind: KindBool, b: b}
}

// Kind returns the variant held by the cell.
func (v CellValue) Kind() Kind {
	return v.kind
}

// String returns the display form of the cell: tags render as their raw
// text, strings are quoted for clarity, numeric and boolean payloads render
// in their canonical textual form. The rendering is deterministic; generated
// benchmark identifiers build on it.
func (v CellValue) String() string {
	switch v.kind {
	case KindTag:
		return v.text
	case KindString:
		return stringpool.Sprintf("%q", v.text)
	case KindInt:
		return strconv.FormatInt(v.i64, 10)
	case KindUint:
		return strconv.FormatUint(v.u64, 10)
	case KindBool:
		return strconv.FormatBool(v.b)
	default:
		return "<invalid>"
	}
}

// GoString returns the debug form of the cell, naming the variant, e.g.
// Tag(StdTokio) or Int(1024). Accessor errors use it to report the actual
// variant found.
func (v CellValue) GoString() string {
	switch v.kind {
	case KindTag:
		return stringpool.Sprintf("Tag(%s)", v.text)
	case KindString:
		return stringpool.Sprintf("String(%q)", v.text)
	case KindInt:
		return stringpool.Sprintf("Int(%d)", v.i64)
	case KindUint:
		return stringpool.Sprintf("Uint(%d)", v.u64)
	case KindBool:
		return stringpool.Sprintf("Bool(%t)", v.b)
	default:
		return "Invalid"
	}
}

// fragment returns the identifier fragment used in suffix generation:
// Tag renders raw, String is sanitized (every non-alphanumeric byte becomes
// '_'), and numeric/boolean payloads carry a variant prefix so 1024 the Int
// and 1024 the Uint stay distinguishable in benchmark names.
func (v CellValue) fragment(b *stringpool.Builder) {
	switch v.kind {
	case KindTag:
		b.WriteString(v.text)
	case KindString:
		for _, r := range v.text {
			if unicode.IsLetter(r) || unicode.IsDigit(r) {
				b.WriteString(string(r))
			} else {
				b.WriteByte('_')
			}
		}
	case KindInt:
		b.WriteString("Int")
		b.WriteString(strconv.FormatInt(v.i64, 10))
	case KindUint:
		b.WriteString("Uint")
		b.WriteString(strconv.FormatUint(v.u64, 10))
	case KindBool:
		b.WriteString("Bool")
		b.WriteString(strconv.FormatBool(v.b))
	}
}

// namedFragment is the fragment used when an axis name already labels the
// position: the name disambiguates, so numeric and boolean payloads render
// without the variant prefix.
func (v CellValue) namedFragment(b *stringpool.Builder) {
	switch v.kind {
	case KindInt:
		b.WriteString(strconv.FormatInt(v.i64, 10))
	case KindUint:
		b.WriteString(strconv.FormatUint(v.u64, 10))
	case KindBool:
		b.WriteString(strconv.FormatBool(v.b))
	default:
		v.fragment(b)
	}
}
