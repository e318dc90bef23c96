package matrix

import (
	"testing"

	"github.com/benchmatrix/benchmatrix/pkg/errors"
	"github.com/benchmatrix/benchmatrix/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTypedAccessors(t *testing.T) {
	combo := NewCombination(Tag("Sort"), Uint(100), String("Low"), Int(-5), Bool(true))

	tag, err := combo.TagAt(0)
	require.NoError(t, err)
	assert.Equal(t, "Sort", tag)

	u, err := combo.UintAt(1)
	require.NoError(t, err)
	assert.Equal(t, uint64(100), u)

	s, err := combo.StringAt(2)
	require.NoError(t, err)
	assert.Equal(t, "Low", s)

	i, err := combo.IntAt(3)
	require.NoError(t, err)
	assert.Equal(t, int64(-5), i)

	b, err := combo.BoolAt(4)
	require.NoError(t, err)
	assert.True(t, b)
}

func TestTypedAccessorKindMismatch(t *testing.T) {
	combo := NewCombination(Tag("Sort"), Uint(100))

	_, err := combo.TagAt(1)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeValidation))
	assert.Contains(t, err.Error(), "expected Tag at index 1")
	assert.Contains(t, err.Error(), "found Uint(100)")

	_, err = combo.IntAt(1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected Int at index 1")

	_, err = combo.BoolAt(0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "found Tag(Sort)")
}

func TestTypedAccessorMissingCell(t *testing.T) {
	combo := NewCombination(Tag("Sort"))

	_, err := combo.TagAt(3)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no cell at index 3")

	_, err = combo.UintAt(-1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no cell at index -1")
}

func TestIDSuffix(t *testing.T) {
	combo := NewCombination(Tag("StdTokio"), Int(1024), Bool(true))
	assert.Equal(t, "_StdTokio_Int1024_Booltrue", combo.IDSuffix())

	// Tags with hyphens pass through untouched.
	combo = NewCombination(Tag("StdTokio"), Tag("HWM-Low"), Int(1024), Bool(true))
	assert.Equal(t, "_StdTokio_HWM-Low_Int1024_Booltrue", combo.IDSuffix())

	// Strings are sanitized: non-alphanumerics become underscores.
	combo = NewCombination(String("My Param"))
	assert.Equal(t, "_My_Param", combo.IDSuffix())

	// Empty combination yields just the separator.
	assert.Equal(t, "_", NewCombination().IDSuffix())
}

func TestNamedIDSuffix(t *testing.T) {
	combo := NewCombination(Tag("Uring"), Uint(512))

	suffix, err := combo.NamedIDSuffix([]string{"Backend", "BlockSize"})
	require.NoError(t, err)
	assert.Equal(t, "_Backend-Uring_BlockSize-512", suffix)

	// The axis name already labels the position, so numeric and boolean
	// payloads drop the variant prefix; strings stay sanitized.
	combo = NewCombination(Int(-7), Bool(true), String("My Param"))
	suffix, err = combo.NamedIDSuffix([]string{"Offset", "Pinned", "Label"})
	require.NoError(t, err)
	assert.Equal(t, "_Offset--7_Pinned-true_Label-My_Param", suffix)
}

func TestNamedIDSuffixMismatchFallsBack(t *testing.T) {
	combo := NewCombination(Tag("Uring"), Uint(512))

	suffix, err := combo.NamedIDSuffix([]string{"Backend"})
	require.Error(t, err, "mismatched name count must be surfaced")
	assert.True(t, errors.IsType(err, errors.ErrorTypeConfig))
	assert.Equal(t, "_Uring_Uint512", suffix, "fallback is the unnamed suffix")
}

func TestCaseName(t *testing.T) {
	log := testutil.TestLogger(t)
	combo := NewCombination(Tag("Uring"), Uint(512))

	assert.Equal(t, "Backend-Uring_BlockSize-512",
		combo.CaseName([]string{"Backend", "BlockSize"}, log))
	assert.Equal(t, "Uring_Uint512", combo.CaseName(nil, log))

	// Mismatch warns and falls back, never fails.
	assert.Equal(t, "Uring_Uint512", combo.CaseName([]string{"Backend"}, log))
}

func TestCombinationString(t *testing.T) {
	combo := NewCombination(Tag("Sort"), Uint(100), String("Low"))
	assert.Equal(t, `(Sort, 100, "Low")`, combo.String())
}

func TestCombinationAt(t *testing.T) {
	combo := NewCombination(Tag("Sort"))

	cell, ok := combo.At(0)
	require.True(t, ok)
	assert.Equal(t, Tag("Sort"), cell)

	_, ok = combo.At(1)
	assert.False(t, ok)
}
