package matrix

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductEmptyAxisList(t *testing.T) {
	p := NewProduct(nil)
	assert.Equal(t, 0, p.Count())

	_, ok := p.Next()
	assert.False(t, ok, "empty axis list yields zero combinations")
}

func TestProductOneAxisEmpty(t *testing.T) {
	axes := []Axis{
		{Tag("A")},
		{}, // empty factor
		{Int(1)},
	}
	p := NewProduct(axes)
	assert.Equal(t, 0, p.Count())

	_, ok := p.Next()
	assert.False(t, ok, "a product with an empty factor is empty, not one empty row")
}

func TestProductSingleAxis(t *testing.T) {
	p := NewProduct([]Axis{{Tag("A"), Tag("B")}})
	require.Equal(t, 2, p.Count())

	combos := Generate([]Axis{{Tag("A"), Tag("B")}})
	require.Len(t, combos, 2)
	assert.Equal(t, NewCombination(Tag("A")), combos[0])
	assert.Equal(t, NewCombination(Tag("B")), combos[1])
}

func TestProductOrdering(t *testing.T) {
	axes := []Axis{
		{Tag("A"), Tag("B")},
		{Int(1), Int(2)},
	}
	combos := Generate(axes)

	// Rightmost axis increments fastest: (A,1),(A,2),(B,1),(B,2).
	require.Len(t, combos, 4)
	assert.Equal(t, NewCombination(Tag("A"), Int(1)), combos[0])
	assert.Equal(t, NewCombination(Tag("A"), Int(2)), combos[1])
	assert.Equal(t, NewCombination(Tag("B"), Int(1)), combos[2])
	assert.Equal(t, NewCombination(Tag("B"), Int(2)), combos[3])
}

func TestProductThreeAxesMixedKinds(t *testing.T) {
	axes := []Axis{
		{Tag("X")},
		{Bool(true), Bool(false)},
		{Uint(100), Uint(200)},
	}
	combos := Generate(axes)

	require.Len(t, combos, 4)
	assert.Equal(t, NewCombination(Tag("X"), Bool(true), Uint(100)), combos[0])
	assert.Equal(t, NewCombination(Tag("X"), Bool(true), Uint(200)), combos[1])
	assert.Equal(t, NewCombination(Tag("X"), Bool(false), Uint(100)), combos[2])
	assert.Equal(t, NewCombination(Tag("X"), Bool(false), Uint(200)), combos[3])
}

func TestProductCountMatchesAxisLengths(t *testing.T) {
	axes := []Axis{
		{Tag("A"), Tag("B"), Tag("C")},
		{Int(1), Int(2)},
		{String("x"), String("y"), String("z"), String("w")},
	}
	p := NewProduct(axes)
	assert.Equal(t, 3*2*4, p.Count())

	rows := 0
	p.Each(func(combo Combination) bool {
		assert.Equal(t, len(axes), combo.Len(), "every row has one cell per axis")
		rows++
		return true
	})
	assert.Equal(t, p.Count(), rows)

	// The count answers "how many total" and is unchanged by iteration.
	assert.Equal(t, 3*2*4, p.Count())
}

func TestProductDeterminism(t *testing.T) {
	axes := []Axis{
		{Tag("Sort"), Tag("Process")},
		{Uint(100), Uint(500)},
		{String("Low"), String("Medium")},
	}

	first := Generate(axes)
	second := Generate(axes)
	require.Equal(t, first, second, "same axes must reproduce the identical sequence")

	// A reset cursor replays the same sequence as well.
	p := NewProduct(axes)
	var pass1, pass2 []string
	p.Each(func(combo Combination) bool {
		pass1 = append(pass1, combo.IDSuffix())
		return true
	})
	p.Reset()
	p.Each(func(combo Combination) bool {
		pass2 = append(pass2, combo.IDSuffix())
		return true
	})
	assert.Equal(t, pass1, pass2)
}

func TestProductEachEarlyStop(t *testing.T) {
	axes := []Axis{{Tag("A"), Tag("B"), Tag("C")}}
	p := NewProduct(axes)

	rows := 0
	p.Each(func(Combination) bool {
		rows++
		return rows < 2
	})
	assert.Equal(t, 2, rows)
}

func TestProductRowsSurviveRelease(t *testing.T) {
	axes := []Axis{
		{Tag("A"), Tag("B")},
		{Int(1), Int(2)},
	}
	p := NewProduct(axes)

	// Interleave Next and Release: recycled buffers must not corrupt the
	// sequence that follows.
	var suffixes []string
	for {
		combo, ok := p.Next()
		if !ok {
			break
		}
		suffixes = append(suffixes, combo.IDSuffix())
		combo.Release()
	}
	assert.Equal(t, []string{"_A_Int1", "_A_Int2", "_B_Int1", "_B_Int2"}, suffixes)
}
