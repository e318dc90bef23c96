package matrix

// Product lazily enumerates the Cartesian product of a list of axes: every
// ordered tuple formed by choosing exactly one value from each axis, in
// lexicographic order with the rightmost axis incrementing fastest (outer
// loop is the first axis, innermost loop is the last). One row is
// materialized at a time; the total count is available up front without
// iterating.
//
// A Product is a single-pass cursor. It is not safe for concurrent use;
// call Reset to rewind.
type Product struct {
	axes    []Axis
	count   int
	indices []int
	done    bool
}

// NewProduct creates a product over the given axes. The axes are read, not
// copied; the caller must not mutate them while iterating. An empty axis
// list, or any individual empty axis, yields an empty product (a Cartesian
// product with an empty factor is empty, never a single empty row).
func NewProduct(axes []Axis) *Product {
	p := &Product{axes: axes}
	p.count = countCombinations(axes)
	p.indices = make([]int, len(axes))
	p.done = p.count == 0
	return p
}

// countCombinations computes the product of per-axis lengths.
func countCombinations(axes []Axis) int {
	if len(axes) == 0 {
		return 0
	}
	count := 1
	for _, axis := range axes {
		count *= len(axis)
	}
	return count
}

// Count returns the total number of combinations the product yields. It is
// precomputed from the axis lengths and does not change as rows are
// consumed: it answers "how many in total", not "how many remain".
func (p *Product) Count() int {
	return p.count
}

// Next returns the next combination, or ok=false once the product is
// exhausted. Returned rows draw their cell buffer from a pool; callers
// should Release each row when its lifecycle completes.
func (p *Product) Next() (Combination, bool) {
	if p.done {
		return Combination{}, false
	}

	cells := rowPool.Get()[:0]
	for i, axis := range p.axes {
		cells = append(cells, axis[p.indices[i]])
	}

	// Odometer increment, rightmost axis fastest.
	for i := len(p.axes) - 1; i >= 0; i-- {
		p.indices[i]++
		if p.indices[i] < len(p.axes[i]) {
			break
		}
		p.indices[i] = 0
		if i == 0 {
			p.done = true
		}
	}

	return Combination{cells: cells, pooled: true}, true
}

// Reset rewinds the cursor to the first combination. The regenerated
// sequence is identical to the first pass.
func (p *Product) Reset() {
	for i := range p.indices {
		p.indices[i] = 0
	}
	p.done = p.count == 0
}

// Each calls fn for every remaining combination, releasing each row after
// the callback returns. Iteration stops early if fn returns false. The
// row passed to fn must not be retained.
func (p *Product) Each(fn func(Combination) bool) {
	for {
		combo, ok := p.Next()
		if !ok {
			return
		}
		cont := fn(combo)
		combo.Release()
		if !cont {
			return
		}
	}
}

// Generate eagerly materializes all combinations of the given axes. The
// returned rows own their cell buffers and need no Release. Prefer a
// Product cursor for large matrices; Generate is convenient for small axis
// lists and tests.
func Generate(axes []Axis) []Combination {
	count := countCombinations(axes)
	if count == 0 {
		return nil
	}

	combos := make([]Combination, 0, count)
	p := NewProduct(axes)
	for {
		combo, ok := p.Next()
		if !ok {
			return combos
		}
		cells := make([]CellValue, len(combo.cells))
		copy(cells, combo.cells)
		combo.Release()
		combos = append(combos, Combination{cells: cells})
	}
}
