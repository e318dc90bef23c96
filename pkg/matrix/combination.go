package matrix

import (
	"github.com/benchmatrix/benchmatrix/pkg/errors"
	"github.com/benchmatrix/benchmatrix/pkg/pool"
	stringpool "github.com/benchmatrix/benchmatrix/pkg/strings"
	"go.uber.org/zap"
)

// Axis is one ordered list of candidate values for one configuration
// dimension. Axes are supplied and owned by the caller; the generator only
// reads them. Values on one axis need not share a kind, though callers
// typically keep an axis homogeneous by convention.
type Axis []CellValue

// Combination is one selection of exactly one cell per axis, positionally
// aligned to the axis list that produced it. Combinations are value objects:
// created by the generator, read by the extractor, then discarded. Rows
// produced by a Product draw their cell buffer from a pool; call Release
// when done with such a row.
type Combination struct {
	cells  []CellValue
	pooled bool
}

// rowPool recycles cell buffers across generated rows.
var rowPool = pool.New(
	func() []CellValue { return make([]CellValue, 0, 8) },
	nil,
)

// NewCombination builds a combination directly from cells. Intended for
// extractor tests and callers that construct rows by hand; rows built this
// way do not use the buffer pool.
func NewCombination(cells ...CellValue) Combination {
	return Combination{cells: cells}
}

// Len returns the number of cells in the row, which equals the number of
// axes for every row produced from a given axis list.
func (c Combination) Len() int {
	return len(c.cells)
}

// At returns the cell at the given position.
func (c Combination) At(index int) (CellValue, bool) {
	if index < 0 || index >= len(c.cells) {
		return CellValue{}, false
	}
	return c.cells[index], true
}

// Release returns a generator-produced row buffer to the pool. It is a
// no-op for hand-built combinations. The row must not be read afterwards.
func (c Combination) Release() {
	if c.pooled && c.cells != nil {
		rowPool.Put(c.cells[:0])
	}
}

// TagAt returns the tag text at index, or a validation error naming the
// index and the actual variant found.
func (c Combination) TagAt(index int) (string, error) {
	cell, err := c.cellOfKind(index, KindTag)
	if err != nil {
		return "", err
	}
	return cell.text, nil
}

// StringAt returns the string payload at index.
func (c Combination) StringAt(index int) (string, error) {
	cell, err := c.cellOfKind(index, KindString)
	if err != nil {
		return "", err
	}
	return cell.text, nil
}

// IntAt returns the signed integer payload at index.
func (c Combination) IntAt(index int) (int64, error) {
	cell, err := c.cellOfKind(index, KindInt)
	if err != nil {
		return 0, err
	}
	return cell.i64, nil
}

// UintAt returns the unsigned integer payload at index.
func (c Combination) UintAt(index int) (uint64, error) {
	cell, err := c.cellOfKind(index, KindUint)
	if err != nil {
		return 0, err
	}
	return cell.u64, nil
}

// BoolAt returns the boolean payload at index.
func (c Combination) BoolAt(index int) (bool, error) {
	cell, err := c.cellOfKind(index, KindBool)
	if err != nil {
		return false, err
	}
	return cell.b, nil
}

func (c Combination) cellOfKind(index int, kind Kind) (CellValue, error) {
	if index < 0 || index >= len(c.cells) {
		return CellValue{}, errors.Newf(errors.ErrorTypeValidation,
			"no cell at index %d", index).WithDetail("index", index)
	}
	cell := c.cells[index]
	if cell.kind != kind {
		return CellValue{}, errors.Newf(errors.ErrorTypeValidation,
			"expected %s at index %d, found %s", kind, index, cell.GoString()).
			WithDetail("index", index).
			WithDetail("found", cell.kind.String())
	}
	return cell, nil
}

// String renders the row for diagnostics, joining the display form of each
// cell: (Sort, 100, "Low").
func (c Combination) String() string {
	b := stringpool.GetBuilder()
	defer stringpool.PutBuilder(b)

	b.WriteByte('(')
	for i, cell := range c.cells {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(cell.String())
	}
	b.WriteByte(')')
	return stringpool.Clone(b.String())
}

// IDSuffix generates the unnamed identifier suffix for the row: each cell's
// fragment in axis order, each prefixed with '_'. An empty row yields "_".
//
// Example: cells [Tag(StdTokio), Int(1024), Bool(true)] produce
// "_StdTokio_Int1024_Booltrue".
func (c Combination) IDSuffix() string {
	b := stringpool.GetBuilder()
	defer stringpool.PutBuilder(b)

	b.WriteByte('_')
	for i, cell := range c.cells {
		if i > 0 {
			b.WriteByte('_')
		}
		cell.fragment(b)
	}
	return stringpool.Clone(b.String())
}

// NamedIDSuffix generates the named identifier suffix "_<Name>-<fragment>"
// per position. A name list whose length does not match the row length is a
// caller configuration error, not a crash condition: the unnamed suffix is
// returned alongside a non-nil error, which callers surface as a warning.
//
// Example: cells [Tag(Uring), Uint(512)] with names [Backend, BlockSize]
// produce "_Backend-Uring_BlockSize-512".
func (c Combination) NamedIDSuffix(names []string) (string, error) {
	if len(names) != len(c.cells) {
		return c.IDSuffix(), errors.Newf(errors.ErrorTypeConfig,
			"axis name count %d does not match combination length %d; using unnamed suffix",
			len(names), len(c.cells))
	}

	b := stringpool.GetBuilder()
	defer stringpool.PutBuilder(b)

	if len(c.cells) == 0 {
		b.WriteByte('_')
	}
	for i, cell := range c.cells {
		b.WriteByte('_')
		b.WriteString(names[i])
		b.WriteByte('-')
		cell.namedFragment(b)
	}
	return stringpool.Clone(b.String()), nil
}

// CaseName returns the harness display label for the row: the named suffix
// when names fit, the unnamed suffix otherwise, with the leading separator
// stripped for readability. Name mismatches are logged as a warning through
// the supplied logger and never fail.
func (c Combination) CaseName(names []string, log *zap.Logger) string {
	var suffix string
	if names != nil {
		var err error
		suffix, err = c.NamedIDSuffix(names)
		if err != nil && log != nil {
			log.Warn("axis name mismatch, falling back to unnamed suffix",
				zap.Int("names", len(names)),
				zap.Int("cells", len(c.cells)),
			)
		}
	} else {
		suffix = c.IDSuffix()
	}
	if len(suffix) > 0 && suffix[0] == '_' {
		suffix = suffix[1:]
	}
	return suffix
}
