// Package matrix provides the parameter-matrix model for benchmatrix:
// typed cell values, parameter axes, and a lazy Cartesian-product generator
// that turns a list of axes into every combination of one value per axis.
//
// # Overview
//
// A benchmark matrix is declared as an ordered list of axes, each axis an
// ordered list of typed cell values:
//
//	axes := []matrix.Axis{
//	    {matrix.Tag("Sort"), matrix.Tag("Process")},
//	    {matrix.Uint(100), matrix.Uint(500)},
//	    {matrix.String("Low"), matrix.String("Medium")},
//	}
//
//	product := matrix.NewProduct(axes)
//	fmt.Println(product.Count()) // 8
//
//	for {
//	    combo, ok := product.Next()
//	    if !ok {
//	        break
//	    }
//	    algo, err := combo.TagAt(0)
//	    ...
//	    combo.Release()
//	}
//
// Combinations are produced lexicographically with the rightmost axis
// incrementing fastest, and the sequence is deterministic: generating twice
// from the same axes yields bit-identical rows. Row buffers are pooled;
// callers that are done with a row should call Release to recycle it.
//
// Typed accessors (TagAt, StringAt, IntAt, UintAt, BoolAt) are the sanctioned
// way to pull concrete values out of a row. Each fails with a descriptive
// validation error naming the index and the actual cell kind rather than
// silently coercing.
package matrix
