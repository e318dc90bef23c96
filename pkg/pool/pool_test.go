package pool

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type rowBuf struct {
	cells []int
}

func TestPoolGetPut(t *testing.T) {
	p := New(
		func() *rowBuf { return &rowBuf{cells: make([]int, 0, 8)} },
		func(r *rowBuf) { r.cells = r.cells[:0] },
	)

	r := p.Get()
	assert.NotNil(t, r)
	r.cells = append(r.cells, 1, 2, 3)

	p.Put(r)

	r2 := p.Get()
	assert.Empty(t, r2.cells, "pooled object must be reset before reuse")
	p.Put(r2)
}

func TestPoolNilReset(t *testing.T) {
	p := New(func() int { return 42 }, nil)

	v := p.Get()
	assert.Equal(t, 42, v)
	p.Put(v)
}

func TestPoolStats(t *testing.T) {
	p := New(func() *rowBuf { return &rowBuf{} }, nil)

	r := p.Get()
	allocated, inUse, hits := p.Stats()
	assert.GreaterOrEqual(t, allocated, int64(1))
	assert.Equal(t, int64(1), inUse)
	assert.Equal(t, int64(1), hits)

	p.Put(r)
	_, inUse, _ = p.Stats()
	assert.Equal(t, int64(0), inUse)
}
