package models

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPageNormalizes(t *testing.T) {
	assert.Equal(t, Page{Page: 1, Limit: 10}, NewPage(0, 0, 10))
	assert.Equal(t, Page{Page: 3, Limit: 100}, NewPage(3, 500, 10))
	assert.Equal(t, 40, NewPage(3, 20, 10).Offset())
}

func TestNewPageHugePageDoesNotOverflow(t *testing.T) {
	p := NewPage(math.MaxInt64/50, 100, 10)
	assert.GreaterOrEqual(t, p.Offset(), 0)
	assert.LessOrEqual(t, p.Offset(), maxOffset)

	pg := p.Paginate(5)
	assert.False(t, pg.HasNext)
	assert.True(t, pg.HasPrev)

	// Page, собранный вручную, тоже не уходит в минус
	raw := Page{Page: math.MaxInt64 / 50, Limit: 100}
	assert.Equal(t, maxOffset, raw.Offset())
}

func TestAllItems(t *testing.T) {
	p := AllItems()
	assert.True(t, p.Unbounded())
	assert.Zero(t, p.Offset())
	assert.Nil(t, p.LimitArg())
	assert.Equal(t, Pagination{Current: 1, Total: 1, TotalItems: 60}, p.Paginate(60))
	assert.Equal(t, Pagination{Current: 1}, p.Paginate(0))

	assert.Equal(t, 20, NewPage(1, 20, 10).LimitArg())
}
