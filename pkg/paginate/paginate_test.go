package paginate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseNumber(t *testing.T) {
	assert.Equal(t, 3, ParseNumber("3"))
	assert.Equal(t, 1, ParseNumber(""))
	assert.Equal(t, 1, ParseNumber("abc"))
	assert.Equal(t, -2, ParseNumber("-2"))
}

func TestClamp(t *testing.T) {
	cases := []struct {
		name     string
		number   int
		count    int64
		size     int
		want     int
		numPages int
		offset   int
	}{
		{"first", 1, 25, 10, 1, 3, 0},
		{"middle", 2, 25, 10, 2, 3, 10},
		{"past last clamps to last", 99, 25, 10, 3, 3, 20},
		{"zero clamps to first", 0, 25, 10, 1, 3, 0},
		{"negative clamps to first", -5, 25, 10, 1, 3, 0},
		{"empty set has one page", 4, 0, 10, 1, 1, 0},
		{"exact multiple", 2, 10, 5, 2, 2, 5},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := Clamp(tc.number, tc.count, tc.size)
			assert.Equal(t, tc.want, w.Number)
			assert.Equal(t, tc.numPages, w.NumPages)
			assert.Equal(t, tc.offset, w.Offset)
			assert.Equal(t, tc.size, w.Limit)
		})
	}
}

func TestNew(t *testing.T) {
	w := Clamp(2, 25, 10)
	p := New([]int{11, 12}, w, 25)
	assert.True(t, p.HasPrevious)
	assert.True(t, p.HasNext)
	assert.Equal(t, 3, p.NumPages)

	empty := New[int](nil, Clamp(1, 0, 10), 0)
	assert.NotNil(t, empty.Items)
	assert.False(t, empty.HasNext)
	assert.False(t, empty.HasPrevious)
}
