package bag

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBag_AddMerges(t *testing.T) {
	b := New()
	b.Add("1", 2)
	b.Add("1", 3)
	assert.Equal(t, 5, b.Quantity("1"))
}

func TestBag_AddFloorsAtOne(t *testing.T) {
	b := New()
	b.Add("1", 0)
	b.Add("2", -5)
	assert.Equal(t, 1, b.Quantity("1"))
	assert.Equal(t, 1, b.Quantity("2"))
}

func TestBag_SetReplacesOrRemoves(t *testing.T) {
	b := Bag{"1": 4, "2_9": 1}

	b.Set("1", 2)
	assert.Equal(t, 2, b.Quantity("1"))

	b.Set("2_9", 0)
	_, ok := b["2_9"]
	assert.False(t, ok, "zero quantity must remove the line")

	b.Set("1", -1)
	assert.True(t, b.IsEmpty())
}

func TestBag_RemoveUnconditional(t *testing.T) {
	b := Bag{"1": 4}
	b.Remove("1")
	b.Remove("missing")
	assert.True(t, b.IsEmpty())
}

func TestBag_KeysSortedAndCloneIndependent(t *testing.T) {
	b := Bag{"3": 1, "1_2": 1, "2": 1}
	assert.Equal(t, []string{"1_2", "2", "3"}, b.Keys())

	c := b.Clone()
	c.Set("3", 9)
	assert.Equal(t, 1, b.Quantity("3"))
}
