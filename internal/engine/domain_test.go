package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBitSetDomainBasics(t *testing.T) {
	d := NewBitSetDomain(10)
	assert.Equal(t, 10, d.Count())
	assert.False(t, d.IsSingleton())

	d2 := d.RemoveAbove(5).RemoveBelow(3)
	assert.Equal(t, []int{3, 4, 5}, d2.Values())

	min, ok := d2.Min()
	require.True(t, ok)
	assert.Equal(t, 3, min)

	max, ok := d2.Max()
	require.True(t, ok)
	assert.Equal(t, 5, max)
}

func TestBitSetDomainSingleton(t *testing.T) {
	d := NewSingletonDomain(20, 7)
	assert.True(t, d.IsSingleton())
	v, ok := d.SingletonValue()
	require.True(t, ok)
	assert.Equal(t, 7, v)
}

func TestBitSetDomainIntersectUnion(t *testing.T) {
	a := NewBitSetDomainFromValues(10, 1, 2, 3, 4)
	b := NewBitSetDomainFromValues(10, 3, 4, 5, 6)

	inter := a.Intersect(b)
	assert.Equal(t, []int{3, 4}, inter.Values())

	union := a.Union(b)
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6}, union.Values())
}

func TestBitSetDomainEqual(t *testing.T) {
	a := NewBitSetDomainFromValues(10, 1, 2, 3)
	b := NewBitSetDomainFromValues(10, 3, 2, 1)
	assert.True(t, a.Equal(b))

	c := NewBitSetDomainFromValues(10, 1, 2)
	assert.False(t, a.Equal(c))
}

func TestBitSetDomainMultiWord(t *testing.T) {
	d := NewBitSetDomain(130)
	assert.Equal(t, 130, d.Count())
	d2 := d.Remove(65).Remove(129)
	assert.False(t, d2.Has(65))
	assert.False(t, d2.Has(129))
	assert.True(t, d2.Has(1))
	assert.True(t, d2.Has(130))
}
