package connector

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParamsSetGet(t *testing.T) {
	p := NewParams()
	assert.False(t, p.Has("amount"))
	assert.Equal(t, "", p.Get("amount"))

	p.Set("amount", "10.00")
	assert.True(t, p.Has("amount"))
	assert.Equal(t, "10.00", p.Get("amount"))

	p.Set("amount", "20.00")
	assert.Equal(t, "20.00", p.Get("amount"))
	assert.Equal(t, 1, p.Len())
}

func TestParamsKeysKeepInsertionOrder(t *testing.T) {
	p := NewParams()
	p.Set("b", "2")
	p.Set("a", "1")
	p.Set("c", "3")
	p.Set("a", "updated")

	assert.Equal(t, []string{"b", "a", "c"}, p.Keys())
}

func TestParamsDelete(t *testing.T) {
	p := ParamsFrom(map[string]string{"a": "1"})
	p.Delete("a")
	assert.False(t, p.Has("a"))
	assert.Equal(t, 0, p.Len())

	// deleting a missing key is a no-op
	p.Delete("missing")
}

func TestParamsTypedGetters(t *testing.T) {
	p := NewParams()
	p.Set("count", "42")
	p.Set("rate", "1.5")
	p.Set("enabled", "true")
	p.Set("junk", "abc")

	n, ok := p.GetInt("count")
	assert.True(t, ok)
	assert.Equal(t, 42, n)

	_, ok = p.GetInt("junk")
	assert.False(t, ok)

	f, ok := p.GetFloat("rate")
	assert.True(t, ok)
	assert.Equal(t, 1.5, f)

	assert.True(t, p.GetBool("enabled"))
	assert.False(t, p.GetBool("junk"))
	assert.False(t, p.GetBool("missing"))
}

func TestParamsMerge(t *testing.T) {
	p := NewParams()
	p.Set("a", "1")
	p.Set("b", "2")

	other := NewParams()
	other.Set("b", "override")
	other.Set("c", "3")

	p.Merge(other)
	assert.Equal(t, "1", p.Get("a"))
	assert.Equal(t, "override", p.Get("b"))
	assert.Equal(t, "3", p.Get("c"))
	assert.Equal(t, []string{"a", "b", "c"}, p.Keys())
}

func TestParamsCopyIsIndependent(t *testing.T) {
	p := NewParams()
	p.Set("a", "1")

	clone := p.Copy()
	clone.Set("a", "changed")
	clone.Set("b", "2")

	assert.Equal(t, "1", p.Get("a"))
	assert.False(t, p.Has("b"))
}
