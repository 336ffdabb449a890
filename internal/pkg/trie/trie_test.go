package trie

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func build() *Trie {
	t := New()
	t.Insert("Australia", 14)
	t.Insert("Austria", 15)
	t.Insert("Azerbaijan", 16)
	t.Insert("Åland Islands", 2)
	return t
}

func TestLookup_EveryPrefixAccumulates(t *testing.T) {
	tr := build()

	assert.Equal(t, []int{14, 15, 16}, tr.Lookup("A"))
	assert.Equal(t, []int{14, 15}, tr.Lookup("Aust"))
	assert.Equal(t, []int{14}, tr.Lookup("Australia"))
	assert.Equal(t, []int{16}, tr.Lookup("Az"))
}

func TestLookup_MissShortCircuits(t *testing.T) {
	tr := build()

	assert.Nil(t, tr.Lookup("Ax"))
	assert.Nil(t, tr.Lookup("Australiaz"))
	assert.Nil(t, tr.Lookup("australia"), "lookup is case sensitive")
}

func TestLookup_MultiByteRunes(t *testing.T) {
	tr := build()
	assert.Equal(t, []int{2}, tr.Lookup("Å"))
	assert.Equal(t, []int{2}, tr.Lookup("Åland"))
}

func TestLookup_EmptyPrefixReturnsRoot(t *testing.T) {
	tr := build()
	assert.Equal(t, []int{14, 15, 16, 2}, tr.Lookup(""))
}

func TestInsert_DuplicatesKept(t *testing.T) {
	tr := New()
	tr.Insert("Springfield", 1)
	tr.Insert("Springfield", 2)
	tr.Insert("Springfield", 1)

	assert.Equal(t, []int{1, 2, 1}, tr.Lookup("Spring"))
	assert.Equal(t, 3, tr.Len())
}

func TestContains(t *testing.T) {
	tr := build()
	assert.True(t, tr.Contains("Austria"))
	assert.False(t, tr.Contains("Aust"))
	assert.False(t, tr.Contains("Germany"))
}
