// Package trie implements a rune-keyed prefix tree that accumulates integer ids.
//
// Every node on the path of an inserted word records the word's id, so a
// lookup by prefix returns the ids of all words starting with that prefix in
// insertion order. Ids are not deduplicated. The root records every id, which
// makes the empty prefix match everything.
package trie

type node struct {
	children map[rune]*node
	end      bool
	ids      []int
}

func newNode() *node {
	return &node{children: make(map[rune]*node)}
}

// Trie is not safe for concurrent mutation. Once all inserts are done it may
// be read from any number of goroutines.
type Trie struct {
	root *node
	size int
}

func New() *Trie {
	return &Trie{root: newNode()}
}

// Insert adds word under id.
func (t *Trie) Insert(word string, id int) {
	n := t.root
	n.ids = append(n.ids, id)
	for _, r := range word {
		child, ok := n.children[r]
		if !ok {
			child = newNode()
			n.children[r] = child
		}
		child.ids = append(child.ids, id)
		n = child
	}
	n.end = true
	t.size++
}

// Lookup returns the ids accumulated at the node reached by prefix, or nil
// when some rune of prefix has no matching child. The returned slice must not
// be modified.
func (t *Trie) Lookup(prefix string) []int {
	n := t.find(prefix)
	if n == nil {
		return nil
	}
	return n.ids
}

// Contains reports whether word was inserted as a whole word.
func (t *Trie) Contains(word string) bool {
	n := t.find(word)
	return n != nil && n.end
}

// Len is the number of inserted words.
func (t *Trie) Len() int { return t.size }

func (t *Trie) find(prefix string) *node {
	n := t.root
	for _, r := range prefix {
		child, ok := n.children[r]
		if !ok {
			return nil
		}
		n = child
	}
	return n
}
