package geo

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/petnfc-api/internal/domain"
	"github.com/petnfc-api/internal/pkg/trie"
)

// ParentKey names a relationship attribute places can be grouped by.
type ParentKey string

const (
	ByCountry ParentKey = "country_code"
	ByState   ParentKey = "state_code"
)

func (k ParentKey) code(p domain.Place) string {
	switch k {
	case ByCountry:
		return p.CountryCode
	case ByState:
		return p.StateCode
	}
	return ""
}

// IndexOptions controls how an Index is built.
type IndexOptions struct {
	// GroupBy lists the parent attributes to build lookup tables for.
	GroupBy []ParentKey
	// EmptyQueryMatchesNothing makes Search("") return no results instead of
	// the whole dataset.
	EmptyQueryMatchesNothing bool
}

// Index is an immutable in-memory view over one dataset: a name trie, an id
// table and parent-code groupings. All methods are safe for concurrent use.
type Index struct {
	places   []domain.Place
	names    *trie.Trie
	byID     map[int]int
	byParent map[ParentKey]map[string][]domain.Place
	opts     IndexOptions
}

// NewIndex builds an index over places. Records without a name are
// rejected so the process never serves a partially indexed dataset.
func NewIndex(places []domain.Place, opts IndexOptions) (*Index, error) {
	idx := &Index{
		places:   places,
		names:    trie.New(),
		byID:     make(map[int]int, len(places)),
		byParent: make(map[ParentKey]map[string][]domain.Place, len(opts.GroupBy)),
		opts:     opts,
	}
	for _, k := range opts.GroupBy {
		idx.byParent[k] = make(map[string][]domain.Place)
	}

	for i, p := range places {
		if p.Name == "" {
			return nil, fmt.Errorf("record %d (id %d) has no name", i, p.ID)
		}
		idx.names.Insert(p.Name, p.ID)
		idx.byID[p.ID] = i
		for _, k := range opts.GroupBy {
			code := k.code(p)
			idx.byParent[k][code] = append(idx.byParent[k][code], p)
		}
	}
	return idx, nil
}

// Search returns the places whose name starts with query, in dataset order.
// The query is capitalized before matching: the first rune is upper-cased and
// the rest lower-cased, so "SYD" finds "Sydney" but "New y" misses "New York".
func (idx *Index) Search(query string) []domain.Place {
	if query == "" && idx.opts.EmptyQueryMatchesNothing {
		return []domain.Place{}
	}
	ids := idx.names.Lookup(capitalize(query))
	if len(ids) == 0 {
		return []domain.Place{}
	}

	want := make(map[int]struct{}, len(ids))
	for _, id := range ids {
		want[id] = struct{}{}
	}
	out := make([]domain.Place, 0, len(want))
	for _, p := range idx.places {
		if _, ok := want[p.ID]; ok {
			out = append(out, p)
		}
	}
	return out
}

// GetByID returns domain.ErrNotFound when id is not in the dataset. When ids
// repeat, the last record wins.
func (idx *Index) GetByID(id int) (domain.Place, error) {
	i, ok := idx.byID[id]
	if !ok {
		return domain.Place{}, fmt.Errorf("place %d: %w", id, domain.ErrNotFound)
	}
	return idx.places[i], nil
}

// GetByParent returns the places grouped under code, in dataset order.
// An unknown code or an ungrouped key yields an empty slice.
func (idx *Index) GetByParent(key ParentKey, code string) []domain.Place {
	group := idx.byParent[key][code]
	if len(group) == 0 {
		return []domain.Place{}
	}
	out := make([]domain.Place, len(group))
	copy(out, group)
	return out
}

// All returns a copy of the dataset.
func (idx *Index) All() []domain.Place {
	out := make([]domain.Place, len(idx.places))
	copy(out, idx.places)
	return out
}

func (idx *Index) Len() int { return len(idx.places) }

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + strings.ToLower(s[size:])
}
