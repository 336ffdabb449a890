package geo

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petnfc-api/internal/domain"
)

var cities = []domain.Place{
	{ID: 1, Name: "Sydney", StateCode: "NSW", CountryCode: "AU"},
	{ID: 2, Name: "Newcastle", StateCode: "NSW", CountryCode: "AU"},
	{ID: 3, Name: "Melbourne", StateCode: "VIC", CountryCode: "AU"},
	{ID: 4, Name: "New York", StateCode: "NY", CountryCode: "US"},
	{ID: 5, Name: "Newark", StateCode: "NJ", CountryCode: "US"},
	{ID: 6, Name: "Zürich", StateCode: "ZH", CountryCode: "CH"},
}

func newCityIndex(t *testing.T, opts IndexOptions) *Index {
	t.Helper()
	opts.GroupBy = []ParentKey{ByState, ByCountry}
	idx, err := NewIndex(cities, opts)
	require.NoError(t, err)
	return idx
}

func names(places []domain.Place) []string {
	out := make([]string, len(places))
	for i, p := range places {
		out[i] = p.Name
	}
	return out
}

func TestSearch_EveryPrefixFindsPlace(t *testing.T) {
	idx := newCityIndex(t, IndexOptions{})

	for _, p := range cities {
		for i := 1; i <= len(p.Name); i++ {
			prefix := p.Name[:i]
			if !validUTF8Prefix(prefix) || capitalize(prefix) != prefix {
				continue
			}
			assert.Contains(t, idx.Search(prefix), p, "prefix %q", prefix)
		}
	}
}

func validUTF8Prefix(s string) bool {
	return strings.ToValidUTF8(s, "�") == s
}

func TestSearch_DatasetOrder(t *testing.T) {
	idx := newCityIndex(t, IndexOptions{})
	assert.Equal(t, []string{"Newcastle", "New York", "Newark"}, names(idx.Search("New")))
}

func TestSearch_CapitalizesQuery(t *testing.T) {
	idx := newCityIndex(t, IndexOptions{})

	assert.Equal(t, []string{"Sydney"}, names(idx.Search("syd")))
	assert.Equal(t, []string{"Sydney"}, names(idx.Search("sYD")))
	assert.Equal(t, []string{"Sydney"}, names(idx.Search("SYDNEY")))
	assert.Equal(t, []string{"Zürich"}, names(idx.Search("ZÜ")))
}

func TestSearch_LowercasesAfterFirstRune(t *testing.T) {
	idx := newCityIndex(t, IndexOptions{})

	assert.Empty(t, idx.Search("New Y"))
	assert.Equal(t, []string{"Newcastle", "New York", "Newark"}, names(idx.Search("NEW")))
}

func TestSearch_MissIsEmptyNotNil(t *testing.T) {
	idx := newCityIndex(t, IndexOptions{})

	res := idx.Search("Québec")
	assert.NotNil(t, res)
	assert.Empty(t, res)
}

func TestSearch_EmptyQuery(t *testing.T) {
	all := newCityIndex(t, IndexOptions{})
	assert.Equal(t, cities, all.Search(""))

	none := newCityIndex(t, IndexOptions{EmptyQueryMatchesNothing: true})
	assert.Empty(t, none.Search(""))
}

func TestGetByID(t *testing.T) {
	idx := newCityIndex(t, IndexOptions{})

	for _, p := range cities {
		got, err := idx.GetByID(p.ID)
		require.NoError(t, err)
		assert.Equal(t, p, got)
	}

	_, err := idx.GetByID(999)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestGetByParent(t *testing.T) {
	idx := newCityIndex(t, IndexOptions{})

	assert.Equal(t, []string{"Sydney", "Newcastle"}, names(idx.GetByParent(ByState, "NSW")))
	assert.Equal(t, []string{"Sydney", "Newcastle", "Melbourne"}, names(idx.GetByParent(ByCountry, "AU")))

	miss := idx.GetByParent(ByState, "QLD")
	assert.NotNil(t, miss)
	assert.Empty(t, miss)
}

func TestGetByParent_ReturnsCopy(t *testing.T) {
	idx := newCityIndex(t, IndexOptions{})

	got := idx.GetByParent(ByState, "NSW")
	got[0].Name = "changed"
	assert.Equal(t, "Sydney", idx.GetByParent(ByState, "NSW")[0].Name)
}

func TestNewIndex_RejectsNamelessRecord(t *testing.T) {
	_, err := NewIndex([]domain.Place{{ID: 1, Name: "A"}, {ID: 2}}, IndexOptions{})
	assert.Error(t, err)
}

func TestNewIndex_DuplicateIDsLastWins(t *testing.T) {
	idx, err := NewIndex([]domain.Place{{ID: 7, Name: "Alpha"}, {ID: 7, Name: "Beta"}}, IndexOptions{})
	require.NoError(t, err)

	got, err := idx.GetByID(7)
	require.NoError(t, err)
	assert.Equal(t, "Beta", got.Name)
	assert.Len(t, idx.Search("Beta"), 2, "id filter matches both records sharing the id")
}
