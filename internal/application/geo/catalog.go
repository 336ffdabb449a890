package geo

import (
	"fmt"

	"github.com/petnfc-api/internal/domain"
)

// Dataset is the raw content of the three reference files.
type Dataset struct {
	Countries []domain.Place
	States    []domain.Place
	Cities    []domain.Place
}

// Catalog holds one index per dataset. States are grouped by country, cities
// by state and by country.
type Catalog struct {
	Countries *Index
	States    *Index
	Cities    *Index
}

func NewCatalog(ds Dataset, emptyQueryMatchesAll bool) (*Catalog, error) {
	base := IndexOptions{EmptyQueryMatchesNothing: !emptyQueryMatchesAll}

	countries, err := NewIndex(ds.Countries, base)
	if err != nil {
		return nil, fmt.Errorf("countries: %w", err)
	}

	opts := base
	opts.GroupBy = []ParentKey{ByCountry}
	states, err := NewIndex(ds.States, opts)
	if err != nil {
		return nil, fmt.Errorf("states: %w", err)
	}

	opts.GroupBy = []ParentKey{ByState, ByCountry}
	cities, err := NewIndex(ds.Cities, opts)
	if err != nil {
		return nil, fmt.Errorf("cities: %w", err)
	}

	return &Catalog{Countries: countries, States: states, Cities: cities}, nil
}
