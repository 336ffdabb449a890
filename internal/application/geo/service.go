package geo

import (
	"github.com/petnfc-api/internal/domain"
	"github.com/petnfc-api/internal/pkg/metrics"
)

type Service interface {
	Countries() []domain.Place
	Country(id int) (domain.Place, error)
	SearchCountries(query string) []domain.Place
	CountryStates(countryCode string) []domain.Option
	CountryCities(countryCode string) []domain.Place

	States() []domain.Place
	State(id int) (domain.Place, error)
	SearchStates(query string) []domain.Place
	StateCities(stateCode string) []domain.Option

	Cities() []domain.Place
	City(id int) (domain.Place, error)
	SearchCities(query string) []domain.Place
}

type service struct {
	catalog *Catalog
}

func NewService(c *Catalog) Service {
	return &service{catalog: c}
}

func (s *service) Countries() []domain.Place { return s.catalog.Countries.All() }

func (s *service) Country(id int) (domain.Place, error) { return s.catalog.Countries.GetByID(id) }

func (s *service) SearchCountries(query string) []domain.Place {
	return search(s.catalog.Countries, "country", query)
}

func (s *service) CountryStates(countryCode string) []domain.Option {
	states := s.catalog.States.GetByParent(ByCountry, countryCode)
	out := make([]domain.Option, 0, len(states))
	for _, st := range states {
		out = append(out, domain.Option{Label: st.Name, Value: st.StateCode})
	}
	return out
}

func (s *service) CountryCities(countryCode string) []domain.Place {
	return s.catalog.Cities.GetByParent(ByCountry, countryCode)
}

func (s *service) States() []domain.Place { return s.catalog.States.All() }

func (s *service) State(id int) (domain.Place, error) { return s.catalog.States.GetByID(id) }

func (s *service) SearchStates(query string) []domain.Place {
	return search(s.catalog.States, "state", query)
}

func (s *service) StateCities(stateCode string) []domain.Option {
	cities := s.catalog.Cities.GetByParent(ByState, stateCode)
	out := make([]domain.Option, 0, len(cities))
	for _, c := range cities {
		out = append(out, domain.Option{Label: c.Name, Value: c.ID})
	}
	return out
}

func (s *service) Cities() []domain.Place { return s.catalog.Cities.All() }

func (s *service) City(id int) (domain.Place, error) { return s.catalog.Cities.GetByID(id) }

func (s *service) SearchCities(query string) []domain.Place {
	return search(s.catalog.Cities, "city", query)
}

func search(idx *Index, kind, query string) []domain.Place {
	res := idx.Search(query)
	outcome := "hit"
	if len(res) == 0 {
		outcome = "miss"
	}
	metrics.GeoSearches.WithLabelValues(kind, outcome).Inc()
	return res
}
