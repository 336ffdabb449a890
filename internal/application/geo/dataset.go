package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"io/fs"

	"github.com/petnfc-api/internal/domain"
)

const (
	CountriesFile = "countries.json"
	StatesFile    = "states.json"
	CitiesFile    = "cities.json"
)

// Source opens a named dataset file.
type Source interface {
	Open(ctx context.Context, name string) (io.ReadCloser, error)
}

// FSSource reads dataset files from a filesystem, usually os.DirFS.
type FSSource struct {
	FS fs.FS
}

func (s FSSource) Open(_ context.Context, name string) (io.ReadCloser, error) {
	return s.FS.Open(name)
}

// LoadDataset reads and decodes all three files. Any missing or malformed
// file is an error.
func LoadDataset(ctx context.Context, src Source) (Dataset, error) {
	var ds Dataset
	files := []struct {
		name string
		dst  *[]domain.Place
	}{
		{CountriesFile, &ds.Countries},
		{StatesFile, &ds.States},
		{CitiesFile, &ds.Cities},
	}
	for _, f := range files {
		places, err := readPlaces(ctx, src, f.name)
		if err != nil {
			return Dataset{}, err
		}
		*f.dst = places
	}
	return ds, nil
}

func readPlaces(ctx context.Context, src Source, name string) ([]domain.Place, error) {
	rc, err := src.Open(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", name, err)
	}
	defer rc.Close()

	var places []domain.Place
	if err := json.NewDecoder(rc).Decode(&places); err != nil {
		return nil, fmt.Errorf("decode %s: %w", name, err)
	}
	return places, nil
}
