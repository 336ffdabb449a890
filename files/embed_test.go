package files

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petnfc-api/internal/application/geo"
)

func TestShippedDatasetsLoad(t *testing.T) {
	ds, err := geo.LoadDataset(context.Background(), geo.FSSource{FS: Datasets})
	require.NoError(t, err)

	cat, err := geo.NewCatalog(ds, true)
	require.NoError(t, err)
	svc := geo.NewService(cat)

	assert.Len(t, svc.CountryStates("AU"), 4)
	assert.Len(t, svc.StateCities("VIC"), 2)
	assert.Equal(t, "Canberra", svc.SearchCities("can")[0].Name)
}
