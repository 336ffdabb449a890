package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/petnfc-api/files"
	"github.com/petnfc-api/internal/application/geo"
	"github.com/petnfc-api/internal/config"
	"github.com/petnfc-api/internal/domain"
	s3infra "github.com/petnfc-api/internal/infrastructure/s3"
	"github.com/petnfc-api/internal/pkg/logger"
)

const embeddedDatasets = "embedded"

// datasetSource picks S3 for s3:// locations, the datasets compiled into the
// binary for "embedded", and the local filesystem otherwise.
func datasetSource(ctx context.Context, cfg *config.Config) (geo.Source, error) {
	if cfg.Geo.DatasetPath == embeddedDatasets {
		return geo.FSSource{FS: files.Datasets}, nil
	}
	if bucket, prefix, ok := s3infra.ParseLocation(cfg.Geo.DatasetPath); ok {
		client, err := s3infra.NewClient(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return s3infra.NewStore(client, bucket, prefix), nil
	}
	return geo.FSSource{FS: os.DirFS(cfg.Geo.DatasetPath)}, nil
}

func loadCatalog(ctx context.Context, cfg *config.Config) (*geo.Catalog, error) {
	src, err := datasetSource(ctx, cfg)
	if err != nil {
		return nil, err
	}
	ds, err := geo.LoadDataset(ctx, src)
	if err != nil {
		return nil, err
	}
	catalog, err := geo.NewCatalog(ds, cfg.Geo.EmptyQueryMatchesAll)
	if err != nil {
		return nil, err
	}
	logger.Info(ctx, "geo datasets loaded",
		zap.String("path", cfg.Geo.DatasetPath),
		zap.Int("countries", len(ds.Countries)),
		zap.Int("states", len(ds.States)),
		zap.Int("cities", len(ds.Cities)),
	)
	return catalog, nil
}

// geoCommand queries the datasets offline, the same way the API does.
func geoCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "geo",
		Short: "Queries the country, state and city datasets",
	}

	search := &cobra.Command{
		Use:   "search [prefix]",
		Short: "Prefix search by name",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, _ := cmd.Flags().GetString("kind")
			query := ""
			if len(args) == 1 {
				query = args[0]
			}

			ctx := cmd.Context()
			catalog, err := loadCatalog(ctx, cfg)
			if err != nil {
				return fmt.Errorf("load geo datasets: %w", err)
			}
			svc := geo.NewService(catalog)

			var res []domain.Place
			switch kind {
			case "country":
				res = svc.SearchCountries(query)
			case "state":
				res = svc.SearchStates(query)
			case "city":
				res = svc.SearchCities(query)
			default:
				return fmt.Errorf("unknown kind %q, want country, state or city", kind)
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(res)
		},
	}
	search.Flags().String("kind", "country", "dataset to search: country, state or city")

	cmd.AddCommand(search)
	return cmd
}
