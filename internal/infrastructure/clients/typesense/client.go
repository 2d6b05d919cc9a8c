package typesense

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/typesense/typesense-go/v2/typesense"
	"github.com/typesense/typesense-go/v2/typesense/api"
	"github.com/typesense/typesense-go/v2/typesense/api/pointer"

	"github.com/ayursutra/wellness-portal/pkg/config"
	"github.com/ayursutra/wellness-portal/pkg/retry"
)

const (
	// CentresCollection holds the self-hosted centre directory
	CentresCollection = "centres"
)

// Client represents a Typesense client
type Client struct {
	client *typesense.Client
}

// NewClient creates a new Typesense client and waits for the server to report healthy
func NewClient(ctx context.Context, cfg *config.TypesenseConfig) (*Client, error) {
	client := typesense.NewClient(
		typesense.WithServer(cfg.URL),
		typesense.WithAPIKey(cfg.APIKey),
		typesense.WithConnectionTimeout(5*time.Second),
	)

	err := retry.DoWithLog(ctx, retry.DefaultConfig(), "typesense", func(ctx context.Context) error {
		healthy, err := client.Health(ctx, 2*time.Second)
		if err != nil {
			return err
		}
		if !healthy {
			return fmt.Errorf("typesense reported unhealthy")
		}
		return nil
	}, func(attempt int, err error, nextDelay time.Duration) {
		log.Warn().Err(err).Int("attempt", attempt).Dur("retry_in", nextDelay).Msg("typesense health check failed")
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Typesense: %w", err)
	}

	return &Client{client: client}, nil
}

// Client returns the underlying Typesense client
func (c *Client) Client() *typesense.Client {
	return c.client
}

// InitSchema ensures the centres collection exists
func (c *Client) InitSchema(ctx context.Context) error {
	if _, err := c.client.Collection(CentresCollection).Retrieve(ctx); err == nil {
		return nil
	}

	schema := &api.CollectionSchema{
		Name: CentresCollection,
		Fields: []api.Field{
			{Name: "id", Type: "string"},
			{Name: "name", Type: "string"},
			{Name: "address", Type: "string"},
			{Name: "location", Type: "geopoint"},
			{Name: "rating", Type: "float", Optional: pointer.True()},
			{Name: "user_ratings_total", Type: "int32", Optional: pointer.True()},
			{Name: "phone", Type: "string", Optional: pointer.True()},
			{Name: "website", Type: "string", Optional: pointer.True()},
		},
	}

	if _, err := c.client.Collections().Create(ctx, schema); err != nil {
		return fmt.Errorf("failed to create collection %s: %w", CentresCollection, err)
	}

	log.Info().Str("collection", CentresCollection).Msg("created typesense collection")
	return nil
}
