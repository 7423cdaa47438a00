package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"fitfinder-backend/internal/domain/place"

	goredis "github.com/redis/go-redis/v9"
)

const DefaultNearbyTTL = 5 * time.Minute

// NearbyCache keeps raw provider results for a search circle for a short
// time. Walk-in flags are never cached here; they are always read from the
// database so flag updates are visible immediately.
type NearbyCache struct {
	client *goredis.Client
	ttl    time.Duration
}

func NewNearbyCache(client *goredis.Client, ttl time.Duration) *NearbyCache {
	if ttl <= 0 {
		ttl = DefaultNearbyTTL
	}
	return &NearbyCache{client: client, ttl: ttl}
}

func nearbyKey(lat, lng float64, radius int) string {
	return fmt.Sprintf("places:nearby:%.5f:%.5f:%d", lat, lng, radius)
}

// Get returns the cached results. ok is false on a cache miss.
func (c *NearbyCache) Get(ctx context.Context, lat, lng float64, radius int) ([]place.ProviderPlace, bool, error) {
	data, err := c.client.Get(ctx, nearbyKey(lat, lng, radius)).Bytes()
	if err == goredis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var places []place.ProviderPlace
	if err := json.Unmarshal(data, &places); err != nil {
		return nil, false, err
	}
	return places, true, nil
}

func (c *NearbyCache) Set(ctx context.Context, lat, lng float64, radius int, places []place.ProviderPlace) error {
	if places == nil {
		places = []place.ProviderPlace{}
	}
	data, err := json.Marshal(places)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, nearbyKey(lat, lng, radius), data, c.ttl).Err()
}

func (c *NearbyCache) Ping(ctx context.Context) error {
	return Ping(ctx, c.client)
}
