package services

import (
	"context"
	"fmt"
	"strings"

	"fitfinder-backend/internal/domain/place"
	"fitfinder-backend/internal/places"
	"fitfinder-backend/internal/repository"
	fitfinder_errors "fitfinder-backend/pkg/errors"
	"fitfinder-backend/pkg/logger"

	"go.uber.org/zap"
)

const (
	DefaultRadius    = 1500
	MinRadius        = 100
	MaxRadius        = 50000
	maxPlacesIDBytes = 255
)

// NearbyCache stores raw provider results per search circle.
type NearbyCache interface {
	Get(ctx context.Context, lat, lng float64, radius int) ([]place.ProviderPlace, bool, error)
	Set(ctx context.Context, lat, lng float64, radius int, results []place.ProviderPlace) error
}

type PlacesService struct {
	placeRepo repository.PlaceRepository
	provider  places.Provider
	cache     NearbyCache
	bounds    place.Bounds
	log       *logger.Logger
}

// NewPlacesService wires the search pipeline. cache may be nil.
func NewPlacesService(placeRepo repository.PlaceRepository, provider places.Provider, cache NearbyCache, log *logger.Logger) *PlacesService {
	if log == nil {
		log = logger.GetGlobalLogger()
	}
	return &PlacesService{
		placeRepo: placeRepo,
		provider:  provider,
		cache:     cache,
		bounds:    place.ServiceArea,
		log:       log,
	}
}

type NearbyInput struct {
	Latitude  float64
	Longitude float64
	Radius    int
}

// SearchNearby returns gyms around the given point that lie inside the
// service area, each merged with its walk-in flag. Places seen for the first
// time are recorded with the default flag.
func (s *PlacesService) SearchNearby(ctx context.Context, in NearbyInput) ([]place.Gym, error) {
	if !s.bounds.Contains(in.Latitude, in.Longitude) {
		return nil, fitfinder_errors.ErrOutOfServiceArea
	}
	if in.Radius == 0 {
		in.Radius = DefaultRadius
	}
	if in.Radius < MinRadius || in.Radius > MaxRadius {
		return nil, fitfinder_errors.NewValidationError("radius", fmt.Sprintf("must be between %d and %d", MinRadius, MaxRadius))
	}

	results, err := s.fetch(ctx, in)
	if err != nil {
		return nil, err
	}

	retained := make([]place.ProviderPlace, 0, len(results))
	ids := make([]string, 0, len(results))
	seen := make(map[string]struct{}, len(results))
	for _, r := range results {
		if r.ID == "" || r.Location == nil || !s.bounds.Contains(r.Location.Latitude, r.Location.Longitude) {
			continue
		}
		if _, dup := seen[r.ID]; dup {
			continue
		}
		seen[r.ID] = struct{}{}
		retained = append(retained, r)
		ids = append(ids, r.ID)
	}

	flags, err := s.resolveWalkIn(ctx, ids)
	if err != nil {
		s.log.WithContext(ctx).Error("failed to store places", zap.Error(err), zap.Int("places", len(ids)))
		return nil, fmt.Errorf("%w: %v", fitfinder_errors.ErrPlacesStore, err)
	}

	gyms := make([]place.Gym, 0, len(retained))
	for _, r := range retained {
		walkIn, ok := flags[r.ID]
		if !ok {
			walkIn = place.DefaultWalkIn
		}
		gyms = append(gyms, place.Gym{
			ProviderPlace: r,
			PhotoURLs:     s.photoURLs(r.PhotoNames),
			WalkIn:        walkIn,
		})
	}
	return gyms, nil
}

// UpdateWalkIn sets the flag for placesID, creating the row if needed.
func (s *PlacesService) UpdateWalkIn(ctx context.Context, placesID string, walkIn bool) (place.Place, error) {
	placesID = strings.TrimSpace(placesID)
	if placesID == "" || len(placesID) > maxPlacesIDBytes {
		return place.Place{}, fitfinder_errors.NewValidationError("place_id", "must be between 1 and 255 characters")
	}
	return s.placeRepo.UpsertWalkIn(ctx, placesID, walkIn)
}

func (s *PlacesService) fetch(ctx context.Context, in NearbyInput) ([]place.ProviderPlace, error) {
	if s.cache != nil {
		cached, ok, err := s.cache.Get(ctx, in.Latitude, in.Longitude, in.Radius)
		if err != nil {
			s.log.WithContext(ctx).Warn("nearby cache read failed", zap.Error(err))
		} else if ok {
			return cached, nil
		}
	}

	results, err := s.provider.SearchNearby(ctx, place.Coordinates{Latitude: in.Latitude, Longitude: in.Longitude}, in.Radius)
	if err != nil {
		s.log.WithContext(ctx).Warn("places provider call failed", zap.Error(err))
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, in.Latitude, in.Longitude, in.Radius, results); err != nil {
			s.log.WithContext(ctx).Warn("nearby cache write failed", zap.Error(err))
		}
	}
	return results, nil
}

// resolveWalkIn reads the flags for ids in one transaction, inserting
// defaults for ids never seen before. Rows that another request inserted
// between the read and the insert are picked up by the second read.
func (s *PlacesService) resolveWalkIn(ctx context.Context, ids []string) (map[string]bool, error) {
	flags := make(map[string]bool, len(ids))
	if len(ids) == 0 {
		return flags, nil
	}

	err := s.placeRepo.InTx(ctx, func(tx repository.PlaceRepository) error {
		existing, err := tx.FindByPlacesIDs(ctx, ids)
		if err != nil {
			return err
		}
		for id, p := range existing {
			flags[id] = p.WalkIn
		}

		missing := make([]string, 0, len(ids)-len(existing))
		for _, id := range ids {
			if _, ok := existing[id]; !ok {
				missing = append(missing, id)
			}
		}
		if len(missing) == 0 {
			return nil
		}

		if err := tx.InsertDefaults(ctx, missing); err != nil {
			return err
		}
		inserted, err := tx.FindByPlacesIDs(ctx, missing)
		if err != nil {
			return err
		}
		for id, p := range inserted {
			flags[id] = p.WalkIn
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return flags, nil
}

func (s *PlacesService) photoURLs(names []string) []string {
	urls := make([]string, 0, len(names))
	for _, name := range names {
		if name != "" {
			urls = append(urls, s.provider.PhotoURL(name))
		}
	}
	return urls
}
