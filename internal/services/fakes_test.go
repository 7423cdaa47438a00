package services

import (
	"context"
	"sync"
	"time"

	"fitfinder-backend/internal/domain/place"
	"fitfinder-backend/internal/domain/user"
	"fitfinder-backend/internal/repository"
	fitfinder_errors "fitfinder-backend/pkg/errors"
)

type fakeUserRepo struct {
	mu     sync.Mutex
	users  map[string]user.User
	nextID int64
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]user.User)}
}

func (r *fakeUserRepo) Create(_ context.Context, u *user.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Username == u.Username || existing.Email == u.Email {
			return fitfinder_errors.ErrAlreadyExists
		}
	}
	r.nextID++
	u.ID = r.nextID
	u.CreatedAt = time.Now()
	r.users[u.Username] = *u
	return nil
}

func (r *fakeUserRepo) GetUserByUsername(_ context.Context, username string) (user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[username]
	if !ok {
		return user.User{}, fitfinder_errors.ErrUserNotFound
	}
	return u, nil
}

func (r *fakeUserRepo) GetUserByEmail(_ context.Context, email string) (user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return user.User{}, fitfinder_errors.ErrUserNotFound
}

func (r *fakeUserRepo) ExistsByUsernameOrEmail(_ context.Context, username, email string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == username || u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeUserRepo) delete(username string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.users, username)
}

// fakePlaceRepo applies transactional work to a copy and swaps it in on
// commit, so a failed commit leaves no rows behind.
type fakePlaceRepo struct {
	rows      map[string]place.Place
	nextID    int64
	commitErr error
	// beforeInsert runs ahead of InsertDefaults and can simulate a
	// concurrent request writing the same ids.
	beforeInsert func(rows map[string]place.Place)
}

func newFakePlaceRepo() *fakePlaceRepo {
	return &fakePlaceRepo{rows: make(map[string]place.Place)}
}

var _ repository.PlaceRepository = (*fakePlaceRepo)(nil)

func (r *fakePlaceRepo) FindByPlacesIDs(_ context.Context, ids []string) (map[string]place.Place, error) {
	found := make(map[string]place.Place)
	for _, id := range ids {
		if p, ok := r.rows[id]; ok {
			found[id] = p
		}
	}
	return found, nil
}

func (r *fakePlaceRepo) InsertDefaults(_ context.Context, ids []string) error {
	if r.beforeInsert != nil {
		r.beforeInsert(r.rows)
	}
	for _, id := range ids {
		if _, ok := r.rows[id]; ok {
			continue
		}
		r.nextID++
		r.rows[id] = place.Place{ID: r.nextID, PlacesID: id, WalkIn: place.DefaultWalkIn}
	}
	return nil
}

func (r *fakePlaceRepo) UpsertWalkIn(_ context.Context, placesID string, walkIn bool) (place.Place, error) {
	p, ok := r.rows[placesID]
	if !ok {
		r.nextID++
		p = place.Place{ID: r.nextID, PlacesID: placesID}
	}
	p.WalkIn = walkIn
	r.rows[placesID] = p
	return p, nil
}

func (r *fakePlaceRepo) InTx(_ context.Context, fn func(repository.PlaceRepository) error) error {
	tx := &fakePlaceRepo{
		rows:         make(map[string]place.Place, len(r.rows)),
		nextID:       r.nextID,
		beforeInsert: r.beforeInsert,
	}
	for k, v := range r.rows {
		tx.rows[k] = v
	}
	if err := fn(tx); err != nil {
		return err
	}
	if r.commitErr != nil {
		return r.commitErr
	}
	r.rows = tx.rows
	r.nextID = tx.nextID
	return nil
}

type fakeProvider struct {
	results []place.ProviderPlace
	err     error
	calls   int
}

func (p *fakeProvider) SearchNearby(_ context.Context, _ place.Coordinates, _ int) ([]place.ProviderPlace, error) {
	p.calls++
	return p.results, p.err
}

func (p *fakeProvider) PhotoURL(name string) string {
	return "https://photos.test/" + name
}

type fakeNearbyCache struct {
	entries map[int][]place.ProviderPlace
}

func (c *fakeNearbyCache) Get(_ context.Context, _, _ float64, radius int) ([]place.ProviderPlace, bool, error) {
	r, ok := c.entries[radius]
	return r, ok, nil
}

func (c *fakeNearbyCache) Set(_ context.Context, _, _ float64, radius int, results []place.ProviderPlace) error {
	if c.entries == nil {
		c.entries = make(map[int][]place.ProviderPlace)
	}
	c.entries[radius] = results
	return nil
}
