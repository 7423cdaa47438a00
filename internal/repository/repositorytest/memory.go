// Package repositorytest provides in-memory repositories for tests of the
// layers above the database.
package repositorytest

import (
	"context"
	"sync"
	"time"

	"fitfinder-backend/internal/domain/place"
	"fitfinder-backend/internal/domain/user"
	"fitfinder-backend/internal/repository"
	fitfinder_errors "fitfinder-backend/pkg/errors"
)

type UserRepository struct {
	mu     sync.Mutex
	users  []user.User
	nextID int64
}

var _ repository.UserRepository = (*UserRepository)(nil)

func NewUserRepository() *UserRepository {
	return &UserRepository{}
}

func (r *UserRepository) Create(_ context.Context, u *user.User) error {
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
	r.users = append(r.users, *u)
	return nil
}

func (r *UserRepository) GetUserByUsername(_ context.Context, username string) (user.User, error) {
	return r.find(func(u user.User) bool { return u.Username == username })
}

func (r *UserRepository) GetUserByEmail(_ context.Context, email string) (user.User, error) {
	return r.find(func(u user.User) bool { return u.Email == email })
}

func (r *UserRepository) ExistsByUsernameOrEmail(_ context.Context, username, email string) (bool, error) {
	_, err := r.find(func(u user.User) bool { return u.Username == username || u.Email == email })
	return err == nil, nil
}

// Delete removes a user, simulating an account dropped behind a live session.
func (r *UserRepository) Delete(username string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.users[:0]
	for _, u := range r.users {
		if u.Username != username {
			kept = append(kept, u)
		}
	}
	r.users = kept
}

func (r *UserRepository) find(match func(user.User) bool) (user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if match(u) {
			return u, nil
		}
	}
	return user.User{}, fitfinder_errors.ErrUserNotFound
}

type PlaceRepository struct {
	mu     sync.Mutex
	rows   map[string]place.Place
	nextID int64
}

var _ repository.PlaceRepository = (*PlaceRepository)(nil)

func NewPlaceRepository() *PlaceRepository {
	return &PlaceRepository{rows: make(map[string]place.Place)}
}

func (r *PlaceRepository) FindByPlacesIDs(_ context.Context, ids []string) (map[string]place.Place, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	found := make(map[string]place.Place)
	for _, id := range ids {
		if p, ok := r.rows[id]; ok {
			found[id] = p
		}
	}
	return found, nil
}

func (r *PlaceRepository) InsertDefaults(_ context.Context, ids []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range ids {
		if _, ok := r.rows[id]; ok {
			continue
		}
		r.nextID++
		r.rows[id] = place.Place{ID: r.nextID, PlacesID: id, WalkIn: place.DefaultWalkIn}
	}
	return nil
}

func (r *PlaceRepository) UpsertWalkIn(_ context.Context, placesID string, walkIn bool) (place.Place, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.rows[placesID]
	if !ok {
		r.nextID++
		p = place.Place{ID: r.nextID, PlacesID: placesID}
	}
	p.WalkIn = walkIn
	r.rows[placesID] = p
	return p, nil
}

// InTx runs fn directly; the memory store has no isolation to offer.
func (r *PlaceRepository) InTx(_ context.Context, fn func(repository.PlaceRepository) error) error {
	return fn(r)
}

// Rows returns a snapshot of every stored place.
func (r *PlaceRepository) Rows() map[string]place.Place {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string]place.Place, len(r.rows))
	for k, v := range r.rows {
		out[k] = v
	}
	return out
}
