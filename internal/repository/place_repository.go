package repository

import (
	"context"
	"fmt"

	"fitfinder-backend/internal/domain/place"

	"github.com/doug-martin/goqu/v9"
)

type PostgresPlaceRepository struct {
	db DBTX
}

func NewPlaceRepository(db DBTX) PlaceRepository {
	return &PostgresPlaceRepository{db: db}
}

func (r *PostgresPlaceRepository) InTx(ctx context.Context, fn func(PlaceRepository) error) error {
	return WithTx(ctx, r.db, func(tx DBTX) error {
		return fn(&PostgresPlaceRepository{db: tx})
	})
}

func (r *PostgresPlaceRepository) FindByPlacesIDs(ctx context.Context, ids []string) (map[string]place.Place, error) {
	found := make(map[string]place.Place, len(ids))
	if len(ids) == 0 {
		return found, nil
	}

	query, args, err := dialect.From("places").Prepared(true).
		Select("id", "places_id", "walk_in").
		Where(goqu.Ex{"places_id": ids}).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build places query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var p place.Place
		if err := rows.Scan(&p.ID, &p.PlacesID, &p.WalkIn); err != nil {
			return nil, err
		}
		found[p.PlacesID] = p
	}
	return found, rows.Err()
}

func (r *PostgresPlaceRepository) InsertDefaults(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	rows := make([]interface{}, 0, len(ids))
	for _, id := range ids {
		rows = append(rows, goqu.Record{"places_id": id, "walk_in": place.DefaultWalkIn})
	}

	query, args, err := dialect.Insert("places").Prepared(true).
		Rows(rows...).
		OnConflict(goqu.DoNothing()).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build places insert: %w", err)
	}

	_, err = r.db.ExecContext(ctx, query, args...)
	return err
}

func (r *PostgresPlaceRepository) UpsertWalkIn(ctx context.Context, placesID string, walkIn bool) (place.Place, error) {
	query, args, err := dialect.Insert("places").Prepared(true).
		Rows(goqu.Record{"places_id": placesID, "walk_in": walkIn}).
		OnConflict(goqu.DoUpdate("places_id", goqu.Record{"walk_in": goqu.I("excluded.walk_in")})).
		Returning("id", "places_id", "walk_in").
		ToSQL()
	if err != nil {
		return place.Place{}, fmt.Errorf("build places upsert: %w", err)
	}

	var p place.Place
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&p.ID, &p.PlacesID, &p.WalkIn); err != nil {
		return place.Place{}, err
	}
	return p, nil
}
