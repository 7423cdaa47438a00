package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlaceRepositoryFindByPlacesIDsSkipsEmptyInput(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPlaceRepository(db)

	found, err := repo.FindByPlacesIDs(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, found)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPlaceRepositoryFindByPlacesIDs(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPlaceRepository(db)

	mock.ExpectQuery(`SELECT "id", "places_id", "walk_in" FROM "places" WHERE \("places_id" IN \(\$1, \$2\)\)`).
		WithArgs("a", "b").
		WillReturnRows(sqlmock.NewRows([]string{"id", "places_id", "walk_in"}).
			AddRow(int64(1), "a", false))

	found, err := repo.FindByPlacesIDs(context.Background(), []string{"a", "b"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.False(t, found["a"].WalkIn)
	_, ok := found["b"]
	assert.False(t, ok)
}

func TestPlaceRepositoryInsertDefaultsIgnoresConflicts(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPlaceRepository(db)

	mock.ExpectExec(`INSERT INTO "places" .* ON CONFLICT DO NOTHING`).
		WillReturnResult(sqlmock.NewResult(0, 2))

	require.NoError(t, repo.InsertDefaults(context.Background(), []string{"a", "b"}))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPlaceRepositoryUpsertWalkIn(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPlaceRepository(db)

	mock.ExpectQuery(`INSERT INTO "places" .* ON CONFLICT .* DO UPDATE SET .*excluded.* RETURNING "id", "places_id", "walk_in"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "places_id", "walk_in"}).AddRow(int64(3), "abc", false))

	p, err := repo.UpsertWalkIn(context.Background(), "abc", false)
	require.NoError(t, err)
	assert.Equal(t, int64(3), p.ID)
	assert.Equal(t, "abc", p.PlacesID)
	assert.False(t, p.WalkIn)
}

func TestPlaceRepositoryInTxCommits(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPlaceRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "places"`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.InTx(context.Background(), func(tx PlaceRepository) error {
		return tx.InsertDefaults(context.Background(), []string{"a"})
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPlaceRepositoryInTxRollsBackOnError(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPlaceRepository(db)

	mock.ExpectBegin()
	mock.ExpectRollback()

	boom := errors.New("boom")
	err := repo.InTx(context.Background(), func(PlaceRepository) error { return boom })
	assert.ErrorIs(t, err, boom)
	assert.NoError(t, mock.ExpectationsWereMet())
}
