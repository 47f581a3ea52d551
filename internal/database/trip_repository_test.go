package database

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateTripTx(t *testing.T) {
	db, mock := newMockDB(t)

	date := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`INSERT INTO trips`).
		WithArgs(int64(1), int64(2), int64(3), date, "08:00", "10:30").
		WillReturnRows(sqlmock.NewRows([]string{"trip_id"}).AddRow(int64(77)))

	id, err := CreateTripTx(db, 1, 2, 3, date, "08:00", "10:30")
	require.NoError(t, err)
	assert.Equal(t, int64(77), id)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTripRepositoryGetByIDs(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTripRepository(db)

	mock.ExpectQuery(`SELECT trip_id, train_id, starting_station_id, ending_station_id, date, start_time, end_time`).
		WillReturnRows(sqlmock.NewRows([]string{"trip_id", "train_id", "starting_station_id", "ending_station_id", "date", "start_time", "end_time"}).
			AddRow(int64(77), int64(1), int64(2), int64(3), time.Now(), "08:00", "10:30"))

	trips, err := repo.GetByIDs([]int64{77})
	require.NoError(t, err)
	require.Len(t, trips, 1)
	assert.Equal(t, int64(77), trips[0].TripID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTripRepositoryGetByIDsEmpty(t *testing.T) {
	db, _ := newMockDB(t)
	repo := NewTripRepository(db)

	trips, err := repo.GetByIDs(nil)
	require.NoError(t, err)
	assert.Nil(t, trips)
}
