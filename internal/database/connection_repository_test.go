package database

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnectionRepositoryCreate(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewConnectionRepository(db)

	mock.ExpectQuery(`INSERT INTO connections`).
		WithArgs("Colombo Fort", "Kandy", 180).
		WillReturnRows(sqlmock.NewRows([]string{"connection_id"}).AddRow(int64(3)))

	conn, err := repo.Create("Colombo Fort", "Kandy", 180)
	require.NoError(t, err)
	assert.Equal(t, int64(3), conn.ConnectionID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestConnectionRepositoryExists(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewConnectionRepository(db)

	mock.ExpectQuery(`SELECT connection_id, starting_station, ending_station, travel_time`).
		WithArgs("Colombo Fort", "Kandy").
		WillReturnRows(sqlmock.NewRows([]string{"connection_id", "starting_station", "ending_station", "travel_time"}).
			AddRow(int64(3), "Colombo Fort", "Kandy", 180))

	exists, err := repo.Exists("Colombo Fort", "Kandy")
	require.NoError(t, err)
	assert.True(t, exists)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestConnectionRepositoryExistsFalse(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewConnectionRepository(db)

	mock.ExpectQuery(`SELECT connection_id, starting_station, ending_station, travel_time`).
		WithArgs("Kandy", "Colombo Fort").
		WillReturnRows(sqlmock.NewRows([]string{"connection_id", "starting_station", "ending_station", "travel_time"}))

	exists, err := repo.Exists("Kandy", "Colombo Fort")
	require.NoError(t, err)
	assert.False(t, exists)
	require.NoError(t, mock.ExpectationsWereMet())
}
