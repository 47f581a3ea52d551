package database

import (
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrainRepositoryCreate(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTrainRepository(db)

	mock.ExpectQuery(`INSERT INTO trains`).
		WithArgs("Podi Menike", 200, 0).
		WillReturnRows(sqlmock.NewRows([]string{"train_id"}).AddRow(int64(7)))

	train, err := repo.Create("Podi Menike", 200, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(7), train.TrainID)
	assert.Equal(t, 200, train.Capacity)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTrainRepositoryGetByIDNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTrainRepository(db)

	mock.ExpectQuery(`SELECT train_id, train_name, capacity, status FROM trains WHERE train_id = \$1`).
		WithArgs(int64(99)).
		WillReturnRows(sqlmock.NewRows([]string{"train_id", "train_name", "capacity", "status"}))

	train, err := repo.GetByID(99)
	require.NoError(t, err)
	assert.Nil(t, train)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTrainRepositoryUpdateDetailsNoRowsAffected(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTrainRepository(db)

	mock.ExpectExec(`UPDATE trains SET train_name = \$1, capacity = \$2, status = \$3 WHERE train_id = \$4`).
		WithArgs("Podi Menike", 250, 1, int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateDetails(5, "Podi Menike", 250, 1)
	assert.ErrorIs(t, err, sql.ErrNoRows)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTrainRepositoryDelete(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTrainRepository(db)

	mock.ExpectExec(`DELETE FROM trains WHERE train_id = \$1`).
		WithArgs(int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Delete(5))
	require.NoError(t, mock.ExpectationsWereMet())
}
