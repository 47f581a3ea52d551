package database

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateTicketTx(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectQuery(`INSERT INTO tickets`).
		WithArgs(int64(1), int64(9), true).
		WillReturnRows(sqlmock.NewRows([]string{"ticket_id"}).AddRow(int64(100)))
	mock.ExpectQuery(`SELECT ticket_id, user_id, trip_id, booking_time, reserved_seat, price`).
		WithArgs(int64(100)).
		WillReturnRows(sqlmock.NewRows([]string{"ticket_id", "user_id", "trip_id", "booking_time", "reserved_seat", "price"}).
			AddRow(int64(100), int64(1), int64(9), time.Now(), true, 450))

	ticket, err := CreateTicketTx(db, 1, 9, true)
	require.NoError(t, err)
	assert.Equal(t, int64(100), ticket.TicketID)
	assert.True(t, ticket.ReservedSeat)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTicketRepositoryGetByIDNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTicketRepository(db)

	mock.ExpectQuery(`SELECT ticket_id, user_id, trip_id, booking_time, reserved_seat, price`).
		WithArgs(int64(404)).
		WillReturnRows(sqlmock.NewRows([]string{"ticket_id", "user_id", "trip_id", "booking_time", "reserved_seat", "price"}))

	ticket, err := repo.GetByID(404)
	require.NoError(t, err)
	assert.Nil(t, ticket)
	require.NoError(t, mock.ExpectationsWereMet())
}
