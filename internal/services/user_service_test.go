package services

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/traits-rail/traits-core/internal/apperr"
	"github.com/traits-rail/traits-core/internal/database"
)

func newTestUserService(t *testing.T) (*UserService, sqlmock.Sqlmock) {
	t.Helper()
	mockSQL, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockSQL.Close() })
	db := &database.PostgresDB{DB: sqlx.NewDb(mockSQL, "postgres")}
	logger := logrus.New()
	logger.SetOutput(discardWriter{})
	return NewUserService(database.NewUserRepository(db), logger), mock
}

func TestAddUserDuplicateEmail(t *testing.T) {
	svc, mock := newTestUserService(t)

	mock.ExpectQuery(`SELECT user_id, details, email FROM users WHERE email = \$1`).
		WithArgs("rider@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "details", "email"}).
			AddRow(int64(1), "frequent traveller", "rider@example.com"))

	_, err := svc.AddUser("rider@example.com", "another account")
	assert.Equal(t, apperr.InvalidArgument, apperr.CodeOf(err))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAddUserMalformedEmail(t *testing.T) {
	svc, mock := newTestUserService(t)

	_, err := svc.AddUser("not-an-email", "rider")
	assert.Equal(t, apperr.InvalidArgument, apperr.CodeOf(err))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteUserNotFound(t *testing.T) {
	svc, mock := newTestUserService(t)

	mock.ExpectQuery(`SELECT user_id, details, email FROM users WHERE user_id = \$1`).
		WithArgs(int64(9)).
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "details", "email"}))

	err := svc.DeleteUser(9)
	assert.Equal(t, apperr.NotFound, apperr.CodeOf(err))
	require.NoError(t, mock.ExpectationsWereMet())
}
