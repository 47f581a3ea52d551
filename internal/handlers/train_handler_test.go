package handlers

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/traits-rail/traits-core/internal/database"
	"github.com/traits-rail/traits-core/internal/services"
)

func newTestTrainHandler(t *testing.T) (*TrainHandler, sqlmock.Sqlmock) {
	t.Helper()
	mockSQL, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockSQL.Close() })
	db := &database.PostgresDB{DB: sqlx.NewDb(mockSQL, "postgres")}
	logger := logrus.New()
	logger.Out = bytes.NewBuffer(nil)
	svc := services.NewTrainService(database.NewTrainRepository(db), logger)
	return NewTrainHandler(svc), mock
}

func TestAddTrainMissingName(t *testing.T) {
	handler, _ := newTestTrainHandler(t)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	body := []byte(`{"capacity": 200}`)
	c.Request, _ = http.NewRequest(http.MethodPost, "/trains", bytes.NewBuffer(body))
	c.Request.Header.Set("Content-Type", "application/json")

	handler.AddTrain(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateTrainDetailsInvalidID(t *testing.T) {
	handler, _ := newTestTrainHandler(t)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	c.Params = gin.Params{{Key: "id", Value: "not-a-number"}}
	body := []byte(`{"name": "Udarata Menike", "capacity": 150}`)
	c.Request, _ = http.NewRequest(http.MethodPut, "/trains/not-a-number", bytes.NewBuffer(body))
	c.Request.Header.Set("Content-Type", "application/json")

	handler.UpdateTrainDetails(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetCurrentStatusUnknownTrainReturnsNilStatus(t *testing.T) {
	handler, mock := newTestTrainHandler(t)

	mock.ExpectQuery(`SELECT train_id, train_name, capacity, status FROM trains WHERE train_id = \$1`).
		WithArgs(int64(9)).
		WillReturnRows(sqlmock.NewRows([]string{"train_id", "train_name", "capacity", "status"}))

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Params = gin.Params{{Key: "id", Value: "9"}}
	c.Request, _ = http.NewRequest(http.MethodGet, "/trains/9/status", nil)

	handler.GetCurrentStatus(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status": null}`, w.Body.String())
	require.NoError(t, mock.ExpectationsWereMet())
}
