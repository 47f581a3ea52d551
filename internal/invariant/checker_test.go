package invariant

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/traits-rail/traits-core/internal/apperr"
	"github.com/traits-rail/traits-core/internal/database"
	"github.com/traits-rail/traits-core/internal/models"
)

func newTestChecker(t *testing.T) (*Checker, sqlmock.Sqlmock) {
	t.Helper()
	mockSQL, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockSQL.Close() })
	db := &database.PostgresDB{DB: sqlx.NewDb(mockSQL, "postgres")}
	checker := NewChecker(
		database.NewStationRepository(db),
		database.NewConnectionRepository(db),
		database.NewTrainRepository(db),
		database.NewScheduleRepository(db),
	)
	return checker, mock
}

func TestCheckStationPairSameName(t *testing.T) {
	checker, _ := newTestChecker(t)

	_, _, err := checker.CheckStationPair("Colombo Fort", "Colombo Fort")
	assert.Equal(t, apperr.InvalidArgument, apperr.CodeOf(err))
}

func TestCheckStationPairUnknownStart(t *testing.T) {
	checker, mock := newTestChecker(t)

	mock.ExpectQuery(`SELECT station_id, name FROM stations WHERE name = \$1`).
		WithArgs("Nowhere").
		WillReturnRows(sqlmock.NewRows([]string{"station_id", "name"}))

	_, _, err := checker.CheckStationPair("Nowhere", "Kandy")
	assert.Equal(t, apperr.NotFound, apperr.CodeOf(err))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckSegmentBoundsOutOfRange(t *testing.T) {
	checker, _ := newTestChecker(t)

	err := checker.CheckSegmentBounds(0)
	assert.Equal(t, apperr.InvalidArgument, apperr.CodeOf(err))

	err = checker.CheckSegmentBounds(61)
	assert.Equal(t, apperr.InvalidArgument, apperr.CodeOf(err))

	require.NoError(t, checker.CheckSegmentBounds(30))
}

func TestCheckScheduleAdmissibleTrainNotFound(t *testing.T) {
	checker, mock := newTestChecker(t)

	mock.ExpectQuery(`SELECT train_id, train_name, capacity, status FROM trains WHERE train_id = \$1`).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"train_id", "train_name", "capacity", "status"}))

	_, err := checker.CheckScheduleAdmissible(models.ScheduleRequest{TrainID: 1})
	assert.Equal(t, apperr.InvalidArgument, apperr.CodeOf(err))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckScheduleAdmissibleTooFewStops(t *testing.T) {
	checker, mock := newTestChecker(t)

	mock.ExpectQuery(`SELECT train_id, train_name, capacity, status FROM trains WHERE train_id = \$1`).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"train_id", "train_name", "capacity", "status"}).
			AddRow(int64(1), "Podi Menike", 200, 0))

	req := models.ScheduleRequest{
		TrainID: 1,
		StartHH: 8,
		StartMM: 0,
		Stops:   []models.Stop{{StationID: 1}},
	}
	_, err := checker.CheckScheduleAdmissible(req)
	assert.Equal(t, apperr.InvalidArgument, apperr.CodeOf(err))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckScheduleAdmissibleNoSegment(t *testing.T) {
	checker, mock := newTestChecker(t)

	mock.ExpectQuery(`SELECT train_id, train_name, capacity, status FROM trains WHERE train_id = \$1`).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"train_id", "train_name", "capacity", "status"}).
			AddRow(int64(1), "Podi Menike", 200, 0))
	mock.ExpectQuery(`SELECT station_id, name FROM stations WHERE station_id = \$1`).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"station_id", "name"}).AddRow(int64(1), "Colombo Fort"))
	mock.ExpectQuery(`SELECT station_id, name FROM stations WHERE station_id = \$1`).
		WithArgs(int64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"station_id", "name"}).AddRow(int64(2), "Kandy"))
	mock.ExpectQuery(`SELECT connection_id, starting_station, ending_station, travel_time`).
		WithArgs("Colombo Fort", "Kandy").
		WillReturnRows(sqlmock.NewRows([]string{"connection_id", "starting_station", "ending_station", "travel_time"}))

	req := models.ScheduleRequest{
		TrainID: 1,
		StartHH: 8,
		StartMM: 0,
		Stops: []models.Stop{
			{StationID: 1, WaitingMinutes: 0},
			{StationID: 2, WaitingMinutes: 15},
		},
		ValidFrom:  time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
		ValidUntil: time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC),
	}
	_, err := checker.CheckScheduleAdmissible(req)
	assert.Equal(t, apperr.InvalidArgument, apperr.CodeOf(err))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckScheduleAdmissibleTerminusDwellTooShort(t *testing.T) {
	checker, mock := newTestChecker(t)

	mock.ExpectQuery(`SELECT train_id, train_name, capacity, status FROM trains WHERE train_id = \$1`).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"train_id", "train_name", "capacity", "status"}).
			AddRow(int64(1), "Podi Menike", 200, 0))
	mock.ExpectQuery(`SELECT station_id, name FROM stations WHERE station_id = \$1`).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"station_id", "name"}).AddRow(int64(1), "Colombo Fort"))
	mock.ExpectQuery(`SELECT station_id, name FROM stations WHERE station_id = \$1`).
		WithArgs(int64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"station_id", "name"}).AddRow(int64(2), "Kandy"))
	mock.ExpectQuery(`SELECT connection_id, starting_station, ending_station, travel_time`).
		WithArgs("Colombo Fort", "Kandy").
		WillReturnRows(sqlmock.NewRows([]string{"connection_id", "starting_station", "ending_station", "travel_time"}).
			AddRow(int64(1), "Colombo Fort", "Kandy", 180))

	req := models.ScheduleRequest{
		TrainID: 1,
		StartHH: 8,
		StartMM: 0,
		Stops: []models.Stop{
			{StationID: 1, WaitingMinutes: 0},
			{StationID: 2, WaitingMinutes: 5},
		},
		ValidFrom:  time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
		ValidUntil: time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC),
	}
	_, err := checker.CheckScheduleAdmissible(req)
	assert.Equal(t, apperr.InvalidArgument, apperr.CodeOf(err))
	require.NoError(t, mock.ExpectationsWereMet())
}

// admissibleScheduleMocks sets up every expectation CheckScheduleAdmissible
// issues before reaching checkCrossDayGap: train, both stations, and the
// one connection between them. Callers still owe the ListOverlappingWindows
// and ListAllForTrain expectations in that order.
func admissibleScheduleMocks(mock sqlmock.Sqlmock) {
	mock.ExpectQuery(`SELECT train_id, train_name, capacity, status FROM trains WHERE train_id = \$1`).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"train_id", "train_name", "capacity", "status"}).
			AddRow(int64(1), "Podi Menike", 200, 0))
	mock.ExpectQuery(`SELECT station_id, name FROM stations WHERE station_id = \$1`).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"station_id", "name"}).AddRow(int64(1), "Colombo Fort"))
	mock.ExpectQuery(`SELECT station_id, name FROM stations WHERE station_id = \$1`).
		WithArgs(int64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"station_id", "name"}).AddRow(int64(2), "Kandy"))
	mock.ExpectQuery(`SELECT connection_id, starting_station, ending_station, travel_time`).
		WithArgs("Colombo Fort", "Kandy").
		WillReturnRows(sqlmock.NewRows([]string{"connection_id", "starting_station", "ending_station", "travel_time"}).
			AddRow(int64(1), "Colombo Fort", "Kandy", 10))
}

func crossDayGapRequest() models.ScheduleRequest {
	return models.ScheduleRequest{
		TrainID: 1,
		StartHH: 0,
		StartMM: 5,
		Stops: []models.Stop{
			{StationID: 1, WaitingMinutes: 0},
			{StationID: 2, WaitingMinutes: 15},
		},
		ValidFrom:  time.Date(2026, 8, 2, 0, 0, 0, 0, time.UTC),
		ValidUntil: time.Date(2026, 8, 2, 0, 0, 0, 0, time.UTC),
	}
}

func TestCheckScheduleAdmissibleCrossDayGapTooShort(t *testing.T) {
	checker, mock := newTestChecker(t)
	admissibleScheduleMocks(mock)

	mock.ExpectQuery(`SELECT schedule_id, train_id, starting_station_id, ending_station_id`).
		WithArgs(int64(1), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"schedule_id", "train_id", "starting_station_id", "ending_station_id", "start_time", "end_time", "valid_from", "valid_until"}))
	mock.ExpectQuery(`SELECT schedule_id, train_id, starting_station_id, ending_station_id`).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"schedule_id", "train_id", "starting_station_id", "ending_station_id", "start_time", "end_time", "valid_from", "valid_until"}).
			AddRow(int64(5), int64(1), int64(1), int64(2), "20:00:00", "23:55:00",
				time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC), time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)))

	_, err := checker.CheckScheduleAdmissible(crossDayGapRequest())
	assert.Equal(t, apperr.InvalidArgument, apperr.CodeOf(err))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckScheduleAdmissibleCrossDayGapNonAdjacentSchedulePasses(t *testing.T) {
	checker, mock := newTestChecker(t)
	admissibleScheduleMocks(mock)

	mock.ExpectQuery(`SELECT schedule_id, train_id, starting_station_id, ending_station_id`).
		WithArgs(int64(1), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"schedule_id", "train_id", "starting_station_id", "ending_station_id", "start_time", "end_time", "valid_from", "valid_until"}))
	// A schedule weeks away on the same train, ending late at night — must
	// not be mistaken for the immediately preceding calendar day.
	mock.ExpectQuery(`SELECT schedule_id, train_id, starting_station_id, ending_station_id`).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"schedule_id", "train_id", "starting_station_id", "ending_station_id", "start_time", "end_time", "valid_from", "valid_until"}).
			AddRow(int64(6), int64(1), int64(1), int64(2), "20:00:00", "23:55:00",
				time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)))

	_, err := checker.CheckScheduleAdmissible(crossDayGapRequest())
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckScheduleAdmissibleCrossDayGapAdjacentSufficientPasses(t *testing.T) {
	checker, mock := newTestChecker(t)
	admissibleScheduleMocks(mock)

	mock.ExpectQuery(`SELECT schedule_id, train_id, starting_station_id, ending_station_id`).
		WithArgs(int64(1), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"schedule_id", "train_id", "starting_station_id", "ending_station_id", "start_time", "end_time", "valid_from", "valid_until"}))
	mock.ExpectQuery(`SELECT schedule_id, train_id, starting_station_id, ending_station_id`).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"schedule_id", "train_id", "starting_station_id", "ending_station_id", "start_time", "end_time", "valid_from", "valid_until"}).
			AddRow(int64(7), int64(1), int64(1), int64(2), "08:00:00", "10:00:00",
				time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC), time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)))

	_, err := checker.CheckScheduleAdmissible(crossDayGapRequest())
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestIntervalsOverlap(t *testing.T) {
	assert.True(t, intervalsOverlap(0, 100, 50, 150))
	assert.False(t, intervalsOverlap(0, 100, 100, 200))
}

func TestParseHHMM(t *testing.T) {
	minutes, err := parseHHMM("08:30:00")
	require.NoError(t, err)
	assert.Equal(t, 8*60+30, minutes)

	minutes, err = parseHHMM("08:30")
	require.NoError(t, err)
	assert.Equal(t, 8*60+30, minutes)
}
