package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/traits-rail/traits-core/internal/models"
)

// ScheduleRepository handles Schedule persistence and the lookups the
// Invariant Checker needs to validate overlap (invariant 6) and the
// cross-day gap (invariant 7). Schedules are immutable once added, so this
// repository exposes no update or delete.
type ScheduleRepository struct {
	db DB
}

// NewScheduleRepository creates a new schedule repository.
func NewScheduleRepository(db DB) *ScheduleRepository {
	return &ScheduleRepository{db: db}
}

// CreateScheduleTx inserts the Schedule row within the given execer (plain
// connection or open transaction), returning the generated id.
func CreateScheduleTx(exec Execer, req models.ScheduleRequest, startTime, endTime string) (int64, error) {
	var id int64
	query := `INSERT INTO schedules
		(train_id, starting_station_id, ending_station_id, start_time, end_time, valid_from, valid_until)
		VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING schedule_id`
	err := exec.QueryRow(query,
		req.TrainID, req.Stops[0].StationID, req.Stops[len(req.Stops)-1].StationID,
		startTime, endTime, req.ValidFrom, req.ValidUntil,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to create schedule: %w", err)
	}
	return id, nil
}

// ListOverlappingWindows returns every schedule of trainID whose validity
// window intersects [from, until], for invariant 6's overlap check.
func (r *ScheduleRepository) ListOverlappingWindows(trainID int64, from, until time.Time) ([]models.Schedule, error) {
	var rows []models.Schedule
	query := `SELECT schedule_id, train_id, starting_station_id, ending_station_id,
	          start_time, end_time, valid_from, valid_until
	          FROM schedules
	          WHERE train_id = $1 AND valid_from <= $3 AND valid_until >= $2`
	if err := r.db.Select(&rows, query, trainID, from, until); err != nil {
		return nil, fmt.Errorf("failed to list overlapping schedules: %w", err)
	}
	return rows, nil
}

// ListAllForTrain returns every schedule for trainID, used by invariant 7's
// cross-day gap check against the immediately preceding/following day.
func (r *ScheduleRepository) ListAllForTrain(trainID int64) ([]models.Schedule, error) {
	var rows []models.Schedule
	query := `SELECT schedule_id, train_id, starting_station_id, ending_station_id,
	          start_time, end_time, valid_from, valid_until
	          FROM schedules WHERE train_id = $1`
	if err := r.db.Select(&rows, query, trainID); err != nil {
		return nil, fmt.Errorf("failed to list schedules for train: %w", err)
	}
	return rows, nil
}

// GetByID retrieves a schedule by id.
func (r *ScheduleRepository) GetByID(id int64) (*models.Schedule, error) {
	var s models.Schedule
	query := `SELECT schedule_id, train_id, starting_station_id, ending_station_id,
	          start_time, end_time, valid_from, valid_until
	          FROM schedules WHERE schedule_id = $1`
	if err := r.db.Get(&s, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get schedule: %w", err)
	}
	return &s, nil
}
