package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/traits-rail/traits-core/internal/models"
)

// TripRepository handles materialised Trip-leg persistence.
type TripRepository struct {
	db DB
}

// NewTripRepository creates a new trip repository.
func NewTripRepository(db DB) *TripRepository {
	return &TripRepository{db: db}
}

// CreateTripTx inserts one Trip row within exec (plain connection or
// transaction), returning the generated trip_id. Used by the Schedule
// Materialiser once per date, per consecutive stop pair.
func CreateTripTx(exec Execer, trainID, fromStationID, toStationID int64, date time.Time, startTime, endTime string) (int64, error) {
	var id int64
	query := `INSERT INTO trips
		(train_id, starting_station_id, ending_station_id, date, start_time, end_time)
		VALUES ($1, $2, $3, $4, $5, $6) RETURNING trip_id`
	err := exec.QueryRow(query, trainID, fromStationID, toStationID, date, startTime, endTime).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to create trip: %w", err)
	}
	return id, nil
}

// GetByID retrieves a trip by id, used to hydrate a graph search result's
// trip_id list against the relational store.
func (r *TripRepository) GetByID(id int64) (*models.Trip, error) {
	var trip models.Trip
	query := `SELECT trip_id, train_id, starting_station_id, ending_station_id, date, start_time, end_time
	          FROM trips WHERE trip_id = $1`
	if err := r.db.Get(&trip, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get trip: %w", err)
	}
	return &trip, nil
}

// GetByIDs hydrates many trip ids in one round trip, preserving none of the
// caller's ordering — callers re-sort by the original id list.
func (r *TripRepository) GetByIDs(ids []int64) ([]models.Trip, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var trips []models.Trip
	query := `SELECT trip_id, train_id, starting_station_id, ending_station_id, date, start_time, end_time
	          FROM trips WHERE trip_id = ANY($1)`
	if err := r.db.Select(&trips, query, pq.Array(ids)); err != nil {
		return nil, fmt.Errorf("failed to get trips by ids: %w", err)
	}
	return trips, nil
}
