package database

import (
	"database/sql"
	"fmt"

	"github.com/traits-rail/traits-core/internal/models"
)

// ConnectionRepository handles Connection (inter-station segment)
// persistence. Connections are directional: a segment (A, B) does not
// imply (B, A) exists.
type ConnectionRepository struct {
	db DB
}

// NewConnectionRepository creates a new connection repository.
func NewConnectionRepository(db DB) *ConnectionRepository {
	return &ConnectionRepository{db: db}
}

// Create inserts a new directed segment between two station names.
func (r *ConnectionRepository) Create(startStation, endStation string, travelTime int) (*models.Connection, error) {
	conn := &models.Connection{
		StartingStation: startStation,
		EndingStation:   endStation,
		TravelTime:      travelTime,
	}
	query := `INSERT INTO connections (starting_station, ending_station, travel_time)
	          VALUES ($1, $2, $3) RETURNING connection_id`
	if err := r.db.QueryRow(query, startStation, endStation, travelTime).Scan(&conn.ConnectionID); err != nil {
		return nil, fmt.Errorf("failed to create connection: %w", err)
	}
	return conn, nil
}

// GetByPair returns the segment connecting startStation directly to
// endStation, or nil if the pair is not adjacent.
func (r *ConnectionRepository) GetByPair(startStation, endStation string) (*models.Connection, error) {
	var conn models.Connection
	query := `SELECT connection_id, starting_station, ending_station, travel_time
	          FROM connections WHERE starting_station = $1 AND ending_station = $2`
	if err := r.db.Get(&conn, query, startStation, endStation); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get connection: %w", err)
	}
	return &conn, nil
}

// Exists reports whether a direct segment already connects the two
// stations, used to reject duplicate connect_train_stations calls.
func (r *ConnectionRepository) Exists(startStation, endStation string) (bool, error) {
	conn, err := r.GetByPair(startStation, endStation)
	if err != nil {
		return false, err
	}
	return conn != nil, nil
}
