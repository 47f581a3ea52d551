package database

import (
	"database/sql"
	"fmt"

	"github.com/traits-rail/traits-core/internal/models"
)

// StationRepository handles Station persistence.
type StationRepository struct {
	db DB
}

// NewStationRepository creates a new station repository.
func NewStationRepository(db DB) *StationRepository {
	return &StationRepository{db: db}
}

// Create inserts a new station, returning its generated id.
func (r *StationRepository) Create(name string) (*models.Station, error) {
	station := &models.Station{Name: name}

	query := `INSERT INTO stations (name) VALUES ($1) RETURNING station_id`
	if err := r.db.QueryRow(query, name).Scan(&station.StationID); err != nil {
		return nil, fmt.Errorf("failed to create station: %w", err)
	}
	return station, nil
}

// GetByName retrieves a station by its unique name, returning nil (no
// error) when it does not exist.
func (r *StationRepository) GetByName(name string) (*models.Station, error) {
	var station models.Station
	query := `SELECT station_id, name FROM stations WHERE name = $1`
	if err := r.db.Get(&station, query, name); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get station by name: %w", err)
	}
	return &station, nil
}

// GetByID retrieves a station by id.
func (r *StationRepository) GetByID(id int64) (*models.Station, error) {
	var station models.Station
	query := `SELECT station_id, name FROM stations WHERE station_id = $1`
	if err := r.db.Get(&station, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get station by id: %w", err)
	}
	return &station, nil
}

// List returns every station, ordered by name.
func (r *StationRepository) List() ([]models.Station, error) {
	var stations []models.Station
	query := `SELECT station_id, name FROM stations ORDER BY name`
	if err := r.db.Select(&stations, query); err != nil {
		return nil, fmt.Errorf("failed to list stations: %w", err)
	}
	return stations, nil
}
