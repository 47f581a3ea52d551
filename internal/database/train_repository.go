package database

import (
	"database/sql"
	"fmt"

	"github.com/traits-rail/traits-core/internal/models"
)

// TrainRepository handles Train persistence.
type TrainRepository struct {
	db DB
}

// NewTrainRepository creates a new train repository.
func NewTrainRepository(db DB) *TrainRepository {
	return &TrainRepository{db: db}
}

// Create inserts a new train.
func (r *TrainRepository) Create(name string, capacity int, status int) (*models.Train, error) {
	train := &models.Train{Name: name, Capacity: capacity, Status: status}
	query := `INSERT INTO trains (train_name, capacity, status) VALUES ($1, $2, $3) RETURNING train_id`
	if err := r.db.QueryRow(query, name, capacity, status).Scan(&train.TrainID); err != nil {
		return nil, fmt.Errorf("failed to create train: %w", err)
	}
	return train, nil
}

// GetByID retrieves a train by id.
func (r *TrainRepository) GetByID(id int64) (*models.Train, error) {
	var train models.Train
	query := `SELECT train_id, train_name, capacity, status FROM trains WHERE train_id = $1`
	if err := r.db.Get(&train, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get train: %w", err)
	}
	return &train, nil
}

// GetByName retrieves a train by its unique name.
func (r *TrainRepository) GetByName(name string) (*models.Train, error) {
	var train models.Train
	query := `SELECT train_id, train_name, capacity, status FROM trains WHERE train_name = $1`
	if err := r.db.Get(&train, query, name); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get train by name: %w", err)
	}
	return &train, nil
}

// UpdateDetails updates a train's mutable fields. Per the Open Question
// decision recorded in DESIGN.md, this never checks for outstanding
// reservations before applying the change — reproduced from
// original_source.update_train_details as-is.
func (r *TrainRepository) UpdateDetails(id int64, name string, capacity int, status int) error {
	query := `UPDATE trains SET train_name = $1, capacity = $2, status = $3 WHERE train_id = $4`
	result, err := r.db.Exec(query, name, capacity, status, id)
	if err != nil {
		return fmt.Errorf("failed to update train: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes a train; Trips, Tickets, and Reservations for the train
// cascade per the schema's ON DELETE CASCADE chain (invariant 9).
func (r *TrainRepository) Delete(id int64) error {
	_, err := r.db.Exec(`DELETE FROM trains WHERE train_id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete train: %w", err)
	}
	return nil
}
