package database

import (
	"database/sql"
	"fmt"

	"github.com/traits-rail/traits-core/internal/models"
)

// UserRepository handles User persistence.
type UserRepository struct {
	db DB
}

// NewUserRepository creates a new user repository.
func NewUserRepository(db DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a new user. Email format is validated by the caller
// (services.UserService.AddUser) before this runs; the schema's CHECK
// constraint is the last line of defence, not the first.
func (r *UserRepository) Create(email, details string) (*models.User, error) {
	user := &models.User{Email: email, Details: details}
	query := `INSERT INTO users (email, details) VALUES ($1, $2) RETURNING user_id`
	if err := r.db.QueryRow(query, email, details).Scan(&user.UserID); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

// GetByID retrieves a user by id.
func (r *UserRepository) GetByID(id int64) (*models.User, error) {
	var user models.User
	query := `SELECT user_id, details, email FROM users WHERE user_id = $1`
	if err := r.db.Get(&user, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

// GetByEmail retrieves a user by their unique email address.
func (r *UserRepository) GetByEmail(email string) (*models.User, error) {
	var user models.User
	query := `SELECT user_id, details, email FROM users WHERE email = $1`
	if err := r.db.Get(&user, query, email); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return &user, nil
}

// Delete removes a user; their Tickets and Reservations cascade-delete
// with them (invariant 9).
func (r *UserRepository) Delete(id int64) error {
	result, err := r.db.Exec(`DELETE FROM users WHERE user_id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
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
