package database

import (
	"database/sql"
	"fmt"

	"github.com/traits-rail/traits-core/internal/models"
)

// TicketRepository handles Ticket persistence. Price is never supplied by
// the caller: the calculate_ticket_price trigger fills it in on insert, so
// CreateTicketTx reads the row back after the INSERT to learn the derived price.
type TicketRepository struct {
	db DB
}

// NewTicketRepository creates a new ticket repository.
func NewTicketRepository(db DB) *TicketRepository {
	return &TicketRepository{db: db}
}

// CreateTicketTx inserts a ticket within exec and returns the fully-populated row
// including the trigger-derived price.
func CreateTicketTx(exec Execer, userID, tripID int64, reservedSeat bool) (*models.Ticket, error) {
	var ticketID int64
	query := `INSERT INTO tickets (user_id, trip_id, reserved_seat) VALUES ($1, $2, $3) RETURNING ticket_id`
	if err := exec.QueryRow(query, userID, tripID, reservedSeat).Scan(&ticketID); err != nil {
		return nil, fmt.Errorf("failed to create ticket: %w", err)
	}

	var ticket models.Ticket
	selectQuery := `SELECT ticket_id, user_id, trip_id, booking_time, reserved_seat, price
	                 FROM tickets WHERE ticket_id = $1`
	if err := exec.Get(&ticket, selectQuery, ticketID); err != nil {
		return nil, fmt.Errorf("failed to read back created ticket: %w", err)
	}
	return &ticket, nil
}

// GetByID retrieves a ticket by id.
func (r *TicketRepository) GetByID(id int64) (*models.Ticket, error) {
	var ticket models.Ticket
	query := `SELECT ticket_id, user_id, trip_id, booking_time, reserved_seat, price
	          FROM tickets WHERE ticket_id = $1`
	if err := r.db.Get(&ticket, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get ticket: %w", err)
	}
	return &ticket, nil
}
