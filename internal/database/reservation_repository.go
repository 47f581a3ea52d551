package database

import "fmt"

// ReservationRepository handles Reservation persistence and the
// capacity-race protection of invariant 8 (count of Reservations per
// trip-leg <= train.capacity).
type ReservationRepository struct {
	db DB
}

// NewReservationRepository creates a new reservation repository.
func NewReservationRepository(db DB) *ReservationRepository {
	return &ReservationRepository{db: db}
}

// LockTripForUpdateTx takes a row lock on the owning trip so concurrent
// reservation attempts against the same trip-leg serialise, since Postgres
// does not allow SELECT ... FOR UPDATE directly on an aggregate count.
func LockTripForUpdateTx(exec Execer, tripID int64) error {
	var discard int64
	if err := exec.Get(&discard, `SELECT trip_id FROM trips WHERE trip_id = $1 FOR UPDATE`, tripID); err != nil {
		return fmt.Errorf("failed to lock trip for update: %w", err)
	}
	return nil
}

// CountForTripTx counts existing reservations against tripID's tickets.
// Must be called after LockTripForUpdateTx within the same transaction to
// get a race-free count.
func CountForTripTx(exec Execer, tripID int64) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM reservations r
	          JOIN tickets t ON t.ticket_id = r.ticket_id
	          WHERE t.trip_id = $1`
	if err := exec.Get(&count, query, tripID); err != nil {
		return 0, fmt.Errorf("failed to count reservations: %w", err)
	}
	return count, nil
}

// CreateReservationTx inserts a reservation for ticketID within exec.
func CreateReservationTx(exec Execer, ticketID int64) (int64, error) {
	var id int64
	query := `INSERT INTO reservations (ticket_id) VALUES ($1) RETURNING reservation_id`
	if err := exec.QueryRow(query, ticketID).Scan(&id); err != nil {
		return 0, fmt.Errorf("failed to create reservation: %w", err)
	}
	return id, nil
}
