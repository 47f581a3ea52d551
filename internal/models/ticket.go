package models

import "time"

// Ticket represents one purchase against a trip-leg. Price is never set by
// the application: it is derived by the calculate_ticket_price trigger at
// insert time from the trip's travel duration (spec.md §4.4).
type Ticket struct {
	TicketID     int64     `db:"ticket_id" json:"ticketId"`
	UserID       int64     `db:"user_id" json:"userId"`
	TripID       int64     `db:"trip_id" json:"tripId"`
	BookingTime  time.Time `db:"booking_time" json:"bookingTime"`
	ReservedSeat bool      `db:"reserved_seat" json:"reservedSeat"`
	Price        int       `db:"price" json:"price"`
}
