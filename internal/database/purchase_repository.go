package database

import (
	"fmt"
	"time"

	"github.com/traits-rail/traits-core/internal/models"
)

// PurchaseRepository reads the purchases view, left-joined in SQL with
// purchase_audit for the device string supplement described in
// SPEC_FULL.md.
type PurchaseRepository struct {
	db DB
}

// NewPurchaseRepository creates a new purchase repository.
func NewPurchaseRepository(db DB) *PurchaseRepository {
	return &PurchaseRepository{db: db}
}

// PurchaseRow mirrors the purchases view plus the optional audit device
// column, left-joined so a purchase with no captured audit row still
// returns.
type PurchaseRow struct {
	PurchaseTime        time.Time `db:"purchase_time"`
	TicketID            int64   `db:"ticket_id"`
	UserEmail           string  `db:"user_email"`
	StartingStationName string  `db:"starting_station_name"`
	EndingStationName   string  `db:"ending_station_name"`
	StartTime           string  `db:"start_time"`
	EndTime             string  `db:"end_time"`
	ConnectionPrice     int     `db:"connection_price"`
	ReservedSeat        bool    `db:"reserved_seat"`
	Device              *string `db:"device"`
}

// ToModel converts the view row into the domain Purchase type.
func (p PurchaseRow) ToModel() models.Purchase {
	return models.Purchase{
		PurchaseTime:         p.PurchaseTime,
		TicketID:             p.TicketID,
		UserEmail:            p.UserEmail,
		StartingStationName:  p.StartingStationName,
		EndingStationName:    p.EndingStationName,
		StartTime:            p.StartTime,
		EndTime:              p.EndTime,
		ConnectionPrice:      p.ConnectionPrice,
		ReservedSeat:         p.ReservedSeat,
		Device:               p.Device,
	}
}

// ListByUserEmail returns every purchase for a user, newest first.
func (r *PurchaseRepository) ListByUserEmail(email string) ([]PurchaseRow, error) {
	var rows []PurchaseRow
	query := `SELECT p.purchase_time, p.ticket_id, p.user_email,
	                 p.starting_station_name, p.ending_station_name,
	                 p.start_time, p.end_time, p.connection_price, p.reserved_seat,
	                 a.device AS device
	          FROM purchases p
	          LEFT JOIN purchase_audit a ON a.ticket_id = p.ticket_id
	          WHERE p.user_email = $1
	          ORDER BY p.purchase_time DESC`
	if err := r.db.Select(&rows, query, email); err != nil {
		return nil, fmt.Errorf("failed to list purchase history: %w", err)
	}
	return rows, nil
}

// RecordAuditTx inserts the request-provenance row for a just-created
// ticket. Best-effort: callers log-but-don't-fail on error, matching the
// teacher's safeLog* idiom for auxiliary audit calls.
func RecordAuditTx(exec Execer, ticketID int64, clientIP, device, traceID string) error {
	query := `INSERT INTO purchase_audit (ticket_id, client_ip, device, trace_id)
	          VALUES ($1, $2, $3, $4)
	          ON CONFLICT (ticket_id) DO NOTHING`
	_, err := exec.Exec(query, ticketID, clientIP, device, traceID)
	return err
}
