package models

import "time"

// Purchase is a denormalised read model backed by the purchases SQL view,
// returned by GetPurchaseHistory. Device is populated from purchase_audit
// when a request's User-Agent was captured at booking time; it is a
// supplement over original_source, which has no request-provenance
// tracking at all.
type Purchase struct {
	PurchaseTime        time.Time `db:"purchase_time" json:"purchaseTime"`
	TicketID             int64    `db:"ticket_id" json:"ticketId"`
	UserEmail            string   `db:"user_email" json:"userEmail"`
	StartingStationName  string   `db:"starting_station_name" json:"startingStationName"`
	EndingStationName    string   `db:"ending_station_name" json:"endingStationName"`
	StartTime            string   `db:"start_time" json:"startTime"`
	EndTime              string   `db:"end_time" json:"endTime"`
	ConnectionPrice      int      `db:"connection_price" json:"connectionPrice"`
	ReservedSeat         bool     `db:"reserved_seat" json:"reservedSeat"`
	Device               *string  `db:"device" json:"device,omitempty"`
}
