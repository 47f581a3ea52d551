package models

import "time"

// Trip is a materialised trip-leg: one adjacent stop pair of a schedule on
// one concrete date. Cascades with its Train (invariant 9).
type Trip struct {
	TripID            int64     `db:"trip_id" json:"tripId"`
	TrainID           int64     `db:"train_id" json:"trainId"`
	StartingStationID int64     `db:"starting_station_id" json:"startingStationId"`
	EndingStationID   int64     `db:"ending_station_id" json:"endingStationId"`
	Date              time.Time `db:"date" json:"date"`
	StartTime         string    `db:"start_time" json:"startTime"`
	EndTime           string    `db:"end_time" json:"endTime"`
}
