package models

// Connection is a direct, ordered adjacency between two stations with a
// fixed travel time in minutes. Schedules may only be built from
// consecutive station pairs that exist as a Connection (invariant 3).
type Connection struct {
	ConnectionID    int64  `db:"connection_id" json:"connectionId"`
	StartingStation string `db:"starting_station" json:"startingStation"`
	EndingStation   string `db:"ending_station" json:"endingStation"`
	TravelTime      int    `db:"travel_time" json:"travelTime"`
}
