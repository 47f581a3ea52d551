package models

// TrainStatus enumerates a train's operational state. Transitions are
// unrestricted via UpdateTrainDetails (spec.md §4.6): status never gates
// booking in this core.
type TrainStatus int

const (
	TrainOperational TrainStatus = iota
	TrainDelayed
	TrainBroken
)

// String renders the status the way the surface API reports it.
func (s TrainStatus) String() string {
	switch s {
	case TrainOperational:
		return "OPERATIONAL"
	case TrainDelayed:
		return "DELAYED"
	case TrainBroken:
		return "BROKEN"
	default:
		return "UNKNOWN"
	}
}

// Train is an operator-managed rolling-stock unit with a fixed seat
// capacity and mutable operational status.
type Train struct {
	TrainID  int64  `db:"train_id" json:"trainId"`
	Name     string `db:"train_name" json:"name"`
	Capacity int    `db:"capacity" json:"capacity"`
	Status   int    `db:"status" json:"status"`
}

// StatusName renders the stored status code as a string.
func (t Train) StatusName() string {
	return TrainStatus(t.Status).String()
}
