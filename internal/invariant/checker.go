// Package invariant implements the ordered admissibility checks of
// spec.md §4.1, grounded on the teacher's rule-by-rule validator shape
// (internal/services/trip_route_validator.go: one repo-backed struct,
// one method per rule, a fmt.Errorf naming the violated rule).
package invariant

import (
	"fmt"

	"github.com/traits-rail/traits-core/internal/apperr"
	"github.com/traits-rail/traits-core/internal/database"
	"github.com/traits-rail/traits-core/internal/models"
	"github.com/traits-rail/traits-core/internal/timeutil"
)

// Checker holds every repository the admissibility checks need.
type Checker struct {
	stations    *database.StationRepository
	connections *database.ConnectionRepository
	trains      *database.TrainRepository
	schedules   *database.ScheduleRepository
}

// NewChecker builds a Checker from its repository dependencies.
func NewChecker(
	stations *database.StationRepository,
	connections *database.ConnectionRepository,
	trains *database.TrainRepository,
	schedules *database.ScheduleRepository,
) *Checker {
	return &Checker{stations: stations, connections: connections, trains: trains, schedules: schedules}
}

// CheckStationPair validates a (start, end) key pair for
// connect_train_stations and search operations: the keys must differ and
// both stations must exist.
func (c *Checker) CheckStationPair(startName, endName string) (*models.Station, *models.Station, error) {
	const op = "invariant.CheckStationPair"
	if startName == endName {
		return nil, nil, apperr.Invalid(op, "start and end station must differ, got %q twice", startName)
	}

	start, err := c.stations.GetByName(startName)
	if err != nil {
		return nil, nil, apperr.Wrap(apperr.Internal, op, err)
	}
	if start == nil {
		return nil, nil, apperr.NotFoundf(op, "station %q does not exist", startName)
	}

	end, err := c.stations.GetByName(endName)
	if err != nil {
		return nil, nil, apperr.Wrap(apperr.Internal, op, err)
	}
	if end == nil {
		return nil, nil, apperr.NotFoundf(op, "station %q does not exist", endName)
	}

	return start, end, nil
}

// CheckSegmentBounds validates a proposed segment's travel time.
func (c *Checker) CheckSegmentBounds(minutes int) error {
	const op = "invariant.CheckSegmentBounds"
	if minutes < 1 || minutes > 60 {
		return apperr.Invalid(op, "travel_time must be in [1,60] minutes, got %d", minutes)
	}
	return nil
}

// ScheduleAdmission is the computed result of an admissible schedule: the
// schedule's start/end wall-clock time on its first date, ready for
// ScheduleService to persist.
type ScheduleAdmission struct {
	StartHH, StartMM int
	EndHH, EndMM     int
}

// CheckScheduleAdmissible runs, in order, the eight checks of spec.md
// §4.1. Every failure surfaces as apperr.InvalidArgument.
func (c *Checker) CheckScheduleAdmissible(req models.ScheduleRequest) (*ScheduleAdmission, error) {
	const op = "invariant.CheckScheduleAdmissible"

	// 1. train exists
	train, err := c.trains.GetByID(req.TrainID)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, op, err)
	}
	if train == nil {
		return nil, apperr.Invalid(op, "train %d does not exist", req.TrainID)
	}

	// 2. start time bounds
	if req.StartHH < 0 || req.StartHH > 23 || req.StartMM < 0 || req.StartMM > 59 {
		return nil, apperr.Invalid(op, "invalid start time %02d:%02d", req.StartHH, req.StartMM)
	}

	// 3. at least 2 stops, every station exists
	if len(req.Stops) < 2 {
		return nil, apperr.Invalid(op, "a schedule needs at least 2 stops, got %d", len(req.Stops))
	}
	stationNames := make([]string, len(req.Stops))
	for i, stop := range req.Stops {
		station, err := c.stations.GetByID(stop.StationID)
		if err != nil {
			return nil, apperr.Wrap(apperr.Internal, op, err)
		}
		if station == nil {
			return nil, apperr.Invalid(op, "stop %d references station %d which does not exist", i, stop.StationID)
		}
		stationNames[i] = station.Name
	}

	// 4. every consecutive pair is a directed segment; accumulate end time.
	// Stop 0's own waiting_minutes is never added before departure — the
	// first leg always starts at the schedule's own start time — matching
	// original_source.add_schedule's `if i != 0:` guard around waiting_time.
	hh, mm := req.StartHH, req.StartMM
	for i := 0; i < len(req.Stops)-1; i++ {
		conn, err := c.connections.GetByPair(stationNames[i], stationNames[i+1])
		if err != nil {
			return nil, apperr.Wrap(apperr.Internal, op, err)
		}
		if conn == nil {
			return nil, apperr.Invalid(op, "no segment from %q to %q", stationNames[i], stationNames[i+1])
		}

		wait := 0
		if i != 0 {
			wait = req.Stops[i].WaitingMinutes
		}

		var wrapped bool
		hh, mm, wrapped = timeutil.AddMinutes(hh, mm, wait+conn.TravelTime)
		if wrapped {
			return nil, apperr.Invalid(op, "schedule crosses midnight at stop %d", i+1)
		}
	}

	// 5. terminus dwell floor — the last stop's own waiting_minutes,
	// counted as dwell per the Open Question decision in DESIGN.md.
	lastWait := req.Stops[len(req.Stops)-1].WaitingMinutes
	if lastWait < 10 {
		return nil, apperr.Invalid(op, "terminus waiting_time must be >= 10 minutes, got %d", lastWait)
	}
	endHH, endMM, wrapped := timeutil.AddMinutes(hh, mm, lastWait)
	if wrapped {
		return nil, apperr.Invalid(op, "schedule crosses midnight at the terminus")
	}

	// 6. validity window sanity
	if req.ValidUntil.Before(req.ValidFrom) {
		return nil, apperr.Invalid(op, "valid_until must not be before valid_from")
	}

	// 7. no overlap with an existing schedule of the same train
	if err := c.checkNoOverlap(req, endHH, endMM); err != nil {
		return nil, err
	}

	// 8. 6-hour cross-day gap against the immediately adjacent schedules
	if err := c.checkCrossDayGap(req, endHH, endMM); err != nil {
		return nil, err
	}

	return &ScheduleAdmission{StartHH: req.StartHH, StartMM: req.StartMM, EndHH: endHH, EndMM: endMM}, nil
}

func (c *Checker) checkNoOverlap(req models.ScheduleRequest, endHH, endMM int) error {
	const op = "invariant.CheckScheduleAdmissible"

	existing, err := c.schedules.ListOverlappingWindows(req.TrainID, req.ValidFrom, req.ValidUntil)
	if err != nil {
		return apperr.Wrap(apperr.Internal, op, err)
	}

	newStart := req.StartHH*60 + req.StartMM
	newEnd := endHH*60 + endMM

	for _, s := range existing {
		exStart, err := parseHHMM(s.StartTime)
		if err != nil {
			return apperr.Wrap(apperr.Internal, op, err)
		}
		exEnd, err := parseHHMM(s.EndTime)
		if err != nil {
			return apperr.Wrap(apperr.Internal, op, err)
		}
		if intervalsOverlap(newStart, newEnd, exStart, exEnd) {
			return apperr.Invalid(op, "new schedule for train %d overlaps existing schedule %d", req.TrainID, s.ScheduleID)
		}
	}
	return nil
}

func (c *Checker) checkCrossDayGap(req models.ScheduleRequest, endHH, endMM int) error {
	const op = "invariant.CheckScheduleAdmissible"

	all, err := c.schedules.ListAllForTrain(req.TrainID)
	if err != nil {
		return apperr.Wrap(apperr.Internal, op, err)
	}

	newStart := req.StartHH*60 + req.StartMM
	newEnd := endHH*60 + endMM

	for _, s := range all {
		exStart, err := parseHHMM(s.StartTime)
		if err != nil {
			return apperr.Wrap(apperr.Internal, op, err)
		}
		exEnd, err := parseHHMM(s.EndTime)
		if err != nil {
			return apperr.Wrap(apperr.Internal, op, err)
		}

		// Existing schedule's window must actually contain the calendar day
		// immediately before ours starts — not merely start earlier, which
		// checkNoOverlap already guarantees for every s reaching this loop.
		prevDate := req.ValidFrom.AddDate(0, 0, -1)
		if !s.ValidFrom.After(prevDate) && !s.ValidUntil.Before(prevDate) {
			gap := (24*60 - exEnd) + newStart
			if gap < 6*60 {
				return apperr.Invalid(op, "cross-day gap before new schedule is %d minutes, need >= 360", gap)
			}
		}
		// Existing schedule's window must actually contain the calendar day
		// immediately after ours ends.
		nextDate := req.ValidUntil.AddDate(0, 0, 1)
		if !s.ValidFrom.After(nextDate) && !s.ValidUntil.Before(nextDate) {
			gap := (24*60 - newEnd) + exStart
			if gap < 6*60 {
				return apperr.Invalid(op, "cross-day gap after new schedule is %d minutes, need >= 360", gap)
			}
		}
	}
	return nil
}

func intervalsOverlap(aStart, aEnd, bStart, bEnd int) bool {
	return aStart < bEnd && bStart < aEnd
}

func parseHHMM(t string) (int, error) {
	var hh, mm, ss int
	if _, err := fmt.Sscanf(t, "%d:%d:%d", &hh, &mm, &ss); err != nil {
		if _, err2 := fmt.Sscanf(t, "%d:%d", &hh, &mm); err2 != nil {
			return 0, fmt.Errorf("failed to parse time %q: %w", t, err)
		}
	}
	return hh*60 + mm, nil
}
