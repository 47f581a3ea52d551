package services

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/traits-rail/traits-core/internal/apperr"
	"github.com/traits-rail/traits-core/internal/database"
	"github.com/traits-rail/traits-core/internal/graph"
	"github.com/traits-rail/traits-core/internal/invariant"
	"github.com/traits-rail/traits-core/internal/models"
	"github.com/traits-rail/traits-core/internal/timeutil"
)

// ScheduleService materialises an admissible schedule template into one
// Schedule row and N daily Trip rows, then writes the matching TRIP graph
// edges. Grounded on the teacher's trip_generator_service.go date-stepping
// loop (GenerateTripsForSchedule) and original_source.add_schedule's
// per-date, per-stop-pair Trip + graph-edge emission.
type ScheduleService struct {
	db          database.DB
	schedules   *database.ScheduleRepository
	stations    *database.StationRepository
	connections *database.ConnectionRepository
	trains      *database.TrainRepository
	checker     *invariant.Checker
	graph       *graph.Adapter
	logger      *logrus.Logger
}

// NewScheduleService builds a ScheduleService from its dependencies. db
// must be the admin-role connection: AddSchedule opens its own transaction.
func NewScheduleService(
	db database.DB,
	schedules *database.ScheduleRepository,
	stations *database.StationRepository,
	connections *database.ConnectionRepository,
	trains *database.TrainRepository,
	checker *invariant.Checker,
	graphAdapter *graph.Adapter,
	logger *logrus.Logger,
) *ScheduleService {
	return &ScheduleService{
		db:          db,
		schedules:   schedules,
		stations:    stations,
		connections: connections,
		trains:      trains,
		checker:     checker,
		graph:       graphAdapter,
		logger:      logger,
	}
}

type leg struct {
	fromStationID, toStationID int64
	fromName, toName           string
	startHH, startMM           int
	endHH, endMM               int
	travelTime                 int
}

// AddSchedule validates req, then persists the Schedule row and every
// materialised Trip row within one relational transaction. Graph edges
// are written best-effort after the relational commit; a failure there is
// logged, never rolled back (see DESIGN.md's Open Question decision on
// cross-store atomicity).
func (s *ScheduleService) AddSchedule(ctx context.Context, req models.ScheduleRequest) (int64, error) {
	const op = "ScheduleService.AddSchedule"

	admission, err := s.checker.CheckScheduleAdmissible(req)
	if err != nil {
		return 0, err
	}

	legs, err := s.buildLegs(req)
	if err != nil {
		return 0, apperr.Wrap(apperr.Internal, op, err)
	}

	tx, err := s.db.Beginx()
	if err != nil {
		return 0, apperr.Wrap(apperr.Internal, op, err)
	}
	defer tx.Rollback()

	startTime := fmt.Sprintf("%02d:%02d:00", req.StartHH, req.StartMM)
	endTime := fmt.Sprintf("%02d:%02d:00", admission.EndHH, admission.EndMM)

	scheduleID, err := database.CreateScheduleTx(tx, req, startTime, endTime)
	if err != nil {
		return 0, apperr.Wrap(apperr.Internal, op, err)
	}

	dates := timeutil.DateRange(req.ValidFrom, req.ValidUntil)
	type plannedEdge struct {
		tripID   int64
		fromName string
		toName   string
		edge     graph.TripEdge
	}
	var trainName string
	if train, terr := s.trainName(req.TrainID); terr == nil {
		trainName = train
	}

	var plannedEdges []plannedEdge
	for _, date := range dates {
		for _, l := range legs {
			tripID, err := database.CreateTripTx(tx, req.TrainID, l.fromStationID, l.toStationID, date,
				fmt.Sprintf("%02d:%02d:00", l.startHH, l.startMM),
				fmt.Sprintf("%02d:%02d:00", l.endHH, l.endMM))
			if err != nil {
				return 0, apperr.Wrap(apperr.Internal, op, err)
			}

			departure := dateTimeAt(date, l.startHH, l.startMM)
			arrival := dateTimeAt(date, l.endHH, l.endMM)
			plannedEdges = append(plannedEdges, plannedEdge{
				tripID:   tripID,
				fromName: l.fromName,
				toName:   l.toName,
				edge: graph.TripEdge{
					TripID:        tripID,
					TrainName:     trainName,
					DepartureTime: departure,
					ArrivalTime:   arrival,
					TravelTime:    l.travelTime,
				},
			})
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, apperr.Wrap(apperr.Internal, op, err)
	}

	for _, pe := range plannedEdges {
		if err := s.graph.CreateTripEdge(ctx, pe.fromName, pe.toName, pe.edge); err != nil {
			s.logger.WithFields(logrus.Fields{
				"op":      op,
				"tripId":  pe.tripID,
				"from":    pe.fromName,
				"to":      pe.toName,
				"error":   err,
			}).Error("graph store inconsistency: TRIP edge not written")
		}
	}

	return scheduleID, nil
}

// buildLegs computes each consecutive stop pair's wall-clock start/end
// time once; the same times apply on every materialised date.
func (s *ScheduleService) buildLegs(req models.ScheduleRequest) ([]leg, error) {
	names := make([]string, len(req.Stops))
	for i, stop := range req.Stops {
		station, err := s.stations.GetByID(stop.StationID)
		if err != nil {
			return nil, err
		}
		if station == nil {
			return nil, fmt.Errorf("station %d not found building legs", stop.StationID)
		}
		names[i] = station.Name
	}

	var legs []leg
	hh, mm := req.StartHH, req.StartMM
	for i := 0; i < len(req.Stops)-1; i++ {
		conn, err := s.connections.GetByPair(names[i], names[i+1])
		if err != nil {
			return nil, err
		}
		if conn == nil {
			return nil, fmt.Errorf("no segment %s -> %s", names[i], names[i+1])
		}

		wait := 0
		if i != 0 {
			wait = req.Stops[i].WaitingMinutes
		}
		startHH, startMM, _ := timeutil.AddMinutes(hh, mm, wait)
		endHH, endMM, _ := timeutil.AddMinutes(startHH, startMM, conn.TravelTime)

		legs = append(legs, leg{
			fromStationID: req.Stops[i].StationID,
			toStationID:   req.Stops[i+1].StationID,
			fromName:      names[i],
			toName:        names[i+1],
			startHH:       startHH,
			startMM:       startMM,
			endHH:         endHH,
			endMM:         endMM,
			travelTime:    conn.TravelTime,
		})

		hh, mm = endHH, endMM
	}
	return legs, nil
}

func (s *ScheduleService) trainName(trainID int64) (string, error) {
	train, err := s.trains.GetByID(trainID)
	if err != nil {
		return "", err
	}
	if train == nil {
		return "", fmt.Errorf("train %d not found", trainID)
	}
	return train.Name, nil
}

// dateTimeAt combines a calendar date with an hh:mm wall-clock time into a
// single naive time.Time, used to stamp graph TRIP edge properties.
func dateTimeAt(date time.Time, hh, mm int) time.Time {
	y, mo, d := date.Date()
	return time.Date(y, mo, d, hh, mm, 0, 0, time.UTC)
}
