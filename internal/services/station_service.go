package services

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/traits-rail/traits-core/internal/apperr"
	"github.com/traits-rail/traits-core/internal/database"
	"github.com/traits-rail/traits-core/internal/graph"
	"github.com/traits-rail/traits-core/internal/invariant"
	"github.com/traits-rail/traits-core/internal/models"
)

// StationService manages Stations and their directed Connections,
// keeping the relational store and the graph store in sync (invariant 1).
type StationService struct {
	stations    *database.StationRepository
	connections *database.ConnectionRepository
	checker     *invariant.Checker
	graph       *graph.Adapter
	logger      *logrus.Logger
}

// NewStationService builds a StationService from its dependencies.
func NewStationService(
	stations *database.StationRepository,
	connections *database.ConnectionRepository,
	checker *invariant.Checker,
	graphAdapter *graph.Adapter,
	logger *logrus.Logger,
) *StationService {
	return &StationService{
		stations:    stations,
		connections: connections,
		checker:     checker,
		graph:       graphAdapter,
		logger:      logger,
	}
}

// AddStation creates a station relationally and, in the same logical
// operation, ensures its mirroring graph node — matching
// original_source.add_train_station's dual write.
func (s *StationService) AddStation(ctx context.Context, name string) (*models.Station, error) {
	const op = "StationService.AddStation"

	existing, err := s.stations.GetByName(name)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, op, err)
	}
	if existing != nil {
		return nil, apperr.Invalid(op, "station %q already exists", name)
	}

	station, err := s.stations.Create(name)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, op, err)
	}

	if err := s.graph.EnsureStation(ctx, name); err != nil {
		s.logger.WithFields(logrus.Fields{
			"op":      op,
			"station": name,
			"error":   err,
		}).Error("graph store inconsistency: station node not written")
	}

	return station, nil
}

// ConnectStations creates a directed Connection between two existing
// stations, validated by the Invariant Checker's station-pair and
// segment-bound rules.
func (s *StationService) ConnectStations(ctx context.Context, startName, endName string, minutes int) (*models.Connection, error) {
	const op = "StationService.ConnectStations"

	if _, _, err := s.checker.CheckStationPair(startName, endName); err != nil {
		return nil, err
	}
	if err := s.checker.CheckSegmentBounds(minutes); err != nil {
		return nil, err
	}

	exists, err := s.connections.Exists(startName, endName)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, op, err)
	}
	if exists {
		return nil, apperr.Invalid(op, "%q and %q are already connected", startName, endName)
	}

	conn, err := s.connections.Create(startName, endName, minutes)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, op, err)
	}

	s.logger.WithFields(logrus.Fields{
		"op":    op,
		"from":  startName,
		"to":    endName,
		"mins":  minutes,
	}).Info(fmt.Sprintf("connected %s -> %s", startName, endName))

	return conn, nil
}

// ListStations returns every station.
func (s *StationService) ListStations() ([]models.Station, error) {
	return s.stations.List()
}
