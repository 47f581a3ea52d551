package services

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/traits-rail/traits-core/internal/apperr"
	"github.com/traits-rail/traits-core/internal/database"
	"github.com/traits-rail/traits-core/internal/graph"
	"github.com/traits-rail/traits-core/internal/invariant"
	"github.com/traits-rail/traits-core/internal/models"
)

// SearchRequest mirrors spec.md §4.3's search_connections inputs.
type SearchRequest struct {
	StartStation    string
	EndStation      string
	Year, Month, Day int
	IsDepartureTime bool
	SortBy          graph.SortCriterion
	Ascending       bool
	Limit           int
}

// SearchService resolves multi-leg connections between two stations,
// grounded on the teacher's search_service.go (structured logging,
// step-by-step validation) and original_source's
// _execute_neo4j_query/_fetch_details_from_mariadb split between graph
// search and relational hydration.
type SearchService struct {
	checker *invariant.Checker
	graph   *graph.Adapter
	trips   *database.TripRepository
	logger  *logrus.Logger
	maxLegs int
}

// NewSearchService builds a SearchService.
func NewSearchService(checker *invariant.Checker, graphAdapter *graph.Adapter, trips *database.TripRepository, logger *logrus.Logger, maxLegs int) *SearchService {
	return &SearchService{checker: checker, graph: graphAdapter, trips: trips, logger: logger, maxLegs: maxLegs}
}

// Search validates the station pair and date, searches the graph store for
// bounded-depth same-day paths, sorts and limits the candidates, then
// hydrates each path's trip ids against the relational store.
func (s *SearchService) Search(ctx context.Context, req SearchRequest) ([][]models.Trip, error) {
	const op = "SearchService.Search"

	if _, _, err := s.checker.CheckStationPair(req.StartStation, req.EndStation); err != nil {
		return nil, err
	}

	if req.Year == 0 {
		return nil, apperr.Invalid(op, "a search date is required")
	}
	anchor := time.Date(req.Year, time.Month(req.Month), req.Day, 0, 0, 0, 0, time.UTC)

	limit := req.Limit
	if limit <= 0 {
		limit = 5
	}

	s.logger.WithFields(logrus.Fields{
		"op":    op,
		"from":  req.StartStation,
		"to":    req.EndStation,
		"date":  anchor.Format("2006-01-02"),
		"sort":  req.SortBy,
		"limit": limit,
	}).Info("searching connections")

	results, err := s.graph.Search(ctx, graph.PathSearchParams{
		StartStation:    req.StartStation,
		EndStation:      req.EndStation,
		AnchorTime:      anchor,
		IsDepartureTime: req.IsDepartureTime,
		SortBy:          req.SortBy,
		Ascending:       req.Ascending,
		Limit:           limit,
		MaxLegs:         s.maxLegs,
	})
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, op, err)
	}

	if len(results) == 0 {
		s.logger.WithFields(logrus.Fields{"op": op}).Info("no connections found")
		return nil, nil
	}

	// results arrive already ordered by req.SortBy/req.Ascending: the
	// Cypher ORDER BY in internal/graph.Adapter.Search applies the primary
	// metric server-side, so no further reordering happens here — a
	// second, metric-blind sort would silently override it (see
	// DESIGN.md).
	out := make([][]models.Trip, 0, len(results))
	for _, r := range results {
		trips, err := s.hydrate(r.TripIDs)
		if err != nil {
			return nil, apperr.Wrap(apperr.Internal, op, err)
		}
		out = append(out, trips)
	}
	return out, nil
}

// hydrate resolves a path's trip ids against the relational trips table,
// preserving the graph store's ordering — the original's
// _fetch_details_from_mariadb does the same lookup one id at a time.
func (s *SearchService) hydrate(tripIDs []int64) ([]models.Trip, error) {
	trips := make([]models.Trip, 0, len(tripIDs))
	for _, id := range tripIDs {
		trip, err := s.trips.GetByID(id)
		if err != nil {
			return nil, err
		}
		if trip != nil {
			trips = append(trips, *trip)
		}
	}
	return trips, nil
}
