// Package graph wraps the Neo4j graph store: one Station node per
// station, one TRIP edge per materialised trip-leg. It reimplements
// original_source's _execute_neo4j_query with parameterized Cypher —
// the original builds its query with f-string interpolation of
// caller-supplied station names and timestamps, which is a direct
// injection vector and is deliberately not reproduced here.
package graph

import (
	"context"
	"fmt"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// SortCriterion mirrors spec.md §4.3's sort_by enumeration, in the same
// order original_source's sort_criteria list uses so the mapping from the
// surface API's integer selector stays stable.
type SortCriterion int

const (
	SortOverallTravelTime SortCriterion = iota
	SortNumberOfTrainChanges
	SortOverallWaitingTime
	SortEstimatedPrice
)

func (c SortCriterion) cypherField() string {
	switch c {
	case SortOverallTravelTime:
		return "overallTravelTime"
	case SortNumberOfTrainChanges:
		return "numberOfTrains"
	case SortOverallWaitingTime:
		return "totalWaitingTime"
	case SortEstimatedPrice:
		return "price"
	default:
		return "overallTravelTime"
	}
}

// TripEdge is the property bag carried by one TRIP relationship.
type TripEdge struct {
	TripID        int64
	TrainName     string
	DepartureTime time.Time
	ArrivalTime   time.Time
	TravelTime    int
}

// PathSearchParams parameterises Search, mirroring spec.md §4.3's inputs.
type PathSearchParams struct {
	StartStation    string
	EndStation      string
	AnchorTime      time.Time
	IsDepartureTime bool
	SortBy          SortCriterion
	Ascending       bool
	Limit           int
	MaxLegs         int
}

// PathResult is one candidate connection: its ordered edges plus the four
// aggregate metrics original_source computes server-side in Cypher via
// reduce/duration.between.
type PathResult struct {
	TripIDs             []int64
	OverallTravelTime    int
	NumberOfTrains       int
	OverallWaitingTime   int
	EstimatedPrice       int
}

// Adapter wraps a neo4j.DriverWithContext.
type Adapter struct {
	driver neo4j.DriverWithContext
}

// NewAdapter connects to the configured Neo4j instance.
func NewAdapter(uri, username, password string) (*Adapter, error) {
	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(username, password, ""))
	if err != nil {
		return nil, fmt.Errorf("failed to create neo4j driver: %w", err)
	}
	return &Adapter{driver: driver}, nil
}

// Close releases the underlying driver.
func (a *Adapter) Close(ctx context.Context) error {
	return a.driver.Close(ctx)
}

// EnsureStation idempotently creates (or confirms) a Station node,
// mirroring original_source.add_train_station's dual-write to the
// relational store and the graph.
func (a *Adapter) EnsureStation(ctx context.Context, name string) error {
	session := a.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		_, err := tx.Run(ctx, `MERGE (s:Station {name: $name}) RETURN s`, map[string]any{"name": name})
		return nil, err
	})
	if err != nil {
		return fmt.Errorf("failed to ensure station node: %w", err)
	}
	return nil
}

// CreateTripEdge writes one TRIP relationship between two Station nodes,
// carrying the properties the search query reads back.
func (a *Adapter) CreateTripEdge(ctx context.Context, fromName, toName string, edge TripEdge) error {
	session := a.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		query := `
			MATCH (start:Station {name: $from}), (end:Station {name: $to})
			CREATE (start)-[:TRIP {
				trip_id: $tripId,
				train_name: $trainName,
				departure_time: datetime($departureTime),
				arrival_time: datetime($arrivalTime),
				travel_time: $travelTime
			}]->(end)`
		_, err := tx.Run(ctx, query, map[string]any{
			"from":          fromName,
			"to":            toName,
			"tripId":        edge.TripID,
			"trainName":     edge.TrainName,
			"departureTime": edge.DepartureTime.Format(time.RFC3339),
			"arrivalTime":   edge.ArrivalTime.Format(time.RFC3339),
			"travelTime":    edge.TravelTime,
		})
		return nil, err
	})
	if err != nil {
		return fmt.Errorf("failed to create trip edge: %w", err)
	}
	return nil
}

// Search runs the bounded-depth variable-length path query of spec.md
// §4.3: same-day paths only, constrained to params.MaxLegs hops, with the
// four aggregate metrics computed in Cypher exactly as original_source
// does with reduce/duration.between.
func (a *Adapter) Search(ctx context.Context, params PathSearchParams) ([]PathResult, error) {
	session := a.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	timeConstraint := "datetime(r.departure_time) >= datetime($anchorTime)"
	if !params.IsDepartureTime {
		timeConstraint = "datetime(r.arrival_time) <= datetime($anchorTime)"
	}

	order := "ASC"
	if !params.Ascending {
		order = "DESC"
	}

	query := fmt.Sprintf(`
		MATCH (start:Station {name: $startStation}), (end:Station {name: $endStation})
		MATCH path = (start)-[:TRIP*1..%d]->(end)
		WHERE ALL(r in relationships(path) WHERE %s)
		WITH path,
			reduce(totalTravelTime = 0, r in relationships(path) | totalTravelTime + r.travel_time) AS overallTravelTime,
			length(path) AS numberOfTrains,
			duration.between(datetime($anchorTime), relationships(path)[0].departure_time).minutes AS initialWaitingTime,
			reduce(waitingTime = 0, idx in range(0, length(path) - 2) |
				waitingTime + duration.between(relationships(path)[idx].arrival_time, relationships(path)[idx + 1].departure_time).minutes
			) AS intWaitingTime,
			relationships(path)[0].departure_time AS firstDepartureTime
		WITH relationships(path) AS rels, overallTravelTime, numberOfTrains,
			initialWaitingTime + intWaitingTime AS totalWaitingTime,
			(overallTravelTime - intWaitingTime) / 2 + (numberOfTrains * 2) AS price,
			firstDepartureTime
		WHERE ALL(r in rels WHERE date(r.departure_time) = date(firstDepartureTime))
		RETURN [r in rels | r.trip_id] AS tripIds, overallTravelTime, numberOfTrains, totalWaitingTime, price
		ORDER BY %s %s
		LIMIT $limit`,
		params.MaxLegs, timeConstraint, params.SortBy.cypherField(), order)

	results, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		rows, err := tx.Run(ctx, query, map[string]any{
			"startStation": params.StartStation,
			"endStation":   params.EndStation,
			"anchorTime":   params.AnchorTime.Format(time.RFC3339),
			"limit":        params.Limit,
		})
		if err != nil {
			return nil, err
		}

		var out []PathResult
		for rows.Next(ctx) {
			record := rows.Record()
			tripIDsRaw, _ := record.Get("tripIds")
			var tripIDs []int64
			for _, v := range tripIDsRaw.([]any) {
				tripIDs = append(tripIDs, v.(int64))
			}

			travelTime, _ := record.Get("overallTravelTime")
			numberOfTrains, _ := record.Get("numberOfTrains")
			waitingTime, _ := record.Get("totalWaitingTime")
			price, _ := record.Get("price")

			out = append(out, PathResult{
				TripIDs:            tripIDs,
				OverallTravelTime:  int(travelTime.(int64)),
				NumberOfTrains:     int(numberOfTrains.(int64)),
				OverallWaitingTime: int(waitingTime.(int64)),
				EstimatedPrice:     int(price.(int64)),
			})
		}
		return out, rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search connection paths: %w", err)
	}
	return results.([]PathResult), nil
}
