package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/sirupsen/logrus"

	"github.com/traits-rail/traits-core/internal/apperr"
	"github.com/traits-rail/traits-core/internal/database"
	"github.com/traits-rail/traits-core/internal/lock"
	"github.com/traits-rail/traits-core/internal/models"
)

// serializationFailureCode is Postgres' SQLSTATE for a SERIALIZABLE
// transaction that lost a write-write race — the only case BuyTicket
// surfaces as apperr.Conflict, after one retry.
const serializationFailureCode = "40001"

func isSerializationFailure(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == serializationFailureCode
}

// PurchaseProvenance is the best-effort request context attached to a
// purchase_audit row: IP and device, captured by internal/netctx at the
// handler boundary and threaded through to BuyTicket.
type PurchaseProvenance struct {
	ClientIP string
	Device   string
	TraceID  string
}

// BookingService issues Tickets and, optionally, seat Reservations.
// Grounded on the teacher's manual_booking_repository.go/
// app_booking_repository.go transaction shape (pre-insert availability
// check inside one tx) and original_source.buy_ticket's
// insert-then-conditionally-reserve flow.
type BookingService struct {
	db           database.DB
	users        *database.UserRepository
	trains       *database.TrainRepository
	trips        *database.TripRepository
	tickets      *database.TicketRepository
	reservations *database.ReservationRepository
	purchases    *database.PurchaseRepository
	locker       *lock.Locker
	logger       *logrus.Logger
}

// NewBookingService builds a BookingService. db is the base-role
// connection that cmd/traitsctl wires in: BuyTicket opens its own
// transaction on it to insert the Ticket and, when requested, the
// Reservation atomically.
func NewBookingService(
	db database.DB,
	users *database.UserRepository,
	trains *database.TrainRepository,
	trips *database.TripRepository,
	tickets *database.TicketRepository,
	reservations *database.ReservationRepository,
	purchases *database.PurchaseRepository,
	locker *lock.Locker,
	logger *logrus.Logger,
) *BookingService {
	return &BookingService{
		db:           db,
		users:        users,
		trains:       trains,
		trips:        trips,
		tickets:      tickets,
		reservations: reservations,
		purchases:    purchases,
		locker:       locker,
		logger:       logger,
	}
}

// BuyTicket creates a Ticket for userID against tripID, optionally also
// reserving a seat subject to the trip's train capacity (invariant 8). It
// always returns the created ticket_id, whether or not a seat was reserved
// — see DESIGN.md's Open Question decision 2.
func (s *BookingService) BuyTicket(ctx context.Context, userID, tripID int64, reserveSeat bool, prov PurchaseProvenance) (*models.Ticket, error) {
	const op = "BookingService.BuyTicket"

	user, err := s.users.GetByID(userID)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, op, err)
	}
	if user == nil {
		return nil, apperr.NotFoundf(op, "user %d does not exist", userID)
	}

	trip, err := s.trips.GetByID(tripID)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, op, err)
	}
	if trip == nil {
		return nil, apperr.NotFoundf(op, "trip %d does not exist", tripID)
	}

	var handle lock.Handle
	if reserveSeat {
		h, err := s.locker.Lock(ctx, fmt.Sprintf("trip:%d", tripID))
		if err != nil {
			return nil, apperr.Wrap(apperr.Internal, op, err)
		}
		handle = h
		defer func() {
			if uerr := s.locker.Unlock(context.Background(), handle); uerr != nil {
				s.logger.WithFields(logrus.Fields{"op": op, "tripId": tripID, "error": uerr}).
					Warn("advisory lock release failed (will expire via TTL)")
			}
		}()
	}

	// The relational write runs SERIALIZABLE so a lost write-write race on
	// the reservation count surfaces as a detectable 40001, not a silent
	// overbook; it is retried once before giving up as a real conflict.
	var ticket *models.Ticket
	for attempt := 0; ; attempt++ {
		var attemptErr error
		ticket, attemptErr = s.attemptPurchase(ctx, userID, tripID, reserveSeat, trip)
		if attemptErr == nil {
			break
		}

		var appErr *apperr.Error
		if errors.As(attemptErr, &appErr) {
			return nil, appErr
		}
		if isSerializationFailure(attemptErr) && attempt == 0 {
			continue
		}
		if isSerializationFailure(attemptErr) {
			return nil, apperr.Conflictf(op, "trip %d booking conflicted with a concurrent purchase", tripID)
		}
		return nil, apperr.Wrap(apperr.Internal, op, attemptErr)
	}

	if err := database.RecordAuditTx(s.db, ticket.TicketID, prov.ClientIP, prov.Device, prov.TraceID); err != nil {
		s.logger.WithFields(logrus.Fields{
			"op":       op,
			"ticketId": ticket.TicketID,
			"error":    err,
		}).Error("purchase_audit write failed")
	}

	s.logger.WithFields(logrus.Fields{
		"op":       op,
		"ticketId": ticket.TicketID,
		"userId":   userID,
		"tripId":   tripID,
		"reserved": reserveSeat,
		"at":       time.Now().UTC().Format(time.RFC3339),
	}).Info("ticket purchased")

	return ticket, nil
}

// attemptPurchase runs one SERIALIZABLE attempt at inserting the Ticket
// and, when requested, the Reservation. Returned errors are either an
// *apperr.Error (train-not-found, capacity-exhausted — never retried) or
// a plain driver error (including a 40001 serialization failure, which
// the caller retries).
func (s *BookingService) attemptPurchase(ctx context.Context, userID, tripID int64, reserveSeat bool, trip *models.Trip) (*models.Ticket, error) {
	const op = "BookingService.BuyTicket"

	tx, err := s.db.BeginTxx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	ticket, err := database.CreateTicketTx(tx, userID, tripID, reserveSeat)
	if err != nil {
		return nil, err
	}

	if reserveSeat {
		train, err := s.trains.GetByID(trip.TrainID)
		if err != nil {
			return nil, err
		}
		if train == nil {
			return nil, apperr.NotFoundf(op, "train %d does not exist", trip.TrainID)
		}

		if err := database.LockTripForUpdateTx(tx, tripID); err != nil {
			return nil, err
		}
		count, err := database.CountForTripTx(tx, tripID)
		if err != nil {
			return nil, err
		}
		if count >= train.Capacity {
			return nil, apperr.Invalid(op, "trip %d has no remaining capacity", tripID)
		}
		if _, err := database.CreateReservationTx(tx, ticket.TicketID); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return ticket, nil
}

// GetPurchaseHistory returns every purchase made by the user with the given
// email, newest first.
func (s *BookingService) GetPurchaseHistory(email string) ([]models.Purchase, error) {
	const op = "BookingService.GetPurchaseHistory"

	rows, err := s.purchases.ListByUserEmail(email)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, op, err)
	}

	out := make([]models.Purchase, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.ToModel())
	}
	return out, nil
}
