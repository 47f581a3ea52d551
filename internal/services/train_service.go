package services

import (
	"github.com/sirupsen/logrus"

	"github.com/traits-rail/traits-core/internal/apperr"
	"github.com/traits-rail/traits-core/internal/database"
	"github.com/traits-rail/traits-core/internal/models"
)

// TrainService manages Trains. It never gates booking or update operations
// on the train's operational status, and UpdateTrainDetails never checks
// outstanding reservations — see SPEC_FULL.md's Open Question decision
// (d), carried forward from original_source.update_train_details.
type TrainService struct {
	trains *database.TrainRepository
	logger *logrus.Logger
}

// NewTrainService builds a TrainService.
func NewTrainService(trains *database.TrainRepository, logger *logrus.Logger) *TrainService {
	return &TrainService{trains: trains, logger: logger}
}

// AddTrain creates a new train.
func (s *TrainService) AddTrain(name string, capacity int, status models.TrainStatus) (*models.Train, error) {
	const op = "TrainService.AddTrain"

	existing, err := s.trains.GetByName(name)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, op, err)
	}
	if existing != nil {
		return nil, apperr.Invalid(op, "train %q already exists", name)
	}
	if capacity <= 0 {
		return nil, apperr.Invalid(op, "capacity must be positive, got %d", capacity)
	}

	return s.trains.Create(name, capacity, int(status))
}

// UpdateTrainDetails updates a train's mutable fields with no gating on
// outstanding reservations — reproduced as-is from original_source.
func (s *TrainService) UpdateTrainDetails(id int64, name string, capacity int, status models.TrainStatus) error {
	const op = "TrainService.UpdateTrainDetails"

	train, err := s.trains.GetByID(id)
	if err != nil {
		return apperr.Wrap(apperr.Internal, op, err)
	}
	if train == nil {
		return apperr.NotFoundf(op, "train %d does not exist", id)
	}

	if err := s.trains.UpdateDetails(id, name, capacity, int(status)); err != nil {
		return apperr.Wrap(apperr.Internal, op, err)
	}
	return nil
}

// DeleteTrain removes a train; its trips, tickets, and reservations
// cascade per invariant 9.
func (s *TrainService) DeleteTrain(id int64) error {
	return s.trains.Delete(id)
}

// GetCurrentStatus returns the train's status, or nil (no error) if the
// train does not exist — spec.md §4.5's "quiet absence" contract, served
// off the base handle per Open Question decision (c).
func (s *TrainService) GetCurrentStatus(id int64) (*models.TrainStatus, error) {
	const op = "TrainService.GetCurrentStatus"

	train, err := s.trains.GetByID(id)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, op, err)
	}
	if train == nil {
		return nil, nil
	}
	status := models.TrainStatus(train.Status)
	return &status, nil
}
