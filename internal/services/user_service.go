package services

import (
	"regexp"

	"github.com/sirupsen/logrus"

	"github.com/traits-rail/traits-core/internal/apperr"
	"github.com/traits-rail/traits-core/internal/database"
	"github.com/traits-rail/traits-core/internal/models"
)

// emailRe mirrors the schema's CHECK (email ~ ...) constraint on the users
// table (internal/database/schema.go) so a malformed email fails here with
// InvalidArgument instead of falling through to the constraint, which
// apperr.CodeOf can't distinguish from any other driver error.
var emailRe = regexp.MustCompile(`^[a-zA-Z0-9_.+-]+@[a-zA-Z0-9-]+\.[a-zA-Z0-9-.]+$`)

// UserService manages Users.
type UserService struct {
	users  *database.UserRepository
	logger *logrus.Logger
}

// NewUserService builds a UserService.
func NewUserService(users *database.UserRepository, logger *logrus.Logger) *UserService {
	return &UserService{users: users, logger: logger}
}

// AddUser creates a new user, rejecting a malformed or duplicate email.
func (s *UserService) AddUser(email, details string) (*models.User, error) {
	const op = "UserService.AddUser"

	if !emailRe.MatchString(email) {
		return nil, apperr.Invalid(op, "email %q is not a valid address", email)
	}

	existing, err := s.users.GetByEmail(email)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, op, err)
	}
	if existing != nil {
		return nil, apperr.Invalid(op, "user %q already exists", email)
	}

	return s.users.Create(email, details)
}

// DeleteUser removes a user; their tickets and reservations cascade per
// invariant 9.
func (s *UserService) DeleteUser(id int64) error {
	const op = "UserService.DeleteUser"

	user, err := s.users.GetByID(id)
	if err != nil {
		return apperr.Wrap(apperr.Internal, op, err)
	}
	if user == nil {
		return apperr.NotFoundf(op, "user %d does not exist", id)
	}

	return s.users.Delete(id)
}
