package user

import (
	"github.com/sirupsen/logrus"

	"github.com/sibarmoto/motoparts-backend/internal/pricing"
)

type UserLogHook struct{}

func (h *UserLogHook) Fire(entry *logrus.Entry) error {
	entry.Message = "User: " + entry.Message
	return nil
}

func (h *UserLogHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

type UserService interface {
	GetProfile(userID string) (*User, error)
	GetAddress(addressID, userID string) (*Address, error)
	ListAddresses(userID string) ([]Address, error)
	CreateAddress(address *Address) error
	UpdateAddress(address *Address) error
	DeleteAddress(addressID, userID string) error

	// UpgradeMembership moves the user to the next tier when their points
	// cross that tier's threshold. Returns the new tier, or "" when the user
	// does not qualify.
	UpgradeMembership(userID string) (string, error)
}

type userService struct {
	storage Storage
	logger  *logrus.Entry
}

func NewService(storage Storage, log *logrus.Entry) UserService {
	return &userService{
		storage: storage,
		logger:  log,
	}
}

func (s *userService) GetProfile(userID string) (*User, error) {
	return s.storage.GetUser(userID)
}

func (s *userService) GetAddress(addressID, userID string) (*Address, error) {
	return s.storage.GetAddress(addressID, userID)
}

func (s *userService) ListAddresses(userID string) ([]Address, error) {
	return s.storage.ListAddresses(userID)
}

func (s *userService) CreateAddress(address *Address) error {
	return s.storage.CreateAddress(address)
}

func (s *userService) UpdateAddress(address *Address) error {
	return s.storage.UpdateAddress(address)
}

func (s *userService) DeleteAddress(addressID, userID string) error {
	return s.storage.DeleteAddress(addressID, userID)
}

func (s *userService) UpgradeMembership(userID string) (string, error) {
	u, err := s.storage.GetUser(userID)
	if err != nil {
		return "", err
	}

	if !pricing.CanUpgrade(u.MembershipType, u.MembershipPoints) {
		return "", nil
	}

	next := pricing.NextLevel(u.MembershipType)
	if next == "" {
		return "", nil
	}

	if err := s.storage.SetMembership(userID, next); err != nil {
		return "", err
	}

	s.logger.Infof("user %s upgraded to %s", userID, next)
	return next, nil
}
