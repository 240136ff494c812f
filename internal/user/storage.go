package user

import (
	"errors"

	"gorm.io/gorm"
)

type Storage interface {
	GetUser(userID string) (*User, error)
	GetAddress(addressID, userID string) (*Address, error)
	ListAddresses(userID string) ([]Address, error)
	CreateAddress(address *Address) error
	UpdateAddress(address *Address) error
	DeleteAddress(addressID, userID string) error
	SetMembership(userID, tier string) error
}

// AddPoints credits loyalty points inside the caller's transaction, so a
// settlement can pair the credit with its payment and order writes.
func AddPoints(tx *gorm.DB, userID string, points int) error {
	return tx.Model(&User{}).Where("id = ?", userID).
		Update("membership_points", gorm.Expr("membership_points + ?", points)).Error
}

type userStorage struct {
	db *gorm.DB
}

func NewStorage(db *gorm.DB) Storage {
	return &userStorage{db: db}
}

func (s *userStorage) GetUser(userID string) (*User, error) {
	var u User
	if err := s.db.First(&u, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (s *userStorage) GetAddress(addressID, userID string) (*Address, error) {
	var a Address
	err := s.db.Where("id = ? AND user_id = ?", addressID, userID).First(&a).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAddressNotFound
		}
		return nil, err
	}
	return &a, nil
}

func (s *userStorage) ListAddresses(userID string) ([]Address, error) {
	var addresses []Address
	err := s.db.Where("user_id = ?", userID).
		Order("is_default DESC, created_at DESC").
		Find(&addresses).Error
	if err != nil {
		return nil, err
	}
	return addresses, nil
}

// CreateAddress inserts the address; a default address unsets the flag on
// every other row of the user first, keeping at most one default.
func (s *userStorage) CreateAddress(address *Address) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if address.IsDefault {
			if err := tx.Model(&Address{}).Where("user_id = ?", address.UserID).
				Update("is_default", false).Error; err != nil {
				return err
			}
		}
		return tx.Create(address).Error
	})
}

func (s *userStorage) UpdateAddress(address *Address) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if address.IsDefault {
			if err := tx.Model(&Address{}).
				Where("user_id = ? AND id != ?", address.UserID, address.ID).
				Update("is_default", false).Error; err != nil {
				return err
			}
		}

		result := tx.Model(&Address{}).
			Where("id = ? AND user_id = ?", address.ID, address.UserID).
			Updates(map[string]interface{}{
				"label":       address.Label,
				"country":     address.Country,
				"city":        address.City,
				"street":      address.Street,
				"postal_code": address.PostalCode,
				"is_default":  address.IsDefault,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrAddressNotFound
		}
		return nil
	})
}

func (s *userStorage) DeleteAddress(addressID, userID string) error {
	result := s.db.Where("id = ? AND user_id = ?", addressID, userID).Delete(&Address{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrAddressNotFound
	}
	return nil
}

func (s *userStorage) SetMembership(userID, tier string) error {
	result := s.db.Model(&User{}).Where("id = ?", userID).Update("membership_type", tier)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}
