package cart

import (
	"errors"

	"gorm.io/gorm"

	"github.com/sibarmoto/motoparts-backend/internal/catalog"
)

type Storage interface {
	ListItems(userID string) ([]CartItem, error)
	GetItem(itemID, userID string) (*CartItem, error)
	GetItemByProduct(userID string, productType catalog.ProductType, productID string) (*CartItem, error)
	CreateItem(item *CartItem) error
	UpdateQuantity(itemID string, quantity int) error
	DeleteItem(itemID, userID string) error
	Clear(userID string) error
}

type cartStorage struct {
	db *gorm.DB
}

func NewStorage(db *gorm.DB) Storage {
	return &cartStorage{db: db}
}

func (s *cartStorage) ListItems(userID string) ([]CartItem, error) {
	var items []CartItem
	err := s.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (s *cartStorage) GetItem(itemID, userID string) (*CartItem, error) {
	var item CartItem
	err := s.db.Where("id = ? AND user_id = ?", itemID, userID).First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCartItemNotFound
		}
		return nil, err
	}
	return &item, nil
}

func (s *cartStorage) GetItemByProduct(userID string, productType catalog.ProductType, productID string) (*CartItem, error) {
	var item CartItem
	err := s.db.Where("user_id = ? AND product_type = ? AND product_id = ?",
		userID, productType, productID).First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCartItemNotFound
		}
		return nil, err
	}
	return &item, nil
}

func (s *cartStorage) CreateItem(item *CartItem) error {
	return s.db.Create(item).Error
}

func (s *cartStorage) UpdateQuantity(itemID string, quantity int) error {
	result := s.db.Model(&CartItem{}).Where("id = ?", itemID).Update("quantity", quantity)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrCartItemNotFound
	}
	return nil
}

func (s *cartStorage) DeleteItem(itemID, userID string) error {
	result := s.db.Where("id = ? AND user_id = ?", itemID, userID).Delete(&CartItem{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrCartItemNotFound
	}
	return nil
}

func (s *cartStorage) Clear(userID string) error {
	return s.db.Where("user_id = ?", userID).Delete(&CartItem{}).Error
}
