package order

import (
	"errors"

	"gorm.io/gorm"

	"github.com/sibarmoto/motoparts-backend/internal/cart"
	"github.com/sibarmoto/motoparts-backend/internal/inventory"
)

type Storage interface {
	// CreateOrder commits the whole placement in one transaction: the order
	// row, its items, the seeded payment row, the stock decrement for every
	// line, and the cart wipe. Any failure rolls back all of it.
	CreateOrder(order *Order, items []OrderItem, payment *Payment, reserve []inventory.Line) error

	GetOrderByID(orderID, userID string) (*Order, error)
	GetOrderWithItems(orderID, userID string) (*Order, error)
	// GetOrder looks an order up without an ownership filter, for admin flows.
	GetOrder(orderID string) (*Order, error)
	GetPayments(orderID string) ([]Payment, error)
	ListOrders(userID string, status OrderStatus, limit, offset int) ([]Order, int64, error)

	// CancelOrder flips the order to cancelled, restores stock for every
	// line, and marks completed payments refunded, atomically. The
	// pending-or-paid gate is enforced inside the transaction, so a cancel
	// losing a race gets ErrOrderAlreadyCancelled and releases nothing.
	CancelOrder(orderID string, release []inventory.Line) error

	UpdateStatus(orderID string, status OrderStatus, trackingNumber string) error
}

type orderStorage struct {
	db *gorm.DB
}

func NewStorage(db *gorm.DB) Storage {
	return &orderStorage{db: db}
}

func (s *orderStorage) CreateOrder(order *Order, items []OrderItem, payment *Payment, reserve []inventory.Line) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(order).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return errDuplicateOrderNumber
			}
			return err
		}

		for i := range items {
			items[i].OrderID = order.ID
		}
		if err := tx.Create(&items).Error; err != nil {
			return err
		}

		payment.OrderID = order.ID
		if err := tx.Create(payment).Error; err != nil {
			return err
		}

		if err := inventory.Reserve(tx, reserve); err != nil {
			return err
		}

		return tx.Where("user_id = ?", order.UserID).Delete(&cart.CartItem{}).Error
	})
}

func (s *orderStorage) GetOrderByID(orderID, userID string) (*Order, error) {
	var order Order
	err := s.db.Where("id = ? AND user_id = ?", orderID, userID).First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return &order, nil
}

func (s *orderStorage) GetOrderWithItems(orderID, userID string) (*Order, error) {
	var order Order
	err := s.db.Preload("Items").Where("id = ? AND user_id = ?", orderID, userID).First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return &order, nil
}

func (s *orderStorage) GetOrder(orderID string) (*Order, error) {
	var order Order
	err := s.db.Preload("Items").Where("id = ?", orderID).First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return &order, nil
}

func (s *orderStorage) GetPayments(orderID string) ([]Payment, error) {
	var payments []Payment
	err := s.db.Where("order_id = ?", orderID).Order("created_at DESC").Find(&payments).Error
	if err != nil {
		return nil, err
	}
	return payments, nil
}

func (s *orderStorage) ListOrders(userID string, status OrderStatus, limit, offset int) ([]Order, int64, error) {
	query := s.db.Model(&Order{}).Where("user_id = ?", userID)
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var orders []Order
	err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&orders).Error
	if err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

func (s *orderStorage) CancelOrder(orderID string, release []inventory.Line) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		// the status guard must live inside the transaction: two concurrent
		// cancels would otherwise both pass a service-level check and both
		// restore stock
		result := tx.Model(&Order{}).
			Where("id = ? AND status IN ?", orderID, []OrderStatus{StatusPending, StatusPaid}).
			Update("status", StatusCancelled)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			var current Order
			err := tx.Select("status").First(&current, "id = ?", orderID).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOrderNotFound
			}
			if err != nil {
				return err
			}
			if current.Status == StatusCancelled {
				return ErrOrderAlreadyCancelled
			}
			return ErrOrderNotCancellable
		}

		if err := inventory.Release(tx, release); err != nil {
			return err
		}

		return tx.Model(&Payment{}).
			Where("order_id = ? AND status = ?", orderID, PaymentCompleted).
			Update("status", PaymentRefunded).Error
	})
}

func (s *orderStorage) UpdateStatus(orderID string, status OrderStatus, trackingNumber string) error {
	updates := map[string]interface{}{"status": status}
	if trackingNumber != "" {
		updates["tracking_number"] = trackingNumber
	}

	result := s.db.Model(&Order{}).Where("id = ?", orderID).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrOrderNotFound
	}
	return nil
}
