package payment

import (
	"errors"

	"gorm.io/gorm"

	"github.com/sibarmoto/motoparts-backend/internal/order"
	"github.com/sibarmoto/motoparts-backend/internal/user"
)

type Storage interface {
	GetUnpaidOrder(orderID, userID string) (*order.Order, error)
	GetPayment(paymentID string) (*order.Payment, error)

	// ApplyOutcome persists a settlement attempt and, when it completed,
	// reconciles the order and credits loyalty points — one transaction.
	// The seeded pending row is consumed first; retries append new rows.
	ApplyOutcome(o *order.Order, method order.PaymentMethod, outcome Outcome, points int) (*order.Payment, error)

	// ApplyRefund marks the payment and its order refunded atomically.
	ApplyRefund(p *order.Payment, outcome Outcome) error

	ListPayments(userID string, status order.PaymentStatus, limit, offset int) ([]order.Payment, int64, error)
}

type paymentStorage struct {
	db *gorm.DB
}

func NewStorage(db *gorm.DB) Storage {
	return &paymentStorage{db: db}
}

func (s *paymentStorage) GetUnpaidOrder(orderID, userID string) (*order.Order, error) {
	var o order.Order
	err := s.db.Where("id = ? AND user_id = ? AND payment_status = ?",
		orderID, userID, order.PaymentStateUnpaid).First(&o).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFoundOrPaid
		}
		return nil, err
	}
	return &o, nil
}

func (s *paymentStorage) GetPayment(paymentID string) (*order.Payment, error) {
	var p order.Payment
	err := s.db.First(&p, "id = ?", paymentID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (s *paymentStorage) ApplyOutcome(o *order.Order, method order.PaymentMethod, outcome Outcome, points int) (*order.Payment, error) {
	var applied order.Payment

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var pending order.Payment
		err := tx.Where("order_id = ? AND status = ?", o.ID, order.PaymentPending).
			Order("created_at DESC").First(&pending).Error
		switch {
		case err == nil:
			pending.Method = method
			pending.Status = outcome.Status
			pending.TransactionID = outcome.TransactionID
			pending.GatewayResponse = outcome.GatewayResponse
			if err := tx.Save(&pending).Error; err != nil {
				return err
			}
			applied = pending
		case errors.Is(err, gorm.ErrRecordNotFound):
			applied = order.Payment{
				OrderID:         o.ID,
				Method:          method,
				Amount:          o.TotalAmount,
				Status:          outcome.Status,
				TransactionID:   outcome.TransactionID,
				GatewayResponse: outcome.GatewayResponse,
			}
			if err := tx.Create(&applied).Error; err != nil {
				return err
			}
		default:
			return err
		}

		if outcome.Status != order.PaymentCompleted {
			return nil
		}

		err = tx.Model(&order.Order{}).Where("id = ?", o.ID).
			Updates(map[string]interface{}{
				"payment_status": order.PaymentStatePaid,
				"status":         order.StatusPaid,
			}).Error
		if err != nil {
			return err
		}

		return user.AddPoints(tx, o.UserID, points)
	})
	if err != nil {
		return nil, err
	}

	return &applied, nil
}

func (s *paymentStorage) ApplyRefund(p *order.Payment, outcome Outcome) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&order.Payment{}).Where("id = ?", p.ID).
			Updates(map[string]interface{}{
				"status":           order.PaymentRefunded,
				"gateway_response": outcome.GatewayResponse,
			}).Error
		if err != nil {
			return err
		}

		return tx.Model(&order.Order{}).Where("id = ?", p.OrderID).
			Update("payment_status", order.PaymentStateRefunded).Error
	})
}

func (s *paymentStorage) ListPayments(userID string, status order.PaymentStatus, limit, offset int) ([]order.Payment, int64, error) {
	query := s.db.Model(&order.Payment{}).
		Joins("JOIN orders ON orders.id = payments.order_id").
		Where("orders.user_id = ?", userID)
	if status != "" {
		query = query.Where("payments.status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var payments []order.Payment
	err := query.Order("payments.created_at DESC").Limit(limit).Offset(offset).Find(&payments).Error
	if err != nil {
		return nil, 0, err
	}
	return payments, total, nil
}
