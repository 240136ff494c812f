package order

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sibarmoto/motoparts-backend/internal/catalog"
)

type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusPaid      OrderStatus = "paid"
	StatusShipped   OrderStatus = "shipped"
	StatusDelivered OrderStatus = "delivered"
	StatusCancelled OrderStatus = "cancelled"
)

// PaymentState is the order-level payment flag, distinct from the status of
// the individual payment attempts.
type PaymentState string

const (
	PaymentStateUnpaid   PaymentState = "unpaid"
	PaymentStatePaid     PaymentState = "paid"
	PaymentStateRefunded PaymentState = "refunded"
)

type PaymentMethod string

const (
	MethodCard         PaymentMethod = "card"
	MethodBankTransfer PaymentMethod = "bank_transfer"
	MethodWallet       PaymentMethod = "wallet"
	MethodCash         PaymentMethod = "cash"
	MethodPayLater     PaymentMethod = "pay_later"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case MethodCard, MethodBankTransfer, MethodWallet, MethodCash, MethodPayLater:
		return true
	}
	return false
}

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
	PaymentRefunded  PaymentStatus = "refunded"
)

type Order struct {
	ID                string       `gorm:"type:uuid;primaryKey" json:"id"`
	UserID            string       `gorm:"type:uuid;not null;index" json:"user_id"`
	OrderNumber       string       `gorm:"uniqueIndex;not null" json:"order_number"`
	Status            OrderStatus  `gorm:"not null;default:pending" json:"status"`
	TotalAmount       float64      `gorm:"not null" json:"total_amount"`
	ShippingCost      float64      `json:"shipping_cost"`
	ShippingAddressID string       `gorm:"type:uuid;not null" json:"shipping_address_id"`
	PaymentState      PaymentState `gorm:"column:payment_status;not null;default:unpaid" json:"payment_status"`
	TrackingNumber    string       `json:"tracking_number,omitempty"`
	Notes             string       `json:"notes,omitempty"`
	Items             []OrderItem  `gorm:"foreignKey:OrderID" json:"items,omitempty"`
	CreatedAt         time.Time    `json:"created_at"`
	UpdatedAt         time.Time    `json:"updated_at"`
}

// OrderItem snapshots a cart line at order time. Price is captured once and
// never follows the live product price.
type OrderItem struct {
	ID          string              `gorm:"type:uuid;primaryKey" json:"id"`
	OrderID     string              `gorm:"type:uuid;not null;index" json:"order_id"`
	ProductType catalog.ProductType `gorm:"not null" json:"product_type"`
	ProductID   string              `gorm:"type:uuid;not null" json:"product_id"`
	Quantity    int                 `gorm:"not null" json:"quantity"`
	Price       float64             `gorm:"not null" json:"price"`
	CreatedAt   time.Time           `json:"created_at"`
}

// Payment is one settlement attempt against an order. Retries append rows;
// order creation seeds exactly one pending row.
type Payment struct {
	ID              string        `gorm:"type:uuid;primaryKey" json:"id"`
	OrderID         string        `gorm:"type:uuid;not null;index" json:"order_id"`
	Method          PaymentMethod `gorm:"not null" json:"method"`
	Amount          float64       `gorm:"not null" json:"amount"`
	Status          PaymentStatus `gorm:"not null;default:pending" json:"status"`
	TransactionID   string        `json:"transaction_id,omitempty"`
	GatewayResponse string        `json:"gateway_response,omitempty"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
}

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	return nil
}

func (i *OrderItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	return nil
}

func (p *Payment) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// Cancellable reports whether the order may still transition to cancelled.
func (o *Order) Cancellable() bool {
	return o.Status == StatusPending || o.Status == StatusPaid
}
