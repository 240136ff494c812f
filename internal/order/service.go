package order

import (
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/sibarmoto/motoparts-backend/internal/cart"
	"github.com/sibarmoto/motoparts-backend/internal/inventory"
	"github.com/sibarmoto/motoparts-backend/internal/pricing"
	"github.com/sibarmoto/motoparts-backend/internal/user"
)

// createAttempts bounds the retry loop on an order-number collision.
const createAttempts = 3

// AddressStorage is the slice of user.Storage the orchestrator needs.
type AddressStorage interface {
	GetAddress(addressID, userID string) (*user.Address, error)
}

// CartGateway validates the caller's cart against live stock. Satisfied by
// cart.CartService: order creation must go through the same gate as the
// checkout summary, never a stale cart read.
type CartGateway interface {
	ValidatedLines(userID string) ([]cart.Line, error)
}

// CreatedOrder is the creation result with the price breakdown the client
// saw computed, alongside the stored rows.
type CreatedOrder struct {
	Order    *Order   `json:"order"`
	Payment  *Payment `json:"payment"`
	Subtotal float64  `json:"subtotal"`
}

// ItemDetail is an order item joined to the live product for display.
type ItemDetail struct {
	OrderItem
	ProductName   string `json:"product_name"`
	ProductImages string `json:"product_images,omitempty"`
	BrandName     string `json:"brand_name,omitempty"`
}

type Detail struct {
	Order           *Order        `json:"order"`
	Items           []ItemDetail  `json:"items"`
	Payments        []Payment     `json:"payments"`
	ShippingAddress *user.Address `json:"shipping_address"`
}

type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int64 `json:"pages"`
}

type TimelineStep struct {
	Status      OrderStatus `json:"status"`
	Label       string      `json:"label"`
	Description string      `json:"description"`
	Completed   bool        `json:"completed"`
	Current     bool        `json:"current"`
}

type Tracking struct {
	OrderID        string         `json:"order_id"`
	Status         OrderStatus    `json:"status"`
	TrackingNumber string         `json:"tracking_number,omitempty"`
	Timeline       []TimelineStep `json:"timeline"`
}

type OrderService interface {
	CreateOrder(userID, shippingAddressID string, method PaymentMethod, notes string) (*CreatedOrder, error)
	CancelOrder(orderID, userID string) error
	GetOrder(orderID, userID string) (*Detail, error)
	ListOrders(userID string, status OrderStatus, page, limit int) ([]Order, *Pagination, error)
	TrackOrder(orderID, userID string) (*Tracking, error)

	// UpdateStatus is the admin transition: forward moves only, with the
	// cancel path releasing stock like a user cancellation.
	UpdateStatus(orderID string, status OrderStatus, trackingNumber string) error
}

type orderService struct {
	storage   Storage
	addresses AddressStorage
	carts     CartGateway
	resolver  cart.ProductResolver
	logger    *logrus.Entry
}

func NewService(storage Storage, addresses AddressStorage, carts CartGateway, resolver cart.ProductResolver, log *logrus.Entry) OrderService {
	return &orderService{
		storage:   storage,
		addresses: addresses,
		carts:     carts,
		resolver:  resolver,
		logger:    log,
	}
}

func (s *orderService) CreateOrder(userID, shippingAddressID string, method PaymentMethod, notes string) (*CreatedOrder, error) {
	address, err := s.addresses.GetAddress(shippingAddressID, userID)
	if err != nil {
		return nil, err
	}

	lines, err := s.carts.ValidatedLines(userID)
	if err != nil {
		return nil, err
	}

	var subtotal, totalWeight float64
	items := make([]OrderItem, 0, len(lines))
	reserve := make([]inventory.Line, 0, len(lines))

	for _, line := range lines {
		subtotal += line.Product.UnitPrice * float64(line.Item.Quantity)
		totalWeight += line.Product.Weight * float64(line.Item.Quantity)

		items = append(items, OrderItem{
			ProductType: line.Item.ProductType,
			ProductID:   line.Item.ProductID,
			Quantity:    line.Item.Quantity,
			Price:       line.Product.UnitPrice,
		})
		reserve = append(reserve, inventory.Line{
			ProductType: line.Item.ProductType,
			ProductID:   line.Item.ProductID,
			Quantity:    line.Item.Quantity,
		})
	}

	shippingCost := pricing.ShippingCost(address.Country, totalWeight)
	totalAmount := subtotal + shippingCost

	newOrder := &Order{
		UserID:            userID,
		Status:            StatusPending,
		TotalAmount:       totalAmount,
		ShippingCost:      shippingCost,
		ShippingAddressID: address.ID,
		PaymentState:      PaymentStateUnpaid,
		Notes:             notes,
	}
	payment := &Payment{
		Method: method,
		Amount: totalAmount,
		Status: PaymentPending,
	}

	for attempt := 0; attempt < createAttempts; attempt++ {
		newOrder.OrderNumber = NewOrderNumber()
		err = s.storage.CreateOrder(newOrder, items, payment, reserve)
		if err == nil {
			break
		}
		if !errors.Is(err, errDuplicateOrderNumber) {
			return nil, err
		}
		s.logger.Warnf("order number collision on %s, regenerating", newOrder.OrderNumber)
	}
	if err != nil {
		return nil, err
	}

	s.logger.Infof("order %s created for user %s, total %.2f", newOrder.OrderNumber, userID, totalAmount)

	return &CreatedOrder{
		Order:    newOrder,
		Payment:  payment,
		Subtotal: subtotal,
	}, nil
}

func (s *orderService) CancelOrder(orderID, userID string) error {
	current, err := s.storage.GetOrderWithItems(orderID, userID)
	if err != nil {
		return err
	}

	if current.Status == StatusCancelled {
		return ErrOrderAlreadyCancelled
	}
	if !current.Cancellable() {
		return ErrOrderNotCancellable
	}

	release := make([]inventory.Line, 0, len(current.Items))
	for _, item := range current.Items {
		release = append(release, inventory.Line{
			ProductType: item.ProductType,
			ProductID:   item.ProductID,
			Quantity:    item.Quantity,
		})
	}

	if err := s.storage.CancelOrder(orderID, release); err != nil {
		return err
	}

	s.logger.Infof("order %s cancelled by user %s", orderID, userID)
	return nil
}

func (s *orderService) GetOrder(orderID, userID string) (*Detail, error) {
	current, err := s.storage.GetOrderWithItems(orderID, userID)
	if err != nil {
		return nil, err
	}

	payments, err := s.storage.GetPayments(orderID)
	if err != nil {
		return nil, err
	}

	address, err := s.addresses.GetAddress(current.ShippingAddressID, userID)
	if err != nil && !errors.Is(err, user.ErrAddressNotFound) {
		return nil, err
	}

	items := make([]ItemDetail, 0, len(current.Items))
	for _, item := range current.Items {
		detail := ItemDetail{OrderItem: item}
		// live product data is display-only here; a product removed since
		// purchase leaves the snapshot fields as they were
		if product, err := s.resolver.Resolve(item.ProductType, item.ProductID); err == nil {
			detail.ProductName = product.Name
			detail.ProductImages = product.Images
			detail.BrandName = product.BrandName
		}
		items = append(items, detail)
	}

	return &Detail{
		Order:           current,
		Items:           items,
		Payments:        payments,
		ShippingAddress: address,
	}, nil
}

func (s *orderService) ListOrders(userID string, status OrderStatus, page, limit int) ([]Order, *Pagination, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	orders, total, err := s.storage.ListOrders(userID, status, limit, (page-1)*limit)
	if err != nil {
		return nil, nil, err
	}

	pages := total / int64(limit)
	if total%int64(limit) != 0 {
		pages++
	}

	return orders, &Pagination{
		Page:  page,
		Limit: limit,
		Total: total,
		Pages: pages,
	}, nil
}

var timeline = []TimelineStep{
	{Status: StatusPending, Label: "Order Placed", Description: "Your order has been placed and is being processed"},
	{Status: StatusPaid, Label: "Payment Confirmed", Description: "Payment has been confirmed and order is being prepared"},
	{Status: StatusShipped, Label: "Shipped", Description: "Your order has been shipped and is on its way"},
	{Status: StatusDelivered, Label: "Delivered", Description: "Your order has been delivered successfully"},
}

func (s *orderService) TrackOrder(orderID, userID string) (*Tracking, error) {
	current, err := s.storage.GetOrderByID(orderID, userID)
	if err != nil {
		return nil, err
	}

	currentIndex := -1
	for i, step := range timeline {
		if step.Status == current.Status {
			currentIndex = i
		}
	}

	steps := make([]TimelineStep, len(timeline))
	copy(steps, timeline)
	for i := range steps {
		steps[i].Completed = currentIndex >= 0 && i <= currentIndex
		steps[i].Current = i == currentIndex
	}

	return &Tracking{
		OrderID:        current.ID,
		Status:         current.Status,
		TrackingNumber: current.TrackingNumber,
		Timeline:       steps,
	}, nil
}

var statusRank = map[OrderStatus]int{
	StatusPending:   0,
	StatusPaid:      1,
	StatusShipped:   2,
	StatusDelivered: 3,
}

func (s *orderService) UpdateStatus(orderID string, status OrderStatus, trackingNumber string) error {
	current, err := s.storage.GetOrder(orderID)
	if err != nil {
		return err
	}

	if status == StatusCancelled {
		if current.Status == StatusCancelled {
			return ErrOrderAlreadyCancelled
		}
		if !current.Cancellable() {
			return ErrOrderNotCancellable
		}

		release := make([]inventory.Line, 0, len(current.Items))
		for _, item := range current.Items {
			release = append(release, inventory.Line{
				ProductType: item.ProductType,
				ProductID:   item.ProductID,
				Quantity:    item.Quantity,
			})
		}
		return s.storage.CancelOrder(orderID, release)
	}

	targetRank, ok := statusRank[status]
	if !ok {
		return ErrInvalidStateTransition
	}
	currentRank, ok := statusRank[current.Status]
	if !ok || targetRank <= currentRank {
		return ErrInvalidStateTransition
	}

	return s.storage.UpdateStatus(orderID, status, trackingNumber)
}
