package cart

import (
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/sibarmoto/motoparts-backend/internal/catalog"
	"github.com/sibarmoto/motoparts-backend/internal/inventory"
	"github.com/sibarmoto/motoparts-backend/internal/pricing"
)

// ProductResolver fetches product data for a tagged product reference.
// Satisfied by catalog.Resolver.
type ProductResolver interface {
	Resolve(productType catalog.ProductType, productID string) (*catalog.ProductInfo, error)
}

type CartService interface {
	GetCart(userID, membershipType string) (*View, error)
	AddItem(userID string, productType catalog.ProductType, productID string, quantity int) (int, error)
	UpdateItem(userID, itemID string, quantity int) error
	RemoveItem(userID, itemID string) error
	Clear(userID string) error

	// ValidatedLines re-checks every cart line against live stock. It is the
	// authoritative pre-checkout gate; order creation goes through it too.
	ValidatedLines(userID string) ([]Line, error)
	CheckoutSummary(userID, membershipType string) (*View, error)
}

type cartService struct {
	storage  Storage
	resolver ProductResolver
	logger   *logrus.Entry
}

func NewService(storage Storage, resolver ProductResolver, log *logrus.Entry) CartService {
	return &cartService{
		storage:  storage,
		resolver: resolver,
		logger:   log,
	}
}

func (s *cartService) GetCart(userID, membershipType string) (*View, error) {
	items, err := s.storage.ListItems(userID)
	if err != nil {
		return nil, err
	}

	view := &View{Lines: []Line{}}
	for _, item := range items {
		product, err := s.resolver.Resolve(item.ProductType, item.ProductID)
		if err != nil {
			if errors.Is(err, catalog.ErrProductNotFound) {
				// product deactivated since it was added; leave the row but
				// keep it out of the priced view
				continue
			}
			return nil, err
		}

		lineTotal := product.UnitPrice * float64(item.Quantity)
		view.Lines = append(view.Lines, Line{
			Item:      item,
			Product:   *product,
			LineTotal: lineTotal,
		})
		view.Summary.Subtotal += lineTotal
		view.Summary.TotalQuantity += item.Quantity
	}

	discount := pricing.MembershipDiscount(membershipType)
	view.Summary.ItemCount = len(view.Lines)
	view.Summary.DiscountPercentage = discount * 100
	view.Summary.DiscountAmount = view.Summary.Subtotal * discount
	view.Summary.Total = view.Summary.Subtotal - view.Summary.DiscountAmount

	return view, nil
}

func (s *cartService) AddItem(userID string, productType catalog.ProductType, productID string, quantity int) (int, error) {
	product, err := s.resolver.Resolve(productType, productID)
	if err != nil {
		return 0, err
	}

	if product.Available < quantity {
		return 0, &inventory.InsufficientStockError{
			ProductName: product.Name,
			Available:   product.Available,
			Requested:   quantity,
		}
	}

	existing, err := s.storage.GetItemByProduct(userID, productType, productID)
	if err != nil {
		if !errors.Is(err, ErrCartItemNotFound) {
			return 0, err
		}

		item := &CartItem{
			UserID:      userID,
			ProductType: productType,
			ProductID:   productID,
			Quantity:    quantity,
		}
		if err := s.storage.CreateItem(item); err != nil {
			return 0, err
		}
		return quantity, nil
	}

	newQuantity := existing.Quantity + quantity
	if product.Available < newQuantity {
		return 0, &inventory.InsufficientStockError{
			ProductName: product.Name,
			Available:   product.Available,
			Requested:   newQuantity,
		}
	}

	if err := s.storage.UpdateQuantity(existing.ID, newQuantity); err != nil {
		return 0, err
	}
	return newQuantity, nil
}

func (s *cartService) UpdateItem(userID, itemID string, quantity int) error {
	item, err := s.storage.GetItem(itemID, userID)
	if err != nil {
		return err
	}

	product, err := s.resolver.Resolve(item.ProductType, item.ProductID)
	if err != nil {
		return err
	}

	if product.Available < quantity {
		return &inventory.InsufficientStockError{
			ProductName: product.Name,
			Available:   product.Available,
			Requested:   quantity,
		}
	}

	return s.storage.UpdateQuantity(item.ID, quantity)
}

func (s *cartService) RemoveItem(userID, itemID string) error {
	return s.storage.DeleteItem(itemID, userID)
}

func (s *cartService) Clear(userID string) error {
	return s.storage.Clear(userID)
}

func (s *cartService) ValidatedLines(userID string) ([]Line, error) {
	items, err := s.storage.ListItems(userID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}

	lines := make([]Line, 0, len(items))
	for _, item := range items {
		product, err := s.resolver.Resolve(item.ProductType, item.ProductID)
		if err != nil {
			return nil, err
		}

		if product.Available < item.Quantity {
			return nil, &inventory.InsufficientStockError{
				ProductName: product.Name,
				Available:   product.Available,
				Requested:   item.Quantity,
			}
		}

		lines = append(lines, Line{
			Item:      item,
			Product:   *product,
			LineTotal: product.UnitPrice * float64(item.Quantity),
		})
	}

	return lines, nil
}

func (s *cartService) CheckoutSummary(userID, membershipType string) (*View, error) {
	lines, err := s.ValidatedLines(userID)
	if err != nil {
		return nil, err
	}

	view := &View{Lines: lines}
	for _, line := range lines {
		view.Summary.Subtotal += line.LineTotal
		view.Summary.TotalWeight += line.Product.Weight * float64(line.Item.Quantity)
		view.Summary.TotalQuantity += line.Item.Quantity
	}

	discount := pricing.MembershipDiscount(membershipType)
	view.Summary.ItemCount = len(lines)
	view.Summary.DiscountPercentage = discount * 100
	view.Summary.DiscountAmount = view.Summary.Subtotal * discount
	view.Summary.Total = view.Summary.Subtotal - view.Summary.DiscountAmount
	view.Summary.PointsEarned = pricing.PointsEarned(view.Summary.Subtotal, membershipType)

	return view, nil
}
