package catalog

import (
	"errors"

	"gorm.io/gorm"
)

var ErrProductNotFound = errors.New("product not found or not available")

// ProductInfo is the normalized view of either product table: the fields the
// cart and order flows need regardless of which table backs the reference.
type ProductInfo struct {
	ID        string      `json:"id"`
	Type      ProductType `json:"type"`
	Name      string      `json:"name"`
	BrandName string      `json:"brand_name,omitempty"`
	UnitPrice float64     `json:"unit_price"`
	Available int         `json:"available_quantity"`
	Weight    float64     `json:"weight"`
	Images    string      `json:"images"`
}

// Resolver fetches product data from whichever table a ProductType selects.
type Resolver struct {
	db *gorm.DB
}

func NewResolver(db *gorm.DB) *Resolver {
	return &Resolver{db: db}
}

func (r *Resolver) Resolve(productType ProductType, productID string) (*ProductInfo, error) {
	return resolve(r.db, productType, productID)
}

func resolve(db *gorm.DB, productType ProductType, productID string) (*ProductInfo, error) {
	switch productType {
	case ProductTypePart:
		var part Part
		err := db.Preload("Brand").Where("id = ? AND is_active = true", productID).First(&part).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrProductNotFound
			}
			return nil, err
		}
		return &ProductInfo{
			ID:        part.ID,
			Type:      ProductTypePart,
			Name:      part.Name,
			BrandName: part.Brand.Name,
			UnitPrice: part.SellingPrice,
			Available: part.Quantity,
			Weight:    part.Weight,
			Images:    part.Images,
		}, nil
	case ProductTypeMerch:
		var merch Merchandise
		err := db.Where("id = ? AND is_active = true", productID).First(&merch).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrProductNotFound
			}
			return nil, err
		}
		return &ProductInfo{
			ID:        merch.ID,
			Type:      ProductTypeMerch,
			Name:      merch.Name,
			UnitPrice: merch.Price,
			Available: merch.Quantity,
			Weight:    merch.Weight,
			Images:    merch.Images,
		}, nil
	default:
		return nil, ErrProductNotFound
	}
}
