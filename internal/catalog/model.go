package catalog

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProductType discriminates which product table a cart line or order item
// points at. It is not a foreign key: product_type + product_id jointly
// address either parts or merchandise.
type ProductType string

const (
	ProductTypePart  ProductType = "part"
	ProductTypeMerch ProductType = "merch"
)

func (t ProductType) Valid() bool {
	return t == ProductTypePart || t == ProductTypeMerch
}

type Brand struct {
	ID        string `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string `gorm:"not null" json:"name"`
	Country   string `json:"country"`
	LogoURL   string `json:"logo_url"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Category struct {
	ID        string  `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string  `gorm:"not null" json:"name"`
	ParentID  *string `gorm:"type:uuid" json:"parent_id"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// MotoModel is a motorcycle model a part fits.
type MotoModel struct {
	ID         string    `gorm:"type:uuid;primaryKey" json:"id"`
	BrandID    string    `gorm:"type:uuid;not null" json:"brand_id"`
	Brand      Brand     `gorm:"foreignKey:BrandID" json:"brand,omitempty"`
	Name       string    `gorm:"not null" json:"name"`
	Year       *int      `json:"year"`
	CategoryID *string   `gorm:"type:uuid" json:"category_id"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type Part struct {
	ID            string   `gorm:"type:uuid;primaryKey" json:"id"`
	BrandID       string   `gorm:"type:uuid;not null" json:"brand_id"`
	Brand         Brand    `gorm:"foreignKey:BrandID" json:"brand,omitempty"`
	CategoryID    string   `gorm:"type:uuid;not null" json:"category_id"`
	Category      Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Name          string   `gorm:"not null" json:"name"`
	Description   string   `json:"description"`
	OriginalPrice float64  `json:"original_price"`
	SellingPrice  float64  `gorm:"not null" json:"selling_price"`
	Quantity      int      `gorm:"not null;default:0" json:"quantity"`
	Weight        float64  `json:"weight"`
	Images        string   `json:"images"`
	IsActive      bool     `gorm:"default:true" json:"is_active"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type Merchandise struct {
	ID          string  `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string  `gorm:"not null" json:"name"`
	Description string  `json:"description"`
	Price       float64 `gorm:"not null" json:"price"`
	Quantity    int     `gorm:"not null;default:0" json:"quantity"`
	Weight      float64 `json:"weight"`
	Size        string  `json:"size"`
	Color       string  `json:"color"`
	Images      string  `json:"images"`
	IsActive    bool    `gorm:"default:true" json:"is_active"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (b *Brand) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	return nil
}

func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

func (m *MotoModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}

func (p *Part) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

func (m *Merchandise) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}
