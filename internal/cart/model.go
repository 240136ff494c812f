package cart

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sibarmoto/motoparts-backend/internal/catalog"
)

// CartItem is one line of a user's cart: a product reference plus a quantity.
// One row per distinct (user, product_type, product_id).
type CartItem struct {
	ID          string              `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      string              `gorm:"type:uuid;not null;uniqueIndex:idx_cart_user_product" json:"user_id"`
	ProductType catalog.ProductType `gorm:"not null;uniqueIndex:idx_cart_user_product" json:"product_type"`
	ProductID   string              `gorm:"type:uuid;not null;uniqueIndex:idx_cart_user_product" json:"product_id"`
	Quantity    int                 `gorm:"not null" json:"quantity"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

func (i *CartItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	return nil
}

// Line is a cart item joined against the product table its type selects.
type Line struct {
	Item      CartItem            `json:"item"`
	Product   catalog.ProductInfo `json:"product"`
	LineTotal float64             `json:"line_total"`
}

// Summary is the priced cart view. The membership discount here is display
// only: the committed order total never includes it.
type Summary struct {
	Subtotal           float64 `json:"subtotal"`
	DiscountPercentage float64 `json:"discount_percentage"`
	DiscountAmount     float64 `json:"discount_amount"`
	Total              float64 `json:"total"`
	TotalWeight        float64 `json:"total_weight,omitempty"`
	ItemCount          int     `json:"item_count"`
	TotalQuantity      int     `json:"total_quantity"`
	PointsEarned       int     `json:"points_earned,omitempty"`
}

type View struct {
	Lines   []Line  `json:"cart_items"`
	Summary Summary `json:"summary"`
}
