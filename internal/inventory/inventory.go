package inventory

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/sibarmoto/motoparts-backend/internal/catalog"
)

// Line is one stock movement against a product reference.
type Line struct {
	ProductType catalog.ProductType
	ProductID   string
	Quantity    int
}

var errUnknownProductType = errors.New("unknown product type")

// Reserve checks and decrements stock for every line inside the caller's
// transaction. Each row is locked FOR UPDATE before the check so two
// concurrent reservations for the last unit cannot both pass. Any shortfall
// returns an error and, because the caller owns the transaction, rolls back
// every decrement already applied.
func Reserve(tx *gorm.DB, lines []Line) error {
	for _, line := range lines {
		switch line.ProductType {
		case catalog.ProductTypePart:
			var part catalog.Part
			if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				First(&part, "id = ?", line.ProductID).Error; err != nil {
				return err
			}
			if part.Quantity < line.Quantity {
				return &InsufficientStockError{
					ProductName: part.Name,
					Available:   part.Quantity,
					Requested:   line.Quantity,
				}
			}
			if err := tx.Model(&catalog.Part{}).Where("id = ?", line.ProductID).
				Update("quantity", gorm.Expr("quantity - ?", line.Quantity)).Error; err != nil {
				return err
			}
		case catalog.ProductTypeMerch:
			var merch catalog.Merchandise
			if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				First(&merch, "id = ?", line.ProductID).Error; err != nil {
				return err
			}
			if merch.Quantity < line.Quantity {
				return &InsufficientStockError{
					ProductName: merch.Name,
					Available:   merch.Quantity,
					Requested:   line.Quantity,
				}
			}
			if err := tx.Model(&catalog.Merchandise{}).Where("id = ?", line.ProductID).
				Update("quantity", gorm.Expr("quantity - ?", line.Quantity)).Error; err != nil {
				return err
			}
		default:
			return errUnknownProductType
		}
	}
	return nil
}

// Release restores stock for every line. Not idempotent: callers must invoke
// it exactly once per order transition into cancelled.
func Release(tx *gorm.DB, lines []Line) error {
	for _, line := range lines {
		var err error
		switch line.ProductType {
		case catalog.ProductTypePart:
			err = tx.Model(&catalog.Part{}).Where("id = ?", line.ProductID).
				Update("quantity", gorm.Expr("quantity + ?", line.Quantity)).Error
		case catalog.ProductTypeMerch:
			err = tx.Model(&catalog.Merchandise{}).Where("id = ?", line.ProductID).
				Update("quantity", gorm.Expr("quantity + ?", line.Quantity)).Error
		default:
			err = errUnknownProductType
		}
		if err != nil {
			return err
		}
	}
	return nil
}
