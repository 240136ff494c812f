package inventory

import "fmt"

// InsufficientStockError reports which product fell short and how many units
// remain so the client can correct the request.
type InsufficientStockError struct {
	ProductName string
	Available   int
	Requested   int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock: only %d %s available", e.Available, e.ProductName)
}
