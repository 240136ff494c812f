package order

import (
	"errors"
	"os"
	"testing"

	"gorm.io/gorm"

	"github.com/sibarmoto/motoparts-backend/internal/catalog"
	"github.com/sibarmoto/motoparts-backend/internal/inventory"
	"github.com/sibarmoto/motoparts-backend/pkg/postgres"
)

// testDB connects to the postgres instance named by the POSTGRES_* env vars,
// skipping the test when none is configured.
func testDB(t *testing.T) *gorm.DB {
	t.Helper()

	host := os.Getenv("POSTGRES_HOST")
	if host == "" {
		t.Skip("POSTGRES_HOST not set, skipping database test")
	}

	db, err := postgres.NewConnection(postgres.Config{
		Host:     host,
		Port:     envOr("POSTGRES_PORT", "5432"),
		Username: envOr("POSTGRES_USER", "postgres"),
		Password: os.Getenv("POSTGRES_PASSWORD"),
		DBName:   envOr("POSTGRES_DB", "postgres"),
		SSLMode:  "disable",
		TimeZone: "UTC",
	}, testLog())
	if err != nil {
		t.Fatalf("failed to connect: %v", err)
	}

	if err := catalog.RunMigration(db); err != nil {
		t.Fatalf("catalog migration failed: %v", err)
	}
	if err := RunMigration(db); err != nil {
		t.Fatalf("order migration failed: %v", err)
	}

	return db
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func seedCancellable(t *testing.T, db *gorm.DB, status OrderStatus, stock, ordered int) (*Order, *catalog.Part) {
	t.Helper()

	brand := &catalog.Brand{Name: "Test Brand"}
	if err := db.Create(brand).Error; err != nil {
		t.Fatalf("failed to seed brand: %v", err)
	}
	t.Cleanup(func() { db.Delete(brand) })

	category := &catalog.Category{Name: "Test Category"}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("failed to seed category: %v", err)
	}
	t.Cleanup(func() { db.Delete(category) })

	part := &catalog.Part{
		BrandID:      brand.ID,
		CategoryID:   category.ID,
		Name:         "Test Chain Kit",
		SellingPrice: 100,
		Quantity:     stock,
		IsActive:     true,
	}
	if err := db.Create(part).Error; err != nil {
		t.Fatalf("failed to seed part: %v", err)
	}
	t.Cleanup(func() { db.Delete(part) })

	o := &Order{
		UserID:            "00000000-0000-0000-0000-000000000003",
		OrderNumber:       NewOrderNumber(),
		Status:            status,
		TotalAmount:       float64(ordered) * 100,
		ShippingAddressID: "00000000-0000-0000-0000-000000000004",
		PaymentState:      PaymentStateUnpaid,
	}
	if err := db.Create(o).Error; err != nil {
		t.Fatalf("failed to seed order: %v", err)
	}
	t.Cleanup(func() { db.Delete(o) })

	item := &OrderItem{
		OrderID:     o.ID,
		ProductType: catalog.ProductTypePart,
		ProductID:   part.ID,
		Quantity:    ordered,
		Price:       100,
	}
	if err := db.Create(item).Error; err != nil {
		t.Fatalf("failed to seed order item: %v", err)
	}
	t.Cleanup(func() { db.Delete(item) })

	return o, part
}

func partQuantity(t *testing.T, db *gorm.DB, partID string) int {
	t.Helper()
	var part catalog.Part
	if err := db.First(&part, "id = ?", partID).Error; err != nil {
		t.Fatalf("failed to reload part: %v", err)
	}
	return part.Quantity
}

func TestCancelOrderRestocksOnce(t *testing.T) {
	db := testDB(t)
	storage := NewStorage(db)

	o, part := seedCancellable(t, db, StatusPending, 3, 2)
	release := []inventory.Line{{ProductType: catalog.ProductTypePart, ProductID: part.ID, Quantity: 2}}

	payment := &Payment{OrderID: o.ID, Method: MethodCard, Amount: o.TotalAmount, Status: PaymentCompleted}
	if err := db.Create(payment).Error; err != nil {
		t.Fatalf("failed to seed payment: %v", err)
	}
	t.Cleanup(func() { db.Delete(payment) })

	if err := storage.CancelOrder(o.ID, release); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := partQuantity(t, db, part.ID); got != 5 {
		t.Errorf("expected stock 5 after release, got %d", got)
	}

	var reloaded Order
	db.First(&reloaded, "id = ?", o.ID)
	if reloaded.Status != StatusCancelled {
		t.Errorf("expected cancelled, got %s", reloaded.Status)
	}

	var refunded Payment
	db.First(&refunded, "id = ?", payment.ID)
	if refunded.Status != PaymentRefunded {
		t.Errorf("expected completed payment marked refunded, got %s", refunded.Status)
	}

	// a second cancel must refuse inside the transaction and restore nothing
	if err := storage.CancelOrder(o.ID, release); !errors.Is(err, ErrOrderAlreadyCancelled) {
		t.Fatalf("expected ErrOrderAlreadyCancelled, got %v", err)
	}
	if got := partQuantity(t, db, part.ID); got != 5 {
		t.Errorf("second cancel must not restock, got %d", got)
	}
}

func TestCancelOrderGuardsStatusInTransaction(t *testing.T) {
	db := testDB(t)
	storage := NewStorage(db)

	o, part := seedCancellable(t, db, StatusShipped, 3, 2)
	release := []inventory.Line{{ProductType: catalog.ProductTypePart, ProductID: part.ID, Quantity: 2}}

	if err := storage.CancelOrder(o.ID, release); !errors.Is(err, ErrOrderNotCancellable) {
		t.Fatalf("expected ErrOrderNotCancellable, got %v", err)
	}
	if got := partQuantity(t, db, part.ID); got != 3 {
		t.Errorf("refused cancel must not touch stock, got %d", got)
	}

	var reloaded Order
	db.First(&reloaded, "id = ?", o.ID)
	if reloaded.Status != StatusShipped {
		t.Errorf("expected status unchanged, got %s", reloaded.Status)
	}
}

func TestCancelOrderMissing(t *testing.T) {
	db := testDB(t)
	storage := NewStorage(db)

	err := storage.CancelOrder("00000000-0000-0000-0000-00000000dead", nil)
	if !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound, got %v", err)
	}
}
