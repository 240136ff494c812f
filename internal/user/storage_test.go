package user

import (
	"os"
	"testing"

	"gorm.io/gorm"

	"github.com/sibarmoto/motoparts-backend/pkg/postgres"
)

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

	if err := RunMigration(db); err != nil {
		t.Fatalf("user migration failed: %v", err)
	}

	return db
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func TestAddPoints(t *testing.T) {
	db := testDB(t)

	u := &User{
		FullName:         "Points Tester",
		Email:            "points-tester@example.com",
		MembershipType:   "gold",
		MembershipPoints: 10,
	}
	if err := db.Create(u).Error; err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}
	t.Cleanup(func() { db.Delete(u) })

	err := db.Transaction(func(tx *gorm.DB) error {
		return AddPoints(tx, u.ID, 384)
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var reloaded User
	if err := db.First(&reloaded, "id = ?", u.ID).Error; err != nil {
		t.Fatalf("failed to reload user: %v", err)
	}
	if reloaded.MembershipPoints != 394 {
		t.Errorf("expected 394 points, got %d", reloaded.MembershipPoints)
	}

	// a rolled-back transaction must leave the balance untouched
	wantRollback := db.Transaction(func(tx *gorm.DB) error {
		if err := AddPoints(tx, u.ID, 100); err != nil {
			return err
		}
		return gorm.ErrInvalidTransaction
	})
	if wantRollback == nil {
		t.Fatalf("expected transaction to fail")
	}

	db.First(&reloaded, "id = ?", u.ID)
	if reloaded.MembershipPoints != 394 {
		t.Errorf("expected 394 points after rollback, got %d", reloaded.MembershipPoints)
	}
}
