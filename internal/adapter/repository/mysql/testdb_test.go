package mysql

import (
	"testing"

	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	activityDomain "chama-backend/internal/domain/activity"
	contribDomain "chama-backend/internal/domain/contribution"
	groupDomain "chama-backend/internal/domain/group"
	loanDomain "chama-backend/internal/domain/loan"
)

// openTestDB runs the repositories against in-memory sqlite. The domain
// models avoid MySQL-only column types, so they migrate as-is.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	// A second pool connection would see its own empty in-memory database.
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("db handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := db.AutoMigrate(
		&groupDomain.Group{},
		&groupDomain.Member{},
		&contribDomain.Contribution{},
		&loanDomain.Loan{},
		&activityDomain.Activity{},
	); err != nil {
		t.Fatalf("auto-migrate: %v", err)
	}
	return db
}

func dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("decimal %q: %v", s, err)
	}
	return d
}
