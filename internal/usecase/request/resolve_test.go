package request

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"github.com/GreenvaleServices/lawn-portal/internal/audit"
	dbpkg "github.com/GreenvaleServices/lawn-portal/internal/db"
	"github.com/GreenvaleServices/lawn-portal/internal/httperr"
	"github.com/GreenvaleServices/lawn-portal/internal/infra/repository"
	"github.com/GreenvaleServices/lawn-portal/internal/models"
)

func setup(t *testing.T) (*gorm.DB, *ResolveRequest) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	// A second pooled connection to :memory: would see an empty database.
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := dbpkg.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	uc := NewResolveRequest(
		repository.NewRequestGormRepository(db),
		audit.NewDispatcher(audit.New(db)),
	)
	return db, uc
}

func seedRequest(t *testing.T, db *gorm.DB) (*models.User, *models.Request) {
	t.Helper()

	owner := models.User{Name: "Cora", Email: "cora@example.com", Role: models.RoleCustomer}
	if err := db.Create(&owner).Error; err != nil {
		t.Fatalf("seed owner: %v", err)
	}

	req := models.Request{
		UserID:      owner.ID,
		Title:       "Trim hedge",
		Description: "front yard only",
	}
	if err := db.Create(&req).Error; err != nil {
		t.Fatalf("seed request: %v", err)
	}
	return &owner, &req
}

func TestResolveByStaff(t *testing.T) {
	db, uc := setup(t)
	_, req := seedRequest(t, db)

	got, err := uc.Execute(context.Background(), ResolveRequestInput{
		RequestID:  req.ID,
		CallerID:   42,
		CallerName: "Bob",
		CallerRole: models.RoleEmployee,
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if got.ResolvedBy == nil || *got.ResolvedBy != "Bob" {
		t.Fatalf("ResolvedBy = %v, want Bob", got.ResolvedBy)
	}

	var stored models.Request
	db.First(&stored, req.ID)
	if stored.ResolvedBy == nil || *stored.ResolvedBy != "Bob" {
		t.Fatalf("stored ResolvedBy = %v, want Bob", stored.ResolvedBy)
	}
}

func TestResolveByOwner(t *testing.T) {
	db, uc := setup(t)
	owner, req := seedRequest(t, db)

	got, err := uc.Execute(context.Background(), ResolveRequestInput{
		RequestID:  req.ID,
		CallerID:   owner.ID,
		CallerName: owner.Name,
		CallerRole: models.RoleCustomer,
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if got.ResolvedBy == nil || *got.ResolvedBy != "Cora" {
		t.Fatalf("ResolvedBy = %v, want Cora", got.ResolvedBy)
	}
}

func TestResolveByForeignCustomerForbidden(t *testing.T) {
	db, uc := setup(t)
	_, req := seedRequest(t, db)

	_, err := uc.Execute(context.Background(), ResolveRequestInput{
		RequestID:  req.ID,
		CallerID:   9999,
		CallerName: "Mallory",
		CallerRole: models.RoleCustomer,
	})
	if !httperr.IsBusiness(err, "forbidden") {
		t.Fatalf("err = %v, want forbidden", err)
	}

	var stored models.Request
	db.First(&stored, req.ID)
	if stored.ResolvedBy != nil {
		t.Fatalf("request was resolved despite forbidden caller: %v", *stored.ResolvedBy)
	}
}

func TestResolveMissingRequest(t *testing.T) {
	_, uc := setup(t)

	_, err := uc.Execute(context.Background(), ResolveRequestInput{
		RequestID:  404,
		CallerID:   1,
		CallerRole: models.RoleAdmin,
	})
	if !httperr.IsBusiness(err, "request_not_found") {
		t.Fatalf("err = %v, want request_not_found", err)
	}
}

func TestResolveNameFallback(t *testing.T) {
	db, uc := setup(t)
	owner, req := seedRequest(t, db)

	got, err := uc.Execute(context.Background(), ResolveRequestInput{
		RequestID:  req.ID,
		CallerID:   owner.ID,
		CallerName: "",
		CallerRole: models.RoleCustomer,
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if got.ResolvedBy == nil || *got.ResolvedBy != "User" {
		t.Fatalf("ResolvedBy = %v, want User", got.ResolvedBy)
	}
}

// Re-resolution by another eligible caller overwrites: last write wins.
func TestReResolutionOverwrites(t *testing.T) {
	db, uc := setup(t)
	owner, req := seedRequest(t, db)

	if _, err := uc.Execute(context.Background(), ResolveRequestInput{
		RequestID:  req.ID,
		CallerID:   42,
		CallerName: "Bob",
		CallerRole: models.RoleEmployee,
	}); err != nil {
		t.Fatalf("first resolve: %v", err)
	}

	got, err := uc.Execute(context.Background(), ResolveRequestInput{
		RequestID:  req.ID,
		CallerID:   owner.ID,
		CallerName: owner.Name,
		CallerRole: models.RoleCustomer,
	})
	if err != nil {
		t.Fatalf("second resolve: %v", err)
	}
	if got.ResolvedBy == nil || *got.ResolvedBy != "Cora" {
		t.Fatalf("ResolvedBy = %v, want Cora after overwrite", got.ResolvedBy)
	}
}
