package postgres

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"

	"github.com/nexdoor/nexdoor/internal/store"
)

func TestCreateUser(t *testing.T) {
	db, mock := newSQLMock(t)
	repo := NewRepository(db)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta(`
INSERT INTO users (id, uid, email, full_name, phone_number, location)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING created_at, is_active, is_business`)).
		WithArgs(sqlmock.AnyArg(), "uid-1", "jo@example.com", "Jo Doe", "555-0101", "Springfield").
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "is_active", "is_business"}).AddRow(now, true, false))

	user, err := repo.CreateUser(context.Background(), store.CreateUserInput{
		UID:         "uid-1",
		Email:       "jo@example.com",
		FullName:    "Jo Doe",
		PhoneNumber: "555-0101",
		Location:    "Springfield",
	})
	if err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}
	if user.Email != "jo@example.com" {
		t.Fatalf("Email = %q", user.Email)
	}
	if !user.IsActive {
		t.Fatal("IsActive should be true")
	}
	if !user.CreatedAt.Equal(now) {
		t.Fatalf("CreatedAt = %v, want %v", user.CreatedAt, now)
	}
	assertSQLMock(t, mock)
}

func TestGetUserByUIDReturnsNotFound(t *testing.T) {
	db, mock := newSQLMock(t)
	repo := NewRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`
SELECT id, uid, email, full_name, phone_number, location, is_active, is_business, created_at
FROM users
WHERE uid = $1`)).
		WithArgs("missing-uid").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetUserByUID(context.Background(), "missing-uid")
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("error = %v, want %v", err, store.ErrNotFound)
	}
	assertSQLMock(t, mock)
}

func TestCreateBusiness(t *testing.T) {
	db, mock := newSQLMock(t)
	repo := NewRepository(db)
	now := time.Now()
	ownerID := uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta(`
INSERT INTO businesses (id, owner_id, name, description, category, business_type, location, address, phone, email, website, allows_delivery)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
RETURNING is_active, created_at, updated_at`)).
		WithArgs(sqlmock.AnyArg(), ownerID, "Corner Bakery", "Fresh bread daily", "food", "storefront", "Springfield", "12 Main St", "555-0102", "bakery@example.com", "", true).
		WillReturnRows(sqlmock.NewRows([]string{"is_active", "created_at", "updated_at"}).AddRow(true, now, now))

	business, err := repo.CreateBusiness(context.Background(), store.CreateBusinessInput{
		OwnerID:        ownerID,
		Name:           "Corner Bakery",
		Description:    "Fresh bread daily",
		Category:       "food",
		BusinessType:   "storefront",
		Location:       "Springfield",
		Address:        "12 Main St",
		Phone:          "555-0102",
		Email:          "bakery@example.com",
		AllowsDelivery: true,
	})
	if err != nil {
		t.Fatalf("CreateBusiness() error = %v", err)
	}
	if business.Name != "Corner Bakery" {
		t.Fatalf("Name = %q", business.Name)
	}
	if business.OwnerID != ownerID {
		t.Fatalf("OwnerID = %v", business.OwnerID)
	}
	assertSQLMock(t, mock)
}

func TestListBusinessesScansRows(t *testing.T) {
	db, mock := newSQLMock(t)
	repo := NewRepository(db)
	now := time.Now()
	id := uuid.New()
	ownerID := uuid.New()

	columns := []string{"id", "owner_id", "name", "description", "category", "business_type", "location", "address", "phone", "email", "website", "is_active", "allows_delivery", "created_at", "updated_at"}
	mock.ExpectQuery("SELECT (.+) FROM businesses").
		WithArgs("%%", 100, 0).
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow(id, ownerID, "Corner Bakery", "Fresh bread daily", "food", "storefront", "Springfield", "12 Main St", "", "", "", true, false, now, now))

	businesses, err := repo.ListBusinesses(context.Background(), store.ListOptions{})
	if err != nil {
		t.Fatalf("ListBusinesses() error = %v", err)
	}
	if len(businesses) != 1 {
		t.Fatalf("len = %d", len(businesses))
	}
	if businesses[0].ID != id {
		t.Fatalf("ID = %v", businesses[0].ID)
	}
	assertSQLMock(t, mock)
}

func TestDeleteBusiness(t *testing.T) {
	db, mock := newSQLMock(t)
	repo := NewRepository(db)
	id := uuid.New()

	mock.ExpectExec(regexp.QuoteMeta(`
DELETE FROM businesses
WHERE id = $1`)).
		WithArgs(id).
		WillReturnResult(sqlmock.NewResult(0, 1))

	deleted, err := repo.DeleteBusiness(context.Background(), id)
	if err != nil {
		t.Fatalf("DeleteBusiness() error = %v", err)
	}
	if !deleted {
		t.Fatal("expected deleted=true")
	}
	assertSQLMock(t, mock)
}

func TestUpdateBookingStatus(t *testing.T) {
	db, mock := newSQLMock(t)
	repo := NewRepository(db)
	now := time.Now()
	id := uuid.New()
	serviceID := uuid.New()
	userID := uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta(`
UPDATE bookings
SET status = $2
WHERE id = $1
RETURNING id, service_id, user_id, start_time, end_time, status, created_at`)).
		WithArgs(id, store.BookingConfirmed).
		WillReturnRows(sqlmock.NewRows([]string{"id", "service_id", "user_id", "start_time", "end_time", "status", "created_at"}).
			AddRow(id, serviceID, userID, now, now.Add(time.Hour), "confirmed", now))

	booking, err := repo.UpdateBookingStatus(context.Background(), id, store.BookingConfirmed)
	if err != nil {
		t.Fatalf("UpdateBookingStatus() error = %v", err)
	}
	if booking.Status != store.BookingConfirmed {
		t.Fatalf("Status = %q", booking.Status)
	}
	assertSQLMock(t, mock)
}

func TestUpdateBookingStatusNotFound(t *testing.T) {
	db, mock := newSQLMock(t)
	repo := NewRepository(db)
	id := uuid.New()

	mock.ExpectQuery("UPDATE bookings").
		WithArgs(id, store.BookingCancelled).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.UpdateBookingStatus(context.Background(), id, store.BookingCancelled)
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("error = %v, want %v", err, store.ErrNotFound)
	}
	assertSQLMock(t, mock)
}

func TestCreateMarketplaceItem(t *testing.T) {
	db, mock := newSQLMock(t)
	repo := NewRepository(db)
	now := time.Now()
	sellerID := uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta(`
INSERT INTO marketplace_items (id, seller_id, title, description, price, condition)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING is_sold, created_at, updated_at`)).
		WithArgs(sqlmock.AnyArg(), sellerID, "Used bike", "Barely ridden", 120.0, store.ConditionGood).
		WillReturnRows(sqlmock.NewRows([]string{"is_sold", "created_at", "updated_at"}).AddRow(false, now, now))

	item, err := repo.CreateMarketplaceItem(context.Background(), store.CreateMarketplaceItemInput{
		SellerID:    sellerID,
		Title:       "Used bike",
		Description: "Barely ridden",
		Price:       120.0,
		Condition:   store.ConditionGood,
	})
	if err != nil {
		t.Fatalf("CreateMarketplaceItem() error = %v", err)
	}
	if item.IsSold {
		t.Fatal("IsSold should be false")
	}
	assertSQLMock(t, mock)
}

func newSQLMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

func assertSQLMock(t *testing.T, mock sqlmock.Sqlmock) {
	t.Helper()
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet sql expectations: %v", err)
	}
}
