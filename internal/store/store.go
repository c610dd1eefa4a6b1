// Package store defines the marketplace entities and the persistence
// contract the HTTP handlers depend on.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("not found")

type User struct {
	ID          uuid.UUID
	UID         string
	Email       string
	FullName    string
	PhoneNumber string
	Location    string
	IsActive    bool
	IsBusiness  bool
	CreatedAt   time.Time
}

type Business struct {
	ID             uuid.UUID
	OwnerID        uuid.UUID
	Name           string
	Description    string
	Category       string
	BusinessType   string
	Location       string
	Address        string
	Phone          string
	Email          string
	Website        string
	IsActive       bool
	AllowsDelivery bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type Service struct {
	ID          uuid.UUID
	BusinessID  uuid.UUID
	Name        string
	Description string
	Duration    int
	Price       float64
	IsActive    bool
}

type Product struct {
	ID          uuid.UUID
	BusinessID  uuid.UUID
	Name        string
	Description string
	Price       float64
	Stock       int
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
	BookingCompleted BookingStatus = "completed"
)

func (s BookingStatus) Valid() bool {
	switch s {
	case BookingPending, BookingConfirmed, BookingCancelled, BookingCompleted:
		return true
	default:
		return false
	}
}

type Booking struct {
	ID        uuid.UUID
	ServiceID uuid.UUID
	UserID    uuid.UUID
	StartTime time.Time
	EndTime   time.Time
	Status    BookingStatus
	CreatedAt time.Time
}

type ItemCondition string

const (
	ConditionNew     ItemCondition = "new"
	ConditionLikeNew ItemCondition = "like_new"
	ConditionGood    ItemCondition = "good"
	ConditionFair    ItemCondition = "fair"
	ConditionPoor    ItemCondition = "poor"
)

func (c ItemCondition) Valid() bool {
	switch c {
	case ConditionNew, ConditionLikeNew, ConditionGood, ConditionFair, ConditionPoor:
		return true
	default:
		return false
	}
}

type MarketplaceItem struct {
	ID          uuid.UUID
	SellerID    uuid.UUID
	Title       string
	Description string
	Price       float64
	Condition   ItemCondition
	IsSold      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type CreateUserInput struct {
	UID         string
	Email       string
	FullName    string
	PhoneNumber string
	Location    string
}

type CreateBusinessInput struct {
	OwnerID        uuid.UUID
	Name           string
	Description    string
	Category       string
	BusinessType   string
	Location       string
	Address        string
	Phone          string
	Email          string
	Website        string
	AllowsDelivery bool
}

type UpdateBusinessInput struct {
	Name           *string
	Description    *string
	Category       *string
	Location       *string
	Address        *string
	Phone          *string
	AllowsDelivery *bool
}

type CreateServiceInput struct {
	BusinessID  uuid.UUID
	Name        string
	Description string
	Duration    int
	Price       float64
}

type CreateProductInput struct {
	BusinessID  uuid.UUID
	Name        string
	Description string
	Price       float64
	Stock       int
}

type UpdateProductInput struct {
	Name        *string
	Description *string
	Price       *float64
	Stock       *int
	IsActive    *bool
}

type CreateBookingInput struct {
	ServiceID uuid.UUID
	UserID    uuid.UUID
	StartTime time.Time
	EndTime   time.Time
}

type CreateMarketplaceItemInput struct {
	SellerID    uuid.UUID
	Title       string
	Description string
	Price       float64
	Condition   ItemCondition
}

type ListOptions struct {
	Limit  int
	Offset int
	Search string
}

// Repository is the full persistence surface. The postgres implementation
// satisfies it; handlers depend on it so tests can swap in fakes.
type Repository interface {
	HealthCheck(ctx context.Context) error

	CreateUser(ctx context.Context, in CreateUserInput) (User, error)
	GetUserByUID(ctx context.Context, uid string) (User, error)
	GetUserByEmail(ctx context.Context, email string) (User, error)

	CreateBusiness(ctx context.Context, in CreateBusinessInput) (Business, error)
	GetBusiness(ctx context.Context, id uuid.UUID) (Business, error)
	ListBusinesses(ctx context.Context, opts ListOptions) ([]Business, error)
	UpdateBusiness(ctx context.Context, id uuid.UUID, in UpdateBusinessInput) (Business, error)
	DeleteBusiness(ctx context.Context, id uuid.UUID) (bool, error)

	CreateService(ctx context.Context, in CreateServiceInput) (Service, error)
	GetService(ctx context.Context, id uuid.UUID) (Service, error)
	ListServicesByBusiness(ctx context.Context, businessID uuid.UUID) ([]Service, error)
	DeleteService(ctx context.Context, id uuid.UUID) (bool, error)

	CreateProduct(ctx context.Context, in CreateProductInput) (Product, error)
	GetProduct(ctx context.Context, id uuid.UUID) (Product, error)
	ListProductsByBusiness(ctx context.Context, businessID uuid.UUID) ([]Product, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, in UpdateProductInput) (Product, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) (bool, error)

	CreateBooking(ctx context.Context, in CreateBookingInput) (Booking, error)
	ListBookingsByUser(ctx context.Context, userID uuid.UUID) ([]Booking, error)
	UpdateBookingStatus(ctx context.Context, id uuid.UUID, status BookingStatus) (Booking, error)

	CreateMarketplaceItem(ctx context.Context, in CreateMarketplaceItemInput) (MarketplaceItem, error)
	GetMarketplaceItem(ctx context.Context, id uuid.UUID) (MarketplaceItem, error)
	ListMarketplaceItems(ctx context.Context, opts ListOptions) ([]MarketplaceItem, error)
	DeleteMarketplaceItem(ctx context.Context, id uuid.UUID) (bool, error)
}
