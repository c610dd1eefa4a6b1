package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/nexdoor/nexdoor/internal/store"
)

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) HealthCheck(ctx context.Context) error {
	if err := r.db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}
	return nil
}

func (r *Repository) CreateUser(ctx context.Context, in store.CreateUserInput) (store.User, error) {
	query := `
INSERT INTO users (id, uid, email, full_name, phone_number, location)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING created_at, is_active, is_business`

	user := store.User{
		ID:          uuid.New(),
		UID:         in.UID,
		Email:       in.Email,
		FullName:    in.FullName,
		PhoneNumber: in.PhoneNumber,
		Location:    in.Location,
	}
	if err := r.db.QueryRowContext(ctx, query, user.ID, in.UID, in.Email, in.FullName, in.PhoneNumber, in.Location).
		Scan(&user.CreatedAt, &user.IsActive, &user.IsBusiness); err != nil {
		return store.User{}, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

func (r *Repository) GetUserByUID(ctx context.Context, uid string) (store.User, error) {
	query := `
SELECT id, uid, email, full_name, phone_number, location, is_active, is_business, created_at
FROM users
WHERE uid = $1`
	return r.scanUser(r.db.QueryRowContext(ctx, query, uid), "get user by uid")
}

func (r *Repository) GetUserByEmail(ctx context.Context, email string) (store.User, error) {
	query := `
SELECT id, uid, email, full_name, phone_number, location, is_active, is_business, created_at
FROM users
WHERE email = $1`
	return r.scanUser(r.db.QueryRowContext(ctx, query, email), "get user by email")
}

func (r *Repository) scanUser(row *sql.Row, op string) (store.User, error) {
	var user store.User
	if err := row.Scan(
		&user.ID,
		&user.UID,
		&user.Email,
		&user.FullName,
		&user.PhoneNumber,
		&user.Location,
		&user.IsActive,
		&user.IsBusiness,
		&user.CreatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return store.User{}, store.ErrNotFound
		}
		return store.User{}, fmt.Errorf("%s: %w", op, err)
	}
	return user, nil
}

func (r *Repository) CreateBusiness(ctx context.Context, in store.CreateBusinessInput) (store.Business, error) {
	query := `
INSERT INTO businesses (id, owner_id, name, description, category, business_type, location, address, phone, email, website, allows_delivery)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
RETURNING is_active, created_at, updated_at`

	business := store.Business{
		ID:             uuid.New(),
		OwnerID:        in.OwnerID,
		Name:           in.Name,
		Description:    in.Description,
		Category:       in.Category,
		BusinessType:   in.BusinessType,
		Location:       in.Location,
		Address:        in.Address,
		Phone:          in.Phone,
		Email:          in.Email,
		Website:        in.Website,
		AllowsDelivery: in.AllowsDelivery,
	}
	if err := r.db.QueryRowContext(ctx, query,
		business.ID, in.OwnerID, in.Name, in.Description, in.Category, in.BusinessType,
		in.Location, in.Address, in.Phone, in.Email, in.Website, in.AllowsDelivery,
	).Scan(&business.IsActive, &business.CreatedAt, &business.UpdatedAt); err != nil {
		return store.Business{}, fmt.Errorf("create business: %w", err)
	}
	return business, nil
}

func (r *Repository) GetBusiness(ctx context.Context, id uuid.UUID) (store.Business, error) {
	query := `
SELECT id, owner_id, name, description, category, business_type, location, address, phone, email, website, is_active, allows_delivery, created_at, updated_at
FROM businesses
WHERE id = $1`

	var business store.Business
	if err := r.db.QueryRowContext(ctx, query, id).Scan(
		&business.ID,
		&business.OwnerID,
		&business.Name,
		&business.Description,
		&business.Category,
		&business.BusinessType,
		&business.Location,
		&business.Address,
		&business.Phone,
		&business.Email,
		&business.Website,
		&business.IsActive,
		&business.AllowsDelivery,
		&business.CreatedAt,
		&business.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return store.Business{}, store.ErrNotFound
		}
		return store.Business{}, fmt.Errorf("get business: %w", err)
	}
	return business, nil
}

func (r *Repository) ListBusinesses(ctx context.Context, opts store.ListOptions) ([]store.Business, error) {
	limit := opts.Limit
	if limit <= 0 || limit > 100 {
		limit = 100
	}
	search := "%" + opts.Search + "%"

	rows, err := r.db.QueryContext(ctx, `
SELECT id, owner_id, name, description, category, business_type, location, address, phone, email, website, is_active, allows_delivery, created_at, updated_at
FROM businesses
WHERE is_active AND ($1 = '%%' OR name ILIKE $1 OR description ILIKE $1 OR category ILIKE $1)
ORDER BY created_at DESC
LIMIT $2 OFFSET $3`, search, limit, opts.Offset)
	if err != nil {
		return nil, fmt.Errorf("list businesses: %w", err)
	}
	defer func() { _ = rows.Close() }()

	businesses := make([]store.Business, 0)
	for rows.Next() {
		var business store.Business
		if err := rows.Scan(
			&business.ID,
			&business.OwnerID,
			&business.Name,
			&business.Description,
			&business.Category,
			&business.BusinessType,
			&business.Location,
			&business.Address,
			&business.Phone,
			&business.Email,
			&business.Website,
			&business.IsActive,
			&business.AllowsDelivery,
			&business.CreatedAt,
			&business.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan business row: %w", err)
		}
		businesses = append(businesses, business)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate business rows: %w", err)
	}
	return businesses, nil
}

func (r *Repository) UpdateBusiness(ctx context.Context, id uuid.UUID, in store.UpdateBusinessInput) (store.Business, error) {
	query := `
UPDATE businesses
SET name = COALESCE($2, name),
    description = COALESCE($3, description),
    category = COALESCE($4, category),
    location = COALESCE($5, location),
    address = COALESCE($6, address),
    phone = COALESCE($7, phone),
    allows_delivery = COALESCE($8, allows_delivery),
    updated_at = now()
WHERE id = $1
RETURNING id, owner_id, name, description, category, business_type, location, address, phone, email, website, is_active, allows_delivery, created_at, updated_at`

	var business store.Business
	if err := r.db.QueryRowContext(ctx, query, id,
		in.Name, in.Description, in.Category, in.Location, in.Address, in.Phone, in.AllowsDelivery,
	).Scan(
		&business.ID,
		&business.OwnerID,
		&business.Name,
		&business.Description,
		&business.Category,
		&business.BusinessType,
		&business.Location,
		&business.Address,
		&business.Phone,
		&business.Email,
		&business.Website,
		&business.IsActive,
		&business.AllowsDelivery,
		&business.CreatedAt,
		&business.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return store.Business{}, store.ErrNotFound
		}
		return store.Business{}, fmt.Errorf("update business: %w", err)
	}
	return business, nil
}

func (r *Repository) DeleteBusiness(ctx context.Context, id uuid.UUID) (bool, error) {
	result, err := r.db.ExecContext(ctx, `
DELETE FROM businesses
WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete business: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete business rows affected: %w", err)
	}
	return affected > 0, nil
}

func (r *Repository) CreateService(ctx context.Context, in store.CreateServiceInput) (store.Service, error) {
	query := `
INSERT INTO services (id, business_id, name, description, duration, price)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING is_active`

	service := store.Service{
		ID:          uuid.New(),
		BusinessID:  in.BusinessID,
		Name:        in.Name,
		Description: in.Description,
		Duration:    in.Duration,
		Price:       in.Price,
	}
	if err := r.db.QueryRowContext(ctx, query, service.ID, in.BusinessID, in.Name, in.Description, in.Duration, in.Price).
		Scan(&service.IsActive); err != nil {
		return store.Service{}, fmt.Errorf("create service: %w", err)
	}
	return service, nil
}

func (r *Repository) GetService(ctx context.Context, id uuid.UUID) (store.Service, error) {
	query := `
SELECT id, business_id, name, description, duration, price, is_active
FROM services
WHERE id = $1`

	var service store.Service
	if err := r.db.QueryRowContext(ctx, query, id).Scan(
		&service.ID,
		&service.BusinessID,
		&service.Name,
		&service.Description,
		&service.Duration,
		&service.Price,
		&service.IsActive,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return store.Service{}, store.ErrNotFound
		}
		return store.Service{}, fmt.Errorf("get service: %w", err)
	}
	return service, nil
}

func (r *Repository) ListServicesByBusiness(ctx context.Context, businessID uuid.UUID) ([]store.Service, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, business_id, name, description, duration, price, is_active
FROM services
WHERE business_id = $1 AND is_active
ORDER BY name ASC`, businessID)
	if err != nil {
		return nil, fmt.Errorf("list services: %w", err)
	}
	defer func() { _ = rows.Close() }()

	services := make([]store.Service, 0)
	for rows.Next() {
		var service store.Service
		if err := rows.Scan(
			&service.ID,
			&service.BusinessID,
			&service.Name,
			&service.Description,
			&service.Duration,
			&service.Price,
			&service.IsActive,
		); err != nil {
			return nil, fmt.Errorf("scan service row: %w", err)
		}
		services = append(services, service)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate service rows: %w", err)
	}
	return services, nil
}

func (r *Repository) DeleteService(ctx context.Context, id uuid.UUID) (bool, error) {
	result, err := r.db.ExecContext(ctx, `
DELETE FROM services
WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete service: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete service rows affected: %w", err)
	}
	return affected > 0, nil
}

func (r *Repository) CreateProduct(ctx context.Context, in store.CreateProductInput) (store.Product, error) {
	query := `
INSERT INTO products (id, business_id, name, description, price, stock)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING is_active, created_at, updated_at`

	product := store.Product{
		ID:          uuid.New(),
		BusinessID:  in.BusinessID,
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		Stock:       in.Stock,
	}
	if err := r.db.QueryRowContext(ctx, query, product.ID, in.BusinessID, in.Name, in.Description, in.Price, in.Stock).
		Scan(&product.IsActive, &product.CreatedAt, &product.UpdatedAt); err != nil {
		return store.Product{}, fmt.Errorf("create product: %w", err)
	}
	return product, nil
}

func (r *Repository) GetProduct(ctx context.Context, id uuid.UUID) (store.Product, error) {
	query := `
SELECT id, business_id, name, description, price, stock, is_active, created_at, updated_at
FROM products
WHERE id = $1`

	var product store.Product
	if err := r.db.QueryRowContext(ctx, query, id).Scan(
		&product.ID,
		&product.BusinessID,
		&product.Name,
		&product.Description,
		&product.Price,
		&product.Stock,
		&product.IsActive,
		&product.CreatedAt,
		&product.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return store.Product{}, store.ErrNotFound
		}
		return store.Product{}, fmt.Errorf("get product: %w", err)
	}
	return product, nil
}

func (r *Repository) ListProductsByBusiness(ctx context.Context, businessID uuid.UUID) ([]store.Product, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, business_id, name, description, price, stock, is_active, created_at, updated_at
FROM products
WHERE business_id = $1 AND is_active
ORDER BY created_at DESC`, businessID)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer func() { _ = rows.Close() }()

	products := make([]store.Product, 0)
	for rows.Next() {
		var product store.Product
		if err := rows.Scan(
			&product.ID,
			&product.BusinessID,
			&product.Name,
			&product.Description,
			&product.Price,
			&product.Stock,
			&product.IsActive,
			&product.CreatedAt,
			&product.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan product row: %w", err)
		}
		products = append(products, product)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate product rows: %w", err)
	}
	return products, nil
}

func (r *Repository) UpdateProduct(ctx context.Context, id uuid.UUID, in store.UpdateProductInput) (store.Product, error) {
	query := `
UPDATE products
SET name = COALESCE($2, name),
    description = COALESCE($3, description),
    price = COALESCE($4, price),
    stock = COALESCE($5, stock),
    is_active = COALESCE($6, is_active),
    updated_at = now()
WHERE id = $1
RETURNING id, business_id, name, description, price, stock, is_active, created_at, updated_at`

	var product store.Product
	if err := r.db.QueryRowContext(ctx, query, id, in.Name, in.Description, in.Price, in.Stock, in.IsActive).Scan(
		&product.ID,
		&product.BusinessID,
		&product.Name,
		&product.Description,
		&product.Price,
		&product.Stock,
		&product.IsActive,
		&product.CreatedAt,
		&product.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return store.Product{}, store.ErrNotFound
		}
		return store.Product{}, fmt.Errorf("update product: %w", err)
	}
	return product, nil
}

func (r *Repository) DeleteProduct(ctx context.Context, id uuid.UUID) (bool, error) {
	result, err := r.db.ExecContext(ctx, `
DELETE FROM products
WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete product: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete product rows affected: %w", err)
	}
	return affected > 0, nil
}

func (r *Repository) CreateBooking(ctx context.Context, in store.CreateBookingInput) (store.Booking, error) {
	query := `
INSERT INTO bookings (id, service_id, user_id, start_time, end_time, status)
VALUES ($1, $2, $3, $4, $5, 'pending')
RETURNING created_at`

	booking := store.Booking{
		ID:        uuid.New(),
		ServiceID: in.ServiceID,
		UserID:    in.UserID,
		StartTime: in.StartTime,
		EndTime:   in.EndTime,
		Status:    store.BookingPending,
	}
	if err := r.db.QueryRowContext(ctx, query, booking.ID, in.ServiceID, in.UserID, in.StartTime, in.EndTime).
		Scan(&booking.CreatedAt); err != nil {
		return store.Booking{}, fmt.Errorf("create booking: %w", err)
	}
	return booking, nil
}

func (r *Repository) ListBookingsByUser(ctx context.Context, userID uuid.UUID) ([]store.Booking, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, service_id, user_id, start_time, end_time, status, created_at
FROM bookings
WHERE user_id = $1
ORDER BY start_time DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	defer func() { _ = rows.Close() }()

	bookings := make([]store.Booking, 0)
	for rows.Next() {
		var booking store.Booking
		if err := rows.Scan(
			&booking.ID,
			&booking.ServiceID,
			&booking.UserID,
			&booking.StartTime,
			&booking.EndTime,
			&booking.Status,
			&booking.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan booking row: %w", err)
		}
		bookings = append(bookings, booking)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate booking rows: %w", err)
	}
	return bookings, nil
}

func (r *Repository) UpdateBookingStatus(ctx context.Context, id uuid.UUID, status store.BookingStatus) (store.Booking, error) {
	query := `
UPDATE bookings
SET status = $2
WHERE id = $1
RETURNING id, service_id, user_id, start_time, end_time, status, created_at`

	var booking store.Booking
	if err := r.db.QueryRowContext(ctx, query, id, status).Scan(
		&booking.ID,
		&booking.ServiceID,
		&booking.UserID,
		&booking.StartTime,
		&booking.EndTime,
		&booking.Status,
		&booking.CreatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return store.Booking{}, store.ErrNotFound
		}
		return store.Booking{}, fmt.Errorf("update booking status: %w", err)
	}
	return booking, nil
}

func (r *Repository) CreateMarketplaceItem(ctx context.Context, in store.CreateMarketplaceItemInput) (store.MarketplaceItem, error) {
	query := `
INSERT INTO marketplace_items (id, seller_id, title, description, price, condition)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING is_sold, created_at, updated_at`

	item := store.MarketplaceItem{
		ID:          uuid.New(),
		SellerID:    in.SellerID,
		Title:       in.Title,
		Description: in.Description,
		Price:       in.Price,
		Condition:   in.Condition,
	}
	if err := r.db.QueryRowContext(ctx, query, item.ID, in.SellerID, in.Title, in.Description, in.Price, in.Condition).
		Scan(&item.IsSold, &item.CreatedAt, &item.UpdatedAt); err != nil {
		return store.MarketplaceItem{}, fmt.Errorf("create marketplace item: %w", err)
	}
	return item, nil
}

func (r *Repository) GetMarketplaceItem(ctx context.Context, id uuid.UUID) (store.MarketplaceItem, error) {
	query := `
SELECT id, seller_id, title, description, price, condition, is_sold, created_at, updated_at
FROM marketplace_items
WHERE id = $1`

	var item store.MarketplaceItem
	if err := r.db.QueryRowContext(ctx, query, id).Scan(
		&item.ID,
		&item.SellerID,
		&item.Title,
		&item.Description,
		&item.Price,
		&item.Condition,
		&item.IsSold,
		&item.CreatedAt,
		&item.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return store.MarketplaceItem{}, store.ErrNotFound
		}
		return store.MarketplaceItem{}, fmt.Errorf("get marketplace item: %w", err)
	}
	return item, nil
}

func (r *Repository) ListMarketplaceItems(ctx context.Context, opts store.ListOptions) ([]store.MarketplaceItem, error) {
	limit := opts.Limit
	if limit <= 0 || limit > 100 {
		limit = 100
	}
	search := "%" + opts.Search + "%"

	rows, err := r.db.QueryContext(ctx, `
SELECT id, seller_id, title, description, price, condition, is_sold, created_at, updated_at
FROM marketplace_items
WHERE NOT is_sold AND ($1 = '%%' OR title ILIKE $1 OR description ILIKE $1)
ORDER BY created_at DESC
LIMIT $2 OFFSET $3`, search, limit, opts.Offset)
	if err != nil {
		return nil, fmt.Errorf("list marketplace items: %w", err)
	}
	defer func() { _ = rows.Close() }()

	items := make([]store.MarketplaceItem, 0)
	for rows.Next() {
		var item store.MarketplaceItem
		if err := rows.Scan(
			&item.ID,
			&item.SellerID,
			&item.Title,
			&item.Description,
			&item.Price,
			&item.Condition,
			&item.IsSold,
			&item.CreatedAt,
			&item.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan marketplace item row: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate marketplace item rows: %w", err)
	}
	return items, nil
}

func (r *Repository) DeleteMarketplaceItem(ctx context.Context, id uuid.UUID) (bool, error) {
	result, err := r.db.ExecContext(ctx, `
DELETE FROM marketplace_items
WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete marketplace item: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete marketplace item rows affected: %w", err)
	}
	return affected > 0, nil
}
