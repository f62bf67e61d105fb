// Package port defines the interfaces (ports) for external dependencies.
// Following hexagonal architecture, these ports decouple the service layer
// from the relational store and the cache behind it.
package port

import (
	"context"

	"github.com/boddenberg/retail-insights/internal/domain"
)

// InsightsStore is the read-only data access layer over the five retail
// tables. GetCustomer and GetProduct return *domain.ErrNotFound for a
// missing row and never a nil row without an error. Query failures are
// *domain.ErrStoreUnavailable; caller context errors are returned as is.
type InsightsStore interface {
	// Customers
	ListCustomers(ctx context.Context, search string) ([]domain.Customer, error)
	GetCustomer(ctx context.Context, customerID int64) (*domain.Customer, error)

	// Products
	ListProducts(ctx context.Context, search string) ([]domain.Product, error)
	GetProduct(ctx context.Context, productID int64) (*domain.Product, error)
	GetProductsByIDs(ctx context.Context, productIDs []int64) ([]domain.Product, error)

	// Sales and support
	ListSales(ctx context.Context, filter domain.SalesFilter) ([]domain.SalesTransaction, error)
	ListTickets(ctx context.Context, filter domain.TicketFilter) ([]domain.SupportTicket, error)

	// Suppliers
	ListSuppliers(ctx context.Context, productID int64) ([]domain.Supplier, error)

	// Ping reports whether the store answers queries.
	Ping(ctx context.Context) error
}

// Cache provides generic caching with TTL.
type Cache[T any] interface {
	Get(key string) (T, bool)
	Set(key string, value T)
	Delete(key string)
	// GetOrLoad returns the cached value or stores the result of load.
	// hit is false when load ran.
	GetOrLoad(key string, load func() (T, error)) (value T, hit bool, err error)
}
