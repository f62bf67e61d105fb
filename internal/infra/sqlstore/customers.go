package sqlstore

import (
	"context"
	"database/sql"
	"strconv"

	"github.com/boddenberg/retail-insights/internal/domain"

	"go.opentelemetry.io/otel/attribute"
)

const customerColumns = `customer_id, customer_name, region, industry, join_date`

func scanCustomer(r rowScanner) (domain.Customer, error) {
	var (
		c                domain.Customer
		region, industry sql.NullString
		joined           flexTime
	)
	if err := r.Scan(&c.ID, &c.Name, &region, &industry, &joined); err != nil {
		return domain.Customer{}, err
	}
	c.Region = nullString(region)
	c.Industry = nullString(industry)
	c.JoinDate = joined.Time
	return c, nil
}

// ListCustomers returns every customer whose name, region or industry
// contains search, ignoring case. An empty search returns all customers.
func (s *Store) ListCustomers(ctx context.Context, search string) ([]domain.Customer, error) {
	ctx, span := tracer.Start(ctx, "Store.ListCustomers")
	defer span.End()

	query := `SELECT ` + customerColumns + ` FROM customers`
	var args []any
	if search != "" {
		span.SetAttributes(attribute.String("search", search))
		query += " WHERE " + likeMatch("customer_name") + " OR " + likeMatch("region") + " OR " + likeMatch("industry")
		p := likePattern(search)
		args = []any{p, p, p}
	}
	query += ` ORDER BY customer_id`

	return queryAll(ctx, s, "list_customers", query, args, scanCustomer)
}

// GetCustomer returns one customer or *domain.ErrNotFound.
func (s *Store) GetCustomer(ctx context.Context, customerID int64) (*domain.Customer, error) {
	ctx, span := tracer.Start(ctx, "Store.GetCustomer")
	defer span.End()
	span.SetAttributes(attribute.Int64("customer.id", customerID))

	c, found, err := queryOne(ctx, s, "get_customer",
		`SELECT `+customerColumns+` FROM customers WHERE customer_id = ?`,
		[]any{customerID}, scanCustomer)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, &domain.ErrNotFound{Resource: "customer", ID: strconv.FormatInt(customerID, 10)}
	}
	return &c, nil
}
