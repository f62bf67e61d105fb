package sqlstore

import (
	"context"
	"database/sql"
	"strconv"

	"github.com/boddenberg/retail-insights/internal/domain"

	"go.opentelemetry.io/otel/attribute"
)

const productColumns = `product_id, product_name, category, cost_price, sales_price`

func scanProduct(r rowScanner) (domain.Product, error) {
	var (
		p        domain.Product
		category sql.NullString
	)
	if err := r.Scan(&p.ID, &p.Name, &category, &p.CostPrice, &p.SalesPrice); err != nil {
		return domain.Product{}, err
	}
	p.Category = nullString(category)
	return p, nil
}

// ListProducts returns every product whose name or category contains
// search, ignoring case. An empty search returns the whole catalog.
func (s *Store) ListProducts(ctx context.Context, search string) ([]domain.Product, error) {
	ctx, span := tracer.Start(ctx, "Store.ListProducts")
	defer span.End()

	query := `SELECT ` + productColumns + ` FROM products`
	var args []any
	if search != "" {
		span.SetAttributes(attribute.String("search", search))
		query += " WHERE " + likeMatch("product_name") + " OR " + likeMatch("category")
		p := likePattern(search)
		args = []any{p, p}
	}
	query += ` ORDER BY product_id`

	return queryAll(ctx, s, "list_products", query, args, scanProduct)
}

// GetProduct returns one product or *domain.ErrNotFound.
func (s *Store) GetProduct(ctx context.Context, productID int64) (*domain.Product, error) {
	ctx, span := tracer.Start(ctx, "Store.GetProduct")
	defer span.End()
	span.SetAttributes(attribute.Int64("product.id", productID))

	p, found, err := queryOne(ctx, s, "get_product",
		`SELECT `+productColumns+` FROM products WHERE product_id = ?`,
		[]any{productID}, scanProduct)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, &domain.ErrNotFound{Resource: "product", ID: strconv.FormatInt(productID, 10)}
	}
	return &p, nil
}

// GetProductsByIDs returns the products among productIDs that exist,
// ordered by id. Unknown ids are silently skipped.
func (s *Store) GetProductsByIDs(ctx context.Context, productIDs []int64) ([]domain.Product, error) {
	ctx, span := tracer.Start(ctx, "Store.GetProductsByIDs")
	defer span.End()
	span.SetAttributes(attribute.Int("product.count", len(productIDs)))

	if len(productIDs) == 0 {
		return []domain.Product{}, nil
	}
	query := `SELECT ` + productColumns + ` FROM products WHERE product_id IN (` +
		placeholders(len(productIDs)) + `) ORDER BY product_id`

	return queryAll(ctx, s, "get_products_by_ids", query, int64Args(productIDs), scanProduct)
}
