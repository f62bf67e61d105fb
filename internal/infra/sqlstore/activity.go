package sqlstore

import (
	"context"
	"database/sql"
	"strings"

	"github.com/boddenberg/retail-insights/internal/domain"

	"go.opentelemetry.io/otel/attribute"
)

// ============================================================
// Sales transactions
// ============================================================

func scanSale(r rowScanner) (domain.SalesTransaction, error) {
	var (
		t    domain.SalesTransaction
		date flexTime
	)
	if err := r.Scan(&t.ID, &t.CustomerID, &t.ProductID, &t.Quantity, &t.SaleAmount, &date); err != nil {
		return domain.SalesTransaction{}, err
	}
	t.Date = date.Time
	return t, nil
}

// ListSales returns the transactions matching filter, oldest first.
func (s *Store) ListSales(ctx context.Context, filter domain.SalesFilter) ([]domain.SalesTransaction, error) {
	ctx, span := tracer.Start(ctx, "Store.ListSales")
	defer span.End()
	span.SetAttributes(
		attribute.Int64("customer.id", filter.CustomerID),
		attribute.Int64("product.id", filter.ProductID),
	)

	if filter.CustomerIDs != nil && len(filter.CustomerIDs) == 0 {
		return []domain.SalesTransaction{}, nil
	}

	var (
		where []string
		args  []any
	)
	if filter.CustomerID != 0 {
		where = append(where, "customer_id = ?")
		args = append(args, filter.CustomerID)
	}
	if filter.ProductID != 0 {
		where = append(where, "product_id = ?")
		args = append(args, filter.ProductID)
	}
	if len(filter.CustomerIDs) > 0 {
		where = append(where, "customer_id IN ("+placeholders(len(filter.CustomerIDs))+")")
		args = append(args, int64Args(filter.CustomerIDs)...)
	}

	query := `SELECT transaction_id, customer_id, product_id, quantity, sale_amount, transaction_date
		FROM sales_transactions`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += ` ORDER BY transaction_date, transaction_id`

	return queryAll(ctx, s, "list_sales", query, args, scanSale)
}

// ============================================================
// Support tickets
// ============================================================

func scanTicket(r rowScanner) (domain.SupportTicket, error) {
	var (
		t                 domain.SupportTicket
		productID         sql.NullInt64
		issue, status     sql.NullString
		created, resolved flexTime
	)
	if err := r.Scan(&t.ID, &t.CustomerID, &productID, &issue, &status, &created, &resolved, &t.SentimentScore); err != nil {
		return domain.SupportTicket{}, err
	}
	t.ProductID = productID.Int64
	t.IssueType = nullString(issue)
	t.Status = nullString(status)
	t.CreationDate = created.Time
	t.ResolutionDate = resolved.ptr()
	return t, nil
}

// ListTickets returns the scored support tickets matching filter. Tickets
// without a sentiment score are excluded.
func (s *Store) ListTickets(ctx context.Context, filter domain.TicketFilter) ([]domain.SupportTicket, error) {
	ctx, span := tracer.Start(ctx, "Store.ListTickets")
	defer span.End()
	span.SetAttributes(
		attribute.Int64("customer.id", filter.CustomerID),
		attribute.Int64("product.id", filter.ProductID),
	)

	where := []string{"sentiment_score IS NOT NULL"}
	var args []any
	if filter.CustomerID != 0 {
		where = append(where, "customer_id = ?")
		args = append(args, filter.CustomerID)
	}
	if filter.ProductID != 0 {
		where = append(where, "product_id = ?")
		args = append(args, filter.ProductID)
	}

	query := `SELECT ticket_id, customer_id, product_id, issue_type, status,
			creation_date, resolution_date, sentiment_score
		FROM support_tickets
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY ticket_id`

	return queryAll(ctx, s, "list_tickets", query, args, scanTicket)
}

// ============================================================
// Suppliers
// ============================================================

func scanSupplier(r rowScanner) (domain.Supplier, error) {
	var (
		sp          domain.Supplier
		lead        sql.NullInt64
		reliability sql.NullFloat64
	)
	if err := r.Scan(&sp.ID, &sp.Name, &sp.ProductID, &lead, &reliability); err != nil {
		return domain.Supplier{}, err
	}
	sp.LeadTimeDays = int(lead.Int64)
	sp.ReliabilityScore = reliability.Float64
	return sp, nil
}

// ListSuppliers returns the suppliers of a product, most reliable first.
func (s *Store) ListSuppliers(ctx context.Context, productID int64) ([]domain.Supplier, error) {
	ctx, span := tracer.Start(ctx, "Store.ListSuppliers")
	defer span.End()
	span.SetAttributes(attribute.Int64("product.id", productID))

	return queryAll(ctx, s, "list_suppliers",
		`SELECT supplier_id, supplier_name, product_id, lead_time_days, reliability_score
		FROM supplier_data
		WHERE product_id = ?
		ORDER BY reliability_score DESC, supplier_id`,
		[]any{productID}, scanSupplier)
}
