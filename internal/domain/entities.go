// Package domain defines the retail entities read from the store and the
// response shapes returned to the HTTP layer. Entities carry native Go types
// (time.Time, float64); response types carry wire types and are built only
// by the service presentation layer.
package domain

import "time"

// ============================================================
// Store entities (read-only)
// ============================================================

// Customer is a row of the customers table.
type Customer struct {
	ID       int64
	Name     string
	Region   string
	Industry string
	JoinDate time.Time
}

// Product is a row of the products table.
type Product struct {
	ID         int64
	Name       string
	Category   string
	CostPrice  float64
	SalesPrice float64
}

// Margin is the unit profit of the product.
func (p Product) Margin() float64 {
	return p.SalesPrice - p.CostPrice
}

// SalesTransaction is a row of the sales_transactions table.
type SalesTransaction struct {
	ID         int64
	CustomerID int64
	ProductID  int64
	Quantity   int
	SaleAmount float64
	Date       time.Time
}

// SupportTicket is a row of the support_tickets table.
type SupportTicket struct {
	ID             int64
	CustomerID     int64
	ProductID      int64
	IssueType      string
	Status         string
	CreationDate   time.Time
	ResolutionDate *time.Time // set only for closed/resolved tickets
	SentimentScore float64
}

// Supplier is a row of the supplier_data table.
type Supplier struct {
	ID               int64
	Name             string
	ProductID        int64
	LeadTimeDays     int
	ReliabilityScore float64
}

// ============================================================
// Store filters
// ============================================================

// SalesFilter scopes a sales query. Zero-valued IDs are not applied and a
// nil CustomerIDs is not applied; a non-nil but empty CustomerIDs matches
// nothing.
type SalesFilter struct {
	CustomerID  int64
	ProductID   int64
	CustomerIDs []int64
}

// TicketFilter scopes a support ticket query. Zero-valued IDs are not applied.
type TicketFilter struct {
	CustomerID int64
	ProductID  int64
}
