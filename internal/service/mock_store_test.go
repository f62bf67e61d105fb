package service_test

import (
	"context"
	"slices"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/boddenberg/retail-insights/internal/domain"
)

// --- Mocks ---

// mockStore answers queries from in-memory tables, applying the same
// filters the SQL adapter does.
type mockStore struct {
	customers []domain.Customer
	products  []domain.Product
	sales     []domain.SalesTransaction
	tickets   []domain.SupportTicket
	suppliers []domain.Supplier

	err       error // returned by every query
	salesErr  error // returned by ListSales only
	salesRead atomic.Int32
}

func (m *mockStore) ListCustomers(_ context.Context, search string) ([]domain.Customer, error) {
	if m.err != nil {
		return nil, m.err
	}
	out := []domain.Customer{}
	for _, c := range m.customers {
		if matches(search, c.Name, c.Region, c.Industry) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *mockStore) GetCustomer(_ context.Context, id int64) (*domain.Customer, error) {
	if m.err != nil {
		return nil, m.err
	}
	for _, c := range m.customers {
		if c.ID == id {
			return &c, nil
		}
	}
	return nil, &domain.ErrNotFound{Resource: "customer", ID: strconv.FormatInt(id, 10)}
}

func (m *mockStore) ListProducts(_ context.Context, search string) ([]domain.Product, error) {
	if m.err != nil {
		return nil, m.err
	}
	out := []domain.Product{}
	for _, p := range m.products {
		if matches(search, p.Name, p.Category) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *mockStore) GetProduct(_ context.Context, id int64) (*domain.Product, error) {
	if m.err != nil {
		return nil, m.err
	}
	for _, p := range m.products {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, &domain.ErrNotFound{Resource: "product", ID: strconv.FormatInt(id, 10)}
}

func (m *mockStore) GetProductsByIDs(_ context.Context, ids []int64) ([]domain.Product, error) {
	if m.err != nil {
		return nil, m.err
	}
	out := []domain.Product{}
	for _, p := range m.products {
		if slices.Contains(ids, p.ID) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *mockStore) ListSales(_ context.Context, f domain.SalesFilter) ([]domain.SalesTransaction, error) {
	m.salesRead.Add(1)
	if m.err != nil {
		return nil, m.err
	}
	if m.salesErr != nil {
		return nil, m.salesErr
	}
	out := []domain.SalesTransaction{}
	for _, s := range m.sales {
		if f.CustomerID != 0 && s.CustomerID != f.CustomerID {
			continue
		}
		if f.ProductID != 0 && s.ProductID != f.ProductID {
			continue
		}
		if f.CustomerIDs != nil && !slices.Contains(f.CustomerIDs, s.CustomerID) {
			continue
		}
		out = append(out, s)
	}
	return out, nil
}

func (m *mockStore) ListTickets(_ context.Context, f domain.TicketFilter) ([]domain.SupportTicket, error) {
	if m.err != nil {
		return nil, m.err
	}
	out := []domain.SupportTicket{}
	for _, t := range m.tickets {
		if f.CustomerID != 0 && t.CustomerID != f.CustomerID {
			continue
		}
		if f.ProductID != 0 && t.ProductID != f.ProductID {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

func (m *mockStore) ListSuppliers(_ context.Context, productID int64) ([]domain.Supplier, error) {
	if m.err != nil {
		return nil, m.err
	}
	out := []domain.Supplier{}
	for _, s := range m.suppliers {
		if s.ProductID == productID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *mockStore) Ping(_ context.Context) error {
	return m.err
}

func matches(search string, fields ...string) bool {
	if search == "" {
		return true
	}
	needle := strings.ToLower(search)
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), needle) {
			return true
		}
	}
	return false
}

// --- Fixtures ---

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

var saleSeq int64

func sale(customerID, productID int64, amount float64, date string) domain.SalesTransaction {
	saleSeq++
	return domain.SalesTransaction{
		ID:         saleSeq,
		CustomerID: customerID,
		ProductID:  productID,
		Quantity:   1,
		SaleAmount: amount,
		Date:       day(date),
	}
}

func ticket(customerID, productID int64, status string, sentiment float64, created string) domain.SupportTicket {
	return domain.SupportTicket{
		CustomerID:     customerID,
		ProductID:      productID,
		IssueType:      "billing",
		Status:         status,
		CreationDate:   day(created),
		SentimentScore: sentiment,
	}
}

// retailFixture is a small shop: two customers buying a high-margin laptop
// and accessories.
func retailFixture() *mockStore {
	return &mockStore{
		customers: []domain.Customer{
			{ID: 1, Name: "Acme Corp", Region: "North", Industry: "Manufacturing", JoinDate: day("2023-02-01")},
			{ID: 2, Name: "Globex", Region: "South", Industry: "Retail", JoinDate: day("2024-06-03")},
			{ID: 3, Name: "Initech", Region: "North", Industry: "Software", JoinDate: day("2022-11-20")},
		},
		products: []domain.Product{
			{ID: 10, Name: "Laptop", Category: "Electronics", CostPrice: 200, SalesPrice: 900},
			{ID: 11, Name: "Mouse", Category: "Accessories", CostPrice: 5, SalesPrice: 25},
			{ID: 12, Name: "Dock", Category: "Accessories", CostPrice: 40, SalesPrice: 120},
		},
		sales: []domain.SalesTransaction{
			sale(1, 10, 900, "2024-01-10"),
			sale(1, 10, 900, "2024-02-10"),
			sale(1, 11, 25, "2024-02-10"),
			sale(2, 10, 900, "2024-06-05"),
			sale(2, 12, 120, "2024-06-06"),
		},
		tickets: []domain.SupportTicket{
			ticket(1, 10, "Open", 0.2, "2024-03-01"),
			ticket(1, 10, "open ", 0.1, "2024-03-05"),
			ticket(1, 11, "Closed", 0.3, "2024-04-01"),
			ticket(1, 10, "resolved", 0.2, "2024-04-02"),
			ticket(2, 12, "Closed", 0.9, "2024-06-07"),
		},
		suppliers: []domain.Supplier{
			{ID: 100, Name: "Shenzhen Parts", ProductID: 10, LeadTimeDays: 30, ReliabilityScore: 0.7},
			{ID: 101, Name: "Berlin Assembly", ProductID: 10, LeadTimeDays: 12, ReliabilityScore: 0.95},
		},
	}
}
