package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/boddenberg/retail-insights/internal/domain"
	"github.com/boddenberg/retail-insights/internal/infra/sqlstore"
	"github.com/boddenberg/retail-insights/internal/output"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// seedDatabase creates a SQLite file with a small dataset and points the
// configuration at it.
func seedDatabase(t *testing.T) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "retail.db")

	db, err := sqlstore.Open(context.Background(), sqlstore.Options{Driver: sqlstore.DriverSQLite, DSN: path})
	require.NoError(t, err)
	for _, stmt := range []string{
		`INSERT INTO customers VALUES
			(1, 'Acme Corp', 'North', 'Manufacturing', '2023-01-15'),
			(2, 'Globex', 'South', 'Retail', '2024-03-01'),
			(3, 'Initech', 'North', 'Software', '2022-09-09')`,
		`INSERT INTO products VALUES
			(10, 'Laptop Pro', 'Electronics', 600, 1300),
			(11, 'USB Dock', 'Electronics', 40, 90)`,
		`INSERT INTO sales_transactions VALUES
			(100, 1, 10, 1, 1300, '2024-01-10'),
			(101, 1, 11, 2, 180, '2024-02-11'),
			(102, 2, 10, 1, 1250, '2024-02-20')`,
		`INSERT INTO support_tickets VALUES
			(500, 1, 10, 'hardware', 'Open', '2024-01-12', NULL, 0.1),
			(501, 1, 10, 'hardware', 'Open', '2024-01-13', NULL, 0.2),
			(502, 1, 11, 'billing', 'Open', '2024-01-14', NULL, 0.3),
			(503, 2, 10, 'hardware', 'resolved', '2024-03-01', '2024-03-04', 0.9),
			(504, 3, 11, 'billing', 'closed', '2024-03-02', '2024-03-03', 0.8)`,
	} {
		_, err := db.Conn().Exec(stmt)
		require.NoError(t, err)
	}
	require.NoError(t, db.Close())

	t.Setenv("CONFIG_FILE", "")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DB_DSN", path)
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	output.SetNoColor(true)

	var out bytes.Buffer
	root := NewRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestAnomalies_JSON(t *testing.T) {
	seedDatabase(t)

	out, err := execute(t, "anomalies", "--json", "--z-threshold", "1.0")
	require.NoError(t, err)

	var anomalies []domain.AnomalyEntry
	require.NoError(t, json.Unmarshal([]byte(out), &anomalies))
	require.Len(t, anomalies, 1)
	assert.Equal(t, int64(1), anomalies[0].CustomerID)
	assert.Equal(t, 3, anomalies[0].NegativeTicketCount)
}

func TestAnomalies_DefaultThresholdFromConfig(t *testing.T) {
	seedDatabase(t)

	out, err := execute(t, "anomalies")
	require.NoError(t, err)
	assert.Contains(t, out, "(none)")
}

func TestCustomer_Table(t *testing.T) {
	seedDatabase(t)

	out, err := execute(t, "customer", "1")
	require.NoError(t, err)

	assert.Contains(t, out, "Acme Corp (#1)")
	assert.Contains(t, out, "1480.00")
	assert.Contains(t, out, "Frequently purchases high-margin products in 'Electronics'.")
}

func TestCustomer_InvalidAndMissing(t *testing.T) {
	seedDatabase(t)

	_, err := execute(t, "customer", "abc")
	assert.ErrorContains(t, err, `invalid customer id "abc"`)

	_, err = execute(t, "customer", "999")
	var nf *domain.ErrNotFound
	assert.ErrorAs(t, err, &nf)
}

func TestProduct_JSON(t *testing.T) {
	seedDatabase(t)

	out, err := execute(t, "product", "10", "--json")
	require.NoError(t, err)

	var profile domain.ProductProfile
	require.NoError(t, json.Unmarshal([]byte(out), &profile))
	assert.Equal(t, 2, profile.SalesSummary.TotalSales)
	require.Len(t, profile.FrequentlyBoughtTogether, 1)
	assert.Equal(t, int64(11), profile.FrequentlyBoughtTogether[0].ProductID)
}

func TestTrendsAndOverview(t *testing.T) {
	seedDatabase(t)

	out, err := execute(t, "trends")
	require.NoError(t, err)
	assert.Contains(t, out, "Rising")
	assert.Contains(t, out, "Falling")

	out, err = execute(t, "overview")
	require.NoError(t, err)
	assert.Contains(t, out, "Laptop Pro (2550.00)")
}
