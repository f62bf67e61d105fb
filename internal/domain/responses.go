package domain

// ============================================================
// Catalog records
// ============================================================

// CustomerRecord is the wire form of a Customer.
type CustomerRecord struct {
	CustomerID   int64  `json:"customer_id"`
	CustomerName string `json:"customer_name"`
	Industry     string `json:"industry"`
	Region       string `json:"region"`
	JoinDate     string `json:"join_date"` // YYYY-MM-DD
}

// ProductRecord is the wire form of a Product.
type ProductRecord struct {
	ProductID   int64   `json:"product_id"`
	ProductName string  `json:"product_name"`
	Category    string  `json:"category"`
	CostPrice   float64 `json:"cost_price"`
	SalesPrice  float64 `json:"sales_price"`
}

// SupplierRecord is the wire form of a Supplier.
type SupplierRecord struct {
	SupplierID       int64   `json:"supplier_id"`
	SupplierName     string  `json:"supplier_name"`
	ProductID        int64   `json:"product_id"`
	LeadTimeDays     int     `json:"lead_time_days"`
	ReliabilityScore float64 `json:"reliability_score"`
}

// ============================================================
// Summaries and charts
// ============================================================

// SalesSummary summarizes one customer's purchases.
// AvgOrderValue is null when the customer has no transactions.
type SalesSummary struct {
	TotalPurchases int      `json:"total_purchases"`
	TotalSpent     float64  `json:"total_spent"`
	AvgOrderValue  *float64 `json:"avg_order_value"`
	LTVScore       float64  `json:"ltv_score"`
}

// ProductSalesSummary summarizes the sales of one product.
type ProductSalesSummary struct {
	TotalSales   int      `json:"total_sales"`
	TotalRevenue float64  `json:"total_revenue"`
	AvgSaleValue *float64 `json:"avg_sale_value"`
}

// SupportSummary summarizes a set of support tickets.
type SupportSummary struct {
	TotalTickets int      `json:"total_tickets"`
	AvgSentiment *float64 `json:"avg_sentiment"`
	OpenIssues   int      `json:"open_issues"`
}

// AmountPoint is a monthly sales bucket.
type AmountPoint struct {
	Date   string  `json:"date"` // YYYY-MM
	Amount float64 `json:"amount"`
}

// ScorePoint is a monthly sentiment bucket.
type ScorePoint struct {
	Date  string  `json:"date"` // YYYY-MM
	Score float64 `json:"score"`
}

// StatusCount is one row of a support status breakdown.
type StatusCount struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
}

// Charts groups the time series shown on profile pages.
type Charts struct {
	SalesOverTime          []AmountPoint `json:"sales_over_time"`
	SentimentOverTime      []ScorePoint  `json:"sentiment_over_time"`
	SupportStatusBreakdown []StatusCount `json:"support_status_breakdown"`
}

// ============================================================
// Profiles
// ============================================================

// CustomerProfile is returned by GET /api/customers/{customerId}.
type CustomerProfile struct {
	Customer       CustomerRecord `json:"customer"`
	SalesSummary   SalesSummary   `json:"sales_summary"`
	SupportSummary SupportSummary `json:"support_summary"`
	AIInsights     []string       `json:"ai_insights"`
	Charts         Charts         `json:"charts"`
}

// ProductProfile is returned by GET /api/products/{productId}.
type ProductProfile struct {
	Product                  ProductRecord         `json:"product"`
	SalesSummary             ProductSalesSummary   `json:"sales_summary"`
	SupportSummary           SupportSummary        `json:"support_summary"`
	Charts                   Charts                `json:"charts"`
	TopCustomers             []CustomerPurchases   `json:"top_customers"`
	FrequentlyBoughtTogether []RecommendationEntry `json:"frequently_bought_together"`
}

// CustomerPurchases is a customer ranked by purchase volume.
// TotalSpent is only reported by the overview ranking.
type CustomerPurchases struct {
	CustomerID    int64    `json:"customer_id"`
	CustomerName  string   `json:"customer_name"`
	PurchaseCount int      `json:"purchase_count"`
	TotalSpent    *float64 `json:"total_spent,omitempty"`
}

// RecommendationEntry is a product frequently bought with another one.
type RecommendationEntry struct {
	ProductID     int64   `json:"product_id"`
	PurchaseCount int     `json:"purchase_count"`
	ProductName   string  `json:"product_name"`
	Category      string  `json:"category"`
	SalesPrice    float64 `json:"sales_price"`
}

// ============================================================
// Insights
// ============================================================

// TrendEntry is a product whose latest month moved away from its trailing average.
type TrendEntry struct {
	ProductID   int64   `json:"product_id"`
	Trend       string  `json:"trend"` // increasing, decreasing
	Change      float64 `json:"change"`
	ProductName string  `json:"product_name"`
}

// TrendingProducts is returned by GET /api/insights/trends.
type TrendingProducts struct {
	RisingTrends  []TrendEntry `json:"rising_trends"`
	FallingTrends []TrendEntry `json:"falling_trends"`
}

// AnomalyEntry is a customer with an outlying count of negative tickets.
type AnomalyEntry struct {
	CustomerID          int64   `json:"customer_id"`
	CustomerName        string  `json:"customer_name"`
	NegativeTicketCount int     `json:"negative_ticket_count"`
	ZScore              float64 `json:"z_score"`
}

// LTVThreshold describes the population statistic used to normalize LTV scores.
type LTVThreshold struct {
	SnapshotID string  `json:"snapshot_id"`
	MaxLTV     float64 `json:"max_ltv"`
	Percentile float64 `json:"percentile"`
	Population int     `json:"population"`
	ComputedAt string  `json:"computed_at"` // RFC3339
}

// ============================================================
// Overview
// ============================================================

// Overview is returned by GET /api/overview.
type Overview struct {
	SalesOverview    SalesOverview    `json:"sales_overview"`
	CustomerOverview CustomerOverview `json:"customer_overview"`
	ProductOverview  ProductOverview  `json:"product_overview"`
	SupportOverview  SupportOverview  `json:"support_overview"`
}

// SalesOverview is the business-wide sales rollup.
type SalesOverview struct {
	TotalSales   int           `json:"total_sales"`
	TotalRevenue float64       `json:"total_revenue"`
	AvgSaleValue float64       `json:"avg_sale_value"`
	SalesTrend   []AmountPoint `json:"sales_trend"`
}

// CustomerOverview is the business-wide customer rollup.
type CustomerOverview struct {
	TotalCustomers        int                 `json:"total_customers"`
	NewCustomersThisMonth int                 `json:"new_customers_this_month"`
	TopCustomers          []CustomerPurchases `json:"top_customers"`
}

// ProductOverview is the business-wide product rollup.
type ProductOverview struct {
	TotalProducts          int              `json:"total_products"`
	AvgProductPrice        float64          `json:"avg_product_price"`
	BestSellingProduct     []ProductRevenue `json:"best_selling_product"`
	MostProblematicProduct []ProductIssues  `json:"most_problematic_product"`
}

// ProductRevenue is a product ranked by revenue.
type ProductRevenue struct {
	ProductID   int64   `json:"product_id"`
	ProductName string  `json:"product_name"`
	SalesCount  int     `json:"sales_count"`
	Revenue     float64 `json:"revenue"`
}

// ProductIssues is a product ranked by support ticket volume.
type ProductIssues struct {
	ProductID   int64  `json:"product_id"`
	ProductName string `json:"product_name"`
	IssueCount  int    `json:"issue_count"`
}

// SupportOverview is the business-wide support rollup.
type SupportOverview struct {
	TotalTickets           int           `json:"total_tickets"`
	AvgSentiment           *float64      `json:"avg_sentiment"`
	SupportStatusBreakdown []StatusCount `json:"support_status_breakdown"`
	SentimentTrend         []ScorePoint  `json:"sentiment_trend"`
}

// EngineMetrics is returned by GET /api/metrics/engine.
type EngineMetrics struct {
	TotalRequests     int64            `json:"total_requests"`
	ErrorRate         float64          `json:"error_rate"`
	StoreErrors       int64            `json:"store_errors"`
	ThresholdHitRate  float64          `json:"threshold_cache_hit_rate"`
	InsightsGenerated map[string]int64 `json:"insights_generated"`
	Period            string           `json:"period"`
}
