package insights

import (
	"time"

	"github.com/boddenberg/retail-insights/internal/domain"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func sale(customerID, productID int64, amount float64, date string) domain.SalesTransaction {
	return domain.SalesTransaction{
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
		Status:         status,
		SentimentScore: sentiment,
		CreationDate:   day(created),
	}
}
