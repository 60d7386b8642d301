package report

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/optica-neyra/backend/internal/domain/checkout"
	"github.com/optica-neyra/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// SalesReportService aggregates the sales ledger into register reports.
// Aggregation happens in memory over the requested range; the ledger of
// a single store stays small enough that pushing the math into SQL buys
// nothing.
type SalesReportService struct {
	saleRepo checkout.SaleRepository
}

// NewSalesReportService creates a new SalesReportService
func NewSalesReportService(saleRepo checkout.SaleRepository) *SalesReportService {
	return &SalesReportService{
		saleRepo: saleRepo,
	}
}

// SalesSummaryResponse represents the sales summary for a period
type SalesSummaryResponse struct {
	PeriodStart      time.Time         `json:"period_start"`
	PeriodEnd        time.Time         `json:"period_end"`
	SaleCount        int               `json:"sale_count"`
	UnitsSold        int               `json:"units_sold"`
	GrossRevenue     string            `json:"gross_revenue"`
	TaxCollected     string            `json:"tax_collected"`
	DiscountsGranted string            `json:"discounts_granted"`
	AvgTicket        string            `json:"avg_ticket"`
	ByPaymentMethod  map[string]string `json:"by_payment_method"`
}

// TopProductResponse represents one product in the best-sellers ranking
type TopProductResponse struct {
	Rank        int       `json:"rank"`
	ProductID   uuid.UUID `json:"product_id"`
	ProductCode string    `json:"product_code"`
	ProductName string    `json:"product_name"`
	UnitsSold   int       `json:"units_sold"`
	Revenue     string    `json:"revenue"`
}

// DailySalesResponse represents one day in the sales trend
type DailySalesResponse struct {
	Date      time.Time `json:"date"`
	SaleCount int       `json:"sale_count"`
	Revenue   string    `json:"revenue"`
}

// Summary aggregates the recorded sales between from and to inclusive
func (s *SalesReportService) Summary(ctx context.Context, from, to time.Time) (*SalesSummaryResponse, error) {
	sales, err := s.saleRepo.FindBetween(ctx, from, to)
	if err != nil {
		return nil, err
	}

	revenue := valueobject.ZeroPEN()
	tax := valueobject.ZeroPEN()
	discounts := valueobject.ZeroPEN()
	units := 0
	byMethod := make(map[string]valueobject.Money)

	for i := range sales {
		sale := &sales[i]
		revenue, err = revenue.Add(sale.Totals.Total)
		if err != nil {
			return nil, err
		}
		tax, err = tax.Add(sale.Totals.TaxAmount)
		if err != nil {
			return nil, err
		}
		discounts, err = discounts.Add(sale.Totals.DiscountAmount)
		if err != nil {
			return nil, err
		}
		for _, item := range sale.Items {
			units += item.Quantity
		}

		method := string(sale.PaymentMethod)
		prev, ok := byMethod[method]
		if !ok {
			prev = valueobject.ZeroPEN()
		}
		byMethod[method], err = prev.Add(sale.Totals.Total)
		if err != nil {
			return nil, err
		}
	}

	avgTicket := valueobject.ZeroPEN()
	if len(sales) > 0 {
		avgTicket = valueobject.NewMoneyPEN(revenue.Amount().Div(decimal.NewFromInt(int64(len(sales)))))
	}

	byMethodOut := make(map[string]string, len(byMethod))
	for method, amount := range byMethod {
		byMethodOut[method] = amount.StringFixed(2)
	}

	return &SalesSummaryResponse{
		PeriodStart:      from,
		PeriodEnd:        to,
		SaleCount:        len(sales),
		UnitsSold:        units,
		GrossRevenue:     revenue.StringFixed(2),
		TaxCollected:     tax.StringFixed(2),
		DiscountsGranted: discounts.StringFixed(2),
		AvgTicket:        avgTicket.StringFixed(2),
		ByPaymentMethod:  byMethodOut,
	}, nil
}

// TopProducts ranks products by units sold over the period. Ties break
// by revenue, then by code for a stable order.
func (s *SalesReportService) TopProducts(ctx context.Context, from, to time.Time, limit int) ([]TopProductResponse, error) {
	sales, err := s.saleRepo.FindBetween(ctx, from, to)
	if err != nil {
		return nil, err
	}

	type bucket struct {
		id      uuid.UUID
		code    string
		name    string
		units   int
		revenue decimal.Decimal
	}
	buckets := make(map[uuid.UUID]*bucket)

	for i := range sales {
		for _, item := range sales[i].Items {
			b, ok := buckets[item.ProductID]
			if !ok {
				b = &bucket{id: item.ProductID, code: item.ProductCode, name: item.ProductName, revenue: decimal.Zero}
				buckets[item.ProductID] = b
			}
			b.units += item.Quantity
			b.revenue = b.revenue.Add(item.LineTotal.Amount())
		}
	}

	ranked := make([]*bucket, 0, len(buckets))
	for _, b := range buckets {
		ranked = append(ranked, b)
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].units != ranked[j].units {
			return ranked[i].units > ranked[j].units
		}
		if !ranked[i].revenue.Equal(ranked[j].revenue) {
			return ranked[i].revenue.GreaterThan(ranked[j].revenue)
		}
		return ranked[i].code < ranked[j].code
	})

	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}

	out := make([]TopProductResponse, 0, len(ranked))
	for i, b := range ranked {
		out = append(out, TopProductResponse{
			Rank:        i + 1,
			ProductID:   b.id,
			ProductCode: b.code,
			ProductName: b.name,
			UnitsSold:   b.units,
			Revenue:     b.revenue.Round(2).StringFixed(2),
		})
	}
	return out, nil
}

// DailyTrend buckets the period's sales by calendar day in the given
// location. Days without sales are included as zero rows so the series
// has no gaps.
func (s *SalesReportService) DailyTrend(ctx context.Context, from, to time.Time, loc *time.Location) ([]DailySalesResponse, error) {
	if loc == nil {
		loc = time.Local
	}
	sales, err := s.saleRepo.FindBetween(ctx, from, to)
	if err != nil {
		return nil, err
	}

	type bucket struct {
		count   int
		revenue decimal.Decimal
	}
	buckets := make(map[time.Time]*bucket)

	day := func(ts time.Time) time.Time {
		y, m, d := ts.In(loc).Date()
		return time.Date(y, m, d, 0, 0, 0, 0, loc)
	}

	for i := range sales {
		key := day(sales[i].Timestamp)
		b, ok := buckets[key]
		if !ok {
			b = &bucket{revenue: decimal.Zero}
			buckets[key] = b
		}
		b.count++
		b.revenue = b.revenue.Add(sales[i].Totals.Total.Amount())
	}

	var out []DailySalesResponse
	for d := day(from); !d.After(day(to)); d = d.AddDate(0, 0, 1) {
		b, ok := buckets[d]
		if !ok {
			b = &bucket{revenue: decimal.Zero}
		}
		out = append(out, DailySalesResponse{
			Date:      d,
			SaleCount: b.count,
			Revenue:   b.revenue.Round(2).StringFixed(2),
		})
	}
	return out, nil
}
