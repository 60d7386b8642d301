package checkout

import (
	"fmt"
	"strings"
	"time"
)

// StoreInfo is the store identity printed on receipts
type StoreInfo struct {
	Name string
	City string
}

// ReceiptLine is one sold item as shown on the receipt
type ReceiptLine struct {
	Quantity  int
	Name      string
	LineTotal string
}

// Receipt is the display-ready, immutable summary of a committed sale
type Receipt struct {
	StoreName        string
	StoreCity        string
	SaleID           string
	Timestamp        time.Time
	CustomerName     string
	CustomerIDNumber string
	Lines            []ReceiptLine
	Subtotal         string
	DiscountPercent  string
	DiscountAmount   string
	TaxRatePercent   string
	TaxAmount        string
	Total            string
	PaymentMethod    string
	AmountTendered   string
	ChangeDue        string
}

// BuildReceipt projects a committed sale into a receipt. Pure and
// deterministic: it never mutates the sale, and building twice yields the
// same receipt. Change due is taken from the sale, where non-cash
// methods already floor it at zero.
func BuildReceipt(sale *Sale, store StoreInfo) Receipt {
	lines := make([]ReceiptLine, 0, len(sale.Items))
	for _, item := range sale.Items {
		lines = append(lines, ReceiptLine{
			Quantity:  item.Quantity,
			Name:      item.ProductName,
			LineTotal: item.LineTotal.StringFixed(2),
		})
	}

	return Receipt{
		StoreName:        store.Name,
		StoreCity:        store.City,
		SaleID:           sale.ID.String(),
		Timestamp:        sale.Timestamp,
		CustomerName:     sale.CustomerName,
		CustomerIDNumber: sale.CustomerIDNumber,
		Lines:            lines,
		Subtotal:         sale.Totals.Subtotal.StringFixed(2),
		DiscountPercent:  sale.Totals.DiscountPercent.StringFixed(0),
		DiscountAmount:   sale.Totals.DiscountAmount.StringFixed(2),
		TaxRatePercent:   sale.TaxRatePercent().StringFixed(0),
		TaxAmount:        sale.Totals.TaxAmount.StringFixed(2),
		Total:            sale.Totals.Total.StringFixed(2),
		PaymentMethod:    string(sale.PaymentMethod),
		AmountTendered:   sale.AmountTendered.StringFixed(2),
		ChangeDue:        sale.ChangeDue.StringFixed(2),
	}
}

// Render returns the receipt as printable text
func (r Receipt) Render() string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s\n", r.StoreName)
	if r.StoreCity != "" {
		fmt.Fprintf(&b, "%s\n", r.StoreCity)
	}
	fmt.Fprintf(&b, "%s\n", r.Timestamp.Format("02/01/2006 15:04"))
	fmt.Fprintf(&b, "Cliente: %s\n", r.CustomerName)
	if r.CustomerIDNumber != "" {
		fmt.Fprintf(&b, "DNI: %s\n", r.CustomerIDNumber)
	}
	b.WriteString("--------------------------------\n")
	for _, line := range r.Lines {
		fmt.Fprintf(&b, "%dx %s - S/ %s\n", line.Quantity, line.Name, line.LineTotal)
	}
	b.WriteString("--------------------------------\n")
	fmt.Fprintf(&b, "Subtotal: S/ %s\n", r.Subtotal)
	if r.DiscountAmount != "0.00" {
		fmt.Fprintf(&b, "Descuento (%s%%): - S/ %s\n", r.DiscountPercent, r.DiscountAmount)
	}
	fmt.Fprintf(&b, "IGV (%s%%): S/ %s\n", r.TaxRatePercent, r.TaxAmount)
	fmt.Fprintf(&b, "Total: S/ %s\n", r.Total)
	fmt.Fprintf(&b, "Pago: %s\n", r.PaymentMethod)
	fmt.Fprintf(&b, "Recibido: S/ %s\n", r.AmountTendered)
	fmt.Fprintf(&b, "Vuelto: S/ %s\n", r.ChangeDue)

	return b.String()
}
