package reports

import (
	"fmt"
	"sort"
	"strings"

	"bitbucket.org/mmdatafocus/dashboard_backend/models"
	"github.com/shopspring/decimal"
)

// Unify merges sales and purchases into the single transaction view, newest
// first. Balance is zero when the record is paid and the full total
// otherwise; there is no partial-payment amount in this model.
func Unify(sales []models.Sale, purchases []models.Purchase) []UnifiedTransaction {
	out := make([]UnifiedTransaction, 0, len(sales)+len(purchases))
	for _, s := range sales {
		out = append(out, UnifiedTransaction{
			Id:              fmt.Sprintf("S-%d", s.ID),
			Date:            s.Date,
			InvoiceNo:       s.InvoiceNo,
			PartyName:       s.PartyName,
			TransactionType: models.TransactionTypeSale,
			PaymentType:     s.PaymentType,
			Amount:          s.Total,
			Balance:         outstandingBalance(s.Total, s.Status),
			Status:          s.Status,
		})
	}
	for _, p := range purchases {
		out = append(out, UnifiedTransaction{
			Id:              fmt.Sprintf("P-%d", p.ID),
			Date:            p.Date,
			InvoiceNo:       p.BillNo,
			PartyName:       p.PartyName,
			TransactionType: models.TransactionTypePurchase,
			PaymentType:     p.PaymentType,
			Amount:          p.Total,
			Balance:         outstandingBalance(p.Total, p.Status),
			Status:          p.Status,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.After(out[j].Date)
	})
	return out
}

func outstandingBalance(total decimal.Decimal, status models.PaymentStatus) decimal.Decimal {
	if status == models.PaymentStatusPaid {
		return decimal.Zero
	}
	return total
}

// FilterTransactions narrows a unified view by free-text search over party
// name and invoice number, case-insensitive. Empty query returns the input
// unchanged.
func FilterTransactions(txns []UnifiedTransaction, query string) []UnifiedTransaction {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return txns
	}
	out := make([]UnifiedTransaction, 0, len(txns))
	for _, t := range txns {
		if strings.Contains(strings.ToLower(t.PartyName), query) ||
			strings.Contains(strings.ToLower(t.InvoiceNo), query) {
			out = append(out, t)
		}
	}
	return out
}
