package reports

import "bitbucket.org/mmdatafocus/dashboard_backend/models"

// reportKeyCatalog maps every user-selectable report key from the UI catalog
// (8 categories) onto the canonical aggregation kind that actually backs it.
// The mapping is a plain total lookup on purpose: new UI entries that are not
// listed here fall through to the default kind instead of breaking generation.
var reportKeyCatalog = map[string]models.ReportKind{
	// Transaction reports
	"sale-report":            models.ReportKindSalesReport,
	"purchase-report":        models.ReportKindPurchasesReport,
	"day-book":               models.ReportKindTransactionSummary,
	"all-transactions":       models.ReportKindTransactionSummary,
	"daily-transactions":     models.ReportKindTransactionSummary,
	"weekly-transactions":    models.ReportKindTransactionSummary,
	"monthly-transactions":   models.ReportKindTransactionSummary,
	"quarterly-transactions": models.ReportKindTransactionSummary,
	"yearly-transactions":    models.ReportKindTransactionSummary,
	"bill-wise-profit":       models.ReportKindProfitLoss,
	"profit-and-loss":        models.ReportKindProfitLoss,
	"cash-flow":              models.ReportKindCashFlow,
	"cashflow":               models.ReportKindCashFlow,
	"daily-cash-flow":        models.ReportKindCashFlow,
	"balance-sheet":          models.ReportKindBalanceSheet,

	// Party reports
	"party-statement":        models.ReportKindPartyStatement,
	"party-wise-profit-loss": models.ReportKindPartyStatement,
	"all-parties":            models.ReportKindPartyReport,
	"party-report-by-item":   models.ReportKindPartyReport,
	"sale-purchase-by-party": models.ReportKindPartyReport,
	"party-group-summary":    models.ReportKindPartyReport,
	"receivables":            models.ReportKindPartyStatement,
	"payables":               models.ReportKindPartyStatement,

	// Item / stock reports
	"stock-summary":         models.ReportKindStockSummary,
	"item-report-by-party":  models.ReportKindItemReport,
	"item-wise-profit":      models.ReportKindItemReport,
	"item-wise-discount":    models.ReportKindItemReport,
	"stock-detail":          models.ReportKindStockSummary,
	"item-detail":           models.ReportKindItemReport,
	"sale-purchase-by-item": models.ReportKindItemReport,
	"low-stock-summary":     models.ReportKindStockSummary,
	"stock-value":           models.ReportKindStockSummary,
	"item-batch-report":     models.ReportKindItemReport,
	"item-serial-report":    models.ReportKindItemReport,

	// Business status
	"business-status":      models.ReportKindBusinessStatus,
	"bank-statement":       models.ReportKindBusinessStatus,
	"discount-report":      models.ReportKindBusinessStatus,
	"trial-balance":        models.ReportKindTrialBalance,
	"balance-sheet-detail": models.ReportKindBalanceSheet,

	// Taxes
	"tax-report":      models.ReportKindTaxReport,
	"tax-rate-report": models.ReportKindTaxReport,
	"form-no-27eq":    models.ReportKindTaxReport,
	"tcs-receivable":  models.ReportKindTaxReport,
	"gstr-1":          models.ReportKindTaxReport,
	"gstr-2":          models.ReportKindTaxReport,
	"gstr-3b":         models.ReportKindTaxReport,
	"gstr-9":          models.ReportKindTaxReport,

	// Expense reports
	"expense-report":          models.ReportKindExpenseReport,
	"expense-transaction":     models.ReportKindExpenseReport,
	"expense-category-report": models.ReportKindExpenseCategory,
	"expense-item-report":     models.ReportKindExpenseItem,

	// Sale / purchase order reports
	"sale-order-report":       models.ReportKindSalesReport,
	"purchase-order-report":   models.ReportKindPurchasesReport,
	"sale-order-item-report":  models.ReportKindItemReport,
	"sale-summary-by-hsn":     models.ReportKindSalesReport,
	"purchase-summary-by-hsn": models.ReportKindPurchasesReport,
	"sale-aging-report":       models.ReportKindSalesReport,

	// Cash / bank / loan
	"cash-in-hand":   models.ReportKindCashFlow,
	"bank-accounts":  models.ReportKindBusinessStatus,
	"cheque-detail":  models.ReportKindBusinessStatus,
	"loan-statement": models.ReportKindBusinessStatus,
	"loan-accounts":  models.ReportKindBusinessStatus,
}

// Normalize maps a raw UI report key to its canonical kind. Total over any
// string: unknown keys resolve to the transaction summary rather than error,
// so a new UI entry can never break report generation. No side effects.
func Normalize(rawKey string) models.ReportKind {
	if kind, ok := reportKeyCatalog[rawKey]; ok {
		return kind
	}
	return models.ReportKindTransactionSummary
}

// CatalogKeys returns every known raw key (stable membership, not order).
func CatalogKeys() []string {
	keys := make([]string, 0, len(reportKeyCatalog))
	for k := range reportKeyCatalog {
		keys = append(keys, k)
	}
	return keys
}
