package reports

import (
	"testing"

	"bitbucket.org/mmdatafocus/dashboard_backend/models"
)

func TestNormalizeKnownKeys(t *testing.T) {
	cases := []struct {
		rawKey string
		want   models.ReportKind
	}{
		{"sale-report", models.ReportKindSalesReport},
		{"purchase-report", models.ReportKindPurchasesReport},
		{"day-book", models.ReportKindTransactionSummary},
		{"party-statement", models.ReportKindPartyStatement},
		{"all-parties", models.ReportKindPartyReport},
		{"cash-flow", models.ReportKindCashFlow},
		{"profit-and-loss", models.ReportKindProfitLoss},
		{"stock-summary", models.ReportKindStockSummary},
		{"item-wise-profit", models.ReportKindItemReport},
		{"business-status", models.ReportKindBusinessStatus},
		{"trial-balance", models.ReportKindTrialBalance},
		{"balance-sheet", models.ReportKindBalanceSheet},
		{"gstr-1", models.ReportKindTaxReport},
		{"expense-report", models.ReportKindExpenseReport},
		{"expense-category-report", models.ReportKindExpenseCategory},
		{"expense-item-report", models.ReportKindExpenseItem},
		{"loan-statement", models.ReportKindBusinessStatus},
	}
	for _, tc := range cases {
		if got := Normalize(tc.rawKey); got != tc.want {
			t.Errorf("Normalize(%q) = %q, want %q", tc.rawKey, got, tc.want)
		}
	}
}

func TestNormalizeUnknownKeyDefaults(t *testing.T) {
	for _, rawKey := range []string{"", "no-such-report", "SALE-REPORT", "sale report"} {
		if got := Normalize(rawKey); got != models.ReportKindTransactionSummary {
			t.Errorf("Normalize(%q) = %q, want default transaction-summary", rawKey, got)
		}
	}
}

func TestCatalogIsTotalOverValidKinds(t *testing.T) {
	for _, rawKey := range CatalogKeys() {
		kind := Normalize(rawKey)
		if !kind.Valid() {
			t.Errorf("catalog key %q maps to invalid kind %q", rawKey, kind)
		}
	}
	if len(CatalogKeys()) < 50 {
		t.Errorf("catalog unexpectedly small: %d keys", len(CatalogKeys()))
	}
}
