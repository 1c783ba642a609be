package reports

import (
	"context"
	"fmt"
	"time"

	"bitbucket.org/mmdatafocus/dashboard_backend/config"
	"bitbucket.org/mmdatafocus/dashboard_backend/models"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// EntityStore is the scoped read surface the local aggregator needs. The
// gorm-backed models.ReportStore satisfies it; tests use in-memory fakes.
type EntityStore interface {
	FetchSales(ctx context.Context, businessId string, from, to time.Time) ([]*models.Sale, error)
	FetchPurchases(ctx context.Context, businessId string, from, to time.Time) ([]*models.Purchase, error)
	FetchParties(ctx context.Context, businessId string) ([]*models.Party, error)
	FetchItems(ctx context.Context, businessId string) ([]*models.Item, error)
	FetchCashTransactions(ctx context.Context, businessId string, from, to time.Time) ([]*models.CashTransaction, error)
	FetchExpenses(ctx context.Context, businessId string, from, to time.Time) ([]*models.Expense, error)
	FetchBankAccounts(ctx context.Context, businessId string) ([]*models.BankAccount, error)
	FetchCheques(ctx context.Context, businessId string) ([]*models.Cheque, error)
	FetchLoanAccounts(ctx context.Context, businessId string) ([]*models.LoanAccount, error)
}

// Dataset is a read-only snapshot of one business's collections, already
// filtered to the requested date range where the entity carries a date.
type Dataset struct {
	Sales            []models.Sale
	Purchases        []models.Purchase
	Parties          []models.Party
	Items            []models.Item
	CashTransactions []models.CashTransaction
	Expenses         []models.Expense
	BankAccounts     []models.BankAccount
	Cheques          []models.Cheque
	LoanAccounts     []models.LoanAccount
}

func (d Dataset) empty() bool {
	return len(d.Sales) == 0 && len(d.Purchases) == 0 && len(d.Parties) == 0 &&
		len(d.Items) == 0 && len(d.CashTransactions) == 0 && len(d.Expenses) == 0 &&
		len(d.BankAccounts) == 0 && len(d.Cheques) == 0 && len(d.LoanAccounts) == 0
}

// LocalAggregator recomputes report payloads from locally held collections
// when the remote service is unavailable. Its output is schema-identical to
// remote results apart from the provenance marker.
type LocalAggregator struct {
	store  EntityStore
	logger *logrus.Logger
}

func NewLocalAggregator(store EntityStore, logger *logrus.Logger) *LocalAggregator {
	if logger == nil {
		logger = config.GetLogger()
	}
	return &LocalAggregator{store: store, logger: logger}
}

// Aggregate loads only the collections the kind needs, then runs the pure
// pipeline over the snapshot. A store failure here is a total generation
// failure for the caller; there is nothing further to fall back to.
func (a *LocalAggregator) Aggregate(ctx context.Context, kind models.ReportKind, businessId string, dr DateRange) (*ReportResult, error) {
	if businessId == "" {
		return nil, ErrScopeMissing
	}

	ds, err := a.load(ctx, kind, businessId, dr)
	if err != nil {
		config.LogError(a.logger, "reports", "Aggregate", "loading local snapshot", map[string]any{
			"businessId": businessId,
			"kind":       kind,
		}, err)
		return nil, fmt.Errorf("local aggregation for %s: %w", kind, err)
	}

	if ds.empty() && config.DemoSampleFallback() {
		ds = sampleDataset()
	}

	return &ReportResult{
		Kind:        kind,
		BusinessId:  businessId,
		DateRange:   dr,
		GeneratedAt: time.Now(),
		Provenance:  ProvenanceLocal,
		Data:        AggregateDataset(kind, ds),
	}, nil
}

func (a *LocalAggregator) load(ctx context.Context, kind models.ReportKind, businessId string, dr DateRange) (Dataset, error) {
	var ds Dataset

	needSales := false
	needPurchases := false
	needParties := false
	needItems := false
	needCash := false
	needExpenses := false
	needBanks := false
	needCheques := false
	needLoans := false

	switch kind {
	case models.ReportKindTransactionSummary, models.ReportKindTaxReport:
		needSales, needPurchases = true, true
	case models.ReportKindSalesReport:
		needSales = true
	case models.ReportKindPurchasesReport:
		needPurchases = true
	case models.ReportKindPartyStatement, models.ReportKindPartyReport:
		needParties = true
	case models.ReportKindCashFlow:
		needCash = true
	case models.ReportKindProfitLoss:
		needSales, needPurchases, needExpenses = true, true, true
	case models.ReportKindItemReport, models.ReportKindStockSummary:
		needItems = true
	case models.ReportKindBusinessStatus, models.ReportKindTrialBalance, models.ReportKindBalanceSheet:
		needCash, needBanks, needParties, needLoans, needCheques = true, true, true, true, true
	case models.ReportKindExpenseReport, models.ReportKindExpenseCategory, models.ReportKindExpenseItem:
		needExpenses = true
	default:
		needSales, needPurchases = true, true
	}

	if needSales {
		rows, err := a.store.FetchSales(ctx, businessId, dr.From, dr.To)
		if err != nil {
			return ds, err
		}
		ds.Sales = derefSales(rows)
	}
	if needPurchases {
		rows, err := a.store.FetchPurchases(ctx, businessId, dr.From, dr.To)
		if err != nil {
			return ds, err
		}
		ds.Purchases = derefPurchases(rows)
	}
	if needParties {
		rows, err := a.store.FetchParties(ctx, businessId)
		if err != nil {
			return ds, err
		}
		ds.Parties = derefParties(rows)
	}
	if needItems {
		rows, err := a.store.FetchItems(ctx, businessId)
		if err != nil {
			return ds, err
		}
		ds.Items = derefItems(rows)
	}
	if needCash {
		rows, err := a.store.FetchCashTransactions(ctx, businessId, dr.From, dr.To)
		if err != nil {
			return ds, err
		}
		ds.CashTransactions = derefCash(rows)
	}
	if needExpenses {
		rows, err := a.store.FetchExpenses(ctx, businessId, dr.From, dr.To)
		if err != nil {
			return ds, err
		}
		ds.Expenses = derefExpenses(rows)
	}
	if needBanks {
		rows, err := a.store.FetchBankAccounts(ctx, businessId)
		if err != nil {
			return ds, err
		}
		ds.BankAccounts = derefBanks(rows)
	}
	if needCheques {
		rows, err := a.store.FetchCheques(ctx, businessId)
		if err != nil {
			return ds, err
		}
		ds.Cheques = derefCheques(rows)
	}
	if needLoans {
		rows, err := a.store.FetchLoanAccounts(ctx, businessId)
		if err != nil {
			return ds, err
		}
		ds.LoanAccounts = derefLoans(rows)
	}
	return ds, nil
}

// AggregateDataset runs the pipeline for a kind over an already-loaded
// snapshot. Pure; completes synchronously with no further I/O.
func AggregateDataset(kind models.ReportKind, ds Dataset) ReportData {
	switch kind {
	case models.ReportKindSalesReport:
		return BuildSalesReport(ds.Sales)
	case models.ReportKindPurchasesReport:
		return BuildPurchasesReport(ds.Purchases)
	case models.ReportKindPartyStatement, models.ReportKindPartyReport:
		return BuildPartyStatement(ds.Parties)
	case models.ReportKindCashFlow:
		return BuildCashFlow(ds.CashTransactions)
	case models.ReportKindProfitLoss:
		return BuildProfitLoss(ds.Sales, ds.Purchases, ds.Expenses)
	case models.ReportKindItemReport, models.ReportKindStockSummary:
		return BuildStockSummary(ds.Items)
	case models.ReportKindBusinessStatus, models.ReportKindTrialBalance, models.ReportKindBalanceSheet:
		return BuildBusinessStatus(ds.CashTransactions, ds.BankAccounts, ds.Parties, ds.LoanAccounts, ds.Cheques)
	case models.ReportKindTaxReport:
		return BuildTaxReport(ds.Sales, ds.Purchases)
	case models.ReportKindExpenseReport, models.ReportKindExpenseCategory:
		return BuildExpenseReport(ds.Expenses, ExpenseGroupByCategory)
	case models.ReportKindExpenseItem:
		return BuildExpenseReport(ds.Expenses, ExpenseGroupByItem)
	default:
		return SummarizeTransactions(ds.Sales, ds.Purchases)
	}
}

func derefSales(rows []*models.Sale) []models.Sale {
	out := make([]models.Sale, 0, len(rows))
	for _, r := range rows {
		out = append(out, *r)
	}
	return out
}

func derefPurchases(rows []*models.Purchase) []models.Purchase {
	out := make([]models.Purchase, 0, len(rows))
	for _, r := range rows {
		out = append(out, *r)
	}
	return out
}

func derefParties(rows []*models.Party) []models.Party {
	out := make([]models.Party, 0, len(rows))
	for _, r := range rows {
		out = append(out, *r)
	}
	return out
}

func derefItems(rows []*models.Item) []models.Item {
	out := make([]models.Item, 0, len(rows))
	for _, r := range rows {
		out = append(out, *r)
	}
	return out
}

func derefCash(rows []*models.CashTransaction) []models.CashTransaction {
	out := make([]models.CashTransaction, 0, len(rows))
	for _, r := range rows {
		out = append(out, *r)
	}
	return out
}

func derefExpenses(rows []*models.Expense) []models.Expense {
	out := make([]models.Expense, 0, len(rows))
	for _, r := range rows {
		out = append(out, *r)
	}
	return out
}

func derefBanks(rows []*models.BankAccount) []models.BankAccount {
	out := make([]models.BankAccount, 0, len(rows))
	for _, r := range rows {
		out = append(out, *r)
	}
	return out
}

func derefCheques(rows []*models.Cheque) []models.Cheque {
	out := make([]models.Cheque, 0, len(rows))
	for _, r := range rows {
		out = append(out, *r)
	}
	return out
}

func derefLoans(rows []*models.LoanAccount) []models.LoanAccount {
	out := make([]models.LoanAccount, 0, len(rows))
	for _, r := range rows {
		out = append(out, *r)
	}
	return out
}

// sampleDataset is a tiny canned snapshot used only when the demo-sample
// feature flag is on and the business has no data yet, so a fresh demo
// account shows non-empty reports.
func sampleDataset() Dataset {
	today := time.Now()
	return Dataset{
		Sales: []models.Sale{
			{ID: 1, InvoiceNo: "INV-0001", PartyName: "Sample Customer", Date: today, Total: decimal.NewFromInt(150000), Status: models.PaymentStatusPaid, PaymentType: models.PaymentTypeCash},
			{ID: 2, InvoiceNo: "INV-0002", PartyName: "Sample Customer", Date: today.AddDate(0, 0, -1), Total: decimal.NewFromInt(80000), Status: models.PaymentStatusUnpaid, PaymentType: models.PaymentTypeCredit},
		},
		Purchases: []models.Purchase{
			{ID: 1, BillNo: "BILL-0001", PartyName: "Sample Supplier", Date: today.AddDate(0, 0, -2), Total: decimal.NewFromInt(60000), Status: models.PaymentStatusPaid, PaymentType: models.PaymentTypeBank},
		},
		Parties: []models.Party{
			{ID: 1, Name: "Sample Customer", Type: models.PartyTypeCustomer, Balance: decimal.NewFromInt(80000)},
			{ID: 2, Name: "Sample Supplier", Type: models.PartyTypeSupplier, Balance: decimal.NewFromInt(25000)},
		},
		Items: []models.Item{
			{ID: 1, Name: "Sample Item", SalePrice: decimal.NewFromInt(5000), CurrentStock: decimal.NewFromInt(12), MinimumStock: decimal.NewFromInt(5)},
		},
		CashTransactions: []models.CashTransaction{
			{ID: 1, Type: models.CashTransactionTypeSale, Date: today, Amount: decimal.NewFromInt(150000)},
			{ID: 2, Type: models.CashTransactionTypeExpense, Date: today, Amount: decimal.NewFromInt(20000)},
		},
		Expenses: []models.Expense{
			{ID: 1, Category: "Utilities", ItemName: "Electricity", Date: today, Amount: decimal.NewFromInt(20000)},
		},
	}
}
