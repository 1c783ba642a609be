package reports

import (
	"testing"
	"time"

	"bitbucket.org/mmdatafocus/dashboard_backend/models"
	"github.com/shopspring/decimal"
)

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

func day(offset int) time.Time {
	return time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, offset)
}

func TestSummarizeTransactions(t *testing.T) {
	sales := []models.Sale{{ID: 1, Total: d("1000"), Date: day(0)}}
	purchases := []models.Purchase{{ID: 1, Total: d("400"), Date: day(1)}}

	got := SummarizeTransactions(sales, purchases)
	if !got.TotalSales.Equal(d("1000")) {
		t.Errorf("TotalSales = %s, want 1000", got.TotalSales)
	}
	if !got.TotalPurchases.Equal(d("400")) {
		t.Errorf("TotalPurchases = %s, want 400", got.TotalPurchases)
	}
	if !got.NetProfit.Equal(d("600")) {
		t.Errorf("NetProfit = %s, want 600", got.NetProfit)
	}
	if got.TransactionCount != 2 {
		t.Errorf("TransactionCount = %d, want 2", got.TransactionCount)
	}
}

func TestSummarizeTransactionsEmpty(t *testing.T) {
	got := SummarizeTransactions(nil, nil)
	if !got.TotalSales.IsZero() || !got.TotalPurchases.IsZero() || !got.NetProfit.IsZero() || got.TransactionCount != 0 {
		t.Errorf("empty dataset should yield a zero summary, got %+v", got)
	}
}

func TestBuildSalesReportSortsAndAverages(t *testing.T) {
	sales := []models.Sale{
		{ID: 1, Total: d("100"), Date: day(0)},
		{ID: 2, Total: d("300"), Date: day(2)},
		{ID: 3, Total: d("200"), Date: day(1)},
	}
	got := BuildSalesReport(sales)
	if got.Count != 3 || !got.Total.Equal(d("600")) || !got.Average.Equal(d("200")) {
		t.Fatalf("total/average/count = %s/%s/%d, want 600/200/3", got.Total, got.Average, got.Count)
	}
	for i := 1; i < len(got.Records); i++ {
		if got.Records[i].Date.After(got.Records[i-1].Date) {
			t.Fatalf("records not sorted date descending: %v", got.Records)
		}
	}
	// input untouched
	if sales[0].ID != 1 || sales[1].ID != 2 {
		t.Error("input slice was reordered")
	}
}

func TestBuildSalesReportEmptyAverage(t *testing.T) {
	got := BuildSalesReport(nil)
	if !got.Average.IsZero() || got.Count != 0 {
		t.Errorf("empty report average = %s count = %d, want 0/0", got.Average, got.Count)
	}
}

func TestBuildPartyStatement(t *testing.T) {
	parties := []models.Party{
		{ID: 1, Name: "Aung", Type: models.PartyTypeCustomer, Balance: d("500")},
		{ID: 2, Name: "Bo", Type: models.PartyTypeSupplier, Balance: d("200")},
		{ID: 3, Name: "Cho", Type: models.PartyTypeCustomer, Balance: d("-50")},
	}
	got := BuildPartyStatement(parties)
	if !got.TotalReceivables.Equal(d("500")) {
		t.Errorf("TotalReceivables = %s, want 500", got.TotalReceivables)
	}
	if !got.TotalPayables.Equal(d("200")) {
		t.Errorf("TotalPayables = %s, want 200", got.TotalPayables)
	}
	if !got.NetBalance.Equal(d("300")) {
		t.Errorf("NetBalance = %s, want 300", got.NetBalance)
	}
	if len(got.Parties) != 3 {
		t.Errorf("expected a line per party, got %d", len(got.Parties))
	}
}

func TestBuildCashFlow(t *testing.T) {
	movements := []models.CashTransaction{
		{Type: models.CashTransactionTypeSale, Amount: d("1000")},
		{Type: models.CashTransactionTypeIncome, Amount: d("200")},
		{Type: models.CashTransactionTypePurchase, Amount: d("400")},
		{Type: models.CashTransactionTypeExpense, Amount: d("100")},
		{Type: models.CashTransactionTypeAdjustment, Amount: d("-50")},
		{Type: models.CashTransactionTypeAdjustment, Amount: d("70")},
	}
	got := BuildCashFlow(movements)
	if !got.Inflow.Equal(d("1200")) {
		t.Errorf("Inflow = %s, want 1200", got.Inflow)
	}
	if !got.Outflow.Equal(d("550")) {
		t.Errorf("Outflow = %s, want 550", got.Outflow)
	}
	if !got.NetFlow.Equal(d("650")) {
		t.Errorf("NetFlow = %s, want 650", got.NetFlow)
	}
}

func TestBuildProfitLoss(t *testing.T) {
	sales := []models.Sale{{Total: d("1000")}}
	purchases := []models.Purchase{{Total: d("300")}}
	expenses := []models.Expense{{Amount: d("200")}}

	got := BuildProfitLoss(sales, purchases, expenses)
	if !got.Revenue.Equal(d("1000")) || !got.Costs.Equal(d("500")) || !got.GrossProfit.Equal(d("500")) {
		t.Fatalf("revenue/costs/gross = %s/%s/%s", got.Revenue, got.Costs, got.GrossProfit)
	}
	if !got.ProfitMargin.Equal(d("50")) {
		t.Errorf("ProfitMargin = %s, want 50", got.ProfitMargin)
	}
}

func TestBuildProfitLossZeroRevenue(t *testing.T) {
	got := BuildProfitLoss(nil, []models.Purchase{{Total: d("300")}}, nil)
	if !got.ProfitMargin.IsZero() {
		t.Errorf("ProfitMargin with zero revenue = %s, want 0", got.ProfitMargin)
	}
	if !got.GrossProfit.Equal(d("-300")) {
		t.Errorf("GrossProfit = %s, want -300", got.GrossProfit)
	}
}

func TestBuildStockSummary(t *testing.T) {
	items := []models.Item{
		{ID: 1, Name: "Out", CurrentStock: d("0"), MinimumStock: d("5"), SalePrice: d("10")},
		{ID: 2, Name: "Low", CurrentStock: d("3"), MinimumStock: d("5"), SalePrice: d("10")},
		{ID: 3, Name: "In", CurrentStock: d("20"), MinimumStock: d("5"), SalePrice: d("10")},
	}
	got := BuildStockSummary(items)
	wantStatus := []models.StockStatus{models.StockStatusOutOfStock, models.StockStatusLowStock, models.StockStatusInStock}
	for i, w := range wantStatus {
		if got.Items[i].Status != w {
			t.Errorf("item %d status = %s, want %s", i, got.Items[i].Status, w)
		}
	}
	if got.LowStockCount != 1 || got.OutOfStockCount != 1 {
		t.Errorf("low/out counts = %d/%d, want 1/1", got.LowStockCount, got.OutOfStockCount)
	}
	if !got.TotalStockValue.Equal(d("230")) {
		t.Errorf("TotalStockValue = %s, want 230", got.TotalStockValue)
	}
}

func TestBuildBusinessStatusIdentity(t *testing.T) {
	movements := []models.CashTransaction{{Type: models.CashTransactionTypeSale, Amount: d("1000")}}
	banks := []models.BankAccount{{Balance: d("500")}}
	parties := []models.Party{
		{Type: models.PartyTypeCustomer, Balance: d("300")},
		{Type: models.PartyTypeSupplier, Balance: d("150")},
	}
	loans := []models.LoanAccount{{Outstanding: d("700")}}
	cheques := []models.Cheque{
		{Status: models.ChequeStatusOpen, Amount: d("120")},
		{Status: models.ChequeStatusCleared, Amount: d("999")},
	}

	got := BuildBusinessStatus(movements, banks, parties, loans, cheques)
	if !got.Assets.Equal(d("1800")) {
		t.Errorf("Assets = %s, want 1800", got.Assets)
	}
	if !got.Liabilities.Equal(d("150")) {
		t.Errorf("Liabilities = %s, want 150", got.Liabilities)
	}
	if !got.Assets.Equal(got.Liabilities.Add(got.Equity)) {
		t.Errorf("identity broken: assets %s != liabilities %s + equity %s", got.Assets, got.Liabilities, got.Equity)
	}
	if !got.LoanOutstanding.Equal(d("700")) || !got.OpenCheques.Equal(d("120")) {
		t.Errorf("loan/cheques = %s/%s, want 700/120", got.LoanOutstanding, got.OpenCheques)
	}
}

func TestBuildExpenseReportGrouping(t *testing.T) {
	expenses := []models.Expense{
		{Category: "Utilities", ItemName: "Electricity", Amount: d("300")},
		{Category: "Utilities", ItemName: "Water", Amount: d("100")},
		{Category: "Rent", ItemName: "Office", Amount: d("600")},
	}
	got := BuildExpenseReport(expenses, ExpenseGroupByCategory)
	if !got.GrandTotal.Equal(d("1000")) {
		t.Fatalf("GrandTotal = %s, want 1000", got.GrandTotal)
	}
	byName := map[string]ExpenseGroup{}
	for _, g := range got.Groups {
		byName[g.Name] = g
	}
	if g := byName["Utilities"]; !g.Total.Equal(d("400")) || !g.GroupPercentage.Equal(d("40")) || g.Count != 2 {
		t.Errorf("Utilities = %+v, want total 400, 40%%, count 2", g)
	}
	if g := byName["Rent"]; !g.GroupPercentage.Equal(d("60")) {
		t.Errorf("Rent percentage = %s, want 60", g.GroupPercentage)
	}

	byItem := BuildExpenseReport(expenses, ExpenseGroupByItem)
	if len(byItem.Groups) != 3 {
		t.Errorf("item grouping produced %d groups, want 3", len(byItem.Groups))
	}
}

func TestBuildExpenseReportEmpty(t *testing.T) {
	got := BuildExpenseReport(nil, ExpenseGroupByCategory)
	if len(got.Groups) != 0 || !got.GrandTotal.IsZero() {
		t.Errorf("empty expense report = %+v, want zero summary", got)
	}
}
