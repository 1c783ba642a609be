package reports

import (
	"sort"

	"bitbucket.org/mmdatafocus/dashboard_backend/models"
	"github.com/shopspring/decimal"
)

// The pipelines below are pure: they read already-scoped snapshots and derive
// a summary. An empty input is a valid zero-value summary, never an error.

var hundred = decimal.NewFromInt(100)

func SummarizeTransactions(sales []models.Sale, purchases []models.Purchase) TransactionSummaryData {
	totalSales := decimal.Zero
	for _, s := range sales {
		totalSales = totalSales.Add(s.Total)
	}
	totalPurchases := decimal.Zero
	for _, p := range purchases {
		totalPurchases = totalPurchases.Add(p.Total)
	}
	return TransactionSummaryData{
		TotalSales:       totalSales,
		TotalPurchases:   totalPurchases,
		NetProfit:        totalSales.Sub(totalPurchases),
		TransactionCount: len(sales) + len(purchases),
	}
}

func BuildSalesReport(sales []models.Sale) SalesReportData {
	records := make([]models.Sale, len(sales))
	copy(records, sales)
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Date.After(records[j].Date)
	})
	total := decimal.Zero
	for _, s := range records {
		total = total.Add(s.Total)
	}
	average := decimal.Zero
	if len(records) > 0 {
		average = total.Div(decimal.NewFromInt(int64(len(records))))
	}
	return SalesReportData{Records: records, Total: total, Average: average, Count: len(records)}
}

func BuildPurchasesReport(purchases []models.Purchase) PurchasesReportData {
	records := make([]models.Purchase, len(purchases))
	copy(records, purchases)
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Date.After(records[j].Date)
	})
	total := decimal.Zero
	for _, p := range records {
		total = total.Add(p.Total)
	}
	average := decimal.Zero
	if len(records) > 0 {
		average = total.Div(decimal.NewFromInt(int64(len(records))))
	}
	return PurchasesReportData{Records: records, Total: total, Average: average, Count: len(records)}
}

// BuildPartyStatement reads each party's outstanding balance in the party's
// own direction: a customer balance is receivable, a supplier balance is
// payable. Negative balances are ignored for the side they do not belong to.
func BuildPartyStatement(parties []models.Party) PartyStatementData {
	out := PartyStatementData{
		Parties:          make([]PartyBalanceLine, 0, len(parties)),
		TotalReceivables: decimal.Zero,
		TotalPayables:    decimal.Zero,
	}
	for _, p := range parties {
		line := PartyBalanceLine{
			PartyId:    p.ID,
			Name:       p.Name,
			Type:       p.Type,
			Receivable: decimal.Zero,
			Payable:    decimal.Zero,
		}
		if p.Type == models.PartyTypeCustomer && p.Balance.IsPositive() {
			line.Receivable = p.Balance
			out.TotalReceivables = out.TotalReceivables.Add(p.Balance)
		}
		if p.Type == models.PartyTypeSupplier && p.Balance.IsPositive() {
			line.Payable = p.Balance
			out.TotalPayables = out.TotalPayables.Add(p.Balance)
		}
		out.Parties = append(out.Parties, line)
	}
	out.NetBalance = out.TotalReceivables.Sub(out.TotalPayables)
	return out
}

// BuildCashFlow counts sales and income as inflow, purchases, expenses and
// negative adjustments as outflow. Positive adjustments do not move either
// side.
func BuildCashFlow(movements []models.CashTransaction) CashFlowData {
	inflow := decimal.Zero
	outflow := decimal.Zero
	for _, m := range movements {
		switch m.Type {
		case models.CashTransactionTypeSale, models.CashTransactionTypeIncome:
			inflow = inflow.Add(m.Amount)
		case models.CashTransactionTypePurchase, models.CashTransactionTypeExpense:
			outflow = outflow.Add(m.Amount)
		case models.CashTransactionTypeAdjustment:
			if m.Amount.IsNegative() {
				outflow = outflow.Add(m.Amount.Neg())
			}
		}
	}
	return CashFlowData{Inflow: inflow, Outflow: outflow, NetFlow: inflow.Sub(outflow)}
}

func BuildProfitLoss(sales []models.Sale, purchases []models.Purchase, expenses []models.Expense) ProfitLossData {
	revenue := decimal.Zero
	for _, s := range sales {
		revenue = revenue.Add(s.Total)
	}
	costs := decimal.Zero
	for _, p := range purchases {
		costs = costs.Add(p.Total)
	}
	for _, e := range expenses {
		costs = costs.Add(e.Amount)
	}
	grossProfit := revenue.Sub(costs)
	margin := decimal.Zero
	if revenue.IsPositive() {
		margin = grossProfit.Div(revenue).Mul(hundred)
	}
	return ProfitLossData{Revenue: revenue, Costs: costs, GrossProfit: grossProfit, ProfitMargin: margin}
}

func BuildStockSummary(items []models.Item) StockSummaryData {
	out := StockSummaryData{
		Items:           make([]ItemStockLine, 0, len(items)),
		TotalStockValue: decimal.Zero,
	}
	for _, it := range items {
		status := it.StockStatus()
		value := it.CurrentStock.Mul(it.SalePrice)
		if it.CurrentStock.IsNegative() {
			value = decimal.Zero
		}
		out.Items = append(out.Items, ItemStockLine{
			ItemId:       it.ID,
			Name:         it.Name,
			CurrentStock: it.CurrentStock,
			SalePrice:    it.SalePrice,
			StockValue:   value,
			Status:       status,
		})
		out.TotalStockValue = out.TotalStockValue.Add(value)
		switch status {
		case models.StockStatusLowStock:
			out.LowStockCount++
		case models.StockStatusOutOfStock:
			out.OutOfStockCount++
		}
	}
	return out
}

func BuildBusinessStatus(
	movements []models.CashTransaction,
	banks []models.BankAccount,
	parties []models.Party,
	loans []models.LoanAccount,
	cheques []models.Cheque,
) BusinessStatusData {
	cashFlow := BuildCashFlow(movements)
	cash := cashFlow.NetFlow

	bank := decimal.Zero
	for _, b := range banks {
		bank = bank.Add(b.Balance)
	}

	statement := BuildPartyStatement(parties)

	loanOutstanding := decimal.Zero
	for _, l := range loans {
		loanOutstanding = loanOutstanding.Add(l.Outstanding)
	}
	openCheques := decimal.Zero
	for _, c := range cheques {
		if c.Status == models.ChequeStatusOpen {
			openCheques = openCheques.Add(c.Amount)
		}
	}

	assets := cash.Add(bank).Add(statement.TotalReceivables)
	liabilities := statement.TotalPayables
	return BusinessStatusData{
		Cash:            cash,
		Bank:            bank,
		Receivables:     statement.TotalReceivables,
		Payables:        liabilities,
		Assets:          assets,
		Liabilities:     liabilities,
		Equity:          assets.Sub(liabilities),
		LoanOutstanding: loanOutstanding,
		OpenCheques:     openCheques,
	}
}

func BuildTaxReport(sales []models.Sale, purchases []models.Purchase) TaxReportData {
	taxableSales := decimal.Zero
	for _, s := range sales {
		taxableSales = taxableSales.Add(s.Total)
	}
	taxablePurchases := decimal.Zero
	for _, p := range purchases {
		taxablePurchases = taxablePurchases.Add(p.Total)
	}
	return TaxReportData{
		TaxableSales:     taxableSales,
		TaxablePurchases: taxablePurchases,
		NetTaxable:       taxableSales.Sub(taxablePurchases),
	}
}

// ExpenseGroupBy selects the expense grouping dimension.
type ExpenseGroupBy int

const (
	ExpenseGroupByCategory ExpenseGroupBy = iota
	ExpenseGroupByItem
)

func BuildExpenseReport(expenses []models.Expense, groupBy ExpenseGroupBy) ExpenseReportData {
	grandTotal := decimal.Zero
	totals := map[string]*ExpenseGroup{}
	order := []string{}
	for _, e := range expenses {
		name := e.Category
		if groupBy == ExpenseGroupByItem {
			name = e.ItemName
		}
		if name == "" {
			name = "Uncategorized"
		}
		g, ok := totals[name]
		if !ok {
			g = &ExpenseGroup{Name: name, Total: decimal.Zero}
			totals[name] = g
			order = append(order, name)
		}
		g.Total = g.Total.Add(e.Amount)
		g.Count++
		grandTotal = grandTotal.Add(e.Amount)
	}

	out := ExpenseReportData{Groups: make([]ExpenseGroup, 0, len(order)), GrandTotal: grandTotal}
	sort.Strings(order)
	for _, name := range order {
		g := totals[name]
		g.GroupPercentage = decimal.Zero
		if grandTotal.IsPositive() {
			g.GroupPercentage = g.Total.Div(grandTotal).Mul(hundred)
		}
		out.Groups = append(out.Groups, *g)
	}
	return out
}
